package models

import "time"

// PriceSnapshot is one (product, day) row of the daily stock/price/sales
// series. Append-only; immutable once written.
type PriceSnapshot struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GroupID   string    `json:"groupid" gorm:"column:groupid;index:idx_snapshot_group_date,unique;not null"`
	Date      time.Time `json:"date" gorm:"index:idx_snapshot_group_date,unique;not null"`
	Stock     int       `json:"stock"`
	UnitsSold int       `json:"units_sold"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
