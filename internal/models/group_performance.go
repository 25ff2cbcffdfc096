package models

import "time"

// GroupPerformance is the externally refreshed trailing-12-month performance
// row per product group, including the Winner/Loser segment.
type GroupPerformance struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	GroupID          string    `json:"groupid" gorm:"column:groupid;uniqueIndex;not null"`
	Segment          string    `json:"segment" gorm:"index"` // Winner, Loser
	AnnualProfit     float64   `json:"annual_profit"`
	SoldQty          int       `json:"sold_qty"`
	AvgProfitPerUnit float64   `json:"avg_profit_per_unit"`
	Owner            string    `json:"owner" gorm:"index"`
	Channel          string    `json:"channel" gorm:"index"`
	UpdatedAt        time.Time `json:"updated_at"`
}
