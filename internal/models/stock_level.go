package models

import "time"

// StockLevel is the live on-hand quantity for a product at one location.
type StockLevel struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GroupID   string    `json:"groupid" gorm:"column:groupid;index;not null"`
	Location  string    `json:"location" gorm:"index"`
	Qty       int       `json:"qty"`
	Deleted   int       `json:"deleted" gorm:"default:0"`
	UpdatedAt time.Time `json:"updated_at"`
}
