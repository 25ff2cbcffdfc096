package models

import "time"

// Sale is one transaction line from the sales ledger. Quantity is negative
// for returns.
type Sale struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	GroupID   string    `json:"groupid" gorm:"column:groupid;index;not null"`
	Channel   string    `json:"channel" gorm:"index"` // SHP, AMZ
	SoldDate  time.Time `json:"solddate" gorm:"column:solddate;index"`
	Qty       int       `json:"qty"`
	SoldPrice float64   `json:"soldprice" gorm:"column:soldprice"`
	CreatedAt time.Time `json:"created_at"`
}
