package models

import "time"

// PriceChangeLog records every applied price change. The engine reads it for
// the cooldown check; the apply step appends to it.
type PriceChangeLog struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	GroupID    string    `json:"groupid" gorm:"column:groupid;index;not null"`
	OldPrice   float64   `json:"old_price"`
	NewPrice   float64   `json:"new_price"`
	Reason     string    `json:"reason"`
	ReviewedBy string    `json:"reviewed_by"` // AUTOMATION or a user name
	ChangeDate time.Time `json:"change_date" gorm:"index"`
	CreatedAt  time.Time `json:"created_at"`
}
