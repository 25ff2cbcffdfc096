package models

import "time"

// Recommendation is the persisted form of an engine output, written by the
// run commands and consumed by the external apply/sync step. Each run
// replaces the previous run's rows for the same date.
type Recommendation struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	RunDate    time.Time `json:"run_date" gorm:"index"`
	GroupID    string    `json:"groupid" gorm:"column:groupid;index;not null"`
	Kind       string    `json:"kind" gorm:"index"` // price, bucket, burst, action
	Price      *float64  `json:"price"`
	Action     string    `json:"action"`
	ReasonCode string    `json:"reason_code"`
	Reason     string    `json:"reason"`
	Bucket     int       `json:"bucket"`
	BurstTier  int       `json:"burst_tier"`
	OldPrice   float64   `json:"old_price"`
	Margin     float64   `json:"margin"`
	CreatedAt  time.Time `json:"created_at"`
}
