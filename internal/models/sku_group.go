package models

import "time"

// SKUGroup is the catalog master row for one sellable product family.
type SKUGroup struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	GroupID string `json:"groupid" gorm:"column:groupid;uniqueIndex;not null"`
	Brand   string `json:"brand" gorm:"index"`

	Cost float64 `json:"cost" gorm:"not null"`
	// Manufacturer ceiling price (RRP); hard upper bound on recommendations.
	RRP *float64 `json:"rrp"`
	// Competitor benchmark price with its observation date; stale benchmarks
	// are treated as unknown.
	Lowbench     *float64   `json:"lowbench"`
	LowbenchDate *time.Time `json:"lowbench_date"`

	// Tax=1 means the price is VAT-inclusive.
	Tax    int    `json:"tax" gorm:"default:0"`
	Season string `json:"season" gorm:"default:Any"` // Winter, Summer, Any

	ShopifyPrice float64 `json:"shopifyprice"`

	ExcludeFromAutoPricing bool       `json:"exclude_from_auto_pricing" gorm:"default:false"`
	NextReviewDate         *time.Time `json:"next_review_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
