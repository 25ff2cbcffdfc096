package pricing

import (
	"math"
	"time"
)

// Health action labels.
const (
	ActionPriceTooLow    = "PRICE TOO LOW"
	ActionRestock        = "RESTOCK"
	ActionPriceTooHigh   = "PRICE TOO HIGH"
	ActionStockNotMoving = "STOCK NOT MOVING"
	ActionNoSales        = "NO SALES"
	ActionClearance      = "CLEARANCE"
	ActionSalesDropping  = "SALES DROPPING"
	ActionDiscontinue    = "DISCONTINUE"
	ActionReviewCost     = "REVIEW COST/PRICE"
	ActionOK             = "OK"
)

// HealthInput is the declared input set for the health classifier.
type HealthInput struct {
	Segment         Segment
	Brand           string
	Stock           int
	Sales30d        int
	Sales90d        int
	Velocity30      float64 // units/day over 30d
	Velocity90      float64 // units/day over 90d
	DaysOfCover     float64 // stock / 30d velocity, +Inf when velocity is zero
	CurrentPrice    float64
	AvgSoldPrice30d float64
	TrailingProfit  float64
	MarginValue     float64
	SoldQty12m      int
}

type healthRule struct {
	Action string
	Match  func(in HealthInput, cfg *EngineConfig) bool
}

func isPriorityBrand(brand string, cfg *EngineConfig) bool {
	for _, b := range cfg.PriorityBrands {
		if b == brand {
			return true
		}
	}
	return false
}

// HealthRules is the priority-ordered decision tree; first match wins and the
// final rule always matches.
var HealthRules = []healthRule{
	{ActionPriceTooLow, func(in HealthInput, cfg *EngineConfig) bool {
		return isPriorityBrand(in.Brand, cfg) &&
			in.DaysOfCover < cfg.LowCoverDays &&
			in.Velocity30 >= cfg.HighVelocityPerDay
	}},
	{ActionRestock, func(in HealthInput, cfg *EngineConfig) bool {
		return in.DaysOfCover < cfg.LowCoverDays
	}},
	{ActionPriceTooHigh, func(in HealthInput, cfg *EngineConfig) bool {
		return in.AvgSoldPrice30d > 0 &&
			in.CurrentPrice > in.AvgSoldPrice30d*(1+cfg.OverpriceTolerance)
	}},
	{ActionStockNotMoving, func(in HealthInput, cfg *EngineConfig) bool {
		return in.Sales90d == 0 && in.Stock > 0
	}},
	{ActionClearance, func(in HealthInput, cfg *EngineConfig) bool {
		return in.Sales90d == 0 && in.Segment == SegmentLoser
	}},
	{ActionNoSales, func(in HealthInput, cfg *EngineConfig) bool {
		return in.Sales90d == 0
	}},
	{ActionSalesDropping, func(in HealthInput, cfg *EngineConfig) bool {
		return in.Velocity90 > 0 && in.Velocity30 < in.Velocity90/3
	}},
	{ActionDiscontinue, func(in HealthInput, cfg *EngineConfig) bool {
		return in.Segment == SegmentLoser && in.TrailingProfit < 0
	}},
	{ActionReviewCost, func(in HealthInput, cfg *EngineConfig) bool {
		return in.Segment == SegmentLoser &&
			in.MarginValue < cfg.ThinMarginThreshold &&
			in.SoldQty12m >= cfg.MeaningfulVolume
	}},
	{ActionOK, func(in HealthInput, cfg *EngineConfig) bool { return true }},
}

// HealthInputFor derives the classifier's input from a product snapshot.
func HealthInputFor(p *ProductData, cfg *EngineConfig) HealthInput {
	v30 := float64(p.Sales30d) / 30
	v90 := float64(p.Sales90d) / 90
	cover := math.Inf(1)
	if v30 > 0 {
		cover = float64(p.Stock) / v30
	}
	return HealthInput{
		Segment:         p.Segment,
		Brand:           p.Brand,
		Stock:           p.Stock,
		Sales30d:        p.Sales30d,
		Sales90d:        p.Sales90d,
		Velocity30:      v30,
		Velocity90:      v90,
		DaysOfCover:     cover,
		CurrentPrice:    p.CurrentPrice,
		AvgSoldPrice30d: p.AvgSoldPrice30d,
		TrailingProfit:  p.TrailingProfit,
		MarginValue:     NetPrice(p.CurrentPrice, cfg.VATRate, p.TaxInclusive) - p.Cost,
		SoldQty12m:      p.SoldQty12m,
	}
}

// ClassifyHealth turns the product's state into a single recommended action
// label. It never computes a price.
func ClassifyHealth(p *ProductData, cfg *EngineConfig, asOf time.Time) Recommendation {
	in := HealthInputFor(p, cfg)
	action := ActionOK
	for _, rule := range HealthRules {
		if rule.Match(in, cfg) {
			action = rule.Action
			break
		}
	}
	return Recommendation{
		GroupID:     p.GroupID,
		Kind:        KindAction,
		Action:      action,
		ReasonCode:  "HEALTH_" + action,
		Reason:      action,
		OldPrice:    p.CurrentPrice,
		Margin:      Round2(in.MarginValue),
		GeneratedAt: asOf,
	}
}
