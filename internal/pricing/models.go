package pricing

import (
	"fmt"
	"time"
)

// NeverSoldDays is the days-since-last-sold sentinel for products with no
// recorded sale.
const NeverSoldDays = 9999

// Season classifies a product's selling season.
type Season string

const (
	SeasonWinter Season = "Winter"
	SeasonSummer Season = "Summer"
	SeasonAny    Season = "Any"
)

// Mode is the pricing strategy applied by the selector.
type Mode int

const (
	ModeSteady Mode = iota
	ModeProfit
	ModeClearance
	ModeIgnore
)

func (m Mode) String() string {
	switch m {
	case ModeSteady:
		return "Steady"
	case ModeProfit:
		return "Profit"
	case ModeClearance:
		return "Clearance"
	case ModeIgnore:
		return "Ignore"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode maps a config string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "Steady", "":
		return ModeSteady, nil
	case "Profit":
		return ModeProfit, nil
	case "Clearance":
		return ModeClearance, nil
	case "Ignore":
		return ModeIgnore, nil
	}
	return ModeSteady, fmt.Errorf("invalid mode %q (valid: Ignore, Steady, Profit, Clearance)", s)
}

// Segment is the externally computed Winner/Loser classification based on
// trailing twelve month profit.
type Segment string

const (
	SegmentWinner Segment = "Winner"
	SegmentLoser  Segment = "Loser"
	SegmentNone   Segment = ""
)

// DaySnapshot is one day of observed stock/sales/price for a product.
type DaySnapshot struct {
	Date      time.Time
	Stock     int
	UnitsSold int
	Price     float64
}

// ProductData is the point-in-time read snapshot for one product group.
// Everything the decision logic needs is loaded up front so the rules stay
// pure functions of this struct.
type ProductData struct {
	GroupID string
	Brand   string

	Cost         float64
	Ceiling      *float64 // manufacturer RRP, nil when unknown
	Benchmark    *float64 // competitor benchmark, nil when unknown or stale
	TaxInclusive bool
	Season       Season

	ExcludeFromAutoPricing bool
	NextReviewDate         *time.Time

	CurrentPrice float64
	Stock        int

	// Daily snapshot series, ascending by date.
	Snapshots []DaySnapshot

	// Sales ledger aggregates.
	Sales21d          int
	Sales30d          int
	Sales90d          int
	DaysSinceLastSold int // NeverSoldDays when never sold
	AvgSoldPrice30d   float64

	// Performance segment inputs for the health classifier.
	Segment        Segment
	TrailingProfit float64
	SoldQty12m     int

	// Price change history for the cooldown check.
	LastPriceChange *time.Time
	PriceChanges30d int
}

// RecKind distinguishes the disjoint recommendation types the four rule sets
// produce.
type RecKind string

const (
	KindPrice  RecKind = "price"  // mode-based selector
	KindBucket RecKind = "bucket" // stagnation classifier
	KindBurst  RecKind = "burst"  // burst detector
	KindAction RecKind = "action" // health classifier
)

// Recommendation is the engine's output record for one product. Price
// recommendations carry a proposed price; action recommendations carry the
// label only.
type Recommendation struct {
	GroupID     string     `json:"groupid"`
	Kind        RecKind    `json:"kind"`
	Price       *float64   `json:"price,omitempty"`
	Action      string     `json:"action,omitempty"`
	ReasonCode  string     `json:"reason_code"`
	Reason      string     `json:"reason"`
	Bucket      int        `json:"bucket,omitempty"`
	BurstTier   int        `json:"burst_tier,omitempty"`
	OldPrice    float64    `json:"old_price"`
	Margin      float64    `json:"margin"` // net margin per unit at the proposed price
	Clamped     bool       `json:"clamped"`
	GeneratedAt time.Time  `json:"generated_at"`
}

// ChangeAmount returns the proposed price delta, zero for action-only
// recommendations.
func (r *Recommendation) ChangeAmount() float64 {
	if r.Price == nil {
		return 0
	}
	return *r.Price - r.OldPrice
}

// ChangePercent returns the proposed change as a percentage of the old price.
func (r *Recommendation) ChangePercent() float64 {
	if r.Price == nil || r.OldPrice <= 0 {
		return 0
	}
	return (*r.Price - r.OldPrice) / r.OldPrice * 100
}

// Reason codes recorded on recommendations. Guardrail clamps append to these
// rather than replacing them.
const (
	ReasonNoHistoryReduce  = "NO_HISTORY_REDUCE"
	ReasonOffSeasonCeiling = "OFFSEASON_NO_STOCK_CEILING"
	ReasonOffSeasonUplift  = "OFFSEASON_STALE_UPLIFT"
	ReasonExperimentUp     = "STEADY_DEMAND_EXPERIMENT"
	ReasonBestProfit       = "BEST_DAILY_PROFIT"
	ReasonBestVelocity     = "BEST_VELOCITY"
	ReasonStaleReduce      = "STALE_REDUCE"
	ReasonProfitUplift     = "PROFIT_UPLIFT"
	ReasonClearanceReduce  = "CLEARANCE_REDUCE"
	ReasonCostFloor        = "COST_PLUS_PENNY_FLOOR"
	ReasonClampedFloor     = "CLAMPED_FLOOR"
	ReasonClampedCeiling   = "CLAMPED_CEILING"
	ReasonBenchmarkFloor   = "BENCHMARK_FLOOR"
)
