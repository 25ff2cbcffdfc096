package pricing

import (
	"time"

	"price-engine/internal/config"
)

// EngineConfig holds every tunable the rule sets read. Defaults mirror the
// values the business has run with in production.
type EngineConfig struct {
	// Strategy selection
	Mode Mode

	// Guardrails
	MinMarginMultiplier float64 // price floor = cost * this, default 1.10
	VATRate             float64 // applied when the tax-inclusive flag is set
	CooldownDays        int     // suppress re-pricing after a logged change

	// Mode-based selector
	NoHistoryReduction   float64 // no curve data, in-season
	StaleDays            int     // zero-sales window for the unconditional cut
	StaleReduction       float64
	SteadyDemandMin      int     // sales in 30d counting as steady demand
	ExperimentUplift     float64 // upward experiment on steady demand
	ProfitUplift         float64 // Profit mode on top of Steady
	ClearanceReduction   float64 // Clearance mode with no curve data
	OffSeasonCeilingPct  float64 // out-of-season, no stock: fraction of ceiling
	OffSeasonStaleUplift float64 // out-of-season, stock, no 30d sales

	// Stagnation classifier
	BenchmarkFloor      bool // floor markdowns at the benchmark when known
	BenchmarkMaxAgeDays int  // older benchmarks are treated as unknown
	ThinMarginThreshold float64

	// Burst detector
	BurstWindowDays   int
	BurstBaselineDays int

	// Health classifier
	PriorityBrands    []string
	LowCoverDays      float64 // days of stock cover counting as low
	OverpriceTolerance float64 // vs 30d average sold price
	HighVelocityPerDay float64
	MeaningfulVolume   int // 12m units for the review-cost rule

	// Batch / apply limits
	MinPriceChange     float64
	MaxDailyChanges    int
	MaxChangesPerMonth int // per-product cap on logged changes in 30 days
	Workers            int

	// In-season months per season tag. Tags not present are always in season.
	SeasonMonths map[Season][]time.Month
}

// DefaultEngineConfig returns the production defaults.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Mode:                 ModeSteady,
		MinMarginMultiplier:  1.10,
		VATRate:              0.20,
		CooldownDays:         7,
		NoHistoryReduction:   0.02,
		StaleDays:            21,
		StaleReduction:       0.05,
		SteadyDemandMin:      2,
		ExperimentUplift:     0.05,
		ProfitUplift:         0.02,
		ClearanceReduction:   0.05,
		OffSeasonCeilingPct:  0.90,
		OffSeasonStaleUplift: 0.10,
		BenchmarkFloor:       false,
		BenchmarkMaxAgeDays:  90,
		ThinMarginThreshold:  15.0,
		BurstWindowDays:      14,
		BurstBaselineDays:    3,
		PriorityBrands:       nil,
		LowCoverDays:         14,
		OverpriceTolerance:   0.10,
		HighVelocityPerDay:   0.5,
		MeaningfulVolume:     10,
		MinPriceChange:       0.01,
		MaxDailyChanges:      50,
		MaxChangesPerMonth:   4,
		Workers:              8,
		SeasonMonths: map[Season][]time.Month{
			SeasonWinter: {time.October, time.November, time.December, time.January, time.February, time.March},
			SeasonSummer: {time.April, time.May, time.June, time.July, time.August, time.September},
		},
	}
}

// Apply overlays the environment-driven settings onto the defaults.
func (c *EngineConfig) Apply(app *config.Config) error {
	mode, err := ParseMode(app.Mode)
	if err != nil {
		return err
	}
	c.Mode = mode
	if app.CooldownDays > 0 {
		c.CooldownDays = app.CooldownDays
	}
	c.BenchmarkFloor = app.BenchmarkFloor
	if app.MaxDailyChanges > 0 {
		c.MaxDailyChanges = app.MaxDailyChanges
	}
	if len(app.PriorityBrands) > 0 {
		c.PriorityBrands = app.PriorityBrands
	}
	return nil
}
