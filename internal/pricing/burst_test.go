package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// burstProduct builds a snapshot series whose last day is the as-of date.
func burstProduct(unitsPerDay []int) *ProductData {
	p := &ProductData{
		GroupID:      "AB123",
		Cost:         20,
		CurrentPrice: 50,
		Stock:        10,
	}
	base := asOf.AddDate(0, 0, -(len(unitsPerDay) - 1))
	for i, u := range unitsPerDay {
		p.Snapshots = append(p.Snapshots, DaySnapshot{
			Date: base.AddDate(0, 0, i), Stock: 10, UnitsSold: u, Price: 50,
		})
	}
	return p
}

func TestDetectBurstHighTier(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := burstProduct([]int{0, 0, 0, 1, 0, 0, 6})

	rec, stats := DetectBurst(p, cfg, asOf)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.BurstTier)
	assert.InDelta(t, 52.50, *rec.Price, 1e-9)
	assert.Equal(t, KindBurst, rec.Kind)

	require.NotNil(t, stats)
	assert.Equal(t, 6, stats.UnitsToday)
	assert.InDelta(t, 1.0/3.0, stats.Baseline, 1e-9)
}

func TestDetectBurstCapsAtCeiling(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := burstProduct([]int{0, 0, 0, 6})
	p.Ceiling = f64(52)

	rec, _ := DetectBurst(p, cfg, asOf)
	require.NotNil(t, rec)
	assert.InDelta(t, 52.00, *rec.Price, 1e-9)
	assert.True(t, rec.Clamped)
	assert.Contains(t, rec.ReasonCode, ReasonClampedCeiling)
}

func TestDetectBurstNoHeadroom(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := burstProduct([]int{0, 0, 0, 6})
	p.Ceiling = f64(50)

	rec, stats := DetectBurst(p, cfg, asOf)
	assert.Nil(t, rec)
	assert.Nil(t, stats)
}

func TestDetectBurstRequiresSpike(t *testing.T) {
	cfg := DefaultEngineConfig()

	// One sale today is never a burst.
	rec, _ := DetectBurst(burstProduct([]int{0, 0, 0, 1}), cfg, asOf)
	assert.Nil(t, rec)

	// Two sales against a busy baseline is within normal variation.
	rec, _ = DetectBurst(burstProduct([]int{2, 1, 2, 2}), cfg, asOf)
	assert.Nil(t, rec)

	// No history at all.
	rec, _ = DetectBurst(&ProductData{GroupID: "AB123", Cost: 20, CurrentPrice: 50}, cfg, asOf)
	assert.Nil(t, rec)
}

func TestDetectBurstIgnoresOldSpikes(t *testing.T) {
	cfg := DefaultEngineConfig()

	// A spike on the last recorded day of a series that ended a year ago is
	// history, not a burst.
	p := burstProduct([]int{0, 0, 0, 6})
	for i := range p.Snapshots {
		p.Snapshots[i].Date = p.Snapshots[i].Date.AddDate(-1, 0, 0)
	}
	rec, stats := DetectBurst(p, cfg, asOf)
	assert.Nil(t, rec)
	assert.Nil(t, stats)

	// Same for a series that merely stops a few days short of the run date.
	p = burstProduct([]int{0, 0, 0, 6})
	for i := range p.Snapshots {
		p.Snapshots[i].Date = p.Snapshots[i].Date.AddDate(0, 0, -3)
	}
	rec, _ = DetectBurst(p, cfg, asOf)
	assert.Nil(t, rec)
}

func TestWindowEndingFiltersByDate(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := burstProduct([]int{1, 2, 3})
	// Prepend a day far outside the window.
	old := DaySnapshot{Date: asOf.AddDate(0, 0, -100), UnitsSold: 9, Price: 50}
	p.Snapshots = append([]DaySnapshot{old}, p.Snapshots...)

	window := windowEnding(p.Snapshots, asOf, cfg.BurstWindowDays)
	require.Len(t, window, 3)
	assert.Equal(t, 1, window[0].UnitsSold)
	assert.True(t, sameDay(window[2].Date, asOf))
}

func TestDetectBurstTiers(t *testing.T) {
	cfg := DefaultEngineConfig()

	tests := []struct {
		name       string
		units      []int
		wantTier   int
		wantUplift float64
	}{
		{"five today", []int{0, 0, 0, 5}, 1, 0.05},
		{"three on a quiet baseline", []int{0, 1, 0, 3}, 2, 0.02},
		{"two from nothing", []int{0, 0, 0, 2}, 3, 0.03},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := DetectBurst(burstProduct(tt.units), cfg, asOf)
			require.NotNil(t, rec)
			assert.Equal(t, tt.wantTier, rec.BurstTier)
			assert.InDelta(t, Round2(50*(1+tt.wantUplift)), *rec.Price, 1e-9)
		})
	}
}

func TestBurstStatsProfitImpact(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := burstProduct([]int{0, 0, 0, 5})
	p.TaxInclusive = false
	p.Stock = 10

	rec, stats := DetectBurst(p, cfg, asOf)
	require.NotNil(t, rec)
	require.NotNil(t, stats)

	// 50 -> 52.50 on a 20 cost: 30.00/unit becomes 32.50/unit.
	assert.InDelta(t, 30.00, stats.ProfitPerUnit, 1e-9)
	assert.InDelta(t, 32.50, stats.NewProfitPerUnit, 1e-9)
	assert.InDelta(t, 25.00, stats.TotalImpact, 1e-9)
}

func TestTrendLabel(t *testing.T) {
	assert.Equal(t, "Strong", trendLabel(1.2))
	assert.Equal(t, "Moderate", trendLabel(0.6))
	assert.Equal(t, "Stable", trendLabel(0.25))
	assert.Equal(t, "Slow", trendLabel(0.1))
	assert.Equal(t, "No sales", trendLabel(0))
}
