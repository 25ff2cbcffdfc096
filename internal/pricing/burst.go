package pricing

import (
	"fmt"
	"time"
)

// burstTier is one (predicate, uplift) pair; the tier list is evaluated
// first-match-wins, strongest burst first.
type burstTier struct {
	Tier   int
	Name   string
	Match  func(unitsToday int, baseline float64) bool
	Uplift float64
}

// BurstTiers grades burst intensity. A product must already satisfy the burst
// condition (>=2 units today and today > 2x baseline) before tiering.
var BurstTiers = []burstTier{
	{1, "High Burst", func(u int, avg float64) bool { return u >= 5 }, 0.05},
	{2, "Burst", func(u int, avg float64) bool { return u >= 3 && u <= 4 && avg < 1 }, 0.02},
	{3, "Medium Strong", func(u int, avg float64) bool { return u == 2 && avg <= 0.3 }, 0.03},
	{4, "Medium", func(u int, avg float64) bool { return avg <= 0.5 }, 0.02},
	{5, "Low Burst", func(u int, avg float64) bool { return true }, 0.01},
}

// BurstStats carries the support fields reported alongside a burst
// recommendation.
type BurstStats struct {
	UnitsToday       int
	Baseline         float64 // 3-day trailing average, excluding today
	Avg14d           float64 // window average, excluding today
	TotalSales14d    int
	DaysWithSales14d int
	Trend            string
	ProfitPerUnit    float64
	NewProfitPerUnit float64
	TotalImpact      float64 // uplift x stock, all units at the new price
}

// DetectBurst flags a sudden demand spike against the short rolling baseline
// and proposes a bounded markup. Returns nil when today's sales are not a
// burst or the ceiling leaves no headroom. This detector never proposes a
// decrease.
func DetectBurst(p *ProductData, cfg *EngineConfig, asOf time.Time) (*Recommendation, *BurstStats) {
	window := windowEnding(p.Snapshots, asOf, cfg.BurstWindowDays)
	if len(window) == 0 {
		return nil, nil
	}
	today := window[len(window)-1]
	if !sameDay(today.Date, asOf) {
		// No snapshot on the run date means no demand to react to.
		return nil, nil
	}

	// Baseline: trailing average over the days immediately before today.
	baseline := 0.0
	n := 0
	for i := len(window) - 2; i >= 0 && n < cfg.BurstBaselineDays; i-- {
		baseline += float64(window[i].UnitsSold)
		n++
	}
	if n > 0 {
		baseline /= float64(n)
	}

	if today.UnitsSold < 2 || float64(today.UnitsSold) <= 2*baseline {
		return nil, nil
	}

	var tier burstTier
	for _, t := range BurstTiers {
		if t.Match(today.UnitsSold, baseline) {
			tier = t
			break
		}
	}

	price := p.CurrentPrice * (1 + tier.Uplift)
	clamped := false
	if p.Ceiling != nil && price > *p.Ceiling {
		price = *p.Ceiling
		clamped = true
	}
	price = Round2(price)
	if price <= p.CurrentPrice {
		// Already at the ceiling; no increase to propose.
		return nil, nil
	}

	stats := burstStats(p, cfg, window, today, baseline, price, tier.Uplift)
	code := fmt.Sprintf("BURST_TIER_%d", tier.Tier)
	if clamped {
		code += "+" + ReasonClampedCeiling
	}
	rec := &Recommendation{
		GroupID:    p.GroupID,
		Kind:       KindBurst,
		Price:      &price,
		BurstTier:  tier.Tier,
		ReasonCode: code,
		Reason: fmt.Sprintf("%s: %d sales today vs %.2f avg, +%.0f%%",
			tier.Name, today.UnitsSold, baseline, tier.Uplift*100),
		OldPrice:    p.CurrentPrice,
		Margin:      Round2(NetPrice(price, cfg.VATRate, p.TaxInclusive) - p.Cost),
		Clamped:     clamped,
		GeneratedAt: asOf,
	}
	return rec, stats
}

// windowEnding filters the series to the days inside (asOf-days, asOf].
func windowEnding(snapshots []DaySnapshot, asOf time.Time, days int) []DaySnapshot {
	cutoff := asOf.AddDate(0, 0, -days)
	out := make([]DaySnapshot, 0, days)
	for _, s := range snapshots {
		if s.Date.After(cutoff) && !s.Date.After(asOf) {
			out = append(out, s)
		}
	}
	return out
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

func burstStats(p *ProductData, cfg *EngineConfig, window []DaySnapshot, today DaySnapshot, baseline, newPrice, uplift float64) *BurstStats {
	total, withSales := 0, 0
	for _, s := range window[:len(window)-1] {
		total += s.UnitsSold
		if s.UnitsSold > 0 {
			withSales++
		}
	}
	avg14 := 0.0
	if n := len(window) - 1; n > 0 {
		avg14 = float64(total) / float64(n)
	}

	cur := NetPrice(p.CurrentPrice, cfg.VATRate, p.TaxInclusive) - p.Cost
	next := NetPrice(newPrice, cfg.VATRate, p.TaxInclusive) - p.Cost
	return &BurstStats{
		UnitsToday:       today.UnitsSold,
		Baseline:         baseline,
		Avg14d:           avg14,
		TotalSales14d:    total,
		DaysWithSales14d: withSales,
		Trend:            trendLabel(avg14),
		ProfitPerUnit:    Round2(cur),
		NewProfitPerUnit: Round2(next),
		TotalImpact:      Round2((next - cur) * float64(p.Stock)),
	}
}

func trendLabel(avg14 float64) string {
	switch {
	case avg14 >= 1:
		return "Strong"
	case avg14 >= 0.5:
		return "Moderate"
	case avg14 >= 0.2:
		return "Stable"
	case avg14 > 0:
		return "Slow"
	}
	return "No sales"
}
