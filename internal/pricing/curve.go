package pricing

import "sort"

// CurvePoint is one historically observed price with its sales performance.
type CurvePoint struct {
	Price               float64
	UnitsSold           int
	DaysObserved        int
	AvgUnitsPerDay      float64
	MarginPerUnit       float64 // net of VAT when the product is tax-inclusive
	AvgDailyGrossProfit float64
}

// BuildCurve aggregates a product's daily snapshots into a price/profit
// curve: one point per distinct price actually charged, ordered by price
// ascending. Snapshots with no positive price are skipped.
func BuildCurve(p *ProductData, cfg *EngineConfig) []CurvePoint {
	type bucket struct {
		units int
		days  int
	}
	byPrice := make(map[float64]*bucket)
	for _, s := range p.Snapshots {
		if s.Price <= 0 {
			continue
		}
		b := byPrice[s.Price]
		if b == nil {
			b = &bucket{}
			byPrice[s.Price] = b
		}
		b.units += s.UnitsSold
		b.days++
	}

	curve := make([]CurvePoint, 0, len(byPrice))
	for price, b := range byPrice {
		margin := NetPrice(price, cfg.VATRate, p.TaxInclusive) - p.Cost
		avgUnits := float64(b.units) / float64(b.days)
		curve = append(curve, CurvePoint{
			Price:               price,
			UnitsSold:           b.units,
			DaysObserved:        b.days,
			AvgUnitsPerDay:      avgUnits,
			MarginPerUnit:       margin,
			AvgDailyGrossProfit: avgUnits * margin,
		})
	}
	sort.Slice(curve, func(i, j int) bool { return curve[i].Price < curve[j].Price })
	return curve
}

// BestByProfit returns the curve point with the highest average daily gross
// profit. The curve is price-ascending, so requiring a strict improvement
// breaks ties in favour of the cheaper point.
func BestByProfit(curve []CurvePoint) (CurvePoint, bool) {
	if len(curve) == 0 {
		return CurvePoint{}, false
	}
	best := curve[0]
	for _, pt := range curve[1:] {
		if pt.AvgDailyGrossProfit > best.AvgDailyGrossProfit {
			best = pt
		}
	}
	return best, true
}

// BestByVelocity returns the curve point with the highest average units per
// day, ties broken by lower price.
func BestByVelocity(curve []CurvePoint) (CurvePoint, bool) {
	if len(curve) == 0 {
		return CurvePoint{}, false
	}
	best := curve[0]
	for _, pt := range curve[1:] {
		if pt.AvgUnitsPerDay > best.AvgUnitsPerDay {
			best = pt
		}
	}
	return best, true
}
