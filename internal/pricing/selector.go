package pricing

import (
	"fmt"
	"time"
)

// SelectPrice runs the configured strategy mode for one product and returns a
// price recommendation, or nil when the strategy holds. The guardrail clamp
// and rounding are applied to every result.
func SelectPrice(p *ProductData, cfg *EngineConfig, asOf time.Time) *Recommendation {
	switch cfg.Mode {
	case ModeIgnore:
		return nil
	case ModeSteady:
		return finishPrice(p, cfg, asOf, steadyCandidate(p, cfg, asOf))
	case ModeProfit:
		c := steadyCandidate(p, cfg, asOf)
		if c.ok {
			c.price *= 1 + cfg.ProfitUplift
			c.code = ReasonProfitUplift
			c.reason = fmt.Sprintf("steady price +%.0f%% profit uplift", cfg.ProfitUplift*100)
		}
		return finishPrice(p, cfg, asOf, c)
	case ModeClearance:
		return finishPrice(p, cfg, asOf, clearanceCandidate(p, cfg))
	}
	return nil
}

type candidate struct {
	price  float64
	code   string
	reason string
	ok     bool
}

func hold() candidate { return candidate{} }

// steadyCandidate implements the Steady mode precedence order over the
// seasonal/stock gate state.
func steadyCandidate(p *ProductData, cfg *EngineConfig, asOf time.Time) candidate {
	gate := cfg.Gate(p, asOf)
	inSeason := gate == GateInSeasonStock || gate == GateInSeasonNoStock
	floor := cfg.FloorPrice(p.Cost)
	curve := BuildCurve(p, cfg)

	// In-season with no stock always holds.
	if gate == GateInSeasonNoStock {
		return hold()
	}

	// No curve history at all: nudge down in season, hold out of season.
	if len(curve) == 0 {
		if !inSeason {
			return hold()
		}
		price := p.CurrentPrice * (1 - cfg.NoHistoryReduction)
		if price < floor {
			price = floor
		}
		return candidate{
			price:  price,
			code:   ReasonNoHistoryReduce,
			reason: fmt.Sprintf("no sales history, %.0f%% reduction to find demand", cfg.NoHistoryReduction*100),
			ok:     true,
		}
	}

	var c candidate
	switch {
	case gate == GateOffSeasonNoStock:
		// Park the price near the ceiling until stock or season returns.
		if p.Ceiling == nil {
			return hold()
		}
		c = candidate{
			price:  *p.Ceiling * cfg.OffSeasonCeilingPct,
			code:   ReasonOffSeasonCeiling,
			reason: fmt.Sprintf("out of season, no stock: %.0f%% of ceiling", cfg.OffSeasonCeilingPct*100),
			ok:     true,
		}

	case gate == GateOffSeasonStock && p.Sales30d == 0:
		// Escape stale clearance pricing from last season.
		price := p.CurrentPrice * (1 + cfg.OffSeasonStaleUplift)
		if p.Ceiling != nil && price > *p.Ceiling {
			price = *p.Ceiling
		}
		c = candidate{
			price:  price,
			code:   ReasonOffSeasonUplift,
			reason: fmt.Sprintf("out of season, no 30d sales: +%.0f%% capped at ceiling", cfg.OffSeasonStaleUplift*100),
			ok:     true,
		}

	case inSeason && p.Sales30d >= cfg.SteadyDemandMin:
		// Steady demand: experiment upward, falling back to the curve's best
		// point if the experiment would breach a bound.
		price := p.CurrentPrice * (1 + cfg.ExperimentUplift)
		if price < floor || (p.Ceiling != nil && price > *p.Ceiling) {
			best, _ := BestByProfit(curve)
			c = candidate{
				price:  best.Price,
				code:   ReasonBestProfit,
				reason: fmt.Sprintf("best historical price (%.2f/day gross profit)", best.AvgDailyGrossProfit),
				ok:     true,
			}
		} else {
			c = candidate{
				price:  price,
				code:   ReasonExperimentUp,
				reason: fmt.Sprintf("%d sales in 30d: +%.0f%% experiment", p.Sales30d, cfg.ExperimentUplift*100),
				ok:     true,
			}
		}

	case inSeason:
		best, _ := BestByProfit(curve)
		c = candidate{
			price:  best.Price,
			code:   ReasonBestProfit,
			reason: fmt.Sprintf("best historical price (%.2f/day gross profit)", best.AvgDailyGrossProfit),
			ok:     true,
		}

	default:
		// Out of season with stock and recent sales: leave it alone.
		return hold()
	}

	// Unconditional stale cut on top of whatever the steps produced, unless
	// it would breach the floor.
	if inSeason && p.Sales21d == 0 {
		reduced := c.price * (1 - cfg.StaleReduction)
		if reduced >= floor {
			c.price = reduced
			c.code += "+" + ReasonStaleReduce
			c.reason += fmt.Sprintf("; no sales in %dd, extra %.0f%% cut", cfg.StaleDays, cfg.StaleReduction*100)
		}
	}
	return c
}

// clearanceCandidate maximizes velocity rather than profit.
func clearanceCandidate(p *ProductData, cfg *EngineConfig) candidate {
	curve := BuildCurve(p, cfg)
	if best, ok := BestByVelocity(curve); ok {
		return candidate{
			price:  best.Price,
			code:   ReasonBestVelocity,
			reason: fmt.Sprintf("clearance: best velocity price (%.2f units/day)", best.AvgUnitsPerDay),
			ok:     true,
		}
	}
	return candidate{
		price:  p.CurrentPrice * (1 - cfg.ClearanceReduction),
		code:   ReasonClearanceReduce,
		reason: fmt.Sprintf("clearance: no sales history, %.0f%% reduction", cfg.ClearanceReduction*100),
		ok:     true,
	}
}

// finishPrice applies the shared guardrail clamp, rounds, and builds the
// recommendation record. A candidate that lands within MinPriceChange of the
// current price is dropped.
func finishPrice(p *ProductData, cfg *EngineConfig, asOf time.Time, c candidate) *Recommendation {
	if !c.ok {
		return nil
	}
	price, clampCode, ok := Clamp(c.price, cfg.FloorPrice(p.Cost), p.Ceiling)
	if !ok {
		// The margin floor exceeds the ceiling; no price is valid, hold.
		return nil
	}
	price = Round2(price)
	code := c.code
	if clampCode != "" {
		code += "+" + clampCode
	}
	if diff := price - p.CurrentPrice; diff < cfg.MinPriceChange && diff > -cfg.MinPriceChange {
		return nil
	}
	return &Recommendation{
		GroupID:     p.GroupID,
		Kind:        KindPrice,
		Price:       &price,
		ReasonCode:  code,
		Reason:      c.reason,
		OldPrice:    p.CurrentPrice,
		Margin:      Round2(NetPrice(price, cfg.VATRate, p.TaxInclusive) - p.Cost),
		Clamped:     clampCode != "",
		GeneratedAt: asOf,
	}
}
