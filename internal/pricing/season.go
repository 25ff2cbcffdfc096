package pricing

import "time"

// GateState is the seasonal/stock state consumed by the mode-based selector.
type GateState int

const (
	GateInSeasonStock GateState = iota
	GateInSeasonNoStock
	GateOffSeasonStock
	GateOffSeasonNoStock
)

func (g GateState) String() string {
	switch g {
	case GateInSeasonStock:
		return "in-season/stock"
	case GateInSeasonNoStock:
		return "in-season/no-stock"
	case GateOffSeasonStock:
		return "out-of-season/stock"
	case GateOffSeasonNoStock:
		return "out-of-season/no-stock"
	}
	return "unknown"
}

// InSeason reports whether a season tag is in season for the as-of date.
// Tags without a configured window (including "Any") are always in season.
func (c *EngineConfig) InSeason(season Season, asOf time.Time) bool {
	months, ok := c.SeasonMonths[season]
	if !ok {
		return true
	}
	m := asOf.Month()
	for _, allowed := range months {
		if m == allowed {
			return true
		}
	}
	return false
}

// Gate derives the selector's gate state for a product.
func (c *EngineConfig) Gate(p *ProductData, asOf time.Time) GateState {
	inSeason := c.InSeason(p.Season, asOf)
	hasStock := p.Stock > 0
	switch {
	case inSeason && hasStock:
		return GateInSeasonStock
	case inSeason:
		return GateInSeasonNoStock
	case hasStock:
		return GateOffSeasonStock
	default:
		return GateOffSeasonNoStock
	}
}
