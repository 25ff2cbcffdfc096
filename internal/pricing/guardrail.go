package pricing

import (
	"math"
	"time"
)

// Round2 rounds to the currency's minor-unit precision.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// NetPrice strips VAT from a tax-inclusive price. Tax-exclusive prices pass
// through unchanged.
func NetPrice(price, vatRate float64, taxInclusive bool) float64 {
	if taxInclusive {
		return price / (1 + vatRate)
	}
	return price
}

// FloorPrice is the minimum acceptable price for a product.
func (c *EngineConfig) FloorPrice(cost float64) float64 {
	return cost * c.MinMarginMultiplier
}

// Clamp forces a candidate price into [floor, ceiling]. A nil ceiling means
// no upper bound. When the floor sits above the ceiling no price satisfies
// both bounds and ok is false; callers must hold rather than emit.
func Clamp(price, floor float64, ceiling *float64) (float64, string, bool) {
	if ceiling != nil && floor > *ceiling {
		return 0, "", false
	}
	if price < floor {
		return floor, ReasonClampedFloor, true
	}
	if ceiling != nil && price > *ceiling {
		return *ceiling, ReasonClampedCeiling, true
	}
	return price, "", true
}

// CooldownActive reports whether the last logged price change falls inside
// the cooldown window as of the given date.
func CooldownActive(lastChange *time.Time, cooldownDays int, asOf time.Time) bool {
	if lastChange == nil || cooldownDays <= 0 {
		return false
	}
	return lastChange.After(asOf.AddDate(0, 0, -cooldownDays))
}
