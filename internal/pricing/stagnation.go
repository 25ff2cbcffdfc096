package pricing

import (
	"fmt"
	"time"
)

// StagnationInput is the declared input set for the bucket classifier, so
// classification stays a pure, repeatable function.
type StagnationInput struct {
	DaysSinceLastSold int
	Stock             int
	MarginValue       float64 // net price minus cost
	Benchmark         *float64
	CurrentPrice      float64
	Cost              float64
}

// stagnationRule is one (predicate, outcome) pair. Suggest returning ok=false
// means the bucket matched but takes no action.
type stagnationRule struct {
	ID      int
	Name    string
	Match   func(in StagnationInput) bool
	Suggest func(in StagnationInput) (price float64, ok bool)
}

func overBenchmark(in StagnationInput) bool {
	return in.Benchmark != nil && in.CurrentPrice >= *in.Benchmark*1.10
}

// StagnationBuckets is the classifier's rule list, evaluated top to bottom
// with first-match-wins semantics. Order is load-bearing.
var StagnationBuckets = []stagnationRule{
	{
		ID:   1,
		Name: "Dead Stock",
		Match: func(in StagnationInput) bool {
			return in.DaysSinceLastSold >= 180 && in.Stock >= 10
		},
		Suggest: func(in StagnationInput) (float64, bool) {
			price := in.CurrentPrice * 0.65
			if floor := in.Cost + 1; price < floor {
				price = floor
			}
			return price, true
		},
	},
	{
		ID:   2,
		Name: "Market Mismatch",
		Match: func(in StagnationInput) bool {
			return overBenchmark(in) && in.DaysSinceLastSold >= 30
		},
		Suggest: func(in StagnationInput) (float64, bool) {
			return *in.Benchmark * 0.98, true
		},
	},
	{
		ID:   3,
		Name: "Stock Heavy",
		Match: func(in StagnationInput) bool {
			return in.Benchmark == nil && in.Stock >= 15 &&
				in.DaysSinceLastSold >= 30 && in.DaysSinceLastSold < 180
		},
		Suggest: func(in StagnationInput) (float64, bool) {
			return in.CurrentPrice * 0.75, true
		},
	},
	{
		ID:   4,
		Name: "Low Margin",
		Match: func(in StagnationInput) bool {
			return in.MarginValue < 15 && in.DaysSinceLastSold >= 30
		},
		Suggest: func(in StagnationInput) (float64, bool) {
			return in.Cost + 0.01, true
		},
	},
	{
		ID:   5,
		Name: "Slow Mover",
		Match: func(in StagnationInput) bool {
			return in.Stock >= 5 && in.Stock <= 14 && in.MarginValue >= 15 &&
				in.DaysSinceLastSold >= 60
		},
		Suggest: func(in StagnationInput) (float64, bool) {
			price := in.CurrentPrice * 0.85
			if in.Benchmark != nil && *in.Benchmark < price {
				price = *in.Benchmark
			}
			return price, true
		},
	},
	{
		ID:   6,
		Name: "Low Stock/Recent",
		Match: func(in StagnationInput) bool {
			return in.Stock <= 4 || in.DaysSinceLastSold < 30
		},
		Suggest: func(in StagnationInput) (float64, bool) {
			return 0, false
		},
	},
	{
		ID:   7,
		Name: "Early Warning",
		Match: func(in StagnationInput) bool {
			return in.Stock >= 15 && in.DaysSinceLastSold >= 30 &&
				in.DaysSinceLastSold < 60 && !overBenchmark(in)
		},
		Suggest: func(in StagnationInput) (float64, bool) {
			return in.CurrentPrice * 0.90, true
		},
	},
}

// StagnationInputFor derives the classifier's input from a product snapshot.
func StagnationInputFor(p *ProductData, cfg *EngineConfig) StagnationInput {
	return StagnationInput{
		DaysSinceLastSold: p.DaysSinceLastSold,
		Stock:             p.Stock,
		MarginValue:       NetPrice(p.CurrentPrice, cfg.VATRate, p.TaxInclusive) - p.Cost,
		Benchmark:         p.Benchmark,
		CurrentPrice:      p.CurrentPrice,
		Cost:              p.Cost,
	}
}

// ClassifyStagnation runs the bucket cascade for an already-stocked product.
// Returns nil when no bucket proposes a markdown. Every suggested price is
// floored at cost as a final step; with the benchmark-floor variant enabled a
// known benchmark also floors the markdown. A markdown that ends up at or
// above the current price is dropped.
func ClassifyStagnation(p *ProductData, cfg *EngineConfig, asOf time.Time) *Recommendation {
	in := StagnationInputFor(p, cfg)
	for _, rule := range StagnationBuckets {
		if !rule.Match(in) {
			continue
		}
		price, ok := rule.Suggest(in)
		if !ok {
			return nil
		}

		code := fmt.Sprintf("BUCKET_%d", rule.ID)
		if rule.ID == 4 {
			// Intentional exception to the 110% floor.
			code = ReasonCostFloor
		}
		if price < in.Cost {
			price = in.Cost
		}
		if cfg.BenchmarkFloor && in.Benchmark != nil && price < *in.Benchmark {
			price = *in.Benchmark
			code += "+" + ReasonBenchmarkFloor
		}
		price = Round2(price)
		if price >= in.CurrentPrice {
			// This classifier only marks down.
			return nil
		}
		return &Recommendation{
			GroupID:     p.GroupID,
			Kind:        KindBucket,
			Price:       &price,
			Bucket:      rule.ID,
			ReasonCode:  code,
			Reason: fmt.Sprintf("%s: %d days since last sale, stock %d",
				rule.Name, in.DaysSinceLastSold, in.Stock),
			OldPrice:    p.CurrentPrice,
			Margin:      Round2(NetPrice(price, cfg.VATRate, p.TaxInclusive) - p.Cost),
			GeneratedAt: asOf,
		}
	}
	return nil
}
