package pricing

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"
)

// Store is the catalog/warehouse read contract. The engine takes a
// point-in-time snapshot through it at the start of a run; decision logic
// never touches it directly.
type Store interface {
	// ListGroupIDs returns every sellable product group.
	ListGroupIDs(ctx context.Context) ([]string, error)
	// LoadProduct assembles the full read snapshot for one group.
	LoadProduct(ctx context.Context, groupID string, asOf time.Time) (*ProductData, error)
	// LastPriceChange returns the most recent logged change date (nil when
	// none) and the change count in the 30 days before asOf. Used to re-check
	// the cooldown immediately before a recommendation is handed over.
	LastPriceChange(ctx context.Context, groupID string, asOf time.Time) (*time.Time, int, error)
}

// Engine evaluates the whole catalog once per run. Products are independent,
// so the run fans out over a bounded worker pool; a failure on one product is
// logged and the rest continue.
type Engine struct {
	store Store
	cfg   *EngineConfig
}

func NewEngine(store Store, cfg *EngineConfig) *Engine {
	if cfg == nil {
		cfg = DefaultEngineConfig()
	}
	return &Engine{store: store, cfg: cfg}
}

func (e *Engine) Config() *EngineConfig { return e.cfg }

// ProductResult is the outcome of evaluating one product.
type ProductResult struct {
	GroupID         string
	Recommendations []Recommendation
	Skipped         bool
	SkipReason      string
	Err             error
}

// RunResult aggregates one engine pass.
type RunResult struct {
	AsOf            time.Time
	Products        int
	Skipped         int
	Errors          int
	Recommendations []Recommendation
	SkipReasons     map[string]string
}

// Evaluate runs all four rule sets against one product snapshot. It is a pure
// function of the snapshot, the config and the as-of date: identical inputs
// produce identical output.
func Evaluate(p *ProductData, cfg *EngineConfig, asOf time.Time) ProductResult {
	res := ProductResult{GroupID: p.GroupID}

	if p.ExcludeFromAutoPricing {
		res.Skipped = true
		res.SkipReason = "excluded from auto-pricing"
		return res
	}
	if p.NextReviewDate != nil && p.NextReviewDate.After(asOf) {
		res.Skipped = true
		res.SkipReason = fmt.Sprintf("review date %s not reached", p.NextReviewDate.Format("2006-01-02"))
		return res
	}
	if p.Cost <= 0 {
		res.Skipped = true
		res.SkipReason = "invalid cost"
		return res
	}

	// Action classification runs regardless of the cooldown.
	res.Recommendations = append(res.Recommendations, ClassifyHealth(p, cfg, asOf))

	if CooldownActive(p.LastPriceChange, cfg.CooldownDays, asOf) {
		res.SkipReason = "price change cooldown active"
		return res
	}
	if cfg.MaxChangesPerMonth > 0 && p.PriceChanges30d >= cfg.MaxChangesPerMonth {
		res.SkipReason = "monthly change limit reached"
		return res
	}

	if rec := SelectPrice(p, cfg, asOf); rec != nil {
		res.Recommendations = append(res.Recommendations, *rec)
	}
	if rec := ClassifyStagnation(p, cfg, asOf); rec != nil {
		res.Recommendations = append(res.Recommendations, *rec)
	}
	if rec, _ := DetectBurst(p, cfg, asOf); rec != nil {
		res.Recommendations = append(res.Recommendations, *rec)
	}
	return res
}

// EvaluateGroup loads and evaluates a single product, re-checking the
// cooldown against the store before returning any price proposal.
func (e *Engine) EvaluateGroup(ctx context.Context, groupID string, asOf time.Time) (res ProductResult) {
	defer func() {
		if r := recover(); r != nil {
			res = ProductResult{GroupID: groupID, Err: fmt.Errorf("panic evaluating %s: %v", groupID, r)}
		}
	}()

	p, err := e.store.LoadProduct(ctx, groupID, asOf)
	if err != nil {
		return ProductResult{GroupID: groupID, Err: fmt.Errorf("load product %s: %w", groupID, err)}
	}
	res = Evaluate(p, e.cfg, asOf)
	if hasPriceProposal(res.Recommendations) {
		// A change may have landed mid-run; drop rather than overwrite.
		last, _, err := e.store.LastPriceChange(ctx, groupID, asOf)
		if err != nil {
			return ProductResult{GroupID: groupID, Err: fmt.Errorf("recheck cooldown %s: %w", groupID, err)}
		}
		if CooldownActive(last, e.cfg.CooldownDays, asOf) {
			res.Recommendations = actionsOnly(res.Recommendations)
			res.SkipReason = "price change landed mid-run"
		}
	}
	return res
}

func hasPriceProposal(recs []Recommendation) bool {
	for _, r := range recs {
		if r.Price != nil {
			return true
		}
	}
	return false
}

func actionsOnly(recs []Recommendation) []Recommendation {
	out := recs[:0]
	for _, r := range recs {
		if r.Price == nil {
			out = append(out, r)
		}
	}
	return out
}

// Run evaluates the whole catalog for the as-of date. Progress can be
// observed through the optional callback, invoked once per product.
func (e *Engine) Run(ctx context.Context, asOf time.Time, onResult func(ProductResult)) (*RunResult, error) {
	groupIDs, err := e.store.ListGroupIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list product groups: %w", err)
	}
	log.Printf("engine run started: %d products, mode=%s, as of %s",
		len(groupIDs), e.cfg.Mode, asOf.Format("2006-01-02"))

	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan string)
	var wg sync.WaitGroup
	var mu sync.Mutex
	result := &RunResult{AsOf: asOf, SkipReasons: make(map[string]string)}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for groupID := range jobs {
				res := e.EvaluateGroup(ctx, groupID, asOf)
				mu.Lock()
				result.Products++
				switch {
				case res.Err != nil:
					result.Errors++
					log.Printf("skip %s: %v", groupID, res.Err)
				case res.Skipped:
					result.Skipped++
					result.SkipReasons[groupID] = res.SkipReason
				default:
					if res.SkipReason != "" {
						result.SkipReasons[groupID] = res.SkipReason
					}
					result.Recommendations = append(result.Recommendations, res.Recommendations...)
				}
				mu.Unlock()
				if onResult != nil {
					onResult(res)
				}
			}
		}()
	}

	for _, id := range groupIDs {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			// Hand back what finished; the caller decides what to keep.
			sortRecommendations(result.Recommendations)
			return result, ctx.Err()
		case jobs <- id:
		}
	}
	close(jobs)
	wg.Wait()

	// Deterministic output order regardless of worker interleaving.
	sortRecommendations(result.Recommendations)

	log.Printf("engine run complete: %d products, %d recommendations, %d skipped, %d errors",
		result.Products, len(result.Recommendations), result.Skipped, result.Errors)
	return result, nil
}

func sortRecommendations(recs []Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		a, b := recs[i], recs[j]
		if a.GroupID != b.GroupID {
			return a.GroupID < b.GroupID
		}
		return a.Kind < b.Kind
	})
}
