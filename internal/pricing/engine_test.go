package pricing

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore serves canned products for engine tests.
type fakeStore struct {
	products    map[string]*ProductData
	lastChanges map[string]time.Time
	loadErr     map[string]error
	panicOn     string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		products:    make(map[string]*ProductData),
		lastChanges: make(map[string]time.Time),
		loadErr:     make(map[string]error),
	}
}

func (s *fakeStore) ListGroupIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.products))
	for id := range s.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *fakeStore) LoadProduct(ctx context.Context, groupID string, asOf time.Time) (*ProductData, error) {
	if groupID == s.panicOn {
		panic("corrupt snapshot row")
	}
	if err := s.loadErr[groupID]; err != nil {
		return nil, err
	}
	p, ok := s.products[groupID]
	if !ok {
		return nil, fmt.Errorf("group %s not found", groupID)
	}
	return p, nil
}

func (s *fakeStore) LastPriceChange(ctx context.Context, groupID string, asOf time.Time) (*time.Time, int, error) {
	if t, ok := s.lastChanges[groupID]; ok {
		return &t, 1, nil
	}
	return nil, 0, nil
}

func stockedProduct(groupID string) *ProductData {
	return &ProductData{
		GroupID:           groupID,
		Cost:              20,
		CurrentPrice:      50,
		Stock:             5,
		Season:            SeasonAny,
		Sales21d:          2,
		Sales30d:          3,
		Sales90d:          10,
		DaysSinceLastSold: 5,
		Snapshots:         snapshotDays(50, []int{1, 1, 1}),
	}
}

func TestEvaluateIsIdempotent(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stockedProduct("AB123")

	first := Evaluate(p, cfg, asOf)
	second := Evaluate(p, cfg, asOf)
	assert.Equal(t, first, second)
}

func TestEvaluateSkipsExcludedProducts(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stockedProduct("AB123")
	p.ExcludeFromAutoPricing = true

	res := Evaluate(p, cfg, asOf)
	assert.True(t, res.Skipped)
	assert.Empty(t, res.Recommendations)
}

func TestEvaluateSkipsUntilReviewDate(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stockedProduct("AB123")
	future := asOf.AddDate(0, 0, 14)
	p.NextReviewDate = &future

	res := Evaluate(p, cfg, asOf)
	assert.True(t, res.Skipped)

	past := asOf.AddDate(0, 0, -1)
	p.NextReviewDate = &past
	res = Evaluate(p, cfg, asOf)
	assert.False(t, res.Skipped)
}

func TestEvaluateSkipsInvalidCost(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stockedProduct("AB123")
	p.Cost = 0

	res := Evaluate(p, cfg, asOf)
	assert.True(t, res.Skipped)
	assert.Equal(t, "invalid cost", res.SkipReason)
}

func TestEvaluateCooldownKeepsActionsOnly(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stockedProduct("AB123")
	recent := asOf.AddDate(0, 0, -2)
	p.LastPriceChange = &recent

	res := Evaluate(p, cfg, asOf)
	assert.False(t, res.Skipped)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, KindAction, res.Recommendations[0].Kind)
}

func TestEvaluateMonthlyChangeLimitKeepsActionsOnly(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stockedProduct("AB123")
	p.PriceChanges30d = cfg.MaxChangesPerMonth

	res := Evaluate(p, cfg, asOf)
	assert.False(t, res.Skipped)
	assert.Equal(t, "monthly change limit reached", res.SkipReason)
	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, KindAction, res.Recommendations[0].Kind)

	// One change below the cap still prices normally.
	p.PriceChanges30d = cfg.MaxChangesPerMonth - 1
	res = Evaluate(p, cfg, asOf)
	assert.Empty(t, res.SkipReason)
	assert.Greater(t, len(res.Recommendations), 1)
}

func TestEvaluateProducesAllKinds(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stockedProduct("AB123")

	res := Evaluate(p, cfg, asOf)
	require.NotEmpty(t, res.Recommendations)

	kinds := make(map[RecKind]bool)
	for _, r := range res.Recommendations {
		kinds[r.Kind] = true
	}
	// Steady demand and recent sales: a price experiment plus the action.
	assert.True(t, kinds[KindPrice])
	assert.True(t, kinds[KindAction])
}

func TestEvaluateGroupDropsPricesOnMidRunChange(t *testing.T) {
	store := newFakeStore()
	store.products["AB123"] = stockedProduct("AB123")
	store.lastChanges["AB123"] = asOf.AddDate(0, 0, -1)
	engine := NewEngine(store, nil)

	// The snapshot was taken before the change landed, so the product itself
	// carries no cooldown; only the re-check sees it.
	res := engine.EvaluateGroup(context.Background(), "AB123", asOf)
	require.NoError(t, res.Err)
	assert.Equal(t, "price change landed mid-run", res.SkipReason)
	for _, r := range res.Recommendations {
		assert.Nil(t, r.Price)
	}
}

func TestEvaluateGroupRecoversFromPanic(t *testing.T) {
	store := newFakeStore()
	store.panicOn = "AB123"
	engine := NewEngine(store, nil)

	res := engine.EvaluateGroup(context.Background(), "AB123", asOf)
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "panic")
}

func TestRunIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	store.products["AA001"] = stockedProduct("AA001")
	store.products["BB002"] = stockedProduct("BB002")
	store.products["CC003"] = stockedProduct("CC003")
	store.loadErr["BB002"] = fmt.Errorf("row gone")
	engine := NewEngine(store, nil)

	result, err := engine.Run(context.Background(), asOf, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Products)
	assert.Equal(t, 1, result.Errors)

	// The healthy products still produced output.
	groups := make(map[string]bool)
	for _, r := range result.Recommendations {
		groups[r.GroupID] = true
	}
	assert.True(t, groups["AA001"])
	assert.True(t, groups["CC003"])
	assert.False(t, groups["BB002"])
}

func TestRunOutputIsDeterministicallyOrdered(t *testing.T) {
	store := newFakeStore()
	for _, id := range []string{"ZZ900", "AA001", "MM500"} {
		store.products[id] = stockedProduct(id)
	}
	cfg := DefaultEngineConfig()
	cfg.Workers = 4
	engine := NewEngine(store, cfg)

	result, err := engine.Run(context.Background(), asOf, nil)
	require.NoError(t, err)

	sorted := sort.SliceIsSorted(result.Recommendations, func(i, j int) bool {
		a, b := result.Recommendations[i], result.Recommendations[j]
		if a.GroupID != b.GroupID {
			return a.GroupID < b.GroupID
		}
		return a.Kind < b.Kind
	})
	assert.True(t, sorted)
}

func TestRunHonorsContextCancellation(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 50; i++ {
		id := fmt.Sprintf("AB%03d", i)
		store.products[id] = stockedProduct(id)
	}
	engine := NewEngine(store, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := engine.Run(ctx, asOf, nil)
	assert.ErrorIs(t, err, context.Canceled)

	// Whatever finished before the cancellation is still handed back.
	require.NotNil(t, result)
	assert.LessOrEqual(t, result.Products, 50)
}

func TestRunInvokesProgressCallback(t *testing.T) {
	store := newFakeStore()
	store.products["AA001"] = stockedProduct("AA001")
	store.products["BB002"] = stockedProduct("BB002")
	engine := NewEngine(store, nil)

	var mu sync.Mutex
	var seen []string
	_, err := engine.Run(context.Background(), asOf, func(res ProductResult) {
		mu.Lock()
		seen = append(seen, res.GroupID)
		mu.Unlock()
	})
	require.NoError(t, err)
	sort.Strings(seen)
	assert.Equal(t, []string{"AA001", "BB002"}, seen)
}
