package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var asOf = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

func stagnantProduct() *ProductData {
	return &ProductData{
		GroupID:           "AB123",
		Cost:              20,
		CurrentPrice:      100,
		Stock:             20,
		DaysSinceLastSold: 90,
	}
}

func TestDeadStockBucket(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stagnantProduct()
	p.DaysSinceLastSold = 200
	p.Stock = 12

	rec := ClassifyStagnation(p, cfg, asOf)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.Bucket)
	assert.Equal(t, KindBucket, rec.Kind)
	assert.InDelta(t, 65.00, *rec.Price, 1e-9)
	assert.Equal(t, "BUCKET_1", rec.ReasonCode)
}

func TestDeadStockMarkdownAtCostIsDropped(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stagnantProduct()
	p.DaysSinceLastSold = 200
	p.Stock = 12
	p.Cost = 29
	p.CurrentPrice = 30

	// 65% of 30 lands under the cost+1 floor, which equals the current
	// price; a markdown that no longer marks down is dropped.
	assert.Nil(t, ClassifyStagnation(p, cfg, asOf))
}

func TestMarketMismatchBucket(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stagnantProduct()
	p.DaysSinceLastSold = 40
	p.CurrentPrice = 60
	p.Benchmark = f64(50)

	rec := ClassifyStagnation(p, cfg, asOf)
	require.NotNil(t, rec)
	assert.Equal(t, 2, rec.Bucket)
	assert.InDelta(t, 49.00, *rec.Price, 1e-9)
}

func TestStockHeavyBucket(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stagnantProduct()

	rec := ClassifyStagnation(p, cfg, asOf)
	require.NotNil(t, rec)
	assert.Equal(t, 3, rec.Bucket)
	assert.InDelta(t, 75.00, *rec.Price, 1e-9)
}

func TestLowMarginBucket(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stagnantProduct()
	p.Stock = 8
	p.CurrentPrice = 24
	p.DaysSinceLastSold = 45

	rec := ClassifyStagnation(p, cfg, asOf)
	require.NotNil(t, rec)
	assert.Equal(t, 4, rec.Bucket)
	assert.InDelta(t, 20.01, *rec.Price, 1e-9)
	assert.Equal(t, ReasonCostFloor, rec.ReasonCode)
}

func TestSlowMoverBucket(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stagnantProduct()
	p.Stock = 8
	p.DaysSinceLastSold = 70

	rec := ClassifyStagnation(p, cfg, asOf)
	require.NotNil(t, rec)
	assert.Equal(t, 5, rec.Bucket)
	assert.InDelta(t, 85.00, *rec.Price, 1e-9)

	// A benchmark close to the current price does not reroute the bucket.
	p.Benchmark = f64(95)
	rec = ClassifyStagnation(p, cfg, asOf)
	require.NotNil(t, rec)
	assert.Equal(t, 5, rec.Bucket)
	assert.InDelta(t, 85.00, *rec.Price, 1e-9)
}

func TestLowStockAndRecentSaleTakeNoAction(t *testing.T) {
	cfg := DefaultEngineConfig()

	p := stagnantProduct()
	p.Stock = 3
	assert.Nil(t, ClassifyStagnation(p, cfg, asOf))

	p = stagnantProduct()
	p.DaysSinceLastSold = 10
	assert.Nil(t, ClassifyStagnation(p, cfg, asOf))
}

func TestEarlyWarningBucket(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stagnantProduct()
	p.DaysSinceLastSold = 45
	p.Benchmark = f64(98)

	rec := ClassifyStagnation(p, cfg, asOf)
	require.NotNil(t, rec)
	assert.Equal(t, 7, rec.Bucket)
	assert.InDelta(t, 90.00, *rec.Price, 1e-9)
}

func TestNeverSoldSentinelHitsDeadStock(t *testing.T) {
	cfg := DefaultEngineConfig()
	p := stagnantProduct()
	p.DaysSinceLastSold = NeverSoldDays

	rec := ClassifyStagnation(p, cfg, asOf)
	require.NotNil(t, rec)
	assert.Equal(t, 1, rec.Bucket)
}

func TestBenchmarkFloorVariant(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.BenchmarkFloor = true
	p := stagnantProduct()
	p.DaysSinceLastSold = 200
	p.Stock = 12
	p.Benchmark = f64(70)

	// 65.00 would undercut the benchmark, so the markdown stops there.
	rec := ClassifyStagnation(p, cfg, asOf)
	require.NotNil(t, rec)
	assert.InDelta(t, 70.00, *rec.Price, 1e-9)
	assert.Contains(t, rec.ReasonCode, ReasonBenchmarkFloor)
}
