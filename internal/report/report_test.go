package report

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"price-engine/internal/pricing"
)

var runDate = time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

func sampleChanges() []Change {
	return []Change{
		{GroupID: "AB123", Brand: "Alpine", OldPrice: 50, NewPrice: 52.50, Source: "burst", ReasonCode: "BURST_TIER_1", Reason: "5 sales today"},
		{GroupID: "CD456", Brand: "Other", OldPrice: 100, NewPrice: 65, Source: "bucket", ReasonCode: "BUCKET_1", Reason: "dead stock"},
	}
}

func TestChangeSheetRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "changes.xlsx")
	require.NoError(t, WriteChangeSheet(path, runDate, sampleChanges()))

	// Nothing is approved on a freshly generated sheet.
	changes, err := ReadChangeSheet(path)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "AB123", changes[0].GroupID)
	assert.InDelta(t, 52.50, changes[0].NewPrice, 1e-9)
	assert.False(t, changes[0].Approved)
	assert.False(t, changes[1].Approved)

	// Mark the first row approved the way a reviewer would.
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue("Price Changes", "I2", "y"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	changes, err = ReadChangeSheet(path)
	require.NoError(t, err)
	assert.True(t, changes[0].Approved)
	assert.False(t, changes[1].Approved)
}

func TestApprovedMarkers(t *testing.T) {
	for _, v := range []string{"y", "Y", "yes", "x", "TRUE", "1", " approved "} {
		assert.True(t, approved(v), v)
	}
	for _, v := range []string{"", "n", "no", "0", "maybe"} {
		assert.False(t, approved(v), v)
	}
}

func TestWriteBulkReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bulk.xlsx")
	price := 49.00
	recs := []pricing.Recommendation{
		{GroupID: "AB123", Kind: pricing.KindPrice, Price: &price, OldPrice: 50, ReasonCode: "NO_HISTORY_REDUCE"},
		{GroupID: "CD456", Kind: pricing.KindAction, Action: "RESTOCK", OldPrice: 40, ReasonCode: "HEALTH_RESTOCK"},
	}
	require.NoError(t, WriteBulkReport(path, runDate, recs))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Recommendations")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "GroupID", rows[0][0])
	assert.Equal(t, "AB123", rows[1][0])
	assert.Equal(t, "price", rows[1][1])
	assert.Equal(t, "CD456", rows[2][0])
	assert.Equal(t, "RESTOCK", rows[2][5])
}

func TestWriteBurstReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bursts.xlsx")
	price := 52.50
	entries := []BurstEntry{{
		Rec: pricing.Recommendation{
			GroupID: "AB123", Kind: pricing.KindBurst, Price: &price,
			OldPrice: 50, BurstTier: 1, Reason: "5 sales today",
		},
		Stats: pricing.BurstStats{
			UnitsToday: 5, Baseline: 0.33, Avg14d: 0.6, Trend: "Moderate",
			ProfitPerUnit: 30, NewProfitPerUnit: 32.5, TotalImpact: 25,
		},
	}}
	require.NoError(t, WriteBurstReport(path, runDate, entries))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Sales Bursts")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "AB123", rows[1][0])
	assert.Equal(t, "Moderate", rows[1][4])
}
