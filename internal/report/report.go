package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"price-engine/internal/pricing"
)

// Change is one row of the approval sheet: a proposed price change waiting
// for a human to mark it approved.
type Change struct {
	GroupID    string
	Brand      string
	OldPrice   float64
	NewPrice   float64
	Source     string // price, bucket or burst
	ReasonCode string
	Reason     string
	Approved   bool
}

// Delta returns the proposed price movement.
func (c *Change) Delta() float64 { return c.NewPrice - c.OldPrice }

const changeSheet = "Price Changes"

var changeHeader = []string{
	"GroupID", "Brand", "Current Price", "New Price", "Change",
	"Source", "Reason Code", "Reason", "Approve",
}

// WriteChangeSheet writes the approval workbook. The Approve column is left
// empty; the apply step only acts on rows where it has been filled in.
func WriteChangeSheet(path string, asOf time.Time, changes []Change) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", changeSheet)
	if err := writeHeader(f, changeSheet, changeHeader); err != nil {
		return err
	}

	for i, c := range changes {
		row := i + 2
		setRow(f, changeSheet, row,
			c.GroupID, c.Brand, c.OldPrice, c.NewPrice, round2(c.Delta()),
			c.Source, c.ReasonCode, c.Reason, "")
	}

	f.SetColWidth(changeSheet, "A", "A", 14)
	f.SetColWidth(changeSheet, "H", "H", 48)
	f.SetCellValue(changeSheet, cell(len(changeHeader)+1, 1), "Run "+asOf.Format("2006-01-02"))

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save change sheet: %w", err)
	}
	return nil
}

// ReadChangeSheet reads back an approval workbook and returns every row,
// with Approved set where the approve column was filled in.
func ReadChangeSheet(path string) ([]Change, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open change sheet: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(changeSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read change sheet: %w", err)
	}

	var changes []Change
	for i, row := range rows {
		if i == 0 || len(row) == 0 || row[0] == "" {
			continue
		}
		c := Change{GroupID: row[0]}
		c.Brand = col(row, 1)
		c.OldPrice = parseFloat(col(row, 2))
		c.NewPrice = parseFloat(col(row, 3))
		c.Source = col(row, 5)
		c.ReasonCode = col(row, 6)
		c.Reason = col(row, 7)
		c.Approved = approved(col(row, 8))
		changes = append(changes, c)
	}
	return changes, nil
}

func approved(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "y", "yes", "x", "true", "1", "approve", "approved":
		return true
	}
	return false
}

const bulkSheet = "Recommendations"

var bulkHeader = []string{
	"GroupID", "Kind", "Current Price", "New Price", "Change %",
	"Action", "Bucket", "Burst Tier", "Reason Code", "Reason", "Margin",
}

// WriteBulkReport dumps every recommendation from a full catalog run.
func WriteBulkReport(path string, asOf time.Time, recs []pricing.Recommendation) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", bulkSheet)
	if err := writeHeader(f, bulkSheet, bulkHeader); err != nil {
		return err
	}

	for i, r := range recs {
		row := i + 2
		newPrice := any("")
		if r.Price != nil {
			newPrice = *r.Price
		}
		setRow(f, bulkSheet, row,
			r.GroupID, string(r.Kind), r.OldPrice, newPrice, round2(r.ChangePercent()),
			r.Action, blankZero(r.Bucket), blankZero(r.BurstTier),
			r.ReasonCode, r.Reason, r.Margin)
	}

	f.SetColWidth(bulkSheet, "A", "A", 14)
	f.SetColWidth(bulkSheet, "J", "J", 48)
	f.SetCellValue(bulkSheet, cell(len(bulkHeader)+1, 1), "Run "+asOf.Format("2006-01-02"))

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save bulk report: %w", err)
	}
	return nil
}

// BurstEntry pairs a burst recommendation with its supporting stats for the
// daily burst report.
type BurstEntry struct {
	Rec   pricing.Recommendation
	Stats pricing.BurstStats
}

const burstSheet = "Sales Bursts"

var burstHeader = []string{
	"GroupID", "Units Today", "Baseline", "14d Avg", "Trend",
	"Current Price", "New Price", "Tier", "Profit/Unit", "New Profit/Unit",
	"Total Impact", "Reason",
}

// WriteBurstReport writes the daily burst summary with profit impact.
func WriteBurstReport(path string, asOf time.Time, entries []BurstEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", burstSheet)
	if err := writeHeader(f, burstSheet, burstHeader); err != nil {
		return err
	}

	for i, e := range entries {
		row := i + 2
		newPrice := any("")
		if e.Rec.Price != nil {
			newPrice = *e.Rec.Price
		}
		setRow(f, burstSheet, row,
			e.Rec.GroupID, e.Stats.UnitsToday, round2(e.Stats.Baseline), round2(e.Stats.Avg14d),
			e.Stats.Trend, e.Rec.OldPrice, newPrice, e.Rec.BurstTier,
			e.Stats.ProfitPerUnit, e.Stats.NewProfitPerUnit, e.Stats.TotalImpact, e.Rec.Reason)
	}

	f.SetColWidth(burstSheet, "A", "A", 14)
	f.SetColWidth(burstSheet, "L", "L", 48)
	f.SetCellValue(burstSheet, cell(len(burstHeader)+1, 1), "Run "+asOf.Format("2006-01-02"))

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save burst report: %w", err)
	}
	return nil
}

func writeHeader(f *excelize.File, sheet string, header []string) error {
	for i, h := range header {
		if err := f.SetCellValue(sheet, cell(i+1, 1), h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	return f.SetCellStyle(sheet, cell(1, 1), cell(len(header), 1), style)
}

func setRow(f *excelize.File, sheet string, row int, values ...any) {
	for i, v := range values {
		f.SetCellValue(sheet, cell(i+1, row), v)
	}
}

func cell(colIdx, rowIdx int) string {
	name, _ := excelize.CoordinatesToCellName(colIdx, rowIdx)
	return name
}

func col(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}

func parseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func blankZero(n int) any {
	if n == 0 {
		return ""
	}
	return n
}

func round2(x float64) float64 { return pricing.Round2(x) }
