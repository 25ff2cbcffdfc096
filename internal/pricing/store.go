package pricing

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"price-engine/internal/models"
)

// GormStore implements Store over the catalog/warehouse database.
type GormStore struct {
	db  *gorm.DB
	cfg *EngineConfig
}

func NewGormStore(db *gorm.DB, cfg *EngineConfig) *GormStore {
	if cfg == nil {
		cfg = DefaultEngineConfig()
	}
	return &GormStore{db: db, cfg: cfg}
}

// ListGroupIDs returns every product group in the catalog master.
func (s *GormStore) ListGroupIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).
		Model(&models.SKUGroup{}).
		Order("groupid").
		Pluck("groupid", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list group ids: %w", err)
	}
	return ids, nil
}

// LoadProduct assembles the point-in-time snapshot for one group.
func (s *GormStore) LoadProduct(ctx context.Context, groupID string, asOf time.Time) (*ProductData, error) {
	db := s.db.WithContext(ctx)

	var sku models.SKUGroup
	if err := db.Where("groupid = ?", groupID).First(&sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("group %s not found in catalog", groupID)
		}
		return nil, fmt.Errorf("failed to load sku group: %w", err)
	}

	p := &ProductData{
		GroupID:                sku.GroupID,
		Brand:                  sku.Brand,
		Cost:                   sku.Cost,
		Ceiling:                sku.RRP,
		Benchmark:              s.freshBenchmark(&sku, asOf),
		TaxInclusive:           sku.Tax == 1,
		Season:                 Season(sku.Season),
		ExcludeFromAutoPricing: sku.ExcludeFromAutoPricing,
		NextReviewDate:         sku.NextReviewDate,
		CurrentPrice:           sku.ShopifyPrice,
		DaysSinceLastSold:      NeverSoldDays,
	}

	// Live stock aggregate, soft-deleted rows excluded.
	var stock int64
	err := db.Model(&models.StockLevel{}).
		Where("groupid = ? AND deleted <> 1", groupID).
		Select("COALESCE(SUM(qty), 0)").
		Scan(&stock).Error
	if err != nil {
		return nil, fmt.Errorf("failed to sum stock: %w", err)
	}
	p.Stock = int(stock)

	// Daily snapshot series up to the as-of date, ascending.
	var rows []models.PriceSnapshot
	err = db.Where("groupid = ? AND date <= ?", groupID, asOf).
		Order("date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load price snapshots: %w", err)
	}
	p.Snapshots = make([]DaySnapshot, 0, len(rows))
	for _, r := range rows {
		p.Snapshots = append(p.Snapshots, DaySnapshot{
			Date:      r.Date,
			Stock:     r.Stock,
			UnitsSold: r.UnitsSold,
			Price:     r.Price,
		})
	}

	if err := s.loadSalesWindows(ctx, p, asOf); err != nil {
		return nil, err
	}

	var perf models.GroupPerformance
	err = db.Where("groupid = ?", groupID).First(&perf).Error
	switch {
	case err == nil:
		p.Segment = Segment(perf.Segment)
		p.TrailingProfit = perf.AnnualProfit
		p.SoldQty12m = perf.SoldQty
	case errors.Is(err, gorm.ErrRecordNotFound):
		// No performance row yet; segment stays unset.
	default:
		return nil, fmt.Errorf("failed to load performance: %w", err)
	}

	last, count30, err := s.LastPriceChange(ctx, groupID, asOf)
	if err != nil {
		return nil, err
	}
	p.LastPriceChange = last
	p.PriceChanges30d = count30

	return p, nil
}

func (s *GormStore) freshBenchmark(sku *models.SKUGroup, asOf time.Time) *float64 {
	if sku.Lowbench == nil {
		return nil
	}
	if sku.LowbenchDate != nil &&
		sku.LowbenchDate.Before(asOf.AddDate(0, 0, -s.cfg.BenchmarkMaxAgeDays)) {
		return nil
	}
	return sku.Lowbench
}

func (s *GormStore) loadSalesWindows(ctx context.Context, p *ProductData, asOf time.Time) error {
	db := s.db.WithContext(ctx)

	countSince := func(days int) (int, error) {
		var total int64
		err := db.Model(&models.Sale{}).
			Where("groupid = ? AND qty > 0 AND solddate > ? AND solddate <= ?",
				p.GroupID, asOf.AddDate(0, 0, -days), asOf).
			Select("COALESCE(SUM(qty), 0)").
			Scan(&total).Error
		return int(total), err
	}

	var err error
	if p.Sales21d, err = countSince(21); err != nil {
		return fmt.Errorf("failed to count 21d sales: %w", err)
	}
	if p.Sales30d, err = countSince(30); err != nil {
		return fmt.Errorf("failed to count 30d sales: %w", err)
	}
	if p.Sales90d, err = countSince(90); err != nil {
		return fmt.Errorf("failed to count 90d sales: %w", err)
	}

	var lastSold sql.NullTime
	err = db.Model(&models.Sale{}).
		Where("groupid = ? AND qty > 0 AND solddate <= ?", p.GroupID, asOf).
		Select("MAX(solddate)").
		Scan(&lastSold).Error
	if err != nil {
		return fmt.Errorf("failed to find last sale: %w", err)
	}
	if lastSold.Valid {
		days := int(asOf.Sub(lastSold.Time).Hours() / 24)
		if days < 0 {
			days = 0
		}
		p.DaysSinceLastSold = days
	}

	var avg sql.NullFloat64
	err = db.Model(&models.Sale{}).
		Where("groupid = ? AND qty > 0 AND solddate > ? AND solddate <= ?",
			p.GroupID, asOf.AddDate(0, 0, -30), asOf).
		Select("AVG(soldprice)").
		Scan(&avg).Error
	if err != nil {
		return fmt.Errorf("failed to average sold price: %w", err)
	}
	if avg.Valid {
		p.AvgSoldPrice30d = avg.Float64
	}
	return nil
}

// LastPriceChange returns the most recent logged change and the count of
// changes in the 30 days before asOf.
func (s *GormStore) LastPriceChange(ctx context.Context, groupID string, asOf time.Time) (*time.Time, int, error) {
	db := s.db.WithContext(ctx)

	var lastChange sql.NullTime
	err := db.Model(&models.PriceChangeLog{}).
		Where("groupid = ?", groupID).
		Select("MAX(change_date)").
		Scan(&lastChange).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to find last price change: %w", err)
	}
	var last *time.Time
	if lastChange.Valid {
		t := lastChange.Time
		last = &t
	}

	var count int64
	err = db.Model(&models.PriceChangeLog{}).
		Where("groupid = ? AND change_date > ? AND change_date <= ?",
			groupID, asOf.AddDate(0, 0, -30), asOf).
		Count(&count).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count recent price changes: %w", err)
	}
	return last, int(count), nil
}

// SaveRecommendations replaces the run's rows and inserts the new set. The
// engine core never calls this; the run commands and API do.
func (s *GormStore) SaveRecommendations(ctx context.Context, runDate time.Time, recs []Recommendation) error {
	db := s.db.WithContext(ctx)

	day := runDate.Truncate(24 * time.Hour)
	if err := db.Where("run_date = ?", day).Delete(&models.Recommendation{}).Error; err != nil {
		return fmt.Errorf("failed to clear previous run: %w", err)
	}
	if len(recs) == 0 {
		return nil
	}

	rows := make([]models.Recommendation, 0, len(recs))
	for _, r := range recs {
		rows = append(rows, models.Recommendation{
			RunDate:    day,
			GroupID:    r.GroupID,
			Kind:       string(r.Kind),
			Price:      r.Price,
			Action:     r.Action,
			ReasonCode: r.ReasonCode,
			Reason:     r.Reason,
			Bucket:     r.Bucket,
			BurstTier:  r.BurstTier,
			OldPrice:   r.OldPrice,
			Margin:     r.Margin,
		})
	}
	if err := db.CreateInBatches(rows, 200).Error; err != nil {
		return fmt.Errorf("failed to save recommendations: %w", err)
	}
	return nil
}

// LogPriceChange appends one row to the price change log.
func (s *GormStore) LogPriceChange(ctx context.Context, groupID string, oldPrice, newPrice float64, reason, actor string, date time.Time) error {
	entry := models.PriceChangeLog{
		GroupID:    groupID,
		OldPrice:   oldPrice,
		NewPrice:   newPrice,
		Reason:     reason,
		ReviewedBy: actor,
		ChangeDate: date,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to log price change: %w", err)
	}
	return nil
}

// VariantLink resolves the shop variant id for the apply step.
func (s *GormStore) VariantLink(ctx context.Context, groupID string) (string, error) {
	var m models.SKUMap
	err := s.db.WithContext(ctx).
		Where("groupid = ? AND variantlink <> ''", groupID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("no variant link for group %s", groupID)
		}
		return "", fmt.Errorf("failed to load variant link: %w", err)
	}
	return m.VariantLink, nil
}
