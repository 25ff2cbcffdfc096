package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"sort"
	"time"

	"price-engine/internal/config"
	"price-engine/internal/database"
	"price-engine/internal/pricing"
	"price-engine/internal/report"

	"github.com/joho/godotenv"
)

var (
	outPath      = flag.String("out", "price-changes.xlsx", "approval sheet output path")
	cooldownDays = flag.Int("cooldown", 10, "days since the last change before a product is eligible")
	maxChanges   = flag.Int("max", 0, "cap on proposed changes (0 = config default)")
)

// generate-changes merges the markdown and burst proposals into one approval
// sheet. A human marks the Approve column; apply-changes acts on it.
func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	engineCfg := pricing.DefaultEngineConfig()
	if err := engineCfg.Apply(cfg); err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	// The combined sheet uses a longer cooldown than the single-rule runs so
	// the same product is not reworked on consecutive weeks.
	if *cooldownDays > 0 {
		engineCfg.CooldownDays = *cooldownDays
	}
	if *maxChanges > 0 {
		engineCfg.MaxDailyChanges = *maxChanges
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	store := pricing.NewGormStore(db, engineCfg)
	engine := pricing.NewEngine(store, engineCfg)

	ctx := context.Background()
	asOf := time.Now()

	result, err := engine.Run(ctx, asOf, nil)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	// One change per product. A burst markup wins over a markdown for the
	// same group; live demand is the stronger signal.
	perGroup := make(map[string]pricing.Recommendation)
	for _, r := range result.Recommendations {
		if r.Price == nil {
			continue
		}
		prev, seen := perGroup[r.GroupID]
		if !seen || (r.Kind == pricing.KindBurst && prev.Kind != pricing.KindBurst) {
			perGroup[r.GroupID] = r
		}
	}

	var changes []report.Change
	for _, r := range perGroup {
		delta := r.ChangeAmount()
		if delta < engineCfg.MinPriceChange && delta > -engineCfg.MinPriceChange {
			continue
		}
		changes = append(changes, report.Change{
			GroupID:    r.GroupID,
			OldPrice:   r.OldPrice,
			NewPrice:   *r.Price,
			Source:     string(r.Kind),
			ReasonCode: r.ReasonCode,
			Reason:     r.Reason,
		})
	}

	// Increases first (highest proposed price first), then markdowns by
	// depth of cut.
	sort.Slice(changes, func(i, j int) bool {
		a, b := changes[i], changes[j]
		if (a.Delta() > 0) != (b.Delta() > 0) {
			return a.Delta() > 0
		}
		if a.Delta() > 0 {
			if a.NewPrice != b.NewPrice {
				return a.NewPrice > b.NewPrice
			}
		} else {
			pa := a.Delta() / a.OldPrice
			pb := b.Delta() / b.OldPrice
			if pa != pb {
				return pa < pb
			}
		}
		return a.GroupID < b.GroupID
	})

	if len(changes) > engineCfg.MaxDailyChanges {
		log.Printf("Capping %d proposals at the %d change daily limit", len(changes), engineCfg.MaxDailyChanges)
		changes = changes[:engineCfg.MaxDailyChanges]
	}

	if err := report.WriteChangeSheet(*outPath, asOf, changes); err != nil {
		log.Fatalf("Failed to write change sheet: %v", err)
	}

	increases := 0
	for _, c := range changes {
		if c.Delta() > 0 {
			increases++
		}
	}
	fmt.Printf("Change sheet written to %s: %d proposals (%d increases, %d markdowns)\n",
		*outPath, len(changes), increases, len(changes)-increases)
}
