package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"price-engine/internal/config"
	"price-engine/internal/database"
	"price-engine/internal/pricing"
	"price-engine/internal/report"

	"github.com/joho/godotenv"
)

var (
	outPath = flag.String("out", "", "export the burst summary to this .xlsx file")
)

// sales-burst scans the catalog for demand spikes and reports the proposed
// markups with their profit impact. It never writes prices.
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

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	store := pricing.NewGormStore(db, engineCfg)

	ctx := context.Background()
	asOf := time.Now()

	groupIDs, err := store.ListGroupIDs(ctx)
	if err != nil {
		log.Fatalf("Failed to list product groups: %v", err)
	}
	log.Printf("Scanning %d products for sales bursts", len(groupIDs))

	var entries []report.BurstEntry
	for _, id := range groupIDs {
		p, err := store.LoadProduct(ctx, id, asOf)
		if err != nil {
			log.Printf("skip %s: %v", id, err)
			continue
		}
		if p.ExcludeFromAutoPricing || p.Cost <= 0 {
			continue
		}
		rec, stats := pricing.DetectBurst(p, engineCfg, asOf)
		if rec == nil {
			continue
		}
		entries = append(entries, report.BurstEntry{Rec: *rec, Stats: *stats})
	}

	fmt.Printf("Bursts detected for %s: %d\n", asOf.Format("2006-01-02"), len(entries))
	for _, e := range entries {
		fmt.Printf("  %-14s tier %d  %.2f -> %.2f  today=%d baseline=%.2f trend=%s impact=%.2f\n",
			e.Rec.GroupID, e.Rec.BurstTier, e.Rec.OldPrice, *e.Rec.Price,
			e.Stats.UnitsToday, e.Stats.Baseline, e.Stats.Trend, e.Stats.TotalImpact)
	}

	if *outPath != "" {
		if err := report.WriteBurstReport(*outPath, asOf, entries); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		log.Printf("Report written to %s", *outPath)
	}
}
