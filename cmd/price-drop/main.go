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
	outPath = flag.String("out", "", "export the markdown list to this .xlsx file")
	limit   = flag.Int("limit", 0, "cap the number of markdowns (0 = no cap)")
)

// price-drop lists every markdown the engine proposes today: the mode-based
// price cuts plus the stagnation bucket suggestions.
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
	engine := pricing.NewEngine(store, engineCfg)

	asOf := time.Now()
	result, err := engine.Run(context.Background(), asOf, nil)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	var drops []pricing.Recommendation
	for _, r := range result.Recommendations {
		if r.Price == nil || *r.Price >= r.OldPrice {
			continue
		}
		if r.Kind == pricing.KindPrice || r.Kind == pricing.KindBucket {
			drops = append(drops, r)
		}
	}

	// Deepest cuts first.
	sort.Slice(drops, func(i, j int) bool {
		return drops[i].ChangeAmount() < drops[j].ChangeAmount()
	})
	if *limit > 0 && len(drops) > *limit {
		drops = drops[:*limit]
	}

	fmt.Printf("Markdown candidates for %s: %d\n", asOf.Format("2006-01-02"), len(drops))
	for _, r := range drops {
		fmt.Printf("  %-14s %.2f -> %.2f (%+.1f%%)  %s\n",
			r.GroupID, r.OldPrice, *r.Price, r.ChangePercent(), r.ReasonCode)
	}

	if *outPath != "" {
		if err := report.WriteBulkReport(*outPath, asOf, drops); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		log.Printf("Report written to %s", *outPath)
	}
}
