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
	mode    = flag.String("mode", "", "pricing mode override (Ignore, Steady, Profit, Clearance)")
	outPath = flag.String("out", "", "also export the run to this .xlsx file")
	workers = flag.Int("workers", 0, "worker pool size override")
	dryRun  = flag.Bool("dry-run", false, "evaluate without persisting recommendations")
)

func main() {
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	engineCfg := pricing.DefaultEngineConfig()
	if *mode != "" {
		cfg.Mode = *mode
	}
	if err := engineCfg.Apply(cfg); err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	if *workers > 0 {
		engineCfg.Workers = *workers
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

	if !*dryRun {
		if err := store.SaveRecommendations(ctx, asOf, result.Recommendations); err != nil {
			log.Fatalf("Failed to save recommendations: %v", err)
		}
		log.Printf("Saved %d recommendations for %s", len(result.Recommendations), asOf.Format("2006-01-02"))
	}

	if *outPath != "" {
		if err := report.WriteBulkReport(*outPath, asOf, result.Recommendations); err != nil {
			log.Fatalf("Failed to write report: %v", err)
		}
		log.Printf("Report written to %s", *outPath)
	}

	byKind := make(map[pricing.RecKind]int)
	for _, r := range result.Recommendations {
		byKind[r.Kind]++
	}
	fmt.Printf("Products: %d  Skipped: %d  Errors: %d\n", result.Products, result.Skipped, result.Errors)
	fmt.Printf("Recommendations: %d price, %d bucket, %d burst, %d action\n",
		byKind[pricing.KindPrice], byKind[pricing.KindBucket], byKind[pricing.KindBurst], byKind[pricing.KindAction])
}
