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

	"github.com/joho/godotenv"
)

var (
	groupID = flag.String("group", "", "product group to evaluate (required)")
	mode    = flag.String("mode", "", "pricing mode override (Ignore, Steady, Profit, Clearance)")
	asOfStr = flag.String("as-of", "", "evaluation date YYYY-MM-DD (default: today)")
)

func main() {
	flag.Parse()
	if *groupID == "" {
		log.Fatal("usage: recommend -group <groupid> [-mode Steady] [-as-of 2026-01-31]")
	}

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

	asOf := time.Now()
	if *asOfStr != "" {
		parsed, err := time.Parse("2006-01-02", *asOfStr)
		if err != nil {
			log.Fatalf("Invalid -as-of date %q: %v", *asOfStr, err)
		}
		asOf = parsed
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	store := pricing.NewGormStore(db, engineCfg)
	engine := pricing.NewEngine(store, engineCfg)

	res := engine.EvaluateGroup(context.Background(), *groupID, asOf)
	if res.Err != nil {
		log.Fatalf("Evaluation failed: %v", res.Err)
	}

	fmt.Printf("Group %s (mode=%s, as of %s)\n", res.GroupID, engineCfg.Mode, asOf.Format("2006-01-02"))
	if res.Skipped {
		fmt.Printf("  skipped: %s\n", res.SkipReason)
		return
	}
	if res.SkipReason != "" {
		fmt.Printf("  note: %s\n", res.SkipReason)
	}
	for _, r := range res.Recommendations {
		switch {
		case r.Price != nil:
			fmt.Printf("  [%s] %.2f -> %.2f (%+.1f%%)  %s  %s\n",
				r.Kind, r.OldPrice, *r.Price, r.ChangePercent(), r.ReasonCode, r.Reason)
		default:
			fmt.Printf("  [%s] %s  %s\n", r.Kind, r.Action, r.Reason)
		}
	}
}
