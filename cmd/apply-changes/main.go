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
	"price-engine/internal/shopify"

	"github.com/joho/godotenv"
)

const changeActor = "AUTOMATION"

var (
	sheetPath = flag.String("sheet", "price-changes.xlsx", "approved change sheet to apply")
	dryRun    = flag.Bool("dry-run", false, "report what would be applied without writing")
)

// apply-changes pushes approved rows from the change sheet to the shop and
// logs each applied change. Rows are re-checked against the cooldown at the
// moment of writing; anything that changed mid-approval is skipped.
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

	shop := shopify.NewService(cfg.ShopName, cfg.ShopAPIVersion, cfg.ShopAccessToken)
	if !shop.Configured() && !*dryRun {
		log.Fatal("SHOP_NAME and SHOP_ACCESS_TOKEN must be set (or use -dry-run)")
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	store := pricing.NewGormStore(db, engineCfg)

	changes, err := report.ReadChangeSheet(*sheetPath)
	if err != nil {
		log.Fatalf("Failed to read change sheet: %v", err)
	}

	approved := 0
	for _, c := range changes {
		if c.Approved {
			approved++
		}
	}
	log.Printf("Change sheet %s: %d rows, %d approved", *sheetPath, len(changes), approved)

	ctx := context.Background()
	now := time.Now()
	applied, skipped, failed := 0, 0, 0

	for _, c := range changes {
		if !c.Approved {
			continue
		}
		if applied >= engineCfg.MaxDailyChanges {
			log.Printf("Daily change limit of %d reached, stopping", engineCfg.MaxDailyChanges)
			break
		}

		// Recheck the cooldown at write time; approval can lag the sheet by
		// days and another run may have repriced the product since.
		last, _, err := store.LastPriceChange(ctx, c.GroupID, now)
		if err != nil {
			log.Printf("skip %s: %v", c.GroupID, err)
			failed++
			continue
		}
		if pricing.CooldownActive(last, engineCfg.CooldownDays, now) {
			log.Printf("skip %s: priced again since the sheet was generated", c.GroupID)
			skipped++
			continue
		}

		if *dryRun {
			fmt.Printf("would apply %-14s %.2f -> %.2f  %s\n", c.GroupID, c.OldPrice, c.NewPrice, c.ReasonCode)
			applied++
			continue
		}

		variantID, err := store.VariantLink(ctx, c.GroupID)
		if err != nil {
			log.Printf("skip %s: %v", c.GroupID, err)
			failed++
			continue
		}
		if err := shop.UpdateVariantPrice(variantID, c.NewPrice); err != nil {
			log.Printf("failed %s: %v", c.GroupID, err)
			failed++
			continue
		}
		if err := store.LogPriceChange(ctx, c.GroupID, c.OldPrice, c.NewPrice, c.ReasonCode, changeActor, now); err != nil {
			log.Printf("applied %s but failed to log the change: %v", c.GroupID, err)
		}
		log.Printf("applied %-14s %.2f -> %.2f", c.GroupID, c.OldPrice, c.NewPrice)
		applied++

		// Stay under the shop API rate limit.
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Printf("Applied: %d  Skipped: %d  Failed: %d\n", applied, skipped, failed)
}
