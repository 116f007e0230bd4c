package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/osse101/MedalGacha_Go/internal/config"
	"github.com/osse101/MedalGacha_Go/internal/database"
)

// runSeed inserts a development gacha with a small item pool and prints its
// UUID for use with the draw command.
func runSeed() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), 4, 30*time.Minute, time.Hour)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	ctx := context.Background()

	var gachaID string
	err = dbPool.QueryRow(ctx, `
		INSERT INTO gachas (creator_id, gacha_name, price, medal_reward, status, start_at)
		VALUES ('dev-creator', 'Dev Gacha', 100, 10, 'active', NOW())
		RETURNING gacha_id`).Scan(&gachaID)
	if err != nil {
		log.Fatalf("Failed to insert gacha: %v", err)
	}

	items := []struct {
		name     string
		rarity   string
		dropRate float64
		maxCount *int
	}{
		{"Dev Common", "common", 0.70, nil},
		{"Dev Rare", "rare", 0.25, nil},
		{"Dev Legendary", "legendary", 0.05, intPtr(3)},
	}

	for _, item := range items {
		_, err = dbPool.Exec(ctx, `
			INSERT INTO gacha_items (gacha_id, item_name, rarity, drop_rate, max_count)
			VALUES ($1, $2, $3, $4, $5)`,
			gachaID, item.name, item.rarity, item.dropRate, item.maxCount)
		if err != nil {
			log.Fatalf("Failed to insert item %s: %v", item.name, err)
		}
	}

	fmt.Printf("Seeded gacha %s with %d items\n", gachaID, len(items))
}

func intPtr(n int) *int { return &n }
