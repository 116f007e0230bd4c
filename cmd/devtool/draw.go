package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/MedalGacha_Go/internal/bootstrap"
	"github.com/osse101/MedalGacha_Go/internal/config"
	"github.com/osse101/MedalGacha_Go/internal/database"
	"github.com/osse101/MedalGacha_Go/internal/database/postgres"
	"github.com/osse101/MedalGacha_Go/internal/draw"
	"github.com/osse101/MedalGacha_Go/internal/gacha"
	"github.com/osse101/MedalGacha_Go/internal/idempotency"
	"github.com/osse101/MedalGacha_Go/internal/ledger"
	"github.com/osse101/MedalGacha_Go/internal/payment"
	"github.com/osse101/MedalGacha_Go/internal/reward"
)

// runDraw executes a single draw request through the full pipeline: charge,
// draw, persist, reward grant and medal credit. Intended for dev databases
// with the collaborator URLs pointed at sandboxes.
func runDraw(args []string) {
	fs := flag.NewFlagSet("draw", flag.ExitOnError)
	userID := fs.String("user", "", "user ID to draw for")
	gachaIDStr := fs.String("gacha", "", "gacha UUID to draw from")
	count := fs.Int("count", 1, "number of draws (1-10)")
	key := fs.String("key", "", "idempotency key (generated when empty)")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	if *userID == "" || *gachaIDStr == "" {
		fmt.Println("Usage: devtool draw -user <id> -gacha <uuid> [-count n] [-key k]")
		return
	}

	gachaID, err := uuid.Parse(*gachaIDStr)
	if err != nil {
		log.Fatalf("Invalid gacha UUID: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), 4, 30*time.Minute, time.Hour)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbPool.Close()

	_, publisher, deadLetter, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		log.Fatalf("Failed to init event system: %v", err)
	}

	idemStore := idempotency.NewStore(idempotency.NewLRUCache(cfg.IdempotencyCacheSize, cfg.IdempotencyTTL))
	svc := gacha.NewService(
		postgres.NewGachaRepository(dbPool),
		draw.NewEngine(),
		payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentAPIKey, cfg.CollaboratorTimeout),
		reward.NewClient(cfg.RewardBaseURL, cfg.PaymentAPIKey, cfg.CollaboratorTimeout),
		ledger.NewService(postgres.NewLedgerRepository(dbPool)),
		idemStore,
		publisher,
	)

	idemKey := *key
	if idemKey == "" {
		idemKey = idemStore.GenerateKey()
	}

	ctx := context.Background()
	outcome, err := svc.ExecuteDraw(ctx, gacha.DrawRequest{
		UserID:         *userID,
		GachaID:        gachaID,
		DrawCount:      *count,
		IdempotencyKey: idemKey,
	})
	if err != nil {
		log.Fatalf("Draw failed: %v", err)
	}

	fmt.Printf("Draw completed in %s (idempotency key %s)\n", outcome.ExecutionTime, idemKey)
	for i, r := range outcome.Results {
		fmt.Printf("  #%d item=%s price=%d reward=%d\n", i+1, r.ItemID, r.Price, r.MedalReward)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := publisher.Shutdown(shutdownCtx); err != nil {
		log.Printf("Publisher shutdown: %v", err)
	}
	_ = deadLetter.Close()
}
