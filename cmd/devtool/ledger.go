package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/osse101/MedalGacha_Go/internal/config"
	"github.com/osse101/MedalGacha_Go/internal/database"
	"github.com/osse101/MedalGacha_Go/internal/database/postgres"
	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/ledger"
)

// runBalance prints every push medal balance held by a user.
func runBalance(args []string) {
	fs := flag.NewFlagSet("balance", flag.ExitOnError)
	userID := fs.String("user", "", "user ID to inspect")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("Failed to parse flags: %v", err)
	}

	if *userID == "" {
		fmt.Println("Usage: devtool balance -user <id>")
		return
	}

	repo := mustLedgerRepo()
	defer closePool()

	balances, err := repo.ListBalances(context.Background(), userID)
	if err != nil {
		log.Fatalf("Failed to list balances: %v", err)
	}

	if len(balances) == 0 {
		fmt.Printf("No balances for user %s\n", *userID)
		return
	}

	for _, b := range balances {
		fmt.Printf("user=%s scope=%s balance=%d\n", b.UserID, domain.ScopeKey(b.Scope), b.Balance)
	}
}

// runIntegrity replays the full transaction log and reports drifted balances.
func runIntegrity() {
	repo := mustLedgerRepo()
	defer closePool()

	svc := ledger.NewService(repo)
	discrepancies, err := svc.PerformIntegrityCheck(context.Background(), nil)
	if err != nil {
		log.Fatalf("Integrity check failed: %v", err)
	}

	if len(discrepancies) == 0 {
		fmt.Println("Ledger is consistent")
		return
	}

	fmt.Printf("Found %d discrepancies:\n", len(discrepancies))
	for _, d := range discrepancies {
		fmt.Printf("  user=%s scope=%s expected=%d actual=%d delta=%d\n",
			d.UserID, domain.ScopeKey(d.Scope), d.Expected, d.Actual, d.Delta)
	}
}

var devPool database.Pool

func mustLedgerRepo() *postgres.LedgerRepository {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	dbPool, err := database.NewPool(cfg.GetDBConnString(), 4, 30*time.Minute, time.Hour)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	devPool = dbPool

	return postgres.NewLedgerRepository(dbPool)
}

func closePool() {
	if devPool != nil {
		devPool.Close()
	}
}
