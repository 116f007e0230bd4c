package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/osse101/MedalGacha_Go/internal/bootstrap"
	"github.com/osse101/MedalGacha_Go/internal/config"
	"github.com/osse101/MedalGacha_Go/internal/database"
	"github.com/osse101/MedalGacha_Go/internal/database/postgres"
	"github.com/osse101/MedalGacha_Go/internal/ledger"
	"github.com/osse101/MedalGacha_Go/internal/server"
	"github.com/osse101/MedalGacha_Go/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	dbPool, err := database.NewPool(cfg.GetDBConnString(), 10, 30*time.Minute, time.Hour)
	if err != nil {
		return err
	}
	defer dbPool.Close()

	_, publisher, deadLetter, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		return err
	}

	ledgerService := ledger.NewService(postgres.NewLedgerRepository(dbPool))

	integrityWorker := worker.NewIntegrityWorker(ledgerService, publisher, cfg.IntegritySweepInterval)
	integrityWorker.Start()

	srv := server.NewServer(cfg.Port, dbPool)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case sig := <-quit:
		slog.Info("Shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(ctx, bootstrap.ShutdownComponents{
		Server:             srv,
		IntegrityWorker:    integrityWorker,
		ResilientPublisher: publisher,
		DeadLetter:         deadLetter,
	})

	return nil
}
