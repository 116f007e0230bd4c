package worker

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/event"
	"github.com/osse101/MedalGacha_Go/internal/ledger"
	"github.com/osse101/MedalGacha_Go/internal/logger"
)

// IntegrityWorker periodically replays the push medal transaction log and
// reports balances that drifted from their recomputed value. Discrepancies
// are logged and raised as alert events; reconciliation itself stays a
// manual operation.
type IntegrityWorker struct {
	ledgerService ledger.Service
	publisher     event.Bus
	interval      time.Duration
	ticker        *time.Ticker
	shutdown      chan struct{}
	wg            sync.WaitGroup
	mu            sync.Mutex
}

// NewIntegrityWorker creates a new IntegrityWorker. A non-positive interval
// falls back to DefaultSweepInterval.
func NewIntegrityWorker(ledgerService ledger.Service, publisher event.Bus, interval time.Duration) *IntegrityWorker {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &IntegrityWorker{
		ledgerService: ledgerService,
		publisher:     publisher,
		interval:      interval,
		shutdown:      make(chan struct{}),
	}
}

// Start schedules the periodic sweep. The first sweep runs one full interval
// after startup so boot is not slowed by a table scan.
func (w *IntegrityWorker) Start() {
	log := logger.FromContext(context.Background())

	w.mu.Lock()
	w.ticker = time.NewTicker(w.interval)
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case <-w.shutdown:
				return
			case <-w.ticker.C:
				w.executeSweep()
			}
		}
	}()

	log.Info(LogMsgIntegritySweepScheduled, "interval", w.interval)
}

// executeSweep runs one full-ledger integrity check.
func (w *IntegrityWorker) executeSweep() {
	ctx := context.Background()
	log := logger.FromContext(ctx)
	log.Info(LogMsgIntegritySweepStarting)

	start := time.Now()
	discrepancies, err := w.ledgerService.PerformIntegrityCheck(ctx, nil)
	if err != nil {
		log.Error(LogMsgIntegritySweepFailed, "error", err)
		return
	}

	for _, d := range discrepancies {
		log.Error(LogMsgIntegrityDiscrepancy,
			"user_id", d.UserID,
			"scope", domain.ScopeKey(d.Scope),
			"expected", d.Expected,
			"actual", d.Actual,
			"delta", d.Delta)

		evt := event.NewLedgerDiscrepancyEvent(d.UserID, domain.ScopeKey(d.Scope), d.Expected, d.Actual, d.Delta)
		if err := w.publisher.Publish(ctx, evt); err != nil {
			log.Error(LogMsgIntegrityAlertFailed, "user_id", d.UserID, "error", err)
		}
	}

	log.Info(LogMsgIntegritySweepComplete,
		"discrepancies", len(discrepancies),
		"duration", time.Since(start))
}

// Shutdown stops the ticker and waits for an in-flight sweep to finish.
func (w *IntegrityWorker) Shutdown(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgIntegrityShuttingDown)

	close(w.shutdown)

	w.mu.Lock()
	if w.ticker != nil {
		w.ticker.Stop()
	}
	w.mu.Unlock()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Info(LogMsgIntegrityShutdownDone)
		return nil
	case <-ctx.Done():
		log.Warn(LogMsgIntegrityShutdownStuck)
		return ctx.Err()
	}
}
