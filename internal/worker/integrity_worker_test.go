package worker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/event"
)

// stubLedgerService records sweep invocations without a real repository.
type stubLedgerService struct {
	mu     sync.Mutex
	calls  int
	result []domain.IntegrityDiscrepancy
	err    error
}

func (s *stubLedgerService) GetBalance(ctx context.Context, userID string, scope *string) (int64, error) {
	return 0, nil
}

func (s *stubLedgerService) Credit(ctx context.Context, userID string, scope *string, amount int64, txType domain.MedalTxType, ref *domain.MedalTxRef) (*domain.MedalTransaction, error) {
	return nil, nil
}

func (s *stubLedgerService) Debit(ctx context.Context, userID string, scope *string, amount int64, txType domain.MedalTxType, ref *domain.MedalTxRef) (*domain.MedalTransaction, error) {
	return nil, nil
}

func (s *stubLedgerService) TransferFromPool(ctx context.Context, userID string, fromScope, toScope *string, amount int64) error {
	return nil
}

func (s *stubLedgerService) AdminAdjustBalance(ctx context.Context, userID string, scope *string, amount int64, reason, adminID string) (*domain.MedalTransaction, error) {
	return nil, nil
}

func (s *stubLedgerService) PerformIntegrityCheck(ctx context.Context, userID *string) ([]domain.IntegrityDiscrepancy, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.result, s.err
}

func (s *stubLedgerService) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func TestIntegrityWorker_RunsSweepOnInterval(t *testing.T) {
	svc := &stubLedgerService{}
	w := NewIntegrityWorker(svc, event.NewMemoryBus(), 20*time.Millisecond)

	w.Start()

	assert.Eventually(t, func() bool {
		return svc.callCount() >= 2
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))
}

func TestIntegrityWorker_ShutdownStopsSweeps(t *testing.T) {
	svc := &stubLedgerService{}
	w := NewIntegrityWorker(svc, event.NewMemoryBus(), 20*time.Millisecond)

	w.Start()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))

	count := svc.callCount()
	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, count, svc.callCount())
}

func TestIntegrityWorker_PublishesDiscrepancyAlerts(t *testing.T) {
	scope := "creator-1"
	svc := &stubLedgerService{result: []domain.IntegrityDiscrepancy{
		{UserID: "user-1", Scope: &scope, Expected: 100, Actual: 70, Delta: -30},
	}}

	bus := event.NewMemoryBus()
	var mu sync.Mutex
	var alerts []event.Event
	bus.Subscribe(event.LedgerDiscrepancyFound, func(ctx context.Context, evt event.Event) error {
		mu.Lock()
		defer mu.Unlock()
		alerts = append(alerts, evt)
		return nil
	})

	w := NewIntegrityWorker(svc, bus, 20*time.Millisecond)
	w.Start()

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(alerts) >= 1
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))

	mu.Lock()
	defer mu.Unlock()
	payload, err := event.DecodePayload[event.LedgerDiscrepancyPayloadV1](alerts[0].Payload)
	require.NoError(t, err)
	assert.Equal(t, "user-1", payload.UserID)
	assert.Equal(t, scope, payload.Scope)
	assert.Equal(t, int64(100), payload.Expected)
	assert.Equal(t, int64(70), payload.Actual)
	assert.Equal(t, int64(-30), payload.Delta)
}

func TestIntegrityWorker_SweepErrorDoesNotStopWorker(t *testing.T) {
	svc := &stubLedgerService{err: assert.AnError}
	w := NewIntegrityWorker(svc, event.NewMemoryBus(), 20*time.Millisecond)

	w.Start()

	assert.Eventually(t, func() bool {
		return svc.callCount() >= 2
	}, time.Second, 5*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, w.Shutdown(ctx))
}

func TestNewIntegrityWorker_DefaultInterval(t *testing.T) {
	w := NewIntegrityWorker(&stubLedgerService{}, event.NewMemoryBus(), 0)
	assert.Equal(t, DefaultSweepInterval, w.interval)
}
