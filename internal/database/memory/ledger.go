// Package memory provides in-memory repository implementations. They honor
// the same transactional contracts as the postgres repositories and back the
// unit and statistical test suites.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/repository"
)

type balanceKey struct {
	userID string
	scope  string
}

func keyFor(userID string, scope *string) balanceKey {
	return balanceKey{userID: userID, scope: domain.ScopeKey(scope)}
}

// LedgerRepository is an in-memory repository.Ledger. Transactions hold the
// repository lock for their lifetime, which gives the same per-balance
// serialization the postgres implementation gets from row locks.
type LedgerRepository struct {
	mu       sync.Mutex
	balances map[balanceKey]domain.MedalBalance
	txs      map[balanceKey][]domain.MedalTransaction
}

// NewLedgerRepository creates an empty in-memory ledger repository
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		balances: make(map[balanceKey]domain.MedalBalance),
		txs:      make(map[balanceKey][]domain.MedalTransaction),
	}
}

func (r *LedgerRepository) GetBalance(_ context.Context, userID string, scope *string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.balances[keyFor(userID, scope)].Balance, nil
}

func (r *LedgerRepository) ListBalances(_ context.Context, userID *string) ([]domain.MedalBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []domain.MedalBalance
	for _, bal := range r.balances {
		if userID != nil && bal.UserID != *userID {
			continue
		}
		out = append(out, bal)
	}
	return out, nil
}

func (r *LedgerRepository) ListTransactions(_ context.Context, userID string, scope *string) ([]domain.MedalTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	history := r.txs[keyFor(userID, scope)]
	out := make([]domain.MedalTransaction, len(history))
	copy(out, history)
	return out, nil
}

func (r *LedgerRepository) BeginTx(_ context.Context) (repository.LedgerTx, error) {
	r.mu.Lock()
	return &ledgerTx{repo: r}, nil
}

// CorruptBalance mutates a stored balance without a matching transaction row.
// Test hook for the integrity check; has no production counterpart.
func (r *LedgerRepository) CorruptBalance(userID string, scope *string, delta int64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := keyFor(userID, scope)
	bal := r.balances[key]
	bal.UserID = userID
	bal.Scope = scope
	bal.Balance += delta
	r.balances[key] = bal
}

type ledgerTx struct {
	repo   *LedgerRepository
	undo   []func()
	closed bool
}

func (t *ledgerTx) Commit(_ context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	t.closed = true
	t.undo = nil
	t.repo.mu.Unlock()
	return nil
}

func (t *ledgerTx) Rollback(_ context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.closed = true
	t.undo = nil
	t.repo.mu.Unlock()
	return nil
}

func (t *ledgerTx) GetBalanceForUpdate(_ context.Context, userID string, scope *string) (int64, error) {
	if t.closed {
		return 0, domain.ErrTxClosed
	}
	return t.repo.balances[keyFor(userID, scope)].Balance, nil
}

func (t *ledgerTx) UpsertBalance(_ context.Context, userID string, scope *string, balance int64) error {
	if t.closed {
		return domain.ErrTxClosed
	}

	key := keyFor(userID, scope)
	prev, existed := t.repo.balances[key]
	t.undo = append(t.undo, func() {
		if existed {
			t.repo.balances[key] = prev
		} else {
			delete(t.repo.balances, key)
		}
	})

	t.repo.balances[key] = domain.MedalBalance{
		UserID:    userID,
		Scope:     scope,
		Balance:   balance,
		UpdatedAt: time.Now(),
	}
	return nil
}

func (t *ledgerTx) InsertTransaction(_ context.Context, tx *domain.MedalTransaction) error {
	if t.closed {
		return domain.ErrTxClosed
	}

	key := keyFor(tx.UserID, tx.Scope)
	t.repo.txs[key] = append(t.repo.txs[key], *tx)
	t.undo = append(t.undo, func() {
		history := t.repo.txs[key]
		t.repo.txs[key] = history[:len(history)-1]
	})
	return nil
}
