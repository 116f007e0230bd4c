package repository

import (
	"context"

	"github.com/osse101/MedalGacha_Go/internal/domain"
)

// Ledger defines the interface for push-medal balance persistence
type Ledger interface {
	// GetBalance returns the current balance, or 0 when no record exists.
	// A nil scope means the shared pool scope.
	GetBalance(ctx context.Context, userID string, scope *string) (int64, error)

	// ListBalances returns all balance records, optionally restricted to
	// one user. Used by the integrity check.
	ListBalances(ctx context.Context, userID *string) ([]domain.MedalBalance, error)

	// ListTransactions returns the full transaction history for a
	// (user, scope) pair in insertion order.
	ListTransactions(ctx context.Context, userID string, scope *string) ([]domain.MedalTransaction, error)

	BeginTx(ctx context.Context) (LedgerTx, error)
}

// LedgerTx serializes balance updates: the balance row is locked for the
// duration of the transaction so before/after values in the log form a
// gapless chain.
type LedgerTx interface {
	Tx

	// GetBalanceForUpdate reads the balance and locks the row (0 when no
	// record exists yet; the lock then covers the insert).
	GetBalanceForUpdate(ctx context.Context, userID string, scope *string) (int64, error)

	UpsertBalance(ctx context.Context, userID string, scope *string, balance int64) error

	InsertTransaction(ctx context.Context, tx *domain.MedalTransaction) error
}
