package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/repository"
)

// LedgerRepository implements repository.Ledger for PostgreSQL
type LedgerRepository struct {
	db *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository
func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// GetBalance returns the current balance, 0 when no record exists
func (r *LedgerRepository) GetBalance(ctx context.Context, userID string, scope *string) (int64, error) {
	query := `
		SELECT balance FROM push_medal_balances
		WHERE user_id = $1 AND COALESCE(scope_id, '') = COALESCE($2::text, '')`

	var balance int64
	err := r.db.QueryRow(ctx, query, userID, scope).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalance, err)
	}
	return balance, nil
}

// ListBalances returns balance records, optionally restricted to one user
func (r *LedgerRepository) ListBalances(ctx context.Context, userID *string) ([]domain.MedalBalance, error) {
	query := `
		SELECT user_id, scope_id, balance, updated_at
		FROM push_medal_balances
		WHERE $1::text IS NULL OR user_id = $1
		ORDER BY user_id, COALESCE(scope_id, '')`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListBalances, err)
	}
	defer rows.Close()

	var balances []domain.MedalBalance
	for rows.Next() {
		var bal domain.MedalBalance
		if err := rows.Scan(&bal.UserID, &bal.Scope, &bal.Balance, &bal.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListBalances, err)
		}
		balances = append(balances, bal)
	}
	return balances, rows.Err()
}

// ListTransactions returns the full transaction history for a (user, scope)
// pair in insertion order
func (r *LedgerRepository) ListTransactions(ctx context.Context, userID string, scope *string) ([]domain.MedalTransaction, error) {
	query := `
		SELECT transaction_id, user_id, scope_id, tx_type, amount,
		       balance_before, balance_after, reference_id, reference_type, reason, created_at
		FROM push_medal_transactions
		WHERE user_id = $1 AND COALESCE(scope_id, '') = COALESCE($2::text, '')
		ORDER BY created_at, transaction_id`

	rows, err := r.db.Query(ctx, query, userID, scope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListTxHistory, err)
	}
	defer rows.Close()

	var history []domain.MedalTransaction
	for rows.Next() {
		var tx domain.MedalTransaction
		var txType string
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Scope, &txType, &tx.Amount,
			&tx.BalanceBefore, &tx.BalanceAfter, &tx.ReferenceID, &tx.ReferenceType, &tx.Reason, &tx.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListTxHistory, err)
		}
		tx.Type = domain.MedalTxType(txType)
		history = append(history, tx)
	}
	return history, rows.Err()
}

// BeginTx starts a transaction and returns a LedgerTx
func (r *LedgerRepository) BeginTx(ctx context.Context) (repository.LedgerTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTx, err)
	}
	return &ledgerTx{tx: tx}, nil
}

// ledgerTx implements repository.LedgerTx
type ledgerTx struct {
	tx pgx.Tx
}

// Commit commits the transaction
func (t *ledgerTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *ledgerTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// GetBalanceForUpdate reads the balance and locks the row for the duration of
// the transaction. An empty FOR UPDATE result locks nothing, so when no record
// exists yet a zero row is materialized first and then locked; the losing
// inserter blocks on the unique index until the winner commits and re-reads
// the committed balance.
func (t *ledgerTx) GetBalanceForUpdate(ctx context.Context, userID string, scope *string) (int64, error) {
	query := `
		SELECT balance FROM push_medal_balances
		WHERE user_id = $1 AND COALESCE(scope_id, '') = COALESCE($2::text, '')
		FOR UPDATE`

	var balance int64
	err := t.tx.QueryRow(ctx, query, userID, scope).Scan(&balance)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalance, err)
	}

	insert := `
		INSERT INTO push_medal_balances (user_id, scope_id, balance, updated_at)
		VALUES ($1, $2, 0, NOW())
		ON CONFLICT (user_id, COALESCE(scope_id, '')) DO NOTHING`
	if _, err := t.tx.Exec(ctx, insert, userID, scope); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToUpsertBalance, err)
	}

	if err := t.tx.QueryRow(ctx, query, userID, scope).Scan(&balance); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToGetBalance, err)
	}
	return balance, nil
}

// UpsertBalance writes the new balance for a (user, scope) pair
func (t *ledgerTx) UpsertBalance(ctx context.Context, userID string, scope *string, balance int64) error {
	query := `
		INSERT INTO push_medal_balances (user_id, scope_id, balance, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id, COALESCE(scope_id, ''))
		DO UPDATE SET balance = EXCLUDED.balance, updated_at = NOW()`

	if _, err := t.tx.Exec(ctx, query, userID, scope, balance); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpsertBalance, err)
	}
	return nil
}

// InsertTransaction appends one immutable ledger row
func (t *ledgerTx) InsertTransaction(ctx context.Context, tx *domain.MedalTransaction) error {
	query := `
		INSERT INTO push_medal_transactions
			(transaction_id, user_id, scope_id, tx_type, amount,
			 balance_before, balance_after, reference_id, reference_type, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	if _, err := t.tx.Exec(ctx, query,
		tx.ID, tx.UserID, tx.Scope, string(tx.Type), tx.Amount,
		tx.BalanceBefore, tx.BalanceAfter, tx.ReferenceID, tx.ReferenceType, tx.Reason, tx.CreatedAt); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertTx, err)
	}
	return nil
}
