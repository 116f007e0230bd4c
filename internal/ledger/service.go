package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/logger"
	"github.com/osse101/MedalGacha_Go/internal/metrics"
	"github.com/osse101/MedalGacha_Go/internal/repository"
)

// Service defines the interface for push-medal ledger operations
type Service interface {
	GetBalance(ctx context.Context, userID string, scope *string) (int64, error)
	Credit(ctx context.Context, userID string, scope *string, amount int64, txType domain.MedalTxType, ref *domain.MedalTxRef) (*domain.MedalTransaction, error)
	Debit(ctx context.Context, userID string, scope *string, amount int64, txType domain.MedalTxType, ref *domain.MedalTxRef) (*domain.MedalTransaction, error)
	TransferFromPool(ctx context.Context, userID string, fromScope, toScope *string, amount int64) error
	AdminAdjustBalance(ctx context.Context, userID string, scope *string, amount int64, reason, adminID string) (*domain.MedalTransaction, error)
	PerformIntegrityCheck(ctx context.Context, userID *string) ([]domain.IntegrityDiscrepancy, error)
}

type service struct {
	repo repository.Ledger
	now  func() time.Time
}

// NewService creates a new ledger service
func NewService(repo repository.Ledger) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

// GetBalance returns the current balance; a missing record is 0, not an error
func (s *service) GetBalance(ctx context.Context, userID string, scope *string) (int64, error) {
	return s.repo.GetBalance(ctx, userID, scope)
}

// Credit adds amount medals to the (user, scope) balance
func (s *service) Credit(ctx context.Context, userID string, scope *string, amount int64, txType domain.MedalTxType, ref *domain.MedalTxRef) (*domain.MedalTransaction, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgCreditCalled, "userID", userID, "scope", domain.ScopeKey(scope), "amount", amount, "type", txType)

	if amount <= 0 {
		return nil, fmt.Errorf("%w: credit amount must be positive, got %d", domain.ErrInvalidAmount, amount)
	}
	return s.updateBalance(ctx, userID, scope, amount, txType, ref, nil)
}

// Debit removes amount medals from the (user, scope) balance
func (s *service) Debit(ctx context.Context, userID string, scope *string, amount int64, txType domain.MedalTxType, ref *domain.MedalTxRef) (*domain.MedalTransaction, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgDebitCalled, "userID", userID, "scope", domain.ScopeKey(scope), "amount", amount, "type", txType)

	if amount <= 0 {
		return nil, fmt.Errorf("%w: debit amount must be positive, got %d", domain.ErrInvalidAmount, amount)
	}
	return s.updateBalance(ctx, userID, scope, -amount, txType, ref, nil)
}

// updateBalance is the single write path: read-locked balance, signed update,
// and the immutable transaction row commit as one unit.
func (s *service) updateBalance(ctx context.Context, userID string, scope *string, amount int64, txType domain.MedalTxType, ref *domain.MedalTxRef, reason *string) (*domain.MedalTransaction, error) {
	if amount == 0 {
		return nil, domain.ErrInvalidAmount
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	medalTx, err := s.applyUpdate(ctx, tx, userID, scope, amount, txType, ref, reason)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}

	if amount > 0 && txType == domain.MedalTxRewardGrant {
		metrics.MedalsCredited.Add(float64(amount))
	}
	return medalTx, nil
}

// applyUpdate performs one signed balance update inside an open transaction.
// Callers compose multiple updates (transfer) into a single commit.
func (s *service) applyUpdate(ctx context.Context, tx repository.LedgerTx, userID string, scope *string, amount int64, txType domain.MedalTxType, ref *domain.MedalTxRef, reason *string) (*domain.MedalTransaction, error) {
	before, err := tx.GetBalanceForUpdate(ctx, userID, scope)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToReadBalance, err)
	}

	after := before + amount
	if after < 0 {
		return nil, fmt.Errorf("%w: balance %d, requested %d", domain.ErrInsufficientBalance, before, -amount)
	}

	if err := tx.UpsertBalance(ctx, userID, scope, after); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToWriteBalance, err)
	}

	medalTx := &domain.MedalTransaction{
		ID:            uuid.New(),
		UserID:        userID,
		Scope:         scope,
		Type:          txType,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reason:        reason,
		CreatedAt:     s.now(),
	}
	if ref != nil {
		medalTx.ReferenceID = &ref.ID
		medalTx.ReferenceType = &ref.Type
	}

	if err := tx.InsertTransaction(ctx, medalTx); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToAppendTx, err)
	}
	return medalTx, nil
}

// TransferFromPool moves medals between scopes for one user. Both legs share
// a single transaction, so a partial transfer is unrepresentable.
func (s *service) TransferFromPool(ctx context.Context, userID string, fromScope, toScope *string, amount int64) error {
	log := logger.FromContext(ctx)
	log.Info(LogMsgTransferCalled, "userID", userID, "from", domain.ScopeKey(fromScope), "to", domain.ScopeKey(toScope), "amount", amount)

	if amount <= 0 {
		return fmt.Errorf("%w: transfer amount must be positive, got %d", domain.ErrInvalidAmount, amount)
	}

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToBeginTx, err)
	}
	defer repository.SafeRollback(ctx, tx)

	if _, err := s.applyUpdate(ctx, tx, userID, fromScope, -amount, domain.MedalTxPoolTransfer, nil, nil); err != nil {
		return err
	}
	if _, err := s.applyUpdate(ctx, tx, userID, toScope, amount, domain.MedalTxPoolTransfer, nil, nil); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrContextFailedToCommitTx, err)
	}
	return nil
}

// AdminAdjustBalance applies a signed manual correction with a mandatory reason
func (s *service) AdminAdjustBalance(ctx context.Context, userID string, scope *string, amount int64, reason, adminID string) (*domain.MedalTransaction, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgAdminAdjustCalled, "userID", userID, "scope", domain.ScopeKey(scope), "amount", amount, "adminID", adminID)

	if reason == "" {
		return nil, domain.ErrAdjustReasonRequired
	}

	ref := &domain.MedalTxRef{ID: adminID, Type: domain.RefTypeAdmin}
	return s.updateBalance(ctx, userID, scope, amount, domain.MedalTxAdminAdjustment, ref, &reason)
}

// PerformIntegrityCheck replays transaction history for each balance in scope
// and reports records whose stored balance disagrees with the recomputed sum.
// Read-only; intended to run periodically out-of-band.
func (s *service) PerformIntegrityCheck(ctx context.Context, userID *string) ([]domain.IntegrityDiscrepancy, error) {
	log := logger.FromContext(ctx)
	log.Info(LogMsgIntegrityCheckCalled, "userID", userID)

	balances, err := s.repo.ListBalances(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrContextFailedToListBalances, err)
	}

	var discrepancies []domain.IntegrityDiscrepancy
	for _, bal := range balances {
		history, err := s.repo.ListTransactions(ctx, bal.UserID, bal.Scope)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrContextFailedToListTxHistory, err)
		}

		var expected int64
		var lastTxAt *time.Time
		for i := range history {
			expected += history[i].Amount
			lastTxAt = &history[i].CreatedAt
		}

		if expected != bal.Balance {
			d := domain.IntegrityDiscrepancy{
				UserID:   bal.UserID,
				Scope:    bal.Scope,
				Expected: expected,
				Actual:   bal.Balance,
				Delta:    bal.Balance - expected,
				LastTxAt: lastTxAt,
			}
			discrepancies = append(discrepancies, d)
			metrics.LedgerDiscrepancies.Inc()
			log.Error(LogMsgDiscrepancyFound,
				"userID", bal.UserID,
				"scope", domain.ScopeKey(bal.Scope),
				"expected", expected,
				"actual", bal.Balance,
				"delta", d.Delta)
		}
	}
	return discrepancies, nil
}
