package gacha

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/repository"
	"github.com/osse101/MedalGacha_Go/internal/reward"
)

type mockGachaRepo struct {
	mock.Mock
}

func (m *mockGachaRepo) GetGacha(ctx context.Context, id uuid.UUID) (*domain.Gacha, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Gacha), args.Error(1)
}

func (m *mockGachaRepo) GetGachaItems(ctx context.Context, gachaID uuid.UUID) ([]domain.GachaItem, error) {
	args := m.Called(ctx, gachaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GachaItem), args.Error(1)
}

func (m *mockGachaRepo) GetRecentRarities(ctx context.Context, userID string, gachaID uuid.UUID, limit int) ([]domain.Rarity, error) {
	args := m.Called(ctx, userID, gachaID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rarity), args.Error(1)
}

func (m *mockGachaRepo) IncrementGachaTotalDraws(ctx context.Context, gachaID uuid.UUID, n int) (int64, error) {
	args := m.Called(ctx, gachaID, n)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockGachaRepo) BeginDrawTx(ctx context.Context) (repository.DrawTx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(repository.DrawTx), args.Error(1)
}

type mockDrawTx struct {
	mock.Mock
}

func (m *mockDrawTx) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockDrawTx) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockDrawTx) InsertDrawResults(ctx context.Context, results []domain.DrawResult) error {
	return m.Called(ctx, results).Error(0)
}

func (m *mockDrawTx) IncrementItemCount(ctx context.Context, itemID uuid.UUID, n int) (int64, error) {
	args := m.Called(ctx, itemID, n)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockDrawTx) DeleteDrawResults(ctx context.Context, ids []uuid.UUID) error {
	return m.Called(ctx, ids).Error(0)
}

func (m *mockDrawTx) DecrementItemCount(ctx context.Context, itemID uuid.UUID, n int) error {
	return m.Called(ctx, itemID, n).Error(0)
}

type mockPaymentClient struct {
	mock.Mock
}

func (m *mockPaymentClient) Charge(ctx context.Context, userID string, amount int64, idempotencyKey string) (*domain.ChargeReceipt, error) {
	args := m.Called(ctx, userID, amount, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChargeReceipt), args.Error(1)
}

func (m *mockPaymentClient) Refund(ctx context.Context, chargeID string) error {
	return m.Called(ctx, chargeID).Error(0)
}

type mockRewardClient struct {
	mock.Mock
}

func (m *mockRewardClient) Grant(ctx context.Context, userID string, items []reward.Item) (string, error) {
	args := m.Called(ctx, userID, items)
	return args.String(0), args.Error(1)
}

func (m *mockRewardClient) Revoke(ctx context.Context, grantID string) error {
	return m.Called(ctx, grantID).Error(0)
}

type mockLedgerService struct {
	mock.Mock
}

func (m *mockLedgerService) GetBalance(ctx context.Context, userID string, scope *string) (int64, error) {
	args := m.Called(ctx, userID, scope)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLedgerService) Credit(ctx context.Context, userID string, scope *string, amount int64, txType domain.MedalTxType, ref *domain.MedalTxRef) (*domain.MedalTransaction, error) {
	args := m.Called(ctx, userID, scope, amount, txType, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MedalTransaction), args.Error(1)
}

func (m *mockLedgerService) Debit(ctx context.Context, userID string, scope *string, amount int64, txType domain.MedalTxType, ref *domain.MedalTxRef) (*domain.MedalTransaction, error) {
	args := m.Called(ctx, userID, scope, amount, txType, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MedalTransaction), args.Error(1)
}

func (m *mockLedgerService) TransferFromPool(ctx context.Context, userID string, fromScope, toScope *string, amount int64) error {
	return m.Called(ctx, userID, fromScope, toScope, amount).Error(0)
}

func (m *mockLedgerService) AdminAdjustBalance(ctx context.Context, userID string, scope *string, amount int64, reason, adminID string) (*domain.MedalTransaction, error) {
	args := m.Called(ctx, userID, scope, amount, reason, adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MedalTransaction), args.Error(1)
}

func (m *mockLedgerService) PerformIntegrityCheck(ctx context.Context, userID *string) ([]domain.IntegrityDiscrepancy, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IntegrityDiscrepancy), args.Error(1)
}
