package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/MedalGacha_Go/internal/domain"
)

// Gacha defines the interface for gacha and draw-result persistence
type Gacha interface {
	GetGacha(ctx context.Context, id uuid.UUID) (*domain.Gacha, error)
	GetGachaItems(ctx context.Context, gachaID uuid.UUID) ([]domain.GachaItem, error)

	// GetRecentRarities returns the user's most recent draw rarities for a
	// gacha, ordered oldest to newest, up to limit rows. This feeds the
	// pity window.
	GetRecentRarities(ctx context.Context, userID string, gachaID uuid.UUID, limit int) ([]domain.Rarity, error)

	// IncrementGachaTotalDraws bumps the running draw counter, guarded by
	// the gacha's max-draw cap when one is set. Returns the number of rows
	// updated: 0 means the cap would be exceeded.
	IncrementGachaTotalDraws(ctx context.Context, gachaID uuid.UUID, n int) (int64, error)

	BeginDrawTx(ctx context.Context) (DrawTx, error)
}

// DrawTx covers the all-or-nothing persistence of one draw batch and its
// compensating removal. Stock increments and result rows commit together.
type DrawTx interface {
	Tx

	InsertDrawResults(ctx context.Context, results []domain.DrawResult) error

	// IncrementItemCount adds n to the item's issued count, guarded by the
	// stock cap. Returns rows affected: 0 means a concurrent draw already
	// consumed the remaining stock and the whole tx must abort.
	IncrementItemCount(ctx context.Context, itemID uuid.UUID, n int) (int64, error)

	// DeleteDrawResults and DecrementItemCount exist for compensation only
	DeleteDrawResults(ctx context.Context, ids []uuid.UUID) error
	DecrementItemCount(ctx context.Context, itemID uuid.UUID, n int) error
}
