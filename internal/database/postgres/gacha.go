// Package postgres implements the repository interfaces over pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/repository"
)

// GachaRepository implements repository.Gacha for PostgreSQL
type GachaRepository struct {
	db *pgxpool.Pool
}

// NewGachaRepository creates a new GachaRepository
func NewGachaRepository(db *pgxpool.Pool) *GachaRepository {
	return &GachaRepository{db: db}
}

// GetGacha retrieves a gacha by ID
func (r *GachaRepository) GetGacha(ctx context.Context, id uuid.UUID) (*domain.Gacha, error) {
	query := `
		SELECT gacha_id, creator_id, gacha_name, price, medal_reward, status,
		       start_at, end_at, max_draws, total_draws, created_at, updated_at
		FROM gachas
		WHERE gacha_id = $1`

	var g domain.Gacha
	var status string
	err := r.db.QueryRow(ctx, query, id).Scan(
		&g.ID, &g.CreatorID, &g.Name, &g.Price, &g.MedalReward, &status,
		&g.StartAt, &g.EndAt, &g.MaxDraws, &g.TotalDraws, &g.CreatedAt, &g.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrGachaNotFound
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetGacha, err)
	}
	g.Status = domain.GachaStatus(status)
	return &g, nil
}

// GetGachaItems retrieves the item pool for a gacha
func (r *GachaRepository) GetGachaItems(ctx context.Context, gachaID uuid.UUID) ([]domain.GachaItem, error) {
	query := `
		SELECT gacha_item_id, gacha_id, item_name, rarity, drop_rate, max_count, current_count
		FROM gacha_items
		WHERE gacha_id = $1
		ORDER BY gacha_item_id`

	rows, err := r.db.Query(ctx, query, gachaID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetGachaItems, err)
	}
	defer rows.Close()

	var items []domain.GachaItem
	for rows.Next() {
		var item domain.GachaItem
		var rarity string
		if err := rows.Scan(&item.ID, &item.GachaID, &item.Name, &rarity, &item.DropRate, &item.MaxCount, &item.CurrentCount); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetGachaItems, err)
		}
		item.Rarity = domain.ParseRarity(rarity)
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetRecentRarities returns the user's most recent draw rarities for a gacha,
// oldest to newest
func (r *GachaRepository) GetRecentRarities(ctx context.Context, userID string, gachaID uuid.UUID, limit int) ([]domain.Rarity, error) {
	query := `
		SELECT gi.rarity
		FROM draw_results dr
		JOIN gacha_items gi ON gi.gacha_item_id = dr.gacha_item_id
		WHERE dr.user_id = $1 AND dr.gacha_id = $2
		ORDER BY dr.created_at DESC, dr.draw_result_id DESC
		LIMIT $3`

	rows, err := r.db.Query(ctx, query, userID, gachaID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetDrawHistory, err)
	}
	defer rows.Close()

	var newestFirst []domain.Rarity
	for rows.Next() {
		var rarity string
		if err := rows.Scan(&rarity); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetDrawHistory, err)
		}
		newestFirst = append(newestFirst, domain.ParseRarity(rarity))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetDrawHistory, err)
	}

	// reverse into oldest-to-newest
	out := make([]domain.Rarity, len(newestFirst))
	for i, rarity := range newestFirst {
		out[len(newestFirst)-1-i] = rarity
	}
	return out, nil
}

// IncrementGachaTotalDraws bumps the running draw counter guarded by the
// max-draw cap. Zero rows affected means the cap would be exceeded.
func (r *GachaRepository) IncrementGachaTotalDraws(ctx context.Context, gachaID uuid.UUID, n int) (int64, error) {
	query := `
		UPDATE gachas
		SET total_draws = total_draws + $2, updated_at = NOW()
		WHERE gacha_id = $1
		  AND (max_draws IS NULL OR total_draws + $2 <= max_draws)`

	result, err := r.db.Exec(ctx, query, gachaID, n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateDrawCount, err)
	}
	return result.RowsAffected(), nil
}

// BeginDrawTx starts a transaction and returns a DrawTx
func (r *GachaRepository) BeginDrawTx(ctx context.Context) (repository.DrawTx, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTx, err)
	}
	return &drawTx{tx: tx}, nil
}

// drawTx implements repository.DrawTx
type drawTx struct {
	tx pgx.Tx
}

// Commit commits the transaction
func (t *drawTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

// Rollback rolls back the transaction
func (t *drawTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

// InsertDrawResults writes one row per unit draw
func (t *drawTx) InsertDrawResults(ctx context.Context, results []domain.DrawResult) error {
	query := `
		INSERT INTO draw_results (draw_result_id, user_id, gacha_id, gacha_item_id, price, medal_reward, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, res := range results {
		if _, err := t.tx.Exec(ctx, query, res.ID, res.UserID, res.GachaID, res.ItemID, res.Price, res.MedalReward, res.CreatedAt); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFailedToInsertResults, err)
		}
	}
	return nil
}

// IncrementItemCount performs the cap-guarded stock update. Zero rows
// affected means a concurrent draw already consumed the remaining stock.
func (t *drawTx) IncrementItemCount(ctx context.Context, itemID uuid.UUID, n int) (int64, error) {
	query := `
		UPDATE gacha_items
		SET current_count = current_count + $2
		WHERE gacha_item_id = $1
		  AND (max_count IS NULL OR current_count + $2 <= max_count)`

	result, err := t.tx.Exec(ctx, query, itemID, n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateItemCount, err)
	}
	return result.RowsAffected(), nil
}

// DeleteDrawResults removes a batch's rows during compensation
func (t *drawTx) DeleteDrawResults(ctx context.Context, ids []uuid.UUID) error {
	query := `DELETE FROM draw_results WHERE draw_result_id = ANY($1)`

	if _, err := t.tx.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteResults, err)
	}
	return nil
}

// DecrementItemCount reverses a stock increment during compensation
func (t *drawTx) DecrementItemCount(ctx context.Context, itemID uuid.UUID, n int) error {
	query := `
		UPDATE gacha_items
		SET current_count = GREATEST(current_count - $2, 0)
		WHERE gacha_item_id = $1`

	if _, err := t.tx.Exec(ctx, query, itemID, n); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToUpdateItemCount, err)
	}
	return nil
}
