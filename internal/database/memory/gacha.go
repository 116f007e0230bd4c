package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/repository"
)

// GachaRepository is an in-memory repository.Gacha. Like the ledger variant,
// a draw transaction holds the repository lock, making the cap-guarded stock
// increment atomically visible to concurrent batches.
type GachaRepository struct {
	mu      sync.Mutex
	gachas  map[uuid.UUID]domain.Gacha
	items   map[uuid.UUID]domain.GachaItem
	order   map[uuid.UUID][]uuid.UUID // gacha id -> item ids, insertion order
	results []domain.DrawResult
}

// NewGachaRepository creates an empty in-memory gacha repository
func NewGachaRepository() *GachaRepository {
	return &GachaRepository{
		gachas: make(map[uuid.UUID]domain.Gacha),
		items:  make(map[uuid.UUID]domain.GachaItem),
		order:  make(map[uuid.UUID][]uuid.UUID),
	}
}

// SeedGacha stores a gacha definition. Test/bootstrap helper.
func (r *GachaRepository) SeedGacha(g domain.Gacha) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gachas[g.ID] = g
}

// SeedItems stores items for a gacha. Test/bootstrap helper.
func (r *GachaRepository) SeedItems(items ...domain.GachaItem) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, item := range items {
		if _, exists := r.items[item.ID]; !exists {
			r.order[item.GachaID] = append(r.order[item.GachaID], item.ID)
		}
		r.items[item.ID] = item
	}
}

func (r *GachaRepository) GetGacha(_ context.Context, id uuid.UUID) (*domain.Gacha, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.gachas[id]
	if !ok {
		return nil, domain.ErrGachaNotFound
	}
	out := g
	return &out, nil
}

func (r *GachaRepository) GetGachaItems(_ context.Context, gachaID uuid.UUID) ([]domain.GachaItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := r.order[gachaID]
	out := make([]domain.GachaItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.items[id])
	}
	return out, nil
}

func (r *GachaRepository) GetRecentRarities(_ context.Context, userID string, gachaID uuid.UUID, limit int) ([]domain.Rarity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// results is append-only, so slice order is draw order
	var rarities []domain.Rarity
	for _, res := range r.results {
		if res.UserID != userID || res.GachaID != gachaID {
			continue
		}
		rarities = append(rarities, r.items[res.ItemID].Rarity)
	}
	if limit > 0 && len(rarities) > limit {
		rarities = rarities[len(rarities)-limit:]
	}
	return rarities, nil
}

func (r *GachaRepository) IncrementGachaTotalDraws(_ context.Context, gachaID uuid.UUID, n int) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.gachas[gachaID]
	if !ok {
		return 0, domain.ErrGachaNotFound
	}
	if g.MaxDraws != nil && g.TotalDraws+n > *g.MaxDraws {
		return 0, nil
	}
	g.TotalDraws += n
	r.gachas[gachaID] = g
	return 1, nil
}

func (r *GachaRepository) BeginDrawTx(_ context.Context) (repository.DrawTx, error) {
	r.mu.Lock()
	return &drawTx{repo: r}, nil
}

type drawTx struct {
	repo   *GachaRepository
	undo   []func()
	closed bool
}

func (t *drawTx) Commit(_ context.Context) error {
	if t.closed {
		return domain.ErrTxClosed
	}
	t.closed = true
	t.undo = nil
	t.repo.mu.Unlock()
	return nil
}

func (t *drawTx) Rollback(_ context.Context) error {
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

func (t *drawTx) InsertDrawResults(_ context.Context, results []domain.DrawResult) error {
	if t.closed {
		return domain.ErrTxClosed
	}

	prevLen := len(t.repo.results)
	t.repo.results = append(t.repo.results, results...)
	t.undo = append(t.undo, func() {
		t.repo.results = t.repo.results[:prevLen]
	})
	return nil
}

func (t *drawTx) IncrementItemCount(_ context.Context, itemID uuid.UUID, n int) (int64, error) {
	if t.closed {
		return 0, domain.ErrTxClosed
	}

	item, ok := t.repo.items[itemID]
	if !ok {
		return 0, nil
	}
	if item.MaxCount != nil && item.CurrentCount+n > *item.MaxCount {
		return 0, nil
	}

	prev := item
	t.undo = append(t.undo, func() {
		t.repo.items[itemID] = prev
	})
	item.CurrentCount += n
	t.repo.items[itemID] = item
	return 1, nil
}

func (t *drawTx) DeleteDrawResults(_ context.Context, ids []uuid.UUID) error {
	if t.closed {
		return domain.ErrTxClosed
	}

	drop := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}

	prev := t.repo.results
	kept := make([]domain.DrawResult, 0, len(prev))
	for _, res := range prev {
		if !drop[res.ID] {
			kept = append(kept, res)
		}
	}
	t.repo.results = kept
	t.undo = append(t.undo, func() {
		t.repo.results = prev
	})
	return nil
}

func (t *drawTx) DecrementItemCount(_ context.Context, itemID uuid.UUID, n int) error {
	if t.closed {
		return domain.ErrTxClosed
	}

	item, ok := t.repo.items[itemID]
	if !ok {
		return domain.ErrNoItemsAvailable
	}

	prev := item
	t.undo = append(t.undo, func() {
		t.repo.items[itemID] = prev
	})
	item.CurrentCount -= n
	if item.CurrentCount < 0 {
		item.CurrentCount = 0
	}
	t.repo.items[itemID] = item
	return nil
}
