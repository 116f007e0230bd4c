package draw

import (
	"fmt"
	"math"

	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/utils"
)

// Engine performs weighted random selection over a gacha's item pool.
// It is pure and stateless: no I/O, no hidden counters. Callers own the
// persistence of stock counts and draw history.
type Engine struct {
	rnd func() float64 // For rolling RNG
}

// NewEngine creates an engine backed by the default RNG
func NewEngine() *Engine {
	return &Engine{rnd: utils.RandomFloat}
}

// NewEngineWithRand creates an engine with an injected RNG for deterministic tests
func NewEngineWithRand(rnd func() float64) *Engine {
	return &Engine{rnd: rnd}
}

// Normalize scales drop rates proportionally so they sum to 1.0, preserving
// relative ordering and all non-rate fields. Raw weights (e.g. 60/40) are
// valid input; scaling is rate_i / sum, never clamping.
func (e *Engine) Normalize(items []domain.GachaItem) ([]domain.GachaItem, error) {
	if len(items) == 0 {
		return nil, domain.ErrEmptyItemPool
	}

	var total float64
	for _, item := range items {
		if item.DropRate < 0 {
			return nil, fmt.Errorf("%w: %s has rate %f", domain.ErrInvalidDropRate, item.Name, item.DropRate)
		}
		total += item.DropRate
	}
	if total == 0 {
		return nil, domain.ErrInvalidDropRateConfiguration
	}

	normalized := make([]domain.GachaItem, len(items))
	copy(normalized, items)
	for i := range normalized {
		normalized[i].DropRate = normalized[i].DropRate / total
	}
	return normalized, nil
}

// SelectWeighted draws one item: r is uniform in [0, totalWeight) and the
// first item whose cumulative weight exceeds r wins. A single-item list is
// returned deterministically.
func (e *Engine) SelectWeighted(items []domain.GachaItem) (domain.GachaItem, error) {
	if len(items) == 0 {
		return domain.GachaItem{}, domain.ErrNoItemsAvailable
	}

	var total float64
	for _, item := range items {
		if item.DropRate < 0 {
			return domain.GachaItem{}, fmt.Errorf("%w: %s has rate %f", domain.ErrInvalidDropRate, item.Name, item.DropRate)
		}
		total += item.DropRate
	}
	if total == 0 {
		return domain.GachaItem{}, domain.ErrInvalidDropRateConfiguration
	}

	r := e.rnd() * total
	var cumulative float64
	for _, item := range items {
		cumulative += item.DropRate
		if r < cumulative {
			return item, nil
		}
	}
	// Floating-point accumulation can leave r just at the boundary;
	// the last item owns the remainder of the interval.
	return items[len(items)-1], nil
}

// FilterAvailable drops items whose stock cap is exhausted
func FilterAvailable(items []domain.GachaItem) []domain.GachaItem {
	available := make([]domain.GachaItem, 0, len(items))
	for _, item := range items {
		if !item.Exhausted() {
			available = append(available, item)
		}
	}
	return available
}

// PityEligible reports whether the next draw is covered by the pity
// guarantee: the trailing run of below-rare results in history (ordered
// oldest to newest) has reached the threshold. The counter resets the
// instant a rare-or-better item appears, so only the tail matters.
func PityEligible(history []domain.Rarity) bool {
	streak := 0
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].AtLeast(PityMinimumRarity) {
			break
		}
		streak++
	}
	return streak >= domain.PityThreshold
}

// restrictToPity returns only rare-or-better items; empty means fall back
func restrictToPity(items []domain.GachaItem) []domain.GachaItem {
	restricted := make([]domain.GachaItem, 0, len(items))
	for _, item := range items {
		if item.Rarity.AtLeast(PityMinimumRarity) {
			restricted = append(restricted, item)
		}
	}
	return restricted
}

// ExecuteDraws performs drawCount sequential draws against a working copy of
// the pool. Each selection increments the chosen item's in-memory stock count
// so later iterations of the same batch see updated availability: a 10-pull
// cannot oversell a capped item even within a single batch. History is the
// user's persisted recent rarities (oldest to newest); in-batch results are
// appended to it so the pity window stays exact across the batch.
func (e *Engine) ExecuteDraws(items []domain.GachaItem, drawCount int, history []domain.Rarity) ([]domain.GachaItem, error) {
	pool := make([]domain.GachaItem, len(items))
	copy(pool, items)

	window := make([]domain.Rarity, len(history))
	copy(window, history)

	results := make([]domain.GachaItem, 0, drawCount)
	for i := 0; i < drawCount; i++ {
		available := FilterAvailable(pool)
		if len(available) == 0 {
			return nil, fmt.Errorf("%w: exhausted after %d of %d draws", domain.ErrNoAvailableItemsForDraw, i, drawCount)
		}

		candidates := available
		if PityEligible(window) {
			if restricted := restrictToPity(available); len(restricted) > 0 {
				candidates = restricted
			}
		}

		normalized, err := e.Normalize(candidates)
		if err != nil {
			return nil, err
		}

		selected, err := e.SelectWeighted(normalized)
		if err != nil {
			return nil, err
		}

		for j := range pool {
			if pool[j].ID == selected.ID {
				pool[j].CurrentCount++
				selected = pool[j]
				break
			}
		}

		results = append(results, selected)
		window = append(window, selected.Rarity)
	}
	return results, nil
}

// SumOfRates is a test and audit helper returning the total drop rate
func SumOfRates(items []domain.GachaItem) float64 {
	var total float64
	for _, item := range items {
		total += item.DropRate
	}
	return total
}

// RatesNormalized reports whether rates sum to 1.0 within epsilon
func RatesNormalized(items []domain.GachaItem) bool {
	return math.Abs(SumOfRates(items)-1.0) <= domain.DropRateEpsilon
}
