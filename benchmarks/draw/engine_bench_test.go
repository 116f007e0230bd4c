package draw_bench

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/osse101/MedalGacha_Go/internal/domain"
	"github.com/osse101/MedalGacha_Go/internal/draw"
)

// buildPool constructs a pool of n items with descending raw weights so the
// engine exercises its normalization path on every draw.
func buildPool(n int) []domain.GachaItem {
	items := make([]domain.GachaItem, n)
	for i := 0; i < n; i++ {
		rarity := domain.RarityCommon
		switch {
		case i%50 == 0:
			rarity = domain.RarityLegendary
		case i%10 == 0:
			rarity = domain.RarityRare
		}
		items[i] = domain.GachaItem{
			ID:       uuid.New(),
			Name:     fmt.Sprintf("item-%d", i),
			Rarity:   rarity,
			DropRate: float64(n - i),
		}
	}
	return items
}

// sequenceRand cycles through fixed values so runs are reproducible
func sequenceRand() func() float64 {
	values := []float64{0.05, 0.37, 0.61, 0.92, 0.18}
	idx := 0
	return func() float64 {
		v := values[idx%len(values)]
		idx++
		return v
	}
}

// --- Benchmark Functions ---

// BenchmarkExecuteDraws_TenPull measures a full 10-pull against a mid-size pool,
// the hot path for batch draw requests.
func BenchmarkExecuteDraws_TenPull(b *testing.B) {
	engine := draw.NewEngineWithRand(sequenceRand())
	pool := buildPool(100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := engine.ExecuteDraws(pool, 10, nil)
		if err != nil {
			b.Fatalf("ExecuteDraws failed: %v", err)
		}
	}
}

// BenchmarkExecuteDraws_PityWindow measures a draw where the pity guarantee is
// already triggered, forcing the rarity-restriction pass on every iteration.
func BenchmarkExecuteDraws_PityWindow(b *testing.B) {
	engine := draw.NewEngineWithRand(sequenceRand())
	pool := buildPool(100)

	history := make([]domain.Rarity, domain.PityThreshold)
	for i := range history {
		history[i] = domain.RarityCommon
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := engine.ExecuteDraws(pool, 1, history)
		if err != nil {
			b.Fatalf("ExecuteDraws failed: %v", err)
		}
	}
}

// BenchmarkSelectWeighted_LargePool isolates the single-selection scan cost.
func BenchmarkSelectWeighted_LargePool(b *testing.B) {
	engine := draw.NewEngineWithRand(sequenceRand())
	pool, err := draw.NewEngine().Normalize(buildPool(1000))
	if err != nil {
		b.Fatalf("Normalize failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.SelectWeighted(pool); err != nil {
			b.Fatalf("SelectWeighted failed: %v", err)
		}
	}
}
