package draw

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MedalGacha_Go/internal/domain"
)

func intPtr(n int) *int { return &n }

func makeItem(name string, rarity domain.Rarity, rate float64) domain.GachaItem {
	return domain.GachaItem{
		ID:       uuid.New(),
		GachaID:  uuid.New(),
		Name:     name,
		Rarity:   rarity,
		DropRate: rate,
	}
}

// ========================================
// Normalize Tests
// ========================================

func TestNormalize_ProportionalScaling(t *testing.T) {
	e := NewEngine()
	items := []domain.GachaItem{
		makeItem("a", domain.RarityCommon, 60),
		makeItem("b", domain.RarityRare, 40),
	}

	normalized, err := e.Normalize(items)
	require.NoError(t, err)

	assert.InDelta(t, 0.6, normalized[0].DropRate, domain.DropRateEpsilon)
	assert.InDelta(t, 0.4, normalized[1].DropRate, domain.DropRateEpsilon)
	assert.True(t, RatesNormalized(normalized))

	// Order and non-rate fields preserved
	assert.Equal(t, "a", normalized[0].Name)
	assert.Equal(t, "b", normalized[1].Name)
	assert.Equal(t, items[0].ID, normalized[0].ID)
	assert.Equal(t, domain.RarityRare, normalized[1].Rarity)

	// Input untouched
	assert.Equal(t, 60.0, items[0].DropRate)
}

func TestNormalize_AlreadyNormalizedStaysNormalized(t *testing.T) {
	e := NewEngine()
	items := []domain.GachaItem{
		makeItem("a", domain.RarityCommon, 0.9),
		makeItem("b", domain.RarityRare, 0.1),
	}

	normalized, err := e.Normalize(items)
	require.NoError(t, err)
	assert.True(t, RatesNormalized(normalized))
	assert.InDelta(t, 0.9, normalized[0].DropRate, domain.DropRateEpsilon)
}

func TestNormalize_ManyItemsSumToOne(t *testing.T) {
	e := NewEngine()
	var items []domain.GachaItem
	for i := 0; i < 100; i++ {
		items = append(items, makeItem("item", domain.RarityCommon, float64(i+1)*0.137))
	}

	normalized, err := e.Normalize(items)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, SumOfRates(normalized), domain.DropRateEpsilon)
}

func TestNormalize_EmptyPool(t *testing.T) {
	e := NewEngine()
	_, err := e.Normalize(nil)
	assert.ErrorIs(t, err, domain.ErrEmptyItemPool)
}

func TestNormalize_AllZeroRates(t *testing.T) {
	e := NewEngine()
	items := []domain.GachaItem{
		makeItem("a", domain.RarityCommon, 0),
		makeItem("b", domain.RarityRare, 0),
	}
	_, err := e.Normalize(items)
	assert.ErrorIs(t, err, domain.ErrInvalidDropRateConfiguration)
}

func TestNormalize_NegativeRateRejected(t *testing.T) {
	e := NewEngine()
	items := []domain.GachaItem{
		makeItem("a", domain.RarityCommon, 0.5),
		makeItem("b", domain.RarityRare, -0.1),
	}
	_, err := e.Normalize(items)
	assert.ErrorIs(t, err, domain.ErrInvalidDropRate)
}

// ========================================
// SelectWeighted Tests
// ========================================

func TestSelectWeighted_SingleItemDeterministic(t *testing.T) {
	e := NewEngine()
	items := []domain.GachaItem{makeItem("only", domain.RarityLegendary, 0.001)}

	for i := 0; i < 10; i++ {
		selected, err := e.SelectWeighted(items)
		require.NoError(t, err)
		assert.Equal(t, "only", selected.Name)
	}
}

func TestSelectWeighted_EmptyPool(t *testing.T) {
	e := NewEngine()
	_, err := e.SelectWeighted(nil)
	assert.ErrorIs(t, err, domain.ErrNoItemsAvailable)
}

func TestSelectWeighted_NegativeWeightRejected(t *testing.T) {
	e := NewEngine()
	items := []domain.GachaItem{
		makeItem("a", domain.RarityCommon, 0.5),
		makeItem("b", domain.RarityRare, -1),
	}
	_, err := e.SelectWeighted(items)
	assert.ErrorIs(t, err, domain.ErrInvalidDropRate)
}

func TestSelectWeighted_CumulativeWalk(t *testing.T) {
	items := []domain.GachaItem{
		makeItem("a", domain.RarityCommon, 0.5),
		makeItem("b", domain.RarityRare, 0.3),
		makeItem("c", domain.RarityEpic, 0.2),
	}

	cases := []struct {
		r    float64
		want string
	}{
		{0.0, "a"},
		{0.49, "a"},
		{0.5, "b"},
		{0.79, "b"},
		{0.8, "c"},
		{0.999, "c"},
	}

	for _, tc := range cases {
		e := NewEngineWithRand(func() float64 { return tc.r })
		selected, err := e.SelectWeighted(items)
		require.NoError(t, err)
		assert.Equal(t, tc.want, selected.Name, "r=%f", tc.r)
	}
}

func TestSelectWeighted_StatisticalDistribution(t *testing.T) {
	e := NewEngine()
	items := []domain.GachaItem{
		makeItem("common", domain.RarityCommon, 0.9),
		makeItem("rare", domain.RarityRare, 0.1),
	}

	const trials = 10000
	commonCount := 0
	for i := 0; i < trials; i++ {
		selected, err := e.SelectWeighted(items)
		require.NoError(t, err)
		if selected.Name == "common" {
			commonCount++
		}
	}

	fraction := float64(commonCount) / float64(trials)
	assert.InDelta(t, 0.9, fraction, 0.02, "common fraction %f outside tolerance", fraction)
}

// ========================================
// FilterAvailable Tests
// ========================================

func TestFilterAvailable_ExcludesExhausted(t *testing.T) {
	exhausted := makeItem("gone", domain.RarityLegendary, 0.1)
	exhausted.MaxCount = intPtr(1)
	exhausted.CurrentCount = 1

	capped := makeItem("capped", domain.RarityRare, 0.3)
	capped.MaxCount = intPtr(5)
	capped.CurrentCount = 4

	unlimited := makeItem("unlimited", domain.RarityCommon, 0.6)

	available := FilterAvailable([]domain.GachaItem{exhausted, capped, unlimited})
	require.Len(t, available, 2)
	assert.Equal(t, "capped", available[0].Name)
	assert.Equal(t, "unlimited", available[1].Name)
}

func TestFilterAvailable_AllExhausted(t *testing.T) {
	a := makeItem("a", domain.RarityCommon, 0.5)
	a.MaxCount = intPtr(2)
	a.CurrentCount = 2

	available := FilterAvailable([]domain.GachaItem{a})
	assert.Empty(t, available)
}

// ========================================
// Pity Tests
// ========================================

func commonRun(n int) []domain.Rarity {
	history := make([]domain.Rarity, n)
	for i := range history {
		history[i] = domain.RarityCommon
	}
	return history
}

func TestPityEligible_FiftyCommonsTriggers(t *testing.T) {
	assert.True(t, PityEligible(commonRun(domain.PityThreshold)))
}

func TestPityEligible_FortyNineCommonsDoesNot(t *testing.T) {
	assert.False(t, PityEligible(commonRun(domain.PityThreshold-1)))
}

func TestPityEligible_RecentRareResetsCounter(t *testing.T) {
	// 49 commons, a rare, then 10 more commons: streak is 10, no guarantee
	history := commonRun(domain.PityThreshold - 1)
	history = append(history, domain.RarityRare)
	history = append(history, commonRun(10)...)
	assert.False(t, PityEligible(history))
}

func TestPityEligible_EpicCountsAsRareOrBetter(t *testing.T) {
	history := append(commonRun(domain.PityThreshold), domain.RarityEpic)
	assert.False(t, PityEligible(history))
}

func TestExecuteDraws_PityGuaranteesRareOnThresholdDraw(t *testing.T) {
	// Force the RNG toward the common end of the interval; only the pity
	// restriction can produce a rare here.
	e := NewEngineWithRand(func() float64 { return 0.0 })
	items := []domain.GachaItem{
		makeItem("common", domain.RarityCommon, 0.99),
		makeItem("rare", domain.RarityRare, 0.01),
	}

	results, err := e.ExecuteDraws(items, 1, commonRun(domain.PityThreshold))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Rarity.AtLeast(domain.RarityRare))
}

func TestExecuteDraws_PityFallsBackWhenNoRareLeft(t *testing.T) {
	e := NewEngineWithRand(func() float64 { return 0.0 })

	rare := makeItem("rare", domain.RarityRare, 0.5)
	rare.MaxCount = intPtr(1)
	rare.CurrentCount = 1
	common := makeItem("common", domain.RarityCommon, 0.5)

	// Guarantee window open, but every rare-or-better item is exhausted:
	// fall back to the unrestricted pool rather than failing.
	results, err := e.ExecuteDraws([]domain.GachaItem{rare, common}, 1, commonRun(domain.PityThreshold))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "common", results[0].Name)
}

func TestExecuteDraws_PityWindowSpansBatch(t *testing.T) {
	// 49 persisted commons; in a 2-pull the first draw is not guaranteed,
	// but if it lands common the second draw must be rare or better.
	e := NewEngineWithRand(func() float64 { return 0.0 })
	items := []domain.GachaItem{
		makeItem("common", domain.RarityCommon, 0.99),
		makeItem("rare", domain.RarityRare, 0.01),
	}

	results, err := e.ExecuteDraws(items, 2, commonRun(domain.PityThreshold-1))
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, domain.RarityCommon, results[0].Rarity)
	assert.True(t, results[1].Rarity.AtLeast(domain.RarityRare))
}

// ========================================
// ExecuteDraws Stock Tests
// ========================================

func TestExecuteDraws_BatchCannotOversellCappedItem(t *testing.T) {
	// Heavily weighted capped item: without in-batch stock tracking it
	// would be drawn every time.
	e := NewEngine()
	capped := makeItem("capped", domain.RarityLegendary, 0.999)
	capped.MaxCount = intPtr(2)
	filler := makeItem("filler", domain.RarityCommon, 0.001)

	results, err := e.ExecuteDraws([]domain.GachaItem{capped, filler}, 10, nil)
	require.NoError(t, err)
	require.Len(t, results, 10)

	cappedDraws := 0
	for _, r := range results {
		if r.Name == "capped" {
			cappedDraws++
		}
	}
	assert.LessOrEqual(t, cappedDraws, 2)
}

func TestExecuteDraws_FailsFastWhenPoolExhaustsMidBatch(t *testing.T) {
	e := NewEngine()
	a := makeItem("a", domain.RarityCommon, 0.5)
	a.MaxCount = intPtr(1)
	b := makeItem("b", domain.RarityRare, 0.5)
	b.MaxCount = intPtr(1)

	_, err := e.ExecuteDraws([]domain.GachaItem{a, b}, 3, nil)
	assert.ErrorIs(t, err, domain.ErrNoAvailableItemsForDraw)
}

func TestExecuteDraws_AllItemsAlreadyExhausted(t *testing.T) {
	e := NewEngine()
	a := makeItem("a", domain.RarityCommon, 1)
	a.MaxCount = intPtr(1)
	a.CurrentCount = 1

	_, err := e.ExecuteDraws([]domain.GachaItem{a}, 1, nil)
	assert.ErrorIs(t, err, domain.ErrNoAvailableItemsForDraw)
}

func TestExecuteDraws_DoesNotMutateInput(t *testing.T) {
	e := NewEngine()
	items := []domain.GachaItem{makeItem("a", domain.RarityCommon, 1)}

	_, err := e.ExecuteDraws(items, 5, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, items[0].CurrentCount)
}

func TestExecuteDraws_ResultsCarryIncrementedCounts(t *testing.T) {
	e := NewEngine()
	items := []domain.GachaItem{makeItem("a", domain.RarityCommon, 1)}

	results, err := e.ExecuteDraws(items, 3, nil)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].CurrentCount)
	assert.Equal(t, 2, results[1].CurrentCount)
	assert.Equal(t, 3, results[2].CurrentCount)
}

func TestRatesNormalized_Tolerance(t *testing.T) {
	items := []domain.GachaItem{
		makeItem("a", domain.RarityCommon, 0.5),
		makeItem("b", domain.RarityRare, 0.5-math.Nextafter(0, 1)),
	}
	assert.True(t, RatesNormalized(items))
}
