package idempotency

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAndSet_ReplaysFirstResult(t *testing.T) {
	store := NewStore(NewLRUCache(16, time.Minute))
	ctx := context.Background()
	key := "key-1"

	first, err := store.CheckAndSet(ctx, key, func(ctx context.Context) ([]byte, error) {
		return []byte("first"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), first)

	// A different compute under the same key is never invoked
	second, err := store.CheckAndSet(ctx, key, func(ctx context.Context) ([]byte, error) {
		t.Fatal("compute must not run on replay")
		return []byte("second"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("first"), second)
}

func TestCheckAndSet_DistinctKeysComputeIndependently(t *testing.T) {
	store := NewStore(NewLRUCache(16, time.Minute))
	ctx := context.Background()

	a, err := store.CheckAndSet(ctx, "key-a", func(ctx context.Context) ([]byte, error) {
		return []byte("a"), nil
	})
	require.NoError(t, err)

	b, err := store.CheckAndSet(ctx, "key-b", func(ctx context.Context) ([]byte, error) {
		return []byte("b"), nil
	})
	require.NoError(t, err)

	assert.Equal(t, []byte("a"), a)
	assert.Equal(t, []byte("b"), b)
}

func TestCheckAndSet_ComputeErrorNotCached(t *testing.T) {
	store := NewStore(NewLRUCache(16, time.Minute))
	ctx := context.Background()
	key := "key-1"

	computeErr := errors.New("provider unavailable")
	_, err := store.CheckAndSet(ctx, key, func(ctx context.Context) ([]byte, error) {
		return nil, computeErr
	})
	assert.ErrorIs(t, err, computeErr)

	// The failure was not cached; a retry computes fresh
	result, err := store.CheckAndSet(ctx, key, func(ctx context.Context) ([]byte, error) {
		return []byte("recovered"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), result)
}

// brokenCache simulates an unavailable backend
type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, []byte) error {
	return errors.New("cache down")
}

func TestCheckAndSet_DegradesWhenCacheDown(t *testing.T) {
	store := NewStore(brokenCache{})
	ctx := context.Background()
	key := "key-1"

	// Every call computes, none fails because of the cache
	calls := 0
	for i := 0; i < 3; i++ {
		result, err := store.CheckAndSet(ctx, key, func(ctx context.Context) ([]byte, error) {
			calls++
			return []byte("computed"), nil
		})
		require.NoError(t, err)
		assert.Equal(t, []byte("computed"), result)
	}
	assert.Equal(t, 3, calls)
}

func TestCheckAndSet_ConcurrentFirstCallsComputeOnce(t *testing.T) {
	store := NewStore(NewLRUCache(16, time.Minute))
	ctx := context.Background()
	key := "key-1"

	var computeCalls int
	var wg sync.WaitGroup
	results := make([][]byte, 10)
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := store.CheckAndSet(ctx, key, func(ctx context.Context) ([]byte, error) {
				// Serialized per key by the store, so no data race here
				computeCalls++
				time.Sleep(time.Millisecond)
				return []byte("winner"), nil
			})
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, computeCalls)
	for _, r := range results {
		assert.Equal(t, []byte("winner"), r)
	}
}

func TestGenerateKey_Unique(t *testing.T) {
	store := NewStore(NewLRUCache(16, time.Minute))

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		key := store.GenerateKey()
		assert.NotEmpty(t, key)
		assert.False(t, seen[key], "duplicate key %s", key)
		seen[key] = true
	}
}

func TestLRUCache_TTLExpiry(t *testing.T) {
	cache := NewLRUCache(16, 20*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "key-1", []byte("value")))

	_, found, err := cache.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.True(t, found)

	time.Sleep(50 * time.Millisecond)

	_, found, err = cache.Get(ctx, "key-1")
	require.NoError(t, err)
	assert.False(t, found, "entry should expire after TTL")
}
