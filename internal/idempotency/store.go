package idempotency

import (
	"context"

	"github.com/google/uuid"

	"github.com/osse101/MedalGacha_Go/internal/concurrency"
	"github.com/osse101/MedalGacha_Go/internal/logger"
	"github.com/osse101/MedalGacha_Go/internal/metrics"
)

// ComputeFunc produces the result that gets cached under an idempotency key
type ComputeFunc func(ctx context.Context) ([]byte, error)

// Store makes retried operations safe: the first call under a key computes
// and caches, replays return the cached payload verbatim.
type Store interface {
	GenerateKey() string
	CheckAndSet(ctx context.Context, key string, compute ComputeFunc) ([]byte, error)
}

// Cache is the backing key-value store. Implementations may be remote, so
// both operations can fail; the store degrades rather than propagating
// cache failures.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
}

type store struct {
	cache Cache
	locks *concurrency.LockManager
}

// NewStore creates a new idempotency store over the given cache backend
func NewStore(cache Cache) Store {
	return &store{
		cache: cache,
		locks: concurrency.NewLockManager(),
	}
}

// GenerateKey returns a fresh caller-supplied idempotency token
func (s *store) GenerateKey() string {
	return uuid.NewString()
}

// CheckAndSet returns the cached result for key, or invokes compute and
// caches its result. Concurrent first calls for the same key are serialized
// so compute runs once. A failing cache backend degrades to always-compute
// with a warning; it never fails the guarded operation. Compute errors are
// returned as-is and never cached.
func (s *store) CheckAndSet(ctx context.Context, key string, compute ComputeFunc) ([]byte, error) {
	log := logger.FromContext(ctx)

	lock := s.locks.GetLock(key)
	lock.Lock()
	defer lock.Unlock()

	cached, found, err := s.cache.Get(ctx, key)
	if err != nil {
		log.Warn(LogMsgCacheGetFailed, "key", key, "error", err)
	} else if found {
		metrics.IdempotencyHits.Inc()
		log.Info(LogMsgReplayedResult, "key", key)
		return cached, nil
	}

	metrics.IdempotencyMisses.Inc()
	result, err := compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, result); err != nil {
		log.Warn(LogMsgCacheSetFailed, "key", key, "error", err)
	}
	return result, nil
}
