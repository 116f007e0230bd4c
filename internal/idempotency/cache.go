package idempotency

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// DefaultTTL is how long cached results stay replayable. Ledger-affecting
// operations keep their keys for a full day of retry windows.
const DefaultTTL = 24 * time.Hour

// DefaultCacheSize bounds the in-process cache
const DefaultCacheSize = 4096

// lruCache is the in-process Cache backend with time-based expiration
type lruCache struct {
	lru *expirable.LRU[string, []byte]
}

// NewLRUCache creates an expirable LRU cache backend.
// size: maximum number of cached results
// ttl: time-to-live for cached entries
func NewLRUCache(size int, ttl time.Duration) Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &lruCache{
		lru: expirable.NewLRU[string, []byte](size, nil, ttl),
	}
}

func (c *lruCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	value, found := c.lru.Get(key)
	return value, found, nil
}

func (c *lruCache) Set(_ context.Context, key string, value []byte) error {
	c.lru.Add(key, value)
	return nil
}
