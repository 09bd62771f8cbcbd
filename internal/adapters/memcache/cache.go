// Package memcache is an in-process implementation of ports.CacheService.
// It is the default backing store when no Valkey instance is configured and
// doubles as a deterministic cache for tests.
package memcache

import (
	"context"
	"sync"
	"time"

	"github.com/sabinstha/khojdeal/internal/core/ports"
)

// ErrMiss is returned when a key is absent or its entry has expired.
// It is the shared ports.ErrCacheMiss so callers match misses from any
// backend with a single errors.Is.
var ErrMiss = ports.ErrCacheMiss

type entry struct {
	value     []byte
	expiresAt time.Time
}

// Cache is a flat string-keyed store with absolute expiry. Entries are
// invalidated lazily: expiry is checked at read time and stale entries are
// evicted on the read that finds them, never actively swept.
type Cache struct {
	mu  sync.Mutex
	m   map[string]entry
	now func() time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{m: make(map[string]entry), now: time.Now}
}

// NewWithClock creates a cache with an injected clock for tests.
func NewWithClock(now func() time.Time) *Cache {
	return &Cache{m: make(map[string]entry), now: now}
}

// Get returns the value for key, or ErrMiss if the key is absent or expired.
// An entry whose expiry has arrived is treated exactly like a missing one.
func (c *Cache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[key]
	if !ok {
		return nil, ErrMiss
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.m, key)
		return nil, ErrMiss
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// Set stores value under key with an absolute expiry of now + ttlSeconds.
// A non-positive TTL produces an entry that is already expired.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttlSeconds int) error {
	v := make([]byte, len(value))
	copy(v, value)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = entry{value: v, expiresAt: c.now().Add(time.Duration(ttlSeconds) * time.Second)}
	return nil
}

// Delete removes a key.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.m, key)
	return nil
}
