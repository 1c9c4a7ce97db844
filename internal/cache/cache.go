// SPDX-License-Identifier: MIT

// Package cache provides a simple in-memory cache with TTL support.
package cache

import (
	"sync"
	"sync/atomic"
	"time"
)

// Cache provides thread-safe caching with expiration support.
type Cache interface {
	// Get retrieves a value from the cache. Returns nil if not found or expired.
	Get(key string) (any, bool)
	// Set stores a value in the cache with the specified TTL.
	Set(key string, value any, ttl time.Duration)
	// Delete removes a value from the cache.
	Delete(key string)
	// Clear removes all values from the cache.
	Clear()
	// Stats returns cache statistics.
	Stats() CacheStats
}

// CacheStats holds cache performance metrics.
type CacheStats struct {
	Hits        int64 // Number of successful Get operations
	Misses      int64 // Number of failed Get operations (not found or expired)
	Sets        int64 // Number of Set operations
	Evictions   int64 // Number of expired entries swept by the janitor
	CurrentSize int   // Current number of stored entries, expired ones included
}

// Clock abstracts time for expiry checks.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// entry represents a cached value with expiration time.
type entry struct {
	value     any
	expiresAt time.Time
}

// visible reports whether the entry may still be served at now.
func (e *entry) visible(now time.Time) bool {
	return now.Before(e.expiresAt)
}

// MemoryCache is an in-memory implementation of Cache. Expired entries stay
// in the map until they are overwritten or swept; readers never see them.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	clock   Clock
	janitor *janitor

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
}

// Option configures a memory cache.
type Option func(*MemoryCache)

// WithClock replaces the wall clock used for expiry.
func WithClock(c Clock) Option {
	return func(m *MemoryCache) { m.clock = c }
}

// WithJanitor enables a background sweep of expired entries. A zero or
// negative interval keeps expiry purely lazy.
func WithJanitor(interval time.Duration) Option {
	return func(m *MemoryCache) {
		if interval > 0 {
			m.janitor = &janitor{interval: interval, stop: make(chan struct{})}
		}
	}
}

// NewMemoryCache creates a new in-memory cache.
func NewMemoryCache(opts ...Option) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]*entry),
		clock:   realClock{},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.janitor != nil {
		go c.janitor.run(c)
	}

	return c
}

// Get retrieves a value from the cache.
func (c *MemoryCache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, found := c.entries[key]
	c.mu.RUnlock()

	if !found || !e.visible(c.clock.Now()) {
		c.misses.Add(1)
		return nil, false
	}

	c.hits.Add(1)
	return e.value, true
}

// Set stores a value in the cache.
func (c *MemoryCache) Set(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &entry{
		value:     value,
		expiresAt: c.clock.Now().Add(ttl),
	}
	c.sets.Add(1)
}

// Delete removes a value from the cache.
func (c *MemoryCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Clear removes all values from the cache.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Stats returns cache statistics.
func (c *MemoryCache) Stats() CacheStats {
	c.mu.RLock()
	size := len(c.entries)
	c.mu.RUnlock()

	return CacheStats{
		Hits:        c.hits.Load(),
		Misses:      c.misses.Load(),
		Sets:        c.sets.Load(),
		Evictions:   c.evictions.Load(),
		CurrentSize: size,
	}
}

// deleteExpired removes all expired entries from the cache.
// Returns the number of entries deleted.
func (c *MemoryCache) deleteExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	count := 0
	for key, e := range c.entries {
		if !e.visible(now) {
			delete(c.entries, key)
			count++
		}
	}

	c.evictions.Add(int64(count))
	return count
}

// Stop stops the background cleanup goroutine. It is safe to call more than once.
func (c *MemoryCache) Stop() {
	if c.janitor != nil {
		c.janitor.once.Do(func() { close(c.janitor.stop) })
	}
}

// janitor performs periodic cleanup of expired entries.
type janitor struct {
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
}

// run starts the cleanup loop.
func (j *janitor) run(c *MemoryCache) {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-j.stop:
			return
		}
	}
}

// noOpCache is a cache that does nothing (useful for disabling caching).
type noOpCache struct{}

// NewNoOpCache creates a cache that doesn't cache anything.
func NewNoOpCache() Cache {
	return &noOpCache{}
}

func (c *noOpCache) Get(string) (any, bool)         { return nil, false }
func (c *noOpCache) Set(string, any, time.Duration) {}
func (c *noOpCache) Delete(string)                  {}
func (c *noOpCache) Clear()                         {}
func (c *noOpCache) Stats() CacheStats              { return CacheStats{} }
