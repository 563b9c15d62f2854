package cache

import (
	"context"
	"sync"
	"time"

	"github.com/priceai/backend/internal/domain"
)

// cacheItem is a cached working set with its expiration.
type cacheItem struct {
	Records    []domain.EnrichedProductRecord
	Expiration time.Time
}

// MemoryCache is a thread-safe in-memory cache for search responses
// with TTL support.
type MemoryCache struct {
	data  map[string]cacheItem
	mutex sync.RWMutex
}

// NewMemoryCache creates a new in-memory cache and starts a background
// sweep that drops expired entries every 10 minutes.
func NewMemoryCache() *MemoryCache {
	c := &MemoryCache{
		data: make(map[string]cacheItem),
	}
	go c.cleanupExpired()
	return c
}

// Get retrieves a cached working set. Expired entries count as misses.
func (c *MemoryCache) Get(ctx context.Context, key string) ([]domain.EnrichedProductRecord, error) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	item, exists := c.data[key]
	if !exists || time.Now().After(item.Expiration) {
		return nil, domain.ErrCacheMiss
	}

	// Copy so later projections cannot reorder the cached slice.
	records := make([]domain.EnrichedProductRecord, len(item.Records))
	copy(records, item.Records)
	return records, nil
}

// Set stores a working set with the given TTL.
func (c *MemoryCache) Set(ctx context.Context, key string, value []domain.EnrichedProductRecord, ttl time.Duration) error {
	stored := make([]domain.EnrichedProductRecord, len(value))
	copy(stored, value)

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.data[key] = cacheItem{
		Records:    stored,
		Expiration: time.Now().Add(ttl),
	}
	return nil
}

// Delete removes a key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Size returns the current number of entries (for debugging/monitoring).
func (c *MemoryCache) Size() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// cleanupExpired removes expired entries periodically.
func (c *MemoryCache) cleanupExpired() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mutex.Lock()
		now := time.Now()
		for key, item := range c.data {
			if now.After(item.Expiration) {
				delete(c.data, key)
			}
		}
		c.mutex.Unlock()
	}
}
