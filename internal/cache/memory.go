package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryCache is the in-process layer, backed by go-cache with TTL eviction.
type MemoryCache struct {
	cache *gocache.Cache
}

// NewMemoryCache creates a memory cache with the given default TTL and
// cleanup interval.
func NewMemoryCache(defaultTTL, cleanupInterval time.Duration) *MemoryCache {
	return &MemoryCache{
		cache: gocache.New(defaultTTL, cleanupInterval),
	}
}

// Get retrieves a value from the memory cache.
func (c *MemoryCache) Get(key string) ([]byte, bool) {
	if v, found := c.cache.Get(key); found {
		if data, ok := v.([]byte); ok {
			return data, true
		}
	}
	return nil, false
}

// Set stores a value with the given TTL (zero uses the cache default).
func (c *MemoryCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		c.cache.SetDefault(key, value)
	} else {
		c.cache.Set(key, value, ttl)
	}
	return nil
}

// Delete removes a value from the memory cache.
func (c *MemoryCache) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear drops all entries.
func (c *MemoryCache) Clear() error {
	c.cache.Flush()
	return nil
}

// Count returns the number of live entries.
func (c *MemoryCache) Count() int {
	return c.cache.ItemCount()
}
