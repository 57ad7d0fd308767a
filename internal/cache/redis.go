package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache is an optional shared layer for deployments where multiple
// scanners share one product cache. Operations use short internal timeouts
// so a down Redis degrades to a miss instead of stalling a scan.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

const redisOpTimeout = 2 * time.Second

// NewRedisCache connects to the given address with a default TTL.
func NewRedisCache(addr string, ttl time.Duration) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

// Get retrieves a value from Redis.
func (c *RedisCache) Get(key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores a value in Redis with the given TTL (zero uses the cache default).
func (c *RedisCache) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete removes a value from Redis.
func (c *RedisCache) Delete(key string) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	return c.client.Del(ctx, key).Err()
}

// Clear flushes the connected database.
func (c *RedisCache) Clear() error {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	return c.client.FlushDB(ctx).Err()
}

// Count returns the keyspace size of the connected database.
func (c *RedisCache) Count() int {
	ctx, cancel := context.WithTimeout(context.Background(), redisOpTimeout)
	defer cancel()

	n, err := c.client.DBSize(ctx).Result()
	if err != nil {
		return 0
	}
	return int(n)
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
