// Package cache implements the node's optional Redis-backed read-through
// cache for remote lookup results. It never holds authoritative state — the
// local KV store is always consulted first, and a cache miss simply falls
// through to the normal FINDVALUE round.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shadowmesh/dhtnode/internal/dht"
)

// RedisCache caches dht.UID -> value pairs with a fixed TTL.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
	ttl    time.Duration
}

// Config holds the Redis connection parameters.
type Config struct {
	Host string
	Port int
	DB   int
	TTL  time.Duration
}

// New dials Redis and verifies connectivity with a PING.
func New(cfg Config) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DB:   cfg.DB,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: connect to redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}

	return &RedisCache{client: client, ctx: ctx, ttl: ttl}, nil
}

func cacheKey(id dht.UID) string {
	return fmt.Sprintf("dhtnode:value:%s", string(id))
}

// Get satisfies node.RemoteCache. A cache miss or Redis error both report
// false — the caller falls back to the network.
func (c *RedisCache) Get(id dht.UID) (string, bool) {
	val, err := c.client.Get(c.ctx, cacheKey(id)).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

// Put satisfies node.RemoteCache. Errors are swallowed — the cache is
// strictly an optimization.
func (c *RedisCache) Put(id dht.UID, value string) {
	c.client.Set(c.ctx, cacheKey(id), value, c.ttl)
}

// Close releases the underlying connection pool.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
