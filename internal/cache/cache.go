package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
)

// Cache is a small JSON read-through layer over Redis. A nil *Cache is
// valid and behaves as a permanent miss, so callers need no enabled check.
type Cache struct {
	client *redis.Client
}

// New connects to Redis at addr. Returns nil (cache disabled) when addr is
// empty or the server is unreachable.
func New(ctx context.Context, addr string) *Cache {
	if addr == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return &Cache{client: client}
}

// GetJSON loads key into v. Returns false on miss, decode failure, or when
// the cache is disabled.
func (c *Cache) GetJSON(ctx context.Context, key string, v interface{}) bool {
	if c == nil {
		return false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

// SetJSON stores v under key with the given TTL. Failures are ignored; the
// cache is best-effort.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if c == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, ttl)
}
