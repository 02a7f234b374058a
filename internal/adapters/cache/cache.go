// Package cache stores computed market snapshots keyed by corpus version.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/internsim/internal/domain/model"
	"github.com/okian/internsim/internal/domain/types"
)

// KeyPrefix namespaces market snapshot keys.
const KeyPrefix = "internsim:market:"

const defaultTTL = 5 * time.Minute

// RedisCache keeps snapshots in Redis. A new corpus version produces a new
// key, so stale entries age out through the TTL and are never read.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisCache creates a cache over client. A non-positive ttl uses the
// default.
func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Key returns the Redis key for version.
func Key(version string) string { return KeyPrefix + version }

// Get returns the snapshot for version. A miss is (zero, false, nil).
func (c *RedisCache) Get(ctx context.Context, version string) (model.MarketSnapshot, bool, error) {
	val, err := c.client.Get(ctx, Key(version)).Bytes()
	if errors.Is(err, redis.Nil) {
		return model.MarketSnapshot{}, false, nil
	}
	if err != nil {
		return model.MarketSnapshot{}, false, fmt.Errorf("redis get: %w", err)
	}
	var wire types.MarketResponse
	if err := json.Unmarshal(val, &wire); err != nil {
		return model.MarketSnapshot{}, false, fmt.Errorf("decode snapshot: %w", err)
	}
	return wire.ToSnapshot(), true, nil
}

// Put stores snap under version.
func (c *RedisCache) Put(ctx context.Context, version string, snap model.MarketSnapshot) error {
	data, err := json.Marshal(types.FromSnapshot(snap))
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := c.client.Set(ctx, Key(version), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
