package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/shopgrid/storefront/pkg/catalog"
)

// Redis is a Store backed by Redis, for deployments that share the item
// cache across replicas. Expiry is delegated to Redis key TTLs.
type Redis struct {
	client *redis.Client
}

// NewRedis creates a Redis-backed store.
func NewRedis(client *redis.Client) *Redis {
	if client == nil {
		panic("redis client cannot be nil")
	}
	return &Redis{client: client}
}

// Get retrieves the cached items for key.
// Returns ErrMiss if the key doesn't exist or has expired.
func (r *Redis) Get(ctx context.Context, key Key) ([]catalog.Item, error) {
	data, err := r.client.Get(ctx, key.String()).Bytes()
	if err != nil {
		if err == redis.Nil {
			CacheMisses.WithLabelValues("redis").Inc()
			return nil, ErrMiss
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}

	var items []catalog.Item
	if err := json.Unmarshal(data, &items); err != nil {
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("unmarshal cached items: %w", err)
	}

	CacheHits.WithLabelValues("redis").Inc()
	return items, nil
}

// Set stores items under key with the given TTL. Redis removes the entry
// when the TTL elapses. A non-positive TTL stores nothing.
func (r *Redis) Set(ctx context.Context, key Key, items []catalog.Item, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(items)
	if err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("marshal items: %w", err)
	}

	if err := r.client.Set(ctx, key.String(), data, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}

	return nil
}
