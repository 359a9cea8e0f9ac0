package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs the page cache with a shared Redis instance so replicas serve
// the same snapshot. Redis errors degrade to cache misses; the feed must
// never fail because the cache is down.
type Redis struct {
	client *redis.Client
}

// NewRedis wraps an initialized client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	if r.client == nil {
		return nil, false
	}
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			// A broken entry is worse than a miss.
			_ = r.client.Del(ctx, key).Err()
		}
		return nil, false
	}
	return data, true
}

func (r *Redis) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) {
	if r.client == nil || ttl <= 0 {
		return
	}
	_ = r.client.Set(ctx, key, payload, ttl).Err()
}
