// Package cache provides the page cache for computed feed responses. The
// feed owns entries exclusively: written once per miss, read freely, expired
// by TTL only. Concurrent writers for the same key may race; last writer
// wins, which is fine because every writer computes the same payload.
package cache

import (
	"context"
	"fmt"
	"time"

	"example.com/assettrack/internal/domain"
)

// Cache stores fully marshaled feed pages. Implementations must be safe for
// concurrent use and must treat backend failures as misses, never as errors.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, payload []byte, ttl time.Duration)
}

// Key builds the deterministic cache key for a feed query. Queries differing
// in filter, page, or page size are cache-independent.
func Key(filter *domain.ActivityType, page, pageSize int) string {
	tag := "all"
	if filter != nil {
		tag = string(*filter)
	}
	return fmt.Sprintf("feed:v1:%s:%d:%d", tag, page, pageSize)
}

// Noop disables caching; every lookup is a miss. Used in tests and when no
// cache backend is configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (Noop) Set(context.Context, string, []byte, time.Duration) {}
