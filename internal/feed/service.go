package feed

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"example.com/assettrack/internal/cache"
	"example.com/assettrack/internal/domain"
	"example.com/assettrack/internal/observability"
	"example.com/assettrack/internal/source"
)

// Options tunes the feed service. Zero values fall back to the defaults the
// admin UI was built around.
type Options struct {
	MinPageSize int
	MaxPageSize int
	WindowCap   int
	CacheTTL    time.Duration
}

func (o *Options) fill() {
	if o.MinPageSize <= 0 {
		o.MinPageSize = 100
	}
	if o.MaxPageSize <= 0 {
		o.MaxPageSize = 500
	}
	if o.WindowCap <= 0 {
		o.WindowCap = 100
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 30 * time.Second
	}
}

// Service is the only entry point the rest of the application calls for the
// activity feed. Per request: cache check, then on a miss compute, cache,
// return. Identical requests within the TTL return the identical payload.
type Service struct {
	engine *Engine
	cache  cache.Cache
	opts   Options
	logger zerolog.Logger
}

// NewService wires the feed over already-decorated sources and an injected
// cache.
func NewService(sources []source.Source, pageCache cache.Cache, opts Options, logger zerolog.Logger) *Service {
	opts.fill()
	if pageCache == nil {
		pageCache = cache.Noop{}
	}
	return &Service{
		engine: NewEngine(sources, opts.WindowCap),
		cache:  pageCache,
		opts:   opts,
		logger: logger.With().Str("component", "feed").Logger(),
	}
}

// GetActivities returns the marshaled {activities, pagination} payload for
// the query. The cache stores the marshaled bytes, so hits are byte-identical
// to the response that populated them.
func (s *Service) GetActivities(ctx context.Context, filter *domain.ActivityType, page, pageSize int) (json.RawMessage, error) {
	if page < 1 {
		page = 1
	}
	pageSize = clamp(pageSize, s.opts.MinPageSize, s.opts.MaxPageSize)

	key := cache.Key(filter, page, pageSize)
	if payload, ok := s.cache.Get(ctx, key); ok {
		observability.RecordCacheHit()
		return payload, nil
	}
	observability.RecordCacheMiss()

	mode := "merged"
	if filter != nil {
		mode = "single"
	}

	started := time.Now()
	result, err := s.engine.Run(ctx, Query{Filter: filter, Page: page, PageSize: pageSize})
	if err != nil {
		s.logger.Error().Err(err).Str("mode", mode).Int("page", page).Msg("feed query failed")
		return nil, err
	}
	observability.ObserveQuery(mode, time.Since(started))

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, key, payload, s.opts.CacheTTL)
	s.logger.Debug().
		Str("mode", mode).
		Int("page", page).
		Int("page_size", pageSize).
		Int("returned", len(result.Activities)).
		Int("total", result.Pagination.Total).
		Msg("feed page computed")
	return payload, nil
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
