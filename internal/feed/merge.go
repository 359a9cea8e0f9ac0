// Package feed computes the cross-source activity feed: one time-ordered,
// paginated view over the eight event collections.
package feed

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"example.com/assettrack/internal/domain"
	"example.com/assettrack/internal/observability"
	"example.com/assettrack/internal/source"
)

// Query is a validated feed request. Page is 1-based and PageSize is already
// clamped by the service.
type Query struct {
	Filter   *domain.ActivityType
	Page     int
	PageSize int
}

// Engine merges and paginates across the source adapters. A filtered query
// paginates one source exactly; an unfiltered query merges a bounded window
// from every source.
type Engine struct {
	sources   []source.Source
	byKind    map[domain.ActivityType]source.Source
	windowCap int
}

// NewEngine wires the engine over sources in their merge order. windowCap
// bounds the per-source fetch for unfiltered queries.
func NewEngine(sources []source.Source, windowCap int) *Engine {
	byKind := make(map[domain.ActivityType]source.Source, len(sources))
	for _, src := range sources {
		byKind[src.Kind()] = src
	}
	return &Engine{sources: sources, byKind: byKind, windowCap: windowCap}
}

// Run executes the query and returns a fully formed page.
func (e *Engine) Run(ctx context.Context, q Query) (domain.FeedPage, error) {
	if q.Filter != nil {
		return e.single(ctx, *q.Filter, q.Page, q.PageSize)
	}
	return e.merged(ctx, q.Page, q.PageSize)
}

// single is true offset pagination against one adapter: exact for any page.
func (e *Engine) single(ctx context.Context, kind domain.ActivityType, page, pageSize int) (domain.FeedPage, error) {
	src, ok := e.byKind[kind]
	if !ok {
		return domain.FeedPage{}, fmt.Errorf("no source registered for type %q", kind)
	}

	total, err := src.Count(ctx)
	if err != nil {
		observability.RecordSourceFailure(string(kind))
		return domain.FeedPage{}, err
	}

	offset := (page - 1) * pageSize
	raws, err := src.Page(ctx, offset, pageSize)
	if err != nil {
		observability.RecordSourceFailure(string(kind))
		return domain.FeedPage{}, err
	}

	return domain.FeedPage{
		Activities: normalize(kind, raws),
		Pagination: domain.NewPaginationInfo(page, pageSize, total),
	}, nil
}

// merged fans out to all sources concurrently, fetches each source's newest
// windowSize records, and slices the globally sorted buffer. Totals are
// exact; items are bounded by the window, so pages past the buffer come back
// short. That trade-off is part of the contract: fixing it would mean full
// fan-out pagination on every merged page.
func (e *Engine) merged(ctx context.Context, page, pageSize int) (domain.FeedPage, error) {
	windowSize := pageSize
	if windowSize > e.windowCap {
		windowSize = e.windowCap
	}

	counts := make([]int, len(e.sources))
	windows := make([][]domain.ActivityRecord, len(e.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range e.sources {
		g.Go(func() error {
			n, err := src.Count(gctx)
			if err != nil {
				observability.RecordSourceFailure(string(src.Kind()))
				return &domain.PartialMergeError{Source: src.Kind(), Err: err}
			}
			counts[i] = n

			raws, err := src.Page(gctx, 0, windowSize)
			if err != nil {
				observability.RecordSourceFailure(string(src.Kind()))
				return &domain.PartialMergeError{Source: src.Kind(), Err: err}
			}
			windows[i] = normalize(src.Kind(), raws)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.FeedPage{}, err
	}

	total := 0
	buffer := make([]domain.ActivityRecord, 0, len(e.sources)*windowSize)
	for i := range e.sources {
		total += counts[i]
		buffer = append(buffer, windows[i]...)
	}

	// Stable sort keeps per-source relative order (and the fixed source
	// order) for equal timestamps.
	sort.SliceStable(buffer, func(i, j int) bool {
		return buffer[i].Timestamp.After(buffer[j].Timestamp)
	})

	start := (page - 1) * pageSize
	if start > len(buffer) {
		start = len(buffer)
	}
	end := start + pageSize
	if end > len(buffer) {
		end = len(buffer)
	}

	return domain.FeedPage{
		Activities: buffer[start:end],
		Pagination: domain.NewPaginationInfo(page, pageSize, total),
	}, nil
}
