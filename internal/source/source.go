// Package source defines the read contract every activity collection
// exposes to the merge engine.
package source

import (
	"context"
	"time"

	"example.com/assettrack/internal/domain"
)

// RawRecord is one event as fetched from a collection, with the owning
// asset's summary already joined in by the adapter. Details carries the
// typed per-kind payload; the normalizer only wraps, it never re-derives.
type RawRecord struct {
	ID               string
	AssetID          string
	AssetTagID       string
	AssetDescription string
	CreatedAt        time.Time
	Details          domain.Details
}

// Source is the only dependency surface the feed has on persistence. Both
// operations are read-only and ordered by creation time descending.
type Source interface {
	// Kind identifies which of the eight collections this source owns.
	Kind() domain.ActivityType
	// Count returns the exact size of the collection.
	Count(ctx context.Context) (int, error)
	// Page returns up to limit records skipping offset, newest first.
	// Returns an empty slice when offset is at or past the end.
	Page(ctx context.Context, offset, limit int) ([]RawRecord, error)
}
