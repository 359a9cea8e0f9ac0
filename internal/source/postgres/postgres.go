// Package postgres implements the eight activity source adapters on top of
// pgx connection pools. Every adapter joins its event table to assets so the
// merge engine never has to.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/assettrack/internal/domain"
	"example.com/assettrack/internal/source"
)

// rowScan maps one joined row onto a RawRecord. Each adapter supplies its
// own, matching the column list of its page query.
type rowScan func(rows pgx.Rows) (source.RawRecord, error)

// adapter is the shared Count/Page plumbing. The per-kind constructors below
// only differ in queries and scan.
type adapter struct {
	pool       *pgxpool.Pool
	kind       domain.ActivityType
	countQuery string
	pageQuery  string
	scan       rowScan
}

func (a *adapter) Kind() domain.ActivityType { return a.kind }

// Count returns the exact size of the backing table.
func (a *adapter) Count(ctx context.Context) (int, error) {
	conn, err := a.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	var total int
	if err := conn.QueryRow(ctx, a.countQuery).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", a.kind, err)
	}
	return total, nil
}

// Page returns up to limit records ordered newest first, skipping offset.
func (a *adapter) Page(ctx context.Context, offset, limit int) ([]source.RawRecord, error) {
	if limit <= 0 {
		return []source.RawRecord{}, nil
	}

	conn, err := a.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, a.pageQuery, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("page %s: %w", a.kind, err)
	}
	defer rows.Close()

	records := make([]source.RawRecord, 0, limit)
	for rows.Next() {
		rec, err := a.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", a.kind, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("page %s: %w", a.kind, err)
	}
	return records, nil
}

// NewSources builds one adapter per activity type in the fixed merge order.
func NewSources(pool *pgxpool.Pool) []source.Source {
	return []source.Source{
		NewCheckoutSource(pool),
		NewCheckinSource(pool),
		NewMoveSource(pool),
		NewReserveSource(pool),
		NewLeaseSource(pool),
		NewLeaseReturnSource(pool),
		NewDisposeSource(pool),
		NewMaintenanceSource(pool),
	}
}
