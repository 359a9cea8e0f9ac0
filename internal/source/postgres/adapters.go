package postgres

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/assettrack/internal/domain"
	"example.com/assettrack/internal/source"
)

// NewCheckoutSource reads the checkouts collection.
func NewCheckoutSource(pool *pgxpool.Pool) source.Source {
	const pageQuery = `SELECT c.checkout_id, c.employee_name, c.checkout_date, c.expected_return_date, c.created_at,
            a.asset_id, a.tag_id, a.description
        FROM checkouts c JOIN assets a ON a.asset_id = c.asset_id
        ORDER BY c.created_at DESC, c.checkout_id DESC LIMIT $1 OFFSET $2`

	return &adapter{
		pool:       pool,
		kind:       domain.ActivityCheckout,
		countQuery: `SELECT count(*) FROM checkouts`,
		pageQuery:  pageQuery,
		scan: func(rows pgx.Rows) (source.RawRecord, error) {
			var (
				rec      source.RawRecord
				details  domain.CheckoutDetails
				expected *time.Time
			)
			if err := rows.Scan(&rec.ID, &details.EmployeeName, &details.CheckoutDate, &expected, &rec.CreatedAt,
				&rec.AssetID, &rec.AssetTagID, &rec.AssetDescription); err != nil {
				return source.RawRecord{}, err
			}
			details.ExpectedReturnDate = expected
			rec.Details = details
			return rec, nil
		},
	}
}

// NewCheckinSource reads the checkins collection.
func NewCheckinSource(pool *pgxpool.Pool) source.Source {
	const pageQuery = `SELECT c.checkin_id, c.employee_name, c.checkin_date, c.condition, c.created_at,
            a.asset_id, a.tag_id, a.description
        FROM checkins c JOIN assets a ON a.asset_id = c.asset_id
        ORDER BY c.created_at DESC, c.checkin_id DESC LIMIT $1 OFFSET $2`

	return &adapter{
		pool:       pool,
		kind:       domain.ActivityCheckin,
		countQuery: `SELECT count(*) FROM checkins`,
		pageQuery:  pageQuery,
		scan: func(rows pgx.Rows) (source.RawRecord, error) {
			var (
				rec       source.RawRecord
				details   domain.CheckinDetails
				condition *string
			)
			if err := rows.Scan(&rec.ID, &details.EmployeeName, &details.CheckinDate, &condition, &rec.CreatedAt,
				&rec.AssetID, &rec.AssetTagID, &rec.AssetDescription); err != nil {
				return source.RawRecord{}, err
			}
			if condition != nil {
				details.Condition = *condition
			}
			rec.Details = details
			return rec, nil
		},
	}
}

// NewMoveSource reads the moves collection.
func NewMoveSource(pool *pgxpool.Pool) source.Source {
	const pageQuery = `SELECT m.move_id, m.from_location, m.to_location, m.move_date, m.created_at,
            a.asset_id, a.tag_id, a.description
        FROM moves m JOIN assets a ON a.asset_id = m.asset_id
        ORDER BY m.created_at DESC, m.move_id DESC LIMIT $1 OFFSET $2`

	return &adapter{
		pool:       pool,
		kind:       domain.ActivityMove,
		countQuery: `SELECT count(*) FROM moves`,
		pageQuery:  pageQuery,
		scan: func(rows pgx.Rows) (source.RawRecord, error) {
			var (
				rec     source.RawRecord
				details domain.MoveDetails
			)
			if err := rows.Scan(&rec.ID, &details.FromLocation, &details.ToLocation, &details.MoveDate, &rec.CreatedAt,
				&rec.AssetID, &rec.AssetTagID, &rec.AssetDescription); err != nil {
				return source.RawRecord{}, err
			}
			rec.Details = details
			return rec, nil
		},
	}
}

// NewReserveSource reads the reservations collection.
func NewReserveSource(pool *pgxpool.Pool) source.Source {
	const pageQuery = `SELECT r.reservation_id, r.reserved_for, r.start_date, r.end_date, r.created_at,
            a.asset_id, a.tag_id, a.description
        FROM reservations r JOIN assets a ON a.asset_id = r.asset_id
        ORDER BY r.created_at DESC, r.reservation_id DESC LIMIT $1 OFFSET $2`

	return &adapter{
		pool:       pool,
		kind:       domain.ActivityReserve,
		countQuery: `SELECT count(*) FROM reservations`,
		pageQuery:  pageQuery,
		scan: func(rows pgx.Rows) (source.RawRecord, error) {
			var (
				rec     source.RawRecord
				details domain.ReserveDetails
			)
			if err := rows.Scan(&rec.ID, &details.ReservedFor, &details.StartDate, &details.EndDate, &rec.CreatedAt,
				&rec.AssetID, &rec.AssetTagID, &rec.AssetDescription); err != nil {
				return source.RawRecord{}, err
			}
			rec.Details = details
			return rec, nil
		},
	}
}

// NewLeaseSource reads the leases collection.
func NewLeaseSource(pool *pgxpool.Pool) source.Source {
	const pageQuery = `SELECT l.lease_id, l.customer_name, l.lease_start, l.lease_end, l.lease_rate, l.created_at,
            a.asset_id, a.tag_id, a.description
        FROM leases l JOIN assets a ON a.asset_id = l.asset_id
        ORDER BY l.created_at DESC, l.lease_id DESC LIMIT $1 OFFSET $2`

	return &adapter{
		pool:       pool,
		kind:       domain.ActivityLease,
		countQuery: `SELECT count(*) FROM leases`,
		pageQuery:  pageQuery,
		scan: func(rows pgx.Rows) (source.RawRecord, error) {
			var (
				rec     source.RawRecord
				details domain.LeaseDetails
			)
			if err := rows.Scan(&rec.ID, &details.CustomerName, &details.LeaseStart, &details.LeaseEnd, &details.LeaseRate, &rec.CreatedAt,
				&rec.AssetID, &rec.AssetTagID, &rec.AssetDescription); err != nil {
				return source.RawRecord{}, err
			}
			rec.Details = details
			return rec, nil
		},
	}
}

// NewLeaseReturnSource reads the lease_returns collection.
func NewLeaseReturnSource(pool *pgxpool.Pool) source.Source {
	const pageQuery = `SELECT lr.lease_return_id, lr.customer_name, lr.return_date, lr.condition, lr.created_at,
            a.asset_id, a.tag_id, a.description
        FROM lease_returns lr JOIN assets a ON a.asset_id = lr.asset_id
        ORDER BY lr.created_at DESC, lr.lease_return_id DESC LIMIT $1 OFFSET $2`

	return &adapter{
		pool:       pool,
		kind:       domain.ActivityLeaseReturn,
		countQuery: `SELECT count(*) FROM lease_returns`,
		pageQuery:  pageQuery,
		scan: func(rows pgx.Rows) (source.RawRecord, error) {
			var (
				rec       source.RawRecord
				details   domain.LeaseReturnDetails
				condition *string
			)
			if err := rows.Scan(&rec.ID, &details.CustomerName, &details.ReturnDate, &condition, &rec.CreatedAt,
				&rec.AssetID, &rec.AssetTagID, &rec.AssetDescription); err != nil {
				return source.RawRecord{}, err
			}
			if condition != nil {
				details.Condition = *condition
			}
			rec.Details = details
			return rec, nil
		},
	}
}

// NewDisposeSource reads the disposals collection.
func NewDisposeSource(pool *pgxpool.Pool) source.Source {
	const pageQuery = `SELECT d.disposal_id, d.disposal_method, d.dispose_date, d.dispose_value, d.created_at,
            a.asset_id, a.tag_id, a.description
        FROM disposals d JOIN assets a ON a.asset_id = d.asset_id
        ORDER BY d.created_at DESC, d.disposal_id DESC LIMIT $1 OFFSET $2`

	return &adapter{
		pool:       pool,
		kind:       domain.ActivityDispose,
		countQuery: `SELECT count(*) FROM disposals`,
		pageQuery:  pageQuery,
		scan: func(rows pgx.Rows) (source.RawRecord, error) {
			var (
				rec     source.RawRecord
				details domain.DisposeDetails
			)
			if err := rows.Scan(&rec.ID, &details.DisposalMethod, &details.DisposeDate, &details.DisposeValue, &rec.CreatedAt,
				&rec.AssetID, &rec.AssetTagID, &rec.AssetDescription); err != nil {
				return source.RawRecord{}, err
			}
			rec.Details = details
			return rec, nil
		},
	}
}

// NewMaintenanceSource reads the maintenances collection.
func NewMaintenanceSource(pool *pgxpool.Pool) source.Source {
	const pageQuery = `SELECT m.maintenance_id, m.maintenance_type, m.provider, m.start_date, m.completion_date, m.cost, m.created_at,
            a.asset_id, a.tag_id, a.description
        FROM maintenances m JOIN assets a ON a.asset_id = m.asset_id
        ORDER BY m.created_at DESC, m.maintenance_id DESC LIMIT $1 OFFSET $2`

	return &adapter{
		pool:       pool,
		kind:       domain.ActivityMaintenance,
		countQuery: `SELECT count(*) FROM maintenances`,
		pageQuery:  pageQuery,
		scan: func(rows pgx.Rows) (source.RawRecord, error) {
			var (
				rec       source.RawRecord
				details   domain.MaintenanceDetails
				provider  *string
				completed *time.Time
			)
			if err := rows.Scan(&rec.ID, &details.MaintenanceType, &provider, &details.StartDate, &completed, &details.Cost, &rec.CreatedAt,
				&rec.AssetID, &rec.AssetTagID, &rec.AssetDescription); err != nil {
				return source.RawRecord{}, err
			}
			if provider != nil {
				details.Provider = *provider
			}
			details.CompletionDate = completed
			rec.Details = details
			return rec, nil
		},
	}
}
