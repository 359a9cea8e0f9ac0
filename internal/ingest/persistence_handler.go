package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PersistenceHandler writes consumed lifecycle events into their collection
// tables.
type PersistenceHandler struct {
	pool *pgxpool.Pool
}

// NewPersistenceHandler constructs a handler backed by the provided pool.
func NewPersistenceHandler(pool *pgxpool.Pool) *PersistenceHandler {
	return &PersistenceHandler{pool: pool}
}

// Handle routes the event to the insert matching its type. Unknown event
// types are an error so the processor counts and surfaces them.
func (h *PersistenceHandler) Handle(ctx context.Context, msg Message) error {
	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	switch msg.EventType {
	case EventCheckedOut:
		var event CheckedOutEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		_, err = conn.Exec(ctx,
			`INSERT INTO checkouts (checkout_id, asset_id, employee_name, checkout_date, expected_return_date, created_at)
             VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.NewString(), event.AssetID, event.EmployeeName, event.CheckoutDate, event.ExpectedReturnDate,
			occurredAt(event.OccurredAt, msg.Timestamp))
	case EventCheckedIn:
		var event CheckedInEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		_, err = conn.Exec(ctx,
			`INSERT INTO checkins (checkin_id, asset_id, employee_name, checkin_date, condition, created_at)
             VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.NewString(), event.AssetID, event.EmployeeName, event.CheckinDate, nullIfEmpty(event.Condition),
			occurredAt(event.OccurredAt, msg.Timestamp))
	case EventMoved:
		var event MovedEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		_, err = conn.Exec(ctx,
			`INSERT INTO moves (move_id, asset_id, from_location, to_location, move_date, created_at)
             VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.NewString(), event.AssetID, event.FromLocation, event.ToLocation, event.MoveDate,
			occurredAt(event.OccurredAt, msg.Timestamp))
	case EventReserved:
		var event ReservedEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		_, err = conn.Exec(ctx,
			`INSERT INTO reservations (reservation_id, asset_id, reserved_for, start_date, end_date, created_at)
             VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.NewString(), event.AssetID, event.ReservedFor, event.StartDate, event.EndDate,
			occurredAt(event.OccurredAt, msg.Timestamp))
	case EventLeased:
		var event LeasedEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		_, err = conn.Exec(ctx,
			`INSERT INTO leases (lease_id, asset_id, customer_name, lease_start, lease_end, lease_rate, created_at)
             VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			uuid.NewString(), event.AssetID, event.CustomerName, event.LeaseStart, event.LeaseEnd, event.LeaseRate,
			occurredAt(event.OccurredAt, msg.Timestamp))
	case EventLeaseReturned:
		var event LeaseReturnedEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		_, err = conn.Exec(ctx,
			`INSERT INTO lease_returns (lease_return_id, asset_id, customer_name, return_date, condition, created_at)
             VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.NewString(), event.AssetID, event.CustomerName, event.ReturnDate, nullIfEmpty(event.Condition),
			occurredAt(event.OccurredAt, msg.Timestamp))
	case EventDisposed:
		var event DisposedEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		_, err = conn.Exec(ctx,
			`INSERT INTO disposals (disposal_id, asset_id, disposal_method, dispose_date, dispose_value, created_at)
             VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.NewString(), event.AssetID, event.DisposalMethod, event.DisposeDate, event.DisposeValue,
			occurredAt(event.OccurredAt, msg.Timestamp))
	case EventMaintenanceLogged:
		var event MaintenanceLoggedEvent
		if err := json.Unmarshal(msg.Payload, &event); err != nil {
			return fmt.Errorf("decode %s: %w", msg.EventType, err)
		}
		_, err = conn.Exec(ctx,
			`INSERT INTO maintenances (maintenance_id, asset_id, maintenance_type, provider, start_date, completion_date, cost, created_at)
             VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			uuid.NewString(), event.AssetID, event.MaintenanceType, nullIfEmpty(event.Provider), event.StartDate,
			event.CompletionDate, event.Cost, occurredAt(event.OccurredAt, msg.Timestamp))
	default:
		return fmt.Errorf("unknown event type %q", msg.EventType)
	}
	return err
}

func occurredAt(eventTime, kafkaTime time.Time) time.Time {
	if !eventTime.IsZero() {
		return eventTime.UTC()
	}
	return kafkaTime.UTC()
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
