package ingest

import "time"

// Event type tags carried in the Kafka record header. One per collection.
const (
	EventCheckedOut        = "asset.checked_out"
	EventCheckedIn         = "asset.checked_in"
	EventMoved             = "asset.moved"
	EventReserved          = "asset.reserved"
	EventLeased            = "asset.leased"
	EventLeaseReturned     = "asset.lease_returned"
	EventDisposed          = "asset.disposed"
	EventMaintenanceLogged = "asset.maintenance_logged"
)

// CheckedOutEvent mirrors the checkout collection row.
type CheckedOutEvent struct {
	AssetID            string     `json:"asset_id"`
	EmployeeName       string     `json:"employee_name"`
	CheckoutDate       time.Time  `json:"checkout_date"`
	ExpectedReturnDate *time.Time `json:"expected_return_date,omitempty"`
	OccurredAt         time.Time  `json:"occurred_at"`
}

// CheckedInEvent mirrors the checkin collection row.
type CheckedInEvent struct {
	AssetID      string    `json:"asset_id"`
	EmployeeName string    `json:"employee_name"`
	CheckinDate  time.Time `json:"checkin_date"`
	Condition    string    `json:"condition,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// MovedEvent mirrors the move collection row.
type MovedEvent struct {
	AssetID      string    `json:"asset_id"`
	FromLocation string    `json:"from_location"`
	ToLocation   string    `json:"to_location"`
	MoveDate     time.Time `json:"move_date"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// ReservedEvent mirrors the reservation collection row.
type ReservedEvent struct {
	AssetID     string    `json:"asset_id"`
	ReservedFor string    `json:"reserved_for"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// LeasedEvent mirrors the lease collection row.
type LeasedEvent struct {
	AssetID      string    `json:"asset_id"`
	CustomerName string    `json:"customer_name"`
	LeaseStart   time.Time `json:"lease_start"`
	LeaseEnd     time.Time `json:"lease_end"`
	LeaseRate    float64   `json:"lease_rate"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// LeaseReturnedEvent mirrors the lease return collection row.
type LeaseReturnedEvent struct {
	AssetID      string    `json:"asset_id"`
	CustomerName string    `json:"customer_name"`
	ReturnDate   time.Time `json:"return_date"`
	Condition    string    `json:"condition,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// DisposedEvent mirrors the disposal collection row.
type DisposedEvent struct {
	AssetID        string    `json:"asset_id"`
	DisposalMethod string    `json:"disposal_method"`
	DisposeDate    time.Time `json:"dispose_date"`
	DisposeValue   float64   `json:"dispose_value"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// MaintenanceLoggedEvent mirrors the maintenance collection row.
type MaintenanceLoggedEvent struct {
	AssetID         string     `json:"asset_id"`
	MaintenanceType string     `json:"maintenance_type"`
	Provider        string     `json:"provider,omitempty"`
	StartDate       time.Time  `json:"start_date"`
	CompletionDate  *time.Time `json:"completion_date,omitempty"`
	Cost            float64    `json:"cost"`
	OccurredAt      time.Time  `json:"occurred_at"`
}
