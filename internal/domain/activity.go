// Package domain defines the unified activity feed model shared by the
// source adapters, the merge engine, and the HTTP layer.
package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ActivityType identifies one of the eight asset lifecycle event kinds.
type ActivityType string

const (
	ActivityCheckout    ActivityType = "checkout"
	ActivityCheckin     ActivityType = "checkin"
	ActivityMove        ActivityType = "move"
	ActivityReserve     ActivityType = "reserve"
	ActivityLease       ActivityType = "lease"
	ActivityLeaseReturn ActivityType = "lease_return"
	ActivityDispose     ActivityType = "dispose"
	ActivityMaintenance ActivityType = "maintenance"
)

// ActivityTypes lists every kind in the fixed order sources are merged.
// The order doubles as the tie-break for records with equal timestamps.
var ActivityTypes = []ActivityType{
	ActivityCheckout,
	ActivityCheckin,
	ActivityMove,
	ActivityReserve,
	ActivityLease,
	ActivityLeaseReturn,
	ActivityDispose,
	ActivityMaintenance,
}

// ParseActivityType validates a caller-supplied type tag.
func ParseActivityType(raw string) (ActivityType, error) {
	for _, t := range ActivityTypes {
		if string(t) == raw {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown activity type %q", raw)
}

// Details is the closed union of per-type payloads. Exactly the eight
// *Details structs in this package implement it; consumers branch on
// ActivityRecord.Type and assert the matching struct.
type Details interface {
	Kind() ActivityType
}

// CheckoutDetails captures an asset handed to an employee.
type CheckoutDetails struct {
	EmployeeName       string     `json:"employeeName"`
	CheckoutDate       time.Time  `json:"checkoutDate"`
	ExpectedReturnDate *time.Time `json:"expectedReturnDate,omitempty"`
}

func (CheckoutDetails) Kind() ActivityType { return ActivityCheckout }

// CheckinDetails captures an asset returned from an employee.
type CheckinDetails struct {
	EmployeeName string    `json:"employeeName"`
	CheckinDate  time.Time `json:"checkinDate"`
	Condition    string    `json:"condition,omitempty"`
}

func (CheckinDetails) Kind() ActivityType { return ActivityCheckin }

// MoveDetails captures a location change.
type MoveDetails struct {
	FromLocation string    `json:"fromLocation"`
	ToLocation   string    `json:"toLocation"`
	MoveDate     time.Time `json:"moveDate"`
}

func (MoveDetails) Kind() ActivityType { return ActivityMove }

// ReserveDetails captures a future-dated hold on an asset.
type ReserveDetails struct {
	ReservedFor string    `json:"reservedFor"`
	StartDate   time.Time `json:"startDate"`
	EndDate     time.Time `json:"endDate"`
}

func (ReserveDetails) Kind() ActivityType { return ActivityReserve }

// LeaseDetails captures an asset leased to an external customer.
type LeaseDetails struct {
	CustomerName string    `json:"customerName"`
	LeaseStart   time.Time `json:"leaseStart"`
	LeaseEnd     time.Time `json:"leaseEnd"`
	LeaseRate    float64   `json:"leaseRate"`
}

func (LeaseDetails) Kind() ActivityType { return ActivityLease }

// LeaseReturnDetails captures a leased asset coming back.
type LeaseReturnDetails struct {
	CustomerName string    `json:"customerName"`
	ReturnDate   time.Time `json:"returnDate"`
	Condition    string    `json:"condition,omitempty"`
}

func (LeaseReturnDetails) Kind() ActivityType { return ActivityLeaseReturn }

// DisposeDetails captures an asset leaving the inventory permanently.
type DisposeDetails struct {
	DisposalMethod string    `json:"disposalMethod"`
	DisposeDate    time.Time `json:"disposeDate"`
	DisposeValue   float64   `json:"disposeValue"`
}

func (DisposeDetails) Kind() ActivityType { return ActivityDispose }

// MaintenanceDetails captures a service or repair event.
type MaintenanceDetails struct {
	MaintenanceType string     `json:"maintenanceType"`
	Provider        string     `json:"provider,omitempty"`
	StartDate       time.Time  `json:"startDate"`
	CompletionDate  *time.Time `json:"completionDate,omitempty"`
	Cost            float64    `json:"cost"`
}

func (MaintenanceDetails) Kind() ActivityType { return ActivityMaintenance }

// ActivityRecord is the normalized envelope returned by the feed. IDs are
// unique within a type, not across types. Type is assigned once by the
// normalizer from the adapter identity and never re-derived.
type ActivityRecord struct {
	ID               string       `json:"id"`
	Type             ActivityType `json:"type"`
	AssetID          string       `json:"assetId"`
	AssetTagID       string       `json:"assetTagId"`
	AssetDescription string       `json:"assetDescription"`
	Timestamp        time.Time    `json:"timestamp"`
	Details          Details      `json:"details"`
}

// PaginationInfo describes the page position within the full result set.
// Total is always the exact count across the relevant sources, even when
// the items themselves come from a bounded merge window.
type PaginationInfo struct {
	Page            int  `json:"page"`
	PageSize        int  `json:"pageSize"`
	Total           int  `json:"total"`
	TotalPages      int  `json:"totalPages"`
	HasNextPage     bool `json:"hasNextPage"`
	HasPreviousPage bool `json:"hasPreviousPage"`
}

// NewPaginationInfo derives the page bookkeeping from an exact total.
func NewPaginationInfo(page, pageSize, total int) PaginationInfo {
	totalPages := 0
	if pageSize > 0 {
		totalPages = (total + pageSize - 1) / pageSize
	}
	return PaginationInfo{
		Page:            page,
		PageSize:        pageSize,
		Total:           total,
		TotalPages:      totalPages,
		HasNextPage:     page < totalPages,
		HasPreviousPage: page > 1,
	}
}

// FeedPage is the fully formed response payload cached and returned to
// callers.
type FeedPage struct {
	Activities []ActivityRecord `json:"activities"`
	Pagination PaginationInfo   `json:"pagination"`
}

// MarshalJSON guarantees activities serializes as [] rather than null for
// empty pages.
func (p FeedPage) MarshalJSON() ([]byte, error) {
	type alias FeedPage
	out := alias(p)
	if out.Activities == nil {
		out.Activities = []ActivityRecord{}
	}
	return json.Marshal(out)
}
