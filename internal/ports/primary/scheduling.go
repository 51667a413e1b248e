// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import (
	"context"

	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/core/schedule"
)

// SchedulingService defines the primary port for manufacturing order scheduling.
// Implementations live in the application layer, adapters in CLI/API layers.
type SchedulingService interface {
	// CreateOrder validates and persists a new order. Orders placed on a line
	// must not overlap any active order on that line.
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)

	// UpdateOrder overwrites the supplied fields. Moving the order to another
	// line or other dates re-runs the availability check, excluding itself.
	UpdateOrder(ctx context.Context, req UpdateOrderRequest) (*Order, error)

	// GetOrder retrieves an order by ID.
	GetOrder(ctx context.Context, orderID string) (*Order, error)

	// ListOrders lists orders with optional filters.
	ListOrders(ctx context.Context, filters OrderFilters) ([]*Order, error)

	// DeleteOrder removes an order regardless of its status.
	DeleteOrder(ctx context.Context, orderID string) error

	// CancelOrder moves a pending order to CANCELLED.
	CancelOrder(ctx context.Context, orderID string) (*Order, error)

	// StartOrderToday shifts a pending order to start today and marks it in progress.
	// When its line is busy, the order is left untouched and the result
	// carries the next available date instead.
	StartOrderToday(ctx context.Context, orderID string) (*StartResult, error)

	// StartOrderOnDate shifts a pending order to start on day and marks it in progress.
	// A busy line is reported as a scheduling conflict.
	StartOrderOnDate(ctx context.Context, orderID string, day schedule.Day) (*Order, error)

	// CompleteOrder moves an in-progress order to COMPLETED.
	CompleteOrder(ctx context.Context, orderID string) (*Order, error)

	// FindNextAvailableDate returns the first day from today on which a window
	// of durationDays is free on the line.
	FindNextAvailableDate(ctx context.Context, req NextDateRequest) (schedule.Day, error)

	// NextAvailableDateForOrder derives line and duration from an existing order.
	NextAvailableDateForOrder(ctx context.Context, orderID string) (schedule.Day, error)

	// CheckAvailability reports whether a window is free on a line, with the blocking orders.
	CheckAvailability(ctx context.Context, req AvailabilityRequest) (*Availability, error)

	// IsLineAvailable is the boolean form of CheckAvailability. Unknown lines are unavailable.
	IsLineAvailable(ctx context.Context, req AvailabilityRequest) (bool, error)

	// Statuses lists the order statuses.
	Statuses() []string
}

// CreateOrderRequest contains parameters for creating an order.
type CreateOrderRequest struct {
	Code      string       `json:"code"`
	Quantity  int          `json:"quantity"`
	StartDate schedule.Day `json:"startDate"`
	EndDate   schedule.Day `json:"endDate"`
	ProductID string       `json:"productId"`
	LineID    string       `json:"lineId"`
	Status    string       `json:"status"` // Defaults to PENDING
}

// UpdateOrderRequest contains parameters for updating an order.
// Nil fields are left unchanged. The creator cannot be changed.
type UpdateOrderRequest struct {
	OrderID   string        `json:"-"`
	Code      *string       `json:"code"`
	Quantity  *int          `json:"quantity"`
	StartDate *schedule.Day `json:"startDate"`
	EndDate   *schedule.Day `json:"endDate"`
	ProductID *string       `json:"productId"`
	LineID    *string       `json:"lineId"`
	Status    *string       `json:"status"`
}

// Order represents a manufacturing order at the port boundary.
type Order struct {
	ID        string       `json:"id"`
	Code      string       `json:"code"`
	Status    string       `json:"status"`
	Quantity  int          `json:"quantity"`
	StartDate schedule.Day `json:"startDate"`
	EndDate   schedule.Day `json:"endDate"`
	ProductID string       `json:"productId,omitempty"`
	LineID    string       `json:"lineId,omitempty"`
	CreatedBy string       `json:"createdBy,omitempty"`
	CreatedAt string       `json:"createdAt,omitempty"`
	UpdatedAt string       `json:"updatedAt,omitempty"`
}

// Window returns the order's scheduled date range.
func (o *Order) Window() schedule.Window {
	return schedule.NewWindow(o.StartDate, o.EndDate)
}

// OrderFilters contains filter options for listing orders.
type OrderFilters struct {
	LineID string
	Status string
}

// StartResult is the outcome of StartOrderToday.
type StartResult struct {
	Started           bool         `json:"success"`
	NeedsNewDate      bool         `json:"needsNewDate"`
	Order             *Order       `json:"ordreFab,omitempty"`
	NextAvailableDate schedule.Day `json:"nextAvailableDate"`
	Message           string       `json:"message"`
}

// NextDateRequest contains parameters for a next-available-date search.
type NextDateRequest struct {
	LineID         string
	DurationDays   int
	ExcludeOrderID string
}

// AvailabilityRequest contains parameters for an availability check.
type AvailabilityRequest struct {
	LineID         string
	Start          schedule.Day
	End            schedule.Day
	ExcludeOrderID string
}

// Availability is the result of an availability check.
type Availability struct {
	Available bool                      `json:"available"`
	Conflicts []apperr.ConflictingOrder `json:"conflictingOrders"`
}
