// Package order contains the pure business logic for manufacturing orders.
// Guards are pure functions that evaluate preconditions without side effects.
package order

import (
	"fmt"
	"strings"

	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/core/schedule"
)

// Status is the lifecycle state of a manufacturing order.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusCancelled  Status = "CANCELLED"
)

// AllStatuses lists the statuses in lifecycle order.
func AllStatuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
}

// ParseStatus validates a status string.
func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses() {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// InitialStatus is the status of a newly created order.
func InitialStatus() Status {
	return StatusPending
}

// TerminalStatuses are ignored by conflict detection: finished or abandoned
// orders no longer occupy their line.
func TerminalStatuses() []Status {
	return []Status{StatusCancelled, StatusCompleted}
}

// IsTerminal reports whether an order in this status no longer occupies its line.
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Reactivates reports whether a status change puts a closed order back on its line.
func Reactivates(from, to Status) bool {
	return from.IsTerminal() && !to.IsTerminal()
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Kind    apperr.Kind // set when not allowed
}

// Error converts the guard result to a classified error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return apperr.New(r.Kind, "%s", r.Reason)
}

// TransitionContext provides context for status transition guards.
type TransitionContext struct {
	OrderID string
	Status  Status
}

// StartContext provides context for the start guards.
type StartContext struct {
	OrderID string
	Status  Status
	LineID  string
}

// CanCancel evaluates whether an order can be cancelled.
// Rules:
// - Status must be PENDING
func CanCancel(ctx TransitionContext) GuardResult {
	if ctx.Status != StatusPending {
		return GuardResult{
			Allowed: false,
			Kind:    apperr.KindInvalidState,
			Reason:  fmt.Sprintf("only pending orders can be cancelled (order %s is %s)", ctx.OrderID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// CanStart evaluates whether an order can be started.
// Rules:
// - Status must be PENDING
func CanStart(ctx StartContext) GuardResult {
	if ctx.Status != StatusPending {
		return GuardResult{
			Allowed: false,
			Kind:    apperr.KindInvalidState,
			Reason:  fmt.Sprintf("only pending orders can be started (order %s is %s)", ctx.OrderID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// HasLine evaluates whether an order is placed on a production line.
func HasLine(ctx StartContext) GuardResult {
	if ctx.LineID == "" {
		return GuardResult{
			Allowed: false,
			Kind:    apperr.KindMissingLine,
			Reason:  fmt.Sprintf("order %s has no production line assigned", ctx.OrderID),
		}
	}
	return GuardResult{Allowed: true}
}

// CanComplete evaluates whether an order can be completed.
// Rules:
// - Status must be IN_PROGRESS
func CanComplete(ctx TransitionContext) GuardResult {
	if ctx.Status != StatusInProgress {
		return GuardResult{
			Allowed: false,
			Kind:    apperr.KindInvalidState,
			Reason:  fmt.Sprintf("only in-progress orders can be completed (order %s is %s)", ctx.OrderID, ctx.Status),
		}
	}
	return GuardResult{Allowed: true}
}

// Conflict is a minimal view of an order occupying a line.
type Conflict struct {
	Code   string
	Window schedule.Window
}

// ConflictMessage renders the user-facing explanation of a scheduling conflict.
func ConflictMessage(lineName string, requested schedule.Window, conflicts []Conflict) string {
	parts := make([]string, len(conflicts))
	for i, c := range conflicts {
		parts[i] = fmt.Sprintf("%s (%s)", c.Code, c.Window)
	}
	return fmt.Sprintf("production line '%s' is not available from %s to %s; conflicting orders: %s",
		lineName, requested.Start, requested.End, strings.Join(parts, ", "))
}

// ScheduleChanged reports whether an update moves the order to another line
// or other dates. Together with Reactivates it decides when an update needs
// a new availability check.
func ScheduleChanged(oldLine string, oldWindow schedule.Window, newLine string, newWindow schedule.Window) bool {
	return oldLine != newLine ||
		!oldWindow.Start.Equal(newWindow.Start) ||
		!oldWindow.End.Equal(newWindow.End)
}
