package app

import (
	"context"
	"fmt"
	"sort"

	"github.com/example/floor/internal/apperr"
	coreorder "github.com/example/floor/internal/core/order"
	"github.com/example/floor/internal/core/schedule"
	"github.com/example/floor/internal/ports/secondary"
)

// ConflictDetector finds the orders occupying a line during a window.
// It never writes.
type ConflictDetector struct {
	orderRepo secondary.OrderRepository
}

// NewConflictDetector creates a new ConflictDetector.
func NewConflictDetector(orderRepo secondary.OrderRepository) *ConflictDetector {
	return &ConflictDetector{orderRepo: orderRepo}
}

// FindConflicts returns the orders matching the query, sorted by start date then ID.
// The repository narrows candidates; overlap is decided by schedule.Window.
func (d *ConflictDetector) FindConflicts(ctx context.Context, q secondary.ConflictQuery) ([]*secondary.OrderRecord, error) {
	candidates, err := d.orderRepo.FindConflicting(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to find conflicting orders: %w", err)
	}

	orders := candidates[:0]
	for _, o := range candidates {
		if o.Window().Overlaps(q.Window) {
			orders = append(orders, o)
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		if !orders[i].StartDate.Equal(orders[j].StartDate) {
			return orders[i].StartDate.Before(orders[j].StartDate)
		}
		return orders[i].ID < orders[j].ID
	})
	return orders, nil
}

// FindActiveConflicts ignores cancelled and completed orders, which no longer occupy the line.
func (d *ConflictDetector) FindActiveConflicts(ctx context.Context, lineID string, window schedule.Window, excludeOrderID string) ([]*secondary.OrderRecord, error) {
	return d.FindConflicts(ctx, secondary.ConflictQuery{
		LineID:          lineID,
		Window:          window,
		ExcludeStatuses: terminalStatuses(),
		ExcludeOrderID:  excludeOrderID,
	})
}

// IsFree reports whether no active order occupies the line during window.
func (d *ConflictDetector) IsFree(ctx context.Context, lineID string, window schedule.Window, excludeOrderID string) (bool, error) {
	conflicts, err := d.FindActiveConflicts(ctx, lineID, window, excludeOrderID)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// conflictError builds the scheduling conflict raised when a window is taken.
func conflictError(lineName string, window schedule.Window, conflicts []*secondary.OrderRecord) error {
	core := make([]coreorder.Conflict, len(conflicts))
	blocking := make([]apperr.ConflictingOrder, len(conflicts))
	for i, c := range conflicts {
		core[i] = coreorder.Conflict{Code: c.Code, Window: c.Window()}
		blocking[i] = toConflictingOrder(c)
	}
	return apperr.SchedulingConflict(coreorder.ConflictMessage(lineName, window, core), blocking)
}

func toConflictingOrder(r *secondary.OrderRecord) apperr.ConflictingOrder {
	return apperr.ConflictingOrder{
		OrderID: r.ID,
		Code:    r.Code,
		Start:   r.StartDate,
		End:     r.EndDate,
		Status:  r.Status,
	}
}

func terminalStatuses() []string {
	terminal := coreorder.TerminalStatuses()
	out := make([]string, len(terminal))
	for i, s := range terminal {
		out[i] = string(s)
	}
	return out
}
