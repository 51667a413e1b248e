// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting,
// but delegate business logic to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/core/schedule"
	"github.com/example/floor/internal/ports/primary"
)

// OrderAdapter is a thin adapter that translates CLI operations to SchedulingService calls.
// It depends only on the SchedulingService interface, enabling easy testing with mocks.
type OrderAdapter struct {
	service primary.SchedulingService
	out     io.Writer
}

// NewOrderAdapter creates a new OrderAdapter with the given service.
func NewOrderAdapter(service primary.SchedulingService, out io.Writer) *OrderAdapter {
	return &OrderAdapter{
		service: service,
		out:     out,
	}
}

// Create creates a new order.
func (a *OrderAdapter) Create(ctx context.Context, req primary.CreateOrderRequest) (*primary.Order, error) {
	order, err := a.service.CreateOrder(ctx, req)
	if err != nil {
		a.printConflicts(err)
		return nil, err
	}

	fmt.Fprintf(a.out, "✓ Created order %s (%s) %s\n", order.ID, order.Code, order.Window())
	return order, nil
}

// Update updates the supplied fields of an order.
func (a *OrderAdapter) Update(ctx context.Context, req primary.UpdateOrderRequest) error {
	order, err := a.service.UpdateOrder(ctx, req)
	if err != nil {
		a.printConflicts(err)
		return err
	}

	fmt.Fprintf(a.out, "✓ Order %s updated %s\n", order.ID, order.Window())
	return nil
}

// List lists orders with optional line and status filters.
func (a *OrderAdapter) List(ctx context.Context, lineID, status string) ([]*primary.Order, error) {
	orders, err := a.service.ListOrders(ctx, primary.OrderFilters{LineID: lineID, Status: status})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders found")
		return orders, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tCODE\tSTATUS\tLINE\tSTART\tEND\tQTY")
	fmt.Fprintln(w, "--\t----\t------\t----\t-----\t---\t---")
	for _, o := range orders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%d\n",
			o.ID, o.Code, StatusLabel(o.Status), dash(o.LineID), o.StartDate, o.EndDate, o.Quantity)
	}
	w.Flush()
	return orders, nil
}

// Show displays details for a single order.
func (a *OrderAdapter) Show(ctx context.Context, orderID string) (*primary.Order, error) {
	order, err := a.service.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	fmt.Fprintf(a.out, "\nOrder:    %s\n", order.ID)
	fmt.Fprintf(a.out, "Code:     %s\n", order.Code)
	fmt.Fprintf(a.out, "Status:   %s\n", StatusLabel(order.Status))
	fmt.Fprintf(a.out, "Quantity: %d\n", order.Quantity)
	fmt.Fprintf(a.out, "Dates:    %s (%d days)\n", order.Window(), order.Window().Duration())
	fmt.Fprintf(a.out, "Line:     %s\n", dash(order.LineID))
	if order.ProductID != "" {
		fmt.Fprintf(a.out, "Product:  %s\n", order.ProductID)
	}
	if order.CreatedBy != "" {
		fmt.Fprintf(a.out, "Created by: %s\n", order.CreatedBy)
	}
	fmt.Fprintln(a.out)

	return order, nil
}

// Cancel cancels a pending order.
func (a *OrderAdapter) Cancel(ctx context.Context, orderID string) error {
	if _, err := a.service.CancelOrder(ctx, orderID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Order %s cancelled\n", orderID)
	return nil
}

// Complete marks an in-progress order as completed.
func (a *OrderAdapter) Complete(ctx context.Context, orderID string) error {
	if _, err := a.service.CompleteOrder(ctx, orderID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Order %s completed\n", orderID)
	return nil
}

// Delete deletes an order.
func (a *OrderAdapter) Delete(ctx context.Context, orderID string) error {
	if err := a.service.DeleteOrder(ctx, orderID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Order %s deleted\n", orderID)
	return nil
}

// StartToday starts an order today, or reports the next date its line is free.
func (a *OrderAdapter) StartToday(ctx context.Context, orderID string) (*primary.StartResult, error) {
	result, err := a.service.StartOrderToday(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if result.Started {
		fmt.Fprintf(a.out, "✓ Order %s started %s\n", orderID, result.Order.Window())
		return result, nil
	}
	fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgYellow).Sprint("!"), result.Message)
	fmt.Fprintf(a.out, "  Retry with: floor order start %s --on %s\n", orderID, result.NextAvailableDate)
	return result, nil
}

// StartOnDate starts an order on the given day.
func (a *OrderAdapter) StartOnDate(ctx context.Context, orderID string, day schedule.Day) error {
	order, err := a.service.StartOrderOnDate(ctx, orderID, day)
	if err != nil {
		a.printConflicts(err)
		return err
	}
	fmt.Fprintf(a.out, "✓ Order %s started %s\n", order.ID, order.Window())
	return nil
}

// NextDate prints the first day a window of durationDays is free on the line.
// When orderID is set, line and duration come from that order.
func (a *OrderAdapter) NextDate(ctx context.Context, orderID, lineID string, durationDays int) (schedule.Day, error) {
	var (
		day schedule.Day
		err error
	)
	if orderID != "" {
		day, err = a.service.NextAvailableDateForOrder(ctx, orderID)
	} else {
		day, err = a.service.FindNextAvailableDate(ctx, primary.NextDateRequest{LineID: lineID, DurationDays: durationDays})
	}
	if err != nil {
		return day, err
	}

	fmt.Fprintf(a.out, "Next available date: %s\n", day)
	return day, nil
}

// Check prints whether a window is free on a line.
func (a *OrderAdapter) Check(ctx context.Context, req primary.AvailabilityRequest) (*primary.Availability, error) {
	availability, err := a.service.CheckAvailability(ctx, req)
	if err != nil {
		return nil, err
	}

	window := schedule.NewWindow(req.Start, req.End)
	if availability.Available {
		fmt.Fprintf(a.out, "%s line %s is free %s\n", color.New(color.FgGreen).Sprint("✓"), req.LineID, window)
		return availability, nil
	}

	fmt.Fprintf(a.out, "%s line %s is not available %s\n", color.New(color.FgRed).Sprint("✗"), req.LineID, window)
	a.printOrders(availability.Conflicts)
	return availability, nil
}

// Statuses prints the order statuses.
func (a *OrderAdapter) Statuses() {
	for _, s := range a.service.Statuses() {
		fmt.Fprintln(a.out, StatusLabel(s))
	}
}

func (a *OrderAdapter) printConflicts(err error) {
	if conflicts := apperr.ConflictsOf(err); len(conflicts) > 0 {
		fmt.Fprintln(a.out, "Conflicting orders:")
		a.printOrders(conflicts)
	}
}

func (a *OrderAdapter) printOrders(conflicts []apperr.ConflictingOrder) {
	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	for _, c := range conflicts {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s - %s\n", c.OrderID, c.Code, StatusLabel(c.Status), c.Start, c.End)
	}
	w.Flush()
}

// StatusLabel colors an order status or workstation state for terminal output.
func StatusLabel(status string) string {
	switch status {
	case "PENDING":
		return color.New(color.FgYellow).Sprint(status)
	case "IN_PROGRESS", "CONFIGURED":
		return color.New(color.FgBlue).Sprint(status)
	case "COMPLETED":
		return color.New(color.FgGreen).Sprint(status)
	case "CANCELLED":
		return color.New(color.FgRed).Sprint(status)
	default:
		return status
	}
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
