package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/floor/internal/apperr"
	coreorder "github.com/example/floor/internal/core/order"
	"github.com/example/floor/internal/core/schedule"
	"github.com/example/floor/internal/ctxutil"
	"github.com/example/floor/internal/ports/primary"
	"github.com/example/floor/internal/ports/secondary"
)

// SchedulingServiceImpl implements the SchedulingService interface.
type SchedulingServiceImpl struct {
	orderRepo   secondary.OrderRepository
	lineRepo    secondary.ProductionLineRepository
	productRepo secondary.ProductRepository
	tx          secondary.Transactor
	detector    *ConflictDetector
	now         func() time.Time
	horizon     int
	logger      *zap.Logger
}

// NewSchedulingService creates a new SchedulingService with injected dependencies.
func NewSchedulingService(
	orderRepo secondary.OrderRepository,
	lineRepo secondary.ProductionLineRepository,
	productRepo secondary.ProductRepository,
	tx secondary.Transactor,
	opts ...Option,
) *SchedulingServiceImpl {
	o := buildOptions(opts)
	return &SchedulingServiceImpl{
		orderRepo:   orderRepo,
		lineRepo:    lineRepo,
		productRepo: productRepo,
		tx:          tx,
		detector:    NewConflictDetector(orderRepo),
		now:         o.now,
		horizon:     o.horizon,
		logger:      o.logger.Named("scheduling"),
	}
}

func (s *SchedulingServiceImpl) today() schedule.Day {
	return schedule.DayOf(s.now())
}

// CreateOrder validates and persists a new order.
func (s *SchedulingServiceImpl) CreateOrder(ctx context.Context, req primary.CreateOrderRequest) (*primary.Order, error) {
	window := schedule.NewWindow(req.StartDate, req.EndDate)
	if err := validateOrderFields(req.Code, req.Quantity, window); err != nil {
		return nil, err
	}

	status := coreorder.InitialStatus()
	if req.Status != "" {
		parsed, err := coreorder.ParseStatus(req.Status)
		if err != nil {
			return nil, apperr.Invalid("%s", err.Error())
		}
		status = parsed
	}

	var created *secondary.OrderRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if req.ProductID != "" {
			if _, err := s.productRepo.GetByID(ctx, req.ProductID); err != nil {
				return err
			}
		}

		if req.LineID != "" {
			line, err := s.lineRepo.GetByID(ctx, req.LineID)
			if err != nil {
				return err
			}
			if err := s.ensureAvailable(ctx, line, window, ""); err != nil {
				return err
			}
		}

		nextID, err := s.orderRepo.GetNextID(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate order ID: %w", err)
		}

		record := &secondary.OrderRecord{
			ID:        nextID,
			Code:      req.Code,
			Status:    string(status),
			Quantity:  req.Quantity,
			StartDate: req.StartDate,
			EndDate:   req.EndDate,
			ProductID: req.ProductID,
			LineID:    req.LineID,
			CreatedBy: ctxutil.ActorFromContext(ctx),
		}
		if err := s.orderRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		created, err = s.orderRepo.GetByID(ctx, nextID)
		if err != nil {
			return fmt.Errorf("failed to fetch created order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", created.ID),
		zap.String("line_id", created.LineID),
		zap.Stringer("window", created.Window()),
		zap.String("created_by", created.CreatedBy))
	return recordToOrder(created), nil
}

// UpdateOrder overwrites the supplied fields of an order. The creator never changes.
func (s *SchedulingServiceImpl) UpdateOrder(ctx context.Context, req primary.UpdateOrderRequest) (*primary.Order, error) {
	var updated *secondary.OrderRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.orderRepo.GetByID(ctx, req.OrderID)
		if err != nil {
			return err
		}

		merged := *existing
		if req.Code != nil {
			merged.Code = *req.Code
		}
		if req.Quantity != nil {
			merged.Quantity = *req.Quantity
		}
		if req.StartDate != nil {
			merged.StartDate = *req.StartDate
		}
		if req.EndDate != nil {
			merged.EndDate = *req.EndDate
		}
		if req.ProductID != nil {
			merged.ProductID = *req.ProductID
		}
		if req.LineID != nil {
			merged.LineID = *req.LineID
		}
		if req.Status != nil {
			status, err := coreorder.ParseStatus(*req.Status)
			if err != nil {
				return apperr.Invalid("%s", err.Error())
			}
			merged.Status = string(status)
		}

		if err := validateOrderFields(merged.Code, merged.Quantity, merged.Window()); err != nil {
			return err
		}

		if merged.ProductID != "" && merged.ProductID != existing.ProductID {
			if _, err := s.productRepo.GetByID(ctx, merged.ProductID); err != nil {
				return err
			}
		}

		recheck := coreorder.ScheduleChanged(existing.LineID, existing.Window(), merged.LineID, merged.Window()) ||
			coreorder.Reactivates(coreorder.Status(existing.Status), coreorder.Status(merged.Status))
		if merged.LineID != "" && recheck {
			line, err := s.lineRepo.GetByID(ctx, merged.LineID)
			if err != nil {
				return err
			}
			if err := s.ensureAvailable(ctx, line, merged.Window(), merged.ID); err != nil {
				return err
			}
		}

		if err := s.orderRepo.Update(ctx, &merged); err != nil {
			return fmt.Errorf("failed to update order: %w", err)
		}

		updated, err = s.orderRepo.GetByID(ctx, merged.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order updated", zap.String("order_id", updated.ID), zap.Stringer("window", updated.Window()))
	return recordToOrder(updated), nil
}

// GetOrder retrieves an order by ID.
func (s *SchedulingServiceImpl) GetOrder(ctx context.Context, orderID string) (*primary.Order, error) {
	record, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return recordToOrder(record), nil
}

// ListOrders lists orders with optional filters.
func (s *SchedulingServiceImpl) ListOrders(ctx context.Context, filters primary.OrderFilters) ([]*primary.Order, error) {
	if filters.Status != "" {
		if _, err := coreorder.ParseStatus(filters.Status); err != nil {
			return nil, apperr.Invalid("%s", err.Error())
		}
	}

	records, err := s.orderRepo.List(ctx, secondary.OrderFilters{
		LineID: filters.LineID,
		Status: filters.Status,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]*primary.Order, len(records))
	for i, r := range records {
		orders[i] = recordToOrder(r)
	}
	return orders, nil
}

// DeleteOrder removes an order regardless of its status.
func (s *SchedulingServiceImpl) DeleteOrder(ctx context.Context, orderID string) error {
	if err := s.orderRepo.Delete(ctx, orderID); err != nil {
		return err
	}
	s.logger.Info("order deleted", zap.String("order_id", orderID))
	return nil
}

// CancelOrder moves a pending order to CANCELLED.
func (s *SchedulingServiceImpl) CancelOrder(ctx context.Context, orderID string) (*primary.Order, error) {
	return s.transition(ctx, orderID, coreorder.StatusCancelled, coreorder.CanCancel)
}

// CompleteOrder moves an in-progress order to COMPLETED.
func (s *SchedulingServiceImpl) CompleteOrder(ctx context.Context, orderID string) (*primary.Order, error) {
	return s.transition(ctx, orderID, coreorder.StatusCompleted, coreorder.CanComplete)
}

func (s *SchedulingServiceImpl) transition(ctx context.Context, orderID string, to coreorder.Status, guard func(coreorder.TransitionContext) coreorder.GuardResult) (*primary.Order, error) {
	var record *secondary.OrderRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		record, err = s.orderRepo.GetByID(ctx, orderID)
		if err != nil {
			return err
		}

		result := guard(coreorder.TransitionContext{OrderID: record.ID, Status: coreorder.Status(record.Status)})
		if !result.Allowed {
			return result.Error()
		}

		record.Status = string(to)
		return s.orderRepo.Update(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order status changed", zap.String("order_id", orderID), zap.String("status", string(to)))
	return recordToOrder(record), nil
}

// StartOrderToday shifts a pending order to start today, keeping its duration,
// and marks it in progress. A busy line leaves the order untouched and the
// result carries the next available date.
func (s *SchedulingServiceImpl) StartOrderToday(ctx context.Context, orderID string) (*primary.StartResult, error) {
	var result *primary.StartResult
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		record, line, err := s.loadStartable(ctx, orderID)
		if err != nil {
			return err
		}

		today := s.today()
		window := record.Window().Shift(today)
		free, err := s.detector.IsFree(ctx, line.ID, window, record.ID)
		if err != nil {
			return err
		}

		if !free {
			next, err := s.findNext(ctx, line.ID, window.Duration(), record.ID)
			if err != nil {
				return err
			}
			result = &primary.StartResult{
				Started:           false,
				NeedsNewDate:      true,
				Order:             recordToOrder(record),
				NextAvailableDate: next,
				Message:           fmt.Sprintf("production line '%s' is not available today; next available date: %s", line.Name, next),
			}
			return nil
		}

		if err := s.start(ctx, record, window); err != nil {
			return err
		}
		result = &primary.StartResult{
			Started: true,
			Order:   recordToOrder(record),
			Message: "order started today",
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Started {
		s.logger.Info("order started", zap.String("order_id", orderID), zap.Stringer("window", result.Order.Window()))
	} else {
		s.logger.Info("order start deferred", zap.String("order_id", orderID), zap.Stringer("next_available", result.NextAvailableDate))
	}
	return result, nil
}

// StartOrderOnDate shifts a pending order to start on day, keeping its
// duration, and marks it in progress. A busy line is a scheduling conflict.
func (s *SchedulingServiceImpl) StartOrderOnDate(ctx context.Context, orderID string, day schedule.Day) (*primary.Order, error) {
	if day.IsZero() {
		return nil, apperr.Invalid("a start date is required")
	}

	var record *secondary.OrderRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var (
			line *secondary.ProductionLineRecord
			err  error
		)
		record, line, err = s.loadStartable(ctx, orderID)
		if err != nil {
			return err
		}

		window := record.Window().Shift(day)
		conflicts, err := s.detector.FindActiveConflicts(ctx, line.ID, window, record.ID)
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return conflictError(line.Name, window, conflicts)
		}

		return s.start(ctx, record, window)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order started", zap.String("order_id", orderID), zap.Stringer("window", record.Window()))
	return recordToOrder(record), nil
}

// loadStartable fetches an order and its line, checking it may be started.
func (s *SchedulingServiceImpl) loadStartable(ctx context.Context, orderID string) (*secondary.OrderRecord, *secondary.ProductionLineRecord, error) {
	record, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	guardCtx := coreorder.StartContext{OrderID: record.ID, Status: coreorder.Status(record.Status), LineID: record.LineID}
	if result := coreorder.CanStart(guardCtx); !result.Allowed {
		return nil, nil, result.Error()
	}
	if result := coreorder.HasLine(guardCtx); !result.Allowed {
		return nil, nil, result.Error()
	}

	line, err := s.lineRepo.GetByID(ctx, record.LineID)
	if err != nil {
		return nil, nil, err
	}
	return record, line, nil
}

func (s *SchedulingServiceImpl) start(ctx context.Context, record *secondary.OrderRecord, window schedule.Window) error {
	record.StartDate = window.Start
	record.EndDate = window.End
	record.Status = string(coreorder.StatusInProgress)
	if err := s.orderRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("failed to start order: %w", err)
	}
	return nil
}

// FindNextAvailableDate returns the first day from today on which a window
// of durationDays is free on the line.
func (s *SchedulingServiceImpl) FindNextAvailableDate(ctx context.Context, req primary.NextDateRequest) (schedule.Day, error) {
	if req.DurationDays < 0 {
		return schedule.Day{}, apperr.Invalid("duration must not be negative (got %d)", req.DurationDays)
	}
	if _, err := s.lineRepo.GetByID(ctx, req.LineID); err != nil {
		return schedule.Day{}, err
	}
	return s.findNext(ctx, req.LineID, req.DurationDays, req.ExcludeOrderID)
}

// NextAvailableDateForOrder searches with the order's own line and duration.
func (s *SchedulingServiceImpl) NextAvailableDateForOrder(ctx context.Context, orderID string) (schedule.Day, error) {
	record, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return schedule.Day{}, err
	}
	if result := coreorder.HasLine(coreorder.StartContext{OrderID: record.ID, LineID: record.LineID}); !result.Allowed {
		return schedule.Day{}, result.Error()
	}
	return s.FindNextAvailableDate(ctx, primary.NextDateRequest{
		LineID:         record.LineID,
		DurationDays:   record.Window().Duration(),
		ExcludeOrderID: record.ID,
	})
}

func (s *SchedulingServiceImpl) findNext(ctx context.Context, lineID string, durationDays int, excludeOrderID string) (schedule.Day, error) {
	from := s.today()
	day, found, err := schedule.FindFirstAvailable(from, durationDays, s.horizon, func(w schedule.Window) (bool, error) {
		return s.detector.IsFree(ctx, lineID, w, excludeOrderID)
	})
	if err != nil {
		return schedule.Day{}, err
	}
	if !found {
		s.logger.Warn("no free window within search horizon",
			zap.String("line_id", lineID),
			zap.Int("duration_days", durationDays),
			zap.Int("horizon_days", s.horizon),
			zap.Stringer("fallback", day))
	}
	return day, nil
}

// CheckAvailability reports whether the window is free on the line along with
// the blocking orders. An unknown line is reported as unavailable, not as an error.
func (s *SchedulingServiceImpl) CheckAvailability(ctx context.Context, req primary.AvailabilityRequest) (*primary.Availability, error) {
	window := schedule.NewWindow(req.Start, req.End)
	if err := window.Validate(); err != nil {
		return nil, apperr.Invalid("%s", err.Error())
	}

	if _, err := s.lineRepo.GetByID(ctx, req.LineID); err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return &primary.Availability{Available: false, Conflicts: []apperr.ConflictingOrder{}}, nil
		}
		return nil, err
	}

	conflicts, err := s.detector.FindActiveConflicts(ctx, req.LineID, window, req.ExcludeOrderID)
	if err != nil {
		return nil, err
	}

	blocking := make([]apperr.ConflictingOrder, len(conflicts))
	for i, c := range conflicts {
		blocking[i] = toConflictingOrder(c)
	}
	return &primary.Availability{Available: len(conflicts) == 0, Conflicts: blocking}, nil
}

// IsLineAvailable is the boolean form of CheckAvailability.
func (s *SchedulingServiceImpl) IsLineAvailable(ctx context.Context, req primary.AvailabilityRequest) (bool, error) {
	availability, err := s.CheckAvailability(ctx, req)
	if err != nil {
		return false, err
	}
	return availability.Available, nil
}

// Statuses lists the order statuses.
func (s *SchedulingServiceImpl) Statuses() []string {
	all := coreorder.AllStatuses()
	out := make([]string, len(all))
	for i, st := range all {
		out[i] = string(st)
	}
	return out
}

// ensureAvailable raises a scheduling conflict when active orders occupy the window.
func (s *SchedulingServiceImpl) ensureAvailable(ctx context.Context, line *secondary.ProductionLineRecord, window schedule.Window, excludeOrderID string) error {
	conflicts, err := s.detector.FindActiveConflicts(ctx, line.ID, window, excludeOrderID)
	if err != nil {
		return err
	}
	if len(conflicts) > 0 {
		s.logger.Debug("scheduling conflict",
			zap.String("line_id", line.ID),
			zap.Stringer("window", window),
			zap.Int("conflicts", len(conflicts)))
		return conflictError(line.Name, window, conflicts)
	}
	return nil
}

func validateOrderFields(code string, quantity int, window schedule.Window) error {
	if code == "" {
		return apperr.Invalid("order code is required")
	}
	if quantity < 0 {
		return apperr.Invalid("quantity must not be negative (got %d)", quantity)
	}
	if err := window.Validate(); err != nil {
		return apperr.Invalid("%s", err.Error())
	}
	return nil
}

func recordToOrder(r *secondary.OrderRecord) *primary.Order {
	return &primary.Order{
		ID:        r.ID,
		Code:      r.Code,
		Status:    r.Status,
		Quantity:  r.Quantity,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		ProductID: r.ProductID,
		LineID:    r.LineID,
		CreatedBy: r.CreatedBy,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
