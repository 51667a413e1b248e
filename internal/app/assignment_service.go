package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/example/floor/internal/apperr"
	coreassignment "github.com/example/floor/internal/core/assignment"
	"github.com/example/floor/internal/ports/primary"
	"github.com/example/floor/internal/ports/secondary"
)

// AssignmentServiceImpl implements the AssignmentService interface.
type AssignmentServiceImpl struct {
	assignmentRepo  secondary.AssignmentRepository
	applicationRepo secondary.ApplicationRepository
	workstationRepo secondary.WorkstationRepository
	tx              secondary.Transactor
	now             func() time.Time
	logger          *zap.Logger
}

// NewAssignmentService creates a new AssignmentService with injected dependencies.
func NewAssignmentService(
	assignmentRepo secondary.AssignmentRepository,
	applicationRepo secondary.ApplicationRepository,
	workstationRepo secondary.WorkstationRepository,
	tx secondary.Transactor,
	opts ...Option,
) *AssignmentServiceImpl {
	o := buildOptions(opts)
	return &AssignmentServiceImpl{
		assignmentRepo:  assignmentRepo,
		applicationRepo: applicationRepo,
		workstationRepo: workstationRepo,
		tx:              tx,
		now:             o.now,
		logger:          o.logger.Named("assignment"),
	}
}

// AssignApplication binds an application to a workstation.
// Duplicate active rows left by older data are closed first, keeping the most recent.
func (s *AssignmentServiceImpl) AssignApplication(ctx context.Context, applicationID, workstationID string) (*primary.Assignment, error) {
	var created *secondary.AssignmentRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.applicationRepo.GetByID(ctx, applicationID); err != nil {
			return err
		}
		if _, err := s.workstationRepo.GetByID(ctx, workstationID); err != nil {
			return err
		}

		now := s.now().UTC()
		appRows, err := s.assignmentRepo.ListActiveByApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		if _, err := s.closeStale(ctx, appRows, now); err != nil {
			return err
		}
		wsRows, err := s.assignmentRepo.ListActiveByWorkstation(ctx, workstationID)
		if err != nil {
			return err
		}
		if _, err := s.closeStale(ctx, wsRows, now); err != nil {
			return err
		}

		guardCtx := coreassignment.AssignContext{ApplicationID: applicationID, WorkstationID: workstationID}
		if current, err := s.latestActiveForApplication(ctx, applicationID); err != nil {
			return err
		} else if current != nil {
			guardCtx.ApplicationBoundTo = current.WorkstationID
		}
		if current, err := s.latestActiveForWorkstation(ctx, workstationID); err != nil {
			return err
		} else if current != nil {
			guardCtx.WorkstationRunning = current.ApplicationID
		}
		if result := coreassignment.CanAssign(guardCtx); !result.Allowed {
			return result.Error()
		}

		nextID, err := s.assignmentRepo.GetNextID(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate assignment ID: %w", err)
		}
		created = &secondary.AssignmentRecord{
			ID:            nextID,
			WorkstationID: workstationID,
			ApplicationID: applicationID,
			StartedAt:     now,
			Active:        true,
		}
		if err := s.assignmentRepo.Create(ctx, created); err != nil {
			return err
		}

		return s.workstationRepo.UpdateState(ctx, workstationID, string(coreassignment.StateConfigured))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application assigned",
		zap.String("assignment_id", created.ID),
		zap.String("application_id", applicationID),
		zap.String("workstation_id", workstationID))
	return recordToAssignment(created), nil
}

// UnassignApplication ends the application's most recent active assignment.
func (s *AssignmentServiceImpl) UnassignApplication(ctx context.Context, applicationID string) (*primary.Assignment, error) {
	var ended *secondary.AssignmentRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.latestActiveForApplication(ctx, applicationID)
		if err != nil {
			return err
		}
		if current == nil {
			return apperr.NotFound("application %s has no active assignment", applicationID)
		}

		now := s.now().UTC()
		if err := s.assignmentRepo.Deactivate(ctx, current.ID, now); err != nil {
			return err
		}
		current.Active = false
		current.EndedAt = now
		ended = current

		return s.refreshWorkstationState(ctx, current.WorkstationID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application unassigned",
		zap.String("assignment_id", ended.ID),
		zap.String("application_id", applicationID),
		zap.String("workstation_id", ended.WorkstationID))
	return recordToAssignment(ended), nil
}

// IsApplicationAffected reports whether the application has an active assignment.
func (s *AssignmentServiceImpl) IsApplicationAffected(ctx context.Context, applicationID string) (bool, error) {
	current, err := s.latestActiveForApplication(ctx, applicationID)
	return current != nil, err
}

// IsPosteConfigured reports whether the workstation has an active assignment.
func (s *AssignmentServiceImpl) IsPosteConfigured(ctx context.Context, workstationID string) (bool, error) {
	current, err := s.latestActiveForWorkstation(ctx, workstationID)
	return current != nil, err
}

// GetActiveAssignmentForApplication returns nil when the application is free.
func (s *AssignmentServiceImpl) GetActiveAssignmentForApplication(ctx context.Context, applicationID string) (*primary.Assignment, error) {
	current, err := s.latestActiveForApplication(ctx, applicationID)
	if err != nil || current == nil {
		return nil, err
	}
	return recordToAssignment(current), nil
}

// GetActiveAssignmentForPoste returns nil when the workstation is free.
func (s *AssignmentServiceImpl) GetActiveAssignmentForPoste(ctx context.Context, workstationID string) (*primary.Assignment, error) {
	current, err := s.latestActiveForWorkstation(ctx, workstationID)
	if err != nil || current == nil {
		return nil, err
	}
	return recordToAssignment(current), nil
}

// GetHistoryForApplication lists every assignment of the application, newest first.
func (s *AssignmentServiceImpl) GetHistoryForApplication(ctx context.Context, applicationID string) ([]*primary.Assignment, error) {
	records, err := s.assignmentRepo.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment history: %w", err)
	}
	return recordsToAssignments(records), nil
}

// GetHistoryForPoste lists every assignment of the workstation, newest first.
func (s *AssignmentServiceImpl) GetHistoryForPoste(ctx context.Context, workstationID string) ([]*primary.Assignment, error) {
	records, err := s.assignmentRepo.ListByWorkstation(ctx, workstationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment history: %w", err)
	}
	return recordsToAssignments(records), nil
}

func (s *AssignmentServiceImpl) latestActiveForApplication(ctx context.Context, applicationID string) (*secondary.AssignmentRecord, error) {
	rows, err := s.assignmentRepo.ListActiveByApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active assignment: %w", err)
	}
	return newest(rows), nil
}

func (s *AssignmentServiceImpl) latestActiveForWorkstation(ctx context.Context, workstationID string) (*secondary.AssignmentRecord, error) {
	rows, err := s.assignmentRepo.ListActiveByWorkstation(ctx, workstationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get active assignment: %w", err)
	}
	return newest(rows), nil
}

// closeStale deactivates every active row but the most recent and refreshes
// the state of the workstations those rows occupied.
func (s *AssignmentServiceImpl) closeStale(ctx context.Context, rows []*secondary.AssignmentRecord, endedAt time.Time) ([]string, error) {
	if len(rows) < 2 {
		return nil, nil
	}

	keep, stale := coreassignment.SplitDuplicates(toActiveRows(rows))
	byID := make(map[string]*secondary.AssignmentRecord, len(rows))
	for _, r := range rows {
		byID[r.ID] = r
	}

	var closed []string
	touched := map[string]bool{}
	for _, row := range stale {
		if err := s.assignmentRepo.Deactivate(ctx, row.ID, endedAt); err != nil {
			return nil, fmt.Errorf("failed to deactivate duplicate assignment %s: %w", row.ID, err)
		}
		closed = append(closed, row.ID)
		touched[byID[row.ID].WorkstationID] = true
	}

	s.logger.Warn("deactivated duplicate active assignments",
		zap.String("kept", keep.ID),
		zap.Strings("deactivated", closed))

	for workstationID := range touched {
		if err := s.refreshWorkstationState(ctx, workstationID); err != nil {
			return nil, err
		}
	}
	return closed, nil
}

// refreshWorkstationState recomputes the cached state from the active rows.
func (s *AssignmentServiceImpl) refreshWorkstationState(ctx context.Context, workstationID string) error {
	active, err := s.assignmentRepo.ListActiveByWorkstation(ctx, workstationID)
	if err != nil {
		return err
	}
	state := coreassignment.StateFor(len(active) > 0)
	if err := s.workstationRepo.UpdateState(ctx, workstationID, string(state)); err != nil {
		return fmt.Errorf("failed to update workstation state: %w", err)
	}
	return nil
}

// newest picks the most recent row regardless of the order rows arrive in.
func newest(rows []*secondary.AssignmentRecord) *secondary.AssignmentRecord {
	if len(rows) == 0 {
		return nil
	}
	keep, _ := coreassignment.SplitDuplicates(toActiveRows(rows))
	for _, r := range rows {
		if r.ID == keep.ID {
			return r
		}
	}
	return nil
}

func toActiveRows(rows []*secondary.AssignmentRecord) []coreassignment.ActiveRow {
	out := make([]coreassignment.ActiveRow, len(rows))
	for i, r := range rows {
		out[i] = coreassignment.ActiveRow{ID: r.ID, StartedAt: r.StartedAt, Seq: r.Seq}
	}
	return out
}

func recordToAssignment(r *secondary.AssignmentRecord) *primary.Assignment {
	a := &primary.Assignment{
		ID:            r.ID,
		WorkstationID: r.WorkstationID,
		ApplicationID: r.ApplicationID,
		StartedAt:     r.StartedAt,
		Active:        r.Active,
	}
	if !r.EndedAt.IsZero() {
		ended := r.EndedAt
		a.EndedAt = &ended
	}
	return a
}

func recordsToAssignments(records []*secondary.AssignmentRecord) []*primary.Assignment {
	out := make([]*primary.Assignment, len(records))
	for i, r := range records {
		out[i] = recordToAssignment(r)
	}
	return out
}
