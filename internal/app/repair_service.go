package app

import (
	"context"

	"go.uber.org/zap"

	"github.com/example/floor/internal/ports/primary"
	"github.com/example/floor/internal/ports/secondary"
)

// RepairServiceImpl implements the RepairService interface. It shares the
// duplicate-closing rules of AssignmentServiceImpl, applied to every owner at once.
type RepairServiceImpl struct {
	assignments *AssignmentServiceImpl
	tx          secondary.Transactor
	logger      *zap.Logger
}

// NewRepairService creates a new RepairService with injected dependencies.
func NewRepairService(
	assignmentRepo secondary.AssignmentRepository,
	applicationRepo secondary.ApplicationRepository,
	workstationRepo secondary.WorkstationRepository,
	tx secondary.Transactor,
	opts ...Option,
) *RepairServiceImpl {
	o := buildOptions(opts)
	return &RepairServiceImpl{
		assignments: NewAssignmentService(assignmentRepo, applicationRepo, workstationRepo, tx, opts...),
		tx:          tx,
		logger:      o.logger.Named("repair"),
	}
}

// RepairDuplicateAssignments closes every active assignment but the latest for
// each application and each workstation, then recomputes workstation state.
func (s *RepairServiceImpl) RepairDuplicateAssignments(ctx context.Context) (*primary.RepairReport, error) {
	report := &primary.RepairReport{Deactivated: []string{}}
	repo := s.assignments.assignmentRepo

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		owners, err := repo.FindDuplicateActive(ctx)
		if err != nil {
			return err
		}
		report.Applications = len(owners.ApplicationIDs)
		report.Workstations = len(owners.WorkstationIDs)

		now := s.assignments.now().UTC()
		for _, applicationID := range owners.ApplicationIDs {
			rows, err := repo.ListActiveByApplication(ctx, applicationID)
			if err != nil {
				return err
			}
			closed, err := s.assignments.closeStale(ctx, rows, now)
			if err != nil {
				return err
			}
			report.Deactivated = append(report.Deactivated, closed...)
		}

		for _, workstationID := range owners.WorkstationIDs {
			// Re-read: the application pass may already have resolved it
			rows, err := repo.ListActiveByWorkstation(ctx, workstationID)
			if err != nil {
				return err
			}
			closed, err := s.assignments.closeStale(ctx, rows, now)
			if err != nil {
				return err
			}
			report.Deactivated = append(report.Deactivated, closed...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(report.Deactivated) > 0 {
		s.logger.Warn("repaired duplicate assignments",
			zap.Int("applications", report.Applications),
			zap.Int("workstations", report.Workstations),
			zap.Strings("deactivated", report.Deactivated))
	} else {
		s.logger.Debug("no duplicate assignments found")
	}
	return report, nil
}
