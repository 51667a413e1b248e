// Package maintenance runs periodic housekeeping jobs while the server is up.
package maintenance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/example/floor/internal/ports/primary"
)

// jobTimeout bounds a single repair run.
const jobTimeout = 5 * time.Minute

// Off is the schedule value that disables the repair job.
const Off = "off"

// Scheduler runs the duplicate-assignment repair on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	repair primary.RepairService
	logger *zap.Logger
}

// NewScheduler creates a stopped scheduler.
func NewScheduler(repair primary.RepairService, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:   cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		repair: repair,
		logger: logger.Named("maintenance"),
	}
}

// Schedule registers the repair job. spec is a standard five-field cron
// expression or a descriptor such as @daily; an empty spec or Off registers nothing.
func (s *Scheduler) Schedule(spec string) error {
	spec = strings.TrimSpace(spec)
	if spec == "" || strings.EqualFold(spec, Off) {
		s.logger.Info("assignment repair disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return fmt.Errorf("invalid repair schedule %q: %w", spec, err)
	}
	s.logger.Info("assignment repair scheduled", zap.String("schedule", spec))
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for a running job to finish or ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("stopped before the running repair finished")
	}
}

// RunOnce repairs immediately.
func (s *Scheduler) RunOnce(ctx context.Context) (*primary.RepairReport, error) {
	return s.repair.RepairDuplicateAssignments(ctx)
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	report, err := s.RunOnce(ctx)
	if err != nil {
		s.logger.Error("scheduled assignment repair failed", zap.Error(err))
		return
	}
	s.logger.Debug("scheduled assignment repair finished", zap.Int("deactivated", len(report.Deactivated)))
}
