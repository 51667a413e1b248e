// Package assignment contains the pure rules binding applications to workstations.
// Guards are pure functions that evaluate preconditions without side effects.
package assignment

import (
	"fmt"
	"sort"
	"time"

	"github.com/example/floor/internal/apperr"
)

// WorkstationState is the cached configuration state of a workstation.
type WorkstationState string

const (
	StateConfigured    WorkstationState = "CONFIGURED"
	StateNotConfigured WorkstationState = "NOT_CONFIGURED"
)

// StateFor derives a workstation's state from whether it has an active assignment.
func StateFor(hasActive bool) WorkstationState {
	if hasActive {
		return StateConfigured
	}
	return StateNotConfigured
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

// AssignContext provides context for the assignment guard.
// Empty strings mean "no active assignment".
type AssignContext struct {
	ApplicationID string
	WorkstationID string
	// Workstation the application is currently bound to.
	ApplicationBoundTo string
	// Application currently bound to the workstation.
	WorkstationRunning string
}

// CanAssign evaluates whether the application can be bound to the workstation.
// Rules:
// - Application must not be active on any workstation
// - Workstation must not be configured with any application
func CanAssign(ctx AssignContext) GuardResult {
	if ctx.ApplicationBoundTo != "" {
		return GuardResult{
			Allowed: false,
			Kind:    apperr.KindAssignmentConflict,
			Reason:  fmt.Sprintf("application %s is already assigned to workstation %s",
				ctx.ApplicationID, ctx.ApplicationBoundTo),
		}
	}
	if ctx.WorkstationRunning != "" {
		return GuardResult{
			Allowed: false,
			Kind:    apperr.KindAssignmentConflict,
			Reason:  fmt.Sprintf("workstation %s is already configured with application %s",
				ctx.WorkstationID, ctx.WorkstationRunning),
		}
	}
	return GuardResult{Allowed: true}
}

// ActiveRow is the minimal view of an active assignment needed to pick a survivor.
type ActiveRow struct {
	ID        string
	StartedAt time.Time
	// Seq breaks ties between rows started at the same instant; higher is newer.
	Seq int64
}

// SplitDuplicates sorts active rows newest first and returns the row to keep
// plus the stale rows to deactivate. keep is nil when rows is empty.
func SplitDuplicates(rows []ActiveRow) (keep *ActiveRow, stale []ActiveRow) {
	if len(rows) == 0 {
		return nil, nil
	}
	sorted := make([]ActiveRow, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].StartedAt.Equal(sorted[j].StartedAt) {
			return sorted[i].StartedAt.After(sorted[j].StartedAt)
		}
		return sorted[i].Seq > sorted[j].Seq
	})
	return &sorted[0], sorted[1:]
}
