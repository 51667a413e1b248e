package primary

import "context"

// RepairService defines the primary port for restoring the single-active
// assignment rule on data written before it was enforced.
type RepairService interface {
	RepairDuplicateAssignments(ctx context.Context) (*RepairReport, error)
}

// RepairReport summarizes a repair run.
type RepairReport struct {
	Applications int      `json:"applications"` // Applications that held duplicates
	Workstations int      `json:"workstations"` // Workstations that held duplicates
	Deactivated  []string `json:"deactivated"`  // Assignment IDs deactivated
}
