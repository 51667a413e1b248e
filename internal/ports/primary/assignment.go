package primary

import (
	"context"
	"time"
)

// AssignmentService defines the primary port for binding applications to workstations.
// At most one active assignment exists per application and per workstation.
type AssignmentService interface {
	// AssignApplication binds an application to a workstation and marks the workstation configured.
	AssignApplication(ctx context.Context, applicationID, workstationID string) (*Assignment, error)

	// UnassignApplication ends the application's active assignment.
	UnassignApplication(ctx context.Context, applicationID string) (*Assignment, error)

	// IsApplicationAffected reports whether the application has an active assignment.
	IsApplicationAffected(ctx context.Context, applicationID string) (bool, error)

	// IsPosteConfigured reports whether the workstation has an active assignment.
	IsPosteConfigured(ctx context.Context, workstationID string) (bool, error)

	// GetActiveAssignmentForApplication returns nil when the application is free.
	GetActiveAssignmentForApplication(ctx context.Context, applicationID string) (*Assignment, error)

	// GetActiveAssignmentForPoste returns nil when the workstation is free.
	GetActiveAssignmentForPoste(ctx context.Context, workstationID string) (*Assignment, error)

	// GetHistoryForApplication lists every assignment of the application, newest first.
	GetHistoryForApplication(ctx context.Context, applicationID string) ([]*Assignment, error)

	// GetHistoryForPoste lists every assignment of the workstation, newest first.
	GetHistoryForPoste(ctx context.Context, workstationID string) ([]*Assignment, error)
}

// Assignment represents an application/workstation binding at the port boundary.
type Assignment struct {
	ID            string     `json:"id"`
	WorkstationID string     `json:"posteId"`
	ApplicationID string     `json:"applicationId"`
	StartedAt     time.Time  `json:"dateDebut"`
	EndedAt       *time.Time `json:"dateFin"`
	Active        bool       `json:"active"`
}
