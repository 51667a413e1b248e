package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/ports/secondary"
)

// WorkstationRepository implements secondary.WorkstationRepository with SQLite.
type WorkstationRepository struct {
	db *sql.DB
}

// NewWorkstationRepository creates a new SQLite workstation repository.
func NewWorkstationRepository(db *sql.DB) *WorkstationRepository {
	return &WorkstationRepository{db: db}
}

// Create persists a new workstation.
func (r *WorkstationRepository) Create(ctx context.Context, workstation *secondary.WorkstationRecord) error {
	state := workstation.State
	if state == "" {
		state = "NOT_CONFIGURED"
	}

	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO workstations (id, name, state, owner_id) VALUES (?, ?, ?, ?)",
		workstation.ID, workstation.Name, state, nullString(workstation.OwnerID),
	)
	if err != nil {
		return fmt.Errorf("failed to create workstation: %w", err)
	}
	return nil
}

// GetByID retrieves a workstation by its ID.
func (r *WorkstationRepository) GetByID(ctx context.Context, id string) (*secondary.WorkstationRecord, error) {
	var (
		ownerID   sql.NullString
		createdAt time.Time
	)

	record := &secondary.WorkstationRecord{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, name, state, owner_id, created_at FROM workstations WHERE id = ?", id,
	).Scan(&record.ID, &record.Name, &record.State, &ownerID, &createdAt)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("workstation %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workstation: %w", err)
	}

	record.OwnerID = ownerID.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// List retrieves workstations matching the given filters.
func (r *WorkstationRepository) List(ctx context.Context, filters secondary.WorkstationFilters) ([]*secondary.WorkstationRecord, error) {
	query := "SELECT w.id, w.name, w.state, w.owner_id, w.created_at FROM workstations w WHERE 1=1"
	args := []any{}

	if filters.LineID != "" {
		query += " AND w.id IN (SELECT workstation_id FROM line_workstations WHERE line_id = ?)"
		args = append(args, filters.LineID)
	}

	if filters.State != "" {
		query += " AND w.state = ?"
		args = append(args, filters.State)
	}

	query += " ORDER BY w.id"

	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list workstations: %w", err)
	}
	defer rows.Close()

	var workstations []*secondary.WorkstationRecord
	for rows.Next() {
		var (
			ownerID   sql.NullString
			createdAt time.Time
		)
		record := &secondary.WorkstationRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &record.State, &ownerID, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan workstation: %w", err)
		}
		record.OwnerID = ownerID.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		workstations = append(workstations, record)
	}
	return workstations, rows.Err()
}

// GetNextID returns the next available workstation ID.
func (r *WorkstationRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, conn(ctx, r.db), "workstations", "POSTE")
}

// UpdateState sets the cached configuration state.
func (r *WorkstationRepository) UpdateState(ctx context.Context, id, state string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE workstations SET state = ? WHERE id = ?", state, id)
	if err != nil {
		return fmt.Errorf("failed to update workstation state: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperr.NotFound("workstation %s not found", id)
	}
	return nil
}
