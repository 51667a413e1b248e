package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/db"
	"github.com/example/floor/internal/ports/secondary"
)

const assignmentColumns = "id, workstation_id, application_id, started_at, ended_at, active, rowid"

// AssignmentRepository implements secondary.AssignmentRepository with SQLite.
type AssignmentRepository struct {
	db *sql.DB
}

// NewAssignmentRepository creates a new SQLite assignment repository.
func NewAssignmentRepository(db *sql.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create persists a new assignment. A second active row for the same
// application or workstation is rejected by the partial unique indexes and
// reported as an assignment conflict.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *secondary.AssignmentRecord) error {
	var endedAt sql.NullString
	if !assignment.EndedAt.IsZero() {
		endedAt = sql.NullString{String: formatTimestamp(assignment.EndedAt), Valid: true}
	}

	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO assignments (id, workstation_id, application_id, started_at, ended_at, active) VALUES (?, ?, ?, ?, ?, ?)",
		assignment.ID, assignment.WorkstationID, assignment.ApplicationID,
		formatTimestamp(assignment.StartedAt), endedAt, assignment.Active,
	)
	if isUniqueViolation(err) {
		return apperr.Wrap(apperr.KindAssignmentConflict, err,
			"application %s or workstation %s already has an active assignment",
			assignment.ApplicationID, assignment.WorkstationID)
	}
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

// GetNextID returns the next available assignment ID.
func (r *AssignmentRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, conn(ctx, r.db), "assignments", "AFF")
}

// Deactivate marks an assignment inactive and stamps its end time.
func (r *AssignmentRepository) Deactivate(ctx context.Context, id string, endedAt time.Time) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		"UPDATE assignments SET active = 0, ended_at = ? WHERE id = ?",
		formatTimestamp(endedAt), id,
	)
	if err != nil {
		return fmt.Errorf("failed to deactivate assignment: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperr.NotFound("assignment %s not found", id)
	}
	return nil
}

// ListActiveByApplication returns active rows for an application, newest first.
func (r *AssignmentRepository) ListActiveByApplication(ctx context.Context, applicationID string) ([]*secondary.AssignmentRecord, error) {
	return r.list(ctx, "application_id = ? AND active = 1", applicationID)
}

// ListActiveByWorkstation returns active rows for a workstation, newest first.
func (r *AssignmentRepository) ListActiveByWorkstation(ctx context.Context, workstationID string) ([]*secondary.AssignmentRecord, error) {
	return r.list(ctx, "workstation_id = ? AND active = 1", workstationID)
}

// ListByApplication returns every assignment of an application, newest first.
func (r *AssignmentRepository) ListByApplication(ctx context.Context, applicationID string) ([]*secondary.AssignmentRecord, error) {
	return r.list(ctx, "application_id = ?", applicationID)
}

// ListByWorkstation returns every assignment of a workstation, newest first.
func (r *AssignmentRepository) ListByWorkstation(ctx context.Context, workstationID string) ([]*secondary.AssignmentRecord, error) {
	return r.list(ctx, "workstation_id = ?", workstationID)
}

// FindDuplicateActive lists the owners holding more than one active row.
func (r *AssignmentRepository) FindDuplicateActive(ctx context.Context) (*secondary.DuplicateOwners, error) {
	owners := &secondary.DuplicateOwners{}

	var err error
	owners.ApplicationIDs, err = r.duplicateOwners(ctx, "application_id")
	if err != nil {
		return nil, err
	}
	owners.WorkstationIDs, err = r.duplicateOwners(ctx, "workstation_id")
	if err != nil {
		return nil, err
	}
	return owners, nil
}

func (r *AssignmentRepository) duplicateOwners(ctx context.Context, column string) ([]string, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, fmt.Sprintf(
		"SELECT %[1]s FROM assignments WHERE active = 1 GROUP BY %[1]s HAVING COUNT(*) > 1 ORDER BY %[1]s", column))
	if err != nil {
		return nil, fmt.Errorf("failed to find duplicate assignments: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan owner: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *AssignmentRepository) list(ctx context.Context, where string, args ...any) ([]*secondary.AssignmentRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT "+assignmentColumns+" FROM assignments WHERE "+where+" ORDER BY started_at DESC, rowid DESC",
		args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*secondary.AssignmentRecord
	for rows.Next() {
		var (
			startedAt string
			endedAt   sql.NullString
		)
		record := &secondary.AssignmentRecord{}
		if err := rows.Scan(&record.ID, &record.WorkstationID, &record.ApplicationID,
			&startedAt, &endedAt, &record.Active, &record.Seq); err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}

		if record.StartedAt, err = parseTimestamp(startedAt); err != nil {
			return nil, fmt.Errorf("assignment %s: %w", record.ID, err)
		}
		if endedAt.Valid {
			if record.EndedAt, err = parseTimestamp(endedAt.String); err != nil {
				return nil, fmt.Errorf("assignment %s: %w", record.ID, err)
			}
		}
		assignments = append(assignments, record)
	}
	return assignments, rows.Err()
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(db.TimestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(db.TimestampLayout, s)
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}
