package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/ports/secondary"
)

// ApplicationRepository implements secondary.ApplicationRepository with SQLite.
type ApplicationRepository struct {
	db *sql.DB
}

// NewApplicationRepository creates a new SQLite application repository.
func NewApplicationRepository(db *sql.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create persists a new application.
func (r *ApplicationRepository) Create(ctx context.Context, application *secondary.ApplicationRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO applications (id, name, description, operation_name, owner_id) VALUES (?, ?, ?, ?, ?)",
		application.ID, application.Name, nullString(application.Description),
		nullString(application.OperationName), nullString(application.OwnerID),
	)
	if err != nil {
		return fmt.Errorf("failed to create application: %w", err)
	}
	return nil
}

// GetByID retrieves an application by its ID.
func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*secondary.ApplicationRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, name, description, operation_name, owner_id, created_at FROM applications WHERE id = ?", id)

	record, err := scanApplication(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("application %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return record, nil
}

// List retrieves all applications.
func (r *ApplicationRepository) List(ctx context.Context) ([]*secondary.ApplicationRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT id, name, description, operation_name, owner_id, created_at FROM applications ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	var applications []*secondary.ApplicationRecord
	for rows.Next() {
		record, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, record)
	}
	return applications, rows.Err()
}

// GetNextID returns the next available application ID.
func (r *ApplicationRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, conn(ctx, r.db), "applications", "APP")
}

func scanApplication(s rowScanner) (*secondary.ApplicationRecord, error) {
	var (
		desc, operation, ownerID sql.NullString
		createdAt                time.Time
	)

	record := &secondary.ApplicationRecord{}
	if err := s.Scan(&record.ID, &record.Name, &desc, &operation, &ownerID, &createdAt); err != nil {
		return nil, err
	}
	record.Description = desc.String
	record.OperationName = operation.String
	record.OwnerID = ownerID.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}
