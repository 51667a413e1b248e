package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/ports/secondary"
)

// ProductionLineRepository implements secondary.ProductionLineRepository with SQLite.
type ProductionLineRepository struct {
	db *sql.DB
}

// NewProductionLineRepository creates a new SQLite production line repository.
func NewProductionLineRepository(db *sql.DB) *ProductionLineRepository {
	return &ProductionLineRepository{db: db}
}

// Create persists a new line together with its workstation and product links.
func (r *ProductionLineRepository) Create(ctx context.Context, line *secondary.ProductionLineRecord) error {
	q := conn(ctx, r.db)
	_, err := q.ExecContext(ctx,
		"INSERT INTO production_lines (id, name, owner_id) VALUES (?, ?, ?)",
		line.ID, line.Name, nullString(line.OwnerID),
	)
	if err != nil {
		return fmt.Errorf("failed to create production line: %w", err)
	}

	for _, workstationID := range line.WorkstationIDs {
		if err := r.AddWorkstation(ctx, line.ID, workstationID); err != nil {
			return err
		}
	}
	for _, productID := range line.ProductIDs {
		if err := r.AddProduct(ctx, line.ID, productID); err != nil {
			return err
		}
	}
	return nil
}

// GetByID retrieves a line and its memberships.
func (r *ProductionLineRepository) GetByID(ctx context.Context, id string) (*secondary.ProductionLineRecord, error) {
	var (
		ownerID   sql.NullString
		createdAt time.Time
	)

	record := &secondary.ProductionLineRecord{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, name, owner_id, created_at FROM production_lines WHERE id = ?", id,
	).Scan(&record.ID, &record.Name, &ownerID, &createdAt)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("production line %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get production line: %w", err)
	}

	record.OwnerID = ownerID.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	if err := r.loadMembers(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// List retrieves all lines with their memberships.
func (r *ProductionLineRepository) List(ctx context.Context) ([]*secondary.ProductionLineRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT id, name, owner_id, created_at FROM production_lines ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list production lines: %w", err)
	}

	var lines []*secondary.ProductionLineRecord
	for rows.Next() {
		var (
			ownerID   sql.NullString
			createdAt time.Time
		)
		record := &secondary.ProductionLineRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &ownerID, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan production line: %w", err)
		}
		record.OwnerID = ownerID.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		lines = append(lines, record)
	}
	// Close before loading members; a single-connection pool would otherwise block
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, line := range lines {
		if err := r.loadMembers(ctx, line); err != nil {
			return nil, err
		}
	}
	return lines, nil
}

// GetNextID returns the next available line ID.
func (r *ProductionLineRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, conn(ctx, r.db), "production_lines", "LINE")
}

// AddWorkstation links a workstation to a line.
func (r *ProductionLineRepository) AddWorkstation(ctx context.Context, lineID, workstationID string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT OR IGNORE INTO line_workstations (line_id, workstation_id) VALUES (?, ?)",
		lineID, workstationID,
	)
	if err != nil {
		return fmt.Errorf("failed to add workstation %s to line %s: %w", workstationID, lineID, err)
	}
	return nil
}

// AddProduct lists a product as produced by a line.
func (r *ProductionLineRepository) AddProduct(ctx context.Context, lineID, productID string) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT OR IGNORE INTO line_products (line_id, product_id) VALUES (?, ?)",
		lineID, productID,
	)
	if err != nil {
		return fmt.Errorf("failed to add product %s to line %s: %w", productID, lineID, err)
	}
	return nil
}

func (r *ProductionLineRepository) loadMembers(ctx context.Context, line *secondary.ProductionLineRecord) error {
	var err error
	line.WorkstationIDs, err = r.column(ctx,
		"SELECT workstation_id FROM line_workstations WHERE line_id = ? ORDER BY workstation_id", line.ID)
	if err != nil {
		return fmt.Errorf("failed to load line workstations: %w", err)
	}
	line.ProductIDs, err = r.column(ctx,
		"SELECT product_id FROM line_products WHERE line_id = ? ORDER BY product_id", line.ID)
	if err != nil {
		return fmt.Errorf("failed to load line products: %w", err)
	}
	return nil
}

func (r *ProductionLineRepository) column(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}
