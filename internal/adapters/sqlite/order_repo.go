package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/core/schedule"
	"github.com/example/floor/internal/ports/secondary"
)

const orderColumns = "id, code, status, quantity, start_date, end_date, product_id, line_id, created_by, created_at, updated_at"

// OrderRepository implements secondary.OrderRepository with SQLite.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new SQLite order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *secondary.OrderRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		`INSERT INTO orders (id, code, status, quantity, start_date, end_date, product_id, line_id, created_by)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		order.ID, order.Code, order.Status, order.Quantity,
		order.StartDate.String(), order.EndDate.String(),
		nullString(order.ProductID), nullString(order.LineID), nullString(order.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID retrieves an order by its ID.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*secondary.OrderRecord, error) {
	row := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = ?", id)

	record, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("order %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return record, nil
}

// List retrieves orders matching the given filters, earliest start first.
func (r *OrderRepository) List(ctx context.Context, filters secondary.OrderFilters) ([]*secondary.OrderRecord, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE 1=1"
	args := []any{}

	if filters.LineID != "" {
		query += " AND line_id = ?"
		args = append(args, filters.LineID)
	}

	if filters.Status != "" {
		query += " AND status = ?"
		args = append(args, filters.Status)
	}

	query += " ORDER BY start_date ASC, id ASC"

	return r.query(ctx, query, args...)
}

// Update overwrites the mutable fields of an order. created_by is never written.
func (r *OrderRepository) Update(ctx context.Context, order *secondary.OrderRecord) error {
	result, err := conn(ctx, r.db).ExecContext(ctx,
		`UPDATE orders SET code = ?, status = ?, quantity = ?, start_date = ?, end_date = ?,
		 product_id = ?, line_id = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		order.Code, order.Status, order.Quantity,
		order.StartDate.String(), order.EndDate.String(),
		nullString(order.ProductID), nullString(order.LineID), order.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperr.NotFound("order %s not found", order.ID)
	}
	return nil
}

// Delete removes an order from persistence.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	result, err := conn(ctx, r.db).ExecContext(ctx, "DELETE FROM orders WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return apperr.NotFound("order %s not found", id)
	}
	return nil
}

// GetNextID returns the next available order ID.
func (r *OrderRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, conn(ctx, r.db), "orders", "OF")
}

// FindConflicting returns orders on the line whose dates overlap the window
// (both ends inclusive), ordered by start date.
func (r *OrderRepository) FindConflicting(ctx context.Context, q secondary.ConflictQuery) ([]*secondary.OrderRecord, error) {
	query := "SELECT " + orderColumns + " FROM orders WHERE line_id = ? AND start_date <= ? AND end_date >= ?"
	args := []any{q.LineID, q.Window.End.String(), q.Window.Start.String()}

	if len(q.ExcludeStatuses) > 0 {
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(q.ExcludeStatuses)), ", ")
		query += " AND status NOT IN (" + placeholders + ")"
		for _, s := range q.ExcludeStatuses {
			args = append(args, s)
		}
	}

	if q.ExcludeOrderID != "" {
		query += " AND id != ?"
		args = append(args, q.ExcludeOrderID)
	}

	query += " ORDER BY start_date ASC, id ASC"

	return r.query(ctx, query, args...)
}

func (r *OrderRepository) query(ctx context.Context, query string, args ...any) ([]*secondary.OrderRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*secondary.OrderRecord
	for rows.Next() {
		record, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, record)
	}
	return orders, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(s rowScanner) (*secondary.OrderRecord, error) {
	var (
		startDate, endDate           string
		productID, lineID, createdBy sql.NullString
		createdAt, updatedAt         time.Time
	)

	record := &secondary.OrderRecord{}
	err := s.Scan(&record.ID, &record.Code, &record.Status, &record.Quantity,
		&startDate, &endDate, &productID, &lineID, &createdBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if record.StartDate, err = schedule.ParseDay(startDate); err != nil {
		return nil, fmt.Errorf("order %s: %w", record.ID, err)
	}
	if record.EndDate, err = schedule.ParseDay(endDate); err != nil {
		return nil, fmt.Errorf("order %s: %w", record.ID, err)
	}
	record.ProductID = productID.String
	record.LineID = lineID.String
	record.CreatedBy = createdBy.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	record.UpdatedAt = updatedAt.Format(time.RFC3339)

	return record, nil
}

// nullString maps the empty string to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nextID returns prefix-NNN one past the highest numeric suffix in table.
func nextID(ctx context.Context, q querier, table, prefix string) (string, error) {
	var maxID int
	err := q.QueryRowContext(ctx,
		fmt.Sprintf("SELECT COALESCE(MAX(CAST(SUBSTR(id, %d) AS INTEGER)), 0) FROM %s", len(prefix)+2, table),
	).Scan(&maxID)
	if err != nil {
		return "", fmt.Errorf("failed to get next %s ID: %w", prefix, err)
	}
	return fmt.Sprintf("%s-%03d", prefix, maxID+1), nil
}
