package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/ports/secondary"
)

// ProductRepository implements secondary.ProductRepository with SQLite.
type ProductRepository struct {
	db *sql.DB
}

// NewProductRepository creates a new SQLite product repository.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, product *secondary.ProductRecord) error {
	_, err := conn(ctx, r.db).ExecContext(ctx,
		"INSERT INTO products (id, name, reference) VALUES (?, ?, ?)",
		product.ID, product.Name, nullString(product.Reference),
	)
	if err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a product by its ID.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*secondary.ProductRecord, error) {
	var (
		reference sql.NullString
		createdAt time.Time
	)

	record := &secondary.ProductRecord{}
	err := conn(ctx, r.db).QueryRowContext(ctx,
		"SELECT id, name, reference, created_at FROM products WHERE id = ?", id,
	).Scan(&record.ID, &record.Name, &reference, &createdAt)

	if err == sql.ErrNoRows {
		return nil, apperr.NotFound("product %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	record.Reference = reference.String
	record.CreatedAt = createdAt.Format(time.RFC3339)
	return record, nil
}

// List retrieves all products.
func (r *ProductRepository) List(ctx context.Context) ([]*secondary.ProductRecord, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		"SELECT id, name, reference, created_at FROM products ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []*secondary.ProductRecord
	for rows.Next() {
		var (
			reference sql.NullString
			createdAt time.Time
		)
		record := &secondary.ProductRecord{}
		if err := rows.Scan(&record.ID, &record.Name, &reference, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		record.Reference = reference.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		products = append(products, record)
	}
	return products, rows.Err()
}

// GetNextID returns the next available product ID.
func (r *ProductRepository) GetNextID(ctx context.Context) (string, error) {
	return nextID(ctx, conn(ctx, r.db), "products", "PROD")
}
