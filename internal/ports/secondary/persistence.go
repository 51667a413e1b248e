// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"time"

	"github.com/example/floor/internal/core/schedule"
)

// Transactor runs a unit of work atomically. Repositories called with the
// context passed to fn take part in the same transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderRepository defines the secondary port for manufacturing order persistence.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *OrderRecord) error

	// GetByID retrieves an order by its ID.
	GetByID(ctx context.Context, id string) (*OrderRecord, error)

	// List retrieves orders matching the given filters.
	List(ctx context.Context, filters OrderFilters) ([]*OrderRecord, error)

	// Update overwrites the mutable fields of an order. CreatedBy is never written.
	Update(ctx context.Context, order *OrderRecord) error

	// Delete removes an order from persistence.
	Delete(ctx context.Context, id string) error

	// GetNextID returns the next available order ID.
	GetNextID(ctx context.Context) (string, error)

	// FindConflicting returns orders on a line overlapping a window (closed interval).
	FindConflicting(ctx context.Context, query ConflictQuery) ([]*OrderRecord, error)
}

// OrderRecord represents a manufacturing order as stored in persistence.
type OrderRecord struct {
	ID        string
	Code      string
	Status    string // PENDING, IN_PROGRESS, COMPLETED, CANCELLED
	Quantity  int
	StartDate schedule.Day
	EndDate   schedule.Day
	ProductID string // Empty string means null
	LineID    string // Empty string means null
	CreatedBy string // Written on insert only
	CreatedAt string
	UpdatedAt string
}

// Window returns the order's scheduled date range.
func (r *OrderRecord) Window() schedule.Window {
	return schedule.NewWindow(r.StartDate, r.EndDate)
}

// OrderFilters contains filter options for querying orders.
type OrderFilters struct {
	LineID string
	Status string
}

// ConflictQuery describes an availability lookup.
type ConflictQuery struct {
	LineID          string
	Window          schedule.Window
	ExcludeStatuses []string
	ExcludeOrderID  string // Empty string means no exclusion
}

// AssignmentRepository defines the secondary port for application/workstation assignments.
// Rows are never deleted; unassigning deactivates them.
type AssignmentRepository interface {
	// Create persists a new assignment.
	Create(ctx context.Context, assignment *AssignmentRecord) error

	// GetNextID returns the next available assignment ID.
	GetNextID(ctx context.Context) (string, error)

	// Deactivate marks an assignment inactive and stamps its end time.
	Deactivate(ctx context.Context, id string, endedAt time.Time) error

	// ListActiveByApplication returns active rows for an application, newest first.
	ListActiveByApplication(ctx context.Context, applicationID string) ([]*AssignmentRecord, error)

	// ListActiveByWorkstation returns active rows for a workstation, newest first.
	ListActiveByWorkstation(ctx context.Context, workstationID string) ([]*AssignmentRecord, error)

	// ListByApplication returns every assignment of an application, newest first.
	ListByApplication(ctx context.Context, applicationID string) ([]*AssignmentRecord, error)

	// ListByWorkstation returns every assignment of a workstation, newest first.
	ListByWorkstation(ctx context.Context, workstationID string) ([]*AssignmentRecord, error)

	// FindDuplicateActive lists the owners holding more than one active row.
	FindDuplicateActive(ctx context.Context) (*DuplicateOwners, error)
}

// AssignmentRecord represents an assignment as stored in persistence.
type AssignmentRecord struct {
	ID            string
	WorkstationID string
	ApplicationID string
	StartedAt     time.Time
	EndedAt       time.Time // Zero while active
	Active        bool
	Seq           int64 // Insertion order, used to break StartedAt ties
}

// DuplicateOwners lists applications and workstations violating the single-active rule.
type DuplicateOwners struct {
	ApplicationIDs []string
	WorkstationIDs []string
}

// WorkstationRepository defines the secondary port for workstation persistence.
type WorkstationRepository interface {
	Create(ctx context.Context, workstation *WorkstationRecord) error
	GetByID(ctx context.Context, id string) (*WorkstationRecord, error)
	List(ctx context.Context, filters WorkstationFilters) ([]*WorkstationRecord, error)
	GetNextID(ctx context.Context) (string, error)

	// UpdateState sets the cached CONFIGURED / NOT_CONFIGURED state.
	UpdateState(ctx context.Context, id, state string) error
}

// WorkstationRecord represents a workstation (poste) as stored in persistence.
type WorkstationRecord struct {
	ID        string
	Name      string
	State     string // CONFIGURED, NOT_CONFIGURED
	OwnerID   string
	CreatedAt string
}

// WorkstationFilters contains filter options for querying workstations.
type WorkstationFilters struct {
	State  string
	LineID string
}

// ApplicationRepository defines the secondary port for application persistence.
type ApplicationRepository interface {
	Create(ctx context.Context, application *ApplicationRecord) error
	GetByID(ctx context.Context, id string) (*ApplicationRecord, error)
	List(ctx context.Context) ([]*ApplicationRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// ApplicationRecord represents an application as stored in persistence.
type ApplicationRecord struct {
	ID            string
	Name          string
	Description   string
	OperationName string
	OwnerID       string
	CreatedAt     string
}

// ProductionLineRepository defines the secondary port for production line persistence.
type ProductionLineRepository interface {
	Create(ctx context.Context, line *ProductionLineRecord) error
	GetByID(ctx context.Context, id string) (*ProductionLineRecord, error)
	List(ctx context.Context) ([]*ProductionLineRecord, error)
	GetNextID(ctx context.Context) (string, error)

	// AddWorkstation links a workstation to a line (many-to-many). Idempotent.
	AddWorkstation(ctx context.Context, lineID, workstationID string) error

	// AddProduct lists a product as produced by a line. Idempotent.
	AddProduct(ctx context.Context, lineID, productID string) error
}

// ProductionLineRecord represents a production line as stored in persistence.
type ProductionLineRecord struct {
	ID             string
	Name           string
	OwnerID        string
	WorkstationIDs []string
	ProductIDs     []string
	CreatedAt      string
}

// ProductRepository defines the secondary port for product persistence.
type ProductRepository interface {
	Create(ctx context.Context, product *ProductRecord) error
	GetByID(ctx context.Context, id string) (*ProductRecord, error)
	List(ctx context.Context) ([]*ProductRecord, error)
	GetNextID(ctx context.Context) (string, error)
}

// ProductRecord represents a product as stored in persistence.
type ProductRecord struct {
	ID        string
	Name      string
	Reference string
	CreatedAt string
}
