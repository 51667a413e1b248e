package primary

import "context"

// CatalogService defines the primary port for the reference data the
// scheduler and assignment manager look up: lines, workstations, applications, products.
type CatalogService interface {
	CreateLine(ctx context.Context, req CreateLineRequest) (*ProductionLine, error)
	GetLine(ctx context.Context, lineID string) (*ProductionLine, error)
	ListLines(ctx context.Context) ([]*ProductionLine, error)

	// AddWorkstationToLine links an existing workstation to an existing line.
	AddWorkstationToLine(ctx context.Context, lineID, workstationID string) error

	CreateWorkstation(ctx context.Context, req CreateWorkstationRequest) (*Workstation, error)
	GetWorkstation(ctx context.Context, workstationID string) (*Workstation, error)
	ListWorkstations(ctx context.Context, filters WorkstationFilters) ([]*Workstation, error)

	CreateApplication(ctx context.Context, req CreateApplicationRequest) (*Application, error)
	GetApplication(ctx context.Context, applicationID string) (*Application, error)
	ListApplications(ctx context.Context) ([]*Application, error)

	CreateProduct(ctx context.Context, req CreateProductRequest) (*Product, error)
	GetProduct(ctx context.Context, productID string) (*Product, error)
	ListProducts(ctx context.Context) ([]*Product, error)
}

// CreateLineRequest contains parameters for creating a production line.
type CreateLineRequest struct {
	Name           string   `json:"name"`
	WorkstationIDs []string `json:"posteIds"`
	ProductIDs     []string `json:"productIds"`
}

// ProductionLine represents a production line at the port boundary.
type ProductionLine struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	OwnerID        string   `json:"ownerId,omitempty"`
	WorkstationIDs []string `json:"posteIds"`
	ProductIDs     []string `json:"productIds"`
	CreatedAt      string   `json:"createdAt,omitempty"`
}

// CreateWorkstationRequest contains parameters for creating a workstation.
type CreateWorkstationRequest struct {
	Name   string `json:"name"`
	LineID string `json:"lineId"` // Optional line to join
}

// Workstation represents a workstation (poste) at the port boundary.
type Workstation struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	State     string `json:"state"`
	OwnerID   string `json:"ownerId,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// WorkstationFilters contains filter options for listing workstations.
type WorkstationFilters struct {
	State  string
	LineID string
}

// CreateApplicationRequest contains parameters for creating an application.
type CreateApplicationRequest struct {
	Name          string `json:"name"`
	Description   string `json:"description"`
	OperationName string `json:"operationName"`
}

// Application represents a configuration program at the port boundary.
type Application struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	OperationName string `json:"operationName,omitempty"`
	OwnerID       string `json:"ownerId,omitempty"`
	CreatedAt     string `json:"createdAt,omitempty"`
}

// CreateProductRequest contains parameters for creating a product.
type CreateProductRequest struct {
	Name      string `json:"name"`
	Reference string `json:"reference"`
}

// Product represents a product at the port boundary.
type Product struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Reference string `json:"reference,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}
