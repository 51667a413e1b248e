package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/example/floor/internal/apperr"
	coreassignment "github.com/example/floor/internal/core/assignment"
	"github.com/example/floor/internal/ctxutil"
	"github.com/example/floor/internal/ports/primary"
	"github.com/example/floor/internal/ports/secondary"
)

// CatalogServiceImpl implements the CatalogService interface.
type CatalogServiceImpl struct {
	lineRepo        secondary.ProductionLineRepository
	workstationRepo secondary.WorkstationRepository
	applicationRepo secondary.ApplicationRepository
	productRepo     secondary.ProductRepository
	tx              secondary.Transactor
	logger          *zap.Logger
}

// NewCatalogService creates a new CatalogService with injected dependencies.
func NewCatalogService(
	lineRepo secondary.ProductionLineRepository,
	workstationRepo secondary.WorkstationRepository,
	applicationRepo secondary.ApplicationRepository,
	productRepo secondary.ProductRepository,
	tx secondary.Transactor,
	opts ...Option,
) *CatalogServiceImpl {
	o := buildOptions(opts)
	return &CatalogServiceImpl{
		lineRepo:        lineRepo,
		workstationRepo: workstationRepo,
		applicationRepo: applicationRepo,
		productRepo:     productRepo,
		tx:              tx,
		logger:          o.logger.Named("catalog"),
	}
}

// CreateLine creates a production line linked to existing workstations and products.
func (s *CatalogServiceImpl) CreateLine(ctx context.Context, req primary.CreateLineRequest) (*primary.ProductionLine, error) {
	if req.Name == "" {
		return nil, apperr.Invalid("line name is required")
	}

	var created *secondary.ProductionLineRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, id := range req.WorkstationIDs {
			if _, err := s.workstationRepo.GetByID(ctx, id); err != nil {
				return err
			}
		}
		for _, id := range req.ProductIDs {
			if _, err := s.productRepo.GetByID(ctx, id); err != nil {
				return err
			}
		}

		nextID, err := s.lineRepo.GetNextID(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate line ID: %w", err)
		}
		if err := s.lineRepo.Create(ctx, &secondary.ProductionLineRecord{
			ID:             nextID,
			Name:           req.Name,
			OwnerID:        ctxutil.ActorFromContext(ctx),
			WorkstationIDs: req.WorkstationIDs,
			ProductIDs:     req.ProductIDs,
		}); err != nil {
			return err
		}

		created, err = s.lineRepo.GetByID(ctx, nextID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("line created", zap.String("line_id", created.ID), zap.String("name", created.Name))
	return recordToLine(created), nil
}

// GetLine retrieves a production line by ID.
func (s *CatalogServiceImpl) GetLine(ctx context.Context, lineID string) (*primary.ProductionLine, error) {
	record, err := s.lineRepo.GetByID(ctx, lineID)
	if err != nil {
		return nil, err
	}
	return recordToLine(record), nil
}

// ListLines lists every production line.
func (s *CatalogServiceImpl) ListLines(ctx context.Context) ([]*primary.ProductionLine, error) {
	records, err := s.lineRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list lines: %w", err)
	}
	lines := make([]*primary.ProductionLine, len(records))
	for i, r := range records {
		lines[i] = recordToLine(r)
	}
	return lines, nil
}

// AddWorkstationToLine links an existing workstation to an existing line.
func (s *CatalogServiceImpl) AddWorkstationToLine(ctx context.Context, lineID, workstationID string) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.lineRepo.GetByID(ctx, lineID); err != nil {
			return err
		}
		if _, err := s.workstationRepo.GetByID(ctx, workstationID); err != nil {
			return err
		}
		return s.lineRepo.AddWorkstation(ctx, lineID, workstationID)
	})
}

// CreateWorkstation creates a workstation, optionally joining a line.
// New workstations start NOT_CONFIGURED.
func (s *CatalogServiceImpl) CreateWorkstation(ctx context.Context, req primary.CreateWorkstationRequest) (*primary.Workstation, error) {
	if req.Name == "" {
		return nil, apperr.Invalid("workstation name is required")
	}

	var created *secondary.WorkstationRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if req.LineID != "" {
			if _, err := s.lineRepo.GetByID(ctx, req.LineID); err != nil {
				return err
			}
		}

		nextID, err := s.workstationRepo.GetNextID(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate workstation ID: %w", err)
		}
		if err := s.workstationRepo.Create(ctx, &secondary.WorkstationRecord{
			ID:      nextID,
			Name:    req.Name,
			State:   string(coreassignment.StateNotConfigured),
			OwnerID: ctxutil.ActorFromContext(ctx),
		}); err != nil {
			return err
		}
		if req.LineID != "" {
			if err := s.lineRepo.AddWorkstation(ctx, req.LineID, nextID); err != nil {
				return err
			}
		}

		created, err = s.workstationRepo.GetByID(ctx, nextID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("workstation created", zap.String("workstation_id", created.ID))
	return recordToWorkstation(created), nil
}

// GetWorkstation retrieves a workstation by ID.
func (s *CatalogServiceImpl) GetWorkstation(ctx context.Context, workstationID string) (*primary.Workstation, error) {
	record, err := s.workstationRepo.GetByID(ctx, workstationID)
	if err != nil {
		return nil, err
	}
	return recordToWorkstation(record), nil
}

// ListWorkstations lists workstations with optional filters.
func (s *CatalogServiceImpl) ListWorkstations(ctx context.Context, filters primary.WorkstationFilters) ([]*primary.Workstation, error) {
	records, err := s.workstationRepo.List(ctx, secondary.WorkstationFilters{
		State:  filters.State,
		LineID: filters.LineID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list workstations: %w", err)
	}
	out := make([]*primary.Workstation, len(records))
	for i, r := range records {
		out[i] = recordToWorkstation(r)
	}
	return out, nil
}

// CreateApplication creates an application.
func (s *CatalogServiceImpl) CreateApplication(ctx context.Context, req primary.CreateApplicationRequest) (*primary.Application, error) {
	if req.Name == "" {
		return nil, apperr.Invalid("application name is required")
	}

	var created *secondary.ApplicationRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		nextID, err := s.applicationRepo.GetNextID(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate application ID: %w", err)
		}
		if err := s.applicationRepo.Create(ctx, &secondary.ApplicationRecord{
			ID:            nextID,
			Name:          req.Name,
			Description:   req.Description,
			OperationName: req.OperationName,
			OwnerID:       ctxutil.ActorFromContext(ctx),
		}); err != nil {
			return err
		}
		created, err = s.applicationRepo.GetByID(ctx, nextID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("application created", zap.String("application_id", created.ID))
	return recordToApplication(created), nil
}

// GetApplication retrieves an application by ID.
func (s *CatalogServiceImpl) GetApplication(ctx context.Context, applicationID string) (*primary.Application, error) {
	record, err := s.applicationRepo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return recordToApplication(record), nil
}

// ListApplications lists every application.
func (s *CatalogServiceImpl) ListApplications(ctx context.Context) ([]*primary.Application, error) {
	records, err := s.applicationRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	out := make([]*primary.Application, len(records))
	for i, r := range records {
		out[i] = recordToApplication(r)
	}
	return out, nil
}

// CreateProduct creates a product.
func (s *CatalogServiceImpl) CreateProduct(ctx context.Context, req primary.CreateProductRequest) (*primary.Product, error) {
	if req.Name == "" {
		return nil, apperr.Invalid("product name is required")
	}

	var created *secondary.ProductRecord
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		nextID, err := s.productRepo.GetNextID(ctx)
		if err != nil {
			return fmt.Errorf("failed to generate product ID: %w", err)
		}
		if err := s.productRepo.Create(ctx, &secondary.ProductRecord{
			ID:        nextID,
			Name:      req.Name,
			Reference: req.Reference,
		}); err != nil {
			return err
		}
		created, err = s.productRepo.GetByID(ctx, nextID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("product created", zap.String("product_id", created.ID))
	return recordToProduct(created), nil
}

// GetProduct retrieves a product by ID.
func (s *CatalogServiceImpl) GetProduct(ctx context.Context, productID string) (*primary.Product, error) {
	record, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return recordToProduct(record), nil
}

// ListProducts lists every product.
func (s *CatalogServiceImpl) ListProducts(ctx context.Context) ([]*primary.Product, error) {
	records, err := s.productRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	out := make([]*primary.Product, len(records))
	for i, r := range records {
		out[i] = recordToProduct(r)
	}
	return out, nil
}

func recordToLine(r *secondary.ProductionLineRecord) *primary.ProductionLine {
	return &primary.ProductionLine{
		ID:             r.ID,
		Name:           r.Name,
		OwnerID:        r.OwnerID,
		WorkstationIDs: r.WorkstationIDs,
		ProductIDs:     r.ProductIDs,
		CreatedAt:      r.CreatedAt,
	}
}

func recordToWorkstation(r *secondary.WorkstationRecord) *primary.Workstation {
	return &primary.Workstation{
		ID:        r.ID,
		Name:      r.Name,
		State:     r.State,
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
	}
}

func recordToApplication(r *secondary.ApplicationRecord) *primary.Application {
	return &primary.Application{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		OperationName: r.OperationName,
		OwnerID:       r.OwnerID,
		CreatedAt:     r.CreatedAt,
	}
}

func recordToProduct(r *secondary.ProductRecord) *primary.Product {
	return &primary.Product{
		ID:        r.ID,
		Name:      r.Name,
		Reference: r.Reference,
		CreatedAt: r.CreatedAt,
	}
}
