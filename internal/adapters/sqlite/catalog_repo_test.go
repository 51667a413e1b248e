package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/floor/internal/adapters/sqlite"
	"github.com/example/floor/internal/apperr"
	"github.com/example/floor/internal/ports/secondary"
)

func TestProductionLineRepository_Memberships(t *testing.T) {
	db := setupTestDB(t)
	seedWorkstation(t, db, "POSTE-001")
	seedWorkstation(t, db, "POSTE-002")
	seedProduct(t, db, "PROD-001")
	repo := sqlite.NewProductionLineRepository(db)
	ctx := context.Background()

	nextID, _ := repo.GetNextID(ctx)
	if nextID != "LINE-001" {
		t.Errorf("GetNextID = %s, want LINE-001", nextID)
	}

	err := repo.Create(ctx, &secondary.ProductionLineRecord{
		ID: "LINE-001", Name: "Assembly", OwnerID: "alice",
		WorkstationIDs: []string{"POSTE-002", "POSTE-001"},
		ProductIDs:     []string{"PROD-001"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, &secondary.ProductionLineRecord{ID: "LINE-002", Name: "Second", WorkstationIDs: []string{"POSTE-001"}}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	// Idempotent
	if err := repo.AddWorkstation(ctx, "LINE-001", "POSTE-001"); err != nil {
		t.Fatalf("AddWorkstation failed: %v", err)
	}

	line, err := repo.GetByID(ctx, "LINE-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(line.WorkstationIDs) != 2 || line.WorkstationIDs[0] != "POSTE-001" {
		t.Errorf("WorkstationIDs = %v", line.WorkstationIDs)
	}
	if len(line.ProductIDs) != 1 || line.OwnerID != "alice" {
		t.Errorf("unexpected line %+v", line)
	}

	lines, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(lines) != 2 || len(lines[1].WorkstationIDs) != 1 {
		t.Errorf("List = %+v", lines)
	}

	if _, err := repo.GetByID(ctx, "LINE-404"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}

func TestWorkstationRepository(t *testing.T) {
	db := setupTestDB(t)
	seedLine(t, db, "LINE-001", "")
	repo := sqlite.NewWorkstationRepository(db)
	lines := sqlite.NewProductionLineRepository(db)
	ctx := context.Background()

	for _, id := range []string{"POSTE-001", "POSTE-002"} {
		if err := repo.Create(ctx, &secondary.WorkstationRecord{ID: id, Name: id}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	lines.AddWorkstation(ctx, "LINE-001", "POSTE-002")

	ws, err := repo.GetByID(ctx, "POSTE-001")
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if ws.State != "NOT_CONFIGURED" {
		t.Errorf("default state = %s", ws.State)
	}

	if err := repo.UpdateState(ctx, "POSTE-001", "CONFIGURED"); err != nil {
		t.Fatalf("UpdateState failed: %v", err)
	}
	configured, _ := repo.List(ctx, secondary.WorkstationFilters{State: "CONFIGURED"})
	if len(configured) != 1 || configured[0].ID != "POSTE-001" {
		t.Errorf("configured = %+v", configured)
	}

	onLine, _ := repo.List(ctx, secondary.WorkstationFilters{LineID: "LINE-001"})
	if len(onLine) != 1 || onLine[0].ID != "POSTE-002" {
		t.Errorf("on line = %+v", onLine)
	}

	if err := repo.UpdateState(ctx, "POSTE-404", "CONFIGURED"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	nextID, _ := repo.GetNextID(ctx)
	if nextID != "POSTE-003" {
		t.Errorf("GetNextID = %s, want POSTE-003", nextID)
	}
}

func TestApplicationAndProductRepositories(t *testing.T) {
	db := setupTestDB(t)
	apps := sqlite.NewApplicationRepository(db)
	products := sqlite.NewProductRepository(db)
	ctx := context.Background()

	if err := apps.Create(ctx, &secondary.ApplicationRecord{ID: "APP-001", Name: "Press", OperationName: "pressing"}); err != nil {
		t.Fatalf("Create application failed: %v", err)
	}
	app, err := apps.GetByID(ctx, "APP-001")
	if err != nil || app.OperationName != "pressing" || app.Description != "" {
		t.Errorf("GetByID = %+v, %v", app, err)
	}
	if _, err := apps.GetByID(ctx, "APP-404"); !apperr.Is(err, apperr.KindNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	list, _ := apps.List(ctx)
	if len(list) != 1 {
		t.Errorf("List = %d items", len(list))
	}

	if err := products.Create(ctx, &secondary.ProductRecord{ID: "PROD-001", Name: "Caliper", Reference: "BC-1"}); err != nil {
		t.Fatalf("Create product failed: %v", err)
	}
	product, err := products.GetByID(ctx, "PROD-001")
	if err != nil || product.Reference != "BC-1" {
		t.Errorf("GetByID = %+v, %v", product, err)
	}
	nextID, _ := products.GetNextID(ctx)
	if nextID != "PROD-002" {
		t.Errorf("GetNextID = %s, want PROD-002", nextID)
	}
}
