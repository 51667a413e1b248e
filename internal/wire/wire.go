// Package wire provides dependency injection for the floor application.
// It creates singleton services with lazy initialization.
package wire

import (
	"database/sql"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"go.uber.org/zap"

	cliadapter "github.com/example/floor/internal/adapters/cli"
	"github.com/example/floor/internal/adapters/sqlite"
	"github.com/example/floor/internal/app"
	"github.com/example/floor/internal/config"
	"github.com/example/floor/internal/db"
	"github.com/example/floor/internal/logging"
	"github.com/example/floor/internal/ports/primary"
)

// Container holds one fully wired object graph.
type Container struct {
	DB         *sql.DB
	Config     *config.Config
	Logger     *zap.Logger
	Scheduling primary.SchedulingService
	Assignment primary.AssignmentService
	Catalog    primary.CatalogService
	Repair     primary.RepairService
}

// Build wires repositories and services around an open database.
// extra options are applied after the ones derived from cfg.
func Build(database *sql.DB, cfg *config.Config, logger *zap.Logger, extra ...app.Option) *Container {
	if logger == nil {
		logger = zap.NewNop()
	}
	opts := append([]app.Option{app.WithLogger(logger), app.WithSearchHorizon(cfg.SearchHorizonDays)}, extra...)

	// Create repository adapters (secondary ports) - sqlite adapters with injected DB
	tx := sqlite.NewTxManager(database)
	orderRepo := sqlite.NewOrderRepository(database)
	lineRepo := sqlite.NewProductionLineRepository(database)
	productRepo := sqlite.NewProductRepository(database)
	workstationRepo := sqlite.NewWorkstationRepository(database)
	applicationRepo := sqlite.NewApplicationRepository(database)
	assignmentRepo := sqlite.NewAssignmentRepository(database)

	// Create services (primary ports implementation)
	return &Container{
		DB:         database,
		Config:     cfg,
		Logger:     logger,
		Scheduling: app.NewSchedulingService(orderRepo, lineRepo, productRepo, tx, opts...),
		Assignment: app.NewAssignmentService(assignmentRepo, applicationRepo, workstationRepo, tx, opts...),
		Catalog:    app.NewCatalogService(lineRepo, workstationRepo, applicationRepo, productRepo, tx, opts...),
		Repair:     app.NewRepairService(assignmentRepo, applicationRepo, workstationRepo, tx, opts...),
	}
}

// Open loads configuration from dir, builds the logger and opens the database.
func Open(dir string) (*Container, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Path: cfg.LogPath})
	if err != nil {
		return nil, err
	}

	path := cfg.DBPath
	if path == "" {
		if path, err = db.DefaultPath(); err != nil {
			return nil, err
		}
	}
	database, err := db.Open(path, logger.Named("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return Build(database, cfg, logger), nil
}

// Close releases the database and flushes the logger.
func (c *Container) Close() error {
	_ = c.Logger.Sync()
	return c.DB.Close()
}

var (
	container *Container
	once      sync.Once
)

// Default returns the process-wide container built from the working directory.
func Default() *Container {
	once.Do(initContainer)
	return container
}

// initContainer is called once via sync.Once.
func initContainer() {
	dir, err := os.Getwd()
	if err != nil {
		log.Fatalf("failed to get working directory: %v", err)
	}
	container, err = Open(dir)
	if err != nil {
		log.Fatalf("failed to initialize floor: %v", err)
	}
}

// SchedulingService returns the singleton SchedulingService instance.
func SchedulingService() primary.SchedulingService {
	return Default().Scheduling
}

// AssignmentService returns the singleton AssignmentService instance.
func AssignmentService() primary.AssignmentService {
	return Default().Assignment
}

// CatalogService returns the singleton CatalogService instance.
func CatalogService() primary.CatalogService {
	return Default().Catalog
}

// RepairService returns the singleton RepairService instance.
func RepairService() primary.RepairService {
	return Default().Repair
}

// OrderAdapter returns a new OrderAdapter writing to stdout.
// Each call creates a new adapter (adapters are stateless translators).
func OrderAdapter() *cliadapter.OrderAdapter {
	return OrderAdapterWithOutput(os.Stdout)
}

// OrderAdapterWithOutput returns a new OrderAdapter writing to the given output.
func OrderAdapterWithOutput(out io.Writer) *cliadapter.OrderAdapter {
	return cliadapter.NewOrderAdapter(SchedulingService(), out)
}

// AssignmentAdapter returns a new AssignmentAdapter writing to stdout.
func AssignmentAdapter() *cliadapter.AssignmentAdapter {
	return AssignmentAdapterWithOutput(os.Stdout)
}

// AssignmentAdapterWithOutput returns a new AssignmentAdapter writing to the given output.
func AssignmentAdapterWithOutput(out io.Writer) *cliadapter.AssignmentAdapter {
	return cliadapter.NewAssignmentAdapter(AssignmentService(), RepairService(), out)
}

// CatalogAdapter returns a new CatalogAdapter writing to stdout.
func CatalogAdapter() *cliadapter.CatalogAdapter {
	return CatalogAdapterWithOutput(os.Stdout)
}

// CatalogAdapterWithOutput returns a new CatalogAdapter writing to the given output.
func CatalogAdapterWithOutput(out io.Writer) *cliadapter.CatalogAdapter {
	return cliadapter.NewCatalogAdapter(CatalogService(), out)
}
