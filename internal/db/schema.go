package db

import (
	"database/sql"
	"fmt"

	"go.uber.org/zap"
)

// SchemaSQL is the complete modern schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// # Schema Drift Protection
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(); if repository code references a column that
// doesn't exist here, tests fail immediately with "no such column".
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
//  3. Run `make test` to verify alignment
const SchemaSQL = `
-- Products (what orders manufacture)
CREATE TABLE IF NOT EXISTS products (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	reference TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Production lines (lignes)
CREATE TABLE IF NOT EXISTS production_lines (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	owner_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Workstations (postes). state is a cache of "has an active assignment".
CREATE TABLE IF NOT EXISTS workstations (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	state TEXT NOT NULL CHECK(state IN ('CONFIGURED', 'NOT_CONFIGURED')) DEFAULT 'NOT_CONFIGURED',
	owner_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS line_workstations (
	line_id TEXT NOT NULL,
	workstation_id TEXT NOT NULL,
	PRIMARY KEY (line_id, workstation_id),
	FOREIGN KEY (line_id) REFERENCES production_lines(id) ON DELETE CASCADE,
	FOREIGN KEY (workstation_id) REFERENCES workstations(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS line_products (
	line_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	PRIMARY KEY (line_id, product_id),
	FOREIGN KEY (line_id) REFERENCES production_lines(id) ON DELETE CASCADE,
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
);

-- Applications (configuration programs loaded onto workstations)
CREATE TABLE IF NOT EXISTS applications (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	description TEXT,
	operation_name TEXT,
	owner_id TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Manufacturing orders (ordres de fabrication). Dates are YYYY-MM-DD.
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	code TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('PENDING', 'IN_PROGRESS', 'COMPLETED', 'CANCELLED')) DEFAULT 'PENDING',
	quantity INTEGER NOT NULL DEFAULT 0,
	start_date TEXT NOT NULL,
	end_date TEXT NOT NULL,
	product_id TEXT,
	line_id TEXT,
	created_by TEXT,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (product_id) REFERENCES products(id),
	FOREIGN KEY (line_id) REFERENCES production_lines(id),
	CHECK (start_date <= end_date)
);

CREATE INDEX IF NOT EXISTS idx_orders_line_dates ON orders(line_id, start_date, end_date);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

-- Assignments (affectations). Rows are never deleted; ended_at is NULL while active.
CREATE TABLE IF NOT EXISTS assignments (
	id TEXT PRIMARY KEY,
	workstation_id TEXT NOT NULL,
	application_id TEXT NOT NULL,
	started_at TEXT NOT NULL,
	ended_at TEXT,
	active INTEGER NOT NULL CHECK(active IN (0, 1)) DEFAULT 1,
	FOREIGN KEY (workstation_id) REFERENCES workstations(id),
	FOREIGN KEY (application_id) REFERENCES applications(id)
);

CREATE INDEX IF NOT EXISTS idx_assignments_application ON assignments(application_id, started_at);
CREATE INDEX IF NOT EXISTS idx_assignments_workstation ON assignments(workstation_id, started_at);

-- At most one active assignment per application and per workstation
CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_active_application ON assignments(application_id) WHERE active = 1;
CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_active_workstation ON assignments(workstation_id) WHERE active = 1;
`

// InitSchema creates the schema on a fresh database or runs pending migrations
// on an existing one.
func InitSchema(database *sql.DB, logger *zap.Logger) error {
	var versionTable int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&versionTable)
	if err != nil {
		return err
	}
	if versionTable > 0 {
		return RunMigrations(database, logger)
	}

	// No version table: data written before versioning must go through the migrations
	var legacyTables int
	err = database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name IN ('orders', 'assignments')").Scan(&legacyTables)
	if err != nil {
		return err
	}
	if legacyTables > 0 {
		return RunMigrations(database, logger)
	}

	// Completely fresh install - create modern schema directly and mark every migration applied
	tx, err := database.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(SchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	if _, err := tx.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	for _, m := range migrations {
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.Version, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}

	logger.Info("created fresh schema", zap.Int("version", LatestVersion()))
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
