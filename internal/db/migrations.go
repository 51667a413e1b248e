package db

import (
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_scheduling_and_assignment_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "enforce_single_active_assignment",
		Up:      migrationV2,
	},
}

const schemaVersionSQL = `
	CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)
`

// LatestVersion returns the version a fully migrated database is at.
func LatestVersion() int {
	return migrations[len(migrations)-1].Version
}

// CurrentVersion returns the highest applied migration, 0 when none.
func CurrentVersion(database *sql.DB) (int, error) {
	var version int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// RunMigrations applies every pending migration, each in its own transaction.
func RunMigrations(database *sql.DB, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	if _, err := database.Exec(schemaVersionSQL); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	currentVersion, err := CurrentVersion(database)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		logger.Info("running migration", zap.Int("version", migration.Version), zap.String("name", migration.Name))

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}

		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}

		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}

		logger.Info("migration completed", zap.Int("version", migration.Version))
	}

	return nil
}

// migrationV1 creates the original tables. Assignments carry no uniqueness
// guarantee yet, so duplicate active rows can accumulate.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			reference TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS production_lines (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			owner_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

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

		CREATE TABLE IF NOT EXISTS applications (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			operation_name TEXT,
			owner_id TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

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
	`)
	return err
}

// deactivateDuplicatesSQL keeps the most recent active row per partition
// (ties broken by insertion order) and closes the rest.
const deactivateDuplicatesSQL = `
	UPDATE assignments SET active = 0, ended_at = ?
	WHERE id IN (
		SELECT id FROM (
			SELECT id, ROW_NUMBER() OVER (
				PARTITION BY %s ORDER BY started_at DESC, rowid DESC
			) AS rn
			FROM assignments
			WHERE active = 1
		) WHERE rn > 1
	)
`

// migrationV2 repairs duplicate active assignments, recomputes workstation
// state, then enforces one active assignment per application and per workstation.
func migrationV2(tx *sql.Tx) error {
	now := time.Now().UTC().Format(TimestampLayout)

	for _, column := range []string{"application_id", "workstation_id"} {
		if _, err := tx.Exec(fmt.Sprintf(deactivateDuplicatesSQL, column), now); err != nil {
			return fmt.Errorf("failed to deactivate duplicate assignments by %s: %w", column, err)
		}
	}

	_, err := tx.Exec(`
		UPDATE workstations SET state = CASE
			WHEN EXISTS (SELECT 1 FROM assignments a WHERE a.workstation_id = workstations.id AND a.active = 1)
			THEN 'CONFIGURED' ELSE 'NOT_CONFIGURED' END
	`)
	if err != nil {
		return fmt.Errorf("failed to recompute workstation state: %w", err)
	}

	_, err = tx.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_active_application ON assignments(application_id) WHERE active = 1;
		CREATE UNIQUE INDEX IF NOT EXISTS idx_assignments_active_workstation ON assignments(workstation_id) WHERE active = 1;
	`)
	return err
}
