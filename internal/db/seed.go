package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development fixtures:
// two lines sharing a workstation, applications, and a few scheduled orders.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC()
	today := now.Format("2006-01-02")
	day := func(offset int) string {
		return now.AddDate(0, 0, offset).Format("2006-01-02")
	}

	products := []struct{ id, name, ref string }{
		{"PROD-001", "Brake caliper", "BC-200"},
		{"PROD-002", "Steering rack", "SR-310"},
	}
	for _, p := range products {
		if _, err := database.Exec(
			"INSERT INTO products (id, name, reference) VALUES (?, ?, ?)",
			p.id, p.name, p.ref,
		); err != nil {
			return fmt.Errorf("seed products: %w", err)
		}
	}

	lines := []struct{ id, name, owner string }{
		{"LINE-001", "Assembly A", "seed"},
		{"LINE-002", "Assembly B", "seed"},
	}
	for _, l := range lines {
		if _, err := database.Exec(
			"INSERT INTO production_lines (id, name, owner_id) VALUES (?, ?, ?)",
			l.id, l.name, l.owner,
		); err != nil {
			return fmt.Errorf("seed lines: %w", err)
		}
	}

	workstations := []struct{ id, name string }{
		{"POSTE-001", "Press 1"},
		{"POSTE-002", "Press 2"},
		{"POSTE-003", "Torque station"},
	}
	for _, w := range workstations {
		if _, err := database.Exec(
			"INSERT INTO workstations (id, name, state, owner_id) VALUES (?, ?, 'NOT_CONFIGURED', 'seed')",
			w.id, w.name,
		); err != nil {
			return fmt.Errorf("seed workstations: %w", err)
		}
	}

	// POSTE-003 is shared by both lines
	memberships := []struct{ line, workstation string }{
		{"LINE-001", "POSTE-001"},
		{"LINE-001", "POSTE-003"},
		{"LINE-002", "POSTE-002"},
		{"LINE-002", "POSTE-003"},
	}
	for _, m := range memberships {
		if _, err := database.Exec(
			"INSERT INTO line_workstations (line_id, workstation_id) VALUES (?, ?)",
			m.line, m.workstation,
		); err != nil {
			return fmt.Errorf("seed line workstations: %w", err)
		}
	}

	for _, lp := range [][2]string{{"LINE-001", "PROD-001"}, {"LINE-002", "PROD-002"}} {
		if _, err := database.Exec(
			"INSERT INTO line_products (line_id, product_id) VALUES (?, ?)",
			lp[0], lp[1],
		); err != nil {
			return fmt.Errorf("seed line products: %w", err)
		}
	}

	applications := []struct{ id, name, operation string }{
		{"APP-001", "Caliper press program", "pressing"},
		{"APP-002", "Rack press program", "pressing"},
		{"APP-003", "Torque check", "torquing"},
	}
	for _, a := range applications {
		if _, err := database.Exec(
			"INSERT INTO applications (id, name, operation_name, owner_id) VALUES (?, ?, ?, 'seed')",
			a.id, a.name, a.operation,
		); err != nil {
			return fmt.Errorf("seed applications: %w", err)
		}
	}

	orders := []struct {
		id, code, status, start, end, product, line string
		quantity                                    int
	}{
		{"OF-001", "FAB-2024-001", "IN_PROGRESS", today, day(4), "PROD-001", "LINE-001", 500},
		{"OF-002", "FAB-2024-002", "PENDING", day(10), day(14), "PROD-001", "LINE-001", 250},
		{"OF-003", "FAB-2024-003", "PENDING", day(2), day(6), "PROD-002", "LINE-002", 120},
		{"OF-004", "FAB-2024-004", "CANCELLED", day(5), day(9), "PROD-002", "LINE-002", 80},
	}
	for _, o := range orders {
		if _, err := database.Exec(
			`INSERT INTO orders (id, code, status, quantity, start_date, end_date, product_id, line_id, created_by)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 'seed')`,
			o.id, o.code, o.status, o.quantity, o.start, o.end, o.product, o.line,
		); err != nil {
			return fmt.Errorf("seed orders: %w", err)
		}
	}

	if _, err := database.Exec(
		"INSERT INTO assignments (id, workstation_id, application_id, started_at, active) VALUES ('AFF-001', 'POSTE-001', 'APP-001', ?, 1)",
		now.Format(TimestampLayout),
	); err != nil {
		return fmt.Errorf("seed assignments: %w", err)
	}
	if _, err := database.Exec("UPDATE workstations SET state = 'CONFIGURED' WHERE id = 'POSTE-001'"); err != nil {
		return fmt.Errorf("seed workstation state: %w", err)
	}

	return nil
}
