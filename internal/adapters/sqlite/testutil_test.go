// Package sqlite_test contains integration tests for SQLite repositories.
//
// # Schema Protection
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() to ensure tests run against
// the authoritative schema, preventing drift between test and production.
//
// DO NOT hardcode CREATE TABLE statements in test files. Instead, use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/floor/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// A single connection keeps every query (and transaction) on the same database.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedLine inserts a test production line and returns its ID.
func seedLine(t *testing.T, db *sql.DB, id, name string) string {
	t.Helper()
	if id == "" {
		id = "LINE-001"
	}
	if name == "" {
		name = "Test Line"
	}
	_, err := db.Exec("INSERT INTO production_lines (id, name) VALUES (?, ?)", id, name)
	if err != nil {
		t.Fatalf("failed to seed line: %v", err)
	}
	return id
}

// seedProduct inserts a test product and returns its ID.
func seedProduct(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "PROD-001"
	}
	_, err := db.Exec("INSERT INTO products (id, name) VALUES (?, 'Test Product')", id)
	if err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return id
}

// seedWorkstation inserts a test workstation and returns its ID.
func seedWorkstation(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "POSTE-001"
	}
	_, err := db.Exec("INSERT INTO workstations (id, name) VALUES (?, ?)", id, "Workstation "+id)
	if err != nil {
		t.Fatalf("failed to seed workstation: %v", err)
	}
	return id
}

// seedApplication inserts a test application and returns its ID.
func seedApplication(t *testing.T, db *sql.DB, id string) string {
	t.Helper()
	if id == "" {
		id = "APP-001"
	}
	_, err := db.Exec("INSERT INTO applications (id, name) VALUES (?, ?)", id, "Application "+id)
	if err != nil {
		t.Fatalf("failed to seed application: %v", err)
	}
	return id
}

// seedOrder inserts a test order and returns its ID.
func seedOrder(t *testing.T, db *sql.DB, id, lineID, status, start, end string) string {
	t.Helper()
	var line any
	if lineID != "" {
		line = lineID
	}
	_, err := db.Exec(
		"INSERT INTO orders (id, code, status, quantity, start_date, end_date, line_id) VALUES (?, ?, ?, 10, ?, ?, ?)",
		id, "FAB-"+id, status, start, end, line,
	)
	if err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return id
}
