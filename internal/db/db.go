package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// TimestampLayout is the fixed-width UTC layout used for assignment timestamps.
// Fixed width keeps lexical order equal to chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000000000Z"

// connParams: immediate write locks so check-then-insert sequences serialize,
// foreign keys on every connection, and a busy timeout instead of SQLITE_BUSY.
const connParams = "_txlock=immediate&_foreign_keys=on&_busy_timeout=5000"

// Open opens (creating if needed) the database at path and brings its schema
// up to date.
func Open(path string, logger *zap.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	database, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", path, connParams))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := InitSchema(database, logger); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return database, nil
}

// OpenMemory opens a private in-memory database with the full schema.
// A single connection is used so every query sees the same database.
func OpenMemory() (*sql.DB, error) {
	database, err := sql.Open("sqlite3", "file::memory:?"+connParams)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	database.SetMaxOpenConns(1)

	if _, err := database.Exec(SchemaSQL); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return database, nil
}

// DefaultPath returns ~/.floor/floor.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".floor", "floor.db"), nil
}
