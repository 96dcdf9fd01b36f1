// Package db manages the local SQLite cache
package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Import modernc.org/sqlite as a blank import to register the driver
	_ "modernc.org/sqlite"
)

// timeFormat is how timestamps are stored, always in UTC.
const timeFormat = "2006-01-02 15:04:05"

// DB wraps the SQL database connection with application-specific methods.
type DB struct {
	*sql.DB
	path string
}

// New creates a new database connection and initializes the schema.
func New(path string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := sqlDB.PingContext(context.Background()); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{
		DB:   sqlDB,
		path: path,
	}

	if err := db.configure(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	if err := db.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	if err := db.createSchema(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return db, nil
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// configure sets up database pragmas for optimal performance.
func (db *DB) configure() error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-16000", // 16MB cache
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(context.Background(), pragma); err != nil {
			return fmt.Errorf("failed to execute %s: %w", pragma, err)
		}
	}

	return nil
}

func (db *DB) createSchema() error {
	if err := db.createGeoDocumentsTable(); err != nil {
		return err
	}
	if err := db.createCountyBoundariesTable(); err != nil {
		return err
	}
	return db.createReportRunsTable()
}

func (db *DB) createGeoDocumentsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS geo_documents (
		source TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		feature_count INTEGER NOT NULL DEFAULT 0,
		fetched_at DATETIME NOT NULL
	);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createCountyBoundariesTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS county_boundaries (
		source TEXT NOT NULL REFERENCES geo_documents(source) ON DELETE CASCADE,
		fips TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		state TEXT NOT NULL DEFAULT '',
		min_lon REAL NOT NULL,
		min_lat REAL NOT NULL,
		max_lon REAL NOT NULL,
		max_lat REAL NOT NULL,
		PRIMARY KEY (source, fips)
	);
	CREATE INDEX IF NOT EXISTS idx_county_boundaries_state ON county_boundaries(source, state);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

func (db *DB) createReportRunsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS report_runs (
		id TEXT PRIMARY KEY,
		generated_at DATETIME NOT NULL,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		revenue_rows INTEGER NOT NULL DEFAULT 0,
		energy_rows INTEGER NOT NULL DEFAULT 0,
		county_rows INTEGER NOT NULL DEFAULT 0,
		plotted INTEGER NOT NULL DEFAULT 0,
		dropped INTEGER NOT NULL DEFAULT 0,
		failed TEXT NOT NULL DEFAULT '',
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_report_runs_generated ON report_runs(generated_at);
	`
	_, err := db.ExecContext(context.Background(), query)
	return err
}

// Close closes the database connection gracefully.
func (db *DB) Close() error {
	// Checkpoint WAL before closing
	_, _ = db.ExecContext(context.Background(), "PRAGMA wal_checkpoint(TRUNCATE)")
	return db.DB.Close()
}

// Vacuum performs database maintenance to reclaim space.
func (db *DB) Vacuum() error {
	_, err := db.ExecContext(context.Background(), "VACUUM")
	return err
}
