package db

import (
	"context"
	"fmt"
)

// schemaVersion is bumped whenever a cache table changes shape. Cache tables
// hold nothing that cannot be fetched again, so an upgrade drops them.
const schemaVersion = 2

// migrate drops cache tables written by an older schema and records the
// current version. Run history is kept.
func (db *DB) migrate() error {
	ctx := context.Background()

	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if version == schemaVersion {
		return nil
	}

	queries := []string{
		"DROP TABLE IF EXISTS county_boundaries",
		"DROP TABLE IF EXISTS geo_documents",
		fmt.Sprintf("PRAGMA user_version = %d", schemaVersion),
	}
	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to migrate schema to v%d: %w", schemaVersion, err)
		}
	}

	return nil
}
