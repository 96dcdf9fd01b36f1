package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/j-veylop/growth-dashboard-tui/internal/logger"
	"github.com/j-veylop/growth-dashboard-tui/internal/models"
)

// ErrNotCached is returned when no boundary document is stored for a source.
var ErrNotCached = errors.New("boundaries not cached")

// CachedBoundaries is a stored boundary document and its index.
type CachedBoundaries struct {
	Source     string
	Body       []byte
	FetchedAt  time.Time
	Boundaries []models.Boundary
}

// Age returns how long ago the document was fetched.
func (c *CachedBoundaries) Age(now time.Time) time.Duration {
	return now.Sub(c.FetchedAt)
}

// Reference builds a lookup reference from the cached rows.
func (c *CachedBoundaries) Reference(stale bool) *models.BoundaryReference {
	ref := models.NewBoundaryReference(c.Source, c.FetchedAt, c.Boundaries)
	ref.Raw = c.Body
	ref.Stale = stale
	return ref
}

// SaveBoundaries replaces the cached document and boundary rows for source.
func (db *DB) SaveBoundaries(ctx context.Context, source string, body []byte, fetchedAt time.Time, boundaries []models.Boundary) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Deleting the document cascades to its boundary rows.
	if _, err := tx.ExecContext(ctx, `DELETE FROM geo_documents WHERE source = ?`, source); err != nil {
		return fmt.Errorf("failed to clear cached document: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO geo_documents (source, body, feature_count, fetched_at) VALUES (?, ?, ?, ?)`,
		source, body, len(boundaries), fetchedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO county_boundaries (
			source, fips, name, state, min_lon, min_lat, max_lon, max_lat
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare boundary insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, b := range boundaries {
		if _, err := stmt.ExecContext(ctx, source, b.FIPS, b.Name, b.State, b.MinLon, b.MinLat, b.MaxLon, b.MaxLat); err != nil {
			return fmt.Errorf("failed to insert boundary %s: %w", b.FIPS, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit boundaries: %w", err)
	}

	logger.Debug("Cached boundaries", "source", source, "count", len(boundaries))
	return nil
}

// LoadBoundaries returns the cached document for source, or ErrNotCached.
func (db *DB) LoadBoundaries(ctx context.Context, source string) (*CachedBoundaries, error) {
	cached := &CachedBoundaries{Source: source}

	var fetchedAt string
	err := db.QueryRowContext(ctx,
		`SELECT body, fetched_at FROM geo_documents WHERE source = ?`, source,
	).Scan(&cached.Body, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotCached
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query cached document: %w", err)
	}

	t, ok := parseTimeString(fetchedAt)
	if !ok {
		return nil, fmt.Errorf("invalid fetched_at %q for %s", fetchedAt, source)
	}
	cached.FetchedAt = t

	rows, err := db.QueryContext(ctx, `
		SELECT fips, name, state, min_lon, min_lat, max_lon, max_lat
		FROM county_boundaries
		WHERE source = ?
		ORDER BY fips
	`, source)
	if err != nil {
		return nil, fmt.Errorf("failed to query boundaries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var b models.Boundary
		if err := rows.Scan(&b.FIPS, &b.Name, &b.State, &b.MinLon, &b.MinLat, &b.MaxLon, &b.MaxLat); err != nil {
			return nil, fmt.Errorf("failed to scan boundary: %w", err)
		}
		cached.Boundaries = append(cached.Boundaries, b)
	}

	return cached, rows.Err()
}

// DeleteBoundaries removes the cached document for source.
func (db *DB) DeleteBoundaries(ctx context.Context, source string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM geo_documents WHERE source = ?`, source)
	if err != nil {
		return fmt.Errorf("failed to delete cached boundaries: %w", err)
	}
	return nil
}

var timeFormats = []string{
	timeFormat,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
}

func parseTimeString(s string) (time.Time, bool) {
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
