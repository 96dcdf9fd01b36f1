package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/j-veylop/growth-dashboard-tui/internal/models"
)

// InsertRun records a pipeline run.
func (db *DB) InsertRun(ctx context.Context, run *models.RunRecord) error {
	query := `
		INSERT OR REPLACE INTO report_runs (
			id, generated_at, duration_ms, revenue_rows, energy_rows, county_rows,
			plotted, dropped, failed, error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	generatedAt := run.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	_, err := db.ExecContext(ctx, query,
		run.ID,
		generatedAt.UTC().Format(timeFormat),
		run.Duration.Milliseconds(),
		run.RevenueRows,
		run.EnergyRows,
		run.CountyRows,
		run.Plotted,
		run.Dropped,
		strings.Join(run.Failed, ","),
		nullString(run.Err),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// RecentRuns returns the most recent runs, newest first.
func (db *DB) RecentRuns(ctx context.Context, limit int) ([]models.RunRecord, error) {
	query := `
		SELECT id, generated_at, duration_ms, revenue_rows, energy_rows, county_rows,
			   plotted, dropped, failed, error
		FROM report_runs
		ORDER BY generated_at DESC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []models.RunRecord
	for rows.Next() {
		var (
			run         models.RunRecord
			generatedAt string
			durationMs  int64
			failed      string
			errStr      sql.NullString
		)
		err := rows.Scan(
			&run.ID,
			&generatedAt,
			&durationMs,
			&run.RevenueRows,
			&run.EnergyRows,
			&run.CountyRows,
			&run.Plotted,
			&run.Dropped,
			&failed,
			&errStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}

		if t, ok := parseTimeString(generatedAt); ok {
			run.GeneratedAt = t
		}
		run.Duration = time.Duration(durationMs) * time.Millisecond
		if failed != "" {
			run.Failed = strings.Split(failed, ",")
		}
		run.Err = errStr.String
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

// PruneRuns keeps only the newest keep runs.
func (db *DB) PruneRuns(ctx context.Context, keep int) (int64, error) {
	result, err := db.ExecContext(ctx, `
		DELETE FROM report_runs
		WHERE id NOT IN (
			SELECT id FROM report_runs ORDER BY generated_at DESC LIMIT ?
		)
	`, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to prune runs: %w", err)
	}
	return result.RowsAffected()
}

// nullString returns a sql.NullString from a string.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
