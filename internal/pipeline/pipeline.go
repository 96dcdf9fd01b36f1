// Package pipeline runs one page load: load, derive, build, assemble.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/j-veylop/growth-dashboard-tui/internal/charts"
	"github.com/j-veylop/growth-dashboard-tui/internal/config"
	"github.com/j-veylop/growth-dashboard-tui/internal/dataset"
	"github.com/j-veylop/growth-dashboard-tui/internal/logger"
	"github.com/j-veylop/growth-dashboard-tui/internal/metrics"
	"github.com/j-veylop/growth-dashboard-tui/internal/models"
	"github.com/j-veylop/growth-dashboard-tui/internal/report"
)

// BoundarySource supplies the county boundary reference for the map.
type BoundarySource interface {
	Reference(ctx context.Context) (*models.BoundaryReference, error)
}

// RunRecorder stores a summary of each run.
type RunRecorder interface {
	InsertRun(ctx context.Context, run *models.RunRecord) error
}

// Options are the inputs of a run.
type Options struct {
	Paths  dataset.Paths
	Policy metrics.ZeroDivisorPolicy
	Theme  config.Theme

	// Boundaries may be nil, in which case the map fails with charts.ErrNoBoundaries.
	Boundaries BoundarySource
	// Recorder may be nil.
	Recorder RunRecorder
}

// OptionsFromConfig builds run options from the application configuration.
func OptionsFromConfig(cfg *config.Config, boundaries BoundarySource, recorder RunRecorder) Options {
	return Options{
		Paths: dataset.Paths{
			Revenue:  cfg.RevenuePath,
			Energy:   cfg.EnergyPath,
			Counties: cfg.CountiesPath,
		},
		Policy:     cfg.ZeroPolicy,
		Theme:      cfg.Theme,
		Boundaries: boundaries,
		Recorder:   recorder,
	}
}

// Run executes one page load. A load or derivation error is returned before
// any chart is built. Chart failures are recorded on the report and do not
// fail the run.
func Run(ctx context.Context, opts Options) (*report.Report, error) {
	start := time.Now()
	runID := uuid.NewString()

	logger.Info("Run started", "run", runID)

	rep, err := run(ctx, runID, start, opts)
	if err != nil {
		logger.Error("Run failed", "run", runID, "error", err)
		record(ctx, opts.Recorder, &models.RunRecord{
			ID:          runID,
			GeneratedAt: start,
			Duration:    time.Since(start),
			Err:         err.Error(),
		})
		return nil, err
	}

	rec := rep.Record()
	record(ctx, opts.Recorder, &rec)

	logger.Info("Run finished",
		"run", runID,
		"duration", rep.Duration,
		"failed", rep.Failed(),
		"plotted", rec.Plotted,
		"dropped", rec.Dropped,
	)
	return rep, nil
}

func run(ctx context.Context, runID string, start time.Time, opts Options) (*report.Report, error) {
	ds, err := dataset.Load(opts.Paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Loaded dataset",
		"run", runID,
		"revenue_rows", len(ds.Revenue),
		"energy_rows", len(ds.Energy),
		"county_rows", len(ds.Counties),
	)

	counties, err := metrics.DeriveCustomerGrowth(ds.Counties, opts.Policy)
	if err != nil {
		return nil, fmt.Errorf("failed to derive customer growth: %w", err)
	}
	derived := &models.Dataset{Revenue: ds.Revenue, Energy: ds.Energy, Counties: counties}

	rep := report.New(runID, start, opts.Theme)
	rep.Policy = opts.Policy
	rep.Data = derived
	rep.Summary = metrics.Summarize(derived)

	revenue := charts.BuildRevenue(derived.Revenue, opts.Theme)
	rep.Revenue = report.ChartResult{Figure: &revenue}

	delivery := charts.BuildDelivery(derived.Energy, opts.Theme)
	rep.Delivery = report.ChartResult{Figure: &delivery}

	rep.Geographic = buildGeographic(ctx, rep, derived.Counties, opts)

	rep.Duration = time.Since(start)
	return rep, nil
}

func buildGeographic(ctx context.Context, rep *report.Report, counties []models.CountyRecord, opts Options) report.ChartResult {
	var ref *models.BoundaryReference
	if opts.Boundaries != nil {
		var err error
		ref, err = opts.Boundaries.Reference(ctx)
		if err != nil {
			logger.Warn("Boundary reference unavailable", "error", err)
			return report.ChartResult{Err: err}
		}
	}

	fig, err := charts.BuildGeographic(counties, ref, opts.Theme)
	if err != nil {
		return report.ChartResult{Err: err}
	}

	rep.Boundaries = report.BoundaryInfo{
		Source:    ref.Source,
		FetchedAt: ref.FetchedAt,
		Stale:     ref.Stale,
		Counties:  ref.Len(),
	}
	if len(fig.Meta.Dropped) > 0 {
		logger.Warn("Counties without boundaries left off the map", "fips", fig.Meta.Dropped)
	}
	if len(fig.Meta.Undefined) > 0 {
		logger.Debug("Counties with undefined growth left off the map", "fips", fig.Meta.Undefined)
	}
	return report.ChartResult{Figure: &fig}
}

func record(ctx context.Context, recorder RunRecorder, rec *models.RunRecord) {
	if recorder == nil {
		return
	}
	if err := recorder.InsertRun(ctx, rec); err != nil {
		logger.Warn("Failed to record run", "run", rec.ID, "error", err)
	}
}
