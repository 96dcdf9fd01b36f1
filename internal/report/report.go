// Package report holds the assembled output of one pipeline run, shared by
// the terminal UI and the HTML export.
package report

import (
	"slices"
	"time"

	"github.com/j-veylop/growth-dashboard-tui/internal/charts"
	"github.com/j-veylop/growth-dashboard-tui/internal/config"
	"github.com/j-veylop/growth-dashboard-tui/internal/metrics"
	"github.com/j-veylop/growth-dashboard-tui/internal/models"
)

// Chart names, in page order.
const (
	ChartRevenue    = "revenue"
	ChartDelivery   = "delivery"
	ChartGeographic = "geographic"
)

// ChartResult is one chart of the page. Exactly one of Figure and Err is set.
type ChartResult struct {
	Figure *charts.Figure
	Err    error
}

// OK reports whether the chart was built.
func (c ChartResult) OK() bool {
	return c.Err == nil && c.Figure != nil
}

// Section pairs a chart with its name.
type Section struct {
	Name   string
	Result ChartResult
}

// BoundaryInfo describes the boundary reference the map was drawn against.
type BoundaryInfo struct {
	Source    string
	FetchedAt time.Time
	Stale     bool
	Counties  int
}

// Report is the presentation of one run: header text, three charts and the notes.
type Report struct {
	RunID       string
	GeneratedAt time.Time
	Duration    time.Duration

	Title       string
	Subtitle    string
	Attribution string
	Notes       string
	Theme       config.Theme

	Policy     metrics.ZeroDivisorPolicy
	Data       *models.Dataset
	Summary    metrics.Summary
	Boundaries BoundaryInfo

	Revenue    ChartResult
	Delivery   ChartResult
	Geographic ChartResult
}

// New creates an empty report with header text and notes taken from theme.
func New(runID string, generatedAt time.Time, theme config.Theme) *Report {
	return &Report{
		RunID:       runID,
		GeneratedAt: generatedAt,
		Title:       theme.Title,
		Subtitle:    theme.Subtitle,
		Attribution: theme.Attribution,
		Notes:       theme.Notes,
		Theme:       theme,
	}
}

// Sections returns the charts in page order.
func (r *Report) Sections() []Section {
	return []Section{
		{Name: ChartRevenue, Result: r.Revenue},
		{Name: ChartDelivery, Result: r.Delivery},
		{Name: ChartGeographic, Result: r.Geographic},
	}
}

// Failed returns the names of charts that did not build.
func (r *Report) Failed() []string {
	var failed []string
	for _, s := range r.Sections() {
		if !s.Result.OK() {
			failed = append(failed, s.Name)
		}
	}
	return failed
}

// MatchStatus is how a county row fared on the map.
type MatchStatus int

// Match statuses.
const (
	// StatusUnknown means the map was not built.
	StatusUnknown MatchStatus = iota
	StatusPlotted
	StatusNoBoundary
	StatusUndefined
)

func (s MatchStatus) String() string {
	switch s {
	case StatusPlotted:
		return "plotted"
	case StatusNoBoundary:
		return "no boundary"
	case StatusUndefined:
		return "undefined"
	default:
		return "unknown"
	}
}

// CountyStatus reports whether the county on row i of Data.Counties was
// plotted.
func (r *Report) CountyStatus(i int) MatchStatus {
	if !r.Geographic.OK() {
		return StatusUnknown
	}
	meta := r.Geographic.Figure.Meta
	switch {
	case slices.Contains(meta.UndefinedRows, i):
		return StatusUndefined
	case slices.Contains(meta.DroppedRows, i):
		return StatusNoBoundary
	default:
		return StatusPlotted
	}
}

// Record summarizes the report for the run history.
func (r *Report) Record() models.RunRecord {
	rec := models.RunRecord{
		ID:          r.RunID,
		GeneratedAt: r.GeneratedAt,
		Duration:    r.Duration,
		Failed:      r.Failed(),
	}
	if r.Data != nil {
		rec.RevenueRows = len(r.Data.Revenue)
		rec.EnergyRows = len(r.Data.Energy)
		rec.CountyRows = len(r.Data.Counties)
	}
	if r.Geographic.OK() {
		meta := r.Geographic.Figure.Meta
		rec.Plotted = len(r.Geographic.Figure.Data[0].Locations)
		rec.Dropped = len(meta.Dropped) + len(meta.Undefined)
	}
	return rec
}
