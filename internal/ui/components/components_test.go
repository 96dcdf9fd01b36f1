package components

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/j-veylop/growth-dashboard-tui/internal/charts"
)

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Loading")
	if s.label != "Loading" {
		t.Error("Spinner label mismatch")
	}
}

func TestSpinner_Methods(t *testing.T) {
	s := NewSpinner("Building report")

	if !strings.Contains(s.View(), "Building report") {
		t.Error("View missing label")
	}
	if s.Init() == nil {
		t.Error("Init should return command")
	}
	if _, cmd := s.Update(spinner.TickMsg{}); cmd == nil {
		t.Error("Update should return command for tick")
	}
}

func TestRenderSpinnerCentered(t *testing.T) {
	s := NewSpinner("Loading...")
	view := RenderSpinnerCentered(s, 40, 5)
	if lipgloss.Height(view) != 5 {
		t.Errorf("expected height 5, got %d", lipgloss.Height(view))
	}

	view = ansi.Strip(RenderSpinnerCentered(s, 40, 6, "report", "runs"))
	if !strings.Contains(view, "waiting on report, runs") {
		t.Errorf("pending resources missing:\n%s", view)
	}
}

func TestRenderLineChart(t *testing.T) {
	tests := []struct {
		name  string
		data  []float64
		empty bool
	}{
		{"Values", []float64{1, 2, 3, 4}, false},
		{"Empty", nil, true},
		{"AllNaN", []float64{math.NaN(), math.NaN()}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := RenderLineChart(tt.data, 20, 5, "Test")
			if got := strings.Contains(s, "No data available"); got != tt.empty {
				t.Errorf("RenderLineChart() placeholder = %v, want %v", got, tt.empty)
			}
		})
	}
}

func TestRenderSeriesChart(t *testing.T) {
	s := RenderSeriesChart([]Series{
		{Name: "revenue", Values: []float64{1, 2, 3}, Color: RevenueSeriesColor},
		{Name: "growth", Values: []float64{3, 2}, Color: GrowthSeriesColor},
	}, 20, 5, "Title")
	if !strings.Contains(s, "Title") {
		t.Error("caption missing")
	}

	if s := RenderSeriesChart(nil, 20, 5, ""); !strings.Contains(s, "No data available") {
		t.Error("expected placeholder for no series")
	}

	gaps := RenderSeriesChart([]Series{
		{Name: "revenue", Values: []float64{1, math.NaN(), 3}, Color: RevenueSeriesColor},
	}, 20, 5, "Gaps")
	if !strings.Contains(gaps, "Gaps") {
		t.Error("series with a missing value should still plot")
	}

	nan := RenderSeriesChart([]Series{
		{Name: "revenue", Values: []float64{math.NaN()}, Color: RevenueSeriesColor},
	}, 20, 5, "")
	if !strings.Contains(nan, "No data available") {
		t.Error("expected placeholder when no value is defined")
	}
}

func TestRenderBarChart(t *testing.T) {
	s := RenderBarChart([]float64{1000, 2500}, []string{"Jan", "Feb"}, 40, lipgloss.Color("#ffa600"))
	lines := strings.Split(ansi.Strip(s), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(lines))
	}
	if !strings.HasPrefix(lines[1], "Feb │") || !strings.HasSuffix(lines[1], "2,500") {
		t.Errorf("unexpected bar line %q", lines[1])
	}
	if strings.Count(lines[0], "█") >= strings.Count(lines[1], "█") {
		t.Error("bars should scale with value")
	}

	missing := ansi.Strip(RenderBarChart([]float64{math.NaN(), 10}, []string{"Jan", "Feb"}, 40, lipgloss.Color("1")))
	if !strings.Contains(missing, "Jan │ n/a") {
		t.Errorf("missing value should show n/a:\n%s", missing)
	}

	if RenderBarChart(nil, nil, 40, lipgloss.Color("1")) != "" {
		t.Error("expected empty output for no values")
	}
}

func TestRenderSparkline(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"Rising", []float64{1, 2, 3}, 3, "▁▄█"},
		{"Flat", []float64{5, 5}, 2, "▅▅"},
		{"Gap", []float64{1, math.NaN(), 3}, 3, "▁ █"},
		{"Empty", nil, 5, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RenderSparkline(tt.values, tt.width); got != tt.want {
				t.Errorf("RenderSparkline() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderLegend(t *testing.T) {
	s := ansi.Strip(RenderLegend([]LegendItem{
		{Label: "Revenue", Color: lipgloss.Color("1")},
		{Label: "Growth", Color: lipgloss.Color("2")},
	}))
	if s != "■ Revenue  ■ Growth" {
		t.Errorf("RenderLegend() = %q", s)
	}
}

func mapFigure() *charts.Figure {
	return &charts.Figure{
		Data: []charts.Trace{{
			Type:       "choropleth",
			Locations:  []string{"48453", "48201", "48301"},
			Z:          []float64{20, -20, 0},
			Text:       []string{"Travis", "Harris", "Loving"},
			ColorScale: charts.NewColorScale("#000000", "#ffffff"),
		}},
		Meta: charts.Meta{
			Bounds:  &charts.Bounds{MinLon: -104, MinLat: 29, MaxLon: -94, MaxLat: 33},
			Centers: [][2]float64{{-97.8, 30.3}, {-95.4, 29.8}, {-103.6, 31.8}},
		},
	}
}

func TestLayoutCountyMap(t *testing.T) {
	tiles := LayoutCountyMap(mapFigure(), 11, 5)
	if len(tiles) != 3 {
		t.Fatalf("expected 3 tiles, got %d", len(tiles))
	}

	byName := map[string]MapTile{}
	for _, tile := range tiles {
		byName[tile.Name] = tile
	}

	// Loving is the westernmost county, Harris the easternmost.
	if byName["Loving"].Col >= byName["Travis"].Col || byName["Travis"].Col >= byName["Harris"].Col {
		t.Errorf("columns not ordered west to east: %+v", tiles)
	}
	// Harris is the southernmost, so it sits lowest on screen.
	if byName["Harris"].Row <= byName["Loving"].Row {
		t.Errorf("rows not ordered north to south: %+v", tiles)
	}

	if byName["Harris"].Color != "#000000" || byName["Travis"].Color != "#ffffff" {
		t.Errorf("colors not scaled to growth range: %+v", tiles)
	}
	if byName["Loving"].Color != "#808080" {
		t.Errorf("midpoint color = %s, want #808080", byName["Loving"].Color)
	}
}

func TestLayoutCountyMap_Empty(t *testing.T) {
	tests := []struct {
		name string
		fig  *charts.Figure
	}{
		{"Nil", nil},
		{"NoTraces", &charts.Figure{}},
		{"NoBounds", &charts.Figure{Data: []charts.Trace{{Locations: []string{"1"}}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tiles := LayoutCountyMap(tt.fig, 10, 5); tiles != nil {
				t.Errorf("expected no tiles, got %+v", tiles)
			}
		})
	}
}

func TestRenderCountyMap(t *testing.T) {
	out := RenderCountyMap(mapFigure(), 11, 5)
	if lipgloss.Height(out) != 5 {
		t.Errorf("map height = %d, want 5", lipgloss.Height(out))
	}
	if got := strings.Count(ansi.Strip(out), mapTile); got != 3 {
		t.Errorf("expected 3 tiles drawn, got %d", got)
	}

	if !strings.Contains(RenderCountyMap(nil, 10, 5), "No counties to plot") {
		t.Error("expected placeholder for an empty map")
	}
}

func TestRenderColorBar(t *testing.T) {
	out := ansi.Strip(RenderColorBar(mapFigure(), 30))
	if !strings.HasPrefix(out, "-20.0% ") || !strings.HasSuffix(out, " 20.0%") {
		t.Errorf("unexpected color bar %q", out)
	}
	if RenderColorBar(nil, 30) != "" {
		t.Error("expected empty color bar without a figure")
	}
}
