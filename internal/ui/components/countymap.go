package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/j-veylop/growth-dashboard-tui/internal/charts"
	"github.com/j-veylop/growth-dashboard-tui/internal/ui/styles"
)

const mapTile = "█"

// MapTile is one plotted county placed on the terminal grid.
type MapTile struct {
	FIPS   string
	Name   string
	Growth float64
	Row    int
	Col    int
	Color  string
}

// LayoutCountyMap places each plotted county of a choropleth figure on a
// width×height grid spanning the figure's bounds, colored by its growth.
// Counties that land on the same cell are all returned; the last one is
// drawn.
func LayoutCountyMap(fig *charts.Figure, width, height int) []MapTile {
	if fig == nil || len(fig.Data) == 0 || fig.Meta.Bounds == nil || width <= 0 || height <= 0 {
		return nil
	}
	tr := fig.Data[0]
	if len(tr.Locations) == 0 || len(fig.Meta.Centers) != len(tr.Locations) {
		return nil
	}

	lo, hi := growthRange(tr.Z)
	b := fig.Meta.Bounds

	tiles := make([]MapTile, len(tr.Locations))
	for i, fips := range tr.Locations {
		lon, lat := fig.Meta.Centers[i][0], fig.Meta.Centers[i][1]
		col := int(charts.Normalize(lon, b.MinLon, b.MaxLon) * float64(width-1))
		row := int((1 - charts.Normalize(lat, b.MinLat, b.MaxLat)) * float64(height-1))

		name := fips
		if i < len(tr.Text) {
			name = tr.Text[i]
		}

		tiles[i] = MapTile{
			FIPS:   fips,
			Name:   name,
			Growth: tr.Z[i],
			Row:    min(max(row, 0), height-1),
			Col:    min(max(col, 0), width-1),
			Color:  tr.ColorScale.At(charts.Normalize(tr.Z[i], lo, hi)),
		}
	}
	return tiles
}

// RenderCountyMap draws the choropleth as colored tiles.
func RenderCountyMap(fig *charts.Figure, width, height int) string {
	tiles := LayoutCountyMap(fig, width, height)
	if len(tiles) == 0 {
		return styles.HelpStyle.Render("No counties to plot")
	}

	grid := make([][]string, height)
	for r := range grid {
		grid[r] = make([]string, width)
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}
	for _, t := range tiles {
		grid[t.Row][t.Col] = lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render(mapTile)
	}

	lines := make([]string, height)
	for r, row := range grid {
		lines[r] = strings.Join(row, "")
	}
	return strings.Join(lines, "\n")
}

// RenderColorBar draws the color scale as a gradient between the smallest
// and largest plotted growth values.
func RenderColorBar(fig *charts.Figure, width int) string {
	if fig == nil || len(fig.Data) == 0 || len(fig.Data[0].Z) == 0 {
		return ""
	}
	tr := fig.Data[0]
	lo, hi := growthRange(tr.Z)

	loLabel := fmt.Sprintf("%.1f%% ", lo)
	hiLabel := fmt.Sprintf(" %.1f%%", hi)
	barWidth := max(width-len(loLabel)-len(hiLabel), 4)

	var b strings.Builder
	b.WriteString(styles.HelpStyle.Render(loLabel))
	for i := 0; i < barWidth; i++ {
		t := float64(i) / float64(barWidth-1)
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(tr.ColorScale.At(t))).Render(mapTile))
	}
	b.WriteString(styles.HelpStyle.Render(hiLabel))
	return b.String()
}

func growthRange(z []float64) (lo, hi float64) {
	vals := finite(z)
	if len(vals) == 0 {
		return 0, 0
	}
	lo, hi = vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}
