// Package components provides reusable UI components for the TUI.
package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/j-veylop/growth-dashboard-tui/internal/ui/styles"
)

// Series colors for asciigraph plots.
var (
	RevenueSeriesColor  = asciigraph.YellowGreen
	GrowthSeriesColor   = asciigraph.Green
	DeliverySeriesColor = asciigraph.Orange
)

// Series is one line of a multi-series chart.
type Series struct {
	Name   string
	Values []float64
	Color  asciigraph.AnsiColor
}

func clampSize(width, height int) (int, int) {
	return max(width, 20), max(height, 3)
}

// RenderLineChart creates a single-series ASCII line chart.
func RenderLineChart(data []float64, width, height int, caption string) string {
	if len(finite(data)) == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	width, height = clampSize(width, height)

	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// RenderSeriesChart plots several series on one shared axis. Shorter series
// are padded with NaN so they stop where their data ends; NaN values are gaps.
func RenderSeriesChart(series []Series, width, height int, caption string) string {
	maxLen, points := 0, 0
	for _, s := range series {
		maxLen = max(maxLen, len(s.Values))
		points += len(finite(s.Values))
	}
	if points == 0 {
		return styles.HelpStyle.Render("No data available")
	}
	width, height = clampSize(width, height)

	data := make([][]float64, len(series))
	colors := make([]asciigraph.AnsiColor, len(series))
	for i, s := range series {
		padded := make([]float64, maxLen)
		for j := range padded {
			padded[j] = math.NaN()
		}
		copy(padded, s.Values)
		data[i] = padded
		colors[i] = s.Color
	}

	return asciigraph.PlotMany(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	)
}

// RenderBarChart creates a horizontal bar chart with one bar per label.
// Missing values are shown as n/a.
func RenderBarChart(values []float64, labels []string, width int, color lipgloss.Color) string {
	if len(values) == 0 {
		return ""
	}

	maxVal := 0.0
	for _, v := range values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		maxVal = 1
	}

	maxLabelLen := 0
	for _, l := range labels {
		maxLabelLen = max(maxLabelLen, lipgloss.Width(l))
	}

	barWidth := max(width-maxLabelLen-12, 10)
	barStyle := lipgloss.NewStyle().Foreground(color)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		label := ""
		if i < len(labels) {
			label = labels[i]
		}

		if math.IsNaN(v) || math.IsInf(v, 0) {
			lines = append(lines, fmt.Sprintf("%*s │ n/a", maxLabelLen, label))
			continue
		}
		barLen := max(int((v/maxVal)*float64(barWidth)), 0)
		bar := barStyle.Render(strings.Repeat("█", barLen))
		value := " " + humanize.CommafWithDigits(v, 0)

		lines = append(lines, fmt.Sprintf("%*s │%s%s", maxLabelLen, label, bar, value))
	}

	return strings.Join(lines, "\n")
}

var sparkChars = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline creates a compact inline sparkline scaled between the
// series minimum and maximum. Non-finite values render as a gap.
func RenderSparkline(values []float64, width int) string {
	vals := finite(values)
	if len(vals) == 0 || width <= 0 {
		return ""
	}

	lo, hi := vals[0], vals[0]
	for _, v := range vals {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	step := max(float64(len(values))/float64(width), 1)

	var result strings.Builder
	for i := 0; i < width && int(float64(i)*step) < len(values); i++ {
		v := values[int(float64(i)*step)]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			result.WriteRune(' ')
			continue
		}
		idx := len(sparkChars) / 2
		if hi > lo {
			idx = int((v - lo) / (hi - lo) * float64(len(sparkChars)-1))
		}
		idx = min(max(idx, 0), len(sparkChars)-1)
		result.WriteRune(sparkChars[idx])
	}

	return result.String()
}

// RenderLegend creates a chart legend.
func RenderLegend(items []LegendItem) string {
	parts := make([]string, 0, len(items))
	for _, item := range items {
		colorBox := lipgloss.NewStyle().Foreground(item.Color).Render("■")
		parts = append(parts, fmt.Sprintf("%s %s", colorBox, item.Label))
	}
	return strings.Join(parts, "  ")
}

// LegendItem represents a single legend entry.
type LegendItem struct {
	Label string
	Color lipgloss.Color
}

func finite(values []float64) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}
