package dashboard

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/growth-dashboard-tui/internal/charts"
	"github.com/j-veylop/growth-dashboard-tui/internal/report"
	"github.com/j-veylop/growth-dashboard-tui/internal/ui/components"
	"github.com/j-veylop/growth-dashboard-tui/internal/ui/styles"
)

const (
	chartHeight = 8
	mapHeight   = 12
	minCard     = 40
)

// View renders the report tab.
func (m *Model) View() string {
	rep := m.state.GetReport()
	runErr := m.state.GetRunError()

	if rep == nil {
		if runErr != nil {
			return styles.DocStyle.Width(m.width).Render(m.renderFatal(runErr))
		}
		return components.RenderSpinnerCentered(m.spinner, m.width, m.height, m.state.GetLoadingResources()...)
	}

	sections := []string{m.renderHeader(rep)}
	if runErr != nil {
		sections = append(sections, m.renderStaleBanner(runErr))
	}
	sections = append(sections,
		m.renderSummary(rep),
		m.renderRevenue(rep.Revenue),
		m.renderDelivery(rep.Delivery),
		m.renderGeographic(rep),
	)
	if rep.Attribution != "" {
		sections = append(sections, styles.AttributionStyle.Render(rep.Attribution))
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return max(m.width-6, minCard)
}

func (m *Model) renderHeader(rep *report.Report) string {
	title := styles.TitleStyle.Render(rep.Title)
	subtitle := styles.SubTitleStyle.Render(rep.Subtitle)

	meta := fmt.Sprintf("Generated %s in %s · zero baseline: %s",
		humanize.Time(rep.GeneratedAt), rep.Duration.Round(time.Millisecond), rep.Policy)
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, styles.HelpStyle.Render(meta), "")
}

func (m *Model) renderFatal(err error) string {
	rows := []string{
		styles.ErrorTextStyle.Bold(true).Render("✗ Report could not be built"),
		"",
		err.Error(),
		"",
		styles.HelpStyle.Render("Fix the input files and press r to rebuild."),
	}
	return styles.ErrorCardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderStaleBanner(err error) string {
	return styles.WarningTextStyle.Render(fmt.Sprintf("⚠ Last run failed, showing the previous report: %v", err))
}

func (m *Model) renderSummary(rep *report.Report) string {
	s := rep.Summary

	cards := []string{
		summaryCard("Revenue",
			"$"+humanize.CommafWithDigits(s.RevenueLast, 0),
			formatPct(s.RevenueChangePct)+" over the year",
			revenueValues(rep)),
		summaryCard("Energy delivered",
			humanize.CommafWithDigits(s.TotalEnergyKWh, 0)+" kWh",
			fmt.Sprintf("peak %s", s.PeakEnergyMonth),
			deliveryValues(rep)),
		summaryCard("Consumers",
			humanize.Comma(s.Consumers2024),
			formatPct(s.ConsumerGrowthPct)+" vs 2023",
			nil),
		summaryCard("Counties",
			fmt.Sprintf("%d ▲ %d ▼", s.CountiesGrowing, s.CountiesShrinking),
			topCountyLine(rep),
			nil),
	}

	// Two per row when the terminal is narrow.
	if m.width < 4*28 {
		return lipgloss.JoinVertical(lipgloss.Left,
			lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1]),
			lipgloss.JoinHorizontal(lipgloss.Top, cards[2], cards[3]),
		)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func summaryCard(title, value, detail string, spark []float64) string {
	rows := []string{
		styles.CardTitleStyle.Render(title),
		lipgloss.NewStyle().Bold(true).Render(value),
		styles.HelpStyle.Render(detail),
	}
	if line := components.RenderSparkline(spark, 20); line != "" {
		rows = append(rows, lipgloss.NewStyle().Foreground(styles.Primary).Render(line))
	}
	return styles.CardStyle.Width(26).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func topCountyLine(rep *report.Report) string {
	s := rep.Summary
	if s.TopCounty == "" {
		return fmt.Sprintf("%d undefined", s.CountiesUndefined)
	}
	return fmt.Sprintf("top %s %s", s.TopCounty, formatPct(s.TopCountyGrowth))
}

func formatPct(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%+.1f%%", v)
}

func revenueValues(rep *report.Report) []float64 {
	if !rep.Revenue.OK() {
		return nil
	}
	tr, _ := rep.Revenue.Figure.TraceNamed(charts.RevenueTraceName)
	return tr.Y
}

func deliveryValues(rep *report.Report) []float64 {
	if !rep.Delivery.OK() {
		return nil
	}
	tr, _ := rep.Delivery.Figure.TraceNamed(charts.DeliveryTraceName)
	return tr.Y
}

func (m *Model) renderFailedChart(title string, err error) string {
	rows := []string{
		styles.CardTitleStyle.Render(title),
		styles.ErrorTextStyle.Render("✗ Chart unavailable"),
		styles.HelpStyle.Render(err.Error()),
	}
	return styles.ErrorCardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderRevenue(res report.ChartResult) string {
	if !res.OK() {
		return m.renderFailedChart(charts.RevenueTitle, res.Err)
	}
	fig := res.Figure
	revenue, _ := fig.TraceNamed(charts.RevenueTraceName)
	growth, _ := fig.TraceNamed(charts.GrowthTraceName)

	plotWidth := max(m.cardWidth()-16, 20)
	left := components.RenderSeriesChart([]components.Series{
		{Name: revenue.Name, Values: revenue.Y, Color: components.RevenueSeriesColor},
	}, plotWidth, chartHeight, charts.RevenueAxisTitle)
	right := components.RenderSeriesChart([]components.Series{
		{Name: growth.Name, Values: growth.Y, Color: components.GrowthSeriesColor},
	}, plotWidth, chartHeight/2, charts.GrowthAxisTitle)

	legend := components.RenderLegend([]components.LegendItem{
		{Label: charts.RevenueTraceName, Color: styles.Revenue},
		{Label: charts.GrowthTraceName, Color: styles.Growth},
	})

	rows := []string{
		styles.CardTitleStyle.Render(figureTitle(fig)),
		left,
		"",
		right,
		styles.HelpStyle.Render(monthAxis(revenue.X)),
		legend,
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderDelivery(res report.ChartResult) string {
	if !res.OK() {
		return m.renderFailedChart(charts.DeliveryTitle, res.Err)
	}
	fig := res.Figure
	tr, _ := fig.TraceNamed(charts.DeliveryTraceName)

	rows := []string{
		styles.CardTitleStyle.Render(figureTitle(fig)),
		components.RenderBarChart(tr.Y, tr.X, m.cardWidth()-4, styles.Delivery),
		"",
		styles.HelpStyle.Render(charts.DeliveryTraceName),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (m *Model) renderGeographic(rep *report.Report) string {
	res := rep.Geographic
	if !res.OK() {
		return m.renderFailedChart(charts.GeographicTitle, res.Err)
	}
	fig := res.Figure
	mapWidth := max(m.cardWidth()-4, 20)

	meta := fig.Meta
	plotted := 0
	if len(fig.Data) > 0 {
		plotted = len(fig.Data[0].Locations)
	}
	counts := fmt.Sprintf("%d plotted · %d without boundary · %d undefined growth",
		plotted, len(meta.Dropped), len(meta.Undefined))

	source := fmt.Sprintf("Boundaries: %s (%d counties, fetched %s)",
		rep.Boundaries.Source, rep.Boundaries.Counties, humanize.Time(rep.Boundaries.FetchedAt))
	sourceStyle := styles.HelpStyle
	if rep.Boundaries.Stale {
		source += " · stale"
		sourceStyle = styles.WarningTextStyle
	}

	rows := []string{
		styles.CardTitleStyle.Render(figureTitle(fig)),
		components.RenderCountyMap(fig, mapWidth, mapHeight),
		"",
		components.RenderColorBar(fig, mapWidth),
		styles.HelpStyle.Render(counts),
		sourceStyle.Render(source),
	}
	return styles.CardStyle.Width(m.cardWidth()).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// monthAxis lists the category labels under a chart, first to last.
func monthAxis(months []string) string {
	if len(months) == 0 {
		return ""
	}
	return strings.Join(months, " ")
}

func figureTitle(fig *charts.Figure) string {
	if fig.Layout.Title == nil {
		return string(fig.Meta.Kind)
	}
	return fig.Layout.Title.Text
}
