package info

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/growth-dashboard-tui/internal/models"
	"github.com/j-veylop/growth-dashboard-tui/internal/ui/styles"
	"github.com/j-veylop/growth-dashboard-tui/internal/version"
)

// View renders the notes tab.
func (m *Model) View() string {
	sections := []string{
		m.renderTitle(),
		m.renderNotesCard(),
		m.renderRunsCard(),
		m.renderConfigCard(),
		m.renderAboutCard(),
	}

	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))

	return styles.DocStyle.
		Width(m.width).
		Height(m.height).
		Render(m.viewport.View())
}

func (m *Model) cardWidth() int {
	return min(max(m.width-6, 50), 100)
}

func (m *Model) renderTitle() string {
	title := styles.TitleStyle.Render("Notes")
	subtitle := styles.HelpStyle.Render("Growth notes, recent runs and configuration")
	return lipgloss.JoinVertical(lipgloss.Left, title, subtitle, "")
}

func (m *Model) renderNotesCard() string {
	width := m.cardWidth()
	notes := strings.TrimSpace(m.renderNotes(width - 4))
	if notes == "" {
		notes = styles.HelpStyle.Render("No notes configured")
	}
	return styles.CardStyle.Width(width).Render(notes)
}

func (m *Model) renderRunsCard() string {
	rows := []string{styles.CardTitleStyle.Render("Recent Runs"), ""}

	runs := m.state.GetRuns()
	if len(runs) == 0 {
		rows = append(rows, styles.HelpStyle.Render("No runs recorded yet"))
	}
	for _, r := range runs {
		rows = append(rows, runLine(r))
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func runLine(r models.RunRecord) string {
	when := fmt.Sprintf("%-16s %6s", humanize.Time(r.GeneratedAt), r.Duration.Round(time.Millisecond))

	switch {
	case r.Err != "":
		return styles.ErrorTextStyle.Render("✗ ") + when + "  " + styles.ErrorTextStyle.Render(r.Err)
	case len(r.Failed) > 0:
		return styles.WarningTextStyle.Render("⚠ ") + when + "  " +
			styles.WarningTextStyle.Render("failed: "+strings.Join(r.Failed, ", "))
	default:
		detail := fmt.Sprintf("%d/%d/%d rows · %d plotted · %d dropped",
			r.RevenueRows, r.EnergyRows, r.CountyRows, r.Plotted, r.Dropped)
		return styles.SuccessTextStyle.Render("✓ ") + when + "  " + styles.HelpStyle.Render(detail)
	}
}

func (m *Model) renderConfigCard() string {
	rows := []string{styles.CardTitleStyle.Render("Configuration"), ""}

	cfg := m.config
	if cfg == nil {
		rows = append(rows, styles.HelpStyle.Render("Configuration not loaded"))
	} else {
		rows = append(rows,
			configRow("Revenue", cfg.RevenuePath),
			configRow("Energy", cfg.EnergyPath),
			configRow("Counties", cfg.CountiesPath),
			configRow("Boundaries", cfg.GeoJSONURL),
			configRow("Boundary cache", fmt.Sprintf("%s (ttl %s)", cfg.DatabasePath, cfg.GeoCacheTTL)),
			configRow("Zero baseline", cfg.ZeroPolicy.String()),
			configRow("Theme", orNone(cfg.ThemePath)),
			configRow("Export", cfg.ReportPath),
			configRow("Watch files", onOff(cfg.WatchData)),
			configRow("Notifications", onOff(cfg.DesktopNotify)),
			configRow("Log file", orNone(cfg.LogFile)),
		)
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}

func configRow(label, value string) string {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Foreground(styles.TextMuted)

	valueStyle := lipgloss.NewStyle().
		Foreground(styles.TextPrimary)

	return labelStyle.Render(label+":") + " " + valueStyle.Render(value)
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func (m *Model) renderAboutCard() string {
	rows := []string{
		styles.CardTitleStyle.Render("About Growth Dashboard"),
		"",
		configRow("Version", version.GetVersion()),
		configRow("Build date", version.GetDate()),
		configRow("Commit", version.GetCommit()),
		configRow("Go", runtime.Version()),
		configRow("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)),
	}

	return styles.CardStyle.Width(m.cardWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, rows...),
	)
}
