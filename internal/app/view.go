package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"

	"github.com/j-veylop/growth-dashboard-tui/internal/ui/styles"
)

// chromeHeight is the number of lines taken by the tab bar and status bar.
const chromeHeight = 3

// Styles holds the styles of the application frame.
type Styles struct {
	TabBar      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	StatusBar   lipgloss.Style
	Content     lipgloss.Style
	Title       lipgloss.Style
	Subtle      lipgloss.Style
	Toast       lipgloss.Style

	Notification map[NotificationType]lipgloss.Style
}

// DefaultStyles returns the frame styles built from the dashboard palette.
func DefaultStyles() Styles {
	return Styles{
		TabBar: lipgloss.NewStyle().
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(styles.Subtle),
		ActiveTab:   lipgloss.NewStyle().Bold(true).Foreground(styles.Primary).Padding(0, 2),
		InactiveTab: lipgloss.NewStyle().Foreground(styles.TextMuted).Padding(0, 2),
		StatusBar:   lipgloss.NewStyle().Foreground(styles.TextSecondary).Padding(0, 1),
		Content:     lipgloss.NewStyle().Padding(1, 2),
		Title:       lipgloss.NewStyle().Bold(true).Foreground(styles.Primary),
		Subtle:      lipgloss.NewStyle().Foreground(styles.TextMuted),
		Toast:       styles.ToastStyle,
		Notification: map[NotificationType]lipgloss.Style{
			NotificationSuccess: lipgloss.NewStyle().Foreground(styles.Success),
			NotificationError:   lipgloss.NewStyle().Foreground(styles.Error).Bold(true),
			NotificationWarning: lipgloss.NewStyle().Foreground(styles.Warning),
			NotificationInfo:    lipgloss.NewStyle().Foreground(styles.Info),
			NotificationLoading: lipgloss.NewStyle().Foreground(styles.Info),
		},
	}
}

var notificationGlyphs = map[NotificationType]string{
	NotificationSuccess: "✓",
	NotificationError:   "✗",
	NotificationWarning: "⚠",
	NotificationInfo:    "•",
}

// View renders the tab bar, the active tab, the status bar and any overlays.
func (m *Model) View() string {
	if !m.ready {
		return m.styles.Content.Render(m.spinner.View() + " Loading...")
	}

	body := m.renderPlaceholder()
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		body = m.tabs[m.activeTab].View()
	}

	screen := lipgloss.JoinVertical(lipgloss.Left, m.renderNavbar(), body)
	screen = fitHeight(screen, m.height-1) + "\n" + m.renderStatusBar()

	if m.showHelp {
		help := m.renderHelp()
		x := (m.width - lipgloss.Width(help)) / 2
		y := (m.height - lipgloss.Height(help)) / 2
		screen = placeOverlay(screen, help, x, y)
	}

	if toasts := m.renderNotifications(); toasts != "" {
		x := m.width - lipgloss.Width(toasts) - 2
		screen = placeOverlay(screen, toasts, x, 2)
	}

	return screen
}

func (m *Model) renderNavbar() string {
	tabs := make([]string, 0, len(m.tabNames))
	for i, name := range m.tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if TabID(i) == m.activeTab {
			tabs = append(tabs, m.styles.ActiveTab.Render("▸ "+label))
		} else {
			tabs = append(tabs, m.styles.InactiveTab.Render("  "+label))
		}
	}
	return m.styles.TabBar.Width(m.width).Render(lipgloss.JoinHorizontal(lipgloss.Top, tabs...))
}

// renderStatusBar shows the key hints on the left and the freshness of the
// report on the right.
func (m *Model) renderStatusBar() string {
	bindings := m.keymap.ShortHelp()
	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		bindings = append(m.tabs[m.activeTab].ShortHelp(), bindings...)
	}
	left := m.help.ShortHelpView(bindings)

	var right []string
	if m.services != nil && m.services.Watching() {
		right = append(right, "watching")
	}
	if updated := m.state.GetLastUpdated(); !updated.IsZero() {
		right = append(right, "updated "+humanize.Time(updated))
	}
	status := strings.Join(right, " · ")

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		return m.styles.StatusBar.Render(ansi.Truncate(left, max(m.width-2, 0), "…"))
	}
	return m.styles.StatusBar.Render(left + strings.Repeat(" ", gap) + m.styles.Subtle.Render(status))
}

func (m *Model) renderNotifications() string {
	notifications := m.state.GetNotifications()
	if len(notifications) == 0 {
		return ""
	}

	toasts := make([]string, 0, len(notifications))
	for _, n := range notifications {
		glyph := notificationGlyphs[n.Type]
		if n.Type == NotificationLoading {
			glyph = m.spinner.View()
		}
		line := m.styles.Notification[n.Type].Render(glyph + " " + n.Message)
		toasts = append(toasts, m.styles.Toast.Render(line))
	}
	return lipgloss.JoinVertical(lipgloss.Right, toasts...)
}

func (m *Model) renderHelp() string {
	sections := []string{
		m.styles.Title.Render("Keyboard Shortcuts"),
		"",
		m.help.FullHelpView(m.keymap.FullHelp()),
	}

	if int(m.activeTab) < len(m.tabs) && m.tabs[m.activeTab] != nil {
		if groups := m.tabs[m.activeTab].FullHelp(); len(groups) > 0 {
			sections = append(sections,
				"",
				m.styles.Title.Render(m.tabNames[m.activeTab]),
				m.help.FullHelpView(groups),
			)
		}
	}

	sections = append(sections, "", m.styles.Subtle.Render("Press ? or esc to close"))
	return styles.HelpPanelStyle.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) renderPlaceholder() string {
	return m.styles.Content.Render(fmt.Sprintf("%s\n\n%s",
		m.tabNames[m.activeTab],
		m.styles.Subtle.Render("This tab is not available."),
	))
}

// fitHeight pads or cuts s to exactly n lines.
func fitHeight(s string, n int) string {
	lines := strings.Split(s, "\n")
	if n <= 0 {
		return ""
	}
	if len(lines) > n {
		lines = lines[:n]
	}
	for len(lines) < n {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// placeOverlay draws overlay over base with its top-left corner at (x, y).
// Cells of base outside the overlay are kept, ANSI styling included.
func placeOverlay(base, overlay string, x, y int) string {
	x, y = max(x, 0), max(y, 0)
	baseLines := strings.Split(base, "\n")
	width := lipgloss.Width(overlay)

	for i, line := range strings.Split(overlay, "\n") {
		row := y + i
		if row >= len(baseLines) {
			break
		}
		under := baseLines[row]
		left := ansi.Truncate(under, x, "")
		if pad := x - lipgloss.Width(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		baseLines[row] = left + line + ansi.TruncateLeft(under, x+width, "")
	}
	return strings.Join(baseLines, "\n")
}
