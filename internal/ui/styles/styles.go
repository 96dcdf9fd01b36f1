// Package styles defines the visual styling for the application.
package styles

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Color definitions for the dashboard theme.
var (
	// Primary colors
	Primary   = lipgloss.Color("#ffa600") // Amber
	Secondary = lipgloss.Color("#58508d") // Indigo
	Subtle    = lipgloss.Color("240")     // Gray

	// Series colors, matching the default chart colorway.
	Revenue  = lipgloss.Color("#003f5c")
	Growth   = lipgloss.Color("#bc5090")
	Delivery = lipgloss.Color("#ff6361")

	// Status colors
	Success = lipgloss.Color("42")  // Green
	Error   = lipgloss.Color("196") // Red
	Warning = lipgloss.Color("220") // Yellow
	Info    = lipgloss.Color("39")  // Blue

	// Background colors
	BgDark   = lipgloss.Color("235")
	BgAccent = lipgloss.Color("236")

	// Text colors
	TextPrimary   = lipgloss.Color("252")
	TextSecondary = lipgloss.Color("245")
	TextMuted     = lipgloss.Color("240")

	// ToastStyle for floating notifications.
	ToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1).
			MarginBottom(1)
)

// TitleStyle is used for main headings.
var TitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// SubTitleStyle is used for section headings.
var SubTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Secondary).
	MarginBottom(1)

// AttributionStyle renders the small line above the page title.
var AttributionStyle = lipgloss.NewStyle().
	Foreground(TextMuted).
	Italic(true)

// DocStyle provides consistent document margins.
var DocStyle = lipgloss.NewStyle().
	Margin(1, 2).
	Padding(0, 1)

// CardStyle creates a bordered card container.
var CardStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(Subtle).
	Padding(1, 2).
	MarginBottom(1)

// ErrorCardStyle is a card for charts that could not be built.
var ErrorCardStyle = CardStyle.
	BorderForeground(Error)

// CardTitleStyle styles card headers.
var CardTitleStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	MarginBottom(1)

// FocusedStyle is used for focused input elements.
var FocusedStyle = lipgloss.NewStyle().
	Foreground(Primary).
	Bold(true)

// HelpStyle is the base style for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// HelpPanelStyle creates the help overlay panel.
var HelpPanelStyle = lipgloss.NewStyle().
	Border(lipgloss.DoubleBorder()).
	BorderForeground(Primary).
	Padding(1, 3).
	Background(BgDark)

// TableHeaderStyle styles table headers.
var TableHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(Primary).
	BorderStyle(lipgloss.NormalBorder()).
	BorderBottom(true).
	BorderForeground(Subtle)

// TableCellStyle styles table cells.
var TableCellStyle = lipgloss.NewStyle().
	Padding(0, 1)

// TableSelectedStyle styles selected table rows.
var TableSelectedStyle = lipgloss.NewStyle().
	Background(BgAccent).
	Foreground(TextPrimary).
	Bold(true)

// GrowthPositiveStyle for counties and months that grew.
var GrowthPositiveStyle = lipgloss.NewStyle().
	Foreground(Success)

// GrowthNegativeStyle for counties and months that shrank.
var GrowthNegativeStyle = lipgloss.NewStyle().
	Foreground(Error)

// GrowthFlatStyle for no change.
var GrowthFlatStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// GrowthUndefinedStyle for growth that could not be computed.
var GrowthUndefinedStyle = lipgloss.NewStyle().
	Foreground(Subtle).
	Italic(true)

// ErrorTextStyle for error messages.
var ErrorTextStyle = lipgloss.NewStyle().
	Foreground(Error)

// SuccessTextStyle for success messages.
var SuccessTextStyle = lipgloss.NewStyle().
	Foreground(Success)

// WarningTextStyle for warning messages.
var WarningTextStyle = lipgloss.NewStyle().
	Foreground(Warning)

// InfoTextStyle for info messages.
var InfoTextStyle = lipgloss.NewStyle().
	Foreground(Info)

// GetGrowthStyle returns the style for a growth percentage.
func GetGrowthStyle(pct float64) lipgloss.Style {
	switch {
	case math.IsNaN(pct) || math.IsInf(pct, 0):
		return GrowthUndefinedStyle
	case pct > 0:
		return GrowthPositiveStyle
	case pct < 0:
		return GrowthNegativeStyle
	default:
		return GrowthFlatStyle
	}
}

// CenterBoth centers content both horizontally and vertically.
func CenterBoth(content string, width, height int) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}
