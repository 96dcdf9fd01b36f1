package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Theme is the report styling shared by every chart and both renderers.
// It is passed by value; callers must not modify the slices in place.
type Theme struct {
	FontColor  string   `yaml:"font_color"`
	Palette    []string `yaml:"palette"`
	ColorScale []string `yaml:"color_scale"`

	RevenueColor string `yaml:"revenue_color"`
	GrowthColor  string `yaml:"growth_color"`
	EnergyColor  string `yaml:"energy_color"`

	Attribution string `yaml:"attribution"`
	Title       string `yaml:"title"`
	Subtitle    string `yaml:"subtitle"`
	Notes       string `yaml:"notes"`
}

const (
	paletteSize    = 6
	colorScaleSize = 3
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		FontColor:    "#fbfbfb",
		Palette:      []string{"#aae03e", "#bed626", "#d1cb09", "#e2c000", "#f1b300", "#ffa600"},
		ColorScale:   []string{"#aae03e", "#d9c600", "#ffa600"},
		RevenueColor: "#aae03e",
		GrowthColor:  "green",
		EnergyColor:  "#ffa600",
		Attribution:  "Helena C. Garry take-home assessment 01/20/2025",
		Title:        "Base Power Company",
		Subtitle:     "Growth Analysis",
		Notes:        defaultNotes,
	}
}

// LoadTheme reads a YAML theme file over the defaults. An empty path or a
// missing file yields the defaults.
func LoadTheme(path string) (Theme, error) {
	theme := DefaultTheme()
	if path == "" {
		return theme, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return theme, nil
	}
	if err != nil {
		return theme, fmt.Errorf("failed to read theme file: %w", err)
	}

	if err := yaml.Unmarshal(data, &theme); err != nil {
		return DefaultTheme(), fmt.Errorf("failed to parse theme file: %w", err)
	}

	if err := theme.Validate(); err != nil {
		return DefaultTheme(), fmt.Errorf("invalid theme %s: %w", path, err)
	}
	return theme, nil
}

// Validate checks swatch counts and color formats.
func (t Theme) Validate() error {
	if len(t.Palette) != paletteSize {
		return fmt.Errorf("palette must have %d colors, got %d", paletteSize, len(t.Palette))
	}
	if len(t.ColorScale) != colorScaleSize {
		return fmt.Errorf("color_scale must have %d colors, got %d", colorScaleSize, len(t.ColorScale))
	}
	for _, c := range append(append([]string{t.FontColor}, t.Palette...), t.ColorScale...) {
		if !hexColor.MatchString(c) {
			return fmt.Errorf("color %q is not a #rrggbb hex color", c)
		}
	}
	return nil
}

// Swatch returns palette entry i, wrapping around.
func (t Theme) Swatch(i int) string {
	if len(t.Palette) == 0 {
		return t.FontColor
	}
	if i < 0 {
		i = -i
	}
	return t.Palette[i%len(t.Palette)]
}

const defaultNotes = `## Key growth metrics overview

### Revenue Growth

**Why:**\
Captures the financial growth of the company, indicating success in monetizing services.

**Growth Indicator:**\
A consistent increase shows expanding customer base and/or higher revenue per customer.

### Total Energy Delivered to Customers

**Why:**\
Reflects the company's operational scale and ability to meet demand, as well as its ability to power customer homes.

**Growth Indicator:**\
An upward trend indicates expansion of the customer base and the production capacity of Base Power.

### Geographic Expansion

**Why:**\
Tracking which areas of Texas have seen higher customer base growth can help Base Power identify key factors
driving customer growth and leverage them in regions where growth has been slower.
If Base Power is expanding beyond its initial areas of operation, tracking new service regions or market entries
is also critical.

**Growth Indicator:**\
Increased number of customer households per county shows growing market presence.
`
