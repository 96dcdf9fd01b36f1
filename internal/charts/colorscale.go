package charts

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// ColorStop is one point of a continuous color scale.
type ColorStop struct {
	Pos   float64
	Color string
}

// MarshalJSON writes the stop in Plotly's [position, color] form.
func (s ColorStop) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{s.Pos, s.Color})
}

// ColorScale is an ordered list of stops from 0 to 1.
type ColorScale []ColorStop

// NewColorScale spreads colors evenly over [0, 1].
func NewColorScale(colors ...string) ColorScale {
	switch len(colors) {
	case 0:
		return nil
	case 1:
		return ColorScale{{Pos: 0, Color: colors[0]}, {Pos: 1, Color: colors[0]}}
	}
	scale := make(ColorScale, len(colors))
	last := float64(len(colors) - 1)
	for i, c := range colors {
		scale[i] = ColorStop{Pos: float64(i) / last, Color: c}
	}
	return scale
}

// At returns the hex color at t, clamped to [0, 1]. Colors between stops
// are blended in RGB. Stops that are not hex colors are returned as-is for
// the segment they start.
func (s ColorScale) At(t float64) string {
	if len(s) == 0 {
		return ""
	}
	if math.IsNaN(t) || t <= s[0].Pos {
		return s[0].Color
	}
	if t >= s[len(s)-1].Pos {
		return s[len(s)-1].Color
	}

	for i := 1; i < len(s); i++ {
		lo, hi := s[i-1], s[i]
		if t > hi.Pos {
			continue
		}
		span := hi.Pos - lo.Pos
		if span <= 0 {
			return hi.Color
		}
		c1, err1 := colorful.Hex(lo.Color)
		c2, err2 := colorful.Hex(hi.Color)
		if err1 != nil || err2 != nil {
			return lo.Color
		}
		return c1.BlendRgb(c2, (t-lo.Pos)/span).Clamped().Hex()
	}
	return s[len(s)-1].Color
}

// Normalize maps v into [0, 1] given the data range. A degenerate range maps to 0.5.
func Normalize(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0.5
	}
	return (v - lo) / (hi - lo)
}

// Validate checks that the scale has at least two stops in ascending order
// from 0 to 1.
func (s ColorScale) Validate() error {
	if len(s) < 2 {
		return fmt.Errorf("color scale needs at least 2 stops, got %d", len(s))
	}
	if s[0].Pos != 0 || s[len(s)-1].Pos != 1 {
		return fmt.Errorf("color scale must start at 0 and end at 1")
	}
	for i := 1; i < len(s); i++ {
		if s[i].Pos < s[i-1].Pos {
			return fmt.Errorf("color scale stops out of order at index %d", i)
		}
	}
	return nil
}
