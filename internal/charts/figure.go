// Package charts builds declarative chart specifications from loaded tables.
//
// A Figure follows the Plotly figure schema (data traces plus layout) so it
// can be handed to Plotly.js unchanged, and it is also what the terminal
// renderer draws from. Builders are pure: they copy what they read and the
// returned Figure shares no memory with the inputs.
package charts

import (
	"encoding/json"
	"errors"
	"math"
)

// ErrNoBoundaries is returned by BuildGeographic when no boundary reference is available.
var ErrNoBoundaries = errors.New("no county boundary reference available")

// Kind identifies which builder produced a figure.
type Kind string

// Figure kinds.
const (
	KindRevenue    Kind = "revenue"
	KindDelivery   Kind = "delivery"
	KindGeographic Kind = "geographic"
)

// Figure is a complete chart specification.
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
	Meta   Meta    `json:"-"`
}

// Meta carries build information that is not part of the rendered chart.
type Meta struct {
	Kind       Kind
	SourceRows int
	// Dropped lists FIPS codes with no matching boundary, in input order.
	Dropped []string
	// Undefined lists FIPS codes whose growth is NaN or infinite.
	Undefined []string
	// DroppedRows and UndefinedRows hold the input row indices behind
	// Dropped and Undefined. FIPS codes may repeat across rows.
	DroppedRows   []int
	UndefinedRows []int
	// Bounds is the union of the plotted locations' boxes. Nil when nothing was plotted.
	Bounds *Bounds
	// Centers holds the lon/lat center of each plotted location, in trace order.
	Centers [][2]float64
}

// Bounds is a lon/lat bounding box.
type Bounds struct {
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Trace is one data series. Scatter fields and choropleth fields share the
// struct; unused ones are omitted from JSON.
type Trace struct {
	Type string    `json:"type"`
	Name string    `json:"name,omitempty"`
	Mode string    `json:"mode,omitempty"`
	X    []string  `json:"x,omitempty"`
	Y    []float64 `json:"y,omitempty"`

	YAxis  string  `json:"yaxis,omitempty"`
	Line   *Line   `json:"line,omitempty"`
	Marker *Marker `json:"marker,omitempty"`

	// GeoJSON is a URL string or an inline GeoJSON document.
	GeoJSON       any        `json:"geojson,omitempty"`
	FeatureIDKey  string     `json:"featureidkey,omitempty"`
	Locations     []string   `json:"locations,omitempty"`
	Z             []float64  `json:"z,omitempty"`
	Text          []string   `json:"text,omitempty"`
	HoverTemplate string     `json:"hovertemplate,omitempty"`
	ColorScale    ColorScale `json:"colorscale,omitempty"`
	ColorBar      *ColorBar  `json:"colorbar,omitempty"`
}

// MarshalJSON writes NaN and infinite values of Y and Z as null, which
// Plotly draws as a gap.
func (t Trace) MarshalJSON() ([]byte, error) {
	type plain Trace
	return json.Marshal(struct {
		plain
		Y []*float64 `json:"y,omitempty"`
		Z []*float64 `json:"z,omitempty"`
	}{plain(t), nullable(t.Y), nullable(t.Z)})
}

func nullable(values []float64) []*float64 {
	if len(values) == 0 {
		return nil
	}
	out := make([]*float64, len(values))
	for i, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out[i] = &v
		}
	}
	return out
}

// Line styles a scatter line.
type Line struct {
	Color string `json:"color,omitempty"`
	Width int    `json:"width,omitempty"`
	Dash  string `json:"dash,omitempty"`
}

// Marker styles scatter markers.
type Marker struct {
	Size int `json:"size,omitempty"`
}

// ColorBar is the legend of a choropleth.
type ColorBar struct {
	Title *Title `json:"title,omitempty"`
}

// Layout is the chart-wide styling.
type Layout struct {
	Title    *Title   `json:"title,omitempty"`
	Font     *Font    `json:"font,omitempty"`
	Colorway []string `json:"colorway,omitempty"`
	XAxis    *Axis    `json:"xaxis,omitempty"`
	YAxis    *Axis    `json:"yaxis,omitempty"`
	YAxis2   *Axis    `json:"yaxis2,omitempty"`
	Legend   *Legend  `json:"legend,omitempty"`
	Geo      *Geo     `json:"geo,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Margin   *Margin  `json:"margin,omitempty"`
}

// Title is a text label with optional placement.
type Title struct {
	Text string  `json:"text"`
	X    float64 `json:"x,omitempty"`
	Font *Font   `json:"font,omitempty"`
}

// Font styles text.
type Font struct {
	Color string `json:"color,omitempty"`
	Size  int    `json:"size,omitempty"`
}

// Axis configures a cartesian axis.
type Axis struct {
	Title      *Title `json:"title,omitempty"`
	Type       string `json:"type,omitempty"`
	TickAngle  int    `json:"tickangle,omitempty"`
	Overlaying string `json:"overlaying,omitempty"`
	Side       string `json:"side,omitempty"`
}

// Legend places the legend box.
type Legend struct {
	Title   *Title  `json:"title,omitempty"`
	X       float64 `json:"x,omitempty"`
	Y       float64 `json:"y,omitempty"`
	XAnchor string  `json:"xanchor,omitempty"`
	YAnchor string  `json:"yanchor,omitempty"`
}

// Geo configures the map of a choropleth.
type Geo struct {
	Scope      string      `json:"scope,omitempty"`
	Projection *Projection `json:"projection,omitempty"`
	FitBounds  string      `json:"fitbounds,omitempty"`
	Visible    *bool       `json:"visible,omitempty"`
	Resolution int         `json:"resolution,omitempty"`
}

// Projection is a map projection.
type Projection struct {
	Type  string  `json:"type,omitempty"`
	Scale float64 `json:"scale,omitempty"`
}

// Margin is the plot margin in pixels. Zero values are kept in JSON.
type Margin struct {
	R int `json:"r"`
	T int `json:"t"`
	L int `json:"l"`
	B int `json:"b"`
}

// TraceNamed returns the first trace with the given name.
func (f *Figure) TraceNamed(name string) (Trace, bool) {
	for _, tr := range f.Data {
		if tr.Name == name {
			return tr, true
		}
	}
	return Trace{}, false
}

func boolPtr(v bool) *bool {
	return &v
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
