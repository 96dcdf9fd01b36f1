package charts

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/j-veylop/growth-dashboard-tui/internal/config"
	"github.com/j-veylop/growth-dashboard-tui/internal/models"
)

// Chart and trace labels.
const (
	RevenueTitle      = "2024 Revenue"
	RevenueTraceName  = "Monthly Revenue (USD)"
	GrowthTraceName   = "Revenue Growth (%)"
	RevenueAxisTitle  = "Revenue (USD)"
	GrowthAxisTitle   = "Revenue Growth (%)"
	DeliveryTitle     = "Energy Delivered Over Time"
	DeliveryTraceName = "Energy Delivered (kWh)"
	GeographicTitle   = "Customer Growth Percentage by County in Texas (2023-2024)"
	GeographicZLabel  = "Customer Growth %"
	LegendTitle       = "Metrics"
)

const (
	traceScatter    = "scatter"
	traceChoropleth = "choropleth"
	modeLineMarkers = "lines+markers"
	axisCategory    = "category"
	tickAngle       = -45
	lineWidth       = 2
	markerSize      = 6
)

func baseLayout(theme config.Theme, title string) Layout {
	return Layout{
		Title:    &Title{Text: title, Font: &Font{Color: theme.FontColor}},
		Font:     &Font{Color: theme.FontColor},
		Colorway: cloneStrings(theme.Palette),
	}
}

// BuildRevenue builds the dual-axis revenue chart: monthly revenue on the
// left axis and revenue growth on an overlaid right axis. Both series use
// the Month column as categories in row order.
func BuildRevenue(rows []models.RevenueRecord, theme config.Theme) Figure {
	months := make([]string, len(rows))
	revenue := make([]float64, len(rows))
	growth := make([]float64, len(rows))
	for i, r := range rows {
		months[i] = r.Month
		revenue[i] = r.MonthlyRevenueUSD
		growth[i] = r.RevenueGrowthPct
	}

	layout := baseLayout(theme, RevenueTitle)
	layout.Title.X = 0.5
	layout.XAxis = &Axis{Title: &Title{Text: ""}, Type: axisCategory, TickAngle: tickAngle}
	layout.YAxis = &Axis{Title: &Title{Text: RevenueAxisTitle}}
	layout.YAxis2 = &Axis{Title: &Title{Text: GrowthAxisTitle}, Overlaying: "y", Side: "right"}
	layout.Legend = &Legend{
		Title:   &Title{Text: LegendTitle},
		YAnchor: "top",
		Y:       0.99,
		XAnchor: "left",
		X:       0.01,
	}

	return Figure{
		Data: []Trace{
			{
				Type:   traceScatter,
				Name:   RevenueTraceName,
				Mode:   modeLineMarkers,
				X:      months,
				Y:      revenue,
				Line:   &Line{Color: theme.RevenueColor, Width: lineWidth},
				Marker: &Marker{Size: markerSize},
			},
			{
				Type:   traceScatter,
				Name:   GrowthTraceName,
				Mode:   modeLineMarkers,
				X:      cloneStrings(months),
				Y:      growth,
				YAxis:  "y2",
				Line:   &Line{Color: theme.GrowthColor, Width: lineWidth, Dash: "dash"},
				Marker: &Marker{Size: markerSize},
			},
		},
		Layout: layout,
		Meta:   Meta{Kind: KindRevenue, SourceRows: len(rows)},
	}
}

// BuildDelivery builds the single-series energy delivery chart.
func BuildDelivery(rows []models.EnergyRecord, theme config.Theme) Figure {
	months := make([]string, len(rows))
	energy := make([]float64, len(rows))
	for i, r := range rows {
		months[i] = r.Month
		energy[i] = r.EnergyDeliveredKWh
	}

	layout := baseLayout(theme, DeliveryTitle)
	layout.XAxis = &Axis{Type: axisCategory, TickAngle: tickAngle}
	layout.YAxis = &Axis{Title: &Title{Text: DeliveryTraceName, Font: &Font{Size: 12}}}
	layout.Legend = &Legend{Title: &Title{Text: LegendTitle}}
	layout.Width = 500
	layout.Height = 500

	return Figure{
		Data: []Trace{
			{
				Type:   traceScatter,
				Name:   DeliveryTraceName,
				Mode:   modeLineMarkers,
				X:      months,
				Y:      energy,
				Line:   &Line{Color: theme.EnergyColor, Width: lineWidth},
				Marker: &Marker{Size: markerSize},
			},
		},
		Layout: layout,
		Meta:   Meta{Kind: KindDelivery, SourceRows: len(rows)},
	}
}

// BuildGeographic builds the county choropleth of customer growth. Rows
// whose FIPS code is not in the reference, and rows with undefined growth,
// are left off the map and listed in Meta. The map still builds when no row
// matches.
func BuildGeographic(rows []models.CountyRecord, ref *models.BoundaryReference, theme config.Theme) (Figure, error) {
	if ref == nil {
		return Figure{}, ErrNoBoundaries
	}

	var (
		locations []string
		z         []float64
		names     []string
		dropped   []string
		undefined []string
		droppedAt []int
		undefAt   []int
		centers   [][2]float64
		bounds    *Bounds
	)

	for i, row := range rows {
		if !row.HasGrowth() {
			undefined = append(undefined, row.FIPS)
			undefAt = append(undefAt, i)
			continue
		}
		b, ok := ref.Lookup(row.FIPS)
		if !ok {
			dropped = append(dropped, row.FIPS)
			droppedAt = append(droppedAt, i)
			continue
		}
		locations = append(locations, row.FIPS)
		z = append(z, row.CustomerGrowthPct)
		names = append(names, row.County)
		lon, lat := b.Center()
		centers = append(centers, [2]float64{lon, lat})
		bounds = bounds.extend(b)
	}

	layout := baseLayout(theme, GeographicTitle)
	layout.Geo = &Geo{
		Scope:      "usa",
		Projection: &Projection{Type: "albers usa", Scale: 6},
		FitBounds:  "locations",
		Visible:    boolPtr(false),
		Resolution: 50,
	}
	layout.Width = 300
	layout.Height = 300
	layout.Margin = &Margin{R: 0, T: 100, L: 0, B: 0}

	return Figure{
		Data: []Trace{
			{
				Type:          traceChoropleth,
				Name:          GeographicZLabel,
				GeoJSON:       geoJSONSource(ref),
				FeatureIDKey:  "id",
				Locations:     locations,
				Z:             z,
				Text:          names,
				HoverTemplate: "<b>%{text}</b><br>" + GeographicZLabel + "=%{z:.2f}<extra></extra>",
				ColorScale:    NewColorScale(theme.ColorScale...),
				ColorBar:      &ColorBar{Title: &Title{Text: "%"}},
			},
		},
		Layout: layout,
		Meta: Meta{
			Kind:       KindGeographic,
			SourceRows: len(rows),
			Dropped:       dropped,
			Undefined:     undefined,
			DroppedRows:   droppedAt,
			UndefinedRows: undefAt,
			Bounds:        bounds,
			Centers:       centers,
		},
	}, nil
}

// geoJSONSource returns the reference's URL when Plotly can fetch it, and
// the inline document otherwise.
func geoJSONSource(ref *models.BoundaryReference) any {
	remote := strings.HasPrefix(ref.Source, "http://") || strings.HasPrefix(ref.Source, "https://")
	if remote || len(ref.Raw) == 0 {
		return ref.Source
	}
	return json.RawMessage(bytes.Clone(ref.Raw))
}

// extend returns the union of b and the boundary box. A nil receiver starts a new box.
func (b *Bounds) extend(box models.Boundary) *Bounds {
	if b == nil {
		return &Bounds{MinLon: box.MinLon, MinLat: box.MinLat, MaxLon: box.MaxLon, MaxLat: box.MaxLat}
	}
	return &Bounds{
		MinLon: min(b.MinLon, box.MinLon),
		MinLat: min(b.MinLat, box.MinLat),
		MaxLon: max(b.MaxLon, box.MaxLon),
		MaxLat: max(b.MaxLat, box.MaxLat),
	}
}
