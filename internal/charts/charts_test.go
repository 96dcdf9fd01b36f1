package charts

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/j-veylop/growth-dashboard-tui/internal/config"
	"github.com/j-veylop/growth-dashboard-tui/internal/models"
)

func revenueRows() []models.RevenueRecord {
	return []models.RevenueRecord{
		{Month: "Jan", MonthlyRevenueUSD: 100, RevenueGrowthPct: 0},
		{Month: "Feb", MonthlyRevenueUSD: 120, RevenueGrowthPct: 20},
		{Month: "Mar", MonthlyRevenueUSD: 90, RevenueGrowthPct: -25},
	}
}

func testReference() *models.BoundaryReference {
	return models.NewBoundaryReference("https://example.test/counties.json", time.Unix(0, 0), []models.Boundary{
		{FIPS: "48453", Name: "Travis", MinLon: -98.2, MinLat: 30.0, MaxLon: -97.3, MaxLat: 30.6},
		{FIPS: "48201", Name: "Harris", MinLon: -95.9, MinLat: 29.5, MaxLon: -94.9, MaxLat: 30.2},
	})
}

func TestBuildRevenue(t *testing.T) {
	theme := config.DefaultTheme()
	fig := BuildRevenue(revenueRows(), theme)

	if len(fig.Data) != 2 {
		t.Fatalf("expected 2 traces, got %d", len(fig.Data))
	}

	rev, ok := fig.TraceNamed(RevenueTraceName)
	if !ok {
		t.Fatal("revenue trace missing")
	}
	growth, ok := fig.TraceNamed(GrowthTraceName)
	if !ok {
		t.Fatal("growth trace missing")
	}

	wantX := []string{"Jan", "Feb", "Mar"}
	if diff := cmp.Diff(wantX, rev.X); diff != "" {
		t.Errorf("revenue categories mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantX, growth.X); diff != "" {
		t.Errorf("growth categories mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{100, 120, 90}, rev.Y); diff != "" {
		t.Errorf("revenue values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0, 20, -25}, growth.Y); diff != "" {
		t.Errorf("growth values mismatch (-want +got):\n%s", diff)
	}

	if rev.YAxis != "" {
		t.Errorf("revenue should use the primary axis, got %q", rev.YAxis)
	}
	if growth.YAxis != "y2" {
		t.Errorf("growth should use y2, got %q", growth.YAxis)
	}
	if growth.Line.Dash != "dash" {
		t.Errorf("growth line dash = %q, want dash", growth.Line.Dash)
	}
	if fig.Layout.YAxis2 == nil || fig.Layout.YAxis2.Overlaying != "y" || fig.Layout.YAxis2.Side != "right" {
		t.Errorf("secondary axis not overlaid on the right: %+v", fig.Layout.YAxis2)
	}
	if fig.Layout.XAxis.Type != "category" {
		t.Errorf("x axis type = %q, want category", fig.Layout.XAxis.Type)
	}
	if fig.Layout.Font.Color != theme.FontColor {
		t.Errorf("font color = %q, want %q", fig.Layout.Font.Color, theme.FontColor)
	}
	if diff := cmp.Diff(theme.Palette, fig.Layout.Colorway); diff != "" {
		t.Errorf("colorway mismatch (-want +got):\n%s", diff)
	}
	if fig.Meta.Kind != KindRevenue || fig.Meta.SourceRows != 3 {
		t.Errorf("unexpected meta: %+v", fig.Meta)
	}
}

func TestBuildRevenue_Empty(t *testing.T) {
	fig := BuildRevenue(nil, config.DefaultTheme())
	if len(fig.Data) != 2 {
		t.Fatalf("expected 2 traces for empty input, got %d", len(fig.Data))
	}
	for _, tr := range fig.Data {
		if len(tr.X) != 0 || len(tr.Y) != 0 {
			t.Errorf("trace %s should be empty", tr.Name)
		}
	}
}

func TestBuildRevenue_Idempotent(t *testing.T) {
	theme := config.DefaultTheme()
	a := BuildRevenue(revenueRows(), theme)
	b := BuildRevenue(revenueRows(), theme)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("builds differ (-a +b):\n%s", diff)
	}
}

func TestBuildRevenue_DoesNotAliasInput(t *testing.T) {
	rows := revenueRows()
	theme := config.DefaultTheme()
	fig := BuildRevenue(rows, theme)

	rows[0].Month = "changed"
	theme.Palette[0] = "#000000"

	if fig.Data[0].X[0] != "Jan" {
		t.Error("figure shares memory with input rows")
	}
	if fig.Layout.Colorway[0] == "#000000" {
		t.Error("figure shares memory with theme palette")
	}
}

func TestBuildDelivery(t *testing.T) {
	theme := config.DefaultTheme()
	rows := []models.EnergyRecord{
		{Month: "Jan", EnergyDeliveredKWh: 1500},
		{Month: "Feb", EnergyDeliveredKWh: 1800},
	}

	fig := BuildDelivery(rows, theme)

	if len(fig.Data) != 1 {
		t.Fatalf("expected 1 trace, got %d", len(fig.Data))
	}
	tr := fig.Data[0]
	if tr.Name != DeliveryTraceName {
		t.Errorf("trace name = %q", tr.Name)
	}
	if diff := cmp.Diff([]float64{1500, 1800}, tr.Y); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
	if tr.Line.Color != theme.EnergyColor {
		t.Errorf("line color = %q, want %q", tr.Line.Color, theme.EnergyColor)
	}
	if fig.Layout.Title.Text != DeliveryTitle {
		t.Errorf("title = %q", fig.Layout.Title.Text)
	}
	if fig.Layout.Width != 500 || fig.Layout.Height != 500 {
		t.Errorf("size = %dx%d, want 500x500", fig.Layout.Width, fig.Layout.Height)
	}
}

func TestBuildGeographic(t *testing.T) {
	theme := config.DefaultTheme()
	rows := []models.CountyRecord{
		{County: "Travis", FIPS: "48453", CustomerGrowthPct: 20},
		{County: "Nowhere", FIPS: "99999", CustomerGrowthPct: 5},
		{County: "Harris", FIPS: "48201", CustomerGrowthPct: -20},
		{County: "Loving", FIPS: "48301", CustomerGrowthPct: math.NaN()},
	}

	fig, err := BuildGeographic(rows, testReference(), theme)
	if err != nil {
		t.Fatalf("BuildGeographic() failed: %v", err)
	}

	tr := fig.Data[0]
	if tr.Type != "choropleth" {
		t.Errorf("trace type = %q", tr.Type)
	}
	if diff := cmp.Diff([]string{"48453", "48201"}, tr.Locations); diff != "" {
		t.Errorf("locations mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{20, -20}, tr.Z); diff != "" {
		t.Errorf("z mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Travis", "Harris"}, tr.Text); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"99999"}, fig.Meta.Dropped); diff != "" {
		t.Errorf("dropped mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"48301"}, fig.Meta.Undefined); diff != "" {
		t.Errorf("undefined mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1}, fig.Meta.DroppedRows); diff != "" {
		t.Errorf("dropped rows mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{3}, fig.Meta.UndefinedRows); diff != "" {
		t.Errorf("undefined rows mismatch (-want +got):\n%s", diff)
	}

	wantBounds := &Bounds{MinLon: -98.2, MinLat: 29.5, MaxLon: -94.9, MaxLat: 30.6}
	if diff := cmp.Diff(wantBounds, fig.Meta.Bounds); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
	if len(fig.Meta.Centers) != len(tr.Locations) {
		t.Errorf("expected a center per location, got %d", len(fig.Meta.Centers))
	}
	if fig.Layout.Geo == nil || fig.Layout.Geo.FitBounds != "locations" {
		t.Errorf("geo should fit to locations: %+v", fig.Layout.Geo)
	}
	if len(tr.ColorScale) != len(theme.ColorScale) {
		t.Errorf("color scale has %d stops, want %d", len(tr.ColorScale), len(theme.ColorScale))
	}
}

func TestBuildGeographic_BoundsOrderIndependent(t *testing.T) {
	rows := []models.CountyRecord{
		{County: "Travis", FIPS: "48453", CustomerGrowthPct: 20},
		{County: "Harris", FIPS: "48201", CustomerGrowthPct: -20},
	}
	reversed := []models.CountyRecord{rows[1], rows[0]}

	a, _ := BuildGeographic(rows, testReference(), config.DefaultTheme())
	b, _ := BuildGeographic(reversed, testReference(), config.DefaultTheme())
	if diff := cmp.Diff(a.Meta.Bounds, b.Meta.Bounds); diff != "" {
		t.Errorf("bounds depend on row order (-a +b):\n%s", diff)
	}
}

func TestBuildGeographic_NoMatches(t *testing.T) {
	rows := []models.CountyRecord{{County: "Nowhere", FIPS: "00000", CustomerGrowthPct: 1}}

	fig, err := BuildGeographic(rows, testReference(), config.DefaultTheme())
	if err != nil {
		t.Fatalf("BuildGeographic() failed: %v", err)
	}
	if len(fig.Data[0].Locations) != 0 {
		t.Errorf("expected no locations, got %v", fig.Data[0].Locations)
	}
	if fig.Meta.Bounds != nil {
		t.Errorf("expected nil bounds, got %+v", fig.Meta.Bounds)
	}
}

func TestBuildGeographic_InlineLocalSource(t *testing.T) {
	ref := models.NewBoundaryReference("/tmp/counties.json", time.Unix(0, 0), testReference().Boundaries())
	ref.Raw = []byte(`{"type":"FeatureCollection","features":[]}`)

	fig, err := BuildGeographic(nil, ref, config.DefaultTheme())
	if err != nil {
		t.Fatal(err)
	}
	raw, ok := fig.Data[0].GeoJSON.(json.RawMessage)
	if !ok {
		t.Fatalf("GeoJSON = %T, want inline document", fig.Data[0].GeoJSON)
	}
	if string(raw) != string(ref.Raw) {
		t.Errorf("inline document = %s", raw)
	}

	ref.Raw[0] = 'X'
	if raw[0] == 'X' {
		t.Error("inline document shares memory with the reference")
	}
}

func TestBuildGeographic_NoReference(t *testing.T) {
	_, err := BuildGeographic(nil, nil, config.DefaultTheme())
	if !errors.Is(err, ErrNoBoundaries) {
		t.Errorf("expected ErrNoBoundaries, got %v", err)
	}
}

func TestFigure_JSON(t *testing.T) {
	fig, err := BuildGeographic(
		[]models.CountyRecord{{County: "Travis", FIPS: "48453", CustomerGrowthPct: 20}},
		testReference(),
		config.DefaultTheme(),
	)
	if err != nil {
		t.Fatal(err)
	}

	data, err := json.Marshal(fig)
	if err != nil {
		t.Fatalf("json.Marshal() failed: %v", err)
	}
	s := string(data)

	for _, want := range []string{
		`"type":"choropleth"`,
		`"featureidkey":"id"`,
		`"colorscale":[[0,"#aae03e"],[0.5,"#d9c600"],[1,"#ffa600"]]`,
		`"margin":{"r":0,"t":100,"l":0,"b":0}`,
		`"visible":false`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("JSON missing %s", want)
		}
	}
	if strings.Contains(s, "Meta") || strings.Contains(s, "Dropped") {
		t.Error("build metadata leaked into JSON")
	}
}

func TestTrace_JSONNonFinite(t *testing.T) {
	tr := Trace{
		Type: "scatter",
		X:    []string{"Jan", "Feb", "Mar", "Apr"},
		Y:    []float64{1, math.NaN(), math.Inf(1), 4},
	}
	data, err := json.Marshal(tr)
	if err != nil {
		t.Fatalf("json.Marshal() failed: %v", err)
	}
	s := string(data)
	if !strings.Contains(s, `"y":[1,null,null,4]`) {
		t.Errorf("non-finite values should marshal as null: %s", s)
	}
	if strings.Contains(s, `"z"`) {
		t.Errorf("empty z should be omitted: %s", s)
	}
	if !math.IsNaN(tr.Y[1]) {
		t.Error("marshalling must not modify the trace")
	}
}

func TestColorScale_At(t *testing.T) {
	scale := NewColorScale("#000000", "#ffffff")

	tests := []struct {
		name string
		t    float64
		want string
	}{
		{"Start", 0, "#000000"},
		{"End", 1, "#ffffff"},
		{"BelowRange", -3, "#000000"},
		{"AboveRange", 7, "#ffffff"},
		{"NaN", math.NaN(), "#000000"},
		{"Middle", 0.5, "#808080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scale.At(tt.t); got != tt.want {
				t.Errorf("At(%v) = %s, want %s", tt.t, got, tt.want)
			}
		})
	}
}

func TestColorScale_Validate(t *testing.T) {
	if err := NewColorScale("#000000", "#ffffff").Validate(); err != nil {
		t.Errorf("valid scale rejected: %v", err)
	}
	if err := NewColorScale("#000000").Validate(); err != nil {
		t.Errorf("single-color scale rejected: %v", err)
	}
	if err := (ColorScale{{Pos: 0.2, Color: "#000000"}, {Pos: 1, Color: "#ffffff"}}).Validate(); err == nil {
		t.Error("scale not starting at 0 accepted")
	}
	if err := (ColorScale{}).Validate(); err == nil {
		t.Error("empty scale accepted")
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize(5, 0, 10); got != 0.5 {
		t.Errorf("Normalize(5, 0, 10) = %v", got)
	}
	if got := Normalize(3, 3, 3); got != 0.5 {
		t.Errorf("degenerate range = %v, want 0.5", got)
	}
}
