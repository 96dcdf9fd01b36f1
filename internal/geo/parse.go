package geo

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb/geojson"

	"github.com/j-veylop/growth-dashboard-tui/internal/dataset"
	"github.com/j-veylop/growth-dashboard-tui/internal/models"
)

// ErrNoFeatures is returned when a document parses but holds no usable county.
var ErrNoFeatures = errors.New("boundary document has no county features")

// Parse reads a GeoJSON FeatureCollection and returns one bounding box per
// county feature. The FIPS code comes from the feature id, falling back to
// the STATE and COUNTY properties and then to the tail of GEO_ID. Features
// without geometry or a recognizable code are skipped.
func Parse(body []byte) ([]models.Boundary, error) {
	fc, err := geojson.UnmarshalFeatureCollection(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boundary document: %w", err)
	}

	out := make([]models.Boundary, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		fips := featureFIPS(f)
		if fips == "" {
			continue
		}

		bound := f.Geometry.Bound()
		out = append(out, models.Boundary{
			FIPS:   fips,
			Name:   f.Properties.MustString("NAME", ""),
			State:  f.Properties.MustString("STATE", fips[:2]),
			MinLon: bound.Min[0],
			MinLat: bound.Min[1],
			MaxLon: bound.Max[0],
			MaxLat: bound.Max[1],
		})
	}

	if len(out) == 0 {
		return nil, ErrNoFeatures
	}
	return out, nil
}

func featureFIPS(f *geojson.Feature) string {
	switch id := f.ID.(type) {
	case string:
		if code := dataset.NormalizeFIPS(id); isFIPS(code) {
			return code
		}
	case float64:
		if code := dataset.NormalizeFIPS(strconv.FormatFloat(id, 'f', 0, 64)); isFIPS(code) {
			return code
		}
	}

	state := f.Properties.MustString("STATE", "")
	county := f.Properties.MustString("COUNTY", "")
	if state != "" && county != "" {
		if code := state + county; isFIPS(code) {
			return code
		}
	}

	geoID := f.Properties.MustString("GEO_ID", "")
	if i := strings.LastIndex(geoID, "US"); i >= 0 {
		if code := geoID[i+2:]; isFIPS(code) {
			return code
		}
	}

	return ""
}

func isFIPS(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
