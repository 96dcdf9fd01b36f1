package models

import "time"

// Boundary is the bounding box of one county polygon, keyed by FIPS.
type Boundary struct {
	FIPS   string  `json:"fips"`
	Name   string  `json:"name"`
	State  string  `json:"state"`
	MinLon float64 `json:"min_lon"`
	MinLat float64 `json:"min_lat"`
	MaxLon float64 `json:"max_lon"`
	MaxLat float64 `json:"max_lat"`
}

// Center returns the midpoint of the bounding box as lon, lat.
func (b Boundary) Center() (lon, lat float64) {
	return (b.MinLon + b.MaxLon) / 2, (b.MinLat + b.MaxLat) / 2
}

// BoundaryReference is the set of county shapes the map is drawn against.
type BoundaryReference struct {
	Source    string
	FetchedAt time.Time
	// Stale is set when a cached copy past its TTL was used because the
	// source could not be reached.
	Stale bool
	// Raw is the original GeoJSON document, passed through to renderers
	// that draw polygons themselves.
	Raw []byte

	byFIPS map[string]Boundary
}

// NewBoundaryReference indexes boundaries by FIPS. Later duplicates win.
func NewBoundaryReference(source string, fetchedAt time.Time, boundaries []Boundary) *BoundaryReference {
	ref := &BoundaryReference{
		Source:    source,
		FetchedAt: fetchedAt,
		byFIPS:    make(map[string]Boundary, len(boundaries)),
	}
	for _, b := range boundaries {
		ref.byFIPS[b.FIPS] = b
	}
	return ref
}

// Lookup returns the boundary for a FIPS code.
func (r *BoundaryReference) Lookup(fips string) (Boundary, bool) {
	if r == nil {
		return Boundary{}, false
	}
	b, ok := r.byFIPS[fips]
	return b, ok
}

// Len returns the number of indexed boundaries.
func (r *BoundaryReference) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byFIPS)
}

// Boundaries returns all indexed boundaries in no particular order.
func (r *BoundaryReference) Boundaries() []Boundary {
	if r == nil {
		return nil
	}
	out := make([]Boundary, 0, len(r.byFIPS))
	for _, b := range r.byFIPS {
		out = append(out, b)
	}
	return out
}
