package models

import "time"

// RunRecord summarizes one pipeline run.
type RunRecord struct {
	ID          string
	GeneratedAt time.Time
	Duration    time.Duration

	RevenueRows int
	EnergyRows  int
	CountyRows  int

	// Plotted is the number of counties drawn on the map.
	Plotted int
	Dropped int

	// Failed lists the charts that did not build.
	Failed []string
	// Err is the fatal error, if the run did not produce a report.
	Err string
}

// OK reports whether every chart was built.
func (r RunRecord) OK() bool {
	return r.Err == "" && len(r.Failed) == 0
}
