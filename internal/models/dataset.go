// Package models defines data structures and domain types.
package models

import (
	"math"
)

// Table identifies one of the three input datasets.
type Table string

const (
	// TableRevenue is the monthly revenue table.
	TableRevenue Table = "revenue"
	// TableEnergy is the monthly energy delivery table.
	TableEnergy Table = "energy_delivery"
	// TableCounties is the county consumer count table.
	TableCounties Table = "counties"
)

// String returns the table name.
func (t Table) String() string {
	return string(t)
}

// RevenueRecord is one month of revenue.
type RevenueRecord struct {
	Month             string  `json:"month"`
	MonthlyRevenueUSD float64 `json:"monthly_revenue_usd"`
	RevenueGrowthPct  float64 `json:"revenue_growth_pct"`
}

// EnergyRecord is one month of delivered energy.
type EnergyRecord struct {
	Month              string  `json:"month"`
	EnergyDeliveredKWh float64 `json:"energy_delivered_kwh"`
}

// CountyRecord holds consumer counts for a county in 2023 and 2024.
// CustomerGrowthPct is zero until the record has been through the deriver,
// and NaN when the growth is undefined.
type CountyRecord struct {
	County            string  `json:"county"`
	FIPS              string  `json:"fips"`
	Consumers2023     int64   `json:"consumers_2023"`
	Consumers2024     int64   `json:"consumers_2024"`
	CustomerGrowthPct float64 `json:"customer_growth_pct"`
}

// HasGrowth reports whether the growth value is defined.
func (c CountyRecord) HasGrowth() bool {
	return !math.IsNaN(c.CustomerGrowthPct) && !math.IsInf(c.CustomerGrowthPct, 0)
}

// ConsumerDelta returns the absolute change in consumers.
func (c CountyRecord) ConsumerDelta() int64 {
	return c.Consumers2024 - c.Consumers2023
}

// Dataset is the result of loading all three tables.
type Dataset struct {
	Revenue  []RevenueRecord
	Energy   []EnergyRecord
	Counties []CountyRecord
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	if d == nil {
		return nil
	}
	out := &Dataset{
		Revenue:  make([]RevenueRecord, len(d.Revenue)),
		Energy:   make([]EnergyRecord, len(d.Energy)),
		Counties: make([]CountyRecord, len(d.Counties)),
	}
	copy(out.Revenue, d.Revenue)
	copy(out.Energy, d.Energy)
	copy(out.Counties, d.Counties)
	return out
}

// TotalEnergy returns the sum of delivered energy across all months.
func (d *Dataset) TotalEnergy() float64 {
	total := 0.0
	for _, e := range d.Energy {
		total += e.EnergyDeliveredKWh
	}
	return total
}

// TotalConsumers returns the consumer totals for both years.
func (d *Dataset) TotalConsumers() (c2023, c2024 int64) {
	for _, c := range d.Counties {
		c2023 += c.Consumers2023
		c2024 += c.Consumers2024
	}
	return c2023, c2024
}
