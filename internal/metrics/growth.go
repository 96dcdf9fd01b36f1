// Package metrics derives growth figures from loaded tables.
package metrics

import (
	"fmt"
	"math"
	"strings"

	"github.com/j-veylop/growth-dashboard-tui/internal/models"
)

// ZeroDivisorPolicy decides what happens to a county with no 2023 consumers.
type ZeroDivisorPolicy int

const (
	// PolicyNaN keeps the row with an undefined growth value.
	PolicyNaN ZeroDivisorPolicy = iota
	// PolicyExclude drops the row from the derived table.
	PolicyExclude
	// PolicyZero records the growth as 0.
	PolicyZero
	// PolicyReject fails the derivation.
	PolicyReject
)

// String returns the configuration name of the policy.
func (p ZeroDivisorPolicy) String() string {
	switch p {
	case PolicyNaN:
		return "nan"
	case PolicyExclude:
		return "exclude"
	case PolicyZero:
		return "zero"
	case PolicyReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ParsePolicy reads a policy name as used in configuration.
func ParsePolicy(s string) (ZeroDivisorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "nan":
		return PolicyNaN, nil
	case "exclude":
		return PolicyExclude, nil
	case "zero":
		return PolicyZero, nil
	case "reject":
		return PolicyReject, nil
	default:
		return PolicyNaN, fmt.Errorf("unknown zero divisor policy %q (want nan, exclude, zero or reject)", s)
	}
}

// ZeroBaselineError is returned under PolicyReject.
type ZeroBaselineError struct {
	County string
	FIPS   string
}

func (e *ZeroBaselineError) Error() string {
	return fmt.Sprintf("county %s (%s) has no 2023 consumers; growth is undefined", e.County, e.FIPS)
}

// CustomerGrowthPct returns (c2024 - c2023) / c2023 * 100.
// A zero baseline yields NaN, or ±Inf when c2024 is non-zero.
func CustomerGrowthPct(c2023, c2024 int64) float64 {
	return float64(c2024-c2023) / float64(c2023) * 100
}

// DeriveCustomerGrowth returns a new table with CustomerGrowthPct filled in.
// The input slice is not modified.
func DeriveCustomerGrowth(rows []models.CountyRecord, policy ZeroDivisorPolicy) ([]models.CountyRecord, error) {
	out := make([]models.CountyRecord, 0, len(rows))

	for _, row := range rows {
		if row.Consumers2023 != 0 {
			row.CustomerGrowthPct = CustomerGrowthPct(row.Consumers2023, row.Consumers2024)
			out = append(out, row)
			continue
		}

		switch policy {
		case PolicyExclude:
			continue
		case PolicyZero:
			row.CustomerGrowthPct = 0
		case PolicyReject:
			return nil, &ZeroBaselineError{County: row.County, FIPS: row.FIPS}
		default:
			row.CustomerGrowthPct = math.NaN()
		}
		out = append(out, row)
	}

	return out, nil
}

// Summary aggregates headline figures shown next to the charts.
type Summary struct {
	RevenueFirst      float64
	RevenueLast       float64
	RevenueChangePct  float64
	AvgRevenueGrowth  float64
	TotalEnergyKWh    float64
	PeakEnergyMonth   string
	PeakEnergyKWh     float64
	Consumers2023     int64
	Consumers2024     int64
	ConsumerGrowthPct float64
	CountiesGrowing   int
	CountiesShrinking int
	CountiesUndefined int
	TopCounty         string
	TopCountyGrowth   float64
}

// Summarize computes a Summary from a derived dataset. Undefined values are NaN.
func Summarize(ds *models.Dataset) Summary {
	s := Summary{
		RevenueChangePct:  math.NaN(),
		AvgRevenueGrowth:  math.NaN(),
		ConsumerGrowthPct: math.NaN(),
		TopCountyGrowth:   math.NaN(),
	}
	if ds == nil {
		return s
	}

	if n := len(ds.Revenue); n > 0 {
		s.RevenueFirst = ds.Revenue[0].MonthlyRevenueUSD
		s.RevenueLast = ds.Revenue[n-1].MonthlyRevenueUSD
		if s.RevenueFirst != 0 {
			s.RevenueChangePct = (s.RevenueLast - s.RevenueFirst) / s.RevenueFirst * 100
		}
		sum, months := 0.0, 0
		for _, r := range ds.Revenue {
			if isFinite(r.RevenueGrowthPct) {
				sum += r.RevenueGrowthPct
				months++
			}
		}
		if months > 0 {
			s.AvgRevenueGrowth = sum / float64(months)
		}
	}

	// Months with a missing value are skipped.
	for _, e := range ds.Energy {
		if !isFinite(e.EnergyDeliveredKWh) {
			continue
		}
		s.TotalEnergyKWh += e.EnergyDeliveredKWh
		if s.PeakEnergyMonth == "" || e.EnergyDeliveredKWh > s.PeakEnergyKWh {
			s.PeakEnergyMonth = e.Month
			s.PeakEnergyKWh = e.EnergyDeliveredKWh
		}
	}

	s.Consumers2023, s.Consumers2024 = ds.TotalConsumers()
	if s.Consumers2023 != 0 {
		s.ConsumerGrowthPct = CustomerGrowthPct(s.Consumers2023, s.Consumers2024)
	}

	for _, c := range ds.Counties {
		switch {
		case !c.HasGrowth():
			s.CountiesUndefined++
			continue
		case c.CustomerGrowthPct > 0:
			s.CountiesGrowing++
		case c.CustomerGrowthPct < 0:
			s.CountiesShrinking++
		}
		if s.TopCounty == "" || c.CustomerGrowthPct > s.TopCountyGrowth {
			s.TopCounty = c.County
			s.TopCountyGrowth = c.CustomerGrowthPct
		}
	}

	return s
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
