package models

import (
	"math"
	"testing"
	"time"
)

func TestCountySort_String(t *testing.T) {
	tests := []struct {
		name string
		s    CountySort
		want string
	}{
		{"File", SortByFile, "File order"},
		{"GrowthDesc", SortByGrowthDesc, "Growth ↓"},
		{"GrowthAsc", SortByGrowthAsc, "Growth ↑"},
		{"Name", SortByName, "Name"},
		{"Consumers", SortByConsumers, "Consumers 2024"},
		{"Unknown", CountySort(999), "Unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.String(); got != tt.want {
				t.Errorf("CountySort.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCountySort_Next(t *testing.T) {
	if got := SortByConsumers.Next(); got != SortByFile {
		t.Errorf("SortByConsumers.Next() = %v, want %v", got, SortByFile)
	}
	if got := SortByFile.Next(); got != SortByGrowthDesc {
		t.Errorf("SortByFile.Next() = %v, want %v", got, SortByGrowthDesc)
	}
}

func TestCountyRecord_HasGrowth(t *testing.T) {
	tests := []struct {
		name   string
		growth float64
		want   bool
	}{
		{"Positive", 20, true},
		{"Zero", 0, true},
		{"Negative", -20, true},
		{"NaN", math.NaN(), false},
		{"Inf", math.Inf(1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CountyRecord{CustomerGrowthPct: tt.growth}
			if got := c.HasGrowth(); got != tt.want {
				t.Errorf("HasGrowth() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDataset_Clone(t *testing.T) {
	d := &Dataset{
		Revenue:  []RevenueRecord{{Month: "Jan", MonthlyRevenueUSD: 100}},
		Energy:   []EnergyRecord{{Month: "Jan", EnergyDeliveredKWh: 5}},
		Counties: []CountyRecord{{County: "Travis", FIPS: "48453", Consumers2023: 10, Consumers2024: 12}},
	}
	c := d.Clone()
	c.Revenue[0].MonthlyRevenueUSD = 999
	c.Counties[0].County = "Other"

	if d.Revenue[0].MonthlyRevenueUSD != 100 {
		t.Error("Clone shares revenue backing array")
	}
	if d.Counties[0].County != "Travis" {
		t.Error("Clone shares counties backing array")
	}

	var nilSet *Dataset
	if nilSet.Clone() != nil {
		t.Error("Clone of nil should be nil")
	}
}

func TestDataset_Totals(t *testing.T) {
	d := &Dataset{
		Energy: []EnergyRecord{{EnergyDeliveredKWh: 1.5}, {EnergyDeliveredKWh: 2.5}},
		Counties: []CountyRecord{
			{Consumers2023: 10, Consumers2024: 15},
			{Consumers2023: 5, Consumers2024: 4},
		},
	}
	if got := d.TotalEnergy(); got != 4 {
		t.Errorf("TotalEnergy() = %v, want 4", got)
	}
	c23, c24 := d.TotalConsumers()
	if c23 != 15 || c24 != 19 {
		t.Errorf("TotalConsumers() = %d, %d, want 15, 19", c23, c24)
	}
}

func TestBoundaryReference(t *testing.T) {
	ref := NewBoundaryReference("test", time.Now(), []Boundary{
		{FIPS: "48453", Name: "Travis", MinLon: -98, MinLat: 30, MaxLon: -97, MaxLat: 31},
		{FIPS: "48201", Name: "Harris"},
	})

	if ref.Len() != 2 {
		t.Errorf("Len() = %d, want 2", ref.Len())
	}
	b, ok := ref.Lookup("48453")
	if !ok || b.Name != "Travis" {
		t.Errorf("Lookup(48453) = %+v, %v", b, ok)
	}
	lon, lat := b.Center()
	if lon != -97.5 || lat != 30.5 {
		t.Errorf("Center() = %v, %v", lon, lat)
	}
	if _, ok := ref.Lookup("99999"); ok {
		t.Error("Lookup of unknown FIPS should fail")
	}
	if len(ref.Boundaries()) != 2 {
		t.Error("Boundaries() should return every entry")
	}

	var nilRef *BoundaryReference
	if nilRef.Len() != 0 {
		t.Error("nil reference should be empty")
	}
	if _, ok := nilRef.Lookup("48453"); ok {
		t.Error("nil reference lookup should fail")
	}
}

func TestSortCounties(t *testing.T) {
	rows := []CountyRecord{
		{County: "travis", Consumers2024: 10, CustomerGrowthPct: 5},
		{County: "Loving", Consumers2024: 30, CustomerGrowthPct: math.NaN()},
		{County: "Harris", Consumers2024: 20, CustomerGrowthPct: -3},
		{County: "Bexar", Consumers2024: 5, CustomerGrowthPct: 12},
	}

	names := func(rs []CountyRecord) []string {
		out := make([]string, len(rs))
		for i, r := range rs {
			out[i] = r.County
		}
		return out
	}

	tests := []struct {
		sort CountySort
		want []string
	}{
		{SortByFile, []string{"travis", "Loving", "Harris", "Bexar"}},
		{SortByGrowthDesc, []string{"Bexar", "travis", "Harris", "Loving"}},
		{SortByGrowthAsc, []string{"Harris", "travis", "Bexar", "Loving"}},
		{SortByName, []string{"Bexar", "Harris", "Loving", "travis"}},
		{SortByConsumers, []string{"Loving", "Harris", "travis", "Bexar"}},
	}
	for _, tt := range tests {
		t.Run(tt.sort.String(), func(t *testing.T) {
			got := names(SortCounties(rows, tt.sort))
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("SortCounties(%v) = %v, want %v", tt.sort, got, tt.want)
				}
			}
		})
	}

	if rows[0].County != "travis" {
		t.Error("SortCounties modified its input")
	}
}

func TestSortCountyOrder(t *testing.T) {
	rows := []CountyRecord{
		{County: "Travis", FIPS: "48453", CustomerGrowthPct: 5},
		{County: "Travis", FIPS: "48453", CustomerGrowthPct: math.NaN()},
		{County: "Bexar", FIPS: "48029", CustomerGrowthPct: 12},
	}

	got := SortCountyOrder(rows, SortByGrowthDesc)
	want := []int{2, 0, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortCountyOrder() = %v, want %v", got, want)
		}
	}

	if got := SortCountyOrder(rows, SortByFile); got[0] != 0 || got[2] != 2 {
		t.Errorf("file order should be the identity, got %v", got)
	}
}
