package models

import (
	"cmp"
	"slices"
	"strings"
)

// CountySort is the ordering used by the county table.
type CountySort int

const (
	// SortByFile keeps the row order of the input file.
	SortByFile CountySort = iota
	// SortByGrowthDesc orders by growth, highest first. Undefined growth sorts last.
	SortByGrowthDesc
	// SortByGrowthAsc orders by growth, lowest first. Undefined growth sorts last.
	SortByGrowthAsc
	// SortByName orders by county name.
	SortByName
	// SortByConsumers orders by 2024 consumers, highest first.
	SortByConsumers
)

// String returns the display name for a sort mode.
func (s CountySort) String() string {
	switch s {
	case SortByFile:
		return "File order"
	case SortByGrowthDesc:
		return "Growth ↓"
	case SortByGrowthAsc:
		return "Growth ↑"
	case SortByName:
		return "Name"
	case SortByConsumers:
		return "Consumers 2024"
	default:
		return "Unknown"
	}
}

// Next cycles to the next sort mode.
func (s CountySort) Next() CountySort {
	return (s + 1) % 5
}

// SortCounties returns a sorted copy of rows. The sort is stable, so ties
// keep file order.
func SortCounties(rows []CountyRecord, s CountySort) []CountyRecord {
	out := make([]CountyRecord, 0, len(rows))
	for _, i := range SortCountyOrder(rows, s) {
		out = append(out, rows[i])
	}
	return out
}

// SortCountyOrder returns the indices of rows in sorted order, leaving rows
// untouched.
func SortCountyOrder(rows []CountyRecord, s CountySort) []int {
	order := make([]int, len(rows))
	for i := range order {
		order[i] = i
	}

	var compare func(a, b CountyRecord) int
	switch s {
	case SortByGrowthDesc:
		compare = func(a, b CountyRecord) int { return compareGrowth(a, b, true) }
	case SortByGrowthAsc:
		compare = func(a, b CountyRecord) int { return compareGrowth(a, b, false) }
	case SortByName:
		compare = func(a, b CountyRecord) int {
			return strings.Compare(strings.ToLower(a.County), strings.ToLower(b.County))
		}
	case SortByConsumers:
		compare = func(a, b CountyRecord) int { return cmp.Compare(b.Consumers2024, a.Consumers2024) }
	default:
		return order
	}

	slices.SortStableFunc(order, func(i, j int) int { return compare(rows[i], rows[j]) })
	return order
}

func compareGrowth(a, b CountyRecord, desc bool) int {
	switch {
	case !a.HasGrowth() && !b.HasGrowth():
		return 0
	case !a.HasGrowth():
		return 1
	case !b.HasGrowth():
		return -1
	}
	if desc {
		return cmp.Compare(b.CustomerGrowthPct, a.CustomerGrowthPct)
	}
	return cmp.Compare(a.CustomerGrowthPct, b.CustomerGrowthPct)
}
