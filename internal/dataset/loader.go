// Package dataset reads the revenue, energy delivery and county CSV files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/j-veylop/growth-dashboard-tui/internal/logger"
	"github.com/j-veylop/growth-dashboard-tui/internal/models"
)

// Column names. Matching is exact and case-sensitive.
const (
	ColMonth           = "Month"
	ColMonthlyRevenue  = "Monthly_Revenue_USD"
	ColRevenueGrowth   = "Revenue_Growth_%"
	ColEnergyDelivered = "Energy_Delivered_kWh"
	ColCounty          = "County"
	ColFIPS            = "FIPS"
	ColConsumers2023   = "2023_Consumers"
	ColConsumers2024   = "2024_Consumers"
)

// Required columns per table.
var (
	RevenueColumns = []string{ColMonth, ColMonthlyRevenue, ColRevenueGrowth}
	EnergyColumns  = []string{ColMonth, ColEnergyDelivered}
	CountyColumns  = []string{ColCounty, ColFIPS, ColConsumers2023, ColConsumers2024}
)

const utf8BOM = "\ufeff"

// Paths locates the three input files.
type Paths struct {
	Revenue  string
	Energy   string
	Counties string
}

// All returns the paths in load order.
func (p Paths) All() []string {
	return []string{p.Revenue, p.Energy, p.Counties}
}

// Load reads all three tables. Any error aborts the whole load.
func Load(paths Paths) (*models.Dataset, error) {
	ds := &models.Dataset{}

	var err error
	if ds.Revenue, err = loadFile(paths.Revenue, LoadRevenue); err != nil {
		return nil, err
	}
	if ds.Energy, err = loadFile(paths.Energy, LoadEnergy); err != nil {
		return nil, err
	}
	if ds.Counties, err = loadFile(paths.Counties, LoadCounties); err != nil {
		return nil, err
	}
	return ds, nil
}

func loadFile[T any](path string, parse func(io.Reader) ([]T, error)) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logger.Warn("failed to close data file", "path", path, "error", closeErr)
		}
	}()

	rows, err := parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return rows, nil
}

// LoadRevenue parses the monthly revenue table.
func LoadRevenue(r io.Reader) ([]models.RevenueRecord, error) {
	t, err := readTable(r, models.TableRevenue, RevenueColumns)
	if err != nil {
		return nil, err
	}

	out := make([]models.RevenueRecord, 0, len(t.rows))
	for i := range t.rows {
		rec := models.RevenueRecord{Month: t.text(i, ColMonth)}
		if rec.MonthlyRevenueUSD, err = t.float(i, ColMonthlyRevenue); err != nil {
			return nil, err
		}
		if rec.RevenueGrowthPct, err = t.float(i, ColRevenueGrowth); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadEnergy parses the monthly energy delivery table.
func LoadEnergy(r io.Reader) ([]models.EnergyRecord, error) {
	t, err := readTable(r, models.TableEnergy, EnergyColumns)
	if err != nil {
		return nil, err
	}

	out := make([]models.EnergyRecord, 0, len(t.rows))
	for i := range t.rows {
		rec := models.EnergyRecord{Month: t.text(i, ColMonth)}
		if rec.EnergyDeliveredKWh, err = t.float(i, ColEnergyDelivered); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// LoadCounties parses the county consumer table. CustomerGrowthPct is left
// at zero; it is filled by the metrics package.
func LoadCounties(r io.Reader) ([]models.CountyRecord, error) {
	t, err := readTable(r, models.TableCounties, CountyColumns)
	if err != nil {
		return nil, err
	}

	out := make([]models.CountyRecord, 0, len(t.rows))
	for i := range t.rows {
		rec := models.CountyRecord{
			County: t.text(i, ColCounty),
			FIPS:   NormalizeFIPS(t.text(i, ColFIPS)),
		}
		if rec.Consumers2023, err = t.integer(i, ColConsumers2023); err != nil {
			return nil, err
		}
		if rec.Consumers2024, err = t.integer(i, ColConsumers2024); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// NormalizeFIPS trims the code and left-pads purely numeric codes to the
// five digits used by county boundary files. Anything else is kept verbatim.
func NormalizeFIPS(s string) string {
	s = strings.TrimSpace(s)
	if s == "" || len(s) >= 5 {
		return s
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return s
		}
	}
	return strings.Repeat("0", 5-len(s)) + s
}

type table struct {
	name    models.Table
	columns map[string]int
	rows    [][]string
}

func readTable(r io.Reader, name models.Table, required []string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaError{Table: name, Missing: append([]string(nil), required...)}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", name, err)
	}

	columns := make(map[string]int, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		h = strings.TrimSpace(h)
		if _, dup := columns[h]; !dup {
			columns[h] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		found := make([]string, 0, len(header))
		for _, h := range header {
			found = append(found, strings.TrimSpace(strings.TrimPrefix(h, utf8BOM)))
		}
		return nil, &SchemaError{Table: name, Missing: missing, Found: found}
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s rows: %w", name, err)
	}

	return &table{name: name, columns: columns, rows: rows}, nil
}

func (t *table) text(row int, col string) string {
	idx := t.columns[col]
	if idx >= len(t.rows[row]) {
		return ""
	}
	return strings.TrimSpace(t.rows[row][idx])
}

// float reads a series value. Empty and non-finite cells load as NaN so they
// show up as gaps in the charts.
func (t *table) float(row int, col string) (float64, error) {
	raw := t.text(row, col)
	if raw == "" {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, t.parseError(row, col, raw, err)
	}
	if math.IsInf(v, 0) {
		return math.NaN(), nil
	}
	return v, nil
}

// integer accepts whole numbers written with a trailing ".0", which is how
// spreadsheet exports often write counts.
func (t *table) integer(row int, col string) (int64, error) {
	raw := t.text(row, col)
	if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, t.parseError(row, col, raw, err)
	}
	if f != float64(int64(f)) {
		return 0, t.parseError(row, col, raw, ErrNotInteger)
	}
	return int64(f), nil
}

func (t *table) parseError(row int, col, raw string, err error) error {
	return &ParseError{
		Table:  t.name,
		Row:    row + 2,
		Column: col,
		Value:  raw,
		Err:    err,
	}
}
