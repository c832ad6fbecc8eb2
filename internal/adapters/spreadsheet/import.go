package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"math"
	"route-profit-service/internal/domain"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// Column headers of the route import sheet.
const (
	ColDriver       = "motorista"
	ColOrigin       = "origem"
	ColDestination1 = "destino1"
	ColDestination2 = "destino2"
	ColDestination3 = "destino3"
	ColPackages     = "quantidadePacotes"
	ColValue        = "valorPorPacote"
	ColOtherCosts   = "outrosCustos"
)

var importColumns = []string{
	ColDriver, ColOrigin, ColDestination1, ColDestination2, ColDestination3,
	ColPackages, ColValue, ColOtherCosts,
}

var requiredColumns = []string{
	ColDriver, ColOrigin, ColDestination1, ColPackages, ColValue, ColOtherCosts,
}

var ErrEmptySheet = errors.New("spreadsheet has no data rows")

// RowError rejects a single spreadsheet row. Line is the 1-based row
// number as shown by spreadsheet applications.
type RowError struct {
	Line    int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

type ImportResult struct {
	Routes []domain.ProcessedRoute
	Errors []RowError
}

// ImportRoutes reads the first sheet of an .xlsx workbook. Valid rows
// become routes with their packages spread across the destinations;
// invalid rows are reported without stopping the import.
func ImportRoutes(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("import routes: open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("import routes: %w", ErrEmptySheet)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("import routes: read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("import routes: %w", ErrEmptySheet)
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, fmt.Errorf("import routes: %w", err)
	}

	res := &ImportResult{
		Routes: []domain.ProcessedRoute{},
		Errors: []RowError{},
	}
	dataRows := 0
	for i := 1; i < len(rows); i++ {
		if isBlank(rows[i]) {
			continue
		}
		dataRows++

		line := i + 1
		route, msg := parseRow(rows[i], cols)
		if msg != "" {
			res.Errors = append(res.Errors, RowError{Line: line, Message: msg})
			continue
		}
		res.Routes = append(res.Routes, route)
	}

	if dataRows == 0 {
		return nil, fmt.Errorf("import routes: %w", ErrEmptySheet)
	}

	return res, nil
}

func headerIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(importColumns))
	for i, h := range header {
		h = strings.TrimSpace(h)
		for _, c := range importColumns {
			if strings.EqualFold(h, c) {
				idx[c] = i
			}
		}
	}

	var missing []string
	for _, c := range requiredColumns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func isBlank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseRow returns the route of a row, or a message describing the first problem.
func parseRow(row []string, cols map[string]int) (domain.ProcessedRoute, string) {
	driver := cell(row, cols, ColDriver)
	if driver == "" {
		return domain.ProcessedRoute{}, "driver name is required"
	}

	origin := cell(row, cols, ColOrigin)
	if origin == "" {
		return domain.ProcessedRoute{}, "origin city is required"
	}

	first := cell(row, cols, ColDestination1)
	if first == "" {
		return domain.ProcessedRoute{}, "at least destino1 is required"
	}

	packages, err := parseNumber(cell(row, cols, ColPackages))
	if err != nil || packages <= 0 || packages != math.Trunc(packages) {
		return domain.ProcessedRoute{}, "package count must be a whole number greater than zero"
	}

	value, err := parseNumber(cell(row, cols, ColValue))
	if err != nil || value <= 0 {
		return domain.ProcessedRoute{}, "value per package must be a number greater than zero"
	}

	otherCosts, err := parseNumber(cell(row, cols, ColOtherCosts))
	if err != nil || otherCosts < 0 {
		return domain.ProcessedRoute{}, "other costs must be a number greater than or equal to zero"
	}

	cities := []string{first}
	for _, c := range []string{ColDestination2, ColDestination3} {
		if city := cell(row, cols, c); city != "" {
			cities = append(cities, city)
		}
	}

	shares := SplitPackages(int(packages), len(cities))
	dests := make([]domain.Destination, 0, len(cities))
	for i, city := range cities {
		dests = append(dests, domain.Destination{
			ID:              uuid.NewString(),
			City:            city,
			Packages:        shares[i],
			ValuePerPackage: round2(value),
		})
	}

	return domain.ProcessedRoute{
		Driver:       driver,
		Origin:       origin,
		Destinations: dests,
		RouteCost:    round2(otherCosts),
	}, ""
}

// SplitPackages spreads total as evenly as possible over n destinations;
// the remainder goes one unit each to the first destinations.
func SplitPackages(total, n int) []int {
	if n <= 0 {
		return nil
	}

	base, rem := total/n, total%n
	out := make([]int, n)
	for i := range out {
		out[i] = base
		if i < rem {
			out[i]++
		}
	}
	return out
}

// parseNumber accepts "25.5", "25,5" and "1.234,56".
func parseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty")
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
