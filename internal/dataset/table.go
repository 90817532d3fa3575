// Package dataset loads the pre-computed artifacts the service answers from
// and keeps the currently loaded versions.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/ukydev/insightsphere/internal/recommend"
	"github.com/xuri/excelize/v2"
)

var ErrMalformedTable = errors.New("malformed distance table")

// TableSource loads a distance table artifact.
type TableSource interface {
	LoadDistanceTable(ctx context.Context) (*recommend.DistanceTable, error)
}

// CSVTable reads a distance matrix written by pandas DataFrame.to_csv: a header
// of location names after an empty index cell, then one row per location.
type CSVTable struct {
	Path string
}

// LoadDistanceTable implements TableSource.
func (s CSVTable) LoadDistanceTable(ctx context.Context) (*recommend.DistanceTable, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open distance table: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	return tableFromRows(rows)
}

// XLSXTable reads the same layout as CSVTable from a workbook sheet.
// An empty Sheet selects the first sheet.
type XLSXTable struct {
	Path  string
	Sheet string
}

// LoadDistanceTable implements TableSource.
func (s XLSXTable) LoadDistanceTable(ctx context.Context) (*recommend.DistanceTable, error) {
	f, err := excelize.OpenFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open distance table: %w", err)
	}
	defer f.Close()

	sheet := s.Sheet
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrMalformedTable, sheet, err)
	}
	return tableFromRows(rows)
}

// TableFile picks the reader for path from its extension.
func TableFile(path, sheet string) TableSource {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return XLSXTable{Path: path, Sheet: sheet}
	}
	return CSVTable{Path: path}
}

// tableFromRows turns matrix rows into a table. Cell (row r, column c) is the
// distance from c to r, matching how the matrix is indexed by column.
func tableFromRows(rows [][]string) (*recommend.DistanceTable, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrMalformedTable)
	}

	header := rows[0]
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: header has no locations", ErrMalformedTable)
	}
	names := make([]string, len(header)-1)
	columns := make(map[string]map[string]float64, len(names))
	for i, name := range header[1:] {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("%w: empty location name in header column %d", ErrMalformedTable, i+2)
		}
		if _, dup := columns[name]; dup {
			return nil, fmt.Errorf("%w: duplicate location %q", ErrMalformedTable, name)
		}
		names[i] = name
		columns[name] = make(map[string]float64, len(rows)-1)
	}

	seen := make(map[string]struct{}, len(rows)-1)
	for line, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		other := strings.TrimSpace(strings.TrimPrefix(row[0], "\ufeff"))
		if other == "" {
			if isBlank(row) {
				continue
			}
			return nil, fmt.Errorf("%w: row %d has no location name", ErrMalformedTable, line+2)
		}
		if _, dup := seen[other]; dup {
			return nil, fmt.Errorf("%w: duplicate row %q", ErrMalformedTable, other)
		}
		seen[other] = struct{}{}
		for i, name := range names {
			if i+1 >= len(row) {
				break
			}
			meters, err := parseCell(row[i+1])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %q: %v", ErrMalformedTable, line+2, name, err)
			}
			if !math.IsNaN(meters) {
				columns[name][other] = meters
			}
		}
	}

	table, err := recommend.NewDistanceTable(columns)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedTable, err)
	}
	return table, nil
}

// parseCell returns NaN for empty and NaN-like cells.
func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	switch strings.ToLower(cell) {
	case "", "nan", "null", "none":
		return math.NaN(), nil
	}
	return strconv.ParseFloat(cell, 64)
}

func isBlank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
