package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/ukydev/insightsphere/internal/models"
)

var ErrMalformedProperties = errors.New("malformed property dataset")

// PropertySource loads the listing dataset.
type PropertySource interface {
	LoadProperties(ctx context.Context) ([]models.Property, error)
}

// CSVProperties reads listings from a CSV file with a header row.
// Columns are matched by name and may appear in any order.
type CSVProperties struct {
	Path string
}

var requiredPropertyColumns = []string{"property_type", "sector", "price"}

// LoadProperties implements PropertySource.
func (s CSVProperties) LoadProperties(ctx context.Context) ([]models.Property, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open property dataset: %w", err)
	}
	defer f.Close()
	return ReadProperties(f)
}

// ReadProperties parses listings from CSV.
func ReadProperties(r io.Reader) ([]models.Property, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: reading header: %v", ErrMalformedProperties, err)
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}
	for _, name := range requiredPropertyColumns {
		if _, ok := index[name]; !ok {
			return nil, fmt.Errorf("%w: missing column %q", ErrMalformedProperties, name)
		}
	}

	var props []models.Property
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedProperties, line, err)
		}

		row := propertyRow{index: index, record: record}
		p := models.Property{
			PropertyType:   row.str("property_type"),
			Sector:         row.str("sector"),
			Price:          row.num("price"),
			PricePerSqft:   row.num("price_per_sqft"),
			BuiltUpArea:    row.num("built_up_area"),
			Bedrooms:       row.num("bedRoom"),
			Bathrooms:      row.num("bathroom"),
			Balcony:        row.str("balcony"),
			AgePossession:  row.str("agePossession"),
			ServantRoom:    row.num("servant room"),
			StoreRoom:      row.num("store room"),
			FurnishingType: row.str("furnishing_type"),
			LuxuryCategory: row.str("luxury_category"),
			FloorCategory:  row.str("floor_category"),
			Latitude:       row.num("latitude"),
			Longitude:      row.num("longitude"),
		}
		if row.err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedProperties, line, row.err)
		}
		if p.Features, err = ParseFeatureList(row.str("features")); err != nil {
			return nil, fmt.Errorf("%w: line %d: features: %v", ErrMalformedProperties, line, err)
		}
		props = append(props, p)
	}
	return props, nil
}

// propertyRow reads named cells of one record and keeps the first parse error.
type propertyRow struct {
	index  map[string]int
	record []string
	err    error
}

func (r *propertyRow) str(column string) string {
	i, ok := r.index[column]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r *propertyRow) num(column string) float64 {
	cell := r.str(column)
	v, err := parseCell(cell)
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("column %q: %w", column, err)
		}
		return math.NaN()
	}
	return v
}

// ParseFeatureList parses a list literal of quoted strings such as
// ['Lift', "Children's Play Area"]. Empty input yields nil.
func ParseFeatureList(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil, nil
	}
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("not a list: %q", s)
	}
	body := []rune(s[1 : len(s)-1])

	var out []string
	expectItem := true
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == ' ' || c == '\t':
		case c == ',':
			if expectItem {
				return nil, fmt.Errorf("empty item at offset %d", i)
			}
			expectItem = true
		case c == '\'' || c == '"':
			if !expectItem {
				return nil, fmt.Errorf("missing comma at offset %d", i)
			}
			var b strings.Builder
			closed := false
			for i++; i < len(body); i++ {
				if body[i] == '\\' && i+1 < len(body) {
					i++
					b.WriteRune(body[i])
					continue
				}
				if body[i] == c {
					closed = true
					break
				}
				b.WriteRune(body[i])
			}
			if !closed {
				return nil, fmt.Errorf("unterminated string")
			}
			out = append(out, b.String())
			expectItem = false
		default:
			return nil, fmt.Errorf("unexpected %q at offset %d", c, i)
		}
	}
	return out, nil
}
