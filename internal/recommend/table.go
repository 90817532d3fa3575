// Package recommend answers "which locations are within this radius" over a
// precomputed location distance table.
package recommend

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
)

var (
	ErrInvalidLocation  = errors.New("invalid location")
	ErrInvalidRadius    = errors.New("invalid radius")
	ErrNegativeDistance = errors.New("negative distance")
)

// Neighbor is a location found by a radius query together with its raw distance.
type Neighbor struct {
	Location string
	Meters   float64
}

// Kilometers returns the distance rounded to a whole kilometer (half to even),
// saturating at math.MaxInt.
func (n Neighbor) Kilometers() int {
	km := math.RoundToEven(n.Meters / 1000)
	if km >= math.MaxInt {
		return math.MaxInt
	}
	return int(km)
}

// String formats the neighbor the way the dashboard lists it, e.g. "Sector 45 3kms".
func (n Neighbor) String() string {
	return n.Location + " " + strconv.Itoa(n.Kilometers()) + "kms"
}

// DistanceTable is a directed table of distances in meters, keyed by the query
// location first. It is never modified after construction and can be shared
// between goroutines without locking.
type DistanceTable struct {
	columns   map[string]map[string]float64
	locations []string
}

// NewDistanceTable builds a table from columns[location][other] = meters.
// The input is copied. NaN and +Inf cells are treated as missing and self
// distances are dropped; a negative cell is an error.
func NewDistanceTable(columns map[string]map[string]float64) (*DistanceTable, error) {
	t := &DistanceTable{
		columns:   make(map[string]map[string]float64, len(columns)),
		locations: make([]string, 0, len(columns)),
	}
	for location, row := range columns {
		copied := make(map[string]float64, len(row))
		for other, meters := range row {
			if other == location || math.IsNaN(meters) || math.IsInf(meters, 1) {
				continue
			}
			if meters < 0 {
				return nil, fmt.Errorf("%w: %q -> %q is %v", ErrNegativeDistance, location, other, meters)
			}
			copied[other] = meters
		}
		t.columns[location] = copied
		t.locations = append(t.locations, location)
	}
	sort.Strings(t.locations)
	return t, nil
}

// Locations returns the valid query locations in ascending order.
func (t *DistanceTable) Locations() []string {
	out := make([]string, len(t.locations))
	copy(out, t.locations)
	return out
}

// Len returns the number of query locations.
func (t *DistanceTable) Len() int {
	return len(t.locations)
}

// WithinRadius returns every other location strictly closer than radiusKm to
// location, nearest first. Equal distances are ordered by name.
// Comparison uses the unrounded meter values.
func (t *DistanceTable) WithinRadius(location string, radiusKm float64) ([]Neighbor, error) {
	row, ok := t.columns[location]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidLocation, location)
	}
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRadius, radiusKm)
	}

	limit := radiusKm * 1000
	result := make([]Neighbor, 0)
	for other, meters := range row {
		if meters < limit {
			result = append(result, Neighbor{Location: other, Meters: meters})
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Meters != result[j].Meters {
			return result[i].Meters < result[j].Meters
		}
		return result[i].Location < result[j].Location
	})
	return result, nil
}
