// Package analytics computes the chart data behind the analysis pages from
// the listing dataset. Every function is pure and safe for concurrent use.
package analytics

import (
	"errors"
	"sort"

	"github.com/mmcloughlin/geohash"
	"github.com/ukydev/insightsphere/internal/models"
	"gonum.org/v1/gonum/stat"
)

// SectorOverall selects every listing in BHKDistribution.
const SectorOverall = "overall"

// geohashPrecision gives cells of roughly 1.2km x 0.6km.
const geohashPrecision = 6

var (
	ErrUnknownSector       = errors.New("unknown sector")
	ErrInvalidPropertyType = errors.New("invalid property type")
)

// SectorGeomap averages price, price per sqft, built-up area and coordinates
// per sector, ignoring missing values. Results are sorted by sector.
func SectorGeomap(props []models.Property) []models.SectorSummary {
	type acc struct {
		listings int
		price    []float64
		ppsf     []float64
		area     []float64
		lat      []float64
		lon      []float64
	}
	groups := make(map[string]*acc)
	for _, p := range props {
		g, ok := groups[p.Sector]
		if !ok {
			g = &acc{}
			groups[p.Sector] = g
		}
		g.listings++
		g.price = appendFinite(g.price, p.Price)
		g.ppsf = appendFinite(g.ppsf, p.PricePerSqft)
		g.area = appendFinite(g.area, p.BuiltUpArea)
		g.lat = appendFinite(g.lat, p.Latitude)
		g.lon = appendFinite(g.lon, p.Longitude)
	}

	out := make([]models.SectorSummary, 0, len(groups))
	for sector, g := range groups {
		s := models.SectorSummary{
			Sector:       sector,
			Listings:     g.listings,
			Price:        mean(g.price),
			PricePerSqft: mean(g.ppsf),
			BuiltUpArea:  mean(g.area),
			Latitude:     mean(g.lat),
			Longitude:    mean(g.lon),
		}
		if s.Latitude != nil && s.Longitude != nil {
			s.Geohash = geohash.EncodeWithPrecision(*s.Latitude, *s.Longitude, geohashPrecision)
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sector < out[j].Sector })
	return out
}

// Sectors returns the distinct sectors in order of first appearance.
func Sectors(props []models.Property) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0)
	for _, p := range props {
		if p.Sector == "" {
			continue
		}
		if _, ok := seen[p.Sector]; ok {
			continue
		}
		seen[p.Sector] = struct{}{}
		out = append(out, p.Sector)
	}
	return out
}

// SectorFeatures concatenates the feature lists of every listing in sector.
func SectorFeatures(props []models.Property, sector string) ([]string, error) {
	found := false
	features := make([]string, 0)
	for _, p := range props {
		if p.Sector != sector {
			continue
		}
		found = true
		features = append(features, p.Features...)
	}
	if !found {
		return nil, ErrUnknownSector
	}
	return features, nil
}

// FeatureCounts counts occurrences of each feature, most frequent first and
// alphabetical among equal counts.
func FeatureCounts(features []string) []models.FeatureCount {
	counts := make(map[string]int)
	for _, f := range features {
		if f == "" {
			continue
		}
		counts[f]++
	}
	out := make([]models.FeatureCount, 0, len(counts))
	for f, n := range counts {
		out = append(out, models.FeatureCount{Feature: f, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Feature < out[j].Feature
	})
	return out
}

func appendFinite(xs []float64, v float64) []float64 {
	if !finite(v) {
		return xs
	}
	return append(xs, v)
}

// mean is nil for an empty sample.
func mean(xs []float64) *float64 {
	if len(xs) == 0 {
		return nil
	}
	m := stat.Mean(xs, nil)
	return &m
}
