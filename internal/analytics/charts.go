package analytics

import (
	"math"
	"sort"

	"github.com/ukydev/insightsphere/internal/models"
	"gonum.org/v1/gonum/stat"
)

// DefaultHistogramBins is used when the caller does not pick a bin count.
const DefaultHistogramBins = 30

// AreaPriceScatter returns built-up area against price for one property type.
// Listings missing either value are left out.
func AreaPriceScatter(props []models.Property, propertyType string) ([]models.ScatterPoint, error) {
	if !models.IsValidPropertyType(propertyType) {
		return nil, ErrInvalidPropertyType
	}
	points := make([]models.ScatterPoint, 0)
	for _, p := range props {
		if p.PropertyType != propertyType || !finite(p.BuiltUpArea) || !finite(p.Price) {
			continue
		}
		points = append(points, models.ScatterPoint{
			BuiltUpArea: p.BuiltUpArea,
			Price:       p.Price,
			Bedrooms:    p.Bedrooms,
		})
	}
	return points, nil
}

// BHKDistribution counts listings per bedroom count in sector, or in every
// sector for SectorOverall. Buckets are sorted by bedroom count.
func BHKDistribution(props []models.Property, sector string) ([]models.BucketCount, error) {
	counts := make(map[float64]int)
	found := sector == SectorOverall
	total := 0
	for _, p := range props {
		if sector != SectorOverall && p.Sector != sector {
			continue
		}
		found = true
		if !finite(p.Bedrooms) {
			continue
		}
		counts[p.Bedrooms]++
		total++
	}
	if !found {
		return nil, ErrUnknownSector
	}

	out := make([]models.BucketCount, 0, len(counts))
	for bedrooms, n := range counts {
		out = append(out, models.BucketCount{
			Bedrooms: bedrooms,
			Count:    n,
			Share:    float64(n) / float64(total),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bedrooms < out[j].Bedrooms })
	return out, nil
}

// BHKPriceBoxes summarises prices per bedroom count up to maxBedrooms.
// Quartiles use the empirical quantile of the sorted prices.
func BHKPriceBoxes(props []models.Property, maxBedrooms float64) []models.BoxStats {
	prices := make(map[float64][]float64)
	for _, p := range props {
		if !finite(p.Bedrooms) || p.Bedrooms > maxBedrooms || !finite(p.Price) {
			continue
		}
		prices[p.Bedrooms] = append(prices[p.Bedrooms], p.Price)
	}

	out := make([]models.BoxStats, 0, len(prices))
	for bedrooms, xs := range prices {
		sort.Float64s(xs)
		out = append(out, models.BoxStats{
			Bedrooms: bedrooms,
			Count:    len(xs),
			Min:      xs[0],
			Q1:       stat.Quantile(0.25, stat.Empirical, xs, nil),
			Median:   stat.Quantile(0.5, stat.Empirical, xs, nil),
			Q3:       stat.Quantile(0.75, stat.Empirical, xs, nil),
			Max:      xs[len(xs)-1],
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Bedrooms < out[j].Bedrooms })
	return out
}

// PriceHistogram bins house and flat prices over the same edges so the two
// series can be overlaid. bins below 1 falls back to DefaultHistogramBins.
func PriceHistogram(props []models.Property, bins int) models.Histogram {
	if bins < 1 {
		bins = DefaultHistogramBins
	}
	series := map[string][]float64{
		models.PropertyTypeHouse: {},
		models.PropertyTypeFlat:  {},
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range props {
		xs, ok := series[p.PropertyType]
		if !ok || !finite(p.Price) {
			continue
		}
		series[p.PropertyType] = append(xs, p.Price)
		lo = math.Min(lo, p.Price)
		hi = math.Max(hi, p.Price)
	}

	h := models.Histogram{Edges: []float64{}, Counts: make(map[string][]int, len(series))}
	if math.IsInf(lo, 1) {
		for name := range series {
			h.Counts[name] = []int{}
		}
		return h
	}

	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	h.Edges = make([]float64, bins+1)
	width := (hi - lo) / float64(bins)
	for i := range h.Edges {
		h.Edges[i] = lo + float64(i)*width
	}
	h.Edges[bins] = hi

	// stat.Histogram bins are half-open, so widen the last divider to keep the maximum.
	dividers := make([]float64, len(h.Edges))
	copy(dividers, h.Edges)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))

	for name, xs := range series {
		sort.Float64s(xs)
		counts := stat.Histogram(nil, dividers, xs, nil)
		h.Counts[name] = make([]int, len(counts))
		for i, c := range counts {
			h.Counts[name][i] = int(c)
		}
	}
	return h
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
