package models

// SectorSummary holds the per-sector averages plotted on the geomap.
// An average is nil when no listing in the sector has that value.
type SectorSummary struct {
	Sector       string   `json:"sector"`
	Listings     int      `json:"listings"`
	Price        *float64 `json:"price"`
	PricePerSqft *float64 `json:"price_per_sqft"`
	BuiltUpArea  *float64 `json:"built_up_area"`
	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	Geohash      string   `json:"geohash,omitempty"`
}

// FeatureCount is the number of listings in a sector mentioning a feature.
type FeatureCount struct {
	Feature string `json:"feature"`
	Count   int    `json:"count"`
}

// ScatterPoint is one listing on the area vs price chart.
type ScatterPoint struct {
	BuiltUpArea float64 `json:"built_up_area"`
	Price       float64 `json:"price"`
	Bedrooms    float64 `json:"bedRoom"`
}

// BucketCount is the number of listings with a given bedroom count.
type BucketCount struct {
	Bedrooms float64 `json:"bedRoom"`
	Count    int     `json:"count"`
	Share    float64 `json:"share"`
}

// BoxStats summarises the price spread for a bedroom count.
type BoxStats struct {
	Bedrooms float64 `json:"bedRoom"`
	Count    int     `json:"count"`
	Min      float64 `json:"min"`
	Q1       float64 `json:"q1"`
	Median   float64 `json:"median"`
	Q3       float64 `json:"q3"`
	Max      float64 `json:"max"`
}

// Histogram is a price distribution with shared bin edges.
// Counts holds one series per property type, each len(Edges)-1 long.
type Histogram struct {
	Edges  []float64        `json:"edges"`
	Counts map[string][]int `json:"counts"`
}
