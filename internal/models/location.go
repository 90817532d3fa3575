package models

// Location represents a geographical location with latitude and longitude coordinates.
type Location struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lon float64 `bson:"lon" json:"lon"`
}

// DistanceRow is one column of the location distance table as it is stored in MongoDB:
// the distances in meters from Location to every other location.
type DistanceRow struct {
	Location  string             `bson:"location" json:"location"`
	Distances map[string]float64 `bson:"distances" json:"distances"`
}

// Recommendation is a single nearby location as returned to the dashboard.
type Recommendation struct {
	Location   string `json:"location"`
	DistanceKm int    `json:"distance_km"`
	Label      string `json:"label"`
}

// RecommendationResponse is the body of a radius query response.
type RecommendationResponse struct {
	Location string           `json:"location"`
	RadiusKm float64          `json:"radius_km"`
	Results  []Recommendation `json:"results"`
}
