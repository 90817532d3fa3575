package models

import "math"

// Property types offered by the dashboard.
const (
	PropertyTypeFlat  = "flat"
	PropertyTypeHouse = "house"
)

// Property is a single listing of the pre-computed real estate dataset.
// Numeric fields that are missing in the source are NaN.
type Property struct {
	PropertyType   string   `bson:"property_type" json:"property_type"`
	Sector         string   `bson:"sector" json:"sector"`
	Price          float64  `bson:"price" json:"price"` // in crore
	PricePerSqft   float64  `bson:"price_per_sqft" json:"price_per_sqft"`
	BuiltUpArea    float64  `bson:"built_up_area" json:"built_up_area"`
	Bedrooms       float64  `bson:"bedRoom" json:"bedRoom"`
	Bathrooms      float64  `bson:"bathroom" json:"bathroom"`
	Balcony        string   `bson:"balcony" json:"balcony"`
	AgePossession  string   `bson:"agePossession" json:"agePossession"`
	ServantRoom    float64  `bson:"servant room" json:"servant_room"`
	StoreRoom      float64  `bson:"store room" json:"store_room"`
	FurnishingType string   `bson:"furnishing_type" json:"furnishing_type"`
	LuxuryCategory string   `bson:"luxury_category" json:"luxury_category"`
	FloorCategory  string   `bson:"floor_category" json:"floor_category"`
	Latitude       float64  `bson:"latitude" json:"latitude"`
	Longitude      float64  `bson:"longitude" json:"longitude"`
	Features       []string `bson:"features,omitempty" json:"features,omitempty"`
}

// HasCoordinates reports whether both coordinates are known.
func (p Property) HasCoordinates() bool {
	return !math.IsNaN(p.Latitude) && !math.IsNaN(p.Longitude)
}

// IsValidPropertyType checks if a property type is one the dashboard understands
func IsValidPropertyType(t string) bool {
	switch t {
	case PropertyTypeFlat, PropertyTypeHouse:
		return true
	default:
		return false
	}
}
