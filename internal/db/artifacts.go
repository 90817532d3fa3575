package db

import (
	"context"
	"fmt"
	"math"

	"github.com/ukydev/insightsphere/internal/models"
	"github.com/ukydev/insightsphere/internal/recommend"
	"go.mongodb.org/mongo-driver/bson"
)

// DistanceTableSource loads the distance table from a collection holding one
// models.DistanceRow document per query location.
type DistanceTableSource struct {
	Collection Finder
}

// LoadDistanceTable reads every row document and builds the table.
func (s DistanceTableSource) LoadDistanceTable(ctx context.Context) (*recommend.DistanceTable, error) {
	cursor, err := s.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find distance rows: %w", err)
	}
	defer cursor.Close(ctx)

	var rows []models.DistanceRow
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode distance rows: %w", err)
	}

	columns := make(map[string]map[string]float64, len(rows))
	for _, row := range rows {
		if row.Location == "" {
			return nil, fmt.Errorf("distance row without location")
		}
		if _, dup := columns[row.Location]; dup {
			return nil, fmt.Errorf("duplicate distance row %q", row.Location)
		}
		if row.Distances == nil {
			row.Distances = map[string]float64{}
		}
		columns[row.Location] = row.Distances
	}
	return recommend.NewDistanceTable(columns)
}

// propertyDocument mirrors models.Property with optional numeric fields, so
// that absent values can become NaN instead of zero.
type propertyDocument struct {
	PropertyType   string   `bson:"property_type"`
	Sector         string   `bson:"sector"`
	Price          *float64 `bson:"price"`
	PricePerSqft   *float64 `bson:"price_per_sqft"`
	BuiltUpArea    *float64 `bson:"built_up_area"`
	Bedrooms       *float64 `bson:"bedRoom"`
	Bathrooms      *float64 `bson:"bathroom"`
	Balcony        string   `bson:"balcony"`
	AgePossession  string   `bson:"agePossession"`
	ServantRoom    *float64 `bson:"servant room"`
	StoreRoom      *float64 `bson:"store room"`
	FurnishingType string   `bson:"furnishing_type"`
	LuxuryCategory string   `bson:"luxury_category"`
	FloorCategory  string   `bson:"floor_category"`
	Latitude       *float64 `bson:"latitude"`
	Longitude      *float64 `bson:"longitude"`
	Features       []string `bson:"features"`
}

func (d propertyDocument) toModel() models.Property {
	return models.Property{
		PropertyType:   d.PropertyType,
		Sector:         d.Sector,
		Price:          orNaN(d.Price),
		PricePerSqft:   orNaN(d.PricePerSqft),
		BuiltUpArea:    orNaN(d.BuiltUpArea),
		Bedrooms:       orNaN(d.Bedrooms),
		Bathrooms:      orNaN(d.Bathrooms),
		Balcony:        d.Balcony,
		AgePossession:  d.AgePossession,
		ServantRoom:    orNaN(d.ServantRoom),
		StoreRoom:      orNaN(d.StoreRoom),
		FurnishingType: d.FurnishingType,
		LuxuryCategory: d.LuxuryCategory,
		FloorCategory:  d.FloorCategory,
		Latitude:       orNaN(d.Latitude),
		Longitude:      orNaN(d.Longitude),
		Features:       d.Features,
	}
}

func orNaN(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// PropertySource loads the listing dataset from a collection.
type PropertySource struct {
	Collection Finder
}

// LoadProperties reads every listing document.
func (s PropertySource) LoadProperties(ctx context.Context) ([]models.Property, error) {
	cursor, err := s.Collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find properties: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []propertyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode properties: %w", err)
	}

	props := make([]models.Property, len(docs))
	for i, d := range docs {
		props[i] = d.toModel()
	}
	return props, nil
}
