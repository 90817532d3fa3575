package pricing

import (
	"math"
	"sort"

	"github.com/ukydev/insightsphere/internal/models"
)

// Input is one row fed to the pipeline. Column names match the training frame.
type Input models.PredictionRequest

func (in Input) values() (map[string]float64, map[string]string) {
	numeric := map[string]float64{
		"bedRoom":       in.Bedrooms,
		"bathroom":      in.Bathrooms,
		"built_up_area": in.BuiltUpArea,
		"servant room":  in.ServantRoom,
		"store room":    in.StoreRoom,
	}
	categorical := map[string]string{
		"property_type":   in.PropertyType,
		"sector":          in.Sector,
		"balcony":         in.Balcony,
		"agePossession":   in.AgePossession,
		"furnishing_type": in.FurnishingType,
		"luxury_category": in.LuxuryCategory,
		"floor_category":  in.FloorCategory,
	}
	return numeric, categorical
}

// FormOptions collects the sorted distinct values the predictor form offers.
func FormOptions(props []models.Property) models.FormOptions {
	sectors := newStringSet()
	balconies := newStringSet()
	ages := newStringSet()
	furnishing := newStringSet()
	luxury := newStringSet()
	floors := newStringSet()
	bedrooms := newFloatSet()
	bathrooms := newFloatSet()
	areas := newFloatSet()

	for _, p := range props {
		sectors.add(p.Sector)
		balconies.add(p.Balcony)
		ages.add(p.AgePossession)
		furnishing.add(p.FurnishingType)
		luxury.add(p.LuxuryCategory)
		floors.add(p.FloorCategory)
		bedrooms.add(p.Bedrooms)
		bathrooms.add(p.Bathrooms)
		areas.add(p.BuiltUpArea)
	}

	return models.FormOptions{
		PropertyTypes:   []string{models.PropertyTypeFlat, models.PropertyTypeHouse},
		Sectors:         sectors.sorted(),
		Bedrooms:        bedrooms.sorted(),
		Bathrooms:       bathrooms.sorted(),
		Balconies:       balconies.sorted(),
		AgePossession:   ages.sorted(),
		BuiltUpAreas:    areas.sorted(),
		ServantRooms:    []float64{0, 1},
		StoreRooms:      []float64{0, 1},
		FurnishingTypes: furnishing.sorted(),
		LuxuryCategory:  luxury.sorted(),
		FloorCategory:   floors.sorted(),
	}
}

type stringSet map[string]struct{}

func newStringSet() stringSet { return stringSet{} }

func (s stringSet) add(v string) {
	if v != "" {
		s[v] = struct{}{}
	}
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

type floatSet map[float64]struct{}

func newFloatSet() floatSet { return floatSet{} }

func (s floatSet) add(v float64) {
	if !math.IsNaN(v) {
		s[v] = struct{}{}
	}
}

func (s floatSet) sorted() []float64 {
	out := make([]float64, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}
