package models

// PredictionRequest is the price predictor form.
type PredictionRequest struct {
	PropertyType   string  `json:"property_type" validate:"required,oneof=flat house"`
	Sector         string  `json:"sector" validate:"required"`
	Bedrooms       float64 `json:"bedRoom" validate:"gt=0"`
	Bathrooms      float64 `json:"bathroom" validate:"gt=0"`
	Balcony        string  `json:"balcony" validate:"required"`
	AgePossession  string  `json:"agePossession" validate:"required"`
	BuiltUpArea    float64 `json:"built_up_area" validate:"gt=0"`
	ServantRoom    float64 `json:"servant_room" validate:"min=0,max=1"`
	StoreRoom      float64 `json:"store_room" validate:"min=0,max=1"`
	FurnishingType string  `json:"furnishing_type" validate:"required"`
	LuxuryCategory string  `json:"luxury_category" validate:"required"`
	FloorCategory  string  `json:"floor_category" validate:"required"`
}

// PredictionResponse is the predicted price range in crore.
type PredictionResponse struct {
	BasePrice float64 `json:"base_price"`
	Low       float64 `json:"low"`
	High      float64 `json:"high"`
}

// FormOptions lists the choices offered by the price predictor form.
type FormOptions struct {
	PropertyTypes   []string  `json:"property_types"`
	Sectors         []string  `json:"sectors"`
	Bedrooms        []float64 `json:"bedrooms"`
	Bathrooms       []float64 `json:"bathrooms"`
	Balconies       []string  `json:"balconies"`
	AgePossession   []string  `json:"age_possession"`
	BuiltUpAreas    []float64 `json:"built_up_areas"`
	ServantRooms    []float64 `json:"servant_rooms"`
	StoreRooms      []float64 `json:"store_rooms"`
	FurnishingTypes []string  `json:"furnishing_types"`
	LuxuryCategory  []string  `json:"luxury_categories"`
	FloorCategory   []string  `json:"floor_categories"`
}
