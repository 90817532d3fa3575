package pricing

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/insightsphere/internal/models"
)

const testPipeline = `{
  "target": "log1p",
  "intercept": 0.5,
  "numeric": [
    {"column": "bedRoom", "mean": 3, "scale": 1, "weight": 0.1},
    {"column": "built_up_area", "mean": 1500, "scale": 500, "weight": 0.2},
    {"column": "servant room", "mean": 0, "scale": 0, "weight": 0.05}
  ],
  "categorical": [
    {"column": "property_type", "categories": ["flat", "house"], "weights": [0, 0.3]},
    {"column": "sector", "categories": ["sector 45", "sector 102"], "weights": [0.15, -0.1]}
  ]
}`

func sampleInput() Input {
	return Input{
		PropertyType:   "house",
		Sector:         "sector 45",
		Bedrooms:       4,
		Bathrooms:      3,
		Balcony:        "3+",
		AgePossession:  "New Property",
		BuiltUpArea:    2000,
		ServantRoom:    1,
		StoreRoom:      0,
		FurnishingType: "unfurnished",
		LuxuryCategory: "Low",
		FloorCategory:  "Mid Floor",
	}
}

func TestPipeline_Predict(t *testing.T) {
	p, err := ParsePipeline([]byte(testPipeline))
	require.NoError(t, err)

	got, err := p.Predict(sampleInput())
	require.NoError(t, err)

	// 0.5 + 0.1*(4-3) + 0.2*(2000-1500)/500 + 0.05*1 + 0.3 + 0.15
	y := 0.5 + 0.1 + 0.2 + 0.05 + 0.3 + 0.15
	assert.InDelta(t, math.Expm1(y), got, 1e-9)
}

func TestPipeline_PredictUnknownCategory(t *testing.T) {
	p, err := ParsePipeline([]byte(testPipeline))
	require.NoError(t, err)

	in := sampleInput()
	in.Sector = "sector 999"
	got, err := p.Predict(in)
	require.NoError(t, err)

	y := 0.5 + 0.1 + 0.2 + 0.05 + 0.3
	assert.InDelta(t, math.Expm1(y), got, 1e-9)
}

func TestPipeline_MissingFeature(t *testing.T) {
	p, err := ParsePipeline([]byte(`{"numeric":[{"column":"floor_area","scale":1,"weight":1}]}`))
	require.NoError(t, err)

	_, err = p.Predict(sampleInput())
	assert.True(t, errors.Is(err, ErrMissingFeature))
}

func TestPipeline_IdentityTarget(t *testing.T) {
	p, err := ParsePipeline([]byte(`{"intercept": 1.25}`))
	require.NoError(t, err)
	assert.Equal(t, TargetIdentity, p.Target)

	got, err := p.Predict(sampleInput())
	require.NoError(t, err)
	assert.Equal(t, 1.25, got)
}

func TestParsePipeline_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad json", `{`},
		{"unknown target", `{"target": "log10"}`},
		{"weights mismatch", `{"categorical":[{"column":"sector","categories":["a","b"],"weights":[1]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePipeline([]byte(tt.data))
			assert.True(t, errors.Is(err, ErrInvalidPipeline))
		})
	}
}

func TestLoadPipeline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.json")
	require.NoError(t, os.WriteFile(path, []byte(testPipeline), 0o600))

	p, err := LoadPipeline(path)
	require.NoError(t, err)
	assert.Equal(t, TargetLog1p, p.Target)
	assert.Len(t, p.Categorical, 2)

	_, err = LoadPipeline(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestPriceRange(t *testing.T) {
	r := PriceRange(1.5)
	assert.Equal(t, 1.5, r.BasePrice)
	assert.InDelta(t, 1.28, r.Low, 1e-9)
	assert.InDelta(t, 1.72, r.High, 1e-9)
}

func TestFormOptions(t *testing.T) {
	props := []models.Property{
		{Sector: "sector 9", Bedrooms: 3, Bathrooms: 2, Balcony: "2", BuiltUpArea: 1200, FurnishingType: "0"},
		{Sector: "sector 10", Bedrooms: 2, Bathrooms: 2, Balcony: "3+", BuiltUpArea: math.NaN(), FurnishingType: "1"},
		{Sector: "sector 9", Bedrooms: 3, Bathrooms: 3, Balcony: "2", BuiltUpArea: 900},
	}

	opts := FormOptions(props)
	assert.Equal(t, []string{"flat", "house"}, opts.PropertyTypes)
	assert.Equal(t, []string{"sector 10", "sector 9"}, opts.Sectors)
	assert.Equal(t, []float64{2, 3}, opts.Bedrooms)
	assert.Equal(t, []float64{2, 3}, opts.Bathrooms)
	assert.Equal(t, []string{"2", "3+"}, opts.Balconies)
	assert.Equal(t, []float64{900, 1200}, opts.BuiltUpAreas)
	assert.Equal(t, []string{"0", "1"}, opts.FurnishingTypes)
	assert.Equal(t, []float64{0, 1}, opts.ServantRooms)
	assert.Empty(t, opts.AgePossession)
}
