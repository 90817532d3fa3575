package dataset

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const propertiesCSV = `property_type,sector,price,price_per_sqft,built_up_area,bedRoom,bathroom,balcony,agePossession,servant room,store room,furnishing_type,luxury_category,floor_category,latitude,longitude,features
flat,sector 45,1.25,9000,1389,3,3,3+,Relatively New,0,1,unfurnished,Low,Mid Floor,28.44,77.06,"['Lift', 'Park']"
house,sector 102,,,2200,4,4,2,New Property,1,0,semifurnished,High,Low Floor,,,
`

func TestReadProperties(t *testing.T) {
	props, err := ReadProperties(strings.NewReader(propertiesCSV))
	require.NoError(t, err)
	require.Len(t, props, 2)

	first := props[0]
	assert.Equal(t, "flat", first.PropertyType)
	assert.Equal(t, "sector 45", first.Sector)
	assert.Equal(t, 1.25, first.Price)
	assert.Equal(t, 3.0, first.Bedrooms)
	assert.Equal(t, "3+", first.Balcony)
	assert.Equal(t, 1.0, first.StoreRoom)
	assert.Equal(t, []string{"Lift", "Park"}, first.Features)
	assert.True(t, first.HasCoordinates())

	second := props[1]
	assert.True(t, math.IsNaN(second.Price))
	assert.True(t, math.IsNaN(second.PricePerSqft))
	assert.False(t, second.HasCoordinates())
	assert.Nil(t, second.Features)
}

func TestReadProperties_ColumnOrderAndOptionalColumns(t *testing.T) {
	props, err := ReadProperties(strings.NewReader("price,sector,property_type\n2.5,sector 1,house\n"))
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "house", props[0].PropertyType)
	assert.Equal(t, 2.5, props[0].Price)
	assert.True(t, math.IsNaN(props[0].BuiltUpArea))
}

func TestReadProperties_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"missing column", "sector,price\nsector 1,1\n"},
		{"bad number", "property_type,sector,price\nflat,sector 1,cheap\n"},
		{"bad features", "property_type,sector,price,features\nflat,sector 1,1,Lift\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadProperties(strings.NewReader(tt.content))
			assert.True(t, errors.Is(err, ErrMalformedProperties), "got %v", err)
		})
	}
}

func TestCSVProperties_Load(t *testing.T) {
	path := writeFile(t, "data_viz1.csv", propertiesCSV)

	props, err := CSVProperties{Path: path}.LoadProperties(context.Background())
	require.NoError(t, err)
	assert.Len(t, props, 2)
}

func TestParseFeatureList(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
		wantErr  bool
	}{
		{"empty", "", nil, false},
		{"nan", "nan", nil, false},
		{"empty list", "[]", nil, false},
		{"single quotes", "['Lift', 'Gym']", []string{"Lift", "Gym"}, false},
		{"mixed quotes", `["Children's Play Area", 'Pool']`, []string{"Children's Play Area", "Pool"}, false},
		{"escaped quote", `['Owner\'s Lounge']`, []string{"Owner's Lounge"}, false},
		{"trailing comma", "['Lift',]", []string{"Lift"}, false},
		{"not a list", "Lift", nil, true},
		{"unquoted item", "[Lift]", nil, true},
		{"missing comma", "['a' 'b']", nil, true},
		{"unterminated", "['Lift]", nil, true},
		{"double comma", "['a',,'b']", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFeatureList(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
