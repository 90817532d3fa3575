package models

import (
	"math"
	"testing"
)

func TestIsValidPropertyType(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected bool
	}{
		{"flat", PropertyTypeFlat, true},
		{"house", PropertyTypeHouse, true},
		{"villa", "villa", false},
		{"upper case", "FLAT", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValidPropertyType(tt.value)
			if result != tt.expected {
				t.Errorf("IsValidPropertyType(%q) = %v, want %v", tt.value, result, tt.expected)
			}
		})
	}
}

func TestProperty_HasCoordinates(t *testing.T) {
	if !(Property{Latitude: 28.4, Longitude: 77.0}).HasCoordinates() {
		t.Error("expected coordinates to be present")
	}
	if (Property{Latitude: math.NaN(), Longitude: 77.0}).HasCoordinates() {
		t.Error("expected NaN latitude to count as missing")
	}
	if (Property{Latitude: 28.4, Longitude: math.NaN()}).HasCoordinates() {
		t.Error("expected NaN longitude to count as missing")
	}
}
