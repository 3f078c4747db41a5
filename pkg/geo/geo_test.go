package geo

import (
	"math"
	"testing"
)

// TestFeetToMeters tests the feet to meters conversion.
func TestFeetToMeters(t *testing.T) {
	tests := []struct {
		feet     float64
		expected float64
	}{
		{0, 0},
		{1, 0.3048},
		{1000, 304.8},
		{35000, 10668.0},
	}

	for _, tt := range tests {
		got := FeetToMeters(tt.feet)
		if math.Abs(got-tt.expected) > 0.001 {
			t.Errorf("FeetToMeters(%v) = %v, want %v", tt.feet, got, tt.expected)
		}
	}
}

// TestKnotsToMetersPerSecond tests the knots to m/s conversion.
func TestKnotsToMetersPerSecond(t *testing.T) {
	tests := []struct {
		knots    float64
		expected float64
	}{
		{0, 0},
		{1, 0.514444444},
		{100, 51.4444444},
		{450, 231.5},
	}

	for _, tt := range tests {
		got := KnotsToMetersPerSecond(tt.knots)
		if math.Abs(got-tt.expected) > 0.01 {
			t.Errorf("KnotsToMetersPerSecond(%v) = %v, want %v", tt.knots, got, tt.expected)
		}
	}
}

// TestDistanceMeters tests great-circle distances.
func TestDistanceMeters(t *testing.T) {
	t.Run("Zero distance for identical points", func(t *testing.T) {
		if d := DistanceMeters(40.0, -75.0, 40.0, -75.0); d != 0 {
			t.Errorf("Expected 0, got %v", d)
		}
	})

	t.Run("One degree of latitude", func(t *testing.T) {
		// One degree of latitude is ~111.19 km on a 6371 km sphere
		d := DistanceMeters(0, 0, 1, 0)
		if math.Abs(d-111195) > 100 {
			t.Errorf("Expected ~111195 m, got %v", d)
		}
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := DistanceMeters(40.64, -73.78, 33.94, -118.41)
		b := DistanceMeters(33.94, -118.41, 40.64, -73.78)
		if math.Abs(a-b) > 0.001 {
			t.Errorf("Expected symmetric distance, got %v vs %v", a, b)
		}
	})

	t.Run("JFK to LAX", func(t *testing.T) {
		// Known great-circle distance is ~3974 km
		d := DistanceMeters(40.6413, -73.7781, 33.9416, -118.4085)
		if d < 3_950_000 || d > 4_000_000 {
			t.Errorf("Expected ~3974 km, got %v m", d)
		}
	})
}

// TestBearing tests initial great-circle bearings.
func TestBearing(t *testing.T) {
	tests := []struct {
		name     string
		lat1     float64
		lon1     float64
		lat2     float64
		lon2     float64
		expected float64
	}{
		{"Due north", 0, 0, 1, 0, 0},
		{"Due east", 0, 0, 0, 1, 90},
		{"Due south", 1, 0, 0, 0, 180},
		{"Due west", 0, 1, 0, 0, 270},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Bearing(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			if math.Abs(got-tt.expected) > 0.1 {
				t.Errorf("Bearing = %v, want %v", got, tt.expected)
			}
		})
	}
}
