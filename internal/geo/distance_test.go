package geo

import (
	"math"
	"testing"
)

func TestHaversineKnownDistance(t *testing.T) {
	// Sivakasi to Madurai is roughly 60 km as the crow flies.
	d := HaversineKm(9.4533, 77.7900, 9.9252, 78.1198)
	if d < 55 || d > 70 {
		t.Errorf("Sivakasi-Madurai distance out of range: %.1f km", d)
	}
}

func TestHaversineSymmetry(t *testing.T) {
	cases := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"regional", 9.4533, 77.7900, 13.0827, 80.2707},
		{"equator crossing", -1.5, 36.8, 1.3, 103.8},
		{"antimeridian", 10, 179.5, 10, -179.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ab := HaversineKm(tc.lat1, tc.lon1, tc.lat2, tc.lon2)
			ba := HaversineKm(tc.lat2, tc.lon2, tc.lat1, tc.lon1)
			if math.Abs(ab-ba) > 1e-9 {
				t.Errorf("asymmetric distance: %.12f vs %.12f", ab, ba)
			}
		})
	}
}

func TestHaversineZero(t *testing.T) {
	if d := HaversineKm(9.45, 77.79, 9.45, 77.79); d != 0 {
		t.Errorf("identical points should be 0 km apart, got %f", d)
	}
}

func TestValidCoordinates(t *testing.T) {
	cases := []struct {
		lat, lon float64
		want     bool
	}{
		{9.92, 78.11, true},
		{90, 180, true},
		{-90, -180, true},
		{90.01, 0, false},
		{0, -180.5, false},
		{-91, 200, false},
	}

	for _, tc := range cases {
		if got := ValidCoordinates(tc.lat, tc.lon); got != tc.want {
			t.Errorf("ValidCoordinates(%v, %v) = %v, want %v", tc.lat, tc.lon, got, tc.want)
		}
	}
}
