package geospatial

import (
	"math"
	"testing"
)

func TestDistanceKm_Symmetry(t *testing.T) {
	pairs := [][4]float64{
		{27.7172, 85.3240, 28.2096, 83.9856}, // Kathmandu <-> Pokhara
		{0, 0, 0, 1},
		{-33.8688, 151.2093, 51.5074, -0.1278},
		{89.9, 0, -89.9, 180},
	}

	for _, p := range pairs {
		ab := DistanceKm(p[0], p[1], p[2], p[3])
		ba := DistanceKm(p[2], p[3], p[0], p[1])
		if math.Abs(ab-ba) > 1e-9 {
			t.Errorf("distance not symmetric: %v vs %v", ab, ba)
		}
	}
}

func TestDistanceKm_Zero(t *testing.T) {
	if d := DistanceKm(27.7172, 85.3240, 27.7172, 85.3240); d != 0 {
		t.Errorf("expected 0 for identical points, got %v", d)
	}
}

func TestDistanceKm_KnownValue(t *testing.T) {
	// One degree of longitude at the equator is ~111.19 km.
	d := DistanceKm(0, 0, 0, 1)
	if math.Abs(d-111.19) > 0.5 {
		t.Errorf("expected ~111.19 km, got %v", d)
	}
}

func TestFormatDistance(t *testing.T) {
	cases := []struct {
		km   float64
		want string
	}{
		{0, "0.0 km"},
		{0.96, "1.0 km"},
		{4.25, "4.2 km"},
		{999.94, "999.9 km"},
		{1000, "1000 km"},
		{12345.6, "12346 km"},
	}

	for _, c := range cases {
		if got := FormatDistance(c.km); got != c.want {
			t.Errorf("FormatDistance(%v) = %q, want %q", c.km, got, c.want)
		}
	}
}

func TestIsValidLatLon(t *testing.T) {
	valid := [][2]float64{{0, 0}, {90, 180}, {-90, -180}, {27.7172, 85.3240}}
	for _, p := range valid {
		if !IsValidLatLon(p[0], p[1]) {
			t.Errorf("expected (%v, %v) to be valid", p[0], p[1])
		}
	}

	invalid := [][2]float64{
		{91, 0}, {-91, 0}, {0, 181}, {0, -181},
		{math.NaN(), 0}, {0, math.Inf(1)},
	}
	for _, p := range invalid {
		if IsValidLatLon(p[0], p[1]) {
			t.Errorf("expected (%v, %v) to be invalid", p[0], p[1])
		}
	}
}
