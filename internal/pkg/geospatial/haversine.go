package geospatial

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// DistanceKm calculates the great-circle distance in kilometers between two
// points using the haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// FormatDistance renders a distance for display: one decimal with a "km"
// suffix below 1000 km, whole kilometers above. No locale-sensitive rounding.
func FormatDistance(km float64) string {
	if km < 1000 {
		return fmt.Sprintf("%.1f km", km)
	}
	return fmt.Sprintf("%.0f km", km)
}

// IsValidLatLon reports whether the pair is a usable WGS 84 coordinate.
func IsValidLatLon(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
