package utils

import (
	"fmt"
	"math"
)

// EarthRadiusKM is the mean Earth radius used by HaversineKM.
const EarthRadiusKM = 6371.0

// HaversineKM returns the great-circle distance in kilometres between two
// points given in decimal degrees.
func HaversineKM(lat1, lon1, lat2, lon2 float64) float64 {
	φ1 := lat1 * math.Pi / 180.0
	φ2 := lat2 * math.Pi / 180.0
	dφ := (lat2 - lat1) * math.Pi / 180.0
	dλ := (lon2 - lon1) * math.Pi / 180.0
	a := math.Sin(dφ/2)*math.Sin(dφ/2) + math.Cos(φ1)*math.Cos(φ2)*math.Sin(dλ/2)*math.Sin(dλ/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKM * c
}

// PresentableDistance formats a walking distance for display
func PresentableDistance(km float64) string {
	const atStopM = 25.0

	m := km * 1000
	switch {
	case m < atStopM:
		return "at stop"
	case m < 1000:
		return fmt.Sprintf("%d m", int(math.Round(m/10)*10))
	default:
		return fmt.Sprintf("%.1f km", km)
	}
}
