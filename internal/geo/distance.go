// Package geo provides great-circle distance math shared by the discovery
// services.
package geo

import "math"

// earthRadiusMiles is the mean radius of the Earth in statute miles.
const earthRadiusMiles = 3959.0

// DistanceMiles returns the haversine great-circle distance between two
// coordinate pairs, in miles.
func DistanceMiles(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMiles * c
}

// Round2 rounds a distance to two decimal places for presentation.
func Round2(miles float64) float64 {
	return math.Round(miles*100) / 100
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
