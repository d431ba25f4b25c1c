package util

import (
	"math"

	"github.com/paulmach/orb"
)

// EarthRadiusMiles is the mean Earth radius used for all distance math.
const EarthRadiusMiles = 3958.8

// Coordinate is a WGS84 point in orb's [lon, lat] order.
type Coordinate = orb.Point

// NewCoordinate builds a Coordinate from latitude and longitude.
func NewCoordinate(lat, lng float64) Coordinate {
	return orb.Point{lng, lat}
}

// DistanceMiles calculates the great-circle distance between two points using the Haversine formula
// Parameters: lat1, lon1, lat2, lon2 in degrees
// Returns: distance in miles. Inputs are not validated.
func DistanceMiles(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := degToRad(lat1)
	lat2Rad := degToRad(lat2)

	dLat := lat2Rad - lat1Rad
	dLon := degToRad(lon2) - degToRad(lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMiles * c
}

// DistanceBetween is DistanceMiles for two Coordinates.
func DistanceBetween(a, b Coordinate) float64 {
	return DistanceMiles(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}

func degToRad(deg float64) float64 {
	return deg * (math.Pi / 180.0)
}
