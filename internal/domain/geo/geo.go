// Package geo holds coordinate primitives shared by resolution and nearby search.
package geo

import (
	"math"
	"strconv"
)

// EarthRadiusMeters is the mean radius of Earth used for Haversine distance.
const EarthRadiusMeters = 6_371_000.0

// KeyPrecision is the number of decimal places coordinates keep in cache keys (~11 m).
const KeyPrecision = 4

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether the point lies within latitude [-90,90] and longitude [-180,180].
func (p Point) Valid() bool {
	return ValidateCoordinates(p.Lat, p.Lng)
}

// DistanceTo returns the great-circle distance to other in meters.
func (p Point) DistanceTo(other Point) float64 {
	return Haversine(p.Lat, p.Lng, other.Lat, other.Lng)
}

// Haversine returns the great-circle distance in meters between two points
// specified by latitude and longitude in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := lat1 * math.Pi / 180
	lat2r := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// RoundedDistance returns the distance between a and b rounded to whole meters.
func RoundedDistance(a, b Point) int {
	return int(math.Round(a.DistanceTo(b)))
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// Quantize rounds a coordinate to KeyPrecision decimals and formats it with a
// fixed number of digits, so near-identical inputs produce the same string.
func Quantize(v float64) string {
	scale := math.Pow10(KeyPrecision)
	q := math.Round(v*scale) / scale
	if q == 0 {
		q = 0 // normalize -0
	}
	return strconv.FormatFloat(q, 'f', KeyPrecision, 64)
}
