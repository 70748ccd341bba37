// Package amenity models nearby points of interest grouped by category.
package amenity

import (
	"math"

	"github.com/kailas-cloud/geodex/internal/domain/geo"
)

// WalkingSpeedMetersPerMinute is the assumed average walking speed.
const WalkingSpeedMetersPerMinute = 80.0

// Amenity is a notable point of interest near a query center.
type Amenity struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Category        Category          `json:"category"`
	Kind            string            `json:"kind"`
	Coordinates     geo.Point         `json:"coordinates"`
	DistanceMeters  int               `json:"distance_meters"`
	WalkTimeMinutes int               `json:"walk_time_minutes"`
	RawTags         map[string]string `json:"raw_tags,omitempty"`
}

// WalkMinutes converts a distance in meters to rounded walking minutes.
func WalkMinutes(distanceMeters int) int {
	return int(math.Round(float64(distanceMeters) / WalkingSpeedMetersPerMinute))
}
