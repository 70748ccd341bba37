package geodex

import (
	"github.com/kailas-cloud/geodex/internal/domain/amenity"
	"github.com/kailas-cloud/geodex/internal/domain/candidate"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
	"github.com/kailas-cloud/geodex/internal/domain/infrastructure"
	"github.com/kailas-cloud/geodex/internal/usecase/nearby"
)

// Point is a WGS84 coordinate.
type Point = geo.Point

// Candidate is one ranked location match.
type Candidate = candidate.Candidate

// Amenity is a notable point of interest with distance and walk time.
type Amenity = amenity.Amenity

// Category groups amenities.
type Category = amenity.Category

// Amenity categories.
const (
	Education     = amenity.Education
	Healthcare    = amenity.Healthcare
	Shopping      = amenity.Shopping
	Entertainment = amenity.Entertainment
	Transport     = amenity.Transport
)

// Layer is an infrastructure overlay.
type Layer = infrastructure.Layer

// Infrastructure layers.
const (
	BusStops      = infrastructure.BusStops
	MetroStations = infrastructure.MetroStations
	BusRoutes     = infrastructure.BusRoutes
	MetroLines    = infrastructure.MetroLines
)

// Feature is a point or line of an infrastructure layer.
type Feature = infrastructure.Feature

// AmenityQuery selects amenities around a center.
// Empty Categories requests every category; MaxResults <= 0 uses the server default.
type AmenityQuery = nearby.AmenityQuery

// InfrastructureQuery selects layers around a center. Empty Layers requests every layer.
type InfrastructureQuery = nearby.InfrastructureQuery

// HealthStatus is the server's aggregated health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}

// Healthy reports whether every component is up.
func (h HealthStatus) Healthy() bool { return h.Status == "ok" }
