package chi

import (
	"context"

	"github.com/kailas-cloud/geodex/internal/domain/amenity"
	"github.com/kailas-cloud/geodex/internal/domain/candidate"
	"github.com/kailas-cloud/geodex/internal/domain/infrastructure"
	healthuc "github.com/kailas-cloud/geodex/internal/usecase/health"
	"github.com/kailas-cloud/geodex/internal/usecase/nearby"
)

// LocationResolver resolves free text to ranked candidates.
type LocationResolver interface {
	Resolve(ctx context.Context, query string, limit int) ([]candidate.Candidate, error)
}

// NearbyFetcher returns amenities and infrastructure around a point.
type NearbyFetcher interface {
	FetchAmenities(ctx context.Context, q nearby.AmenityQuery) ([]amenity.Amenity, error)
	FetchInfrastructure(
		ctx context.Context, q nearby.InfrastructureQuery,
	) (map[infrastructure.Layer][]infrastructure.Feature, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
