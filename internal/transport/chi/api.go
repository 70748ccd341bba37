package chi

import (
	"github.com/kailas-cloud/geodex/internal/domain/amenity"
	"github.com/kailas-cloud/geodex/internal/domain/candidate"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
	"github.com/kailas-cloud/geodex/internal/domain/infrastructure"
)

// ErrorCode is a machine-readable error identifier.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	ErrorCodeBadRequest          ErrorCode = "bad_request"
	ErrorCodeValidationFailed    ErrorCode = "validation_failed"
	ErrorCodeUnauthorized        ErrorCode = "unauthorized"
	ErrorCodeNotFound            ErrorCode = "not_found"
	ErrorCodeMethodNotAllowed    ErrorCode = "method_not_allowed"
	ErrorCodeUpstreamUnavailable ErrorCode = "upstream_unavailable"
	ErrorCodeInternalError       ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// LocationSearchResponse is returned by GET /v1/locations/search.
type LocationSearchResponse struct {
	Query   string                `json:"query"`
	Count   int                   `json:"count"`
	Results []candidate.Candidate `json:"results"`
}

// AmenitiesResponse is returned by GET /v1/amenities.
type AmenitiesResponse struct {
	Center       geo.Point         `json:"center"`
	RadiusMeters int               `json:"radius_meters"`
	Count        int               `json:"count"`
	Amenities    []amenity.Amenity `json:"amenities"`
}

// InfrastructureResponse is returned by GET /v1/infrastructure.
type InfrastructureResponse struct {
	Center       geo.Point                                         `json:"center"`
	RadiusMeters int                                               `json:"radius_meters"`
	Layers       map[infrastructure.Layer][]infrastructure.Feature `json:"layers"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
