// Package chi is the HTTP transport: handlers, routing and middleware on go-chi.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geodex/internal/domain"
	"github.com/kailas-cloud/geodex/internal/domain/amenity"
	"github.com/kailas-cloud/geodex/internal/domain/candidate"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
	"github.com/kailas-cloud/geodex/internal/domain/infrastructure"
	"github.com/kailas-cloud/geodex/internal/logger"
	healthuc "github.com/kailas-cloud/geodex/internal/usecase/health"
	"github.com/kailas-cloud/geodex/internal/usecase/nearby"
)

const defaultSearchLimit = 10

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Options tunes request defaults.
type Options struct {
	DefaultLimit int // used when limit is absent from a search request
}

// Server serves the geodex HTTP API.
type Server struct {
	locations     LocationResolver
	nearby        NearbyFetcher
	health        HealthChecker
	defaultLimit  int
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	locations LocationResolver,
	nearbySvc NearbyFetcher,
	health HealthChecker,
	opts Options,
	logger *zap.Logger,
) *Server {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = defaultSearchLimit
	}
	s := &Server{
		locations:    locations,
		nearby:       nearbySvc,
		health:       health,
		defaultLimit: opts.DefaultLimit,
		logger:       logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrProviderUnavailable, http.StatusBadGateway, ErrorCodeUpstreamUnavailable),
		sentinelHandler(domain.ErrGeodataUnavailable, http.StatusBadGateway, ErrorCodeUpstreamUnavailable),
	}
	return s
}

// SearchLocations handles GET /v1/locations/search.
func (s *Server) SearchLocations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		query string
		limit *int
	)
	if err := bindQuery(q, "q", true, true, &query); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	if err := bindQuery(q, "limit", true, false, &limit); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}

	n := s.defaultLimit
	if limit != nil {
		n = *limit
	}
	results, err := s.locations.Resolve(r.Context(), query, n)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if results == nil {
		results = []candidate.Candidate{}
	}

	writeJSON(w, http.StatusOK, LocationSearchResponse{
		Query:   query,
		Count:   len(results),
		Results: results,
	})
}

// ListAmenities handles GET /v1/amenities.
func (s *Server) ListAmenities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	center, radius, err := bindArea(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	var (
		rawCategories *[]string
		smallShops    *bool
		maxResults    *int
	)
	for _, b := range []struct {
		name    string
		explode bool
		dest    any
	}{
		{"categories", false, &rawCategories},
		{"include_small_shops", true, &smallShops},
		{"max_results", true, &maxResults},
	} {
		if err := bindQuery(q, b.name, b.explode, false, b.dest); err != nil {
			writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
			return
		}
	}

	categories, err := amenity.ParseCategories(deref(rawCategories))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	amenities, err := s.nearby.FetchAmenities(r.Context(), nearby.AmenityQuery{
		Center:            center,
		RadiusMeters:      radius,
		Categories:        categories,
		IncludeSmallShops: deref(smallShops),
		MaxResults:        deref(maxResults),
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if amenities == nil {
		amenities = []amenity.Amenity{}
	}

	writeJSON(w, http.StatusOK, AmenitiesResponse{
		Center:       center,
		RadiusMeters: radius,
		Count:        len(amenities),
		Amenities:    amenities,
	})
}

// ListInfrastructure handles GET /v1/infrastructure.
func (s *Server) ListInfrastructure(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	center, radius, err := bindArea(q)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	var rawLayers *[]string
	if err := bindQuery(q, "layers", false, false, &rawLayers); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, err.Error())
		return
	}
	layers, err := infrastructure.ParseLayers(deref(rawLayers))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	features, err := s.nearby.FetchInfrastructure(r.Context(), nearby.InfrastructureQuery{
		Center:       center,
		RadiusMeters: radius,
		Layers:       layers,
	})
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	if features == nil {
		features = map[infrastructure.Layer][]infrastructure.Feature{}
	}

	writeJSON(w, http.StatusOK, InfrastructureResponse{
		Center:       center,
		RadiusMeters: radius,
		Layers:       features,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// bindQuery binds one form-style query parameter. Optional parameters take a
// pointer to a pointer and are left nil when absent.
// Non-exploded parameters are split on commas.
func bindQuery(q url.Values, name string, explode, required bool, dest any) error {
	return runtime.BindQueryParameter("form", explode, required, name, q, dest) //nolint:wrapcheck // message is client-facing
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func bindArea(q url.Values) (geo.Point, int, error) {
	var (
		center geo.Point
		radius int
	)
	if err := bindQuery(q, "lat", true, true, &center.Lat); err != nil {
		return geo.Point{}, 0, err
	}
	if err := bindQuery(q, "lng", true, true, &center.Lng); err != nil {
		return geo.Point{}, 0, err
	}
	if err := bindQuery(q, "radius", true, true, &radius); err != nil {
		return geo.Point{}, 0, err
	}
	return center, radius, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidQuery,
		domain.ErrInvalidLimit,
		domain.ErrInvalidCoordinates,
		domain.ErrInvalidRadius,
		domain.ErrUnknownCategory,
		domain.ErrUnknownLayer,
		domain.ErrProviderUnavailable,
		domain.ErrGeodataUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// validationHandler maps every caller input error to 400.
func validationHandler(w http.ResponseWriter, err error, msg string) bool {
	if !domain.IsValidation(err) {
		return false
	}
	writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			log.Debug("Request rejected", zap.Error(err))
			return
		}
	}
	log.Error("Internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
