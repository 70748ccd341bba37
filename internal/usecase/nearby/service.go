// Package nearby aggregates amenities and transit infrastructure around a point.
package nearby

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/geodex/internal/cache"
	"github.com/kailas-cloud/geodex/internal/domain"
	"github.com/kailas-cloud/geodex/internal/domain/amenity"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
	"github.com/kailas-cloud/geodex/internal/domain/infrastructure"
	"github.com/kailas-cloud/geodex/internal/logger"
)

// Cache key scopes.
const (
	ScopeAmenities     = "amenities"
	ScopeAmenity       = "amenity"
	ScopeInfra         = "infra"
	ScopeInfraLayer    = "infra-layer"
	defaultMaxResults  = 50
	defaultConcurrency = 4
)

// Caches groups the four cache scopes.
type Caches struct {
	Amenities      Cache[[]amenity.Amenity] // combined request
	Category       Cache[[]amenity.Amenity] // per category
	Infrastructure Cache[map[infrastructure.Layer][]infrastructure.Feature]
	Layer          Cache[[]infrastructure.Feature]
}

// Config holds fetcher settings.
type Config struct {
	QueryTimeoutSec   int // QL [timeout:N]
	MaxConcurrency    int
	MaxRadiusMeters   int // 0 disables the upper bound
	DefaultMaxResults int
}

// Service is the amenity and infrastructure fetcher.
type Service struct {
	geodata Geodata
	caches  Caches
	cfg     Config
	logger  *zap.Logger
}

// New creates a fetcher. Caches are owned by the caller.
func New(geodata Geodata, caches Caches, cfg Config, logger *zap.Logger) *Service {
	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = defaultConcurrency
	}
	if cfg.DefaultMaxResults <= 0 {
		cfg.DefaultMaxResults = defaultMaxResults
	}
	return &Service{geodata: geodata, caches: caches, cfg: cfg, logger: logger}
}

func (s *Service) validateArea(center geo.Point, radius int) error {
	if !geo.ValidateCoordinates(center.Lat, center.Lng) {
		return fmt.Errorf("%w: %v,%v", domain.ErrInvalidCoordinates, center.Lat, center.Lng)
	}
	if radius <= 0 {
		return fmt.Errorf("%w: must be positive, got %d", domain.ErrInvalidRadius, radius)
	}
	if s.cfg.MaxRadiusMeters > 0 && radius > s.cfg.MaxRadiusMeters {
		return fmt.Errorf("%w: %d exceeds maximum %d", domain.ErrInvalidRadius, radius, s.cfg.MaxRadiusMeters)
	}
	return nil
}

// areaParams are the key components shared by every scope.
func areaParams(center geo.Point, radius int) cache.Params {
	return cache.Params{"radius": strconv.Itoa(radius)}.
		Coord("lat", center.Lat).
		Coord("lng", center.Lng)
}

// gather resolves each unit from its cache scope and fetches the misses
// concurrently. Successful fetches are written back; failures are logged and
// left out. failed reports whether any fetch failed.
func gather[U ~string, V any](
	ctx context.Context,
	s *Service,
	units []U,
	c Cache[V],
	key func(U) string,
	fetch func(context.Context, U) (V, error),
) (results map[U]V, failed bool) {
	results = make(map[U]V, len(units))

	var missing []U
	for _, u := range units {
		if v, ok := c.Get(ctx, key(u)); ok {
			results[u] = v
			continue
		}
		missing = append(missing, u)
	}
	if len(missing) == 0 {
		return results, false
	}

	var (
		mu   sync.Mutex
		errs = make([]error, len(missing))
		g    errgroup.Group
	)
	g.SetLimit(s.cfg.MaxConcurrency)
	for i, u := range missing {
		g.Go(func() error {
			v, err := fetch(ctx, u)
			if err != nil {
				errs[i] = err
				return nil
			}
			c.Set(ctx, key(u), v)
			mu.Lock()
			results[u] = v
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	log := logger.FromContextOr(ctx, s.logger)
	for i, err := range errs {
		if err != nil {
			failed = true
			log.Warn("Geodata query failed, skipping",
				zap.String("unit", string(missing[i])),
				zap.Error(err))
		}
	}
	return results, failed
}
