// Package app is the composition root shared by the API server and the CLI.
package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/geodex/internal/config"
	"github.com/kailas-cloud/geodex/internal/db"
	"github.com/kailas-cloud/geodex/internal/db/memory"
	dbRedis "github.com/kailas-cloud/geodex/internal/db/redis"
	"github.com/kailas-cloud/geodex/internal/domain/amenity"
	"github.com/kailas-cloud/geodex/internal/domain/candidate"
	"github.com/kailas-cloud/geodex/internal/domain/infrastructure"
	"github.com/kailas-cloud/geodex/internal/metrics"
	"github.com/kailas-cloud/geodex/internal/repository/geocache"
	chiTransport "github.com/kailas-cloud/geodex/internal/transport/chi"
	"github.com/kailas-cloud/geodex/internal/transport/geocoder"
	"github.com/kailas-cloud/geodex/internal/transport/outbound"
	"github.com/kailas-cloud/geodex/internal/transport/overpass"
	"github.com/kailas-cloud/geodex/internal/usecase/health"
	"github.com/kailas-cloud/geodex/internal/usecase/nearby"
	"github.com/kailas-cloud/geodex/internal/usecase/resolve"
	"github.com/kailas-cloud/geodex/internal/version"
)

// App holds the wired services.
type App struct {
	Resolve *resolve.Service
	Nearby  *nearby.Service
	Health  *health.Service

	cfg    config.Config
	store  db.Store
	logger *zap.Logger
}

// New wires every component from cfg. The cache backend must become ready
// within cache.readiness_timeout_sec.
func New(ctx context.Context, cfg config.Config, logger *zap.Logger) (*App, error) {
	metrics.RegisterGeoMetrics()

	store, err := newStore(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("create cache store: %w", err)
	}
	if err := store.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		store.Close()
		return nil, fmt.Errorf("cache not ready: %w", err)
	}
	logger.Info("Connected to cache",
		zap.String("driver", cfg.Cache.Driver),
		zap.Strings("addrs", cfg.Cache.Addrs),
	)

	providers := buildProviders(cfg, logger)
	resolveSvc := resolve.New(providers, resolve.Config{
		MaxLimit: cfg.Resolve.MaxLimit,
		Shares:   shares(cfg.Providers),
		Ranking: resolve.RankConfig{
			Brands:        cfg.Resolve.Brands,
			PhoneticPairs: phoneticPairs(cfg.Resolve.PhoneticPairs),
		},
	}, logger)

	geodata := overpass.NewClient(overpass.Config{
		BaseURL: cfg.Geodata.BaseURL,
		Client: outbound.NewClient(outbound.Config{
			Timeout:    time.Duration(cfg.Geodata.TimeoutSec) * time.Second,
			UserAgent:  userAgent(cfg.Geodata.UserAgent),
			RatePerSec: cfg.Geodata.RatePerSec,
		}),
		Logger: logger.With(zap.String("component", "geodata")),
	})

	amenityTTL := time.Duration(cfg.Cache.AmenityTTLSec) * time.Second
	infraTTL := time.Duration(cfg.Cache.InfrastructureTTLSec) * time.Second
	prefix := cfg.Cache.KeyPrefix
	caches := nearby.Caches{
		Amenities: geocache.New[[]amenity.Amenity](
			store, nearby.ScopeAmenities, amenityTTL, metrics.CacheTotal, logger).WithPrefix(prefix),
		Category: geocache.New[[]amenity.Amenity](
			store, nearby.ScopeAmenity, amenityTTL, metrics.CacheTotal, logger).WithPrefix(prefix),
		Infrastructure: geocache.New[map[infrastructure.Layer][]infrastructure.Feature](
			store, nearby.ScopeInfra, infraTTL, metrics.CacheTotal, logger).WithPrefix(prefix),
		Layer: geocache.New[[]infrastructure.Feature](
			store, nearby.ScopeInfraLayer, infraTTL, metrics.CacheTotal, logger).WithPrefix(prefix),
	}
	nearbySvc := nearby.New(geodata, caches, nearby.Config{
		QueryTimeoutSec:   cfg.Geodata.QueryTimeoutSec,
		MaxConcurrency:    cfg.Geodata.MaxConcurrency,
		MaxRadiusMeters:   cfg.Geodata.MaxRadiusMeters,
		DefaultMaxResults: cfg.Geodata.DefaultMaxResults,
	}, logger)

	return &App{
		Resolve: resolveSvc,
		Nearby:  nearbySvc,
		Health:  health.New(store, geodata),
		cfg:     cfg,
		store:   store,
		logger:  logger,
	}, nil
}

// Handler builds the HTTP API.
func (a *App) Handler() http.Handler {
	srv := chiTransport.NewServer(a.Resolve, a.Nearby, a.Health,
		chiTransport.Options{DefaultLimit: a.cfg.Resolve.DefaultLimit}, a.logger)
	return chiTransport.NewRouter(srv, chiTransport.RouterConfig{APIKeys: a.cfg.Auth.APIKeys}, a.logger)
}

// Close releases the cache backend.
func (a *App) Close() {
	a.store.Close()
}

func newStore(cfg config.CacheConfig) (db.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memory.NewStore(nil), nil
	case config.DriverRedis:
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Addrs,
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// buildProviders creates the enabled geocoding adapters. Foursquare needs an API key.
func buildProviders(cfg config.Config, logger *zap.Logger) []resolve.Provider {
	shared := func(p config.ProviderConfig) geocoder.Config {
		return geocoder.Config{
			BaseURL:     p.BaseURL,
			APIKey:      p.APIKey,
			CountryCode: cfg.Resolve.CountryCode,
			Language:    cfg.Resolve.Language,
			Near:        cfg.Resolve.Near,
			Client: outbound.NewClient(outbound.Config{
				Timeout:    time.Duration(p.TimeoutSec) * time.Second,
				UserAgent:  userAgent(p.UserAgent),
				RatePerSec: p.RatePerSec,
			}),
			Logger: logger,
		}
	}

	var providers []resolve.Provider
	p := cfg.Providers
	if !p.Nominatim.Disabled {
		providers = append(providers, geocoder.NewNominatim(shared(p.Nominatim)))
	}
	if !p.Photon.Disabled {
		providers = append(providers, geocoder.NewPhoton(shared(p.Photon)))
	}
	switch {
	case p.Foursquare.Disabled:
	case p.Foursquare.APIKey == "":
		logger.Warn("Foursquare disabled: providers.foursquare.api_key is empty")
	default:
		providers = append(providers, geocoder.NewFoursquare(shared(p.Foursquare)))
	}

	names := make([]string, len(providers))
	for i, pr := range providers {
		names[i] = string(pr.Source())
	}
	logger.Info("Geocoding providers enabled", zap.Strings("providers", names))
	return providers
}

// shares returns nil (built-in shares) unless at least one share is configured.
func shares(p config.ProvidersConfig) map[candidate.Source]float64 {
	out := make(map[candidate.Source]float64)
	for src, pc := range map[candidate.Source]config.ProviderConfig{
		candidate.SourceNominatim:  p.Nominatim,
		candidate.SourcePhoton:     p.Photon,
		candidate.SourceFoursquare: p.Foursquare,
	} {
		if pc.Share > 0 {
			out[src] = pc.Share
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func phoneticPairs(in [][]string) [][2]string {
	if len(in) == 0 {
		return nil
	}
	out := make([][2]string, 0, len(in))
	for _, p := range in {
		if len(p) == 2 {
			out = append(out, [2]string{p[0], p[1]})
		}
	}
	return out
}

func userAgent(override string) string {
	if override != "" {
		return override
	}
	return version.UserAgent()
}
