package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Upstream and cache Prometheus metrics.
var (
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geodex",
			Name:      "provider_requests_total",
			Help:      "Total number of geocoding provider requests",
		},
		[]string{"provider", "status"}, // "ok" / "error"
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "geodex",
			Name:      "provider_request_duration_seconds",
			Help:      "Geocoding provider request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider"},
	)

	ProviderCandidatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geodex",
			Name:      "provider_candidates_total",
			Help:      "Total candidates returned by geocoding providers",
		},
		[]string{"provider"},
	)

	GeodataQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geodex",
			Name:      "geodata_queries_total",
			Help:      "Total number of geodata service queries",
		},
		[]string{"kind", "status"}, // kind: "amenity" / "infrastructure" / "health"
	)

	GeodataQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "geodex",
			Name:      "geodata_query_duration_seconds",
			Help:      "Geodata service query duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25},
		},
		[]string{"kind"},
	)

	CacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "geodex",
			Name:      "cache_total",
			Help:      "Cache hits and misses",
		},
		[]string{"scope", "result"}, // result: "hit" / "miss"
	)
)

var registerGeoOnce sync.Once

// RegisterGeoMetrics registers upstream and cache metrics with the default registry.
// Safe to call more than once.
func RegisterGeoMetrics() {
	registerGeoOnce.Do(func() {
		prometheus.MustRegister(
			ProviderRequestsTotal,
			ProviderRequestDuration,
			ProviderCandidatesTotal,
			GeodataQueriesTotal,
			GeodataQueryDuration,
			CacheTotal,
		)
	})
}
