package health

import "context"

// CachePinger checks cache backend availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// GeodataChecker checks geodata service availability.
type GeodataChecker interface {
	HealthCheck(ctx context.Context) error
}
