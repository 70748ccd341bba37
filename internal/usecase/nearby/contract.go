package nearby

import (
	"context"

	"github.com/kailas-cloud/geodex/internal/transport/overpass"
)

// Geodata executes QL queries against the geodata service.
type Geodata interface {
	Query(ctx context.Context, kind, ql string) (*overpass.Response, error)
}

// Cache is the consumer interface for a typed cache scope. Implementations
// absorb backend failures; a miss and an unreachable backend look the same.
type Cache[T any] interface {
	Get(ctx context.Context, key string) (T, bool)
	Set(ctx context.Context, key string, v T)
}
