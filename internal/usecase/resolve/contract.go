package resolve

import (
	"context"

	"github.com/kailas-cloud/geodex/internal/domain/candidate"
)

// Provider is a geocoding adapter. Search issues one upstream call and
// returns an error wrapping domain.ErrProviderUnavailable on any failure.
type Provider interface {
	Source() candidate.Source
	Search(ctx context.Context, query string, limit int) ([]candidate.Candidate, error)
}
