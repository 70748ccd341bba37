package resolve

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kailas-cloud/geodex/internal/domain"
	"github.com/kailas-cloud/geodex/internal/domain/candidate"
)

type mockProvider struct {
	source candidate.Source
	result []candidate.Candidate
	err    error

	mu     sync.Mutex
	limits []int
}

func (m *mockProvider) Source() candidate.Source { return m.source }

func (m *mockProvider) Search(_ context.Context, _ string, limit int) ([]candidate.Candidate, error) {
	m.mu.Lock()
	m.limits = append(m.limits, limit)
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func failing(source candidate.Source) *mockProvider {
	return &mockProvider{
		source: source,
		err:    fmt.Errorf("%s: %w: %w", source, domain.ErrProviderUnavailable, errors.New("connection refused")),
	}
}

func cand(name string, typ candidate.Type, src candidate.Source, rel float64) candidate.Candidate {
	return candidate.New(candidate.Params{Name: name, Type: typ, Source: src, Relevance: rel})
}

func names(cs []candidate.Candidate) []string {
	out := make([]string, len(cs))
	for i := range cs {
		out[i] = cs[i].Name()
	}
	return out
}
