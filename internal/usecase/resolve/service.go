// Package resolve turns free-text queries into ranked location candidates.
package resolve

import (
	"context"
	"fmt"
	"math"
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/geodex/internal/domain"
	"github.com/kailas-cloud/geodex/internal/domain/candidate"
	"github.com/kailas-cloud/geodex/internal/logger"
)

// DefaultShares apportions the requested limit across providers.
var DefaultShares = map[candidate.Source]float64{
	candidate.SourceNominatim:  0.40,
	candidate.SourcePhoton:     0.35,
	candidate.SourceFoursquare: 0.25,
}

// sourceOrder is the fan-out priority: earlier sources win duplicate collisions.
var sourceOrder = []candidate.Source{
	candidate.SourceNominatim,
	candidate.SourcePhoton,
	candidate.SourceFoursquare,
}

// Config holds resolution settings.
type Config struct {
	MaxLimit int                          // requests above are clamped; 0 disables clamping
	Shares   map[candidate.Source]float64 // nil uses DefaultShares
	Ranking  RankConfig
}

// Service aggregates providers, deduplicates and ranks their candidates.
type Service struct {
	providers []Provider
	shares    []float64
	maxLimit  int
	ranker    *Ranker
	logger    *zap.Logger
}

// New creates a resolve service. Providers are reordered into fan-out priority.
func New(providers []Provider, cfg Config, logger *zap.Logger) *Service {
	ps := slices.Clone(providers)
	slices.SortStableFunc(ps, func(a, b Provider) int {
		return sourceRank(a.Source()) - sourceRank(b.Source())
	})

	shares := cfg.Shares
	if shares == nil {
		shares = DefaultShares
	}
	weights := make([]float64, len(ps))
	for i, p := range ps {
		w := shares[p.Source()]
		if w <= 0 && len(ps) > 0 {
			w = 1 / float64(len(ps))
		}
		weights[i] = w
	}

	return &Service{
		providers: ps,
		shares:    weights,
		maxLimit:  cfg.MaxLimit,
		ranker:    NewRanker(cfg.Ranking),
		logger:    logger,
	}
}

// Resolve queries every provider concurrently and returns at most limit ranked
// candidates. Provider failures are logged and contribute nothing; if all fail
// the result is empty, not an error.
func (s *Service) Resolve(ctx context.Context, query string, limit int) ([]candidate.Candidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("resolve: %w", domain.ErrInvalidQuery)
	}
	if limit < 1 {
		return nil, fmt.Errorf("resolve: %w: %d", domain.ErrInvalidLimit, limit)
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}

	all := s.fanOut(ctx, query, apportion(limit, s.shares))
	ranked := s.ranker.Rank(Dedup(all), query)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// fanOut waits for every provider. Tasks never return errors so one failure
// cannot cancel the others; per-task errors are collected and logged.
func (s *Service) fanOut(ctx context.Context, query string, limits []int) []candidate.Candidate {
	results := make([][]candidate.Candidate, len(s.providers))
	errs := make([]error, len(s.providers))

	var g errgroup.Group
	for i, p := range s.providers {
		g.Go(func() error {
			results[i], errs[i] = p.Search(ctx, query, limits[i])
			return nil
		})
	}
	_ = g.Wait()

	log := logger.FromContextOr(ctx, s.logger)
	var all []candidate.Candidate
	for i, p := range s.providers {
		if errs[i] != nil {
			log.Warn("Provider search failed",
				zap.String("provider", string(p.Source())),
				zap.Error(errs[i]))
			continue
		}
		all = append(all, results[i]...)
	}
	return all
}

// apportion splits limit by weights, rounding each share up to at least 1.
func apportion(limit int, weights []float64) []int {
	out := make([]int, len(weights))
	for i, w := range weights {
		n := int(math.Ceil(float64(limit)*w - 1e-9))
		out[i] = max(n, 1)
	}
	return out
}

func sourceRank(s candidate.Source) int {
	if i := slices.Index(sourceOrder, s); i >= 0 {
		return i
	}
	return len(sourceOrder)
}
