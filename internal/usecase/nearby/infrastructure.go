package nearby

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/kailas-cloud/geodex/internal/cache"
	"github.com/kailas-cloud/geodex/internal/domain"
	"github.com/kailas-cloud/geodex/internal/domain/amenity"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
	"github.com/kailas-cloud/geodex/internal/domain/infrastructure"
	"github.com/kailas-cloud/geodex/internal/transport/overpass"
)

// InfrastructureQuery describes a transit-infrastructure request.
type InfrastructureQuery struct {
	Center       geo.Point
	RadiusMeters int
	Layers       []infrastructure.Layer
}

// FetchInfrastructure returns features per requested layer. The cache flow
// mirrors FetchAmenities with its own TTL class. Failed layers are absent.
func (s *Service) FetchInfrastructure(
	ctx context.Context, q InfrastructureQuery,
) (map[infrastructure.Layer][]infrastructure.Feature, error) {
	if err := s.validateArea(q.Center, q.RadiusMeters); err != nil {
		return nil, fmt.Errorf("fetch infrastructure: %w", err)
	}
	if len(q.Layers) == 0 {
		return nil, fmt.Errorf("fetch infrastructure: %w: empty layer set", domain.ErrUnknownLayer)
	}
	for _, l := range q.Layers {
		if !l.IsValid() {
			return nil, fmt.Errorf("fetch infrastructure: %w: %q", domain.ErrUnknownLayer, l)
		}
	}
	layers := slices.Clone(q.Layers)
	slices.Sort(layers)
	layers = slices.Compact(layers)

	names := make([]string, len(layers))
	for i, l := range layers {
		names[i] = string(l)
	}
	combinedKey := cache.Key(ScopeInfra, areaParams(q.Center, q.RadiusMeters).List("layers", names))
	if v, ok := s.caches.Infrastructure.Get(ctx, combinedKey); ok {
		return v, nil
	}

	perLayer, failed := gather(ctx, s, layers, s.caches.Layer,
		func(l infrastructure.Layer) string {
			p := areaParams(q.Center, q.RadiusMeters)
			p["layer"] = string(l)
			return cache.Key(ScopeInfraLayer, p)
		},
		func(ctx context.Context, l infrastructure.Layer) ([]infrastructure.Feature, error) {
			return s.fetchLayer(ctx, q, l)
		},
	)

	if !failed {
		s.caches.Infrastructure.Set(ctx, combinedKey, perLayer)
	}
	return perLayer, nil
}

func (s *Service) fetchLayer(
	ctx context.Context, q InfrastructureQuery, l infrastructure.Layer,
) ([]infrastructure.Feature, error) {
	qb := overpass.NewQuery(s.cfg.QueryTimeoutSec).Around(q.RadiusMeters, q.Center)
	for _, sel := range l.Selectors() {
		preds := make([]overpass.Predicate, len(sel))
		for i, m := range sel {
			preds[i] = overpass.Tag(m.Key, m.Value)
		}
		if l.Kind() == infrastructure.KindLine {
			qb.Relations(preds...)
		} else {
			qb.NodesAndWays(preds...)
		}
	}
	if l.Kind() == infrastructure.KindLine {
		qb.Out(overpass.OutGeometry)
	}

	ql, err := qb.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", l, err)
	}
	resp, err := s.geodata.Query(ctx, overpass.KindInfrastructure, ql)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", l, err)
	}

	if l.Kind() == infrastructure.KindLine {
		return lineFeatures(resp), nil
	}
	return pointFeatures(resp, q.Center), nil
}

func pointFeatures(resp *overpass.Response, center geo.Point) []infrastructure.Feature {
	type ranked struct {
		f infrastructure.Feature
		d int
	}
	var rs []ranked
	seen := make(map[string]struct{})
	for i := range resp.Elements {
		el := &resp.Elements[i]
		at, ok := el.Point()
		if !ok {
			continue
		}
		id := el.Ref()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rs = append(rs, ranked{
			f: infrastructure.NewPoint(id, featureName(el.Tags), at, el.Tags),
			d: geo.RoundedDistance(center, at),
		})
	}
	slices.SortStableFunc(rs, func(a, b ranked) int {
		if c := cmp.Compare(a.d, b.d); c != 0 {
			return c
		}
		return cmp.Compare(a.f.ID, b.f.ID)
	})

	out := make([]infrastructure.Feature, len(rs))
	for i, r := range rs {
		out[i] = r.f
	}
	return out
}

// lineFeatures assembles every relation in the response from its way members.
// Relations without any usable way are dropped.
func lineFeatures(resp *overpass.Response) []infrastructure.Feature {
	ways := resp.Ways()
	var out []infrastructure.Feature
	for i := range resp.Elements {
		el := &resp.Elements[i]
		if el.Type != overpass.TypeRelation {
			continue
		}
		lines := overpass.RelationLines(el, ways)
		if len(lines) == 0 {
			continue
		}
		out = append(out, infrastructure.NewLine(el.Ref(), featureName(el.Tags), lines, el.Tags))
	}
	slices.SortStableFunc(out, func(a, b infrastructure.Feature) int {
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func featureName(tags map[string]string) string {
	if n := amenity.DisplayName(tags); n != "" {
		return n
	}
	return tags["ref"]
}
