package nearby

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/kailas-cloud/geodex/internal/cache"
	"github.com/kailas-cloud/geodex/internal/domain"
	"github.com/kailas-cloud/geodex/internal/domain/amenity"
	"github.com/kailas-cloud/geodex/internal/domain/geo"
	"github.com/kailas-cloud/geodex/internal/transport/overpass"
)

// AmenityQuery describes a nearby-amenities request.
type AmenityQuery struct {
	Center            geo.Point
	RadiusMeters      int
	Categories        []amenity.Category
	IncludeSmallShops bool
	MaxResults        int // <= 0 uses the configured default
}

// FetchAmenities returns notable amenities around the center, nearest first.
// The combined request key is consulted first, then per-category keys; only
// categories still missing are queried upstream. A failed category is logged
// and skipped, and the combined key is then not written.
func (s *Service) FetchAmenities(ctx context.Context, q AmenityQuery) ([]amenity.Amenity, error) {
	if err := s.validateArea(q.Center, q.RadiusMeters); err != nil {
		return nil, fmt.Errorf("fetch amenities: %w", err)
	}
	if len(q.Categories) == 0 {
		return nil, fmt.Errorf("fetch amenities: %w: empty category set", domain.ErrUnknownCategory)
	}
	for _, c := range q.Categories {
		if !c.IsValid() {
			return nil, fmt.Errorf("fetch amenities: %w: %q", domain.ErrUnknownCategory, c)
		}
	}
	cats := amenity.Normalize(q.Categories)
	maxResults := q.MaxResults
	if maxResults <= 0 {
		maxResults = s.cfg.DefaultMaxResults
	}

	combinedKey := amenitiesKey(q, cats)
	if v, ok := s.caches.Amenities.Get(ctx, combinedKey); ok {
		return truncate(v, maxResults), nil
	}

	perCategory, failed := gather(ctx, s, cats, s.caches.Category,
		func(c amenity.Category) string { return categoryKey(q, c) },
		func(ctx context.Context, c amenity.Category) ([]amenity.Amenity, error) {
			return s.fetchCategory(ctx, q, c)
		},
	)

	var combined []amenity.Amenity
	for _, c := range cats {
		combined = append(combined, perCategory[c]...)
	}
	sortAmenities(combined)

	if !failed {
		s.caches.Amenities.Set(ctx, combinedKey, combined)
	}
	return truncate(combined, maxResults), nil
}

func (s *Service) fetchCategory(ctx context.Context, q AmenityQuery, c amenity.Category) ([]amenity.Amenity, error) {
	qb := overpass.NewQuery(s.cfg.QueryTimeoutSec).Around(q.RadiusMeters, q.Center)
	for _, f := range c.Filters() {
		qb.NodesAndWays(overpass.Tag(f.Key, f.Values...))
	}
	ql, err := qb.Build()
	if err != nil {
		return nil, fmt.Errorf("build %s query: %w", c, err)
	}

	resp, err := s.geodata.Query(ctx, overpass.KindAmenity, ql)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", c, err)
	}

	out := make([]amenity.Amenity, 0, len(resp.Elements))
	for i := range resp.Elements {
		el := &resp.Elements[i]
		at, ok := el.Point()
		if !ok {
			continue
		}
		_, kind, ok := c.Match(el.Tags)
		if !ok {
			continue
		}
		if !amenity.IsNotable(c, el.Tags, q.IncludeSmallShops) {
			continue
		}
		d := geo.RoundedDistance(q.Center, at)
		out = append(out, amenity.Amenity{
			ID:              el.Ref(),
			Name:            amenity.Label(el.Tags, kind),
			Category:        c,
			Kind:            kind,
			Coordinates:     at,
			DistanceMeters:  d,
			WalkTimeMinutes: amenity.WalkMinutes(d),
			RawTags:         el.Tags,
		})
	}
	sortAmenities(out)
	return out, nil
}

func amenitiesKey(q AmenityQuery, cats []amenity.Category) string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = string(c)
	}
	p := areaParams(q.Center, q.RadiusMeters).List("categories", names)
	p["small"] = strconv.FormatBool(q.IncludeSmallShops)
	return cache.Key(ScopeAmenities, p)
}

// categoryKey only varies by includeSmallShops for shopping, the one category it affects.
func categoryKey(q AmenityQuery, c amenity.Category) string {
	p := areaParams(q.Center, q.RadiusMeters)
	p["category"] = string(c)
	if c == amenity.Shopping {
		p["small"] = strconv.FormatBool(q.IncludeSmallShops)
	}
	return cache.Key(ScopeAmenity, p)
}

func sortAmenities(as []amenity.Amenity) {
	slices.SortStableFunc(as, func(a, b amenity.Amenity) int {
		if c := cmp.Compare(a.DistanceMeters, b.DistanceMeters); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Name, b.Name); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

func truncate[T any](xs []T, n int) []T {
	if n > 0 && len(xs) > n {
		return xs[:n]
	}
	return xs
}
