package resolve

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/kailas-cloud/geodex/internal/domain"
	"github.com/kailas-cloud/geodex/internal/domain/candidate"
)

func newTestService(cfg Config, ps ...Provider) *Service {
	return New(ps, cfg, zap.NewNop())
}

func TestResolve_MergesDedupsAndRanks(t *testing.T) {
	nom := &mockProvider{source: candidate.SourceNominatim, result: []candidate.Candidate{
		cand("Hà Nội", candidate.Locality, candidate.SourceNominatim, 0.6),
		cand("Tây Hà Nội", candidate.Neighborhood, candidate.SourceNominatim, 0.9),
	}}
	pho := &mockProvider{source: candidate.SourcePhoton, result: []candidate.Candidate{
		cand("hà nội", candidate.Locality, candidate.SourcePhoton, 1.0),
		cand("Hà Nội Tower", candidate.POI, candidate.SourcePhoton, 0.95),
	}}
	fsq := &mockProvider{source: candidate.SourceFoursquare, result: []candidate.Candidate{
		cand("Hà Nội Tower", candidate.POI, candidate.SourceFoursquare, 1.0),
	}}

	got, err := newTestService(Config{}, fsq, pho, nom).Resolve(context.Background(), "Hà Nội", 10)
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, "Hà Nội", got[0].Name())
	assert.Equal(t, candidate.SourceNominatim, got[0].Source(), "nominatim wins the duplicate regardless of registration order")
	for _, c := range got {
		if c.Name() == "Hà Nội Tower" {
			assert.Equal(t, candidate.SourcePhoton, c.Source())
		}
	}
}

func TestResolve_PartialFailure(t *testing.T) {
	nom := &mockProvider{source: candidate.SourceNominatim, result: []candidate.Candidate{
		cand("Quận 1", candidate.District, candidate.SourceNominatim, 0.7),
	}}
	fsq := &mockProvider{source: candidate.SourceFoursquare, result: []candidate.Candidate{
		cand("Quận 1 Coffee", candidate.POI, candidate.SourceFoursquare, 0.4),
	}}

	got, err := newTestService(Config{}, nom, failing(candidate.SourcePhoton), fsq).
		Resolve(context.Background(), "quận 1", 5)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Quận 1", "Quận 1 Coffee"}, names(got))
}

func TestResolve_AllProvidersFail(t *testing.T) {
	svc := newTestService(Config{},
		failing(candidate.SourceNominatim),
		failing(candidate.SourcePhoton),
		failing(candidate.SourceFoursquare),
	)

	got, err := svc.Resolve(context.Background(), "đà nẵng", 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestResolve_TruncatesAfterRanking(t *testing.T) {
	nom := &mockProvider{source: candidate.SourceNominatim, result: []candidate.Candidate{
		cand("Bến Thành Tower", candidate.POI, candidate.SourceNominatim, 0.9),
		cand("Chợ Bến Thành", candidate.POI, candidate.SourceNominatim, 0.8),
		cand("Bến Thành", candidate.Neighborhood, candidate.SourceNominatim, 0.1),
	}}

	got, err := newTestService(Config{}, nom).Resolve(context.Background(), "bến thành", 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Bến Thành", got[0].Name(), "the exact match sorted last by provider must still survive truncation")
}

func TestResolve_Validation(t *testing.T) {
	nom := &mockProvider{source: candidate.SourceNominatim}
	svc := newTestService(Config{}, nom)

	_, err := svc.Resolve(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)

	_, err = svc.Resolve(context.Background(), "huế", 0)
	assert.ErrorIs(t, err, domain.ErrInvalidLimit)

	assert.Empty(t, nom.limits, "validation must happen before any provider call")
}

func TestResolve_ApportionsLimit(t *testing.T) {
	nom := &mockProvider{source: candidate.SourceNominatim}
	pho := &mockProvider{source: candidate.SourcePhoton}
	fsq := &mockProvider{source: candidate.SourceFoursquare}

	_, err := newTestService(Config{}, nom, pho, fsq).Resolve(context.Background(), "vinh", 10)
	require.NoError(t, err)

	assert.Equal(t, []int{4}, nom.limits)
	assert.Equal(t, []int{4}, pho.limits)
	assert.Equal(t, []int{3}, fsq.limits)
}

func TestResolve_ClampsToMaxLimit(t *testing.T) {
	nom := &mockProvider{source: candidate.SourceNominatim}
	_, err := newTestService(Config{
		MaxLimit: 20,
		Shares:   map[candidate.Source]float64{candidate.SourceNominatim: 1},
	}, nom).Resolve(context.Background(), "cần thơ", 500)
	require.NoError(t, err)
	assert.Equal(t, []int{20}, nom.limits)
}

func TestApportion(t *testing.T) {
	shares := []float64{0.40, 0.35, 0.25}
	tests := []struct {
		limit int
		want  []int
	}{
		{1, []int{1, 1, 1}},
		{5, []int{2, 2, 2}},
		{10, []int{4, 4, 3}},
		{20, []int{8, 7, 5}},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, apportion(tc.limit, shares), "limit %d", tc.limit)
	}
}
