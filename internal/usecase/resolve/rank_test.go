package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/geodex/internal/domain/candidate"
)

func TestRank_ExactMatchFirst(t *testing.T) {
	in := []candidate.Candidate{
		cand("Hà Nội Tower", candidate.POI, candidate.SourcePhoton, 0.99),
		cand("Tây Hà Nội", candidate.Locality, candidate.SourceNominatim, 0.95),
		cand("Hà Nội", candidate.Place, candidate.SourceFoursquare, 0.01),
	}

	got := NewRanker(RankConfig{}).Rank(in, "Hà Nội")

	require.Len(t, got, 3)
	assert.Equal(t, "Hà Nội", got[0].Name())
}

func TestRank_ExactMatchIgnoresCaseAndNormalization(t *testing.T) {
	decomposed := "Ha\u0300 No\u0323\u0302i" // NFD form of "Hà Nội"
	in := []candidate.Candidate{
		cand("Hà Nội Tower", candidate.POI, candidate.SourcePhoton, 0.99),
		cand(decomposed, candidate.Locality, candidate.SourceNominatim, 0.1),
	}

	got := NewRanker(RankConfig{}).Rank(in, "HÀ NỘI")
	assert.Equal(t, decomposed, got[0].Name())
}

func TestRank_PhoneticPenalty(t *testing.T) {
	in := []candidate.Candidate{
		cand("hòa văn thái", candidate.Address, candidate.SourceNominatim, 0.8),
		cand("trần văn thái", candidate.Address, candidate.SourcePhoton, 0.8),
	}

	got := NewRanker(RankConfig{}).Rank(in, "hoàng văn thái")

	assert.Equal(t, []string{"trần văn thái", "hòa văn thái"}, names(got))
}

func TestRank_PhoneticPenaltyNeedsMissingOriginal(t *testing.T) {
	r := NewRanker(RankConfig{})
	assert.True(t, r.phoneticPenalty([]string{"hoàng"}, []string{"hòa", "bình"}))
	assert.False(t, r.phoneticPenalty([]string{"hoàng"}, []string{"hoàng", "hòa"}))
	assert.True(t, r.phoneticPenalty([]string{"hòa"}, []string{"hoàng"}), "pairs apply in both directions")
	assert.False(t, r.phoneticPenalty([]string{"lý"}, []string{"hòa"}))
}

func TestRank_Deterministic(t *testing.T) {
	in := []candidate.Candidate{
		cand("Vincom Bà Triệu", candidate.POI, candidate.SourceFoursquare, 0.5),
		cand("Vincom Center", candidate.POI, candidate.SourcePhoton, 0.5),
		cand("Vincom", candidate.Place, candidate.SourceNominatim, 0.5),
		cand("Ánh Dương", candidate.POI, candidate.SourceNominatim, 0.5),
		cand("Bắc Ninh", candidate.Province, candidate.SourceNominatim, 0.5),
		cand("Vincom", candidate.POI, candidate.SourcePhoton, 0.5),
	}
	r := NewRanker(RankConfig{})

	first := names(r.Rank(in, "vincom"))
	for range 20 {
		if diff := cmp.Diff(first, names(r.Rank(in, "vincom"))); diff != "" {
			t.Fatalf("ranking changed between runs (-first +next):\n%s", diff)
		}
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := []candidate.Candidate{
		cand("b", candidate.POI, candidate.SourcePhoton, 0.1),
		cand("a", candidate.POI, candidate.SourcePhoton, 0.9),
	}
	_ = NewRanker(RankConfig{}).Rank(in, "x")
	assert.Equal(t, []string{"b", "a"}, names(in))
}

func TestRank_StageOrder(t *testing.T) {
	tests := []struct {
		name  string
		query string
		in    []candidate.Candidate
		want  []string
	}{
		{
			name:  "brand beats relevance",
			query: "circle k quận 3",
			in: []candidate.Candidate{
				cand("Quận 3 Market", candidate.POI, candidate.SourceNominatim, 0.9),
				cand("Circle K Võ Văn Tần", candidate.POI, candidate.SourceFoursquare, 0.1),
			},
			want: []string{"Circle K Võ Văn Tần", "Quận 3 Market"},
		},
		{
			name:  "word overlap beats relevance",
			query: "chợ bến thành",
			in: []candidate.Candidate{
				cand("Chợ Lớn", candidate.POI, candidate.SourceNominatim, 0.9),
				cand("Bến Thành Market", candidate.POI, candidate.SourcePhoton, 0.1),
			},
			want: []string{"Bến Thành Market", "Chợ Lớn"},
		},
		{
			name:  "prefix beats relevance",
			query: "bến",
			in: []candidate.Candidate{
				cand("Cầu Bến", candidate.POI, candidate.SourceNominatim, 0.9),
				cand("Bến Nghé", candidate.POI, candidate.SourcePhoton, 0.1),
			},
			want: []string{"Bến Nghé", "Cầu Bến"},
		},
		{
			name:  "relevance beats type",
			query: "zzz",
			in: []candidate.Candidate{
				cand("Alpha", candidate.POI, candidate.SourceNominatim, 0.2),
				cand("Beta", candidate.Country, candidate.SourcePhoton, 0.8),
			},
			want: []string{"Beta", "Alpha"},
		},
		{
			name:  "type priority",
			query: "zzz",
			in: []candidate.Candidate{
				cand("District A", candidate.District, candidate.SourceNominatim, 0.5),
				cand("Place B", candidate.Place, candidate.SourceNominatim, 0.5),
				cand("Address C", candidate.Address, candidate.SourceNominatim, 0.5),
				cand("Town D", candidate.Locality, candidate.SourceNominatim, 0.5),
				cand("Shop E", candidate.POI, candidate.SourceNominatim, 0.5),
			},
			want: []string{"Shop E", "Town D", "Address C", "Place B", "District A"},
		},
		{
			name:  "vietnamese collation",
			query: "zzz",
			in: []candidate.Candidate{
				cand("Bắc Ninh", candidate.POI, candidate.SourceNominatim, 0.5),
				cand("Đông Anh", candidate.POI, candidate.SourceNominatim, 0.5),
				cand("Ánh Dương", candidate.POI, candidate.SourceNominatim, 0.5),
				cand("Duy Tân", candidate.POI, candidate.SourceNominatim, 0.5),
			},
			want: []string{"Ánh Dương", "Bắc Ninh", "Duy Tân", "Đông Anh"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := NewRanker(RankConfig{}).Rank(tc.in, tc.query)
			if diff := cmp.Diff(tc.want, names(got)); diff != "" {
				t.Errorf("order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRank_CustomTables(t *testing.T) {
	r := NewRanker(RankConfig{
		Brands:        []string{"Phở 24"},
		PhoneticPairs: [][2]string{{"sông", "song"}},
	})

	got := r.Rank([]candidate.Candidate{
		cand("Quán Ăn", candidate.POI, candidate.SourceNominatim, 0.9),
		cand("Phở 24 Lý Tự Trọng", candidate.POI, candidate.SourcePhoton, 0.1),
	}, "phở 24 gần đây")
	assert.Equal(t, "Phở 24 Lý Tự Trọng", got[0].Name())

	assert.True(t, r.phoneticPenalty([]string{"sông"}, []string{"song"}))
	assert.False(t, r.phoneticPenalty([]string{"hoàng"}, []string{"hòa"}), "custom table replaces defaults")
}

func TestStages_Individually(t *testing.T) {
	a := &sortKey{exact: true, overlap: 1, relevance: 0.2, priority: 3}
	b := &sortKey{brand: true, overlap: 2, prefix: true, penalized: true, relevance: 0.9, priority: 0}

	assert.Negative(t, byExactMatch(a, b))
	assert.Positive(t, byBrand(a, b))
	assert.Positive(t, byWordOverlap(a, b))
	assert.Positive(t, byPrefix(a, b))
	assert.Negative(t, byPhonetic(a, b))
	assert.Positive(t, byRelevance(a, b))
	assert.Positive(t, byTypePriority(a, b))
	assert.Zero(t, byExactMatch(a, a))
}

func TestWordOverlap(t *testing.T) {
	assert.Equal(t, 2, wordOverlap([]string{"văn", "thái"}, []string{"hòa", "văn", "thái"}))
	assert.Equal(t, 1, wordOverlap([]string{"coffee"}, []string{"coffeehouse"}), "query word is a substring")
	assert.Equal(t, 1, wordOverlap([]string{"vincom"}, []string{"vin"}), "query word contains name word")
	assert.Equal(t, 0, wordOverlap([]string{"a"}, nil))
}
