package resolve

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/geodex/internal/domain/candidate"
)

func TestDedup_FirstOccurrenceWins(t *testing.T) {
	in := []candidate.Candidate{
		cand("Hà Nội", candidate.Locality, candidate.SourceNominatim, 0.5),
		cand("HÀ NỘI", candidate.Locality, candidate.SourcePhoton, 0.9),
		cand("Hà Nội", candidate.Province, candidate.SourcePhoton, 0.9),
		cand("Hồ Tây", candidate.POI, candidate.SourceFoursquare, 0.3),
	}

	got := Dedup(in)

	if len(got) != 3 {
		t.Fatalf("expected 3 candidates, got %d: %v", len(got), names(got))
	}
	if got[0].Source() != candidate.SourceNominatim {
		t.Errorf("expected first occurrence to survive, got source %s", got[0].Source())
	}
	if got[1].Type() != candidate.Province {
		t.Errorf("same name with a different type must be kept, got %s", got[1].Type())
	}
}

func TestDedup_Idempotent(t *testing.T) {
	in := []candidate.Candidate{
		cand("Quận 1", candidate.District, candidate.SourceNominatim, 0.7),
		cand("quận 1", candidate.District, candidate.SourcePhoton, 0.6),
		cand("Bến Thành", candidate.POI, candidate.SourcePhoton, 0.6),
		cand("Bến Thành", candidate.POI, candidate.SourceFoursquare, 0.2),
		cand("Bến Thành", candidate.Neighborhood, candidate.SourceFoursquare, 0.2),
	}

	once := Dedup(in)
	twice := Dedup(once)

	if diff := cmp.Diff(names(once), names(twice)); diff != "" {
		t.Errorf("second pass changed the list (-once +twice):\n%s", diff)
	}
	if len(twice) != len(once) {
		t.Errorf("second pass removed candidates: %d -> %d", len(once), len(twice))
	}
}

func TestDedup_MergesComposedAndDecomposedNames(t *testing.T) {
	in := []candidate.Candidate{
		cand(norm.NFC.String("Hà Nội"), candidate.Locality, candidate.SourceNominatim, 0.8),
		cand(norm.NFD.String("Hà Nội"), candidate.Locality, candidate.SourcePhoton, 0.9),
	}

	got := Dedup(in)
	if len(got) != 1 {
		t.Fatalf("expected one candidate, got %d: %q", len(got), names(got))
	}
	if got[0].Source() != candidate.SourceNominatim {
		t.Errorf("expected first occurrence to survive, got %s", got[0].Source())
	}
}

func TestDedup_Empty(t *testing.T) {
	if got := Dedup(nil); len(got) != 0 {
		t.Errorf("expected empty result, got %v", names(got))
	}
}
