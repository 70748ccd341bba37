package amenity

import (
	"testing"
	"unicode/utf8"
)

func TestIsNotable(t *testing.T) {
	tests := []struct {
		name       string
		category   Category
		tags       map[string]string
		smallShops bool
		want       bool
	}{
		{"unnamed generic shop", Shopping, map[string]string{"shop": "yes"}, false, false},
		{"unnamed generic shop opted in", Shopping, map[string]string{"shop": "yes"}, true, true},
		{"named shop", Shopping, map[string]string{"shop": "convenience", "name": "Tạp hóa Minh Anh"}, false, true},
		{"branded shop", Shopping, map[string]string{"shop": "convenience", "brand": "Circle K"}, false, true},
		{"unnamed supermarket", Shopping, map[string]string{"shop": "supermarket"}, false, true},
		{"unnamed atm", Shopping, map[string]string{"amenity": "atm"}, false, true},
		{"unnamed clinic", Healthcare, map[string]string{"amenity": "clinic"}, false, false},
		{"unnamed clinic ignores small shop flag", Healthcare, map[string]string{"amenity": "clinic"}, true, false},
		{"unnamed hospital", Healthcare, map[string]string{"amenity": "hospital"}, false, true},
		{"vietnamese name only", Education, map[string]string{"amenity": "school", "name:vi": "Trường THCS"}, false, true},
		{"wikidata only", Entertainment, map[string]string{"leisure": "park", "wikidata": "Q123"}, false, true},
		{"unnamed bus stop", Transport, map[string]string{"highway": "bus_stop"}, false, false},
		{"unnamed bus station", Transport, map[string]string{"amenity": "bus_station"}, false, true},
		{"unnamed subway station", Transport, map[string]string{"railway": "station"}, false, true},
		{"no matching tag", Education, map[string]string{"building": "yes"}, true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsNotable(tc.category, tc.tags, tc.smallShops); got != tc.want {
				t.Errorf("IsNotable = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(map[string]string{"name:en": "Ben Thanh Market", "name:vi": "Chợ Bến Thành"}); got != "Chợ Bến Thành" {
		t.Errorf("expected name:vi to win over name:en, got %q", got)
	}
	if got := DisplayName(map[string]string{"brand": "WinMart+"}); got != "WinMart+" {
		t.Errorf("expected brand fallback, got %q", got)
	}
	if got := DisplayName(nil); got != "" {
		t.Errorf("expected empty, got %q", got)
	}
}

func TestLabel(t *testing.T) {
	if got := Label(map[string]string{"name": "Chợ Bến Thành"}, "marketplace"); got != "Chợ Bến Thành" {
		t.Errorf("named element: got %q", got)
	}
	if got := Label(map[string]string{"amenity": "atm"}, "atm"); got != "Atm" {
		t.Errorf("unnamed element: got %q", got)
	}
	if got := Label(nil, "department_store"); got != "Department store" {
		t.Errorf("unnamed element: got %q", got)
	}
	if got := Label(nil, ""); got != "" {
		t.Errorf("empty kind: got %q", got)
	}
	if got := Label(map[string]string{"shop": "đồ_cũ"}, "đồ_cũ"); got != "Đồ cũ" {
		t.Errorf("non-ascii kind: got %q", got)
	}
	if got := Label(nil, "ăn_uống"); !utf8.ValidString(got) || got != "Ăn uống" {
		t.Errorf("non-ascii kind must stay valid utf-8: got %q", got)
	}
}
