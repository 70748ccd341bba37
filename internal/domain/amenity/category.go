package amenity

import (
	"fmt"
	"slices"
	"strings"

	"github.com/kailas-cloud/geodex/internal/domain"
)

// Category is an amenity group requested by callers.
type Category string

// Supported categories.
const (
	Education     Category = "education"
	Healthcare    Category = "healthcare"
	Shopping      Category = "shopping"
	Entertainment Category = "entertainment"
	Transport     Category = "transport"
)

// All returns every supported category in canonical order.
func All() []Category {
	return []Category{Education, Healthcare, Shopping, Entertainment, Transport}
}

// IsValid checks if the category is one of the supported values.
func (c Category) IsValid() bool {
	return slices.Contains(All(), c)
}

// ParseCategory parses a case-insensitive category name.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownCategory, s)
	}
	return c, nil
}

// ParseCategories parses a list, dropping duplicates and sorting canonically.
func ParseCategories(in []string) ([]Category, error) {
	out := make([]Category, 0, len(in))
	for _, s := range in {
		c, err := ParseCategory(s)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return Normalize(out), nil
}

// Normalize sorts categories and removes duplicates.
func Normalize(cs []Category) []Category {
	out := slices.Clone(cs)
	slices.Sort(out)
	return slices.Compact(out)
}

// AnyValue matches every value of a tag key, or marks every value notable.
const AnyValue = "*"

// TagFilter is one recognized tag predicate: the element must carry Key with
// one of Values (or any value when Values is empty). Elements whose value is in
// Notable are significant even without a name.
type TagFilter struct {
	Key     string
	Values  []string
	Notable []string
}

// Matches reports whether tags satisfy the filter and returns the matched value.
func (f TagFilter) Matches(tags map[string]string) (string, bool) {
	v, ok := tags[f.Key]
	if !ok || v == "" || v == "no" {
		return "", false
	}
	if len(f.Values) == 0 || slices.Contains(f.Values, v) {
		return v, true
	}
	return "", false
}

// IsNotable reports whether value is always significant under this filter.
func (f TagFilter) IsNotable(value string) bool {
	return slices.Contains(f.Notable, AnyValue) || slices.Contains(f.Notable, value)
}

// Filters returns the tag predicates that define a category.
// Every category in All must be handled here; the default branch is unreachable
// for valid categories.
func (c Category) Filters() []TagFilter {
	switch c {
	case Education:
		return []TagFilter{
			{
				Key:     "amenity",
				Values:  []string{"school", "college", "university", "kindergarten", "library"},
				Notable: []string{"university", "college"},
			},
		}
	case Healthcare:
		return []TagFilter{
			{
				Key:     "amenity",
				Values:  []string{"hospital", "clinic", "doctors", "dentist", "pharmacy"},
				Notable: []string{"hospital"},
			},
		}
	case Shopping:
		return []TagFilter{
			{
				Key:     "shop",
				Notable: []string{"mall", "supermarket", "department_store"},
			},
			{
				Key:     "amenity",
				Values:  []string{"bank", "atm", "marketplace"},
				Notable: []string{AnyValue},
			},
		}
	case Entertainment:
		return []TagFilter{
			{
				Key:     "amenity",
				Values:  []string{"cinema", "theatre", "arts_centre", "nightclub"},
				Notable: []string{"cinema", "theatre"},
			},
			{
				Key:     "leisure",
				Values:  []string{"park", "sports_centre", "stadium", "fitness_centre", "water_park"},
				Notable: []string{"stadium", "water_park"},
			},
			{
				Key:     "tourism",
				Values:  []string{"museum", "zoo", "theme_park", "attraction"},
				Notable: []string{"museum", "zoo", "theme_park"},
			},
		}
	case Transport:
		return []TagFilter{
			{
				Key:     "amenity",
				Values:  []string{"bus_station", "ferry_terminal"},
				Notable: []string{AnyValue},
			},
			{
				Key:     "railway",
				Values:  []string{"station", "halt", "subway_entrance", "tram_stop"},
				Notable: []string{"station"},
			},
			{
				Key:     "public_transport",
				Values:  []string{"station"},
				Notable: []string{AnyValue},
			},
			{
				Key:    "highway",
				Values: []string{"bus_stop"},
			},
			{
				Key:     "aeroway",
				Values:  []string{"aerodrome", "terminal"},
				Notable: []string{AnyValue},
			},
		}
	default:
		return nil
	}
}

// Match returns the first filter of the category that tags satisfy.
func (c Category) Match(tags map[string]string) (TagFilter, string, bool) {
	for _, f := range c.Filters() {
		if v, ok := f.Matches(tags); ok {
			return f, v, true
		}
	}
	return TagFilter{}, "", false
}
