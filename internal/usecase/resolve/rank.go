package resolve

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/geodex/internal/domain/candidate"
)

// DefaultBrands are retail/service brands recognized in queries.
var DefaultBrands = []string{
	"vinmart", "winmart", "circle k", "highlands coffee", "phúc long", "vincom",
	"aeon", "co.op mart", "bách hóa xanh", "pharmacity", "vietcombank",
	"techcombank", "bidv", "kfc", "lotteria", "lotte mart", "big c",
	"familymart", "ministop", "gs25", "7-eleven", "starbucks",
	"the coffee house", "thế giới di động", "điện máy xanh",
}

// DefaultPhoneticPairs are Vietnamese near-homophones that commonly mislead matching.
var DefaultPhoneticPairs = [][2]string{
	{"hoàng", "hòa"},
	{"hoàng", "hoàn"},
	{"thái", "thải"},
	{"nguyễn", "nguyên"},
	{"lê", "lệ"},
	{"phú", "phủ"},
	{"hải", "hại"},
	{"trần", "trấn"},
	{"đống", "đông"},
	{"tân", "tấn"},
}

// RankConfig holds the tunable ranking tables. Nil slices use the defaults.
type RankConfig struct {
	Brands        []string
	PhoneticPairs [][2]string
}

// sortKey is everything the comparator chain needs, computed once per candidate.
type sortKey struct {
	exact     bool
	brand     bool
	overlap   int
	prefix    bool
	penalized bool
	relevance float64
	priority  int
	name      string // NFC, original case, for collation
}

// stage compares two keys; negative means a ranks first, zero defers to the next stage.
type stage func(a, b *sortKey) int

func byExactMatch(a, b *sortKey) int   { return preferTrue(a.exact, b.exact) }
func byBrand(a, b *sortKey) int        { return preferTrue(a.brand, b.brand) }
func byWordOverlap(a, b *sortKey) int  { return cmp.Compare(b.overlap, a.overlap) }
func byPrefix(a, b *sortKey) int       { return preferTrue(a.prefix, b.prefix) }
func byPhonetic(a, b *sortKey) int     { return preferTrue(!a.penalized, !b.penalized) }
func byRelevance(a, b *sortKey) int    { return cmp.Compare(b.relevance, a.relevance) }
func byTypePriority(a, b *sortKey) int { return cmp.Compare(a.priority, b.priority) }

// stages is the ranking contract in order; locale collation is appended per call.
var stages = []stage{
	byExactMatch,
	byBrand,
	byWordOverlap,
	byPrefix,
	byPhonetic,
	byRelevance,
	byTypePriority,
}

// Ranker orders candidates against a query.
type Ranker struct {
	brands []string
	pairs  [][2]string
}

// NewRanker creates a ranker with normalized tables.
func NewRanker(cfg RankConfig) *Ranker {
	brands := cfg.Brands
	if brands == nil {
		brands = DefaultBrands
	}
	pairs := cfg.PhoneticPairs
	if pairs == nil {
		pairs = DefaultPhoneticPairs
	}

	r := &Ranker{
		brands: make([]string, 0, len(brands)),
		pairs:  make([][2]string, 0, len(pairs)),
	}
	for _, b := range brands {
		if b = normalize(b); b != "" {
			r.brands = append(r.brands, b)
		}
	}
	for _, p := range pairs {
		a, b := normalize(p[0]), normalize(p[1])
		if a != "" && b != "" && a != b {
			r.pairs = append(r.pairs, [2]string{a, b})
		}
	}
	return r
}

// Rank returns a new slice sorted by the comparator chain. The sort is stable,
// so complete ties keep input order.
func (r *Ranker) Rank(cs []candidate.Candidate, query string) []candidate.Candidate {
	q := normalize(query)
	qWords := strings.Fields(q)

	keys := make([]sortKey, len(cs))
	for i := range cs {
		keys[i] = r.key(&cs[i], q, qWords)
	}

	// Collator is not safe for concurrent use; one per call.
	col := collate.New(language.Vietnamese)
	chain := append(slices.Clone(stages), func(a, b *sortKey) int {
		return col.CompareString(a.name, b.name)
	})

	order := make([]int, len(cs))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(i, j int) int {
		return compareKeys(chain, &keys[i], &keys[j])
	})

	out := make([]candidate.Candidate, len(cs))
	for pos, i := range order {
		out[pos] = cs[i]
	}
	return out
}

func compareKeys(chain []stage, a, b *sortKey) int {
	for _, st := range chain {
		if c := st(a, b); c != 0 {
			return c
		}
	}
	return 0
}

func (r *Ranker) key(c *candidate.Candidate, q string, qWords []string) sortKey {
	name := normalize(c.Name())
	nWords := strings.Fields(name)

	return sortKey{
		exact:     name == q,
		brand:     r.sharesBrand(q, name),
		overlap:   wordOverlap(qWords, nWords),
		prefix:    q != "" && strings.HasPrefix(name, q),
		penalized: r.phoneticPenalty(qWords, nWords),
		relevance: c.Relevance(),
		priority:  c.Type().Priority(),
		name:      norm.NFC.String(c.Name()),
	}
}

func (r *Ranker) sharesBrand(q, name string) bool {
	for _, b := range r.brands {
		if strings.Contains(q, b) && strings.Contains(name, b) {
			return true
		}
	}
	return false
}

// phoneticPenalty reports whether the query has one member of a pair as a word
// and the name has the other member but not the first.
func (r *Ranker) phoneticPenalty(qWords, nWords []string) bool {
	for _, p := range r.pairs {
		for _, dir := range [2][2]string{{p[0], p[1]}, {p[1], p[0]}} {
			said, heard := dir[0], dir[1]
			if slices.Contains(qWords, said) &&
				slices.Contains(nWords, heard) &&
				!slices.Contains(nWords, said) {
				return true
			}
		}
	}
	return false
}

// wordOverlap counts query words that equal, are a substring of, or contain a name word.
func wordOverlap(qWords, nWords []string) int {
	n := 0
	for _, qw := range qWords {
		for _, nw := range nWords {
			if strings.Contains(nw, qw) || strings.Contains(qw, nw) {
				n++
				break
			}
		}
	}
	return n
}

func preferTrue(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}

// normalize lowercases, applies NFC and collapses whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(strings.ToLower(s))), " ")
}
