package overpass

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/geodex/internal/domain/geo"
)

// DefaultTimeoutSec is the server-side budget requested by queries.
const DefaultTimeoutSec = 25

// Predicate is a tag condition: key present (no values), key equal to a value,
// or key matching one of several values.
type Predicate struct {
	Key    string
	Values []string
}

// Tag creates a predicate.
func Tag(key string, values ...string) Predicate {
	return Predicate{Key: key, Values: values}
}

// String renders the predicate in QL filter syntax.
func (p Predicate) String() string {
	key := quote(p.Key)
	switch len(p.Values) {
	case 0:
		return "[" + key + "]"
	case 1:
		return "[" + key + "=" + quote(p.Values[0]) + "]"
	default:
		alts := make([]string, len(p.Values))
		for i, v := range p.Values {
			alts[i] = regexp.QuoteMeta(v)
		}
		return "[" + key + "~" + quote("^("+strings.Join(alts, "|")+")$") + "]"
	}
}

// OutMode selects how matched elements are returned.
type OutMode int

// Output modes.
const (
	// OutCenter returns nodes as-is and areas collapsed to their center.
	OutCenter OutMode = iota
	// OutGeometry returns relations with their members and full way geometry.
	OutGeometry
)

type statement struct {
	elem  string
	preds []Predicate
}

// QueryBuilder is a fluent builder for radius-bounded QL queries.
type QueryBuilder struct {
	timeout int
	radius  int
	center  geo.Point
	around  bool
	stmts   []statement
	out     OutMode
}

// NewQuery starts building a query. A non-positive timeout uses DefaultTimeoutSec.
func NewQuery(timeoutSec int) *QueryBuilder {
	if timeoutSec <= 0 {
		timeoutSec = DefaultTimeoutSec
	}
	return &QueryBuilder{timeout: timeoutSec}
}

// Around bounds every statement to a circle.
func (b *QueryBuilder) Around(radiusMeters int, center geo.Point) *QueryBuilder {
	b.radius = radiusMeters
	b.center = center
	b.around = true
	return b
}

// Nodes adds a node statement.
func (b *QueryBuilder) Nodes(preds ...Predicate) *QueryBuilder {
	b.stmts = append(b.stmts, statement{elem: TypeNode, preds: preds})
	return b
}

// Ways adds a way statement.
func (b *QueryBuilder) Ways(preds ...Predicate) *QueryBuilder {
	b.stmts = append(b.stmts, statement{elem: TypeWay, preds: preds})
	return b
}

// NodesAndWays adds a node and a way statement with the same predicates.
func (b *QueryBuilder) NodesAndWays(preds ...Predicate) *QueryBuilder {
	return b.Nodes(preds...).Ways(preds...)
}

// Relations adds a relation statement.
func (b *QueryBuilder) Relations(preds ...Predicate) *QueryBuilder {
	b.stmts = append(b.stmts, statement{elem: TypeRelation, preds: preds})
	return b
}

// Out sets the output mode.
func (b *QueryBuilder) Out(mode OutMode) *QueryBuilder {
	b.out = mode
	return b
}

// Build validates and renders the query.
func (b *QueryBuilder) Build() (string, error) {
	if !b.around {
		return "", errors.New("overpass: spatial bound is required")
	}
	if b.radius <= 0 {
		return "", fmt.Errorf("overpass: radius must be positive, got %d", b.radius)
	}
	if !b.center.Valid() {
		return "", fmt.Errorf("overpass: invalid center %v,%v", b.center.Lat, b.center.Lng)
	}
	if len(b.stmts) == 0 {
		return "", errors.New("overpass: at least one statement is required")
	}

	area := "(around:" + strconv.Itoa(b.radius) + "," + formatCoord(b.center.Lat) + "," + formatCoord(b.center.Lng) + ")"

	var sb strings.Builder
	sb.WriteString("[out:json][timeout:")
	sb.WriteString(strconv.Itoa(b.timeout))
	sb.WriteString("];\n(\n")
	for _, st := range b.stmts {
		sb.WriteString("  ")
		sb.WriteString(st.elem)
		for _, p := range st.preds {
			sb.WriteString(p.String())
		}
		sb.WriteString(area)
		sb.WriteString(";\n")
	}
	sb.WriteString(");\n")
	switch b.out {
	case OutGeometry:
		sb.WriteString("out body;\n>;\nout geom;")
	default:
		sb.WriteString("out center;")
	}
	return sb.String(), nil
}

// MustBuild calls Build and panics on error.
func (b *QueryBuilder) MustBuild() string {
	q, err := b.Build()
	if err != nil {
		panic(err)
	}
	return q
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
