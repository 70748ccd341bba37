package cache

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/geodex/internal/domain/geo"
)

const (
	pairSep  = "|"
	valueSep = ":"
	listSep  = ","
)

// Params is a set of named cache key components.
type Params map[string]string

// Coord adds a coordinate quantized to geo.KeyPrecision decimals.
func (p Params) Coord(name string, v float64) Params {
	p[name] = geo.Quantize(v)
	return p
}

// List adds a sorted, de-duplicated list so that order does not split partitions.
func (p Params) List(name string, values []string) Params {
	vs := slices.Clone(values)
	slices.Sort(vs)
	p[name] = strings.Join(slices.Compact(vs), listSep)
	return p
}

// Key builds "<scope>:" followed by "name:value" pairs sorted by name and joined with "|".
func Key(scope string, params Params) string {
	names := make([]string, 0, len(params))
	for n := range params {
		names = append(names, n)
	}
	slices.Sort(names)

	var b strings.Builder
	b.WriteString(scope)
	b.WriteString(valueSep)
	for i, n := range names {
		if i > 0 {
			b.WriteString(pairSep)
		}
		b.WriteString(n)
		b.WriteString(valueSep)
		b.WriteString(params[n])
	}
	return b.String()
}
