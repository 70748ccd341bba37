package amenity

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// nameTags are the tags that give an element a display name, in preference order.
var nameTags = []string{"name", "name:vi", "name:en", "official_name", "alt_name", "short_name"}

// knowledgeTags link an element to a knowledge base entry.
var knowledgeTags = []string{"wikidata", "brand:wikidata", "wikipedia"}

// DisplayName returns the best available name for tags, falling back to the brand.
func DisplayName(tags map[string]string) string {
	for _, k := range nameTags {
		if v := tags[k]; v != "" {
			return v
		}
	}
	return tags["brand"]
}

// Label returns DisplayName, or the humanized tag value ("bus_stop" -> "Bus stop") for unnamed elements.
func Label(tags map[string]string, kind string) string {
	if n := DisplayName(tags); n != "" {
		return n
	}
	s := strings.ReplaceAll(kind, "_", " ")
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// IsNotable decides whether a raw element is significant enough to surface.
// Raw geodata is dominated by unnamed nodes, so an element must carry a name,
// a brand, a knowledge-base link, or match the category's always-notable rule.
// Shopping elements that fail every other rule pass only with includeSmallShops.
func IsNotable(c Category, tags map[string]string, includeSmallShops bool) bool {
	if DisplayName(tags) != "" {
		return true
	}
	for _, k := range knowledgeTags {
		if tags[k] != "" {
			return true
		}
	}

	f, v, ok := c.Match(tags)
	if !ok {
		return false
	}
	if f.IsNotable(v) {
		return true
	}
	return c == Shopping && f.Key == "shop" && includeSmallShops
}
