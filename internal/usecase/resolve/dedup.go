package resolve

import "github.com/kailas-cloud/geodex/internal/domain/candidate"

// Dedup drops candidates whose DedupKey was already seen, keeping the first.
func Dedup(cs []candidate.Candidate) []candidate.Candidate {
	seen := make(map[string]struct{}, len(cs))
	out := make([]candidate.Candidate, 0, len(cs))
	for i := range cs {
		k := cs[i].DedupKey()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, cs[i])
	}
	return out
}
