package embedding

import (
	"strings"

	"github.com/okian/simumatch/internal/domain/dedupe"
)

// ResolveAthlete finds the row whose label best matches query.
//
// Tiers are tried in order and the first tier with a candidate decides:
//  1. exact match, ignoring case and surrounding space;
//  2. the label contains the query;
//  3. the label contains at least one query token.
//
// Within tiers 1 and 2 the lowest row wins. Within tier 3 the row matching
// the most tokens wins, then the lowest row.
func ResolveAthlete(query string, t *Table) (int, error) {
	q := dedupe.FoldLabel(query)
	if q == "" || t == nil {
		return -1, ErrNotFound
	}

	folded := make([]string, len(t.Labels))
	for i, l := range t.Labels {
		folded[i] = dedupe.FoldLabel(l)
	}

	for i, l := range folded {
		if l == q {
			return i, nil
		}
	}
	for i, l := range folded {
		if strings.Contains(l, q) {
			return i, nil
		}
	}

	tokens := strings.Fields(q)
	best, bestHits := -1, 0
	for i, l := range folded {
		hits := 0
		for _, tok := range tokens {
			if strings.Contains(l, tok) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}
	if best < 0 {
		return -1, ErrNotFound
	}
	return best, nil
}
