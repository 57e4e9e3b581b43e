package match

import (
	"strings"

	"github.com/atlasdesk/ticketmatch/internal/domain"
)

// FieldSimilarities computes per-field agreement between query and candidate:
// Jaccard token overlap for the free-text fields, exact case-sensitive
// equality for the categorical ones. Pure, no I/O.
func FieldSimilarities(query, candidate *domain.Ticket) map[string]float64 {
	return map[string]float64{
		domain.FieldShortDescription: jaccard(query.ShortDescription, candidate.ShortDescription),
		domain.FieldDescription:      jaccard(query.Description, candidate.Description),
		domain.FieldCategory:         exact(query.Category, candidate.Category),
		domain.FieldSource:           exact(query.Source, candidate.Source),
	}
}

// jaccard is |A∩B| / |A∪B| over lowercase whitespace-split token sets.
// Returns 0 when either side has no tokens.
func jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}

	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]bool {
	tokens := strings.Fields(strings.ToLower(s))
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}

func exact(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}
