package match

import (
	"math"
	"sort"

	"github.com/atlasdesk/ticketmatch/internal/domain/match"
)

// FilterAndRank applies the business-rule pipeline to scored results:
// self-exclusion, confidence threshold, allow-list filters, stable
// descending sort, truncation, and 1-based rank assignment. The input
// slice order is the vector store's relevance order; equal-confidence
// results keep that relative order.
//
// An empty output is a valid "no matches" outcome, not an error.
func FilterAndRank(
	results []match.Result,
	queryID string,
	minConfidence float64,
	rules match.Rules,
	maxResults int,
) []match.Result {
	kept := make([]match.Result, 0, len(results))
	for _, r := range results {
		// Self-exclusion only applies when the query supplies an id.
		if queryID != "" && r.Ticket.TicketID == queryID {
			continue
		}
		if r.Confidence < minConfidence {
			continue
		}
		if !rules.Allows(&r.Ticket) {
			continue
		}
		kept = append(kept, r)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})

	if maxResults > 0 && len(kept) > maxResults {
		kept = kept[:maxResults]
	}

	for i := range kept {
		kept[i].Rank = i + 1
		kept[i].ConfidencePercentage = int(math.Round(kept[i].Confidence * 100))
	}

	return kept
}
