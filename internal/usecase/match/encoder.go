package match

import (
	"math"
	"strings"

	"github.com/atlasdesk/ticketmatch/internal/domain"
)

// repetitionMultiplier converts a field weight into a repetition count:
// ceil(weight * 10). A 0.35 weight repeats the field four times.
const repetitionMultiplier = 10

// fieldLabels prefixes categorical fields inside the encoded blob so their
// signal stays distinguishable from free text in the embedding space.
var fieldLabels = map[string]string{
	domain.FieldCategory: "Category",
	domain.FieldSource:   "Source",
}

// Encode flattens a ticket into a single weighted text blob for embedding.
// Fields iterate in the canonical FieldWeights order; empty fields are
// skipped silently. Deterministic: the same ticket and weights always
// produce the same string, which makes encoded text cacheable.
func Encode(t *domain.Ticket, weights domain.FieldWeights) string {
	var parts []string

	for _, fw := range weights.Items() {
		value := strings.TrimSpace(t.FieldValue(fw.Field))
		if value == "" || fw.Weight <= 0 {
			continue
		}

		if label, ok := fieldLabels[fw.Field]; ok {
			value = label + ": " + value
		}

		repeats := int(math.Ceil(fw.Weight * repetitionMultiplier))
		for i := 0; i < repeats; i++ {
			parts = append(parts, value)
		}
	}

	return strings.Join(parts, " ")
}
