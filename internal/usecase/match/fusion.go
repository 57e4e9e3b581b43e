package match

import "github.com/atlasdesk/ticketmatch/internal/domain"

// Fusion split between the semantic and field-level signals. Semantic
// similarity is the primary signal; the field-weighted score corrects for
// cases where the embedding collapses distinct categories together.
const (
	semanticShare = 0.70
	fieldShare    = 0.30
)

// Fuse combines the vector store's semantic score with the field-level
// agreement into one confidence value in [0,1]. Pure and total: raw
// semantic scores outside [0,1] are clamped, fields missing from sims
// contribute 0.
func Fuse(sims map[string]float64, semanticScore float64, weights domain.FieldWeights) float64 {
	semantic := clamp01(semanticScore)

	var fieldScore float64
	for _, fw := range weights.Items() {
		fieldScore += sims[fw.Field] * fw.Weight
	}

	return clamp01(semantic*semanticShare + fieldScore*fieldShare)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
