// Package match holds the value types of the similarity pipeline: raw
// vector-store candidates, scored results, and business filter rules.
package match

import "github.com/atlasdesk/ticketmatch/internal/domain"

// Candidate is a raw nearest neighbor from the vector store: the projected
// stored payload plus the store's similarity score for the query vector.
type Candidate struct {
	Ticket domain.Ticket
	// Score is the raw semantic similarity as reported by the store. It may
	// fall outside [0,1] depending on the distance metric; fusion clamps it.
	Score float64
}

// Result is a single scored, ranked search hit. Created fresh per request
// and never persisted.
type Result struct {
	Ticket domain.Ticket

	// SemanticScore is the candidate's raw vector-store similarity.
	SemanticScore float64
	// FieldSimilarities maps canonical field names to [0,1] agreement scores.
	FieldSimilarities map[string]float64
	// Confidence is the fused score in [0,1] used for thresholding and ranking.
	Confidence float64
	// ConfidencePercentage is round(Confidence*100).
	ConfidencePercentage int
	// Rank is the 1-based position after filtering and sorting.
	Rank int
}
