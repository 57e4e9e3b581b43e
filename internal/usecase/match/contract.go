package match

import (
	"context"

	"github.com/atlasdesk/ticketmatch/internal/domain"
	"github.com/atlasdesk/ticketmatch/internal/domain/match"
)

// Repository is the vector store contract for the similarity pipeline.
type Repository interface {
	// EnsureCollection creates the backing collection (index) if absent.
	EnsureCollection(ctx context.Context) error
	// Search returns up to k nearest candidates in store relevance order.
	Search(ctx context.Context, vector []float32, k int) ([]match.Candidate, error)
	// Upsert stores a candidate ticket with its embedding.
	Upsert(ctx context.Context, t *domain.Ticket, vector []float32) error
	// Get fetches a stored ticket by id.
	Get(ctx context.Context, id string) (domain.Ticket, error)
	// Delete removes a stored ticket by id.
	Delete(ctx context.Context, id string) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
