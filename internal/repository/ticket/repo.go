// Package ticket is the vector store client for the ticket corpus: it owns
// the collection index, stores candidate payloads next to their embeddings,
// and answers nearest-neighbor queries.
package ticket

import (
	"context"
	"errors"
	"fmt"

	"github.com/atlasdesk/ticketmatch/internal/db"
	"github.com/atlasdesk/ticketmatch/internal/domain"
	"github.com/atlasdesk/ticketmatch/internal/domain/match"
)

// store is the consumer interface for ticket storage operations (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// HNSWConfig carries optional index tuning parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo stores and searches tickets in one named collection.
type Repo struct {
	store      store
	keyPrefix  string
	collection string
	vectorDim  int
	hnsw       HNSWConfig
}

// New creates a ticket repository bound to a collection.
func New(s store, keyPrefix, collection string, vectorDim int) *Repo {
	return &Repo{
		store:      s,
		keyPrefix:  keyPrefix,
		collection: collection,
		vectorDim:  vectorDim,
	}
}

// WithHNSW sets HNSW index tuning parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

// EnsureCollection creates the collection's FT index if it does not exist.
// Safe to call repeatedly; a concurrent create racing to "already exists"
// is treated as success.
func (r *Repo) EnsureCollection(ctx context.Context) error {
	indexName := r.indexName()

	exists, err := r.store.IndexExists(ctx, indexName)
	if err != nil {
		return fmt.Errorf("%w: probe index %s: %w", domain.ErrVectorStoreUnavailable, indexName, err)
	}
	if exists {
		return nil
	}

	def := &db.IndexDefinition{
		Name:        indexName,
		Prefixes:    []string{r.docPrefix()},
		VectorField: fieldVector,
		VectorDim:   r.vectorDim,
		Distance:    db.DistanceCosine,
		Algorithm:   db.VectorHNSW,
		HNSWM:       r.hnsw.M,
		HNSWEFConst: r.hnsw.EFConstruct,
		TagFields:   []string{fieldSource, fieldCategory, fieldStatus},
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("%w: create index %s: %w", domain.ErrVectorStoreUnavailable, indexName, err)
	}
	return nil
}

// Upsert stores a ticket payload and its embedding under one hash key.
func (r *Repo) Upsert(ctx context.Context, t *domain.Ticket, vector []float32) error {
	if t.TicketID == "" {
		return fmt.Errorf("ticket id is required for upsert")
	}
	if len(vector) != r.vectorDim {
		return fmt.Errorf("vector dimension mismatch: got %d, want %d", len(vector), r.vectorDim)
	}

	fields := ticketToFields(t)
	fields[fieldVector] = vectorToBytes(vector)

	if err := r.store.HSet(ctx, r.docKey(t.TicketID), fields); err != nil {
		return fmt.Errorf("%w: store ticket %s: %w", domain.ErrVectorStoreUnavailable, t.TicketID, err)
	}
	return nil
}

// Get fetches a stored ticket by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Ticket, error) {
	fields, err := r.store.HGetAll(ctx, r.docKey(id))
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("%w: get ticket %s: %w", domain.ErrVectorStoreUnavailable, id, err)
	}
	if len(fields) == 0 {
		return domain.Ticket{}, domain.ErrNotFound
	}
	return fieldsToTicket(fields), nil
}

// Delete removes a stored ticket by id.
func (r *Repo) Delete(ctx context.Context, id string) error {
	exists, err := r.store.Exists(ctx, r.docKey(id))
	if err != nil {
		return fmt.Errorf("%w: check ticket %s: %w", domain.ErrVectorStoreUnavailable, id, err)
	}
	if !exists {
		return domain.ErrNotFound
	}
	if err := r.store.Del(ctx, r.docKey(id)); err != nil {
		return fmt.Errorf("%w: delete ticket %s: %w", domain.ErrVectorStoreUnavailable, id, err)
	}
	return nil
}

// Search returns the k nearest stored tickets for the query vector, in the
// store's relevance order, with projected payloads.
func (r *Repo) Search(ctx context.Context, vector []float32, k int) ([]match.Candidate, error) {
	returnFields := make([]string, 0, len(payloadFields)+1)
	returnFields = append(returnFields, payloadFields...)
	returnFields = append(returnFields, db.VectorScoreField)

	q := &db.KNNQuery{
		IndexName:    r.indexName(),
		Vector:       vector,
		K:            k,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("%w: search knn %s: %w", domain.ErrVectorStoreUnavailable, r.collection, err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	candidates := make([]match.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		candidates = append(candidates, match.Candidate{
			Ticket: fieldsToTicket(entry.Fields),
			Score:  entry.Score,
		})
	}
	return candidates, nil
}

func (r *Repo) indexName() string {
	return fmt.Sprintf("%s%s:idx", r.keyPrefix, r.collection)
}

func (r *Repo) docPrefix() string {
	return fmt.Sprintf("%s%s:", r.keyPrefix, r.collection)
}

func (r *Repo) docKey(id string) string {
	return r.docPrefix() + id
}
