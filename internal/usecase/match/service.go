// Package match implements the ticket similarity pipeline: weighted text
// encoding, nearest-neighbor retrieval, field-level scoring, score fusion,
// and business-rule filtering and ranking.
package match

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/atlasdesk/ticketmatch/internal/domain"
	"github.com/atlasdesk/ticketmatch/internal/domain/match"
	"github.com/atlasdesk/ticketmatch/internal/metrics"
)

// Config holds the tuning constants of the similarity pipeline.
type Config struct {
	// TopK is the candidate pool size requested from the vector store,
	// independent of MaxResults so the filter stage has enough to work with.
	TopK          int
	MinConfidence float64
	MaxResults    int
	FieldWeights  domain.FieldWeights
}

// SearchOptions are per-request, ephemeral settings.
type SearchOptions struct {
	// Rules are optional allow-lists (source/category/status), conjunctive.
	Rules match.Rules
	// Debug enables per-candidate score logging for this request.
	Debug bool
}

// Service orchestrates the similarity pipeline. Construct once at process
// start and share across requests; all per-request state is local.
type Service struct {
	repo   Repository
	embed  Embedder
	cfg    Config
	logger *zap.Logger

	// Collection readiness is checked lazily and guarded by mu so
	// concurrent first callers cannot race a double index creation.
	// A plain bool instead of sync.Once: a failed attempt must stay
	// retryable on the next request.
	mu    sync.Mutex
	ready bool
}

// New creates the similarity search service.
func New(repo Repository, embed Embedder, cfg Config, logger *zap.Logger) *Service {
	if cfg.FieldWeights.IsZero() {
		cfg.FieldWeights = domain.DefaultFieldWeights()
	}
	return &Service{repo: repo, embed: embed, cfg: cfg, logger: logger}
}

// EnsureReady makes the backing collection exist. Idempotent and safe for
// concurrent use; every search and ingest call goes through it.
func (s *Service) EnsureReady(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}
	if err := s.repo.EnsureCollection(ctx); err != nil {
		return fmt.Errorf("ensure collection: %w", err)
	}
	s.ready = true
	return nil
}

// Search runs the full pipeline for a query ticket and returns the ranked,
// filtered result list. A zero-match outcome is a success with an empty
// slice.
func (s *Service) Search(ctx context.Context, query domain.Ticket, opts SearchOptions) ([]match.Result, error) {
	start := time.Now()

	results, err := s.search(ctx, query, opts)

	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.SearchRequestsTotal.WithLabelValues(status).Inc()
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	if err == nil {
		metrics.SearchResultsReturned.Observe(float64(len(results)))
	}

	return results, err
}

func (s *Service) search(ctx context.Context, query domain.Ticket, opts SearchOptions) ([]match.Result, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	query.Normalize()

	if err := s.EnsureReady(ctx); err != nil {
		return nil, err
	}

	encoded := Encode(&query, s.cfg.FieldWeights)

	emb, err := s.embed.Embed(ctx, encoded)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	candidates, err := s.repo.Search(ctx, emb.Embedding, s.cfg.TopK)
	if err != nil {
		return nil, fmt.Errorf("query vector store: %w", err)
	}

	scored := make([]match.Result, 0, len(candidates))
	for _, c := range candidates {
		sims := FieldSimilarities(&query, &c.Ticket)
		r := match.Result{
			Ticket:            c.Ticket,
			SemanticScore:     c.Score,
			FieldSimilarities: sims,
			Confidence:        Fuse(sims, c.Score, s.cfg.FieldWeights),
		}
		if opts.Debug {
			s.logger.Debug("candidate scored",
				zap.String("ticket_id", c.Ticket.TicketID),
				zap.Float64("semantic_score", c.Score),
				zap.Float64("confidence", r.Confidence),
			)
		}
		scored = append(scored, r)
	}

	ranked := FilterAndRank(scored, query.TicketID, s.cfg.MinConfidence, opts.Rules, s.cfg.MaxResults)

	s.logger.Debug("similarity search complete",
		zap.Int("candidates", len(candidates)),
		zap.Int("returned", len(ranked)),
		zap.Float64("min_confidence", s.cfg.MinConfidence),
	)

	return ranked, nil
}

// Ingest validates and stores a candidate ticket in the collection.
// Tickets without an id get a generated one; the stored id is returned.
func (s *Service) Ingest(ctx context.Context, t domain.Ticket) (string, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	t.Normalize()

	if t.TicketID == "" {
		t.TicketID = uuid.NewString()
	}

	if err := s.EnsureReady(ctx); err != nil {
		return "", err
	}

	encoded := Encode(&t, s.cfg.FieldWeights)

	emb, err := s.embed.Embed(ctx, encoded)
	if err != nil {
		return "", fmt.Errorf("embed ticket: %w", err)
	}

	if err := s.repo.Upsert(ctx, &t, emb.Embedding); err != nil {
		return "", fmt.Errorf("store ticket: %w", err)
	}

	s.logger.Info("ticket ingested",
		zap.String("ticket_id", t.TicketID),
		zap.String("source", t.Source),
		zap.String("category", t.Category),
	)

	return t.TicketID, nil
}

// Get fetches a stored ticket by id.
func (s *Service) Get(ctx context.Context, id string) (domain.Ticket, error) {
	return s.repo.Get(ctx, id)
}

// Delete removes a stored ticket by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("ticket deleted", zap.String("ticket_id", id))
	return nil
}
