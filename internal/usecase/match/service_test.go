package match

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/atlasdesk/ticketmatch/internal/domain"
	"github.com/atlasdesk/ticketmatch/internal/domain/match"
)

// --- Mocks ---

type mockRepo struct {
	candidates   []match.Candidate
	searchErr    error
	ensureErr    error
	ensureCalls  int
	searchCalled bool
	lastK        int
	upsertErr    error
	upserted     *domain.Ticket
	upsertedVec  []float32
	stored       domain.Ticket
	getErr       error
	deleteErr    error
	deletedID    string
}

func (m *mockRepo) EnsureCollection(_ context.Context) error {
	m.ensureCalls++
	return m.ensureErr
}

func (m *mockRepo) Search(_ context.Context, _ []float32, k int) ([]match.Candidate, error) {
	m.searchCalled = true
	m.lastK = k
	return m.candidates, m.searchErr
}

func (m *mockRepo) Upsert(_ context.Context, t *domain.Ticket, vector []float32) error {
	m.upserted = t
	m.upsertedVec = vector
	return m.upsertErr
}

func (m *mockRepo) Get(_ context.Context, _ string) (domain.Ticket, error) {
	return m.stored, m.getErr
}

func (m *mockRepo) Delete(_ context.Context, id string) error {
	m.deletedID = id
	return m.deleteErr
}

type mockEmbedder struct {
	vec      []float32
	err      error
	called   bool
	lastText string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.called = true
	m.lastText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec}, nil
}

func validTicket(id string) domain.Ticket {
	return domain.Ticket{
		TicketID:         id,
		ShortDescription: "vpn connection drops",
		Description:      "the vpn connection drops every morning around nine",
		Category:         "Network",
		Source:           "email",
	}
}

func candidate(id string, score float64) match.Candidate {
	t := validTicket(id)
	return match.Candidate{Ticket: t, Score: score}
}

func newTestService(repo *mockRepo, embed *mockEmbedder) *Service {
	return New(repo, embed, Config{
		TopK:          20,
		MinConfidence: 0.7,
		MaxResults:    5,
	}, zap.NewNop())
}

// --- Tests ---

func TestSearch_FullPipeline(t *testing.T) {
	repo := &mockRepo{candidates: []match.Candidate{
		candidate("T2", 0.95),
		candidate("T3", 0.2),
	}}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := newTestService(repo, embed)

	results, err := svc.Search(context.Background(), validTicket("T1"), SearchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !embed.called {
		t.Error("expected Embed to be called")
	}
	if !repo.searchCalled {
		t.Error("expected repo.Search to be called")
	}
	if repo.lastK != 20 {
		t.Errorf("search requested k=%d, want 20", repo.lastK)
	}

	// T2 matches on every field: confidence 0.95*0.7 + 1.0*0.3 = 0.965.
	// T3's low semantic score keeps it under the 0.7 threshold.
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Ticket.TicketID != "T2" {
		t.Errorf("got %s, want T2", results[0].Ticket.TicketID)
	}
	if results[0].Rank != 1 {
		t.Errorf("rank = %d, want 1", results[0].Rank)
	}
	if results[0].ConfidencePercentage != 97 {
		t.Errorf("percentage = %d, want 97", results[0].ConfidencePercentage)
	}
}

func TestSearch_InvalidTicketCollectsAllViolations(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{}
	svc := newTestService(repo, embed)

	_, err := svc.Search(context.Background(), domain.Ticket{}, SearchOptions{})
	if !errors.Is(err, domain.ErrInvalidTicket) {
		t.Fatalf("expected ErrInvalidTicket, got %v", err)
	}

	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(ve.Violations) < 2 {
		t.Errorf("expected violations for both descriptions, got %v", ve.Violations)
	}
	if embed.called {
		t.Error("embedder must not run on invalid input")
	}
}

func TestSearch_EmbedderFailure(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{err: domain.ErrEmbeddingProviderError}
	svc := newTestService(repo, embed)

	_, err := svc.Search(context.Background(), validTicket("T1"), SearchOptions{})
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
	if repo.searchCalled {
		t.Error("vector store must not be queried after embed failure")
	}
}

func TestSearch_VectorStoreFailure(t *testing.T) {
	repo := &mockRepo{searchErr: domain.ErrVectorStoreUnavailable}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := newTestService(repo, embed)

	_, err := svc.Search(context.Background(), validTicket("T1"), SearchOptions{})
	if !errors.Is(err, domain.ErrVectorStoreUnavailable) {
		t.Fatalf("expected ErrVectorStoreUnavailable, got %v", err)
	}
}

func TestSearch_ZeroMatchesIsSuccess(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := newTestService(repo, embed)

	results, err := svc.Search(context.Background(), validTicket("T1"), SearchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestSearch_RulesApplied(t *testing.T) {
	hw := validTicket("T2")
	hw.Category = "Hardware"
	repo := &mockRepo{candidates: []match.Candidate{
		{Ticket: hw, Score: 0.99},
		candidate("T3", 0.99),
	}}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := newTestService(repo, embed)

	results, err := svc.Search(context.Background(), validTicket("T1"), SearchOptions{
		Rules: match.Rules{Categories: []string{"Network"}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Ticket.TicketID != "T3" {
		t.Fatalf("expected only T3, got %d results", len(results))
	}
}

func TestEnsureReady_OnceWhenHealthy(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := newTestService(repo, embed)

	for i := 0; i < 3; i++ {
		if _, err := svc.Search(context.Background(), validTicket("T1"), SearchOptions{}); err != nil {
			t.Fatalf("search %d: %v", i, err)
		}
	}

	if repo.ensureCalls != 1 {
		t.Errorf("EnsureCollection called %d times, want 1", repo.ensureCalls)
	}
}

func TestEnsureReady_RetriesAfterFailure(t *testing.T) {
	repo := &mockRepo{ensureErr: domain.ErrVectorStoreUnavailable}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := newTestService(repo, embed)

	if _, err := svc.Search(context.Background(), validTicket("T1"), SearchOptions{}); err == nil {
		t.Fatal("expected init failure to surface")
	}

	// A failed init must not be cached: the next call retries and succeeds.
	repo.ensureErr = nil
	if _, err := svc.Search(context.Background(), validTicket("T1"), SearchOptions{}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if repo.ensureCalls != 2 {
		t.Errorf("EnsureCollection called %d times, want 2", repo.ensureCalls)
	}
}

func TestIngest_AssignsIDWhenMissing(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := newTestService(repo, embed)

	in := validTicket("")
	id, err := svc.Ingest(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id == "" {
		t.Fatal("expected generated ticket id")
	}
	if repo.upserted == nil || repo.upserted.TicketID != id {
		t.Error("stored ticket does not carry the generated id")
	}
}

func TestIngest_KeepsProvidedID(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := newTestService(repo, embed)

	id, err := svc.Ingest(context.Background(), validTicket("INC-42"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "INC-42" {
		t.Errorf("id = %q, want INC-42", id)
	}
	if len(repo.upsertedVec) == 0 {
		t.Error("expected embedding to be stored")
	}
}

func TestIngest_InvalidTicket(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := newTestService(repo, embed)

	_, err := svc.Ingest(context.Background(), domain.Ticket{ShortDescription: "x"})
	if !errors.Is(err, domain.ErrInvalidTicket) {
		t.Fatalf("expected ErrInvalidTicket, got %v", err)
	}
	if repo.upserted != nil {
		t.Error("invalid ticket must not be stored")
	}
}
