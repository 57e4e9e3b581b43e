// Package explain produces optional natural-language summaries of search
// results. Explanation is best effort: any failure degrades to an empty
// summary and never fails the search that requested it.
package explain

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/atlasdesk/ticketmatch/internal/domain"
	"github.com/atlasdesk/ticketmatch/internal/domain/match"
)

// topCitations caps how many matches the prompt cites.
const topCitations = 3

// Service generates match explanations via an LLM.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

func New(gen Generator, logger *zap.Logger) *Service {
	return &Service{gen: gen, logger: logger}
}

// Explain summarizes why the top results match the query ticket. Returns ""
// when the generator is unset, the result list is empty, or generation
// fails for any reason.
func (s *Service) Explain(ctx context.Context, query *domain.Ticket, results []match.Result) string {
	if s.gen == nil || len(results) == 0 {
		return ""
	}

	summary, err := s.gen.Generate(ctx, buildPrompt(query, results))
	if err != nil {
		s.logger.Warn("explanation generation failed, continuing without",
			zap.String("ticket_id", query.TicketID),
			zap.Error(err),
		)
		return ""
	}
	return strings.TrimSpace(summary)
}

func buildPrompt(query *domain.Ticket, results []match.Result) string {
	var b strings.Builder
	b.WriteString("You are a support engineer reviewing similar ticket matches.\n")
	b.WriteString("Explain in two or three sentences why the matched tickets are relevant to the query.\n\n")
	b.WriteString("Query ticket:\n")
	writeTicket(&b, query)
	b.WriteString("\nTop matches:\n")

	n := len(results)
	if n > topCitations {
		n = topCitations
	}
	for i := 0; i < n; i++ {
		r := results[i]
		fmt.Fprintf(&b, "%d. [%s] confidence %d%%: %s\n",
			r.Rank, r.Ticket.TicketID, r.ConfidencePercentage, r.Ticket.ShortDescription)
	}
	b.WriteString("\nReference the matched ticket ids in your answer.")
	return b.String()
}

func writeTicket(b *strings.Builder, t *domain.Ticket) {
	fmt.Fprintf(b, "Summary: %s\n", t.ShortDescription)
	if t.Category != "" {
		fmt.Fprintf(b, "Category: %s\n", t.Category)
	}
	if t.Source != "" {
		fmt.Fprintf(b, "Source: %s\n", t.Source)
	}
}
