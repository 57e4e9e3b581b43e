package chi

import (
	"math"

	"github.com/atlasdesk/ticketmatch/internal/domain"
	"github.com/atlasdesk/ticketmatch/internal/domain/match"
)

// ticketDTO is the wire representation of a ticket.
type ticketDTO struct {
	TicketID         string   `json:"ticket_id,omitempty"`
	Source           string   `json:"source,omitempty"`
	ShortDescription string   `json:"short_description"`
	Description      string   `json:"description"`
	Category         string   `json:"category,omitempty"`
	Subcategory      string   `json:"subcategory,omitempty"`
	Status           string   `json:"status,omitempty"`
	Priority         string   `json:"priority,omitempty"`
	Impact           string   `json:"impact,omitempty"`
	Urgency          string   `json:"urgency,omitempty"`
	OpenedTime       string   `json:"opened_time,omitempty"`
	ClosedTime       string   `json:"closed_time,omitempty"`
	ResolvedTime     string   `json:"resolved_time,omitempty"`
	AssignedTo       string   `json:"assigned_to,omitempty"`
	AssignmentGroup  string   `json:"assignment_group,omitempty"`
	Company          string   `json:"company,omitempty"`
	Location         string   `json:"location,omitempty"`
	Tags             []string `json:"tags,omitempty"`
}

// rulesDTO carries optional allow-list filters. Lists are conjunctive;
// an empty list places no restriction on its field.
type rulesDTO struct {
	Sources    []string `json:"sources,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Statuses   []string `json:"statuses,omitempty"`
}

type searchRequest struct {
	Ticket  ticketDTO `json:"ticket"`
	Rules   *rulesDTO `json:"rules,omitempty"`
	Debug   bool      `json:"debug,omitempty"`
	Explain bool      `json:"explain,omitempty"`
}

type matchDTO struct {
	Ticket               ticketDTO          `json:"ticket"`
	Rank                 int                `json:"rank"`
	ConfidenceScore      float64            `json:"confidence_score"`
	ConfidencePercentage int                `json:"confidence_percentage"`
	SemanticScore        float64            `json:"semantic_score"`
	FieldSimilarities    map[string]float64 `json:"field_similarities"`
}

type searchResponse struct {
	Results     []matchDTO `json:"results"`
	Count       int        `json:"count"`
	Message     string     `json:"message,omitempty"`
	Explanation string     `json:"explanation,omitempty"`
}

type ingestResponse struct {
	TicketID string `json:"ticket_id"`
}

type errorResponse struct {
	Code       string   `json:"code"`
	Message    string   `json:"message"`
	Violations []string `json:"violations,omitempty"`
}

type healthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func ticketFromDTO(d ticketDTO) domain.Ticket {
	return domain.Ticket{
		TicketID:         d.TicketID,
		Source:           d.Source,
		ShortDescription: d.ShortDescription,
		Description:      d.Description,
		Category:         d.Category,
		Subcategory:      d.Subcategory,
		Status:           d.Status,
		Priority:         d.Priority,
		Impact:           d.Impact,
		Urgency:          d.Urgency,
		OpenedTime:       d.OpenedTime,
		ClosedTime:       d.ClosedTime,
		ResolvedTime:     d.ResolvedTime,
		AssignedTo:       d.AssignedTo,
		AssignmentGroup:  d.AssignmentGroup,
		Company:          d.Company,
		Location:         d.Location,
		Tags:             d.Tags,
	}
}

func ticketToDTO(t *domain.Ticket) ticketDTO {
	return ticketDTO{
		TicketID:         t.TicketID,
		Source:           t.Source,
		ShortDescription: t.ShortDescription,
		Description:      t.Description,
		Category:         t.Category,
		Subcategory:      t.Subcategory,
		Status:           t.Status,
		Priority:         t.Priority,
		Impact:           t.Impact,
		Urgency:          t.Urgency,
		OpenedTime:       t.OpenedTime,
		ClosedTime:       t.ClosedTime,
		ResolvedTime:     t.ResolvedTime,
		AssignedTo:       t.AssignedTo,
		AssignmentGroup:  t.AssignmentGroup,
		Company:          t.Company,
		Location:         t.Location,
		Tags:             t.Tags,
	}
}

func rulesFromDTO(d *rulesDTO) match.Rules {
	if d == nil {
		return match.Rules{}
	}
	return match.Rules{
		Sources:    d.Sources,
		Categories: d.Categories,
		Statuses:   d.Statuses,
	}
}

// matchToDTO projects a pipeline result to the wire shape. Scores are
// rounded to two decimals and held to [0,1]; the semantic score can go
// negative upstream when the cosine distance exceeds 1.
func matchToDTO(r *match.Result) matchDTO {
	sims := make(map[string]float64, len(r.FieldSimilarities))
	for k, v := range r.FieldSimilarities {
		sims[k] = round2(v)
	}
	return matchDTO{
		Ticket:               ticketToDTO(&r.Ticket),
		Rank:                 r.Rank,
		ConfidenceScore:      round2(r.Confidence),
		ConfidencePercentage: r.ConfidencePercentage,
		SemanticScore:        round2(clampUnit(r.SemanticScore)),
		FieldSimilarities:    sims,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampUnit(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
