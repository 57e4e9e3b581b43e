package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Length limits for required free-text fields.
const (
	MinShortDescriptionLen = 5
	MaxShortDescriptionLen = 500
	MinDescriptionLen      = 10
	MaxDescriptionLen      = 5000
)

// Canonical field names, shared by the encoder, the field similarity
// calculator, and the transport layer.
const (
	FieldShortDescription = "short_description"
	FieldDescription      = "description"
	FieldCategory         = "category"
	FieldSource           = "source"
)

// Ticket is a support ticket, either a search query or a stored candidate.
// Required for both uses: ShortDescription, Description, Category, Source.
// Timestamps stay as strings: they arrive from heterogeneous source systems
// and are carried through as opaque payload.
type Ticket struct {
	TicketID         string
	Source           string
	ShortDescription string
	Description      string
	Category         string
	Subcategory      string
	Status           string
	Priority         string
	Impact           string
	Urgency          string
	OpenedTime       string
	ClosedTime       string
	ResolvedTime     string
	AssignedTo       string
	AssignmentGroup  string
	Company          string
	Location         string
	Tags             []string
}

// Validate checks required fields and length bounds, collecting every
// violation. Returns a *ValidationError when any check fails.
func (t *Ticket) Validate() error {
	var violations []string

	// Bounds count characters, not bytes, so non-ASCII text is not
	// penalized.
	switch n := utf8.RuneCountInString(strings.TrimSpace(t.ShortDescription)); {
	case n == 0:
		violations = append(violations, "short_description is required")
	case n < MinShortDescriptionLen || n > MaxShortDescriptionLen:
		violations = append(violations, fmt.Sprintf(
			"short_description must be between %d and %d characters, got %d",
			MinShortDescriptionLen, MaxShortDescriptionLen, n))
	}

	switch n := utf8.RuneCountInString(strings.TrimSpace(t.Description)); {
	case n == 0:
		violations = append(violations, "description is required")
	case n < MinDescriptionLen || n > MaxDescriptionLen:
		violations = append(violations, fmt.Sprintf(
			"description must be between %d and %d characters, got %d",
			MinDescriptionLen, MaxDescriptionLen, n))
	}

	if strings.TrimSpace(t.Category) == "" {
		violations = append(violations, "category is required")
	}
	if strings.TrimSpace(t.Source) == "" {
		violations = append(violations, "source is required")
	}

	if len(violations) > 0 {
		return NewValidationError(violations)
	}
	return nil
}

// Normalize trims surrounding whitespace from all text fields in place.
func (t *Ticket) Normalize() {
	t.TicketID = strings.TrimSpace(t.TicketID)
	t.Source = strings.TrimSpace(t.Source)
	t.ShortDescription = strings.TrimSpace(t.ShortDescription)
	t.Description = strings.TrimSpace(t.Description)
	t.Category = strings.TrimSpace(t.Category)
	t.Subcategory = strings.TrimSpace(t.Subcategory)
	t.Status = strings.TrimSpace(t.Status)
	t.Priority = strings.TrimSpace(t.Priority)
	t.Impact = strings.TrimSpace(t.Impact)
	t.Urgency = strings.TrimSpace(t.Urgency)
	t.AssignedTo = strings.TrimSpace(t.AssignedTo)
	t.AssignmentGroup = strings.TrimSpace(t.AssignmentGroup)
	t.Company = strings.TrimSpace(t.Company)
	t.Location = strings.TrimSpace(t.Location)
	for i, tag := range t.Tags {
		t.Tags[i] = strings.TrimSpace(tag)
	}
}

// FieldValue returns the value of one of the canonical similarity fields.
// Unknown names return "".
func (t *Ticket) FieldValue(name string) string {
	switch name {
	case FieldShortDescription:
		return t.ShortDescription
	case FieldDescription:
		return t.Description
	case FieldCategory:
		return t.Category
	case FieldSource:
		return t.Source
	default:
		return ""
	}
}
