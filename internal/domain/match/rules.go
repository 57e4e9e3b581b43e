package match

import "github.com/atlasdesk/ticketmatch/internal/domain"

// Rules are optional caller-supplied allow-lists applied after scoring.
// Each non-empty list restricts the corresponding candidate field; the
// filters combine conjunctively.
type Rules struct {
	Sources    []string
	Categories []string
	Statuses   []string
}

// IsEmpty reports whether no allow-list is configured.
func (r Rules) IsEmpty() bool {
	return len(r.Sources) == 0 && len(r.Categories) == 0 && len(r.Statuses) == 0
}

// Allows reports whether the candidate passes every configured allow-list.
func (r Rules) Allows(t *domain.Ticket) bool {
	if !allowed(r.Sources, t.Source) {
		return false
	}
	if !allowed(r.Categories, t.Category) {
		return false
	}
	return allowed(r.Statuses, t.Status)
}

// allowed treats an empty list as "no restriction".
func allowed(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
