package match

import (
	"math"
	"testing"

	"github.com/atlasdesk/ticketmatch/internal/domain"
)

func TestJaccard(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "vpn connection drops", "vpn connection drops", 1.0},
		{"disjoint", "printer jam", "database timeout", 0.0},
		{"partial overlap", "vpn drops daily", "vpn drops", 2.0 / 3.0},
		{"case insensitive", "VPN Drops", "vpn drops", 1.0},
		{"duplicate tokens collapse", "error error error", "error", 1.0},
		{"left empty", "", "vpn drops", 0.0},
		{"right empty", "vpn drops", "", 0.0},
		{"both empty", "", "", 0.0},
		{"whitespace only", "   ", "vpn", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := jaccard(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("jaccard(%q, %q) = %g, want %g", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestExact(t *testing.T) {
	if got := exact("Network", "Network"); got != 1.0 {
		t.Errorf("equal strings = %g, want 1.0", got)
	}
	if got := exact("Network", "network"); got != 0.0 {
		t.Errorf("case mismatch = %g, want 0.0", got)
	}
	if got := exact("", ""); got != 1.0 {
		t.Errorf("both empty = %g, want 1.0", got)
	}
}

func TestFieldSimilarities_AllFieldsPresent(t *testing.T) {
	query := &domain.Ticket{
		ShortDescription: "vpn drops daily",
		Description:      "connection lost every morning",
		Category:         "Network",
		Source:           "email",
	}
	candidate := &domain.Ticket{
		ShortDescription: "vpn drops",
		Description:      "connection lost every morning",
		Category:         "Network",
		Source:           "portal",
	}

	sims := FieldSimilarities(query, candidate)

	if len(sims) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(sims))
	}
	if math.Abs(sims[domain.FieldShortDescription]-2.0/3.0) > 1e-9 {
		t.Errorf("short_description = %g, want 2/3", sims[domain.FieldShortDescription])
	}
	if sims[domain.FieldDescription] != 1.0 {
		t.Errorf("description = %g, want 1.0", sims[domain.FieldDescription])
	}
	if sims[domain.FieldCategory] != 1.0 {
		t.Errorf("category = %g, want 1.0", sims[domain.FieldCategory])
	}
	if sims[domain.FieldSource] != 0.0 {
		t.Errorf("source = %g, want 0.0", sims[domain.FieldSource])
	}
}
