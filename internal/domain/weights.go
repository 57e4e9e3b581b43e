package domain

import "fmt"

// FieldWeights scales the contribution of each canonical field to both the
// weighted text encoding and the fused confidence score. Weights are
// independent scalars in [0,1]; they conventionally sum to ~1 for
// interpretability but are not required to.
//
// The set of weighted fields is closed and the iteration order fixed, so the
// encoded text is deterministic for a given ticket and weight set.
type FieldWeights struct {
	ShortDescription float64 `yaml:"short_description"`
	Description      float64 `yaml:"description"`
	Category         float64 `yaml:"category"`
	Source           float64 `yaml:"source"`
}

// FieldWeight pairs a canonical field name with its weight.
type FieldWeight struct {
	Field  string
	Weight float64
}

// DefaultFieldWeights returns the standard 35/35/20/10 split.
func DefaultFieldWeights() FieldWeights {
	return FieldWeights{
		ShortDescription: 0.35,
		Description:      0.35,
		Category:         0.20,
		Source:           0.10,
	}
}

// Items returns the weights in canonical order.
func (w FieldWeights) Items() []FieldWeight {
	return []FieldWeight{
		{Field: FieldShortDescription, Weight: w.ShortDescription},
		{Field: FieldDescription, Weight: w.Description},
		{Field: FieldCategory, Weight: w.Category},
		{Field: FieldSource, Weight: w.Source},
	}
}

// Of returns the weight configured for a canonical field, 0 for unknown names.
func (w FieldWeights) Of(field string) float64 {
	switch field {
	case FieldShortDescription:
		return w.ShortDescription
	case FieldDescription:
		return w.Description
	case FieldCategory:
		return w.Category
	case FieldSource:
		return w.Source
	default:
		return 0
	}
}

// Validate checks that every weight is within [0,1].
func (w FieldWeights) Validate() error {
	for _, it := range w.Items() {
		if it.Weight < 0 || it.Weight > 1 {
			return fmt.Errorf("field weight %s must be between 0 and 1, got %g", it.Field, it.Weight)
		}
	}
	return nil
}

// IsZero reports whether no weight is set (unconfigured).
func (w FieldWeights) IsZero() bool {
	return w.ShortDescription == 0 && w.Description == 0 && w.Category == 0 && w.Source == 0
}
