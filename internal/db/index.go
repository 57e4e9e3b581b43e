package db

import "errors"

// DistanceMetric used by FT.SEARCH vector similarity queries.
type DistanceMetric string

const (
	// DistanceL2 is Euclidean distance.
	DistanceL2 DistanceMetric = "L2"
	// DistanceIP is inner product distance.
	DistanceIP DistanceMetric = "IP"
	// DistanceCosine is cosine distance.
	DistanceCosine DistanceMetric = "COSINE"
)

// VectorAlgorithm selects the indexing algorithm for the vector field in FT.CREATE.
type VectorAlgorithm string

const (
	// VectorHNSW uses the HNSW algorithm.
	VectorHNSW VectorAlgorithm = "HNSW"
	// VectorFlat uses the FLAT (brute-force) algorithm.
	VectorFlat VectorAlgorithm = "FLAT"
)

// IndexDefinition describes a ticket collection index: one HNSW/FLAT vector
// field plus TAG fields for the categorical payload attributes. The vector
// store is used as an opaque nearest-neighbor oracle, so the definition
// carries only what FT.CREATE needs.
type IndexDefinition struct {
	Name        string
	Prefixes    []string
	VectorField string
	VectorDim   int
	Distance    DistanceMetric
	Algorithm   VectorAlgorithm
	HNSWM       int // max edges per node (default 16)
	HNSWEFConst int // build-time dynamic list size (default 200)
	TagFields   []string
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if idx.VectorField == "" {
		return errors.New("vector field name is required")
	}
	if idx.VectorDim <= 0 {
		return errors.New("vector field requires positive DIM")
	}
	seen := map[string]bool{idx.VectorField: true}
	for _, f := range idx.TagFields {
		if f == "" {
			return errors.New("tag field name is required")
		}
		if seen[f] {
			return errors.New("duplicate field name: " + f)
		}
		seen[f] = true
	}
	return nil
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
