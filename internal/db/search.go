package db

// VectorScoreField is the FT.SEARCH pseudo-field carrying the KNN distance
// for a vector field named "vector". Callers add it to ReturnFields; the
// driver converts it into SearchEntry.Score.
const VectorScoreField = "__vector_score"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Vector       []float32
	K            int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
