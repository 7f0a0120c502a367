// Package candidate defines the unit of retrieval shared by the vector
// backend and the static in-memory index.
package candidate

import "github.com/roboatlas/searchd/internal/domain/catalog"

// Candidate is an item under consideration for one search request: the
// item itself, its derived search document text, and an optional
// embedding. Embedding is nil only when the embedding provider was
// unreachable when the candidate was materialized.
type Candidate struct {
	Kind      catalog.Kind
	Item      catalog.Item
	Doc       string
	Embedding []float32

	// Distance is the raw cosine distance reported by the vector backend,
	// nil for candidates served from the static index.
	Distance *float64
}
