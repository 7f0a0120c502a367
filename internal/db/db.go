// Package db defines the storage contracts for the optional vector-capable
// document store. Consumers depend on the narrow sub-interfaces.
package db

import (
	"context"
	"time"
)

// Store is the database facade.
type Store interface {
	Pinger
	VectorSearcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// VectorSearcher provides KNN search over an FT index. SupportsVectorSearch
// is a runtime capability probe: a store that is reachable but lacks the
// search module reports false, which callers treat as "not available in
// this deployment" rather than an error.
type VectorSearcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SupportsVectorSearch(ctx context.Context) bool
}

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

// SearchEntry is a single document hit. Distance is the raw cosine
// distance reported by the index.
type SearchEntry struct {
	Key      string
	Distance float64
	Fields   map[string]string
}
