package search

import (
	"context"

	"github.com/roboatlas/searchd/internal/domain/search/candidate"
	"github.com/roboatlas/searchd/internal/usecase/index"
)

// Embedder resolves the query embedding. Implementations never fail: an
// empty vector means embeddings are unavailable.
type Embedder interface {
	EmbedText(ctx context.Context, text string) []float32
	Model() string
	Configured() bool
}

// VectorBackend retrieves candidates from the external vector store.
// ok=false means the backend did not serve the request and the caller
// must fall back to the static index.
type VectorBackend interface {
	Query(ctx context.Context, vec []float32, limit int) ([]candidate.Candidate, bool)
}

// StaticIndex provides the lazily-built in-process candidate set.
type StaticIndex interface {
	Ensure(ctx context.Context) (*index.Snapshot, error)
}
