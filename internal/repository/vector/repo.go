// Package vector adapts the optional Redis vector index into search
// candidates. Unavailability is an expected deployment state, not an
// error: callers receive ok=false and fall back to the static index.
package vector

import (
	"context"
	"encoding/binary"
	"math"

	"go.uber.org/zap"

	"github.com/roboatlas/searchd/internal/db"
	"github.com/roboatlas/searchd/internal/domain/catalog"
	"github.com/roboatlas/searchd/internal/domain/search/candidate"
)

// KNN sizing: retrieve a generous multiple of the requested limit so
// post-retrieval filtering still has material to work with.
const (
	knnMultiplier = 5
	knnMin        = 1
	knnMax        = 250
)

// Stored hash fields on each indexed document.
const (
	fieldSlug   = "slug"
	fieldDoc    = "doc"
	fieldVector = "vector"
)

// Repo queries the vector-capable document store.
type Repo struct {
	store   db.VectorSearcher
	catalog *catalog.Catalog
	index   string
	logger  *zap.Logger
}

// New creates a vector repository. store may be nil when no document
// store is configured in this deployment.
func New(store db.VectorSearcher, cat *catalog.Catalog, indexName string, logger *zap.Logger) *Repo {
	return &Repo{store: store, catalog: cat, index: indexName, logger: logger}
}

// Query runs a KNN search for the query vector. ok=false means the
// backend did not serve the request: store absent, vector capability
// absent, or a transient failure (logged, never propagated).
func (r *Repo) Query(ctx context.Context, vec []float32, limit int) ([]candidate.Candidate, bool) {
	if r.store == nil || len(vec) == 0 {
		return nil, false
	}
	if !r.store.SupportsVectorSearch(ctx) {
		return nil, false
	}

	k := knnMultiplier * limit
	if k < knnMin {
		k = knnMin
	}
	if k > knnMax {
		k = knnMax
	}

	sr, err := r.store.SearchKNN(ctx, &db.KNNQuery{
		IndexName:    r.index,
		Vector:       vec,
		K:            k,
		ReturnFields: []string{fieldSlug, fieldDoc, fieldVector},
	})
	if err != nil {
		r.logger.Warn("vector backend query failed; falling back to static index",
			zap.String("index", r.index), zap.Error(err))
		return nil, false
	}

	cands := make([]candidate.Candidate, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		c, ok := r.reconstruct(e)
		if !ok {
			continue
		}
		cands = append(cands, c)
	}
	return cands, true
}

// reconstruct rebuilds a candidate from a stored document. Entries whose
// slug no longer exists in the catalog are stale and dropped. A blank
// stored document is recomputed from the catalog item.
func (r *Repo) reconstruct(e db.SearchEntry) (candidate.Candidate, bool) {
	slug := e.Fields[fieldSlug]
	it, ok := r.catalog.Item(slug)
	if !ok {
		r.logger.Debug("stale vector index entry", zap.String("key", e.Key))
		return candidate.Candidate{}, false
	}

	doc := e.Fields[fieldDoc]
	if doc == "" {
		doc = r.catalog.SearchDocument(it)
	}

	dist := e.Distance
	return candidate.Candidate{
		Kind:      it.Kind,
		Item:      it,
		Doc:       doc,
		Embedding: bytesToVector(e.Fields[fieldVector]),
		Distance:  &dist,
	}, true
}

// bytesToVector deserializes a little-endian float32 blob.
func bytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b) == 0 || len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
