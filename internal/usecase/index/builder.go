// Package index builds and memoizes the static in-process candidate set
// used when the vector backend is unavailable. The build runs at most once
// per process; concurrent first callers share one in-flight build so the
// embedding provider sees a single batch call.
package index

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/roboatlas/searchd/internal/domain/catalog"
	"github.com/roboatlas/searchd/internal/domain/search/candidate"
	"github.com/roboatlas/searchd/internal/metrics"
)

// Embedder batch-embeds documents; empty vectors signal absence.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) [][]float32
}

// Snapshot is the immutable result of one index build.
type Snapshot struct {
	Candidates     []candidate.Candidate
	UsedEmbeddings bool
	Warnings       []string
}

// Builder owns the process-wide static index lifecycle: build once,
// reset only from tests.
type Builder struct {
	catalog *catalog.Catalog
	embed   Embedder
	logger  *zap.Logger

	mu    sync.Mutex
	snap  *Snapshot
	group singleflight.Group
}

// New creates a Builder. The snapshot is built lazily on first Ensure.
func New(cat *catalog.Catalog, embed Embedder, logger *zap.Logger) *Builder {
	return &Builder{catalog: cat, embed: embed, logger: logger}
}

// Ensure returns the memoized snapshot, building it on first use.
// Concurrent callers await the same in-flight build.
func (b *Builder) Ensure(ctx context.Context) (*Snapshot, error) {
	b.mu.Lock()
	if b.snap != nil {
		snap := b.snap
		b.mu.Unlock()
		return snap, nil
	}
	b.mu.Unlock()

	v, err, _ := b.group.Do("static-index", func() (any, error) {
		b.mu.Lock()
		if b.snap != nil {
			snap := b.snap
			b.mu.Unlock()
			return snap, nil
		}
		b.mu.Unlock()

		snap := b.build(ctx)

		b.mu.Lock()
		b.snap = snap
		b.mu.Unlock()
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Snapshot), nil
}

// Reset clears the memoized snapshot. Test isolation only; the catalog is
// static, so production never invalidates.
func (b *Builder) Reset() {
	b.mu.Lock()
	b.snap = nil
	b.mu.Unlock()
}

func (b *Builder) build(ctx context.Context) *Snapshot {
	items := b.catalog.Items()

	cands := make([]candidate.Candidate, len(items))
	docs := make([]string, len(items))
	for i, it := range items {
		doc := b.catalog.SearchDocument(it)
		cands[i] = candidate.Candidate{Kind: it.Kind, Item: it, Doc: doc}
		docs[i] = doc
	}

	// One batch call for the entire catalog. The embedding client
	// guarantees len(vecs) == len(docs); empty vectors mean absence.
	vecs := b.embed.EmbedTexts(ctx, docs)
	used := false
	if len(vecs) == len(cands) {
		for i, v := range vecs {
			if len(v) == 0 {
				continue
			}
			cands[i].Embedding = v
			used = true
		}
	}

	snap := &Snapshot{Candidates: cands, UsedEmbeddings: used}
	if !used {
		snap.Warnings = append(snap.Warnings,
			"static index built without embeddings; lexical ranking only")
	}

	metrics.StaticIndexBuildsTotal.Inc()
	b.logger.Info("static candidate index built",
		zap.Int("candidates", len(cands)),
		zap.Bool("embeddings", used),
	)
	return snap
}
