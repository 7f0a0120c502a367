package index

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/roboatlas/searchd/internal/domain/catalog"
)

type countingEmbedder struct {
	calls  atomic.Int64
	vector []float32
}

func (e *countingEmbedder) EmbedTexts(_ context.Context, texts []string) [][]float32 {
	e.calls.Add(1)
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = e.vector
	}
	return out
}

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]*catalog.Scene{{
			Slug:         "scene-1",
			Title:        "Scene One",
			Description:  "First scene.",
			LocationType: "Kitchens",
		}},
		[]*catalog.TrainingDataset{{
			Slug:         "ds-1",
			Title:        "Dataset One",
			Description:  "First dataset.",
			LocationType: "Labs",
			EpisodeCount: 100,
			QualityScore: 0.8,
		}},
		nil,
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func TestEnsure_BuildsOnce(t *testing.T) {
	emb := &countingEmbedder{vector: []float32{0.1, 0.2}}
	b := New(testCatalog(t), emb, zap.NewNop())

	first, err := b.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	second, err := b.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	if first != second {
		t.Error("expected the same memoized snapshot")
	}
	if n := emb.calls.Load(); n != 1 {
		t.Errorf("embedder called %d times, want 1", n)
	}
}

func TestEnsure_ConcurrentCallersShareOneBuild(t *testing.T) {
	emb := &countingEmbedder{vector: []float32{0.1}}
	b := New(testCatalog(t), emb, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := b.Ensure(context.Background()); err != nil {
				t.Errorf("Ensure: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := emb.calls.Load(); n != 1 {
		t.Errorf("embedder called %d times, want 1", n)
	}
}

func TestEnsure_SnapshotContents(t *testing.T) {
	emb := &countingEmbedder{vector: []float32{0.1, 0.2}}
	b := New(testCatalog(t), emb, zap.NewNop())

	snap, err := b.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	if len(snap.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(snap.Candidates))
	}
	if !snap.UsedEmbeddings {
		t.Error("expected UsedEmbeddings with a working embedder")
	}
	if len(snap.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", snap.Warnings)
	}

	// Scenes first, then datasets, matching catalog enumeration.
	if snap.Candidates[0].Kind != catalog.KindScene {
		t.Errorf("first candidate kind = %s, want scene", snap.Candidates[0].Kind)
	}
	if snap.Candidates[0].Doc == "" {
		t.Error("candidate missing search document")
	}
	if len(snap.Candidates[1].Embedding) != 2 {
		t.Errorf("candidate missing embedding: %v", snap.Candidates[1].Embedding)
	}
}

func TestEnsure_EmptyVectorsWarn(t *testing.T) {
	emb := &countingEmbedder{vector: nil}
	b := New(testCatalog(t), emb, zap.NewNop())

	snap, err := b.Ensure(context.Background())
	if err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	if snap.UsedEmbeddings {
		t.Error("empty vectors should not count as embeddings")
	}
	if len(snap.Warnings) != 1 || !strings.Contains(snap.Warnings[0], "lexical ranking only") {
		t.Errorf("expected lexical-only warning, got %v", snap.Warnings)
	}
	for _, c := range snap.Candidates {
		if len(c.Embedding) != 0 {
			t.Errorf("candidate %s should have no embedding", c.Item.Slug())
		}
	}
}

func TestReset(t *testing.T) {
	emb := &countingEmbedder{vector: []float32{0.1}}
	b := New(testCatalog(t), emb, zap.NewNop())

	if _, err := b.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
	b.Reset()
	if _, err := b.Ensure(context.Background()); err != nil {
		t.Fatalf("Ensure: %v", err)
	}

	if n := emb.calls.Load(); n != 2 {
		t.Errorf("embedder called %d times after reset, want 2", n)
	}
}
