package vector

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"go.uber.org/zap"

	"github.com/roboatlas/searchd/internal/db"
	"github.com/roboatlas/searchd/internal/domain/catalog"
)

type mockSearcher struct {
	supports bool
	result   *db.SearchResult
	err      error

	lastQuery *db.KNNQuery
}

func (m *mockSearcher) SearchKNN(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	m.lastQuery = q
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func (m *mockSearcher) SupportsVectorSearch(context.Context) bool { return m.supports }

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New(
		[]*catalog.Scene{{
			Slug:         "kitchen-scene",
			Title:        "Apartment Kitchen",
			Description:  "A kitchen scene.",
			LocationType: "Kitchens",
		}},
		nil, nil,
	)
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return cat
}

func vectorBlob(v []float32) string {
	b := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(b[i*4:], math.Float32bits(f))
	}
	return string(b)
}

func TestQuery_NilStore(t *testing.T) {
	r := New(nil, testCatalog(t), "idx", zap.NewNop())
	if _, ok := r.Query(context.Background(), []float32{0.1}, 10); ok {
		t.Error("nil store must report ok=false")
	}
}

func TestQuery_EmptyVector(t *testing.T) {
	r := New(&mockSearcher{supports: true}, testCatalog(t), "idx", zap.NewNop())
	if _, ok := r.Query(context.Background(), nil, 10); ok {
		t.Error("empty vector must report ok=false")
	}
}

func TestQuery_CapabilityAbsent(t *testing.T) {
	r := New(&mockSearcher{supports: false}, testCatalog(t), "idx", zap.NewNop())
	if _, ok := r.Query(context.Background(), []float32{0.1}, 10); ok {
		t.Error("missing vector capability must report ok=false")
	}
}

func TestQuery_SearchErrorSwallowed(t *testing.T) {
	m := &mockSearcher{supports: true, err: errors.New("timeout")}
	r := New(m, testCatalog(t), "idx", zap.NewNop())
	if _, ok := r.Query(context.Background(), []float32{0.1}, 10); ok {
		t.Error("backend failure must report ok=false, not an error")
	}
}

func TestQuery_ReconstructsCandidates(t *testing.T) {
	emb := []float32{0.25, -1.5}
	m := &mockSearcher{
		supports: true,
		result: &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{
					Key:      "searchd:catalog:kitchen-scene",
					Distance: 0.12,
					Fields: map[string]string{
						"slug":   "kitchen-scene",
						"doc":    "stored doc text",
						"vector": vectorBlob(emb),
					},
				},
				{
					Key:      "searchd:catalog:removed-item",
					Distance: 0.4,
					Fields:   map[string]string{"slug": "removed-item"},
				},
			},
		},
	}
	r := New(m, testCatalog(t), "idx", zap.NewNop())

	cands, ok := r.Query(context.Background(), []float32{0.1, 0.2}, 10)
	if !ok {
		t.Fatal("expected ok=true")
	}
	// The stale entry is dropped silently.
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}

	c := cands[0]
	if c.Item.Slug() != "kitchen-scene" {
		t.Errorf("slug = %q", c.Item.Slug())
	}
	if c.Doc != "stored doc text" {
		t.Errorf("doc = %q", c.Doc)
	}
	if c.Distance == nil || *c.Distance != 0.12 {
		t.Errorf("distance not propagated: %v", c.Distance)
	}
	if len(c.Embedding) != 2 || c.Embedding[0] != 0.25 || c.Embedding[1] != -1.5 {
		t.Errorf("embedding = %v, want %v", c.Embedding, emb)
	}
}

func TestQuery_BlankDocRecomputed(t *testing.T) {
	m := &mockSearcher{
		supports: true,
		result: &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{{
				Key:    "k",
				Fields: map[string]string{"slug": "kitchen-scene"},
			}},
		},
	}
	cat := testCatalog(t)
	r := New(m, cat, "idx", zap.NewNop())

	cands, ok := r.Query(context.Background(), []float32{0.1}, 10)
	if !ok || len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d (ok=%v)", len(cands), ok)
	}

	it, _ := cat.Item("kitchen-scene")
	if cands[0].Doc != cat.SearchDocument(it) {
		t.Errorf("blank stored doc should be recomputed, got %q", cands[0].Doc)
	}
}

func TestQuery_KNNSizing(t *testing.T) {
	m := &mockSearcher{supports: true, result: &db.SearchResult{}}
	r := New(m, testCatalog(t), "idx", zap.NewNop())

	if _, ok := r.Query(context.Background(), []float32{0.1}, 10); !ok {
		t.Fatal("expected ok=true")
	}
	if m.lastQuery.K != 50 {
		t.Errorf("K = %d, want 50", m.lastQuery.K)
	}

	r.Query(context.Background(), []float32{0.1}, 200)
	if m.lastQuery.K != 250 {
		t.Errorf("K = %d, want cap 250", m.lastQuery.K)
	}

	if m.lastQuery.IndexName != "idx" {
		t.Errorf("index = %q", m.lastQuery.IndexName)
	}
}

func TestBytesToVector(t *testing.T) {
	if v := bytesToVector(""); v != nil {
		t.Errorf("empty blob should yield nil, got %v", v)
	}
	if v := bytesToVector("abc"); v != nil {
		t.Errorf("misaligned blob should yield nil, got %v", v)
	}

	in := []float32{1.5, -2.25, 0}
	out := bytesToVector(vectorBlob(in))
	if len(out) != len(in) {
		t.Fatalf("length = %d, want %d", len(out), len(in))
	}
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("out[%d] = %f, want %f", i, out[i], in[i])
		}
	}
}
