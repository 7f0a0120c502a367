package request

import (
	"errors"
	"strings"
	"testing"

	"github.com/roboatlas/searchd/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestNew_Defaults(t *testing.T) {
	req, err := New("kitchen scenes", nil, Filters{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req.Limit != DefaultLimit {
		t.Errorf("Limit = %d, want %d", req.Limit, DefaultLimit)
	}
	if req.Filters.ItemType != ItemTypeAll {
		t.Errorf("ItemType = %q, want %q", req.Filters.ItemType, ItemTypeAll)
	}
}

func TestNew_EmptyQuery(t *testing.T) {
	_, err := New("", nil, Filters{}, nil)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("error should wrap ErrInvalidRequest: %v", err)
	}
}

func TestNew_CollectsAllFieldErrors(t *testing.T) {
	_, err := New(
		strings.Repeat("x", MaxQueryLength+1),
		intPtr(0),
		Filters{ItemType: "bogus", Sort: "bogus", Page: -1},
		nil,
	)
	if err == nil {
		t.Fatal("expected validation error")
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *domain.ValidationError, got %T", err)
	}

	fields := make(map[string]bool)
	for _, fe := range verr.Fields {
		fields[fe.Field] = true
	}
	for _, want := range []string{"q", "limit", "manualFilters.itemType", "manualFilters.sort", "manualFilters.page"} {
		if !fields[want] {
			t.Errorf("missing field error for %s; got %v", want, verr.Fields)
		}
	}
}

func TestNew_LimitBounds(t *testing.T) {
	if _, err := New("query", intPtr(MaxLimit), Filters{}, nil); err != nil {
		t.Errorf("limit %d should be accepted: %v", MaxLimit, err)
	}
	if _, err := New("query", intPtr(MaxLimit+1), Filters{}, nil); err == nil {
		t.Errorf("limit %d should be rejected", MaxLimit+1)
	}
	if _, err := New("query", intPtr(1), Filters{}, nil); err != nil {
		t.Errorf("limit 1 should be accepted: %v", err)
	}
}

func TestNew_QueryLengthCountsRunes(t *testing.T) {
	// 600 three-byte runes: over the limit in bytes, exactly at it in runes.
	q := strings.Repeat("厨", MaxQueryLength)
	if _, err := New(q, nil, Filters{}, nil); err != nil {
		t.Errorf("%d-rune query should be accepted: %v", MaxQueryLength, err)
	}
	if _, err := New(q+"房", nil, Filters{}, nil); err == nil {
		t.Errorf("%d-rune query should be rejected", MaxQueryLength+1)
	}
}

func TestDefaultSort(t *testing.T) {
	tests := []struct {
		name  string
		query string
		sort  Sort
		want  Sort
	}{
		{"explicit sort wins", "kitchen scenes", SortPriceAsc, SortPriceAsc},
		{"real query defaults to relevance", "kitchen", "", SortRelevance},
		{"short query defaults to newest", "mug", "", SortNewest},
		{"four chars is a real query", "mugs", "", SortRelevance},
		{"three multibyte runes stay newest", "食器棚", "", SortNewest},
		{"four multibyte runes are a real query", "食器棚を", "", SortRelevance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Request{Query: tt.query, Filters: Filters{Sort: tt.sort}}
			if got := r.DefaultSort(); got != tt.want {
				t.Errorf("DefaultSort() = %q, want %q", got, tt.want)
			}
		})
	}
}
