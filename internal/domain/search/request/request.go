// Package request defines the validated search request model.
package request

import (
	"fmt"
	"unicode/utf8"

	"github.com/roboatlas/searchd/internal/domain"
)

// Request limits.
const (
	MaxQueryLength = 600
	DefaultLimit   = 60
	MaxLimit       = 200
)

// ItemType restricts results to one catalog kind.
type ItemType string

// Item type filters.
const (
	ItemTypeAll      ItemType = "all"
	ItemTypeScenes   ItemType = "scenes"
	ItemTypeTraining ItemType = "training"
)

// IsValid checks the item type value.
func (t ItemType) IsValid() bool {
	return t == ItemTypeAll || t == ItemTypeScenes || t == ItemTypeTraining
}

// Sort is a post-ranking result ordering.
type Sort string

// Sort orders. SortSceneDesc orders by a normalized volume proxy:
// training datasets by episode count / 1000, scenes as constant 1.
const (
	SortRelevance Sort = "relevance"
	SortNewest    Sort = "newest"
	SortPriceAsc  Sort = "price-asc"
	SortPriceDesc Sort = "price-desc"
	SortSceneDesc Sort = "scene-desc"
)

// IsValid checks the sort value.
func (s Sort) IsValid() bool {
	switch s {
	case SortRelevance, SortNewest, SortPriceAsc, SortPriceDesc, SortSceneDesc:
		return true
	}
	return false
}

// Filters are the caller-supplied exact filters. A set locationType or
// policySlug always overrides the parser's detected value for the same
// concern.
type Filters struct {
	ItemType     ItemType `json:"itemType,omitempty"`
	LocationType string   `json:"locationType,omitempty"`
	PolicySlug   string   `json:"policySlug,omitempty"`
	ObjectTags   []string `json:"objectTags,omitempty"`
	Sort         Sort     `json:"sort,omitempty"`
	Page         int      `json:"page,omitempty"`
}

// Request is a validated search request.
type Request struct {
	Query            string
	Limit            int
	Filters          Filters
	IgnoreParsedKeys []string
}

// New validates and normalizes search parameters, collecting every field
// failure before returning. Defaults: limit=60, itemType=all.
func New(query string, limit *int, filters Filters, ignoreParsedKeys []string) (Request, error) {
	var fields []domain.FieldError

	if query == "" {
		fields = append(fields, domain.FieldError{Field: "q", Message: "query is required"})
	}
	if utf8.RuneCountInString(query) > MaxQueryLength {
		fields = append(fields, domain.FieldError{
			Field:   "q",
			Message: fmt.Sprintf("query too long (max %d chars)", MaxQueryLength),
		})
	}

	lim := DefaultLimit
	if limit != nil {
		lim = *limit
		if lim < 1 || lim > MaxLimit {
			fields = append(fields, domain.FieldError{
				Field:   "limit",
				Message: fmt.Sprintf("limit must be between 1 and %d", MaxLimit),
			})
		}
	}

	if filters.ItemType == "" {
		filters.ItemType = ItemTypeAll
	}
	if !filters.ItemType.IsValid() {
		fields = append(fields, domain.FieldError{
			Field:   "manualFilters.itemType",
			Message: fmt.Sprintf("unknown item type %q", filters.ItemType),
		})
	}
	if filters.Sort != "" && !filters.Sort.IsValid() {
		fields = append(fields, domain.FieldError{
			Field:   "manualFilters.sort",
			Message: fmt.Sprintf("unknown sort %q", filters.Sort),
		})
	}
	if filters.Page < 0 {
		fields = append(fields, domain.FieldError{
			Field:   "manualFilters.page",
			Message: "page must not be negative",
		})
	}

	if len(fields) > 0 {
		return Request{}, domain.NewValidationError(fields)
	}

	return Request{
		Query:            query,
		Limit:            lim,
		Filters:          filters,
		IgnoreParsedKeys: ignoreParsedKeys,
	}, nil
}

// DefaultSort resolves the sort order when the caller left it unset:
// relevance for real queries, newest for short/empty browse queries.
func (r Request) DefaultSort() Sort {
	if r.Filters.Sort != "" {
		return r.Filters.Sort
	}
	if utf8.RuneCountInString(r.Query) >= 4 {
		return SortRelevance
	}
	return SortNewest
}
