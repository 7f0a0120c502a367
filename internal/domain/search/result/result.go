// Package result defines the ranked search hit returned to callers.
package result

import "github.com/roboatlas/searchd/internal/domain/catalog"

// MaxReasons caps how many match reasons a single result carries.
const MaxReasons = 6

// Result is a single ranked search hit.
type Result struct {
	Type catalog.Kind `json:"type"`
	Item catalog.Item `json:"item"`
	// Score is clamped to [0, 1.5]; see the ranking engine.
	Score float64 `json:"score"`
	// Distance is the raw vector-backend cosine distance, when that
	// backend served the request.
	Distance *float64 `json:"distance,omitempty"`
	Reasons  []string `json:"reasons"`
}
