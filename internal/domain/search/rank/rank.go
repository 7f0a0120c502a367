// Package rank scores and orders candidates against a query. Ranking is
// deterministic: identical inputs produce bit-identical scores and order.
package rank

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/roboatlas/searchd/internal/domain/catalog"
	"github.com/roboatlas/searchd/internal/domain/search/candidate"
	"github.com/roboatlas/searchd/internal/domain/search/parse"
	"github.com/roboatlas/searchd/internal/domain/search/request"
	"github.com/roboatlas/searchd/internal/domain/search/result"
	"github.com/roboatlas/searchd/internal/domain/search/text"
)

// Score blend weights. Semantic similarity dominates when an embedding is
// available; otherwise ranking degrades to pure lexical overlap.
const (
	semanticWeight = 0.8
	lexicalWeight  = 0.2
	maxScore       = 1.5
)

// Boost increments, applied additively after the base blend.
const (
	boostLocationMatch = 0.05
	boostPolicyMatch   = 0.05
	boostQualityMatch  = 0.05
	boostTabletopLab   = 0.04
	boostSoftOverlap   = 0.03
	boostObjectTags    = 0.02
)

// Input carries everything ranking depends on. Filters are the merged
// manual/parsed exact filters; Hard carries the numeric eligibility
// constraints that filtering already enforced.
type Input struct {
	QueryText      string
	QueryEmbedding []float32
	Filters        request.Filters
	Hard           parse.Hard
	Soft           parse.Soft
}

// Scored is a candidate with its final score and match reasons.
type Scored struct {
	candidate.Candidate
	Score   float64
	Reasons []string
}

// Rank scores every candidate and returns them sorted by descending score.
// Ties keep the original candidate order.
func Rank(in Input, cands []candidate.Candidate) []Scored {
	queryTokens := text.Tokenize(in.QueryText)

	scored := make([]Scored, len(cands))
	for i, c := range cands {
		score, reasons := scoreCandidate(in, queryTokens, c)
		scored[i] = Scored{Candidate: c, Score: score, Reasons: reasons}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

func scoreCandidate(in Input, queryTokens []string, c candidate.Candidate) (float64, []string) {
	lexical := jaccard(queryTokens, text.Tokenize(c.Doc))

	score := lexical
	if sem, ok := semantic(in.QueryEmbedding, c.Embedding); ok {
		score = semanticWeight*sem + lexicalWeight*lexical
	}

	var reasons []string
	addReason := func(s string) {
		if len(reasons) < result.MaxReasons {
			reasons = append(reasons, s)
		}
	}

	if in.Filters.LocationType != "" && c.Item.LocationType() == in.Filters.LocationType {
		score += boostLocationMatch
		addReason("Matches location " + in.Filters.LocationType)
	}

	if in.Filters.PolicySlug != "" && containsString(c.Item.PolicySlugs(), in.Filters.PolicySlug) {
		score += boostPolicyMatch
		addReason("Supports policy " + in.Filters.PolicySlug)
	}

	// Filtering already excluded datasets below the threshold; the reason
	// states the comparison regardless of whether it numerically passes.
	if q, ok := c.Item.QualityScore(); ok && in.Hard.MinQualityScore != nil {
		score += boostQualityMatch
		addReason(fmt.Sprintf("Quality score %.2f vs. requested %.2f", q, *in.Hard.MinQualityScore))
	}

	if in.Soft.Tabletop && c.Item.LocationType() == "Labs" {
		score += boostTabletopLab
		addReason("Tabletop setup in a lab environment")
	}

	if match, ok := firstSoftOverlap(in.Soft, c); ok {
		score += boostSoftOverlap
		addReason("Mentions " + match)
	}

	if matched := objectTagOverlap(in.Soft.ObjectTags, c.Item.ObjectTags()); len(matched) > 0 {
		score += boostObjectTags
		if len(matched) > 3 {
			matched = matched[:3]
		}
		addReason("Contains " + strings.Join(matched, ", "))
	}

	return clampScore(score), reasons
}

// semantic maps cosine similarity into [0,1]. Reports ok=false when either
// vector is missing or the lengths differ; absence is tracked rather than
// scored as zero so the blend stays correct.
func semantic(query, cand []float32) (float64, bool) {
	if len(query) == 0 || len(cand) == 0 || len(query) != len(cand) {
		return 0, false
	}
	cos, ok := cosine(query, cand)
	if !ok {
		return 0, false
	}
	return (1 + cos) / 2, true
}

func cosine(a, b []float32) (float64, bool) {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0, false
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb)), true
}

// jaccard computes set overlap between two token lists. Zero when either
// set is empty.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	setA := make(map[string]bool, len(a))
	for _, t := range a {
		setA[t] = true
	}
	setB := make(map[string]bool, len(b))
	for _, t := range b {
		setB[t] = true
	}
	inter := 0
	for t := range setA {
		if setB[t] {
			inter++
		}
	}
	union := len(setA) + len(setB) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// firstSoftOverlap finds the first overlap between the query's soft
// policy/robot/model signals and the candidate, in that fixed order.
func firstSoftOverlap(soft parse.Soft, c candidate.Candidate) (string, bool) {
	for _, slug := range soft.PolicySlugs {
		if containsString(c.Item.PolicySlugs(), slug) {
			return slug, true
		}
	}
	if c.Kind == catalog.KindTrainingDataset {
		for _, rm := range soft.RobotModels {
			if containsFold(c.Item.Dataset.RobotModels, rm) {
				return rm, true
			}
		}
		for _, cw := range soft.CompatibleWith {
			if containsFold(c.Item.Dataset.CompatibleWith, cw) {
				return cw, true
			}
		}
	}
	return "", false
}

// objectTagOverlap returns the soft tags present on the item,
// case-insensitively, preserving signal order.
func objectTagOverlap(soft, item []string) []string {
	if len(soft) == 0 || len(item) == 0 {
		return nil
	}
	itemSet := make(map[string]bool, len(item))
	for _, t := range item {
		itemSet[strings.ToLower(t)] = true
	}
	var matched []string
	for _, t := range soft {
		if itemSet[strings.ToLower(t)] {
			matched = append(matched, t)
		}
	}
	return matched
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func containsFold(list []string, v string) bool {
	for _, s := range list {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > maxScore {
		return maxScore
	}
	return s
}
