package rank

import (
	"github.com/roboatlas/searchd/internal/domain/catalog"
	"github.com/roboatlas/searchd/internal/domain/search/candidate"
	"github.com/roboatlas/searchd/internal/domain/search/parse"
	"github.com/roboatlas/searchd/internal/domain/search/request"
)

// Filter drops candidates that fail the exact filters or the hard numeric
// constraints. Filters must already carry the merged manual/parsed
// locationType and policySlug.
func Filter(cands []candidate.Candidate, f request.Filters, h parse.Hard) []candidate.Candidate {
	out := make([]candidate.Candidate, 0, len(cands))
	for _, c := range cands {
		if matches(c, f, h) {
			out = append(out, c)
		}
	}
	return out
}

func matches(c candidate.Candidate, f request.Filters, h parse.Hard) bool {
	switch f.ItemType {
	case request.ItemTypeScenes:
		if c.Kind != catalog.KindScene {
			return false
		}
	case request.ItemTypeTraining:
		if c.Kind != catalog.KindTrainingDataset {
			return false
		}
	}

	if f.LocationType != "" && c.Item.LocationType() != f.LocationType {
		return false
	}
	if f.PolicySlug != "" && !containsString(c.Item.PolicySlugs(), f.PolicySlug) {
		return false
	}
	if len(f.ObjectTags) > 0 && len(objectTagOverlap(f.ObjectTags, c.Item.ObjectTags())) == 0 {
		return false
	}

	// Scenes carry no quality score, so an active quality constraint
	// excludes them outright.
	if h.MinQualityScore != nil {
		q, ok := c.Item.QualityScore()
		if !ok || q < *h.MinQualityScore {
			return false
		}
	}
	if h.MinEpisodes != nil {
		n, ok := c.Item.EpisodeCount()
		if !ok || n < *h.MinEpisodes {
			return false
		}
	}

	return true
}
