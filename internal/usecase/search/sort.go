package search

import (
	"sort"

	"github.com/roboatlas/searchd/internal/domain/catalog"
	"github.com/roboatlas/searchd/internal/domain/search/rank"
	"github.com/roboatlas/searchd/internal/domain/search/request"
)

// applySort reorders results after ranking. Relevance is a no-op: the
// ranking order is trusted as-is. All sorts are stable so equal keys keep
// their relevance order.
func applySort(rs []rank.Scored, order request.Sort) {
	switch order {
	case request.SortNewest:
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].Item.ReleaseDate().After(rs[j].Item.ReleaseDate())
		})
	case request.SortPriceAsc:
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].Item.Price() < rs[j].Item.Price()
		})
	case request.SortPriceDesc:
		sort.SliceStable(rs, func(i, j int) bool {
			return rs[i].Item.Price() > rs[j].Item.Price()
		})
	case request.SortSceneDesc:
		sort.SliceStable(rs, func(i, j int) bool {
			return volumeProxy(rs[i]) > volumeProxy(rs[j])
		})
	}
}

// volumeProxy ranks training datasets by episode volume; scenes are a
// constant so they interleave predictably.
func volumeProxy(r rank.Scored) float64 {
	if r.Kind == catalog.KindTrainingDataset {
		return float64(r.Item.Dataset.EpisodeCount) / 1000
	}
	return 1
}
