package catalog

import (
	"sort"

	"github.com/Dosada05/versusite/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Search returns the items whose label or content fuzzily contains query,
// closest match first. An empty query returns the items unchanged.
func Search(items []models.Item, query string) []models.Item {
	if query == "" {
		return items
	}

	type hit struct {
		item     models.Item
		distance int
	}

	var hits []hit
	for _, item := range items {
		best := -1
		for _, target := range []string{item.Label, item.Content} {
			if target == "" {
				continue
			}
			if d := fuzzy.RankMatchFold(query, target); d >= 0 && (best < 0 || d < best) {
				best = d
			}
		}
		if best >= 0 {
			hits = append(hits, hit{item: item, distance: best})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].distance < hits[j].distance
	})

	out := make([]models.Item, len(hits))
	for i, h := range hits {
		out[i] = h.item
	}
	return out
}
