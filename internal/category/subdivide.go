package category

import (
	"fmt"

	"poetrade/scraper/internal/domain"
)

// LevelRange is one item-level slice used to subdivide a windowed category
type LevelRange struct {
	Min int
	Max int
}

// LevelRanges spans level 1-100 in ten non-uniform slices, narrower at high
// levels where the item population concentrates.
var LevelRanges = []LevelRange{
	{1, 20}, {21, 40}, {41, 50}, {51, 60}, {61, 65},
	{66, 70}, {71, 75}, {76, 80}, {81, 85}, {86, 100},
}

// Subdivide re-expresses a windowed category as per-level-range
// sub-categories, each with the parent's filters plus an item-level bound.
// Level-range partitioning spreads matches across disjoint sub-queries so
// each one is more likely to stay under the ID window.
func Subdivide(cat domain.Category) []domain.Category {
	out := make([]domain.Category, 0, len(LevelRanges))
	for _, r := range LevelRanges {
		out = append(out, domain.Category{
			Name:    fmt.Sprintf("%s_ilvl%d-%d", cat.Name, r.Min, r.Max),
			Filters: cat.Filters.WithLevelRange(r.Min, r.Max),
		})
	}
	return out
}
