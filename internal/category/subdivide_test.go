package category

import (
	"testing"

	"poetrade/scraper/internal/domain"

	"github.com/stretchr/testify/require"
)

func TestLevelRangesSpanOneToHundred(t *testing.T) {
	require.Len(t, LevelRanges, 10)
	require.Equal(t, 1, LevelRanges[0].Min)
	require.Equal(t, 100, LevelRanges[len(LevelRanges)-1].Max)

	// Ranges are disjoint and ordered
	for i := 1; i < len(LevelRanges); i++ {
		require.Equal(t, LevelRanges[i-1].Max+1, LevelRanges[i].Min)
	}
}

func TestSubdivideInjectsLevelBounds(t *testing.T) {
	min, max := 5, 10
	parent := domain.Category{
		Name: "Rare_5-10c",
		Filters: domain.FilterSpec{
			Rarity:   domain.RarityRare,
			MinPrice: &min,
			MaxPrice: &max,
		},
	}

	subs := Subdivide(parent)
	require.Len(t, subs, 10)

	require.Equal(t, "Rare_5-10c_ilvl1-20", subs[0].Name)
	require.Equal(t, "Rare_5-10c_ilvl86-100", subs[9].Name)

	for i, sub := range subs {
		require.Equal(t, LevelRanges[i].Min, *sub.Filters.MinLevel)
		require.Equal(t, LevelRanges[i].Max, *sub.Filters.MaxLevel)
		// Parent price bounds carry over, un-aliased
		require.Equal(t, 5, *sub.Filters.MinPrice)
		require.Equal(t, 10, *sub.Filters.MaxPrice)
		require.NotSame(t, parent.Filters.MinPrice, sub.Filters.MinPrice)
	}

	// Parent filters stay untouched
	require.Nil(t, parent.Filters.MinLevel)
	require.Nil(t, parent.Filters.MaxLevel)
}
