package category

import (
	"fmt"

	"poetrade/scraper/internal/domain"
)

// Session is one predefined batch of categories, selectable from the menu
type Session struct {
	Number     int
	Name       string
	Categories []domain.Category
}

type priceRange struct {
	min, max *int // nil means unbounded
}

func bound(v int) *int { return &v }

// Sessions returns the five static category batches partitioning the item
// space by rarity and price bucket. The buckets are fixed: categories are
// generated, consumed once per run, and never mutated.
func Sessions() []Session {
	return []Session{
		{Number: 1, Name: "Cheap Rare (0-10c)", Categories: cheapRare()},
		{Number: 2, Name: "Mid Rare (10-50c)", Categories: rareBuckets([]priceRange{
			{bound(10), bound(12)}, {bound(12), bound(15)}, {bound(15), bound(18)},
			{bound(18), bound(20)}, {bound(20), bound(25)}, {bound(25), bound(30)},
			{bound(30), bound(35)}, {bound(35), bound(40)}, {bound(40), bound(45)},
			{bound(45), bound(50)},
		})},
		{Number: 3, Name: "Expensive Rare (50c+)", Categories: rareBuckets([]priceRange{
			{bound(50), bound(60)}, {bound(60), bound(70)}, {bound(70), bound(80)},
			{bound(80), bound(90)}, {bound(90), bound(100)}, {bound(100), bound(120)},
			{bound(120), bound(150)}, {bound(150), bound(200)}, {bound(200), bound(300)},
			{bound(300), bound(500)}, {bound(500), nil},
		})},
		{Number: 4, Name: "All Unique items", Categories: buckets(domain.RarityUnique, []priceRange{
			{nil, bound(5)}, {bound(5), bound(10)}, {bound(10), bound(15)},
			{bound(15), bound(20)}, {bound(20), bound(30)}, {bound(30), bound(40)},
			{bound(40), bound(50)}, {bound(50), bound(75)}, {bound(75), bound(100)},
			{bound(100), bound(150)}, {bound(150), bound(200)}, {bound(200), nil},
		})},
		{Number: 5, Name: "All Magic items", Categories: buckets(domain.RarityMagic, []priceRange{
			{nil, bound(2)}, {bound(2), bound(5)}, {bound(5), bound(10)},
			{bound(10), bound(20)}, {bound(20), nil},
		})},
	}
}

// FindSession returns the session with the given number
func FindSession(number int) (Session, error) {
	for _, s := range Sessions() {
		if s.Number == number {
			return s, nil
		}
	}
	return Session{}, fmt.Errorf("no such session: %d", number)
}

// cheapRare yields ten 1-chaos-wide rare buckets from 0 to 10
func cheapRare() []domain.Category {
	out := make([]domain.Category, 0, 10)
	for i := 0; i < 10; i++ {
		out = append(out, domain.Category{
			Name: fmt.Sprintf("Rare_%d-%dc", i, i+1),
			Filters: domain.FilterSpec{
				Rarity:   domain.RarityRare,
				MinPrice: bound(i),
				MaxPrice: bound(i + 1),
			},
		})
	}
	return out
}

func rareBuckets(ranges []priceRange) []domain.Category {
	return buckets(domain.RarityRare, ranges)
}

func buckets(rarity domain.Rarity, ranges []priceRange) []domain.Category {
	out := make([]domain.Category, 0, len(ranges))
	for _, r := range ranges {
		out = append(out, domain.Category{
			Name: bucketName(rarity, r),
			Filters: domain.FilterSpec{
				Rarity:   rarity,
				MinPrice: r.min,
				MaxPrice: r.max,
			},
		})
	}
	return out
}

func bucketName(rarity domain.Rarity, r priceRange) string {
	min := "0"
	if r.min != nil {
		min = fmt.Sprintf("%d", *r.min)
	}
	max := "inf"
	if r.max != nil {
		max = fmt.Sprintf("%d", *r.max)
	}
	name := rarityLabel(rarity)
	return fmt.Sprintf("%s_%s-%sc", name, min, max)
}

func rarityLabel(r domain.Rarity) string {
	switch r {
	case domain.RarityRare:
		return "Rare"
	case domain.RarityUnique:
		return "Unique"
	case domain.RarityMagic:
		return "Magic"
	default:
		return "Unknown"
	}
}
