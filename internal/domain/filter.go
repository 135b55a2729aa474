package domain

// Rarity is the item rarity axis of the search space
type Rarity string

func (r Rarity) String() string {
	return string(r)
}

const (
	RarityRare   Rarity = "rare"
	RarityUnique Rarity = "unique"
	RarityMagic  Rarity = "magic"
)

// FilterSpec describes one search query: rarity plus optional price and
// item-level bounds. Prices are in chaos; a nil bound means unbounded.
type FilterSpec struct {
	Rarity   Rarity `json:"rarity"`
	MinPrice *int   `json:"min_price,omitempty"`
	MaxPrice *int   `json:"max_price,omitempty"`
	MinLevel *int   `json:"min_level,omitempty"`
	MaxLevel *int   `json:"max_level,omitempty"`
}

// Clone returns a deep copy so subdivided queries never alias the parent's bounds
func (f FilterSpec) Clone() FilterSpec {
	out := FilterSpec{Rarity: f.Rarity}
	out.MinPrice = cloneBound(f.MinPrice)
	out.MaxPrice = cloneBound(f.MaxPrice)
	out.MinLevel = cloneBound(f.MinLevel)
	out.MaxLevel = cloneBound(f.MaxLevel)
	return out
}

// WithLevelRange clones the spec and constrains it to one item-level range
func (f FilterSpec) WithLevelRange(minLevel, maxLevel int) FilterSpec {
	out := f.Clone()
	out.MinLevel = &minLevel
	out.MaxLevel = &maxLevel
	return out
}

func cloneBound(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// Wire types for the upstream search body:
// {"query":{"status":{"option":"any"},"filters":{...}},"sort":{"price":"asc"}}

type SearchBody struct {
	Query SearchQuery `json:"query"`
	Sort  SearchSort  `json:"sort"`
}

type SearchQuery struct {
	Status  OptionValue  `json:"status"`
	Filters QueryFilters `json:"filters"`
}

type SearchSort struct {
	Price string `json:"price"`
}

type QueryFilters struct {
	TypeFilters  TypeFilters  `json:"type_filters"`
	TradeFilters TradeFilters `json:"trade_filters"`
	MiscFilters  *MiscFilters `json:"misc_filters,omitempty"`
}

type TypeFilters struct {
	Filters struct {
		Rarity OptionValue `json:"rarity"`
	} `json:"filters"`
}

type TradeFilters struct {
	Filters struct {
		Price PriceFilter `json:"price"`
	} `json:"filters"`
}

type MiscFilters struct {
	Filters struct {
		ItemLevel RangeFilter `json:"ilvl"`
	} `json:"filters"`
}

type OptionValue struct {
	Option string `json:"option"`
}

type PriceFilter struct {
	Option string `json:"option"`
	Min    *int   `json:"min,omitempty"`
	Max    *int   `json:"max,omitempty"`
}

type RangeFilter struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// SearchBody renders the spec into the upstream query document
func (f FilterSpec) SearchBody() SearchBody {
	body := SearchBody{
		Query: SearchQuery{Status: OptionValue{Option: "any"}},
		Sort:  SearchSort{Price: "asc"},
	}
	body.Query.Filters.TypeFilters.Filters.Rarity = OptionValue{Option: f.Rarity.String()}
	body.Query.Filters.TradeFilters.Filters.Price = PriceFilter{
		Option: "chaos",
		Min:    f.MinPrice,
		Max:    f.MaxPrice,
	}
	if f.MinLevel != nil || f.MaxLevel != nil {
		misc := &MiscFilters{}
		misc.Filters.ItemLevel = RangeFilter{Min: f.MinLevel, Max: f.MaxLevel}
		body.Query.Filters.MiscFilters = misc
	}
	return body
}
