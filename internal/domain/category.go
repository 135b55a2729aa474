package domain

// Category is a named partition of the search space. Immutable once generated.
type Category struct {
	Name    string     `json:"name"`
	Filters FilterSpec `json:"filters"`
}

// SearchResult is the windowed ID listing returned by one search call.
// IDs are truncated to the server's 100-ID window regardless of Total.
type SearchResult struct {
	IDs        []string `json:"ids"`
	QueryToken string   `json:"query_token"`
	Total      int      `json:"total"`
}

// IDWindowLimit is the maximum number of item IDs a single search response
// can carry, independent of the true match count.
const IDWindowLimit = 100

// Windowed reports whether the listing hit the window ceiling with more
// matches behind it, i.e. subdivision is worth attempting.
func (r *SearchResult) Windowed() bool {
	return len(r.IDs) >= IDWindowLimit && r.Total > IDWindowLimit
}

// CategoryStatus distinguishes a clean category from a degraded one
type CategoryStatus string

const (
	StatusComplete CategoryStatus = "complete"
	StatusPartial  CategoryStatus = "partial"
	StatusFailed   CategoryStatus = "failed"
	StatusEmpty    CategoryStatus = "empty"
)

// CategoryResult is the outcome of running one category through the pipeline
type CategoryResult struct {
	Category      Category
	Status        CategoryStatus
	Items         []ItemRecord
	Subdivided    bool
	FailedBatches int
}
