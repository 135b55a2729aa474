package domain

import (
	"encoding/json"
	"sort"
	"time"
)

// ProgressState is the durable checkpoint enabling cross-run resumption.
// CompletedCategories only grows; every item ID processed in a completed
// category is present in SeenItemIDs.
type ProgressState struct {
	CompletedCategories map[string]struct{}
	SeenItemIDs         map[string]struct{}
	LastUpdated         time.Time
}

// NewProgressState returns an empty first-run state
func NewProgressState() *ProgressState {
	return &ProgressState{
		CompletedCategories: make(map[string]struct{}),
		SeenItemIDs:         make(map[string]struct{}),
	}
}

// IsCompleted reports whether a category was finished in a prior run
func (p *ProgressState) IsCompleted(name string) bool {
	_, ok := p.CompletedCategories[name]
	return ok
}

// MarkCompleted records a finished category and bumps the timestamp
func (p *ProgressState) MarkCompleted(name string) {
	p.CompletedCategories[name] = struct{}{}
	p.LastUpdated = time.Now()
}

// MarkSeen records an item ID, reporting true when it was not seen before
func (p *ProgressState) MarkSeen(id string) bool {
	if _, ok := p.SeenItemIDs[id]; ok {
		return false
	}
	p.SeenItemIDs[id] = struct{}{}
	return true
}

// progressDocument is the on-disk schema:
// {completed_categories:[...], seen_item_ids:[...], last_updated:RFC3339}
type progressDocument struct {
	CompletedCategories []string  `json:"completed_categories"`
	SeenItemIDs         []string  `json:"seen_item_ids"`
	LastUpdated         time.Time `json:"last_updated"`
}

func (p *ProgressState) MarshalJSON() ([]byte, error) {
	doc := progressDocument{
		CompletedCategories: sortedKeys(p.CompletedCategories),
		SeenItemIDs:         sortedKeys(p.SeenItemIDs),
		LastUpdated:         p.LastUpdated,
	}
	return json.Marshal(doc)
}

func (p *ProgressState) UnmarshalJSON(data []byte) error {
	var doc progressDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	p.CompletedCategories = make(map[string]struct{}, len(doc.CompletedCategories))
	for _, name := range doc.CompletedCategories {
		p.CompletedCategories[name] = struct{}{}
	}
	p.SeenItemIDs = make(map[string]struct{}, len(doc.SeenItemIDs))
	for _, id := range doc.SeenItemIDs {
		p.SeenItemIDs[id] = struct{}{}
	}
	p.LastUpdated = doc.LastUpdated
	return nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
