package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestProgressStateJSONRoundTrip(t *testing.T) {
	state := NewProgressState()
	state.MarkSeen("id2")
	state.MarkSeen("id1")
	state.MarkCompleted("Rare_0-1c")

	data, err := json.Marshal(state)
	require.NoError(t, err)

	// Sets serialize as sorted lists for stable on-disk diffs
	var doc struct {
		CompletedCategories []string  `json:"completed_categories"`
		SeenItemIDs         []string  `json:"seen_item_ids"`
		LastUpdated         time.Time `json:"last_updated"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Equal(t, []string{"Rare_0-1c"}, doc.CompletedCategories)
	require.Equal(t, []string{"id1", "id2"}, doc.SeenItemIDs)
	require.False(t, doc.LastUpdated.IsZero())

	restored := NewProgressState()
	require.NoError(t, json.Unmarshal(data, restored))
	require.True(t, restored.IsCompleted("Rare_0-1c"))
	require.False(t, restored.IsCompleted("Rare_1-2c"))
	require.False(t, restored.MarkSeen("id1"))
	require.True(t, restored.MarkSeen("id3"))
}

func TestMarkSeenReportsNewIDsOnly(t *testing.T) {
	state := NewProgressState()
	require.True(t, state.MarkSeen("a"))
	require.False(t, state.MarkSeen("a"))
	require.True(t, state.MarkSeen("b"))
	require.Len(t, state.SeenItemIDs, 2)
}
