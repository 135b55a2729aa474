package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"poetrade/scraper/internal/config"
	"poetrade/scraper/internal/domain"

	"github.com/stretchr/testify/require"
)

func testTradeConfig(baseURL string) config.TradeConfig {
	return config.TradeConfig{
		BaseURL:        baseURL,
		Realm:          "poe2",
		League:         "Standard",
		UserAgent:      "test-agent",
		MaxRetries:     3,
		FetchBatchSize: 10,
		// Zero delays and cooldowns keep tests off the wall clock
	}
}

func searchPayload(total int, ids []string, token string) string {
	data, _ := json.Marshal(map[string]any{
		"total":  total,
		"result": ids,
		"id":     token,
	})
	return string(data)
}

func fetchPayload(ids ...string) string {
	items := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, map[string]any{"id": id})
	}
	data, _ := json.Marshal(map[string]any{"result": items})
	return string(data)
}

func TestSearchParsesWindowedListing(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/search/poe2/Standard", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		gotBody, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, searchPayload(250, []string{"a", "b", "c"}, "tok-1"))
	}))
	defer srv.Close()

	c := NewTradeClient(testTradeConfig(srv.URL))
	min := 0
	res, err := c.Search(context.Background(), domain.FilterSpec{Rarity: domain.RarityRare, MinPrice: &min})
	require.NoError(t, err)

	require.Equal(t, []string{"a", "b", "c"}, res.IDs)
	require.Equal(t, "tok-1", res.QueryToken)
	require.Equal(t, 250, res.Total)
	require.Contains(t, string(gotBody), `"rarity":{"option":"rare"}`)
}

func TestSearchRetriesOncePerRateLimit(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, searchPayload(1, []string{"x"}, "tok"))
	}))
	defer srv.Close()

	c := NewTradeClient(testTradeConfig(srv.URL))
	res, err := c.Search(context.Background(), domain.FilterSpec{Rarity: domain.RarityMagic})
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, res.IDs)
	// Exactly one reissue per 429 received
	require.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSearchGivesUpAfterRetryBudget(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := testTradeConfig(srv.URL)
	cfg.MaxRetries = 2

	c := NewTradeClient(cfg)
	_, err := c.Search(context.Background(), domain.FilterSpec{Rarity: domain.RarityRare})
	require.ErrorIs(t, err, ErrRetriesExhausted)
	require.Equal(t, int32(3), atomic.LoadInt32(&calls)) // initial try + 2 retries
}

func TestSearchDoesNotRetryOtherErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewTradeClient(testTradeConfig(srv.URL))
	_, err := c.Search(context.Background(), domain.FilterSpec{Rarity: domain.RarityRare})
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrRetriesExhausted)
	require.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestFetchItemsBatchesInOrder(t *testing.T) {
	var batches []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "tok", r.URL.Query().Get("query"))
		idsPart := strings.TrimPrefix(r.URL.Path, "/fetch/")
		batches = append(batches, idsPart)
		fmt.Fprint(w, fetchPayload(strings.Split(idsPart, ",")...))
	}))
	defer srv.Close()

	ids := make([]string, 25)
	for i := range ids {
		ids[i] = fmt.Sprintf("id%02d", i)
	}

	c := NewTradeClient(testTradeConfig(srv.URL))
	items, failed, err := c.FetchItems(context.Background(), ids, "tok")
	require.NoError(t, err)
	require.Zero(t, failed)
	require.Len(t, items, 25)

	// Batches of 10, partitioned in order, last one short
	require.Len(t, batches, 3)
	require.Equal(t, 10, len(strings.Split(batches[0], ",")))
	require.Equal(t, 5, len(strings.Split(batches[2], ",")))
	require.Equal(t, "id00", items[0].ID)
	require.Equal(t, "id24", items[24].ID)
}

func TestFetchItemsSkipsFailedBatch(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		idsPart := strings.TrimPrefix(r.URL.Path, "/fetch/")
		fmt.Fprint(w, fetchPayload(strings.Split(idsPart, ",")...))
	}))
	defer srv.Close()

	ids := make([]string, 30)
	for i := range ids {
		ids[i] = fmt.Sprintf("id%02d", i)
	}

	c := NewTradeClient(testTradeConfig(srv.URL))
	items, failed, err := c.FetchItems(context.Background(), ids, "tok")
	require.NoError(t, err)
	require.Equal(t, 1, failed)
	require.Len(t, items, 20) // middle batch lost, others kept
}

func TestFetchItemsAbortsWhenRetriesExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	cfg := testTradeConfig(srv.URL)
	cfg.MaxRetries = 1

	c := NewTradeClient(cfg)
	_, failed, err := c.FetchItems(context.Background(), []string{"a", "b"}, "tok")
	require.ErrorIs(t, err, ErrRetriesExhausted)
	require.Equal(t, 1, failed)
}

func TestFetchItemsEmptyInput(t *testing.T) {
	c := NewTradeClient(testTradeConfig("http://unused.test"))
	items, failed, err := c.FetchItems(context.Background(), nil, "tok")
	require.NoError(t, err)
	require.Zero(t, failed)
	require.Empty(t, items)
}
