package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"poetrade/scraper/internal/config"
	"poetrade/scraper/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// ErrRetriesExhausted is returned when the API keeps rate-limiting past the
// configured retry budget.
var ErrRetriesExhausted = errors.New("rate limit retries exhausted")

type TradeClient interface {
	Search(ctx context.Context, filters domain.FilterSpec) (*domain.SearchResult, error)
	FetchItems(ctx context.Context, ids []string, queryToken string) ([]domain.ItemRecord, int, error)
}

type tradeClient struct {
	rl         ratelimit.Limiter
	config     config.TradeConfig
	baseURL    string
	httpClient *resty.Client
}

func NewTradeClient(cfg config.TradeConfig) TradeClient {
	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json")

	var rl ratelimit.Limiter
	if cfg.RequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.RequestsPerSecond)
	} else {
		rl = ratelimit.NewUnlimited()
	}

	return &tradeClient{
		rl:         rl,
		config:     cfg,
		baseURL:    cfg.BaseURL,
		httpClient: client,
	}
}

// searchResponse is the upstream listing shape: {total, result: [id...], id: queryToken}
type searchResponse struct {
	Total  int      `json:"total"`
	Result []string `json:"result"`
	ID     string   `json:"id"`
}

type fetchResponse struct {
	Result []domain.ItemRecord `json:"result"`
}

func (c *tradeClient) Search(ctx context.Context, filters domain.FilterSpec) (*domain.SearchResult, error) {
	searchURL := fmt.Sprintf("%s/search/%s/%s", c.baseURL, c.config.Realm, c.config.League)
	body := filters.SearchBody()

	resp, err := c.doWithRetry(ctx, func() (*resty.Response, error) {
		return c.httpClient.R().
			SetContext(ctx).
			SetBody(body).
			Post(searchURL)
	})
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}

	var payload searchResponse
	if err := json.Unmarshal([]byte(resp.String()), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	log.Debugf("Search returned %d of %d IDs", len(payload.Result), payload.Total)
	return &domain.SearchResult{
		IDs:        payload.Result,
		QueryToken: payload.ID,
		Total:      payload.Total,
	}, nil
}

// FetchItems retrieves full item records for the given IDs in fixed-size
// batches, concatenated in batch order, sleeping the configured delay
// between batches (not after the last). A failed batch is skipped and
// counted; only exhausted rate-limit retries or cancellation abort the loop.
func (c *tradeClient) FetchItems(ctx context.Context, ids []string, queryToken string) ([]domain.ItemRecord, int, error) {
	if len(ids) == 0 {
		return nil, 0, nil
	}

	batchSize := c.config.FetchBatchSize
	items := make([]domain.ItemRecord, 0, len(ids))
	failedBatches := 0

	for start := 0; start < len(ids); start += batchSize {
		end := start + batchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch := ids[start:end]

		records, err := c.fetchBatch(ctx, batch, queryToken)
		switch {
		case err == nil:
			items = append(items, records...)
		case errors.Is(err, ErrRetriesExhausted) || ctx.Err() != nil:
			return items, failedBatches + 1, err
		default:
			failedBatches++
			log.Errorf("❌ Skipping batch of %d items: %v", len(batch), err)
		}

		if end < len(ids) {
			if err := sleepCtx(ctx, c.config.FetchDelay); err != nil {
				return items, failedBatches, err
			}
		}
	}

	return items, failedBatches, nil
}

func (c *tradeClient) fetchBatch(ctx context.Context, ids []string, queryToken string) ([]domain.ItemRecord, error) {
	fetchURL := fmt.Sprintf("%s/fetch/%s?query=%s",
		c.baseURL, strings.Join(ids, ","), url.QueryEscape(queryToken))

	resp, err := c.doWithRetry(ctx, func() (*resty.Response, error) {
		return c.httpClient.R().
			SetContext(ctx).
			Get(fetchURL)
	})
	if err != nil {
		return nil, err
	}

	var payload fetchResponse
	if err := json.Unmarshal([]byte(resp.String()), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode fetch response: %w", err)
	}
	return payload.Result, nil
}

// doWithRetry issues one request, reissuing it after a fixed cooldown on
// HTTP 429 up to MaxRetries times. Any other non-2xx status fails without
// retrying.
func (c *tradeClient) doWithRetry(ctx context.Context, send func() (*resty.Response, error)) (*resty.Response, error) {
	for attempt := 0; ; attempt++ {
		c.rl.Take()

		resp, err := send()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("request cancelled: %w", ctx.Err())
			}
			return nil, fmt.Errorf("failed to reach trade API: %w", err)
		}

		if resp.StatusCode() == http.StatusTooManyRequests {
			if attempt >= c.config.MaxRetries {
				return nil, fmt.Errorf("%w: gave up after %d attempts", ErrRetriesExhausted, attempt+1)
			}
			log.Warnf("⚠ Rate limited, cooling down %v before retry %d/%d",
				c.config.Cooldown, attempt+1, c.config.MaxRetries)
			if err := sleepCtx(ctx, c.config.Cooldown); err != nil {
				return nil, err
			}
			continue
		}

		if resp.IsError() {
			return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode(), resp.Status())
		}

		return resp, nil
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
