package dataflows

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/go-resty/resty/v2"

	"dolarwatch/config"
	"dolarwatch/internal/models"
)

const dolaresEndpoint = "/v1/dolares"

// DolarAPIClient fetches the USD quote board from DolarAPI.
type DolarAPIClient struct {
	client *resty.Client
	cache  *CacheManager
	retry  *RetryConfig
}

// NewDolarAPIClient creates a client against the configured DolarAPI base URL.
func NewDolarAPIClient(cfg *config.Config) *DolarAPIClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "dolarapi")
	cache := NewCacheManager(cacheDir, cfg.CacheTTL(), cfg.CacheEnabled)

	client := resty.New()
	client.SetBaseURL(cfg.DolarAPIBaseURL)
	client.SetTimeout(cfg.RequestTimeout())
	client.SetHeader("User-Agent", cfg.UserAgent)

	return &DolarAPIClient{
		client: client,
		cache:  cache,
		retry:  DefaultRetryConfig(),
	}
}

// FetchQuotes gets the current quote board. The short-lived cache keeps
// repeated menu runs from hammering the API.
func (dc *DolarAPIClient) FetchQuotes(ctx context.Context) (*models.QuoteBatch, error) {
	var cached models.QuoteBatch
	if dc.cache.Get("dolarapi", "dolares", dolaresEndpoint, &cached) {
		return &cached, nil
	}

	var records []models.QuoteRecord
	err := WithRetry(dc.retry, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := dc.client.R().SetContext(ctx).Get(dolaresEndpoint)
		if err != nil {
			return fmt.Errorf("failed to fetch quotes from DolarAPI: %w", err)
		}

		if resp.StatusCode() != 200 {
			return fmt.Errorf("DolarAPI error %d: %s", resp.StatusCode(), resp.String())
		}

		var parsed []models.QuoteRecord
		if err := json.Unmarshal(resp.Body(), &parsed); err != nil {
			return fmt.Errorf("failed to parse DolarAPI response: %w", err)
		}

		records = parsed
		return nil
	})
	if err != nil {
		return nil, err
	}

	batch := models.NewQuoteBatch(models.SourceDolarAPI, records)
	if err := batch.Validate(); err != nil {
		return nil, err
	}

	dc.cache.Set("dolarapi", "dolares", dolaresEndpoint, batch)

	return batch, nil
}
