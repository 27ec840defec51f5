package dataflows

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"dolarwatch/config"
	"dolarwatch/internal/models"
)

// InvestingScraper pulls the USD/ARS spot price off the Investing.com quote
// page. It backs up DolarAPI; Investing throttles automated traffic, so a
// blocked request surfaces like any other fetch failure.
type InvestingScraper struct {
	client  *resty.Client
	cache   *CacheManager
	retry   *RetryConfig
	pageURL string
}

// NewInvestingScraper creates a scraper for the configured USD/ARS page.
func NewInvestingScraper(cfg *config.Config) *InvestingScraper {
	cacheDir := filepath.Join(cfg.DataCacheDir, "investing")
	cache := NewCacheManager(cacheDir, cfg.CacheTTL(), cfg.CacheEnabled)

	client := resty.New()
	client.SetTimeout(cfg.RequestTimeout())
	client.SetHeader("User-Agent", cfg.UserAgent)

	return &InvestingScraper{
		client:  client,
		cache:   cache,
		retry:   DefaultRetryConfig(),
		pageURL: cfg.DataSources["investing_usd_ars"],
	}
}

// FetchSpot scrapes the current spot price as a one-record batch flagged
// with the Investing source.
func (is *InvestingScraper) FetchSpot(ctx context.Context) (*models.QuoteBatch, error) {
	if strings.TrimSpace(is.pageURL) == "" {
		return nil, fmt.Errorf("investing_usd_ars data source not configured")
	}

	var cached models.QuoteBatch
	if is.cache.Get("investing", "usd_ars", is.pageURL, &cached) {
		return &cached, nil
	}

	var record models.QuoteRecord
	err := WithRetry(is.retry, func() error {
		if err := ctx.Err(); err != nil {
			return err
		}

		resp, err := is.client.R().SetContext(ctx).Get(is.pageURL)
		if err != nil {
			return fmt.Errorf("failed to fetch Investing page: %w", err)
		}

		if resp.StatusCode() != 200 {
			return fmt.Errorf("HTTP error %d when fetching Investing page", resp.StatusCode())
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body()))
		if err != nil {
			return fmt.Errorf("failed to parse HTML: %w", err)
		}

		rec, err := parseSpotQuote(doc)
		if err != nil {
			return err
		}

		record = *rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	batch := models.NewQuoteBatch(models.SourceInvesting, []models.QuoteRecord{record})
	is.cache.Set("investing", "usd_ars", is.pageURL, batch)

	return batch, nil
}

func parseSpotQuote(doc *goquery.Document) (*models.QuoteRecord, error) {
	priceText := strings.TrimSpace(doc.Find(`[data-test="instrument-price-last"]`).First().Text())
	if priceText == "" {
		return nil, fmt.Errorf("price element not found; page layout changed or request was blocked")
	}

	price, err := parseLocalizedPrice(priceText)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", priceText, err)
	}

	name := strings.TrimSpace(doc.Find("h1").First().Text())
	if name == "" {
		name = "USD/ARS"
	}

	return &models.QuoteRecord{
		Moneda:             "USD",
		Casa:               "investing",
		Nombre:             name,
		Compra:             price,
		Venta:              price,
		FechaActualizacion: time.Now().Format(time.RFC3339),
	}, nil
}

// parseLocalizedPrice accepts both the es-AR formatting the Spanish site
// serves (1.350,75) and plain decimal-point numbers.
func parseLocalizedPrice(text string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(text)
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	}
	return decimal.NewFromString(clean)
}
