package dataflows

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"

	"dolarwatch/config"
	"dolarwatch/internal/models"
)

const mervalSymbol = "^MERV"

// StockWatchClient fetches the BYMA watchlist from Yahoo Finance for the
// report's market context.
type StockWatchClient struct {
	cfg   *config.Config
	cache *CacheManager
	retry *RetryConfig
	mock  *MockGenerator
}

// NewStockWatchClient creates a watchlist client over the configured tickers.
func NewStockWatchClient(cfg *config.Config) *StockWatchClient {
	cacheDir := filepath.Join(cfg.DataCacheDir, "yahoo_finance")

	// The watchlist is best effort. A single retry per ticker keeps a dead
	// market feed from stalling the whole run.
	retry := &RetryConfig{
		MaxRetries: 1,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   2 * time.Second,
		Multiplier: 2.0,
	}

	return &StockWatchClient{
		cfg:   cfg,
		cache: NewCacheManager(cacheDir, cfg.CacheTTL(), cfg.CacheEnabled),
		retry: retry,
		mock:  NewMockGenerator(),
	}
}

// WatchQuotes fetches the MERVAL index and the configured tickers. Tickers
// that fail are skipped; when nothing comes back at all the mock snapshot
// keeps the market context populated.
func (sw *StockWatchClient) WatchQuotes(ctx context.Context) (*models.MarketSnapshot, error) {
	var cached models.MarketSnapshot
	if sw.cache.Get("yahoo", "watchlist", sw.cfg.ArgentineStocks, &cached) {
		return &cached, nil
	}

	snapshot := &models.MarketSnapshot{
		GeneratedAt: time.Now().Format(time.RFC3339),
		DataType:    "market_snapshot",
	}

	if idx, err := sw.fetchOne(mervalSymbol); err == nil {
		if idx.Name == "" {
			idx.Name = "S&P MERVAL"
		}
		snapshot.Merval = idx
	}

	for _, ticker := range sw.cfg.ArgentineStocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		sq, err := sw.fetchOne(sw.cfg.StockSymbol(ticker))
		if err != nil {
			continue
		}
		snapshot.Stocks = append(snapshot.Stocks, *sq)
	}

	if len(snapshot.Stocks) == 0 {
		return sw.mock.MarketSnapshot(), nil
	}

	sw.cache.Set("yahoo", "watchlist", sw.cfg.ArgentineStocks, snapshot)

	return snapshot, nil
}

func (sw *StockWatchClient) fetchOne(symbol string) (*models.StockQuote, error) {
	symbol = NormalizeSymbol(symbol)

	var result *models.StockQuote
	err := WithRetry(sw.retry, func() error {
		q, err := quote.Get(symbol)
		if err != nil {
			return fmt.Errorf("failed to get quote for %s: %w", symbol, err)
		}
		if q == nil {
			return fmt.Errorf("no quote data for %s", symbol)
		}

		result = &models.StockQuote{
			Symbol:        symbol,
			Name:          q.ShortName,
			Price:         decimal.NewFromFloat(q.RegularMarketPrice),
			ChangePercent: decimal.NewFromFloat(q.RegularMarketChangePercent),
			Source:        models.StockSourceYahoo,
			Timestamp:     time.Now().Format(time.RFC3339),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
