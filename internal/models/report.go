package models

import "github.com/shopspring/decimal"

// Watchlist quote sources.
const (
	StockSourceYahoo = "yahoo_finance"
	StockSourceMock  = "mock_data"
)

// GapMetric measures one house's sell price against the oficial rate.
type GapMetric struct {
	Casa          string          `json:"casa"`
	Nombre        string          `json:"nombre"`
	Venta         decimal.Decimal `json:"venta"`
	GapPercentage decimal.Decimal `json:"gap_percentage"`
	GapAmount     decimal.Decimal `json:"gap_amount"`
}

// SpreadMetric measures the buy/sell spread of one house.
type SpreadMetric struct {
	Casa             string          `json:"casa"`
	Nombre           string          `json:"nombre"`
	Compra           decimal.Decimal `json:"compra"`
	Venta            decimal.Decimal `json:"venta"`
	Spread           decimal.Decimal `json:"spread"`
	SpreadPercentage decimal.Decimal `json:"spread_percentage"`
}

type CotizationsAnalysis struct {
	TotalCotizations int           `json:"total_cotizations"`
	Cotizations      []QuoteRecord `json:"cotizations"`
	Analysis         string        `json:"analysis"`
}

type GapsAnalysis struct {
	OficialCotization *QuoteRecord `json:"oficial_cotization"`
	Gaps              []GapMetric  `json:"gaps"`
	Analysis          string       `json:"analysis"`
}

type TrendsAnalysis struct {
	PricesAnalysis []SpreadMetric `json:"prices_analysis"`
	Analysis       string         `json:"analysis"`
}

// AnalysisReport is the persisted output of the analysis stage. Key names
// match the report JSON the PDF composer consumes.
type AnalysisReport struct {
	Timestamp           string              `json:"timestamp"`
	DataSource          string              `json:"data_source"`
	SourceFile          string              `json:"source_file"`
	CotizationsAnalysis CotizationsAnalysis `json:"cotizations_analysis"`
	GapsAnalysis        GapsAnalysis        `json:"gaps_analysis"`
	TrendsAnalysis      TrendsAnalysis      `json:"trends_analysis"`
	MarketContext       *MarketSnapshot     `json:"market_context,omitempty"`
	Summary             string              `json:"summary"`
}

// StockQuote is one watchlist entry from Yahoo Finance or the mock generator.
type StockQuote struct {
	Symbol        string          `json:"symbol"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Source        string          `json:"source"`
	Timestamp     string          `json:"timestamp"`
}

// MarketSnapshot bundles the BYMA watchlist attached to reports as market
// context.
type MarketSnapshot struct {
	Merval      *StockQuote  `json:"merval,omitempty"`
	Stocks      []StockQuote `json:"stocks"`
	GeneratedAt string       `json:"generated_at"`
	DataType    string       `json:"data_type"`
}
