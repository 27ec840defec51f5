package dataflows

import (
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"dolarwatch/internal/models"
)

// Reference levels for the mock quote board. Oficial and blue carry the
// numbers the analysis docs use as worked examples.
var mockHouses = []struct {
	casa   string
	nombre string
	compra float64
	venta  float64
}{
	{"oficial", "Oficial", 1400, 1450},
	{"blue", "Blue", 1420, 1440},
	{"bolsa", "Bolsa", 1380, 1395},
	{"contadoconliqui", "Contado con liquidación", 1390, 1410},
	{"mayorista", "Mayorista", 1385, 1405},
	{"cripto", "Cripto", 1430, 1460},
	{"tarjeta", "Tarjeta", 0, 1885},
}

var mockStockOrder = []string{"GGAL", "PAMP", "TXAR", "YPFD", "MIRG", "BBAR", "CRES", "EDN", "HARG", "LOMA"}

var mockBasePrices = map[string]float64{
	"GGAL": 1200.50,
	"PAMP": 850.25,
	"TXAR": 450.75,
	"YPFD": 6780.00,
	"MIRG": 320.80,
	"BBAR": 950.40,
	"CRES": 1250.60,
	"EDN":  780.30,
	"HARG": 560.90,
	"LOMA": 890.15,
}

const mockMervalBase = 1200000.0

// MockGenerator produces offline data shaped exactly like the live sources.
// The demo path and the tests run against it.
type MockGenerator struct {
	rng *rand.Rand
}

// NewMockGenerator seeds from the clock.
func NewMockGenerator() *MockGenerator {
	return NewSeededMockGenerator(time.Now().UnixNano())
}

// NewSeededMockGenerator keeps runs reproducible.
func NewSeededMockGenerator(seed int64) *MockGenerator {
	return &MockGenerator{rng: rand.New(rand.NewSource(seed))}
}

// QuoteBatch returns the fixed reference quote board. No jitter: downstream
// numbers stay predictable for demos and assertions.
func (mg *MockGenerator) QuoteBatch() *models.QuoteBatch {
	now := time.Now().UTC().Format(time.RFC3339)

	records := make([]models.QuoteRecord, 0, len(mockHouses))
	for _, h := range mockHouses {
		records = append(records, models.QuoteRecord{
			Moneda:             "USD",
			Casa:               h.casa,
			Nombre:             h.nombre,
			Compra:             decimal.NewFromFloat(h.compra),
			Venta:              decimal.NewFromFloat(h.venta),
			FechaActualizacion: now,
		})
	}

	return models.NewQuoteBatch(models.SourceMock, records)
}

// MarketSnapshot returns a jittered watchlist around the base prices, the
// way the market moves on a normal day.
func (mg *MockGenerator) MarketSnapshot() *models.MarketSnapshot {
	now := time.Now().Format(time.RFC3339)

	mervalChange := mg.uniform(-3, 3)
	mervalPrice := mockMervalBase * (1 + mervalChange/100)

	snapshot := &models.MarketSnapshot{
		Merval: &models.StockQuote{
			Symbol:        "MERVAL",
			Name:          "S&P MERVAL",
			Price:         decimal.NewFromFloat(mervalPrice).Round(2),
			ChangePercent: decimal.NewFromFloat(mervalChange).Round(2),
			Source:        models.StockSourceMock,
			Timestamp:     now,
		},
		GeneratedAt: now,
		DataType:    "mock_market_data",
	}

	for _, symbol := range mockStockOrder {
		change := mg.uniform(-5, 5)
		price := mockBasePrices[symbol] * (1 + change/100)

		snapshot.Stocks = append(snapshot.Stocks, models.StockQuote{
			Symbol:        symbol,
			Name:          symbol,
			Price:         decimal.NewFromFloat(price).Round(2),
			ChangePercent: decimal.NewFromFloat(change).Round(2),
			Source:        models.StockSourceMock,
			Timestamp:     now,
		})
	}

	return snapshot
}

func (mg *MockGenerator) uniform(min, max float64) float64 {
	return min + mg.rng.Float64()*(max-min)
}
