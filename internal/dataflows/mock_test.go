package dataflows

import (
	"testing"

	"github.com/shopspring/decimal"

	"dolarwatch/internal/models"
)

func TestMockQuoteBatch(t *testing.T) {
	batch := NewSeededMockGenerator(1).QuoteBatch()

	if err := batch.Validate(); err != nil {
		t.Fatalf("mock batch must validate: %v", err)
	}
	if batch.Fuente != models.SourceMock {
		t.Fatalf("unexpected fuente %s", batch.Fuente)
	}

	oficial, ok := batch.Official()
	if !ok {
		t.Fatalf("mock batch must carry an oficial record")
	}
	if !oficial.Venta.Equal(decimal.NewFromInt(1450)) {
		t.Fatalf("unexpected oficial venta %s", oficial.Venta)
	}
}

func TestMockMarketSnapshot(t *testing.T) {
	snapshot := NewSeededMockGenerator(1).MarketSnapshot()

	if snapshot.Merval == nil {
		t.Fatalf("snapshot should include the MERVAL index")
	}
	if len(snapshot.Stocks) != len(mockStockOrder) {
		t.Fatalf("expected %d stocks, got %d", len(mockStockOrder), len(snapshot.Stocks))
	}
	for _, sq := range snapshot.Stocks {
		if sq.Source != models.StockSourceMock {
			t.Fatalf("stock %s not flagged as mock data", sq.Symbol)
		}
		if sq.Price.LessThanOrEqual(decimal.Zero) {
			t.Fatalf("stock %s has non-positive price %s", sq.Symbol, sq.Price)
		}
	}
}

func TestMockSnapshotSeededReproducible(t *testing.T) {
	a := NewSeededMockGenerator(7).MarketSnapshot()
	b := NewSeededMockGenerator(7).MarketSnapshot()

	for i := range a.Stocks {
		if !a.Stocks[i].Price.Equal(b.Stocks[i].Price) {
			t.Fatalf("seeded runs diverged at %s: %s vs %s",
				a.Stocks[i].Symbol, a.Stocks[i].Price, b.Stocks[i].Price)
		}
	}
}
