package analyst

import (
	"testing"

	"github.com/shopspring/decimal"

	"dolarwatch/internal/models"
)

func record(casa, nombre string, compra, venta float64) models.QuoteRecord {
	return models.QuoteRecord{
		Moneda:             "USD",
		Casa:               casa,
		Nombre:             nombre,
		Compra:             decimal.NewFromFloat(compra),
		Venta:              decimal.NewFromFloat(venta),
		FechaActualizacion: "2026-08-25T11:00:00.000Z",
	}
}

func referenceBatch() *models.QuoteBatch {
	return models.NewQuoteBatch(models.SourceDolarAPI, []models.QuoteRecord{
		record("oficial", "Oficial", 1400, 1450),
		record("blue", "Blue", 1420, 1440),
	})
}

func TestComputeGapsReferenceNumbers(t *testing.T) {
	oficial, gaps, err := ComputeGaps(referenceBatch())
	if err != nil {
		t.Fatalf("ComputeGaps: %v", err)
	}

	if !oficial.Venta.Equal(decimal.NewFromInt(1450)) {
		t.Fatalf("unexpected oficial venta %s", oficial.Venta)
	}
	if len(gaps) != 1 {
		t.Fatalf("expected 1 gap, got %d", len(gaps))
	}

	blue := gaps[0]
	if blue.Casa != "blue" {
		t.Fatalf("unexpected casa %s", blue.Casa)
	}
	// (1440 - 1450) / 1450 * 100 = -0.69 on the sell side.
	if blue.GapPercentage.String() != "-0.69" {
		t.Fatalf("expected gap -0.69, got %s", blue.GapPercentage)
	}
	if blue.GapAmount.String() != "-10" {
		t.Fatalf("expected gap amount -10, got %s", blue.GapAmount)
	}
}

func TestComputeGapsPositive(t *testing.T) {
	batch := models.NewQuoteBatch(models.SourceDolarAPI, []models.QuoteRecord{
		record("oficial", "Oficial", 1400, 1450),
		record("cripto", "Cripto", 1500, 1523),
	})

	_, gaps, err := ComputeGaps(batch)
	if err != nil {
		t.Fatalf("ComputeGaps: %v", err)
	}
	// (1523 - 1450) / 1450 * 100 = 5.03
	if gaps[0].GapPercentage.String() != "5.03" {
		t.Fatalf("expected gap 5.03, got %s", gaps[0].GapPercentage)
	}
	if gaps[0].GapAmount.String() != "73" {
		t.Fatalf("expected gap amount 73, got %s", gaps[0].GapAmount)
	}
}

func TestComputeGapsWithoutOficial(t *testing.T) {
	batch := models.NewQuoteBatch(models.SourceDolarAPI, []models.QuoteRecord{
		record("blue", "Blue", 1420, 1440),
	})

	if _, _, err := ComputeGaps(batch); err == nil {
		t.Fatalf("expected error without oficial record")
	}
}

func TestComputeGapsKeepsBatchOrder(t *testing.T) {
	batch := models.NewQuoteBatch(models.SourceDolarAPI, []models.QuoteRecord{
		record("blue", "Blue", 1420, 1440),
		record("oficial", "Oficial", 1400, 1450),
		record("bolsa", "Bolsa", 1380, 1395),
		record("cripto", "Cripto", 1430, 1460),
	})

	_, gaps, err := ComputeGaps(batch)
	if err != nil {
		t.Fatalf("ComputeGaps: %v", err)
	}

	want := []string{"blue", "bolsa", "cripto"}
	for i, casa := range want {
		if gaps[i].Casa != casa {
			t.Fatalf("gap %d: expected %s, got %s", i, casa, gaps[i].Casa)
		}
	}
}

func TestComputeSpreadsReferenceNumbers(t *testing.T) {
	spreads := ComputeSpreads(referenceBatch())

	if len(spreads) != 2 {
		t.Fatalf("expected 2 spreads, got %d", len(spreads))
	}

	oficial := spreads[0]
	if oficial.Spread.String() != "50" {
		t.Fatalf("expected oficial spread 50, got %s", oficial.Spread)
	}
	// 50 / 1400 * 100 = 3.57
	if oficial.SpreadPercentage.String() != "3.57" {
		t.Fatalf("expected oficial spread pct 3.57, got %s", oficial.SpreadPercentage)
	}

	blue := spreads[1]
	if blue.Spread.String() != "20" {
		t.Fatalf("expected blue spread 20, got %s", blue.Spread)
	}
	// 20 / 1420 * 100 = 1.41
	if blue.SpreadPercentage.String() != "1.41" {
		t.Fatalf("expected blue spread pct 1.41, got %s", blue.SpreadPercentage)
	}
}

func TestComputeSpreadsZeroCompra(t *testing.T) {
	batch := models.NewQuoteBatch(models.SourceDolarAPI, []models.QuoteRecord{
		record("tarjeta", "Tarjeta", 0, 1885),
	})

	spreads := ComputeSpreads(batch)
	if spreads[0].Spread.String() != "1885" {
		t.Fatalf("expected spread 1885, got %s", spreads[0].Spread)
	}
	if !spreads[0].SpreadPercentage.IsZero() {
		t.Fatalf("spread percentage must be zero without a buy price, got %s", spreads[0].SpreadPercentage)
	}
}
