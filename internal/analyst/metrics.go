package analyst

import (
	"fmt"

	"github.com/shopspring/decimal"

	"dolarwatch/internal/models"
)

var hundred = decimal.NewFromInt(100)

// ComputeGaps measures every non-oficial sell price against the oficial
// rate. The oficial venta is the base of the percentage.
func ComputeGaps(batch *models.QuoteBatch) (*models.QuoteRecord, []models.GapMetric, error) {
	oficial, ok := batch.Official()
	if !ok {
		return nil, nil, fmt.Errorf("la cotización oficial no está presente en los datos")
	}
	if oficial.Venta.IsZero() {
		return nil, nil, fmt.Errorf("la cotización oficial tiene venta en cero")
	}

	gaps := make([]models.GapMetric, 0, len(batch.Datos)-1)
	for _, rec := range batch.Datos {
		if rec.Casa == models.CasaOficial {
			continue
		}

		amount := rec.Venta.Sub(oficial.Venta)
		pct := amount.Div(oficial.Venta).Mul(hundred)

		gaps = append(gaps, models.GapMetric{
			Casa:          rec.Casa,
			Nombre:        rec.Nombre,
			Venta:         rec.Venta,
			GapPercentage: pct.Round(2),
			GapAmount:     amount.Round(2),
		})
	}

	return oficial, gaps, nil
}

// ComputeSpreads measures the buy/sell spread per house. Houses without a
// buy price (tarjeta) report a zero spread percentage.
func ComputeSpreads(batch *models.QuoteBatch) []models.SpreadMetric {
	spreads := make([]models.SpreadMetric, 0, len(batch.Datos))
	for _, rec := range batch.Datos {
		spread := rec.Venta.Sub(rec.Compra)

		pct := decimal.Zero
		if rec.Compra.IsPositive() {
			pct = spread.Div(rec.Compra).Mul(hundred).Round(2)
		}

		spreads = append(spreads, models.SpreadMetric{
			Casa:             rec.Casa,
			Nombre:           rec.Nombre,
			Compra:           rec.Compra,
			Venta:            rec.Venta,
			Spread:           spread.Round(2),
			SpreadPercentage: pct,
		})
	}

	return spreads
}
