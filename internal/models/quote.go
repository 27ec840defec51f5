package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Houses the pipeline treats specially. Casa is open-ended upstream; any
// house DolarAPI adds flows through without code changes.
const (
	CasaOficial = "oficial"
	CasaBlue    = "blue"
)

// Batch sources, recorded in the persisted envelope.
const (
	SourceDolarAPI  = "DolarAPI"
	SourceInvesting = "Investing"
	SourceMock      = "Simulado"
)

// QuoteRecord is a single exchange-rate quote in the DolarAPI wire format.
type QuoteRecord struct {
	Moneda             string          `json:"moneda"`
	Casa               string          `json:"casa"`
	Nombre             string          `json:"nombre"`
	Compra             decimal.Decimal `json:"compra"`
	Venta              decimal.Decimal `json:"venta"`
	FechaActualizacion string          `json:"fechaActualizacion"`
}

// QuoteBatch is the persisted envelope around one fetch run. Datos keeps the
// fetch order; every downstream table and chart renders in that order.
type QuoteBatch struct {
	TimestampConsulta string        `json:"timestamp_consulta"`
	TotalCotizaciones int           `json:"total_cotizaciones"`
	Fuente            string        `json:"fuente"`
	Datos             []QuoteRecord `json:"datos"`
}

// NewQuoteBatch stamps the envelope metadata around a fetched record set.
func NewQuoteBatch(source string, records []QuoteRecord) *QuoteBatch {
	return &QuoteBatch{
		TimestampConsulta: time.Now().Format(time.RFC3339),
		TotalCotizaciones: len(records),
		Fuente:            source,
		Datos:             records,
	}
}

// Validate rejects batches the analysis stages cannot work with: empty
// batches, duplicate houses and records quoted below their own buy price.
func (b *QuoteBatch) Validate() error {
	if len(b.Datos) == 0 {
		return fmt.Errorf("empty quote batch from %s", b.Fuente)
	}
	seen := make(map[string]bool, len(b.Datos))
	for _, rec := range b.Datos {
		if seen[rec.Casa] {
			return fmt.Errorf("duplicate casa %q in batch", rec.Casa)
		}
		seen[rec.Casa] = true
		if rec.Venta.LessThan(rec.Compra) {
			return fmt.Errorf("casa %q: venta %s below compra %s", rec.Casa, rec.Venta, rec.Compra)
		}
	}
	return nil
}

// Official returns the oficial-house record when the batch carries one.
func (b *QuoteBatch) Official() (*QuoteRecord, bool) {
	for i := range b.Datos {
		if b.Datos[i].Casa == CasaOficial {
			return &b.Datos[i], true
		}
	}
	return nil, false
}
