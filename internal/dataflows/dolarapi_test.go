package dataflows

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"dolarwatch/config"
	"dolarwatch/internal/models"
)

const dolaresPayload = `[
	{"moneda":"USD","casa":"oficial","nombre":"Oficial","compra":1400,"venta":1450,"fechaActualizacion":"2026-08-25T11:00:00.000Z"},
	{"moneda":"USD","casa":"blue","nombre":"Blue","compra":1420,"venta":1440,"fechaActualizacion":"2026-08-25T11:00:00.000Z"}
]`

func newTestClient(t *testing.T, handler http.HandlerFunc, cacheEnabled bool) (*DolarAPIClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.DolarAPIBaseURL = server.URL
	cfg.CacheEnabled = cacheEnabled

	dc := NewDolarAPIClient(cfg)
	dc.retry = fastRetry(0)
	return dc, server
}

func TestFetchQuotes(t *testing.T) {
	dc, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/dolares" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(dolaresPayload))
	}, false)

	batch, err := dc.FetchQuotes(context.Background())
	if err != nil {
		t.Fatalf("FetchQuotes: %v", err)
	}

	if batch.Fuente != models.SourceDolarAPI {
		t.Fatalf("unexpected fuente %s", batch.Fuente)
	}
	if batch.TotalCotizaciones != 2 {
		t.Fatalf("expected 2 cotizaciones, got %d", batch.TotalCotizaciones)
	}
	if batch.Datos[0].Casa != "oficial" || batch.Datos[1].Casa != "blue" {
		t.Fatalf("fetch order not preserved: %s, %s", batch.Datos[0].Casa, batch.Datos[1].Casa)
	}
	if !batch.Datos[1].Venta.Equal(decimal.NewFromInt(1440)) {
		t.Fatalf("unexpected blue venta %s", batch.Datos[1].Venta)
	}
}

func TestFetchQuotesServerError(t *testing.T) {
	dc, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}, false)

	_, err := dc.FetchQuotes(context.Background())
	if err == nil {
		t.Fatalf("expected error for 503 response")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Fatalf("error should carry the status code, got %q", err)
	}
}

func TestFetchQuotesMalformedJSON(t *testing.T) {
	dc, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"`))
	}, false)

	_, err := dc.FetchQuotes(context.Background())
	if err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestFetchQuotesEmptyBoard(t *testing.T) {
	dc, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}, false)

	_, err := dc.FetchQuotes(context.Background())
	if err == nil {
		t.Fatalf("expected error for empty quote board")
	}
}

func TestFetchQuotesUsesCache(t *testing.T) {
	calls := 0
	dc, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(dolaresPayload))
	}, true)

	if _, err := dc.FetchQuotes(context.Background()); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	if _, err := dc.FetchQuotes(context.Background()); err != nil {
		t.Fatalf("second fetch: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected a single upstream call, got %d", calls)
	}
}
