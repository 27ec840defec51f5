package dataflows

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"dolarwatch/config"
	"dolarwatch/internal/models"
)

const investingPage = `<!DOCTYPE html>
<html>
<head><title>USD ARS | Dólar Peso Argentino</title></head>
<body>
  <h1>USD/ARS - Dólar estadounidense Peso argentino</h1>
  <div data-test="instrument-price-last">1.350,75</div>
</body>
</html>`

func newTestScraper(t *testing.T, handler http.HandlerFunc) *InvestingScraper {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfigWithRoot(t.TempDir())
	cfg.CacheEnabled = false
	cfg.DataSources["investing_usd_ars"] = server.URL

	scraper := NewInvestingScraper(cfg)
	scraper.retry = fastRetry(0)
	return scraper
}

func TestFetchSpot(t *testing.T) {
	scraper := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(investingPage))
	})

	batch, err := scraper.FetchSpot(context.Background())
	if err != nil {
		t.Fatalf("FetchSpot: %v", err)
	}

	if batch.Fuente != models.SourceInvesting {
		t.Fatalf("unexpected fuente %s", batch.Fuente)
	}
	if len(batch.Datos) != 1 {
		t.Fatalf("expected 1 record, got %d", len(batch.Datos))
	}

	rec := batch.Datos[0]
	want := decimal.NewFromFloat(1350.75)
	if !rec.Venta.Equal(want) {
		t.Fatalf("expected venta %s, got %s", want, rec.Venta)
	}
	if rec.Nombre == "" {
		t.Fatalf("nombre should come from the page header")
	}
}

func TestFetchSpotBlockedPage(t *testing.T) {
	scraper := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><h1>Verifica que eres humano</h1></body></html>`))
	})

	if _, err := scraper.FetchSpot(context.Background()); err == nil {
		t.Fatalf("expected error when the price element is missing")
	}
}

func TestFetchSpotHTTPError(t *testing.T) {
	scraper := newTestScraper(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	})

	if _, err := scraper.FetchSpot(context.Background()); err == nil {
		t.Fatalf("expected error for 403 response")
	}
}

func TestParseLocalizedPrice(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"1.350,75", "1350.75"},
		{"1350.75", "1350.75"},
		{"980,50", "980.5"},
		{" 1.234.567,89 ", "1234567.89"},
	}

	for _, tc := range cases {
		got, err := parseLocalizedPrice(tc.in)
		if err != nil {
			t.Fatalf("parseLocalizedPrice(%q): %v", tc.in, err)
		}
		if got.String() != tc.want {
			t.Fatalf("parseLocalizedPrice(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}

	if _, err := parseLocalizedPrice("sin precio"); err == nil {
		t.Fatalf("expected error for non-numeric text")
	}
}
