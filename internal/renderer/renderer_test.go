package renderer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"dolarwatch/config"
	"dolarwatch/internal/models"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	return NewRenderer(config.DefaultConfigWithRoot(t.TempDir()))
}

func fullReport() *models.AnalysisReport {
	oficial := models.QuoteRecord{
		Moneda: "USD", Casa: "oficial", Nombre: "Oficial",
		Compra: decimal.NewFromInt(1400), Venta: decimal.NewFromInt(1450),
		FechaActualizacion: "2026-08-25T11:00:00.000Z",
	}
	blue := models.QuoteRecord{
		Moneda: "USD", Casa: "blue", Nombre: "Blue",
		Compra: decimal.NewFromInt(1420), Venta: decimal.NewFromInt(1440),
		FechaActualizacion: "2026-08-25T11:00:00.000Z",
	}

	return &models.AnalysisReport{
		Timestamp:  "2026-08-25T11:30:00Z",
		DataSource: models.SourceDolarAPI,
		CotizationsAnalysis: models.CotizationsAnalysis{
			TotalCotizations: 2,
			Cotizations:      []models.QuoteRecord{oficial, blue},
			Analysis:         "El mercado cambiario muestra una brecha acotada.",
		},
		GapsAnalysis: models.GapsAnalysis{
			OficialCotization: &oficial,
			Gaps: []models.GapMetric{{
				Casa: "blue", Nombre: "Blue",
				Venta:         decimal.NewFromInt(1440),
				GapPercentage: decimal.NewFromFloat(-0.69),
				GapAmount:     decimal.NewFromInt(-10),
			}},
			Analysis: "La brecha del blue es negativa.",
		},
		TrendsAnalysis: models.TrendsAnalysis{
			PricesAnalysis: []models.SpreadMetric{
				{
					Casa: "oficial", Nombre: "Oficial",
					Compra: decimal.NewFromInt(1400), Venta: decimal.NewFromInt(1450),
					Spread: decimal.NewFromInt(50), SpreadPercentage: decimal.NewFromFloat(3.57),
				},
				{
					Casa: "blue", Nombre: "Blue",
					Compra: decimal.NewFromInt(1420), Venta: decimal.NewFromInt(1440),
					Spread: decimal.NewFromInt(20), SpreadPercentage: decimal.NewFromFloat(1.41),
				},
			},
			Analysis: "Los spreads se mantienen estables.",
		},
		Summary: "Resumen ejecutivo del día.",
	}
}

func assertFileMagic(t *testing.T, path, magic string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	if len(data) < len(magic) || string(data[:len(magic)]) != magic {
		t.Fatalf("%s does not start with %q", path, magic)
	}
}

func TestRenderProducesChartsAndPDF(t *testing.T) {
	r := newTestRenderer(t)

	result, err := r.Render(fullReport())
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	wantCharts := []string{
		"cotizaciones_20260825_113000.png",
		"brechas_20260825_113000.png",
		"spreads_20260825_113000.png",
		"ranking_20260825_113000.png",
	}
	if len(result.ChartPaths) != len(wantCharts) {
		t.Fatalf("expected %d charts, got %d", len(wantCharts), len(result.ChartPaths))
	}
	for i, want := range wantCharts {
		if filepath.Base(result.ChartPaths[i]) != want {
			t.Fatalf("chart %d: expected %s, got %s", i, want, filepath.Base(result.ChartPaths[i]))
		}
		assertFileMagic(t, result.ChartPaths[i], "\x89PNG")
	}

	if filepath.Base(result.PDFPath) != "dolar_report_20260825_113000.pdf" {
		t.Fatalf("unexpected PDF name %s", filepath.Base(result.PDFPath))
	}
	assertFileMagic(t, result.PDFPath, "%PDF")
}

func TestRenderSkipsChartsWithoutData(t *testing.T) {
	r := newTestRenderer(t)

	report := fullReport()
	report.GapsAnalysis.Gaps = nil
	report.TrendsAnalysis.PricesAnalysis = nil

	result, err := r.Render(report)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if len(result.ChartPaths) != 2 {
		t.Fatalf("expected 2 charts without gap and spread data, got %d", len(result.ChartPaths))
	}
	for _, path := range result.ChartPaths {
		name := filepath.Base(path)
		if strings.HasPrefix(name, "brechas_") || strings.HasPrefix(name, "spreads_") {
			t.Fatalf("chart %s must be skipped without data", name)
		}
	}
	if result.PDFPath == "" {
		t.Fatalf("PDF must still be produced")
	}
}

func TestRenderZeroMetrics(t *testing.T) {
	r := newTestRenderer(t)

	report := fullReport()
	report.GapsAnalysis.Gaps[0].GapPercentage = decimal.Zero
	report.GapsAnalysis.Gaps[0].GapAmount = decimal.Zero
	for i := range report.TrendsAnalysis.PricesAnalysis {
		report.TrendsAnalysis.PricesAnalysis[i].Spread = decimal.Zero
		report.TrendsAnalysis.PricesAnalysis[i].SpreadPercentage = decimal.Zero
	}

	result, err := r.Render(report)
	if err != nil {
		t.Fatalf("Render with zero metrics: %v", err)
	}
	if len(result.ChartPaths) != 4 {
		t.Fatalf("expected 4 charts, got %d", len(result.ChartPaths))
	}
}

func TestRenderNilReport(t *testing.T) {
	r := newTestRenderer(t)

	if _, err := r.Render(nil); err == nil {
		t.Fatalf("expected error for nil report")
	}
}

func TestRenderStampFallsBack(t *testing.T) {
	stamp := renderStamp(&models.AnalysisReport{Timestamp: "no es una fecha"})
	if len(stamp) != 15 || stamp[8] != '_' {
		t.Fatalf("fallback stamp %q not in 20060102_150405 form", stamp)
	}
}

func TestTruncateAnalysis(t *testing.T) {
	if got := truncateAnalysis("hola"); got != "hola..." {
		t.Fatalf("unexpected short truncation %q", got)
	}

	long := strings.Repeat("á", 1200)
	got := truncateAnalysis(long)
	if utf8.RuneCountInString(got) != analysisRuneLimit+3 {
		t.Fatalf("expected %d runes, got %d", analysisRuneLimit+3, utf8.RuneCountInString(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("truncated text must end with ellipsis")
	}
}

func TestFormatARS(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{1450, "$1,450"},
		{950, "$950"},
		{1234567.89, "$1,234,568"},
		{0, "$0"},
		{-10, "$-10"},
	}
	for _, tc := range cases {
		if got := formatARS(decimal.NewFromFloat(tc.in)); got != tc.want {
			t.Fatalf("formatARS(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
