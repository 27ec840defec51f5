package renderer

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"dolarwatch/internal/models"
)

// analysisRuneLimit caps each detailed analysis section in the PDF.
const analysisRuneLimit = 1000

// composePDF assembles the A4 report document and returns its path.
// Core fonts only; the unicode translator maps Spanish accents to cp1252.
func (r *Renderer) composePDF(report *models.AnalysisReport, charts []chartImage, stamp string) (string, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	reportDate := time.Now()
	if ts, err := time.Parse(time.RFC3339, report.Timestamp); err == nil {
		reportDate = ts
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(0, 0, 139)
	pdf.CellFormat(0, 12, tr("Reporte de Cotizaciones del Dólar"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("Fecha: %s", reportDate.Format("02/01/2006 15:04"))), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	sectionHeading(pdf, tr, "Resumen Ejecutivo")
	summary := report.Summary
	if strings.TrimSpace(summary) == "" {
		summary = "No hay resumen disponible."
	}
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(summary), "", "L", false)
	pdf.Ln(6)

	if len(report.CotizationsAnalysis.Cotizations) > 0 {
		sectionHeading(pdf, tr, "Datos de Cotizaciones")
		quoteTable(pdf, tr, report.CotizationsAnalysis.Cotizations)
		pdf.Ln(6)
	}

	for _, chart := range charts {
		sectionHeading(pdf, tr, chart.title)
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, tr(chart.description), "", "L", false)
		pdf.Ln(2)
		pdf.ImageOptions(chart.path, 20, 0, 170, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pdf.Ln(6)
	}

	sectionHeading(pdf, tr, "Análisis Detallado")
	analysisSection(pdf, tr, "Análisis de Cotizaciones", report.CotizationsAnalysis.Analysis)
	analysisSection(pdf, tr, "Análisis de Brechas Cambiarias", report.GapsAnalysis.Analysis)
	analysisSection(pdf, tr, "Análisis de Tendencias", report.TrendsAnalysis.Analysis)

	pdf.Ln(10)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, tr("Reporte generado automáticamente por el Sistema Multiagente de Análisis Financiero"), "", "L", false)
	pdf.CellFormat(0, 5, fmt.Sprintf("Timestamp: %s", time.Now().Format("2006-01-02 15:04:05")), "", 1, "L", false, 0, "")

	path := filepath.Join(r.presentationsDir, fmt.Sprintf("dolar_report_%s.pdf", stamp))
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write PDF %s: %w", path, err)
	}
	return path, nil
}

func sectionHeading(pdf *fpdf.Fpdf, tr func(string) string, title string) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetTextColor(0, 0, 139)
	pdf.CellFormat(0, 9, tr(title), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(1)
}

// analysisSection writes one detailed analysis block, skipping empty text.
func analysisSection(pdf *fpdf.Fpdf, tr func(string) string, title, text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 7, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, tr(truncateAnalysis(text)), "", "L", false)
	pdf.Ln(4)
}

// quoteTable renders the cotization data table with a grey header row and
// beige body over a full grid.
func quoteTable(pdf *fpdf.Fpdf, tr func(string) string, quotes []models.QuoteRecord) {
	headers := []string{"Tipo", "Compra (ARS)", "Venta (ARS)", "Actualización"}
	widths := []float64{60, 35, 35, 40}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, q := range quotes {
		updated := q.FechaActualizacion
		if len(updated) > 16 {
			updated = updated[:16]
		}
		cells := []string{q.Nombre, formatARS(q.Compra), formatARS(q.Venta), updated}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 7, tr(cell), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
}

// truncateAnalysis keeps the first analysisRuneLimit runes and marks the
// cut with an ellipsis.
func truncateAnalysis(text string) string {
	runes := []rune(text)
	if len(runes) > analysisRuneLimit {
		runes = runes[:analysisRuneLimit]
	}
	return string(runes) + "..."
}

// formatARS renders a peso amount with thousands separators, like $1,450.
func formatARS(d decimal.Decimal) string {
	s := d.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		s = "-" + s
	}
	return "$" + s
}
