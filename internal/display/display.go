package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"dolarwatch/internal/models"
)

// ReportDisplay handles the terminal rendering of an analysis report.
type ReportDisplay struct {
	source string
	date   string
}

// NewReportDisplay creates a display handler for a report generated from
// the given data source at the given timestamp.
func NewReportDisplay(source, timestamp string) *ReportDisplay {
	date := timestamp
	if t, err := time.Parse(time.RFC3339, timestamp); err == nil {
		date = t.Format("2006-01-02 15:04")
	} else if len(date) > 16 {
		date = date[:16]
	}
	return &ReportDisplay{
		source: source,
		date:   date,
	}
}

// ShowReport prints the full analysis report to the terminal.
func (d *ReportDisplay) ShowReport(report *models.AnalysisReport) {
	d.showHeader()
	d.showExecutiveSummary(report)
	d.showQuotes(report)
	d.showGaps(report)
	d.showSpreads(report)
	d.showMarketContext(report)
	d.showFooter()
}

// showHeader displays the report header
func (d *ReportDisplay) showHeader() {
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════════════════════╗")
	fmt.Println("║                   📊 REPORTE DE COTIZACIONES DEL DÓLAR                    ║")
	fmt.Printf("║                  Fuente: %-15s Fecha: %-16s         ║\n", d.source, d.date)
	fmt.Println("╚═══════════════════════════════════════════════════════════════════════════╝")
	fmt.Println()
}

// showExecutiveSummary displays the executive summary
func (d *ReportDisplay) showExecutiveSummary(report *models.AnalysisReport) {
	fmt.Println("📈 RESUMEN EJECUTIVO")
	fmt.Println("══════════════════════════════════════════════════════════════════════════")

	fmt.Printf("💵 Cotizaciones analizadas: %d\n", report.CotizationsAnalysis.TotalCotizations)
	if oficial := report.GapsAnalysis.OficialCotization; oficial != nil {
		fmt.Printf("🏛️  Dólar oficial: compra $%s / venta $%s\n",
			oficial.Compra.StringFixed(2), oficial.Venta.StringFixed(2))
	}
	fmt.Println()

	if report.Summary != "" {
		d.displayWrappedText(report.Summary, "")
	} else {
		fmt.Println("(Sin resumen disponible)")
	}
	fmt.Println()
}

// showQuotes displays the per-quote narrative
func (d *ReportDisplay) showQuotes(report *models.AnalysisReport) {
	fmt.Println("💵 ANÁLISIS DE COTIZACIONES")
	fmt.Println("══════════════════════════════════════════════════════════════════════════")

	for _, quote := range report.CotizationsAnalysis.Cotizations {
		fmt.Printf("   • %-14s compra $%s / venta $%s\n",
			quote.Nombre+":", quote.Compra.StringFixed(2), quote.Venta.StringFixed(2))
	}
	fmt.Println()

	d.showSection("Lectura del mercado", report.CotizationsAnalysis.Analysis, "📝")
}

// showGaps displays the gaps against the oficial rate
func (d *ReportDisplay) showGaps(report *models.AnalysisReport) {
	fmt.Println("📊 BRECHAS CAMBIARIAS")
	fmt.Println("══════════════════════════════════════════════════════════════════════════")

	if len(report.GapsAnalysis.Gaps) == 0 {
		fmt.Println("   (Sin dólar oficial de referencia, no hay brechas calculadas)")
		fmt.Println()
		return
	}

	for _, gap := range report.GapsAnalysis.Gaps {
		fmt.Printf("   %s %-14s %s%% ($%s)\n",
			gapEmoji(gap.GapPercentage),
			gap.Nombre+":",
			signedAmount(gap.GapPercentage),
			signedAmount(gap.GapAmount),
		)
	}
	fmt.Println()

	d.showSection("Lectura de las brechas", report.GapsAnalysis.Analysis, "📝")
}

// showSpreads displays the buy/sell spread of each house
func (d *ReportDisplay) showSpreads(report *models.AnalysisReport) {
	fmt.Println("📉 SPREADS COMPRA-VENTA")
	fmt.Println("══════════════════════════════════════════════════════════════════════════")

	if len(report.TrendsAnalysis.PricesAnalysis) == 0 {
		fmt.Println("   (Sin spreads calculados)")
		fmt.Println()
		return
	}

	for _, spread := range report.TrendsAnalysis.PricesAnalysis {
		fmt.Printf("   • %-14s $%s (%s%%)\n",
			spread.Nombre+":", spread.Spread.String(), spread.SpreadPercentage.String())
	}
	fmt.Println()

	d.showSection("Lectura de tendencias", report.TrendsAnalysis.Analysis, "📝")
}

// showMarketContext displays the optional stock watchlist context
func (d *ReportDisplay) showMarketContext(report *models.AnalysisReport) {
	market := report.MarketContext
	if market == nil {
		return
	}

	fmt.Println("🏦 CONTEXTO DE MERCADO (BYMA)")
	fmt.Println("══════════════════════════════════════════════════════════════════════════")

	if market.Merval != nil {
		fmt.Printf("   📈 %s: %s (%s%%)\n",
			market.Merval.Name, market.Merval.Price.StringFixed(2),
			signedAmount(market.Merval.ChangePercent))
	}
	for _, stock := range market.Stocks {
		fmt.Printf("   • %-8s $%-10s %s%%\n",
			stock.Symbol, stock.Price.StringFixed(2), signedAmount(stock.ChangePercent))
	}
	if market.DataType == models.StockSourceMock {
		fmt.Println("   (Datos simulados, el mercado no estaba disponible)")
	}
	fmt.Println()
}

// showFooter displays the report footer
func (d *ReportDisplay) showFooter() {
	fmt.Println("══════════════════════════════════════════════════════════════════════════")
	fmt.Printf("🕐 Reporte generado: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Println("🤖 Sistema Multiagente de Análisis Financiero Argentina")
	fmt.Println("⚠️  Este reporte es informativo y no constituye asesoramiento financiero.")
	fmt.Println("══════════════════════════════════════════════════════════════════════════")
	fmt.Println()
}

// showSection displays a section with title and wrapped content
func (d *ReportDisplay) showSection(title, content, emoji string) {
	fmt.Printf("%s %s:\n", emoji, title)
	if content != "" {
		d.displayWrappedText(content, "   ")
	} else {
		fmt.Println("   (Sin datos disponibles)")
	}
	fmt.Println()
}

// displayWrappedText displays text with word wrapping and indentation
func (d *ReportDisplay) displayWrappedText(text, indent string) {
	const maxWidth = 75
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	line := indent + words[0]
	for i := 1; i < len(words); i++ {
		if len(line)+1+len(words[i]) > maxWidth {
			fmt.Println(line)
			line = indent + words[i]
		} else {
			line += " " + words[i]
		}
	}
	if line != indent {
		fmt.Println(line)
	}
}

// gapEmoji marks whether a house trades above or below the oficial rate.
func gapEmoji(pct decimal.Decimal) string {
	switch {
	case pct.IsPositive():
		return "🔺"
	case pct.IsNegative():
		return "🔻"
	default:
		return "⚪"
	}
}

// signedAmount renders a decimal with an explicit plus sign on positives.
func signedAmount(d decimal.Decimal) string {
	if d.IsPositive() {
		return "+" + d.String()
	}
	return d.String()
}

// DisplayProgress shows pipeline progress as a single updating line.
func DisplayProgress(phase string, progress int, total int) {
	barWidth := 40
	filledWidth := (progress * barWidth) / total

	bar := strings.Repeat("█", filledWidth) + strings.Repeat("░", barWidth-filledWidth)
	percentage := (progress * 100) / total

	fmt.Printf("\r🔄 %s [%s] %d%% (%d/%d)",
		phase, bar, percentage, progress, total)

	if progress >= total {
		fmt.Println(" ✅")
	}
}

// DisplayError shows formatted error messages
func DisplayError(err error, context string) {
	fmt.Printf("❌ Error en %s:\n", context)
	fmt.Printf("   %v\n", err)
	fmt.Println("   💡 Revisá la configuración y el archivo .env")
}

// DisplayWarning shows formatted warning messages
func DisplayWarning(message string) {
	fmt.Printf("⚠️  Advertencia: %s\n", message)
}

// DisplaySuccess shows formatted success messages
func DisplaySuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// DisplayInfo shows formatted info messages
func DisplayInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}
