package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"dolarwatch/internal/models"
	"dolarwatch/internal/orchestrator"
)

// UI styles
var (
	// Base styles
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Background(lipgloss.Color("#1F2937")).
		Padding(0, 1).
		MarginBottom(1)

	headerStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6")).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(1, 2).
		Width(80)

	tableStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#10B981")).
		Padding(1, 2).
		Width(80)

	summaryStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F59E0B")).
		Padding(1, 2).
		Width(80)

	statusPanelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(1, 2).
		Width(80)

	// Status styles
	pendingStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))

	completedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	warningStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F59E0B")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	officialRowStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6")).
		Bold(true)
)

// DisplayWelcomeBanner shows the welcome banner
func DisplayWelcomeBanner() {
	banner := `
██████╗  ██████╗ ██╗      █████╗ ██████╗ ██╗    ██╗ █████╗ ████████╗ ██████╗██╗  ██╗
██╔══██╗██╔═══██╗██║     ██╔══██╗██╔══██╗██║    ██║██╔══██╗╚══██╔══╝██╔════╝██║  ██║
██║  ██║██║   ██║██║     ███████║██████╔╝██║ █╗ ██║███████║   ██║   ██║     ███████║
██║  ██║██║   ██║██║     ██╔══██║██╔══██╗██║███╗██║██╔══██║   ██║   ██║     ██╔══██║
██████╔╝╚██████╔╝███████╗██║  ██║██║  ██║╚███╔███╔╝██║  ██║   ██║   ╚██████╗██║  ██║
╚═════╝  ╚═════╝ ╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝ ╚══╝╚══╝ ╚═╝  ╚═╝   ╚═╝    ╚═════╝╚═╝  ╚═╝

              💵 Cotizaciones del Dólar Argentino en Tiempo Real 💵
`

	welcomeStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Align(lipgloss.Center).
		Width(84).
		MarginBottom(1)

	taglineStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6")).
		Italic(true).
		Align(lipgloss.Center).
		Width(84).
		MarginBottom(2)

	fmt.Print(welcomeStyle.Render(banner))
	fmt.Print(taglineStyle.Render("Sistema multiagente de análisis financiero · Eino + Gemini + DolarAPI"))
	fmt.Println()
}

// ClearScreen clears the terminal screen
func ClearScreen() {
	fmt.Print("\033[2J\033[H")
}

// DisplayPipelineHeader shows the header of a pipeline stage run
func DisplayPipelineHeader(stage string, cfg string) {
	header := fmt.Sprintf("💵 DolarWatch | 🎯 Etapa: %s | 🤖 Modelo: %s", stage, cfg)
	fmt.Println(headerStyle.Render(header))
}

// RenderQuoteTable shows the fetched quotes as a bordered table
func RenderQuoteTable(batch *models.QuoteBatch) {
	if batch == nil || len(batch.Datos) == 0 {
		fmt.Println(tableStyle.Render("Sin cotizaciones para mostrar"))
		return
	}

	var content strings.Builder

	content.WriteString(fmt.Sprintf("💵 Cotizaciones (%s) · %s\n\n",
		batch.Fuente, formatClock(batch.TimestampConsulta)))
	content.WriteString(fmt.Sprintf("%-12s %-22s %10s %10s   %s\n",
		"Casa", "Nombre", "Compra", "Venta", "Hora"))
	content.WriteString(strings.Repeat("─", 64) + "\n")

	for _, quote := range batch.Datos {
		line := fmt.Sprintf("%-12s %-22s %10s %10s   %s",
			quote.Casa,
			truncateString(quote.Nombre, 22),
			"$"+quote.Compra.StringFixed(2),
			"$"+quote.Venta.StringFixed(2),
			formatHourMinute(quote.FechaActualizacion),
		)
		if quote.Casa == models.CasaOficial {
			line = officialRowStyle.Render(line)
		}
		content.WriteString(line + "\n")
	}

	fmt.Println(tableStyle.Render(content.String()))
}

// RenderStepStatus shows the per-stage outcome of a pipeline run
func RenderStepStatus(run *orchestrator.PipelineRun) {
	if run == nil {
		return
	}

	fmt.Println()
	for _, name := range orchestrator.StepOrder {
		step, ok := run.Steps[name]
		if !ok {
			fmt.Println(pendingStyle.Render(fmt.Sprintf("⏳ %s: pendiente", stepLabel(name))))
			continue
		}

		switch step.Status {
		case orchestrator.StepSuccess:
			line := fmt.Sprintf("✅ %s: %s", stepLabel(name), step.Detail)
			if step.OutputFile != "" {
				line += fmt.Sprintf(" → %s", step.OutputFile)
			}
			fmt.Println(completedStyle.Render(line))
		case orchestrator.StepFailed:
			fmt.Println(errorStyle.Render(fmt.Sprintf("❌ %s: %s", stepLabel(name), step.Error)))
		case orchestrator.StepSkipped:
			fmt.Println(warningStyle.Render(fmt.Sprintf("⚠️  %s: omitida", stepLabel(name))))
		}
	}

	fmt.Println()
	statusLine := fmt.Sprintf("Estado final: %s (%.2fs)", run.Status, run.ExecutionTimeSeconds)
	switch run.Status {
	case orchestrator.StatusCompleted:
		fmt.Println(completedStyle.Render(statusLine))
	case orchestrator.StatusCompletedWithErrors:
		fmt.Println(warningStyle.Render(statusLine))
	default:
		fmt.Println(errorStyle.Render(statusLine))
	}

	for _, errMsg := range run.Errors {
		fmt.Println(errorStyle.Render("   • " + errMsg))
	}
	fmt.Println()
}

// RenderReportSummary shows a compact panel with the analysis highlights
func RenderReportSummary(report *models.AnalysisReport) {
	if report == nil {
		return
	}

	var content strings.Builder

	content.WriteString("📄 Reporte de Análisis\n\n")
	content.WriteString(fmt.Sprintf("Fuente de datos:    %s\n", report.DataSource))
	content.WriteString(fmt.Sprintf("Generado:           %s\n", formatClock(report.Timestamp)))
	content.WriteString(fmt.Sprintf("Cotizaciones:       %d\n", report.CotizationsAnalysis.TotalCotizations))
	content.WriteString(fmt.Sprintf("Brechas calculadas: %d\n", len(report.GapsAnalysis.Gaps)))
	content.WriteString(fmt.Sprintf("Spreads calculados: %d\n", len(report.TrendsAnalysis.PricesAnalysis)))
	if report.MarketContext != nil {
		content.WriteString(fmt.Sprintf("Contexto BYMA:      %d acciones\n", len(report.MarketContext.Stocks)))
	}

	if report.Summary != "" {
		content.WriteString("\n" + truncateString(report.Summary, 220))
	}

	fmt.Println(summaryStyle.Render(content.String()))
}

// RenderStatusPanel shows the system status snapshot
func RenderStatusPanel(status *orchestrator.SystemStatus) {
	if status == nil {
		return
	}

	var content strings.Builder

	content.WriteString("🩺 Estado del Sistema\n\n")

	if status.Ready {
		content.WriteString("🔧 Configuración: ✅ lista\n")
	} else {
		content.WriteString("🔧 Configuración: ❌ con problemas\n")
		for _, problem := range status.ConfigProblems {
			content.WriteString("   • " + problem + "\n")
		}
	}

	content.WriteString("\n📁 Directorios:\n")
	for _, dir := range status.Directories {
		content.WriteString(fmt.Sprintf("   %s %s\n", boolIcon(dir.Exists), dir.Path))
	}

	content.WriteString(fmt.Sprintf("\n💾 Lotes de datos: %d | 📄 Reportes: %d\n",
		status.BatchCount, status.ReportCount))
	content.WriteString(fmt.Sprintf("   Último lote:    %s\n", orNone(status.LatestBatch)))
	content.WriteString(fmt.Sprintf("   Último reporte: %s\n", orNone(status.LatestReport)))
	content.WriteString(fmt.Sprintf("   Último PDF:     %s\n", orNone(status.LatestPDF)))

	if len(status.RecentLog) > 0 {
		content.WriteString("\n🕐 Actividad reciente:\n")
		for _, entry := range status.RecentLog {
			content.WriteString(fmt.Sprintf("   [%s] %s %s: %s\n",
				formatClock(entry.Timestamp), stepIcon(entry.Status), entry.Step,
				truncateString(entry.Details, 42)))
		}
	}

	fmt.Println(statusPanelStyle.Render(content.String()))
}

// stepLabel maps a pipeline step name to its user-facing label.
func stepLabel(step string) string {
	switch step {
	case orchestrator.StepCollection:
		return "Recolección de datos"
	case orchestrator.StepAnalysis:
		return "Análisis de cotizaciones"
	case orchestrator.StepRender:
		return "Generación de PDF"
	default:
		return step
	}
}

func stepIcon(status string) string {
	switch status {
	case orchestrator.StepSuccess:
		return "✅"
	case orchestrator.StepFailed:
		return "❌"
	default:
		return "⚠️"
	}
}

func boolIcon(ok bool) string {
	if ok {
		return "✅"
	}
	return "❌"
}

func orNone(path string) string {
	if path == "" {
		return "ninguno"
	}
	return path
}

// formatClock reduces an RFC3339 timestamp to HH:MM:SS for panel lines.
func formatClock(stamp string) string {
	if t, err := time.Parse(time.RFC3339, stamp); err == nil {
		return t.Format("15:04:05")
	}
	if len(stamp) >= 19 {
		return stamp[11:19]
	}
	return stamp
}

// formatHourMinute reduces a DolarAPI update timestamp to HH:MM.
func formatHourMinute(stamp string) string {
	if t, err := time.Parse(time.RFC3339, stamp); err == nil {
		return t.Format("15:04")
	}
	if len(stamp) >= 16 {
		return stamp[11:16]
	}
	return "--:--"
}

// truncateString truncates a string to a maximum rune count
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
