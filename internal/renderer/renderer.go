package renderer

import (
	"fmt"
	"os"
	"time"

	"dolarwatch/config"
	"dolarwatch/internal/models"
)

// Renderer turns an analysis report into chart PNGs and a PDF document.
type Renderer struct {
	chartsDir        string
	presentationsDir string
}

// RenderResult lists the files produced by a render run.
type RenderResult struct {
	ChartPaths []string `json:"chart_paths"`
	PDFPath    string   `json:"pdf_path"`
}

// NewRenderer creates a renderer writing under the configured
// presentations directories.
func NewRenderer(cfg *config.Config) *Renderer {
	return &Renderer{
		chartsDir:        cfg.ChartsDir,
		presentationsDir: cfg.PresentationsDir,
	}
}

// Render produces the chart set and composes the PDF report. Charts are
// rendered first; any chart failure aborts before the PDF is written.
func (r *Renderer) Render(report *models.AnalysisReport) (*RenderResult, error) {
	if report == nil {
		return nil, fmt.Errorf("no hay reporte de análisis para renderizar")
	}

	for _, dir := range []string{r.chartsDir, r.presentationsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create output directory %s: %w", dir, err)
		}
	}

	stamp := renderStamp(report)

	charts, err := r.renderCharts(report, stamp)
	if err != nil {
		return nil, fmt.Errorf("generación de gráficos: %w", err)
	}

	pdfPath, err := r.composePDF(report, charts, stamp)
	if err != nil {
		return nil, fmt.Errorf("generación de PDF: %w", err)
	}

	result := &RenderResult{PDFPath: pdfPath}
	for _, chart := range charts {
		result.ChartPaths = append(result.ChartPaths, chart.path)
	}
	return result, nil
}

// renderStamp derives the output file stamp from the report timestamp so
// chart and PDF names line up with the report that produced them.
func renderStamp(report *models.AnalysisReport) string {
	if ts, err := time.Parse(time.RFC3339, report.Timestamp); err == nil {
		return ts.Format("20060102_150405")
	}
	return time.Now().Format("20060102_150405")
}
