package renderer

import (
	"fmt"
	"image/color"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"dolarwatch/internal/models"
)

const (
	chartWidth  = 8 * vg.Inch
	chartHeight = 4 * vg.Inch
)

var (
	colorCompra    = color.RGBA{R: 0xad, G: 0xd8, B: 0xe6, A: 0xff}
	colorVenta     = color.RGBA{R: 0xf0, G: 0x80, B: 0x80, A: 0xff}
	colorGapAbove  = color.RGBA{R: 0xff, A: 0xff}
	colorGapBelow  = color.RGBA{G: 0x80, A: 0xff}
	colorSpread    = color.RGBA{R: 0xff, G: 0xa5, A: 0xff}
	colorRanking   = color.RGBA{R: 0x46, G: 0x82, B: 0xb4, A: 0xff}
	colorHighlight = color.RGBA{R: 0xff, A: 0xff}
	colorZeroLine  = color.Gray{Y: 0x60}
)

// chartImage is a rendered chart plus the text the PDF shows next to it.
type chartImage struct {
	title       string
	description string
	path        string
}

// renderCharts builds the four report charts in document order. Charts
// without data are skipped; a render failure aborts the whole set.
func (r *Renderer) renderCharts(report *models.AnalysisReport, stamp string) ([]chartImage, error) {
	builders := []func(*models.AnalysisReport, string) (*chartImage, error){
		r.cotizationsChart,
		r.gapsChart,
		r.spreadsChart,
		r.rankingChart,
	}

	var charts []chartImage
	for _, build := range builders {
		chart, err := build(report, stamp)
		if err != nil {
			return nil, err
		}
		if chart != nil {
			charts = append(charts, *chart)
		}
	}
	return charts, nil
}

// cotizationsChart draws grouped compra and venta bars per cotización.
func (r *Renderer) cotizationsChart(report *models.AnalysisReport, stamp string) (*chartImage, error) {
	quotes := report.CotizationsAnalysis.Cotizations
	if len(quotes) == 0 {
		return nil, nil
	}

	p := plot.New()
	p.Title.Text = "Cotizaciones del Dólar"
	p.Y.Label.Text = "Precio (ARS)"

	names := make([]string, len(quotes))
	compra := make(plotter.Values, len(quotes))
	venta := make(plotter.Values, len(quotes))
	for i, q := range quotes {
		names[i] = q.Nombre
		compra[i], _ = q.Compra.Float64()
		venta[i], _ = q.Venta.Float64()
	}

	width := vg.Points(14)

	compraBars, err := plotter.NewBarChart(compra, width)
	if err != nil {
		return nil, fmt.Errorf("gráfico de cotizaciones: %w", err)
	}
	compraBars.LineStyle.Width = vg.Length(0)
	compraBars.Color = colorCompra
	compraBars.Offset = -width / 2

	ventaBars, err := plotter.NewBarChart(venta, width)
	if err != nil {
		return nil, fmt.Errorf("gráfico de cotizaciones: %w", err)
	}
	ventaBars.LineStyle.Width = vg.Length(0)
	ventaBars.Color = colorVenta
	ventaBars.Offset = width / 2

	p.Add(compraBars, ventaBars)
	p.Legend.Add("Compra", compraBars)
	p.Legend.Add("Venta", ventaBars)
	p.Legend.Top = true
	p.NominalX(names...)

	path := filepath.Join(r.chartsDir, fmt.Sprintf("cotizaciones_%s.png", stamp))
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return nil, fmt.Errorf("gráfico de cotizaciones: %w", err)
	}

	return &chartImage{
		title:       "Cotizaciones del Dólar",
		description: "Comparación de precios de compra y venta por tipo de cotización",
		path:        path,
	}, nil
}

// gapsChart draws the gap percentage per casa against the oficial rate.
// One bar chart per casa keeps positive gaps red and negative gaps green.
func (r *Renderer) gapsChart(report *models.AnalysisReport, stamp string) (*chartImage, error) {
	gaps := report.GapsAnalysis.Gaps
	if len(gaps) == 0 {
		return nil, nil
	}

	p := plot.New()
	p.Title.Text = "Brechas Cambiarias vs Dólar Oficial"
	p.Y.Label.Text = "Brecha (%)"

	names := make([]string, len(gaps))
	width := vg.Points(24)
	for i, gap := range gaps {
		names[i] = gap.Casa

		values := make(plotter.Values, len(gaps))
		values[i], _ = gap.GapPercentage.Float64()

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, fmt.Errorf("gráfico de brechas: %w", err)
		}
		bars.LineStyle.Width = vg.Length(0)
		if gap.GapPercentage.IsPositive() {
			bars.Color = colorGapAbove
		} else {
			bars.Color = colorGapBelow
		}
		p.Add(bars)
	}

	zero := plotter.NewFunction(func(x float64) float64 { return 0 })
	zero.LineStyle.Color = colorZeroLine
	zero.LineStyle.Width = vg.Points(1)
	p.Add(zero)
	p.NominalX(names...)

	path := filepath.Join(r.chartsDir, fmt.Sprintf("brechas_%s.png", stamp))
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return nil, fmt.Errorf("gráfico de brechas: %w", err)
	}

	return &chartImage{
		title:       "Brechas Cambiarias",
		description: "Diferencias porcentuales respecto al dólar oficial",
		path:        path,
	}, nil
}

// spreadsChart draws absolute compra-venta spreads with the percentage
// labeled over each bar.
func (r *Renderer) spreadsChart(report *models.AnalysisReport, stamp string) (*chartImage, error) {
	spreads := report.TrendsAnalysis.PricesAnalysis
	if len(spreads) == 0 {
		return nil, nil
	}

	p := plot.New()
	p.Title.Text = "Spreads de Compra-Venta"
	p.Y.Label.Text = "Spread (ARS)"

	names := make([]string, len(spreads))
	values := make(plotter.Values, len(spreads))
	labelPoints := make(plotter.XYs, len(spreads))
	labels := make([]string, len(spreads))
	for i, s := range spreads {
		names[i] = s.Casa
		values[i], _ = s.Spread.Float64()
		labelPoints[i] = plotter.XY{X: float64(i), Y: values[i]}
		labels[i] = s.SpreadPercentage.String() + "%"
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return nil, fmt.Errorf("gráfico de spreads: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = colorSpread

	percentLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelPoints, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("gráfico de spreads: %w", err)
	}

	p.Add(bars, percentLabels)
	p.NominalX(names...)

	path := filepath.Join(r.chartsDir, fmt.Sprintf("spreads_%s.png", stamp))
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return nil, fmt.Errorf("gráfico de spreads: %w", err)
	}

	return &chartImage{
		title:       "Spreads de Compra-Venta",
		description: "Diferencias entre precios de compra y venta",
		path:        path,
	}, nil
}

// rankingChart draws horizontal venta bars per cotización with the
// oficial rate highlighted.
func (r *Renderer) rankingChart(report *models.AnalysisReport, stamp string) (*chartImage, error) {
	quotes := report.CotizationsAnalysis.Cotizations
	if len(quotes) == 0 {
		return nil, nil
	}

	p := plot.New()
	p.Title.Text = "Comparación de Precios de Venta - Dólar Argentino"
	p.X.Label.Text = "Precio de Venta (ARS)"

	names := make([]string, len(quotes))
	labelPoints := make(plotter.XYs, len(quotes))
	labels := make([]string, len(quotes))
	width := vg.Points(14)
	for i, q := range quotes {
		names[i] = q.Nombre

		values := make(plotter.Values, len(quotes))
		values[i], _ = q.Venta.Float64()
		labelPoints[i] = plotter.XY{X: values[i], Y: float64(i)}
		labels[i] = formatARS(q.Venta)

		bars, err := plotter.NewBarChart(values, width)
		if err != nil {
			return nil, fmt.Errorf("gráfico de comparación: %w", err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Horizontal = true
		if q.Casa == models.CasaOficial {
			bars.Color = colorHighlight
		} else {
			bars.Color = colorRanking
		}
		p.Add(bars)
	}

	priceLabels, err := plotter.NewLabels(plotter.XYLabels{XYs: labelPoints, Labels: labels})
	if err != nil {
		return nil, fmt.Errorf("gráfico de comparación: %w", err)
	}
	p.Add(priceLabels)
	p.NominalY(names...)

	path := filepath.Join(r.chartsDir, fmt.Sprintf("ranking_%s.png", stamp))
	if err := p.Save(chartWidth, chartHeight, path); err != nil {
		return nil, fmt.Errorf("gráfico de comparación: %w", err)
	}

	return &chartImage{
		title:       "Comparación de Precios",
		description: "Comparación visual de todas las cotizaciones del dólar",
		path:        path,
	}, nil
}
