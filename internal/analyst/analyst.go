package analyst

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"dolarwatch/config"
	"dolarwatch/internal/models"
)

const analystSystemPrompt = `Eres un analista financiero especializado en el mercado cambiario argentino. Responde siempre en español, con lenguaje claro y profesional.`

// Analyst turns a quote batch into a narrated analysis report. The chat
// model is injected so tests run without a provider.
type Analyst struct {
	cfg       *config.Config
	chatModel model.ToolCallingChatModel
}

// NewAnalyst creates an analyst over the given chat model.
func NewAnalyst(cfg *config.Config, chatModel model.ToolCallingChatModel) *Analyst {
	return &Analyst{cfg: cfg, chatModel: chatModel}
}

// Analyze computes the gap and spread metrics, narrates each section with
// the model and assembles the report. Any model failure aborts the run; a
// report never carries placeholder narrative.
func (a *Analyst) Analyze(ctx context.Context, batch *models.QuoteBatch, market *models.MarketSnapshot) (*models.AnalysisReport, error) {
	if batch == nil || len(batch.Datos) == 0 {
		return nil, fmt.Errorf("no hay cotizaciones para analizar")
	}

	oficial, gaps, err := ComputeGaps(batch)
	if err != nil {
		return nil, err
	}
	spreads := ComputeSpreads(batch)

	cotizationsText, err := a.generate(ctx, cotizationsPrompt(batch))
	if err != nil {
		return nil, fmt.Errorf("análisis de cotizaciones: %w", err)
	}

	gapsText, err := a.generate(ctx, gapsPrompt(oficial, gaps))
	if err != nil {
		return nil, fmt.Errorf("análisis de brechas: %w", err)
	}

	trendsText, err := a.generate(ctx, trendsPrompt(spreads))
	if err != nil {
		return nil, fmt.Errorf("análisis de tendencias: %w", err)
	}

	summary, err := a.generate(ctx, summaryPrompt(batch))
	if err != nil {
		return nil, fmt.Errorf("resumen ejecutivo: %w", err)
	}

	return &models.AnalysisReport{
		Timestamp:  time.Now().Format(time.RFC3339),
		DataSource: batch.Fuente,
		CotizationsAnalysis: models.CotizationsAnalysis{
			TotalCotizations: len(batch.Datos),
			Cotizations:      batch.Datos,
			Analysis:         cotizationsText,
		},
		GapsAnalysis: models.GapsAnalysis{
			OficialCotization: oficial,
			Gaps:              gaps,
			Analysis:          gapsText,
		},
		TrendsAnalysis: models.TrendsAnalysis{
			PricesAnalysis: spreads,
			Analysis:       trendsText,
		},
		MarketContext: market,
		Summary:       summary,
	}, nil
}

func (a *Analyst) generate(ctx context.Context, prompt string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(analystSystemPrompt),
		schema.UserMessage(prompt),
	}

	resp, err := a.chatModel.Generate(ctx, messages)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("el modelo devolvió una respuesta vacía")
	}

	return resp.Content, nil
}

func cotizationsPrompt(batch *models.QuoteBatch) string {
	return fmt.Sprintf(`Analiza las siguientes cotizaciones del dólar en Argentina obtenidas de %s:

%s

Proporciona un análisis detallado que incluya:
1. Interpretación de cada tipo de cotización (oficial, blue, bolsa, etc.)
2. Diferencias entre las cotizaciones y su significado
3. Factores que influyen en cada tipo de cotización
4. Implicaciones para diferentes tipos de usuarios (inversores, empresas, consumidores)
5. Recomendaciones específicas para cada tipo de cotización`,
		batch.Fuente, asJSON(batch.Datos))
}

func gapsPrompt(oficial *models.QuoteRecord, gaps []models.GapMetric) string {
	return fmt.Sprintf(`Analiza las brechas cambiarias en Argentina basándote en estos datos:

Cotización Oficial: %s
Brechas calculadas: %s

Proporciona:
1. Interpretación de las brechas cambiarias
2. Factores que generan estas diferencias
3. Impacto económico de las brechas
4. Perspectivas sobre la convergencia o divergencia
5. Recomendaciones para diferentes actores económicos`,
		oficial.Venta, asJSON(gaps))
}

func trendsPrompt(spreads []models.SpreadMetric) string {
	return fmt.Sprintf(`Analiza las tendencias del mercado cambiario argentino basándote en estos datos:

Precios y spreads: %s

Proporciona:
1. Análisis de los spreads entre compra y venta
2. Identificación de patrones en las cotizaciones
3. Factores que influyen en las tendencias
4. Perspectivas a corto y mediano plazo
5. Recomendaciones estratégicas`,
		asJSON(spreads))
}

func summaryPrompt(batch *models.QuoteBatch) string {
	return fmt.Sprintf(`Genera un resumen ejecutivo del análisis de cotizaciones del dólar en Argentina:

Datos de %s:
%s

El resumen debe incluir:
1. Puntos clave del mercado cambiario argentino
2. Conclusiones principales sobre las cotizaciones
3. Recomendaciones para diferentes tipos de usuarios
4. Perspectivas para el próximo período

Formato: Máximo 3 párrafos, lenguaje claro y directo, enfocado en cotizaciones del dólar.`,
		batch.Fuente, asJSON(batch.Datos))
}

func asJSON(v interface{}) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
