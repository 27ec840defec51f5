package orchestrator

import (
	"context"
	"fmt"
	"path/filepath"

	"dolarwatch/config"
	"dolarwatch/internal/analyst"
	"dolarwatch/internal/dataflows"
	"dolarwatch/internal/models"
	"dolarwatch/internal/renderer"
)

// QuoteFetcher produces a fresh quote batch from a remote source.
type QuoteFetcher interface {
	FetchQuotes(ctx context.Context) (*models.QuoteBatch, error)
}

// SpotFetcher produces the single-quote fallback batch.
type SpotFetcher interface {
	FetchSpot(ctx context.Context) (*models.QuoteBatch, error)
}

// MarketWatcher provides the optional stock market context.
type MarketWatcher interface {
	WatchQuotes(ctx context.Context) (*models.MarketSnapshot, error)
}

// ReportAnalyzer turns a quote batch into an analysis report.
type ReportAnalyzer interface {
	Analyze(ctx context.Context, batch *models.QuoteBatch, market *models.MarketSnapshot) (*models.AnalysisReport, error)
}

// ReportRenderer turns an analysis report into charts and a PDF.
type ReportRenderer interface {
	Render(report *models.AnalysisReport) (*renderer.RenderResult, error)
}

// AnalyzerFactory builds the analyst on demand so fetch and render stages
// run without LLM credentials.
type AnalyzerFactory func(ctx context.Context) (ReportAnalyzer, error)

// Orchestrator coordinates the fetch, analyze and render stages and keeps
// the execution log.
type Orchestrator struct {
	cfg        *config.Config
	fetcher    QuoteFetcher
	fallback   SpotFetcher
	watcher    MarketWatcher
	renderer   ReportRenderer
	newAnalyst AnalyzerFactory

	store   *dataflows.Store
	reports *analyst.ReportStore
	mock    *dataflows.MockGenerator

	log     []LogEntry
	logPath string
}

// New wires the production pipeline components from the configuration.
func New(cfg *config.Config) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		fetcher:  dataflows.NewDolarAPIClient(cfg),
		fallback: dataflows.NewInvestingScraper(cfg),
		watcher:  dataflows.NewStockWatchClient(cfg),
		renderer: renderer.NewRenderer(cfg),
		store:    dataflows.NewStore(cfg),
		reports:  analyst.NewReportStore(cfg),
		mock:     dataflows.NewMockGenerator(),
		logPath:  filepath.Join(cfg.DataDir, "execution_log.json"),
	}
	o.newAnalyst = func(ctx context.Context) (ReportAnalyzer, error) {
		chatModel, err := analyst.NewChatModel(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return analyst.NewAnalyst(cfg, chatModel), nil
	}
	o.log = o.loadExecutionLog()
	return o
}

// FetchOutcome is the result of a collection stage.
type FetchOutcome struct {
	Batch          *models.QuoteBatch
	BatchFile      string
	HistoryWarning string
}

// AnalyzeOutcome is the result of an analysis stage.
type AnalyzeOutcome struct {
	Report     *models.AnalysisReport
	ReportFile string
	SourceFile string
}

// RenderOutcome is the result of a render stage.
type RenderOutcome struct {
	Result     *renderer.RenderResult
	ReportFile string
}

// RunFetch collects quotes from DolarAPI and persists the batch. A failed
// history append does not fail the stage; it is reported as a warning.
func (o *Orchestrator) RunFetch(ctx context.Context) (*FetchOutcome, error) {
	batch, err := o.fetcher.FetchQuotes(ctx)
	if err != nil {
		o.logStep(StepCollection, StepFailed, err.Error())
		return nil, err
	}
	return o.persistBatch(batch)
}

// RunFetchFallback collects the informal spot quote from the fallback
// source after the operator confirmed it.
func (o *Orchestrator) RunFetchFallback(ctx context.Context) (*FetchOutcome, error) {
	batch, err := o.fallback.FetchSpot(ctx)
	if err != nil {
		o.logStep(StepCollection, StepFailed, err.Error())
		return nil, err
	}
	return o.persistBatch(batch)
}

// RunFetchMock persists a simulated batch for the offline demo path.
func (o *Orchestrator) RunFetchMock() (*FetchOutcome, error) {
	return o.persistBatch(o.mock.QuoteBatch())
}

func (o *Orchestrator) persistBatch(batch *models.QuoteBatch) (*FetchOutcome, error) {
	batchFile, err := o.store.SaveBatch(batch)
	if err != nil {
		o.logStep(StepCollection, StepFailed, err.Error())
		return nil, err
	}

	outcome := &FetchOutcome{Batch: batch, BatchFile: batchFile}
	if err := o.store.AppendHistory(batch); err != nil {
		outcome.HistoryWarning = fmt.Sprintf("historial no actualizado: %v", err)
	}

	o.logStep(StepCollection, StepSuccess,
		fmt.Sprintf("Datos obtenidos: %d cotizaciones", batch.TotalCotizaciones))
	return outcome, nil
}

// RunAnalyze loads the newest persisted batch, analyzes it and saves the
// report. The market context is best effort and never blocks the stage.
func (o *Orchestrator) RunAnalyze(ctx context.Context) (*AnalyzeOutcome, error) {
	batchFile, err := o.store.LatestBatchFile()
	if err != nil {
		o.logStep(StepAnalysis, StepFailed, err.Error())
		return nil, err
	}
	batch, err := o.store.LoadBatch(batchFile)
	if err != nil {
		o.logStep(StepAnalysis, StepFailed, err.Error())
		return nil, err
	}

	a, err := o.newAnalyst(ctx)
	if err != nil {
		o.logStep(StepAnalysis, StepFailed, err.Error())
		return nil, err
	}

	market, err := o.watcher.WatchQuotes(ctx)
	if err != nil {
		market = nil
	}

	report, err := a.Analyze(ctx, batch, market)
	if err != nil {
		o.logStep(StepAnalysis, StepFailed, err.Error())
		return nil, err
	}
	report.SourceFile = batchFile

	reportFile, err := o.reports.SaveReport(report)
	if err != nil {
		o.logStep(StepAnalysis, StepFailed, err.Error())
		return nil, err
	}

	o.logStep(StepAnalysis, StepSuccess, reportFile)
	return &AnalyzeOutcome{Report: report, ReportFile: reportFile, SourceFile: batchFile}, nil
}

// RunRender loads the newest report and produces the chart set and PDF.
func (o *Orchestrator) RunRender(ctx context.Context) (*RenderOutcome, error) {
	reportFile, err := o.reports.LatestReportFile()
	if err != nil {
		o.logStep(StepRender, StepFailed, err.Error())
		return nil, err
	}
	report, err := o.reports.LoadReport(reportFile)
	if err != nil {
		o.logStep(StepRender, StepFailed, err.Error())
		return nil, err
	}

	result, err := o.renderer.Render(report)
	if err != nil {
		o.logStep(StepRender, StepFailed, err.Error())
		return nil, err
	}

	o.logStep(StepRender, StepSuccess, result.PDFPath)
	return &RenderOutcome{Result: result, ReportFile: reportFile}, nil
}

// RunFull executes fetch, analyze and render in order. The first failure
// stops the pipeline; later stages are recorded as skipped and the partial
// run is returned along with the error.
func (o *Orchestrator) RunFull(ctx context.Context) (*PipelineRun, error) {
	run := newPipelineRun()

	fetch, err := o.RunFetch(ctx)
	if err != nil {
		run.fail(StepCollection, err)
		run.Errors = append(run.Errors, fmt.Sprintf("La recolección de datos de DolarAPI falló: %v", err))
		run.skip(StepAnalysis)
		run.skip(StepRender)
		run.finish()
		return run, err
	}
	run.succeed(StepCollection, fetch.BatchFile,
		fmt.Sprintf("%d cotizaciones", fetch.Batch.TotalCotizaciones))

	analysis, err := o.RunAnalyze(ctx)
	if err != nil {
		run.fail(StepAnalysis, err)
		run.Errors = append(run.Errors, fmt.Sprintf("El análisis de cotizaciones falló: %v", err))
		run.skip(StepRender)
		run.finish()
		return run, err
	}
	run.succeed(StepAnalysis, analysis.ReportFile, "reporte de análisis generado")

	render, err := o.RunRender(ctx)
	if err != nil {
		run.fail(StepRender, err)
		run.Errors = append(run.Errors, fmt.Sprintf("La generación del PDF falló: %v", err))
		run.finish()
		return run, err
	}
	run.succeed(StepRender, render.Result.PDFPath,
		fmt.Sprintf("%d gráficos", len(render.Result.ChartPaths)))

	run.finish()
	return run, nil
}
