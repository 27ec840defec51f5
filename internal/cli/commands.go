package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dolarwatch/config"
	"dolarwatch/internal/analyst"
	"dolarwatch/internal/dataflows"
	"dolarwatch/internal/debug"
	"dolarwatch/internal/display"
	"dolarwatch/internal/models"
	"dolarwatch/internal/orchestrator"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	// Initialize configuration early
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "dolarwatch",
		Short: "DolarWatch - Análisis del Dólar Argentino",
		Long: `DolarWatch es un sistema multiagente de análisis financiero para el mercado
cambiario argentino. Obtiene cotizaciones reales de DolarAPI, calcula brechas
contra el dólar oficial y spreads compra-venta, redacta el análisis con un
modelo de lenguaje y genera una presentación PDF con gráficos.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debugFlag, _ := cmd.Flags().GetBool("debug"); debugFlag {
				cfg.Debug = true
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("no se pudieron crear los directorios: %w", err)
			}
			// The visual debug server is optional tooling; a failure to
			// start it never blocks the pipeline.
			if err := debug.NewDebugger(cfg).Initialize(); err != nil {
				display.DisplayWarning(fmt.Sprintf("servidor de debug no disponible: %v", err))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default behavior: start the interactive menu
			return runMenu(cmd.Context(), cfg)
		},
	}

	// Add subcommands
	rootCmd.AddCommand(newRunCmd(cfg))
	rootCmd.AddCommand(newFetchCmd(cfg))
	rootCmd.AddCommand(newAnalyzeCmd(cfg))
	rootCmd.AddCommand(newRenderCmd(cfg))
	rootCmd.AddCommand(newStatusCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Activa trazas de depuración")

	return rootCmd
}

// newRunCmd creates the run command
func newRunCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Ejecuta el análisis completo (recolección + análisis + PDF)",
		Long: `Ejecuta el pipeline completo en secuencia: obtiene las cotizaciones de
DolarAPI, genera el reporte de análisis y produce la presentación PDF.
Ejemplo: dolarwatch run --yes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			skipConfirm, _ := cmd.Flags().GetBool("yes")
			return runFullPipeline(cmd.Context(), cfg, orchestrator.New(cfg), skipConfirm)
		},
	}

	cmd.Flags().Bool("yes", false, "Ejecuta sin pedir confirmación")

	return cmd
}

// newFetchCmd creates the fetch command
func newFetchCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Obtiene las cotizaciones del dólar desde DolarAPI",
		RunE: func(cmd *cobra.Command, args []string) error {
			useMock, _ := cmd.Flags().GetBool("mock")
			return runFetchStage(cmd.Context(), orchestrator.New(cfg), useMock, true)
		},
	}

	cmd.Flags().Bool("mock", false, "Genera datos simulados sin llamar a DolarAPI")

	return cmd
}

// newAnalyzeCmd creates the analyze command
func newAnalyzeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Analiza el último lote de cotizaciones guardado",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyzeStage(cmd.Context(), orchestrator.New(cfg))
		},
	}
}

// newRenderCmd creates the render command
func newRenderCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Genera los gráficos y la presentación PDF del último reporte",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRenderStage(cmd.Context(), orchestrator.New(cfg))
		},
	}
}

// newStatusCmd creates the status command
func newStatusCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Muestra el estado del sistema y la actividad reciente",
		Run: func(cmd *cobra.Command, args []string) {
			RenderStatusPanel(orchestrator.New(cfg).Status())
		},
	}
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Muestra la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("DolarWatch v1.0.0")
			fmt.Println("Sistema Multiagente de Análisis Financiero Argentina")
			fmt.Println("Cotizaciones reales de DolarAPI + análisis con modelos de lenguaje")
		},
	}
}

// runFullPipeline executes the complete fetch, analyze and render workflow
func runFullPipeline(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator, skipConfirm bool) error {
	fmt.Println(titleStyle.Render("🚀 Análisis completo del mercado cambiario argentino"))

	display.DisplayInfo("Validando configuración...")
	if problems := cfg.Problems(); len(problems) > 0 {
		for _, problem := range problems {
			display.DisplayWarning(problem)
		}
		return fmt.Errorf("la configuración tiene %d problemas, corregilos antes de continuar", len(problems))
	}
	display.DisplaySuccess("Configuración validada correctamente")

	if !skipConfirm {
		confirmed, err := PromptRunConfirmation(cfg)
		if err != nil {
			return err
		}
		if !confirmed {
			display.DisplayInfo("Análisis cancelado.")
			return nil
		}
	}

	DisplayPipelineHeader("análisis completo", cfg.LLMProvider+"/"+cfg.LLMModel)
	fmt.Println("🔄 Iniciando análisis con datos reales de DolarAPI...")

	run, runErr := orch.RunFull(ctx)

	RenderStepStatus(run)

	completed := 0
	for _, step := range run.Steps {
		if step.Status == orchestrator.StepSuccess {
			completed++
		}
	}
	display.DisplayProgress("Etapas completadas", completed, len(orchestrator.StepOrder))
	if completed < len(orchestrator.StepOrder) {
		fmt.Println()
	}

	if runErr != nil {
		return runErr
	}

	if step, ok := run.Steps[orchestrator.StepAnalysis]; ok && step.OutputFile != "" {
		var report models.AnalysisReport
		if err := dataflows.LoadDataFromFile(step.OutputFile, &report); err == nil {
			RenderReportSummary(&report)
		}
	}

	display.DisplaySuccess("¡Análisis completado exitosamente!")
	return nil
}

// runFetchStage collects quotes, falling back to the scraper on demand
func runFetchStage(ctx context.Context, orch *orchestrator.Orchestrator, useMock, interactive bool) error {
	var outcome *orchestrator.FetchOutcome
	var err error

	if useMock {
		display.DisplayInfo("Generando cotizaciones simuladas...")
		outcome, err = orch.RunFetchMock()
	} else {
		fmt.Println("🔄 Consultando DolarAPI...")
		outcome, err = orch.RunFetch(ctx)
		if err != nil && interactive {
			display.DisplayError(err, "la recolección de DolarAPI")
			retry, promptErr := PromptFallbackConfirm()
			if promptErr != nil || !retry {
				return err
			}
			fmt.Println("🔄 Consultando Investing.com...")
			outcome, err = orch.RunFetchFallback(ctx)
		}
	}
	if err != nil {
		return err
	}

	RenderQuoteTable(outcome.Batch)
	if outcome.HistoryWarning != "" {
		display.DisplayWarning(outcome.HistoryWarning)
	}
	display.DisplaySuccess(fmt.Sprintf("Lote guardado en %s", outcome.BatchFile))
	return nil
}

// runAnalyzeStage analyzes the newest persisted batch
func runAnalyzeStage(ctx context.Context, orch *orchestrator.Orchestrator) error {
	fmt.Println("🔄 Analizando el último lote de cotizaciones...")

	outcome, err := orch.RunAnalyze(ctx)
	if err != nil {
		if errors.Is(err, dataflows.ErrNoBatchData) {
			display.DisplayInfo("No hay datos de cotizaciones. Ejecutá primero 'dolarwatch fetch'.")
		}
		return err
	}

	report := outcome.Report
	display.NewReportDisplay(report.DataSource, report.Timestamp).ShowReport(report)
	display.DisplaySuccess(fmt.Sprintf("Reporte guardado en %s", outcome.ReportFile))
	return nil
}

// runRenderStage renders charts and the PDF from the newest report
func runRenderStage(ctx context.Context, orch *orchestrator.Orchestrator) error {
	fmt.Println("🔄 Generando gráficos y presentación PDF...")

	outcome, err := orch.RunRender(ctx)
	if err != nil {
		if errors.Is(err, analyst.ErrNoReports) {
			display.DisplayInfo("No hay reportes de análisis. Ejecutá primero 'dolarwatch analyze'.")
		}
		return err
	}

	for _, chart := range outcome.Result.ChartPaths {
		fmt.Printf("   📊 %s\n", chart)
	}
	display.DisplaySuccess(fmt.Sprintf("Presentación PDF: %s", outcome.Result.PDFPath))
	return nil
}
