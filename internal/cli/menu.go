package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AlecAivazis/survey/v2/terminal"

	"dolarwatch/config"
	"dolarwatch/internal/dataflows"
	"dolarwatch/internal/display"
	"dolarwatch/internal/orchestrator"
)

// runMenu starts the interactive numbered menu and loops until exit.
func runMenu(ctx context.Context, cfg *config.Config) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if os.Getenv("DOLARWATCH_NO_CLEAR") == "" {
		ClearScreen()
	}
	DisplayWelcomeBanner()

	manager, firstRun, err := openPreferences(cfg)
	if err != nil {
		display.DisplayWarning(fmt.Sprintf("preferencias no disponibles: %v", err))
	} else {
		manager.Apply(cfg)
		cfg.ApplyEnv()

		// Pick up edits made to the preferences file from another terminal
		// while the menu is open.
		if watchErr := manager.Watch(ctx, func(config.Preferences) {
			manager.Apply(cfg)
			cfg.ApplyEnv()
		}); watchErr != nil {
			display.DisplayWarning(fmt.Sprintf("sin recarga automática de preferencias: %v", watchErr))
		}

		if firstRun {
			if err := configureProvider(cfg, manager); err != nil {
				if errors.Is(err, terminal.InterruptErr) {
					fmt.Println("\n👋 ¡Hasta luego!")
					return nil
				}
				display.DisplayWarning(fmt.Sprintf("configuración de proveedor incompleta: %v", err))
			}
		}
	}

	if problems := cfg.Problems(); len(problems) > 0 {
		for _, problem := range problems {
			display.DisplayWarning(problem)
		}
		fmt.Println()
	}

	orch := orchestrator.New(cfg)

	for {
		choice, err := PromptMainMenu()
		if err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				fmt.Println("\n👋 ¡Hasta luego!")
				return nil
			}
			return err
		}

		if choice == MenuExit {
			fmt.Println("👋 ¡Hasta luego!")
			return nil
		}

		if err := dispatchMenuAction(ctx, cfg, orch, choice); err != nil {
			if errors.Is(err, terminal.InterruptErr) {
				fmt.Println("\n👋 ¡Hasta luego!")
				return nil
			}
			display.DisplayError(err, "la operación")
		}

		fmt.Println()
	}
}

// dispatchMenuAction runs one menu option against the shared orchestrator.
func dispatchMenuAction(ctx context.Context, cfg *config.Config, orch *orchestrator.Orchestrator, choice int) error {
	switch choice {
	case MenuRunFull:
		return runFullPipeline(ctx, cfg, orch, false)
	case MenuFetch:
		return runFetchStage(ctx, orch, false, true)
	case MenuAnalyze:
		return runAnalyzeStage(ctx, orch)
	case MenuRender:
		return runRenderStage(ctx, orch)
	case MenuStatus:
		RenderStatusPanel(orch.Status())
		return nil
	default:
		return nil
	}
}

// openPreferences opens the persisted menu preferences, reporting whether
// this is the first session without a preferences file.
func openPreferences(cfg *config.Config) (*config.Manager, bool, error) {
	path := filepath.Join(cfg.DataDir, "preferences.json")
	firstRun := !dataflows.FileExists(path)

	manager, err := config.NewManager(config.WithPreferencesPath(path))
	if err != nil {
		return nil, false, err
	}
	return manager, firstRun, nil
}

// configureProvider walks the first-run provider and model selection and
// persists the choice.
func configureProvider(cfg *config.Config, manager *config.Manager) error {
	display.DisplayInfo("Primera ejecución: elegí el proveedor y modelo de análisis.")

	provider, err := PromptForProvider()
	if err != nil {
		return err
	}
	model, err := PromptForModel(provider)
	if err != nil {
		return err
	}

	prefs := manager.Get()
	prefs.LLMProvider = provider
	prefs.LLMModel = model
	if err := manager.Update(prefs); err != nil {
		return err
	}

	manager.Apply(cfg)
	cfg.ApplyEnv()

	display.DisplaySuccess(fmt.Sprintf("Preferencias guardadas en %s", manager.Path()))
	fmt.Println()
	return nil
}
