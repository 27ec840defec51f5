package cli

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"dolarwatch/config"
)

// Menu actions returned by PromptMainMenu.
const (
	MenuRunFull = iota
	MenuFetch
	MenuAnalyze
	MenuRender
	MenuStatus
	MenuExit
)

// PromptMainMenu shows the numbered main menu and returns the chosen action.
func PromptMainMenu() (int, error) {
	options := []string{
		"1. Ejecutar análisis completo",
		"2. Obtener cotizaciones del dólar",
		"3. Analizar últimos datos",
		"4. Generar presentación PDF",
		"5. Ver estado del sistema",
		"0. Salir",
	}

	var selected string
	prompt := &survey.Select{
		Message:  "Seleccioná una opción:",
		Options:  options,
		Help:     "El análisis completo ejecuta recolección, análisis y PDF en secuencia.",
		PageSize: len(options),
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return MenuExit, err
	}

	switch {
	case strings.HasPrefix(selected, "1."):
		return MenuRunFull, nil
	case strings.HasPrefix(selected, "2."):
		return MenuFetch, nil
	case strings.HasPrefix(selected, "3."):
		return MenuAnalyze, nil
	case strings.HasPrefix(selected, "4."):
		return MenuRender, nil
	case strings.HasPrefix(selected, "5."):
		return MenuStatus, nil
	default:
		return MenuExit, nil
	}
}

// PromptForProvider prompts the user to select a language-model provider
func PromptForProvider() (string, error) {
	var selected string

	options := []string{
		config.ProviderGemini + " - Google Gemini (recomendado)",
		config.ProviderOpenAI + " - OpenAI GPT",
		config.ProviderDeepSeek + " - DeepSeek",
	}

	prompt := &survey.Select{
		Message: "Seleccioná el proveedor de modelos de lenguaje:",
		Options: options,
		Help:    "Necesitás la clave de API del proveedor elegido en el archivo .env.",
		Default: options[0],
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	// Extract provider from selection
	provider := strings.Split(selected, " -")[0]
	return provider, nil
}

// PromptForModel prompts the user to select the analysis model
func PromptForModel(provider string) (string, error) {
	models := providerModels(provider)
	if len(models) == 0 {
		return "", fmt.Errorf("no hay modelos disponibles para el proveedor %s", provider)
	}

	const customOption = "otro (ingresar manualmente)"
	options := append(append([]string{}, models...), customOption)

	var selected string
	prompt := &survey.Select{
		Message: "Seleccioná el modelo de análisis:",
		Options: options,
		Help:    "Este modelo redacta las narrativas del reporte.",
		Default: options[0],
	}

	if err := survey.AskOne(prompt, &selected); err != nil {
		return "", err
	}

	if selected != customOption {
		return selected, nil
	}

	var custom string
	input := &survey.Input{
		Message: "Nombre del modelo:",
		Help:    "Por ejemplo: " + models[0],
	}

	err := survey.AskOne(input, &custom, survey.WithValidator(func(val interface{}) error {
		str := strings.TrimSpace(val.(string))
		if len(str) == 0 {
			return fmt.Errorf("el nombre del modelo no puede estar vacío")
		}
		if strings.ContainsAny(str, " \t") {
			return fmt.Errorf("el nombre del modelo no puede contener espacios")
		}
		return nil
	}))
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(custom), nil
}

// providerModels lists the known analysis models per provider.
func providerModels(provider string) []string {
	switch provider {
	case config.ProviderOpenAI:
		return []string{"gpt-4o-mini", "gpt-4o", "gpt-4.1-mini"}
	case config.ProviderDeepSeek:
		return []string{"deepseek-chat", "deepseek-reasoner"}
	case config.ProviderGemini:
		return []string{"gemini-2.5-flash-lite", "gemini-2.5-flash", "gemini-2.5-pro"}
	default:
		return nil
	}
}

// PromptRunConfirmation shows the run configuration and asks to proceed
func PromptRunConfirmation(cfg *config.Config) (bool, error) {
	summary := fmt.Sprintf(`
Configuración del análisis:
━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━

💵 Fuente de cotizaciones:  %s
🤖 Proveedor LLM:           %s
🧠 Modelo:                  %s
🌐 Idioma del reporte:      %s
📁 Directorio de datos:     %s
📊 Directorio de reportes:  %s

━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━
`,
		cfg.DolarAPIBaseURL,
		cfg.LLMProvider,
		cfg.LLMModel,
		cfg.ReportLanguage,
		cfg.DataDir,
		cfg.ReportsDir,
	)

	fmt.Println(summary)

	var confirmed bool
	prompt := &survey.Confirm{
		Message: "¿Ejecutar el análisis completo con esta configuración?",
		Default: true,
	}

	err := survey.AskOne(prompt, &confirmed)
	return confirmed, err
}

// PromptFallbackConfirm asks whether to scrape the fallback source after a
// DolarAPI failure.
func PromptFallbackConfirm() (bool, error) {
	var confirmed bool
	prompt := &survey.Confirm{
		Message: "DolarAPI no respondió. ¿Intentar con el scraper de Investing.com?",
		Default: true,
	}

	err := survey.AskOne(prompt, &confirmed)
	return confirmed, err
}
