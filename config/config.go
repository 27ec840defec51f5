package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Supported language-model providers for the analyst stage.
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderDeepSeek = "deepseek"
)

// GeminiOpenAIBaseURL is Google's OpenAI-compatible endpoint. The analyst
// talks to Gemini through it, so all three providers share one client shape.
const GeminiOpenAIBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

type Config struct {
	ProjectDir       string `json:"project_dir"`
	DataDir          string `json:"data_dir"`
	ReportsDir       string `json:"reports_dir"`
	PresentationsDir string `json:"presentations_dir"`
	ChartsDir        string `json:"charts_dir"`
	DataCacheDir     string `json:"data_cache_dir"`

	LLMProvider string `json:"llm_provider"`
	LLMModel    string `json:"llm_model"`
	BackendURL  string `json:"backend_url"`
	MaxTokens   int    `json:"max_tokens"`

	DolarAPIBaseURL       string `json:"dolarapi_base_url"`
	RequestTimeoutSeconds int    `json:"request_timeout_seconds"`
	UserAgent             string `json:"user_agent"`

	// External data-source pages used by the fallback scraper and the
	// stock watchlist.
	DataSources     map[string]string `json:"data_sources"`
	ArgentineStocks []string          `json:"argentine_stocks"`

	CacheEnabled    bool `json:"cache_enabled"`
	CacheTTLMinutes int  `json:"cache_ttl_minutes"`

	ReportLanguage string `json:"report_language"`

	Debug            bool `json:"debug"`
	EinoDebugEnabled bool `json:"eino_debug_enabled"`
	EinoDebugPort    int  `json:"eino_debug_port"`

	// AI Model API Keys
	GoogleAPIKey   string `json:"google_api_key"`
	OpenAIAPIKey   string `json:"openai_api_key"`
	DeepSeekAPIKey string `json:"deepseek_api_key"`
}

func DefaultConfig() *Config {
	currentDir, _ := os.Getwd()
	cfg := DefaultConfigWithRoot(currentDir)

	// Load environment variables from .env file
	_ = godotenv.Load()

	// Override with environment variables if they exist
	cfg.loadFromEnv()

	return cfg
}

// DefaultConfigWithRoot builds the defaults with every output directory
// rooted under dir. It does not consult the environment.
func DefaultConfigWithRoot(dir string) *Config {
	return &Config{
		ProjectDir:       dir,
		DataDir:          filepath.Join(dir, "data"),
		ReportsDir:       filepath.Join(dir, "reports"),
		PresentationsDir: filepath.Join(dir, "presentations"),
		ChartsDir:        filepath.Join(dir, "presentations", "charts"),
		DataCacheDir:     filepath.Join(dir, "data", "cache"),

		LLMProvider: ProviderGemini,
		LLMModel:    "gemini-2.5-flash-lite",
		MaxTokens:   2048,

		DolarAPIBaseURL:       "https://dolarapi.com",
		RequestTimeoutSeconds: 10,
		UserAgent:             "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",

		DataSources: map[string]string{
			"investing_merval":  "https://es.investing.com/indices/s-and-p-merval",
			"investing_usd_ars": "https://es.investing.com/currencies/usd-ars",
			"yahoo_base":        "https://finance.yahoo.com/quote/",
		},
		ArgentineStocks: []string{"GGAL", "PAMP", "TXAR", "YPFD", "MIRG", "BBAR", "CRES", "EDN", "HARG", "LOMA"},

		CacheEnabled:    true,
		CacheTTLMinutes: 5,

		ReportLanguage: "es",

		Debug:            false,
		EinoDebugEnabled: false,
		EinoDebugPort:    52538,
	}
}

// ApplyEnv re-reads the .env file and environment overrides. Call it after
// merging stored preferences so the environment keeps the last word.
func (c *Config) ApplyEnv() {
	_ = godotenv.Load()
	c.loadFromEnv()
}

func (c *Config) loadFromEnv() {
	if val := os.Getenv("PROJECT_DIR"); val != "" {
		c.ProjectDir = val
	}
	if val := os.Getenv("DATA_DIR"); val != "" {
		c.DataDir = val
	}
	if val := os.Getenv("REPORTS_DIR"); val != "" {
		c.ReportsDir = val
	}
	if val := os.Getenv("PRESENTATIONS_DIR"); val != "" {
		c.PresentationsDir = val
		c.ChartsDir = filepath.Join(val, "charts")
	}
	if val := os.Getenv("DATA_CACHE_DIR"); val != "" {
		c.DataCacheDir = val
	}

	if val := os.Getenv("LLM_PROVIDER"); val != "" {
		c.LLMProvider = strings.ToLower(val)
	}
	if val := os.Getenv("LLM_MODEL"); val != "" {
		c.LLMModel = val
	}
	if val := os.Getenv("BACKEND_URL"); val != "" {
		c.BackendURL = val
	}
	if val := os.Getenv("MAX_TOKENS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.MaxTokens = v
		}
	}

	if val := os.Getenv("DOLARAPI_BASE_URL"); val != "" {
		c.DolarAPIBaseURL = val
	}
	if val := os.Getenv("REQUEST_TIMEOUT_SECONDS"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.RequestTimeoutSeconds = v
		}
	}
	if val := os.Getenv("SCRAPER_USER_AGENT"); val != "" {
		c.UserAgent = val
	}

	if val := os.Getenv("CACHE_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.CacheEnabled = enabled
		}
	}
	if val := os.Getenv("CACHE_TTL_MINUTES"); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			c.CacheTTLMinutes = v
		}
	}

	if val := os.Getenv("REPORT_LANGUAGE"); val != "" {
		c.ReportLanguage = val
	}

	if val := os.Getenv("DOLARWATCH_DEBUG"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.Debug = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_ENABLED"); val != "" {
		if enabled, err := strconv.ParseBool(val); err == nil {
			c.EinoDebugEnabled = enabled
		}
	}
	if val := os.Getenv("EINO_DEBUG_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			c.EinoDebugPort = port
		}
	}

	if val := os.Getenv("GOOGLE_API_KEY"); val != "" {
		c.GoogleAPIKey = val
	}
	if val := os.Getenv("OPENAI_API_KEY"); val != "" {
		c.OpenAIAPIKey = val
	}
	if val := os.Getenv("DEEPSEEK_API_KEY"); val != "" {
		c.DeepSeekAPIKey = val
	}
}

func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, c.ReportsDir, c.PresentationsDir, c.ChartsDir, c.DataCacheDir}
	for _, dir := range dirs {
		path := strings.TrimSpace(dir)
		if path == "" {
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

// APIKeyForProvider returns the key configured for the active provider.
func (c *Config) APIKeyForProvider() string {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderDeepSeek:
		return c.DeepSeekAPIKey
	default:
		return c.GoogleAPIKey
	}
}

func (c *Config) apiKeyEnvName() string {
	switch c.LLMProvider {
	case ProviderOpenAI:
		return "OPENAI_API_KEY"
	case ProviderDeepSeek:
		return "DEEPSEEK_API_KEY"
	default:
		return "GOOGLE_API_KEY"
	}
}

// StockSymbol maps a local ticker to its Yahoo Finance symbol. Argentine
// tickers trade on BYMA under the .BA suffix.
func (c *Config) StockSymbol(ticker string) string {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if strings.HasSuffix(ticker, ".BA") {
		return ticker
	}
	return ticker + ".BA"
}

// Validate reports structural problems that make the config unusable. A
// missing API key is not structural; the stages that need one check
// RequireAPIKey themselves.
func (c *Config) Validate() error {
	switch c.LLMProvider {
	case ProviderGemini, ProviderOpenAI, ProviderDeepSeek:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLMProvider)
	}
	if c.RequestTimeoutSeconds <= 0 {
		return fmt.Errorf("request_timeout_seconds must be positive, got %d", c.RequestTimeoutSeconds)
	}
	if strings.TrimSpace(c.DolarAPIBaseURL) == "" {
		return fmt.Errorf("dolarapi_base_url must not be empty")
	}
	for _, dir := range []string{c.DataDir, c.ReportsDir, c.PresentationsDir} {
		if strings.TrimSpace(dir) == "" {
			return fmt.Errorf("output directories must not be empty")
		}
	}
	return nil
}

// RequireAPIKey fails when the active provider has no key configured. The
// message carries the fix because it goes straight to the operator.
func (c *Config) RequireAPIKey() error {
	if c.APIKeyForProvider() != "" {
		return nil
	}
	return fmt.Errorf("%s no configurada: agregá tu clave al archivo .env", c.apiKeyEnvName())
}

// Problems lists everything the status panel should surface, most critical
// first. An empty slice means the system is ready to run end to end.
func (c *Config) Problems() []string {
	var problems []string
	if err := c.RequireAPIKey(); err != nil {
		problems = append(problems, err.Error())
	}
	if err := c.Validate(); err != nil {
		problems = append(problems, err.Error())
	}
	return problems
}
