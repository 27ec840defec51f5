package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfigWithRoot(t *testing.T) {
	cfg := DefaultConfigWithRoot("/tmp/dolarwatch")

	if cfg.DataDir != filepath.Join("/tmp/dolarwatch", "data") {
		t.Fatalf("unexpected data dir %s", cfg.DataDir)
	}
	if cfg.ChartsDir != filepath.Join("/tmp/dolarwatch", "presentations", "charts") {
		t.Fatalf("unexpected charts dir %s", cfg.ChartsDir)
	}
	if cfg.LLMProvider != ProviderGemini {
		t.Fatalf("expected default provider %s, got %s", ProviderGemini, cfg.LLMProvider)
	}
	if cfg.DolarAPIBaseURL != "https://dolarapi.com" {
		t.Fatalf("unexpected base URL %s", cfg.DolarAPIBaseURL)
	}
	if len(cfg.ArgentineStocks) != 10 {
		t.Fatalf("expected 10 tracked stocks, got %d", len(cfg.ArgentineStocks))
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("unexpected request timeout %s", cfg.RequestTimeout())
	}
	if cfg.CacheTTL() != 5*time.Minute {
		t.Fatalf("unexpected cache TTL %s", cfg.CacheTTL())
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("DOLARAPI_BASE_URL", "http://127.0.0.1:9000")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "3")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("MAX_TOKENS", "512")

	cfg := DefaultConfigWithRoot(t.TempDir())
	cfg.ApplyEnv()

	if cfg.LLMProvider != ProviderOpenAI {
		t.Fatalf("provider should be lowercased to %s, got %s", ProviderOpenAI, cfg.LLMProvider)
	}
	if cfg.LLMModel != "gpt-4o-mini" {
		t.Fatalf("unexpected model %s", cfg.LLMModel)
	}
	if cfg.DolarAPIBaseURL != "http://127.0.0.1:9000" {
		t.Fatalf("unexpected base URL %s", cfg.DolarAPIBaseURL)
	}
	if cfg.RequestTimeoutSeconds != 3 {
		t.Fatalf("unexpected timeout %d", cfg.RequestTimeoutSeconds)
	}
	if cfg.CacheEnabled {
		t.Fatalf("cache should be disabled by env")
	}
	if cfg.MaxTokens != 512 {
		t.Fatalf("unexpected max tokens %d", cfg.MaxTokens)
	}
}

func TestApplyEnvIgnoresBadNumbers(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "pronto")
	t.Setenv("CACHE_TTL_MINUTES", "-")

	cfg := DefaultConfigWithRoot(t.TempDir())
	cfg.ApplyEnv()

	if cfg.RequestTimeoutSeconds != 10 {
		t.Fatalf("bad timeout should keep default, got %d", cfg.RequestTimeoutSeconds)
	}
	if cfg.CacheTTLMinutes != 5 {
		t.Fatalf("bad TTL should keep default, got %d", cfg.CacheTTLMinutes)
	}
}

func TestValidateRejectsUnknownProvider(t *testing.T) {
	cfg := DefaultConfigWithRoot(t.TempDir())
	cfg.LLMProvider = "llama"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestRequireAPIKeyPerProvider(t *testing.T) {
	cases := []struct {
		provider string
		envName  string
	}{
		{ProviderGemini, "GOOGLE_API_KEY"},
		{ProviderOpenAI, "OPENAI_API_KEY"},
		{ProviderDeepSeek, "DEEPSEEK_API_KEY"},
	}

	for _, tc := range cases {
		cfg := DefaultConfigWithRoot(t.TempDir())
		cfg.LLMProvider = tc.provider

		err := cfg.RequireAPIKey()
		if err == nil {
			t.Fatalf("%s: expected error without key", tc.provider)
		}
		if !strings.Contains(err.Error(), tc.envName) {
			t.Fatalf("%s: error should name %s, got %q", tc.provider, tc.envName, err)
		}

		switch tc.provider {
		case ProviderOpenAI:
			cfg.OpenAIAPIKey = "sk-test"
		case ProviderDeepSeek:
			cfg.DeepSeekAPIKey = "sk-test"
		default:
			cfg.GoogleAPIKey = "test"
		}
		if err := cfg.RequireAPIKey(); err != nil {
			t.Fatalf("%s: unexpected error with key set: %v", tc.provider, err)
		}
	}
}

func TestEnsureDirectories(t *testing.T) {
	cfg := DefaultConfigWithRoot(t.TempDir())
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	// A second run over existing directories must not fail.
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories rerun: %v", err)
	}
}

func TestStockSymbol(t *testing.T) {
	cfg := DefaultConfigWithRoot(t.TempDir())
	if got := cfg.StockSymbol("ggal"); got != "GGAL.BA" {
		t.Fatalf("expected GGAL.BA, got %s", got)
	}
	if got := cfg.StockSymbol("YPFD.BA"); got != "YPFD.BA" {
		t.Fatalf("suffix should not be doubled, got %s", got)
	}
}

func TestProblemsListsMissingKeyFirst(t *testing.T) {
	cfg := DefaultConfigWithRoot(t.TempDir())
	cfg.RequestTimeoutSeconds = 0

	problems := cfg.Problems()
	if len(problems) != 2 {
		t.Fatalf("expected 2 problems, got %d: %v", len(problems), problems)
	}
	if !strings.Contains(problems[0], "GOOGLE_API_KEY") {
		t.Fatalf("first problem should be the missing key, got %q", problems[0])
	}

	cfg.GoogleAPIKey = "test"
	cfg.RequestTimeoutSeconds = 10
	if problems := cfg.Problems(); len(problems) != 0 {
		t.Fatalf("expected no problems, got %v", problems)
	}
}
