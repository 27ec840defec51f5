package config

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func TestManagerCreatesAndUpdates(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithPreferencesDir(dir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	path := filepath.Join(dir, "preferences.json")
	if mgr.Path() != path {
		t.Fatalf("expected path %s, got %s", path, mgr.Path())
	}

	prefs := mgr.Get()
	if prefs.LLMProvider != ProviderGemini {
		t.Fatalf("expected default provider %s, got %s", ProviderGemini, prefs.LLMProvider)
	}

	prefs.LLMProvider = ProviderDeepSeek
	prefs.LLMModel = "deepseek-chat"
	if err := mgr.Update(prefs); err != nil {
		t.Fatalf("Update: %v", err)
	}

	updated := mgr.Get()
	if updated.LLMProvider != ProviderDeepSeek {
		t.Fatalf("expected provider %s, got %s", ProviderDeepSeek, updated.LLMProvider)
	}

	// A fresh manager over the same file sees the persisted value.
	mgr2, err := NewManager(WithPreferencesDir(dir))
	if err != nil {
		t.Fatalf("NewManager reopen: %v", err)
	}
	if got := mgr2.Get().LLMModel; got != "deepseek-chat" {
		t.Fatalf("expected persisted model deepseek-chat, got %s", got)
	}
}

func TestManagerRejectsUnknownProvider(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithPreferencesDir(dir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	prefs := mgr.Get()
	prefs.LLMProvider = "claude"
	if err := mgr.Update(prefs); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestManagerApplyKeepsEnvPrecedence(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithPreferencesDir(dir), WithInitialPreferences(&Preferences{
		LLMProvider:    ProviderOpenAI,
		LLMModel:       "gpt-4o-mini",
		ReportLanguage: "es",
	}))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	t.Setenv("LLM_PROVIDER", "deepseek")

	cfg := DefaultConfigWithRoot(dir)
	mgr.Apply(cfg)
	if cfg.LLMProvider != ProviderOpenAI {
		t.Fatalf("expected preferences provider openai, got %s", cfg.LLMProvider)
	}
	cfg.ApplyEnv()
	if cfg.LLMProvider != ProviderDeepSeek {
		t.Fatalf("expected env override deepseek, got %s", cfg.LLMProvider)
	}
	if cfg.LLMModel != "gpt-4o-mini" {
		t.Fatalf("expected preferences model to survive, got %s", cfg.LLMModel)
	}
}

func TestManagerWatchReloads(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(WithPreferencesDir(dir))
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan Preferences, 1)
	if err := mgr.Watch(ctx, func(p Preferences) {
		reloaded <- p
	}); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	prefs := mgr.Get()
	prefs.LLMModel = "gemini-2.0-flash"
	if err := writePreferencesFile(mgr.Path(), prefs); err != nil {
		t.Fatalf("writePreferencesFile: %v", err)
	}

	select {
	case p := <-reloaded:
		if p.LLMModel != "gemini-2.0-flash" {
			t.Fatalf("expected reloaded model gemini-2.0-flash, got %s", p.LLMModel)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher did not fire on preferences change")
	}
}
