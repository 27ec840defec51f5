package dataflows

import (
	"fmt"
	"testing"
	"time"
)

func fastRetry(maxRetries int) *RetryConfig {
	return &RetryConfig{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Multiplier: 2.0,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	cache := NewCacheManager(t.TempDir(), time.Minute, true)

	stored := map[string]string{"casa": "blue"}
	if err := cache.Set("test", "quotes", "usd", stored); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var loaded map[string]string
	if !cache.Get("test", "quotes", "usd", &loaded) {
		t.Fatalf("expected cache hit")
	}
	if loaded["casa"] != "blue" {
		t.Fatalf("unexpected cached value %v", loaded)
	}

	// Different params miss.
	if cache.Get("test", "quotes", "eur", &loaded) {
		t.Fatalf("expected cache miss for different params")
	}
}

func TestCacheExpiry(t *testing.T) {
	cache := NewCacheManager(t.TempDir(), time.Nanosecond, true)

	if err := cache.Set("test", "quotes", "usd", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	time.Sleep(10 * time.Millisecond)

	var loaded string
	if cache.Get("test", "quotes", "usd", &loaded) {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestCacheDisabled(t *testing.T) {
	cache := NewCacheManager(t.TempDir(), time.Minute, false)

	if err := cache.Set("test", "quotes", "usd", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var loaded string
	if cache.Get("test", "quotes", "usd", &loaded) {
		t.Fatalf("disabled cache must never hit")
	}
}

func TestWithRetryEventuallySucceeds(t *testing.T) {
	attempts := 0
	err := WithRetry(fastRetry(3), func() error {
		attempts++
		if attempts < 3 {
			return fmt.Errorf("transient failure %d", attempts)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestWithRetryExhausted(t *testing.T) {
	attempts := 0
	err := WithRetry(fastRetry(2), func() error {
		attempts++
		return fmt.Errorf("down")
	})
	if err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestNormalizeSymbol(t *testing.T) {
	if got := NormalizeSymbol("  ggal.ba "); got != "GGAL.BA" {
		t.Fatalf("unexpected symbol %q", got)
	}
}
