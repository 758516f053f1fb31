package config

import (
	"testing"
	"time"
)

func setValidEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DHIS2_USERNAME", "admin")
	t.Setenv("DHIS2_PASSWORD", "district")
	t.Setenv("DHIS2_BASE_URL", "https://play.dhis2.org")
}

func TestLoadDefaults(t *testing.T) {
	setValidEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConcurrencyLimit != 200 {
		t.Fatalf("ConcurrencyLimit = %d, want 200", cfg.ConcurrencyLimit)
	}
	if cfg.Timeout != 30*time.Second {
		t.Fatalf("Timeout = %v, want 30s", cfg.Timeout)
	}
	if cfg.RetryMaxAttempts != 3 {
		t.Fatalf("RetryMaxAttempts = %d, want 3", cfg.RetryMaxAttempts)
	}
	if cfg.RetryMinWait != time.Second || cfg.RetryMaxWait != 10*time.Second {
		t.Fatalf("retry waits = %v/%v, want 1s/10s", cfg.RetryMinWait, cfg.RetryMaxWait)
	}
}

func TestLoadOverrides(t *testing.T) {
	setValidEnv(t)
	t.Setenv("DHIS2_CONCURRENCY_LIMIT", "25")
	t.Setenv("DHIS2_TIMEOUT_SECONDS", "120")
	t.Setenv("DHIS2_RETRY_MAX_ATTEMPTS", "5")
	t.Setenv("DHIS2_RETRY_MIN_WAIT_SECONDS", "2")
	t.Setenv("DHIS2_RETRY_MAX_WAIT_SECONDS", "20")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ConcurrencyLimit != 25 {
		t.Fatalf("ConcurrencyLimit = %d, want 25", cfg.ConcurrencyLimit)
	}
	if cfg.Timeout != 2*time.Minute {
		t.Fatalf("Timeout = %v, want 2m", cfg.Timeout)
	}
	if cfg.RetryMaxAttempts != 5 {
		t.Fatalf("RetryMaxAttempts = %d, want 5", cfg.RetryMaxAttempts)
	}
	if cfg.RetryMinWait != 2*time.Second || cfg.RetryMaxWait != 20*time.Second {
		t.Fatalf("retry waits = %v/%v", cfg.RetryMinWait, cfg.RetryMaxWait)
	}
}

func TestLoadRequiresBaseURL(t *testing.T) {
	t.Setenv("DHIS2_BASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for missing base URL")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	setValidEnv(t)
	t.Setenv("DHIS2_TIMEOUT_SECONDS", "0")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero timeout")
	}
}
