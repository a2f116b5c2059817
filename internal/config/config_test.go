package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	if !errors.Is(err, ErrMissingDatabaseURL) {
		t.Fatalf("Expected ErrMissingDatabaseURL, got %v", err)
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/registry")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cfg.TenantConnectTimeout != 5*time.Second {
		t.Errorf("Expected 5s connect timeout, got %s", cfg.TenantConnectTimeout)
	}
	if cfg.AggregatorConcurrency != 8 {
		t.Errorf("Expected concurrency 8, got %d", cfg.AggregatorConcurrency)
	}
	if cfg.RedisEnabled() {
		t.Error("Expected redis to be disabled by default")
	}
}

func TestDuration_Formats(t *testing.T) {
	tests := []struct {
		raw  string
		want time.Duration
	}{
		{"", 3 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"7", 7 * time.Second},
		{"garbage", 3 * time.Second},
	}

	for _, tt := range tests {
		t.Setenv("TEST_DURATION", tt.raw)
		if got := Duration("TEST_DURATION", 3*time.Second); got != tt.want {
			t.Errorf("Duration(%q) = %s, want %s", tt.raw, got, tt.want)
		}
	}
}

func TestList_TrimsEntries(t *testing.T) {
	t.Setenv("TEST_LIST", " a, ,b ,c")

	got := List("TEST_LIST", nil)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("Unexpected list: %v", got)
	}
}
