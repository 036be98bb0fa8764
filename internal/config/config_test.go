package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Addr != ":8000" {
		t.Errorf("HTTP.Addr = %q, want :8000", cfg.HTTP.Addr)
	}
	if cfg.Scanner.Interval != 30*time.Second {
		t.Errorf("Scanner.Interval = %v, want 30s", cfg.Scanner.Interval)
	}
	if cfg.Scanner.Subject == "" {
		t.Error("Scanner.Subject empty")
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("Redis.Addr = %q, want empty (rate limiter disabled by default)", cfg.Redis.Addr)
	}
	if len(cfg.Providers) == 0 {
		t.Fatal("no default provider entry")
	}
	if cfg.Providers[0].Breaker.FailThreshold != 3 {
		t.Errorf("Breaker.FailThreshold = %d, want 3", cfg.Providers[0].Breaker.FailThreshold)
	}
}

func TestLoadMergesUserFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	userYAML := []byte(`
http:
  addr: ":9900"
scanner:
  interval: 5s
`)
	if err := os.WriteFile(path, userYAML, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Addr != ":9900" {
		t.Errorf("HTTP.Addr = %q, want user override :9900", cfg.HTTP.Addr)
	}
	if cfg.Scanner.Interval != 5*time.Second {
		t.Errorf("Scanner.Interval = %v, want 5s", cfg.Scanner.Interval)
	}
	// untouched keys keep their defaults
	if cfg.Scanner.Subject != "Scheduled message" {
		t.Errorf("Scanner.Subject = %q, want default", cfg.Scanner.Subject)
	}
}

func TestLoadMissingUserFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTP.Addr != ":8000" {
		t.Errorf("HTTP.Addr = %q, want defaults when user file missing", cfg.HTTP.Addr)
	}
}
