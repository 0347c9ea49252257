package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Host != "127.0.0.1" {
		t.Errorf("Default host = %q, want %q", cfg.Host, "127.0.0.1")
	}
	if cfg.Port != 8080 {
		t.Errorf("Default port = %d, want 8080", cfg.Port)
	}
	if len(cfg.Providers) != 1 || cfg.Providers[0] != "anthropic" {
		t.Errorf("Default providers = %v, want [anthropic]", cfg.Providers)
	}
	if cfg.RateLimit.Requests != 10 || cfg.RateLimit.WindowSeconds != 60 {
		t.Errorf("Default rate limit = %+v, want 10/60s", cfg.RateLimit)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("Default log level = %q, want info", cfg.LogLevel)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("port = %d, want default 8080", cfg.Port)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewflow.yaml")
	data := []byte("port: 9090\nproviders:\n  - openai\n  - ollama\nmodels:\n  openai: gpt-4o-mini\nrateLimit:\n  requests: 5\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Port)
	}
	if len(cfg.Providers) != 2 || cfg.Providers[0] != "openai" {
		t.Errorf("providers = %v", cfg.Providers)
	}
	if cfg.Models["openai"] != "gpt-4o-mini" {
		t.Errorf("models = %v", cfg.Models)
	}
	if cfg.RateLimit.Requests != 5 {
		t.Errorf("rate limit requests = %d, want 5", cfg.RateLimit.Requests)
	}
	if cfg.RateLimit.WindowSeconds != 60 {
		t.Errorf("unset window should keep default, got %d", cfg.RateLimit.WindowSeconds)
	}
	if cfg.Host != "127.0.0.1" {
		t.Errorf("unset host should keep default, got %q", cfg.Host)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewflow.yaml")
	if err := os.WriteFile(path, []byte("port: [not a number"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviewflow.yaml")
	if err := os.WriteFile(path, []byte("port: 9090\nhost: 0.0.0.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("REVIEWFLOW_PORT", "7070")
	t.Setenv("REVIEWFLOW_PROVIDERS", "ollama, gemini")
	t.Setenv("REVIEWFLOW_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Port != 7070 {
		t.Errorf("port = %d, want env value 7070", cfg.Port)
	}
	if cfg.Host != "0.0.0.0" {
		t.Errorf("host = %q, want file value 0.0.0.0", cfg.Host)
	}
	if len(cfg.Providers) != 2 || cfg.Providers[0] != "ollama" || cfg.Providers[1] != "gemini" {
		t.Errorf("providers = %v, want [ollama gemini]", cfg.Providers)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	t.Setenv("REVIEWFLOW_LOG_LEVEL", "loud")
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for invalid log level")
	}
}
