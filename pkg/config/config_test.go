package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

var envKeys = []string{
	"ANTHROPIC_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY", "HUGGINGFACE_API_KEY", "OPENROUTER_API_KEY",
	"CATVET_ADDR", "CATVET_PROVIDER", "CATVET_REQUEST_TIMEOUT", "PORT",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	configDir := filepath.Join(home, ".catvet")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(content), 0600); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	setHomeEnv(t, t.TempDir())
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":3000" || cfg.Provider != "claude" || cfg.RequestTimeout != 0 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.HasAdapter("claude") || cfg.HasAdapter("gemini") || cfg.HasAdapter("huggingface") || cfg.HasAdapter("openrouter") {
		t.Fatalf("expected no adapters without keys")
	}
	if !cfg.HasAdapter("mock") {
		t.Fatalf("expected mock adapter to always be available")
	}
}

func TestConfigUsesFileValues(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearEnv(t)
	writeConfig(t, home, `api_keys:
  anthropic: file-ant
  google: file-google
  huggingface: file-hf
  openrouter: file-or
addr: ":8081"
provider: huggingface
request_timeout: 30s
models:
  gemini: gemini-1.5-pro
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AnthropicAPIKey != "file-ant" || cfg.GoogleAPIKey != "file-google" || cfg.HuggingFaceAPIKey != "file-hf" || cfg.OpenRouterAPIKey != "file-or" {
		t.Fatalf("expected file API keys to be used: %+v", cfg)
	}
	if cfg.Addr != ":8081" || cfg.Provider != "huggingface" || cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("unexpected server settings: %+v", cfg)
	}
	if cfg.Models.Gemini != "gemini-1.5-pro" {
		t.Fatalf("expected gemini model override, got %q", cfg.Models.Gemini)
	}
}

func TestConfigUsesEnvAPIKeys(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearEnv(t)
	writeConfig(t, home, "api_keys:\n  anthropic: file-ant\n  openrouter: file-or\n")

	t.Setenv("ANTHROPIC_API_KEY", "env-ant")
	t.Setenv("GOOGLE_API_KEY", "env-google")
	t.Setenv("HUGGINGFACE_API_KEY", "env-hf")
	t.Setenv("OPENROUTER_API_KEY", "env-or")
	t.Setenv("CATVET_PROVIDER", "openrouter")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AnthropicAPIKey != "env-ant" || cfg.GoogleAPIKey != "env-google" || cfg.HuggingFaceAPIKey != "env-hf" || cfg.OpenRouterAPIKey != "env-or" {
		t.Fatalf("expected env API keys to be used: %+v", cfg)
	}
	if cfg.Provider != "openrouter" {
		t.Fatalf("expected env provider, got %q", cfg.Provider)
	}
}

func TestConfigGeminiKeyWinsOverGoogleKey(t *testing.T) {
	setHomeEnv(t, t.TempDir())
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "google")
	t.Setenv("GEMINI_API_KEY", "gemini")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.GoogleAPIKey != "gemini" {
		t.Fatalf("expected GEMINI_API_KEY to win, got %q", cfg.GoogleAPIKey)
	}
}

func TestConfigPortEnv(t *testing.T) {
	setHomeEnv(t, t.TempDir())
	clearEnv(t)
	t.Setenv("PORT", "9090")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.Addr)
	}
}

func TestConfigRejectsBadTimeout(t *testing.T) {
	setHomeEnv(t, t.TempDir())
	clearEnv(t)
	t.Setenv("CATVET_REQUEST_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatalf("expected invalid timeout error")
	}
}

func TestConfigRejectsMalformedFile(t *testing.T) {
	home := t.TempDir()
	setHomeEnv(t, home)
	clearEnv(t)
	writeConfig(t, home, "api_keys: [unterminated\n")

	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}

func setHomeEnv(t *testing.T, home string) {
	t.Helper()
	t.Setenv("HOME", home)
	if runtime.GOOS == "windows" {
		t.Setenv("USERPROFILE", home)
	}
}
