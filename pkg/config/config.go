package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAddr     = ":3000"
	defaultProvider = "claude"
)

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey   string
	GoogleAPIKey      string
	HuggingFaceAPIKey string
	OpenRouterAPIKey  string

	Addr           string
	Provider       string
	Models         ModelsConfig
	RequestTimeout time.Duration
}

// FileConfig represents the structure of ~/.catvet/config.yaml
type FileConfig struct {
	APIKeys        APIKeysConfig `yaml:"api_keys"`
	Addr           string        `yaml:"addr"`
	Provider       string        `yaml:"provider"`
	Models         ModelsConfig  `yaml:"models"`
	RequestTimeout string        `yaml:"request_timeout"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	Anthropic   string `yaml:"anthropic"`
	Google      string `yaml:"google"`
	HuggingFace string `yaml:"huggingface"`
	OpenRouter  string `yaml:"openrouter"`
}

// ModelsConfig overrides the default model of each provider.
type ModelsConfig struct {
	Claude      string `yaml:"claude"`
	Gemini      string `yaml:"gemini"`
	HuggingFace string `yaml:"huggingface"`
	OpenRouter  string `yaml:"openrouter"`
}

// Load reads configuration from ~/.catvet/config.yaml and environment variables.
// Environment variables take precedence over file configuration.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	return LoadFile(filepath.Join(configDir, "config.yaml"))
}

// LoadFile loads config with a specific config file. A missing file is not an error.
func LoadFile(path string) (*Config, error) {
	fileConfig, err := loadFileConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}

	// Build config with env vars taking precedence over file
	cfg := &Config{
		AnthropicAPIKey:   getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		GoogleAPIKey:      getEnvOrDefault("GEMINI_API_KEY", getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google)),
		HuggingFaceAPIKey: getEnvOrDefault("HUGGINGFACE_API_KEY", fileConfig.APIKeys.HuggingFace),
		OpenRouterAPIKey:  getEnvOrDefault("OPENROUTER_API_KEY", fileConfig.APIKeys.OpenRouter),
		Addr:              getEnvOrDefault("CATVET_ADDR", orDefault(fileConfig.Addr, defaultAddr)),
		Provider:          getEnvOrDefault("CATVET_PROVIDER", orDefault(fileConfig.Provider, defaultProvider)),
		Models:            fileConfig.Models,
	}

	// PORT is what most hosting platforms inject.
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CATVET_ADDR") == "" {
		cfg.Addr = ":" + port
	}

	timeout := getEnvOrDefault("CATVET_REQUEST_TIMEOUT", fileConfig.RequestTimeout)
	if timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid request_timeout %q: %w", timeout, err)
		}
		cfg.RequestTimeout = d
	}

	return cfg, nil
}

// HasAdapter returns true if the API key for the given provider is configured.
func (c *Config) HasAdapter(name string) bool {
	switch name {
	case "claude":
		return c.AnthropicAPIKey != ""
	case "gemini":
		return c.GoogleAPIKey != ""
	case "huggingface":
		return c.HuggingFaceAPIKey != ""
	case "openrouter":
		return c.OpenRouterAPIKey != ""
	case "mock":
		return true
	default:
		return false
	}
}

// loadFileConfig reads the config file, returning empty config if not found.
func loadFileConfig(path string) (*FileConfig, error) {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultValue
}

func orDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".catvet")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
