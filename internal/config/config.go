// Package config provides configuration loading and validation for the server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config represents the server configuration that can be loaded from a JSON
// file. All fields are optional; missing values fall back to defaults,
// environment variables, or CLI flags.
type Config struct {
	Port        int    `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL

	// LLM extraction
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"` // Gemini API key
	GeminiModel     string `json:"gemini_model,omitempty"`   // Model name, empty uses the default
	UseLLMExtractor bool   `json:"use_llm_extractor,omitempty"`

	// Behavior
	RefreshInterval string `json:"refresh_interval,omitempty"` // Corpus reload interval, Go duration
	CacheTTL        string `json:"cache_ttl,omitempty"`        // Response cache TTL, Go duration
	JSONLogs        bool   `json:"json_logs,omitempty"`        // Emit JSON logs instead of console
	Debug           bool   `json:"debug,omitempty"`            // Enable debug logging
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Port:            8080,
		RefreshInterval: "1h",
		CacheTTL:        "5m",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// FillFromEnv fills empty fields from environment variables. Explicit config
// file values win over the environment.
func (c *Config) FillFromEnv() {
	if c.DatabaseURL == "" {
		c.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if c.GeminiAPIKey == "" {
		c.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if c.GeminiModel == "" {
		c.GeminiModel = os.Getenv("GEMINI_MODEL")
	}
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be in 1-65535, got %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' is required (or set DATABASE_URL)")
	}
	if _, err := time.ParseDuration(c.RefreshInterval); err != nil {
		return fmt.Errorf("config error: 'refresh_interval' is not a valid duration: %w", err)
	}
	if _, err := time.ParseDuration(c.CacheTTL); err != nil {
		return fmt.Errorf("config error: 'cache_ttl' is not a valid duration: %w", err)
	}
	if c.UseLLMExtractor && c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: 'use_llm_extractor' requires 'gemini_api_key' (or GEMINI_API_KEY)")
	}
	return nil
}

// MergeWithDefaults returns a new Config with zero-value fields filled from
// defaults. This is used to apply file values on top of the built-ins.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.GeminiModel == "" {
		result.GeminiModel = defaults.GeminiModel
	}
	if result.RefreshInterval == "" {
		result.RefreshInterval = defaults.RefreshInterval
	}
	if result.CacheTTL == "" {
		result.CacheTTL = defaults.CacheTTL
	}

	return result
}

// RefreshIntervalDuration returns the parsed corpus reload interval.
// Validate must have been called first.
func (c *Config) RefreshIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.RefreshInterval)
	return d
}

// CacheTTLDuration returns the parsed response cache TTL.
// Validate must have been called first.
func (c *Config) CacheTTLDuration() time.Duration {
	d, _ := time.ParseDuration(c.CacheTTL)
	return d
}
