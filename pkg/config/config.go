// Package config loads the project configuration from a JSON file. All values
// are explicit: components receive their configuration (including the model
// API key) at construction rather than reading the environment themselves.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// DefaultConfigPath is the project-relative configuration file location.
const DefaultConfigPath = ".midpoint/config.json"

// ModelConfig selects the language-model backend.
type ModelConfig struct {
	Provider    string  `json:"provider"` // "anthropic", "openai", "google", "ollama"
	Name        string  `json:"name"`
	APIKey      string  `json:"api_key,omitempty"`
	Host        string  `json:"host,omitempty"` // ollama only
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float32 `json:"temperature,omitempty"`
}

// Config is the full project configuration.
type Config struct {
	RepoPath        string      `json:"repo_path"`
	GoalDir         string      `json:"goal_dir"`
	DBPath          string      `json:"db_path"`
	Model           ModelConfig `json:"model"`
	PointsBudget    int         `json:"points_budget"`
	ModelTimeoutSec int         `json:"model_timeout_sec"`
	GitTimeoutSec   int         `json:"git_timeout_sec"`
}

// Load reads and validates the configuration at path. Relative RepoPath,
// GoalDir, and DBPath values are resolved against the config file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg := defaults()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	base := filepath.Dir(filepath.Dir(path))
	cfg.RepoPath = resolve(base, cfg.RepoPath)
	cfg.GoalDir = resolve(base, cfg.GoalDir)
	cfg.DBPath = resolve(base, cfg.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		RepoPath:        ".",
		GoalDir:         ".goal",
		DBPath:          ".midpoint/midpoint.db",
		PointsBudget:    100,
		ModelTimeoutSec: 120,
		GitTimeoutSec:   60,
		Model: ModelConfig{
			Provider: "anthropic",
		},
	}
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	switch c.Model.Provider {
	case "anthropic", "openai", "google", "ollama":
	default:
		return fmt.Errorf("unknown model provider %q", c.Model.Provider)
	}
	if c.Model.Provider != "ollama" && c.Model.APIKey == "" {
		return fmt.Errorf("api_key is required for provider %q", c.Model.Provider)
	}
	if c.PointsBudget <= 0 {
		return fmt.Errorf("points_budget must be positive, got %d", c.PointsBudget)
	}
	if c.ModelTimeoutSec <= 0 {
		return fmt.Errorf("model_timeout_sec must be positive, got %d", c.ModelTimeoutSec)
	}
	if c.GitTimeoutSec <= 0 {
		return fmt.Errorf("git_timeout_sec must be positive, got %d", c.GitTimeoutSec)
	}
	return nil
}

// ModelTimeout returns the model call timeout as a duration.
func (c *Config) ModelTimeout() time.Duration {
	return time.Duration(c.ModelTimeoutSec) * time.Second
}

// GitTimeout returns the git operation timeout as a duration.
func (c *Config) GitTimeout() time.Duration {
	return time.Duration(c.GitTimeoutSec) * time.Second
}

func resolve(base, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}
