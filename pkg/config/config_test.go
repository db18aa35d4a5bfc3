package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), ".midpoint")
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `{
		"repo_path": "repo",
		"model": {"provider": "anthropic", "name": "claude-sonnet-4-20250514", "api_key": "sk-test"},
		"points_budget": 50
	}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "anthropic", cfg.Model.Provider)
	assert.Equal(t, 50, cfg.PointsBudget)
	// Relative paths resolve against the project root, one level above the
	// config directory.
	projectRoot := filepath.Dir(filepath.Dir(path))
	assert.Equal(t, filepath.Join(projectRoot, "repo"), cfg.RepoPath)
	assert.Equal(t, filepath.Join(projectRoot, ".goal"), cfg.GoalDir)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{"model": {"provider": "ollama", "name": "llama3"}}`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.PointsBudget)
	assert.Equal(t, 120*time.Second, cfg.ModelTimeout())
	assert.Equal(t, 60*time.Second, cfg.GitTimeout())
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	path := writeConfig(t, `{"model": {"provider": "gpt9000", "api_key": "x"}}`)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRequiresAPIKey(t *testing.T) {
	path := writeConfig(t, `{"model": {"provider": "openai", "name": "gpt-4o"}}`)

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "api_key")
}

func TestLoadOllamaNeedsNoKey(t *testing.T) {
	path := writeConfig(t, `{"model": {"provider": "ollama", "name": "llama3"}}`)

	_, err := Load(path)
	assert.NoError(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestValidateRejectsBadTimeouts(t *testing.T) {
	path := writeConfig(t, `{"model": {"provider": "ollama"}, "model_timeout_sec": -1}`)

	_, err := Load(path)
	assert.Error(t, err)
}
