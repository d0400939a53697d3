package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing-on-purpose"))
	require.Error(t, err)
	assert.Nil(t, cfg)

	cfg, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, 3, cfg.Retriever.TopK)
	assert.Equal(t, float32(0.3), cfg.Retriever.MatchThreshold)
	assert.Equal(t, 768, cfg.Database.VectorDim)
	assert.Equal(t, "docs", cfg.Database.TableName)
	assert.Equal(t, "nomic-embed-text:latest", cfg.Embedding.Model)
	assert.Equal(t, 80, cfg.Processor.MinContentLength)
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  port: "9090"
  log_level: debug
retriever:
  top_k: 5
  match_threshold: 0.5
demo_mode: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, 5, cfg.Retriever.TopK)
	assert.Equal(t, float32(0.5), cfg.Retriever.MatchThreshold)
	assert.True(t, cfg.DemoMode)
	// Unset fields still get defaults.
	assert.Equal(t, 256, cfg.HF.MaxTokens)
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HF_API_KEY", "env-key")
	t.Setenv("HF_MODEL", "env-model")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")
	t.Setenv("PORT", "7070")
	t.Setenv("DEMO_MODE", "true")

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.HF.APIKey)
	assert.Equal(t, "env-model", cfg.HF.Model)
	assert.Equal(t, "http://ollama:11434", cfg.Embedding.BaseURL)
	assert.True(t, cfg.Embedding.Enabled)
	assert.Equal(t, "7070", cfg.Server.Port)
	assert.True(t, cfg.DemoMode)
}

func TestValidateDefaultsPass(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Empty(t, cfg.Validate())
}

func TestValidateCatchesBadValues(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	cfg.HF.MaxTokens = 0
	cfg.Retriever.TopK = 0
	cfg.Retriever.MatchThreshold = 2
	cfg.Database.VectorDim = 0
	cfg.Scraper.RateLimit = 0

	errs := cfg.Validate()
	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
	}
	assert.True(t, fields["huggingface.max_tokens"])
	assert.True(t, fields["retriever.top_k"])
	assert.True(t, fields["retriever.match_threshold"])
	assert.True(t, fields["database.vector_dim"])
	assert.True(t, fields["scraper.rate_limit"])
}

func TestValidationErrorString(t *testing.T) {
	err := ValidationError{Field: "retriever.top_k", Message: "top_k must be positive"}
	assert.Equal(t, "retriever.top_k: top_k must be positive", err.Error())
}
