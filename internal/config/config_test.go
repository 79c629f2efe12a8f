package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "dev")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ProviderHeuristic, cfg.AIProvider)
	assert.Equal(t, StorageFile, cfg.StorageBackend)
	assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
	assert.Equal(t, "llama3.2:1b", cfg.OllamaModel)
	assert.Equal(t, 60*time.Second, cfg.AIRequestTimeout)
	assert.False(t, cfg.EventsEnabled())
	assert.True(t, cfg.IsDev())
	assert.False(t, cfg.IsProd())
}

func Test_Load_Overrides(t *testing.T) {
	t.Setenv("AI_PROVIDER", "gemini")
	t.Setenv("AI_SECONDARY_PROVIDER", "ollama")
	t.Setenv("AI_API_KEY", "shared")
	t.Setenv("OPENAI_API_KEY", "own")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")
	t.Setenv("STORAGE_BACKEND", "postgres")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "shared", cfg.GeminiKey())
	assert.Equal(t, "own", cfg.OpenAIKey())
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.EventsEnabled())
	assert.Equal(t, StoragePostgres, cfg.StorageBackend)
}

func Test_Load_RejectsUnknownValues(t *testing.T) {
	t.Run("provider", func(t *testing.T) {
		t.Setenv("AI_PROVIDER", "mystery")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "op=config.Load")
	})
	t.Run("secondary", func(t *testing.T) {
		t.Setenv("AI_SECONDARY_PROVIDER", "mystery")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("storage", func(t *testing.T) {
		t.Setenv("STORAGE_BACKEND", "s3")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("prod default secret", func(t *testing.T) {
		t.Setenv("APP_ENV", "prod")
		_, err := Load()
		require.Error(t, err)
	})
	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("AI_REQUEST_TIMEOUT", "soon")
		_, err := Load()
		require.Error(t, err)
	})
}
