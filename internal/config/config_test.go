package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agri-advisor/internal/services/llm"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "REQUEST_TIMEOUT",
		"LLM_PROVIDER", "GEMINI_API_KEY", "LLM_BASE_URL", "LLM_MODEL", "OLLAMA_URL",
		"LLM_TIMEOUT", "LLM_MAX_RETRIES", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB",
		"RATE_LIMIT_RPM", "RATE_LIMIT_BURST", "POSTGRES_URL", "QUERY_LOG_RETENTION",
		"QUERY_LOG_PRUNE_INTERVAL", "PROMPTS_FILE", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, 60*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, ProviderOpenAI, cfg.LLM.Provider)
	assert.Equal(t, llm.DefaultBaseURL, cfg.LLM.BaseURL)
	assert.Equal(t, llm.DefaultModel, cfg.LLM.Model)
	assert.Equal(t, 2, cfg.LLM.MaxRetries)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 60, cfg.RateLimit.RequestsPerMinute)
	assert.Equal(t, 10, cfg.RateLimit.Burst)
	assert.Empty(t, cfg.QueryLog.DatabaseURL)
	assert.Equal(t, 720*time.Hour, cfg.QueryLog.Retention)
	assert.Equal(t, time.Hour, cfg.QueryLog.PruneInterval)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "Ollama")
	t.Setenv("LLM_MODEL", "gemma2")
	t.Setenv("PORT", "9000")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("QUERY_LOG_RETENTION", "24h")
	t.Setenv("RATE_LIMIT_BURST", "not-a-number")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "console")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ProviderOllama, cfg.LLM.Provider)
	assert.Equal(t, "gemma2", cfg.LLM.Model)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
	assert.Equal(t, 24*time.Hour, cfg.QueryLog.Retention)
	assert.Equal(t, 10, cfg.RateLimit.Burst, "unparsable values fall back to the default")
}

func TestLoadOllamaDefaultModel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LLM_PROVIDER", "ollama")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultOllamaModel, cfg.LLM.Model)
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{name: "missing api key", env: map[string]string{}, want: "GEMINI_API_KEY"},
		{name: "unknown provider", env: map[string]string{"LLM_PROVIDER": "bard"}, want: "LLM_PROVIDER"},
		{name: "zero rate", env: map[string]string{"GEMINI_API_KEY": "k", "RATE_LIMIT_RPM": "0"}, want: "RATE_LIMIT_RPM"},
		{name: "zero burst", env: map[string]string{"GEMINI_API_KEY": "k", "RATE_LIMIT_BURST": "0"}, want: "RATE_LIMIT_BURST"},
		{name: "negative burst", env: map[string]string{"GEMINI_API_KEY": "k", "RATE_LIMIT_BURST": "-3"}, want: "RATE_LIMIT_BURST"},
		{name: "zero prune interval", env: map[string]string{"GEMINI_API_KEY": "k", "QUERY_LOG_PRUNE_INTERVAL": "0s"}, want: "QUERY_LOG_PRUNE_INTERVAL"},
		{name: "negative retention", env: map[string]string{"GEMINI_API_KEY": "k", "QUERY_LOG_RETENTION": "-1h"}, want: "QUERY_LOG_RETENTION"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
