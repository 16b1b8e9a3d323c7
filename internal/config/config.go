package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"agri-advisor/internal/services/llm"
)

// Provider names accepted in LLM_PROVIDER.
const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// DefaultOllamaModel is used when LLM_PROVIDER=ollama and LLM_MODEL is unset.
const DefaultOllamaModel = "gemma3n:e4b"

type Config struct {
	Server    ServerConfig
	LLM       LLMConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
	QueryLog  QueryLogConfig
	Prompts   PromptsConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

type LLMConfig struct {
	Provider   string
	APIKey     string
	BaseURL    string
	Model      string
	OllamaURL  string
	Timeout    time.Duration
	MaxRetries int
}

// RedisConfig is optional. An empty Addr disables Redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type RateLimitConfig struct {
	RequestsPerMinute int
	Burst             int
}

// QueryLogConfig is optional. An empty DatabaseURL disables the query log.
type QueryLogConfig struct {
	DatabaseURL   string
	Retention     time.Duration
	PruneInterval time.Duration
}

type PromptsConfig struct {
	File string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8000"),
			ReadTimeout:    getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("WRITE_TIMEOUT", 150*time.Second),
			IdleTimeout:    getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("REQUEST_TIMEOUT", 60*time.Second),
		},
		LLM: LLMConfig{
			Provider:   strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
			APIKey:     getEnv("GEMINI_API_KEY", ""),
			BaseURL:    getEnv("LLM_BASE_URL", llm.DefaultBaseURL),
			Model:      getEnv("LLM_MODEL", ""),
			OllamaURL:  getEnv("OLLAMA_URL", "http://localhost:11434"),
			Timeout:    getEnvAsDuration("LLM_TIMEOUT", 120*time.Second),
			MaxRetries: getEnvAsInt("LLM_MAX_RETRIES", 2),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		RateLimit: RateLimitConfig{
			RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 60),
			Burst:             getEnvAsInt("RATE_LIMIT_BURST", 10),
		},
		QueryLog: QueryLogConfig{
			DatabaseURL:   getEnv("POSTGRES_URL", ""),
			Retention:     getEnvAsDuration("QUERY_LOG_RETENTION", 720*time.Hour),
			PruneInterval: getEnvAsDuration("QUERY_LOG_PRUNE_INTERVAL", time.Hour),
		},
		Prompts: PromptsConfig{
			File: getEnv("PROMPTS_FILE", ""),
		},
		Log: LoadLog(),
	}

	switch cfg.LLM.Provider {
	case ProviderOpenAI:
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required")
		}
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = llm.DefaultModel
		}
	case ProviderOllama:
		if cfg.LLM.Model == "" {
			cfg.LLM.Model = DefaultOllamaModel
		}
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLM.Provider)
	}

	if cfg.RateLimit.RequestsPerMinute <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_RPM must be positive")
	}
	if cfg.RateLimit.Burst <= 0 {
		return nil, fmt.Errorf("RATE_LIMIT_BURST must be positive")
	}
	if cfg.QueryLog.PruneInterval <= 0 {
		return nil, fmt.Errorf("QUERY_LOG_PRUNE_INTERVAL must be positive")
	}
	if cfg.QueryLog.Retention <= 0 {
		return nil, fmt.Errorf("QUERY_LOG_RETENTION must be positive")
	}

	return cfg, nil
}

// LoadLog reads only the logging settings. Replay mode uses it without the
// rest of the configuration.
func LoadLog() LogConfig {
	return LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "json"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
