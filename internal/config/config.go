package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
	ProviderMock   = "mock"

	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string

	LLMProvider  string
	GeminiAPIKey string
	GeminiModel  string
	GeminiURL    string
	OllamaURL    string
	OllamaModel  string
	OpenAIAPIKey string
	OpenAIModel  string
	OpenAIURL    string

	Store  string
	DBPath string

	Timezone           string
	SessionIdleTimeout time.Duration
	SweepInterval      time.Duration
	HealthInterval     time.Duration

	CORSAllowedOrigins []string
	RateLimitPerMinute int
	SeedDemo           bool
}

// Load reads configuration from the environment, after merging any .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        getEnv("JOURNALY_PORT", "8080"),
		Environment: getEnv("JOURNALY_ENV", "development"),
		LogLevel:    getEnv("JOURNALY_LOG_LEVEL", "info"),

		LLMProvider:  strings.ToLower(getEnv("JOURNALY_LLM_PROVIDER", ProviderGemini)),
		GeminiAPIKey: firstEnv("JOURNALY_GEMINI_API_KEY", "GEMINI_API_KEY", "API_KEY"),
		GeminiModel:  getEnv("JOURNALY_GEMINI_MODEL", "gemini-2.5-flash"),
		GeminiURL:    getEnv("JOURNALY_GEMINI_URL", ""),
		OllamaURL:    getEnv("JOURNALY_OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:  getEnv("JOURNALY_OLLAMA_MODEL", "qwen2.5:7b"),
		OpenAIAPIKey: firstEnv("JOURNALY_OPENAI_API_KEY", "OPENAI_API_KEY"),
		OpenAIModel:  getEnv("JOURNALY_OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIURL:    getEnv("JOURNALY_OPENAI_URL", ""),

		Store:  strings.ToLower(getEnv("JOURNALY_STORE", StoreMemory)),
		DBPath: getEnv("JOURNALY_DB_PATH", ":memory:"),

		Timezone:           getEnv("JOURNALY_TIMEZONE", "Local"),
		SessionIdleTimeout: getEnvDuration("JOURNALY_SESSION_IDLE_TIMEOUT", 30*time.Minute),
		SweepInterval:      getEnvDuration("JOURNALY_SWEEP_INTERVAL", time.Minute),
		HealthInterval:     getEnvDuration("JOURNALY_HEALTH_INTERVAL", 5*time.Minute),

		CORSAllowedOrigins: getEnvList("JOURNALY_CORS_ALLOWED_ORIGINS", []string{"*"}),
		RateLimitPerMinute: getEnvInt("JOURNALY_RATE_LIMIT", 60),
		SeedDemo:           getEnvBool("JOURNALY_SEED_DEMO", false),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case ProviderGemini, ProviderOllama, ProviderOpenAI, ProviderMock:
	default:
		return fmt.Errorf("JOURNALY_LLM_PROVIDER must be one of gemini, ollama, openai, mock; got %q", c.LLMProvider)
	}
	switch c.Store {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("JOURNALY_STORE must be memory or sqlite; got %q", c.Store)
	}
	if c.Store == StoreSQLite && c.DBPath == "" {
		return fmt.Errorf("JOURNALY_DB_PATH is required for the sqlite store")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("JOURNALY_TIMEZONE: %w", err)
	}
	if c.SessionIdleTimeout <= 0 {
		return fmt.Errorf("JOURNALY_SESSION_IDLE_TIMEOUT must be positive")
	}
	if c.SweepInterval <= 0 || c.HealthInterval <= 0 {
		return fmt.Errorf("scheduler intervals must be positive")
	}
	if c.RateLimitPerMinute < 0 {
		return fmt.Errorf("JOURNALY_RATE_LIMIT must not be negative")
	}
	return nil
}

// Location returns the configured timezone. Load has already validated it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// firstEnv returns the first non-empty value among keys
func firstEnv(keys ...string) string {
	for _, k := range keys {
		if val := os.Getenv(k); val != "" {
			return val
		}
	}
	return ""
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val == "true" || val == "1" || val == "yes"
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
