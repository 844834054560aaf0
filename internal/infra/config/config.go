package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/subosito/gotenv"
)

type Config struct {
	Env  string
	Port string

	ChromaURL        string
	ChromaCollection string

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string

	NewsDataKey     string
	FinnhubKey      string
	AlphaVantageKey string
	MarketAuxKey    string

	SourceTimeout      time.Duration
	SourceRateInterval time.Duration
	SoftDeadline       time.Duration

	ContextBudget   int
	DocumentBudget  int
	DocumentItemCap int
	NewsItemCap     int

	SessionCapacity int
	HistoryCapacity int

	RefreshEnabled  bool
	RefreshInterval time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is picked up first, without overriding variables already set.
func Load() *Config {
	_ = gotenv.Load()

	return &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "9020"),

		ChromaURL:        getEnv("CHROMA_URL", "http://localhost:8000"),
		ChromaCollection: getEnv("CHROMA_COLLECTION", "msme_companies"),

		OpenAIKey:     getSecret("OPENAI_API_KEY", "OPENAI_API_KEY_FILE", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-3.5-turbo"),

		NewsDataKey:     getSecret("NEWSDATA_API_KEY", "NEWSDATA_API_KEY_FILE", ""),
		FinnhubKey:      getSecret("FINNHUB_API_KEY", "FINNHUB_API_KEY_FILE", ""),
		AlphaVantageKey: getSecret("ALPHAVANTAGE_API_KEY", "ALPHAVANTAGE_API_KEY_FILE", ""),
		MarketAuxKey:    getSecret("MARKETAUX_API_KEY", "MARKETAUX_API_KEY_FILE", ""),

		SourceTimeout:      getEnvDuration("NEWS_SOURCE_TIMEOUT", 10*time.Second),
		SourceRateInterval: getEnvDuration("NEWS_SOURCE_RATE_INTERVAL", 2*time.Second),
		SoftDeadline:       getEnvDuration("QUERY_SOFT_DEADLINE", 20*time.Second),

		ContextBudget:   getEnvInt("CONTEXT_BUDGET_CHARS", 6000),
		DocumentBudget:  getEnvInt("CONTEXT_DOCUMENT_BUDGET_CHARS", 4200),
		DocumentItemCap: getEnvInt("CONTEXT_DOCUMENT_ITEM_CAP", 500),
		NewsItemCap:     getEnvInt("CONTEXT_NEWS_ITEM_CAP", 300),

		SessionCapacity: getEnvInt("SESSION_CAPACITY", 1024),
		HistoryCapacity: getEnvInt("SESSION_HISTORY_TURNS", 10),

		RefreshEnabled:  getEnvBool("NEWS_REFRESH_ENABLED", true),
		RefreshInterval: getEnvDuration("NEWS_REFRESH_INTERVAL", 30*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getSecret(envKey, fileEnvKey, fallback string) string {
	if value, ok := os.LookupEnv(envKey); ok {
		return value
	}

	if filePath, ok := os.LookupEnv(fileEnvKey); ok {
		content, err := os.ReadFile(filePath)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}
