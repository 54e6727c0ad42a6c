// Package config loads runtime settings from the environment and the static
// lookup tables from YAML.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/deusflow/mediamon/internal/scraper"
)

// Sentiment backends.
const (
	SentimentLexicon = "lexicon"
	SentimentGemini  = "gemini"
	SentimentOpenAI  = "openai"
	SentimentNone    = "none"
)

type Config struct {
	// Provider keys; empty keys downgrade the provider set
	NewsAPIKey     string
	GuardianAPIKey string
	EnableGDELT    bool

	// Sentiment settings
	Sentiment     string // lexicon | gemini | openai | none
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIModel   string
	MaxAIRequests int // remote sentiment calls per run (0 = unlimited)

	// Pipeline settings
	Concurrency    int
	HTTPTimeout    time.Duration
	SiteWindowDays int
	Extractors     []string

	// Tables
	TablesPath string

	// App settings
	Debug      bool
	LogLevel   string
	ListenAddr string
}

func Load() (*Config, error) {
	cfg := &Config{
		EnableGDELT:    true,
		Sentiment:      SentimentLexicon,
		MaxAIRequests:  20,
		Concurrency:    4,
		HTTPTimeout:    15 * time.Second,
		SiteWindowDays: 7,
		Extractors:     append([]string(nil), scraper.StrategyNames...),
		LogLevel:       "info",
		ListenAddr:     ":8080",
	}

	cfg.NewsAPIKey = strings.TrimSpace(os.Getenv("NEWS_API_KEY"))
	cfg.GuardianAPIKey = strings.TrimSpace(os.Getenv("GUARDIAN_API_KEY"))
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	cfg.GeminiModel = os.Getenv("GEMINI_MODEL")
	cfg.OpenAIModel = os.Getenv("OPENAI_MODEL")

	if v := os.Getenv("MEDIAMON_GDELT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EnableGDELT = b
		}
	}

	cfg.Sentiment = strings.ToLower(getEnvOrDefault("MEDIAMON_SENTIMENT", cfg.Sentiment))
	cfg.MaxAIRequests = getEnvIntOrDefault("MEDIAMON_MAX_AI_REQUESTS", cfg.MaxAIRequests)
	cfg.Concurrency = getEnvIntOrDefault("MEDIAMON_CONCURRENCY", cfg.Concurrency)
	cfg.SiteWindowDays = getEnvIntOrDefault("MEDIAMON_SITE_WINDOW_DAYS", cfg.SiteWindowDays)
	cfg.TablesPath = os.Getenv("MEDIAMON_TABLES")

	if v := os.Getenv("MEDIAMON_HTTP_TIMEOUT"); v != "" {
		d, err := parseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("MEDIAMON_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}

	if v := os.Getenv("MEDIAMON_EXTRACTORS"); v != "" {
		cfg.Extractors = nil
		for _, name := range strings.Split(v, ",") {
			if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
				cfg.Extractors = append(cfg.Extractors, name)
			}
		}
	}

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		cfg.LogLevel = strings.ToLower(lvl)
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.ListenAddr = ":" + port
	}
	cfg.ListenAddr = getEnvOrDefault("MEDIAMON_LISTEN", cfg.ListenAddr)

	return cfg, cfg.Validate()
}

// parseDuration accepts Go durations ("20s") and bare seconds ("20").
func parseDuration(v string) (time.Duration, error) {
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func (c *Config) Validate() error {
	switch c.Sentiment {
	case SentimentLexicon, SentimentNone:
	case SentimentGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for MEDIAMON_SENTIMENT=gemini")
		}
	case SentimentOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for MEDIAMON_SENTIMENT=openai")
		}
	default:
		return fmt.Errorf("MEDIAMON_SENTIMENT must be one of lexicon, gemini, openai, none; got %q", c.Sentiment)
	}

	if c.Concurrency < 1 {
		return fmt.Errorf("MEDIAMON_CONCURRENCY must be at least 1")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("MEDIAMON_HTTP_TIMEOUT must be positive")
	}
	if c.SiteWindowDays < 1 {
		return fmt.Errorf("MEDIAMON_SITE_WINDOW_DAYS must be at least 1")
	}
	if c.MaxAIRequests < 0 {
		return fmt.Errorf("MEDIAMON_MAX_AI_REQUESTS must not be negative")
	}

	for _, name := range c.Extractors {
		if !knownExtractor(name) {
			return fmt.Errorf("unknown extractor %q in MEDIAMON_EXTRACTORS", name)
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be debug, info, warn or error")
	}
	return nil
}

// ExtractorEnabled reports whether the named strategy is configured.
func (c *Config) ExtractorEnabled(name string) bool {
	for _, n := range c.Extractors {
		if n == name {
			return true
		}
	}
	return false
}

func knownExtractor(name string) bool {
	for _, n := range scraper.StrategyNames {
		if n == name {
			return true
		}
	}
	return false
}
