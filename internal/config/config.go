// Package config builds the immutable run configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultFeedURL   = "https://www.boston.com/feed/bdc-msn-rss"
	DefaultUserAgent = "Mozilla/5.0 (compatible; BostonSpeedRead/1.0)"
)

type Config struct {
	// LLM settings
	Provider       string // "openai" or "gemini"
	OpenAIAPIKey   string
	GeminiAPIKey   string
	Model          string
	MaxLLMRequests int // 0 = unlimited

	// RSS settings
	FeedsConfigPath   string
	Feeds             []string
	MaxArticles       int
	MaxEntriesPerFeed int

	// Scraper settings
	UserAgent      string
	RequestTimeout time.Duration
	PacingDelay    time.Duration

	// Feed fetch retries, 1 means a single attempt
	RetryAttempts int
	RetryDelay    time.Duration

	// Output settings
	SnapshotPath string
	HistoryPath  string
	MaxHistory   int

	Debug bool
}

// FeedsConfig is YAML config structure
// feeds:
//   - https://...
type FeedsConfig struct {
	Feeds []string `yaml:"feeds"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Provider:          ProviderOpenAI,
		FeedsConfigPath:   "configs/feeds.yaml",
		MaxArticles:       12,
		MaxEntriesPerFeed: 15,
		UserAgent:         DefaultUserAgent,
		RequestTimeout:    30 * time.Second,
		PacingDelay:       time.Second,
		RetryAttempts:     1,
		RetryDelay:        5 * time.Second,
		SnapshotPath:      "news-data.json",
		HistoryPath:       "news-history.json",
		MaxHistory:        50,
	}

	if p := os.Getenv("LLM_PROVIDER"); p != "" {
		cfg.Provider = strings.ToLower(strings.TrimSpace(p))
	}
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	cfg.Model = getEnvOrDefault("LLM_MODEL", defaultModel(cfg.Provider))
	cfg.MaxLLMRequests = getEnvIntOrDefault("MAX_LLM_REQUESTS", 0)

	cfg.FeedsConfigPath = getEnvOrDefault("FEEDS_CONFIG_PATH", cfg.FeedsConfigPath)
	cfg.MaxArticles = getEnvPositiveIntOrDefault("MAX_ARTICLES", cfg.MaxArticles)
	cfg.MaxEntriesPerFeed = getEnvPositiveIntOrDefault("MAX_ENTRIES_PER_FEED", cfg.MaxEntriesPerFeed)

	cfg.UserAgent = getEnvOrDefault("USER_AGENT", cfg.UserAgent)
	cfg.RequestTimeout = getEnvDurationOrDefault("REQUEST_TIMEOUT", cfg.RequestTimeout)
	cfg.PacingDelay = getEnvDurationOrDefault("PACING_DELAY", cfg.PacingDelay)

	cfg.RetryAttempts = getEnvPositiveIntOrDefault("RETRY_ATTEMPTS", cfg.RetryAttempts)
	cfg.RetryDelay = getEnvDurationOrDefault("RETRY_DELAY", cfg.RetryDelay)

	cfg.SnapshotPath = getEnvOrDefault("SNAPSHOT_PATH", cfg.SnapshotPath)
	cfg.HistoryPath = getEnvOrDefault("HISTORY_PATH", cfg.HistoryPath)
	cfg.MaxHistory = getEnvPositiveIntOrDefault("MAX_HISTORY", cfg.MaxHistory)

	if debug := os.Getenv("DEBUG"); debug == "true" {
		cfg.Debug = true
	}

	feeds, err := LoadFeeds(cfg.FeedsConfigPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		feeds = []string{DefaultFeedURL}
	case err != nil:
		return nil, fmt.Errorf("loading feeds from %s: %w", cfg.FeedsConfigPath, err)
	}
	cfg.Feeds = feeds

	return cfg, cfg.Validate()
}

// LoadFeeds reads RSS feeds list from YAML file
func LoadFeeds(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var fc FeedsConfig
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&fc); err != nil {
		return nil, err
	}

	feeds := make([]string, 0, len(fc.Feeds))
	for _, u := range fc.Feeds {
		if u = strings.TrimSpace(u); u != "" {
			feeds = append(feeds, u)
		}
	}
	return feeds, nil
}

// APIKey returns the credential of the configured provider.
func (c *Config) APIKey() string {
	if c.Provider == ProviderGemini {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY environment variable not set")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be '%s' or '%s', got %q", ProviderOpenAI, ProviderGemini, c.Provider)
	}
	if len(c.Feeds) == 0 {
		return fmt.Errorf("no RSS feeds configured")
	}
	return nil
}

func defaultModel(provider string) string {
	if provider == ProviderGemini {
		return "gemini-1.5-flash"
	}
	return "gpt-4"
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

func getEnvPositiveIntOrDefault(key string, defaultValue int) int {
	if v := getEnvIntOrDefault(key, defaultValue); v > 0 {
		return v
	}
	return defaultValue
}

// getEnvDurationOrDefault accepts Go durations ("500ms", "2s") or plain seconds.
func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
