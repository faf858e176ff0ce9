package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

// Config holds all application-level configuration
type Config struct {
	// Server
	Port      string `env:"PORT" default:"5000"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// App Store
	AppStoreBaseURL    string `env:"APPSTORE_BASE_URL" default:"https://itunes.apple.com"`
	AppStoreFeedFormat string `env:"APPSTORE_FEED_FORMAT" default:"json"`

	// Play Store
	PlayStoreBaseURL        string `env:"PLAYSTORE_BASE_URL" default:"https://play.google.com"`
	PlayStoreReviewsPerPage int    `env:"PLAYSTORE_REVIEWS_PER_PAGE" default:"40"`
	ChromeHeadless          bool   `env:"CHROME_HEADLESS" default:"true"`

	// Scraper
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT" default:"15s"`
	MaxRetries     int           `env:"MAX_RETRIES" default:"3"`
	RateLimitDelay int           `env:"RATE_LIMIT_DELAY_MS" default:"200"` // milliseconds between requests

	// Cache
	RedisURL  string        `env:"REDIS_URL"`
	CacheTTL  time.Duration `env:"CACHE_TTL" default:"5m"`
	CacheSize int           `env:"CACHE_SIZE" default:"256"`

	// Lexicon
	LexiconLocales     string `env:"LEXICON_LOCALES" default:"nl"`
	LexiconDatabaseURL string `env:"LEXICON_DATABASE_URL"`

	// Statistics
	TopWords int `env:"TOP_WORDS" default:"10"`
}

// Load reads configuration from an optional .env file and the environment
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Locales returns the lexicon augmentation locales as a list
func (c *Config) Locales() []string {
	var locales []string
	for _, l := range strings.Split(c.LexiconLocales, ",") {
		if l = strings.TrimSpace(l); l != "" {
			locales = append(locales, l)
		}
	}
	return locales
}

func validate(cfg *Config) error {
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	switch strings.ToLower(cfg.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", cfg.LogLevel)
	}

	switch cfg.AppStoreFeedFormat {
	case "json", "xml":
	default:
		return fmt.Errorf("APPSTORE_FEED_FORMAT must be json or xml, got %q", cfg.AppStoreFeedFormat)
	}

	if cfg.PlayStoreReviewsPerPage < 1 {
		return errors.New("PLAYSTORE_REVIEWS_PER_PAGE must be positive")
	}
	if cfg.MaxRetries < 1 {
		return errors.New("MAX_RETRIES must be at least 1")
	}
	if cfg.RateLimitDelay < 0 {
		return errors.New("RATE_LIMIT_DELAY_MS must not be negative")
	}
	if cfg.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be positive")
	}
	if cfg.CacheSize < 1 {
		return errors.New("CACHE_SIZE must be positive")
	}
	if cfg.TopWords < 1 {
		return errors.New("TOP_WORDS must be positive")
	}

	return nil
}
