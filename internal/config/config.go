// Package config provides centralized configuration loaded from environment
// variables. Shared by both cmd/api and cmd/ingest.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Collection names: single source of truth for the document store
// --------------------------------------------------------------------------

const (
	CardsCollection  = "cards"
	SetsCollection   = "sets"
	SeriesCollection = "series"
)

// --------------------------------------------------------------------------
// Config struct, populated from environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Document store
	MongoURI         string
	MongoDatabase    string
	MongoMinPool     int
	MongoMaxPool     int
	MongoOpTimeout   time.Duration
	HistoryURL       string // Postgres; empty disables sync history
	HistoryRetention time.Duration

	// API server
	APIHost     string
	APIPort     int
	Environment string // development, staging, production
	Debug       bool

	// CORS
	CORSAllowOrigins []string

	// Rate limiting
	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	// Upstream card API
	TCGdexBaseURL           string
	TCGdexLanguage          string
	TCGdexRequestsPerMinute int
	TCGdexTimeout           time.Duration

	// Sync
	SyncCardBatchSize    int
	SyncItemTimeout      time.Duration
	SyncInterval         time.Duration // 0 disables the scheduled trigger
	SyncExcludedRarities []string      // nil keeps the built-in list

	// Cache
	CacheEnabled bool
	CacheSize    int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		MongoURI:         envOr("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase:    envOr("MONGODB_DATABASE", "pokevault"),
		MongoMinPool:     envInt("MONGODB_MIN_POOL", 2),
		MongoMaxPool:     envInt("MONGODB_MAX_POOL", 20),
		MongoOpTimeout:   time.Duration(envInt("MONGODB_TIMEOUT_SECONDS", 10)) * time.Second,
		HistoryURL:       envOr("SYNC_HISTORY_DATABASE_URL", ""),
		HistoryRetention: time.Duration(envInt("SYNC_HISTORY_RETENTION_DAYS", 90)) * 24 * time.Hour,

		APIHost:     envOr("API_HOST", "0.0.0.0"),
		APIPort:     envInt("API_PORT", envInt("PORT", 3000)),
		Environment: envOr("ENVIRONMENT", "development"),
		Debug:       envBool("DEBUG", false),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{
			"http://localhost:3000",
			"http://localhost:4321",
			"http://localhost:5173",
		}),

		RateLimitEnabled:  envBool("RATE_LIMIT_ENABLED", true),
		RateLimitRequests: envInt("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:   time.Duration(envInt("RATE_LIMIT_WINDOW", 60)) * time.Second,

		TCGdexBaseURL:           strings.TrimRight(envOr("TCGDEX_BASE_URL", "https://api.tcgdex.net/v2"), "/"),
		TCGdexLanguage:          envOr("TCGDEX_LANGUAGE", "fr"),
		TCGdexRequestsPerMinute: envInt("TCGDEX_REQUESTS_PER_MINUTE", 0),
		TCGdexTimeout:           time.Duration(envInt("TCGDEX_TIMEOUT_SECONDS", 30)) * time.Second,

		SyncCardBatchSize:    envInt("SYNC_CARD_BATCH_SIZE", 50),
		SyncItemTimeout:      time.Duration(envInt("SYNC_ITEM_TIMEOUT_SECONDS", 60)) * time.Second,
		SyncInterval:         time.Duration(envInt("SYNC_INTERVAL_HOURS", 24)) * time.Hour,
		SyncExcludedRarities: envList("SYNC_EXCLUDED_RARITIES", nil),

		CacheEnabled: envBool("CACHE_ENABLED", true),
		CacheSize:    envInt("CACHE_SIZE", 256),
	}

	if cfg.MongoURI == "" || cfg.MongoDatabase == "" {
		return nil, fmt.Errorf("MONGODB_URI and MONGODB_DATABASE must be set")
	}
	if cfg.SyncCardBatchSize < 1 {
		return nil, fmt.Errorf("SYNC_CARD_BATCH_SIZE must be at least 1, got %d", cfg.SyncCardBatchSize)
	}
	if cfg.CacheSize < 1 {
		cfg.CacheSize = 1
	}
	return cfg, nil
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HistoryEnabled reports whether sync runs are persisted to Postgres.
func (c *Config) HistoryEnabled() bool {
	return c.HistoryURL != ""
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}
