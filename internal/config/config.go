// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package config

import (
	"time"
)

// Config holds all application configuration, loaded from defaults, an
// optional YAML file, and MOVIETRAILER_* environment variables (in that
// order of increasing precedence).
type Config struct {
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Cache     CacheConfig     `koanf:"cache"`
	Watchlist WatchlistConfig `koanf:"watchlist"`
	Recommend RecommendConfig `koanf:"recommend"`
	Keystore  KeystoreConfig  `koanf:"keystore"`
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// TMDBConfig holds settings for the upstream TMDB API client.
//
// Environment Variables:
//   - MOVIETRAILER_TMDB_BASE_URL: API base URL (default: https://api.themoviedb.org/3)
//   - MOVIETRAILER_TMDB_API_KEY: bundled fallback API key, used when the
//     secure key store has no stored key
//   - MOVIETRAILER_TMDB_LANGUAGE: response language (default: en-US)
//   - MOVIETRAILER_TMDB_RETRY_ATTEMPTS: max attempts per request (default: 3)
//   - MOVIETRAILER_TMDB_RETRY_DELAY: initial backoff delay, doubled per retry (default: 500ms)
//   - MOVIETRAILER_TMDB_RATE_LIMIT: requests allowed per window, 0 disables (default: 35)
//   - MOVIETRAILER_TMDB_RATE_WINDOW: rate limit window (default: 10s)
type TMDBConfig struct {
	BaseURL       string        `koanf:"base_url" validate:"required"`
	APIKey        string        `koanf:"api_key"`
	Language      string        `koanf:"language" validate:"required"`
	RetryAttempts int           `koanf:"retry_attempts" validate:"min=1,max=10"`
	RetryDelay    time.Duration `koanf:"retry_delay"`
	RateLimit     int           `koanf:"rate_limit" validate:"min=0,max=1000"`
	RateWindow    time.Duration `koanf:"rate_window"`
}

// CacheConfig holds settings for the two-tier response cache.
//
// Environment Variables:
//   - MOVIETRAILER_CACHE_MEMORY_MAX_BYTES: memory tier capacity in bytes (default: 4194304)
//   - MOVIETRAILER_CACHE_MEMORY_TTL: memory entry lifetime (default: 15m)
//   - MOVIETRAILER_CACHE_DISK_PATH: disk tier directory (default: /data/cache)
//   - MOVIETRAILER_CACHE_DISK_MAX_BYTES: disk tier capacity in bytes (default: 67108864)
//   - MOVIETRAILER_CACHE_DISK_MAX_AGE_DAYS: disk entry lifetime in days (default: 7)
//   - MOVIETRAILER_CACHE_SWEEP_INTERVAL: periodic expiry sweep interval (default: 6h)
type CacheConfig struct {
	MemoryMaxBytes int64         `koanf:"memory_max_bytes"`
	MemoryTTL      time.Duration `koanf:"memory_ttl"`
	DiskPath       string        `koanf:"disk_path" validate:"required"`
	DiskMaxBytes   int64         `koanf:"disk_max_bytes"`
	DiskMaxAgeDays int           `koanf:"disk_max_age_days" validate:"min=1,max=365"`
	SweepInterval  time.Duration `koanf:"sweep_interval"`
}

// WatchlistConfig holds settings for the durable watchlist store.
//
// Environment Variables:
//   - MOVIETRAILER_WATCHLIST_PATH: JSON document path (default: /data/watchlist.json)
//   - MOVIETRAILER_WATCHLIST_FLUSH_DEBOUNCE: delay before persisting after a
//     mutation, coalescing bursts into one write (default: 2s)
type WatchlistConfig struct {
	Path          string        `koanf:"path" validate:"required"`
	FlushDebounce time.Duration `koanf:"flush_debounce"`
}

// RecommendConfig holds settings for the recommendation engine.
//
// Environment Variables:
//   - MOVIETRAILER_RECOMMEND_TOP_GENRES: watchlist genres used for discovery (default: 3)
//   - MOVIETRAILER_RECOMMEND_CANDIDATE_PAGES: discover pages fetched per refresh (default: 2)
//   - MOVIETRAILER_RECOMMEND_MIN_MATCH: minimum match score to include, 0-100 (default: 0)
//   - MOVIETRAILER_RECOMMEND_MAX_RESULTS: result list cap (default: 20)
type RecommendConfig struct {
	TopGenres      int `koanf:"top_genres" validate:"min=1,max=10"`
	CandidatePages int `koanf:"candidate_pages" validate:"min=1,max=5"`
	MinMatchScore  int `koanf:"min_match_score" validate:"min=0,max=100"`
	MaxResults     int `koanf:"max_results" validate:"min=1,max=100"`
}

// KeystoreConfig holds settings for the sealed credential store.
//
// When MasterSecret is empty the secure tier is unavailable: stored keys
// cannot be read or written, and API key resolution falls back to the
// bundled TMDB key.
//
// Environment Variables:
//   - MOVIETRAILER_KEYSTORE_PATH: sealed store directory (default: /data/keystore)
//   - MOVIETRAILER_KEYSTORE_MASTER_SECRET: secret the sealing key is derived
//     from; 16+ characters when set (default: empty, secure tier disabled)
type KeystoreConfig struct {
	Path         string `koanf:"path" validate:"required"`
	MasterSecret string `koanf:"master_secret"`
}

// ServerConfig holds HTTP server settings.
//
// Environment Variables:
//   - MOVIETRAILER_HTTP_HOST: listen address (default: 0.0.0.0)
//   - MOVIETRAILER_HTTP_PORT: listen port (default: 8757)
//   - MOVIETRAILER_HTTP_READ_TIMEOUT: request read timeout (default: 15s)
//   - MOVIETRAILER_HTTP_WRITE_TIMEOUT: response write timeout (default: 60s)
//   - MOVIETRAILER_SHUTDOWN_TIMEOUT: graceful shutdown deadline (default: 10s)
//   - MOVIETRAILER_CORS_ORIGINS: comma-separated allowed origins (default: *)
//   - MOVIETRAILER_RATE_LIMIT_REQUESTS: requests per client per window (default: 300)
//   - MOVIETRAILER_RATE_LIMIT_WINDOW: rate limit window (default: 1m)
//   - MOVIETRAILER_DISABLE_RATE_LIMIT: disable API rate limiting (default: false)
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - MOVIETRAILER_LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - MOVIETRAILER_LOG_FORMAT: json or console (default: json)
//   - MOVIETRAILER_LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"required,oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json console"`
	Caller bool   `koanf:"caller"`
}
