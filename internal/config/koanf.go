// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order
// of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/movietrailer/config.yaml",
	"/etc/movietrailer/config.yml",
}

// ConfigPathEnvVar is the environment variable that overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// EnvPrefix is the prefix shared by all configuration environment variables.
const EnvPrefix = "MOVIETRAILER_"

// defaultConfig returns a Config with all default values. These are applied
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		TMDB: TMDBConfig{
			BaseURL:       "https://api.themoviedb.org/3",
			APIKey:        "",
			Language:      "en-US",
			RetryAttempts: 3,
			RetryDelay:    500 * time.Millisecond,
			RateLimit:     35, // TMDB allows ~50/s; stay well under shared limits
			RateWindow:    10 * time.Second,
		},
		Cache: CacheConfig{
			MemoryMaxBytes: 4 << 20, // 4MiB
			MemoryTTL:      15 * time.Minute,
			DiskPath:       "/data/cache",
			DiskMaxBytes:   64 << 20, // 64MiB
			DiskMaxAgeDays: 7,
			SweepInterval:  6 * time.Hour,
		},
		Watchlist: WatchlistConfig{
			Path:          "/data/watchlist.json",
			FlushDebounce: 2 * time.Second,
		},
		Recommend: RecommendConfig{
			TopGenres:      3,
			CandidatePages: 2,
			MinMatchScore:  0, // include every candidate by default
			MaxResults:     20,
		},
		Keystore: KeystoreConfig{
			Path:         "/data/keystore",
			MasterSecret: "", // secure tier disabled until a secret is provided
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8757,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second, // listings can take up to 30s upstream
			ShutdownTimeout:   10 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     300,
			RateLimitWindow:   1 * time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load loads configuration using Koanf v2 with layered sources:
//  1. Defaults: built-in default values
//  2. Config File: optional YAML file (if one exists)
//  3. Environment Variables: MOVIETRAILER_* overrides
//
// Precedence is ENV > File > Defaults. The loaded configuration is
// validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: environment variables (highest priority)
	// Variable names map to koanf paths through an explicit table:
	// MOVIETRAILER_TMDB_API_KEY -> tmdb.api_key
	// MOVIETRAILER_HTTP_PORT    -> server.port
	envProvider := env.Provider(EnvPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Post-process slice fields from comma-separated strings
	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	// Check environment variable first
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	// Search default paths
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths are parsed as comma-separated slices.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known
// slice fields. Env vars come in as strings, but the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults)
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc transforms environment variable names to koanf config paths.
// The provider strips nothing itself; the full variable name arrives here and
// keys outside the explicit table are dropped so unrelated MOVIETRAILER_*
// variables cannot pollute the configuration.
//
// Examples:
//   - MOVIETRAILER_TMDB_API_KEY -> tmdb.api_key
//   - MOVIETRAILER_HTTP_PORT -> server.port
//   - MOVIETRAILER_LOG_LEVEL -> logging.level
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))

	envMappings := map[string]string{
		// TMDB client mappings
		"tmdb_base_url":       "tmdb.base_url",
		"tmdb_api_key":        "tmdb.api_key",
		"tmdb_language":       "tmdb.language",
		"tmdb_retry_attempts": "tmdb.retry_attempts",
		"tmdb_retry_delay":    "tmdb.retry_delay",
		"tmdb_rate_limit":     "tmdb.rate_limit",
		"tmdb_rate_window":    "tmdb.rate_window",

		// Cache mappings
		"cache_memory_max_bytes":  "cache.memory_max_bytes",
		"cache_memory_ttl":        "cache.memory_ttl",
		"cache_disk_path":         "cache.disk_path",
		"cache_disk_max_bytes":    "cache.disk_max_bytes",
		"cache_disk_max_age_days": "cache.disk_max_age_days",
		"cache_sweep_interval":    "cache.sweep_interval",

		// Watchlist mappings
		"watchlist_path":           "watchlist.path",
		"watchlist_flush_debounce": "watchlist.flush_debounce",

		// Recommendation engine mappings
		"recommend_top_genres":      "recommend.top_genres",
		"recommend_candidate_pages": "recommend.candidate_pages",
		"recommend_min_match":       "recommend.min_match_score",
		"recommend_max_results":     "recommend.max_results",

		// Key store mappings
		"keystore_path":          "keystore.path",
		"keystore_master_secret": "keystore.master_secret",

		// Server mappings
		"http_host":           "server.host",
		"http_port":           "server.port",
		"http_read_timeout":   "server.read_timeout",
		"http_write_timeout":  "server.write_timeout",
		"shutdown_timeout":    "server.shutdown_timeout",
		"cors_origins":        "server.cors_origins",
		"rate_limit_requests": "server.rate_limit_requests",
		"rate_limit_window":   "server.rate_limit_window",
		"disable_rate_limit":  "server.rate_limit_disabled",

		// Logging mappings
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Unmapped keys are skipped entirely
	return ""
}
