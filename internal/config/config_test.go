// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	cfg := defaultConfig()

	// TMDB defaults
	if cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("TMDB.BaseURL = %q, want https://api.themoviedb.org/3", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.APIKey != "" {
		t.Errorf("TMDB.APIKey should be empty by default, got %q", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.Language != "en-US" {
		t.Errorf("TMDB.Language = %q, want en-US", cfg.TMDB.Language)
	}
	if cfg.TMDB.RetryAttempts != 3 {
		t.Errorf("TMDB.RetryAttempts = %d, want 3", cfg.TMDB.RetryAttempts)
	}
	if cfg.TMDB.RetryDelay != 500*time.Millisecond {
		t.Errorf("TMDB.RetryDelay = %v, want 500ms", cfg.TMDB.RetryDelay)
	}
	if cfg.TMDB.RateLimit != 35 {
		t.Errorf("TMDB.RateLimit = %d, want 35", cfg.TMDB.RateLimit)
	}
	if cfg.TMDB.RateWindow != 10*time.Second {
		t.Errorf("TMDB.RateWindow = %v, want 10s", cfg.TMDB.RateWindow)
	}

	// Cache defaults
	if cfg.Cache.MemoryMaxBytes != 4<<20 {
		t.Errorf("Cache.MemoryMaxBytes = %d, want 4MiB", cfg.Cache.MemoryMaxBytes)
	}
	if cfg.Cache.MemoryTTL != 15*time.Minute {
		t.Errorf("Cache.MemoryTTL = %v, want 15m", cfg.Cache.MemoryTTL)
	}
	if cfg.Cache.DiskPath != "/data/cache" {
		t.Errorf("Cache.DiskPath = %q, want /data/cache", cfg.Cache.DiskPath)
	}
	if cfg.Cache.DiskMaxBytes != 64<<20 {
		t.Errorf("Cache.DiskMaxBytes = %d, want 64MiB", cfg.Cache.DiskMaxBytes)
	}
	if cfg.Cache.DiskMaxAgeDays != 7 {
		t.Errorf("Cache.DiskMaxAgeDays = %d, want 7", cfg.Cache.DiskMaxAgeDays)
	}
	if cfg.Cache.SweepInterval != 6*time.Hour {
		t.Errorf("Cache.SweepInterval = %v, want 6h", cfg.Cache.SweepInterval)
	}

	// Watchlist defaults
	if cfg.Watchlist.Path != "/data/watchlist.json" {
		t.Errorf("Watchlist.Path = %q, want /data/watchlist.json", cfg.Watchlist.Path)
	}
	if cfg.Watchlist.FlushDebounce != 2*time.Second {
		t.Errorf("Watchlist.FlushDebounce = %v, want 2s", cfg.Watchlist.FlushDebounce)
	}

	// Recommend defaults
	if cfg.Recommend.TopGenres != 3 {
		t.Errorf("Recommend.TopGenres = %d, want 3", cfg.Recommend.TopGenres)
	}
	if cfg.Recommend.CandidatePages != 2 {
		t.Errorf("Recommend.CandidatePages = %d, want 2", cfg.Recommend.CandidatePages)
	}
	if cfg.Recommend.MinMatchScore != 0 {
		t.Errorf("Recommend.MinMatchScore = %d, want 0", cfg.Recommend.MinMatchScore)
	}
	if cfg.Recommend.MaxResults != 20 {
		t.Errorf("Recommend.MaxResults = %d, want 20", cfg.Recommend.MaxResults)
	}

	// Keystore defaults
	if cfg.Keystore.Path != "/data/keystore" {
		t.Errorf("Keystore.Path = %q, want /data/keystore", cfg.Keystore.Path)
	}
	if cfg.Keystore.MasterSecret != "" {
		t.Errorf("Keystore.MasterSecret should be empty by default")
	}

	// Server defaults
	if cfg.Server.Port != 8757 {
		t.Errorf("Server.Port = %d, want 8757", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("Server.CORSOrigins = %v, want [*]", cfg.Server.CORSOrigins)
	}
	if cfg.Server.RateLimitReqs != 300 {
		t.Errorf("Server.RateLimitReqs = %d, want 300", cfg.Server.RateLimitReqs)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

// TestDefaultConfigIsValid verifies the defaults pass validation unmodified
func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaultConfig().Validate() error = %v, want nil", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		// TMDB
		{"MOVIETRAILER_TMDB_BASE_URL", "tmdb.base_url"},
		{"MOVIETRAILER_TMDB_API_KEY", "tmdb.api_key"},
		{"MOVIETRAILER_TMDB_LANGUAGE", "tmdb.language"},
		{"MOVIETRAILER_TMDB_RETRY_ATTEMPTS", "tmdb.retry_attempts"},
		{"MOVIETRAILER_TMDB_RATE_LIMIT", "tmdb.rate_limit"},

		// Cache
		{"MOVIETRAILER_CACHE_MEMORY_MAX_BYTES", "cache.memory_max_bytes"},
		{"MOVIETRAILER_CACHE_DISK_PATH", "cache.disk_path"},
		{"MOVIETRAILER_CACHE_SWEEP_INTERVAL", "cache.sweep_interval"},

		// Watchlist
		{"MOVIETRAILER_WATCHLIST_PATH", "watchlist.path"},
		{"MOVIETRAILER_WATCHLIST_FLUSH_DEBOUNCE", "watchlist.flush_debounce"},

		// Recommend
		{"MOVIETRAILER_RECOMMEND_TOP_GENRES", "recommend.top_genres"},
		{"MOVIETRAILER_RECOMMEND_MIN_MATCH", "recommend.min_match_score"},

		// Keystore
		{"MOVIETRAILER_KEYSTORE_MASTER_SECRET", "keystore.master_secret"},

		// Server
		{"MOVIETRAILER_HTTP_PORT", "server.port"},
		{"MOVIETRAILER_HTTP_HOST", "server.host"},
		{"MOVIETRAILER_CORS_ORIGINS", "server.cors_origins"},
		{"MOVIETRAILER_RATE_LIMIT_REQUESTS", "server.rate_limit_requests"},
		{"MOVIETRAILER_DISABLE_RATE_LIMIT", "server.rate_limit_disabled"},

		// Logging
		{"MOVIETRAILER_LOG_LEVEL", "logging.level"},
		{"MOVIETRAILER_LOG_FORMAT", "logging.format"},

		// Unknown (should return empty)
		{"MOVIETRAILER_RANDOM_VAR", ""},
		{"PATH", ""},
		{"HOME", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := envTransformFunc(tt.input)
			if result != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

// TestFindConfigFile verifies config file discovery
func TestFindConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	// Save original working directory
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	defer func() {
		if err := os.Chdir(origDir); err != nil {
			t.Errorf("Failed to restore working directory: %v", err)
		}
	}()

	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	t.Run("no config file exists", func(t *testing.T) {
		os.Unsetenv(ConfigPathEnvVar)
		result := findConfigFile()
		if result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("test: true"), 0644); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		os.Unsetenv(ConfigPathEnvVar)
		result := findConfigFile()
		if result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := filepath.Join(tmpDir, "custom_config.yaml")
		if err := os.WriteFile(customPath, []byte("test: true"), 0644); err != nil {
			t.Fatalf("Failed to create custom config file: %v", err)
		}
		defer os.Remove(customPath)

		os.Setenv(ConfigPathEnvVar, customPath)
		defer os.Unsetenv(ConfigPathEnvVar)

		result := findConfigFile()
		if result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		os.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")
		defer os.Unsetenv(ConfigPathEnvVar)

		result := findConfigFile()
		if result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

// TestLoadEnvVars tests loading configuration from environment variables
func TestLoadEnvVars(t *testing.T) {
	os.Clearenv()

	os.Setenv("MOVIETRAILER_TMDB_API_KEY", "env_api_key_12345")
	os.Setenv("MOVIETRAILER_HTTP_PORT", "9000")
	os.Setenv("MOVIETRAILER_LOG_LEVEL", "debug")
	os.Setenv("MOVIETRAILER_RECOMMEND_TOP_GENRES", "5")
	os.Setenv("MOVIETRAILER_TMDB_RETRY_DELAY", "1s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Verify overrides
	if cfg.TMDB.APIKey != "env_api_key_12345" {
		t.Errorf("TMDB.APIKey = %q, want env_api_key_12345", cfg.TMDB.APIKey)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Recommend.TopGenres != 5 {
		t.Errorf("Recommend.TopGenres = %d, want 5", cfg.Recommend.TopGenres)
	}
	if cfg.TMDB.RetryDelay != time.Second {
		t.Errorf("TMDB.RetryDelay = %v, want 1s", cfg.TMDB.RetryDelay)
	}

	// Verify defaults are still applied for unset values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Cache.DiskPath != "/data/cache" {
		t.Errorf("Cache.DiskPath = %q, want /data/cache (default)", cfg.Cache.DiskPath)
	}
}

// TestLoadConfigFile tests loading configuration from a YAML file
func TestLoadConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
tmdb:
  api_key: "config_file_api_key"
  language: "de-DE"

server:
  port: 8888
  host: "127.0.0.1"

logging:
  level: "warn"
`
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	os.Clearenv()
	os.Setenv(ConfigPathEnvVar, configPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TMDB.APIKey != "config_file_api_key" {
		t.Errorf("TMDB.APIKey = %q, want config_file_api_key", cfg.TMDB.APIKey)
	}
	if cfg.TMDB.Language != "de-DE" {
		t.Errorf("TMDB.Language = %q, want de-DE", cfg.TMDB.Language)
	}
	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want 8888", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}

	// Verify defaults are still applied for unset values
	if cfg.Watchlist.Path != "/data/watchlist.json" {
		t.Errorf("Watchlist.Path = %q, want /data/watchlist.json (default)", cfg.Watchlist.Path)
	}
}

// TestLoadEnvOverridesFile tests that env vars override config file values
func TestLoadEnvOverridesFile(t *testing.T) {
	tmpDir := t.TempDir()

	configContent := `
tmdb:
  api_key: "config_file_api_key"

server:
  port: 8888
`
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}

	os.Clearenv()
	os.Setenv(ConfigPathEnvVar, configPath)
	os.Setenv("MOVIETRAILER_TMDB_API_KEY", "env_wins")
	os.Setenv("MOVIETRAILER_HTTP_PORT", "9999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TMDB.APIKey != "env_wins" {
		t.Errorf("TMDB.APIKey = %q, want env_wins (env should override file)", cfg.TMDB.APIKey)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 (env should override file)", cfg.Server.Port)
	}
}

// TestLoadCORSOriginsFromEnv tests comma-separated slice parsing
func TestLoadCORSOriginsFromEnv(t *testing.T) {
	os.Clearenv()
	os.Setenv("MOVIETRAILER_CORS_ORIGINS", "https://a.example.com, https://b.example.com ,https://c.example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"https://a.example.com", "https://b.example.com", "https://c.example.com"}
	if len(cfg.Server.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Server.CORSOrigins, want)
	}
	for i, origin := range want {
		if cfg.Server.CORSOrigins[i] != origin {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Server.CORSOrigins[i], origin)
		}
	}
}

// TestLoadInvalidConfig tests that validation failures reject the whole load
func TestLoadInvalidConfig(t *testing.T) {
	os.Clearenv()
	os.Setenv("MOVIETRAILER_HTTP_PORT", "99999")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with out-of-range port should return error")
	}
}

// TestValidate exercises the cross-field checks with targeted mutations
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "base URL not http",
			mutate:  func(c *Config) { c.TMDB.BaseURL = "ftp://api.themoviedb.org/3" },
			wantErr: "MOVIETRAILER_TMDB_BASE_URL",
		},
		{
			name:    "base URL missing host",
			mutate:  func(c *Config) { c.TMDB.BaseURL = "https://" },
			wantErr: "MOVIETRAILER_TMDB_BASE_URL",
		},
		{
			name:    "retry delay too small",
			mutate:  func(c *Config) { c.TMDB.RetryDelay = time.Millisecond },
			wantErr: "MOVIETRAILER_TMDB_RETRY_DELAY",
		},
		{
			name:    "rate window too small",
			mutate:  func(c *Config) { c.TMDB.RateWindow = 10 * time.Millisecond },
			wantErr: "MOVIETRAILER_TMDB_RATE_WINDOW",
		},
		{
			name: "rate window ignored when limiter disabled",
			mutate: func(c *Config) {
				c.TMDB.RateLimit = 0
				c.TMDB.RateWindow = 0
			},
		},
		{
			name:    "memory cache too small",
			mutate:  func(c *Config) { c.Cache.MemoryMaxBytes = 1024 },
			wantErr: "MOVIETRAILER_CACHE_MEMORY_MAX_BYTES",
		},
		{
			name:    "disk cache too small",
			mutate:  func(c *Config) { c.Cache.DiskMaxBytes = 1024 },
			wantErr: "MOVIETRAILER_CACHE_DISK_MAX_BYTES",
		},
		{
			name:    "memory TTL too small",
			mutate:  func(c *Config) { c.Cache.MemoryTTL = time.Second },
			wantErr: "MOVIETRAILER_CACHE_MEMORY_TTL",
		},
		{
			name:    "sweep interval too large",
			mutate:  func(c *Config) { c.Cache.SweepInterval = 48 * time.Hour },
			wantErr: "MOVIETRAILER_CACHE_SWEEP_INTERVAL",
		},
		{
			name:    "flush debounce too large",
			mutate:  func(c *Config) { c.Watchlist.FlushDebounce = 5 * time.Minute },
			wantErr: "MOVIETRAILER_WATCHLIST_FLUSH_DEBOUNCE",
		},
		{
			name:    "master secret too short",
			mutate:  func(c *Config) { c.Keystore.MasterSecret = "short" },
			wantErr: "MOVIETRAILER_KEYSTORE_MASTER_SECRET",
		},
		{
			name:    "master secret placeholder",
			mutate:  func(c *Config) { c.Keystore.MasterSecret = "CHANGEME_to_a_real_secret" },
			wantErr: "placeholder",
		},
		{
			name:   "master secret valid",
			mutate: func(c *Config) { c.Keystore.MasterSecret = "a-long-enough-real-secret" },
		},
		{
			name:    "read timeout too small",
			mutate:  func(c *Config) { c.Server.ReadTimeout = 10 * time.Millisecond },
			wantErr: "MOVIETRAILER_HTTP_READ_TIMEOUT",
		},
		{
			name:    "rate limit requests out of bounds",
			mutate:  func(c *Config) { c.Server.RateLimitReqs = 200000 },
			wantErr: "MOVIETRAILER_RATE_LIMIT_REQUESTS",
		},
		{
			name: "rate limit bounds skipped when disabled",
			mutate: func(c *Config) {
				c.Server.RateLimitDisabled = true
				c.Server.RateLimitReqs = 0
			},
		},
		{
			name:    "invalid log level caught by tags",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantErr: "invalid configuration",
		},
		{
			name:    "invalid port caught by tags",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantErr: "invalid configuration",
		},
		{
			name:    "top genres out of range caught by tags",
			mutate:  func(c *Config) { c.Recommend.TopGenres = 50 },
			wantErr: "invalid configuration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

// TestValidateHTTPURL verifies URL shape checking
func TestValidateHTTPURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"https URL", "https://api.themoviedb.org/3", false},
		{"http URL", "http://localhost:8080", false},
		{"missing scheme", "api.themoviedb.org", true},
		{"wrong scheme", "ftp://api.themoviedb.org", true},
		{"missing host", "https://", true},
		{"garbage", "://nope", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateHTTPURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

// TestContainsPlaceholder verifies placeholder detection
func TestContainsPlaceholder(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"changeme-please", true},
		{"REPLACE_WITH_SECRET", true},
		{"this-is-an-example-value", true},
		{"kX9mQ2vL8pR4nT6w", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			if got := containsPlaceholder(tt.value); got != tt.want {
				t.Errorf("containsPlaceholder(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}
