// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/validation"
)

// Validate checks that the configuration is complete and internally
// consistent. Struct tags catch missing values and out-of-range scalars;
// the per-section checks below cover everything tags cannot express.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return fmt.Errorf("invalid configuration: %w", verr)
	}

	if err := c.validateTMDB(); err != nil {
		return err
	}

	if err := c.validateCache(); err != nil {
		return err
	}

	if err := c.validateWatchlist(); err != nil {
		return err
	}

	if err := c.validateKeystore(); err != nil {
		return err
	}

	return c.validateServer()
}

// validateTMDB validates upstream client configuration.
func (c *Config) validateTMDB() error {
	if err := validateHTTPURL(c.TMDB.BaseURL); err != nil {
		return fmt.Errorf("MOVIETRAILER_TMDB_BASE_URL is invalid: %w", err)
	}
	if c.TMDB.RetryDelay < 100*time.Millisecond || c.TMDB.RetryDelay > 30*time.Second {
		return fmt.Errorf("MOVIETRAILER_TMDB_RETRY_DELAY must be between 100ms and 30s")
	}
	return c.validateTMDBRateWindow()
}

// validateTMDBRateWindow validates the limiter window when limiting is enabled.
func (c *Config) validateTMDBRateWindow() error {
	if c.TMDB.RateLimit == 0 {
		return nil // limiter disabled, window unused
	}
	if c.TMDB.RateWindow < time.Second || c.TMDB.RateWindow > 10*time.Minute {
		return fmt.Errorf("MOVIETRAILER_TMDB_RATE_WINDOW must be between 1s and 10m")
	}
	return nil
}

// Cache bound constants
const (
	cacheMinMemory = 64 * 1024   // 64KiB
	cacheMinDisk   = 1024 * 1024 // 1MiB
	cacheMinSweep  = time.Minute
	cacheMaxSweep  = 24 * time.Hour
	cacheMinTTL    = 10 * time.Second
)

// validateCache validates cache tier sizing and expiry settings.
func (c *Config) validateCache() error {
	if c.Cache.MemoryMaxBytes < cacheMinMemory {
		return fmt.Errorf("MOVIETRAILER_CACHE_MEMORY_MAX_BYTES must be at least 64KiB (65536 bytes)")
	}
	if c.Cache.DiskMaxBytes < cacheMinDisk {
		return fmt.Errorf("MOVIETRAILER_CACHE_DISK_MAX_BYTES must be at least 1MiB (1048576 bytes)")
	}
	if c.Cache.MemoryTTL < cacheMinTTL {
		return fmt.Errorf("MOVIETRAILER_CACHE_MEMORY_TTL must be at least 10s")
	}
	if c.Cache.SweepInterval < cacheMinSweep || c.Cache.SweepInterval > cacheMaxSweep {
		return fmt.Errorf("MOVIETRAILER_CACHE_SWEEP_INTERVAL must be between 1m and 24h")
	}
	return nil
}

// validateWatchlist validates watchlist persistence settings.
func (c *Config) validateWatchlist() error {
	if c.Watchlist.FlushDebounce < 100*time.Millisecond || c.Watchlist.FlushDebounce > time.Minute {
		return fmt.Errorf("MOVIETRAILER_WATCHLIST_FLUSH_DEBOUNCE must be between 100ms and 1m")
	}
	return nil
}

// validateKeystore validates the master secret when one is configured.
func (c *Config) validateKeystore() error {
	if c.Keystore.MasterSecret == "" {
		return nil // secure tier disabled, nothing to check
	}
	if len(c.Keystore.MasterSecret) < 16 {
		return fmt.Errorf("MOVIETRAILER_KEYSTORE_MASTER_SECRET must be at least 16 characters")
	}
	if containsPlaceholder(c.Keystore.MasterSecret) {
		return fmt.Errorf("MOVIETRAILER_KEYSTORE_MASTER_SECRET contains a placeholder value - generate a secret with: openssl rand -base64 32")
	}
	return nil
}

// validateServer validates HTTP server timeouts and rate limits.
func (c *Config) validateServer() error {
	if err := c.validateServerTimeouts(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateServerTimeouts validates the server timeout bounds.
func (c *Config) validateServerTimeouts() error {
	if c.Server.ReadTimeout < time.Second || c.Server.ReadTimeout > 5*time.Minute {
		return fmt.Errorf("MOVIETRAILER_HTTP_READ_TIMEOUT must be between 1s and 5m")
	}
	if c.Server.WriteTimeout < time.Second || c.Server.WriteTimeout > 10*time.Minute {
		return fmt.Errorf("MOVIETRAILER_HTTP_WRITE_TIMEOUT must be between 1s and 10m")
	}
	if c.Server.ShutdownTimeout < time.Second || c.Server.ShutdownTimeout > time.Minute {
		return fmt.Errorf("MOVIETRAILER_SHUTDOWN_TIMEOUT must be between 1s and 1m")
	}
	return nil
}

// Rate limit bound constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateRateLimits validates API rate limiting bounds. Out-of-range values
// would either reject everything or protect nothing.
func (c *Config) validateRateLimits() error {
	if c.Server.RateLimitDisabled {
		return nil
	}

	if c.Server.RateLimitReqs < minRateLimitRequests || c.Server.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("MOVIETRAILER_RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Server.RateLimitWindow < minRateLimitWindow || c.Server.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("MOVIETRAILER_RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// validateHTTPURL checks that a value parses as an absolute http or https URL.
func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	return nil
}

// placeholderPatterns are substrings that indicate a value was copied from
// documentation rather than set to a real secret.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"PLACEHOLDER",
	"EXAMPLE",
}

// containsPlaceholder reports whether a value contains a common placeholder
// pattern, preventing accidental deployment with documentation defaults.
func containsPlaceholder(value string) bool {
	upperValue := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upperValue, pattern) {
			return true
		}
	}
	return false
}
