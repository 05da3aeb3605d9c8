// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestDefaultChiMiddlewareConfig tests the stock middleware configuration
func TestDefaultChiMiddlewareConfig(t *testing.T) {
	cfg := DefaultChiMiddlewareConfig()

	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "*" {
		t.Errorf("CORSAllowedOrigins = %v, want [*]", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRequests != 300 {
		t.Errorf("RateLimitRequests = %d, want 300", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != time.Minute {
		t.Errorf("RateLimitWindow = %v, want 1m", cfg.RateLimitWindow)
	}
	if cfg.RateLimitDisabled {
		t.Error("RateLimitDisabled = true, want false")
	}
}

// TestChiMiddlewareFromServerConfig tests mapping the server config section
func TestChiMiddlewareFromServerConfig(t *testing.T) {
	cfg := ChiMiddlewareFromServerConfig(&config.ServerConfig{
		CORSOrigins:       []string{"http://localhost:5173"},
		RateLimitReqs:     42,
		RateLimitWindow:   30 * time.Second,
		RateLimitDisabled: true,
	})

	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:5173" {
		t.Errorf("CORSAllowedOrigins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRequests != 42 {
		t.Errorf("RateLimitRequests = %d, want 42", cfg.RateLimitRequests)
	}
	if cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("RateLimitWindow = %v, want 30s", cfg.RateLimitWindow)
	}
	if !cfg.RateLimitDisabled {
		t.Error("RateLimitDisabled = false, want true")
	}

	// Zero values keep the defaults.
	cfg = ChiMiddlewareFromServerConfig(&config.ServerConfig{})
	if cfg.RateLimitRequests != 300 || cfg.RateLimitWindow != time.Minute {
		t.Errorf("defaults not kept: %d/%v", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
}

// TestRateLimitProfiles tests the per-surface budgets
func TestRateLimitProfiles(t *testing.T) {
	tests := []struct {
		name    string
		profile RateLimitConfig
		want    int
	}{
		{"browse", RateLimitBrowse, 600},
		{"write", RateLimitWrite, 60},
		{"refresh", RateLimitRefresh, 20},
		{"websocket", RateLimitWebSocket, 30},
		{"health", RateLimitHealth, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.profile.Requests != tt.want {
				t.Errorf("Requests = %d, want %d", tt.profile.Requests, tt.want)
			}
			if tt.profile.Window != time.Minute {
				t.Errorf("Window = %v, want 1m", tt.profile.Window)
			}
		})
	}
}

// TestRateLimitCustom_EnforcesLimit tests throttling with the error envelope
func TestRateLimitCustom_EnforcesLimit(t *testing.T) {
	m := NewChiMiddleware(nil)
	limited := m.RateLimitCustom(RateLimitConfig{Requests: 2, Window: time.Minute})(okHandler())

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/movies/trending", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}

	w := httptest.NewRecorder()
	limited.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/movies/trending", nil))
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("throttled request: status = %d, want 429", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Error == nil || resp.Error.Code != CodeRateLimited {
		t.Errorf("error = %+v, want code %s", resp.Error, CodeRateLimited)
	}
}

// TestRateLimitCustom_Disabled tests the pass-through when limiting is off
func TestRateLimitCustom_Disabled(t *testing.T) {
	m := NewChiMiddleware(&ChiMiddlewareConfig{RateLimitDisabled: true})
	limited := m.RateLimitCustom(RateLimitConfig{Requests: 1, Window: time.Minute})(okHandler())

	for i := 0; i < 10; i++ {
		w := httptest.NewRecorder()
		limited.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/movies/trending", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i+1, w.Code)
		}
	}
}

// TestCORS tests origin handling for wildcard and pinned configurations
func TestCORS(t *testing.T) {
	t.Run("wildcard allows any origin", func(t *testing.T) {
		m := NewChiMiddleware(nil)
		handler := m.CORS()(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("Origin", "http://example.org")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
			t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
		}
	})

	t.Run("pinned origin echoed", func(t *testing.T) {
		cfg := DefaultChiMiddlewareConfig()
		cfg.CORSAllowedOrigins = []string{"http://localhost:5173"}
		m := NewChiMiddleware(cfg)
		handler := m.CORS()(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
			t.Errorf("Access-Control-Allow-Origin = %q, want the pinned origin", got)
		}
	})

	t.Run("other origin rejected", func(t *testing.T) {
		cfg := DefaultChiMiddlewareConfig()
		cfg.CORSAllowedOrigins = []string{"http://localhost:5173"}
		m := NewChiMiddleware(cfg)
		handler := m.CORS()(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("Origin", "http://evil.example")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("Access-Control-Allow-Origin = %q, want unset", got)
		}
	})
}

// TestRequestIDWithLogging tests request ID propagation
func TestRequestIDWithLogging(t *testing.T) {
	handler := RequestIDWithLogging()(okHandler())

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		if w.Header().Get("X-Request-ID") == "" {
			t.Error("X-Request-ID header not set")
		}
	})

	t.Run("echoes an upstream id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("X-Request-ID", "proxy-assigned-42")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		if got := w.Header().Get("X-Request-ID"); got != "proxy-assigned-42" {
			t.Errorf("X-Request-ID = %q, want proxy-assigned-42", got)
		}
	})
}
