// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/middleware"
)

// chiMiddleware adapts http.HandlerFunc middleware to chi's
// func(http.Handler) http.Handler so the middleware package works
// with chi's r.Use().
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// chiPathValue injects chi URL params into the request so handlers using
// r.PathValue() work. Bridges chi.URLParam() with Go 1.22+'s PathValue.
func chiPathValue(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rctx := chi.RouteContext(r.Context())
		if rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				if i < len(rctx.URLParams.Values) {
					r.SetPathValue(key, rctx.URLParams.Values[i])
				}
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Router assembles the chi route tree from the handler set and the
// middleware profiles.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil chiMiddleware gets the defaults.
func NewRouter(handler *Handler, chiMiddleware *ChiMiddleware) *Router {
	if chiMiddleware == nil {
		chiMiddleware = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMiddleware,
	}
}

// Setup configures all HTTP routes and returns the root handler.
//
// Route groups carry their own rate-limit profile plus the Prometheus,
// request-logging, and compression middleware; request IDs, real IP,
// panic recovery, and CORS are global so every response, including
// preflights and 404s, gets them.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	// Applied to ALL routes in order
	r.Use(RequestIDWithLogging())      // Add X-Request-ID header with logging context
	r.Use(chimiddleware.RealIP)        // Extract real IP from X-Forwarded-For
	r.Use(chimiddleware.Recoverer)     // Recover from panics
	r.Use(router.chiMiddleware.CORS()) // CORS must be global to handle OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	// ========================
	// Catalog Browsing
	// ========================
	r.Route("/api/v1/movies", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitBrowse())
		r.Use(chiPathValue) // Bridge chi URL params to r.PathValue()
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.RequestLogger))
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/trending", router.handler.MoviesTrending)
		r.Get("/popular", router.handler.MoviesPopular)
		r.Get("/top-rated", router.handler.MoviesTopRated)
		r.Get("/search", router.handler.MoviesSearch)
		r.Get("/discover", router.handler.MoviesDiscover)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", router.handler.MovieDetails)
			r.Get("/videos", router.handler.MovieVideos)
			r.Get("/similar", router.handler.MovieSimilar)
			r.Get("/recommendations", router.handler.MovieRecommendations)
			r.Get("/watch-providers", router.handler.MovieWatchProviders)
			r.Get("/extras", router.handler.MovieExtras)
		})
	})

	r.Route("/api/v1/genres", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitBrowse())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.RequestLogger))
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/", router.handler.Genres)
	})

	// ========================
	// Watchlist
	// ========================
	// Reads ride the browse budget; mutations additionally pass the
	// tighter write budget.
	r.Route("/api/v1/watchlist", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitBrowse())
		r.Use(chiPathValue) // Bridge chi URL params to r.PathValue()
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.RequestLogger))
		r.Use(chiMiddleware(middleware.Compression))

		write := router.chiMiddleware.RateLimitWrite()

		r.Get("/", router.handler.WatchlistList)
		r.With(write).Post("/", router.handler.WatchlistAdd)
		r.With(write).Delete("/", router.handler.WatchlistClear)
		r.Get("/stats", router.handler.WatchlistStats)
		r.With(write).Post("/toggle", router.handler.WatchlistToggle)
		r.With(write).Post("/flush", router.handler.WatchlistFlush)
		r.Get("/genre/{genreID}", router.handler.WatchlistByGenre)
		r.Get("/{id}", router.handler.WatchlistGet)
		r.With(write).Delete("/{id}", router.handler.WatchlistRemove)
	})

	// ========================
	// Recommendations
	// ========================
	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitBrowse())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.RequestLogger))
		r.Use(chiMiddleware(middleware.Compression))

		r.Get("/", router.handler.Recommendations)

		// Forced recompute fans out to the upstream, so it gets the
		// strictest budget.
		r.With(router.chiMiddleware.RateLimitRefresh()).
			Post("/refresh", router.handler.RecommendationsRefresh)
	})

	// ========================
	// Lifecycle Signals
	// ========================
	r.Route("/api/v1/lifecycle", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitRefresh())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.RequestLogger))

		r.Post("/active", router.handler.LifecycleActive)
		r.Post("/background", router.handler.LifecycleBackground)
	})

	// ========================
	// Settings
	// ========================
	r.Route("/api/v1/settings", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWrite())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.RequestLogger))

		r.Post("/api-key", router.handler.SettingsAPIKey)
	})

	// ========================
	// Operational Visibility
	// ========================
	// Permissive rate limiting so monitoring tools can poll freely.
	r.Route("/api/v1/cache", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))
		r.Use(chiMiddleware(middleware.RequestLogger))

		r.Get("/stats", router.handler.CacheStats)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())

		r.Get("/", router.handler.Health)
	})

	// ========================
	// WebSocket Change Feed
	// ========================
	// Limits bound upgrade attempts; established connections are managed
	// by the hub. No compression, the hub owns the wire after upgrade.
	r.Route("/api/v1/ws", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitWebSocket())
		r.Use(chiMiddleware(middleware.PrometheusMetrics))

		r.Get("/", router.handler.WebSocket)
	})

	// ========================
	// Observability
	// ========================
	r.Handle("/metrics", promhttp.Handler())

	return r
}
