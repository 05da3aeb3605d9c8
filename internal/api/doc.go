// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

/*
Package api provides the HTTP REST API layer for MovieTrailer.

This package exposes the catalog, watchlist, recommendation, and lifecycle
services over JSON endpoints. It is the only interface between clients and
the backend services; everything below it is plain Go.

Key Components:

  - Router: Chi route configuration and middleware stack integration
  - Handler: Request handlers for all API endpoints
  - Response envelope: status/data/metadata/error JSON wrapper with machine
    error codes
  - Error mapping: classified catalog failures translated to HTTP statuses
    and user-facing messages
  - Rate limiting: per-group httprate limits tuned to endpoint cost
  - CORS: Cross-Origin Resource Sharing for browser clients

API Categories:

1. Catalog Endpoints (/api/v1/movies, /api/v1/genres):
  - Trending, popular, and top-rated listings
  - Title search with optional interactive supersession
  - Movie details plus videos, similar titles, recommendations, and
    watch providers (individually or as one concurrent extras bundle)
  - Genre table and genre-filtered discovery

2. Watchlist Endpoints (/api/v1/watchlist):
  - Sorted views, membership checks, add/remove/toggle/clear
  - Genre frequency stats and per-genre filtering
  - Explicit persistence flush

3. Recommendation Endpoints (/api/v1/recommendations):
  - Current taste-profile recommendations with on-demand refresh

4. System Endpoints (/api/v1):
  - Lifecycle signals (active → cache sweep, background → force save)
  - Cache size stats, TMDB API key rotation, health
  - /metrics Prometheus exposition (outside /api/v1)

5. WebSocket Endpoint (/api/v1/ws):
  - watchlist_changed change feed
  - recommendations_stale notifications

Usage Example:

	handler := api.NewHandler(api.Deps{
	    Config:    cfg,
	    Catalog:   catalogSvc,
	    Search:    searchSession,
	    Watchlist: store,
	    Flusher:   flusher,
	    Engine:    engine,
	    Cache:     tiered,
	    Sweeper:   sweeper,
	    Keys:      resolver,
	    Hub:       hub,
	})
	router := api.NewRouter(handler, api.NewChiMiddleware(nil))
	http.ListenAndServe(":8757", router.Setup())

Thread Safety:

All handlers are safe for concurrent use. Shared resources (cache tiers,
watchlist store, recommendation engine, WebSocket hub) carry their own
synchronization.

See Also:

  - internal/catalog: upstream client, classifier, and typed service
  - internal/watchlist: durable watchlist store
  - internal/recommend: taste-profile recommendation engine
  - internal/models: request/response data structures
  - internal/middleware: HTTP middleware components
*/
package api
