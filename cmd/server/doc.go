// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

/*
Package main is the entry point for the MovieTrailer server application.

MovieTrailer is a self-hosted movie discovery backend over the TMDB API. It
serves trending, popular, and top-rated listings, full-text search, movie
details, a persistent watchlist, and genre-profile recommendations, with
real-time change notifications over WebSocket.

# Application Architecture

The server implements a layered architecture with Suture v4 process supervision:

	RootSupervisor ("movietrailer")
	├── DataSupervisor ("data-layer")
	│   ├── Watchlist Flusher (debounced JSON persistence)
	│   ├── Cache Sweeper (periodic disk cache GC)
	│   └── Recommend Engine (watchlist change -> staleness watcher)
	└── DeliverySupervisor ("delivery-layer")
	    ├── Event Bridge (watermill -> WebSocket fan-out)
	    ├── WebSocket Hub (real-time updates)
	    └── HTTP Server (REST API + metrics)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config files
 2. Logging: zerolog with JSON/console output modes
 3. Keystore: sealed TMDB credential store (BadgerDB + HKDF-derived key)
 4. Cache: two-tier response cache (in-memory LRU over BadgerDB)
 5. Catalog: TMDB client with retry, rate limiter, and circuit breaker
 6. Watchlist: in-memory store loaded from the persisted JSON document
 7. Recommend: genre-profile recommendation engine
 8. Events: watermill bus and the bridge into the WebSocket hub
 9. Supervisor Tree: Suture v4 process supervision
 10. HTTP Server: Chi router with middleware stack

# Configuration

Configuration is loaded via Koanf v2 with layered sources (highest priority wins):

	Priority: Environment variables > Config file > Defaults

Core environment variables:

	# Server
	MOVIETRAILER_HTTP_PORT=8757        # HTTP server port
	MOVIETRAILER_LOG_LEVEL=info        # trace, debug, info, warn, error
	MOVIETRAILER_LOG_FORMAT=json       # json or console

	# TMDB upstream
	MOVIETRAILER_TMDB_API_KEY=<key>    # API key (or set via settings endpoint)
	MOVIETRAILER_TMDB_LANGUAGE=en-US

	# Secure key store (optional)
	MOVIETRAILER_KEYSTORE_MASTER_SECRET=<secret>
	MOVIETRAILER_KEYSTORE_PATH=/data/keystore

	# Cache
	MOVIETRAILER_CACHE_DISK_PATH=/data/cache
	MOVIETRAILER_CACHE_MEMORY_TTL=10m

	# Watchlist
	MOVIETRAILER_WATCHLIST_PATH=/data/watchlist.json

See internal/config for the complete mapping table.

# Credential Handling

The TMDB API key can come from two places:

  - MOVIETRAILER_TMDB_API_KEY environment variable (fallback)
  - The sealed key store, written via POST /api/v1/settings/api-key

The key store requires MOVIETRAILER_KEYSTORE_MASTER_SECRET to be set. Keys
are sealed with AES-GCM under an HKDF-derived key before they touch disk.
When both sources are present, the key store wins.

# Signal Handling

The server handles graceful shutdown on SIGINT and SIGTERM:

 1. Stops accepting new HTTP connections
 2. Closes WebSocket client connections
 3. Waits for in-flight requests (shutdown timeout)
 4. Persists the watchlist one final time
 5. Closes the cache and key store
 6. Reports any services that failed to stop

# Usage Examples

Development:

	export MOVIETRAILER_TMDB_API_KEY=xxx
	export MOVIETRAILER_LOG_FORMAT=console
	go run ./cmd/server

Production:

	export MOVIETRAILER_TMDB_API_KEY=xxx
	export MOVIETRAILER_KEYSTORE_MASTER_SECRET=$(openssl rand -base64 32)
	export MOVIETRAILER_CACHE_DISK_PATH=/data/cache
	export MOVIETRAILER_WATCHLIST_PATH=/data/watchlist.json
	./movietrailer

Docker:

	docker run -d \
	  -e MOVIETRAILER_TMDB_API_KEY=xxx \
	  -v movietrailer-data:/data \
	  -p 8757:8757 \
	  ghcr.io/bestfriendai/movietrailer

# API Surface

The API is organized under /api/v1:

  - Catalog: trending, popular, top-rated, search, details, genres, discovery
  - Watchlist: list, add, remove, toggle, clear, membership, stats, flush
  - Recommendations: current state, refresh
  - System: health, cache stats, lifecycle hooks, settings
  - WebSocket: /api/v1/ws for watchlist_changed and recommendations_stale frames
  - Metrics: Prometheus exposition at /metrics

# See Also

  - internal/config: Configuration management
  - internal/supervisor: Process supervision
  - internal/api: HTTP handlers and routing
  - internal/catalog: TMDB client and catalog service
*/
package main
