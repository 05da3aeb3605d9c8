// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

/*
Package metrics provides Prometheus metrics collection and export for observability.

Collectors are registered at init via promauto on the default registry and
exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3857/metrics

# Available Metrics

TMDB client:
  - tmdb_requests_total: upstream requests (counter)
    Labels: endpoint, outcome ("success" or an error kind)
  - tmdb_request_duration_seconds: upstream latency (histogram)
    Labels: endpoint
  - tmdb_retries_total: retry attempts (counter)
    Labels: endpoint
  - tmdb_limiter_wait_seconds: outbound limiter wait time (histogram)

Cache (memory and disk tiers):
  - cache_hits_total / cache_misses_total: lookups per tier (counter)
    Labels: tier ("memory", "disk")
  - cache_evictions_total: evictions (counter)
    Labels: tier, reason ("capacity", "expired", "replaced")
  - cache_size_bytes / cache_entries: occupancy (gauge)
    Labels: tier
  - cache_promotions_total: disk hits promoted to memory (counter)
  - cache_sweep_duration_seconds / cache_sweep_removed_total: sweep passes

Watchlist:
  - watchlist_size: current item count (gauge)
  - watchlist_mutations_total: mutations (counter)
    Labels: op ("add", "remove", "clear")
  - watchlist_saves_total: document writes (counter)
    Labels: outcome ("success", "failure")
  - watchlist_save_duration_seconds: write latency (histogram)

Recommendations:
  - recommend_refreshes_total: refresh cycles (counter)
    Labels: outcome ("success", "empty", "error", "superseded")
  - recommend_refresh_duration_seconds: cycle latency (histogram)
  - recommend_candidates: candidates scored per cycle (histogram)

HTTP API:
  - api_requests_total: requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: latency (histogram)
    Labels: method, endpoint
  - api_active_requests: in-flight requests (gauge)
  - api_rate_limit_hits_total: rate limit rejections (counter)

Circuit breaker:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open (gauge)
  - circuit_breaker_requests_total: requests by result (counter)
  - circuit_breaker_state_transitions_total: transitions (counter)
  - circuit_breaker_consecutive_failures: failure streak (gauge)

All collectors are package-level and safe for concurrent use; recording helpers
(RecordTMDBRequest, RecordCacheHit, ...) keep label values consistent across
call sites.
*/
package metrics
