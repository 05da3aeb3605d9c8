// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus instrumentation for the catalog service. Collectors cover:
// - TMDB request latency, outcomes, and retries
// - Two-tier cache efficiency and occupancy
// - Watchlist size and persistence outcomes
// - Recommendation refresh cycles
// - WebSocket connections
// - HTTP API latency and throughput

var (
	// TMDB Client Metrics
	TMDBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tmdb_request_duration_seconds",
			Help:    "Duration of TMDB API requests in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s .. 10s covers both search (10s cap) and listing (30s cap) budgets
		},
		[]string{"endpoint"},
	)

	TMDBRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_requests_total",
			Help: "Total number of TMDB API requests by outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: "success" or an error kind such as "transport", "rate_limited"
	)

	TMDBRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_retries_total",
			Help: "Total number of TMDB request retry attempts",
		},
		[]string{"endpoint"},
	)

	TMDBLimiterWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "tmdb_limiter_wait_seconds",
			Help:    "Time spent waiting on the outbound rate limiter",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	// Cache Metrics (memory and disk tiers)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits per tier",
		},
		[]string{"tier"}, // "memory", "disk"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses per tier",
		},
		[]string{"tier"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions per tier",
		},
		[]string{"tier", "reason"}, // reason: "capacity", "expired", "replaced"
	)

	CacheSizeBytes = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_size_bytes",
			Help: "Current cache occupancy in bytes per tier",
		},
		[]string{"tier"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached responses per tier",
		},
		[]string{"tier"},
	)

	CachePromotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_promotions_total",
			Help: "Total number of disk hits promoted into the memory tier",
		},
	)

	CacheSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cache_sweep_duration_seconds",
			Help:    "Duration of disk cache sweep passes in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
		},
	)

	CacheSweepRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cache_sweep_removed_total",
			Help: "Total number of entries removed by cache sweep passes",
		},
	)

	// Watchlist Metrics
	WatchlistSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "watchlist_size",
			Help: "Current number of movies in the watchlist",
		},
	)

	WatchlistMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchlist_mutations_total",
			Help: "Total number of watchlist mutations",
		},
		[]string{"op"}, // "add", "remove", "clear"
	)

	WatchlistSaves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "watchlist_saves_total",
			Help: "Total number of watchlist document writes",
		},
		[]string{"outcome"}, // "success", "failure"
	)

	WatchlistSaveDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "watchlist_save_duration_seconds",
			Help:    "Duration of watchlist document writes in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	// Recommendation Metrics
	RecommendRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_refreshes_total",
			Help: "Total number of recommendation refresh cycles by outcome",
		},
		[]string{"outcome"}, // "success", "empty", "error", "superseded"
	)

	RecommendRefreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_refresh_duration_seconds",
			Help:    "Duration of recommendation refresh cycles in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	RecommendCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_candidates",
			Help:    "Number of candidate movies scored per refresh",
			Buckets: []float64{0, 10, 25, 50, 100, 200, 400},
		},
	)

	// Event Bus Metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Total number of events published on the internal bus",
		},
		[]string{"topic"},
	)

	// WebSocket Metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connections",
			Help: "Current number of active WebSocket connections",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_messages_sent_total",
			Help: "Total number of WebSocket messages sent",
		},
	)

	WSErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "websocket_errors_total",
			Help: "Total number of WebSocket errors",
		},
		[]string{"error_type"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordTMDBRequest records one upstream request with its classified outcome.
// outcome is "success" or the error kind string.
func RecordTMDBRequest(endpoint, outcome string, duration time.Duration) {
	TMDBRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	TMDBRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordTMDBRetry records a retry attempt for an endpoint.
func RecordTMDBRetry(endpoint string) {
	TMDBRetries.WithLabelValues(endpoint).Inc()
}

// RecordCacheHit records a hit on the given tier ("memory" or "disk").
func RecordCacheHit(tier string) {
	CacheHits.WithLabelValues(tier).Inc()
}

// RecordCacheMiss records a miss on the given tier.
func RecordCacheMiss(tier string) {
	CacheMisses.WithLabelValues(tier).Inc()
}

// RecordCacheEviction records an eviction with its reason
// ("capacity", "expired", "replaced").
func RecordCacheEviction(tier, reason string) {
	CacheEvictions.WithLabelValues(tier, reason).Inc()
}

// UpdateCacheOccupancy sets the size gauges for a tier after a mutation.
func UpdateCacheOccupancy(tier string, bytes int64, entries int) {
	CacheSizeBytes.WithLabelValues(tier).Set(float64(bytes))
	CacheEntries.WithLabelValues(tier).Set(float64(entries))
}

// RecordCacheSweep records one sweep pass over the disk tier.
func RecordCacheSweep(duration time.Duration, removed int) {
	CacheSweepDuration.Observe(duration.Seconds())
	CacheSweepRemoved.Add(float64(removed))
}

// RecordWatchlistMutation records a mutation and updates the size gauge.
func RecordWatchlistMutation(op string, size int) {
	WatchlistMutations.WithLabelValues(op).Inc()
	WatchlistSize.Set(float64(size))
}

// RecordWatchlistSave records a document write and its outcome.
func RecordWatchlistSave(duration time.Duration, err error) {
	WatchlistSaveDuration.Observe(duration.Seconds())
	if err != nil {
		WatchlistSaves.WithLabelValues("failure").Inc()
		return
	}
	WatchlistSaves.WithLabelValues("success").Inc()
}

// RecordRecommendRefresh records one refresh cycle with its terminal outcome
// ("success", "empty", "error", "superseded") and the number of candidates scored.
func RecordRecommendRefresh(outcome string, duration time.Duration, candidates int) {
	RecommendRefreshes.WithLabelValues(outcome).Inc()
	RecommendRefreshDuration.Observe(duration.Seconds())
	RecommendCandidates.Observe(float64(candidates))
}

// RecordEventPublished records a message published on the internal bus.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
