// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/config"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/metrics"
)

const (
	breakerName = "tmdb-api"

	// maxResponseBytes caps a single response body. TMDB pages run ~50 KB;
	// anything near this ceiling is not a payload we can use.
	maxResponseBytes = 4 << 20
)

var (
	errNoopDescriptor   = errors.New("no-op descriptor must not be sent")
	errMissingAPIKey    = errors.New("no API key configured")
	errResponseTooLarge = errors.New("response body exceeds size cap")
	errMalformedJSON    = errors.New("response body is not valid JSON")
)

// CredentialSource yields the current upstream API key. Implemented by
// keystore.Resolver; a failed resolution means the user has to act.
type CredentialSource interface {
	APIKey(ctx context.Context) (string, error)
}

// Client performs TMDB requests with bounded retry, an outbound rate limiter,
// and a circuit breaker. All failures come back classified; see Error.
//
// The breaker and limiter use real time. Tests that need determinism should
// stub the transport via the server URL rather than mock either of them.
type Client struct {
	baseURL    string
	language   string
	creds      CredentialSource
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]byte]
	maxRetries int
	retryDelay time.Duration
}

// NewClient builds the TMDB client from config. Circuit breaker settings:
// max 3 probe requests while half-open, a 1 minute measurement window, a
// 2 minute cool-off before probing, and a trip threshold of 60% failures over
// at least 10 requests.
func NewClient(cfg *config.TMDBConfig, creds CredentialSource) *Client {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false // too few requests to call the upstream unhealthy
			}

			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6

			if shouldTrip {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", failureRatio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
			}

			return shouldTrip
		},

		// Only upstream-health failures count against the breaker. A 404 or a
		// user cancellation says nothing about whether TMDB is up.
		IsSuccessful: func(err error) bool {
			return err == nil || !IsRetryable(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)

			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()

			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &Client{
		baseURL:  cfg.BaseURL,
		language: cfg.Language,
		creds:    creds,
		httpClient: &http.Client{
			// Hard ceiling above every per-descriptor budget; the real limit
			// is the per-attempt context deadline.
			Timeout: ListingTimeout + 5*time.Second,
		},
		limiter:    newLimiter(cfg.RateLimit, cfg.RateWindow),
		cb:         cb,
		maxRetries: cfg.RetryAttempts,
		retryDelay: cfg.RetryDelay,
	}
}

// newLimiter builds the outbound limiter. A non-positive request count
// disables limiting.
func newLimiter(requests int, window time.Duration) *rate.Limiter {
	if requests <= 0 || window <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	perSecond := float64(requests) / window.Seconds()
	return rate.NewLimiter(rate.Limit(perSecond), requests)
}

// Do performs one catalog request and returns the raw JSON payload. The body
// is guaranteed non-empty, well-formed JSON; anything else comes back as a
// classified error. Context cancellation passes through unclassified so
// callers can tell superseded work from real failures.
func (c *Client) Do(ctx context.Context, ep Endpoint) ([]byte, error) {
	if ep.IsNoop() {
		return nil, invalidRequest(ep.Name(), errNoopDescriptor)
	}

	key, err := c.creds.APIKey(ctx)
	if err != nil {
		return nil, unauthorized(ep.Name(), err)
	}
	if key == "" {
		return nil, unauthorized(ep.Name(), errMissingAPIKey)
	}

	start := time.Now()
	data, err := c.doWithRetry(ctx, ep, c.buildURL(ep, key))
	metrics.RecordTMDBRequest(ep.Name(), outcomeLabel(err), time.Since(start))
	return data, err
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return string(KindOf(err))
	}
}

// buildURL joins the base URL, path, descriptor query, and the request-time
// defaults (credential, language).
func (c *Client) buildURL(ep Endpoint, key string) string {
	q := ep.Query()
	q.Set("api_key", key)
	if c.language != "" {
		q.Set("language", c.language)
	}
	return c.baseURL + ep.Path() + "?" + encodeQuery(q)
}

// doWithRetry drives the bounded retry loop: up to maxRetries attempts with
// doubling backoff, retrying only classifications that say a fresh attempt
// could succeed. The wait between attempts is cancellable.
func (c *Client) doWithRetry(ctx context.Context, ep Endpoint, reqURL string) ([]byte, error) {
	var lastErr error
	delay := c.retryDelay

	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		data, err := c.attempt(ctx, ep, reqURL)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if !IsRetryable(err) {
			return nil, err
		}

		if attempt < c.maxRetries {
			metrics.RecordTMDBRetry(ep.Name())
			logging.CtxWarn(ctx).Err(err).Int("attempt", attempt).Str("endpoint", ep.Name()).Msg("Retrying TMDB request")

			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			delay *= 2
		}
	}

	return nil, fmt.Errorf("max retry attempts reached: %w", lastErr)
}

// attempt performs a single request through the limiter and the breaker.
func (c *Client) attempt(ctx context.Context, ep Endpoint, reqURL string) ([]byte, error) {
	if err := c.waitLimiter(ctx, ep); err != nil {
		return nil, err
	}

	data, err := c.cb.Execute(func() ([]byte, error) {
		return c.roundTrip(ctx, ep, reqURL)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			// Open breaker fails fast; classified as transport so the retry
			// loop backs off instead of giving up.
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			logging.CtxWarn(ctx).Err(err).Str("endpoint", ep.Name()).Msg("[CIRCUIT BREAKER] Request rejected")
			return nil, transportError(ep.Name(), err)
		}

		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		counts := c.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}

	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(breakerName).Set(0)
	return data, nil
}

func (c *Client) waitLimiter(ctx context.Context, ep Endpoint) error {
	start := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// The wait itself cannot fit the context budget.
		return transportError(ep.Name(), err)
	}
	metrics.TMDBLimiterWait.Observe(time.Since(start).Seconds())
	return nil
}

// roundTrip performs the HTTP exchange and classifies the outcome per the
// failure table: transport errors, then status, then body shape.
func (c *Client) roundTrip(ctx context.Context, ep Endpoint, reqURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, ep.Timeout())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, invalidRequest(ep.Name(), err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, transportError(ep.Name(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, classifyStatus(ep.Name(), resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, transportError(ep.Name(), err)
	}
	if len(data) > maxResponseBytes {
		return nil, decodeFailure(ep.Name(), errResponseTooLarge)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, emptyResponse(ep.Name())
	}
	if !json.Valid(data) {
		return nil, decodeFailure(ep.Name(), errMalformedJSON)
	}

	return data, nil
}

// stateToFloat converts circuit breaker state to a numeric value for metrics.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to a string for logging.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
