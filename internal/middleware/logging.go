// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package middleware

import (
	"net/http"
	"time"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
)

// slowRequestThreshold marks requests worth a warning. Catalog calls carry
// a 30s upstream budget, so anything over a second that wasn't an upstream
// fetch deserves a look.
const slowRequestThreshold = 1 * time.Second

// RequestLogger logs every completed request with method, path, status, and
// duration. The request/correlation IDs placed in the context by RequestID
// ride along on every event automatically via logging.Ctx.
//
// Log level follows the outcome: debug for success, warn for client errors,
// error for server errors. Slow requests are warned regardless of status.
func RequestLogger(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &metricsResponseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next(wrapper, r)

		duration := time.Since(start)
		logRequest(r, wrapper.statusCode, duration)
	}
}

func logRequest(r *http.Request, status int, duration time.Duration) {
	ctx := r.Context()

	event := logging.CtxDebug(ctx)
	switch {
	case status >= http.StatusInternalServerError:
		event = logging.CtxErr(ctx, nil)
	case status >= http.StatusBadRequest:
		event = logging.CtxWarn(ctx)
	case duration > slowRequestThreshold:
		event = logging.CtxWarn(ctx).Bool("slow", true)
	}

	event.
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Int("status", status).
		Dur("duration", duration).
		Str("remote_addr", r.RemoteAddr).
		Msg("request completed")
}
