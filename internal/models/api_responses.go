// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package models

import (
	"time"
)

// APIResponse is the envelope every HTTP endpoint returns.
//
// Status is "success", "error", or "superseded" (an interactive search that a
// newer one replaced); Data carries the payload on success and Error carries
// structured details on failure. Metadata is always present so clients can
// observe timing.
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"page": 1, "results": [...]},
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z", "elapsed_ms": 42}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "RATE_LIMITED",
//	    "message": "Too many requests",
//	    "details": {"kind": "rateLimited", "retryable": true, "user_action": false}
//	  },
//	  "metadata": {"timestamp": "2026-08-25T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries per-response observability fields. Cached payloads report
// ElapsedMS for the lookup, not the original fetch.
type Metadata struct {
	Timestamp time.Time `json:"timestamp"`
	ElapsedMS int64     `json:"elapsed_ms,omitempty"`
}

// APIError is the structured error body.
//
// Code is machine-readable (VALIDATION_ERROR, UNAUTHORIZED, RATE_LIMITED,
// UPSTREAM_ERROR, NO_CONNECTION, NOT_FOUND, INTERNAL_ERROR). Message is the
// user-facing text the presentation layer shows verbatim. Details carries
// the classified-error metadata (kind, retryable, user_action, http_status)
// when the failure came from the catalog client.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
