// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package catalog

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind identifies one class of request failure. Every failed catalog request
// is classified into exactly one Kind; the Kind alone decides whether the
// client retries and what message the user sees.
type Kind string

const (
	// KindInvalidRequest is produced locally: a descriptor that must not be
	// sent, or parameters that cannot form a request. Never retried.
	KindInvalidRequest Kind = "invalid_request"

	// KindTransport covers DNS, connect, TLS, and timeout failures where no
	// HTTP status was obtained. Retryable.
	KindTransport Kind = "transport"

	// KindUnauthorized is a 401 or a missing credential. The user must supply
	// a valid API key; retrying without one cannot help.
	KindUnauthorized Kind = "unauthorized"

	// KindRateLimited is a 429. Retryable after backoff.
	KindRateLimited Kind = "rate_limited"

	// KindServerError is any 5xx. Retryable.
	KindServerError Kind = "server_error"

	// KindHTTPError is any other 4xx (404, 400, ...). The request itself is
	// wrong; not retried.
	KindHTTPError Kind = "http_error"

	// KindDecodeFailure is a 2xx whose body does not parse as the expected
	// payload. Not retried.
	KindDecodeFailure Kind = "decode_failure"

	// KindEmptyResponse is a 2xx with an empty body. Not retried.
	KindEmptyResponse Kind = "empty_response"

	// KindUnknown is everything else (stray 1xx/3xx statuses, unclassifiable
	// failures). Not retried.
	KindUnknown Kind = "unknown"
)

// Error is a classified catalog failure. It wraps the underlying cause where
// one exists, so errors.Is and errors.As keep working through it.
type Error struct {
	Kind       Kind
	StatusCode int    // set when the classification derives from an HTTP status
	Endpoint   string // endpoint name, for logs and metrics
	cause      error
}

func (e *Error) Error() string {
	switch {
	case e.StatusCode > 0 && e.cause != nil:
		return fmt.Sprintf("%s: %s (status %d): %v", e.Endpoint, e.Kind, e.StatusCode, e.cause)
	case e.StatusCode > 0:
		return fmt.Sprintf("%s: %s (status %d)", e.Endpoint, e.Kind, e.StatusCode)
	case e.cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Endpoint, e.Kind, e.cause)
	default:
		return fmt.Sprintf("%s: %s", e.Endpoint, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.cause }

// Retryable reports whether a fresh attempt could plausibly succeed without
// the user changing anything: transient network trouble, throttling, or an
// upstream outage.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindTransport, KindRateLimited, KindServerError:
		return true
	default:
		return false
	}
}

// RequiresUserAction reports whether recovery needs the user to act, which
// today means supplying a valid API key.
func (e *Error) RequiresUserAction() bool {
	return e.Kind == KindUnauthorized
}

// UserMessage is the presentation string for this failure.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindUnauthorized:
		return "Invalid API key. Please check your configuration."
	case KindTransport:
		return "No internet connection. Please check your network."
	case KindRateLimited:
		return "Too many requests. Please try again in a moment."
	case KindInvalidRequest:
		return "The request could not be built. Please adjust your input."
	default:
		return "Something went wrong. Please try again."
	}
}

func invalidRequest(endpoint string, cause error) *Error {
	return &Error{Kind: KindInvalidRequest, Endpoint: endpoint, cause: cause}
}

func transportError(endpoint string, cause error) *Error {
	return &Error{Kind: KindTransport, Endpoint: endpoint, cause: cause}
}

func unauthorized(endpoint string, cause error) *Error {
	return &Error{Kind: KindUnauthorized, Endpoint: endpoint, cause: cause}
}

func decodeFailure(endpoint string, cause error) *Error {
	return &Error{Kind: KindDecodeFailure, Endpoint: endpoint, cause: cause}
}

func emptyResponse(endpoint string) *Error {
	return &Error{Kind: KindEmptyResponse, Endpoint: endpoint}
}

// classifyStatus maps a non-2xx response status onto its failure kind.
func classifyStatus(endpoint string, code int) *Error {
	switch {
	case code == http.StatusUnauthorized:
		return &Error{Kind: KindUnauthorized, StatusCode: code, Endpoint: endpoint}
	case code == http.StatusTooManyRequests:
		return &Error{Kind: KindRateLimited, StatusCode: code, Endpoint: endpoint}
	case code >= 500 && code <= 599:
		return &Error{Kind: KindServerError, StatusCode: code, Endpoint: endpoint}
	case code >= 400 && code <= 499:
		return &Error{Kind: KindHTTPError, StatusCode: code, Endpoint: endpoint}
	default:
		return &Error{Kind: KindUnknown, StatusCode: code, Endpoint: endpoint}
	}
}

// AsError extracts the classified error from err's chain.
func AsError(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsRetryable reports whether err carries a retryable classification.
// Unclassified errors (including context cancellation) are never retried.
func IsRetryable(err error) bool {
	if ce, ok := AsError(err); ok {
		return ce.Retryable()
	}
	return false
}

// KindOf returns err's classification, or KindUnknown for unclassified errors.
func KindOf(err error) Kind {
	if ce, ok := AsError(err); ok {
		return ce.Kind
	}
	return KindUnknown
}
