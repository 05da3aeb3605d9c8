// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package api

import (
	"net/http"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/catalog"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

// Machine-readable error codes carried in the response envelope. The
// presentation layer switches on these, never on HTTP status alone.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeRateLimited     = "RATE_LIMITED"
	CodeUpstreamError   = "UPSTREAM_ERROR"
	CodeNoConnection    = "NO_CONNECTION"
	CodeNotFound        = "NOT_FOUND"
	CodeInternalError   = "INTERNAL_ERROR"
)

// httpStatusFor maps a classified catalog failure to the HTTP status and
// envelope code this API reports.
//
//	invalid_request                            → 400 VALIDATION_ERROR
//	unauthorized                               → 401 UNAUTHORIZED
//	rate_limited                               → 429 RATE_LIMITED
//	http_error                                 → upstream status (404 → NOT_FOUND)
//	server_error, decode_failure, empty_response → 502 UPSTREAM_ERROR
//	transport                                  → 504 NO_CONNECTION
//	unknown                                    → 500 INTERNAL_ERROR
func httpStatusFor(ce *catalog.Error) (int, string) {
	switch ce.Kind {
	case catalog.KindInvalidRequest:
		return http.StatusBadRequest, CodeValidationError
	case catalog.KindUnauthorized:
		return http.StatusUnauthorized, CodeUnauthorized
	case catalog.KindRateLimited:
		return http.StatusTooManyRequests, CodeRateLimited
	case catalog.KindHTTPError:
		if ce.StatusCode == http.StatusNotFound {
			return http.StatusNotFound, CodeNotFound
		}
		return ce.StatusCode, CodeUpstreamError
	case catalog.KindServerError, catalog.KindDecodeFailure, catalog.KindEmptyResponse:
		return http.StatusBadGateway, CodeUpstreamError
	case catalog.KindTransport:
		return http.StatusGatewayTimeout, CodeNoConnection
	default:
		return http.StatusInternalServerError, CodeInternalError
	}
}

// respondCatalogError translates a catalog service failure into the error
// envelope. Classified errors carry their kind, retryability, and the
// user-facing message; anything unclassified is an internal error.
func respondCatalogError(w http.ResponseWriter, r *http.Request, err error) {
	ce, ok := catalog.AsError(err)
	if !ok {
		logging.CtxErr(r.Context(), err).Str("path", r.URL.Path).Msg("Unclassified handler failure")
		respondError(w, http.StatusInternalServerError, CodeInternalError, "Something went wrong. Please try again.", nil)
		return
	}

	status, code := httpStatusFor(ce)

	details := map[string]interface{}{
		"kind":        string(ce.Kind),
		"retryable":   ce.Retryable(),
		"user_action": ce.RequiresUserAction(),
	}
	if ce.StatusCode > 0 {
		details["http_status"] = ce.StatusCode
	}

	// Client-caused failures log at warn; upstream and internal ones at error.
	if status >= http.StatusInternalServerError {
		logging.CtxErr(r.Context(), ce).Str("endpoint", ce.Endpoint).Str("kind", string(ce.Kind)).Msg("Upstream catalog failure")
	} else {
		logging.CtxWarn(r.Context()).Str("endpoint", ce.Endpoint).Str("kind", string(ce.Kind)).Int("status", status).Msg("Catalog request rejected")
	}

	respondAPIError(w, status, &models.APIError{
		Code:    code,
		Message: ce.UserMessage(),
		Details: details,
	})
}
