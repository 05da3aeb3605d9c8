// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

/*
Package catalog talks to TMDB and turns its responses into typed movie data.

The package is layered:

  - Endpoint descriptors (endpoints.go) name every supported request and carry
    its path, canonical query, and time budget. A descriptor's Signature is
    the cache key; credentials are appended only at request-build time and are
    never part of a signature.
  - The Client (client.go) performs requests with an outbound rate limiter, a
    circuit breaker, and bounded retry with doubling backoff. Every failure is
    classified (errors.go) into exactly one Kind that decides retryability and
    the user-facing message.
  - The Service (service.go) is the typed surface: it reads through the
    two-tier response cache, decodes payloads, and applies the
    primary/auxiliary error policy. Primary content propagates classified
    errors; auxiliary detail-screen sections degrade to empty results.
  - SearchSession (search.go) serializes interactive search so the newest
    query always wins and superseded searches never deliver.

# Failure classification

Classification is exhaustive and drives behavior, not just messages:

	transport failure     -> transport       retried
	status 401            -> unauthorized    user must fix the API key
	status 429            -> rate_limited    retried
	status 5xx            -> server_error    retried
	other 4xx             -> http_error      not retried
	2xx, unparseable body -> decode_failure  not retried
	2xx, empty body       -> empty_response  not retried
	anything else         -> unknown         not retried

Context cancellation is deliberately left unclassified so superseded work can
be told apart from real failures.

# Example

	client := catalog.NewClient(&cfg.TMDB, resolver)
	svc := catalog.NewService(client, responseCache)

	page, err := svc.Trending(ctx, 1)
	if err != nil {
	    if ce, ok := catalog.AsError(err); ok && ce.RequiresUserAction() {
	        // surface ce.UserMessage() and stop retrying
	    }
	}
*/
package catalog
