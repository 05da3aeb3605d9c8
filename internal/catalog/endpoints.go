// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Per-request time budgets. Search is interactive and must fail fast so the
// UI can recover; listings and details tolerate a slower upstream.
const (
	SearchTimeout  = 10 * time.Second
	ListingTimeout = 30 * time.Second
)

// maxPage is the deepest page TMDB serves on any paginated endpoint.
const maxPage = 500

// Endpoint describes a single TMDB request: the path, the canonical query, and
// the time budget. Descriptors are immutable values built only through the
// constructors below, which keeps Signature stable across call sites.
//
// Credentials never appear here. The API key (and the client-level language
// default) are appended at request-build time, so a descriptor's Signature is
// safe to use as a cache key and to log.
type Endpoint struct {
	name    string
	path    string
	query   url.Values
	timeout time.Duration
	noop    bool
}

func newEndpoint(name, path string, timeout time.Duration) Endpoint {
	return Endpoint{name: name, path: path, query: url.Values{}, timeout: timeout}
}

// addParam sets a query parameter, skipping empty values.
func (e *Endpoint) addParam(key, value string) {
	if value != "" {
		e.query.Set(key, value)
	}
}

// addIntParam sets an integer query parameter, skipping non-positive values.
func (e *Endpoint) addIntParam(key string, value int) {
	if value > 0 {
		e.query.Set(key, strconv.Itoa(value))
	}
}

// Trending returns the descriptor for today's trending movies.
func Trending(page int) Endpoint {
	ep := newEndpoint("trending", "/trending/movie/day", ListingTimeout)
	ep.addIntParam("page", page)
	return ep
}

// Popular returns the descriptor for the popular movies listing.
func Popular(page int) Endpoint {
	ep := newEndpoint("popular", "/movie/popular", ListingTimeout)
	ep.addIntParam("page", page)
	return ep
}

// TopRated returns the descriptor for the top rated movies listing.
func TopRated(page int) Endpoint {
	ep := newEndpoint("top_rated", "/movie/top_rated", ListingTimeout)
	ep.addIntParam("page", page)
	return ep
}

// Search returns the descriptor for a movie title search. A blank or
// whitespace-only query yields a no-op descriptor: the service resolves it to
// an empty page locally and the client refuses to send it.
func Search(query string, page int) Endpoint {
	ep := newEndpoint("search", "/search/movie", SearchTimeout)
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		ep.noop = true
		return ep
	}
	ep.addParam("query", trimmed)
	ep.addIntParam("page", page)
	return ep
}

// Details returns the descriptor for a single movie's full record.
func Details(id int) Endpoint {
	return newEndpoint("details", fmt.Sprintf("/movie/%d", id), ListingTimeout)
}

// Videos returns the descriptor for a movie's clips and trailers.
func Videos(id int) Endpoint {
	return newEndpoint("videos", fmt.Sprintf("/movie/%d/videos", id), ListingTimeout)
}

// Similar returns the descriptor for movies similar to the given one.
func Similar(id int) Endpoint {
	return newEndpoint("similar", fmt.Sprintf("/movie/%d/similar", id), ListingTimeout)
}

// Recommendations returns the descriptor for TMDB's own recommendations
// for the given movie.
func Recommendations(id int) Endpoint {
	return newEndpoint("recommendations", fmt.Sprintf("/movie/%d/recommendations", id), ListingTimeout)
}

// WatchProviders returns the descriptor for a movie's streaming availability
// by region.
func WatchProviders(id int) Endpoint {
	return newEndpoint("watch_providers", fmt.Sprintf("/movie/%d/watch/providers", id), ListingTimeout)
}

// GenreList returns the descriptor for the canonical genre id/name table.
func GenreList() Endpoint {
	return newEndpoint("genre_list", "/genre/movie/list", ListingTimeout)
}

// DiscoverByGenres returns the descriptor for a discovery query over the given
// genres, ordered by popularity. Genres combine as any-of (TMDB pipe
// separator), so one page covers the whole genre set. An empty genre set
// degrades to a plain popularity-ordered discovery listing.
func DiscoverByGenres(genreIDs []int, page int) Endpoint {
	ep := newEndpoint("discover", "/discover/movie", ListingTimeout)
	ep.addParam("with_genres", joinIDs(genreIDs))
	ep.addParam("sort_by", "popularity.desc")
	ep.addIntParam("page", page)
	return ep
}

func joinIDs(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, "|")
}

// Name is the endpoint's stable identifier for logs and metrics.
func (e Endpoint) Name() string { return e.name }

// Path is the TMDB v3 path, without host or query.
func (e Endpoint) Path() string { return e.path }

// Timeout is the per-attempt budget for this request.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// IsNoop reports whether this descriptor must never reach the network.
func (e Endpoint) IsNoop() bool { return e.noop }

// Query returns a copy of the descriptor's parameters. url.Values is a map, so
// callers get their own instance to extend with request-time defaults.
func (e Endpoint) Query() url.Values {
	q := make(url.Values, len(e.query))
	for k, v := range e.query {
		q[k] = append([]string(nil), v...)
	}
	return q
}

// Signature is the canonical cache key for this descriptor: path plus sorted,
// percent-encoded query. Client-level defaults (credential, language) are
// uniform for a deployment and excluded, so equal requests always collide.
func (e Endpoint) Signature() string {
	if len(e.query) == 0 {
		return e.path
	}
	return e.path + "?" + encodeQuery(e.query)
}

// encodeQuery renders params in canonical form. url.Values.Encode escapes
// spaces as "+", but TMDB and the cache signature use "%20"; any literal plus
// sign is already "%2B" by this point, so the rewrite is unambiguous.
func encodeQuery(q url.Values) string {
	return strings.ReplaceAll(q.Encode(), "+", "%20")
}
