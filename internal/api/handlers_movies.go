// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package api

import (
	"net/http"
	"time"
)

// This file contains the catalog endpoints: listings, search, per-movie
// detail sections, genres, and genre discovery.
//
// All handlers follow a consistent pattern:
//  1. Parameter parsing and validation
//  2. Catalog service call with the request context
//  3. Success envelope, or classified error translation on failure
//
// Primary content (listings, search, details, genres, discovery) propagates
// classified failures to the client. Auxiliary sections (videos, similar,
// recommendations, watch providers) degrade to empty payloads inside the
// service and therefore always answer 200.

// MoviesTrending returns today's trending movies.
//
// Method: GET
// Path: /api/v1/movies/trending?page=
func (h *Handler) MoviesTrending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := listingRequest{Page: getIntParam(r, "page", 1)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	page, err := h.catalog.Trending(r.Context(), req.Page)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, page, start)
}

// MoviesPopular returns popular movies.
//
// Method: GET
// Path: /api/v1/movies/popular?page=
func (h *Handler) MoviesPopular(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := listingRequest{Page: getIntParam(r, "page", 1)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	page, err := h.catalog.Popular(r.Context(), req.Page)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, page, start)
}

// MoviesTopRated returns the highest rated movies.
//
// Method: GET
// Path: /api/v1/movies/top-rated?page=
func (h *Handler) MoviesTopRated(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := listingRequest{Page: getIntParam(r, "page", 1)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	page, err := h.catalog.TopRated(r.Context(), req.Page)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, page, start)
}

// MoviesSearch looks movies up by title.
//
// Method: GET
// Path: /api/v1/movies/search?query=&page=[&session=1]
//
// A blank query answers an empty page without touching the upstream. With
// session=1 the request runs through the interactive search session: a
// request superseded by a newer one answers the "superseded" envelope
// instead of results, so stale responses never overwrite fresh ones on the
// client.
func (h *Handler) MoviesSearch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := searchRequest{
		Query: r.URL.Query().Get("query"),
		Page:  getIntParam(r, "page", 1),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if boolParam(r, "session") {
		page, delivered, err := h.search.Search(r.Context(), req.Query, req.Page)
		if !delivered {
			respondSuperseded(w, start)
			return
		}
		if err != nil {
			respondCatalogError(w, r, err)
			return
		}
		respondSuccess(w, http.StatusOK, page, start)
		return
	}

	page, err := h.catalog.Search(r.Context(), req.Query, req.Page)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, page, start)
}

// MovieDetails returns the full record for one movie.
//
// Method: GET
// Path: /api/v1/movies/{id}
func (h *Handler) MovieDetails(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := movieIDRequest{ID: pathIntParam(r, "id")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	details, err := h.catalog.Details(r.Context(), req.ID)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, details, start)
}

// MovieVideos returns a movie's clips and trailers. Upstream failures
// degrade to an empty list rather than an error.
//
// Method: GET
// Path: /api/v1/movies/{id}/videos
func (h *Handler) MovieVideos(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := movieIDRequest{ID: pathIntParam(r, "id")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	respondSuccess(w, http.StatusOK, h.catalog.Videos(r.Context(), req.ID), start)
}

// MovieSimilar returns movies similar to the given one.
//
// Method: GET
// Path: /api/v1/movies/{id}/similar
func (h *Handler) MovieSimilar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := movieIDRequest{ID: pathIntParam(r, "id")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	respondSuccess(w, http.StatusOK, h.catalog.Similar(r.Context(), req.ID), start)
}

// MovieRecommendations returns the upstream's own suggestions for a movie.
//
// Method: GET
// Path: /api/v1/movies/{id}/recommendations
func (h *Handler) MovieRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := movieIDRequest{ID: pathIntParam(r, "id")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	respondSuccess(w, http.StatusOK, h.catalog.Recommendations(r.Context(), req.ID), start)
}

// MovieWatchProviders returns streaming availability by region.
//
// Method: GET
// Path: /api/v1/movies/{id}/watch-providers
func (h *Handler) MovieWatchProviders(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := movieIDRequest{ID: pathIntParam(r, "id")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	respondSuccess(w, http.StatusOK, h.catalog.WatchProviders(r.Context(), req.ID), start)
}

// MovieExtras returns a full detail screen in one response: details plus
// videos, similar titles, recommendations, and watch providers, fetched
// concurrently. Details gates the bundle; the auxiliary sections
// individually degrade to empty.
//
// Method: GET
// Path: /api/v1/movies/{id}/extras
func (h *Handler) MovieExtras(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := movieIDRequest{ID: pathIntParam(r, "id")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	extras, err := h.catalog.Extras(r.Context(), req.ID)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, extras, start)
}

// Genres returns the canonical genre id/name table.
//
// Method: GET
// Path: /api/v1/genres
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	list, err := h.catalog.Genres(r.Context())
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, list, start)
}

// MoviesDiscover lists movies matching the given genres, most popular first.
//
// Method: GET
// Path: /api/v1/movies/discover?genres=a,b&page=
func (h *Handler) MoviesDiscover(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := discoverRequest{
		Genres: parseCommaSeparatedInts(r.URL.Query().Get("genres")),
		Page:   getIntParam(r, "page", 1),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	page, err := h.catalog.DiscoverByGenres(r.Context(), req.Genres, req.Page)
	if err != nil {
		respondCatalogError(w, r, err)
		return
	}
	respondSuccess(w, http.StatusOK, page, start)
}
