// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package api

// Request parameter structs, validated with go-playground/validator tags
// before any service call. Pagination is capped at 500, the upstream's
// maximum page.

// listingRequest covers trending/popular/top-rated and discover paging.
type listingRequest struct {
	Page int `validate:"min=1,max=500"`
}

// searchRequest covers title search. The query length cap matches the
// longest input the search box accepts.
type searchRequest struct {
	Query string `validate:"required,max=200"`
	Page  int    `validate:"min=1,max=500"`
}

// discoverRequest covers genre-filtered discovery. At least one genre is
// required; an unfiltered discover is just the popular listing.
type discoverRequest struct {
	Genres []int `validate:"required,min=1,max=10,dive,gt=0"`
	Page   int   `validate:"min=1,max=500"`
}

// movieIDRequest covers every /movies/{id} route.
type movieIDRequest struct {
	ID int `validate:"required,gt=0"`
}

// watchlistSortRequest covers the sorted watchlist view.
type watchlistSortRequest struct {
	Sort string `validate:"omitempty,oneof=date_added rating title release_date"`
}

// genreIDRequest covers the per-genre watchlist view.
type genreIDRequest struct {
	GenreID int `validate:"required,gt=0"`
}

// recommendationsRequest covers the recommendation listing.
type recommendationsRequest struct {
	Limit int `validate:"min=1,max=100"`
}

// apiKeyRequest is the body for TMDB API key rotation.
type apiKeyRequest struct {
	APIKey string `json:"api_key" validate:"required,min=8,max=128"`
}
