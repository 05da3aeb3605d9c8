// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

// This file contains the watchlist endpoints. Mutations answer from the
// in-memory store immediately; persistence happens behind the debounced
// flusher, with POST /watchlist/flush as the synchronous barrier.

// maxMovieBodySize bounds add/toggle request bodies. A catalog movie is a
// few hundred bytes; a megabyte means something else is being posted.
const maxMovieBodySize = 1 << 20

// watchlistView is the sorted listing payload.
type watchlistView struct {
	Items []models.WatchlistEntry `json:"items"`
	Count int                     `json:"count"`
	Sort  models.SortOrder        `json:"sort"`
}

// membershipView answers "is this movie bookmarked" plus the entry when it is.
type membershipView struct {
	ID          int                    `json:"id"`
	InWatchlist bool                   `json:"in_watchlist"`
	Entry       *models.WatchlistEntry `json:"entry,omitempty"`
}

// mutationView reports the outcome of a watchlist mutation and the new size.
type mutationView struct {
	Added       *bool `json:"added,omitempty"`
	Removed     *bool `json:"removed,omitempty"`
	InWatchlist *bool `json:"in_watchlist,omitempty"`
	Cleared     *int  `json:"cleared,omitempty"`
	Count       int   `json:"count"`
}

// decodeMovieBody reads a catalog movie from the request body. The movie is
// the client's snapshot of a listing row; only the identity fields are
// validated, display fields pass through as sent.
func decodeMovieBody(w http.ResponseWriter, r *http.Request) (models.Movie, bool) {
	var movie models.Movie

	r.Body = http.MaxBytesReader(w, r.Body, maxMovieBodySize)
	if err := json.NewDecoder(r.Body).Decode(&movie); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidationError, "Request body must be a movie object", err)
		return models.Movie{}, false
	}
	if movie.ID <= 0 {
		respondError(w, http.StatusBadRequest, CodeValidationError, "movie id must be positive", nil)
		return models.Movie{}, false
	}
	if movie.Title == "" {
		respondError(w, http.StatusBadRequest, CodeValidationError, "movie title is required", nil)
		return models.Movie{}, false
	}
	return movie, true
}

// WatchlistList returns the watchlist in the requested order.
//
// Method: GET
// Path: /api/v1/watchlist?sort=date_added|rating|title|release_date
func (h *Handler) WatchlistList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := watchlistSortRequest{Sort: r.URL.Query().Get("sort")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	order, err := models.ParseSortOrder(req.Sort)
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeValidationError, err.Error(), nil)
		return
	}

	items := h.watchlist.Sorted(order)
	respondSuccess(w, http.StatusOK, watchlistView{Items: items, Count: len(items), Sort: order}, start)
}

// WatchlistAdd bookmarks a movie. Adding an already-present movie is
// idempotent and answers 200 instead of 201.
//
// Method: POST
// Path: /api/v1/watchlist
func (h *Handler) WatchlistAdd(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movie, ok := decodeMovieBody(w, r)
	if !ok {
		return
	}

	added := h.watchlist.Add(r.Context(), movie)
	status := http.StatusOK
	if added {
		status = http.StatusCreated
	}
	respondSuccess(w, status, mutationView{Added: &added, Count: h.watchlist.Len()}, start)
}

// WatchlistRemove removes a movie by id. Removing an absent id is a no-op
// that answers removed=false, not an error.
//
// Method: DELETE
// Path: /api/v1/watchlist/{id}
func (h *Handler) WatchlistRemove(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := movieIDRequest{ID: pathIntParam(r, "id")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	removed := h.watchlist.Remove(r.Context(), req.ID)
	respondSuccess(w, http.StatusOK, mutationView{Removed: &removed, Count: h.watchlist.Len()}, start)
}

// WatchlistToggle flips a movie's membership and reports the state after
// the flip.
//
// Method: POST
// Path: /api/v1/watchlist/toggle
func (h *Handler) WatchlistToggle(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	movie, ok := decodeMovieBody(w, r)
	if !ok {
		return
	}

	inList := h.watchlist.Toggle(r.Context(), movie)
	respondSuccess(w, http.StatusOK, mutationView{InWatchlist: &inList, Count: h.watchlist.Len()}, start)
}

// WatchlistGet answers a membership check for one movie id.
//
// Method: GET
// Path: /api/v1/watchlist/{id}
func (h *Handler) WatchlistGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := movieIDRequest{ID: pathIntParam(r, "id")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	view := membershipView{ID: req.ID, InWatchlist: h.watchlist.Contains(req.ID)}
	if view.InWatchlist {
		for _, entry := range h.watchlist.Snapshot() {
			if entry.ID == req.ID {
				e := entry
				view.Entry = &e
				break
			}
		}
	}
	respondSuccess(w, http.StatusOK, view, start)
}

// WatchlistClear empties the watchlist and reports how many entries were
// dropped.
//
// Method: DELETE
// Path: /api/v1/watchlist
func (h *Handler) WatchlistClear(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	cleared := h.watchlist.ClearAll(r.Context())
	respondSuccess(w, http.StatusOK, mutationView{Cleared: &cleared, Count: 0}, start)
}

// WatchlistStats returns the aggregate view: entry count, genre frequency
// table, and the top genres driving recommendations.
//
// Method: GET
// Path: /api/v1/watchlist/stats
func (h *Handler) WatchlistStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, h.watchlist.Stats(), start)
}

// WatchlistByGenre returns the watchlist entries carrying one genre, in
// insertion order.
//
// Method: GET
// Path: /api/v1/watchlist/genre/{genreID}
func (h *Handler) WatchlistByGenre(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := genreIDRequest{GenreID: pathIntParam(r, "genreID")}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	items := h.watchlist.ItemsFor(req.GenreID)
	respondSuccess(w, http.StatusOK, watchlistView{Items: items, Count: len(items), Sort: models.SortByDateAdded}, start)
}

// WatchlistFlush persists the watchlist synchronously, bypassing the
// debounce. Clients call it before expecting the document on disk.
//
// Method: POST
// Path: /api/v1/watchlist/flush
func (h *Handler) WatchlistFlush(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.flusher.ForceSave(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternalError, "Failed to persist watchlist", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"flushed": true, "count": h.watchlist.Len()}, start)
}
