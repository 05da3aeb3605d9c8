// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package api

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

// setupTestRouter builds the full route tree over the test handler so
// requests travel the real middleware stack, including the chi URL param
// bridge.
func setupTestRouter(t *testing.T) (*testEnv, http.Handler) {
	t.Helper()
	env := setupTestHandler(t)
	router := NewRouter(env.handler, NewChiMiddleware(nil))
	return env, router.Setup()
}

// doRequest runs one request through the router and decodes the envelope.
func doRequest(t *testing.T, mux http.Handler, method, path string, body io.Reader) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	var resp models.APIResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("%s %s: failed to decode response: %v", method, path, err)
	}
	return w, resp
}

// watchlistResult is the union of the watchlist payload shapes.
type watchlistResult struct {
	Added       *bool                   `json:"added"`
	Removed     *bool                   `json:"removed"`
	InWatchlist *bool                   `json:"in_watchlist"`
	Cleared     *int                    `json:"cleared"`
	Count       int                     `json:"count"`
	Items       []models.WatchlistEntry `json:"items"`
	Sort        string                  `json:"sort"`
	ID          int                     `json:"id"`
}

func movieBody(t *testing.T, m models.Movie) io.Reader {
	t.Helper()
	raw, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal movie: %v", err)
	}
	return bytes.NewReader(raw)
}

// TestWatchlistEndToEnd drives the watchlist through the full router:
// add, duplicate add, membership, toggle, sort, stats, genre view,
// remove, flush to disk, and clear.
func TestWatchlistEndToEnd(t *testing.T) {
	env, mux := setupTestRouter(t)

	matrix := models.Movie{ID: 603, Title: "The Matrix", GenreIDs: []int{28, 878}, VoteAverage: 8.2}
	inception := models.Movie{ID: 27205, Title: "Inception", GenreIDs: []int{28, 878, 53}, VoteAverage: 8.4}

	// Empty list.
	w, resp := doRequest(t, mux, http.MethodGet, "/api/v1/watchlist", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: status = %d, want 200", w.Code)
	}
	var list watchlistResult
	decodeData(t, resp.Data, &list)
	if list.Count != 0 {
		t.Fatalf("list: count = %d, want 0", list.Count)
	}

	// First add answers 201.
	w, resp = doRequest(t, mux, http.MethodPost, "/api/v1/watchlist", movieBody(t, matrix))
	if w.Code != http.StatusCreated {
		t.Fatalf("add: status = %d, want 201", w.Code)
	}
	var mutation watchlistResult
	decodeData(t, resp.Data, &mutation)
	if mutation.Added == nil || !*mutation.Added || mutation.Count != 1 {
		t.Fatalf("add: got %+v, want added=true count=1", mutation)
	}

	// Duplicate add is idempotent and answers 200.
	w, resp = doRequest(t, mux, http.MethodPost, "/api/v1/watchlist", movieBody(t, matrix))
	if w.Code != http.StatusOK {
		t.Fatalf("duplicate add: status = %d, want 200", w.Code)
	}
	decodeData(t, resp.Data, &mutation)
	if mutation.Added == nil || *mutation.Added || mutation.Count != 1 {
		t.Fatalf("duplicate add: got %+v, want added=false count=1", mutation)
	}

	// Membership check through the URL param bridge.
	w, resp = doRequest(t, mux, http.MethodGet, "/api/v1/watchlist/603", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("membership: status = %d, want 200", w.Code)
	}
	var membership watchlistResult
	decodeData(t, resp.Data, &membership)
	if membership.InWatchlist == nil || !*membership.InWatchlist || membership.ID != 603 {
		t.Fatalf("membership: got %+v, want in_watchlist=true id=603", membership)
	}

	// Toggle a second movie in.
	w, resp = doRequest(t, mux, http.MethodPost, "/api/v1/watchlist/toggle", movieBody(t, inception))
	if w.Code != http.StatusOK {
		t.Fatalf("toggle: status = %d, want 200", w.Code)
	}
	decodeData(t, resp.Data, &mutation)
	if mutation.InWatchlist == nil || !*mutation.InWatchlist || mutation.Count != 2 {
		t.Fatalf("toggle: got %+v, want in_watchlist=true count=2", mutation)
	}

	// Title sort puts Inception first.
	w, resp = doRequest(t, mux, http.MethodGet, "/api/v1/watchlist?sort=title", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("sorted list: status = %d, want 200", w.Code)
	}
	decodeData(t, resp.Data, &list)
	if list.Sort != "title" || len(list.Items) != 2 {
		t.Fatalf("sorted list: got sort=%q len=%d, want title/2", list.Sort, len(list.Items))
	}
	if list.Items[0].ID != 27205 {
		t.Errorf("sorted list: Items[0].ID = %d, want 27205", list.Items[0].ID)
	}

	// Stats reflect both movies' shared genres.
	w, resp = doRequest(t, mux, http.MethodGet, "/api/v1/watchlist/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("stats: status = %d, want 200", w.Code)
	}
	var stats models.WatchlistStats
	decodeData(t, resp.Data, &stats)
	if stats.Count != 2 {
		t.Errorf("stats: count = %d, want 2", stats.Count)
	}
	if len(stats.TopGenres) == 0 || stats.TopGenres[0] != 28 {
		t.Errorf("stats: top genres = %v, want leading 28", stats.TopGenres)
	}

	// Genre view returns both action movies.
	w, resp = doRequest(t, mux, http.MethodGet, "/api/v1/watchlist/genre/28", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("genre view: status = %d, want 200", w.Code)
	}
	decodeData(t, resp.Data, &list)
	if list.Count != 2 {
		t.Errorf("genre view: count = %d, want 2", list.Count)
	}

	// Remove one; removing it again reports removed=false.
	w, resp = doRequest(t, mux, http.MethodDelete, "/api/v1/watchlist/603", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remove: status = %d, want 200", w.Code)
	}
	decodeData(t, resp.Data, &mutation)
	if mutation.Removed == nil || !*mutation.Removed || mutation.Count != 1 {
		t.Fatalf("remove: got %+v, want removed=true count=1", mutation)
	}
	_, resp = doRequest(t, mux, http.MethodDelete, "/api/v1/watchlist/603", nil)
	decodeData(t, resp.Data, &mutation)
	if mutation.Removed == nil || *mutation.Removed {
		t.Errorf("second remove: got %+v, want removed=false", mutation)
	}

	// Flush persists the document synchronously.
	w, _ = doRequest(t, mux, http.MethodPost, "/api/v1/watchlist/flush", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("flush: status = %d, want 200", w.Code)
	}
	if _, err := os.Stat(env.cfg.Watchlist.Path); err != nil {
		t.Errorf("flush: watchlist document not on disk: %v", err)
	}

	// Clear drops the remainder.
	w, resp = doRequest(t, mux, http.MethodDelete, "/api/v1/watchlist", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("clear: status = %d, want 200", w.Code)
	}
	decodeData(t, resp.Data, &mutation)
	if mutation.Cleared == nil || *mutation.Cleared != 1 || mutation.Count != 0 {
		t.Fatalf("clear: got %+v, want cleared=1 count=0", mutation)
	}
	if env.store.Len() != 0 {
		t.Errorf("store length after clear = %d, want 0", env.store.Len())
	}
}

// TestWatchlistAdd_InvalidBodies tests request body validation
func TestWatchlistAdd_InvalidBodies(t *testing.T) {
	_, mux := setupTestRouter(t)

	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"malformed json", `{"id": 603,`},
		{"zero id", `{"id": 0, "title": "The Matrix"}`},
		{"negative id", `{"id": -1, "title": "The Matrix"}`},
		{"missing title", `{"id": 603}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := doRequest(t, mux, http.MethodPost, "/api/v1/watchlist", strings.NewReader(tt.body))

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if resp.Error == nil || resp.Error.Code != CodeValidationError {
				t.Errorf("error = %+v, want code %s", resp.Error, CodeValidationError)
			}
		})
	}
}

// TestWatchlistList_InvalidSort tests sort key validation
func TestWatchlistList_InvalidSort(t *testing.T) {
	_, mux := setupTestRouter(t)

	w, resp := doRequest(t, mux, http.MethodGet, "/api/v1/watchlist?sort=bogus", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp.Error == nil || resp.Error.Code != CodeValidationError {
		t.Errorf("error = %+v, want code %s", resp.Error, CodeValidationError)
	}
}

// TestWatchlistGet_InvalidID tests the URL param bridge rejecting junk ids
func TestWatchlistGet_InvalidID(t *testing.T) {
	_, mux := setupTestRouter(t)

	w, resp := doRequest(t, mux, http.MethodGet, "/api/v1/watchlist/abc", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp.Error == nil || resp.Error.Code != CodeValidationError {
		t.Errorf("error = %+v, want code %s", resp.Error, CodeValidationError)
	}
}

// TestWatchlistSortOrders exercises every sort key end-to-end
func TestWatchlistSortOrders(t *testing.T) {
	_, mux := setupTestRouter(t)

	movies := []models.Movie{
		{ID: 1, Title: "Beta", ReleaseDate: "2001-01-01", VoteAverage: 5.0, GenreIDs: []int{18}},
		{ID: 2, Title: "Alpha", ReleaseDate: "2003-01-01", VoteAverage: 9.0, GenreIDs: []int{18}},
		{ID: 3, Title: "Gamma", ReleaseDate: "2002-01-01", VoteAverage: 7.0, GenreIDs: []int{18}},
	}
	for _, m := range movies {
		if w, _ := doRequest(t, mux, http.MethodPost, "/api/v1/watchlist", movieBody(t, m)); w.Code != http.StatusCreated {
			t.Fatalf("seed add %d: status = %d", m.ID, w.Code)
		}
	}

	tests := []struct {
		sort      string
		wantFirst int
	}{
		{"date_added", 1},   // insertion order
		{"title", 2},        // Alpha
		{"rating", 2},       // 9.0
		{"release_date", 2}, // newest first
	}

	for _, tt := range tests {
		t.Run(tt.sort, func(t *testing.T) {
			w, resp := doRequest(t, mux, http.MethodGet, "/api/v1/watchlist?sort="+tt.sort, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200", w.Code)
			}
			var list watchlistResult
			decodeData(t, resp.Data, &list)
			if len(list.Items) != 3 {
				t.Fatalf("len(items) = %d, want 3", len(list.Items))
			}
			if list.Items[0].ID != tt.wantFirst {
				t.Errorf("Items[0].ID = %d, want %d", list.Items[0].ID, tt.wantFirst)
			}
		})
	}
}
