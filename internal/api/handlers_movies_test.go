// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/catalog"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

// decodeEnvelope decodes a recorded response into the standard envelope.
func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) models.APIResponse {
	t.Helper()
	var resp models.APIResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

// decodeData re-marshals the envelope's Data into a typed payload.
func decodeData(t *testing.T, data interface{}, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(data)
	if err != nil {
		t.Fatalf("Failed to marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("Failed to unmarshal data: %v", err)
	}
}

// TestMoviesTrending tests the trending listing endpoint
func TestMoviesTrending(t *testing.T) {
	env := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/trending", nil)
	w := httptest.NewRecorder()

	env.handler.MoviesTrending(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if cc := w.Header().Get("Cache-Control"); cc != "public, max-age=60" {
		t.Errorf("Cache-Control = %q, want public, max-age=60", cc)
	}
	if w.Header().Get("ETag") == "" {
		t.Error("Expected ETag header to be set")
	}

	resp := decodeEnvelope(t, w)
	if resp.Status != "success" {
		t.Errorf("Expected status 'success', got '%s'", resp.Status)
	}
	if resp.Metadata.Timestamp.IsZero() {
		t.Error("Expected metadata timestamp to be set")
	}

	var page models.MoviePage
	decodeData(t, resp.Data, &page)
	if len(page.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(page.Results))
	}
	if page.Results[0].Title != "The Matrix" {
		t.Errorf("Results[0].Title = %q, want The Matrix", page.Results[0].Title)
	}
}

// TestMoviesTrending_CachesResponse verifies the second identical request
// is served from the cache, not the upstream.
func TestMoviesTrending_CachesResponse(t *testing.T) {
	env := setupTestHandler(t)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/trending?page=1", nil)
		w := httptest.NewRecorder()
		env.handler.MoviesTrending(w, req)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Code)
		}
	}

	env.fetcher.mu.Lock()
	calls := len(env.fetcher.calls)
	env.fetcher.mu.Unlock()
	if calls != 1 {
		t.Errorf("Upstream calls = %d, want 1 (second request should hit the cache)", calls)
	}
}

// TestListingHandlers_PageValidation tests page bounds on all three listings
func TestListingHandlers_PageValidation(t *testing.T) {
	env := setupTestHandler(t)

	handlers := map[string]http.HandlerFunc{
		"trending":  env.handler.MoviesTrending,
		"popular":   env.handler.MoviesPopular,
		"top-rated": env.handler.MoviesTopRated,
	}

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"default page", "", http.StatusOK},
		{"explicit page", "?page=2", http.StatusOK},
		{"page zero", "?page=0", http.StatusBadRequest},
		{"negative page", "?page=-1", http.StatusBadRequest},
		{"page beyond upstream cap", "?page=501", http.StatusBadRequest},
		{"non-numeric page falls back to default", "?page=abc", http.StatusOK},
	}

	for name, handler := range handlers {
		for _, tt := range tests {
			t.Run(name+"/"+tt.name, func(t *testing.T) {
				req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/"+name+tt.query, nil)
				w := httptest.NewRecorder()
				handler(w, req)

				if w.Code != tt.wantStatus {
					t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
				}
				if tt.wantStatus == http.StatusBadRequest {
					resp := decodeEnvelope(t, w)
					if resp.Error == nil || resp.Error.Code != CodeValidationError {
						t.Errorf("error code = %v, want %s", resp.Error, CodeValidationError)
					}
				}
			})
		}
	}
}

// TestMoviesSearch tests the search endpoint
func TestMoviesSearch(t *testing.T) {
	env := setupTestHandler(t)

	t.Run("missing query", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/search", nil)
		w := httptest.NewRecorder()
		env.handler.MoviesSearch(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
		resp := decodeEnvelope(t, w)
		if resp.Error == nil || resp.Error.Code != CodeValidationError {
			t.Errorf("error code = %v, want %s", resp.Error, CodeValidationError)
		}
	})

	t.Run("query match", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/search?query=dark+knight", nil)
		w := httptest.NewRecorder()
		env.handler.MoviesSearch(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var page models.MoviePage
		decodeData(t, decodeEnvelope(t, w).Data, &page)
		if len(page.Results) != 1 || page.Results[0].ID != 155 {
			t.Errorf("unexpected results: %+v", page.Results)
		}
	})

	t.Run("session search delivers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/search?query=dark&session=1", nil)
		w := httptest.NewRecorder()
		env.handler.MoviesSearch(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		resp := decodeEnvelope(t, w)
		if resp.Status != "success" {
			t.Errorf("status = %q, want success", resp.Status)
		}
	})
}

// TestMovieDetails tests the details endpoint including upstream error mapping
func TestMovieDetails(t *testing.T) {
	env := setupTestHandler(t)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/603", nil)
		req.SetPathValue("id", "603")
		w := httptest.NewRecorder()
		env.handler.MovieDetails(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		var details models.MovieDetails
		decodeData(t, decodeEnvelope(t, w).Data, &details)
		if details.Title != "The Matrix" || details.Runtime != 136 {
			t.Errorf("unexpected details: %+v", details)
		}
	})

	t.Run("unknown id maps upstream 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/999", nil)
		req.SetPathValue("id", "999")
		w := httptest.NewRecorder()
		env.handler.MovieDetails(w, req)

		if w.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", w.Code)
		}
		resp := decodeEnvelope(t, w)
		if resp.Error == nil || resp.Error.Code != CodeNotFound {
			t.Errorf("error code = %v, want %s", resp.Error, CodeNotFound)
		}
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/abc", nil)
		req.SetPathValue("id", "abc")
		w := httptest.NewRecorder()
		env.handler.MovieDetails(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", w.Code)
		}
	})
}

// TestMovieVideos_DegradesOnUpstreamFailure verifies auxiliary content
// answers 200 with an empty list instead of surfacing the upstream error.
func TestMovieVideos_DegradesOnUpstreamFailure(t *testing.T) {
	env := setupTestHandler(t)
	env.fetcher.fail("/movie/603/videos", &catalog.Error{Kind: catalog.KindTransport, Endpoint: "videos"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/603/videos", nil)
	req.SetPathValue("id", "603")
	w := httptest.NewRecorder()
	env.handler.MovieVideos(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var videos models.VideoList
	decodeData(t, decodeEnvelope(t, w).Data, &videos)
	if len(videos.Results) != 0 {
		t.Errorf("Expected empty results on degrade, got %d", len(videos.Results))
	}
}

// TestMovieExtras tests the concurrent detail bundle
func TestMovieExtras(t *testing.T) {
	env := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/603/extras", nil)
	req.SetPathValue("id", "603")
	w := httptest.NewRecorder()
	env.handler.MovieExtras(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var extras catalog.MovieExtras
	decodeData(t, decodeEnvelope(t, w).Data, &extras)

	if extras.Details == nil || extras.Details.Title != "The Matrix" {
		t.Error("Expected details section to be populated")
	}
	if extras.Videos == nil || len(extras.Videos.Results) != 1 {
		t.Error("Expected videos section to be populated")
	}
	if extras.Similar == nil || len(extras.Similar.Results) != 2 {
		t.Error("Expected similar section to be populated")
	}
	if extras.Recommended == nil || len(extras.Recommended.Results) != 2 {
		t.Error("Expected recommended section to be populated")
	}
	if extras.Providers == nil {
		t.Error("Expected providers section to be populated")
	} else if _, ok := extras.Providers.Region("US"); !ok {
		t.Error("Expected US provider region")
	}
}

// TestGenres tests the genre table endpoint
func TestGenres(t *testing.T) {
	env := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/genres", nil)
	w := httptest.NewRecorder()
	env.handler.Genres(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var genres models.GenreList
	decodeData(t, decodeEnvelope(t, w).Data, &genres)
	if len(genres.Genres) != 3 {
		t.Errorf("Expected 3 genres, got %d", len(genres.Genres))
	}
}

// TestMoviesDiscover tests genre-filtered discovery
func TestMoviesDiscover(t *testing.T) {
	env := setupTestHandler(t)

	tests := []struct {
		name       string
		query      string
		wantStatus int
	}{
		{"two genres", "?genres=28,878", http.StatusOK},
		{"single genre", "?genres=18", http.StatusOK},
		{"missing genres", "", http.StatusBadRequest},
		{"empty genres", "?genres=", http.StatusBadRequest},
		{"non-numeric genres", "?genres=a,b", http.StatusBadRequest},
		{"negative genre", "?genres=-5", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/movies/discover"+tt.query, nil)
			w := httptest.NewRecorder()
			env.handler.MoviesDiscover(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", w.Code, tt.wantStatus)
			}
		})
	}
}
