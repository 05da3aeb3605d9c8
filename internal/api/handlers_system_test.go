// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/cache"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/catalog"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/keystore"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/recommend"
)

// TestRecommendations_ColdStartServesTrending covers the empty-watchlist
// path: the first GET triggers a refresh and the items come from trending,
// rating-ranked.
func TestRecommendations_ColdStartServesTrending(t *testing.T) {
	env := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
	w := httptest.NewRecorder()
	env.handler.Recommendations(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Status != "success" {
		t.Fatalf("status = %q, want success", resp.Status)
	}

	var state recommend.State
	decodeData(t, resp.Data, &state)
	if state.Phase != recommend.PhaseSuccess {
		t.Fatalf("phase = %q, want %q", state.Phase, recommend.PhaseSuccess)
	}
	if len(state.Items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(state.Items))
	}
	// Inception (8.4) outranks The Matrix (8.2) on rating alone.
	if state.Items[0].Movie.ID != 27205 {
		t.Errorf("Items[0].Movie.ID = %d, want 27205", state.Items[0].Movie.ID)
	}
	if state.Items[0].Reason != "Trending this week" {
		t.Errorf("Items[0].Reason = %q, want trending label", state.Items[0].Reason)
	}
	if state.RefreshedAt.IsZero() {
		t.Error("RefreshedAt not set after refresh")
	}
}

// TestRecommendations_GenreProfile covers the bookmarked path: the profile
// from the watchlist drives discovery, bookmarked ids are excluded, and
// genre overlap outranks rating.
func TestRecommendations_GenreProfile(t *testing.T) {
	env := setupTestHandler(t)

	ctx := context.Background()
	env.store.Add(ctx, models.Movie{ID: 603, Title: "The Matrix", GenreIDs: []int{28, 878}, VoteAverage: 8.2})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
	w := httptest.NewRecorder()
	env.handler.Recommendations(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var state recommend.State
	decodeData(t, decodeEnvelope(t, w).Data, &state)
	if state.Phase != recommend.PhaseSuccess {
		t.Fatalf("phase = %q, want %q", state.Phase, recommend.PhaseSuccess)
	}

	for _, item := range state.Items {
		if item.Movie.ID == 603 {
			t.Error("bookmarked movie 603 appeared in recommendations")
		}
	}
	// Inception shares both profile genres, so it leads the ranking; Fight
	// Club from the discover page scores on rating alone.
	if len(state.Items) == 0 || state.Items[0].Movie.ID != 27205 {
		t.Fatalf("Items[0] = %+v, want Inception first", state.Items)
	}
	if state.Items[0].SharedGenreID != 28 {
		t.Errorf("SharedGenreID = %d, want 28", state.Items[0].SharedGenreID)
	}
}

// TestRecommendations_LimitTruncatesItems tests the limit query parameter
func TestRecommendations_LimitTruncatesItems(t *testing.T) {
	env := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?limit=1", nil)
	w := httptest.NewRecorder()
	env.handler.Recommendations(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var state recommend.State
	decodeData(t, decodeEnvelope(t, w).Data, &state)
	if len(state.Items) != 1 {
		t.Errorf("len(items) = %d, want 1", len(state.Items))
	}
}

// TestRecommendations_LimitValidation tests limit bounds
func TestRecommendations_LimitValidation(t *testing.T) {
	env := setupTestHandler(t)

	for _, limit := range []string{"0", "-1", "101"} {
		t.Run("limit "+limit, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?limit="+limit, nil)
			w := httptest.NewRecorder()
			env.handler.Recommendations(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			resp := decodeEnvelope(t, w)
			if resp.Error == nil || resp.Error.Code != CodeValidationError {
				t.Errorf("error = %+v, want code %s", resp.Error, CodeValidationError)
			}
		})
	}
}

// TestRecommendations_UpstreamFailureFoldsIntoPhase verifies a failed
// refresh still answers 200: the failure lives in the state's phase, not
// the HTTP status, because recommendations are auxiliary content.
func TestRecommendations_UpstreamFailureFoldsIntoPhase(t *testing.T) {
	env := setupTestHandler(t)
	env.fetcher.fail("/trending/movie/day", &catalog.Error{Kind: catalog.KindTransport, Endpoint: "trending"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil)
	w := httptest.NewRecorder()
	env.handler.Recommendations(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var state recommend.State
	decodeData(t, decodeEnvelope(t, w).Data, &state)
	if state.Phase != recommend.PhaseError {
		t.Errorf("phase = %q, want %q", state.Phase, recommend.PhaseError)
	}
	if state.Error == "" {
		t.Error("state.Error empty, want failure message")
	}
	if len(state.Items) != 0 {
		t.Errorf("len(items) = %d, want 0", len(state.Items))
	}
}

// TestRecommendationsRefresh tests the unconditional recompute endpoint
func TestRecommendationsRefresh(t *testing.T) {
	env := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/recommendations/refresh", nil)
	w := httptest.NewRecorder()
	env.handler.RecommendationsRefresh(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var state recommend.State
	decodeData(t, decodeEnvelope(t, w).Data, &state)
	if state.Phase != recommend.PhaseSuccess {
		t.Errorf("phase = %q, want %q", state.Phase, recommend.PhaseSuccess)
	}
	if state.RefreshedAt.IsZero() {
		t.Error("RefreshedAt not set after refresh")
	}
}

// TestLifecycleActive tests the foreground signal
func TestLifecycleActive(t *testing.T) {
	env := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lifecycle/active", nil)
	w := httptest.NewRecorder()
	env.handler.LifecycleActive(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want 202", w.Code)
	}
	var ack map[string]string
	decodeData(t, decodeEnvelope(t, w).Data, &ack)
	if ack["sweep"] != "triggered" {
		t.Errorf("ack = %v, want sweep triggered", ack)
	}
}

// TestLifecycleBackground tests the background signal persisting the watchlist
func TestLifecycleBackground(t *testing.T) {
	env := setupTestHandler(t)
	env.store.Add(context.Background(), models.Movie{ID: 603, Title: "The Matrix"})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/lifecycle/background", nil)
	w := httptest.NewRecorder()
	env.handler.LifecycleBackground(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var ack map[string]bool
	decodeData(t, decodeEnvelope(t, w).Data, &ack)
	if !ack["flushed"] {
		t.Errorf("ack = %v, want flushed true", ack)
	}
	if _, err := os.Stat(env.cfg.Watchlist.Path); err != nil {
		t.Errorf("watchlist document not on disk: %v", err)
	}
}

// TestCacheStats tests the cache occupancy report
func TestCacheStats(t *testing.T) {
	env := setupTestHandler(t)
	env.cache.Set(context.Background(), "stats-probe", []byte("payload"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cache/stats", nil)
	w := httptest.NewRecorder()
	env.handler.CacheStats(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var sizes cache.Sizes
	decodeData(t, decodeEnvelope(t, w).Data, &sizes)
	if sizes.MemoryEntries != 1 {
		t.Errorf("MemoryEntries = %d, want 1", sizes.MemoryEntries)
	}
	if sizes.MemoryBytes <= 0 {
		t.Errorf("MemoryBytes = %d, want > 0", sizes.MemoryBytes)
	}
}

// TestHealth tests the healthy report with a resolvable API key
func TestHealth(t *testing.T) {
	env := setupTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	env.handler.Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var view healthView
	decodeData(t, decodeEnvelope(t, w).Data, &view)

	if view.Status != "healthy" {
		t.Errorf("status = %q, want healthy", view.Status)
	}
	if view.Version != "1.0.0" {
		t.Errorf("version = %q, want 1.0.0", view.Version)
	}
	if !view.APIKeyConfigured {
		t.Error("api_key_configured = false, want true")
	}
	if view.RecommendPhase != string(recommend.PhaseIdle) {
		t.Errorf("recommend_phase = %q, want idle", view.RecommendPhase)
	}
	if view.WatchlistCount != 0 {
		t.Errorf("watchlist_count = %d, want 0", view.WatchlistCount)
	}
}

// TestHealth_DegradedWithoutAPIKey tests the degraded report when no
// credential resolves anywhere in the chain
func TestHealth_DegradedWithoutAPIKey(t *testing.T) {
	env := setupTestHandler(t)

	handler := &Handler{
		keys:      keystore.NewResolver(nil, ""),
		engine:    env.engine,
		watchlist: env.store,
		hub:       env.handler.hub,
		startTime: time.Now(),
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	handler.Health(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var view healthView
	decodeData(t, decodeEnvelope(t, w).Data, &view)

	if view.Status != "degraded" {
		t.Errorf("status = %q, want degraded", view.Status)
	}
	if view.APIKeyConfigured {
		t.Error("api_key_configured = true, want false")
	}
}

// fakeSecretStore is an in-memory keystore.Store for settings tests.
type fakeSecretStore struct {
	mu     sync.Mutex
	values map[string]string
	setErr error
}

func newFakeSecretStore() *fakeSecretStore {
	return &fakeSecretStore{values: make(map[string]string)}
}

func (s *fakeSecretStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	if !ok {
		return "", keystore.ErrNotFound
	}
	return v, nil
}

func (s *fakeSecretStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	s.values[key] = value
	return nil
}

func (s *fakeSecretStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// TestSettingsAPIKey_StoresAndTakesEffect tests the happy path through a
// secure store: the new key is stored and resolves on the next lookup
func TestSettingsAPIKey_StoresAndTakesEffect(t *testing.T) {
	store := newFakeSecretStore()
	keys := keystore.NewResolver(store, "bundled-key")
	handler := &Handler{keys: keys}

	body := strings.NewReader(`{"api_key": "fresh-credential-123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/settings/api-key", body)
	w := httptest.NewRecorder()
	handler.SettingsAPIKey(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var ack map[string]bool
	decodeData(t, decodeEnvelope(t, w).Data, &ack)
	if !ack["updated"] {
		t.Errorf("ack = %v, want updated true", ack)
	}

	key, err := keys.APIKey(context.Background())
	if err != nil {
		t.Fatalf("APIKey() error = %v", err)
	}
	if key != "fresh-credential-123" {
		t.Errorf("APIKey() = %q, want the stored credential", key)
	}
}

// TestSettingsAPIKey_NoSecureStore tests the 503 when no store is configured
func TestSettingsAPIKey_NoSecureStore(t *testing.T) {
	env := setupTestHandler(t)

	body := strings.NewReader(`{"api_key": "fresh-credential-123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/settings/api-key", body)
	w := httptest.NewRecorder()
	env.handler.SettingsAPIKey(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Error == nil || resp.Error.Code != CodeInternalError {
		t.Errorf("error = %+v, want code %s", resp.Error, CodeInternalError)
	}
}

// TestSettingsAPIKey_Validation tests body and key validation
func TestSettingsAPIKey_Validation(t *testing.T) {
	env := setupTestHandler(t)

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"api_key": `},
		{"missing key", `{}`},
		{"too short", `{"api_key": "short"}`},
		{"too long", `{"api_key": "` + strings.Repeat("x", 129) + `"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/settings/api-key", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			env.handler.SettingsAPIKey(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			resp := decodeEnvelope(t, w)
			if resp.Error == nil || resp.Error.Code != CodeValidationError {
				t.Errorf("error = %+v, want code %s", resp.Error, CodeValidationError)
			}
		})
	}
}

// TestSettingsAPIKey_StoreFailure tests the 500 when the store rejects the write
func TestSettingsAPIKey_StoreFailure(t *testing.T) {
	store := newFakeSecretStore()
	store.setErr = errors.New("disk full")
	handler := &Handler{keys: keystore.NewResolver(store, "")}

	body := strings.NewReader(`{"api_key": "fresh-credential-123"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/settings/api-key", body)
	w := httptest.NewRecorder()
	handler.SettingsAPIKey(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	resp := decodeEnvelope(t, w)
	if resp.Error == nil || resp.Error.Code != CodeInternalError {
		t.Errorf("error = %+v, want code %s", resp.Error, CodeInternalError)
	}
}
