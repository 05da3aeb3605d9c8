// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/keystore"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/recommend"
)

// defaultRecommendLimit is the item count served when the client does not
// ask for a specific limit. One screen of cards.
const defaultRecommendLimit = 20

// maxAPIKeyBodySize bounds the settings request body.
const maxAPIKeyBodySize = 4 << 10

// healthView is the GET /health payload.
type healthView struct {
	Status           string  `json:"status"`
	Version          string  `json:"version"`
	UptimeSeconds    float64 `json:"uptime_seconds"`
	APIKeyConfigured bool    `json:"api_key_configured"`
	WatchlistCount   int     `json:"watchlist_count"`
	WebSocketClients int     `json:"websocket_clients"`
	RecommendPhase   string  `json:"recommend_phase"`
	RecommendStale   bool    `json:"recommend_stale"`
}

// Recommendations serves the current recommendation state, refreshing it
// first when it has never been computed or the watchlist changed since the
// last cycle. A refresh superseded by a concurrent one answers with the
// superseded envelope; failures are folded into the state's phase rather
// than an error status, because recommendations are auxiliary content.
//
// Method: GET
// Path: /api/v1/recommendations?limit=
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := recommendationsRequest{Limit: getIntParam(r, "limit", defaultRecommendLimit)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	state := h.engine.State()
	if state.Phase == recommend.PhaseIdle || state.Stale {
		fresh, delivered := h.engine.Refresh(r.Context())
		if !delivered {
			respondSuperseded(w, start)
			return
		}
		state = fresh
	}

	if len(state.Items) > req.Limit {
		state.Items = state.Items[:req.Limit]
	}
	respondSuccess(w, http.StatusOK, state, start)
}

// RecommendationsRefresh recomputes recommendations unconditionally, stale
// or not.
//
// Method: POST
// Path: /api/v1/recommendations/refresh
func (h *Handler) RecommendationsRefresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	state, delivered := h.engine.Refresh(r.Context())
	if !delivered {
		respondSuperseded(w, start)
		return
	}
	respondSuccess(w, http.StatusOK, state, start)
}

// LifecycleActive signals that a client came to the foreground. The disk
// cache sweep runs asynchronously; 202 acknowledges the trigger, not the
// sweep.
//
// Method: POST
// Path: /api/v1/lifecycle/active
func (h *Handler) LifecycleActive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	h.sweeper.Trigger()
	respondSuccess(w, http.StatusAccepted, map[string]interface{}{"sweep": "triggered"}, start)
}

// LifecycleBackground signals that a client went to the background. The
// watchlist is persisted synchronously so nothing is lost if the process
// is killed next.
//
// Method: POST
// Path: /api/v1/lifecycle/background
func (h *Handler) LifecycleBackground(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.flusher.ForceSave(r.Context()); err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternalError, "Failed to persist watchlist", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"flushed": true}, start)
}

// CacheStats reports occupancy for both cache tiers.
//
// Method: GET
// Path: /api/v1/cache/stats
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, h.cache.Sizes(), start)
}

// Health reports process health and component visibility. The service is
// degraded, not down, when no TMDB credential resolves; everything served
// from local state keeps working.
//
// Method: GET
// Path: /api/v1/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	key, _ := h.keys.APIKey(r.Context())
	state := h.engine.State()

	view := healthView{
		Status:           "healthy",
		Version:          "1.0.0",
		UptimeSeconds:    time.Since(h.startTime).Seconds(),
		APIKeyConfigured: key != "",
		WatchlistCount:   h.watchlist.Len(),
		WebSocketClients: h.hub.GetClientCount(),
		RecommendPhase:   string(state.Phase),
		RecommendStale:   state.Stale,
	}
	if !view.APIKeyConfigured {
		view.Status = "degraded"
	}
	respondSuccess(w, http.StatusOK, view, start)
}

// SettingsAPIKey stores a new TMDB credential in the secure key store. The
// key takes effect on the next upstream request; it is never echoed back.
//
// Method: POST
// Path: /api/v1/settings/api-key
func (h *Handler) SettingsAPIKey(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req apiKeyRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxAPIKeyBodySize)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, CodeValidationError, "Request body must be an api_key object", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	if err := h.keys.SetAPIKey(r.Context(), req.APIKey); err != nil {
		if errors.Is(err, keystore.ErrNoSecureStore) {
			respondError(w, http.StatusServiceUnavailable, CodeInternalError,
				"Secure key store is not configured on this server", err)
			return
		}
		respondError(w, http.StatusInternalServerError, CodeInternalError, "Failed to store API key", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{"updated": true}, start)
}
