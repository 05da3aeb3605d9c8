// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/cache"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/catalog"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/config"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/keystore"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/recommend"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/watchlist"
	ws "github.com/bestfriendai/MovieTrailer-sub003/internal/websocket"
)

// Deps bundles everything the handlers call. All fields are required.
type Deps struct {
	Config    *config.Config
	Catalog   *catalog.Service
	Search    *catalog.SearchSession
	Watchlist *watchlist.Store
	Flusher   *watchlist.Flusher
	Engine    *recommend.Engine
	Cache     *cache.Tiered
	Sweeper   *cache.Sweeper
	Keys      *keystore.Resolver
	Hub       *ws.Hub
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct, constructor, WebSocket upgrade (this file)
//   - handlers_movies.go: catalog listings, search, details, genres, discovery
//   - handlers_watchlist.go: watchlist views and mutations
//   - handlers_system.go: recommendations, lifecycle, cache stats, health
//   - helpers.go: shared response and parameter helpers
//   - errors.go: classified error translation
type Handler struct {
	config    *config.Config
	catalog   *catalog.Service
	search    *catalog.SearchSession
	watchlist *watchlist.Store
	flusher   *watchlist.Flusher
	engine    *recommend.Engine
	cache     *cache.Tiered
	sweeper   *cache.Sweeper
	keys      *keystore.Resolver
	hub       *ws.Hub
	startTime time.Time
}

// NewHandler creates the API handler over the assembled services.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		config:    deps.Config,
		catalog:   deps.Catalog,
		search:    deps.Search,
		watchlist: deps.Watchlist,
		flusher:   deps.Flusher,
		engine:    deps.Engine,
		cache:     deps.Cache,
		sweeper:   deps.Sweeper,
		keys:      deps.Keys,
		hub:       deps.Hub,
		startTime: time.Now(),
	}
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow-client attacks.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browser WebSockets always include Origin; only non-browser clients
	// omit it. Allowing empty Origin would bypass CORS entirely.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// Fail open without config (tests, development)
	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Server.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the connection and attaches the client to the hub. The
// client then receives watchlist_changed and recommendations_stale frames
// until it disconnects or falls too far behind.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		logging.CtxWarn(r.Context()).Err(err).Msg("WebSocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn)
	h.hub.Register <- client

	logging.CtxDebug(r.Context()).Uint64("client_id", client.ID()).Msg("WebSocket client connected")

	client.Start()
}
