// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

// Package main is the entry point for the MovieTrailer server application.
//
// MovieTrailer is a self-hosted movie discovery backend over the TMDB API.
// It serves trending, popular, and top-rated listings, full-text search,
// movie details, a persistent watchlist, and genre-profile recommendations,
// with real-time change notifications over WebSocket.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Load settings from environment variables and config files (Koanf v2)
//  2. Logging: zerolog with level and format from configuration
//  3. Keystore: sealed TMDB credential store (BadgerDB + HKDF-derived key)
//  4. Cache: two-tier response cache (in-memory LRU over BadgerDB)
//  5. Catalog: TMDB client with retry, rate limiter, and circuit breaker
//  6. Watchlist: in-memory store loaded from the persisted JSON document
//  7. Recommend: genre-profile recommendation engine
//  8. Events: watermill bus and the bridge into the WebSocket hub
//  9. HTTP Server: REST API, WebSocket endpoint, and Prometheus metrics
//
// All long-running components run under a suture v4 supervisor tree; see
// internal/supervisor for the layer layout.
//
// # Signal Handling
//
// The server handles graceful shutdown on SIGINT and SIGTERM:
//   - Stops accepting new connections
//   - Waits for in-flight requests to complete
//   - Persists the watchlist one final time
//   - Closes the cache and the key store
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/api"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/cache"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/catalog"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/config"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/events"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/keystore"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/recommend"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/supervisor"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/supervisor/services"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/watchlist"
	ws "github.com/bestfriendai/MovieTrailer-sub003/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting MovieTrailer with supervisor tree")
	logging.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("cache_path", cfg.Cache.DiskPath).
		Str("watchlist_path", cfg.Watchlist.Path).
		Msg("Configuration loaded")

	// Open the sealed credential store. Falls back to the plain resolver when
	// no master secret is configured.
	keys, err := keystore.Open(&cfg.Keystore, cfg.TMDB.APIKey)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open key store")
	}

	if key, keyErr := keys.APIKey(context.Background()); keyErr != nil || key == "" {
		logging.Warn().Msg("No TMDB API key configured - catalog requests will fail until one is set via MOVIETRAILER_TMDB_API_KEY or the settings endpoint")
	}

	// Two-tier response cache: in-memory LRU in front of BadgerDB
	tiered, err := cache.Open(&cfg.Cache)
	if err != nil {
		// Close the key store before fatal exit to release the badger lock
		if closeErr := keys.Close(); closeErr != nil {
			logging.Error().Err(closeErr).Msg("Error closing key store")
		}
		logging.Fatal().Err(err).Msg("Failed to open cache")
	}
	logging.Info().Msg("Cache initialized successfully")

	sweeper := cache.NewSweeper(tiered, cfg.Cache.SweepInterval)

	// TMDB client with retry, rate limiter, and circuit breaker; the catalog
	// service layers response caching and decode on top of it.
	client := catalog.NewClient(&cfg.TMDB, keys)
	catalogSvc := catalog.NewService(client, tiered)
	search := catalog.NewSearchSession(catalogSvc)

	// Event bus carries watchlist changes and staleness markers. Created
	// before the watchlist so mutations can publish from the first request.
	bus := events.NewBus()

	// Watchlist store loads the persisted document; the flusher owns
	// debounced persistence from here on.
	store, flusher, err := watchlist.Open(&cfg.Watchlist, bus)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open watchlist")
	}
	logging.Info().Int("count", store.Len()).Msg("Watchlist loaded")

	engine, err := recommend.NewEngine(catalogSvc, store, bus, cfg.Recommend)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create recommendation engine")
	}

	// WebSocket hub for real-time updates
	hub := ws.NewHub()

	// Bridge bus topics into hub broadcasts
	bridge, err := events.NewBridge(bus, hub)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event bridge")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	handler := api.NewHandler(api.Deps{
		Config:    cfg,
		Catalog:   catalogSvc,
		Search:    search,
		Watchlist: store,
		Flusher:   flusher,
		Engine:    engine,
		Cache:     tiered,
		Sweeper:   sweeper,
		Keys:      keys,
		Hub:       hub,
	})

	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareFromServerConfig(&cfg.Server)))

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	// === ADD SERVICES TO SUPERVISOR TREE ===

	// Data layer services
	tree.AddDataService(flusher)
	tree.AddDataService(sweeper)
	tree.AddDataService(engine)
	logging.Info().Msg("Watchlist flusher, cache sweeper, and staleness watcher added to supervisor tree")

	// Delivery layer services
	tree.AddDeliveryService(bridge)
	tree.AddDeliveryService(services.NewWebSocketHubService(hub))
	tree.AddDeliveryService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	// === START SUPERVISOR TREE ===

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	// Final persistence pass after the tree has drained. The flusher saves on
	// its own shutdown; this covers mutations that raced the drain.
	saveCtx, saveCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	if err := flusher.ForceSave(saveCtx); err != nil {
		logging.Error().Err(err).Msg("Final watchlist save failed")
	}
	saveCancel()

	if err := bus.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing event bus")
	}
	if err := tiered.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing cache")
	}
	if err := keys.Close(); err != nil {
		logging.Error().Err(err).Msg("Error closing key store")
	}

	logging.Info().Msg("Application stopped gracefully")
}
