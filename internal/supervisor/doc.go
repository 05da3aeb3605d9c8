// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

/*
Package supervisor provides process supervision for MovieTrailer using suture v4.

This package implements a hierarchical supervisor tree that manages the lifecycle
of all long-running services in the application. It provides Erlang/OTP-style
supervision with automatic restart, failure isolation, and graceful shutdown.

# Overview

The supervisor tree organizes services into two layers for failure isolation:

	RootSupervisor ("movietrailer")
	├── DataSupervisor ("data-layer")
	│   ├── watchlist-flusher (debounced persistence)
	│   ├── cache-sweeper (periodic disk cache GC)
	│   └── recommend-engine (staleness watcher)
	└── DeliverySupervisor ("delivery-layer")
	    ├── event-bridge (watermill -> WebSocket fan-out)
	    ├── websocket-hub
	    └── http-server

This hierarchy ensures that:
  - A crash in the push path doesn't affect watchlist persistence
  - A crashing flusher doesn't take down the HTTP API
  - Each layer can restart independently

# Key Features

Automatic Restart:
  - Crashed services are automatically restarted
  - Exponential backoff prevents restart storms
  - Configurable failure thresholds and decay rates

Failure Isolation:
  - Services are organized into logical groups
  - Child supervisor failures don't propagate upward
  - Each layer has independent failure counting

Graceful Shutdown:
  - Context cancellation triggers orderly shutdown
  - Configurable shutdown timeout per service
  - UnstoppedServiceReport for debugging hangs

Structured Logging:
  - Integration with slog for structured events
  - Logs service starts, stops, failures, and restarts
  - Event hooks via sutureslog adapter, bridged to zerolog

# Usage Example

Basic setup in main.go:

	import (
	    "log/slog"
	    "github.com/bestfriendai/MovieTrailer-sub003/internal/supervisor"
	    "github.com/bestfriendai/MovieTrailer-sub003/internal/supervisor/services"
	)

	func main() {
	    logger := logging.NewSlogLogger()
	    config := supervisor.DefaultTreeConfig()

	    tree, err := supervisor.NewSupervisorTree(logger, config)
	    if err != nil {
	        log.Fatal(err)
	    }

	    // Add services to appropriate layers
	    tree.AddDataService(flusher)
	    tree.AddDataService(sweeper)
	    tree.AddDataService(engine)
	    tree.AddDeliveryService(bridge)
	    tree.AddDeliveryService(services.NewWebSocketHubService(hub))
	    tree.AddDeliveryService(services.NewHTTPServerService(server, timeout))

	    // Start the tree (blocks until context canceled)
	    ctx := context.Background()
	    if err := tree.Serve(ctx); err != nil {
	        log.Printf("Supervisor stopped: %v", err)
	    }
	}

Background operation:

	// Start in background
	errChan := tree.ServeBackground(ctx)

	// Do other setup...

	// Wait for shutdown
	if err := <-errChan; err != nil {
	    log.Printf("Supervisor error: %v", err)
	}

# Configuration

The TreeConfig controls restart behavior:

	config := supervisor.TreeConfig{
	    FailureThreshold: 5.0,          // Failures before backoff
	    FailureDecay:     30.0,         // Seconds for failures to decay
	    FailureBackoff:   15 * time.Second, // Backoff duration
	    ShutdownTimeout:  10 * time.Second, // Per-service shutdown timeout
	}

Default values match suture's production-ready defaults:
  - FailureThreshold: 5 failures
  - FailureDecay: 30 seconds
  - FailureBackoff: 15 seconds
  - ShutdownTimeout: 10 seconds

# Failure Handling

The supervisor uses a failure counter with exponential decay:

1. Each service failure increments the counter
2. Counter decays exponentially over time (FailureDecay seconds)
3. When counter exceeds FailureThreshold, supervisor enters backoff
4. During backoff, restarts are delayed by FailureBackoff duration
5. If failures continue, the child supervisor may be restarted by parent

# Service Interface

All services must implement suture.Service:

	type Service interface {
	    Serve(ctx context.Context) error
	}

Return behavior:
  - Return nil: Service stopped cleanly, will not be restarted
  - Return error: Service crashed, will be restarted
  - Context canceled: Shutdown requested, return promptly

The watchlist.Flusher, cache.Sweeper, recommend.Engine, and events.Bridge
implement this interface directly. The WebSocket hub and HTTP server are
adapted through the wrappers in internal/supervisor/services.

# What Is NOT Supervised

BadgerDB is intentionally not supervised:
  - It's an embedded library, not a long-running service
  - Its lifecycle is owned by the cache and keystore packages
  - Crashes in badger would require process restart anyway

The TMDB client is not supervised either: each request is scoped to its
caller's context, and retry, rate limiting, and circuit breaking live
inside the client itself.

# Debugging Shutdown Issues

If services don't stop within the timeout:

	// Get report of unstopped services
	report, err := tree.UnstoppedServiceReport()
	for _, svc := range report {
	    log.Printf("Service didn't stop: %v", svc)
	}

Common causes:
  - Goroutines not respecting context cancellation
  - Blocked network I/O without deadlines
  - Mutex deadlocks during shutdown

# Thread Safety

The SupervisorTree is safe for concurrent use:
  - Services can be added from any goroutine
  - Multiple services can crash simultaneously

# See Also

  - internal/supervisor/services: Service wrappers
  - github.com/thejerf/suture/v4: Underlying library
*/
package supervisor
