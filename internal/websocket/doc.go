// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

/*
Package websocket pushes the change feed to connected clients in real time.

This package implements the WebSocket delivery side of the watchlist change
notifications: whenever the watchlist mutates or the recommendation set goes
stale, every connected client receives a frame within milliseconds. It uses
the gorilla/websocket library with a hub-client architecture for efficient
fan-out.

Key Components:

  - Hub: Central broker that manages client connections and broadcasts
  - Client: Represents a single WebSocket connection with read/write goroutines
  - Message: Typed envelope for hub-originated frames (ping/pong)

Architecture:

The package implements a hub-and-spoke pattern:

	┌──────────┐
	│   Hub    │ ← Broadcasts to all clients
	└────┬─────┘
	     │
	┌────┴─────┬─────────┬─────────┐
	│          │         │         │
	│ Client1  │ Client2 │ Client3 │ Client4
	│          │         │         │
	└──────────┴─────────┴─────────┘

Each client has two goroutines:
  - readPump: Reads from WebSocket, answers application pings
  - writePump: Writes frames to WebSocket, sends protocol pings

Frame Types:

Frames are JSON envelopes with a type tag and a payload:

  - watchlist_changed: a watchlist mutation (operation, movie id, title, count)
  - recommendations_stale: the recommendation set no longer matches the watchlist
  - pong: reply to an application-level ping from the client

The change-feed frames are produced by the event bridge (internal/events)
and arrive at the hub pre-marshaled via BroadcastRaw; the hub never inspects
or re-encodes them.

Usage Example - Server:

	hub := websocket.NewHub()
	// supervised: tree.AddMessagingService(services.NewWebSocketHubService(hub))

	// WebSocket upgrade endpoint (see internal/api)
	conn, _ := upgrader.Upgrade(w, r, nil)
	client := websocket.NewClient(hub, conn)
	hub.Register <- client
	client.Start()

Usage Example - Client (JavaScript):

	const ws = new WebSocket('ws://localhost:8757/api/v1/ws');

	ws.onmessage = (event) => {
	    const msg = JSON.parse(event.data);

	    if (msg.type === 'watchlist_changed') {
	        refreshWatchlistBadge(msg.data.count);
	    }

	    if (msg.type === 'recommendations_stale') {
	        showRefreshAffordance();
	    }
	};

Connection Lifecycle:

 1. Client connects via HTTP upgrade
 2. Hub registers client
 3. Client starts read/write goroutines
 4. Hub broadcasts frames to all clients
 5. Client disconnects (network error, explicit close, or slow-client eviction)
 6. Hub unregisters client and cleans up

Thread Safety:

The package is fully thread-safe:
  - Hub uses a mutex for client map access
  - Channels coordinate goroutine communication
  - Each client has separate read/write goroutines
  - No shared mutable state between clients

Configuration:

WebSocket settings:
  - writeWait: 10 seconds (time allowed to write a frame)
  - pongWait: 60 seconds (time allowed to read a pong)
  - pingPeriod: 54 seconds (ping interval, must be < pongWait)
  - maxMessageSize: 4 KB (inbound frames are ping/pong only)

See Also:

  - github.com/gorilla/websocket: Underlying WebSocket library
  - internal/events: Bus-to-hub bridge producing the frames
  - internal/api: WebSocket endpoint handler
*/
package websocket
