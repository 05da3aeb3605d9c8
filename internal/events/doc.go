// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

/*
Package events carries change notifications between the data layer and its
consumers over an in-process Watermill Pub/Sub.

The Bus publishes two kinds of messages:

  - watchlist.changed: one models.WatchlistEvent per successful watchlist
    mutation, so the WebSocket feed and the recommendation engine react
    without polling the store.
  - recommendations.stale: a models.RecommendationsStaleEvent emitted when
    the recommendation engine decides its current results no longer reflect
    the watchlist.

Delivery is at-most-once and scoped to subscribers present at publish time;
all consumers subscribe during startup, before any mutation can occur.
Delivery to each subscriber is ack-gated, one message at a time: a message
left unacked stalls that subscriber's queue, so consumers ack on receipt.

The Bridge is the fan-out endpoint for the UI: a supervised loop that
subscribes to both topics and forwards each payload to the WebSocket hub
wrapped in a typed frame.
*/
package events
