// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package models

import "time"

// WatchlistOp identifies the mutation a change notification describes.
type WatchlistOp string

const (
	WatchlistAdded   WatchlistOp = "added"
	WatchlistRemoved WatchlistOp = "removed"
	WatchlistCleared WatchlistOp = "cleared"
)

// WatchlistEvent is published on the event bus after every successful
// watchlist mutation so dependent consumers (the WebSocket feed, the
// recommendation engine, UI counts) refresh without polling.
//
// MovieID and Title are zero for the cleared operation; Count is always the
// store size after the mutation.
type WatchlistEvent struct {
	Op      WatchlistOp `json:"op"`
	MovieID int         `json:"movie_id,omitempty"`
	Title   string      `json:"title,omitempty"`
	Count   int         `json:"count"`
	At      time.Time   `json:"at"`
}

// RecommendationsStaleEvent signals that the current recommendation set no
// longer reflects the watchlist. Consumers surface a refresh affordance; the
// engine itself recomputes only on the next explicit refresh.
type RecommendationsStaleEvent struct {
	Reason string    `json:"reason"`
	At     time.Time `json:"at"`
}
