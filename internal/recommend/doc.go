// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

/*
Package recommend turns the watchlist into a ranked recommendation list.

The engine reads the watchlist's most frequent genres, discovers candidates
for them (widened by one trending page), drops everything already
bookmarked, and scores the rest by genre overlap and vote average. Each item
carries a match percentage and a display reason naming the most-liked shared
genre. An empty watchlist falls back to trending titles scored by rating
alone.

Recomputation only happens on explicit Refresh calls. Watchlist change
events, consumed from the bus by Serve, mark the current list stale and emit
one stale notification per clean-to-stale edge; the UI decides when to
refresh. Concurrent refreshes race last-wins: starting one cancels the
in-flight one, and superseded results are discarded, never delivered.

State snapshots follow a small machine: idle until the first refresh, then
loading to success, empty, or error per cycle.
*/
package recommend
