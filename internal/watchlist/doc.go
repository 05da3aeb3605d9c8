// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

/*
Package watchlist keeps the user's bookmarked movies.

The Store is the in-memory source of truth: idempotent Add, no-op-tolerant
Remove, atomic Toggle, ClearAll, four sorted views, and the genre
aggregations (frequency, top genres, per-genre filtering) that feed the
stats endpoint and the recommendation engine. All mutations run behind a
single writer lock and publish a change event to the bus.

Durability is asynchronous. Mutations mark the store dirty; the Flusher, a
supervised service, debounces those marks and atomically rewrites one
versioned JSON document (temp file, fsync, rename). ForceSave is the
synchronous barrier for shutdown and background transitions. Persistence
never gates mutations: a failed write is logged and retried on the next
dirty mark, and a corrupt document on load is preserved under a .corrupt
suffix while the store starts empty.
*/
package watchlist
