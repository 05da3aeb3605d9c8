// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

/*
Package cache implements the two-tier response cache that sits between the
catalog service and TMDB.

Tiers:

  - Memory (memory.go): a byte-bounded LRU with per-entry TTL. Small and
    fast, cleared on restart. Eviction is least-recently-used once the byte
    capacity is reached; expired entries are dropped lazily on access.
  - Disk (disk.go): a Badger store where entries expire a fixed age after
    being written, regardless of access. The byte capacity is enforced by
    sweeps, which evict oldest-written entries first.

Tiered (tiered.go) composes them into the catalog's Store: lookups go
memory, then disk, then miss; disk hits are promoted into memory; writes
and deletes hit both tiers. Disk failures are logged and degrade to cache
misses so a broken disk never fails a request that the network could serve.

Keys are endpoint descriptor signatures (path plus canonical query), so the
same request always maps to the same entry and credentials never appear in
a key.

# Sweeping

Sweeper (sweeper.go) is a supervised service that runs Tiered.Sweep on a
schedule, at startup, and whenever Trigger is called. The lifecycle API
calls Trigger when the app reports it became active, so a device that slept
through several sweep intervals catches up immediately.

# Sizing

Sizes reports bytes and entries per tier and never returns negative
values. Memory occupancy is tracked incrementally; disk occupancy is the
sum of Badger's per-entry size estimates, refreshed on sweeps.
*/
package cache
