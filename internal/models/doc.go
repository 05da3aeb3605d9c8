// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

// Package models defines the shared data types of the service: catalog
// items and paged listings in the TMDB v3 wire format, auxiliary detail
// payloads (videos, watch providers, genres), watchlist entries and change
// events, and the HTTP response envelope.
//
// Types here are plain data with small convenience methods; behavior lives
// in the packages that own it (catalog, cache, watchlist, recommend).
package models
