// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

/*
Package keystore holds the TMDB API credential and resolves it for the
catalog client.

Resolution precedence is fixed: the in-memory cached value, then the secure
store, then the bundled fallback key from configuration. SetAPIKey writes
through the secure store and refreshes the cache; Invalidate drops the
cache so the next request re-resolves.

The secure store is a Badger database holding sealed values. Sealing is
AES-256-GCM with a fresh random nonce per value; the key is derived from
the configured master secret via HKDF-SHA256 with an application-specific
salt and a versioned purpose string, so no raw secret and no raw credential
ever touches disk. A value that fails to open (wrong secret, tampering)
reports ErrDecryptionFailed and resolution falls back to the bundled key.

Without a master secret the secure tier is disabled: APIKey serves the
bundled key and SetAPIKey returns ErrNoSecureStore.
*/
package keystore
