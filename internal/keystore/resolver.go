// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package keystore

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/config"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
)

// apiKeyName is the store key for the TMDB credential.
const apiKeyName = "tmdb_api_key"

// ErrNoSecureStore is returned by SetAPIKey when no secure store is
// configured, which happens when the master secret is unset.
var ErrNoSecureStore = errors.New("keystore: no secure store configured, set MOVIETRAILER_KEYSTORE_MASTER_SECRET")

// Resolver resolves the TMDB API key with a fixed precedence: the cached
// value, then the secure store, then the bundled fallback from
// configuration. Resolution never fails; when nothing is available it
// returns an empty key and the catalog client reports the missing
// credential to the user.
//
// Resolver is the catalog's credential source.
type Resolver struct {
	store    Store // nil when the secure tier is disabled
	fallback string

	mu     sync.RWMutex
	cached string
}

// Open builds the resolver from configuration. With a master secret set it
// opens the sealed Badger store at the configured path; without one the
// secure tier is disabled and only the bundled fallback serves.
func Open(cfg *config.KeystoreConfig, fallback string) (*Resolver, error) {
	if cfg.MasterSecret == "" {
		logging.Info().Msg("Secure key store disabled: no master secret configured")
		return NewResolver(nil, fallback), nil
	}

	store, err := OpenBadgerStore(cfg.Path, cfg.MasterSecret)
	if err != nil {
		return nil, err
	}
	return NewResolver(store, fallback), nil
}

// NewResolver builds a resolver over an existing store. A nil store
// disables the secure tier.
func NewResolver(store Store, fallback string) *Resolver {
	return &Resolver{store: store, fallback: fallback}
}

// Close releases the secure store if one is open.
func (r *Resolver) Close() error {
	if c, ok := r.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// APIKey returns the TMDB credential, or an empty string when none is
// configured anywhere in the chain.
func (r *Resolver) APIKey(ctx context.Context) (string, error) {
	r.mu.RLock()
	cached := r.cached
	r.mu.RUnlock()
	if cached != "" {
		return cached, nil
	}

	if r.store != nil {
		key, err := r.store.Get(ctx, apiKeyName)
		switch {
		case err == nil && key != "":
			r.mu.Lock()
			r.cached = key
			r.mu.Unlock()
			return key, nil
		case errors.Is(err, ErrNotFound):
			// Fall through to the bundled key.
		case errors.Is(err, ErrDecryptionFailed):
			logging.CtxWarn(ctx).Msg("Stored API key cannot be opened, falling back to bundled key")
		case err != nil:
			logging.CtxWarn(ctx).Err(err).Msg("Secure store read failed, falling back to bundled key")
		}
	}

	return r.fallback, nil
}

// SetAPIKey writes the credential through to the secure store and caches
// it, so the new key takes effect on the next request.
func (r *Resolver) SetAPIKey(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyValue
	}
	if r.store == nil {
		return ErrNoSecureStore
	}

	if err := r.store.Set(ctx, apiKeyName, key); err != nil {
		return err
	}

	r.mu.Lock()
	r.cached = key
	r.mu.Unlock()

	logging.CtxInfo(ctx).Str("api_key", Mask(key)).Msg("API key updated")
	return nil
}

// Invalidate clears the cached credential. The next APIKey call resolves
// from the store again.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	r.cached = ""
	r.mu.Unlock()
}
