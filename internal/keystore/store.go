// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package keystore

import (
	"context"
	"errors"

	"github.com/dgraph-io/badger/v4"
)

// ErrNotFound is returned when no value is stored under a key.
var ErrNotFound = errors.New("keystore: value not found")

// Store is a secure key-value store for credentials. Values are sealed at
// rest; a Get on a value that cannot be opened returns ErrDecryptionFailed
// so callers can prompt for re-provisioning instead of using garbage.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Key prefix for sealed credentials in BadgerDB
const secretKeyPrefix = "secret:"

// BadgerStore is the durable Store: sealed values in a Badger database.
// It is the keychain stand-in on platforms without one.
type BadgerStore struct {
	db     *badger.DB
	sealer *sealer
}

// OpenBadgerStore opens the Badger database at path and seals values with a
// key derived from masterSecret. The caller owns Close.
func OpenBadgerStore(path, masterSecret string) (*BadgerStore, error) {
	s, err := newSealer(masterSecret)
	if err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db, sealer: s}, nil
}

// NewBadgerStore wraps an already-open Badger database.
func NewBadgerStore(db *badger.DB, masterSecret string) (*BadgerStore, error) {
	s, err := newSealer(masterSecret)
	if err != nil {
		return nil, err
	}
	return &BadgerStore{db: db, sealer: s}, nil
}

// Close closes the underlying database.
func (b *BadgerStore) Close() error {
	return b.db.Close()
}

func makeSecretKey(key string) []byte {
	return append([]byte(secretKeyPrefix), key...)
}

// Get returns the opened value for key.
func (b *BadgerStore) Get(_ context.Context, key string) (string, error) {
	var sealed []byte

	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeSecretKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		sealed, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return "", err
	}

	return b.sealer.Open(string(sealed))
}

// Set seals value and stores it under key.
func (b *BadgerStore) Set(_ context.Context, key, value string) error {
	sealed, err := b.sealer.Seal(value)
	if err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(makeSecretKey(key), []byte(sealed))
	})
}

// Delete removes the value under key. Deleting a missing key is a no-op.
func (b *BadgerStore) Delete(_ context.Context, key string) error {
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(makeSecretKey(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}
