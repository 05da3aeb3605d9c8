// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package cache

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/metrics"
)

const (
	defaultDiskCapacity = 64 << 20
	defaultDiskMaxAge   = 7 * 24 * time.Hour

	// Key prefix for cached responses in BadgerDB
	diskKeyPrefix = "response:"
)

// Disk is the durable tier: a Badger store where every entry carries a TTL,
// so entries expire a fixed age after being written regardless of access.
// The byte capacity is enforced by Sweep, which evicts oldest-written
// entries first.
type Disk struct {
	db       *badger.DB
	capacity int64
	maxAge   time.Duration
}

// OpenDisk opens the Badger database at path and wraps it as the disk tier.
// The caller owns Close.
func OpenDisk(path string, capacity int64, maxAge time.Duration) (*Disk, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return NewDisk(db, capacity, maxAge), nil
}

// NewDisk wraps an already-open Badger database as the disk tier.
// Non-positive capacity or age fall back to the defaults (64 MiB, 7 days).
func NewDisk(db *badger.DB, capacity int64, maxAge time.Duration) *Disk {
	if capacity <= 0 {
		capacity = defaultDiskCapacity
	}
	if maxAge <= 0 {
		maxAge = defaultDiskMaxAge
	}
	return &Disk{db: db, capacity: capacity, maxAge: maxAge}
}

// Close closes the underlying database.
func (d *Disk) Close() error {
	return d.db.Close()
}

func makeDiskKey(key string) []byte {
	return append([]byte(diskKeyPrefix), key...)
}

// Get returns the payload for key. Expired entries are invisible and report
// as misses.
func (d *Disk) Get(key string) ([]byte, bool) {
	var value []byte

	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(makeDiskKey(key))
		if err != nil {
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("key", key).Msg("Disk cache read failed")
		}
		metrics.RecordCacheMiss("disk")
		return nil, false
	}

	metrics.RecordCacheHit("disk")
	return value, true
}

// Set stores the payload for key with the tier's age expiry.
func (d *Disk) Set(key string, value []byte) error {
	return d.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(makeDiskKey(key), value).WithTTL(d.maxAge)
		return txn.SetEntry(e)
	})
}

// Delete removes the entry for key. Deleting a missing key is a no-op.
func (d *Disk) Delete(key string) error {
	err := d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(makeDiskKey(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

// diskEntry is sweep bookkeeping for one stored response.
type diskEntry struct {
	key       []byte
	expiresAt uint64
	size      int64
}

// scan walks the response keyspace without touching values and returns
// per-entry metadata plus the total logical size.
func (d *Disk) scan() ([]diskEntry, int64, error) {
	var entries []diskEntry
	var total int64

	err := d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(diskKeyPrefix)
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := make([]byte, len(item.Key()))
			copy(key, item.Key())

			size := item.EstimatedSize()
			entries = append(entries, diskEntry{key: key, expiresAt: item.ExpiresAt(), size: size})
			total += size
		}
		return nil
	})
	return entries, total, err
}

// Stats returns the tier's logical size in bytes and its entry count.
// Never negative.
func (d *Disk) Stats() (int64, int) {
	entries, total, err := d.scan()
	if err != nil {
		logging.Warn().Err(err).Msg("Disk cache scan failed")
		return 0, 0
	}
	if total < 0 {
		total = 0
	}
	return total, len(entries)
}

// Sweep enforces the byte capacity by evicting oldest-written entries first
// and then compacts the value log. Entries written in the same second tie on
// age and are evicted in key order. Returns the number of entries removed.
func (d *Disk) Sweep(ctx context.Context) (int, error) {
	entries, total, err := d.scan()
	if err != nil {
		return 0, err
	}

	removed := 0
	if total > d.capacity {
		// Badger TTLs are write time plus a fixed age, so the smallest
		// expiry is the oldest write.
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].expiresAt != entries[j].expiresAt {
				return entries[i].expiresAt < entries[j].expiresAt
			}
			return bytes.Compare(entries[i].key, entries[j].key) < 0
		})

		wb := d.db.NewWriteBatch()
		defer wb.Cancel()

		for _, entry := range entries {
			if total <= d.capacity {
				break
			}
			if err := ctx.Err(); err != nil {
				return removed, err
			}
			if err := wb.Delete(entry.key); err != nil {
				return removed, err
			}
			total -= entry.size
			removed++
			metrics.RecordCacheEviction("disk", "capacity")
		}
		if err := wb.Flush(); err != nil {
			return removed, err
		}
	}

	// Reclaim space from deleted and expired values. ErrNoRewrite just means
	// there was nothing worth rewriting.
	if err := d.db.RunValueLogGC(0.5); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		logging.Debug().Err(err).Msg("Badger value log GC skipped")
	}

	return removed, nil
}
