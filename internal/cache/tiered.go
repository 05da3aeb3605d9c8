// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package cache

import (
	"context"
	"time"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/config"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/metrics"
)

// Tiered combines the memory and disk tiers behind the catalog's Store
// contract. Reads check memory first, then disk; a disk hit is promoted
// into memory so repeat reads stay cheap. Writes and deletes go to both
// tiers. Disk failures degrade to cache misses, never to errors.
type Tiered struct {
	memory *Memory
	disk   *Disk
}

// Open builds the two-tier cache from configuration, opening the Badger
// store at the configured disk path. The caller owns Close.
func Open(cfg *config.CacheConfig) (*Tiered, error) {
	disk, err := OpenDisk(cfg.DiskPath, cfg.DiskMaxBytes, time.Duration(cfg.DiskMaxAgeDays)*24*time.Hour)
	if err != nil {
		return nil, err
	}
	return NewTiered(NewMemory(cfg.MemoryMaxBytes, cfg.MemoryTTL), disk), nil
}

// NewTiered combines an existing memory and disk tier.
func NewTiered(memory *Memory, disk *Disk) *Tiered {
	return &Tiered{memory: memory, disk: disk}
}

// Close releases the disk tier.
func (t *Tiered) Close() error {
	return t.disk.Close()
}

// Get returns the cached payload for key, consulting memory before disk.
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool) {
	if data, ok := t.memory.Get(key); ok {
		return data, true
	}

	data, ok := t.disk.Get(key)
	if !ok {
		return nil, false
	}

	// Promote so the next read skips disk. Memory applies its own TTL.
	t.memory.Set(key, data)
	metrics.CachePromotions.Inc()
	return data, true
}

// Set writes the payload through both tiers. A disk write failure is
// logged and absorbed; the memory tier still serves the entry.
func (t *Tiered) Set(ctx context.Context, key string, data []byte) {
	t.memory.Set(key, data)
	if err := t.disk.Set(key, data); err != nil {
		logging.CtxWarn(ctx).Err(err).Str("key", key).Msg("Disk cache write failed")
	}
}

// Delete removes the entry from both tiers.
func (t *Tiered) Delete(ctx context.Context, key string) {
	t.memory.Delete(key)
	if err := t.disk.Delete(key); err != nil {
		logging.CtxWarn(ctx).Err(err).Str("key", key).Msg("Disk cache delete failed")
	}
}

// Clear drops every entry from both tiers.
func (t *Tiered) Clear(ctx context.Context) {
	t.memory.Clear()

	entries, _, err := t.disk.scan()
	if err != nil {
		logging.CtxWarn(ctx).Err(err).Msg("Disk cache clear scan failed")
		return
	}
	wb := t.disk.db.NewWriteBatch()
	defer wb.Cancel()
	for _, entry := range entries {
		if err := wb.Delete(entry.key); err != nil {
			logging.CtxWarn(ctx).Err(err).Msg("Disk cache clear failed")
			return
		}
	}
	if err := wb.Flush(); err != nil {
		logging.CtxWarn(ctx).Err(err).Msg("Disk cache clear failed")
	}
}

// Sizes reports occupancy per tier for diagnostics. Values are never
// negative.
type Sizes struct {
	MemoryBytes   int64 `json:"memory_bytes"`
	MemoryEntries int   `json:"memory_entries"`
	DiskBytes     int64 `json:"disk_bytes"`
	DiskEntries   int   `json:"disk_entries"`
}

// Sizes returns current occupancy for both tiers and refreshes the
// occupancy gauges.
func (t *Tiered) Sizes() Sizes {
	diskBytes, diskEntries := t.disk.Stats()
	s := Sizes{
		MemoryBytes:   t.memory.SizeBytes(),
		MemoryEntries: t.memory.Len(),
		DiskBytes:     diskBytes,
		DiskEntries:   diskEntries,
	}
	metrics.UpdateCacheOccupancy("memory", s.MemoryBytes, s.MemoryEntries)
	metrics.UpdateCacheOccupancy("disk", s.DiskBytes, s.DiskEntries)
	return s
}

// Sweep removes expired memory entries and enforces the disk capacity,
// then refreshes the occupancy gauges. Returns the total entries removed.
func (t *Tiered) Sweep(ctx context.Context) (int, error) {
	start := time.Now()

	removed := t.memory.RemoveExpired()
	diskRemoved, err := t.disk.Sweep(ctx)
	removed += diskRemoved

	t.Sizes()
	metrics.RecordCacheSweep(time.Since(start), removed)

	if err != nil {
		return removed, err
	}
	logging.CtxDebug(ctx).Int("removed", removed).Dur("elapsed", time.Since(start)).Msg("Cache sweep complete")
	return removed, nil
}
