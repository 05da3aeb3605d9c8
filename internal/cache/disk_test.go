// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// newTestDisk creates a disk tier over an in-memory Badger database.
func newTestDisk(t *testing.T, capacity int64, maxAge time.Duration) *Disk {
	t.Helper()

	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}

	d := NewDisk(db, capacity, maxAge)
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("close disk tier: %v", err)
		}
	})
	return d
}

func TestDisk_BasicOperations(t *testing.T) {
	d := newTestDisk(t, 1<<20, time.Hour)

	if err := d.Set("a", []byte("alpha")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, ok := d.Get("a"); !ok || string(got) != "alpha" {
		t.Errorf("Get(a) = %q, %t, want alpha, true", got, ok)
	}

	if _, ok := d.Get("missing"); ok {
		t.Error("Get(missing) = hit, want miss")
	}

	if err := d.Delete("a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, ok := d.Get("a"); ok {
		t.Error("deleted entry should be a miss")
	}
}

func TestDisk_DeleteMissing(t *testing.T) {
	d := newTestDisk(t, 1<<20, time.Hour)

	if err := d.Delete("never-existed"); err != nil {
		t.Errorf("Delete(missing) error = %v, want nil", err)
	}
}

func TestDisk_Overwrite(t *testing.T) {
	d := newTestDisk(t, 1<<20, time.Hour)

	if err := d.Set("a", []byte("first")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := d.Set("a", []byte("second")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if got, ok := d.Get("a"); !ok || string(got) != "second" {
		t.Errorf("Get(a) = %q, %t, want second, true", got, ok)
	}
}

func TestDisk_Stats(t *testing.T) {
	d := newTestDisk(t, 1<<20, time.Hour)

	bytes, entries := d.Stats()
	if bytes != 0 || entries != 0 {
		t.Errorf("empty Stats() = %d, %d, want 0, 0", bytes, entries)
	}

	if err := d.Set("a", []byte("alpha")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := d.Set("b", []byte("bravo")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	bytes, entries = d.Stats()
	if entries != 2 {
		t.Errorf("Stats() entries = %d, want 2", entries)
	}
	if bytes <= 0 {
		t.Errorf("Stats() bytes = %d, want positive", bytes)
	}
}

func TestDisk_SweepEnforcesCapacity(t *testing.T) {
	d := newTestDisk(t, 2048, time.Hour)

	payload := make([]byte, 300)
	for i := 0; i < 10; i++ {
		if err := d.Set(fmt.Sprintf("entry-%02d", i), payload); err != nil {
			t.Fatalf("Set() error = %v", err)
		}
	}

	before, _ := d.Stats()
	if before <= d.capacity {
		t.Fatalf("setup failed: %d bytes does not exceed the %d cap", before, d.capacity)
	}

	removed, err := d.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed == 0 {
		t.Fatal("Sweep() removed nothing over capacity")
	}

	after, _ := d.Stats()
	if after > d.capacity {
		t.Errorf("Stats() after sweep = %d bytes, want <= %d", after, d.capacity)
	}

	// Writes in the same second tie on age and evict in key order, so the
	// low-numbered entries go first
	if _, ok := d.Get("entry-00"); ok {
		t.Error("oldest entry should have been evicted")
	}
	if _, ok := d.Get("entry-09"); !ok {
		t.Error("newest entry should have survived")
	}
}

func TestDisk_SweepUnderCapacityIsNoop(t *testing.T) {
	d := newTestDisk(t, 1<<20, time.Hour)

	if err := d.Set("a", []byte("alpha")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	removed, err := d.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("Sweep() removed %d entries under capacity, want 0", removed)
	}
	if _, ok := d.Get("a"); !ok {
		t.Error("entry should survive a no-op sweep")
	}
}

func TestDisk_AgeExpiry(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping age expiry wait in short mode")
	}

	// Badger TTLs have one-second granularity
	d := newTestDisk(t, 1<<20, 2*time.Second)

	if err := d.Set("a", []byte("alpha")); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, ok := d.Get("a"); !ok {
		t.Fatal("fresh entry should be a hit")
	}

	time.Sleep(3500 * time.Millisecond)

	if _, ok := d.Get("a"); ok {
		t.Error("entry past its age should be a miss")
	}
}

func TestDisk_Defaults(t *testing.T) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	d := NewDisk(db, 0, 0)
	t.Cleanup(func() { _ = d.Close() })

	if d.capacity != defaultDiskCapacity {
		t.Errorf("capacity = %d, want %d", d.capacity, defaultDiskCapacity)
	}
	if d.maxAge != defaultDiskMaxAge {
		t.Errorf("maxAge = %v, want %v", d.maxAge, defaultDiskMaxAge)
	}
}
