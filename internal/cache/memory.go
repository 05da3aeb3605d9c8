// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package cache

import (
	"sync"
	"time"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/metrics"
)

const (
	defaultMemoryCapacity = 4 << 20
	defaultMemoryTTL      = 15 * time.Minute
)

// memoryEntry is a node in the LRU list. An entry costs len(key)+len(value)
// bytes against the tier capacity.
type memoryEntry struct {
	key       string
	value     []byte
	prev      *memoryEntry
	next      *memoryEntry
	expiresAt time.Time
}

func (e *memoryEntry) cost() int64 {
	return int64(len(e.key) + len(e.value))
}

// Memory is the volatile tier: a thread-safe LRU bounded by total bytes
// rather than entry count, with per-entry TTL. Expired entries are misses
// and are dropped lazily on access or by RemoveExpired.
//
// A doubly-linked list with sentinel head/tail keeps recency order, a map
// gives O(1) lookup. head.next is the most recently used entry.
//
// Stored and returned slices are shared, not copied. Callers decode
// payloads immediately and must not modify them.
type Memory struct {
	mu       sync.Mutex
	capacity int64
	ttl      time.Duration
	size     int64
	items    map[string]*memoryEntry
	head     *memoryEntry
	tail     *memoryEntry
}

// NewMemory creates the memory tier. Non-positive capacity or TTL fall back
// to the defaults (4 MiB, 15 minutes).
func NewMemory(capacity int64, ttl time.Duration) *Memory {
	if capacity <= 0 {
		capacity = defaultMemoryCapacity
	}
	if ttl <= 0 {
		ttl = defaultMemoryTTL
	}

	m := &Memory{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*memoryEntry),
		head:     &memoryEntry{},
		tail:     &memoryEntry{},
	}
	m.head.next = m.tail
	m.tail.prev = m.head
	return m
}

// Get returns the payload for key and refreshes its recency. An expired
// entry is removed and reported as a miss.
func (m *Memory) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.items[key]
	if !ok {
		metrics.RecordCacheMiss("memory")
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		m.removeEntry(entry)
		metrics.RecordCacheEviction("memory", "expired")
		metrics.RecordCacheMiss("memory")
		m.publishOccupancy()
		return nil, false
	}

	m.moveToFront(entry)
	metrics.RecordCacheHit("memory")
	return entry.value, true
}

// Set stores or replaces the payload for key, evicting least recently used
// entries until the tier fits its capacity. A value too large to ever fit
// is not stored.
func (m *Memory) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if int64(len(key)+len(value)) > m.capacity {
		return
	}

	expiresAt := time.Now().Add(m.ttl)

	if entry, ok := m.items[key]; ok {
		m.size += int64(len(value)) - int64(len(entry.value))
		entry.value = value
		entry.expiresAt = expiresAt
		m.moveToFront(entry)
		m.evictOverCapacity()
		m.publishOccupancy()
		return
	}

	entry := &memoryEntry{key: key, value: value, expiresAt: expiresAt}
	m.addToFront(entry)
	m.items[key] = entry
	m.size += entry.cost()

	m.evictOverCapacity()
	m.publishOccupancy()
}

// Delete removes the entry for key if present.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.items[key]; ok {
		m.removeEntry(entry)
		m.publishOccupancy()
	}
}

// Len returns the number of live entries.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// SizeBytes returns the bytes currently held. Never negative.
func (m *Memory) SizeBytes() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.size < 0 {
		return 0
	}
	return m.size
}

// Clear drops every entry.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]*memoryEntry)
	m.head.next = m.tail
	m.tail.prev = m.head
	m.size = 0
	m.publishOccupancy()
}

// RemoveExpired drops every expired entry and returns how many were removed.
// Walks from the least recently used end.
func (m *Memory) RemoveExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	removed := 0
	for entry := m.tail.prev; entry != m.head; {
		prev := entry.prev
		if now.After(entry.expiresAt) {
			m.removeEntry(entry)
			metrics.RecordCacheEviction("memory", "expired")
			removed++
		}
		entry = prev
	}

	if removed > 0 {
		m.publishOccupancy()
	}
	return removed
}

// Internal methods, called with the lock held.

func (m *Memory) addToFront(entry *memoryEntry) {
	entry.prev = m.head
	entry.next = m.head.next
	m.head.next.prev = entry
	m.head.next = entry
}

func (m *Memory) moveToFront(entry *memoryEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	m.addToFront(entry)
}

func (m *Memory) removeEntry(entry *memoryEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(m.items, entry.key)
	m.size -= entry.cost()
	if m.size < 0 {
		m.size = 0
	}
}

func (m *Memory) evictOverCapacity() {
	for m.size > m.capacity {
		oldest := m.tail.prev
		if oldest == m.head {
			return
		}
		m.removeEntry(oldest)
		metrics.RecordCacheEviction("memory", "capacity")
	}
}

func (m *Memory) publishOccupancy() {
	size := m.size
	if size < 0 {
		size = 0
	}
	metrics.UpdateCacheOccupancy("memory", size, len(m.items))
}
