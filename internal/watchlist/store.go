// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package watchlist

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/metrics"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

// statsTopGenres is how many leading genres the stats view reports.
const statsTopGenres = 3

// Notifier receives a notification after every successful mutation. A nil
// Notifier disables notifications; mutations otherwise behave the same.
type Notifier interface {
	PublishWatchlistChange(ctx context.Context, ev *models.WatchlistEvent) error
}

// Store is the in-memory watchlist and the source of truth for bookmarks.
// All mutations go through one writer lock, so concurrent readers never
// observe a partial mutation. Durability is the Flusher's job: mutations
// mark the store dirty and return without touching the filesystem.
//
// Returned entries are value copies; their genre slices are shared and
// treated as read-only.
type Store struct {
	mu      sync.RWMutex
	entries []models.WatchlistEntry
	index   map[int]int

	notify Notifier
	dirty  chan struct{}
	now    func() time.Time
}

// NewStore creates an empty store. Mutations publish through notify when it
// is non-nil.
func NewStore(notify Notifier) *Store {
	return &Store{
		index:  make(map[int]int),
		notify: notify,
		dirty:  make(chan struct{}, 1),
		now:    time.Now,
	}
}

// restore replaces the store contents with entries loaded from disk.
// Duplicate IDs keep the first occurrence. No events fire and the store
// stays clean; the document already reflects this state.
func (s *Store) restore(entries []models.WatchlistEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = make([]models.WatchlistEntry, 0, len(entries))
	s.index = make(map[int]int, len(entries))
	for _, e := range entries {
		if e.ID <= 0 {
			continue
		}
		if _, ok := s.index[e.ID]; ok {
			continue
		}
		s.index[e.ID] = len(s.entries)
		s.entries = append(s.entries, e)
	}
	metrics.WatchlistSize.Set(float64(len(s.entries)))
}

// Add bookmarks a movie. It reports whether the movie was added; adding an
// existing bookmark or a movie without a valid ID is a no-op returning
// false, with no event and no dirty mark.
func (s *Store) Add(ctx context.Context, movie models.Movie) bool {
	s.mu.Lock()
	entry, added := s.add(movie)
	size := len(s.entries)
	s.mu.Unlock()

	if !added {
		return false
	}
	s.afterMutation(ctx, models.WatchlistAdded, entry.ID, entry.Title, size)
	return true
}

// Remove drops a bookmark by movie ID. Removing an absent ID is a no-op
// returning false.
func (s *Store) Remove(ctx context.Context, id int) bool {
	s.mu.Lock()
	entry, removed := s.remove(id)
	size := len(s.entries)
	s.mu.Unlock()

	if !removed {
		return false
	}
	s.afterMutation(ctx, models.WatchlistRemoved, entry.ID, entry.Title, size)
	return true
}

// Toggle adds the movie when absent and removes it when present, in one
// locked step. It reports whether the movie is bookmarked after the call.
func (s *Store) Toggle(ctx context.Context, movie models.Movie) bool {
	s.mu.Lock()
	if _, ok := s.index[movie.ID]; ok {
		entry, _ := s.remove(movie.ID)
		size := len(s.entries)
		s.mu.Unlock()
		s.afterMutation(ctx, models.WatchlistRemoved, entry.ID, entry.Title, size)
		return false
	}
	entry, added := s.add(movie)
	size := len(s.entries)
	s.mu.Unlock()

	if !added {
		return false
	}
	s.afterMutation(ctx, models.WatchlistAdded, entry.ID, entry.Title, size)
	return true
}

// ClearAll removes every bookmark and returns how many were removed.
// Clearing an empty store is a no-op.
func (s *Store) ClearAll(ctx context.Context) int {
	s.mu.Lock()
	removed := len(s.entries)
	if removed == 0 {
		s.mu.Unlock()
		return 0
	}
	s.entries = nil
	s.index = make(map[int]int)
	s.mu.Unlock()

	s.afterMutation(ctx, models.WatchlistCleared, 0, "", 0)
	return removed
}

// Contains reports whether the movie ID is bookmarked.
func (s *Store) Contains(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Len returns the number of bookmarks.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sorted returns the entries ordered by the given sort. Rating sorts
// descending, title ascending, release date newest first with undated
// entries last; every order breaks ties by insertion so repeat calls agree.
// Anything else, including the default, is insertion order.
func (s *Store) Sorted(by models.SortOrder) []models.WatchlistEntry {
	out := s.Snapshot()

	switch by {
	case models.SortByRating:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].VoteAverage > out[j].VoteAverage
		})
	case models.SortByTitle:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Title < out[j].Title
		})
	case models.SortByReleaseDate:
		sort.SliceStable(out, func(i, j int) bool {
			ri, iok := out[i].Released()
			rj, jok := out[j].Released()
			if iok != jok {
				return iok
			}
			if !iok {
				return false
			}
			return ri.After(rj)
		})
	}
	return out
}

// Snapshot returns the entries in insertion order. The Flusher persists
// exactly this view.
func (s *Store) Snapshot() []models.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.WatchlistEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// GenreFrequency counts how many bookmarks carry each genre, ordered by
// count descending with ties broken by ascending genre ID.
func (s *Store) GenreFrequency() []models.GenreCount {
	s.mu.RLock()
	counts := s.countGenresLocked()
	s.mu.RUnlock()
	return sortFrequency(counts)
}

// TopGenres returns up to limit genre IDs in GenreFrequency order. The
// recommendation engine seeds discovery from this list.
func (s *Store) TopGenres(limit int) []int {
	if limit <= 0 {
		return []int{}
	}
	freq := s.GenreFrequency()
	if limit > len(freq) {
		limit = len(freq)
	}
	out := make([]int, 0, limit)
	for _, gc := range freq[:limit] {
		out = append(out, gc.GenreID)
	}
	return out
}

// ItemsFor returns the bookmarks carrying the genre, in insertion order.
func (s *Store) ItemsFor(genreID int) []models.WatchlistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.WatchlistEntry, 0)
	for _, e := range s.entries {
		for _, g := range e.GenreIDs {
			if g == genreID {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// Stats returns the aggregate view: bookmark count, full genre frequency,
// and the leading genres.
func (s *Store) Stats() models.WatchlistStats {
	s.mu.RLock()
	count := len(s.entries)
	counts := s.countGenresLocked()
	s.mu.RUnlock()

	freq := sortFrequency(counts)
	top := statsTopGenres
	if top > len(freq) {
		top = len(freq)
	}
	genres := make([]int, 0, top)
	for _, gc := range freq[:top] {
		genres = append(genres, gc.GenreID)
	}
	return models.WatchlistStats{Count: count, Frequency: freq, TopGenres: genres}
}

// Dirty exposes the dirty signal consumed by the Flusher. The channel
// carries at most one pending mark; bursts coalesce.
func (s *Store) Dirty() <-chan struct{} {
	return s.dirty
}

func (s *Store) add(movie models.Movie) (models.WatchlistEntry, bool) {
	if movie.ID <= 0 {
		return models.WatchlistEntry{}, false
	}
	if _, ok := s.index[movie.ID]; ok {
		return models.WatchlistEntry{}, false
	}
	entry := models.NewWatchlistEntry(movie, s.now())
	s.index[movie.ID] = len(s.entries)
	s.entries = append(s.entries, entry)
	return entry, true
}

func (s *Store) remove(id int) (models.WatchlistEntry, bool) {
	pos, ok := s.index[id]
	if !ok {
		return models.WatchlistEntry{}, false
	}
	entry := s.entries[pos]
	s.entries = append(s.entries[:pos], s.entries[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.entries); i++ {
		s.index[s.entries[i].ID] = i
	}
	return entry, true
}

// afterMutation runs outside the store lock: it updates metrics, marks the
// store dirty, and publishes the change event. Publish failures are logged
// and dropped; the mutation itself already succeeded.
func (s *Store) afterMutation(ctx context.Context, op models.WatchlistOp, id int, title string, size int) {
	metrics.RecordWatchlistMutation(string(op), size)
	s.markDirty()

	if s.notify == nil {
		return
	}
	ev := &models.WatchlistEvent{
		Op:      op,
		MovieID: id,
		Title:   title,
		Count:   size,
		At:      s.now().UTC(),
	}
	if err := s.notify.PublishWatchlistChange(ctx, ev); err != nil {
		logging.CtxWarn(ctx).Err(err).Str("op", string(op)).Msg("Watchlist event publish failed")
	}
}

func (s *Store) markDirty() {
	select {
	case s.dirty <- struct{}{}:
	default:
	}
}

func (s *Store) countGenresLocked() map[int]int {
	counts := make(map[int]int)
	for _, e := range s.entries {
		for _, g := range e.GenreIDs {
			counts[g]++
		}
	}
	return counts
}

func sortFrequency(counts map[int]int) []models.GenreCount {
	out := make([]models.GenreCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, models.GenreCount{GenreID: id, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].GenreID < out[j].GenreID
	})
	return out
}
