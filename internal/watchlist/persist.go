// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package watchlist

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/config"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/metrics"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

const (
	documentVersion      = 1
	defaultFlushDebounce = 2 * time.Second

	// corruptSuffix marks an unreadable document preserved for inspection.
	corruptSuffix = ".corrupt"
)

// document is the durable watchlist file: a versioned envelope around the
// entries in insertion order.
type document struct {
	Version int                     `json:"version"`
	SavedAt time.Time               `json:"saved_at"`
	Entries []models.WatchlistEntry `json:"entries"`
}

// Open loads the watchlist document and returns the populated store with
// its flusher. A missing document starts empty; a corrupt one is preserved
// under the .corrupt suffix and the store starts empty. Any other read
// failure aborts startup.
func Open(cfg *config.WatchlistConfig, notify Notifier) (*Store, *Flusher, error) {
	entries, err := loadDocument(cfg.Path)
	if err != nil {
		return nil, nil, err
	}

	store := NewStore(notify)
	store.restore(entries)
	logging.Info().Str("path", cfg.Path).Int("entries", store.Len()).Msg("Watchlist loaded")

	return store, NewFlusher(store, cfg.Path, cfg.FlushDebounce), nil
}

// loadDocument reads the entries from the document at path.
func loadDocument(path string) ([]models.WatchlistEntry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read watchlist document: %w", err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		preserveCorrupt(path, err)
		return nil, nil
	}
	return doc.Entries, nil
}

// preserveCorrupt moves an unreadable document aside so the bookmarks can
// be recovered by hand. A second corruption overwrites the first preserved
// copy; the newest evidence wins.
func preserveCorrupt(path string, cause error) {
	preserved := path + corruptSuffix
	if err := os.Rename(path, preserved); err != nil {
		logging.Err(cause).Str("path", path).AnErr("rename_error", err).
			Msg("Watchlist document corrupt and could not be preserved")
		return
	}
	logging.Err(cause).Str("path", path).Str("preserved", preserved).
		Msg("Watchlist document corrupt, starting empty")
}

// writeDocument atomically replaces the document at path: the payload goes
// to a temp file in the same directory, is fsynced, then renamed over the
// target. Readers never observe a partial document.
func writeDocument(path string, entries []models.WatchlistEntry) error {
	doc := document{Version: documentVersion, SavedAt: time.Now().UTC(), Entries: entries}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal watchlist document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create watchlist dir: %w", err)
	}

	tmp := path + ".tmp"
	file, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("open temp document: %w", err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write temp document: %w", err)
	}
	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync temp document: %w", err)
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close temp document: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// Flusher persists the store to its JSON document. It implements
// suture.Service: the loop debounces dirty marks so a burst of mutations
// becomes one write, and a final write runs at shutdown. Mutations never
// wait on the filesystem; on write failure memory remains the source of
// truth and the next mutation schedules another attempt.
type Flusher struct {
	store    *Store
	path     string
	debounce time.Duration

	// saveMu serializes document writes between the service loop and
	// ForceSave callers.
	saveMu sync.Mutex
}

// NewFlusher creates a flusher for the store. A non-positive debounce
// falls back to the default (2s).
func NewFlusher(store *Store, path string, debounce time.Duration) *Flusher {
	if debounce <= 0 {
		debounce = defaultFlushDebounce
	}
	return &Flusher{store: store, path: path, debounce: debounce}
}

// Serve implements suture.Service. The first dirty mark arms the debounce
// window; marks landing inside the window coalesce into the same write.
func (f *Flusher) Serve(ctx context.Context) error {
	logging.Info().Str("path", f.path).Dur("debounce", f.debounce).Msg("Watchlist flusher started")

	timer := time.NewTimer(f.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	armed := false

	for {
		select {
		case <-ctx.Done():
			_ = f.flush()
			logging.Info().Msg("Watchlist flusher stopped")
			return ctx.Err()
		case <-f.store.Dirty():
			if !armed {
				timer.Reset(f.debounce)
				armed = true
			}
		case <-timer.C:
			armed = false
			_ = f.flush()
		}
	}
}

// ForceSave writes the current snapshot synchronously, regardless of
// debounce state. When it returns nil, every mutation made before the call
// is durable. Safe to call whether or not Serve is running.
func (f *Flusher) ForceSave(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return f.flush()
}

// flush snapshots the store and replaces the document. Failures are logged
// and recorded; the caller decides whether they matter.
func (f *Flusher) flush() error {
	f.saveMu.Lock()
	defer f.saveMu.Unlock()

	start := time.Now()
	entries := f.store.Snapshot()
	err := writeDocument(f.path, entries)
	metrics.RecordWatchlistSave(time.Since(start), err)
	if err != nil {
		logging.Warn().Err(err).Str("path", f.path).Msg("Watchlist save failed")
		return err
	}
	logging.Debug().Int("entries", len(entries)).Msg("Watchlist saved")
	return nil
}

// String implements fmt.Stringer for supervisor logging.
func (f *Flusher) String() string {
	return "watchlist-flusher"
}
