// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/config"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/events"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/metrics"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

// Fallbacks for zero config values, matching the documented config defaults.
const (
	defaultTopGenres      = 3
	defaultCandidatePages = 2
	defaultMaxResults     = 20
)

// Refresh outcome labels for metrics.
const (
	outcomeSuccess    = "success"
	outcomeEmpty      = "empty"
	outcomeError      = "error"
	outcomeSuperseded = "superseded"
)

// Catalog is the slice of the catalog service the engine reads. Implemented
// by catalog.Service.
type Catalog interface {
	DiscoverByGenres(ctx context.Context, genreIDs []int, page int) (*models.MoviePage, error)
	Trending(ctx context.Context, page int) (*models.MoviePage, error)
	GenreNames(ctx context.Context) (map[int]string, error)
}

// Watchlist is the slice of the watchlist store the engine reads. Implemented
// by watchlist.Store.
type Watchlist interface {
	TopGenres(limit int) []int
	Snapshot() []models.WatchlistEntry
}

// Engine computes genre-preference recommendations from the watchlist. It
// recomputes only on explicit Refresh calls; watchlist change events merely
// flag the current list stale. Concurrent refreshes race last-wins: starting
// one cancels the in-flight one, and a superseded refresh never delivers.
type Engine struct {
	catalog   Catalog
	watchlist Watchlist
	bus       *events.Bus
	cfg       config.RecommendConfig
	logger    zerolog.Logger

	running     chan struct{}
	runningOnce sync.Once

	mu        sync.Mutex
	cancel    context.CancelFunc
	seq       uint64
	changeGen uint64
	state     State
}

// NewEngine wires the engine over the catalog, the watchlist, and the event
// bus. Zero config values fall back to the documented defaults so a partial
// config cannot produce a degenerate engine.
func NewEngine(catalog Catalog, watchlist Watchlist, bus *events.Bus, cfg config.RecommendConfig) (*Engine, error) {
	if catalog == nil {
		return nil, errors.New("recommend: nil catalog")
	}
	if watchlist == nil {
		return nil, errors.New("recommend: nil watchlist")
	}
	if bus == nil {
		return nil, errors.New("recommend: nil bus")
	}
	if cfg.TopGenres <= 0 {
		cfg.TopGenres = defaultTopGenres
	}
	if cfg.CandidatePages <= 0 {
		cfg.CandidatePages = defaultCandidatePages
	}
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = defaultMaxResults
	}

	return &Engine{
		catalog:   catalog,
		watchlist: watchlist,
		bus:       bus,
		cfg:       cfg,
		logger:    logging.WithComponent("recommend"),
		running:   make(chan struct{}),
		state:     State{Phase: PhaseIdle, Items: []Recommendation{}},
	}, nil
}

// State returns a copy of the current snapshot.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Refresh recomputes the recommendation list and returns the resulting
// snapshot. The bool reports whether this call was still the current one when
// it finished: a refresh superseded by a newer one returns (State{}, false)
// and its results are discarded. Failures land in the snapshot as PhaseError
// rather than in a return value, because the state machine owns them.
func (e *Engine) Refresh(ctx context.Context) (State, bool) {
	start := time.Now()
	ctx, cancel, seq, gen := e.beginRefresh(ctx)
	defer cancel()

	recs, candidates, err := e.compute(ctx)
	return e.finishRefresh(seq, gen, start, recs, candidates, err)
}

// beginRefresh cancels the in-flight refresh, claims the next sequence
// number, and moves the machine to loading. The previous items stay in place
// until a terminal phase replaces them.
func (e *Engine) beginRefresh(ctx context.Context) (context.Context, context.CancelFunc, uint64, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cancel != nil {
		e.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.seq++
	e.state.Phase = PhaseLoading
	e.state.Error = ""
	return ctx, cancel, e.seq, e.changeGen
}

// finishRefresh applies a completed computation to the state machine if the
// refresh is still current. Stale is recomputed against the change counter so
// a watchlist edit racing the computation is never lost.
func (e *Engine) finishRefresh(seq, gen uint64, start time.Time, recs []Recommendation, candidates int, err error) (State, bool) {
	elapsed := time.Since(start)

	e.mu.Lock()
	defer e.mu.Unlock()

	if seq != e.seq || errors.Is(err, context.Canceled) {
		metrics.RecordRecommendRefresh(outcomeSuperseded, elapsed, candidates)
		return State{}, false
	}
	e.cancel = nil

	e.state.Stale = gen != e.changeGen
	e.state.RefreshedAt = time.Now().UTC()

	var outcome string
	switch {
	case err != nil:
		outcome = outcomeError
		e.state.Phase = PhaseError
		e.state.Error = err.Error()
		e.state.Items = []Recommendation{}
		e.logger.Warn().Err(err).Dur("duration", elapsed).Msg("Recommendation refresh failed")
	case len(recs) == 0:
		outcome = outcomeEmpty
		e.state.Phase = PhaseEmpty
		e.state.Items = []Recommendation{}
		e.logger.Info().Int("candidates", candidates).Dur("duration", elapsed).Msg("Recommendation refresh found no matches")
	default:
		outcome = outcomeSuccess
		e.state.Phase = PhaseSuccess
		e.state.Items = recs
		e.logger.Info().Int("items", len(recs)).Int("candidates", candidates).Dur("duration", elapsed).Msg("Recommendations refreshed")
	}

	metrics.RecordRecommendRefresh(outcome, elapsed, candidates)
	return e.snapshotLocked(), true
}

// compute runs the pipeline: read the taste profile, gather candidate pages,
// dedupe, score, rank, cap, and attach display reasons. The returned count is
// the deduped pool size, recorded as candidates considered.
func (e *Engine) compute(ctx context.Context) ([]Recommendation, int, error) {
	profile, exclude := e.profile()
	if len(profile) == 0 {
		return e.computeTrending(ctx, exclude)
	}

	candidates, err := e.gatherCandidates(ctx, profile)
	if err != nil {
		return nil, 0, err
	}
	pool := dedupe(candidates, exclude)

	recs := make([]Recommendation, 0, len(pool))
	for _, m := range pool {
		match, dominant := matchScore(profile, m)
		if match < e.cfg.MinMatchScore {
			continue
		}
		recs = append(recs, Recommendation{Movie: m, Match: match, SharedGenreID: dominant})
	}
	rank(recs)
	recs = e.truncate(recs)
	e.attachReasons(ctx, recs)
	return recs, len(pool), nil
}

// computeTrending is the cold-start path: no genre profile to compare
// against, so candidates come from the trending pages and the score is the
// rating alone. Bookmarked ids are still excluded, because a watchlist of
// genre-less entries also lands here.
func (e *Engine) computeTrending(ctx context.Context, exclude map[int]struct{}) ([]Recommendation, int, error) {
	movies, err := e.fanOut(e.cfg.CandidatePages, func(idx int) (*models.MoviePage, error) {
		return e.catalog.Trending(ctx, idx+1)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("trending fallback: %w", err)
	}
	pool := dedupe(movies, exclude)

	recs := make([]Recommendation, 0, len(pool))
	for _, m := range pool {
		match := trendingScore(m)
		if match < e.cfg.MinMatchScore {
			continue
		}
		recs = append(recs, Recommendation{Movie: m, Match: match, Reason: trendingReason})
	}
	rank(recs)
	return e.truncate(recs), len(pool), nil
}

// profile reads the watchlist once: the frequency-ordered genre profile and
// the ids already bookmarked. An empty profile selects the trending path.
func (e *Engine) profile() ([]int, map[int]struct{}) {
	entries := e.watchlist.Snapshot()
	exclude := make(map[int]struct{}, len(entries))
	for _, entry := range entries {
		exclude[entry.ID] = struct{}{}
	}
	return e.watchlist.TopGenres(e.cfg.TopGenres), exclude
}

// gatherCandidates fans out one discovery fetch per configured page plus a
// single trending page that widens the pool beyond the profile genres.
func (e *Engine) gatherCandidates(ctx context.Context, profile []int) ([]models.Movie, error) {
	pages := e.cfg.CandidatePages
	movies, err := e.fanOut(pages+1, func(idx int) (*models.MoviePage, error) {
		if idx == pages {
			return e.catalog.Trending(ctx, 1)
		}
		return e.catalog.DiscoverByGenres(ctx, profile, idx+1)
	})
	if err != nil {
		return nil, fmt.Errorf("gather candidates: %w", err)
	}
	return movies, nil
}

// fetchResult carries one page fetch keyed by its launch slot.
type fetchResult struct {
	page *models.MoviePage
	err  error
}

// fanOut runs n page fetches concurrently and joins their results. Failed
// pages are dropped so one broken page does not starve the refresh; only a
// fully failed fan-out aborts, reporting the first error.
func (e *Engine) fanOut(n int, fetch func(idx int) (*models.MoviePage, error)) ([]models.Movie, error) {
	results := make([]fetchResult, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			page, err := fetch(idx)
			results[idx] = fetchResult{page: page, err: err}
		}(i)
	}
	wg.Wait()

	var movies []models.Movie
	var firstErr error
	for _, res := range results {
		if res.err != nil {
			if firstErr == nil {
				firstErr = res.err
			}
			continue
		}
		movies = append(movies, res.page.Results...)
	}
	if len(movies) == 0 && firstErr != nil {
		return nil, firstErr
	}
	if firstErr != nil {
		e.logger.Warn().Err(firstErr).Msg("Candidate page dropped")
	}
	return movies, nil
}

// attachReasons resolves genre names and renders one display line per item.
// A failed name lookup degrades to generic wording; a finished list never
// fails over display copy.
func (e *Engine) attachReasons(ctx context.Context, recs []Recommendation) {
	if len(recs) == 0 {
		return
	}

	names, err := e.catalog.GenreNames(ctx)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Genre name lookup failed")
		names = nil
	}
	for i := range recs {
		if recs[i].SharedGenreID == 0 {
			recs[i].Reason = trendingReason
			continue
		}
		recs[i].Reason = reasonFor(recs[i].SharedGenreID, names)
	}
}

// truncate caps the list at the configured maximum.
func (e *Engine) truncate(recs []Recommendation) []Recommendation {
	if len(recs) > e.cfg.MaxResults {
		return recs[:e.cfg.MaxResults]
	}
	return recs
}

func (e *Engine) snapshotLocked() State {
	snap := e.state
	if e.state.Items != nil {
		snap.Items = make([]Recommendation, len(e.state.Items))
		copy(snap.Items, e.state.Items)
	}
	return snap
}

// Running is closed once the watchlist subscription is established, so
// startup can order the first mutation after it.
func (e *Engine) Running() <-chan struct{} {
	return e.running
}

// Serve consumes watchlist change events, flagging the current list stale.
// It runs under the supervision tree and holds the subscription for its
// lifetime.
func (e *Engine) Serve(ctx context.Context) error {
	msgs, err := e.bus.Subscribe(ctx, events.TopicWatchlistChanged)
	if err != nil {
		return fmt.Errorf("recommend subscribe: %w", err)
	}
	e.runningOnce.Do(func() { close(e.running) })
	e.logger.Info().Msg("Staleness watcher started")

	for {
		select {
		case <-ctx.Done():
			e.logger.Info().Msg("Staleness watcher stopped")
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("recommend: %w", events.ErrBusClosed)
			}
			e.observeChange(ctx, msg)
		}
	}
}

// observeChange acks the event and flips the stale flag. The stale
// notification goes out only on the clean-to-stale edge, so a burst of
// watchlist edits produces a single notification.
func (e *Engine) observeChange(ctx context.Context, msg *message.Message) {
	defer msg.Ack()

	ev, err := events.DecodeWatchlistEvent(msg)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Undecodable watchlist event dropped")
		return
	}

	e.mu.Lock()
	e.changeGen++
	edge := !e.state.Stale && e.state.Phase != PhaseIdle
	if edge {
		e.state.Stale = true
	}
	e.mu.Unlock()

	if !edge {
		return
	}
	stale := &models.RecommendationsStaleEvent{
		Reason: string(ev.Op),
		At:     time.Now().UTC(),
	}
	if err := e.bus.PublishRecommendationsStale(ctx, stale); err != nil {
		e.logger.Warn().Err(err).Msg("Stale notification publish failed")
	}
}

// String names the engine in supervisor logs.
func (e *Engine) String() string {
	return "recommend-engine"
}
