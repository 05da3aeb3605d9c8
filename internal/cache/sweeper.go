// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package cache

import (
	"context"
	"time"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
)

const defaultSweepInterval = 6 * time.Hour

// Sweeper runs cache sweeps on a schedule and on demand. It implements
// suture.Service; the supervisor restarts it if a sweep panics.
//
// Trigger requests a sweep outside the schedule, used when the app reports
// it became active again after being backgrounded.
type Sweeper struct {
	cache    *Tiered
	interval time.Duration
	trigger  chan struct{}
}

// NewSweeper creates a sweeper over the cache. A non-positive interval
// falls back to the default (6 hours).
func NewSweeper(cache *Tiered, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = defaultSweepInterval
	}
	return &Sweeper{
		cache:    cache,
		interval: interval,
		trigger:  make(chan struct{}, 1),
	}
}

// Trigger requests an immediate sweep. Never blocks; a sweep already
// pending absorbs the request.
func (s *Sweeper) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Serve implements suture.Service. One sweep runs at startup to clear
// anything that expired while the process was down, then the loop serves
// the ticker and the trigger until shutdown.
func (s *Sweeper) Serve(ctx context.Context) error {
	logging.Info().Dur("interval", s.interval).Msg("Cache sweeper started")

	s.sweep(ctx, "startup")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info().Msg("Cache sweeper stopped")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx, "periodic")
		case <-s.trigger:
			s.sweep(ctx, "activation")
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context, cause string) {
	removed, err := s.cache.Sweep(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		logging.Warn().Err(err).Str("cause", cause).Msg("Cache sweep failed")
		return
	}
	logging.Debug().Str("cause", cause).Int("removed", removed).Msg("Cache sweep finished")
}

// String implements fmt.Stringer for supervisor logging.
func (s *Sweeper) String() string {
	return "cache-sweeper"
}
