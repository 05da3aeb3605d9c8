// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

// SearchSession serializes interactive search so the newest query always
// wins. Starting a search cancels the in-flight one, and a superseded search
// never delivers: neither its result nor its cancellation error reaches the
// caller as a failure.
//
// One session models one search box. Concurrent sessions do not interact.
type SearchSession struct {
	svc *Service

	mu     sync.Mutex
	cancel context.CancelFunc
	seq    uint64
}

// NewSearchSession builds a session over the catalog service.
func NewSearchSession(svc *Service) *SearchSession {
	return &SearchSession{svc: svc}
}

// Search runs query against the catalog. The bool reports whether this call
// was still the current one when it finished: a superseded call returns
// (nil, false, nil) and the caller simply drops it, because the newer search
// owns the delivery. Errors are only ever reported for current calls.
func (ss *SearchSession) Search(ctx context.Context, query string, page int) (*models.MoviePage, bool, error) {
	ss.mu.Lock()
	if ss.cancel != nil {
		ss.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	ss.cancel = cancel
	ss.seq++
	seq := ss.seq
	ss.mu.Unlock()

	result, err := ss.svc.Search(ctx, query, page)

	ss.mu.Lock()
	current := seq == ss.seq
	if current {
		ss.cancel = nil
	}
	ss.mu.Unlock()
	cancel()

	if !current || errors.Is(err, context.Canceled) {
		return nil, false, nil
	}
	if err != nil {
		return nil, true, err
	}
	return result, true, nil
}

// Cancel aborts any in-flight search without starting a new one. Used when
// the search box is cleared or dismissed.
func (ss *SearchSession) Cancel() {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	if ss.cancel != nil {
		ss.cancel()
		ss.cancel = nil
	}
}
