// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package recommend

import (
	"time"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

// Phase names a stage of the refresh lifecycle. A cycle moves loading →
// success, empty, or error; the terminal phase holds until the next refresh.
type Phase string

const (
	// PhaseIdle means no refresh has run yet.
	PhaseIdle Phase = "idle"
	// PhaseLoading means a refresh is in flight.
	PhaseLoading Phase = "loading"
	// PhaseSuccess means the last refresh produced at least one recommendation.
	PhaseSuccess Phase = "success"
	// PhaseEmpty means the last refresh completed but nothing cleared the
	// match threshold.
	PhaseEmpty Phase = "empty"
	// PhaseError means the last refresh failed; Error carries the message.
	PhaseError Phase = "error"
)

// Recommendation pairs a movie with how strongly it matches the watchlist
// taste profile.
type Recommendation struct {
	Movie models.Movie `json:"movie"`

	// Match is the 0-100 match percentage.
	Match int `json:"match"`

	// Reason is the display explanation ("Because you liked Action movies").
	Reason string `json:"reason"`

	// SharedGenreID is the watchlist genre that drove the reason, zero when
	// the recommendation did not come from a genre overlap.
	SharedGenreID int `json:"shared_genre_id,omitempty"`
}

// State is a point-in-time snapshot of the engine. Items holds the last
// delivered list; during a reload the previous list stays visible so the
// display never blanks out.
type State struct {
	Phase Phase            `json:"phase"`
	Items []Recommendation `json:"items"`

	// Error is the failure message from the last cycle, set only in PhaseError.
	Error string `json:"error,omitempty"`

	// Stale reports that the watchlist changed after these items were
	// computed. Cleared by the next completed refresh.
	Stale bool `json:"stale"`

	// RefreshedAt is when the last cycle completed, zero before the first.
	RefreshedAt time.Time `json:"refreshed_at"`
}
