// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package models

import (
	"fmt"
	"time"
)

// WatchlistEntry is a bookmarked movie: a snapshot of the catalog item's
// display-relevant fields plus the time it was added. Entries are keyed by
// the source movie's ID; a store holds at most one entry per ID and
// preserves insertion order for the default sort.
type WatchlistEntry struct {
	ID               int       `json:"id"`
	Title            string    `json:"title"`
	Overview         string    `json:"overview,omitempty"`
	PosterPath       string    `json:"poster_path,omitempty"`
	BackdropPath     string    `json:"backdrop_path,omitempty"`
	ReleaseDate      string    `json:"release_date,omitempty"`
	VoteAverage      float64   `json:"vote_average"`
	VoteCount        int       `json:"vote_count,omitempty"`
	GenreIDs         []int     `json:"genre_ids,omitempty"`
	Popularity       float64   `json:"popularity,omitempty"`
	OriginalLanguage string    `json:"original_language,omitempty"`
	AddedAt          time.Time `json:"added_at"`
}

// NewWatchlistEntry snapshots a catalog item into a watchlist entry stamped
// with the given time. The genre slice is copied so later catalog refreshes
// cannot mutate persisted state.
func NewWatchlistEntry(m Movie, addedAt time.Time) WatchlistEntry {
	genres := make([]int, len(m.GenreIDs))
	copy(genres, m.GenreIDs)
	return WatchlistEntry{
		ID:               m.ID,
		Title:            m.Title,
		Overview:         m.Overview,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		ReleaseDate:      m.ReleaseDate,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		GenreIDs:         genres,
		Popularity:       m.Popularity,
		OriginalLanguage: m.OriginalLanguage,
		AddedAt:          addedAt.UTC(),
	}
}

// Released parses the entry's release date snapshot; ok is false for
// missing or malformed dates, which sort last under SortByReleaseDate.
func (e WatchlistEntry) Released() (time.Time, bool) {
	return parseReleaseDate(e.ReleaseDate)
}

// SortOrder selects a watchlist view ordering.
type SortOrder string

const (
	// SortByDateAdded is insertion order, oldest first. The default.
	SortByDateAdded SortOrder = "date_added"
	// SortByRating orders by vote average descending; ties keep insertion order.
	SortByRating SortOrder = "rating"
	// SortByTitle orders lexicographically ascending.
	SortByTitle SortOrder = "title"
	// SortByReleaseDate orders newest release first; undated entries sort last.
	SortByReleaseDate SortOrder = "release_date"
)

// ParseSortOrder maps a request parameter onto a SortOrder. The empty
// string selects the default insertion order.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case "", SortByDateAdded:
		return SortByDateAdded, nil
	case SortByRating:
		return SortByRating, nil
	case SortByTitle:
		return SortByTitle, nil
	case SortByReleaseDate:
		return SortByReleaseDate, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// GenreCount pairs a genre ID with the number of watchlist entries carrying
// it. Used by the stats endpoint and the recommendation engine.
type GenreCount struct {
	GenreID int `json:"genre_id"`
	Count   int `json:"count"`
}

// WatchlistStats is the aggregate view served by the stats endpoint.
type WatchlistStats struct {
	Count     int          `json:"count"`
	Frequency []GenreCount `json:"frequency"`
	TopGenres []int        `json:"top_genres"`
}
