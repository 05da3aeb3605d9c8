// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package models

import "time"

// releaseDateLayout is the wire format for movie release dates.
const releaseDateLayout = "2006-01-02"

// Movie is a single catalog item as returned by the metadata API's listing
// endpoints. Field names follow the TMDB v3 wire format.
//
// A Movie is immutable once fetched; a later fetch with the same ID replaces
// it wholesale, there is no partial merge.
type Movie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	GenreIDs         []int   `json:"genre_ids,omitempty"`
	Popularity       float64 `json:"popularity"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Adult            bool    `json:"adult,omitempty"`
	Video            bool    `json:"video,omitempty"`
}

// Released parses the wire release date. The second return value is false
// when the date is absent or malformed; callers treat such items as undated.
func (m Movie) Released() (time.Time, bool) {
	return parseReleaseDate(m.ReleaseDate)
}

// HasGenre reports whether the movie carries the given genre ID.
func (m Movie) HasGenre(genreID int) bool {
	for _, id := range m.GenreIDs {
		if id == genreID {
			return true
		}
	}
	return false
}

func parseReleaseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(releaseDateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MoviePage is the paged listing envelope shared by the trending, popular,
// top-rated, search, similar, recommendations, and discover endpoints.
type MoviePage struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// EmptyMoviePage returns the well-formed zero result used when a request
// short-circuits (for example a blank search query): zero items, zero pages,
// zero totals, and a non-nil Results slice so callers can range over it.
func EmptyMoviePage() *MoviePage {
	return &MoviePage{Results: []Movie{}}
}

// Genre is one entry of the catalog's genre dictionary.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the /genre/movie/list response envelope.
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// MovieDetails is the full single-movie payload. Listing fields are repeated
// here with genres expanded into objects; the remainder only exists on the
// details endpoint.
type MovieDetails struct {
	ID               int     `json:"id"`
	IMDBId           string  `json:"imdb_id,omitempty"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title,omitempty"`
	Overview         string  `json:"overview"`
	Tagline          string  `json:"tagline,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty"`
	Runtime          int     `json:"runtime,omitempty"`
	Status           string  `json:"status,omitempty"`
	Homepage         string  `json:"homepage,omitempty"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Genres           []Genre `json:"genres,omitempty"`
	Popularity       float64 `json:"popularity"`
	OriginalLanguage string  `json:"original_language,omitempty"`
	Adult            bool    `json:"adult,omitempty"`
}

// GenreIDs flattens the expanded genre objects into the ID list shape used
// by listings, so details payloads feed the same scoring and statistics
// paths as listing payloads.
func (d MovieDetails) GenreIDs() []int {
	if len(d.Genres) == 0 {
		return nil
	}
	ids := make([]int, len(d.Genres))
	for i, g := range d.Genres {
		ids[i] = g.ID
	}
	return ids
}

// Listing converts a details payload back into the listing shape.
func (d MovieDetails) Listing() Movie {
	return Movie{
		ID:               d.ID,
		Title:            d.Title,
		OriginalTitle:    d.OriginalTitle,
		Overview:         d.Overview,
		PosterPath:       d.PosterPath,
		BackdropPath:     d.BackdropPath,
		ReleaseDate:      d.ReleaseDate,
		VoteAverage:      d.VoteAverage,
		VoteCount:        d.VoteCount,
		GenreIDs:         d.GenreIDs(),
		Popularity:       d.Popularity,
		OriginalLanguage: d.OriginalLanguage,
		Adult:            d.Adult,
	}
}
