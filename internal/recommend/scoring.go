// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package recommend

import (
	"math"
	"sort"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

// Genre overlap dominates the match; the vote average nudges equally matched
// movies apart. Weights sum to 1 so the match stays a percentage.
const (
	genreWeight  = 0.7
	ratingWeight = 0.3
)

const (
	// trendingReason labels items that did not come from a genre overlap.
	trendingReason = "Trending this week"
	// genericReason stands in when the genre table is unavailable.
	genericReason = "Because you liked similar movies"
)

// matchScore computes the 0-100 match of a candidate against the genre
// profile. The profile is ordered by watchlist frequency, so the first shared
// genre is the dominant one; dominant is zero when nothing is shared.
func matchScore(profile []int, m models.Movie) (match, dominant int) {
	shared := 0
	for _, g := range profile {
		if m.HasGenre(g) {
			if shared == 0 {
				dominant = g
			}
			shared++
		}
	}

	genreScore := 0.0
	if len(profile) > 0 {
		genreScore = float64(shared) / float64(len(profile))
	}
	return clampMatch(genreWeight*genreScore + ratingWeight*ratingScore(m)), dominant
}

// trendingScore is the rating-only match used when there is no genre profile
// to compare against.
func trendingScore(m models.Movie) int {
	return clampMatch(ratingScore(m))
}

func ratingScore(m models.Movie) float64 {
	return m.VoteAverage / 10
}

func clampMatch(score float64) int {
	match := int(math.Round(100 * score))
	if match < 0 {
		return 0
	}
	if match > 100 {
		return 100
	}
	return match
}

// rank orders recommendations for display: best match first, then popularity,
// then id, so equal inputs always produce the same order.
func rank(recs []Recommendation) {
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Match != recs[j].Match {
			return recs[i].Match > recs[j].Match
		}
		if recs[i].Movie.Popularity != recs[j].Movie.Popularity {
			return recs[i].Movie.Popularity > recs[j].Movie.Popularity
		}
		return recs[i].Movie.ID < recs[j].Movie.ID
	})
}

// reasonFor renders the display line for a genre-driven match. An unresolved
// genre name degrades to generic wording rather than leaking an id.
func reasonFor(dominant int, names map[int]string) string {
	if name, ok := names[dominant]; ok && name != "" {
		return "Because you liked " + name + " movies"
	}
	return genericReason
}

// dedupe drops bookmarked ids and repeat appearances, keeping first
// occurrence order. Discovery pages and the trending page overlap freely.
func dedupe(movies []models.Movie, exclude map[int]struct{}) []models.Movie {
	seen := make(map[int]struct{}, len(movies))
	pool := make([]models.Movie, 0, len(movies))
	for _, m := range movies {
		if m.ID <= 0 {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		if _, excluded := exclude[m.ID]; excluded {
			continue
		}
		seen[m.ID] = struct{}{}
		pool = append(pool, m)
	}
	return pool
}
