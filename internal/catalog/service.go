// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/goccy/go-json"

	"github.com/bestfriendai/MovieTrailer-sub003/internal/logging"
	"github.com/bestfriendai/MovieTrailer-sub003/internal/models"
)

var errInvalidMovieID = errors.New("movie id must be positive")

// Fetcher performs one catalog request and returns the raw JSON payload.
// Implemented by Client; tests substitute a stub.
type Fetcher interface {
	Do(ctx context.Context, ep Endpoint) ([]byte, error)
}

// Store is the response cache the service reads through. Implemented by
// cache.Tiered. Get returns the cached payload for a descriptor signature;
// Set writes through both tiers; Delete drops an entry from both.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, data []byte)
	Delete(ctx context.Context, key string)
}

// Service is the catalog's typed surface. Primary content (listings, search,
// details, genres, discovery) propagates classified errors; auxiliary content
// (videos, similar, recommended, watch providers) degrades to empty results so
// one failing section never breaks a whole detail screen.
type Service struct {
	fetcher Fetcher
	store   Store
}

// NewService wires the typed catalog over a fetcher and a response cache.
func NewService(fetcher Fetcher, store Store) *Service {
	return &Service{fetcher: fetcher, store: store}
}

// Trending lists today's trending movies.
func (s *Service) Trending(ctx context.Context, page int) (*models.MoviePage, error) {
	return fetchPage(ctx, s, Trending(normalizePage(page)))
}

// Popular lists popular movies.
func (s *Service) Popular(ctx context.Context, page int) (*models.MoviePage, error) {
	return fetchPage(ctx, s, Popular(normalizePage(page)))
}

// TopRated lists the highest rated movies.
func (s *Service) TopRated(ctx context.Context, page int) (*models.MoviePage, error) {
	return fetchPage(ctx, s, TopRated(normalizePage(page)))
}

// Search looks movies up by title. A blank query resolves locally to an empty
// page without touching the network.
func (s *Service) Search(ctx context.Context, query string, page int) (*models.MoviePage, error) {
	ep := Search(query, normalizePage(page))
	if ep.IsNoop() {
		return models.EmptyMoviePage(), nil
	}
	return fetchPage(ctx, s, ep)
}

// Details loads the full record for one movie.
func (s *Service) Details(ctx context.Context, id int) (*models.MovieDetails, error) {
	if id <= 0 {
		return nil, invalidRequest("details", errInvalidMovieID)
	}
	return fetch[models.MovieDetails](ctx, s, Details(id))
}

// Genres loads the canonical genre id/name table.
func (s *Service) Genres(ctx context.Context) (*models.GenreList, error) {
	return fetch[models.GenreList](ctx, s, GenreList())
}

// GenreNames returns the genre table as an id to name map.
func (s *Service) GenreNames(ctx context.Context) (map[int]string, error) {
	list, err := s.Genres(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int]string, len(list.Genres))
	for _, g := range list.Genres {
		names[g.ID] = g.Name
	}
	return names, nil
}

// DiscoverByGenres lists movies matching the given genres, most popular first.
func (s *Service) DiscoverByGenres(ctx context.Context, genreIDs []int, page int) (*models.MoviePage, error) {
	return fetchPage(ctx, s, DiscoverByGenres(genreIDs, normalizePage(page)))
}

// Videos lists a movie's clips and trailers. Failures degrade to an empty list.
func (s *Service) Videos(ctx context.Context, id int) *models.VideoList {
	if id <= 0 {
		return emptyVideoList(id)
	}
	out, err := fetch[models.VideoList](ctx, s, Videos(id))
	if err != nil {
		logSectionDegraded(ctx, "videos", id, err)
		return emptyVideoList(id)
	}
	if out.Results == nil {
		out.Results = []models.Video{}
	}
	return out
}

// Similar lists movies similar to the given one. Failures degrade to an empty
// page.
func (s *Service) Similar(ctx context.Context, id int) *models.MoviePage {
	if id <= 0 {
		return models.EmptyMoviePage()
	}
	out, err := fetchPage(ctx, s, Similar(id))
	if err != nil {
		logSectionDegraded(ctx, "similar", id, err)
		return models.EmptyMoviePage()
	}
	return out
}

// Recommendations lists TMDB's own suggestions for the given movie. Failures
// degrade to an empty page.
func (s *Service) Recommendations(ctx context.Context, id int) *models.MoviePage {
	if id <= 0 {
		return models.EmptyMoviePage()
	}
	out, err := fetchPage(ctx, s, Recommendations(id))
	if err != nil {
		logSectionDegraded(ctx, "recommendations", id, err)
		return models.EmptyMoviePage()
	}
	return out
}

// WatchProviders lists streaming availability by region. Failures degrade to
// an empty result.
func (s *Service) WatchProviders(ctx context.Context, id int) *models.WatchProviderResult {
	if id <= 0 {
		return emptyProviders(id)
	}
	out, err := fetch[models.WatchProviderResult](ctx, s, WatchProviders(id))
	if err != nil {
		logSectionDegraded(ctx, "watch_providers", id, err)
		return emptyProviders(id)
	}
	if out.Results == nil {
		out.Results = map[string]models.WatchProviderRegion{}
	}
	return out
}

// MovieExtras bundles everything a detail screen shows beyond the listing row.
type MovieExtras struct {
	Details     *models.MovieDetails        `json:"details"`
	Videos      *models.VideoList           `json:"videos"`
	Similar     *models.MoviePage           `json:"similar"`
	Recommended *models.MoviePage           `json:"recommended"`
	Providers   *models.WatchProviderResult `json:"watch_providers"`
}

// Extras loads a full detail screen. Details is the primary section and gates
// the rest; the four auxiliary sections load concurrently and individually
// degrade to empty, so none of them can fail the screen or cancel a sibling.
func (s *Service) Extras(ctx context.Context, id int) (*MovieExtras, error) {
	details, err := s.Details(ctx, id)
	if err != nil {
		return nil, err
	}

	extras := &MovieExtras{Details: details}

	// Each goroutine owns exactly one field, so the joins need no lock.
	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		extras.Videos = s.Videos(ctx, id)
	}()
	go func() {
		defer wg.Done()
		extras.Similar = s.Similar(ctx, id)
	}()
	go func() {
		defer wg.Done()
		extras.Recommended = s.Recommendations(ctx, id)
	}()
	go func() {
		defer wg.Done()
		extras.Providers = s.WatchProviders(ctx, id)
	}()
	wg.Wait()

	return extras, nil
}

// normalizePage clamps a requested page into TMDB's supported range.
func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	if page > maxPage {
		return maxPage
	}
	return page
}

func emptyVideoList(id int) *models.VideoList {
	return &models.VideoList{ID: id, Results: []models.Video{}}
}

func emptyProviders(id int) *models.WatchProviderResult {
	return &models.WatchProviderResult{ID: id, Results: map[string]models.WatchProviderRegion{}}
}

func logSectionDegraded(ctx context.Context, section string, id int, err error) {
	logging.CtxWarn(ctx).Err(err).Str("section", section).Int("movie_id", id).Msg("Auxiliary section degraded to empty")
}

// fetch resolves one descriptor through the cache, the network, and back into
// the cache. Methods cannot be generic, so the cache-aside path lives here.
func fetch[T any](ctx context.Context, s *Service, ep Endpoint) (*T, error) {
	key := ep.Signature()

	if data, ok := s.store.Get(ctx, key); ok {
		out, err := decodePayload[T](ep, data)
		if err == nil {
			return out, nil
		}
		// A cached entry that no longer decodes is dropped, not served.
		logging.CtxWarn(ctx).Err(err).Str("key", key).Msg("Dropping undecodable cache entry")
		s.store.Delete(ctx, key)
	}

	data, err := s.fetcher.Do(ctx, ep)
	if err != nil {
		return nil, err
	}

	out, err := decodePayload[T](ep, data)
	if err != nil {
		return nil, err
	}

	s.store.Set(ctx, key, data)
	return out, nil
}

// fetchPage is fetch for the common page-shaped payload, normalizing a null
// results array into an empty one.
func fetchPage(ctx context.Context, s *Service, ep Endpoint) (*models.MoviePage, error) {
	page, err := fetch[models.MoviePage](ctx, s, ep)
	if err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []models.Movie{}
	}
	return page, nil
}

// decodePayload unmarshals a raw payload, classifying failures as decode
// errors for the endpoint.
func decodePayload[T any](ep Endpoint, data []byte) (*T, error) {
	var payload T
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, decodeFailure(ep.Name(), err)
	}
	return &payload, nil
}
