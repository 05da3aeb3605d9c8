// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

package models

// Video is one clip attached to a movie (trailer, teaser, featurette).
type Video struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Key          string `json:"key"`
	Site         string `json:"site"`
	Size         int    `json:"size,omitempty"`
	Type         string `json:"type"`
	Official     bool   `json:"official"`
	PublishedAt  string `json:"published_at,omitempty"`
	LanguageCode string `json:"iso_639_1,omitempty"`
	CountryCode  string `json:"iso_3166_1,omitempty"`
}

// IsTrailer reports whether the video is a YouTube-hosted trailer, the only
// kind the player surface can embed.
func (v Video) IsTrailer() bool {
	return v.Type == "Trailer" && v.Site == "YouTube"
}

// VideoList is the /movie/{id}/videos response envelope.
type VideoList struct {
	ID      int     `json:"id"`
	Results []Video `json:"results"`
}

// PreferredTrailer picks the clip a detail screen should autoplay: the first
// official YouTube trailer, falling back to any YouTube trailer, then to the
// first video of any kind. Returns nil when the list is empty.
func (l VideoList) PreferredTrailer() *Video {
	var fallback *Video
	for i := range l.Results {
		v := &l.Results[i]
		if !v.IsTrailer() {
			continue
		}
		if v.Official {
			return v
		}
		if fallback == nil {
			fallback = v
		}
	}
	if fallback != nil {
		return fallback
	}
	if len(l.Results) > 0 {
		return &l.Results[0]
	}
	return nil
}

// WatchProvider is a single streaming/rental/purchase source.
type WatchProvider struct {
	ProviderID      int    `json:"provider_id"`
	ProviderName    string `json:"provider_name"`
	LogoPath        string `json:"logo_path,omitempty"`
	DisplayPriority int    `json:"display_priority,omitempty"`
}

// WatchProviderRegion groups a region's providers by acquisition model.
// Link points at the upstream attribution page and must be surfaced with
// the provider logos.
type WatchProviderRegion struct {
	Link     string          `json:"link,omitempty"`
	Flatrate []WatchProvider `json:"flatrate,omitempty"`
	Rent     []WatchProvider `json:"rent,omitempty"`
	Buy      []WatchProvider `json:"buy,omitempty"`
	Free     []WatchProvider `json:"free,omitempty"`
}

// WatchProviderResult is the /movie/{id}/watch/providers response envelope,
// keyed by ISO 3166-1 country code.
type WatchProviderResult struct {
	ID      int                            `json:"id"`
	Results map[string]WatchProviderRegion `json:"results"`
}

// Region returns the providers for a country code, with ok reporting
// whether the region is present at all.
func (r WatchProviderResult) Region(countryCode string) (WatchProviderRegion, bool) {
	region, ok := r.Results[countryCode]
	return region, ok
}
