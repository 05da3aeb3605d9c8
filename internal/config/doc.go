// MovieTrailer - Movie Discovery Catalog and Watchlist Service
// Copyright 2026 bestfriendai
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/bestfriendai/MovieTrailer-sub003

// Package config provides layered application configuration using Koanf v2.
//
// Configuration is assembled from three sources in increasing precedence:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file, located via CONFIG_PATH or the default search
//     paths (config.yaml, config.yml, /etc/movietrailer/config.yaml, ...)
//  3. MOVIETRAILER_* environment variables, mapped to config paths through
//     an explicit table so unrelated variables are never picked up
//
// The loaded configuration is validated before use: struct tags (via the
// validation package) catch missing and out-of-range scalar values, and
// hand-written cross-field checks cover URL shapes, duration bounds, and
// placeholder secrets. Load fails fast on the first violation.
//
// Example YAML:
//
//	tmdb:
//	  api_key: "..."
//	  language: en-US
//	cache:
//	  disk_path: /data/cache
//	  memory_ttl: 15m
//	server:
//	  port: 8757
//	  cors_origins:
//	    - https://movies.example.com
//	logging:
//	  level: debug
//	  format: console
//
// Example usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal().Err(err).Msg("Failed to load configuration")
//	}
//	client := catalog.NewClient(&cfg.TMDB, creds)
package config
