// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package config loads application configuration.
//
// Configuration is layered with Koanf v2:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file: $CONFIG_PATH, config.yaml, config.yml or
//     /etc/reelmatch/config.yaml
//  3. Environment variables mapped through an explicit key table
//
// The recommendation engine section embeds recommend.Config, so engine
// defaults live in one place (recommend.DefaultConfig) and the same
// validation runs for the CLI and the server.
//
// # Environment Variables
//
// Server: HTTP_PORT, HTTP_HOST, SERVER_TIMEOUT, ENVIRONMENT
//
// Data: DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS, MOVIES_CSV,
// RATINGS_CSV, IMPORT_ON_STARTUP, TRAIN_ON_STARTUP
//
// Model store: MODEL_STORE_ENABLED, MODEL_STORE_PATH
//
// Security: RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT,
// CORS_ORIGINS (comma separated), TRAIN_REQUESTS_PER_HOUR, TRAIN_BURST
//
// Events: EVENTS_ENABLED, EVENTS_BUFFER_SIZE, EVENTS_BREAKER_MAX_FAILURES,
// EVENTS_BREAKER_TIMEOUT
//
// Logging: LOG_LEVEL, LOG_FORMAT, LOG_CALLER
//
// Engine: RECOMMEND_CONTENT_FIELDS (comma separated), RECOMMEND_FACTORS,
// RECOMMEND_CONTENT_WEIGHT, RECOMMEND_COLLAB_WEIGHT, RECOMMEND_EVAL_K,
// RECOMMEND_TRAIN_INTERVAL and the other RECOMMEND_* keys in envMappings.
//
// # Example YAML
//
//	server:
//	  port: 8080
//	database:
//	  path: /data/reelmatch.duckdb
//	recommend:
//	  collaborative:
//	    factors: 50
//	  hybrid:
//	    content_weight: 0.7
//	    collab_weight: 0.3
package config
