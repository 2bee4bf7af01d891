// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

/*
Package main is the entry point for the ReelMatch server.

ReelMatch serves content-based, collaborative and hybrid movie
recommendations over HTTP. Movies and ratings are imported from CSV into
DuckDB; a TF-IDF content model and a truncated-SVD rating model are trained
from them, persisted to BadgerDB and retrained on a schedule.

# Application Architecture

	RootSupervisor ("reelmatch")
	├── DataSupervisor ("data-layer")
	│   ├── TrainingService (import, restore or train, scheduled retraining)
	│   └── events.Consumer (model.published, if EVENTS_ENABLED)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Component initialization order:

 1. Configuration: koanf defaults, optional config.yaml, environment
 2. Logging: zerolog with JSON or console output
 3. Database: DuckDB holding the movies and ratings tables
 4. Event bus: Watermill gochannel with a circuit-breaking publisher
 5. Recommendation engine, model store and training service
 6. HTTP server: chi router with request id, access log, CORS, rate limits
    and Prometheus metrics

# Configuration

	HTTP_PORT=8080
	DUCKDB_PATH=/data/reelmatch.duckdb
	MOVIES_CSV=data/movies.csv
	RATINGS_CSV=data/ratings.csv
	IMPORT_ON_STARTUP=true
	TRAIN_ON_STARTUP=true
	MODEL_STORE_ENABLED=true
	MODEL_STORE_PATH=/data/models
	EVENTS_ENABLED=true
	RECOMMEND_FACTORS=50
	RECOMMEND_TRAIN_INTERVAL=24h
	LOG_LEVEL=info
	LOG_FORMAT=json

On start the latest stored model is restored when one exists; otherwise a
model is trained from the imported tables. /api/v1/health/ready reports 503
until a model with both sides is published.

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains for up
to 10s, the training service abandons an in-flight run, and the model store,
event bus and database are closed in that order.
*/
package main
