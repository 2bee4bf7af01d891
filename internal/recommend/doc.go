// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package recommend implements a hybrid movie recommendation engine.
//
// # Architecture
//
// Two independent signal sources are blended into one ranking:
//
//   - Content: TF-IDF vectors over movie genres, overview and keywords,
//     ranked by cosine similarity to a query title
//   - Collaborative: a truncated SVD of the mean-centered user by movie
//     rating matrix, ranked by predicted rating
//   - Hybrid: both candidate lists min-max normalized and combined with
//     per-call weights
//
// Offline, Train runs preprocessing, a seeded train/test split, both fits and
// precision/recall/F1 at K on the held-out ratings.
//
// # Design Principles
//
//   - Deterministic: identical inputs yield identical vocabularies, factors
//     and rankings, including tie order
//   - Explicit errors: ErrConfiguration, ErrData and ErrNotFitted are matched
//     with errors.Is; unknown titles and users yield empty lists
//   - Observable: serving and training record Prometheus metrics
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger)
//
//	if err := engine.FitContent(ctx, movies, nil); err != nil { ... }
//	if err := engine.FitCollaborative(ctx, ratings, 50); err != nil { ... }
//
//	similar, err := engine.ContentRecommendations("Inception", 10)
//	personal, err := engine.CollaborativeRecommendations(42, 10)
//	hybrid, err := engine.HybridRecommendations(recommend.HybridQuery{
//	    UserID: &userID,
//	    Title:  "Inception",
//	    N:      10,
//	})
//
// # Thread Safety
//
// A fitted Model is immutable. The Engine publishes models through an atomic
// pointer: readers never block, and fits are serialized so each publish
// derives from the latest model.
//
// # Persistence
//
// Encode and Decode write a model as gzip-compressed gob. Predictions are
// recomputed from the stored factors, so a decoded model answers every query
// exactly like the original.
package recommend
