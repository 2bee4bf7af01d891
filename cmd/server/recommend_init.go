// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package main

import (
	"fmt"

	"github.com/tomtom215/reelmatch/internal/config"
	"github.com/tomtom215/reelmatch/internal/database"
	"github.com/tomtom215/reelmatch/internal/logging"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
	"github.com/tomtom215/reelmatch/internal/supervisor"
	"github.com/tomtom215/reelmatch/internal/supervisor/services"
)

// RecommendComponents holds the recommendation engine and its training service.
type RecommendComponents struct {
	Engine  *recommend.Engine
	Trainer *services.TrainingService
	Store   *storage.Store
}

// Close releases the model store.
func (c *RecommendComponents) Close() {
	if c.Store == nil {
		return
	}
	if err := c.Store.Close(); err != nil {
		logging.Warn().Err(err).Msg("Error closing model store")
	}
}

// initRecommend creates the engine and model store and adds the training
// service to the data layer.
func initRecommend(cfg *config.Config, db *database.DB, publisher services.EventPublisher, tree *supervisor.SupervisorTree) (*RecommendComponents, error) {
	logger := logging.Component("recommend")

	logger.Info().
		Strs("fields", cfg.Recommend.Content.Fields).
		Int("factors", cfg.Recommend.Collaborative.Factors).
		Int("min_ratings_per_movie", cfg.Recommend.Training.MinRatingsPerMovie).
		Dur("train_interval", cfg.Recommend.Training.Interval).
		Bool("train_on_startup", cfg.Data.TrainOnStartup).
		Msg("Initializing recommendation engine")

	engine, err := recommend.NewEngine(&cfg.Recommend, logger)
	if err != nil {
		return nil, fmt.Errorf("create recommendation engine: %w", err)
	}

	rc := &RecommendComponents{Engine: engine}
	deps := services.TrainingServiceDeps{
		Engine:    engine,
		Data:      db,
		Importer:  db,
		Publisher: publisher,
	}

	if cfg.Store.Enabled {
		store, err := storage.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open model store: %w", err)
		}
		rc.Store = store
		deps.Store = store
		logger.Info().Str("path", cfg.Store.Path).Msg("Model store opened")
	} else {
		logger.Info().Msg("Model store disabled (MODEL_STORE_ENABLED=false)")
	}

	trainer, err := services.NewTrainingService(deps, services.TrainingServiceConfig{
		MoviesPath:      cfg.Data.MoviesPath,
		RatingsPath:     cfg.Data.RatingsPath,
		ImportOnStartup: cfg.Data.ImportOnStartup,
		TrainOnStartup:  cfg.Data.TrainOnStartup,
	}, logger)
	if err != nil {
		rc.Close()
		return nil, err
	}
	rc.Trainer = trainer
	tree.AddDataService(trainer)

	return rc, nil
}
