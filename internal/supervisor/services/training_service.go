// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/api"
	"github.com/tomtom215/reelmatch/internal/database"
	"github.com/tomtom215/reelmatch/internal/events"
	"github.com/tomtom215/reelmatch/internal/metrics"
	"github.com/tomtom215/reelmatch/internal/recommend"
	"github.com/tomtom215/reelmatch/internal/recommend/storage"
)

// DataSource loads the training tables.
type DataSource interface {
	LoadDataset(ctx context.Context, minRatings int) (recommend.TrainInput, error)
}

// Importer refreshes the training tables from CSV files.
type Importer interface {
	ImportMovies(ctx context.Context, path string) (database.ImportStats, error)
	ImportRatings(ctx context.Context, path string) (database.ImportStats, error)
}

// ModelStore persists published models.
type ModelStore interface {
	Save(ctx context.Context, m *recommend.Model, meta storage.ModelMetadata) (storage.ModelMetadata, error)
	Load(ctx context.Context, version int64) (*recommend.Model, *storage.ModelMetadata, error)
	Prune(ctx context.Context, keep int) (int, error)
}

// EventPublisher announces published models.
type EventPublisher interface {
	PublishModel(ctx context.Context, ev events.ModelPublished) error
}

// TrainingServiceConfig holds the startup behaviour of the training service.
// Pipeline parameters, the retraining interval and the retention count come
// from the engine configuration.
type TrainingServiceConfig struct {
	// MoviesPath and RatingsPath are imported on first start when
	// ImportOnStartup is set and an Importer is configured.
	MoviesPath      string
	RatingsPath     string
	ImportOnStartup bool

	// TrainOnStartup trains when no stored model could be restored.
	TrainOnStartup bool
}

// TrainingServiceDeps are the collaborators of the training service. Only
// Engine and Data are required.
type TrainingServiceDeps struct {
	Engine    *recommend.Engine
	Data      DataSource
	Importer  Importer
	Store     ModelStore
	Publisher EventPublisher
}

// TrainingService owns the model lifecycle: it restores or trains a model on
// first start, retrains on a ticker and on demand, persists each new model
// and announces it on the event bus.
//
// It implements api.Trainer.
type TrainingService struct {
	engine    *recommend.Engine
	data      DataSource
	importer  Importer
	store     ModelStore
	publisher EventPublisher
	config    TrainingServiceConfig
	logger    zerolog.Logger

	// trigger holds at most one pending on-demand run.
	trigger chan struct{}

	// initialized survives supervisor restarts so the startup work runs once.
	initialized atomic.Bool

	mu         sync.RWMutex
	heldOut    []recommend.Rating
	lastReport *recommend.TrainReport
}

var _ api.Trainer = (*TrainingService)(nil)

// NewTrainingService creates the service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewTrainingService(deps TrainingServiceDeps, cfg TrainingServiceConfig, logger zerolog.Logger) (*TrainingService, error) {
	if deps.Engine == nil {
		return nil, errors.New("training service: engine is required")
	}
	if deps.Data == nil {
		return nil, errors.New("training service: data source is required")
	}
	return &TrainingService{
		engine:    deps.Engine,
		data:      deps.Data,
		importer:  deps.Importer,
		store:     deps.Store,
		publisher: deps.Publisher,
		config:    cfg,
		logger:    logger.With().Str("service", "training").Logger(),
		trigger:   make(chan struct{}, 1),
	}, nil
}

// Serve implements suture.Service.
func (s *TrainingService) Serve(ctx context.Context) error {
	if s.initialized.CompareAndSwap(false, true) {
		s.startup(ctx)
	}

	var tick <-chan time.Time
	if interval := s.engine.Config().Training.Interval; interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
		s.logger.Info().Dur("interval", interval).Msg("scheduled retraining enabled")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-tick:
			s.runLogged(ctx, events.TriggerScheduled)
		case <-s.trigger:
			s.runLogged(ctx, events.TriggerManual)
		}
	}
}

// String implements fmt.Stringer for supervisor logs.
func (s *TrainingService) String() string {
	return "training-service"
}

// TriggerTraining queues an on-demand run. It returns api.ErrTrainingQueued
// when a run is already waiting.
func (s *TrainingService) TriggerTraining() error {
	select {
	case s.trigger <- struct{}{}:
		return nil
	default:
		return api.ErrTrainingQueued
	}
}

// HeldOut returns the test split of the last successful run, or nil.
func (s *TrainingService) HeldOut() []recommend.Rating {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.heldOut
}

// LastReport returns the report of the last successful run, or nil.
func (s *TrainingService) LastReport() *recommend.TrainReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastReport == nil {
		return nil
	}
	r := *s.lastReport
	return &r
}

func (s *TrainingService) startup(ctx context.Context) {
	if s.config.ImportOnStartup && s.importer != nil {
		if err := s.importData(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("CSV import failed, training from the existing tables")
		}
	}

	if s.restore(ctx) {
		return
	}
	if s.config.TrainOnStartup {
		s.runLogged(ctx, events.TriggerStartup)
	}
}

func (s *TrainingService) importData(ctx context.Context) error {
	movies, err := s.importer.ImportMovies(ctx, s.config.MoviesPath)
	if err != nil {
		return fmt.Errorf("import movies: %w", err)
	}
	ratings, err := s.importer.ImportRatings(ctx, s.config.RatingsPath)
	if err != nil {
		return fmt.Errorf("import ratings: %w", err)
	}
	s.logger.Info().
		Int64("movies", movies.Imported).
		Int64("movies_skipped", movies.Skipped).
		Int64("ratings", ratings.Imported).
		Int64("ratings_skipped", ratings.Skipped).
		Msg("CSV import complete")
	return nil
}

// restore publishes the latest stored model. It reports whether one was found.
func (s *TrainingService) restore(ctx context.Context) bool {
	if s.store == nil {
		return false
	}
	m, meta, err := s.store.Load(ctx, 0)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn().Err(err).Msg("could not restore stored model")
		}
		return false
	}

	published := s.engine.Publish(m)
	s.logger.Info().
		Int64("version", published.Version).
		Time("trained_at", meta.TrainedAt).
		Msg("restored stored model")
	s.announce(ctx, published, events.TriggerRestore, nil, true)
	return true
}

func (s *TrainingService) runLogged(ctx context.Context, trigger string) {
	if _, err := s.Run(ctx, trigger); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("training run failed")
	}
}

// Run performs one training run synchronously and publishes the result. The
// trigger is recorded in metrics and in the published event.
func (s *TrainingService) Run(ctx context.Context, trigger string) (m *recommend.Model, err error) {
	defer func() { metrics.RecordTrainingRun(trigger, err) }()

	cfg := s.engine.Config()
	trainCtx, cancel := context.WithTimeout(ctx, cfg.Training.Timeout)
	defer cancel()

	s.logger.Info().Str("trigger", trigger).Msg("training run starting")

	in, err := s.data.LoadDataset(trainCtx, cfg.Training.MinRatingsPerMovie)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	res, err := recommend.Train(trainCtx, in, cfg, s.logger)
	if err != nil {
		return nil, err
	}

	published := s.engine.Publish(res.Model)
	report := res.Report

	s.mu.Lock()
	s.heldOut = res.HeldOut
	s.lastReport = &report
	s.mu.Unlock()

	persisted := s.persist(ctx, published, report, cfg.Training.RetainVersions)
	s.announce(ctx, published, trigger, &report.Evaluation, persisted)
	return published, nil
}

//nolint:gocritic // hugeParam: report is read once
func (s *TrainingService) persist(ctx context.Context, m *recommend.Model, report recommend.TrainReport, retain int) bool {
	if s.store == nil {
		return false
	}
	meta, err := s.store.Save(ctx, m, storage.MetadataFor(m, report))
	if err != nil {
		s.logger.Error().Err(err).Int64("version", m.Version).Msg("failed to save model")
		return false
	}
	s.logger.Info().
		Int64("version", meta.Version).
		Int64("size_bytes", meta.SizeBytes).
		Msg("model saved")

	pruned, err := s.store.Prune(ctx, retain)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to prune stored models")
	} else if pruned > 0 {
		s.logger.Debug().Int("pruned", pruned).Int("retained", retain).Msg("pruned stored models")
	}
	return true
}

// announce publishes a ModelPublished event. Failures are logged only; the
// model is already serving.
func (s *TrainingService) announce(ctx context.Context, m *recommend.Model, trigger string, eval *recommend.EvaluationResult, persisted bool) {
	if s.publisher == nil {
		return
	}
	ev := events.NewModelPublished(m, trigger, eval, persisted)
	if err := s.publisher.PublishModel(ctx, ev); err != nil {
		s.logger.Warn().Err(err).Int64("version", m.Version).Msg("failed to publish model event")
	}
}
