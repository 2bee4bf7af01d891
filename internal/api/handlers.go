// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package api

import (
	"context"
	"errors"
	"time"

	"golang.org/x/time/rate"

	"github.com/tomtom215/reelmatch/internal/recommend"
)

// ErrTrainingQueued is returned by Trainer.TriggerTraining when a run is
// already pending.
var ErrTrainingQueued = errors.New("training already queued")

// Trainer runs training on behalf of the API.
type Trainer interface {
	// TriggerTraining queues a training run and returns immediately.
	TriggerTraining() error

	// HeldOut returns the test split of the last training run, or nil when
	// the model was restored without one.
	HeldOut() []recommend.Rating

	// LastReport returns the last training report, or nil.
	LastReport() *recommend.TrainReport
}

// Pinger checks a dependency for readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Options configures optional handler dependencies.
type Options struct {
	// Trainer enables the train and evaluate endpoints. Nil disables them.
	Trainer Trainer

	// Database is checked by the readiness probe when set.
	Database Pinger

	// TrainRequestsPerHour and TrainBurst size the train trigger token bucket.
	TrainRequestsPerHour float64
	TrainBurst           int
}

// Handler serves the recommendation API.
type Handler struct {
	engine       *recommend.Engine
	trainer      Trainer
	db           Pinger
	trainLimiter *rate.Limiter
	limits       recommend.LimitsConfig
	evalK        int
	startTime    time.Time
}

// NewHandler creates a handler backed by engine.
//
//nolint:gocritic // hugeParam: options passed by value at construction
func NewHandler(engine *recommend.Engine, opts Options) *Handler {
	cfg := engine.Config()

	perHour := opts.TrainRequestsPerHour
	if perHour <= 0 {
		perHour = 6
	}
	burst := opts.TrainBurst
	if burst < 1 {
		burst = 1
	}

	return &Handler{
		engine:       engine,
		trainer:      opts.Trainer,
		db:           opts.Database,
		trainLimiter: rate.NewLimiter(rate.Limit(perHour/3600), burst),
		limits:       cfg.Limits,
		evalK:        cfg.Evaluation.K,
		startTime:    time.Now(),
	}
}

// nonNil keeps empty lists encoded as [] instead of null.
func nonNil(recs []recommend.Recommendation) []recommend.Recommendation {
	if recs == nil {
		return []recommend.Recommendation{}
	}
	return recs
}
