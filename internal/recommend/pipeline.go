// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/metrics"
)

// TrainInput holds the raw tables for a training run.
type TrainInput struct {
	Movies  []Movie
	Ratings []Rating
}

// TrainReport summarizes a training run.
type TrainReport struct {
	MoviesLoaded  int `json:"movies_loaded"`
	RatingsLoaded int `json:"ratings_loaded"`
	MoviesKept    int `json:"movies_kept"`
	RatingsKept   int `json:"ratings_kept"`
	TrainRatings  int `json:"train_ratings"`
	TestRatings   int `json:"test_ratings"`

	Vocabulary int `json:"vocabulary"`
	Users      int `json:"users"`

	// Factors is the k actually used. FactorsClamped is set when the
	// configured value did not fit the training matrix.
	Factors        int  `json:"factors"`
	FactorsClamped bool `json:"factors_clamped"`

	Evaluation EvaluationResult `json:"evaluation"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// TrainResult is the output of Train.
type TrainResult struct {
	Model  *Model
	Report TrainReport

	// HeldOut is the test split, kept for later re-evaluation.
	HeldOut []Rating
}

// Train runs the offline pipeline: preprocess, split, fit both sides and
// evaluate the collaborative side on the held-out ratings. The returned model
// is not published.
//
//nolint:gocritic // hugeParam: in passed by value for immutability; logger by value for zerolog
func Train(ctx context.Context, in TrainInput, cfg *Config, logger zerolog.Logger) (*TrainResult, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid config: %w", ErrConfiguration, err)
	}
	logger = logger.With().Str("component", "training").Logger()

	start := time.Now()
	report := TrainReport{
		StartedAt:     start.UTC(),
		MoviesLoaded:  len(in.Movies),
		RatingsLoaded: len(in.Ratings),
	}

	stage := time.Now()
	movies, ratings := Preprocess(in.Movies, in.Ratings, cfg.Training.MinRatingsPerMovie)
	metrics.RecordTrainingStage("preprocess", time.Since(stage))
	report.MoviesKept, report.RatingsKept = len(movies), len(ratings)
	if len(movies) == 0 || len(ratings) == 0 {
		return nil, fmt.Errorf("%w: no movies with at least %d ratings", ErrData, cfg.Training.MinRatingsPerMovie)
	}
	logger.Info().
		Int("movies", len(movies)).
		Int("ratings", len(ratings)).
		Msg("preprocessed dataset")

	train, test := TrainTestSplit(ratings, cfg.Training.TestFraction, cfg.Training.Seed)
	report.TrainRatings, report.TestRatings = len(train), len(test)

	stage = time.Now()
	content, err := FitContentModel(ctx, movies, cfg.Content.Fields, cfg.Content)
	if err != nil {
		return nil, err
	}
	metrics.RecordTrainingStage("content", time.Since(stage))
	report.Vocabulary = content.Space().Vocabulary()
	logger.Info().Int("vocabulary", report.Vocabulary).Msg("content model fitted")

	stage = time.Now()
	matrix, err := BuildRatingMatrix(train, cfg.Collaborative.DuplicatePolicy)
	if err != nil {
		return nil, fmt.Errorf("build rating matrix: %w", err)
	}
	users, rated := matrix.Dims()
	report.Users = users

	k, clamped := clampFactors(cfg.Collaborative.Factors, users, rated)
	if k < 1 {
		return nil, fmt.Errorf("%w: %d users and %d movies are too few to factor", ErrData, users, rated)
	}
	if clamped {
		logger.Warn().
			Int("configured", cfg.Collaborative.Factors).
			Int("used", k).
			Int("users", users).
			Int("movies", rated).
			Msg("factor count reduced to fit the rating matrix")
	}
	report.Factors, report.FactorsClamped = k, clamped

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	collab, err := FitLatentFactors(matrix, k)
	if err != nil {
		return nil, fmt.Errorf("fit latent factors: %w", err)
	}
	metrics.RecordTrainingStage("collaborative", time.Since(stage))
	logger.Info().Int("users", users).Int("movies", rated).Int("factors", k).Msg("collaborative model fitted")

	model := NewModel(content, collab)

	stage = time.Now()
	eval, err := Evaluate(PredictorFunc(model.Predict), test, EvaluationOptionsFromConfig(cfg.Evaluation))
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}
	metrics.RecordTrainingStage("evaluate", time.Since(stage))
	report.Evaluation = eval

	report.Duration = time.Since(start)
	metrics.RecordTrainingStage("total", report.Duration)

	logger.Info().
		Float64("precision", eval.PrecisionAtK).
		Float64("recall", eval.RecallAtK).
		Float64("f1", eval.F1AtK).
		Int("k", eval.K).
		Dur("duration", report.Duration).
		Msg("training complete")

	return &TrainResult{Model: model, Report: report, HeldOut: test}, nil
}

// clampFactors limits k to min(users, movies)-1.
func clampFactors(k, users, movies int) (int, bool) {
	limit := users
	if movies < limit {
		limit = movies
	}
	if k < limit {
		return k, false
	}
	return limit - 1, true
}
