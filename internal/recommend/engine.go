// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/reelmatch/internal/cache"
	"github.com/tomtom215/reelmatch/internal/metrics"
)

// Engine serves content, collaborative and hybrid recommendations from the
// currently published Model. It is safe for concurrent use.
//
// Readers load the published model with a single atomic read and never block.
// Fits and publishes are serialized by writeMu and swap in a new Model.
type Engine struct {
	config *Config
	logger zerolog.Logger

	model   atomic.Pointer[Model]
	writeMu sync.Mutex

	hooksMu   sync.RWMutex
	onPublish []func(*Model)

	// cache holds ranked lists keyed by model version and query. Nil when disabled.
	cache *cache.LRU[[]Recommendation]

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
}

// NewEngine creates an engine with an empty, unfitted model published as version 0.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: invalid config: %w", ErrConfiguration, err)
	}

	e := &Engine{
		config: cfg.Clone(),
		logger: logger.With().Str("component", "recommend").Logger(),
	}
	if cfg.Cache.Enabled {
		e.cache = cache.NewLRU[[]Recommendation](cfg.Cache.MaxEntries, cfg.Cache.TTL)
	}
	e.model.Store(&Model{})

	return e, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Current returns the published model. It is never nil.
func (e *Engine) Current() *Model {
	return e.model.Load()
}

// OnPublish registers fn to be called after every publish with the new model.
// Hooks run synchronously on the publishing goroutine.
func (e *Engine) OnPublish(fn func(*Model)) {
	e.hooksMu.Lock()
	defer e.hooksMu.Unlock()
	e.onPublish = append(e.onPublish, fn)
}

// Publish installs m as the current model and returns the published copy,
// which carries the next version number. A model restored from storage keeps
// its own version when that is higher.
func (e *Engine) Publish(m *Model) *Model {
	e.writeMu.Lock()
	published := e.publishLocked(m)
	e.writeMu.Unlock()

	e.runHooks(published)
	return published
}

// publishLocked must be called with writeMu held.
func (e *Engine) publishLocked(m *Model) *Model {
	next := *m
	next.Version = e.model.Load().Version + 1
	if m.Version > next.Version {
		next.Version = m.Version
	}
	e.model.Store(&next)

	if e.cache != nil {
		e.cache.Clear()
		metrics.CacheSize.WithLabelValues("recommend").Set(0)
	}

	st := next.Status()
	metrics.UpdateModelGauges(st.Version, st.Movies, st.Vocabulary, st.Users, st.RatedMovies, st.Factors)

	e.logger.Info().
		Int64("version", st.Version).
		Bool("content", st.ContentFitted).
		Bool("collaborative", st.CollaborativeFitted).
		Msg("model published")

	return &next
}

func (e *Engine) runHooks(m *Model) {
	e.hooksMu.RLock()
	hooks := append([]func(*Model){}, e.onPublish...)
	e.hooksMu.RUnlock()

	for _, fn := range hooks {
		fn(m)
	}
}

// FitContent vectorizes movies and publishes a model with the new content side.
// A nil fields slice uses the configured feature fields.
func (e *Engine) FitContent(ctx context.Context, movies []Movie, fields []string) error {
	if fields == nil {
		fields = e.config.Content.Fields
	}

	content, err := FitContentModel(ctx, movies, fields, e.config.Content)
	if err != nil {
		return err
	}

	e.writeMu.Lock()
	published := e.publishLocked(e.model.Load().withContent(content, time.Now().UTC()))
	e.writeMu.Unlock()

	e.runHooks(published)
	return nil
}

// FitContentModel builds a content model without publishing it.
//
//nolint:gocritic // hugeParam: cfg passed by value for immutability
func FitContentModel(ctx context.Context, movies []Movie, fields []string, cfg ContentConfig) (*ContentModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	catalog := NewCatalog(movies)
	space, err := NewVectorizer(cfg).Fit(catalog.movies, fields)
	if err != nil {
		return nil, fmt.Errorf("fit content model: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return NewContentModel(catalog, space), nil
}

// FitCollaborative factors the rating stream with k latent factors and
// publishes a model with the new collaborative side.
func (e *Engine) FitCollaborative(ctx context.Context, ratings []Rating, k int) error {
	collab, err := FitCollaborativeModel(ctx, ratings, k, e.config.Collaborative.DuplicatePolicy)
	if err != nil {
		return err
	}

	e.writeMu.Lock()
	published := e.publishLocked(e.model.Load().withCollaborative(collab, time.Now().UTC()))
	e.writeMu.Unlock()

	e.runHooks(published)
	return nil
}

// FitCollaborativeModel builds a latent factor model without publishing it.
func FitCollaborativeModel(ctx context.Context, ratings []Rating, k int, policy DuplicatePolicy) (*LatentFactorModel, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matrix, err := BuildRatingMatrix(ratings, policy)
	if err != nil {
		return nil, fmt.Errorf("build rating matrix: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	collab, err := FitLatentFactors(matrix, k)
	if err != nil {
		return nil, fmt.Errorf("fit latent factors: %w", err)
	}
	return collab, nil
}

// ContentRecommendations returns up to n movies similar to title.
func (e *Engine) ContentRecommendations(title string, n int) ([]Recommendation, error) {
	return e.serve(SourceContent, func(m *Model) (string, error) {
		if n < 1 {
			return "", fmt.Errorf("%w: n must be positive, got %d", ErrConfiguration, n)
		}
		if m.content == nil {
			return "", fmt.Errorf("%w: content model", ErrNotFitted)
		}
		return fmt.Sprintf("similar|%s|%d", normalizeTitle(title), n), nil
	}, func(m *Model) ([]Recommendation, error) {
		return m.Similar(title, n)
	})
}

// CollaborativeRecommendations returns up to n unrated movies for userID.
func (e *Engine) CollaborativeRecommendations(userID, n int) ([]Recommendation, error) {
	return e.serve(SourceCollaborative, func(m *Model) (string, error) {
		if n < 1 {
			return "", fmt.Errorf("%w: n must be positive, got %d", ErrConfiguration, n)
		}
		if m.collab == nil {
			return "", fmt.Errorf("%w: collaborative model", ErrNotFitted)
		}
		return fmt.Sprintf("user|%d|%d", userID, n), nil
	}, func(m *Model) ([]Recommendation, error) {
		return m.Predict(userID, n)
	})
}

// HybridRecommendations blends content candidates for q.Title with
// collaborative candidates for q.UserID. Each requested side contributes
// q.N times the configured candidate multiplier before blending. A requested
// side that is not fitted is skipped; ErrNotFitted is returned only when no
// requested side is fitted.
//
//nolint:gocritic // hugeParam: q passed by value for immutability
func (e *Engine) HybridRecommendations(q HybridQuery) ([]Recommendation, error) {
	w := e.config.Hybrid.Weights()
	if q.Weights != nil {
		w = *q.Weights
	}

	return e.serve(SourceHybrid, func(m *Model) (string, error) {
		if q.N < 1 {
			return "", fmt.Errorf("%w: n must be positive, got %d", ErrConfiguration, q.N)
		}
		if !finite(w.Content) || !finite(w.Collab) {
			return "", fmt.Errorf("%w: hybrid weights must be finite", ErrConfiguration)
		}
		if q.Title == "" && q.UserID == nil {
			return "", fmt.Errorf("%w: hybrid query needs a title or a user id", ErrConfiguration)
		}
		if (q.Title == "" || m.content == nil) && (q.UserID == nil || m.collab == nil) {
			return "", fmt.Errorf("%w: no requested side is fitted", ErrNotFitted)
		}

		user := "-"
		if q.UserID != nil {
			user = fmt.Sprint(*q.UserID)
		}
		return fmt.Sprintf("hybrid|%s|%s|%d|%g|%g", normalizeTitle(q.Title), user, q.N, w.Content, w.Collab), nil
	}, func(m *Model) ([]Recommendation, error) {
		candidates := q.N * e.config.Hybrid.CandidateMultiplier

		var content, collab []Recommendation
		if q.Title != "" && m.content != nil {
			content = m.content.Similar(q.Title, candidates)
		}
		if q.UserID != nil && m.collab != nil {
			collab = m.collab.Predict(*q.UserID, candidates, m.Catalog())
		}
		return Blend(content, collab, w, q.N), nil
	})
}

// serve runs one recommendation call against a single model snapshot.
// prepare validates the request and returns the cache key; compute produces the list.
func (e *Engine) serve(source ScoreSource, prepare func(*Model) (string, error), compute func(*Model) ([]Recommendation, error)) ([]Recommendation, error) {
	start := time.Now()
	e.requestCount.Add(1)
	m := e.model.Load()

	key, err := prepare(m)
	if err != nil {
		metrics.RecordRecommendation(string(source), 0, time.Since(start), err, errors.Is(err, ErrNotFitted))
		return nil, err
	}
	key = fmt.Sprintf("v%d|%s", m.Version, key)

	if e.cache != nil {
		if recs, ok := e.cache.Get(key); ok {
			e.cacheHits.Add(1)
			metrics.RecordCacheLookup("recommend", true)
			metrics.RecordRecommendation(string(source), len(recs), time.Since(start), nil, false)
			return cloneRecommendations(recs), nil
		}
		e.cacheMisses.Add(1)
		metrics.RecordCacheLookup("recommend", false)
	}

	recs, err := compute(m)
	metrics.RecordRecommendation(string(source), len(recs), time.Since(start), err, errors.Is(err, ErrNotFitted))
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(key, cloneRecommendations(recs))
		metrics.CacheSize.WithLabelValues("recommend").Set(float64(e.cache.Len()))
	}

	e.logger.Debug().
		Str("source", string(source)).
		Int("results", len(recs)).
		Dur("latency", time.Since(start)).
		Msg("recommendation complete")

	return recs, nil
}

// Evaluate measures the collaborative side against held-out ratings at cutoff k.
// Other evaluation parameters come from configuration.
func (e *Engine) Evaluate(heldOut []Rating, k int) (EvaluationResult, error) {
	m := e.model.Load()
	if m.collab == nil {
		return EvaluationResult{}, fmt.Errorf("%w: collaborative model", ErrNotFitted)
	}

	opts := EvaluationOptionsFromConfig(e.config.Evaluation)
	opts.K = k

	start := time.Now()
	result, err := Evaluate(PredictorFunc(m.Predict), heldOut, opts)
	if err != nil {
		return EvaluationResult{}, err
	}

	metrics.UpdateEvaluationScores(result.PrecisionAtK, result.RecallAtK, result.F1AtK)
	e.logger.Info().
		Int("k", result.K).
		Int("users_evaluated", result.UsersEvaluated).
		Float64("precision", result.PrecisionAtK).
		Float64("recall", result.RecallAtK).
		Float64("f1", result.F1AtK).
		Dur("duration", time.Since(start)).
		Msg("evaluation complete")

	return result, nil
}

// Status returns the published model's status with engine counters.
func (e *Engine) Status() Status {
	s := e.model.Load().Status()
	s.RequestCount = e.requestCount.Load()
	s.CacheHits = e.cacheHits.Load()
	s.CacheMisses = e.cacheMisses.Load()
	return s
}

func cloneRecommendations(recs []Recommendation) []Recommendation {
	return append([]Recommendation{}, recs...)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
