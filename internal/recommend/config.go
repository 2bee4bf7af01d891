// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Content contains parameters for the TF-IDF content model.
	Content ContentConfig `json:"content" koanf:"content"`

	// Collaborative contains parameters for the latent factor model.
	Collaborative CollaborativeConfig `json:"collaborative" koanf:"collaborative"`

	// Hybrid contains the default blend weights.
	Hybrid HybridConfig `json:"hybrid" koanf:"hybrid"`

	// Evaluation contains offline evaluation parameters.
	Evaluation EvaluationConfig `json:"evaluation" koanf:"evaluation"`

	// Training contains the offline training pipeline parameters.
	Training TrainingConfig `json:"training" koanf:"training"`

	// Limits contains request limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`

	// Cache contains response caching parameters.
	Cache CacheConfig `json:"cache" koanf:"cache"`
}

// ContentConfig contains parameters for the content model.
type ContentConfig struct {
	// Fields lists the movie text fields concatenated into one document.
	// Default: genres, overview, keywords.
	Fields []string `json:"fields" koanf:"fields"`

	// MaxFeatures caps the vocabulary size.
	// Default: 5000.
	MaxFeatures int `json:"max_features" koanf:"max_features"`

	// NGramMax is the longest n-gram extracted. Unigrams are always included.
	// Default: 2.
	NGramMax int `json:"ngram_max" koanf:"ngram_max"`

	// StopWords enables English stop word removal.
	// Default: true.
	StopWords bool `json:"stop_words" koanf:"stop_words"`
}

// CollaborativeConfig contains parameters for the latent factor model.
type CollaborativeConfig struct {
	// Factors is the number of singular values kept.
	// Must be smaller than min(users, movies) of the training matrix.
	// Default: 50.
	Factors int `json:"factors" koanf:"factors"`

	// DuplicatePolicy decides how repeated (user, movie) ratings collapse.
	// Default: "mean".
	DuplicatePolicy DuplicatePolicy `json:"duplicate_policy" koanf:"duplicate_policy"`
}

// HybridConfig contains the default blend parameters.
type HybridConfig struct {
	// ContentWeight scales the normalized similarity score.
	// Default: 0.5.
	ContentWeight float64 `json:"content_weight" koanf:"content_weight"`

	// CollabWeight scales the normalized predicted rating.
	// Default: 0.5.
	CollabWeight float64 `json:"collab_weight" koanf:"collab_weight"`

	// CandidateMultiplier is how many candidates per requested result each
	// source contributes before blending.
	// Default: 2.
	CandidateMultiplier int `json:"candidate_multiplier" koanf:"candidate_multiplier"`
}

// Weights returns the configured default weights.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (h HybridConfig) Weights() HybridWeights {
	return HybridWeights{Content: h.ContentWeight, Collab: h.CollabWeight}
}

// EvaluationConfig contains offline evaluation parameters.
type EvaluationConfig struct {
	// K is the ranking cutoff.
	// Default: 10.
	K int `json:"k" koanf:"k"`

	// MaxUsers caps how many distinct held-out users are sampled.
	// Zero evaluates every user.
	// Default: 100.
	MaxUsers int `json:"max_users" koanf:"max_users"`

	// RelevanceThreshold is the minimum held-out rating counted as relevant.
	// Default: 4.0.
	RelevanceThreshold float64 `json:"relevance_threshold" koanf:"relevance_threshold"`

	// SkipEmptyRecommendations excludes users that receive no
	// recommendations from the averages.
	// Default: true.
	SkipEmptyRecommendations bool `json:"skip_empty_recommendations" koanf:"skip_empty_recommendations"`
}

// TrainingConfig contains training pipeline parameters.
type TrainingConfig struct {
	// MinRatingsPerMovie drops movies with fewer ratings before fitting.
	// Default: 10.
	MinRatingsPerMovie int `json:"min_ratings_per_movie" koanf:"min_ratings_per_movie"`

	// TestFraction is the share of ratings held out for evaluation.
	// Default: 0.2.
	TestFraction float64 `json:"test_fraction" koanf:"test_fraction"`

	// Seed drives the train/test shuffle.
	// Default: 42.
	Seed int64 `json:"seed" koanf:"seed"`

	// Timeout bounds a full training run.
	// Default: 10m.
	Timeout time.Duration `json:"timeout" koanf:"timeout"`

	// Interval is the time between scheduled retraining runs.
	// Zero disables scheduled retraining.
	// Default: 24h.
	Interval time.Duration `json:"interval" koanf:"interval"`

	// RetainVersions is the number of stored model versions to keep.
	// Default: 3.
	RetainVersions int `json:"retain_versions" koanf:"retain_versions"`
}

// LimitsConfig contains request limits.
type LimitsConfig struct {
	// DefaultN is used when a request does not specify a result count.
	// Default: 10.
	DefaultN int `json:"default_n" koanf:"default_n"`

	// MaxN is the largest result count accepted.
	// Default: 100.
	MaxN int `json:"max_n" koanf:"max_n"`
}

// CacheConfig contains caching parameters.
type CacheConfig struct {
	// Enabled controls whether caching is active.
	// Default: true.
	Enabled bool `json:"enabled" koanf:"enabled"`

	// TTL is the cache entry time-to-live.
	// Default: 5m.
	TTL time.Duration `json:"ttl" koanf:"ttl"`

	// MaxEntries is the maximum number of cached responses.
	// Default: 10000.
	MaxEntries int `json:"max_entries" koanf:"max_entries"`
}

// DefaultConfig returns a Config with sensible production defaults.
func DefaultConfig() *Config {
	return &Config{
		Content: ContentConfig{
			Fields:      append([]string(nil), DefaultFeatureFields...),
			MaxFeatures: 5000,
			NGramMax:    2,
			StopWords:   true,
		},
		Collaborative: CollaborativeConfig{
			Factors:         50,
			DuplicatePolicy: DuplicateMean,
		},
		Hybrid: HybridConfig{
			ContentWeight:       0.5,
			CollabWeight:        0.5,
			CandidateMultiplier: 2,
		},
		Evaluation: EvaluationConfig{
			K:                        10,
			MaxUsers:                 100,
			RelevanceThreshold:       4.0,
			SkipEmptyRecommendations: true,
		},
		Training: TrainingConfig{
			MinRatingsPerMovie: 10,
			TestFraction:       0.2,
			Seed:               42,
			Timeout:            10 * time.Minute,
			Interval:           24 * time.Hour,
			RetainVersions:     3,
		},
		Limits: LimitsConfig{
			DefaultN: 10,
			MaxN:     100,
		},
		Cache: CacheConfig{
			Enabled:    true,
			TTL:        5 * time.Minute,
			MaxEntries: 10000,
		},
	}
}

// Validate checks the configuration for errors.
//
//nolint:gocyclo // validation needs to check many fields
func (c *Config) Validate() error {
	if len(c.Content.Fields) == 0 {
		return fmt.Errorf("content.fields must not be empty")
	}
	if c.Content.MaxFeatures < 0 {
		return fmt.Errorf("content.max_features must be non-negative, got %d", c.Content.MaxFeatures)
	}
	if c.Content.NGramMax < 1 {
		return fmt.Errorf("content.ngram_max must be positive, got %d", c.Content.NGramMax)
	}

	if c.Collaborative.Factors < 1 {
		return fmt.Errorf("collaborative.factors must be positive, got %d", c.Collaborative.Factors)
	}
	if _, err := ParseDuplicatePolicy(string(c.Collaborative.DuplicatePolicy)); err != nil {
		return fmt.Errorf("collaborative.duplicate_policy: %w", err)
	}

	if c.Hybrid.CandidateMultiplier < 1 {
		return fmt.Errorf("hybrid.candidate_multiplier must be positive, got %d", c.Hybrid.CandidateMultiplier)
	}

	if c.Evaluation.K < 1 {
		return fmt.Errorf("evaluation.k must be positive, got %d", c.Evaluation.K)
	}
	if c.Evaluation.MaxUsers < 0 {
		return fmt.Errorf("evaluation.max_users must be non-negative, got %d", c.Evaluation.MaxUsers)
	}

	if c.Training.MinRatingsPerMovie < 0 {
		return fmt.Errorf("training.min_ratings_per_movie must be non-negative, got %d", c.Training.MinRatingsPerMovie)
	}
	if c.Training.TestFraction <= 0 || c.Training.TestFraction >= 1 {
		return fmt.Errorf("training.test_fraction must be in (0, 1), got %f", c.Training.TestFraction)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training.timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.Interval < 0 {
		return fmt.Errorf("training.interval must be non-negative, got %v", c.Training.Interval)
	}
	if c.Training.RetainVersions < 1 {
		return fmt.Errorf("training.retain_versions must be positive, got %d", c.Training.RetainVersions)
	}

	if c.Limits.DefaultN < 1 {
		return fmt.Errorf("limits.default_n must be positive, got %d", c.Limits.DefaultN)
	}
	if c.Limits.MaxN < c.Limits.DefaultN {
		return fmt.Errorf("limits.max_n must be >= limits.default_n, got %d < %d", c.Limits.MaxN, c.Limits.DefaultN)
	}

	if c.Cache.Enabled {
		if c.Cache.TTL <= 0 {
			return fmt.Errorf("cache.ttl must be positive when caching is enabled, got %v", c.Cache.TTL)
		}
		if c.Cache.MaxEntries < 1 {
			return fmt.Errorf("cache.max_entries must be positive when caching is enabled, got %d", c.Cache.MaxEntries)
		}
	}

	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	out := *c
	out.Content.Fields = append([]string(nil), c.Content.Fields...)
	return &out
}

// MarshalJSON renders durations as strings ("10m0s") instead of nanoseconds.
func (c *Config) MarshalJSON() ([]byte, error) {
	type Alias Config
	return json.Marshal(&struct {
		*Alias
		Training struct {
			MinRatingsPerMovie int     `json:"min_ratings_per_movie"`
			TestFraction       float64 `json:"test_fraction"`
			Seed               int64   `json:"seed"`
			Timeout            string  `json:"timeout"`
			Interval           string  `json:"interval"`
			RetainVersions     int     `json:"retain_versions"`
		} `json:"training"`
		Cache struct {
			Enabled    bool   `json:"enabled"`
			TTL        string `json:"ttl"`
			MaxEntries int    `json:"max_entries"`
		} `json:"cache"`
	}{
		Alias: (*Alias)(c),
		Training: struct {
			MinRatingsPerMovie int     `json:"min_ratings_per_movie"`
			TestFraction       float64 `json:"test_fraction"`
			Seed               int64   `json:"seed"`
			Timeout            string  `json:"timeout"`
			Interval           string  `json:"interval"`
			RetainVersions     int     `json:"retain_versions"`
		}{
			MinRatingsPerMovie: c.Training.MinRatingsPerMovie,
			TestFraction:       c.Training.TestFraction,
			Seed:               c.Training.Seed,
			Timeout:            c.Training.Timeout.String(),
			Interval:           c.Training.Interval.String(),
			RetainVersions:     c.Training.RetainVersions,
		},
		Cache: struct {
			Enabled    bool   `json:"enabled"`
			TTL        string `json:"ttl"`
			MaxEntries int    `json:"max_entries"`
		}{
			Enabled:    c.Cache.Enabled,
			TTL:        c.Cache.TTL.String(),
			MaxEntries: c.Cache.MaxEntries,
		},
	})
}
