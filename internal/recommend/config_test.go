// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() error = %v", err)
	}

	if cfg.Collaborative.Factors != 50 {
		t.Errorf("Collaborative.Factors = %d, want 50", cfg.Collaborative.Factors)
	}
	if cfg.Content.MaxFeatures != 5000 || cfg.Content.NGramMax != 2 || !cfg.Content.StopWords {
		t.Errorf("Content = %+v, want 5000 features, bigrams, stop words", cfg.Content)
	}
	if w := cfg.Hybrid.Weights(); w.Content != 0.5 || w.Collab != 0.5 {
		t.Errorf("Hybrid.Weights() = %+v, want 0.5/0.5", w)
	}
	if cfg.Hybrid.CandidateMultiplier != 2 {
		t.Errorf("Hybrid.CandidateMultiplier = %d, want 2", cfg.Hybrid.CandidateMultiplier)
	}
	if cfg.Evaluation.K != 10 || cfg.Evaluation.MaxUsers != 100 || cfg.Evaluation.RelevanceThreshold != 4.0 {
		t.Errorf("Evaluation = %+v, want K=10 over 100 users at 4.0", cfg.Evaluation)
	}
	if cfg.Training.Seed != 42 || cfg.Training.TestFraction != 0.2 || cfg.Training.MinRatingsPerMovie != 10 {
		t.Errorf("Training = %+v", cfg.Training)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "no fields", mutate: func(c *Config) { c.Content.Fields = nil }, wantErr: "content.fields"},
		{name: "negative max features", mutate: func(c *Config) { c.Content.MaxFeatures = -1 }, wantErr: "content.max_features"},
		{name: "zero ngram", mutate: func(c *Config) { c.Content.NGramMax = 0 }, wantErr: "content.ngram_max"},
		{name: "zero factors", mutate: func(c *Config) { c.Collaborative.Factors = 0 }, wantErr: "collaborative.factors"},
		{name: "bad duplicate policy", mutate: func(c *Config) { c.Collaborative.DuplicatePolicy = "max" }, wantErr: "collaborative.duplicate_policy"},
		{name: "zero multiplier", mutate: func(c *Config) { c.Hybrid.CandidateMultiplier = 0 }, wantErr: "hybrid.candidate_multiplier"},
		{name: "zero k", mutate: func(c *Config) { c.Evaluation.K = 0 }, wantErr: "evaluation.k"},
		{name: "negative max users", mutate: func(c *Config) { c.Evaluation.MaxUsers = -1 }, wantErr: "evaluation.max_users"},
		{name: "test fraction one", mutate: func(c *Config) { c.Training.TestFraction = 1 }, wantErr: "training.test_fraction"},
		{name: "zero timeout", mutate: func(c *Config) { c.Training.Timeout = 0 }, wantErr: "training.timeout"},
		{name: "negative interval", mutate: func(c *Config) { c.Training.Interval = -time.Second }, wantErr: "training.interval"},
		{name: "zero retained versions", mutate: func(c *Config) { c.Training.RetainVersions = 0 }, wantErr: "training.retain_versions"},
		{name: "max below default", mutate: func(c *Config) { c.Limits.MaxN = 5 }, wantErr: "limits.max_n"},
		{name: "zero cache ttl", mutate: func(c *Config) { c.Cache.TTL = 0 }, wantErr: "cache.ttl"},
		{name: "disabled cache skips checks", mutate: func(c *Config) { c.Cache.Enabled = false; c.Cache.TTL = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_Clone(t *testing.T) {
	cfg := DefaultConfig()
	clone := cfg.Clone()

	clone.Content.Fields[0] = "title"
	clone.Collaborative.Factors = 7

	if cfg.Content.Fields[0] != FieldGenres {
		t.Errorf("Clone() shares Fields with the original")
	}
	if cfg.Collaborative.Factors != 50 {
		t.Errorf("Clone() shares scalar fields with the original")
	}
}

func TestConfig_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(DefaultConfig())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}

	if got := decoded["training"]["timeout"]; got != "10m0s" {
		t.Errorf("training.timeout = %v, want \"10m0s\"", got)
	}
	if got := decoded["cache"]["ttl"]; got != "5m0s" {
		t.Errorf("cache.ttl = %v, want \"5m0s\"", got)
	}
	if got := decoded["collaborative"]["factors"]; got != float64(50) {
		t.Errorf("collaborative.factors = %v, want 50", got)
	}
}
