// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import "fmt"

// Predictor produces ranked recommendations for a user.
type Predictor interface {
	Predict(userID, n int) ([]Recommendation, error)
}

// PredictorFunc adapts a function to the Predictor interface.
type PredictorFunc func(userID, n int) ([]Recommendation, error)

// Predict calls f.
func (f PredictorFunc) Predict(userID, n int) ([]Recommendation, error) {
	return f(userID, n)
}

// EvaluationOptions controls Evaluate.
type EvaluationOptions struct {
	K                        int
	MaxUsers                 int
	RelevanceThreshold       float64
	SkipEmptyRecommendations bool
}

// DefaultEvaluationOptions returns K=10 over the first 100 users with
// ratings of 4.0 and above counted as relevant.
func DefaultEvaluationOptions() EvaluationOptions {
	return EvaluationOptions{
		K:                        10,
		MaxUsers:                 100,
		RelevanceThreshold:       4.0,
		SkipEmptyRecommendations: true,
	}
}

// EvaluationOptionsFromConfig maps evaluation configuration to options.
//
//nolint:gocritic // hugeParam: cfg passed by value for immutability
func EvaluationOptionsFromConfig(cfg EvaluationConfig) EvaluationOptions {
	return EvaluationOptions{
		K:                        cfg.K,
		MaxUsers:                 cfg.MaxUsers,
		RelevanceThreshold:       cfg.RelevanceThreshold,
		SkipEmptyRecommendations: cfg.SkipEmptyRecommendations,
	}
}

// Evaluate measures precision, recall and F1 at K of p against held-out ratings.
//
// Users are taken in order of first appearance in heldOut, up to MaxUsers.
// Users without any relevant held-out rating are skipped. F1 is computed
// from the mean precision and mean recall. Degenerate cases yield zeros.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func Evaluate(p Predictor, heldOut []Rating, opts EvaluationOptions) (EvaluationResult, error) {
	if opts.K < 1 {
		return EvaluationResult{}, fmt.Errorf("%w: k must be positive, got %d", ErrConfiguration, opts.K)
	}
	result := EvaluationResult{K: opts.K}

	users, relevant := sampleUsers(heldOut, opts.MaxUsers, opts.RelevanceThreshold)
	result.UsersSampled = len(users)

	var sumPrecision, sumRecall float64
	for _, u := range users {
		rel := relevant[u]
		if len(rel) == 0 {
			continue
		}

		recs, err := p.Predict(u, opts.K)
		if err != nil {
			return EvaluationResult{}, fmt.Errorf("predict for user %d: %w", u, err)
		}
		if len(recs) == 0 && opts.SkipEmptyRecommendations {
			continue
		}
		if len(recs) > opts.K {
			recs = recs[:opts.K]
		}

		hits := 0
		seen := make(map[int]struct{}, len(recs))
		for _, r := range recs {
			if _, dup := seen[r.MovieID]; dup {
				continue
			}
			seen[r.MovieID] = struct{}{}
			if _, ok := rel[r.MovieID]; ok {
				hits++
			}
		}

		sumPrecision += float64(hits) / float64(opts.K)
		sumRecall += float64(hits) / float64(len(rel))
		result.UsersEvaluated++
	}

	if result.UsersEvaluated == 0 {
		return result, nil
	}

	result.PrecisionAtK = sumPrecision / float64(result.UsersEvaluated)
	result.RecallAtK = sumRecall / float64(result.UsersEvaluated)
	if sum := result.PrecisionAtK + result.RecallAtK; sum > 0 {
		result.F1AtK = 2 * result.PrecisionAtK * result.RecallAtK / sum
	}
	return result, nil
}

// sampleUsers returns up to maxUsers distinct users in first-appearance order
// and, per user, the set of movies rated at or above threshold.
func sampleUsers(ratings []Rating, maxUsers int, threshold float64) ([]int, map[int]map[int]struct{}) {
	users := make([]int, 0)
	seen := make(map[int]struct{})
	for _, r := range ratings {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		if maxUsers > 0 && len(users) == maxUsers {
			break
		}
		seen[r.UserID] = struct{}{}
		users = append(users, r.UserID)
	}

	relevant := make(map[int]map[int]struct{}, len(users))
	for _, r := range ratings {
		if _, ok := seen[r.UserID]; !ok || r.Value < threshold {
			continue
		}
		set := relevant[r.UserID]
		if set == nil {
			set = make(map[int]struct{})
			relevant[r.UserID] = set
		}
		set[r.MovieID] = struct{}{}
	}
	return users, relevant
}
