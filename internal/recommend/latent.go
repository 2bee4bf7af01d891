// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
)

// LatentFactorModel predicts ratings from a truncated SVD of the
// mean-centered rating matrix. It is immutable after construction.
type LatentFactorModel struct {
	matrix  *RatingMatrix
	factors *algorithms.Factors
	means   []float64

	// predictions is the reconstructed matrix plus row means.
	predictions *algorithms.Dense
}

// FitLatentFactors factors m keeping the top k singular values.
// k must satisfy 1 <= k < min(users, movies).
func FitLatentFactors(m *RatingMatrix, k int) (*LatentFactorModel, error) {
	if m == nil {
		return nil, fmt.Errorf("%w: rating matrix is nil", ErrData)
	}

	means := algorithms.RowMeans(m.values)
	centered := algorithms.CenterRows(m.values, means)

	factors, err := algorithms.TruncatedSVD(centered, k)
	if err != nil {
		if errors.Is(err, algorithms.ErrInvalidRank) {
			users, movies := m.Dims()
			return nil, fmt.Errorf("%w: factors=%d with %d users and %d movies: %w",
				ErrConfiguration, k, users, movies, err)
		}
		return nil, fmt.Errorf("factorize rating matrix: %w", err)
	}

	return newLatentFactorModel(m, factors, means), nil
}

func newLatentFactorModel(m *RatingMatrix, factors *algorithms.Factors, means []float64) *LatentFactorModel {
	return &LatentFactorModel{
		matrix:      m,
		factors:     factors,
		means:       means,
		predictions: factors.Reconstruct(means),
	}
}

// Matrix returns the rating matrix the model was fitted on.
func (l *LatentFactorModel) Matrix() *RatingMatrix {
	return l.matrix
}

// Factors returns the number of retained singular values.
func (l *LatentFactorModel) Factors() int {
	return l.factors.Rank()
}

// PredictedRating returns the reconstructed rating for a (user, movie) pair.
func (l *LatentFactorModel) PredictedRating(userID, movieID int) (float64, bool) {
	i, ok := l.matrix.UserRow(userID)
	if !ok {
		return 0, false
	}
	j, ok := l.matrix.MovieCol(movieID)
	if !ok {
		return 0, false
	}
	return l.predictions.At(i, j), true
}

// Predict returns up to n movies the user has not rated, ordered by
// predicted rating descending and movie id ascending. Titles and genres are
// joined from catalog when present. An unknown user yields an empty result.
func (l *LatentFactorModel) Predict(userID, n int, catalog *Catalog) []Recommendation {
	out := []Recommendation{}
	if n <= 0 {
		return out
	}
	i, ok := l.matrix.UserRow(userID)
	if !ok {
		return out
	}

	type scored struct {
		movieID int
		score   float64
	}
	row := l.predictions.Row(i)
	candidates := make([]scored, 0, len(row))
	for j, score := range row {
		if l.matrix.Rated(i, j) {
			continue
		}
		candidates = append(candidates, scored{movieID: l.matrix.movieIDs[j], score: score})
	}

	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return candidates[a].movieID < candidates[b].movieID
	})
	if len(candidates) > n {
		candidates = candidates[:n]
	}

	for _, c := range candidates {
		rec := Recommendation{
			MovieID: c.movieID,
			Score:   c.score,
			Source:  SourceCollaborative,
		}
		if catalog != nil {
			if mv, ok := catalog.ByID(c.movieID); ok {
				rec.Title = mv.Title
				rec.Genres = mv.Genres
			}
		}
		out = append(out, rec)
	}
	return out
}
