// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
)

// threeMovies is the Inception / The Matrix / Titanic catalog.
func threeMovies() []Movie {
	return []Movie{
		{ID: 1, Title: "Inception", Genres: "Action Sci-Fi", Overview: "A thief steals secrets through dream sharing heist"},
		{ID: 2, Title: "The Matrix", Genres: "Action Sci-Fi", Overview: "A hacker discovers reality is simulated"},
		{ID: 3, Title: "Titanic", Genres: "Romance Drama", Overview: "Lovers aboard an ill-fated ocean liner"},
	}
}

// smallRatings has two users over movies 1, 2 and 3. User 1 has not rated movie 3.
func smallRatings() []Rating {
	return []Rating{
		{UserID: 1, MovieID: 1, Value: 5},
		{UserID: 1, MovieID: 2, Value: 3},
		{UserID: 2, MovieID: 1, Value: 4},
		{UserID: 2, MovieID: 2, Value: 2},
		{UserID: 2, MovieID: 3, Value: 5},
	}
}

func newTestEngine(t *testing.T, mutate func(*Config)) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return e
}

func fittedEngine(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t, nil)
	ctx := context.Background()
	if err := e.FitContent(ctx, threeMovies(), nil); err != nil {
		t.Fatalf("FitContent() error = %v", err)
	}
	if err := e.FitCollaborative(ctx, smallRatings(), 1); err != nil {
		t.Fatalf("FitCollaborative() error = %v", err)
	}
	return e
}

func titles(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Title
	}
	return out
}
