// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"errors"
	"testing"
)

// fakePredictor serves fixed lists per user.
type fakePredictor struct {
	lists map[int][]int
	calls []int
}

func (f *fakePredictor) Predict(userID, n int) ([]Recommendation, error) {
	f.calls = append(f.calls, userID)
	ids := f.lists[userID]
	if len(ids) > n {
		ids = ids[:n]
	}
	out := make([]Recommendation, len(ids))
	for i, id := range ids {
		out[i] = Recommendation{MovieID: id, Score: float64(len(ids) - i)}
	}
	return out, nil
}

func TestEvaluate(t *testing.T) {
	heldOut := []Rating{
		{UserID: 1, MovieID: 10, Value: 5},
		{UserID: 2, MovieID: 10, Value: 3},
		{UserID: 1, MovieID: 20, Value: 4},
		{UserID: 1, MovieID: 30, Value: 2},
	}
	p := &fakePredictor{lists: map[int][]int{1: {10, 40}, 2: {10}}}

	opts := DefaultEvaluationOptions()
	opts.K = 2

	got, err := Evaluate(p, heldOut, opts)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	want := EvaluationResult{PrecisionAtK: 0.5, RecallAtK: 0.5, F1AtK: 0.5, K: 2, UsersSampled: 2, UsersEvaluated: 1}
	if got != want {
		t.Errorf("Evaluate() = %+v, want %+v", got, want)
	}
	if len(p.calls) != 1 || p.calls[0] != 1 {
		t.Errorf("predictor calls = %v, want [1] (user 2 has no relevant items)", p.calls)
	}
}

func TestEvaluate_NoRelevantItems(t *testing.T) {
	heldOut := []Rating{
		{UserID: 1, MovieID: 10, Value: 3.5},
		{UserID: 2, MovieID: 20, Value: 1},
	}
	p := &fakePredictor{lists: map[int][]int{1: {10}, 2: {20}}}

	got, err := Evaluate(p, heldOut, DefaultEvaluationOptions())
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if got.PrecisionAtK != 0 || got.RecallAtK != 0 || got.F1AtK != 0 || got.UsersEvaluated != 0 {
		t.Errorf("Evaluate() = %+v, want zeros", got)
	}
}

func TestEvaluate_EmptyRecommendations(t *testing.T) {
	heldOut := []Rating{
		{UserID: 1, MovieID: 10, Value: 5},
		{UserID: 2, MovieID: 20, Value: 5},
	}
	p := &fakePredictor{lists: map[int][]int{1: {10}}}

	tests := []struct {
		name          string
		skip          bool
		wantEvaluated int
		wantPrecision float64
	}{
		{name: "skipped", skip: true, wantEvaluated: 1, wantPrecision: 0.1},
		{name: "counted as misses", skip: false, wantEvaluated: 2, wantPrecision: 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultEvaluationOptions()
			opts.SkipEmptyRecommendations = tt.skip

			got, err := Evaluate(p, heldOut, opts)
			if err != nil {
				t.Fatalf("Evaluate() error = %v", err)
			}
			if got.UsersEvaluated != tt.wantEvaluated {
				t.Errorf("UsersEvaluated = %d, want %d", got.UsersEvaluated, tt.wantEvaluated)
			}
			if got.PrecisionAtK != tt.wantPrecision {
				t.Errorf("PrecisionAtK = %f, want %f", got.PrecisionAtK, tt.wantPrecision)
			}
		})
	}
}

func TestEvaluate_MaxUsers(t *testing.T) {
	heldOut := []Rating{
		{UserID: 5, MovieID: 1, Value: 5},
		{UserID: 3, MovieID: 1, Value: 5},
		{UserID: 5, MovieID: 2, Value: 5},
		{UserID: 7, MovieID: 1, Value: 5},
	}
	p := &fakePredictor{lists: map[int][]int{5: {1}, 3: {1}, 7: {1}}}

	opts := DefaultEvaluationOptions()
	opts.MaxUsers = 2

	got, err := Evaluate(p, heldOut, opts)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if got.UsersSampled != 2 {
		t.Errorf("UsersSampled = %d, want 2", got.UsersSampled)
	}
	if len(p.calls) != 2 || p.calls[0] != 5 || p.calls[1] != 3 {
		t.Errorf("predictor calls = %v, want [5 3]", p.calls)
	}
}

func TestEvaluate_InvalidK(t *testing.T) {
	opts := DefaultEvaluationOptions()
	opts.K = 0
	if _, err := Evaluate(&fakePredictor{}, nil, opts); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Evaluate(k=0) error = %v, want ErrConfiguration", err)
	}
}

func TestEvaluate_PredictorError(t *testing.T) {
	boom := errors.New("boom")
	p := PredictorFunc(func(int, int) ([]Recommendation, error) { return nil, boom })

	_, err := Evaluate(p, []Rating{{UserID: 1, MovieID: 1, Value: 5}}, DefaultEvaluationOptions())
	if !errors.Is(err, boom) {
		t.Errorf("Evaluate() error = %v, want wrapped boom", err)
	}
}
