// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewEngine(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		e, err := NewEngine(nil, zerolog.Nop())
		if err != nil {
			t.Fatalf("NewEngine() error = %v", err)
		}
		if e.Current() == nil || e.Current().Version != 0 {
			t.Errorf("Current() = %+v, want empty version 0 model", e.Current())
		}
	})

	t.Run("invalid config", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Collaborative.Factors = 0
		if _, err := NewEngine(cfg, zerolog.Nop()); !errors.Is(err, ErrConfiguration) {
			t.Errorf("NewEngine() error = %v, want ErrConfiguration", err)
		}
	})
}

func TestEngine_NotFitted(t *testing.T) {
	e := newTestEngine(t, nil)
	user := 1

	tests := []struct {
		name string
		call func() error
	}{
		{name: "content", call: func() error { _, err := e.ContentRecommendations("Inception", 5); return err }},
		{name: "collaborative", call: func() error { _, err := e.CollaborativeRecommendations(1, 5); return err }},
		{name: "hybrid", call: func() error {
			_, err := e.HybridRecommendations(HybridQuery{UserID: &user, Title: "Inception", N: 5})
			return err
		}},
		{name: "evaluate", call: func() error { _, err := e.Evaluate(smallRatings(), 10); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, ErrNotFitted) {
				t.Errorf("error = %v, want ErrNotFitted", err)
			}
		})
	}
}

func TestEngine_ContentAndCollaborative(t *testing.T) {
	e := fittedEngine(t)

	similar, err := e.ContentRecommendations("Inception", 1)
	if err != nil {
		t.Fatalf("ContentRecommendations() error = %v", err)
	}
	if !reflect.DeepEqual(titles(similar), []string{"The Matrix"}) {
		t.Errorf("ContentRecommendations() = %v, want [The Matrix]", titles(similar))
	}

	personal, err := e.CollaborativeRecommendations(1, 1)
	if err != nil {
		t.Fatalf("CollaborativeRecommendations() error = %v", err)
	}
	if len(personal) != 1 || personal[0].MovieID != 3 || personal[0].Title != "Titanic" {
		t.Errorf("CollaborativeRecommendations() = %+v, want Titanic", personal)
	}

	if _, err := e.ContentRecommendations("Inception", 0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("ContentRecommendations(n=0) error = %v, want ErrConfiguration", err)
	}

	unknown, err := e.ContentRecommendations("Unknown Movie", 5)
	if err != nil || len(unknown) != 0 {
		t.Errorf("ContentRecommendations(unknown) = %v, %v, want empty, nil", unknown, err)
	}
}

func TestEngine_HybridRecommendations(t *testing.T) {
	e := fittedEngine(t)
	user := 1

	t.Run("blends both sides", func(t *testing.T) {
		got, err := e.HybridRecommendations(HybridQuery{UserID: &user, Title: "Inception", N: 5})
		if err != nil {
			t.Fatalf("HybridRecommendations() error = %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("HybridRecommendations() returned %d entries, want 2", len(got))
		}
		for _, r := range got {
			if r.Source != SourceHybrid {
				t.Errorf("Source = %q, want %q", r.Source, SourceHybrid)
			}
		}
	})

	t.Run("title only returns content verbatim", func(t *testing.T) {
		got, err := e.HybridRecommendations(HybridQuery{Title: "Inception", N: 2})
		if err != nil {
			t.Fatalf("HybridRecommendations() error = %v", err)
		}
		want, _ := e.ContentRecommendations("Inception", 2)
		if !reflect.DeepEqual(got, want) {
			t.Errorf("HybridRecommendations() = %+v, want %+v", got, want)
		}
	})

	t.Run("weights override", func(t *testing.T) {
		w := HybridWeights{Content: -1, Collab: 1}
		got, err := e.HybridRecommendations(HybridQuery{UserID: &user, Title: "Inception", N: 1, Weights: &w})
		if err != nil {
			t.Fatalf("HybridRecommendations() error = %v", err)
		}
		if len(got) != 1 || got[0].Title != "Titanic" {
			t.Errorf("HybridRecommendations() = %v, want [Titanic]", titles(got))
		}
	})

	t.Run("invalid queries", func(t *testing.T) {
		bad := HybridWeights{Content: 1, Collab: math.NaN()}
		queries := []HybridQuery{
			{N: 5},
			{Title: "Inception", N: 0},
			{Title: "Inception", N: 5, Weights: &bad},
		}
		for _, q := range queries {
			if _, err := e.HybridRecommendations(q); !errors.Is(err, ErrConfiguration) {
				t.Errorf("HybridRecommendations(%+v) error = %v, want ErrConfiguration", q, err)
			}
		}
	})
}

func TestEngine_HybridWithOneSideFitted(t *testing.T) {
	e := newTestEngine(t, nil)
	if err := e.FitContent(context.Background(), threeMovies(), nil); err != nil {
		t.Fatalf("FitContent() error = %v", err)
	}
	user := 1

	got, err := e.HybridRecommendations(HybridQuery{UserID: &user, Title: "Inception", N: 1})
	if err != nil {
		t.Fatalf("HybridRecommendations() error = %v", err)
	}
	if !reflect.DeepEqual(titles(got), []string{"The Matrix"}) {
		t.Errorf("HybridRecommendations() = %v, want [The Matrix]", titles(got))
	}

	if _, err := e.HybridRecommendations(HybridQuery{UserID: &user, N: 1}); !errors.Is(err, ErrNotFitted) {
		t.Errorf("HybridRecommendations(user only) error = %v, want ErrNotFitted", err)
	}
}

func TestEngine_PublishVersionsAndHooks(t *testing.T) {
	e := newTestEngine(t, nil)

	var mu sync.Mutex
	var versions []int64
	e.OnPublish(func(m *Model) {
		mu.Lock()
		defer mu.Unlock()
		versions = append(versions, m.Version)
	})

	ctx := context.Background()
	if err := e.FitContent(ctx, threeMovies(), nil); err != nil {
		t.Fatalf("FitContent() error = %v", err)
	}
	if err := e.FitCollaborative(ctx, smallRatings(), 1); err != nil {
		t.Fatalf("FitCollaborative() error = %v", err)
	}
	e.Publish(e.Current())

	if !reflect.DeepEqual(versions, []int64{1, 2, 3}) {
		t.Errorf("published versions = %v, want [1 2 3]", versions)
	}

	st := e.Status()
	if !st.Ready() || st.Version != 3 {
		t.Errorf("Status() = %+v, want ready at version 3", st)
	}
	if st.Movies != 3 || st.Users != 2 || st.RatedMovies != 3 || st.Factors != 1 {
		t.Errorf("Status() sizes = %+v", st)
	}
}

func TestEngine_FailedFitKeepsModel(t *testing.T) {
	e := fittedEngine(t)
	before := e.Current()

	if err := e.FitCollaborative(context.Background(), smallRatings(), 5); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("FitCollaborative(k=5) error = %v, want ErrConfiguration", err)
	}
	if err := e.FitContent(context.Background(), nil, nil); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("FitContent(nil) error = %v, want ErrConfiguration", err)
	}
	if e.Current() != before {
		t.Error("failed fit replaced the published model")
	}
}

func TestEngine_CanceledContext(t *testing.T) {
	e := newTestEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := e.FitContent(ctx, threeMovies(), nil); !errors.Is(err, context.Canceled) {
		t.Errorf("FitContent() error = %v, want context.Canceled", err)
	}
	if err := e.FitCollaborative(ctx, smallRatings(), 1); !errors.Is(err, context.Canceled) {
		t.Errorf("FitCollaborative() error = %v, want context.Canceled", err)
	}
}

func TestEngine_Cache(t *testing.T) {
	e := fittedEngine(t)

	first, err := e.ContentRecommendations("Inception", 2)
	if err != nil {
		t.Fatalf("ContentRecommendations() error = %v", err)
	}
	first[0].Title = "mutated by caller"

	second, err := e.ContentRecommendations("inception", 2)
	if err != nil {
		t.Fatalf("ContentRecommendations() error = %v", err)
	}
	if second[0].Title != "The Matrix" {
		t.Errorf("cached result was mutated: %v", titles(second))
	}

	st := e.Status()
	if st.CacheHits != 1 || st.CacheMisses != 1 {
		t.Errorf("cache hits/misses = %d/%d, want 1/1", st.CacheHits, st.CacheMisses)
	}

	// A publish invalidates cached lists.
	e.Publish(e.Current())
	if _, err := e.ContentRecommendations("Inception", 2); err != nil {
		t.Fatalf("ContentRecommendations() error = %v", err)
	}
	if st := e.Status(); st.CacheMisses != 2 {
		t.Errorf("cache misses after publish = %d, want 2", st.CacheMisses)
	}
}

func TestEngine_CacheDisabled(t *testing.T) {
	e := newTestEngine(t, func(c *Config) { c.Cache.Enabled = false })
	if err := e.FitContent(context.Background(), threeMovies(), nil); err != nil {
		t.Fatalf("FitContent() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := e.ContentRecommendations("Inception", 2); err != nil {
			t.Fatalf("ContentRecommendations() error = %v", err)
		}
	}
	if st := e.Status(); st.CacheHits != 0 || st.RequestCount != 2 {
		t.Errorf("Status() = %+v, want 0 hits and 2 requests", st)
	}
}

func TestEngine_Evaluate(t *testing.T) {
	e := fittedEngine(t)
	heldOut := []Rating{{UserID: 1, MovieID: 3, Value: 5}}

	got, err := e.Evaluate(heldOut, 1)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if got.PrecisionAtK != 1 || got.RecallAtK != 1 || got.F1AtK != 1 {
		t.Errorf("Evaluate() = %+v, want perfect scores", got)
	}

	if _, err := e.Evaluate(heldOut, 0); !errors.Is(err, ErrConfiguration) {
		t.Errorf("Evaluate(k=0) error = %v, want ErrConfiguration", err)
	}
}

func TestEngine_ConcurrentReadsDuringFits(t *testing.T) {
	e := fittedEngine(t)
	ctx := context.Background()
	user := 2

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				if _, err := e.HybridRecommendations(HybridQuery{UserID: &user, Title: "Titanic", N: 2}); err != nil {
					t.Errorf("HybridRecommendations() error = %v", err)
					return
				}
			}
		}()
	}
	for i := 0; i < 5; i++ {
		if err := e.FitContent(ctx, threeMovies(), nil); err != nil {
			t.Fatalf("FitContent() error = %v", err)
		}
	}
	wg.Wait()
}

func TestEngine_PublishKeepsRestoredVersion(t *testing.T) {
	e := newTestEngine(t, nil)

	restored := NewModel(nil, nil)
	restored.Version = 7
	if got := e.Publish(restored).Version; got != 7 {
		t.Errorf("Publish(restored v7).Version = %d, want 7", got)
	}
	if got := e.Publish(NewModel(nil, nil)).Version; got != 8 {
		t.Errorf("Publish(fresh).Version = %d, want 8", got)
	}
}
