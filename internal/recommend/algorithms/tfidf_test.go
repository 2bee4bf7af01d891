// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "lowercases", in: "Action Drama", want: []string{"action", "drama"}},
		{name: "splits on punctuation", in: "Sci-Fi, a 3D x-ray!", want: []string{"sci", "fi", "3d", "ray"}},
		{name: "keeps underscores", in: "snake_case words", want: []string{"snake_case", "words"}},
		{name: "unicode letters", in: "Amélie café", want: []string{"amélie", "café"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAnalyzer_Analyze(t *testing.T) {
	t.Run("stop words removed before bigrams", func(t *testing.T) {
		a := NewAnalyzer(EnglishStopWords(), 1, 2)
		got := a.Analyze("The Heist of the Century")
		want := []string{"heist", "century", "heist century"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Analyze() = %v, want %v", got, want)
		}
	})

	t.Run("unigrams only", func(t *testing.T) {
		a := NewAnalyzer(nil, 1, 1)
		got := a.Analyze("the heist")
		want := []string{"the", "heist"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Analyze() = %v, want %v", got, want)
		}
	})

	t.Run("bigrams only", func(t *testing.T) {
		a := NewAnalyzer(nil, 2, 2)
		got := a.Analyze("space opera saga")
		want := []string{"space opera", "opera saga"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Analyze() = %v, want %v", got, want)
		}
	})
}

func TestTFIDFVectorizer_FitTransform(t *testing.T) {
	t.Run("rows are unit length", func(t *testing.T) {
		v := NewTFIDFVectorizer(DefaultVectorizerOptions())
		space, err := v.FitTransform([]string{
			"Action Sci-Fi mind-bending heist",
			"Action Sci-Fi simulated reality",
			"Romance Drama ship disaster",
		})
		if err != nil {
			t.Fatalf("FitTransform() error = %v", err)
		}
		for i, row := range space.Rows {
			if n := row.Norm(); math.Abs(n-1) > 1e-12 {
				t.Errorf("row %d norm = %f, want 1", i, n)
			}
		}
	})

	t.Run("vocabulary is sorted and frozen", func(t *testing.T) {
		v := NewTFIDFVectorizer(VectorizerOptions{NGramMin: 1, NGramMax: 1})
		space, err := v.FitTransform([]string{"zebra apple", "mango"})
		if err != nil {
			t.Fatalf("FitTransform() error = %v", err)
		}
		want := []string{"apple", "mango", "zebra"}
		if !reflect.DeepEqual(space.Terms, want) {
			t.Errorf("Terms = %v, want %v", space.Terms, want)
		}
		if idx, ok := space.TermIndex("mango"); !ok || idx != 1 {
			t.Errorf("TermIndex(mango) = %d, %v, want 1, true", idx, ok)
		}
		if space.Dim() != 3 {
			t.Errorf("Dim() = %d, want 3", space.Dim())
		}
	})

	t.Run("max features keeps most frequent terms", func(t *testing.T) {
		v := NewTFIDFVectorizer(VectorizerOptions{MaxFeatures: 2, NGramMin: 1, NGramMax: 1})
		space, err := v.FitTransform([]string{"apple apple banana", "apple cherry"})
		if err != nil {
			t.Fatalf("FitTransform() error = %v", err)
		}
		// banana and cherry tie on frequency; the lexically smaller one wins.
		want := []string{"apple", "banana"}
		if !reflect.DeepEqual(space.Terms, want) {
			t.Errorf("Terms = %v, want %v", space.Terms, want)
		}
		if space.Rows[1].Len() != 1 {
			t.Errorf("row 1 entries = %d, want 1", space.Rows[1].Len())
		}
	})

	t.Run("smoothed idf", func(t *testing.T) {
		v := NewTFIDFVectorizer(VectorizerOptions{NGramMin: 1, NGramMax: 1})
		space, err := v.FitTransform([]string{"apple banana", "apple"})
		if err != nil {
			t.Fatalf("FitTransform() error = %v", err)
		}
		wantApple := 1.0
		wantBanana := math.Log(3.0/2.0) + 1
		if math.Abs(space.IDF[0]-wantApple) > 1e-12 {
			t.Errorf("idf(apple) = %f, want %f", space.IDF[0], wantApple)
		}
		if math.Abs(space.IDF[1]-wantBanana) > 1e-12 {
			t.Errorf("idf(banana) = %f, want %f", space.IDF[1], wantBanana)
		}
	})

	t.Run("empty vocabulary", func(t *testing.T) {
		v := NewTFIDFVectorizer(DefaultVectorizerOptions())
		_, err := v.FitTransform([]string{"the of and", ""})
		if !errors.Is(err, ErrEmptyVocabulary) {
			t.Errorf("FitTransform() error = %v, want ErrEmptyVocabulary", err)
		}
	})

	t.Run("no documents", func(t *testing.T) {
		v := NewTFIDFVectorizer(DefaultVectorizerOptions())
		_, err := v.FitTransform(nil)
		if !errors.Is(err, ErrNoDocuments) {
			t.Errorf("FitTransform() error = %v, want ErrNoDocuments", err)
		}
	})
}

func TestCosine(t *testing.T) {
	a := SparseVector{Indices: []int{0, 2}, Values: []float64{1, 1}}
	b := SparseVector{Indices: []int{2, 5}, Values: []float64{1, 1}}
	zero := SparseVector{}

	tests := []struct {
		name string
		x, y SparseVector
		want float64
	}{
		{name: "identical", x: a, y: a, want: 1},
		{name: "half overlap", x: a, y: b, want: 0.5},
		{name: "zero vector", x: a, y: zero, want: 0},
		{name: "zero with itself", x: zero, y: zero, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.x, tt.y)
			if math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Cosine() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMinMax(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want []float64
	}{
		{name: "empty", in: nil, want: []float64{}},
		{name: "spread", in: []float64{2, 4, 3}, want: []float64{0, 1, 0.5}},
		{name: "flat range resolves to zero", in: []float64{0.7, 0.7}, want: []float64{0, 0}},
		{name: "single value", in: []float64{3.5}, want: []float64{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MinMax(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("MinMax(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
