// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
)

// Vectorizer turns movie text fields into TF-IDF vectors.
type Vectorizer struct {
	opts algorithms.VectorizerOptions
}

// NewVectorizer creates a vectorizer from content configuration.
//
//nolint:gocritic // hugeParam: cfg passed by value for immutability
func NewVectorizer(cfg ContentConfig) *Vectorizer {
	opts := algorithms.VectorizerOptions{
		MaxFeatures: cfg.MaxFeatures,
		NGramMin:    1,
		NGramMax:    cfg.NGramMax,
	}
	if cfg.StopWords {
		opts.StopWords = algorithms.EnglishStopWords()
	}
	return &Vectorizer{opts: opts}
}

// VectorSpace is a fitted vocabulary together with one unit-length row per movie.
type VectorSpace struct {
	// Fields are the recognized field names the documents were built from.
	Fields []string

	space *algorithms.TFIDFSpace
}

// Vocabulary returns the number of terms.
func (s *VectorSpace) Vocabulary() int {
	return s.space.Dim()
}

// Row returns the vector of the movie at catalog position i.
func (s *VectorSpace) Row(i int) algorithms.SparseVector {
	return s.space.Rows[i]
}

// Fit builds the vocabulary from movies and vectorizes every row.
// Unknown field names are ignored unless none is recognized.
func (v *Vectorizer) Fit(movies []Movie, fields []string) (*VectorSpace, error) {
	if len(movies) == 0 {
		return nil, fmt.Errorf("%w: movie table is empty", ErrConfiguration)
	}

	known := recognizedFields(fields)
	if len(known) == 0 {
		return nil, fmt.Errorf("%w: none of the feature fields %v is recognized", ErrConfiguration, fields)
	}

	docs := make([]string, len(movies))
	for i, m := range movies {
		docs[i] = combinedFeatures(m, known)
	}

	space, err := algorithms.NewTFIDFVectorizer(v.opts).FitTransform(docs)
	if err != nil {
		if errors.Is(err, algorithms.ErrEmptyVocabulary) {
			return nil, fmt.Errorf("%w: %w", ErrData, err)
		}
		return nil, fmt.Errorf("vectorize: %w", err)
	}

	return &VectorSpace{Fields: known, space: space}, nil
}

func recognizedFields(fields []string) []string {
	known := make([]string, 0, len(fields))
	for _, f := range fields {
		name := strings.ToLower(strings.TrimSpace(f))
		if _, ok := (Movie{}).field(name); ok {
			known = append(known, name)
		}
	}
	return known
}

// combinedFeatures concatenates the fields, each followed by a single space.
//
//nolint:gocritic // hugeParam: Movie passed by value for immutability
func combinedFeatures(m Movie, fields []string) string {
	var b strings.Builder
	for _, f := range fields {
		v, _ := m.field(f)
		b.WriteString(v)
		b.WriteByte(' ')
	}
	return b.String()
}
