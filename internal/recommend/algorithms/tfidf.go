// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import (
	"errors"
	"math"
	"sort"
)

// ErrEmptyVocabulary is returned when no document yields a single term,
// for example when every document is empty or made of stop words.
var ErrEmptyVocabulary = errors.New("empty vocabulary")

// ErrNoDocuments is returned when fitting on an empty corpus.
var ErrNoDocuments = errors.New("no documents")

// VectorizerOptions configures TF-IDF fitting.
type VectorizerOptions struct {
	// MaxFeatures caps the vocabulary to the most frequent terms across the
	// corpus. Zero or negative keeps every term.
	MaxFeatures int

	// NGramMin and NGramMax bound the n-gram sizes extracted per document.
	NGramMin int
	NGramMax int

	// StopWords are removed before n-grams are built. Nil disables filtering.
	StopWords map[string]struct{}
}

// DefaultVectorizerOptions returns 5000 features, unigrams+bigrams and
// English stop words.
func DefaultVectorizerOptions() VectorizerOptions {
	return VectorizerOptions{
		MaxFeatures: 5000,
		NGramMin:    1,
		NGramMax:    2,
		StopWords:   EnglishStopWords(),
	}
}

// TFIDFVectorizer learns a vocabulary and inverse document frequencies.
//
// Weighting follows the smoothed scheme:
//
//	idf(t)   = ln((1 + n) / (1 + df(t))) + 1
//	w(t, d)  = count(t, d) * idf(t)
//
// and every row is L2 normalized afterwards.
type TFIDFVectorizer struct {
	opts     VectorizerOptions
	analyzer *Analyzer
}

// NewTFIDFVectorizer creates a vectorizer with the given options.
//
//nolint:gocritic // options struct is copied on purpose
func NewTFIDFVectorizer(opts VectorizerOptions) *TFIDFVectorizer {
	return &TFIDFVectorizer{
		opts:     opts,
		analyzer: NewAnalyzer(opts.StopWords, opts.NGramMin, opts.NGramMax),
	}
}

// TFIDFSpace is a fitted vector space: one sparse row per document over a
// frozen vocabulary. Dimensions are assigned to terms in lexical order.
type TFIDFSpace struct {
	Terms []string
	IDF   []float64
	Rows  []SparseVector

	index map[string]int
}

// NewTFIDFSpace rebuilds a space from its parts, for example after decoding
// a persisted model.
func NewTFIDFSpace(terms []string, idf []float64, rows []SparseVector) *TFIDFSpace {
	index := make(map[string]int, len(terms))
	for i, t := range terms {
		index[t] = i
	}
	return &TFIDFSpace{Terms: terms, IDF: idf, Rows: rows, index: index}
}

// Dim returns the dimensionality shared by every row.
func (s *TFIDFSpace) Dim() int {
	return len(s.Terms)
}

// TermIndex returns the dimension assigned to term.
func (s *TFIDFSpace) TermIndex(term string) (int, bool) {
	i, ok := s.index[term]
	return i, ok
}

// FitTransform learns the vocabulary from docs and returns their vectors.
func (v *TFIDFVectorizer) FitTransform(docs []string) (*TFIDFSpace, error) {
	if len(docs) == 0 {
		return nil, ErrNoDocuments
	}

	docCounts := make([]map[string]int, len(docs))
	termFreq := make(map[string]int)
	docFreq := make(map[string]int)

	for i, doc := range docs {
		counts := make(map[string]int)
		for _, term := range v.analyzer.Analyze(doc) {
			counts[term]++
		}
		for term, c := range counts {
			termFreq[term] += c
			docFreq[term]++
		}
		docCounts[i] = counts
	}

	if len(termFreq) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := v.selectTerms(termFreq)

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for j, term := range terms {
		idf[j] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	space := NewTFIDFSpace(terms, idf, nil)
	space.Rows = make([]SparseVector, len(docs))
	for i, counts := range docCounts {
		space.Rows[i] = space.weigh(counts)
	}

	return space, nil
}

// selectTerms keeps the MaxFeatures most frequent terms, ties broken
// lexically, and returns them in lexical order.
func (v *TFIDFVectorizer) selectTerms(termFreq map[string]int) []string {
	terms := make([]string, 0, len(termFreq))
	for term := range termFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	limit := v.opts.MaxFeatures
	if limit <= 0 || len(terms) <= limit {
		return terms
	}

	sort.SliceStable(terms, func(i, j int) bool {
		return termFreq[terms[i]] > termFreq[terms[j]]
	})
	terms = terms[:limit]
	sort.Strings(terms)
	return terms
}

// weigh converts raw term counts into an L2-normalized TF-IDF row.
func (s *TFIDFSpace) weigh(counts map[string]int) SparseVector {
	indices := make([]int, 0, len(counts))
	for term := range counts {
		if j, ok := s.index[term]; ok {
			indices = append(indices, j)
		}
	}
	sort.Ints(indices)

	values := make([]float64, len(indices))
	var norm float64
	for k, j := range indices {
		w := float64(counts[s.Terms[j]]) * s.IDF[j]
		values[k] = w
		norm += w * w
	}

	if norm > 0 {
		norm = math.Sqrt(norm)
		for k := range values {
			values[k] /= norm
		}
	}

	return SparseVector{Indices: indices, Values: values}
}
