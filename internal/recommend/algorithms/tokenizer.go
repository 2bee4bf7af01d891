// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import (
	"regexp"
	"strings"
)

// tokenPattern matches runs of two or more word characters.
// Single-character tokens ("a", "x", "1") are dropped.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}_]{2,}`)

// Tokenize splits text into lowercase word tokens.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// Analyzer turns a document into the terms counted by the vectorizer.
type Analyzer struct {
	stopWords map[string]struct{}
	ngramMin  int
	ngramMax  int
}

// NewAnalyzer creates an analyzer producing n-grams in [ngramMin, ngramMax].
// A nil stop word set disables stop word filtering.
func NewAnalyzer(stopWords map[string]struct{}, ngramMin, ngramMax int) *Analyzer {
	if ngramMin < 1 {
		ngramMin = 1
	}
	if ngramMax < ngramMin {
		ngramMax = ngramMin
	}
	return &Analyzer{
		stopWords: stopWords,
		ngramMin:  ngramMin,
		ngramMax:  ngramMax,
	}
}

// Analyze tokenizes doc, drops stop words and then emits n-grams.
// Stop words are removed before n-grams are formed, so "heist of the century"
// yields the bigram "heist century".
func (a *Analyzer) Analyze(doc string) []string {
	tokens := Tokenize(doc)

	if len(a.stopWords) > 0 {
		kept := tokens[:0]
		for _, tok := range tokens {
			if _, stop := a.stopWords[tok]; !stop {
				kept = append(kept, tok)
			}
		}
		tokens = kept
	}

	if a.ngramMin == 1 && a.ngramMax == 1 {
		return tokens
	}

	terms := make([]string, 0, len(tokens)*(a.ngramMax-a.ngramMin+1))
	if a.ngramMin == 1 {
		terms = append(terms, tokens...)
	}

	start := a.ngramMin
	if start < 2 {
		start = 2
	}
	for n := start; n <= a.ngramMax; n++ {
		for i := 0; i+n <= len(tokens); i++ {
			terms = append(terms, strings.Join(tokens[i:i+n], " "))
		}
	}

	return terms
}
