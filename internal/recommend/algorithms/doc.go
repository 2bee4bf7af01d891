// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package algorithms implements the numeric building blocks of the recommender.
//
// The package knows nothing about movies or users. It works on documents,
// sparse and dense vectors and plain matrices so that the recommend package
// can compose them into the content and collaborative models.
//
// # Building Blocks
//
//   - Text: tokenizer, English stop words, unigram+bigram analyzer, TF-IDF
//   - Vectors: sparse vectors with dot product and cosine similarity
//   - Matrices: row-major dense matrix, presence mask, row centering
//   - Factorization: truncated SVD on top of gonum
//   - Scores: min-max normalization
//
// # Thread Safety
//
// Every fitted value returned by this package (TFIDFSpace, Factors, Dense)
// is treated as immutable once constructed. Readers may share them across
// goroutines without locking as long as nobody calls Set after publication.
package algorithms
