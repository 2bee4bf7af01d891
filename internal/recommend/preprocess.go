// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"math/rand"
	"strings"
)

// Preprocess cleans the raw tables before training.
//
// Movies without a title are dropped and repeated ids keep their first row.
// Only movies with at least minRatings ratings are kept, and ratings are
// filtered to the kept movies. Input slices are not modified.
func Preprocess(movies []Movie, ratings []Rating, minRatings int) ([]Movie, []Rating) {
	counts := make(map[int]int)
	for _, r := range ratings {
		counts[r.MovieID]++
	}

	popular := func(id int) bool {
		return counts[id] >= minRatings
	}

	keptMovies := make([]Movie, 0, len(movies))
	seen := make(map[int]struct{}, len(movies))
	for _, m := range movies {
		if strings.TrimSpace(m.Title) == "" || !popular(m.ID) {
			continue
		}
		if _, dup := seen[m.ID]; dup {
			continue
		}
		seen[m.ID] = struct{}{}
		keptMovies = append(keptMovies, m)
	}

	keptRatings := make([]Rating, 0, len(ratings))
	for _, r := range ratings {
		if popular(r.MovieID) {
			keptRatings = append(keptRatings, r)
		}
	}

	return keptMovies, keptRatings
}

// TrainTestSplit shuffles ratings with seed and holds out testFraction of them,
// rounded up. Both halves are returned in shuffled order. The same input and
// seed always give the same split.
func TrainTestSplit(ratings []Rating, testFraction float64, seed int64) (train, test []Rating) {
	n := len(ratings)
	if n == 0 {
		return []Rating{}, []Rating{}
	}

	nTest := int(float64(n) * testFraction)
	if float64(nTest) < float64(n)*testFraction {
		nTest++
	}
	if nTest > n {
		nTest = n
	}
	if nTest < 0 {
		nTest = 0
	}

	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // math/rand is fine for a reproducible split
	perm := rng.Perm(n)

	test = make([]Rating, 0, nTest)
	train = make([]Rating, 0, n-nTest)
	for i, p := range perm {
		if i < nTest {
			test = append(test, ratings[p])
		} else {
			train = append(train, ratings[p])
		}
	}
	return train, test
}
