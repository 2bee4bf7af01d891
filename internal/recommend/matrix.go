// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/reelmatch/internal/recommend/algorithms"
)

// DuplicatePolicy decides how repeated (user, movie) ratings collapse into one cell.
type DuplicatePolicy string

const (
	// DuplicateMean averages repeated ratings.
	DuplicateMean DuplicatePolicy = "mean"

	// DuplicateLast keeps the last rating in stream order.
	DuplicateLast DuplicatePolicy = "last"
)

// ParseDuplicatePolicy parses a policy name. The empty string selects DuplicateMean.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicateMean:
		return DuplicateMean, nil
	case DuplicateLast:
		return DuplicateLast, nil
	default:
		return "", fmt.Errorf("%w: unknown duplicate policy %q", ErrConfiguration, s)
	}
}

// RatingMatrix is a dense user by movie matrix with explicit presence bits.
// Rows are user ids ascending; columns are movie ids ascending.
type RatingMatrix struct {
	userIDs  []int
	movieIDs []int
	userRow  map[int]int
	movieCol map[int]int

	values *algorithms.Dense
	rated  *algorithms.Mask
}

// BuildRatingMatrix pivots a rating stream into a RatingMatrix.
func BuildRatingMatrix(ratings []Rating, policy DuplicatePolicy) (*RatingMatrix, error) {
	if len(ratings) == 0 {
		return nil, fmt.Errorf("%w: rating stream is empty", ErrData)
	}
	policy, err := ParseDuplicatePolicy(string(policy))
	if err != nil {
		return nil, err
	}

	users := make(map[int]struct{})
	movies := make(map[int]struct{})
	for _, r := range ratings {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
			return nil, fmt.Errorf("%w: rating for user %d movie %d is not finite", ErrData, r.UserID, r.MovieID)
		}
		users[r.UserID] = struct{}{}
		movies[r.MovieID] = struct{}{}
	}

	m := newRatingMatrix(sortedKeys(users), sortedKeys(movies))
	rows, cols := len(m.userIDs), len(m.movieIDs)
	counts := make([]int, rows*cols)

	for _, r := range ratings {
		i, j := m.userRow[r.UserID], m.movieCol[r.MovieID]
		switch policy {
		case DuplicateLast:
			m.values.Set(i, j, r.Value)
		default:
			m.values.Set(i, j, m.values.At(i, j)+r.Value)
			counts[i*cols+j]++
		}
		m.rated.Set(i, j)
	}

	if policy == DuplicateMean {
		data := m.values.RawData()
		for p, c := range counts {
			if c > 1 {
				data[p] /= float64(c)
			}
		}
	}

	return m, nil
}

func newRatingMatrix(userIDs, movieIDs []int) *RatingMatrix {
	m := &RatingMatrix{
		userIDs:  userIDs,
		movieIDs: movieIDs,
		userRow:  make(map[int]int, len(userIDs)),
		movieCol: make(map[int]int, len(movieIDs)),
		values:   algorithms.NewDense(len(userIDs), len(movieIDs), nil),
		rated:    algorithms.NewMask(len(userIDs), len(movieIDs)),
	}
	for i, id := range userIDs {
		m.userRow[id] = i
	}
	for j, id := range movieIDs {
		m.movieCol[id] = j
	}
	return m
}

func sortedKeys(set map[int]struct{}) []int {
	keys := make([]int, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Dims returns the number of users and movies.
func (m *RatingMatrix) Dims() (users, movies int) {
	return len(m.userIDs), len(m.movieIDs)
}

// UserIDs returns the row ids. The slice must not be modified.
func (m *RatingMatrix) UserIDs() []int { return m.userIDs }

// MovieIDs returns the column ids. The slice must not be modified.
func (m *RatingMatrix) MovieIDs() []int { return m.movieIDs }

// UserRow returns the row index of a user.
func (m *RatingMatrix) UserRow(userID int) (int, bool) {
	i, ok := m.userRow[userID]
	return i, ok
}

// MovieCol returns the column index of a movie.
func (m *RatingMatrix) MovieCol(movieID int) (int, bool) {
	j, ok := m.movieCol[movieID]
	return j, ok
}

// Value returns the stored rating, 0 for unrated cells.
func (m *RatingMatrix) Value(row, col int) float64 {
	return m.values.At(row, col)
}

// Rated reports whether the cell holds an observed rating.
func (m *RatingMatrix) Rated(row, col int) bool {
	return m.rated.Has(row, col)
}

// RatedCount returns the number of observed cells.
func (m *RatingMatrix) RatedCount() int {
	return m.rated.Count()
}
