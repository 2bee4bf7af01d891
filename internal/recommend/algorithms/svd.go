// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInvalidRank is returned when k is outside [1, min(rows, cols)).
	ErrInvalidRank = errors.New("invalid rank")

	// ErrNoConvergence is returned when the SVD fails to converge.
	ErrNoConvergence = errors.New("svd did not converge")
)

// Factors is a rank-k singular value decomposition A ≈ U·diag(S)·Vt.
type Factors struct {
	// U is rows×k.
	U *Dense
	// S holds the k singular values in descending order.
	S []float64
	// Vt is k×cols.
	Vt *Dense
}

// Rank returns k.
func (f *Factors) Rank() int {
	return len(f.S)
}

// TruncatedSVD factors a and keeps the k largest singular triplets.
//
// k must satisfy 1 <= k < min(rows, cols). The sign of each singular pair is
// fixed so that the largest-magnitude entry of every U column is positive,
// which makes repeated fits on the same input bit-for-bit comparable.
func TruncatedSVD(a *Dense, k int) (*Factors, error) {
	rows, cols := a.Dims()
	limit := rows
	if cols < limit {
		limit = cols
	}
	if k < 1 || k >= limit {
		return nil, fmt.Errorf("%w: k=%d must be in [1, %d)", ErrInvalidRank, k, limit)
	}

	data := make([]float64, len(a.RawData()))
	copy(data, a.RawData())
	m := mat.NewDense(rows, cols, data)

	var svd mat.SVD
	if ok := svd.Factorize(m, mat.SVDThin); !ok {
		return nil, ErrNoConvergence
	}

	values := svd.Values(nil)
	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	f := &Factors{
		U:  NewDense(rows, k, nil),
		S:  make([]float64, k),
		Vt: NewDense(k, cols, nil),
	}
	copy(f.S, values[:k])

	for l := 0; l < k; l++ {
		sign := componentSign(&u, l)
		for i := 0; i < rows; i++ {
			f.U.Set(i, l, sign*u.At(i, l))
		}
		for j := 0; j < cols; j++ {
			f.Vt.Set(l, j, sign*v.At(j, l))
		}
	}

	return f, nil
}

// componentSign returns -1 when the largest-magnitude entry of column l is
// negative, +1 otherwise.
func componentSign(u *mat.Dense, l int) float64 {
	rows, _ := u.Dims()
	best, bestAbs := 0.0, -1.0
	for i := 0; i < rows; i++ {
		x := u.At(i, l)
		if math.Abs(x) > bestAbs {
			best, bestAbs = x, math.Abs(x)
		}
	}
	if best < 0 {
		return -1
	}
	return 1
}

// Reconstruct returns U·diag(S)·Vt with offsets[i] added to every entry of
// row i. Offsets may be nil.
func (f *Factors) Reconstruct(offsets []float64) *Dense {
	rows, k := f.U.Dims()
	_, cols := f.Vt.Dims()
	out := NewDense(rows, cols, nil)

	scaled := make([]float64, k)
	for i := 0; i < rows; i++ {
		urow := f.U.Row(i)
		for l := 0; l < k; l++ {
			scaled[l] = urow[l] * f.S[l]
		}

		orow := out.Row(i)
		for l := 0; l < k; l++ {
			if scaled[l] == 0 {
				continue
			}
			vrow := f.Vt.Row(l)
			for j := range orow {
				orow[j] += scaled[l] * vrow[j]
			}
		}

		if offsets != nil {
			for j := range orow {
				orow[j] += offsets[i]
			}
		}
	}

	return out
}
