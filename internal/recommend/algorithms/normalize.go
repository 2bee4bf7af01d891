// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

// MinMax rescales scores to [0, 1] using min-max normalization and returns a
// new slice. When every score is equal the range is zero and all outputs are 0.
func MinMax(scores []float64) []float64 {
	out := make([]float64, len(scores))
	if len(scores) == 0 {
		return out
	}

	lo, hi := scores[0], scores[0]
	for _, s := range scores[1:] {
		if s < lo {
			lo = s
		}
		if s > hi {
			hi = s
		}
	}

	rang := hi - lo
	if rang == 0 {
		return out
	}

	for i, s := range scores {
		out[i] = (s - lo) / rang
	}
	return out
}
