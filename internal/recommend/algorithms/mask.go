// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import "math/bits"

// Mask is a rows×cols bit set recording which cells of a matrix hold an
// observed value. It keeps "observed zero" distinct from "not observed".
type Mask struct {
	rows  int
	cols  int
	words []uint64
}

// NewMask creates an empty mask.
func NewMask(rows, cols int) *Mask {
	return &Mask{
		rows:  rows,
		cols:  cols,
		words: make([]uint64, (rows*cols+63)/64),
	}
}

// MaskFromWords restores a mask from its packed words.
// It returns nil when the word count does not fit the shape.
func MaskFromWords(rows, cols int, words []uint64) *Mask {
	if len(words) != (rows*cols+63)/64 {
		return nil
	}
	w := make([]uint64, len(words))
	copy(w, words)
	return &Mask{rows: rows, cols: cols, words: w}
}

// Set marks cell (i, j) as observed.
func (m *Mask) Set(i, j int) {
	pos := i*m.cols + j
	m.words[pos/64] |= 1 << (uint(pos) % 64)
}

// Has reports whether cell (i, j) is observed.
func (m *Mask) Has(i, j int) bool {
	pos := i*m.cols + j
	return m.words[pos/64]&(1<<(uint(pos)%64)) != 0
}

// Count returns the number of observed cells.
func (m *Mask) Count() int {
	n := 0
	for _, w := range m.words {
		n += bits.OnesCount64(w)
	}
	return n
}

// Words returns a copy of the packed representation.
func (m *Mask) Words() []uint64 {
	w := make([]uint64, len(m.words))
	copy(w, m.words)
	return w
}
