// ReelMatch - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package algorithms

import "fmt"

// Dense is a row-major dense matrix.
type Dense struct {
	rows int
	cols int
	data []float64
}

// NewDense creates a rows×cols matrix backed by data.
// A nil data slice allocates a zero matrix. NewDense panics when the length
// of data does not match the shape, mirroring gonum's mat.NewDense.
func NewDense(rows, cols int, data []float64) *Dense {
	if rows < 0 || cols < 0 {
		panic(fmt.Sprintf("algorithms: negative dimension %dx%d", rows, cols))
	}
	if data == nil {
		data = make([]float64, rows*cols)
	}
	if len(data) != rows*cols {
		panic(fmt.Sprintf("algorithms: data length %d does not match %dx%d", len(data), rows, cols))
	}
	return &Dense{rows: rows, cols: cols, data: data}
}

// Dims returns the number of rows and columns.
func (d *Dense) Dims() (rows, cols int) {
	return d.rows, d.cols
}

// At returns the element at (i, j).
func (d *Dense) At(i, j int) float64 {
	return d.data[i*d.cols+j]
}

// Set sets the element at (i, j).
func (d *Dense) Set(i, j int, v float64) {
	d.data[i*d.cols+j] = v
}

// Row returns row i. The slice aliases the matrix storage.
func (d *Dense) Row(i int) []float64 {
	return d.data[i*d.cols : (i+1)*d.cols]
}

// RawData returns the backing slice.
func (d *Dense) RawData() []float64 {
	return d.data
}

// Clone returns a deep copy.
func (d *Dense) Clone() *Dense {
	data := make([]float64, len(d.data))
	copy(data, d.data)
	return &Dense{rows: d.rows, cols: d.cols, data: data}
}

// RowMeans returns the mean of every row over all of its columns.
func RowMeans(d *Dense) []float64 {
	means := make([]float64, d.rows)
	if d.cols == 0 {
		return means
	}
	for i := 0; i < d.rows; i++ {
		var sum float64
		for _, v := range d.Row(i) {
			sum += v
		}
		means[i] = sum / float64(d.cols)
	}
	return means
}

// CenterRows returns a copy of d with offsets[i] subtracted from row i.
func CenterRows(d *Dense, offsets []float64) *Dense {
	out := d.Clone()
	for i := 0; i < out.rows; i++ {
		row := out.Row(i)
		for j := range row {
			row[j] -= offsets[i]
		}
	}
	return out
}
