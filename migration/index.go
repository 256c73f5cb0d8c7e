// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package migration

import "github.com/js-arias/multitype/mtt"

// RateIndex returns the index of the rate from type i to type j
// in a flat array of n*(n-1) values
// that omits the diagonal of the rate matrix.
// It panics if i == j.
func RateIndex(i, j, n int) int {
	if i == j {
		panic("migration: diagonal elements have no rate index")
	}
	idx := i*(n-1) + j
	if j > i {
		idx--
	}
	return idx
}

// SquareIndex returns the index of the element (i,j)
// in a flat array of n*n values
// (i.e., a square matrix with its diagonal).
func SquareIndex(i, j, n int) int {
	return i*n + j
}

// Flatten returns a square matrix
// as a flat array without diagonal elements.
func Flatten(m [][]float64) []float64 {
	n := len(m)
	if n < 2 {
		return []float64{}
	}
	v := make([]float64, n*(n-1))
	for i, row := range m {
		for j, x := range row {
			if i == j {
				continue
			}
			v[RateIndex(i, j, n)] = x
		}
	}
	return v
}

// Unflatten returns a flat array of n*(n-1) values
// as a square matrix
// with zeros in the diagonal.
func Unflatten(v []float64, n int) ([][]float64, error) {
	if len(v) != n*(n-1) {
		return nil, mtt.Validation("rate matrix", "got %d values, want %d", len(v), n*(n-1))
	}
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			if i == j {
				continue
			}
			m[i][j] = v[RateIndex(i, j, n)]
		}
	}
	return m, nil
}

// FromSquare takes a flat array of n*n values
// (i.e., a square matrix with its diagonal)
// and returns the flat array without the diagonal.
func FromSquare(v []float64, n int) ([]float64, error) {
	if len(v) != n*n {
		return nil, mtt.Validation("rate matrix", "got %d values, want %d", len(v), n*n)
	}
	r := make([]float64, n*(n-1))
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			r[RateIndex(i, j, n)] = v[SquareIndex(i, j, n)]
		}
	}
	return r, nil
}
