// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package migration implements a structured coalescent
// migration model:
// the effective population size of each type
// and the migration rates between each pair of types.
//
// Rates are always returned
// in the backward-in-time convention
// (i.e., the rate at which a lineage of type i
// becomes a lineage of type j
// when going from the present to the past),
// regardless of the convention used
// to define the parameter values.
package migration

import (
	"fmt"
	"strings"

	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/typeset"
	"gonum.org/v1/gonum/mat"
)

// Convention is the time direction
// used for the values of the rate parameter.
type Convention int

// Valid rate conventions.
const (
	// Backward rates are used as they are.
	Backward Convention = iota

	// Forward rates are transposed
	// and scaled by the ratio of population sizes,
	// so a forward rate f(j,i) becomes
	// the backward rate b(i,j) = f(j,i) * N(j) / N(i).
	Forward

	// ForwardTranspose rates are only transposed:
	// b(i,j) = f(j,i).
	ForwardTranspose
)

var convNames = map[Convention]string{
	Backward:         "backward",
	Forward:          "forward",
	ForwardTranspose: "forward-transpose",
}

// ParseConvention returns a convention from its name.
func ParseConvention(s string) (Convention, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for c, n := range convNames {
		if n == s {
			return c, nil
		}
	}
	return Backward, fmt.Errorf("unknown rate convention %q", s)
}

func (c Convention) String() string {
	if n, ok := convNames[c]; ok {
		return n
	}
	return fmt.Sprintf("convention(%d)", int(c))
}

// Model is a migration model.
// It is a view over the population size
// and the rate parameters,
// so it reads the parameter values on each call.
type Model struct {
	types    *typeset.TypeSet
	popSizes *Param
	rates    *Param
	conv     Convention

	backward func(i, j int) float64
}

// New creates a new migration model.
// The population sizes must have a value for each type,
// and the rates must have a value
// for each off-diagonal element of the rate matrix
// (i.e., n*(n-1) values for n types)
// using the layout defined by RateIndex.
func New(types *typeset.TypeSet, popSizes, rates *Param, conv Convention) (*Model, error) {
	m := &Model{
		types:    types,
		popSizes: popSizes,
		rates:    rates,
		conv:     conv,
	}
	switch conv {
	case Backward:
		m.backward = m.fromBackward
	case Forward:
		m.backward = m.fromForward
	case ForwardTranspose:
		m.backward = m.fromTranspose
	default:
		return nil, mtt.Validation("migration model", "unknown rate convention %d", int(conv))
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) fromBackward(i, j int) float64 {
	return m.rates.Scaled(RateIndex(i, j, m.types.Len()))
}

func (m *Model) fromForward(i, j int) float64 {
	f := m.rates.Scaled(RateIndex(j, i, m.types.Len()))
	return f * m.PopSize(j) / m.PopSize(i)
}

func (m *Model) fromTranspose(i, j int) float64 {
	return m.rates.Scaled(RateIndex(j, i, m.types.Len()))
}

// Validate checks the dimensions of the model parameters.
func (m *Model) Validate() error {
	n := m.types.Len()
	if n < 1 {
		return mtt.Validation("migration model", "empty type set")
	}
	if m.popSizes.Len() != n {
		return mtt.Validation("migration model", "population sizes: got %d values, want %d", m.popSizes.Len(), n)
	}
	if m.rates.Len() != n*(n-1) {
		return mtt.Validation("migration model", "rates: got %d values, want %d", m.rates.Len(), n*(n-1))
	}
	return nil
}

// CheckValues returns an error
// if a population size is not positive
// or a rate is negative.
func (m *Model) CheckValues() error {
	n := m.types.Len()
	for i := 0; i < n; i++ {
		if p := m.PopSize(i); !(p > 0) {
			return fmt.Errorf("%w: population size of type %q: %g", mtt.ErrNumerical, m.types.Name(i), p)
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			if r := m.BackwardRate(i, j); !(r >= 0) {
				return fmt.Errorf("%w: rate %q -> %q: %g", mtt.ErrNumerical, m.types.Name(i), m.types.Name(j), r)
			}
		}
	}
	return nil
}

// Clone returns a copy of the model
// with its own type set and parameters,
// so changes in the parameters of the copy
// are not seen by the original model.
func (m *Model) Clone() *Model {
	nm, err := New(typeset.New(m.types.Names()...), m.popSizes.Clone(), m.rates.Clone(), m.conv)
	if err != nil {
		// the original model is valid
		panic(err)
	}
	return nm
}

// Convention returns the convention
// used by the rate parameter.
func (m *Model) Convention() Convention {
	return m.conv
}

// NumTypes returns the number of types in the model.
func (m *Model) NumTypes() int {
	return m.types.Len()
}

// Types returns the type set of the model.
func (m *Model) Types() *typeset.TypeSet {
	return m.types
}

// PopSizes returns the population size parameter.
func (m *Model) PopSizes() *Param {
	return m.popSizes
}

// Rates returns the rate parameter.
func (m *Model) Rates() *Param {
	return m.rates
}

// PopSize returns the effective population size
// of a type.
func (m *Model) PopSize(i int) float64 {
	return m.popSizes.Scaled(i)
}

// BackwardRate returns the backward-in-time
// migration rate from type i to type j.
func (m *Model) BackwardRate(i, j int) float64 {
	if i == j {
		return 0
	}
	return m.backward(i, j)
}

// TotalRate returns the total backward-in-time
// migration rate out of type i.
func (m *Model) TotalRate(i int) float64 {
	var sum float64
	for j := 0; j < m.types.Len(); j++ {
		sum += m.BackwardRate(i, j)
	}
	return sum
}

// Generator returns the backward-in-time
// rate matrix of the migration process
// (the diagonal is the negative of the total rate).
func (m *Model) Generator() *mat.Dense {
	n := m.types.Len()
	q := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			q.Set(i, j, m.BackwardRate(i, j))
		}
		q.Set(i, i, -m.TotalRate(i))
	}
	return q
}

// Resize updates the dimensions of the model parameters
// after the type set is changed.
// Remap is a map of old type indices to new indices
// (as returned by typeset.Remove);
// if remap is nil,
// indices of old types are assumed to be unchanged
// (i.e., types were only added).
// The values of surviving types are kept,
// and new values are set with the parameter default.
func (m *Model) Resize(oldN int, remap map[int]int) error {
	n := m.types.Len()
	if remap == nil {
		remap = make(map[int]int, oldN)
		for i := 0; i < oldN && i < n; i++ {
			remap[i] = i
		}
	}
	if m.popSizes.Len() != oldN || m.rates.Len() != oldN*(oldN-1) {
		return mtt.Validation("migration model", "resize: parameters do not have %d types", oldN)
	}

	ps := make([]float64, n)
	for i := range ps {
		ps[i] = m.popSizes.Default
	}
	for o, ni := range remap {
		ps[ni] = m.popSizes.Value(o)
	}

	rates := make([]float64, n*(n-1))
	for i := range rates {
		rates[i] = m.rates.Default
	}
	for oi, ni := range remap {
		for oj, nj := range remap {
			if oi == oj {
				continue
			}
			rates[RateIndex(ni, nj, n)] = m.rates.Value(RateIndex(oi, oj, oldN))
		}
	}

	m.popSizes.SetValues(ps)
	m.rates.SetValues(rates)
	return nil
}
