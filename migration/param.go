// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package migration

// Param is a real valued parameter array
// owned by the caller.
// The migration model only reads its current values,
// so values can be changed between evaluations.
type Param struct {
	name   string
	values []float64

	// Estimate indicates if the parameter
	// is estimated by the inference driver.
	Estimate bool

	// Scale is an optional scale factor.
	// If defined,
	// its first value is used to multiply
	// every value of the parameter.
	Scale *Param

	// Default is the value used
	// to fill new entries
	// when the dimension is increased.
	Default float64
}

// NewParam creates a new parameter.
func NewParam(name string, values ...float64) *Param {
	v := make([]float64, len(values))
	copy(v, values)
	return &Param{
		name:    name,
		values:  v,
		Default: 1.0,
	}
}

// Len returns the dimension of the parameter.
func (p *Param) Len() int {
	return len(p.values)
}

// Name returns the name of the parameter.
func (p *Param) Name() string {
	return p.name
}

// Value returns the raw value at a given index.
func (p *Param) Value(i int) float64 {
	return p.values[i]
}

// Scaled returns the value at a given index
// multiplied by the scale factor.
func (p *Param) Scaled(i int) float64 {
	v := p.values[i]
	if p.Scale != nil && p.Scale.Len() > 0 {
		v *= p.Scale.values[0]
	}
	return v
}

// Set sets the value at a given index.
func (p *Param) Set(i int, v float64) {
	p.values[i] = v
}

// Values returns a copy of the parameter values.
func (p *Param) Values() []float64 {
	v := make([]float64, len(p.values))
	copy(v, p.values)
	return v
}

// SetValues replaces all the values of the parameter.
// The dimension of the parameter
// will be the length of the new values.
func (p *Param) SetValues(v []float64) {
	p.values = make([]float64, len(v))
	copy(p.values, v)
}

// SetDimension sets the dimension of the parameter.
// Leading values are kept,
// and new values are set to the default value.
func (p *Param) SetDimension(n int) {
	if n == len(p.values) {
		return
	}
	v := make([]float64, n)
	for i := range v {
		if i < len(p.values) {
			v[i] = p.values[i]
			continue
		}
		v[i] = p.Default
	}
	p.values = v
}

// Clone returns a copy of the parameter,
// including its scale factor.
func (p *Param) Clone() *Param {
	np := &Param{
		name:     p.name,
		values:   p.Values(),
		Estimate: p.Estimate,
		Default:  p.Default,
	}
	if p.Scale != nil {
		np.Scale = p.Scale.Clone()
	}
	return np
}
