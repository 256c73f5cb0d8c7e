// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package migration_test

import (
	"bytes"
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/typeset"
)

func TestRateIndex(t *testing.T) {
	for n := 2; n < 8; n++ {
		seen := make(map[int]bool, n*(n-1))
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				idx := migration.RateIndex(i, j, n)
				if idx < 0 || idx >= n*(n-1) {
					t.Errorf("n=%d (%d,%d): index %d out of range", n, i, j, idx)
				}
				if seen[idx] {
					t.Errorf("n=%d (%d,%d): index %d already used", n, i, j, idx)
				}
				seen[idx] = true
			}
		}
	}
}

func TestFlattenRoundTrip(t *testing.T) {
	for n := 2; n < 8; n++ {
		v := make([]float64, n*(n-1))
		for i := range v {
			v[i] = float64(i+1) * 0.25
		}
		m, err := migration.Unflatten(v, n)
		if err != nil {
			t.Fatalf("n=%d: unflatten: %v", n, err)
		}
		for i := range m {
			if m[i][i] != 0 {
				t.Errorf("n=%d: diagonal %d: got %g, want 0", n, i, m[i][i])
			}
		}
		got := migration.Flatten(m)
		if !reflect.DeepEqual(got, v) {
			t.Errorf("n=%d: got %v, want %v", n, got, v)
		}
	}

	if _, err := migration.Unflatten([]float64{1, 2, 3}, 2); !errors.Is(err, mtt.ErrValidation) {
		t.Errorf("unflatten: got error %v, want %v", err, mtt.ErrValidation)
	}
}

func TestNewModel(t *testing.T) {
	types := typeset.New("A", "B")
	m, err := migration.New(types, migration.NewParam("popSizes", 5, 10), migration.NewParam("rates", 2, 1), migration.Backward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r := m.BackwardRate(0, 1); r != 2 {
		t.Errorf("rate A->B: got %g, want %g", r, 2.0)
	}
	if r := m.BackwardRate(1, 0); r != 1 {
		t.Errorf("rate B->A: got %g, want %g", r, 1.0)
	}
	if r := m.BackwardRate(1, 1); r != 0 {
		t.Errorf("rate B->B: got %g, want %g", r, 0.0)
	}
	if p := m.PopSize(1); p != 10 {
		t.Errorf("pop size B: got %g, want %g", p, 10.0)
	}

	q := m.Generator()
	if v := q.At(0, 0); v != -2 {
		t.Errorf("generator (0,0): got %g, want %g", v, -2.0)
	}

	// values are read on each call
	m.Rates().Set(0, 3)
	if r := m.BackwardRate(0, 1); r != 3 {
		t.Errorf("updated rate A->B: got %g, want %g", r, 3.0)
	}

	_, err = migration.New(types, migration.NewParam("popSizes", 5), migration.NewParam("rates", 2, 1), migration.Backward)
	if !errors.Is(err, mtt.ErrValidation) {
		t.Errorf("population sizes: got error %v, want %v", err, mtt.ErrValidation)
	}
	_, err = migration.New(types, migration.NewParam("popSizes", 5, 10), migration.NewParam("rates", 2, 1, 4), migration.Backward)
	if !errors.Is(err, mtt.ErrValidation) {
		t.Errorf("rates: got error %v, want %v", err, mtt.ErrValidation)
	}
}

func TestScaleFactor(t *testing.T) {
	types := typeset.New("A", "B")
	rates := migration.NewParam("rates", 2, 1)
	rates.Scale = migration.NewParam("rateScale", 0.5)
	m, err := migration.New(types, migration.NewParam("popSizes", 5, 10), rates, migration.Backward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r := m.BackwardRate(0, 1); r != 1 {
		t.Errorf("scaled rate: got %g, want %g", r, 1.0)
	}
}

func TestForwardConvention(t *testing.T) {
	types := typeset.New("A", "B", "C")
	fwd := []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6}

	// with equal population sizes
	// the forward convention is a transpose.
	eq, err := migration.New(types, migration.NewParam("popSizes", 2, 2, 2), migration.NewParam("rates", fwd...), migration.Forward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tr, err := migration.New(types, migration.NewParam("popSizes", 2, 2, 2), migration.NewParam("rates", fwd...), migration.ForwardTranspose)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				continue
			}
			want := fwd[migration.RateIndex(j, i, 3)]
			if got := eq.BackwardRate(i, j); math.Abs(got-want) > 1e-12 {
				t.Errorf("forward (%d,%d): got %g, want %g", i, j, got, want)
			}
			if got := tr.BackwardRate(i, j); math.Abs(got-want) > 1e-12 {
				t.Errorf("transpose (%d,%d): got %g, want %g", i, j, got, want)
			}
		}
	}

	// symmetric forward rates are equal to backward rates
	sym := []float64{0.3, 0.3, 0.3, 0.3, 0.3, 0.3}
	s, _ := migration.New(types, migration.NewParam("popSizes", 4, 4, 4), migration.NewParam("rates", sym...), migration.Forward)
	b, _ := migration.New(types, migration.NewParam("popSizes", 4, 4, 4), migration.NewParam("rates", sym...), migration.Backward)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if s.BackwardRate(i, j) != b.BackwardRate(i, j) {
				t.Errorf("symmetric (%d,%d): got %g, want %g", i, j, s.BackwardRate(i, j), b.BackwardRate(i, j))
			}
		}
	}

	// detailed balance: N(i) b(i,j) = N(j) f(j,i)
	ps := []float64{1, 2, 4}
	fm, _ := migration.New(types, migration.NewParam("popSizes", ps...), migration.NewParam("rates", fwd...), migration.Forward)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				continue
			}
			got := ps[i] * fm.BackwardRate(i, j)
			want := ps[j] * fwd[migration.RateIndex(j, i, 3)]
			if math.Abs(got-want) > 1e-12 {
				t.Errorf("balance (%d,%d): got %g, want %g", i, j, got, want)
			}
		}
	}
}

func TestParseConvention(t *testing.T) {
	for _, c := range []migration.Convention{migration.Backward, migration.Forward, migration.ForwardTranspose} {
		got, err := migration.ParseConvention(strings.ToUpper(c.String()))
		if err != nil {
			t.Errorf("convention %q: unexpected error: %v", c, err)
		}
		if got != c {
			t.Errorf("convention: got %v, want %v", got, c)
		}
	}
	if _, err := migration.ParseConvention("sideways"); err == nil {
		t.Errorf("unknown convention: expecting error")
	}
}

func TestCheckValues(t *testing.T) {
	types := typeset.New("A", "B")
	m, _ := migration.New(types, migration.NewParam("popSizes", 5, 0), migration.NewParam("rates", 2, 1), migration.Backward)
	if err := m.CheckValues(); !errors.Is(err, mtt.ErrNumerical) {
		t.Errorf("zero population size: got error %v, want %v", err, mtt.ErrNumerical)
	}
	m.PopSizes().Set(1, 3)
	m.Rates().Set(1, -1)
	if err := m.CheckValues(); !errors.Is(err, mtt.ErrNumerical) {
		t.Errorf("negative rate: got error %v, want %v", err, mtt.ErrNumerical)
	}
	m.Rates().Set(1, 1)
	if err := m.CheckValues(); err != nil {
		t.Errorf("valid model: unexpected error: %v", err)
	}
}

func TestResize(t *testing.T) {
	types := typeset.New("A", "B")
	m, _ := migration.New(types, migration.NewParam("popSizes", 5, 10), migration.NewParam("rates", 2, 1), migration.Backward)

	types.Add("C")
	if err := m.Resize(2, nil); err != nil {
		t.Fatalf("resize: unexpected error: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("resize: invalid model: %v", err)
	}
	if r := m.BackwardRate(0, 1); r != 2 {
		t.Errorf("resize: rate A->B: got %g, want %g", r, 2.0)
	}
	if r := m.BackwardRate(1, 0); r != 1 {
		t.Errorf("resize: rate B->A: got %g, want %g", r, 1.0)
	}
	if r := m.BackwardRate(2, 0); r != 1 {
		t.Errorf("resize: rate C->A: got %g, want default %g", r, 1.0)
	}

	m.Rates().Set(migration.RateIndex(2, 1, 3), 7)
	remap, err := types.Remove("A", nil)
	if err != nil {
		t.Fatalf("remove: unexpected error: %v", err)
	}
	if err := m.Resize(3, remap); err != nil {
		t.Fatalf("resize after remove: unexpected error: %v", err)
	}
	if r := m.BackwardRate(1, 0); r != 7 {
		t.Errorf("resize after remove: rate C->B: got %g, want %g", r, 7.0)
	}
	if p := m.PopSize(0); p != 10 {
		t.Errorf("resize after remove: pop size B: got %g, want %g", p, 10.0)
	}
}

func TestReadMatrixCSV(t *testing.T) {
	square := `0,1,2
3,0,4
5,6,0
`
	got, err := migration.ReadMatrixCSV(strings.NewReader(square), 3)
	if err != nil {
		t.Fatalf("square: unexpected error: %v", err)
	}
	want := []float64{1, 2, 3, 4, 5, 6}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("square: got %v, want %v", got, want)
	}

	flat := "1,2\n3,4\n5,6\n"
	got, err = migration.ReadMatrixCSV(strings.NewReader(flat), 3)
	if err != nil {
		t.Fatalf("flat: unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("flat: got %v, want %v", got, want)
	}

	if _, err := migration.ReadMatrixCSV(strings.NewReader("1,2,3"), 3); !errors.Is(err, mtt.ErrValidation) {
		t.Errorf("bad size: got error %v, want %v", err, mtt.ErrValidation)
	}
}

func TestRatesTSV(t *testing.T) {
	types := typeset.New("Africa", "Eurasia", "America")
	rates := []float64{0.5, 0.25, 1, 2, 0.125, 4}
	m, err := migration.New(types, migration.NewParam("popSizes", 1, 2, 3), migration.NewParam("rates", rates...), migration.Backward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := m.WriteRatesTSV(&buf); err != nil {
		t.Fatalf("unable to write rates: %v", err)
	}
	got, err := migration.ReadRatesTSV(&buf, types)
	if err != nil {
		t.Fatalf("unable to read rates: %v", err)
	}
	if !reflect.DeepEqual(got, rates) {
		t.Errorf("rates: got %v, want %v", got, rates)
	}

	buf.Reset()
	if err := m.WritePopSizes(&buf); err != nil {
		t.Fatalf("unable to write population sizes: %v", err)
	}
	ps, err := migration.ReadPopSizes(&buf)
	if err != nil {
		t.Fatalf("unable to read population sizes: %v", err)
	}
	if want := []float64{1, 2, 3}; !reflect.DeepEqual(ps, want) {
		t.Errorf("population sizes: got %v, want %v", ps, want)
	}
}

func TestModelFilesPrecision(t *testing.T) {
	types := typeset.New("A", "B")
	popSizes := []float64{2.5e-7, 1234.56789012}
	rates := []float64{3e-8, 0.1}
	m, err := migration.New(types, migration.NewParam("popSizes", popSizes...), migration.NewParam("rates", rates...), migration.Backward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var buf bytes.Buffer
	if err := m.WritePopSizes(&buf); err != nil {
		t.Fatalf("unable to write population sizes: %v", err)
	}
	ps, err := migration.ReadPopSizes(&buf)
	if err != nil {
		t.Fatalf("unable to read population sizes: %v", err)
	}
	if !reflect.DeepEqual(ps, popSizes) {
		t.Errorf("population sizes: got %v, want %v", ps, popSizes)
	}

	buf.Reset()
	if err := m.WriteRatesTSV(&buf); err != nil {
		t.Fatalf("unable to write rates: %v", err)
	}
	got, err := migration.ReadRatesTSV(&buf, types)
	if err != nil {
		t.Fatalf("unable to read rates: %v", err)
	}
	if !reflect.DeepEqual(got, rates) {
		t.Errorf("rates: got %v, want %v", got, rates)
	}

	rm, err := migration.New(types, migration.NewParam("popSizes", ps...), migration.NewParam("rates", got...), migration.Backward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := rm.CheckValues(); err != nil {
		t.Errorf("read model: unexpected error: %v", err)
	}
}

func TestClone(t *testing.T) {
	types := typeset.New("A", "B")
	ps := migration.NewParam("popSizes", 5, 10)
	ps.Scale = migration.NewParam("scale", 2)
	m, err := migration.New(types, ps, migration.NewParam("rates", 2, 1), migration.Forward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c := m.Clone()
	if c.Convention() != migration.Forward {
		t.Errorf("clone: got convention %v, want %v", c.Convention(), migration.Forward)
	}
	for i := 0; i < 2; i++ {
		if got, want := c.PopSize(i), m.PopSize(i); got != want {
			t.Errorf("clone: pop size %d: got %g, want %g", i, got, want)
		}
		for j := 0; j < 2; j++ {
			if got, want := c.BackwardRate(i, j), m.BackwardRate(i, j); got != want {
				t.Errorf("clone: rate %d -> %d: got %g, want %g", i, j, got, want)
			}
		}
	}

	// changes in the copy are not seen by the original
	c.PopSizes().Set(0, 0)
	c.PopSizes().Scale.Set(0, 3)
	c.Rates().Set(1, 7)
	c.Types().Add("C")
	if p := m.PopSize(0); p != 10 {
		t.Errorf("original pop size: got %g, want %g", p, 10.0)
	}
	if r := m.Rates().Value(1); r != 1 {
		t.Errorf("original rate: got %g, want %g", r, 1.0)
	}
	if n := m.NumTypes(); n != 2 {
		t.Errorf("original types: got %d, want %d", n, 2)
	}
}
