// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package simulate_test

import (
	"errors"
	"math"
	"testing"

	"github.com/js-arias/multitype/density"
	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/simulate"
	"github.com/js-arias/multitype/typeset"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

func newModel(t testing.TB, pops, rates []float64) *migration.Model {
	t.Helper()
	types := typeset.New("A", "B")
	m, err := migration.New(types, migration.NewParam("popSizes", pops...), migration.NewParam("rates", rates...), migration.Backward)
	if err != nil {
		t.Fatalf("unable to build model: %v", err)
	}
	return m
}

func TestSimulate(t *testing.T) {
	m := newModel(t, []float64{5, 10}, []float64{2, 1})
	rng := rand.New(rand.NewSource(1))
	sc := density.StructuredCoalescent{Model: m}

	leaves := simulate.Leaves(0, 1, 1, 0, 1)
	leaves[2].Height = 0.5
	for i := 0; i < 100; i++ {
		tr, err := simulate.Simulate(m, leaves, rng)
		if err != nil {
			t.Fatalf("simulation %d: %v", i, err)
		}
		if n := tr.NumLeaves(); n != len(leaves) {
			t.Errorf("simulation %d: got %d leaves, want %d", i, n, len(leaves))
		}
		for _, n := range tr.Leaves() {
			var want simulate.Leaf
			for _, l := range leaves {
				if l.Taxon == n.Taxon() {
					want = l
				}
			}
			if n.Type() != want.Type || n.Height() != want.Height {
				t.Errorf("simulation %d: leaf %q: got type %d height %g, want %d %g", i, n.Taxon(), n.Type(), n.Height(), want.Type, want.Height)
			}
		}

		ev, err := density.Events(tr)
		if err != nil {
			t.Fatalf("simulation %d: %v", i, err)
		}
		var coal int
		for _, e := range ev {
			if e.Kind == density.Coalescence {
				coal++
			}
		}
		if coal != len(leaves)-1 {
			t.Errorf("simulation %d: got %d coalescences, want %d", i, coal, len(leaves)-1)
		}

		lp, err := sc.LogP(tr)
		if err != nil {
			t.Fatalf("simulation %d: %v", i, err)
		}
		if math.IsInf(lp, 0) || math.IsNaN(lp) {
			t.Errorf("simulation %d: invalid log density %g", i, lp)
		}
	}
}

func TestRootHeights(t *testing.T) {
	// two lineages in a single deme
	// coalesce at rate 1/N
	m := newModel(t, []float64{7, 7}, []float64{0, 0})
	rng := rand.New(rand.NewSource(2))

	hs, err := simulate.RootHeights(m, simulate.Leaves(0, 0), 2000, rng)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mean := stat.Mean(hs, nil); math.Abs(mean-7) > 0.7 {
		t.Errorf("mean root height: got %g, want %g", mean, 7.0)
	}
}

func TestSimulateErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	m := newModel(t, []float64{5, 10}, []float64{0, 0})
	if _, err := simulate.Simulate(m, simulate.Leaves(0, 1), rng); err == nil {
		t.Errorf("isolated demes: expecting error")
	}
	if _, err := simulate.Simulate(m, nil, rng); !errors.Is(err, mtt.ErrValidation) {
		t.Errorf("no leaves: got error %v, want %v", err, mtt.ErrValidation)
	}
	if _, err := simulate.Simulate(m, simulate.Leaves(0, 2), rng); !errors.Is(err, mtt.ErrValidation) {
		t.Errorf("undefined type: got error %v, want %v", err, mtt.ErrValidation)
	}

	m.PopSizes().Set(0, -1)
	if _, err := simulate.Simulate(m, simulate.Leaves(0, 0), rng); !errors.Is(err, mtt.ErrNumerical) {
		t.Errorf("negative population size: got error %v, want %v", err, mtt.ErrNumerical)
	}
}
