// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mcmc_test

import (
	"errors"
	"math"
	"testing"

	"github.com/js-arias/multitype/density"
	"github.com/js-arias/multitype/mcmc"
	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/operator"
	"github.com/js-arias/multitype/simulate"
	"github.com/js-arias/multitype/trace"
	"github.com/js-arias/multitype/typeset"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

func threeLeaves(t testing.TB, types *typeset.TypeSet, leafTypes ...int) *mtt.Tree {
	t.Helper()
	tr, err := mtt.New("three", types, []mtt.NodeData{
		{ID: 0, Parent: -1, Height: 2, Type: 0},
		{ID: 1, Parent: 0, Height: 1, Type: 0},
		{ID: 2, Parent: 1, Height: 0, Type: leafTypes[0], Taxon: "1", Events: leafEvents(leafTypes[0], 0.5)},
		{ID: 3, Parent: 1, Height: 0, Type: leafTypes[1], Taxon: "2", Events: leafEvents(leafTypes[1], 0.5)},
		{ID: 4, Parent: 0, Height: 0, Type: leafTypes[2], Taxon: "3", Events: leafEvents(leafTypes[2], 1)},
	})
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}
	return tr
}

func leafEvents(tp int, time float64) []mtt.Event {
	if tp == 0 {
		return nil
	}
	return []mtt.Event{{Time: time, From: tp, To: 0}}
}

func newModel(t testing.TB, types *typeset.TypeSet) *migration.Model {
	t.Helper()
	m, err := migration.New(types, migration.NewParam("popSizes", 7, 7), migration.NewParam("rates", 0.1, 0.1), migration.Backward)
	if err != nil {
		t.Fatalf("unable to build model: %v", err)
	}
	return m
}

func newChain(t testing.TB, tr *mtt.Tree, m *migration.Model, seed uint64, scale bool) *mcmc.Chain {
	t.Helper()
	ops := []mcmc.Weighted{
		{Op: &operator.TypedWilsonBalding{Tree: tr, Model: m, Alpha: 0.2}, Weight: 1},
	}
	if scale {
		ops = append(ops, mcmc.Weighted{Op: &operator.Scale{Tree: tr, Factor: 0.8}, Weight: 1})
	}
	c, err := mcmc.New(tr, density.StructuredCoalescent{Model: m}, ops, rand.New(rand.NewSource(seed)))
	if err != nil {
		t.Fatalf("unable to build chain: %v", err)
	}
	return c
}

func TestChain(t *testing.T) {
	types := typeset.New("A", "B")
	m := newModel(t, types)

	var heights [2][]float64
	for i := range heights {
		tr := threeLeaves(t, types, 0, 0, 0)
		c := newChain(t, tr, m, 42, true)
		err := c.Run(2000, 100, func(step int, c *mcmc.Chain) error {
			heights[i] = append(heights[i], c.Tree().Root().Height())
			lp, err := density.StructuredCoalescent{Model: m}.LogP(c.Tree())
			if err != nil {
				return err
			}
			if math.Abs(lp-c.LogP()) > 1e-9 {
				t.Errorf("step %d: chain logP %g, tree logP %g", step, c.LogP(), lp)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var proposed int
		for _, s := range c.Stats() {
			proposed += s.Proposed
			if s.Accepted > s.Proposed-s.Rejected {
				t.Errorf("operator %s: %d accepted from %d proposals", s.Name, s.Accepted, s.Proposed)
			}
		}
		if proposed != 2000 {
			t.Errorf("proposals: got %d, want %d", proposed, 2000)
		}
	}
	if len(heights[0]) != 21 {
		t.Errorf("samples: got %d, want %d", len(heights[0]), 21)
	}

	// same seed, same chain
	for i := range heights[0] {
		if heights[0][i] != heights[1][i] {
			t.Errorf("sample %d: got %g, want %g", i, heights[1][i], heights[0][i])
		}
	}
}

func TestChainErrors(t *testing.T) {
	types := typeset.New("A", "B")
	m := newModel(t, types)
	tr := threeLeaves(t, types, 0, 0, 0)

	if _, err := mcmc.New(tr, density.StructuredCoalescent{Model: m}, nil, rand.New(rand.NewSource(1))); err == nil {
		t.Errorf("without operators: expecting error")
	}

	c := newChain(t, tr, m, 1, true)
	m.PopSizes().Set(1, 0)
	err := c.Run(100, 0, nil)
	if !errors.Is(err, mtt.ErrNumerical) {
		t.Errorf("invalid model: got error %v, want %v", err, mtt.ErrNumerical)
	}
}

// TestSimulationAgreement compares the root heights
// sampled by the operators
// with the root heights from direct simulation.
// Samples are pooled from independent chains.
func TestSimulationAgreement(t *testing.T) {
	if testing.Short() {
		t.Skip("long chain")
	}

	const numChains = 4
	tests := map[string]struct {
		leaves []int
		scale  bool
		burnin float64
	}{
		"same types with scale":         {leaves: []int{0, 0, 0}, scale: true, burnin: 0.2},
		"different types without scale": {leaves: []int{1, 0, 0}, scale: false, burnin: 0.1},
	}
	for name, test := range tests {
		types := typeset.New("A", "B")
		m := newModel(t, types)

		var chains [numChains][]float64
		var g errgroup.Group
		for i := range chains {
			tr := threeLeaves(t, types, test.leaves...)
			c := newChain(t, tr, m.Clone(), 42+uint64(i)*1009, test.scale)
			g.Go(func() error {
				tc := trace.New("height")
				err := c.Run(1_000_000, 1000, func(step int, c *mcmc.Chain) error {
					if step == 0 {
						return nil
					}
					tc.Add(step, c.Tree().Root().Height())
					return nil
				})
				chains[i] = tc.Burnin(test.burnin).Values("height")
				return err
			})
		}
		if err := g.Wait(); err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}

		var hs []float64
		var ess float64
		for _, x := range chains {
			hs = append(hs, x...)
			ess += trace.ESS(x)
		}

		sim, err := simulate.RootHeights(m, simulate.Leaves(test.leaves...), 100_000, rand.New(rand.NewSource(7)))
		if err != nil {
			t.Fatalf("%s: simulation: %v", name, err)
		}

		mean, simMean := trace.Mean(hs), trace.Mean(sim)
		v, simV := trace.Variance(hs), trace.Variance(sim)
		t.Logf("%s: ESS %.1f, mean %.3f (simulated %.3f), variance %.3f (simulated %.3f)", name, ess, mean, simMean, v, simV)
		if ess <= 1000 {
			t.Errorf("%s: ESS %.1f, want > %d", name, ess, 1000)
		}
		if math.Abs(mean-simMean) >= 1 {
			t.Errorf("%s: mean %.3f, want %.3f", name, mean, simMean)
		}
		if math.Abs(v-simV) >= 30 {
			t.Errorf("%s: variance %.3f, want %.3f", name, v, simV)
		}
	}
}
