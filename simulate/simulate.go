// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package simulate implements the simulation
// of multi-type trees
// under the structured coalescent.
package simulate

import (
	"fmt"
	"math"
	"slices"

	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/mtt"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// A Leaf is a sampled lineage.
type Leaf struct {
	Taxon  string
	Type   int
	Height float64
}

// Leaves returns a set of leaves sampled at the present
// with the indicated types.
// Leaves are named by its index.
func Leaves(types ...int) []Leaf {
	ls := make([]Leaf, len(types))
	for i, tp := range types {
		ls[i] = Leaf{
			Taxon: fmt.Sprintf("t%d", i),
			Type:  tp,
		}
	}
	return ls
}

type lineage struct {
	id     int
	tp     int
	events []mtt.Event
}

// Simulate returns a multi-type tree
// simulated backward in time
// from a set of leaves.
func Simulate(m *migration.Model, leaves []Leaf, rng *rand.Rand) (*mtt.Tree, error) {
	if len(leaves) == 0 {
		return nil, mtt.Validation("simulation", "without leaves")
	}
	if err := m.CheckValues(); err != nil {
		return nil, err
	}
	n := m.NumTypes()
	for _, l := range leaves {
		if l.Type < 0 || l.Type >= n {
			return nil, mtt.Validation("simulation", "leaf %q: undefined type %d", l.Taxon, l.Type)
		}
		if l.Height < 0 {
			return nil, mtt.Validation("simulation", "leaf %q: negative height %g", l.Taxon, l.Height)
		}
	}

	pending := slices.Clone(leaves)
	slices.SortStableFunc(pending, func(a, b Leaf) int {
		switch {
		case a.Height < b.Height:
			return -1
		case a.Height > b.Height:
			return 1
		}
		return 0
	})

	var data []mtt.NodeData
	var active []*lineage
	addLeaf := func(l Leaf) {
		active = append(active, &lineage{
			id: len(data),
			tp: l.Type,
		})
		data = append(data, mtt.NodeData{
			ID:     len(data),
			Parent: -1,
			Height: l.Height,
			Type:   l.Type,
			Taxon:  l.Taxon,
		})
	}

	t := pending[0].Height
	rates := make([]float64, n+n*n)
	for {
		for len(pending) > 0 && pending[0].Height <= t {
			addLeaf(pending[0])
			pending = pending[1:]
		}
		if len(active) == 1 && len(pending) == 0 {
			break
		}

		k := make([]int, n)
		for _, l := range active {
			k[l.tp]++
		}
		for i := 0; i < n; i++ {
			rates[i] = float64(k[i]*(k[i]-1)) / (2 * m.PopSize(i))
			for j := 0; j < n; j++ {
				rates[n+i*n+j] = float64(k[i]) * m.BackwardRate(i, j)
			}
		}
		total := floats.Sum(rates)

		next := math.Inf(1)
		if len(pending) > 0 {
			next = pending[0].Height
		}
		if total == 0 {
			if math.IsInf(next, 1) {
				return nil, fmt.Errorf("simulation: %d lineages that can not coalesce", len(active))
			}
			t = next
			continue
		}

		dt := distuv.Exponential{Rate: total, Src: rng}.Rand()
		if t+dt >= next {
			t = next
			continue
		}
		t += dt

		ev := int(distuv.NewCategorical(rates, rng).Rand())
		if ev < n {
			active = coalesce(rng, active, ev, t, &data)
			continue
		}
		i := (ev - n) / n
		j := (ev - n) % n
		l := pick(rng, active, i, -1)
		l.events = append(l.events, mtt.Event{
			Time: t,
			From: i,
			To:   j,
		})
		l.tp = j
	}

	return mtt.New("simulated", m.Types(), data)
}

// coalesce merges two random lineages of a given type.
func coalesce(rng *rand.Rand, active []*lineage, tp int, t float64, data *[]mtt.NodeData) []*lineage {
	a := pick(rng, active, tp, -1)
	b := pick(rng, active, tp, a.id)

	p := &lineage{
		id: len(*data),
		tp: tp,
	}
	*data = append(*data, mtt.NodeData{
		ID:     p.id,
		Parent: -1,
		Height: t,
		Type:   tp,
	})
	for _, c := range []*lineage{a, b} {
		(*data)[c.id].Parent = p.id
		(*data)[c.id].Events = c.events
	}

	na := active[:0]
	for _, l := range active {
		if l == a || l == b {
			continue
		}
		na = append(na, l)
	}
	return append(na, p)
}

// pick returns a random lineage of a given type,
// excluding a given lineage.
func pick(rng *rand.Rand, active []*lineage, tp, exclude int) *lineage {
	var ls []*lineage
	for _, l := range active {
		if l.tp == tp && l.id != exclude {
			ls = append(ls, l)
		}
	}
	return ls[rng.Intn(len(ls))]
}

// RootHeights returns the root heights
// of a set of simulated trees.
func RootHeights(m *migration.Model, leaves []Leaf, n int, rng *rand.Rand) ([]float64, error) {
	hs := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		t, err := Simulate(m, leaves, rng)
		if err != nil {
			return nil, err
		}
		hs = append(hs, t.Root().Height())
	}
	return hs, nil
}
