// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package operator

import (
	"math"

	"github.com/js-arias/multitype/mtt"
	"golang.org/x/exp/rand"
)

// Scale is an operator that scales the ages
// of all internal nodes of a tree.
//
// Internal node ages,
// and the migration events on internal branches,
// are multiplied by a factor f
// drawn uniformly in [Factor, 1/Factor].
// Events on the branches of the leaves
// are moved so they keep their relative position
// in the branch.
type Scale struct {
	Tree *mtt.Tree

	// Factor is the tuning parameter
	// of the operator,
	// it must be in (0, 1).
	Factor float64
}

// Name returns the operator name.
func (op *Scale) Name() string {
	return "scale"
}

// Propose makes a new proposal.
func (op *Scale) Propose(rng *rand.Rand) (float64, *mtt.Edit) {
	s := op.Factor
	if s > 1 {
		s = 1 / s
	}
	f := s + rng.Float64()*(1/s-s)
	logF := math.Log(f)

	t := op.Tree
	e := t.Begin()

	// the reverse move uses factor 1/f
	logHR := -2 * logF

	for _, n := range t.Leaves() {
		p := n.Parent()
		if p == nil {
			continue
		}
		old := p.Height() - n.Height()
		l := f*p.Height() - n.Height()
		if !(l > 0) {
			return reject(e)
		}
		ev := n.Events()
		if len(ev) == 0 {
			continue
		}
		r := l / old
		nev := make([]mtt.Event, len(ev))
		for i, x := range ev {
			nev[i] = x
			nev[i].Time = n.Height() + (x.Time-n.Height())*r
		}
		t.SetEvents(n, nev)
		logHR += float64(len(ev)) * math.Log(r)
	}

	internal := t.Internal()
	dims := len(internal)
	for _, n := range internal {
		t.SetHeight(n, f*n.Height())
		ev := n.Events()
		if len(ev) == 0 {
			continue
		}
		nev := make([]mtt.Event, len(ev))
		for i, x := range ev {
			nev[i] = x
			nev[i].Time = f * x.Time
		}
		t.SetEvents(n, nev)
		dims += len(ev)
	}
	logHR += float64(dims) * logF

	if err := t.Validate(); err != nil {
		return reject(e)
	}
	return logHR, e
}
