// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package operator

import (
	"math"

	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/mtt"
	"golang.org/x/exp/rand"
)

// NodeRetype is an operator that changes the type
// of a random internal node,
// and resamples the migration histories
// of the branches attached to that node.
type NodeRetype struct {
	Tree  *mtt.Tree
	Model *migration.Model
}

// Name returns the operator name.
func (op *NodeRetype) Name() string {
	return "noderetype"
}

// Propose makes a new proposal.
func (op *NodeRetype) Propose(rng *rand.Rand) (float64, *mtt.Edit) {
	t := op.Tree
	internal := t.Internal()
	if len(internal) == 0 {
		return Reject, nil
	}
	n := internal[rng.Intn(len(internal))]

	branches := n.Children()
	if !n.IsRoot() {
		branches = append(branches, n)
	}

	rt := newRetyper(op.Model)
	var logHR float64
	for _, b := range branches {
		logHR += rt.branchLogP(b)
	}

	e := t.Begin()
	t.SetType(n, rng.Intn(op.Model.NumTypes()))
	for _, b := range branches {
		lp, ok := rt.retype(rng, t, b)
		if !ok {
			return reject(e)
		}
		logHR -= lp
	}
	if math.IsNaN(logHR) {
		return reject(e)
	}
	if err := t.Validate(); err != nil {
		return reject(e)
	}
	return logHR, e
}
