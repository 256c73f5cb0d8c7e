// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package operator implements MCMC proposal operators
// on multi-type trees.
//
// An operator modifies the tree in place
// inside an open edit,
// and returns the edit
// together with the log of the Hastings ratio.
// The caller must either commit or revert the edit.
// If a proposal is infeasible
// the operator reverts its own changes
// and returns Reject with a nil edit.
package operator

import (
	"math"

	"github.com/js-arias/multitype/mtt"
	"golang.org/x/exp/rand"
)

// Reject is the log Hastings ratio
// of a rejected proposal.
var Reject = math.Inf(-1)

// An Operator is an MCMC proposal
// on a multi-type tree.
type Operator interface {
	// Name is the name of the operator.
	Name() string

	// Propose modifies the tree,
	// and returns the log Hastings ratio
	// and the open edit.
	Propose(rng *rand.Rand) (float64, *mtt.Edit)
}

// reject reverts an edit
// and returns a rejected proposal.
func reject(e *mtt.Edit) (float64, *mtt.Edit) {
	e.Revert()
	return Reject, nil
}
