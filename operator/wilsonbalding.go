// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package operator

import (
	"math"

	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/mtt"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// TypedWilsonBalding is a subtree prune and regraft operator
// for multi-type trees.
//
// A random subtree is detached with its parent node,
// and attached to a random branch
// that is older than the subtree root.
// The new parent age is uniform on the range
// allowed by the new branch,
// or, if the subtree is attached above the root,
// the root age plus an exponential draw
// with mean Alpha times the root age.
// The migration history of the subtree branch
// is resampled conditional on the types at both ends.
type TypedWilsonBalding struct {
	Tree  *mtt.Tree
	Model *migration.Model

	// Alpha is the relative mean
	// of the extension above the root
	// when the subtree is attached as a sister
	// of the whole tree.
	Alpha float64
}

// Name returns the operator name.
func (op *TypedWilsonBalding) Name() string {
	return "wilsonbalding"
}

// Propose makes a new proposal.
func (op *TypedWilsonBalding) Propose(rng *rand.Rand) (float64, *mtt.Edit) {
	t := op.Tree
	src, ns := pickSource(rng, t)
	if src == nil {
		return Reject, nil
	}
	dests := validDests(t, src)
	dest := dests[rng.Intn(len(dests))]
	logHR := math.Log(float64(ns)) + math.Log(float64(len(dests)))

	rt := newRetyper(op.Model)
	e := t.Begin()

	var lh float64
	var ok bool
	switch {
	case dest.IsRoot():
		lh, ok = op.toRoot(rng, rt, src, dest)
	case src.Parent().IsRoot():
		lh, ok = op.fromRoot(rng, rt, src, dest)
	default:
		lh, ok = op.move(rng, rt, src, dest)
	}
	if !ok || math.IsNaN(lh) {
		return reject(e)
	}
	if err := t.Validate(); err != nil {
		return reject(e)
	}

	logHR += lh
	logHR -= math.Log(float64(countSources(t))) + math.Log(float64(len(validDests(t, src))))
	return logHR, e
}

// move regrafts a subtree when neither the old
// nor the new attachment point is the root.
func (op *TypedWilsonBalding) move(rng *rand.Rand, rt *retyper, src, dest *mtt.Node) (float64, bool) {
	t := op.Tree
	srcP := src.Parent()
	srcS := src.Sister()
	srcG := srcP.Parent()

	oldSpan := srcG.Height() - math.Max(src.Height(), srcS.Height())
	oldLogP := rt.branchLogP(src)

	low := math.Max(src.Height(), dest.Height())
	span := dest.Parent().Height() - low
	newTime := low + rng.Float64()*span

	t.DisconnectBranch(src)
	t.ConnectBranch(src, dest, newTime)
	newLogP, ok := rt.retype(rng, t, src)
	if !ok {
		return 0, false
	}

	return math.Log(span) - math.Log(oldSpan) + oldLogP - newLogP, true
}

// toRoot regrafts a subtree above the root.
func (op *TypedWilsonBalding) toRoot(rng *rand.Rand, rt *retyper, src, root *mtt.Node) (float64, bool) {
	t := op.Tree
	srcP := src.Parent()
	srcS := src.Sister()
	srcG := srcP.Parent()

	oldSpan := srcG.Height() - math.Max(src.Height(), srcS.Height())
	oldLogP := rt.branchLogP(src)

	rootAge := root.Height()
	mean := op.Alpha * rootAge
	ext := distuv.Exponential{Rate: 1 / mean, Src: rng}
	newTime := rootAge + ext.Rand()

	t.DisconnectBranch(src)
	t.ConnectBranchToRoot(src, root, newTime)
	n := op.Model.NumTypes()
	t.SetType(srcP, rng.Intn(n))

	srcLogP, ok := rt.retype(rng, t, src)
	if !ok {
		return 0, false
	}
	rootLogP, ok := rt.retype(rng, t, root)
	if !ok {
		return 0, false
	}

	newLogP := -math.Log(float64(n)) + srcLogP + rootLogP
	extLogP := -math.Log(mean) - (newTime-rootAge)/mean
	return oldLogP - newLogP - extLogP - math.Log(oldSpan), true
}

// fromRoot regrafts a subtree
// whose parent is the root.
func (op *TypedWilsonBalding) fromRoot(rng *rand.Rand, rt *retyper, src, dest *mtt.Node) (float64, bool) {
	t := op.Tree
	srcP := src.Parent()
	srcS := src.Sister()

	oldTime := srcP.Height()
	n := op.Model.NumTypes()
	oldLogP := -math.Log(float64(n)) + rt.branchLogP(src) + rt.branchLogP(srcS)

	// the sister becomes the new root
	mean := op.Alpha * srcS.Height()
	extLogP := -math.Log(mean) - (oldTime-srcS.Height())/mean

	low := math.Max(src.Height(), dest.Height())
	span := dest.Parent().Height() - low
	newTime := low + rng.Float64()*span

	t.DisconnectBranchFromRoot(src)
	t.ConnectBranch(src, dest, newTime)
	newLogP, ok := rt.retype(rng, t, src)
	if !ok {
		return 0, false
	}

	return oldLogP + extLogP + math.Log(span) - newLogP, true
}

// isValidDest returns true if the branch above dest
// (or above the root)
// is a valid attachment point
// for the subtree rooted at src.
func isValidDest(src, dest *mtt.Node) bool {
	srcP := src.Parent()
	if dest == src || dest == srcP {
		return false
	}
	if dest.IsRoot() {
		return true
	}
	if dest.Parent() == srcP {
		return false
	}
	return dest.Parent().Height() > src.Height()
}

func validDests(t *mtt.Tree, src *mtt.Node) []*mtt.Node {
	var dests []*mtt.Node
	for _, d := range t.Nodes() {
		if isValidDest(src, d) {
			dests = append(dests, d)
		}
	}
	return dests
}

func isValidSource(t *mtt.Tree, src *mtt.Node) bool {
	if src.IsRoot() {
		return false
	}
	for _, d := range t.Nodes() {
		if isValidDest(src, d) {
			return true
		}
	}
	return false
}

func countSources(t *mtt.Tree) int {
	var c int
	for _, n := range t.Nodes() {
		if isValidSource(t, n) {
			c++
		}
	}
	return c
}

// pickSource returns a random valid source node
// and the number of valid source nodes.
func pickSource(rng *rand.Rand, t *mtt.Tree) (*mtt.Node, int) {
	var srcs []*mtt.Node
	for _, n := range t.Nodes() {
		if isValidSource(t, n) {
			srcs = append(srcs, n)
		}
	}
	if len(srcs) == 0 {
		return nil, 0
	}
	return srcs[rng.Intn(len(srcs))], len(srcs)
}
