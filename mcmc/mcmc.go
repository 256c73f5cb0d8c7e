// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mcmc implements a Metropolis-Hastings chain
// over multi-type trees.
package mcmc

import (
	"fmt"
	"math"

	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/operator"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// A Density is a probability density
// of a multi-type tree.
type Density interface {
	LogP(t *mtt.Tree) (float64, error)
}

// A Weighted is an operator
// with its relative selection weight.
type Weighted struct {
	Op     operator.Operator
	Weight float64
}

// Stat is the number of proposals
// and accepted proposals of an operator.
type Stat struct {
	Name     string
	Proposed int
	Rejected int // infeasible proposals
	Accepted int
}

// Acceptance returns the fraction of accepted proposals.
func (s Stat) Acceptance() float64 {
	if s.Proposed == 0 {
		return 0
	}
	return float64(s.Accepted) / float64(s.Proposed)
}

// A Chain is a Markov chain
// of multi-type trees.
type Chain struct {
	tree *mtt.Tree
	d    Density
	ops  []Weighted
	rng  *rand.Rand
	pick distuv.Categorical

	logP  float64
	stats []Stat
}

// New creates a new chain
// starting from a given tree.
// The random number generator is used for all draws of the chain,
// so a chain is reproducible given the seed of the generator.
func New(t *mtt.Tree, d Density, ops []Weighted, rng *rand.Rand) (*Chain, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("mcmc: without operators")
	}
	w := make([]float64, len(ops))
	stats := make([]Stat, len(ops))
	var sum float64
	for i, o := range ops {
		if o.Weight < 0 {
			return nil, fmt.Errorf("mcmc: operator %q: negative weight %g", o.Op.Name(), o.Weight)
		}
		w[i] = o.Weight
		sum += o.Weight
		stats[i].Name = o.Op.Name()
	}
	if sum == 0 {
		return nil, fmt.Errorf("mcmc: all operators with zero weight")
	}

	logP, err := d.LogP(t)
	if err != nil {
		return nil, fmt.Errorf("mcmc: initial tree: %w", err)
	}
	if math.IsInf(logP, -1) {
		return nil, fmt.Errorf("mcmc: initial tree %q with zero probability", t.Name())
	}

	return &Chain{
		tree:  t,
		d:     d,
		ops:   ops,
		rng:   rng,
		pick:  distuv.NewCategorical(w, rng),
		logP:  logP,
		stats: stats,
	}, nil
}

// Tree returns the current tree of the chain.
func (c *Chain) Tree() *mtt.Tree {
	return c.tree
}

// LogP returns the log density of the current tree.
func (c *Chain) LogP() float64 {
	return c.logP
}

// Stats returns the operator statistics.
func (c *Chain) Stats() []Stat {
	return append([]Stat(nil), c.stats...)
}

// Step makes a single step of the chain.
// It returns an error if the density
// of a proposed tree can not be evaluated.
func (c *Chain) Step() error {
	i := int(c.pick.Rand())
	st := &c.stats[i]
	st.Proposed++

	logHR, e := c.ops[i].Op.Propose(c.rng)
	if logHR == operator.Reject {
		if e != nil {
			e.Revert()
		}
		st.Rejected++
		return nil
	}

	logP, err := c.d.LogP(c.tree)
	if err != nil {
		e.Revert()
		return fmt.Errorf("mcmc: operator %q: %w", st.Name, err)
	}

	logA := logP - c.logP + logHR
	if logA >= 0 || math.Log(c.rng.Float64()) < logA {
		e.Commit()
		c.logP = logP
		st.Accepted++
		return nil
	}
	e.Revert()
	return nil
}

// Run runs the chain for a number of steps.
// Every logEvery steps,
// and at the start of the chain,
// the function fn is called
// with the number of the step.
func (c *Chain) Run(steps, logEvery int, fn func(step int, c *Chain) error) error {
	if fn != nil {
		if err := fn(0, c); err != nil {
			return err
		}
	}
	for i := 1; i <= steps; i++ {
		if err := c.Step(); err != nil {
			return err
		}
		if fn == nil || logEvery <= 0 || i%logEvery != 0 {
			continue
		}
		if err := fn(i, c); err != nil {
			return err
		}
	}
	return nil
}
