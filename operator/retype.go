// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package operator

import (
	"math"
	"slices"

	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/mtt"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// maxJumps is the maximum number of jumps
// (including virtual jumps)
// sampled on a single branch.
const maxJumps = 1000

// A retyper samples migration histories on a branch
// conditional on the types at both ends,
// using uniformization of the backward migration process.
type retyper struct {
	q   *mat.Dense
	mu  float64
	r   *mat.Dense
	pow []*mat.Dense
}

func newRetyper(m *migration.Model) *retyper {
	q := m.Generator()
	n, _ := q.Dims()

	rt := &retyper{q: q}
	for i := 0; i < n; i++ {
		rt.mu = math.Max(rt.mu, -q.At(i, i))
	}
	if rt.mu == 0 {
		return rt
	}

	r := mat.NewDense(n, n, nil)
	r.Scale(1/rt.mu, q)
	id := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		r.Set(i, i, r.At(i, i)+1)
		id.Set(i, i, 1)
	}
	rt.r = r
	rt.pow = []*mat.Dense{id}
	return rt
}

// power returns the k-th power
// of the uniformized jump matrix.
func (rt *retyper) power(k int) *mat.Dense {
	for len(rt.pow) <= k {
		p := &mat.Dense{}
		p.Mul(rt.pow[len(rt.pow)-1], rt.r)
		rt.pow = append(rt.pow, p)
	}
	return rt.pow[k]
}

// transition returns the probability
// of going from type i to type j
// in a branch of length l.
func (rt *retyper) transition(i, j int, l float64) float64 {
	var ql, p mat.Dense
	ql.Scale(l, rt.q)
	p.Exp(&ql)
	return p.At(i, j)
}

// sample returns a migration history
// from type from at time t0
// to type to at time t1,
// and its log probability density.
// It returns false if there is no valid history.
func (rt *retyper) sample(rng *rand.Rand, from, to int, t0, t1 float64) ([]mtt.Event, float64, bool) {
	if rt.mu == 0 {
		return nil, 0, from == to
	}

	l := t1 - t0
	pab := rt.transition(from, to, l)
	if !(pab > 0) {
		return nil, 0, false
	}

	// number of jumps
	pois := distuv.Poisson{Lambda: rt.mu * l}
	u := rng.Float64() * pab
	nj := -1
	var cum float64
	for k := 0; k <= maxJumps; k++ {
		p := pois.Prob(float64(k))
		w := p * rt.power(k).At(from, to)
		cum += w
		if w > 0 && cum >= u {
			nj = k
			break
		}
		if float64(k) > pois.Lambda && p == 0 {
			break
		}
	}
	if nj < 0 {
		return nil, 0, false
	}

	times := make([]float64, nj)
	for i := range times {
		times[i] = t0 + rng.Float64()*l
	}
	slices.Sort(times)

	var ev []mtt.Event
	n, _ := rt.q.Dims()
	w := make([]float64, n)
	c := from
	for k := 0; k < nj; k++ {
		rest := rt.power(nj - k - 1)
		for s := range w {
			w[s] = rt.r.At(c, s) * rest.At(s, to)
		}
		s := int(distuv.NewCategorical(w, rng).Rand())
		if s == c {
			// virtual jump
			continue
		}
		ev = append(ev, mtt.Event{
			Time: times[k],
			From: c,
			To:   s,
		})
		c = s
	}
	return ev, rt.pathLogP(from, ev, t0, t1, pab), true
}

// logDensity returns the log probability density
// of a migration history on a branch
// conditional on the types at both ends.
func (rt *retyper) logDensity(from int, ev []mtt.Event, to int, t0, t1 float64) float64 {
	if rt.mu == 0 {
		if from == to && len(ev) == 0 {
			return 0
		}
		return math.Inf(-1)
	}
	return rt.pathLogP(from, ev, t0, t1, rt.transition(from, to, t1-t0))
}

func (rt *retyper) pathLogP(from int, ev []mtt.Event, t0, t1, pab float64) float64 {
	var lp float64
	c := from
	prev := t0
	for _, e := range ev {
		lp += rt.q.At(c, c) * (e.Time - prev)
		lp += math.Log(rt.q.At(c, e.To))
		c = e.To
		prev = e.Time
	}
	lp += rt.q.At(c, c) * (t1 - prev)
	return lp - math.Log(pab)
}

// branchLogP returns the log density
// of the current history on the branch above a node.
func (rt *retyper) branchLogP(n *mtt.Node) float64 {
	p := n.Parent()
	return rt.logDensity(n.Type(), n.Events(), p.Type(), n.Height(), p.Height())
}

// retype samples a new history for the branch above a node
// using the current types of the node and its parent.
// It returns the log density of the new history.
func (rt *retyper) retype(rng *rand.Rand, t *mtt.Tree, n *mtt.Node) (float64, bool) {
	p := n.Parent()
	ev, lp, ok := rt.sample(rng, n.Type(), p.Type(), n.Height(), p.Height())
	if !ok {
		return 0, false
	}
	t.SetEvents(n, ev)
	return lp, true
}
