// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package density implements the probability density
// of a multi-type tree
// under the structured coalescent.
package density

import (
	"fmt"
	"math"
	"sort"

	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/mtt"
)

// Kind is the kind of an event in a tree history.
type Kind int

// Valid event kinds.
const (
	Sample Kind = iota
	Coalescence
	Migration
)

func (k Kind) String() string {
	switch k {
	case Sample:
		return "sample"
	case Coalescence:
		return "coalescence"
	case Migration:
		return "migration"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// An Event is an event of the history of a tree,
// and the number of lineages of each type
// just above the event.
type Event struct {
	Kind Kind
	Time float64

	// Type is the type of a sampled leaf
	// or a coalescence.
	// For migrations it is the source type.
	Type int

	// To is the destination type of a migration.
	To int

	Lineages []int
}

// Events returns the events of the tree history
// sorted by time,
// starting from the most recent event.
// It returns an error if the events
// are inconsistent with the number of lineages
// of each type.
func Events(t *mtt.Tree) ([]Event, error) {
	var ev []Event
	for _, n := range t.Nodes() {
		k := Sample
		if !n.IsLeaf() {
			k = Coalescence
		}
		ev = append(ev, Event{
			Kind: k,
			Time: n.Height(),
			Type: n.Type(),
		})
		for _, e := range n.Events() {
			ev = append(ev, Event{
				Kind: Migration,
				Time: e.Time,
				Type: e.From,
				To:   e.To,
			})
		}
	}
	sort.SliceStable(ev, func(i, j int) bool {
		if ev[i].Time != ev[j].Time {
			return ev[i].Time < ev[j].Time
		}
		// samples before any other event
		// at the same time
		return ev[i].Kind == Sample && ev[j].Kind != Sample
	})

	k := make([]int, t.Types().Len())
	for i := range ev {
		e := &ev[i]
		switch e.Kind {
		case Sample:
			k[e.Type]++
		case Coalescence:
			if k[e.Type] < 2 {
				return nil, fmt.Errorf("%w: tree %q: coalescence at %g with %d lineages of type %q", mtt.ErrInvalidHistory, t.Name(), e.Time, k[e.Type], t.Types().Name(e.Type))
			}
			k[e.Type]--
		case Migration:
			if k[e.Type] < 1 {
				return nil, fmt.Errorf("%w: tree %q: migration at %g without lineages of type %q", mtt.ErrInvalidHistory, t.Name(), e.Time, t.Types().Name(e.Type))
			}
			k[e.Type]--
			k[e.To]++
		}
		e.Lineages = append([]int(nil), k...)
	}
	return ev, nil
}

// StructuredCoalescent is the density
// of a multi-type tree
// given a migration model.
type StructuredCoalescent struct {
	Model *migration.Model
}

// LogP returns the log probability density
// of a multi-type tree.
//
// It returns an error wrapping mtt.ErrNumerical
// if the model has invalid parameter values,
// or an error wrapping mtt.ErrInvalidHistory
// if the tree events are inconsistent.
func (sc StructuredCoalescent) LogP(t *mtt.Tree) (float64, error) {
	if err := sc.Model.CheckValues(); err != nil {
		return 0, err
	}
	if t.Types().Len() != sc.Model.NumTypes() {
		return 0, mtt.Validation("tree "+t.Name(), "%d types, model with %d types", t.Types().Len(), sc.Model.NumTypes())
	}
	ev, err := Events(t)
	if err != nil {
		return 0, err
	}

	n := sc.Model.NumTypes()
	k := make([]int, n)
	var logP float64
	prev := ev[0].Time
	for _, e := range ev {
		if dt := e.Time - prev; dt > 0 {
			logP -= sc.rate(k) * dt
		}
		prev = e.Time

		switch e.Kind {
		case Coalescence:
			logP += math.Log(1 / sc.Model.PopSize(e.Type))
		case Migration:
			logP += math.Log(sc.Model.BackwardRate(e.Type, e.To))
		}
		copy(k, e.Lineages)
	}
	return logP, nil
}

// rate returns the total event rate
// for a given number of lineages of each type.
func (sc StructuredCoalescent) rate(k []int) float64 {
	var r float64
	for i, ki := range k {
		if ki == 0 {
			continue
		}
		r += float64(ki*(ki-1)) / (2 * sc.Model.PopSize(i))
		r += float64(ki) * sc.Model.TotalRate(i)
	}
	return r
}
