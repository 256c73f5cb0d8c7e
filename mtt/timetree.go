// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mtt

import (
	"fmt"

	"github.com/js-arias/multitype/typeset"
	"github.com/js-arias/timetree"
)

// MillionYears is the number of years in a height unit.
const MillionYears = 1_000_000

// FromTimeTree builds a multi-type tree
// from a time calibrated tree.
// Heights are in million years.
//
// The type of each leaf is taken from the leafType function
// that returns the type name of a taxon.
// Each internal node takes the type of its first child,
// and any branch with different types at its ends
// receives a single migration event
// at the middle of the branch.
func FromTimeTree(tt *timetree.Tree, types *typeset.TypeSet, leafType func(taxon string) (string, bool)) (*Tree, error) {
	var data []NodeData
	var visit func(id, parent int) (int, error)
	visit = func(id, parent int) (int, error) {
		i := len(data)
		data = append(data, NodeData{
			ID:     id,
			Parent: parent,
			Height: float64(tt.Age(id)) / MillionYears,
		})
		if tt.IsTerm(id) {
			tax := tt.Taxon(id)
			name, ok := leafType(tax)
			if !ok {
				return 0, fmt.Errorf("tree %q: taxon %q without type", tt.Name(), tax)
			}
			tp, ok := types.Index(name)
			if !ok {
				return 0, fmt.Errorf("tree %q: taxon %q: unknown type %q", tt.Name(), tax, name)
			}
			data[i].Taxon = tax
			data[i].Type = tp
			return tp, nil
		}

		children := tt.Children(id)
		if len(children) != 2 {
			return 0, Validation("tree "+tt.Name(), "node %d: not a binary node", id)
		}
		tp := -1
		for _, c := range children {
			ci := len(data)
			ct, err := visit(c, id)
			if err != nil {
				return 0, err
			}
			if tp < 0 {
				tp = ct
			}
			if ct != tp {
				data[ci].Events = []Event{{
					Time: (data[ci].Height + data[i].Height) / 2,
					From: ct,
					To:   tp,
				}}
			}
		}
		data[i].Type = tp
		return tp, nil
	}

	if _, err := visit(tt.Root(), -1); err != nil {
		return nil, err
	}
	return New(tt.Name(), types, data)
}
