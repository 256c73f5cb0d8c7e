// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mtt implements multi-type trees:
// binary time trees in which each node has a type
// and each branch carries an ordered list
// of migration events.
//
// A multi-type tree is a full realization
// of a structured coalescent history.
// Heights are measured backward in time
// (the present is at height zero).
package mtt

import (
	"slices"
	"strings"

	"github.com/js-arias/multitype/typeset"
)

// An Event is a migration event
// on a branch.
// From is the type below the event
// (i.e., closer to the present)
// and To the type above it.
type Event struct {
	Time float64
	From int
	To   int
}

// A Node is a node of a multi-type tree.
type Node struct {
	nr       int
	height   float64
	typ      int
	taxon    string
	parent   *Node
	children [2]*Node
	events   []Event
}

// Nr returns the number of the node in the tree.
// Leaves are numbered first.
func (n *Node) Nr() int { return n.nr }

// Height returns the height of the node.
func (n *Node) Height() float64 { return n.height }

// Type returns the type of the node.
func (n *Node) Type() int { return n.typ }

// Taxon returns the taxon name of a leaf.
func (n *Node) Taxon() string { return n.taxon }

// Parent returns the parent of the node,
// or nil if the node is the root.
func (n *Node) Parent() *Node { return n.parent }

// IsRoot returns true if the node is the root.
func (n *Node) IsRoot() bool { return n.parent == nil }

// IsLeaf returns true if the node is a leaf.
func (n *Node) IsLeaf() bool { return n.children[0] == nil && n.children[1] == nil }

// Children returns the children of the node.
func (n *Node) Children() []*Node {
	if n.IsLeaf() {
		return nil
	}
	return []*Node{n.children[0], n.children[1]}
}

// Child returns the i-th child of the node.
func (n *Node) Child(i int) *Node { return n.children[i] }

// Sister returns the other child of the node parent.
func (n *Node) Sister() *Node {
	if n.parent == nil {
		return nil
	}
	if n.parent.children[0] == n {
		return n.parent.children[1]
	}
	return n.parent.children[0]
}

// Events returns the migration events
// on the branch above the node,
// sorted by time.
// The returned slice must not be modified.
func (n *Node) Events() []Event { return n.events }

// FinalType returns the type at the top of the branch
// above the node.
func (n *Node) FinalType() int {
	if len(n.events) == 0 {
		return n.typ
	}
	return n.events[len(n.events)-1].To
}

// TypeAt returns the type of the branch above the node
// at a given time.
func (n *Node) TypeAt(t float64) int {
	tp := n.typ
	for _, e := range n.events {
		if e.Time > t {
			break
		}
		tp = e.To
	}
	return tp
}

// Tree is a multi-type tree.
type Tree struct {
	name  string
	types *typeset.TypeSet
	nodes []*Node
	root  *Node

	edit *Edit
}

// NodeData is the pre-parsed data of a node
// used to build a tree.
type NodeData struct {
	// ID is the identifier of the node
	// in the source data.
	ID int

	// Parent is the ID of the parent node,
	// or -1 for the root.
	Parent int

	Height float64
	Type   int

	// Taxon is the name of a leaf.
	Taxon string

	// Events are the migration events
	// on the branch above the node.
	Events []Event
}

// New creates a new tree from a set of node data.
// Leaves are numbered first,
// following the order in the data.
func New(name string, types *typeset.TypeSet, data []NodeData) (*Tree, error) {
	if len(data) == 0 {
		return nil, Validation("tree "+name, "without nodes")
	}

	ids := make(map[int]*Node, len(data))
	nodes := make([]*Node, len(data))
	for i, d := range data {
		if _, dup := ids[d.ID]; dup {
			return nil, Validation("tree "+name, "node %d defined twice", d.ID)
		}
		n := &Node{
			height: d.Height,
			typ:    d.Type,
			taxon:  d.Taxon,
			events: slices.Clone(d.Events),
		}
		ids[d.ID] = n
		nodes[i] = n
	}

	t := &Tree{
		name:  name,
		types: types,
	}
	rootID := -1
	for i, d := range data {
		n := nodes[i]
		if d.Parent < 0 {
			if t.root != nil {
				return nil, Validation("tree "+name, "nodes %d and %d without parent", rootID, d.ID)
			}
			t.root = n
			rootID = d.ID
			continue
		}
		p, ok := ids[d.Parent]
		if !ok {
			return nil, Validation("tree "+name, "node %d: parent %d undefined", d.ID, d.Parent)
		}
		switch {
		case p.children[0] == nil:
			p.children[0] = n
		case p.children[1] == nil:
			p.children[1] = n
		default:
			return nil, Validation("tree "+name, "node %d: more than two children", d.Parent)
		}
		n.parent = p
	}
	if t.root == nil {
		return nil, Validation("tree "+name, "root undefined")
	}

	for _, n := range nodes {
		if n.IsLeaf() {
			n.nr = len(t.nodes)
			t.nodes = append(t.nodes, n)
		}
	}
	for _, n := range nodes {
		if !n.IsLeaf() {
			n.nr = len(t.nodes)
			t.nodes = append(t.nodes, n)
		}
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Name returns the name of the tree.
func (t *Tree) Name() string { return t.name }

// SetName sets the name of the tree.
func (t *Tree) SetName(name string) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return
	}
	t.name = name
}

// Types returns the type set of the tree.
func (t *Tree) Types() *typeset.TypeSet { return t.types }

// Root returns the root node.
func (t *Tree) Root() *Node { return t.root }

// Node returns the node with the given number.
func (t *Tree) Node(nr int) *Node { return t.nodes[nr] }

// Nodes returns the nodes of the tree
// ordered by number.
func (t *Tree) Nodes() []*Node {
	return slices.Clone(t.nodes)
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int { return len(t.nodes) }

// NumLeaves returns the number of leaves.
func (t *Tree) NumLeaves() int { return (len(t.nodes) + 1) / 2 }

// Leaves returns the leaves of the tree.
func (t *Tree) Leaves() []*Node {
	return slices.Clone(t.nodes[:t.NumLeaves()])
}

// Internal returns the internal nodes of the tree.
func (t *Tree) Internal() []*Node {
	return slices.Clone(t.nodes[t.NumLeaves():])
}

// MigrationCount returns the total number of migration events
// in the tree.
func (t *Tree) MigrationCount() int {
	var c int
	for _, n := range t.nodes {
		c += len(n.events)
	}
	return c
}

// Validate checks the tree invariants.
func (t *Tree) Validate() error {
	what := "tree " + t.name
	if t.root == nil || t.root.parent != nil {
		return Validation(what, "invalid root")
	}
	if len(t.root.events) > 0 {
		return Validation(what, "root with migration events")
	}

	seen := 0
	var check func(n *Node) error
	check = func(n *Node) error {
		seen++
		if seen > len(t.nodes) {
			return Validation(what, "cycle at node %d", n.nr)
		}
		if n.typ < 0 || n.typ >= t.types.Len() {
			return Validation(what, "node %d: undefined type %d", n.nr, n.typ)
		}
		if (n.children[0] == nil) != (n.children[1] == nil) {
			return Validation(what, "node %d: not a binary node", n.nr)
		}
		if n.IsLeaf() && n.height < 0 {
			return Validation(what, "leaf %d: negative height %g", n.nr, n.height)
		}
		if n.parent != nil {
			if !(n.height < n.parent.height) {
				return Validation(what, "node %d: height %g not below parent height %g", n.nr, n.height, n.parent.height)
			}
			if err := t.checkEvents(n); err != nil {
				return err
			}
		}
		for _, c := range n.children {
			if c == nil {
				continue
			}
			if c.parent != n {
				return Validation(what, "node %d: inconsistent parent", c.nr)
			}
			if err := check(c); err != nil {
				return err
			}
		}
		return nil
	}
	if err := check(t.root); err != nil {
		return err
	}
	if seen != len(t.nodes) {
		return Validation(what, "%d nodes not connected to the root", len(t.nodes)-seen)
	}
	leaves := 0
	for _, n := range t.nodes {
		if n.IsLeaf() {
			leaves++
		}
	}
	if len(t.nodes) != 2*leaves-1 {
		return Validation(what, "%d nodes with %d leaves is not a binary tree", len(t.nodes), leaves)
	}
	return nil
}

func (t *Tree) checkEvents(n *Node) error {
	what := "tree " + t.name
	prevTime := n.height
	prevType := n.typ
	for i, e := range n.events {
		if !(e.Time > prevTime) {
			return Validation(what, "node %d: migration %d: time %g not after %g", n.nr, i, e.Time, prevTime)
		}
		if !(e.Time < n.parent.height) {
			return Validation(what, "node %d: migration %d: time %g not below parent height %g", n.nr, i, e.Time, n.parent.height)
		}
		if e.From != prevType {
			return Validation(what, "node %d: migration %d: from type %d, want %d", n.nr, i, e.From, prevType)
		}
		if e.To == e.From {
			return Validation(what, "node %d: migration %d: to the same type %d", n.nr, i, e.To)
		}
		if e.To < 0 || e.To >= t.types.Len() {
			return Validation(what, "node %d: migration %d: undefined type %d", n.nr, i, e.To)
		}
		prevTime = e.Time
		prevType = e.To
	}
	if prevType != n.parent.typ {
		return Validation(what, "node %d: branch ends with type %d, parent type %d", n.nr, prevType, n.parent.typ)
	}
	return nil
}

// Clone returns a deep copy of the tree.
// The clone shares the type set
// and has no open edit.
func (t *Tree) Clone() *Tree {
	nt := &Tree{
		name:  t.name,
		types: t.types,
		nodes: make([]*Node, len(t.nodes)),
	}
	for i, n := range t.nodes {
		nt.nodes[i] = &Node{
			nr:     n.nr,
			height: n.height,
			typ:    n.typ,
			taxon:  n.taxon,
			events: slices.Clone(n.events),
		}
	}
	for i, n := range t.nodes {
		c := nt.nodes[i]
		if n.parent != nil {
			c.parent = nt.nodes[n.parent.nr]
		}
		for j, ch := range n.children {
			if ch != nil {
				c.children[j] = nt.nodes[ch.nr]
			}
		}
	}
	nt.root = nt.nodes[t.root.nr]
	return nt
}

// Data returns the tree as a list of node data
// using node numbers as IDs.
func (t *Tree) Data() []NodeData {
	data := make([]NodeData, len(t.nodes))
	for i, n := range t.nodes {
		p := -1
		if n.parent != nil {
			p = n.parent.nr
		}
		data[i] = NodeData{
			ID:     n.nr,
			Parent: p,
			Height: n.height,
			Type:   n.typ,
			Taxon:  n.taxon,
			Events: slices.Clone(n.events),
		}
	}
	return data
}

// Lineages returns the number of lineages of each type
// at a given height.
// Above the root there is a single lineage
// with the type of the root.
func (t *Tree) Lineages(h float64) []int {
	k := make([]int, t.types.Len())
	if h >= t.root.height {
		k[t.root.typ]++
		return k
	}
	for _, n := range t.nodes {
		if n.parent == nil {
			continue
		}
		if n.height <= h && h < n.parent.height {
			k[n.TypeAt(h)]++
		}
	}
	return k
}
