// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mtt

import (
	"slices"
	"sort"
)

// An Edit is a reversible set of changes on a tree.
//
// Every change made to a tree
// while an edit is open
// is recorded with its inverse,
// so the edit can be reverted,
// leaving the tree as it was before the edit.
type Edit struct {
	t    *Tree
	undo []func()
}

// Begin opens a new edit on the tree.
// It panics if there is an edit already open.
func (t *Tree) Begin() *Edit {
	if t.edit != nil {
		panic("mtt: edit already open")
	}
	e := &Edit{t: t}
	t.edit = e
	return e
}

// Len returns the number of changes recorded in the edit.
func (e *Edit) Len() int {
	return len(e.undo)
}

// Revert undoes all the changes of the edit
// and closes it.
func (e *Edit) Revert() {
	for i := len(e.undo) - 1; i >= 0; i-- {
		e.undo[i]()
	}
	e.close()
}

// Commit accepts the changes of the edit
// and closes it.
func (e *Edit) Commit() {
	e.close()
}

func (e *Edit) close() {
	e.undo = nil
	if e.t.edit == e {
		e.t.edit = nil
	}
}

func (t *Tree) record(fn func()) {
	if t.edit == nil {
		return
	}
	t.edit.undo = append(t.edit.undo, fn)
}

// SetHeight sets the height of a node.
func (t *Tree) SetHeight(n *Node, h float64) {
	old := n.height
	t.record(func() { n.height = old })
	n.height = h
}

// SetType sets the type of a node.
func (t *Tree) SetType(n *Node, tp int) {
	old := n.typ
	t.record(func() { n.typ = old })
	n.typ = tp
}

// SetEvents replaces the migration events
// on the branch above a node.
// Events are copied and sorted by time.
func (t *Tree) SetEvents(n *Node, ev []Event) {
	old := n.events
	t.record(func() { n.events = old })
	var nev []Event
	if len(ev) > 0 {
		nev = slices.Clone(ev)
		sort.SliceStable(nev, func(i, j int) bool {
			return nev[i].Time < nev[j].Time
		})
	}
	n.events = nev
}

func (t *Tree) setParent(n, p *Node) {
	old := n.parent
	t.record(func() { n.parent = old })
	n.parent = p
}

func (t *Tree) setChild(p *Node, i int, c *Node) {
	old := p.children[i]
	t.record(func() { p.children[i] = old })
	p.children[i] = c
}

func (t *Tree) setRoot(n *Node) {
	old := t.root
	t.record(func() { t.root = old })
	t.root = n
}

func childSlot(p, c *Node) int {
	if p.children[0] == c {
		return 0
	}
	if p.children[1] == c {
		return 1
	}
	panic("mtt: node is not a child")
}

// DisconnectBranch removes the parent of a node from the tree,
// keeping the node as a child of its parent.
// The sister of the node takes the place of the parent,
// and its branch is extended
// with the migration events of the parent branch.
// The parent must not be the root.
func (t *Tree) DisconnectBranch(n *Node) {
	p := n.parent
	g := p.parent
	if g == nil {
		panic("mtt: disconnect a branch from the root")
	}
	s := n.Sister()

	ev := make([]Event, 0, len(s.events)+len(p.events))
	ev = append(ev, s.events...)
	ev = append(ev, p.events...)
	t.SetEvents(s, ev)

	t.setChild(g, childSlot(g, p), s)
	t.setParent(s, g)
	t.setChild(p, childSlot(p, s), nil)
	t.setParent(p, nil)
	t.SetEvents(p, nil)
}

// DisconnectBranchFromRoot removes the root of the tree
// (the parent of the node),
// keeping the node as its child.
// The sister of the node becomes the new root,
// and its migration events are removed.
func (t *Tree) DisconnectBranchFromRoot(n *Node) {
	p := n.parent
	if p.parent != nil {
		panic("mtt: parent is not the root")
	}
	s := n.Sister()

	t.setChild(p, childSlot(p, s), nil)
	t.setParent(s, nil)
	t.SetEvents(s, nil)
	t.setRoot(s)
}

// ConnectBranch inserts the parent of a node
// (previously disconnected)
// on the branch above dest
// at the given time.
// Migration events of dest above the time
// are moved to the branch of the inserted node,
// and the type of the inserted node
// is the type of the dest branch at that time.
func (t *Tree) ConnectBranch(n, dest *Node, time float64) {
	p := n.parent
	dp := dest.parent

	var below, above []Event
	for _, e := range dest.events {
		if e.Time < time {
			below = append(below, e)
			continue
		}
		above = append(above, e)
	}
	tp := dest.TypeAt(time)

	t.setChild(dp, childSlot(dp, dest), p)
	t.setParent(p, dp)
	t.setChild(p, childSlot(p, nil), dest)
	t.setParent(dest, p)

	t.SetHeight(p, time)
	t.SetType(p, tp)
	t.SetEvents(dest, below)
	t.SetEvents(p, above)
}

// ConnectBranchToRoot makes the parent of a node
// (previously disconnected)
// the new root of the tree,
// with the old root as its other child.
// The branch above the old root
// is left without migration events.
func (t *Tree) ConnectBranchToRoot(n, oldRoot *Node, time float64) {
	p := n.parent

	t.setChild(p, childSlot(p, nil), oldRoot)
	t.setParent(oldRoot, p)
	t.SetEvents(oldRoot, nil)
	t.SetEvents(p, nil)
	t.SetHeight(p, time)
	t.setRoot(p)
}
