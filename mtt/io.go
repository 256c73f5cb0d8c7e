// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mtt

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/js-arias/multitype/typeset"
)

// Kinds of rows in a tree file.
const (
	nodeRow      = "node"
	migrationRow = "migration"
)

var header = []string{
	"tree",
	"kind",
	"node",
	"parent",
	"age",
	"type",
	"taxon",
}

// A Collection is a set of multi-type trees
// identified by name.
type Collection struct {
	trees map[string]*Tree
}

// NewCollection creates a new empty collection.
func NewCollection() *Collection {
	return &Collection{trees: make(map[string]*Tree)}
}

// Add adds a tree to the collection.
// It returns an error if a tree with the same name
// is already in the collection.
func (c *Collection) Add(t *Tree) error {
	name := strings.ToLower(t.name)
	if _, dup := c.trees[name]; dup {
		return fmt.Errorf("tree %q already in collection", t.name)
	}
	c.trees[name] = t
	return nil
}

// Names returns the names of the trees
// in the collection.
func (c *Collection) Names() []string {
	names := make([]string, 0, len(c.trees))
	for _, t := range c.trees {
		names = append(names, t.name)
	}
	slices.Sort(names)
	return names
}

// Tree returns a tree by its name.
func (c *Collection) Tree(name string) *Tree {
	return c.trees[strings.ToLower(name)]
}

type treeData struct {
	nodes  []NodeData
	ids    map[int]int
	events map[int][]Event
}

// ReadTSV reads a collection of multi-type trees
// from a TSV file.
//
// The TSV file must contain the following fields:
//
//   - tree, the name of the tree
//   - kind, either "node" or "migration"
//   - node, the ID of the node
//   - parent, the ID of the parent node
//     (-1 for the root)
//   - age, the height of the node,
//     or the time of the migration event
//   - type, the name of the node type,
//     or the destination type of the migration event
//   - taxon, the taxon name of a leaf
//
// A migration row is an event on the branch above the node.
// The source type of an event is inferred from the node type
// and the previous events of the branch.
//
// Here is an example file:
//
//	tree	kind	node	parent	age	type	taxon
//	dummy	node	0	-1	2	B
//	dummy	node	1	0	1	B
//	dummy	node	2	0	0	B	C
//	dummy	node	3	1	0	A	A
//	dummy	node	4	1	0	B	B
//	dummy	migration	3	1	0.25	B
//
// Types not defined in the type set
// are reported as errors.
func ReadTSV(r io.Reader, types *typeset.TypeSet) (*Collection, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'
	tab.FieldsPerRecord = -1

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(strings.TrimSpace(h))
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	trees := make(map[string]*treeData)
	var names []string
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}
		get := func(f string) string {
			i := fields[f]
			if i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		f := "tree"
		name := strings.Join(strings.Fields(get(f)), " ")
		if name == "" {
			continue
		}
		td, ok := trees[strings.ToLower(name)]
		if !ok {
			td = &treeData{
				ids:    make(map[int]int),
				events: make(map[int][]Event),
			}
			trees[strings.ToLower(name)] = td
			names = append(names, name)
		}

		f = "node"
		id, err := strconv.Atoi(get(f))
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}

		f = "age"
		age, err := strconv.ParseFloat(get(f), 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
		}

		f = "type"
		tp, ok := types.Index(get(f))
		if !ok {
			return nil, fmt.Errorf("on row %d: field %q: unknown type %q", ln, f, get(f))
		}

		f = "kind"
		switch k := strings.ToLower(get(f)); k {
		case nodeRow:
			f = "parent"
			p, err := strconv.Atoi(get(f))
			if err != nil {
				return nil, fmt.Errorf("on row %d: field %q: %v", ln, f, err)
			}
			if _, dup := td.ids[id]; dup {
				return nil, fmt.Errorf("on row %d: field %q: node %d defined twice", ln, "node", id)
			}
			td.ids[id] = len(td.nodes)
			td.nodes = append(td.nodes, NodeData{
				ID:     id,
				Parent: p,
				Height: age,
				Type:   tp,
				Taxon:  strings.Join(strings.Fields(get("taxon")), " "),
			})
		case migrationRow:
			td.events[id] = append(td.events[id], Event{
				Time: age,
				To:   tp,
			})
		default:
			return nil, fmt.Errorf("on row %d: field %q: unknown kind %q", ln, f, k)
		}
	}

	c := NewCollection()
	for _, name := range names {
		td := trees[strings.ToLower(name)]
		for id, ev := range td.events {
			i, ok := td.ids[id]
			if !ok {
				return nil, fmt.Errorf("tree %q: migration on undefined node %d", name, id)
			}
			sort.SliceStable(ev, func(i, j int) bool {
				return ev[i].Time < ev[j].Time
			})
			prev := td.nodes[i].Type
			for j := range ev {
				ev[j].From = prev
				prev = ev[j].To
			}
			td.nodes[i].Events = ev
		}
		t, err := New(name, types, td.nodes)
		if err != nil {
			return nil, err
		}
		c.trees[strings.ToLower(name)] = t
	}
	return c, nil
}

// TSV writes a collection as a TSV file.
func (c *Collection) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}
	for _, name := range c.Names() {
		if err := c.Tree(name).write(tab); err != nil {
			return err
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}

// TSV writes a tree as a TSV file.
func (t *Tree) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}
	if err := t.write(tab); err != nil {
		return err
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}

func (t *Tree) write(tab *csv.Writer) error {
	var stack []*Node
	stack = append(stack, t.root)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		p := "-1"
		if n.parent != nil {
			p = strconv.Itoa(n.parent.nr)
		}
		row := []string{
			t.name,
			nodeRow,
			strconv.Itoa(n.nr),
			p,
			strconv.FormatFloat(n.height, 'g', -1, 64),
			t.types.Name(n.typ),
			n.taxon,
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
		for _, e := range n.events {
			row := []string{
				t.name,
				migrationRow,
				strconv.Itoa(n.nr),
				p,
				strconv.FormatFloat(e.Time, 'g', -1, 64),
				t.types.Name(e.To),
				"",
			}
			if err := tab.Write(row); err != nil {
				return fmt.Errorf("when writing data: %v", err)
			}
		}

		for i := len(n.children) - 1; i >= 0; i-- {
			if c := n.children[i]; c != nil {
				stack = append(stack, c)
			}
		}
	}
	return nil
}
