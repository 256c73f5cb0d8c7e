// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package mtt_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/typeset"
	"github.com/js-arias/timetree"
)

// fixture is a four leaves tree
// with a single migration event.
func fixture() []mtt.NodeData {
	return []mtt.NodeData{
		{ID: 0, Parent: -1, Height: 2, Type: 0},
		{ID: 1, Parent: 0, Height: 0.5, Type: 0},
		{ID: 2, Parent: 0, Height: 1, Type: 0},
		{ID: 3, Parent: 1, Height: 0, Type: 1, Taxon: "A", Events: []mtt.Event{{Time: 0.25, From: 1, To: 0}}},
		{ID: 4, Parent: 1, Height: 0, Type: 0, Taxon: "B"},
		{ID: 5, Parent: 2, Height: 0, Type: 0, Taxon: "C"},
		{ID: 6, Parent: 2, Height: 0, Type: 0, Taxon: "D"},
	}
}

func newFixture(t testing.TB) *mtt.Tree {
	t.Helper()
	tr, err := mtt.New("dummy", typeset.New("A", "B"), fixture())
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}
	return tr
}

func TestNew(t *testing.T) {
	tr := newFixture(t)

	if n := tr.Len(); n != 7 {
		t.Errorf("nodes: got %d, want %d", n, 7)
	}
	if n := tr.NumLeaves(); n != 4 {
		t.Errorf("leaves: got %d, want %d", n, 4)
	}
	var taxa []string
	for _, n := range tr.Leaves() {
		if !n.IsLeaf() {
			t.Errorf("leaf %d: not a leaf", n.Nr())
		}
		taxa = append(taxa, n.Taxon())
	}
	if want := []string{"A", "B", "C", "D"}; !reflect.DeepEqual(taxa, want) {
		t.Errorf("taxa: got %v, want %v", taxa, want)
	}
	for _, n := range tr.Internal() {
		if n.IsLeaf() {
			t.Errorf("internal node %d: is a leaf", n.Nr())
		}
	}
	if h := tr.Root().Height(); h != 2 {
		t.Errorf("root height: got %g, want %g", h, 2.0)
	}
	if c := tr.MigrationCount(); c != 1 {
		t.Errorf("migrations: got %d, want %d", c, 1)
	}

	a := tr.Node(0)
	if tp := a.TypeAt(0.1); tp != 1 {
		t.Errorf("type at 0.1: got %d, want %d", tp, 1)
	}
	if tp := a.TypeAt(0.3); tp != 0 {
		t.Errorf("type at 0.3: got %d, want %d", tp, 0)
	}
	if tp := a.FinalType(); tp != 0 {
		t.Errorf("final type: got %d, want %d", tp, 0)
	}
	if s := a.Sister(); s.Taxon() != "B" {
		t.Errorf("sister: got %q, want %q", s.Taxon(), "B")
	}
}

func TestLineages(t *testing.T) {
	tr := newFixture(t)

	tests := map[float64][]int{
		0.1: {3, 1},
		0.3: {4, 0},
		0.7: {3, 0},
		1.5: {2, 0},
		3:   {1, 0},
	}
	for h, want := range tests {
		if got := tr.Lineages(h); !reflect.DeepEqual(got, want) {
			t.Errorf("lineages at %g: got %v, want %v", h, got, want)
		}
	}
}

func TestValidate(t *testing.T) {
	types := typeset.New("A", "B")
	tests := map[string]func(d []mtt.NodeData){
		"child above parent": func(d []mtt.NodeData) {
			d[1].Height = 2.5
		},
		"undefined type": func(d []mtt.NodeData) {
			d[4].Type = 3
		},
		"event above parent": func(d []mtt.NodeData) {
			d[3].Events[0].Time = 0.6
		},
		"wrong source type": func(d []mtt.NodeData) {
			d[3].Events[0].From = 0
		},
		"same type event": func(d []mtt.NodeData) {
			d[3].Type = 0
			d[3].Events[0].From = 0
		},
		"branch ends with wrong type": func(d []mtt.NodeData) {
			d[3].Events = nil
		},
		"negative leaf height": func(d []mtt.NodeData) {
			d[5].Height = -1
		},
		"two roots": func(d []mtt.NodeData) {
			d[2].Parent = -1
		},
		"three children": func(d []mtt.NodeData) {
			d[6].Parent = 1
		},
		"undefined parent": func(d []mtt.NodeData) {
			d[6].Parent = 10
		},
		"root with events": func(d []mtt.NodeData) {
			d[0].Events = []mtt.Event{{Time: 3, From: 0, To: 1}}
		},
	}
	for name, fn := range tests {
		d := fixture()
		fn(d)
		_, err := mtt.New("dummy", types, d)
		if !errors.Is(err, mtt.ErrValidation) {
			t.Errorf("%s: got error %v, want %v", name, err, mtt.ErrValidation)
		}
	}
}

func TestTSV(t *testing.T) {
	tr := newFixture(t)

	var buf bytes.Buffer
	if err := tr.TSV(&buf); err != nil {
		t.Fatalf("unable to write tree: %v", err)
	}
	first := buf.String()

	c, err := mtt.ReadTSV(strings.NewReader(first), tr.Types())
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}
	if names := c.Names(); !reflect.DeepEqual(names, []string{"dummy"}) {
		t.Fatalf("names: got %v, want %v", names, []string{"dummy"})
	}
	nt := c.Tree("dummy")
	if nt.MigrationCount() != 1 {
		t.Errorf("migrations: got %d, want %d", nt.MigrationCount(), 1)
	}
	for _, h := range []float64{0.1, 0.3, 0.7, 1.5} {
		if got, want := nt.Lineages(h), tr.Lineages(h); !reflect.DeepEqual(got, want) {
			t.Errorf("lineages at %g: got %v, want %v", h, got, want)
		}
	}

	buf.Reset()
	if err := nt.TSV(&buf); err != nil {
		t.Fatalf("unable to write tree: %v", err)
	}
	c2, err := mtt.ReadTSV(&buf, tr.Types())
	if err != nil {
		t.Fatalf("unable to read tree: %v", err)
	}
	if !reflect.DeepEqual(c2.Tree("dummy").Data(), nt.Data()) {
		t.Errorf("second read: got %v, want %v", c2.Tree("dummy").Data(), nt.Data())
	}
}

func TestReadTSVErrors(t *testing.T) {
	types := typeset.New("A", "B")
	tests := map[string]string{
		"unknown type": "tree\tkind\tnode\tparent\tage\ttype\ttaxon\nx\tnode\t0\t-1\t0\tC\tA\n",
		"unknown kind": "tree\tkind\tnode\tparent\tage\ttype\ttaxon\nx\tedge\t0\t-1\t0\tA\tA\n",
		"no header":    "tree\tnode\tparent\tage\ttype\ttaxon\n",
		"bad age":      "tree\tkind\tnode\tparent\tage\ttype\ttaxon\nx\tnode\t0\t-1\tzero\tA\tA\n",
		"orphan event": "tree\tkind\tnode\tparent\tage\ttype\ttaxon\nx\tnode\t0\t-1\t0\tA\tA\nx\tmigration\t3\t0\t1\tB\t\n",
	}
	for name, in := range tests {
		if _, err := mtt.ReadTSV(strings.NewReader(in), types); err == nil {
			t.Errorf("%s: expecting error", name)
		}
	}
}

func TestClone(t *testing.T) {
	tr := newFixture(t)
	c := tr.Clone()
	if !reflect.DeepEqual(c.Data(), tr.Data()) {
		t.Fatalf("clone: got %v, want %v", c.Data(), tr.Data())
	}
	c.SetHeight(c.Root(), 5)
	if h := tr.Root().Height(); h != 2 {
		t.Errorf("original root height: got %g, want %g", h, 2.0)
	}
}

func tsv(t testing.TB, tr *mtt.Tree) string {
	t.Helper()
	var buf bytes.Buffer
	if err := tr.TSV(&buf); err != nil {
		t.Fatalf("unable to write tree: %v", err)
	}
	return buf.String()
}

func TestEditRevert(t *testing.T) {
	tr := newFixture(t)
	before := tsv(t, tr)

	// move leaf A to the branch of C
	a := tr.Node(0)
	c := tr.Node(2)
	e := tr.Begin()
	tr.DisconnectBranch(a)
	tr.ConnectBranch(a, c, 0.75)
	tr.SetEvents(a, []mtt.Event{{Time: 0.5, From: 1, To: 0}})
	if err := tr.Validate(); err != nil {
		t.Fatalf("after move: %v", err)
	}
	if s := a.Sister(); s != c {
		t.Errorf("after move: sister %q, want %q", s.Taxon(), c.Taxon())
	}
	if e.Len() == 0 {
		t.Errorf("after move: empty edit")
	}
	e.Revert()

	if after := tsv(t, tr); after != before {
		t.Errorf("revert: got\n%s\nwant\n%s", after, before)
	}

	// a committed edit is kept
	e = tr.Begin()
	tr.SetHeight(tr.Root(), 3)
	e.Commit()
	if h := tr.Root().Height(); h != 3 {
		t.Errorf("commit: got %g, want %g", h, 3.0)
	}
}

func TestEditRoot(t *testing.T) {
	tr := newFixture(t)
	before := tsv(t, tr)

	// move the clade (C,D) above the root
	cd := tr.Node(2).Parent()
	oldRoot := tr.Root()
	e := tr.Begin()
	tr.DisconnectBranchFromRoot(cd)
	if tr.Root() == oldRoot {
		t.Fatalf("disconnect from root: root not changed")
	}
	newRoot := tr.Root()
	tr.ConnectBranchToRoot(cd, newRoot, 3)
	if err := tr.Validate(); err != nil {
		t.Fatalf("after root move: %v", err)
	}
	if h := tr.Root().Height(); h != 3 {
		t.Errorf("root height: got %g, want %g", h, 3.0)
	}
	e.Revert()

	if after := tsv(t, tr); after != before {
		t.Errorf("revert: got\n%s\nwant\n%s", after, before)
	}
}

func TestFromTimeTree(t *testing.T) {
	c, err := timetree.Newick(strings.NewReader("((A:1,B:1):1,C:2);"), "dummy", 2*mtt.MillionYears)
	if err != nil {
		t.Fatalf("unable to read newick tree: %v", err)
	}
	types := typeset.New("east", "west")
	leaves := map[string]string{
		"A": "east",
		"B": "west",
		"C": "west",
	}
	tr, err := mtt.FromTimeTree(c.Tree("dummy"), types, func(taxon string) (string, bool) {
		tp, ok := leaves[taxon]
		return tp, ok
	})
	if err != nil {
		t.Fatalf("unable to build tree: %v", err)
	}

	if h := tr.Root().Height(); h != 2 {
		t.Errorf("root height: got %g, want %g", h, 2.0)
	}
	if n := tr.NumLeaves(); n != 3 {
		t.Errorf("leaves: got %d, want %d", n, 3)
	}
	for _, n := range tr.Leaves() {
		want, _ := types.Index(leaves[n.Taxon()])
		if n.Type() != want {
			t.Errorf("leaf %q: got type %d, want %d", n.Taxon(), n.Type(), want)
		}
	}
	if m := tr.MigrationCount(); m < 1 || m > 2 {
		t.Errorf("migrations: got %d, want 1 or 2", m)
	}

	_, err = mtt.FromTimeTree(c.Tree("dummy"), types, func(taxon string) (string, bool) {
		return "", false
	})
	if err == nil {
		t.Errorf("missing leaf types: expecting error")
	}
}
