// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project_test

import (
	"math"
	"os"
	"reflect"
	"slices"
	"testing"

	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/project"
)

type setPath struct {
	set  project.Dataset
	path string
}

func TestProject(t *testing.T) {
	p := project.New()

	sets := []setPath{
		{project.Types, "types.txt"},
		{project.PopSizes, "popsizes.txt"},
		{project.Rates, "rates.tab"},
		{project.LeafTypes, "leaf-types.tab"},
		{project.TimeTrees, "time-trees.tab"},
		{project.Trees, "trees.tab"},
		{project.ChainParam, "chain.tab"},
	}

	for _, s := range sets {
		p.Add(s.set, s.path)
	}
	testProject(t, p, sets)

	name := "tmp-project-for-test.tab"
	defer os.Remove(name)

	p.SetName(name)
	if err := p.Write(); err != nil {
		t.Fatalf("error when writing data: %v", err)
	}

	np, err := project.Read(name)
	if err != nil {
		t.Fatalf("error when reading data: %v", err)
	}
	testProject(t, np, sets)
}

func TestModel(t *testing.T) {
	files := map[string]string{
		"tmp-types-for-test.txt":     "# type names\nAfrica\nEurasia\n",
		"tmp-popsizes-for-test.txt":  "2\n4\n",
		"tmp-rates-for-test.tab":     "from\tto\trate\nAfrica\tEurasia\t0.5\n",
		"tmp-bad-popsize-for-test.t": "2\n",
	}
	for name, data := range files {
		if err := os.WriteFile(name, []byte(data), 0644); err != nil {
			t.Fatalf("unable to write %q: %v", name, err)
		}
		defer os.Remove(name)
	}

	p := project.New()
	p.SetName("test")
	if _, err := p.Types(); err == nil {
		t.Errorf("undefined types: expecting error")
	}

	p.Add(project.Types, "tmp-types-for-test.txt")
	p.Add(project.PopSizes, "tmp-popsizes-for-test.txt")
	p.Add(project.Rates, "tmp-rates-for-test.tab")

	types, err := p.Types()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if names := types.Names(); !reflect.DeepEqual(names, []string{"Africa", "Eurasia"}) {
		t.Errorf("types: got %v, want %v", names, []string{"Africa", "Eurasia"})
	}

	m, err := p.Model(types, migration.Backward)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ps := m.PopSize(1); ps != 4 {
		t.Errorf("population size: got %g, want %g", ps, 4.0)
	}
	if r := m.BackwardRate(0, 1); math.Abs(r-0.5) > 1e-12 {
		t.Errorf("rate: got %g, want %g", r, 0.5)
	}
	if r := m.BackwardRate(1, 0); r != 0 {
		t.Errorf("undefined rate: got %g, want %g", r, 0.0)
	}

	p.Add(project.PopSizes, "tmp-bad-popsize-for-test.t")
	if _, err := p.Model(types, migration.Backward); err == nil {
		t.Errorf("wrong number of population sizes: expecting error")
	}

	cp, err := p.ChainParam()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cp.Chain() <= 0 {
		t.Errorf("default chain parameters: chain length %d", cp.Chain())
	}
}

func testProject(t testing.TB, p *project.Project, sets []setPath) {
	t.Helper()

	for _, s := range sets {
		if path := p.Path(s.set); path != s.path {
			t.Errorf("set %s: got path %q, want %q", s.set, path, s.path)
		}
	}
	datasets := make([]project.Dataset, 0, len(sets))
	for _, v := range sets {
		datasets = append(datasets, v.set)
	}
	slices.Sort(datasets)

	if ls := p.Sets(); !reflect.DeepEqual(ls, datasets) {
		t.Errorf("sets: got %v, want %v", ls, datasets)
	}
}

func TestNameRoot(t *testing.T) {
	p := project.New()
	p.SetName("data/project.tab")
	if r := p.NameRoot(); r != "data/project" {
		t.Errorf("name root: got %q, want %q", r, "data/project")
	}
}
