// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package color implements a command to build multi-type trees
// from the time calibrated trees of a project.
package color

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/project"
)

var Command = &command.Command{
	Usage: `color [-f|--file <tree-file>] [--tree <name>]
	<project-file>`,
	Short: "build multi-type trees from time trees",
	Long: `
Command color reads the time calibrated trees and the leaf types of a mtt
project, and builds a multi-type tree for each time tree. The resulting trees
can be used as the starting trees of an MCMC chain.

The first argument of the command is the name of the project file. The
project must have a type set, time trees, and leaf types for all the
terminals of the trees.

Each leaf takes the type defined in the leaf type file. Each internal node
takes the type of its first child, and any branch with different types at its
ends receives a single migration event at the middle of the branch. Heights
are stored in million years.

By default, all time trees are colored. Use the flag --tree to color only a
single tree.

The multi-type trees are stored in the tree file currently defined for the
project, replacing trees with the same name. If the project does not have a
tree file, a new one will be created with the name 'trees.tab'. A different
file name can be defined with the flag --file or -f.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeFile string
var treeName string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeFile, "file", "", "")
	c.Flags().StringVar(&treeFile, "f", "", "")
	c.Flags().StringVar(&treeName, "tree", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	types, err := p.Types()
	if err != nil {
		return err
	}
	lt, err := p.LeafTypes()
	if err != nil {
		return err
	}
	tc, err := p.TimeTrees()
	if err != nil {
		return err
	}

	coll := mtt.NewCollection()
	if p.Path(project.Trees) != "" {
		old, err := p.Trees(types)
		if err != nil {
			return err
		}
		coll = old
	}

	colored := mtt.NewCollection()
	for _, tn := range tc.Names() {
		if treeName != "" && tn != treeName {
			continue
		}
		t, err := mtt.FromTimeTree(tc.Tree(tn), types, lt.Type)
		if err != nil {
			return err
		}
		if err := colored.Add(t); err != nil {
			return err
		}
		fmt.Fprintf(c.Stderr(), "# tree %q: %d migration events\n", tn, t.MigrationCount())
	}
	if len(colored.Names()) == 0 {
		return fmt.Errorf("tree %q not found in project %q", treeName, args[0])
	}

	out := mtt.NewCollection()
	for _, tn := range coll.Names() {
		if colored.Tree(tn) != nil {
			continue
		}
		if err := out.Add(coll.Tree(tn)); err != nil {
			return err
		}
	}
	for _, tn := range colored.Names() {
		if err := out.Add(colored.Tree(tn)); err != nil {
			return err
		}
	}

	if treeFile == "" {
		treeFile = p.Path(project.Trees)
		if treeFile == "" {
			treeFile = "trees.tab"
		}
	}
	if err := writeTrees(treeFile, out); err != nil {
		return err
	}
	p.Add(project.Trees, treeFile)
	return p.Write()
}

func writeTrees(name string, c *mtt.Collection) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := c.TSV(f); err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}
	return nil
}
