// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to print
// the basic information of a project.
package prj

import (
	"fmt"
	"io"
	"math"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/project"
	"github.com/js-arias/multitype/typeset"
)

var Command = &command.Command{
	Usage: "prj <project-file>",
	Short: "print information about a project",
	Long: `
Command prj reads a mtt project and prints the information of the different
project elements into the standard output.

The argument of the command is the name of the project file.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	if p.Path(project.Types) == "" {
		fmt.Fprintf(c.Stdout(), "Types: undefined\n\n")
		return nil
	}
	types, err := p.Types()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Stdout(), "Types:\n")
	fmt.Fprintf(c.Stdout(), "\tfile: %s\n", p.Path(project.Types))
	fmt.Fprintf(c.Stdout(), "\ttypes: %d\n", types.Len())
	fmt.Fprintf(c.Stdout(), "\n")

	if err := printModel(c.Stdout(), p, types); err != nil {
		return err
	}

	if p.Path(project.LeafTypes) != "" {
		d, err := p.LeafTypes()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "Leaf types:\n")
		fmt.Fprintf(c.Stdout(), "\tfile: %s\n", p.Path(project.LeafTypes))
		fmt.Fprintf(c.Stdout(), "\tdefined taxa: %d\n", len(d.Taxa()))
		fmt.Fprintf(c.Stdout(), "\n")
	}

	if p.Path(project.TimeTrees) != "" {
		tc, err := p.TimeTrees()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "Time trees:\n")
		fmt.Fprintf(c.Stdout(), "\tfile: %s\n", p.Path(project.TimeTrees))
		fmt.Fprintf(c.Stdout(), "\ttrees: %d\n", len(tc.Names()))
		fmt.Fprintf(c.Stdout(), "\n")
	}

	if p.Path(project.Trees) != "" {
		tc, err := p.Trees(types)
		if err != nil {
			return err
		}
		printTrees(c.Stdout(), p.Path(project.Trees), tc)
	}

	if p.Path(project.ChainParam) != "" {
		cp, err := p.ChainParam()
		if err != nil {
			return err
		}
		fmt.Fprintf(c.Stdout(), "Chain parameters:\n")
		fmt.Fprintf(c.Stdout(), "\tfile: %s\n", p.Path(project.ChainParam))
		fmt.Fprintf(c.Stdout(), "\titerations: %d\n", cp.Chain())
		fmt.Fprintf(c.Stdout(), "\tconvention: %s\n", cp.Convention())
		fmt.Fprintf(c.Stdout(), "\n")
	}
	return nil
}

func printModel(w io.Writer, p *project.Project, types *typeset.TypeSet) error {
	cp, err := p.ChainParam()
	if err != nil {
		return err
	}
	m, err := p.Model(types, cp.Convention())
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Migration model:\n")
	if f := p.Path(project.PopSizes); f != "" {
		fmt.Fprintf(w, "\tpopulation sizes: %s\n", f)
	}
	if f := p.Path(project.Rates); f != "" {
		fmt.Fprintf(w, "\trates: %s\n", f)
	}
	var nz int
	for i := 0; i < m.NumTypes(); i++ {
		for j := 0; j < m.NumTypes(); j++ {
			if m.BackwardRate(i, j) > 0 {
				nz++
			}
		}
	}
	fmt.Fprintf(w, "\tnon-zero rates: %d\n", nz)
	if err := m.CheckValues(); err != nil {
		fmt.Fprintf(w, "\twarning: %v\n", err)
	}
	fmt.Fprintf(w, "\n")
	return nil
}

func printTrees(w io.Writer, name string, tc *mtt.Collection) {
	fmt.Fprintf(w, "Multi-type trees:\n")
	fmt.Fprintf(w, "\tfile: %s\n", name)

	terms := make(map[string]bool)
	min := math.MaxFloat64
	var max float64
	var events int
	for _, tn := range tc.Names() {
		t := tc.Tree(tn)
		if t == nil {
			continue
		}
		if h := t.Root().Height(); h > max {
			max = h
		}
		for _, n := range t.Leaves() {
			terms[n.Taxon()] = true
			if n.Height() < min {
				min = n.Height()
			}
		}
		events += t.MigrationCount()
	}
	fmt.Fprintf(w, "\ttrees: %d\n", len(tc.Names()))
	fmt.Fprintf(w, "\tterminals: %d\n", len(terms))
	fmt.Fprintf(w, "\tage range: %.3f-%.3f\n", min, max)
	fmt.Fprintf(w, "\tmigration events: %d\n", events)
	fmt.Fprintf(w, "\n")
}
