// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package score implements a command to calculate
// the structured coalescent density
// of the multi-type trees of a project.
package score

import (
	"fmt"
	"io"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/density"
	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/project"
)

var Command = &command.Command{
	Usage: `score [--tree <name>] [--events]
	<project-file>`,
	Short: "calculate the structured coalescent density",
	Long: `
Command score reads the multi-type trees and the migration model of a mtt
project, and prints the log density of each tree under the structured
coalescent.

The argument of the command is the name of the project file.

By default, all trees are scored. Use the flag --tree to score only a single
tree.

If the flag --events is defined, the ordered list of events of each tree
(samples, coalescences and migrations) will be printed, together with the
number of lineages of each type after the event.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeName string
var eventsFlag bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeName, "tree", "", "")
	c.Flags().BoolVar(&eventsFlag, "events", false, "")
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
	cp, err := p.ChainParam()
	if err != nil {
		return err
	}
	m, err := p.Model(types, cp.Convention())
	if err != nil {
		return err
	}
	tc, err := p.Trees(types)
	if err != nil {
		return err
	}

	names := tc.Names()
	if treeName != "" {
		t := tc.Tree(treeName)
		if t == nil {
			return fmt.Errorf("tree %q not found in project %q", treeName, args[0])
		}
		names = []string{t.Name()}
	}

	sc := density.StructuredCoalescent{Model: m}
	fmt.Fprintf(c.Stdout(), "tree\tlogP\tmigrations\n")
	for _, tn := range names {
		t := tc.Tree(tn)
		lp, err := sc.LogP(t)
		if err != nil {
			return fmt.Errorf("tree %q: %w", tn, err)
		}
		fmt.Fprintf(c.Stdout(), "%s\t%.6f\t%d\n", tn, lp, t.MigrationCount())
		if eventsFlag {
			if err := printEvents(c.Stdout(), t); err != nil {
				return err
			}
		}
	}
	return nil
}

func printEvents(w io.Writer, t *mtt.Tree) error {
	ev, err := density.Events(t)
	if err != nil {
		return fmt.Errorf("tree %q: %w", t.Name(), err)
	}
	types := t.Types()
	for _, e := range ev {
		fmt.Fprintf(w, "\t%.6f\t%s\t%s", e.Time, e.Kind, types.Name(e.Type))
		if e.Kind == density.Migration {
			fmt.Fprintf(w, "->%s", types.Name(e.To))
		}
		fmt.Fprintf(w, "\t%v\n", e.Lineages)
	}
	return nil
}
