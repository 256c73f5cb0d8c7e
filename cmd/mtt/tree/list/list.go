// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package list implements a command to print
// the list of multi-type trees in a mtt project.
package list

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/project"
)

var Command = &command.Command{
	Usage: "list [--time] <project-file>",
	Short: "print a list of the trees in a project",
	Long: `
Command list reads the multi-type trees from a mtt project and prints the tree
names in the standard output, together with the number of leaves, the root
height, and the number of migration events of each tree.

The argument of the command is the name of the project file.

If the flag --time is defined, it will print the names of the time calibrated
trees instead.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var timeFlag bool

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&timeFlag, "time", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	if timeFlag {
		tc, err := p.TimeTrees()
		if err != nil {
			return err
		}
		for _, tn := range tc.Names() {
			fmt.Fprintf(c.Stdout(), "%s\n", tn)
		}
		return nil
	}

	types, err := p.Types()
	if err != nil {
		return err
	}
	tc, err := p.Trees(types)
	if err != nil {
		return err
	}
	for _, tn := range tc.Names() {
		t := tc.Tree(tn)
		fmt.Fprintf(c.Stdout(), "%s\t%d\t%.6f\t%d\n", tn, t.NumLeaves(), t.Root().Height(), t.MigrationCount())
	}
	return nil
}
