// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package list implements a command to list
// the types of a mtt project.
package list

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/project"
)

var Command = &command.Command{
	Usage: "list [--index] <project-file>",
	Short: "print a list of the types of a project",
	Long: `
Command list prints the names of the types defined in a mtt project, in the
order used by the population size and rate parameters.

The argument of the command is the name of the project file.

If the flag --index is defined, the index of each type will be printed before
the name.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var indexFlag bool

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&indexFlag, "index", false, "")
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
	for i, n := range types.Names() {
		if indexFlag {
			fmt.Fprintf(c.Stdout(), "%d\t%s\n", i, n)
			continue
		}
		fmt.Fprintf(c.Stdout(), "%s\n", n)
	}
	return nil
}
