// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package list implements a command to print
// the leaf types of a mtt project.
package list

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/project"
)

var Command = &command.Command{
	Usage: "list [--count] <project-file>",
	Short: "print the leaf types of a project",
	Long: `
Command list prints the type of each taxon defined in a mtt project.

The argument of the command is the name of the project file.

If the flag --count is defined, it will print the number of taxa assigned to
each type.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var countFlag bool

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&countFlag, "count", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	d, err := p.LeafTypes()
	if err != nil {
		return err
	}

	if countFlag {
		count := make(map[string]int)
		for _, tx := range d.Taxa() {
			tp, _ := d.Type(tx)
			count[tp]++
		}
		for _, tp := range d.Types() {
			fmt.Fprintf(c.Stdout(), "%s\t%d\n", tp, count[tp])
		}
		return nil
	}

	for _, tx := range d.Taxa() {
		tp, _ := d.Type(tx)
		fmt.Fprintf(c.Stdout(), "%s\t%s\n", tx, tp)
	}
	return nil
}
