// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package show implements a command to print
// the migration model of a project.
package show

import (
	"fmt"
	"strings"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/project"
)

var Command = &command.Command{
	Usage: "show <project-file>",
	Short: "print the migration model of a project",
	Long: `
Command show prints the population size of each type and the backward-in-time
migration rate matrix of a mtt project.

The argument of the command is the name of the project file.

Rates are always printed backward in time (i.e., the rate at which a lineage
of the row type becomes a lineage of the column type going into the past),
using the convention of the chain parameters to translate the stored values.
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

	w := c.Stdout()
	fmt.Fprintf(w, "# convention: %s\n", m.Convention())
	fmt.Fprintf(w, "type\tpopsize\n")
	for i, n := range types.Names() {
		fmt.Fprintf(w, "%s\t%.6f\n", n, m.PopSize(i))
	}
	fmt.Fprintf(w, "\n")

	fmt.Fprintf(w, "from\\to\t%s\n", strings.Join(types.Names(), "\t"))
	for i, n := range types.Names() {
		row := make([]string, 0, types.Len())
		for j := range types.Names() {
			if i == j {
				row = append(row, "-")
				continue
			}
			row = append(row, fmt.Sprintf("%.6f", m.BackwardRate(i, j)))
		}
		fmt.Fprintf(w, "%s\t%s\n", n, strings.Join(row, "\t"))
	}

	if err := m.CheckValues(); err != nil {
		fmt.Fprintf(c.Stderr(), "warning: %v\n", err)
	}
	return nil
}
