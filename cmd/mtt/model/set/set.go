// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package set implements a command to set
// the values of the migration model of a project.
package set

import (
	"fmt"
	"strconv"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/project"
)

var Command = &command.Command{
	Usage: `set [--popsize <type>] [--from <type> --to <type>]
	<project-file> <value>`,
	Short: "set a value of the migration model",
	Long: `
Command set sets the population size of a type, or the migration rate between
two types, in a mtt project.

The first argument of the command is the name of the project file. The second
argument is the value to be set.

To set the population size of a type use the flag --popsize with the name of
the type. Population sizes must be positive.

To set a migration rate use the flags --from and --to with the names of the
source and destination types. The rate is stored as given, so its time
direction is defined by the "convention" chain parameter (backward by
default). Rates must be non-negative.

If the project does not have population size or rate files, new files will be
created with the names 'popsizes.txt' and 'rates.tab'.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var popSize string
var fromType string
var toType string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&popSize, "popsize", "", "")
	c.Flags().StringVar(&fromType, "from", "", "")
	c.Flags().StringVar(&toType, "to", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if len(args) < 2 {
		return c.UsageError("expecting value")
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return c.UsageError(fmt.Sprintf("invalid value %q: %v", args[1], err))
	}

	isRate := fromType != "" || toType != ""
	if popSize == "" && !isRate {
		return c.UsageError("expecting --popsize or --from and --to flags")
	}
	if popSize != "" && isRate {
		return c.UsageError("flags --popsize and --from/--to are exclusive")
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

	if popSize != "" {
		i, ok := types.Index(popSize)
		if !ok {
			return fmt.Errorf("type %q not defined in project %q", popSize, args[0])
		}
		if !(v > 0) {
			return fmt.Errorf("invalid population size: %g", v)
		}
		m.PopSizes().Set(i, v)
	} else {
		i, ok := types.Index(fromType)
		if !ok {
			return fmt.Errorf("type %q not defined in project %q", fromType, args[0])
		}
		j, ok := types.Index(toType)
		if !ok {
			return fmt.Errorf("type %q not defined in project %q", toType, args[0])
		}
		if i == j {
			return fmt.Errorf("rate from %q to itself", fromType)
		}
		if v < 0 {
			return fmt.Errorf("invalid rate: %g", v)
		}
		m.Rates().Set(migration.RateIndex(i, j, types.Len()), v)
	}

	if err := p.WriteModel(m); err != nil {
		return err
	}
	return p.Write()
}
