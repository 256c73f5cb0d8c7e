// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add types
// to a mtt project.
package add

import (
	"errors"
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/project"
	"github.com/js-arias/multitype/typeset"
)

var Command = &command.Command{
	Usage: `add [-f|--file <types-file>]
	<project-file> <type-name>...`,
	Short: "add types to a mtt project",
	Long: `
Command add adds one or more type names to a mtt project.

The first argument of the command is the name of the project file. If no
project file exists, a new project will be created.

The rest of the arguments are the names of the types to be added. Names
already in the project are ignored. New types are added at the end of the
type list.

If the project has population sizes or migration rates, the new types will
have a population size of 1, and the rates from and to the new types will be
zero.

By default the types will be stored in the type file currently defined for
the project. If the project does not have a type file, a new one will be
created with the name 'types.txt'. A different file name can be defined using
the flag --file, or -f.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var typesFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&typesFile, "file", "", "")
	c.Flags().StringVar(&typesFile, "f", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if len(args) < 2 {
		return c.UsageError("expecting type names")
	}
	p, err := openProject(args[0])
	if err != nil {
		return err
	}

	types := typeset.New()
	if p.Path(project.Types) != "" {
		types, err = p.Types()
		if err != nil {
			return err
		}
	}
	oldN := types.Len()

	// the model is read with the old type set
	var m *migration.Model
	if oldN > 0 && (p.Path(project.PopSizes) != "" || p.Path(project.Rates) != "") {
		cp, err := p.ChainParam()
		if err != nil {
			return err
		}
		m, err = p.Model(types, cp.Convention())
		if err != nil {
			return err
		}
	}

	for _, a := range args[1:] {
		types.Add(a)
	}

	if m != nil {
		if err := m.Resize(oldN, nil); err != nil {
			return err
		}
		if err := p.WriteModel(m); err != nil {
			return err
		}
	}

	if typesFile != "" {
		p.Add(project.Types, typesFile)
	}
	if err := p.WriteTypes(types); err != nil {
		return err
	}
	if err := p.Write(); err != nil {
		return err
	}
	fmt.Fprintf(c.Stderr(), "# types: %d (%d new)\n", types.Len(), types.Len()-oldN)
	return nil
}

func openProject(name string) (*project.Project, error) {
	p, err := project.Read(name)
	if errors.Is(err, os.ErrNotExist) {
		p := project.New()
		p.SetName(name)
		return p, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open project %q: %v", name, err)
	}
	return p, nil
}
