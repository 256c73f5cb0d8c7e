// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package importcmd implements a command to import
// population sizes and migration rates
// into a mtt project.
package importcmd

import (
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/project"
	"github.com/js-arias/multitype/typeset"
)

var Command = &command.Command{
	Usage: `import [--popsizes <file>] [--rates <file>] [--tsv]
	<project-file>`,
	Short: "import a migration model",
	Long: `
Command import reads population sizes, migration rates, or both, and stores
them in a mtt project.

The argument of the command is the name of the project file. The project must
have a type set.

The flag --popsizes defines a file with the population size of each type, one
value per line, in the order of the types.

The flag --rates defines a file with the migration rates. By default, it is
read as a comma-delimited matrix, in which rows are the source types and
columns the destination types. The matrix can include the diagonal (n*n
values, the diagonal is ignored), or only the off-diagonal elements (n*(n-1)
values, read row by row). If the flag --tsv is defined, the rates are read as
a tab-delimited file with the fields "from", "to", and "rate" (see 'mtt help
model-files').

If the project does not have population size or rate files, new files will be
created with the names 'popsizes.txt' and 'rates.tab'.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var popFile string
var ratesFile string
var tsvFlag bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&popFile, "popsizes", "", "")
	c.Flags().StringVar(&ratesFile, "rates", "", "")
	c.Flags().BoolVar(&tsvFlag, "tsv", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if popFile == "" && ratesFile == "" {
		return c.UsageError("expecting --popsizes or --rates flag")
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

	if popFile != "" {
		ps, err := readPopSizes(popFile)
		if err != nil {
			return err
		}
		if len(ps) != types.Len() {
			return fmt.Errorf("on file %q: got %d population sizes, want %d", popFile, len(ps), types.Len())
		}
		m.PopSizes().SetValues(ps)
	}

	if ratesFile != "" {
		rates, err := readRates(ratesFile, types)
		if err != nil {
			return err
		}
		m.Rates().SetValues(rates)
	}

	if err := m.CheckValues(); err != nil {
		return err
	}
	if err := p.WriteModel(m); err != nil {
		return err
	}
	return p.Write()
}

func readPopSizes(name string) ([]float64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ps, err := migration.ReadPopSizes(f)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return ps, nil
}

func readRates(name string, types *typeset.TypeSet) ([]float64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	read := func(r io.Reader) ([]float64, error) {
		return migration.ReadMatrixCSV(r, types.Len())
	}
	if tsvFlag {
		read = func(r io.Reader) ([]float64, error) {
			return migration.ReadRatesTSV(r, types)
		}
	}
	rates, err := read(f)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return rates, nil
}
