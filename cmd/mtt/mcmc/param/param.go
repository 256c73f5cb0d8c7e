// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package param implements a command to set
// the chain parameters of a project.
package param

import (
	"flag"
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/chainparam"
	"github.com/js-arias/multitype/project"
)

var Command = &command.Command{
	Usage: `param [-f|--file <param-file>]
	[--chain <number>] [--logevery <number>] [--burnin <value>]
	[--seed <number>] [--alpha <value>] [--scalefactor <value>]
	[--wilsonbalding <weight>] [--scale <weight>] [--noderetype <weight>]
	[--convention <name>]
	<project-file>`,
	Short: "set the chain parameters",
	Long: `
Command param sets the parameters of the MCMC chains of a mtt project. If no
parameter flag is given, it prints the current parameters.

The argument of the command is the name of the project file.

The flags set the parameter of the same name (see 'mtt help chain-params' for
the meaning of each parameter). Parameters without a flag keep their
current value.

By default, the parameters will be stored in the chain parameter file
currently defined for the project. If the project does not have a chain
parameter file, a new one will be created with the name 'chain.tab'. A
different file name can be defined with the flag --file or -f.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var paramFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&paramFile, "file", "", "")
	c.Flags().StringVar(&paramFile, "f", "", "")

	params := []chainparam.Param{
		chainparam.Chain,
		chainparam.LogEvery,
		chainparam.Burnin,
		chainparam.Seed,
		chainparam.Alpha,
		chainparam.ScaleFactor,
		chainparam.Convention,
	}
	params = append(params, chainparam.Operators...)
	for _, p := range params {
		c.Flags().String(string(p), "", "")
	}
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	cp, err := p.ChainParam()
	if err != nil {
		return err
	}

	var set int
	var setErr error
	c.Flags().Visit(func(f *flag.Flag) {
		if f.Name == "file" || f.Name == "f" || setErr != nil {
			return
		}
		set++
		if err := cp.Set(chainparam.Param(f.Name), f.Value.String()); err != nil {
			setErr = fmt.Errorf("flag --%s: %v", f.Name, err)
		}
	})
	if setErr != nil {
		return setErr
	}

	if set == 0 && paramFile == "" {
		printParams(c, cp)
		return nil
	}

	name := p.Path(project.ChainParam)
	if name == "" {
		name = "chain.tab"
	}
	if paramFile != "" {
		name = paramFile
	}
	cp.SetName(name)
	if err := cp.Write(); err != nil {
		return err
	}

	if p.Path(project.ChainParam) != name {
		p.Add(project.ChainParam, name)
		if err := p.Write(); err != nil {
			return err
		}
	}
	return nil
}

func printParams(c *command.Command, cp *chainparam.CP) {
	w := c.Stdout()
	fmt.Fprintf(w, "%s\t%d\n", chainparam.Chain, cp.Chain())
	fmt.Fprintf(w, "%s\t%d\n", chainparam.LogEvery, cp.LogEvery())
	fmt.Fprintf(w, "%s\t%g\n", chainparam.Burnin, cp.Burnin())
	fmt.Fprintf(w, "%s\t%d\n", chainparam.Seed, cp.Seed())
	fmt.Fprintf(w, "%s\t%g\n", chainparam.Alpha, cp.Alpha())
	fmt.Fprintf(w, "%s\t%g\n", chainparam.ScaleFactor, cp.ScaleFactor())
	for _, op := range chainparam.Operators {
		fmt.Fprintf(w, "%s\t%g\n", op, cp.Weight(op))
	}
	fmt.Fprintf(w, "%s\t%s\n", chainparam.Convention, cp.Convention())
}
