// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package summary implements a command to print
// the summary statistics of MCMC trace files.
package summary

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/trace"
)

var Command = &command.Command{
	Usage: "summary [--burnin <value>] <trace-file>...",
	Short: "print summary statistics of trace files",
	Long: `
Command summary reads one or more trace files, and prints the summary
statistics of each field: the mean, the variance, the effective sample size
(ESS), and the 2.5%, 50%, and 97.5% quantiles.

The arguments of the command are the names of the trace files.

By default, the first 10% of the samples are discarded as burn-in. Use the
flag --burnin to set a different fraction.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var burnin float64

func setFlags(c *command.Command) {
	c.Flags().Float64Var(&burnin, "burnin", 0.1, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting trace file")
	}
	if burnin < 0 || burnin >= 1 {
		return c.UsageError(fmt.Sprintf("invalid burnin value: %g", burnin))
	}

	fmt.Fprintf(c.Stdout(), "file\tfield\tsamples\tmean\tvariance\tess\tlower\tmedian\tupper\n")
	for _, a := range args {
		tr, err := readTrace(a)
		if err != nil {
			return err
		}
		tr = tr.Burnin(burnin)
		for _, s := range tr.Summarize() {
			fmt.Fprintf(c.Stdout(), "%s\t%s\t%d\t%.6f\t%.6f\t%.1f\t%.6f\t%.6f\t%.6f\n", a, s.Field, tr.Len(), s.Mean, s.Variance, s.ESS, s.Lower, s.Median, s.Upper)
		}
	}
	return nil
}

func readTrace(name string) (*trace.Trace, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tr, err := trace.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return tr, nil
}
