// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package plot implements a command to plot
// the values of a field of an MCMC trace file.
package plot

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/trace"
)

var Command = &command.Command{
	Usage: `plot [--field <name>] [--burnin <value>] [--bins <number>]
	[--trace] -o|--output <image-file> <trace-file>`,
	Short: "plot the values of a trace file",
	Long: `
Command plot reads a trace file and saves a histogram of the values of a
field into an image file.

The argument of the command is the name of the trace file.

The flag --output, or -o, is required, and defines the name of the image file.
The image format is taken from the file extension (e.g., "png", "svg",
"pdf").

By default, the field "height" is plotted. Use the flag --field to plot a
different field. The flag --bins defines the number of bins of the histogram
(by default, 50).

By default, the first 10% of the samples are discarded as burn-in. Use the
flag --burnin to set a different fraction.

If the flag --trace is defined, instead of a histogram, the image will show
the values of the field along the chain iterations.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var field string
var burnin float64
var bins int
var traceFlag bool
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&field, "field", "height", "")
	c.Flags().Float64Var(&burnin, "burnin", 0.1, "")
	c.Flags().IntVar(&bins, "bins", 50, "")
	c.Flags().BoolVar(&traceFlag, "trace", false, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting trace file")
	}
	if output == "" {
		return c.UsageError("expecting output image file")
	}
	if burnin < 0 || burnin >= 1 {
		return c.UsageError(fmt.Sprintf("invalid burnin value: %g", burnin))
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	tr, err := trace.ReadTSV(f)
	if err != nil {
		return fmt.Errorf("when reading %q: %v", args[0], err)
	}
	tr = tr.Burnin(burnin)

	if traceFlag {
		return tr.TracePlot(field, output)
	}
	return tr.Histogram(field, bins, output)
}
