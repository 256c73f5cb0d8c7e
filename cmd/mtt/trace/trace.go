// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package trace is a metapackage for commands
// that dealt with the trace files of MCMC chains.
package trace

import (
	"github.com/js-arias/command"
	"github.com/js-arias/multitype/cmd/mtt/trace/plot"
	"github.com/js-arias/multitype/cmd/mtt/trace/summary"
)

var Command = &command.Command{
	Usage: "trace <command> [<argument>...]",
	Short: "commands for MCMC trace files",
}

func init() {
	Command.Add(plot.Command)
	Command.Add(summary.Command)
}
