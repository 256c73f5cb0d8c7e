// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package mcmc is a metapackage for commands
// that dealt with MCMC chains over multi-type trees.
package mcmc

import (
	"github.com/js-arias/command"
	"github.com/js-arias/multitype/cmd/mtt/mcmc/param"
	"github.com/js-arias/multitype/cmd/mtt/mcmc/run"
)

var Command = &command.Command{
	Usage: "mcmc <command> [<argument>...]",
	Short: "commands for MCMC chains",
}

func init() {
	Command.Add(param.Command)
	Command.Add(run.Command)
}
