// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package model is a metapackage for commands
// that dealt with the migration model of a project.
package model

import (
	"github.com/js-arias/command"
	"github.com/js-arias/multitype/cmd/mtt/model/importcmd"
	"github.com/js-arias/multitype/cmd/mtt/model/set"
	"github.com/js-arias/multitype/cmd/mtt/model/show"
)

var Command = &command.Command{
	Usage: "model <command> [<argument>...]",
	Short: "commands for the migration model",
}

func init() {
	Command.Add(importcmd.Command)
	Command.Add(set.Command)
	Command.Add(show.Command)
}
