// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package types is a metapackage for commands
// that dealt with the type set of a project.
package types

import (
	"github.com/js-arias/command"
	"github.com/js-arias/multitype/cmd/mtt/types/add"
	"github.com/js-arias/multitype/cmd/mtt/types/list"
	"github.com/js-arias/multitype/cmd/mtt/types/remove"
)

var Command = &command.Command{
	Usage: "types <command> [<argument>...]",
	Short: "commands for the types of a project",
}

func init() {
	Command.Add(add.Command)
	Command.Add(list.Command)
	Command.Add(remove.Command)
}
