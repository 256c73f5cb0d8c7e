// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package leaf is a metapackage for commands
// that dealt with the types of the leaves.
package leaf

import (
	"github.com/js-arias/command"
	"github.com/js-arias/multitype/cmd/mtt/leaf/add"
	"github.com/js-arias/multitype/cmd/mtt/leaf/list"
)

var Command = &command.Command{
	Usage: "leaf <command> [<argument>...]",
	Short: "commands for leaf types",
}

func init() {
	Command.Add(add.Command)
	Command.Add(list.Command)
}
