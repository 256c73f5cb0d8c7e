// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Mtt is a tool for the analysis of multi-type trees
// under the structured coalescent.
package main

import (
	"github.com/js-arias/command"
	"github.com/js-arias/multitype/cmd/mtt/leaf"
	"github.com/js-arias/multitype/cmd/mtt/mcmc"
	"github.com/js-arias/multitype/cmd/mtt/model"
	"github.com/js-arias/multitype/cmd/mtt/prj"
	"github.com/js-arias/multitype/cmd/mtt/score"
	"github.com/js-arias/multitype/cmd/mtt/sim"
	"github.com/js-arias/multitype/cmd/mtt/trace"
	"github.com/js-arias/multitype/cmd/mtt/tree"
	"github.com/js-arias/multitype/cmd/mtt/types"
)

var app = &command.Command{
	Usage: "mtt <command> [<argument>...]",
	Short: "a tool for multi-type trees under the structured coalescent",
}

func init() {
	app.Add(leaf.Command)
	app.Add(mcmc.Command)
	app.Add(model.Command)
	app.Add(prj.Command)
	app.Add(score.Command)
	app.Add(sim.Command)
	app.Add(trace.Command)
	app.Add(tree.Command)
	app.Add(types.Command)
}

func main() {
	app.Main()
}
