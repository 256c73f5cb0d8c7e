// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package remove implements a command to remove a type
// from a mtt project.
package remove

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/project"
	"github.com/js-arias/multitype/typeset"
)

var Command = &command.Command{
	Usage: "remove <project-file> <type-name>",
	Short: "remove a type from a mtt project",
	Long: `
Command remove removes a type from a mtt project.

The first argument of the command is the name of the project file. The second
argument is the name of the type to be removed.

A type can not be removed if it is used by a leaf in the leaf types file, or
by a node or migration event in the multi-type trees of the project.

The population size of the removed type, as well as the rates from and to the
removed type, will be deleted from the project model.
	`,
	Run: run,
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if len(args) < 2 {
		return c.UsageError("expecting type name")
	}
	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	types, err := p.Types()
	if err != nil {
		return err
	}
	oldN := types.Len()

	inUse, err := usedTypes(p, types)
	if err != nil {
		return err
	}

	var m *migration.Model
	if p.Path(project.PopSizes) != "" || p.Path(project.Rates) != "" {
		cp, err := p.ChainParam()
		if err != nil {
			return err
		}
		m, err = p.Model(types, cp.Convention())
		if err != nil {
			return err
		}
	}

	remap, err := types.Remove(args[1], func(i int) bool { return inUse[i] })
	if err != nil {
		return err
	}

	if m != nil {
		if err := m.Resize(oldN, remap); err != nil {
			return err
		}
		if err := p.WriteModel(m); err != nil {
			return err
		}
	}
	if err := p.WriteTypes(types); err != nil {
		return err
	}
	if err := p.Write(); err != nil {
		return err
	}
	fmt.Fprintf(c.Stderr(), "# types: %d\n", types.Len())
	return nil
}

// UsedTypes returns the type indices used
// by the leaf types and the trees of a project.
func usedTypes(p *project.Project, types *typeset.TypeSet) (map[int]bool, error) {
	used := make(map[int]bool)

	if p.Path(project.LeafTypes) != "" {
		d, err := p.LeafTypes()
		if err != nil {
			return nil, err
		}
		for _, tp := range d.Types() {
			if i, ok := types.Index(tp); ok {
				used[i] = true
			}
		}
	}

	if p.Path(project.Trees) != "" {
		tc, err := p.Trees(types)
		if err != nil {
			return nil, err
		}
		for _, tn := range tc.Names() {
			t := tc.Tree(tn)
			for _, n := range t.Nodes() {
				used[n.Type()] = true
				for _, e := range n.Events() {
					used[e.To] = true
				}
			}
		}
	}
	return used, nil
}
