// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package sim implements a command to simulate
// multi-type trees under the structured coalescent.
package sim

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/leaftype"
	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/project"
	"github.com/js-arias/multitype/simulate"
	"github.com/js-arias/multitype/trace"
	"github.com/js-arias/multitype/typeset"
	"golang.org/x/exp/rand"
)

var Command = &command.Command{
	Usage: `sim [-n|--trees <number>] [--name <name>] [--seed <value>]
	[-f|--file <tree-file>] [--heights <file>] [--plot <image>]
	<project-file> [<type>=<count>...]`,
	Short: "simulate multi-type trees",
	Long: `
Command sim simulates multi-type trees under the structured coalescent, using
the migration model of a mtt project.

The first argument of the command is the name of the project file. The
project must have a type set, and a migration model.

By default, the leaves of the simulated trees are the taxa defined in the
leaf types file of the project, all sampled at the present. Instead, a set of
leaf counts can be given as arguments, in the form <type>=<count>, for
example, "Africa=3". In that case leaves will be named "t0", "t1", etc.

The flag --trees, or -n, defines the number of trees to be simulated. By
default, a single tree is simulated. The flag --name defines the prefix of the
tree names. By default it is "simulated".

The flag --seed sets the seed of the random number generator. If it is not
defined, the seed is taken from the clock.

By default the simulated trees will be stored in the tree file currently
defined for the project, replacing trees with the same names. If the project
does not have a tree file, a new one will be created with the name
'trees.tab'. A different file name can be defined with the flag --file or -f.

If the flag --heights is defined, the trees are not stored; instead, the root
height of each simulated tree will be written in the indicated file as a
trace file. If the flag --plot is also defined, a histogram of the root
heights will be saved in the indicated image file. The image format is taken
from the file extension (e.g., "png", "svg", "pdf").
	`,
	SetFlags: setFlags,
	Run:      run,
}

var numTrees int
var seed uint64
var prefix string
var treeFile string
var heightsFile string
var plotFile string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&numTrees, "trees", 1, "")
	c.Flags().IntVar(&numTrees, "n", 1, "")
	c.Flags().Uint64Var(&seed, "seed", 0, "")
	c.Flags().StringVar(&prefix, "name", "simulated", "")
	c.Flags().StringVar(&treeFile, "file", "", "")
	c.Flags().StringVar(&treeFile, "f", "", "")
	c.Flags().StringVar(&heightsFile, "heights", "", "")
	c.Flags().StringVar(&plotFile, "plot", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if numTrees < 1 {
		return c.UsageError(fmt.Sprintf("invalid number of trees: %d", numTrees))
	}
	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	types, err := p.Types()
	if err != nil {
		return err
	}
	cp, err := p.ChainParam()
	if err != nil {
		return err
	}
	m, err := p.Model(types, cp.Convention())
	if err != nil {
		return err
	}

	var leaves []simulate.Leaf
	if len(args) > 1 {
		leaves, err = parseCounts(types, args[1:])
	} else {
		var lt *leaftype.Data
		lt, err = p.LeafTypes()
		if err == nil {
			leaves, err = fromLeafTypes(types, lt)
		}
	}
	if err != nil {
		return err
	}

	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	rng := rand.New(rand.NewSource(seed))
	fmt.Fprintf(c.Stderr(), "# seed: %d\n", seed)

	if heightsFile != "" {
		return rootHeights(m, leaves, rng)
	}

	coll := mtt.NewCollection()
	if p.Path(project.Trees) != "" {
		coll, err = p.Trees(types)
		if err != nil {
			return err
		}
	}
	sims := mtt.NewCollection()
	for i := 0; i < numTrees; i++ {
		t, err := simulate.Simulate(m, leaves, rng)
		if err != nil {
			return err
		}
		name := prefix
		if numTrees > 1 {
			name = fmt.Sprintf("%s.%d", prefix, i)
		}
		t.SetName(name)
		if err := sims.Add(t); err != nil {
			return err
		}
	}

	out := mtt.NewCollection()
	for _, tn := range coll.Names() {
		if sims.Tree(tn) != nil {
			continue
		}
		if err := out.Add(coll.Tree(tn)); err != nil {
			return err
		}
	}
	for _, tn := range sims.Names() {
		if err := out.Add(sims.Tree(tn)); err != nil {
			return err
		}
	}

	if treeFile == "" {
		treeFile = p.Path(project.Trees)
		if treeFile == "" {
			treeFile = "trees.tab"
		}
	}
	if err := writeTrees(treeFile, out); err != nil {
		return err
	}
	p.Add(project.Trees, treeFile)
	return p.Write()
}

func parseCounts(types *typeset.TypeSet, args []string) ([]simulate.Leaf, error) {
	var tps []int
	for _, a := range args {
		name, count, ok := strings.Cut(a, "=")
		if !ok {
			return nil, fmt.Errorf("invalid leaf count %q: expecting <type>=<count>", a)
		}
		tp, ok := types.Index(name)
		if !ok {
			return nil, fmt.Errorf("invalid leaf count %q: undefined type %q", a, name)
		}
		n, err := strconv.Atoi(count)
		if err != nil {
			return nil, fmt.Errorf("invalid leaf count %q: %v", a, err)
		}
		for i := 0; i < n; i++ {
			tps = append(tps, tp)
		}
	}
	return simulate.Leaves(tps...), nil
}

func fromLeafTypes(types *typeset.TypeSet, lt *leaftype.Data) ([]simulate.Leaf, error) {
	idx, err := lt.Indices(types)
	if err != nil {
		return nil, err
	}
	var leaves []simulate.Leaf
	for _, tx := range lt.Taxa() {
		leaves = append(leaves, simulate.Leaf{
			Taxon: tx,
			Type:  idx[tx],
		})
	}
	return leaves, nil
}

func rootHeights(m *migration.Model, leaves []simulate.Leaf, rng *rand.Rand) (err error) {
	hs, err := simulate.RootHeights(m, leaves, numTrees, rng)
	if err != nil {
		return err
	}

	tr := trace.New("height")
	for i, h := range hs {
		tr.Add(i, h)
	}

	f, err := os.Create(heightsFile)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()
	if err := tr.TSV(f); err != nil {
		return fmt.Errorf("while writing to %q: %v", heightsFile, err)
	}

	if plotFile != "" {
		if err := tr.Histogram("height", 50, plotFile); err != nil {
			return err
		}
	}
	return nil
}

func writeTrees(name string, c *mtt.Collection) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	if err := c.TSV(f); err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}
	return nil
}
