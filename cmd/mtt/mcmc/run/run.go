// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package run implements a command to run
// MCMC chains over the multi-type trees of a project.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/chainparam"
	"github.com/js-arias/multitype/density"
	"github.com/js-arias/multitype/mcmc"
	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/operator"
	"github.com/js-arias/multitype/project"
	"github.com/js-arias/multitype/trace"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

var Command = &command.Command{
	Usage: `run [--tree <name>] [--chains <number>] [--seed <value>]
	[--cpu <number>] [-o|--output <prefix>]
	<project-file>`,
	Short: "run MCMC chains over multi-type trees",
	Long: `
Command run reads the multi-type trees, the migration model, and the chain
parameters of a mtt project, and samples multi-type trees from the structured
coalescent using a Metropolis-Hastings chain. The topology, node heights, and
migration histories of the trees are sampled, while the migration model is
fixed.

The argument of the command is the name of the project file. The trees of the
project are used as the starting state of the chains. Use 'mtt tree color' to
build starting trees from time calibrated trees.

By default, a chain is run for each tree in the project. Use the flag --tree
to run only the chains of a single tree.

The flag --chains defines the number of independent chains run for each tree.
By default, a single chain is run. Chains are run in parallel. By default, all
available CPUs will be used. Set the --cpu flag to use a different number of
CPUs.

The number of iterations, the sampling interval, the operator weights and
the seed of the random number generator are taken from the chain parameters
(see 'mtt help chain-params'). The flag --seed overrides the seed of the
parameters. If the seed is zero, it is taken from the clock. Each chain uses
a different seed, starting from the given one.

The sampled values are written in a trace file for each chain, with the
fields "logp" (the log density), "height" (the root height), and "migrations"
(the number of migration events). The file name is
"<prefix>-<tree>-<chain>.tab". The last tree of each chain is written in a
multi-type tree file called "<prefix>-<tree>-<chain>-last.tab". By default,
the prefix is the name of the project file; a different prefix can be defined
with the flag --output or -o.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeName string
var numChains int
var numCPU int
var seedFlag uint64
var output string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&treeName, "tree", "", "")
	c.Flags().IntVar(&numChains, "chains", 1, "")
	c.Flags().IntVar(&numCPU, "cpu", 0, "")
	c.Flags().Uint64Var(&seedFlag, "seed", 0, "")
	c.Flags().StringVar(&output, "output", "", "")
	c.Flags().StringVar(&output, "o", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	if numChains < 1 {
		return c.UsageError(fmt.Sprintf("invalid number of chains: %d", numChains))
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	if output == "" {
		output = p.NameRoot()
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
	if err := m.CheckValues(); err != nil {
		return err
	}
	tc, err := p.Trees(types)
	if err != nil {
		return err
	}

	names := tc.Names()
	if treeName != "" {
		t := tc.Tree(treeName)
		if t == nil {
			return fmt.Errorf("tree %q not found in project %q", treeName, args[0])
		}
		names = []string{t.Name()}
	}
	for _, tn := range names {
		if err := tc.Tree(tn).Validate(); err != nil {
			return err
		}
	}

	seed := cp.Seed()
	if seedFlag != 0 {
		seed = seedFlag
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	fmt.Fprintf(c.Stderr(), "# seed: %d\n", seed)

	if numCPU <= 0 {
		numCPU = runtime.NumCPU()
	}
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(numCPU)

	log := &logger{w: c.Stderr()}
	var k uint64
	for _, tn := range names {
		for i := 0; i < numChains; i++ {
			ch := &chain{
				name:  fmt.Sprintf("%s-%s-%d", output, tn, i),
				tree:  tc.Tree(tn).Clone(),
				model: m.Clone(),
				param: cp,
				seed:  seed + k,
				log:   log,
			}
			k++
			g.Go(func() error {
				return ch.run(ctx)
			})
		}
	}
	return g.Wait()
}

// Logger serializes the messages of the chains.
type logger struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *logger) printf(format string, a ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.w, format, a...)
}

type chain struct {
	name  string
	tree  *mtt.Tree
	model *migration.Model
	param *chainparam.CP
	seed  uint64
	log   *logger
}

func (ch *chain) operators() []mcmc.Weighted {
	return []mcmc.Weighted{
		{
			Op: &operator.TypedWilsonBalding{
				Tree:  ch.tree,
				Model: ch.model,
				Alpha: ch.param.Alpha(),
			},
			Weight: ch.param.Weight(chainparam.WilsonBalding),
		},
		{
			Op: &operator.Scale{
				Tree:   ch.tree,
				Factor: ch.param.ScaleFactor(),
			},
			Weight: ch.param.Weight(chainparam.Scale),
		},
		{
			Op: &operator.NodeRetype{
				Tree:  ch.tree,
				Model: ch.model,
			},
			Weight: ch.param.Weight(chainparam.NodeRetype),
		},
	}
}

func (ch *chain) run(ctx context.Context) (err error) {
	rng := rand.New(rand.NewSource(ch.seed))
	c, err := mcmc.New(ch.tree, density.StructuredCoalescent{Model: ch.model}, ch.operators(), rng)
	if err != nil {
		return fmt.Errorf("chain %q: %w", ch.name, err)
	}

	name := ch.name + ".tab"
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

	tw, err := trace.NewWriter(f, "logp", "height", "migrations")
	if err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}

	steps := ch.param.Chain()
	report := steps / 10
	err = c.Run(steps, ch.param.LogEvery(), func(step int, c *mcmc.Chain) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		t := c.Tree()
		if err := tw.Write(step, c.LogP(), t.Root().Height(), float64(t.MigrationCount())); err != nil {
			return fmt.Errorf("while writing to %q: %v", name, err)
		}
		if report > 0 && step > 0 && step%report < ch.param.LogEvery() {
			ch.log.printf("# chain %s: iteration %d\tlogP %.6f\n", ch.name, step, c.LogP())
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("chain %q: %w", ch.name, err)
	}

	for _, s := range c.Stats() {
		ch.log.printf("# chain %s: operator %s\tproposed %d\tinfeasible %d\taccepted %d\tacceptance %.4f\n", ch.name, s.Name, s.Proposed, s.Rejected, s.Accepted, s.Acceptance())
	}
	return writeTree(ch.name+"-last.tab", c.Tree())
}

func writeTree(name string, t *mtt.Tree) (err error) {
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

	if err := t.TSV(f); err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}
	return nil
}
