// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package draw implements a command to draw
// the multi-type trees of a project.
package draw

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/project"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

var Command = &command.Command{
	Usage: `draw [--tree <tree>] [--format <ext>]
	[--width <value>] [--nolabels]
	[-o|--output <out-prefix>]
	<project-file>`,
	Short: "draw project trees as image files",
	Long: `
Command draw reads a mtt project and draws the multi-type trees into image
files. Each branch segment is colored by its type, so migration events are
shown as color changes along the branches.

The argument of the command is the name of the project file.

By default, all trees in the project will be drawn. If the flag --tree is set,
only the indicated tree will be drawn.

By default, the images are SVG files. Use the flag --format to define a
different format (e.g., "png", "pdf"). The flag --width defines the width of
the image in inches (by default 6). The height is set from the number of
leaves.

By default, the taxon names of the leaves will be drawn. If the flag
--nolabels is given, then it will draw the tree without taxon names.

By default, the names of the trees will be used as the output file names. Use
the flag -o, or --output, to define a prefix for the resulting files.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var noLabels bool
var width float64
var format string
var treeName string
var outPrefix string

func setFlags(c *command.Command) {
	c.Flags().BoolVar(&noLabels, "nolabels", false, "")
	c.Flags().Float64Var(&width, "width", 6, "")
	c.Flags().StringVar(&format, "format", "svg", "")
	c.Flags().StringVar(&outPrefix, "output", "", "")
	c.Flags().StringVar(&outPrefix, "o", "", "")
	c.Flags().StringVar(&treeName, "tree", "", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	types, err := p.Types()
	if err != nil {
		return err
	}
	tc, err := p.Trees(types)
	if err != nil {
		return err
	}

	ls := tc.Names()
	if treeName != "" {
		t := tc.Tree(treeName)
		if t == nil {
			return fmt.Errorf("tree %q not found in project %q", treeName, args[0])
		}
		ls = []string{t.Name()}
	}
	for _, tn := range ls {
		name := fmt.Sprintf("%s.%s", tn, format)
		if outPrefix != "" {
			name = fmt.Sprintf("%s-%s.%s", outPrefix, tn, format)
		}
		if err := drawTree(tc.Tree(tn), name); err != nil {
			return err
		}
	}
	return nil
}

func drawTree(t *mtt.Tree, name string) error {
	p := plot.New()
	p.Title.Text = t.Name()
	p.X.Label.Text = "height"
	p.X.Scale = plot.InvertedScale{Normalizer: plot.LinearScale{}}
	p.Y.Tick.Marker = plot.ConstantTicks(nil)
	p.Legend.Top = true

	y := positions(t)
	types := t.Types()
	for _, n := range t.Nodes() {
		if n.IsRoot() {
			continue
		}
		for _, s := range segments(n) {
			if err := addLine(p, s.tp, plotter.XYs{{X: s.from, Y: y[n.Nr()]}, {X: s.to, Y: y[n.Nr()]}}); err != nil {
				return err
			}
		}
	}
	for _, n := range t.Internal() {
		cs := n.Children()
		xy := plotter.XYs{
			{X: n.Height(), Y: y[cs[0].Nr()]},
			{X: n.Height(), Y: y[cs[1].Nr()]},
		}
		if err := addLine(p, n.Type(), xy); err != nil {
			return err
		}
	}

	for i := 0; i < types.Len(); i++ {
		l, err := plotter.NewLine(plotter.XYs{{}, {}})
		if err != nil {
			return err
		}
		l.Color = plotutil.Color(i)
		l.Width = vg.Points(2)
		p.Legend.Add(types.Name(i), l)
	}

	if !noLabels {
		var lb plotter.XYLabels
		for _, n := range t.Leaves() {
			lb.XYs = append(lb.XYs, plotter.XY{X: n.Height(), Y: y[n.Nr()]})
			lb.Labels = append(lb.Labels, " "+n.Taxon())
		}
		labels, err := plotter.NewLabels(lb)
		if err != nil {
			return err
		}
		p.Add(labels)
	}

	h := 0.25 * float64(t.NumLeaves())
	if h < 4 {
		h = 4
	}
	if err := p.Save(vg.Length(width)*vg.Inch, vg.Length(h)*vg.Inch, name); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}

func addLine(p *plot.Plot, tp int, xy plotter.XYs) error {
	l, err := plotter.NewLine(xy)
	if err != nil {
		return err
	}
	l.Color = plotutil.Color(tp)
	l.Width = vg.Points(2)
	p.Add(l)
	return nil
}

// Positions returns the vertical position of each node:
// leaves are placed in preorder,
// and internal nodes at the middle of its children.
func positions(t *mtt.Tree) map[int]float64 {
	y := make(map[int]float64, t.Len())
	var next float64
	var visit func(n *mtt.Node) float64
	visit = func(n *mtt.Node) float64 {
		if n.IsLeaf() {
			y[n.Nr()] = next
			next++
			return y[n.Nr()]
		}
		var sum float64
		for _, c := range n.Children() {
			sum += visit(c)
		}
		y[n.Nr()] = sum / 2
		return y[n.Nr()]
	}
	visit(t.Root())
	return y
}

type segment struct {
	from, to float64
	tp       int
}

// Segments returns the segments of the branch above a node,
// split at each migration event.
func segments(n *mtt.Node) []segment {
	var ss []segment
	from := n.Height()
	tp := n.Type()
	for _, e := range n.Events() {
		ss = append(ss, segment{from: from, to: e.Time, tp: tp})
		from = e.Time
		tp = e.To
	}
	ss = append(ss, segment{from: from, to: n.Parent().Height(), tp: tp})
	return ss
}
