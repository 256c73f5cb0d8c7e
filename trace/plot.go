// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package trace

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Histogram saves a histogram of the values of a field
// into an image file.
// The format of the image is taken from the file extension.
func (t *Trace) Histogram(field string, bins int, name string) error {
	x := t.Values(field)
	if len(x) == 0 {
		return fmt.Errorf("field %q without values", field)
	}

	p := plot.New()
	p.X.Label.Text = field
	p.Y.Label.Text = "density"

	h, err := plotter.NewHist(plotter.Values(x), bins)
	if err != nil {
		return fmt.Errorf("histogram of %q: %v", field, err)
	}
	h.Normalize(1)
	p.Add(h)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, name); err != nil {
		return err
	}
	return nil
}

// TracePlot saves a plot of the values of a field
// along the chain steps
// into an image file.
func (t *Trace) TracePlot(field string, name string) error {
	x := t.Values(field)
	if len(x) == 0 {
		return fmt.Errorf("field %q without values", field)
	}

	p := plot.New()
	p.X.Label.Text = "step"
	p.Y.Label.Text = field

	pts := make(plotter.XYs, len(x))
	for i, v := range x {
		pts[i].X = float64(t.steps[i])
		pts[i].Y = v
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("trace of %q: %v", field, err)
	}
	p.Add(l)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, name); err != nil {
		return err
	}
	return nil
}
