// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package trace_test

import (
	"bytes"
	"math"
	"os"
	"reflect"
	"testing"

	"github.com/js-arias/multitype/trace"
	"golang.org/x/exp/rand"
)

func TestMeanVariance(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	if m := trace.Mean(x); m != 3 {
		t.Errorf("mean: got %g, want %g", m, 3.0)
	}
	if v := trace.Variance(x); v != 2.5 {
		t.Errorf("variance: got %g, want %g", v, 2.5)
	}
}

func TestESS(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	// independent samples
	x := make([]float64, 2000)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	if ess := trace.ESS(x); ess < 1500 {
		t.Errorf("independent samples: got ESS %g, want near %d", ess, len(x))
	}

	// strongly autocorrelated samples
	y := make([]float64, 2000)
	for i := 1; i < len(y); i++ {
		y[i] = 0.95*y[i-1] + rng.NormFloat64()
	}
	if ess := trace.ESS(y); ess > 200 {
		t.Errorf("autocorrelated samples: got ESS %g, want less than %d", ess, 200)
	}

	if ess := trace.ESS([]float64{2, 2, 2}); ess != 3 {
		t.Errorf("constant samples: got ESS %g, want %d", ess, 3)
	}
}

func TestBurnin(t *testing.T) {
	tr := trace.New("logP", "height")
	for i := 0; i < 10; i++ {
		tr.Add(i*100, float64(-i), float64(i))
	}
	b := tr.Burnin(0.2)
	if b.Len() != 8 {
		t.Fatalf("burnin: got %d samples, want %d", b.Len(), 8)
	}
	if s := b.Steps()[0]; s != 200 {
		t.Errorf("burnin: first step %d, want %d", s, 200)
	}
	if tr.Len() != 10 {
		t.Errorf("burnin: original trace modified")
	}

	sum := b.Summarize()
	if len(sum) != 2 {
		t.Fatalf("summary: got %d fields, want %d", len(sum), 2)
	}
	if sum[1].Field != "height" || sum[1].Mean != 5.5 {
		t.Errorf("summary: got %s mean %g, want %s mean %g", sum[1].Field, sum[1].Mean, "height", 5.5)
	}
	if sum[1].Lower > sum[1].Median || sum[1].Median > sum[1].Upper {
		t.Errorf("summary: quantiles out of order: %g %g %g", sum[1].Lower, sum[1].Median, sum[1].Upper)
	}
}

func TestTSV(t *testing.T) {
	tr := trace.New("logP", "height")
	for i := 0; i < 5; i++ {
		tr.Add(i*10, -1.5*float64(i), 0.25*float64(i))
	}

	var buf bytes.Buffer
	if err := tr.TSV(&buf); err != nil {
		t.Fatalf("unable to write trace: %v", err)
	}
	got, err := trace.ReadTSV(&buf)
	if err != nil {
		t.Fatalf("unable to read trace: %v", err)
	}
	if !reflect.DeepEqual(got, tr) {
		t.Errorf("got %v, want %v", got, tr)
	}

	buf.Reset()
	w, err := trace.NewWriter(&buf, "logP", "height")
	if err != nil {
		t.Fatalf("unable to create writer: %v", err)
	}
	for i, s := range tr.Steps() {
		if err := w.Write(s, tr.Values("logP")[i], tr.Values("height")[i]); err != nil {
			t.Fatalf("unable to write sample: %v", err)
		}
	}
	got, err = trace.ReadTSV(&buf)
	if err != nil {
		t.Fatalf("unable to read trace: %v", err)
	}
	if !reflect.DeepEqual(got, tr) {
		t.Errorf("writer: got %v, want %v", got, tr)
	}
}

func TestHistogram(t *testing.T) {
	tr := trace.New("height")
	for i := 0; i < 100; i++ {
		tr.Add(i, math.Sqrt(float64(i)))
	}

	name := "tmp-histogram-for-test.png"
	defer os.Remove(name)
	if err := tr.Histogram("height", 10, name); err != nil {
		t.Fatalf("unable to plot histogram: %v", err)
	}
	if _, err := os.Stat(name); err != nil {
		t.Errorf("histogram file: %v", err)
	}

	if err := tr.Histogram("logP", 10, name); err == nil {
		t.Errorf("undefined field: expecting error")
	}
}

func TestTracePlot(t *testing.T) {
	tr := trace.New("logP")
	for i := 0; i < 50; i++ {
		tr.Add(i*10, -float64(i))
	}

	name := "tmp-trace-plot-for-test.png"
	defer os.Remove(name)
	if err := tr.TracePlot("logp", name); err != nil {
		t.Fatalf("unable to plot trace: %v", err)
	}
	if _, err := os.Stat(name); err != nil {
		t.Errorf("trace plot file: %v", err)
	}
}
