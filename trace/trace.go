// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package trace implements the samples of an MCMC chain
// and their summary statistics.
package trace

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// A Trace is a set of named values
// sampled from a chain.
type Trace struct {
	fields []string
	steps  []int
	values [][]float64
}

// New creates a new trace with the given fields.
func New(fields ...string) *Trace {
	fs := make([]string, len(fields))
	for i, f := range fields {
		fs[i] = strings.ToLower(strings.TrimSpace(f))
	}
	return &Trace{
		fields: fs,
		values: make([][]float64, len(fields)),
	}
}

// Fields returns the field names of the trace.
func (t *Trace) Fields() []string {
	return slices.Clone(t.fields)
}

// Len returns the number of samples in the trace.
func (t *Trace) Len() int {
	return len(t.steps)
}

// Add adds a sample.
// It panics if the number of values
// is different from the number of fields.
func (t *Trace) Add(step int, values ...float64) {
	if len(values) != len(t.fields) {
		panic(fmt.Sprintf("trace: got %d values, want %d", len(values), len(t.fields)))
	}
	t.steps = append(t.steps, step)
	for i, v := range values {
		t.values[i] = append(t.values[i], v)
	}
}

// Steps returns the steps of the samples.
func (t *Trace) Steps() []int {
	return slices.Clone(t.steps)
}

// Values returns the values of a field.
// It returns nil if the field is not in the trace.
func (t *Trace) Values(field string) []float64 {
	i := slices.Index(t.fields, strings.ToLower(field))
	if i < 0 {
		return nil
	}
	return slices.Clone(t.values[i])
}

// Burnin returns a new trace
// without the first fraction of samples.
func (t *Trace) Burnin(frac float64) *Trace {
	start := int(frac * float64(len(t.steps)))
	if start < 0 {
		start = 0
	}
	if start > len(t.steps) {
		start = len(t.steps)
	}
	nt := New(t.fields...)
	nt.steps = slices.Clone(t.steps[start:])
	for i := range t.values {
		nt.values[i] = slices.Clone(t.values[i][start:])
	}
	return nt
}

// Summary is a summary of the values
// of a field.
type Summary struct {
	Field    string
	Mean     float64
	Variance float64
	ESS      float64
	Lower    float64 // 2.5% quantile
	Median   float64
	Upper    float64 // 97.5% quantile
}

// Summarize returns the summary of each field.
func (t *Trace) Summarize() []Summary {
	ss := make([]Summary, 0, len(t.fields))
	for i, f := range t.fields {
		x := t.values[i]
		s := Summary{
			Field:    f,
			Mean:     Mean(x),
			Variance: Variance(x),
			ESS:      ESS(x),
		}
		if len(x) > 0 {
			sorted := slices.Clone(x)
			slices.Sort(sorted)
			s.Lower = stat.Quantile(0.025, stat.Empirical, sorted, nil)
			s.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)
			s.Upper = stat.Quantile(0.975, stat.Empirical, sorted, nil)
		}
		ss = append(ss, s)
	}
	return ss
}

// Mean returns the mean of a set of values.
func Mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// Variance returns the unbiased variance
// of a set of values.
func Variance(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	return stat.Variance(x, nil)
}

// ESS returns the effective sample size
// of a set of autocorrelated values.
//
// The autocorrelation time is estimated
// by adding pairs of consecutive autocovariances
// while the sum of the pair is positive.
func ESS(x []float64) float64 {
	n := len(x)
	if n < 2 {
		return float64(n)
	}
	mean := stat.Mean(x, nil)

	maxLag := n - 1
	gamma := make([]float64, maxLag)
	var varStat float64
	for lag := 0; lag < maxLag; lag++ {
		for j := 0; j < n-lag; j++ {
			gamma[lag] += (x[j] - mean) * (x[j+lag] - mean)
		}
		gamma[lag] /= float64(n - lag)

		if lag == 0 {
			varStat = gamma[0]
			continue
		}
		if lag%2 == 0 {
			if sum := gamma[lag-1] + gamma[lag]; sum > 0 {
				varStat += 2 * sum
				continue
			}
			break
		}
	}
	if varStat == 0 {
		// constant values
		return float64(n)
	}
	return float64(n) * gamma[0] / varStat
}

// ReadTSV reads a trace from a TSV file.
// The first field must be "step",
// the rest of the fields are taken as the trace fields.
func ReadTSV(r io.Reader) (*Trace, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	if len(head) < 2 || strings.ToLower(head[0]) != "step" {
		return nil, fmt.Errorf("expecting field %q", "step")
	}
	t := New(head[1:]...)
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		step, err := strconv.Atoi(row[0])
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %v", ln, "step", err)
		}
		v := make([]float64, len(t.fields))
		for i := range v {
			x, err := strconv.ParseFloat(row[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("on row %d: field %q: %v", ln, t.fields[i], err)
			}
			v[i] = x
		}
		t.Add(step, v...)
	}
	return t, nil
}

// TSV writes a trace as a TSV file.
func (t *Trace) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	header := append([]string{"step"}, t.fields...)
	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}
	for i, s := range t.steps {
		row := make([]string, 0, len(header))
		row = append(row, strconv.Itoa(s))
		for _, v := range t.values {
			row = append(row, strconv.FormatFloat(v[i], 'g', 8, 64))
		}
		if err := tab.Write(row); err != nil {
			return fmt.Errorf("when writing data: %v", err)
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}

// Writer is a trace writer
// that writes each sample as it is added.
type Writer struct {
	tab    *csv.Writer
	fields int
}

// NewWriter creates a new trace writer
// and writes the header.
func NewWriter(w io.Writer, fields ...string) (*Writer, error) {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	header := append([]string{"step"}, fields...)
	if err := tab.Write(header); err != nil {
		return nil, fmt.Errorf("unable to write header: %v", err)
	}
	return &Writer{tab: tab, fields: len(fields)}, nil
}

// Write writes a sample.
func (tw *Writer) Write(step int, values ...float64) error {
	if len(values) != tw.fields {
		return fmt.Errorf("got %d values, want %d", len(values), tw.fields)
	}
	row := make([]string, 0, len(values)+1)
	row = append(row, strconv.Itoa(step))
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'g', 8, 64))
	}
	if err := tw.tab.Write(row); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	tw.tab.Flush()
	if err := tw.tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
