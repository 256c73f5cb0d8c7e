// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package migration

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/typeset"
)

// ReadPopSizes reads population sizes from a reader.
// The file must contain one value per line,
// empty lines and lines starting with '#'
// are ignored.
func ReadPopSizes(r io.Reader) ([]float64, error) {
	sc := bufio.NewScanner(r)
	var ps []float64
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, fmt.Errorf("on line %d: %v", ln, err)
		}
		ps = append(ps, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("on line %d: %v", ln, err)
	}
	return ps, nil
}

// WritePopSizes writes the population sizes of a model,
// one value per line.
func (m *Model) WritePopSizes(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# population sizes\n")
	for i := 0; i < m.popSizes.Len(); i++ {
		fmt.Fprintf(bw, "%s\n", strconv.FormatFloat(m.popSizes.Value(i), 'g', -1, 64))
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}

// ReadMatrixCSV reads a rate matrix for n types
// from a comma-delimited file.
// Rows are the source types
// and columns the destination types.
// The file can contain the full square matrix
// (n*n values, the diagonal is ignored)
// or only the off-diagonal elements
// (n*(n-1) values)
// in the layout defined by RateIndex.
// It returns the rates as a flat array
// without the diagonal.
func ReadMatrixCSV(r io.Reader, n int) ([]float64, error) {
	sc := bufio.NewScanner(r)
	var v []float64
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, f := range strings.Split(line, ",") {
			f = strings.TrimSpace(f)
			if f == "" {
				continue
			}
			x, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("on line %d: %v", ln, err)
			}
			v = append(v, x)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("on line %d: %v", ln, err)
	}

	switch len(v) {
	case n * n:
		return FromSquare(v, n)
	case n * (n - 1):
		return v, nil
	}
	return nil, mtt.Validation("rate matrix", "got %d values, want %d or %d for %d types", len(v), n*n, n*(n-1), n)
}

var rateHeader = []string{
	"from",
	"to",
	"rate",
}

// ReadRatesTSV reads the migration rates from a TSV file.
//
// The TSV file must contain the following fields:
//
//   - from, the name of the source type
//   - to, the name of the destination type
//   - rate, the migration rate
//
// Here is an example file:
//
//	from	to	rate
//	Africa	Eurasia	0.200000
//	Eurasia	Africa	0.100000
//
// Pairs not defined in the file
// will have a rate of zero.
// It returns the rates as a flat array
// without the diagonal.
func ReadRatesTSV(r io.Reader, types *typeset.TypeSet) ([]float64, error) {
	tab := csv.NewReader(r)
	tab.Comma = '\t'
	tab.Comment = '#'

	head, err := tab.Read()
	if err != nil {
		return nil, fmt.Errorf("while reading header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range rateHeader {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	n := types.Len()
	rates := make([]float64, n*(n-1))
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "from"
		from, ok := types.Index(row[fields[f]])
		if !ok {
			return nil, fmt.Errorf("on row %d: field %q: unknown type %q", ln, f, row[fields[f]])
		}

		f = "to"
		to, ok := types.Index(row[fields[f]])
		if !ok {
			return nil, fmt.Errorf("on row %d: field %q: unknown type %q", ln, f, row[fields[f]])
		}
		if from == to {
			return nil, fmt.Errorf("on row %d: field %q: rate to the same type %q", ln, f, row[fields[f]])
		}

		f = "rate"
		v, err := strconv.ParseFloat(row[fields[f]], 64)
		if err != nil {
			return nil, fmt.Errorf("on row %d: field %q: %q: %v", ln, f, row[fields[f]], err)
		}
		rates[RateIndex(from, to, n)] = v
	}
	return rates, nil
}

// WriteRatesTSV writes the rate parameter values
// as a TSV file.
// Values are written as they are defined in the parameter
// (i.e., using the parameter convention).
func (m *Model) WriteRatesTSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write(rateHeader); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	n := m.types.Len()
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			row := []string{
				m.types.Name(i),
				m.types.Name(j),
				strconv.FormatFloat(m.rates.Value(RateIndex(i, j, n)), 'g', -1, 64),
			}
			if err := tab.Write(row); err != nil {
				return fmt.Errorf("when writing data: %v", err)
			}
		}
	}

	tab.Flush()
	if err := tab.Error(); err != nil {
		return fmt.Errorf("when writing data: %v", err)
	}
	return nil
}
