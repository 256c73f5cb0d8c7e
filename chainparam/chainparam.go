// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package chainparam implements reading and writing
// of the parameters of an MCMC chain
// over multi-type trees.
package chainparam

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/js-arias/multitype/migration"
)

// Param is a keyword to identify
// the type of parameter in a chain parameter file.
type Param string

// Valid parameters
const (
	// Alpha is the scale of the extension
	// of the root branch
	// in a Wilson-Balding move to the root,
	// relative to the root height.
	Alpha Param = "alpha"

	// Burnin is the fraction of samples
	// discarded at the start of the chain.
	Burnin Param = "burnin"

	// Chain is the number of iterations of the chain.
	Chain Param = "chain"

	// Convention is the time direction
	// of the migration rates.
	Convention Param = "convention"

	// LogEvery is the number of iterations
	// between samples.
	LogEvery Param = "logevery"

	// NodeRetype is the weight of the node retype operator.
	NodeRetype Param = "noderetype"

	// Scale is the weight of the tree scale operator.
	Scale Param = "scale"

	// ScaleFactor is the scale factor
	// of the tree scale operator.
	ScaleFactor Param = "scalefactor"

	// Seed is the seed of the random number generator.
	// If zero,
	// the seed is taken from the clock.
	Seed Param = "seed"

	// WilsonBalding is the weight
	// of the typed Wilson-Balding operator.
	WilsonBalding Param = "wilsonbalding"
)

// Operators is the list of operator weights,
// in the order used by the chain.
var Operators = []Param{
	WilsonBalding,
	Scale,
	NodeRetype,
}

// CP represents a collection of chain parameters.
type CP struct {
	name string // file name

	chain    int
	logEvery int
	burnin   float64
	seed     uint64

	alpha       float64
	scaleFactor float64
	weights     map[Param]float64

	conv migration.Convention
}

// New creates a new parameter collection
// with default values.
func New(name string) *CP {
	return &CP{
		name:        name,
		chain:       1_000_000,
		logEvery:    1_000,
		burnin:      0.1,
		alpha:       0.2,
		scaleFactor: 0.8,
		weights: map[Param]float64{
			WilsonBalding: 1,
			Scale:         1,
			NodeRetype:    1,
		},
		conv: migration.Backward,
	}
}

var header = []string{
	"parameter",
	"value",
}

// Read reads a chain parameter file from a TSV file.
//
// The TSV must contains the following fields:
//
//   - parameter, the name of the parameter
//   - value, the value of the parameter
//
// Here is an example file:
//
//	# mtt chain parameters
//	parameter	value
//	chain	1000000
//	logevery	1000
//	burnin	0.1
//	seed	42
//	alpha	0.2
//	scalefactor	0.8
//	wilsonbalding	1
//	scale	1
//	noderetype	1
//	convention	backward
//
// Undefined parameters keep their default values,
// and unknown parameters are reported as errors.
func Read(name string) (*CP, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cp, err := read(f, name)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %v", name, err)
	}
	return cp, nil
}

func read(r io.Reader, name string) (*CP, error) {
	tsv := csv.NewReader(r)
	tsv.Comma = '\t'
	tsv.Comment = '#'

	head, err := tsv.Read()
	if err != nil {
		return nil, fmt.Errorf("header: %v", err)
	}
	fields := make(map[string]int, len(head))
	for i, h := range head {
		h = strings.ToLower(h)
		fields[h] = i
	}
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	cp := New(name)
	for {
		row, err := tsv.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tsv.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "parameter"
		p := Param(strings.ToLower(strings.TrimSpace(row[fields[f]])))

		f = "value"
		v := strings.TrimSpace(row[fields[f]])
		if err := cp.Set(p, v); err != nil {
			return nil, fmt.Errorf("on row %d, field %q: %v", ln, f, err)
		}
	}
	return cp, nil
}

// Set sets a parameter from its string value.
func (cp *CP) Set(p Param, v string) error {
	v = strings.TrimSpace(v)
	switch p {
	case Alpha:
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		return cp.SetAlpha(x)
	case Burnin:
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		return cp.SetBurnin(x)
	case Chain:
		x, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		return cp.SetChain(x)
	case Convention:
		c, err := migration.ParseConvention(v)
		if err != nil {
			return err
		}
		cp.conv = c
	case LogEvery:
		x, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		return cp.SetLogEvery(x)
	case NodeRetype, Scale, WilsonBalding:
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		return cp.SetWeight(p, x)
	case ScaleFactor:
		x, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		return cp.SetScaleFactor(x)
	case Seed:
		x, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return err
		}
		cp.seed = x
	default:
		return fmt.Errorf("unknown parameter %q", p)
	}
	return nil
}

// Alpha returns the scale of the root extension
// in a Wilson-Balding move to the root.
func (cp *CP) Alpha() float64 {
	return cp.alpha
}

// Burnin returns the fraction of samples
// discarded as burn-in.
func (cp *CP) Burnin() float64 {
	return cp.burnin
}

// Chain returns the number of iterations of the chain.
func (cp *CP) Chain() int {
	return cp.chain
}

// Convention returns the time direction
// of the migration rates.
func (cp *CP) Convention() migration.Convention {
	return cp.conv
}

// LogEvery returns the number of iterations
// between samples.
func (cp *CP) LogEvery() int {
	return cp.logEvery
}

// Name returns the file name of the parameters.
func (cp *CP) Name() string {
	return cp.name
}

// ScaleFactor returns the scale factor
// of the tree scale operator.
func (cp *CP) ScaleFactor() float64 {
	return cp.scaleFactor
}

// Seed returns the seed of the random number generator.
func (cp *CP) Seed() uint64 {
	return cp.seed
}

// Weight returns the weight of an operator.
func (cp *CP) Weight(op Param) float64 {
	return cp.weights[op]
}

// SetAlpha sets the scale of the root extension.
func (cp *CP) SetAlpha(a float64) error {
	if a <= 0 {
		return fmt.Errorf("invalid alpha value: %g", a)
	}
	cp.alpha = a
	return nil
}

// SetBurnin sets the burn-in fraction.
func (cp *CP) SetBurnin(b float64) error {
	if b < 0 || b >= 1 {
		return fmt.Errorf("invalid burnin value: %g", b)
	}
	cp.burnin = b
	return nil
}

// SetChain sets the number of iterations of the chain.
func (cp *CP) SetChain(n int) error {
	if n < 1 {
		return fmt.Errorf("invalid chain length: %d", n)
	}
	cp.chain = n
	return nil
}

// SetConvention sets the time direction
// of the migration rates.
func (cp *CP) SetConvention(c migration.Convention) {
	cp.conv = c
}

// SetLogEvery sets the number of iterations
// between samples.
func (cp *CP) SetLogEvery(n int) error {
	if n < 1 {
		return fmt.Errorf("invalid sampling interval: %d", n)
	}
	cp.logEvery = n
	return nil
}

// SetName sets the name of a parameter collection.
func (cp *CP) SetName(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	cp.name = name
}

// SetScaleFactor sets the scale factor
// of the tree scale operator.
// It must be in the interval (0, 1).
func (cp *CP) SetScaleFactor(s float64) error {
	if s <= 0 || s >= 1 {
		return fmt.Errorf("invalid scale factor: %g", s)
	}
	cp.scaleFactor = s
	return nil
}

// SetSeed sets the seed of the random number generator.
func (cp *CP) SetSeed(s uint64) {
	cp.seed = s
}

// SetWeight sets the weight of an operator.
func (cp *CP) SetWeight(op Param, w float64) error {
	if _, ok := cp.weights[op]; !ok {
		return fmt.Errorf("unknown operator %q", op)
	}
	if w < 0 {
		return fmt.Errorf("invalid weight for %q: %g", op, w)
	}
	cp.weights[op] = w
	return nil
}

// Write writes a parameter collection into a file.
func (cp *CP) Write() (err error) {
	f, err := os.Create(cp.name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	fmt.Fprintf(bw, "# mtt chain parameters\n")
	fmt.Fprintf(bw, "# data save on: %s\n", time.Now().Format(time.RFC3339))
	tsv := csv.NewWriter(bw)
	tsv.Comma = '\t'
	tsv.UseCRLF = true

	if err := tsv.Write(header); err != nil {
		return fmt.Errorf("on file %q: while writing header: %v", cp.name, err)
	}

	rows := [][]string{
		{string(Chain), strconv.Itoa(cp.chain)},
		{string(LogEvery), strconv.Itoa(cp.logEvery)},
		{string(Burnin), strconv.FormatFloat(cp.burnin, 'f', -1, 64)},
		{string(Seed), strconv.FormatUint(cp.seed, 10)},
		{string(Alpha), strconv.FormatFloat(cp.alpha, 'f', -1, 64)},
		{string(ScaleFactor), strconv.FormatFloat(cp.scaleFactor, 'f', -1, 64)},
	}
	for _, op := range Operators {
		rows = append(rows, []string{string(op), strconv.FormatFloat(cp.weights[op], 'f', -1, 64)})
	}
	rows = append(rows, []string{string(Convention), cp.conv.String()})

	for _, row := range rows {
		if err := tsv.Write(row); err != nil {
			return fmt.Errorf("on file %q: %v", cp.name, err)
		}
	}

	tsv.Flush()
	if err := tsv.Error(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", cp.name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("on file %q: while writing data: %v", cp.name, err)
	}
	return nil
}
