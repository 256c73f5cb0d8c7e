// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"io"
	"os"

	"github.com/js-arias/multitype/chainparam"
	"github.com/js-arias/multitype/leaftype"
	"github.com/js-arias/multitype/migration"
	"github.com/js-arias/multitype/mtt"
	"github.com/js-arias/multitype/typeset"
	"github.com/js-arias/timetree"
)

// ChainParam reads the chain parameters
// as defined in a project.
// If no parameter file is defined,
// it returns the default parameters.
func (p *Project) ChainParam() (*chainparam.CP, error) {
	name := p.Path(ChainParam)
	if name == "" {
		return chainparam.New(""), nil
	}

	cp, err := chainparam.Read(name)
	if err != nil {
		return nil, err
	}
	return cp, nil
}

// LeafTypes reads the types of the leaves
// as defined in a project.
func (p *Project) LeafTypes() (*leaftype.Data, error) {
	name := p.Path(LeafTypes)
	if name == "" {
		return nil, fmt.Errorf("leaf types not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d, err := leaftype.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return d, nil
}

// Model reads the population sizes and migration rates
// as defined in a project,
// and returns a migration model.
// Undefined population sizes are set to 1,
// and undefined rates to 0.
func (p *Project) Model(types *typeset.TypeSet, conv migration.Convention) (*migration.Model, error) {
	n := types.Len()

	ps := make([]float64, n)
	for i := range ps {
		ps[i] = 1
	}
	if name := p.Path(PopSizes); name != "" {
		v, err := readPopSizes(name)
		if err != nil {
			return nil, err
		}
		if len(v) != n {
			return nil, fmt.Errorf("on file %q: %w", name, mtt.Validation("population sizes", "got %d values, want %d", len(v), n))
		}
		ps = v
	}

	rates := make([]float64, n*(n-1))
	if name := p.Path(Rates); name != "" {
		v, err := readRates(name, types)
		if err != nil {
			return nil, err
		}
		rates = v
	}

	popSizes := migration.NewParam("popSizes", ps...)
	rt := migration.NewParam("rates", rates...)
	rt.Default = 0
	m, err := migration.New(types, popSizes, rt, conv)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", p.name, err)
	}
	return m, nil
}

func readPopSizes(name string) ([]float64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := migration.ReadPopSizes(f)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return v, nil
}

func readRates(name string, types *typeset.TypeSet) ([]float64, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	v, err := migration.ReadRatesTSV(f, types)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return v, nil
}

// TimeTrees reads a time calibrated tree collection file
// as defined in a project.
func (p *Project) TimeTrees() (*timetree.Collection, error) {
	name := p.Path(TimeTrees)
	if name == "" {
		return nil, fmt.Errorf("time trees not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := timetree.ReadTSV(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return c, nil
}

// Trees reads a multi-type tree collection file
// as defined in a project.
func (p *Project) Trees(types *typeset.TypeSet) (*mtt.Collection, error) {
	name := p.Path(Trees)
	if name == "" {
		return nil, fmt.Errorf("trees not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := mtt.ReadTSV(f, types)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return c, nil
}

// Types reads the type names
// as defined in a project.
func (p *Project) Types() (*typeset.TypeSet, error) {
	name := p.Path(Types)
	if name == "" {
		return nil, fmt.Errorf("types not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ts := typeset.New()
	if err := ts.ReadNames(f); err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return ts, nil
}

// WriteModel writes the population sizes and migration rates
// of a model into the files defined in the project.
// If a file is not defined,
// a default file name is added to the project.
// The project file is not updated.
func (p *Project) WriteModel(m *migration.Model) error {
	name := p.Path(PopSizes)
	if name == "" {
		name = "popsizes.txt"
		p.Add(PopSizes, name)
	}
	if err := writeFile(name, m.WritePopSizes); err != nil {
		return err
	}

	name = p.Path(Rates)
	if name == "" {
		name = "rates.tab"
		p.Add(Rates, name)
	}
	if err := writeFile(name, m.WriteRatesTSV); err != nil {
		return err
	}
	return nil
}

// WriteTypes writes the type names
// into the file defined in the project.
// If the file is not defined,
// a default file name is added to the project.
// The project file is not updated.
func (p *Project) WriteTypes(types *typeset.TypeSet) error {
	name := p.Path(Types)
	if name == "" {
		name = "types.txt"
		p.Add(Types, name)
	}
	return writeFile(name, types.Write)
}

func writeFile(name string, fn func(w io.Writer) error) (err error) {
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

	if err := fn(f); err != nil {
		return fmt.Errorf("while writing to %q: %v", name, err)
	}
	return nil
}
