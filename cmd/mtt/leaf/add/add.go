// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package add implements a command to add leaf types
// to a mtt project.
package add

import (
	"fmt"
	"io"
	"os"

	"github.com/js-arias/command"
	"github.com/js-arias/multitype/leaftype"
	"github.com/js-arias/multitype/project"
)

var Command = &command.Command{
	Usage: `add [-f|--file <leaf-type-file>] [--filter]
	<project-file> [<leaf-type-file>...]`,
	Short: "add leaf types to a mtt project",
	Long: `
Command add reads one or more tab-delimited files with the type of each taxon,
and add them to a mtt project.

The first argument of the command is the name of the project file. The
project must have a type set, and all the types in the input files must be
defined in the project.

One or more leaf type files can be given as arguments. If no file is given the
leaf types will be read from the standard input. A leaf type file is a
tab-delimited file with the fields "taxon" and "type".

By default, all taxon-type pairs will be added. If the flag --filter is
defined and there are time trees in the project, then it will add only the
types for the taxon names present in the trees. A taxon already in the
project will be reassigned to the new type.

By default the leaf types will be stored in the leaf type file currently
defined for the project. If the project does not have a leaf type file, a new
one will be created with the name 'leaf-types.tab'. A different file name can
be defined with the flag --file or -f.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var outFile string
var filterFlag bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&outFile, "file", "", "")
	c.Flags().StringVar(&outFile, "f", "", "")
	c.Flags().BoolVar(&filterFlag, "filter", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	p, err := project.Read(args[0])
	if err != nil {
		return err
	}

	d, err := addLeafTypes(c.Stdin(), p, args[1:])
	if err != nil {
		return err
	}
	types, err := p.Types()
	if err != nil {
		return err
	}
	if err := d.Check(types); err != nil {
		return err
	}

	lf := p.Path(project.LeafTypes)
	if lf == "" {
		lf = "leaf-types.tab"
	}
	if outFile != "" {
		lf = outFile
	}
	if err := writeLeafTypes(lf, d); err != nil {
		return err
	}

	if p.Path(project.LeafTypes) != lf {
		p.Add(project.LeafTypes, lf)
		if err := p.Write(); err != nil {
			return err
		}
	}
	return nil
}

func addLeafTypes(r io.Reader, p *project.Project, files []string) (*leaftype.Data, error) {
	d := leaftype.New()
	if p.Path(project.LeafTypes) != "" {
		var err error
		d, err = p.LeafTypes()
		if err != nil {
			return nil, err
		}
	}

	var filter map[string]bool
	if filterFlag {
		var err error
		filter, err = makeFilter(p)
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		files = append(files, "-")
	}
	for _, f := range files {
		ld, err := readLeafTypes(r, f)
		if err != nil {
			return nil, err
		}

		for _, tx := range ld.Taxa() {
			if filterFlag && !filter[tx] {
				continue
			}
			tp, _ := ld.Type(tx)
			d.Set(tx, tp)
		}
	}
	return d, nil
}

func readLeafTypes(r io.Reader, name string) (*leaftype.Data, error) {
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	} else {
		name = "stdin"
	}

	d, err := leaftype.ReadTSV(r)
	if err != nil {
		return nil, fmt.Errorf("when reading %q: %v", name, err)
	}
	return d, nil
}

func writeLeafTypes(name string, d *leaftype.Data) (err error) {
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

	if err := d.TSV(f); err != nil {
		return fmt.Errorf("while writing %q: %v", name, err)
	}
	return nil
}

func makeFilter(p *project.Project) (map[string]bool, error) {
	c, err := p.TimeTrees()
	if err != nil {
		return nil, err
	}

	terms := make(map[string]bool)
	for _, tn := range c.Names() {
		t := c.Tree(tn)
		if t == nil {
			continue
		}
		for _, tax := range t.Terms() {
			terms[tax] = true
		}
	}
	return terms, nil
}
