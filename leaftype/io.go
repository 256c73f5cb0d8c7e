// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package leaftype

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

var header = []string{
	"taxon",
	"type",
}

// ReadTSV reads the types of a set of taxa
// from a TSV file.
//
// The TSV file must contain the following fields:
//
//   - taxon, the taxonomic name of the taxon
//   - type, the name of the type of the taxon
//
// Here is an example file:
//
//	taxon	type
//	Acer campbellii	Asia
//	Acer erythranthum	Asia
//	Acer platanoides	Europe
//	Acer saccharinum	America
//
// A taxon with more than one type
// is reported as an error.
func ReadTSV(r io.Reader) (*Data, error) {
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
	for _, h := range header {
		if _, ok := fields[h]; !ok {
			return nil, fmt.Errorf("expecting field %q", h)
		}
	}

	d := New()
	for {
		row, err := tab.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		ln, _ := tab.FieldPos(0)
		if err != nil {
			return nil, fmt.Errorf("on row %d: %v", ln, err)
		}

		f := "taxon"
		tax := canon(row[fields[f]])
		if tax == "" {
			continue
		}

		f = "type"
		tp := strings.Join(strings.Fields(row[fields[f]]), " ")
		if tp == "" {
			continue
		}

		if prev, ok := d.Type(tax); ok && prev != tp {
			return nil, fmt.Errorf("on row %d: field %q: taxon %q with types %q and %q", ln, f, tax, prev, tp)
		}
		d.Set(tax, tp)
	}
	return d, nil
}

// TSV writes leaf types as a TSV file.
func (d *Data) TSV(w io.Writer) error {
	tab := csv.NewWriter(w)
	tab.Comma = '\t'
	tab.UseCRLF = true

	if err := tab.Write(header); err != nil {
		return fmt.Errorf("unable to write header: %v", err)
	}

	for _, tx := range d.Taxa() {
		row := []string{
			tx,
			d.taxon[tx],
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
