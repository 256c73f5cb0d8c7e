// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package leaftype provides the type
// (i.e., the sampled subpopulation)
// of each taxon in a taxon list.
package leaftype

import (
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/js-arias/multitype/typeset"
)

// Data is a collection of types
// assigned to a set of taxa.
type Data struct {
	taxon map[string]string
}

// New creates a new empty data set.
func New() *Data {
	return &Data{
		taxon: make(map[string]string),
	}
}

// Set sets the type of a taxon.
// It returns the previous type of the taxon
// (an empty string if the taxon is new).
func (d *Data) Set(taxon, tp string) string {
	taxon = canon(taxon)
	if taxon == "" {
		return ""
	}
	tp = strings.Join(strings.Fields(tp), " ")
	prev := d.taxon[taxon]
	if tp == "" {
		delete(d.taxon, taxon)
		return prev
	}
	d.taxon[taxon] = tp
	return prev
}

// Type returns the type of a taxon.
func (d *Data) Type(taxon string) (string, bool) {
	tp, ok := d.taxon[canon(taxon)]
	return tp, ok
}

// Types returns the types
// used in a data set.
func (d *Data) Types() []string {
	st := make(map[string]bool)
	for _, tp := range d.taxon {
		st[tp] = true
	}

	types := make([]string, 0, len(st))
	for tp := range st {
		types = append(types, tp)
	}
	slices.Sort(types)
	return types
}

// Taxa returns the taxa with an assigned type
// in a data set.
func (d *Data) Taxa() []string {
	taxa := make([]string, 0, len(d.taxon))
	for tx := range d.taxon {
		taxa = append(taxa, tx)
	}
	slices.Sort(taxa)
	return taxa
}

// Check returns an error
// if a type of the data set
// is not defined in a type set.
func (d *Data) Check(types *typeset.TypeSet) error {
	for _, tx := range d.Taxa() {
		tp := d.taxon[tx]
		if !types.Has(tp) {
			return fmt.Errorf("taxon %q: undefined type %q", tx, tp)
		}
	}
	return nil
}

// Indices returns the type index of each taxon.
func (d *Data) Indices(types *typeset.TypeSet) (map[string]int, error) {
	idx := make(map[string]int, len(d.taxon))
	for tx, tp := range d.taxon {
		i, ok := types.Index(tp)
		if !ok {
			return nil, fmt.Errorf("taxon %q: undefined type %q", tx, tp)
		}
		idx[tx] = i
	}
	return idx, nil
}

// Canon returns a taxon name
// in its canonical form.
func canon(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	name = strings.ToLower(name)
	r, n := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[n:]
}
