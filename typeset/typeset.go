// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package typeset implements an ordered set of named types
// (i.e., demes or subpopulations)
// used to annotate a multi-type tree.
//
// The index of a type is given by the order of insertion,
// so adding a new type never changes the index
// of the types already in the set.
package typeset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TypeSet is an ordered collection of type names.
type TypeSet struct {
	names []string
	index map[string]int
}

// New creates a new type set
// with the indicated names.
// Repeated or empty names are ignored.
func New(names ...string) *TypeSet {
	ts := &TypeSet{
		index: make(map[string]int),
	}
	for _, n := range names {
		ts.Add(n)
	}
	return ts
}

// Add adds a type name to the set
// and returns its index.
// If the name is already in the set,
// it returns the index of the existing type.
// It returns -1 if the name is empty.
func (ts *TypeSet) Add(name string) int {
	name = canon(name)
	if name == "" {
		return -1
	}
	if i, ok := ts.index[name]; ok {
		return i
	}
	ts.index[name] = len(ts.names)
	ts.names = append(ts.names, name)
	return len(ts.names) - 1
}

// Index returns the index of a type name.
func (ts *TypeSet) Index(name string) (int, bool) {
	i, ok := ts.index[canon(name)]
	return i, ok
}

// Has returns true if the type name is in the set.
func (ts *TypeSet) Has(name string) bool {
	_, ok := ts.index[canon(name)]
	return ok
}

// Len returns the number of types.
func (ts *TypeSet) Len() int {
	return len(ts.names)
}

// Name returns the name of the type with the given index.
func (ts *TypeSet) Name(i int) string {
	if i < 0 || i >= len(ts.names) {
		return ""
	}
	return ts.names[i]
}

// Names returns the type names
// in index order.
func (ts *TypeSet) Names() []string {
	names := make([]string, len(ts.names))
	copy(names, ts.names)
	return names
}

// ErrInUse is returned when removing a type
// that is still referenced.
var ErrInUse = errors.New("type in use")

// Remove removes a type from the set.
// The inUse function is used to check
// if the type index is still referenced
// (for example by a tree);
// if it returns true the type is not removed.
// A nil function is taken as no reference.
//
// Types after the removed one
// will have their index decreased by one,
// so it returns a map from the old indices
// to the new ones.
func (ts *TypeSet) Remove(name string, inUse func(i int) bool) (map[int]int, error) {
	name = canon(name)
	rm, ok := ts.index[name]
	if !ok {
		return nil, fmt.Errorf("type %q: not in set", name)
	}
	if inUse != nil && inUse(rm) {
		return nil, fmt.Errorf("type %q: %w", name, ErrInUse)
	}

	remap := make(map[int]int, len(ts.names)-1)
	names := make([]string, 0, len(ts.names)-1)
	for i, n := range ts.names {
		if i == rm {
			continue
		}
		remap[i] = len(names)
		names = append(names, n)
	}

	ts.names = names
	ts.index = make(map[string]int, len(names))
	for i, n := range names {
		ts.index[n] = i
	}
	return remap, nil
}

// ReadNames reads type names from a reader
// and add them to the set.
// The file should contain a name per line,
// empty lines and lines starting with '#'
// are ignored.
//
// Here is an example file:
//
//	# deme names
//	Africa
//	Eurasia
//	America
func (ts *TypeSet) ReadNames(r io.Reader) error {
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		ts.Add(line)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("on line %d: %v", ln, err)
	}
	return nil
}

// Write writes the type names
// (one name per line)
// in index order.
func (ts *TypeSet) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# type names\n")
	for _, n := range ts.names {
		fmt.Fprintf(bw, "%s\n", n)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing data: %v", err)
	}
	return nil
}

func canon(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	name = strings.ToLower(name)
	r, n := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[n:]
}
