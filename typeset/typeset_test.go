// Copyright © 2023 J. Salvador Arias <jsalarias@gmail.com>
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package typeset_test

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/js-arias/multitype/typeset"
)

func TestTypeSet(t *testing.T) {
	ts := typeset.New("A", "B", " A ", "")
	testNames(t, "new", ts, []string{"A", "B"})

	if i := ts.Add("C"); i != 2 {
		t.Errorf("add: got index %d, want %d", i, 2)
	}
	if i := ts.Add("B"); i != 1 {
		t.Errorf("add existing: got index %d, want %d", i, 1)
	}
	if i, ok := ts.Index("C"); !ok || i != 2 {
		t.Errorf("index: got %d (%v), want %d", i, ok, 2)
	}

	var buf bytes.Buffer
	if err := ts.Write(&buf); err != nil {
		t.Fatalf("unable to write data: %v", err)
	}
	nt := typeset.New()
	if err := nt.ReadNames(&buf); err != nil {
		t.Fatalf("unable to read data: %v", err)
	}
	testNames(t, "read", nt, ts.Names())
}

func TestReadNamesMerge(t *testing.T) {
	ts := typeset.New("Eurasia", "Africa")
	in := `# more names
America

Africa
Oceania
`
	if err := ts.ReadNames(strings.NewReader(in)); err != nil {
		t.Fatalf("unable to read data: %v", err)
	}
	testNames(t, "merge", ts, []string{"Eurasia", "Africa", "America", "Oceania"})
}

func TestRemove(t *testing.T) {
	ts := typeset.New("A", "B", "C")

	_, err := ts.Remove("B", func(i int) bool { return i == 1 })
	if !errors.Is(err, typeset.ErrInUse) {
		t.Errorf("remove in use: got error %v, want %v", err, typeset.ErrInUse)
	}
	testNames(t, "after failed remove", ts, []string{"A", "B", "C"})

	remap, err := ts.Remove("B", nil)
	if err != nil {
		t.Fatalf("remove: unexpected error: %v", err)
	}
	testNames(t, "remove", ts, []string{"A", "C"})
	want := map[int]int{0: 0, 2: 1}
	if !reflect.DeepEqual(remap, want) {
		t.Errorf("remap: got %v, want %v", remap, want)
	}

	if _, err := ts.Remove("Z", nil); err == nil {
		t.Errorf("remove undefined: expecting error")
	}
}

func testNames(t testing.TB, name string, ts *typeset.TypeSet, want []string) {
	t.Helper()

	if got := ts.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("%s: got %v, want %v", name, got, want)
	}
	for i, n := range want {
		if got := ts.Name(i); got != n {
			t.Errorf("%s: name %d: got %q, want %q", name, i, got, n)
		}
	}
	if ts.Len() != len(want) {
		t.Errorf("%s: len: got %d, want %d", name, ts.Len(), len(want))
	}
}

func TestCanonicalNames(t *testing.T) {
	ts := typeset.New("south  AMERICA", "africa")
	testNames(t, "canonical", ts, []string{"South america", "Africa"})

	if i, ok := ts.Index(" South America "); !ok || i != 0 {
		t.Errorf("index: got %d (%v), want %d", i, ok, 0)
	}
	if i := ts.Add("AFRICA"); i != 1 {
		t.Errorf("add existing: got index %d, want %d", i, 1)
	}
}
