/*
Copyright © 2026 the luts authors.
This file is part of luts.

luts is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

luts is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with luts.  If not, see <http://www.gnu.org/licenses/>.
*/

package luts

import (
	"errors"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

func TestDatasetLookup(t *testing.T) {
	m := createMLUT(t)
	if _, err := m.Dataset("data4"); !errors.Is(err, ErrNoDataset) {
		t.Errorf("looking up a missing dataset: got %v, want ErrNoDataset", err)
	}
	l, err := m.Dataset("data1")
	if err != nil {
		t.Fatal(err)
	}
	if l.Desc != "data1" {
		t.Errorf("dataset description is %q, want data1", l.Desc)
	}
	if got := m.Datasets(); len(got) != 3 || got[0] != "data1" || got[2] != "data3" {
		t.Errorf("dataset names are %v", got)
	}
	if m.Len() != 3 {
		t.Errorf("Len: got %d, want 3", m.Len())
	}
}

func TestScalarDataset(t *testing.T) {
	m := createMLUT(t)
	scalar := sparse.ZerosDense()
	scalar.Elements[0] = 25
	if err := m.AddDataset("scalar", scalar, nil, nil); err != nil {
		t.Fatal(err)
	}
	d := mustDataset(t, m, "scalar")
	if d.Ndim() != 0 {
		t.Fatalf("scalar dataset has %d dimensions", d.Ndim())
	}
	sum, err := d.Add(d)
	if err != nil {
		t.Fatal(err)
	}
	if got := sum.Data.Elements[0]; got != 50 {
		t.Errorf("scalar + scalar: got %g, want 50", got)
	}
	if got := d.Apply(math.Sqrt).Data.Elements[0]; got != 5 {
		t.Errorf("sqrt(scalar): got %g, want 5", got)
	}
	m.Describe(ioutil.Discard)

	dir, err := ioutil.TempDir("", "luts")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	if err := m.SaveFile(filepath.Join(dir, "scalar.nc"), false); err != nil {
		t.Fatal(err)
	}
	m2, err := ReadMLUTFile(filepath.Join(dir, "scalar.nc"))
	if err != nil {
		t.Fatal(err)
	}
	if !m.Equal(m2) {
		t.Errorf("round trip with a scalar dataset: %v", m.Diff(m2))
	}
}

func TestAddLUT(t *testing.T) {
	l := createLUT(t)
	m := NewMLUT()
	if err := m.AddLUT(l); err != nil {
		t.Fatal(err)
	}
	if got := m.AxisNames(); len(got) != 2 || got[0] != "z" || got[1] != "P0" {
		t.Errorf("declared axes are %v, want [z P0]", got)
	}
	d := mustDataset(t, m, "Pdata")
	if !d.Equal(l) {
		t.Error("added dataset should equal the source LUT")
	}
	if err := m.AddLUT(l); err == nil {
		t.Error("adding the same dataset twice should fail")
	}
}

func TestToMLUT(t *testing.T) {
	l := createLUT(t)
	m, err := l.ToMLUT()
	if err != nil {
		t.Fatal(err)
	}
	l2 := createLUT(t)
	m2, err := l2.ToMLUT()
	if err != nil {
		t.Fatal(err)
	}
	if !m.DataEqual(m2) {
		t.Error("conversions of equal LUTs should give equal collections")
	}
}

func TestRmDataset(t *testing.T) {
	m := createMLUT(t)
	if err := m.RmDataset("data2"); err != nil {
		t.Fatal(err)
	}
	if m.Len() != 2 {
		t.Errorf("Len after removal: got %d, want 2", m.Len())
	}
	if _, err := m.Dataset("data2"); !errors.Is(err, ErrNoDataset) {
		t.Error("removed dataset should not be found")
	}
	if err := m.RmDataset("data2"); !errors.Is(err, ErrNoDataset) {
		t.Error("removing a missing dataset should fail")
	}
}

func TestMLUTEquality(t *testing.T) {
	m0 := createMLUT(t)
	m1 := createMLUT(t)
	if !m0.Equal(m1) {
		t.Errorf("identically constructed collections should be equal: %v", m0.Diff(m1))
	}
	m1.SetAttr("extra", 1)
	if m0.Equal(m1) {
		t.Error("collections with different attributes should not be equal")
	}
	if !m0.DataEqual(m1) {
		t.Error("collections with the same data should be data-equal")
	}
	d := mustDataset(t, m1, "data1")
	d.Data.Elements[0]++
	if m0.DataEqual(m1) {
		t.Error("collections with different data should not be data-equal")
	}
}

func TestSubMLUT(t *testing.T) {
	m := createMLUT(t)
	s, err := m.Sub(map[string]Indexer{"b": Where(func(x float64) bool { return x < 7 })})
	if err != nil {
		t.Fatal(err)
	}
	for _, v := range s.Axis("b") {
		if v >= 7 {
			t.Errorf("axis value %g should have been filtered out", v)
		}
	}
	d1 := mustDataset(t, s, "data1")
	if got := d1.Shape()[1]; got != len(s.Axis("b")) {
		t.Errorf("dataset dimension length %d does not match axis length %d", got, len(s.Axis("b")))
	}
	d3 := mustDataset(t, s, "data3")
	orig := mustDataset(t, m, "data3")
	if !floats.Equal(d3.Data.Elements, orig.Data.Elements) {
		t.Error("datasets without the selected axis should be unchanged")
	}

	s, err = m.Sub(map[string]Indexer{"a": At(1)})
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range s.AxisNames() {
		if name == "a" {
			t.Error("scalar selection should drop the axis")
		}
	}
	if got := mustDataset(t, s, "data1").Ndim(); got != 1 {
		t.Errorf("data1 after scalar selection has %d dimensions, want 1", got)
	}
}

func TestDropAxis(t *testing.T) {
	m := createMLUT(t)
	s, err := m.Sub(map[string]Indexer{"a": Range(1, 2, 1)})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(s.Axis("a")); got != 1 {
		t.Fatalf("axis a has length %d, want 1", got)
	}
	d, err := s.DropAxis("a")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range d.AxisNames() {
		if name == "a" {
			t.Error("dropped axis should no longer be declared")
		}
	}
	if got := mustDataset(t, d, "data1").Shape(); !sameShape(got, []int{6}) {
		t.Errorf("data1 shape after squeeze: got %v, want [6]", got)
	}
	if got := mustDataset(t, d, "data2").Shape(); !sameShape(got, []int{6, 7}) {
		t.Errorf("data2 shape after squeeze: got %v, want [6 7]", got)
	}

	if _, err := m.DropAxis("a"); err == nil {
		t.Error("dropping an axis of length 5 should fail")
	}
	if _, err := m.DropAxis("nope"); err == nil {
		t.Error("dropping a missing axis should fail")
	}
}

func TestRenameAxisMLUT(t *testing.T) {
	m := createMLUT(t)
	m.RenameAxis("a", "aa").RenameAxis("missing", "ignored")
	found := false
	for _, name := range m.AxisNames() {
		if name == "aa" {
			found = true
		}
		if name == "a" {
			t.Error("renamed axis should not keep its old name")
		}
	}
	if !found {
		t.Error("renamed axis not declared under the new name")
	}
	d := mustDataset(t, m, "data1")
	if _, err := d.DimIndex("aa"); err != nil {
		t.Error("datasets should see the renamed axis")
	}
}

func TestValuelessAxisNames(t *testing.T) {
	m := NewMLUT()
	if err := m.AddAxis("b", arange(5)); err != nil {
		t.Fatal(err)
	}
	if err := m.AddDataset("data", sparse.ZerosDense(3, 5, 8), []string{"a2", "b", "c2"}, nil); err != nil {
		t.Fatal(err)
	}
	d := mustDataset(t, m, "data")
	if d.Axis(0) != nil || d.Axis(2) != nil {
		t.Error("undeclared axis names should carry no values")
	}
	if !floats.Equal(d.Axis(1), arange(5)) {
		t.Error("declared axis should carry the declared values")
	}
	if _, err := d.Index(At(0), At(0), At(0)); err != nil {
		t.Fatal(err)
	}
	out, err := d.Index(All(), All(), All())
	if err != nil {
		t.Fatal(err)
	}
	if !sameShape(out.Shape, []int{3, 5, 8}) {
		t.Errorf("full selection shape: got %v, want [3 5 8]", out.Shape)
	}
}

func TestAddAxisConflict(t *testing.T) {
	m := NewMLUT()
	if err := m.AddAxis("a", arange(5)); err != nil {
		t.Fatal(err)
	}
	if err := m.AddAxis("a", arange(5)); err != nil {
		t.Errorf("re-declaring an identical axis should be accepted: %v", err)
	}
	if err := m.AddAxis("a", arange(6)); err == nil {
		t.Error("re-declaring an axis with different values should fail")
	}
}
