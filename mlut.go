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
	"fmt"
	"io"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// ErrNoDataset is returned when a named dataset is not part of an MLUT.
var ErrNoDataset = errors.New("luts: no such dataset")

// An MLUT is a named collection of LUTs sharing a namespace of axes and
// carrying collection-level attributes.
type MLUT struct {
	axisNames []string
	axes      map[string][]float64
	luts      []*LUT

	// Attrs holds the collection attributes. Use SetAttr or SetAttrs to
	// keep values normalized.
	Attrs map[string]interface{}
}

// NewMLUT creates an empty MLUT.
func NewMLUT() *MLUT {
	return &MLUT{
		axes:  make(map[string][]float64),
		Attrs: make(map[string]interface{}),
	}
}

// AddAxis declares an axis. Redeclaring an axis with equal values is a
// no-op; redeclaring it with different values is an error.
func (m *MLUT) AddAxis(name string, values []float64) error {
	if name == "" {
		return fmt.Errorf("luts: axis name must not be empty")
	}
	if old, ok := m.axes[name]; ok {
		if !floats.Equal(old, values) {
			return fmt.Errorf("luts: axis %q is already declared with different values", name)
		}
		return nil
	}
	m.axisNames = append(m.axisNames, name)
	m.axes[name] = values
	return nil
}

// AxisNames returns the declared axis names in declaration order.
func (m *MLUT) AxisNames() []string { return m.axisNames }

// Axis returns the values of the named axis, or nil if it is not
// declared. The returned slice is not a copy.
func (m *MLUT) Axis(name string) []float64 { return m.axes[name] }

// AxisLUT returns the named axis as a one-dimensional LUT sharing the
// same backing slice.
func (m *MLUT) AxisLUT(name string) (*LUT, error) {
	ax, ok := m.axes[name]
	if !ok {
		return nil, fmt.Errorf("luts: no axis named %q", name)
	}
	a := sparse.ZerosDense(len(ax))
	a.Elements = ax
	o := MustLUT(a, [][]float64{ax}, []string{name})
	o.Desc = name
	return o, nil
}

// AddDataset adds a dataset. Entries of axnames may be declared axis
// names (the dimension lengths must match the declared values), names
// of axes without values, or empty strings for unnamed dimensions. A
// nil axnames leaves every dimension unnamed.
func (m *MLUT) AddDataset(name string, data *sparse.DenseArray, axnames []string, attrs map[string]interface{}) error {
	if name == "" {
		return fmt.Errorf("luts: dataset name must not be empty")
	}
	if m.has(name) {
		return fmt.Errorf("luts: dataset %q already exists", name)
	}
	ndim := len(data.Shape)
	if axnames != nil && len(axnames) != ndim {
		return fmt.Errorf("luts: dataset %q: got %d axis names for %d dimensions", name, len(axnames), ndim)
	}
	axes := make([][]float64, ndim)
	names := make([]string, ndim)
	for d := 0; d < ndim; d++ {
		if axnames == nil || axnames[d] == "" {
			continue
		}
		names[d] = axnames[d]
		if ax, ok := m.axes[axnames[d]]; ok {
			if len(ax) != data.Shape[d] {
				return fmt.Errorf("luts: dataset %q: axis %q has %d values but dimension %d has length %d",
					name, axnames[d], len(ax), d, data.Shape[d])
			}
			axes[d] = ax
		}
	}
	l := MustLUT(data, axes, names)
	l.Desc = name
	for k, v := range attrs {
		l.SetAttr(k, v)
	}
	m.luts = append(m.luts, l)
	return nil
}

// AddLUT adds l as a dataset named by its description, declaring the
// axes of its named dimensions.
func (m *MLUT) AddLUT(l *LUT) error {
	if l.Desc == "" {
		return fmt.Errorf("luts: cannot add a LUT without a description")
	}
	if m.has(l.Desc) {
		return fmt.Errorf("luts: dataset %q already exists", l.Desc)
	}
	for d := 0; d < l.Ndim(); d++ {
		if l.Names[d] != "" && l.Axes[d] != nil {
			if err := m.AddAxis(l.Names[d], l.Axes[d]); err != nil {
				return err
			}
		}
	}
	m.luts = append(m.luts, l)
	return nil
}

// RmDataset removes the named dataset.
func (m *MLUT) RmDataset(name string) error {
	for i, l := range m.luts {
		if l.Desc == name {
			m.luts = append(m.luts[:i], m.luts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrNoDataset, name)
}

// Dataset returns the named dataset. The returned LUT shares storage
// with the collection.
func (m *MLUT) Dataset(name string) (*LUT, error) {
	for _, l := range m.luts {
		if l.Desc == name {
			return l, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNoDataset, name)
}

// DatasetAt returns the dataset at position i.
func (m *MLUT) DatasetAt(i int) (*LUT, error) {
	if i < 0 || i >= len(m.luts) {
		return nil, fmt.Errorf("luts: dataset index %d out of range [0, %d)", i, len(m.luts))
	}
	return m.luts[i], nil
}

// Datasets returns the dataset names in insertion order.
func (m *MLUT) Datasets() []string {
	names := make([]string, len(m.luts))
	for i, l := range m.luts {
		names[i] = l.Desc
	}
	return names
}

// Len returns the number of datasets.
func (m *MLUT) Len() int { return len(m.luts) }

func (m *MLUT) has(name string) bool {
	for _, l := range m.luts {
		if l.Desc == name {
			return true
		}
	}
	return false
}

// SetAttr sets a collection attribute, normalizing the value like
// (*LUT).SetAttr.
func (m *MLUT) SetAttr(key string, value interface{}) {
	if m.Attrs == nil {
		m.Attrs = make(map[string]interface{})
	}
	m.Attrs[key] = normalizeAttr(value)
}

// SetAttrs sets several collection attributes.
func (m *MLUT) SetAttrs(attrs map[string]interface{}) {
	for k, v := range attrs {
		m.SetAttr(k, v)
	}
}

// Sub applies the selection to every declared axis and every dataset
// dimension matching the selected names. Scalar indexers drop the axis
// from the collection and the dimension from each dataset.
func (m *MLUT) Sub(sel map[string]Indexer) (*MLUT, error) {
	out := NewMLUT()
	for _, name := range m.axisNames {
		ax := m.axes[name]
		indexer, ok := sel[name]
		if !ok {
			if err := out.AddAxis(name, ax); err != nil {
				return nil, err
			}
			continue
		}
		s, err := indexer.resolve(ax, len(ax))
		if err != nil {
			return nil, fmt.Errorf("luts: axis %q: %w", name, err)
		}
		switch s.kind {
		case selExact, selFrac:
			// Axis dropped.
		case selList:
			sub := make([]float64, len(s.list))
			for i, j := range s.list {
				sub[i] = ax[j]
			}
			if err := out.AddAxis(name, sub); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("luts: axis %q: array subsetting is not supported on MLUTs", name)
		}
	}
	for _, l := range m.luts {
		byDim := make(map[int]Indexer)
		for name, indexer := range sel {
			if d, err := l.DimIndex(name); err == nil {
				byDim[d] = indexer
			}
		}
		sl, err := l.SubDims(byDim)
		if err != nil {
			return nil, fmt.Errorf("luts: dataset %q: %w", l.Desc, err)
		}
		if err := out.AddDataset(l.Desc, sl.Data, sl.Names, sl.Attrs); err != nil {
			return nil, err
		}
	}
	for k, v := range m.Attrs {
		out.Attrs[k] = v
	}
	return out, nil
}

// DropAxis removes length-1 axes from the collection and squeezes the
// corresponding dimension out of every dataset using them.
func (m *MLUT) DropAxis(names ...string) (*MLUT, error) {
	drop := make(map[string]bool, len(names))
	for _, name := range names {
		ax, ok := m.axes[name]
		if !ok {
			return nil, fmt.Errorf("luts: no axis named %q", name)
		}
		if len(ax) != 1 {
			return nil, fmt.Errorf("luts: cannot drop axis %q of length %d", name, len(ax))
		}
		drop[name] = true
	}
	out := NewMLUT()
	for _, name := range m.axisNames {
		if !drop[name] {
			if err := out.AddAxis(name, m.axes[name]); err != nil {
				return nil, err
			}
		}
	}
	for _, l := range m.luts {
		var shape []int
		var axnames []string
		for d := 0; d < l.Ndim(); d++ {
			if drop[l.Names[d]] {
				if l.Data.Shape[d] != 1 {
					return nil, fmt.Errorf("luts: dataset %q: dimension %q has length %d, cannot squeeze",
						l.Desc, l.Names[d], l.Data.Shape[d])
				}
				continue
			}
			shape = append(shape, l.Data.Shape[d])
			axnames = append(axnames, l.Names[d])
		}
		// Squeezing unit dimensions does not change the element layout.
		data := sparse.ZerosDense(shape...)
		data.Elements = l.Data.Elements
		if err := out.AddDataset(l.Desc, data, axnames, l.Attrs); err != nil {
			return nil, err
		}
	}
	for k, v := range m.Attrs {
		out.Attrs[k] = v
	}
	return out, nil
}

// RenameAxis renames an axis in the collection and in every dataset
// using it. It returns m to allow chaining; renaming an axis that does
// not exist is a no-op.
func (m *MLUT) RenameAxis(old, new string) *MLUT {
	if ax, ok := m.axes[old]; ok {
		delete(m.axes, old)
		m.axes[new] = ax
		for i, n := range m.axisNames {
			if n == old {
				m.axisNames[i] = new
			}
		}
	}
	for _, l := range m.luts {
		for d, n := range l.Names {
			if n == old {
				l.Names[d] = new
			}
		}
	}
	return m
}

// Equal reports whether m and o hold the same axes, datasets and
// attributes.
func (m *MLUT) Equal(o *MLUT) bool { return len(m.diff(o, true)) == 0 }

// DataEqual reports whether m and o hold the same axes and datasets,
// ignoring collection and dataset attributes.
func (m *MLUT) DataEqual(o *MLUT) bool { return len(m.diff(o, false)) == 0 }

// Diff returns a human-readable list of the differences between m and
// o; it is empty when the collections are equal.
func (m *MLUT) Diff(o *MLUT) []string { return m.diff(o, true) }

func (m *MLUT) diff(o *MLUT, withAttrs bool) []string {
	var diffs []string
	if o == nil {
		return []string{"other MLUT is nil"}
	}
	for _, name := range m.axisNames {
		ox, ok := o.axes[name]
		if !ok {
			diffs = append(diffs, fmt.Sprintf("axis %q missing from other", name))
			continue
		}
		if !floats.Equal(m.axes[name], ox) {
			diffs = append(diffs, fmt.Sprintf("axis %q values differ", name))
		}
	}
	for _, name := range o.axisNames {
		if _, ok := m.axes[name]; !ok {
			diffs = append(diffs, fmt.Sprintf("axis %q missing from this", name))
		}
	}
	for _, l := range m.luts {
		ol, err := o.Dataset(l.Desc)
		if err != nil {
			diffs = append(diffs, fmt.Sprintf("dataset %q missing from other", l.Desc))
			continue
		}
		diffs = append(diffs, diffLUT(l, ol, withAttrs)...)
	}
	for _, ol := range o.luts {
		if !m.has(ol.Desc) {
			diffs = append(diffs, fmt.Sprintf("dataset %q missing from this", ol.Desc))
		}
	}
	if withAttrs && !attrsEqual(m.Attrs, o.Attrs) {
		diffs = append(diffs, fmt.Sprintf("attributes differ: %s vs %s",
			formatAttrs(m.Attrs), formatAttrs(o.Attrs)))
	}
	return diffs
}

func diffLUT(l, o *LUT, withAttrs bool) []string {
	var diffs []string
	if !sameShape(l.Data.Shape, o.Data.Shape) {
		return []string{fmt.Sprintf("dataset %q shapes differ: %v vs %v", l.Desc, l.Data.Shape, o.Data.Shape)}
	}
	if !sameNames(l.Names, o.Names) {
		diffs = append(diffs, fmt.Sprintf("dataset %q dimension names differ: %v vs %v", l.Desc, l.Names, o.Names))
	}
	for d := 0; d < l.Ndim(); d++ {
		ax, ox := l.Axes[d], o.Axes[d]
		if (ax == nil) != (ox == nil) || (ax != nil && !floats.Equal(ax, ox)) {
			diffs = append(diffs, fmt.Sprintf("dataset %q axis %d values differ", l.Desc, d))
		}
	}
	if !floats.Equal(l.Data.Elements, o.Data.Elements) {
		diffs = append(diffs, fmt.Sprintf("dataset %q values differ", l.Desc))
	}
	if withAttrs && !attrsEqual(l.Attrs, o.Attrs) {
		diffs = append(diffs, fmt.Sprintf("dataset %q attributes differ: %s vs %s",
			l.Desc, formatAttrs(l.Attrs), formatAttrs(o.Attrs)))
	}
	return diffs
}

// Describe writes a human-readable summary of the collection to w.
func (m *MLUT) Describe(w io.Writer) {
	fmt.Fprintf(w, "MLUT (%d datasets, %d axes)\n", len(m.luts), len(m.axisNames))
	for _, name := range m.axisNames {
		ax := m.axes[name]
		if len(ax) > 0 {
			fmt.Fprintf(w, "  axis %s (%d): %g to %g\n", name, len(ax), ax[0], ax[len(ax)-1])
		} else {
			fmt.Fprintf(w, "  axis %s (0)\n", name)
		}
	}
	for _, l := range m.luts {
		fmt.Fprintf(w, "  dataset %s %v %v\n", l.Desc, l.Data.Shape, l.Names)
	}
	if len(m.Attrs) > 0 {
		fmt.Fprintf(w, "  attributes: %s\n", formatAttrs(m.Attrs))
	}
}
