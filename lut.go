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

// Package luts provides look-up tables: multidimensional arrays whose axes
// carry optional names and coordinate values, collections of such tables
// sharing an axis namespace, interpolated indexing in both index space and
// coordinate space, broadcasting arithmetic, and NetCDF persistence.
package luts

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// A LUT is a look-up table: a dense multidimensional array where each
// dimension may carry a name and a vector of coordinate values.
type LUT struct {
	// Data holds the table values.
	Data *sparse.DenseArray

	// Axes holds the coordinate values for each dimension. An entry may be
	// nil for a dimension without coordinates. Value lookups with Idx
	// require the corresponding axis to be monotonic.
	Axes [][]float64

	// Names holds the name of each dimension; an entry may be empty.
	Names []string

	// Desc describes the table; it is used as the dataset name when the
	// LUT is part of an MLUT or a NetCDF file.
	Desc string

	// Attrs holds the table attributes. Use SetAttr to keep values
	// normalized so that file round trips preserve equality.
	Attrs map[string]interface{}
}

// NewLUT creates a LUT wrapping data. axes and names may be nil; when
// non-nil their length must equal the number of dimensions of data, and
// each non-nil axis must have one value per element of its dimension.
func NewLUT(data *sparse.DenseArray, axes [][]float64, names []string) (*LUT, error) {
	ndim := len(data.Shape)
	if axes == nil {
		axes = make([][]float64, ndim)
	}
	if len(axes) != ndim {
		return nil, fmt.Errorf("luts: got %d axes for %d dimensions", len(axes), ndim)
	}
	for i, ax := range axes {
		if ax != nil && len(ax) != data.Shape[i] {
			return nil, fmt.Errorf("luts: axis %d has %d values but the dimension length is %d",
				i, len(ax), data.Shape[i])
		}
	}
	if names == nil {
		names = make([]string, ndim)
	}
	if len(names) != ndim {
		return nil, fmt.Errorf("luts: got %d dimension names for %d dimensions", len(names), ndim)
	}
	return &LUT{
		Data:  data,
		Axes:  axes,
		Names: names,
		Attrs: make(map[string]interface{}),
	}, nil
}

// MustLUT is like NewLUT but panics on error.
func MustLUT(data *sparse.DenseArray, axes [][]float64, names []string) *LUT {
	l, err := NewLUT(data, axes, names)
	if err != nil {
		panic(err)
	}
	return l
}

// Ndim returns the number of dimensions.
func (l *LUT) Ndim() int { return len(l.Data.Shape) }

// Shape returns the dimension lengths.
func (l *LUT) Shape() []int { return l.Data.Shape }

// DimIndex returns the dimension with the given name.
func (l *LUT) DimIndex(name string) (int, error) {
	for i, n := range l.Names {
		if n != "" && n == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("luts: LUT %q has no dimension named %q", l.Desc, name)
}

// Axis returns the coordinate values of dimension dim (nil for a
// dimension without coordinates). The returned slice is not a copy;
// modifications are visible through the LUT.
func (l *LUT) Axis(dim int) []float64 { return l.Axes[dim] }

// AxisNamed returns the coordinate values of the named dimension.
func (l *LUT) AxisNamed(name string) ([]float64, error) {
	i, err := l.DimIndex(name)
	if err != nil {
		return nil, err
	}
	return l.Axes[i], nil
}

// AxisLUT returns the coordinate values of dimension dim as a
// one-dimensional LUT sharing the same backing slice.
func (l *LUT) AxisLUT(dim int) (*LUT, error) {
	ax := l.Axes[dim]
	if ax == nil {
		return nil, fmt.Errorf("luts: dimension %d of LUT %q has no axis values", dim, l.Desc)
	}
	a := sparse.ZerosDense(len(ax))
	a.Elements = ax
	o := MustLUT(a, [][]float64{ax}, []string{l.Names[dim]})
	o.Desc = l.Names[dim]
	return o, nil
}

// Get returns the element at the given integer indices.
// Negative indices count from the end of the dimension.
func (l *LUT) Get(idx ...int) float64 {
	if len(idx) != l.Ndim() {
		panic(fmt.Sprintf("luts: got %d indices for a %d-dimensional LUT", len(idx), l.Ndim()))
	}
	ii := make([]int, len(idx))
	for d, i := range idx {
		if i < 0 {
			i += l.Data.Shape[d]
		}
		ii[d] = i
	}
	return l.Data.Get(ii...)
}

// SetAttr sets attribute key. Numeric values are stored as float64 and
// all other values as strings, so that attributes survive a NetCDF
// round trip unchanged.
func (l *LUT) SetAttr(key string, value interface{}) {
	if l.Attrs == nil {
		l.Attrs = make(map[string]interface{})
	}
	l.Attrs[key] = normalizeAttr(value)
}

// RenameAxis renames the dimension named old to new.
func (l *LUT) RenameAxis(old, new string) error {
	i, err := l.DimIndex(old)
	if err != nil {
		return err
	}
	l.Names[i] = new
	return nil
}

// Equal reports whether l and o have the same description, shape,
// dimension names, axes, attributes and data.
func (l *LUT) Equal(o *LUT) bool {
	if o == nil || l.Desc != o.Desc || l.Ndim() != o.Ndim() {
		return false
	}
	for d := 0; d < l.Ndim(); d++ {
		if l.Data.Shape[d] != o.Data.Shape[d] || l.Names[d] != o.Names[d] {
			return false
		}
		ax, ox := l.Axes[d], o.Axes[d]
		if (ax == nil) != (ox == nil) {
			return false
		}
		if ax != nil && !floats.Equal(ax, ox) {
			return false
		}
	}
	if !floats.Equal(l.Data.Elements, o.Data.Elements) {
		return false
	}
	return attrsEqual(l.Attrs, o.Attrs)
}

// ToMLUT returns a single-dataset MLUT holding l and declaring its
// named axes. The LUT must have a non-empty description to serve as
// the dataset name.
func (l *LUT) ToMLUT() (*MLUT, error) {
	m := NewMLUT()
	if err := m.AddLUT(l); err != nil {
		return nil, err
	}
	return m, nil
}

// Describe writes a human-readable summary of the LUT to w.
func (l *LUT) Describe(w io.Writer) {
	fmt.Fprintf(w, "LUT %q %v\n", l.Desc, l.Data.Shape)
	for d := 0; d < l.Ndim(); d++ {
		name := l.Names[d]
		if name == "" {
			name = fmt.Sprintf("dim%d", d)
		}
		if ax := l.Axes[d]; ax != nil && len(ax) > 0 {
			fmt.Fprintf(w, "  %s (%d): %g to %g\n", name, len(ax), ax[0], ax[len(ax)-1])
		} else {
			fmt.Fprintf(w, "  %s (%d): no values\n", name, l.Data.Shape[d])
		}
	}
	if len(l.Data.Elements) > 0 {
		fmt.Fprintf(w, "  values: %g to %g\n",
			floats.Min(l.Data.Elements), floats.Max(l.Data.Elements))
	}
	if len(l.Attrs) > 0 {
		fmt.Fprintf(w, "  attributes: %s\n", formatAttrs(l.Attrs))
	}
}

// String returns the Describe output.
func (l *LUT) String() string {
	var b strings.Builder
	l.Describe(&b)
	return b.String()
}

// normalizeAttr converts attribute values to the types that survive
// NetCDF storage: float64 for numbers and string for everything else.
func normalizeAttr(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

func attrsEqual(a, b map[string]interface{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || normalizeAttr(av) != normalizeAttr(bv) {
			return false
		}
	}
	return true
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatAttrs(attrs map[string]interface{}) string {
	parts := make([]string, 0, len(attrs))
	for _, k := range sortedKeys(attrs) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, attrs[k]))
	}
	return strings.Join(parts, ", ")
}
