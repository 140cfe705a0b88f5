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
	"fmt"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Apply returns a new LUT whose elements are fn applied to the elements
// of l. Axes, names and attributes are carried over; an optional desc
// argument replaces the description.
func (l *LUT) Apply(fn func(float64) float64, desc ...string) *LUT {
	data := sparse.ZerosDense(l.Data.Shape...)
	for i, v := range l.Data.Elements {
		data.Elements[i] = fn(v)
	}
	o := l.withSameLabels(data)
	if len(desc) > 0 {
		o.Desc = desc[0]
	}
	return o
}

// AddScalar returns l with v added to every element.
func (l *LUT) AddScalar(v float64) *LUT {
	return l.Apply(func(x float64) float64 { return x + v })
}

// MulScalar returns l with every element multiplied by v.
func (l *LUT) MulScalar(v float64) *LUT {
	return l.Apply(func(x float64) float64 { return x * v })
}

// Add returns the elementwise sum of l and o, broadcasting over the
// union of named dimensions.
func (l *LUT) Add(o *LUT) (*LUT, error) {
	return l.combine(o, "+", func(a, b float64) float64 { return a + b })
}

// Subtract returns the elementwise difference of l and o, broadcasting
// over the union of named dimensions.
func (l *LUT) Subtract(o *LUT) (*LUT, error) {
	return l.combine(o, "-", func(a, b float64) float64 { return a - b })
}

// Mul returns the elementwise product of l and o, broadcasting over the
// union of named dimensions.
func (l *LUT) Mul(o *LUT) (*LUT, error) {
	return l.combine(o, "*", func(a, b float64) float64 { return a * b })
}

// Div returns the elementwise quotient of l and o, broadcasting over
// the union of named dimensions.
func (l *LUT) Div(o *LUT) (*LUT, error) {
	return l.combine(o, "/", func(a, b float64) float64 { return a / b })
}

// combine evaluates fn over the broadcast union of l and o.
//
// When the two LUTs carry identical dimension names (including
// unnamed dimensions), they must have identical shapes and are
// combined elementwise. Otherwise every dimension of both operands
// must be named; the result dimensions are the order-preserving merge
// of the two name lists, and dimensions present in only one operand
// are broadcast over.
func (l *LUT) combine(o *LUT, op string, fn func(a, b float64) float64) (*LUT, error) {
	desc := l.Desc
	if o.Desc != l.Desc {
		desc = "(" + l.Desc + op + o.Desc + ")"
	}

	if sameNames(l.Names, o.Names) {
		if !sameShape(l.Data.Shape, o.Data.Shape) {
			return nil, fmt.Errorf("luts: cannot combine LUTs with shapes %v and %v",
				l.Data.Shape, o.Data.Shape)
		}
		for d := range l.Axes {
			if l.Axes[d] != nil && o.Axes[d] != nil && !floats.Equal(l.Axes[d], o.Axes[d]) {
				return nil, fmt.Errorf("luts: mismatched values on axis %d", d)
			}
		}
		data := sparse.ZerosDense(l.Data.Shape...)
		for i := range data.Elements {
			data.Elements[i] = fn(l.Data.Elements[i], o.Data.Elements[i])
		}
		out := l.withSameLabels(data)
		out.Desc = desc
		out.Attrs = make(map[string]interface{})
		return out, nil
	}

	names, err := mergeNames(l.Names, o.Names)
	if err != nil {
		return nil, err
	}
	shape := make([]int, len(names))
	axes := make([][]float64, len(names))
	lmap, err := dimMap(l, names, shape, axes)
	if err != nil {
		return nil, err
	}
	omap, err := dimMap(o, names, shape, axes)
	if err != nil {
		return nil, err
	}

	data := sparse.ZerosDense(shape...)
	idx := make([]int, len(shape))
	li := make([]int, l.Ndim())
	oi := make([]int, o.Ndim())
	for flat := range data.Elements {
		unravel(flat, shape, idx)
		for d, rd := range lmap {
			li[d] = idx[rd]
		}
		for d, rd := range omap {
			oi[d] = idx[rd]
		}
		data.Elements[flat] = fn(l.Data.Get(li...), o.Data.Get(oi...))
	}
	out := MustLUT(data, axes, names)
	out.Desc = desc
	return out, nil
}

// withSameLabels wraps data with l's axes, names, description and
// attributes.
func (l *LUT) withSameLabels(data *sparse.DenseArray) *LUT {
	o := MustLUT(data, l.Axes, l.Names)
	o.Desc = l.Desc
	for k, v := range l.Attrs {
		o.Attrs[k] = v
	}
	return o
}

func sameNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func sameShape(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// mergeNames merges two lists of dimension names, preserving the order
// of both. The names shared between the lists must appear in the same
// relative order; every name must be non-empty and unique within its
// list.
func mergeNames(a, b []string) ([]string, error) {
	for _, names := range [][]string{a, b} {
		seen := make(map[string]bool)
		for _, n := range names {
			if n == "" {
				return nil, fmt.Errorf("luts: cannot broadcast over unnamed dimensions")
			}
			if seen[n] {
				return nil, fmt.Errorf("luts: duplicate dimension name %q", n)
			}
			seen[n] = true
		}
	}
	inA := make(map[string]bool, len(a))
	for _, n := range a {
		inA[n] = true
	}
	inB := make(map[string]bool, len(b))
	for _, n := range b {
		inB[n] = true
	}
	shared := func(n string) bool { return inA[n] && inB[n] }

	var out []string
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case i < len(a) && !shared(a[i]):
			out = append(out, a[i])
			i++
		case j < len(b) && !shared(b[j]):
			out = append(out, b[j])
			j++
		default:
			if a[i] != b[j] {
				return nil, fmt.Errorf("luts: shared dimensions %q and %q appear in conflicting order", a[i], b[j])
			}
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out, nil
}

// dimMap returns, for each dimension of l, its position among the
// merged result dimensions, and fills in the result shape and axes,
// checking consistency with what previous operands contributed.
func dimMap(l *LUT, names []string, shape []int, axes [][]float64) ([]int, error) {
	pos := make(map[string]int, len(names))
	for i, n := range names {
		pos[n] = i
	}
	m := make([]int, l.Ndim())
	for d, n := range l.Names {
		rd := pos[n]
		m[d] = rd
		if shape[rd] == 0 {
			shape[rd] = l.Data.Shape[d]
		} else if shape[rd] != l.Data.Shape[d] {
			return nil, fmt.Errorf("luts: dimension %q has conflicting lengths %d and %d",
				n, shape[rd], l.Data.Shape[d])
		}
		if ax := l.Axes[d]; ax != nil {
			if axes[rd] == nil {
				axes[rd] = ax
			} else if !floats.Equal(axes[rd], ax) {
				return nil, fmt.Errorf("luts: dimension %q has conflicting axis values", n)
			}
		}
	}
	return m, nil
}

// Reduce collapses the named dimension by applying fn to each vector of
// elements along it.
func (l *LUT) Reduce(fn func([]float64) float64, axis string) (*LUT, error) {
	d, err := l.DimIndex(axis)
	if err != nil {
		return nil, err
	}
	return l.ReduceDim(fn, d)
}

// ReduceDim collapses dimension dim by applying fn to each vector of
// elements along it.
func (l *LUT) ReduceDim(fn func([]float64) float64, dim int) (*LUT, error) {
	if dim < 0 || dim >= l.Ndim() {
		return nil, fmt.Errorf("luts: dimension %d out of range for a %d-dimensional LUT", dim, l.Ndim())
	}
	n := l.Data.Shape[dim]
	group := make([]int, n)
	for i := range group {
		group[i] = 0
	}
	return l.reduceGroups(fn, dim, group, 1, nil)
}

// ReduceGrouped collapses the named dimension within groups of equal
// grouping value: elements of the dimension whose grouping entries are
// equal are reduced together, and the dimension is replaced by one
// entry per distinct grouping value, in order of first appearance. The
// grouping values become the new axis values.
func (l *LUT) ReduceGrouped(fn func([]float64) float64, axis string, grouping []float64) (*LUT, error) {
	d, err := l.DimIndex(axis)
	if err != nil {
		return nil, err
	}
	if len(grouping) != l.Data.Shape[d] {
		return nil, fmt.Errorf("luts: grouping length %d does not match dimension %q length %d",
			len(grouping), axis, l.Data.Shape[d])
	}
	group := make([]int, len(grouping))
	var vals []float64
	index := make(map[float64]int)
	for i, g := range grouping {
		j, ok := index[g]
		if !ok {
			j = len(vals)
			index[g] = j
			vals = append(vals, g)
		}
		group[i] = j
	}
	return l.reduceGroups(fn, d, group, len(vals), vals)
}

// reduceGroups reduces dimension dim into ngroups groups. When
// ngroups is 1 the dimension is dropped; otherwise it is kept with
// axis values groupVals.
func (l *LUT) reduceGroups(fn func([]float64) float64, dim int, group []int, ngroups int, groupVals []float64) (*LUT, error) {
	drop := ngroups == 1 && groupVals == nil

	var shape []int
	var axes [][]float64
	var names []string
	for d := 0; d < l.Ndim(); d++ {
		if d == dim {
			if drop {
				continue
			}
			shape = append(shape, ngroups)
			axes = append(axes, groupVals)
			names = append(names, l.Names[d])
			continue
		}
		shape = append(shape, l.Data.Shape[d])
		axes = append(axes, l.Axes[d])
		names = append(names, l.Names[d])
	}

	data := sparse.ZerosDense(shape...)
	outIdx := make([]int, len(shape))
	srcIdx := make([]int, l.Ndim())
	members := make([][]int, ngroups)
	for i, g := range group {
		members[g] = append(members[g], i)
	}
	vec := make([]float64, 0, l.Data.Shape[dim])
	for flat := range data.Elements {
		unravel(flat, shape, outIdx)
		k := 0
		g := 0
		for d := 0; d < l.Ndim(); d++ {
			if d == dim {
				if !drop {
					g = outIdx[k]
					k++
				}
				continue
			}
			srcIdx[d] = outIdx[k]
			k++
		}
		vec = vec[:0]
		for _, i := range members[g] {
			srcIdx[dim] = i
			vec = append(vec, l.Data.Get(srcIdx...))
		}
		data.Elements[flat] = fn(vec)
	}
	out := MustLUT(data, axes, names)
	out.Desc = l.Desc
	for k, v := range l.Attrs {
		out.Attrs[k] = v
	}
	return out, nil
}

// SwapAxes returns a copy of l with dimensions i and j exchanged.
func (l *LUT) SwapAxes(i, j int) (*LUT, error) {
	nd := l.Ndim()
	if i < 0 || i >= nd || j < 0 || j >= nd {
		return nil, fmt.Errorf("luts: cannot swap dimensions %d and %d of a %d-dimensional LUT", i, j, nd)
	}
	perm := make([]int, nd)
	for d := range perm {
		perm[d] = d
	}
	perm[i], perm[j] = perm[j], perm[i]

	shape := make([]int, nd)
	axes := make([][]float64, nd)
	names := make([]string, nd)
	for d, s := range perm {
		shape[d] = l.Data.Shape[s]
		axes[d] = l.Axes[s]
		names[d] = l.Names[s]
	}
	data := sparse.ZerosDense(shape...)
	outIdx := make([]int, nd)
	srcIdx := make([]int, nd)
	for flat := range data.Elements {
		unravel(flat, shape, outIdx)
		for d, s := range perm {
			srcIdx[s] = outIdx[d]
		}
		data.Elements[flat] = l.Data.Get(srcIdx...)
	}
	out := MustLUT(data, axes, names)
	out.Desc = l.Desc
	for k, v := range l.Attrs {
		out.Attrs[k] = v
	}
	return out, nil
}

// SwapAxesNamed returns a copy of l with the named dimensions
// exchanged.
func (l *LUT) SwapAxesNamed(a, b string) (*LUT, error) {
	i, err := l.DimIndex(a)
	if err != nil {
		return nil, err
	}
	j, err := l.DimIndex(b)
	if err != nil {
		return nil, err
	}
	return l.SwapAxes(i, j)
}
