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
	"math"

	"github.com/ctessum/sparse"
)

// An Indexer selects positions along one dimension of a LUT.
//
// Scalar indexers (At, Frac, and scalar Idx values) drop the dimension
// from the result. All, Range, Mask and Where keep the dimension,
// possibly shortened. Array indexers (AtArr, FracArr and array Idx
// values) replace the dimension by the dimensions of the index array.
type Indexer interface {
	resolve(axis []float64, length int) (*dimSel, error)
}

// Selection kinds within one dimension.
const (
	selExact = iota
	selFrac
	selList
	selIntArr
	selFracArr
)

type dimSel struct {
	kind int
	i    int
	x    float64
	list []int
	arr  *sparse.DenseArray
	// out holds the positions of the output dimensions owned by this
	// input dimension, filled in while planning.
	out []int
}

type atIndexer struct{ i int }

// At selects the exact integer index i. Negative values count from the
// end of the dimension.
func At(i int) Indexer { return atIndexer{i} }

func (a atIndexer) resolve(axis []float64, length int) (*dimSel, error) {
	i := a.i
	if i < 0 {
		i += length
	}
	if i < 0 || i >= length {
		return nil, fmt.Errorf("luts: index %d out of range for dimension of length %d", a.i, length)
	}
	return &dimSel{kind: selExact, i: i}, nil
}

type fracIndexer struct{ x float64 }

// Frac selects the fractional index x; non-integral positions are
// linearly interpolated between neighboring elements.
func Frac(x float64) Indexer { return fracIndexer{x} }

func (f fracIndexer) resolve(axis []float64, length int) (*dimSel, error) {
	if f.x < 0 || f.x > float64(length-1) {
		return nil, fmt.Errorf("luts: fractional index %g out of range [0, %d]", f.x, length-1)
	}
	return &dimSel{kind: selFrac, x: f.x}, nil
}

type allIndexer struct{}

// All selects the whole dimension.
func All() Indexer { return allIndexer{} }

func (allIndexer) resolve(axis []float64, length int) (*dimSel, error) {
	list := make([]int, length)
	for i := range list {
		list[i] = i
	}
	return &dimSel{kind: selList, list: list}, nil
}

type rangeIndexer struct{ start, stop, step int }

// Range selects indices start, start+step, ... below stop. A negative
// stop means the end of the dimension. step must be positive.
func Range(start, stop, step int) Indexer { return rangeIndexer{start, stop, step} }

func (r rangeIndexer) resolve(axis []float64, length int) (*dimSel, error) {
	if r.step <= 0 {
		return nil, fmt.Errorf("luts: Range step must be positive, got %d", r.step)
	}
	stop := r.stop
	if stop < 0 || stop > length {
		stop = length
	}
	if r.start < 0 || r.start > length {
		return nil, fmt.Errorf("luts: Range start %d out of range for dimension of length %d", r.start, length)
	}
	var list []int
	for i := r.start; i < stop; i += r.step {
		list = append(list, i)
	}
	return &dimSel{kind: selList, list: list}, nil
}

type maskIndexer struct{ m []bool }

// Mask selects the indices where m is true. m must have one entry per
// element of the dimension.
func Mask(m []bool) Indexer { return maskIndexer{m} }

func (mk maskIndexer) resolve(axis []float64, length int) (*dimSel, error) {
	if len(mk.m) != length {
		return nil, fmt.Errorf("luts: mask length %d does not match dimension length %d", len(mk.m), length)
	}
	var list []int
	for i, keep := range mk.m {
		if keep {
			list = append(list, i)
		}
	}
	return &dimSel{kind: selList, list: list}, nil
}

type atArrIndexer struct{ a *sparse.DenseArray }

// AtArr selects by an array of integer-valued indices; the dimension is
// replaced by the dimensions of the array.
func AtArr(a *sparse.DenseArray) Indexer { return atArrIndexer{a} }

func (ai atArrIndexer) resolve(axis []float64, length int) (*dimSel, error) {
	arr := ai.a
	for j, v := range arr.Elements {
		i := int(v)
		if float64(i) != v || i < -length || i >= length {
			return nil, fmt.Errorf("luts: array index %g invalid for dimension of length %d", v, length)
		}
		if i < 0 {
			if arr == ai.a {
				arr = ai.a.Copy()
			}
			arr.Elements[j] = float64(i + length)
		}
	}
	return &dimSel{kind: selIntArr, arr: arr}, nil
}

type fracArrIndexer struct{ a *sparse.DenseArray }

// FracArr selects by an array of fractional indices, interpolating
// elementwise; the dimension is replaced by the dimensions of the array.
func FracArr(a *sparse.DenseArray) Indexer { return fracArrIndexer{a} }

func (fi fracArrIndexer) resolve(axis []float64, length int) (*dimSel, error) {
	for _, v := range fi.a.Elements {
		if v < 0 || v > float64(length-1) {
			return nil, fmt.Errorf("luts: fractional array index %g out of range [0, %d]", v, length-1)
		}
	}
	return &dimSel{kind: selFracArr, arr: fi.a}, nil
}

// Index applies one Indexer per dimension and returns the resulting
// array. Scalar indexers drop their dimension, so indexing with only At
// and Frac values produces a zero-dimensional array; its single element
// holds the (possibly interpolated) value.
func (l *LUT) Index(ix ...Indexer) (*sparse.DenseArray, error) {
	sels, outShape, err := l.plan(ix)
	if err != nil {
		return nil, err
	}
	out := sparse.ZerosDense(outShape...)
	pos := make([]float64, l.Ndim())
	outIdx := make([]int, len(outShape))
	for flat := range out.Elements {
		unravel(flat, outShape, outIdx)
		for d, s := range sels {
			pos[d] = s.position(outIdx)
		}
		v, err := l.interpolate(pos)
		if err != nil {
			return nil, err
		}
		out.Elements[flat] = v
	}
	return out, nil
}

// Interp returns the multilinearly interpolated value at the given
// fractional index coordinates, one per dimension.
func (l *LUT) Interp(pos ...float64) (float64, error) {
	if len(pos) != l.Ndim() {
		return 0, fmt.Errorf("luts: got %d positions for a %d-dimensional LUT", len(pos), l.Ndim())
	}
	return l.interpolate(pos)
}

// plan resolves the indexers and assigns output dimensions.
func (l *LUT) plan(ix []Indexer) ([]*dimSel, []int, error) {
	if len(ix) != l.Ndim() {
		return nil, nil, fmt.Errorf("luts: got %d indexers for a %d-dimensional LUT", len(ix), l.Ndim())
	}
	sels := make([]*dimSel, len(ix))
	var outShape []int
	for d, indexer := range ix {
		s, err := indexer.resolve(l.Axes[d], l.Data.Shape[d])
		if err != nil {
			return nil, nil, fmt.Errorf("luts: dimension %d: %w", d, err)
		}
		switch s.kind {
		case selList:
			s.out = []int{len(outShape)}
			outShape = append(outShape, len(s.list))
		case selIntArr, selFracArr:
			for k := range s.arr.Shape {
				s.out = append(s.out, len(outShape)+k)
			}
			outShape = append(outShape, s.arr.Shape...)
		}
		sels[d] = s
	}
	return sels, outShape, nil
}

// position returns the (possibly fractional) position along the input
// dimension for the given output index.
func (s *dimSel) position(outIdx []int) float64 {
	switch s.kind {
	case selExact:
		return float64(s.i)
	case selFrac:
		return s.x
	case selList:
		return float64(s.list[outIdx[s.out[0]]])
	default: // selIntArr, selFracArr
		flat := 0
		for k, od := range s.out {
			flat = flat*s.arr.Shape[k] + outIdx[od]
		}
		return s.arr.Elements[flat]
	}
}

// interpolate evaluates the LUT at fractional index coordinates using
// multilinear interpolation over the dimensions with non-integral
// positions.
func (l *LUT) interpolate(pos []float64) (float64, error) {
	ndim := l.Ndim()
	base := make([]int, ndim)
	frac := make([]float64, 0, ndim)
	fracDims := make([]int, 0, ndim)
	for d, p := range pos {
		if math.IsNaN(p) {
			return math.NaN(), nil
		}
		n := l.Data.Shape[d]
		if p < 0 || p > float64(n-1) {
			return 0, fmt.Errorf("luts: position %g out of range [0, %d] in dimension %d", p, n-1, d)
		}
		f := math.Floor(p)
		base[d] = int(f)
		if w := p - f; w != 0 {
			frac = append(frac, w)
			fracDims = append(fracDims, d)
		}
	}
	if len(fracDims) == 0 {
		return l.Data.Get(base...), nil
	}
	idx := make([]int, ndim)
	var sum float64
	for corner := 0; corner < 1<<uint(len(fracDims)); corner++ {
		copy(idx, base)
		weight := 1.0
		for k, d := range fracDims {
			if corner&(1<<uint(k)) != 0 {
				idx[d]++
				weight *= frac[k]
			} else {
				weight *= 1 - frac[k]
			}
		}
		if weight != 0 {
			sum += weight * l.Data.Get(idx...)
		}
	}
	return sum, nil
}

// unravel decodes a flat index into the multidimensional index idx for
// the given shape.
func unravel(flat int, shape, idx []int) {
	for d := len(shape) - 1; d >= 0; d-- {
		idx[d] = flat % shape[d]
		flat /= shape[d]
	}
}
