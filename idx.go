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
	"log"
	"math"

	"github.com/ctessum/sparse"
)

// OOBMode selects how an Idx treats values outside the axis range.
type OOBMode int

const (
	// OOBError reports an error for out-of-range values.
	OOBError OOBMode = iota
	// OOBNaN yields NaN for out-of-range values.
	OOBNaN
	// OOBClamp clamps out-of-range values to the axis extrema.
	OOBClamp
	// OOBClampWarn clamps like OOBClamp and logs a warning.
	OOBClampWarn
)

// An Idx looks a value (or an array of values) up on a monotonic axis,
// converting coordinate space to fractional index space by inverse
// linear interpolation. An Idx may be used directly as an Indexer, in
// which case the dimension it is applied to must carry axis values.
type Idx struct {
	// Values holds the coordinate values to look up.
	Values *sparse.DenseArray

	// OnOutOfBounds selects the treatment of values outside the axis
	// range. The default is OOBError.
	OnOutOfBounds OOBMode
}

// NewIdx creates an Idx looking up the single coordinate value v.
func NewIdx(v float64) *Idx {
	a := sparse.ZerosDense()
	a.Elements[0] = v
	return &Idx{Values: a}
}

// NewIdxArr creates an Idx looking up an array of coordinate values.
func NewIdxArr(a *sparse.DenseArray) *Idx { return &Idx{Values: a} }

// IndexOf converts the Idx's single value to a fractional index on
// axis. It is an error to call IndexOf on an array-valued Idx.
func (ix *Idx) IndexOf(axis []float64) (float64, error) {
	if len(ix.Values.Elements) != 1 || len(ix.Values.Shape) != 0 {
		return 0, fmt.Errorf("luts: IndexOf called on an Idx holding a %v-shaped array", ix.Values.Shape)
	}
	return ix.lookup(axis, ix.Values.Elements[0])
}

// Index converts all of the Idx's values to fractional indices on axis,
// returning an array with the same shape as the values.
func (ix *Idx) Index(axis []float64) (*sparse.DenseArray, error) {
	out := sparse.ZerosDense(ix.Values.Shape...)
	for i, v := range ix.Values.Elements {
		p, err := ix.lookup(axis, v)
		if err != nil {
			return nil, err
		}
		out.Elements[i] = p
	}
	return out, nil
}

func (ix *Idx) lookup(axis []float64, v float64) (float64, error) {
	n := len(axis)
	if n == 0 {
		return 0, fmt.Errorf("luts: cannot look up value %g on an empty axis", v)
	}
	if n == 1 {
		// No interpolation is possible; only an exact match succeeds.
		if axis[0] == v {
			return 0, nil
		}
		return 0, fmt.Errorf("luts: value %g does not match single-element axis [%g]", v, axis[0])
	}
	lo, hi := axis[0], axis[n-1]
	ascending := hi >= lo
	if !ascending {
		lo, hi = hi, lo
	}
	if v < lo || v > hi {
		switch ix.OnOutOfBounds {
		case OOBNaN:
			return math.NaN(), nil
		case OOBClampWarn:
			log.Printf("luts: value %g outside axis range [%g, %g]; clamping", v, lo, hi)
			fallthrough
		case OOBClamp:
			if (v < lo) == ascending {
				return 0, nil
			}
			return float64(n - 1), nil
		default:
			return 0, fmt.Errorf("luts: value %g outside axis range [%g, %g]", v, lo, hi)
		}
	}
	for j := 0; j < n-1; j++ {
		a, b := axis[j], axis[j+1]
		if !ascending {
			a, b = b, a
		}
		if v >= a && v <= b {
			if a == b {
				return float64(j), nil
			}
			w := (v - axis[j]) / (axis[j+1] - axis[j])
			return float64(j) + w, nil
		}
	}
	return 0, fmt.Errorf("luts: axis is not monotonic; cannot look up value %g", v)
}

// resolve implements Indexer.
func (ix *Idx) resolve(axis []float64, length int) (*dimSel, error) {
	if axis == nil {
		return nil, fmt.Errorf("luts: cannot look up values on a dimension without axis values")
	}
	if len(ix.Values.Shape) == 0 {
		p, err := ix.IndexOf(axis)
		if err != nil {
			return nil, err
		}
		return &dimSel{kind: selFrac, x: p}, nil
	}
	pos, err := ix.Index(axis)
	if err != nil {
		return nil, err
	}
	return &dimSel{kind: selFracArr, arr: pos}, nil
}

// A WhereIndexer keeps the positions of an axis whose values satisfy a
// predicate.
type WhereIndexer struct {
	fn func(float64) bool
}

// Where returns an Indexer selecting the axis positions whose values
// satisfy fn. The dimension it is applied to must carry axis values.
func Where(fn func(float64) bool) *WhereIndexer { return &WhereIndexer{fn} }

// Indices returns the positions of the axis values satisfying the
// predicate.
func (w *WhereIndexer) Indices(axis []float64) []int {
	var list []int
	for i, v := range axis {
		if w.fn(v) {
			list = append(list, i)
		}
	}
	return list
}

// Values returns the axis values satisfying the predicate.
func (w *WhereIndexer) Values(axis []float64) []float64 {
	var vals []float64
	for _, v := range axis {
		if w.fn(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

func (w *WhereIndexer) resolve(axis []float64, length int) (*dimSel, error) {
	if axis == nil {
		return nil, fmt.Errorf("luts: cannot select by value on a dimension without axis values")
	}
	return &dimSel{kind: selList, list: w.Indices(axis)}, nil
}
