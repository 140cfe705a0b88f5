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
)

// SubSlice returns the subset of l selected by one Indexer per
// dimension, as a LUT. Scalar indexers (At, Frac, scalar Idx) drop
// their dimension, interpolating at fractional positions; keeping
// indexers (All, Range, Mask, Where, one-dimensional AtArr) retain the
// dimension with its name and the selected axis values.
func (l *LUT) SubSlice(ix ...Indexer) (*LUT, error) {
	if len(ix) != l.Ndim() {
		return nil, fmt.Errorf("luts: got %d indexers for a %d-dimensional LUT", len(ix), l.Ndim())
	}
	sels := make([]*dimSel, len(ix))
	var shape []int
	var axes [][]float64
	var names []string
	for d, indexer := range ix {
		s, err := indexer.resolve(l.Axes[d], l.Data.Shape[d])
		if err != nil {
			return nil, fmt.Errorf("luts: dimension %d: %w", d, err)
		}
		if s.kind == selIntArr {
			if len(s.arr.Shape) != 1 {
				return nil, fmt.Errorf("luts: subsetting dimension %d with a %d-dimensional index array", d, len(s.arr.Shape))
			}
			list := make([]int, len(s.arr.Elements))
			for i, v := range s.arr.Elements {
				list[i] = int(v)
			}
			s = &dimSel{kind: selList, list: list}
		}
		if s.kind == selFracArr {
			return nil, fmt.Errorf("luts: cannot subset dimension %d with fractional index arrays", d)
		}
		if s.kind == selList {
			s.out = []int{len(shape)}
			shape = append(shape, len(s.list))
			if ax := l.Axes[d]; ax != nil {
				sub := make([]float64, len(s.list))
				for i, j := range s.list {
					sub[i] = ax[j]
				}
				axes = append(axes, sub)
			} else {
				axes = append(axes, nil)
			}
			names = append(names, l.Names[d])
		}
		sels[d] = s
	}

	data := sparse.ZerosDense(shape...)
	pos := make([]float64, l.Ndim())
	outIdx := make([]int, len(shape))
	for flat := range data.Elements {
		unravel(flat, shape, outIdx)
		for d, s := range sels {
			pos[d] = s.position(outIdx)
		}
		v, err := l.interpolate(pos)
		if err != nil {
			return nil, err
		}
		data.Elements[flat] = v
	}
	out := MustLUT(data, axes, names)
	out.Desc = l.Desc
	for k, v := range l.Attrs {
		out.Attrs[k] = v
	}
	return out, nil
}

// Sub subsets the dimensions selected by name; unselected dimensions
// are kept whole.
func (l *LUT) Sub(sel map[string]Indexer) (*LUT, error) {
	byDim := make(map[int]Indexer, len(sel))
	for name, indexer := range sel {
		d, err := l.DimIndex(name)
		if err != nil {
			return nil, err
		}
		byDim[d] = indexer
	}
	return l.SubDims(byDim)
}

// SubDims subsets the dimensions selected by number; unselected
// dimensions are kept whole.
func (l *LUT) SubDims(sel map[int]Indexer) (*LUT, error) {
	ix := make([]Indexer, l.Ndim())
	for d := range ix {
		ix[d] = All()
	}
	for d, indexer := range sel {
		if d < 0 || d >= l.Ndim() {
			return nil, fmt.Errorf("luts: dimension %d out of range for a %d-dimensional LUT", d, l.Ndim())
		}
		ix[d] = indexer
	}
	return l.SubSlice(ix...)
}
