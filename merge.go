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
	"sort"

	"github.com/ctessum/sparse"
)

// Merge combines MLUTs that differ only in the scalar attributes named
// by axisAttrs. The distinct values of each attribute become a new
// leading axis, every dataset gains the corresponding dimensions, and
// each input fills the block addressed by its attribute values. Every
// combination of attribute values must be covered exactly once.
// Attributes equal across all inputs are kept on the result.
func Merge(mluts []*MLUT, axisAttrs []string) (*MLUT, error) {
	if len(mluts) == 0 {
		return nil, fmt.Errorf("luts: cannot merge zero MLUTs")
	}
	if len(axisAttrs) == 0 {
		return nil, fmt.Errorf("luts: Merge needs at least one attribute to merge over")
	}

	// Collect the sorted distinct values of each merge attribute.
	values := make([][]float64, len(axisAttrs))
	for k, attr := range axisAttrs {
		set := make(map[float64]bool)
		for _, m := range mluts {
			v, err := numericAttr(m, attr)
			if err != nil {
				return nil, err
			}
			set[v] = true
		}
		vals := make([]float64, 0, len(set))
		for v := range set {
			vals = append(vals, v)
		}
		sort.Float64s(vals)
		values[k] = vals
	}
	counts := make([]int, len(axisAttrs))
	total := 1
	for k, vals := range values {
		counts[k] = len(vals)
		total *= len(vals)
	}
	if len(mluts) != total {
		return nil, fmt.Errorf("luts: got %d MLUTs for %d combinations of %v", len(mluts), total, axisAttrs)
	}

	tmpl := mluts[0]
	out := NewMLUT()
	for k, attr := range axisAttrs {
		if err := out.AddAxis(attr, values[k]); err != nil {
			return nil, err
		}
	}
	for _, name := range tmpl.axisNames {
		if err := out.AddAxis(name, tmpl.axes[name]); err != nil {
			return nil, err
		}
	}

	merged := make([]*sparse.DenseArray, len(tmpl.luts))
	for i, l := range tmpl.luts {
		merged[i] = sparse.ZerosDense(append(append([]int{}, counts...), l.Data.Shape...)...)
	}

	seen := make(map[int]bool, total)
	for _, m := range mluts {
		if len(m.luts) != len(tmpl.luts) {
			return nil, fmt.Errorf("luts: cannot merge MLUTs with different dataset counts")
		}
		// The block address of this input among the merge axes.
		block := 0
		for k, attr := range axisAttrs {
			v, err := numericAttr(m, attr)
			if err != nil {
				return nil, err
			}
			block = block*counts[k] + sort.SearchFloat64s(values[k], v)
		}
		if seen[block] {
			return nil, fmt.Errorf("luts: several MLUTs carry the same values of %v", axisAttrs)
		}
		seen[block] = true
		for i, l := range m.luts {
			if l.Desc != tmpl.luts[i].Desc || !sameShape(l.Data.Shape, tmpl.luts[i].Data.Shape) {
				return nil, fmt.Errorf("luts: dataset %q does not match between merged MLUTs", l.Desc)
			}
			n := len(l.Data.Elements)
			copy(merged[i].Elements[block*n:(block+1)*n], l.Data.Elements)
		}
	}
	if len(seen) != total {
		return nil, fmt.Errorf("luts: merged MLUTs do not cover all combinations of %v", axisAttrs)
	}

	for i, l := range tmpl.luts {
		axnames := append(append([]string{}, axisAttrs...), l.Names...)
		if err := out.AddDataset(l.Desc, merged[i], axnames, l.Attrs); err != nil {
			return nil, err
		}
	}

	// Keep the attributes that all inputs agree on.
	isMergeAttr := make(map[string]bool, len(axisAttrs))
	for _, attr := range axisAttrs {
		isMergeAttr[attr] = true
	}
	for key, val := range tmpl.Attrs {
		if isMergeAttr[key] {
			continue
		}
		agree := true
		for _, m := range mluts {
			if v, ok := m.Attrs[key]; !ok || normalizeAttr(v) != normalizeAttr(val) {
				agree = false
				break
			}
		}
		if agree {
			out.Attrs[key] = val
		}
	}
	return out, nil
}

func numericAttr(m *MLUT, key string) (float64, error) {
	v, ok := m.Attrs[key]
	if !ok {
		return 0, fmt.Errorf("luts: MLUT has no attribute %q", key)
	}
	f, ok := normalizeAttr(v).(float64)
	if !ok {
		return 0, fmt.Errorf("luts: attribute %q is not numeric", key)
	}
	return f, nil
}
