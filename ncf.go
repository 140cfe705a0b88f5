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
	"os"
	"strings"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// NetCDF layout: declared axes are stored as coordinate variables (a
// variable with the same name as its only dimension), datasets as
// DOUBLE variables over their dimensions. A named dimension without
// axis values keeps its name but gets no coordinate variable; an
// unnamed dimension of length n is stored under the reserved name
// "dim<n>", which reads recognize and strip again.

// Save writes the collection to f in NetCDF format.
func (m *MLUT) Save(f *os.File) error {
	var dimNames []string
	var dimLengths []int
	addDim := func(name string, length int) error {
		for i, n := range dimNames {
			if n == name {
				if dimLengths[i] != length {
					return fmt.Errorf("luts: dimension %q used with lengths %d and %d", name, dimLengths[i], length)
				}
				return nil
			}
		}
		dimNames = append(dimNames, name)
		dimLengths = append(dimLengths, length)
		return nil
	}

	for _, name := range m.axisNames {
		if err := addDim(name, len(m.axes[name])); err != nil {
			return err
		}
	}
	for _, l := range m.luts {
		if _, ok := m.axes[l.Desc]; ok {
			return fmt.Errorf("luts: dataset %q has the same name as an axis", l.Desc)
		}
		for d := 0; d < l.Ndim(); d++ {
			if err := addDim(dimName(l, d), l.Data.Shape[d]); err != nil {
				return fmt.Errorf("luts: dataset %q: %w", l.Desc, err)
			}
		}
	}

	h := cdf.NewHeader(dimNames, dimLengths)
	for _, k := range sortedKeys(m.Attrs) {
		h.AddAttribute("", k, encodeAttr(m.Attrs[k]))
	}
	for _, name := range m.axisNames {
		h.AddVariable(name, []string{name}, []float64{0})
	}
	for _, l := range m.luts {
		dims := make([]string, l.Ndim())
		for d := range dims {
			dims[d] = dimName(l, d)
		}
		h.AddVariable(l.Desc, dims, []float64{0})
		for _, k := range sortedKeys(l.Attrs) {
			h.AddAttribute(l.Desc, k, encodeAttr(l.Attrs[k]))
		}
	}
	h.Define()

	cf, err := cdf.Create(f, h)
	if err != nil {
		return fmt.Errorf("luts: creating NetCDF file: %w", err)
	}
	for _, name := range m.axisNames {
		if err := writeVar(cf, name, m.axes[name]); err != nil {
			return err
		}
	}
	for _, l := range m.luts {
		if err := writeVar(cf, l.Desc, l.Data.Elements); err != nil {
			return err
		}
	}
	if err := cdf.UpdateNumRecs(f); err != nil {
		return fmt.Errorf("luts: finalizing NetCDF file: %w", err)
	}
	return nil
}

// SaveFile writes the collection to a NetCDF file at path. Unless
// overwrite is set, an existing file is an error.
func (m *MLUT) SaveFile(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("luts: %s already exists", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadMLUT reads an MLUT from NetCDF storage. When dataset names are
// given, only those datasets are loaded (the axes are always loaded).
func ReadMLUT(rw cdf.ReaderWriterAt, datasets ...string) (*MLUT, error) {
	cf, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("luts: opening NetCDF file: %w", err)
	}
	want := make(map[string]bool, len(datasets))
	for _, name := range datasets {
		want[name] = true
	}

	m := NewMLUT()
	for _, k := range cf.Header.Attributes("") {
		m.SetAttr(k, decodeAttr(cf.Header.GetAttribute("", k)))
	}
	for _, v := range cf.Header.Variables() {
		dims := cf.Header.Dimensions(v)
		if len(dims) == 1 && dims[0] == v {
			// A coordinate variable declares an axis.
			values, err := readFullVar(cf, v)
			if err != nil {
				return nil, err
			}
			if err := m.AddAxis(v, values); err != nil {
				return nil, err
			}
			continue
		}
		if len(datasets) > 0 && !want[v] {
			continue
		}
		delete(want, v)
		values, err := readFullVar(cf, v)
		if err != nil {
			return nil, err
		}
		data := sparse.ZerosDense(cf.Header.Lengths(v)...)
		if len(values) != len(data.Elements) {
			return nil, fmt.Errorf("luts: variable %q has %d values but its dimensions hold %d",
				v, len(values), len(data.Elements))
		}
		data.Elements = values
		axnames := make([]string, len(dims))
		for d, dim := range dims {
			if !isGeneratedDim(dim) {
				axnames[d] = dim
			}
		}
		attrs := make(map[string]interface{})
		for _, k := range cf.Header.Attributes(v) {
			attrs[k] = decodeAttr(cf.Header.GetAttribute(v, k))
		}
		if err := m.AddDataset(v, data, axnames, attrs); err != nil {
			return nil, err
		}
	}
	for name := range want {
		return nil, fmt.Errorf("%w: %q", ErrNoDataset, name)
	}
	return m, nil
}

// ReadMLUTFile reads an MLUT from the NetCDF file at path, optionally
// restricted to the named datasets.
func ReadMLUTFile(path string, datasets ...string) (*MLUT, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMLUT(f, datasets...)
}

// dimName returns the NetCDF dimension name for dimension d of l.
func dimName(l *LUT, d int) string {
	if l.Names[d] != "" {
		return l.Names[d]
	}
	return fmt.Sprintf("dim%d", l.Data.Shape[d])
}

// isGeneratedDim reports whether name follows the reserved "dim<n>"
// convention for unnamed dimensions.
func isGeneratedDim(name string) bool {
	if !strings.HasPrefix(name, "dim") || len(name) == len("dim") {
		return false
	}
	for _, c := range name[len("dim"):] {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func writeVar(f *cdf.File, name string, values []float64) error {
	end := f.Header.Lengths(name)
	start := make([]int, len(end))
	w := f.Writer(name, start, end)
	if _, err := w.Write(values); err != nil {
		return fmt.Errorf("luts: writing variable %q: %w", name, err)
	}
	return nil
}

// readFullVar reads a whole variable as float64 regardless of its
// stored type.
func readFullVar(f *cdf.File, name string) ([]float64, error) {
	r := f.Reader(name, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("luts: reading variable %q: %w", name, err)
	}
	switch b := buf.(type) {
	case []float64:
		return b, nil
	case []float32:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	case []int32:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	case []int16:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	case []uint8:
		o := make([]float64, len(b))
		for i, v := range b {
			o[i] = float64(v)
		}
		return o, nil
	default:
		return nil, fmt.Errorf("luts: variable %q has unsupported type %T", name, buf)
	}
}

// encodeAttr converts a normalized attribute value to a type the cdf
// package stores.
func encodeAttr(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		return []float64{x}
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

// decodeAttr converts a stored attribute value back to its normalized
// form.
func decodeAttr(v interface{}) interface{} {
	switch x := v.(type) {
	case string:
		return x
	case []float64:
		if len(x) == 1 {
			return x[0]
		}
	case []float32:
		if len(x) == 1 {
			return float64(x[0])
		}
	case []int32:
		if len(x) == 1 {
			return float64(x[0])
		}
	case []int16:
		if len(x) == 1 {
			return float64(x[0])
		}
	}
	return fmt.Sprint(v)
}
