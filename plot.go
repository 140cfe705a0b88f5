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
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// lutGrid adapts a 2-dimensional LUT to the plotter grid interface.
// The first LUT dimension maps to the plot rows (y) and the second to
// the columns (x); dimensions without axis values use their indices as
// coordinates.
type lutGrid struct {
	l *LUT
}

func (g lutGrid) Dims() (c, r int) { return g.l.Data.Shape[1], g.l.Data.Shape[0] }

func (g lutGrid) Z(c, r int) float64 { return g.l.Data.Get(r, c) }

func (g lutGrid) X(c int) float64 {
	if ax := g.l.Axes[1]; ax != nil {
		return ax[c]
	}
	return float64(c)
}

func (g lutGrid) Y(r int) float64 {
	if ax := g.l.Axes[0]; ax != nil {
		return ax[r]
	}
	return float64(r)
}

// WriteHeatMap renders a 2-dimensional LUT as a PNG heat map and
// writes it to w.
func WriteHeatMap(l *LUT, w io.Writer) error {
	if l.Ndim() != 2 {
		return fmt.Errorf("luts: cannot draw a heat map of a %d-dimensional LUT", l.Ndim())
	}
	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("luts: creating plot: %w", err)
	}
	p.Title.Text = l.Desc
	if l.Names[1] != "" {
		p.X.Label.Text = l.Names[1]
	}
	if l.Names[0] != "" {
		p.Y.Label.Text = l.Names[0]
	}
	p.Add(plotter.NewHeatMap(lutGrid{l}, palette.Heat(12, 1)))

	c := vgimg.NewWith(vgimg.UseWH(6*vg.Inch, 4*vg.Inch), vgimg.UseDPI(96))
	p.Draw(draw.New(c))
	if _, err := (vgimg.PngCanvas{Canvas: c}).WriteTo(w); err != nil {
		return fmt.Errorf("luts: writing heat map: %w", err)
	}
	return nil
}
