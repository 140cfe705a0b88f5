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

package lutsutil

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ctessum/sparse"
	"github.com/hygeos/luts"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	Root.SetOutput(&buf)
	Root.SetArgs(args)
	err := Root.Execute()
	return buf.String(), err
}

func writeTestFile(t *testing.T, dir, name string) string {
	t.Helper()
	m := luts.NewMLUT()
	if err := m.AddAxis("x", []float64{0, 1, 2}); err != nil {
		t.Fatal(err)
	}
	if err := m.AddAxis("y", []float64{0, 1}); err != nil {
		t.Fatal(err)
	}
	data := sparse.ZerosDense(3, 2)
	for i := range data.Elements {
		data.Elements[i] = float64(i)
	}
	if err := m.AddDataset("field", data, []string{"x", "y"}, nil); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := m.SaveFile(path, false); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, Version) {
		t.Errorf("version output %q does not contain %q", out, Version)
	}
}

func TestDescribeCmd(t *testing.T) {
	dir, err := ioutil.TempDir("", "lutsutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := writeTestFile(t, dir, "test.nc")

	out, err := run(t, "describe", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "field") {
		t.Errorf("describe output %q does not mention the dataset", out)
	}
}

func TestDiffCmd(t *testing.T) {
	dir, err := ioutil.TempDir("", "lutsutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	p1 := writeTestFile(t, dir, "a.nc")
	p2 := writeTestFile(t, dir, "b.nc")

	if _, err := run(t, "diff", p1, p2); err != nil {
		t.Errorf("diffing equal files: %v", err)
	}

	m, err := luts.ReadMLUTFile(p2)
	if err != nil {
		t.Fatal(err)
	}
	d, err := m.Dataset("field")
	if err != nil {
		t.Fatal(err)
	}
	d.Data.Elements[0]++
	p3 := filepath.Join(dir, "c.nc")
	if err := m.SaveFile(p3, false); err != nil {
		t.Fatal(err)
	}
	if _, err := run(t, "diff", p1, p3); err == nil {
		t.Error("diffing different files should fail")
	}
}

func TestPlotCmd(t *testing.T) {
	dir, err := ioutil.TempDir("", "lutsutil")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := writeTestFile(t, dir, "test.nc")
	img := filepath.Join(dir, "out.png")

	if _, err := run(t, "plot", path, "field", img); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(img)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Error("plot wrote an empty image")
	}
}
