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

// Package lutsutil holds the commands of the luts command-line tool.
package lutsutil

import (
	"fmt"
	"os"

	"github.com/hygeos/luts"
	"github.com/spf13/cobra"
)

// Version is the version of the luts tool.
const Version = "1.0.0"

// Root is the main command.
var Root = &cobra.Command{
	Use:   "luts",
	Short: "Inspect, compare and render look-up table files.",
	Long: `luts works with NetCDF files holding collections of look-up tables:
multidimensional arrays whose axes carry names and coordinate values.
Use the subcommands specified below to describe a file, compare two
files, or render a table as an image.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "luts v%s\n", Version)
	},
	DisableAutoGenTag: true,
}

var describeCmd = &cobra.Command{
	Use:   "describe FILE",
	Short: "Summarize the contents of a look-up table file.",
	Long: `describe prints the axes, datasets and attributes of the look-up
table collection stored in FILE.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := luts.ReadMLUTFile(args[0])
		if err != nil {
			return err
		}
		m.Describe(cmd.OutOrStdout())
		return nil
	},
	DisableAutoGenTag: true,
}

var diffCmd = &cobra.Command{
	Use:   "diff FILE1 FILE2",
	Short: "Compare two look-up table files.",
	Long: `diff compares the look-up table collections stored in FILE1 and
FILE2 and prints their differences. It fails when the collections are
not equal.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		m1, err := luts.ReadMLUTFile(args[0])
		if err != nil {
			return err
		}
		m2, err := luts.ReadMLUTFile(args[1])
		if err != nil {
			return err
		}
		diffs := m1.Diff(m2)
		for _, d := range diffs {
			fmt.Fprintln(cmd.OutOrStdout(), d)
		}
		if len(diffs) > 0 {
			return fmt.Errorf("%s and %s differ", args[0], args[1])
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var plotCmd = &cobra.Command{
	Use:   "plot FILE DATASET OUTPUT",
	Short: "Render a 2-dimensional dataset as a PNG heat map.",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := luts.ReadMLUTFile(args[0], args[1])
		if err != nil {
			return err
		}
		l, err := m.Dataset(args[1])
		if err != nil {
			return err
		}
		f, err := os.Create(args[2])
		if err != nil {
			return err
		}
		if err := luts.WriteHeatMap(l, f); err != nil {
			f.Close()
			return err
		}
		return f.Close()
	},
	DisableAutoGenTag: true,
}

func init() {
	Root.AddCommand(versionCmd, describeCmd, diffCmd, plotCmd)
}
