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

// Command luts is a command-line interface for inspecting, comparing
// and rendering look-up table files.
package main

import (
	"fmt"
	"os"

	"github.com/hygeos/luts/lutsutil"
)

func main() {
	if err := lutsutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
