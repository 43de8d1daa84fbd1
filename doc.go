/*
 * doc.go, part of strutils.
 *
 *
 * Copyright 2024 The strutils authors.
 *
    This program is free software: you can redistribute it and/or modify
    it under the terms of the GNU Lesser General Public License as published by
    the Free Software Foundation, either version 2 of the License, or
    (at your option) any later version.

    This program is distributed in the hope that it will be useful,
    but WITHOUT ANY WARRANTY; without even the implied warranty of
    MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
    GNU General Public License for more details.

    You should have received a copy of the GNU Lesser General Public License
    along with this program.  If not, see <http://www.gnu.org/licenses/>.
 *
 *
 */

/*
Package strutils holds the pieces shared by the structure utilities: the
PDB record keyword sets, the water residue names, the renumbering mapping
written by the renumber tool and the error type the tools report.

The actual work is done in the subpackages:

	gro        GRO structure model (read, select, remove, sort, renumber, write)
	pdb        PDB line filters, renumbering pass, structural model and neighbour search
	selection  residue selectors and residue identity
	checker    the external check_structure binary
	structio   compressed and memory-mapped file access, path checks
	config     YAML/TOML/JSON tool configuration
	tools      the command line tools themselves

Coordinates are never modified by any of them. Only records are selected,
filtered, renumbered or reordered.
*/
package strutils
