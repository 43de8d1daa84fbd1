/*
 * renumber.go, part of strutils.
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

// Package pdb works on PDB files at the level of their fixed-width text records.
//
// It has the line filters (concatenation, atom extraction by name, residue removal),
// the renumbering pass, a small structural model (models, chains, residues, atoms)
// with a neighbour search, and the writer that re-reads a file keeping the records of
// a set of residues. Records are always written back byte for byte, except for the
// fields a function is documented to change.
package pdb

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/rmera/strutils"
)

// splitEnding separates a line from its line ending.
func splitEnding(line string) (string, string) {
	if strings.HasSuffix(line, "\r\n") {
		return line[:len(line)-2], "\r\n"
	}
	if strings.HasSuffix(line, "\n") {
		return line[:len(line)-1], "\n"
	}
	return line, ""
}

// eachLine calls f for every line in r, ending included. It stops on the first error.
func eachLine(r io.Reader, f func(line string) error) error {
	b := bufio.NewReader(r)
	for {
		line, err := b.ReadString('\n')
		if len(line) > 0 {
			if ferr := f(line); ferr != nil {
				return ferr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// Renumber copies r to w renumbering the ATOM, HETATM, ANISOU and TER records.
// Atom serials (columns 7-11) become 1, 2, 3... in order of first appearance; a serial
// seen before (ANISOU records, or a later model) gets the number it got the first time.
// If residues is true, residue numbers (columns 23-26) are renumbered too, a residue being
// identified by its chain (column 22) and number. With perChain each chain keeps its own
// residue count, starting at 1, even if its records are not contiguous. Otherwise a single
// count grows through the file.
// The insertion code and everything after it is left as it was, as are all other records.
// Numbers that don't fit their columns are written in hybrid-36.
func Renumber(w io.Writer, r io.Reader, residues, perChain bool) (*strutils.RenumberMapping, error) {
	m := strutils.NewRenumberMapping()
	out := bufio.NewWriter(w)
	atomCount := 0
	resCount := make(map[string]int)
	err := eachLine(r, func(line string) error {
		text, end := splitEnding(line)
		if !strutils.IsSerialRecord(text) {
			_, err := out.WriteString(line)
			return err
		}
		b := []byte(text)
		if old := strings.TrimSpace(text[6:11]); old != "" {
			v, ok := m.Atoms.Get(old)
			if !ok {
				atomCount++
				v = strconv.Itoa(atomCount)
				m.Atoms.Set(old, v)
			}
			n, _ := strconv.Atoi(v)
			field, err := Hy36Encode(5, n)
			if err != nil {
				return err
			}
			copy(b[6:11], field)
		}
		if residues && len(text) >= 26 {
			chain := text[21:22]
			res, _ := m.Chain(chain)
			counter := ""
			if perChain {
				counter = chain
			}
			old := strings.TrimSpace(text[22:26])
			v, ok := res.Get(old)
			if !ok {
				resCount[counter]++
				v = strconv.Itoa(resCount[counter])
				res.Set(old, v)
			}
			n, _ := strconv.Atoi(v)
			field, err := Hy36Encode(4, n)
			if err != nil {
				return err
			}
			copy(b[22:26], field)
		}
		if _, err := out.Write(b); err != nil {
			return err
		}
		_, err := out.WriteString(end)
		return err
	})
	if err != nil {
		return nil, err
	}
	return m, out.Flush()
}
