/*
 * filters.go, part of strutils.
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

package pdb

import (
	"bufio"
	"bytes"
	"io"
	"regexp"
	"strings"

	"github.com/rmera/strutils"
)

func isEnd(text string) bool {
	return strings.TrimSpace(text) == "END"
}

// Cat writes the contents of each input to w, one after the other, without their END records.
// The last line of each input is always newline-terminated in the output.
func Cat(w io.Writer, inputs ...io.Reader) error {
	out := bufio.NewWriter(w)
	for _, in := range inputs {
		err := eachLine(in, func(line string) error {
			text, end := splitEnding(line)
			if isEnd(text) {
				return nil
			}
			if end == "" {
				end = "\n"
			}
			_, err := out.WriteString(text + end)
			return err
		})
		if err != nil {
			return err
		}
	}
	return out.Flush()
}

// ExtractAtoms copies r to w keeping, among the ATOM, HETATM, ANISOU and TER records,
// only those whose atom name (columns 13-16, trimmed) matches re. Other lines are copied as
// they are. It returns the number of records that matched. If none did, nothing is written.
func ExtractAtoms(w io.Writer, r io.Reader, re *regexp.Regexp) (int, error) {
	var buf bytes.Buffer
	matches := 0
	err := eachLine(r, func(line string) error {
		text, _ := splitEnding(line)
		if strutils.IsSerialRecord(text) {
			if !re.MatchString(strings.TrimSpace(strutils.Field(text, 12, 16))) {
				return nil
			}
			matches++
		}
		buf.WriteString(line)
		return nil
	})
	if err != nil || matches == 0 {
		return matches, err
	}
	_, err = buf.WriteTo(w)
	return matches, err
}

// RemoveResidue copies r to w without the lines whose residue name field (columns 18-21,
// trimmed) is code, compared case-insensitively. Lines too short to have the field are kept.
// It returns the number of lines removed.
func RemoveResidue(w io.Writer, r io.Reader, code string) (int, error) {
	out := bufio.NewWriter(w)
	removed := 0
	err := eachLine(r, func(line string) error {
		text, _ := splitEnding(line)
		if len(text) > 19 && strings.EqualFold(strings.TrimSpace(strutils.Field(text, 17, 21)), code) {
			removed++
			return nil
		}
		_, err := out.WriteString(line)
		return err
	})
	if err != nil {
		return removed, err
	}
	return removed, out.Flush()
}

// FilterChains copies to w the ATOM and HETATM records of r whose chain (column 22)
// is one of chains, compared case-insensitively, and returns how many were written.
// An empty chains list keeps all of them.
func FilterChains(w io.Writer, r io.Reader, chains []string) (int, error) {
	set := make(map[string]bool, len(chains))
	for _, c := range chains {
		set[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	out := bufio.NewWriter(w)
	n := 0
	err := eachLine(r, func(line string) error {
		text, _ := splitEnding(line)
		if !strutils.IsCoordRecord(text) {
			return nil
		}
		if len(set) > 0 && !set[strings.ToUpper(strutils.Field(text, 21, 22))] {
			return nil
		}
		n++
		_, err := out.WriteString(line)
		return err
	})
	if err != nil {
		return n, err
	}
	return n, out.Flush()
}

// StripEnd copies r to w without END records, newline-terminating every line.
// It returns the number of END records removed.
func StripEnd(w io.Writer, r io.Reader) (int, error) {
	out := bufio.NewWriter(w)
	removed := 0
	err := eachLine(r, func(line string) error {
		text, _ := splitEnding(line)
		if isEnd(text) {
			removed++
			return nil
		}
		_, err := out.WriteString(text + "\n")
		return err
	})
	if err != nil {
		return removed, err
	}
	return removed, out.Flush()
}
