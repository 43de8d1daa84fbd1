/*
 * records.go, part of strutils.
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

package strutils

import "strings"

// SerialRecords are the PDB records that carry an atom serial number.
var SerialRecords = []string{"ANISOU", "HETATM", "ATOM", "TER"}

// CoordRecords are the PDB records that carry coordinates.
var CoordRecords = []string{"ATOM", "HETATM"}

// Waters are the residue names treated as water.
var Waters = []string{"SOL", "HOH", "WAT", "T3P"}

// RecordName returns the record keyword of a PDB line: the first
// six columns, trimmed and upper-cased.
func RecordName(line string) string {
	if len(line) > 6 {
		line = line[:6]
	}
	return strings.ToUpper(strings.TrimSpace(line))
}

// IsSerialRecord returns true if line is an ATOM, HETATM, ANISOU or TER
// record long enough to hold a serial field.
func IsSerialRecord(line string) bool {
	if len(line) <= 10 {
		return false
	}
	return contains(SerialRecords, RecordName(line))
}

// IsCoordRecord returns true if line is an ATOM or HETATM record.
func IsCoordRecord(line string) bool {
	return contains(CoordRecords, RecordName(line))
}

// IsWater returns true if the residue name is one of Waters.
func IsWater(resname string) bool {
	return contains(Waters, strings.ToUpper(strings.TrimSpace(resname)))
}

// Field returns line[from:to] clipped to the length of the line.
// It never panics for short lines.
func Field(line string, from, to int) string {
	if from >= len(line) {
		return ""
	}
	if to > len(line) {
		to = len(line)
	}
	return line[from:to]
}

func contains(set []string, s string) bool {
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
