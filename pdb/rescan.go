/*
 * rescan.go, part of strutils.
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
	"fmt"
	"io"
	"strings"

	"github.com/rmera/strutils"
	"github.com/rmera/strutils/selection"
)

// Records tells WriteResidues which coordinate records to write.
type Records int

const (
	AtomAndHetatm Records = iota
	HetatmOnly
	AtomOnly
)

func (R Records) accepts(rec string) bool {
	switch R {
	case HetatmOnly:
		return rec == "HETATM"
	case AtomOnly:
		return rec == "ATOM"
	}
	return rec == "ATOM" || rec == "HETATM"
}

// ResidueSet is a set of residue identities.
type ResidueSet map[selection.ResidueRecord]bool

// NewResidueSet returns the set of the identities of the given residues.
func NewResidueSet(res []*Residue) ResidueSet {
	s := make(ResidueSet, len(res))
	for _, r := range res {
		s[r.Record()] = true
	}
	return s
}

// WriteResidues reads the PDB file in r and writes to w, unchanged, the records of the kind
// given by which that belong to a residue in keep. MODEL records are written again as
// "MODEL" plus their serial, and an ENDMDL record is added before every MODEL record after
// the first one and at the end, if the file had MODEL records. Nothing else is written.
// Models are numbered as Parse numbers them.
func WriteResidues(w io.Writer, r io.Reader, keep ResidueSet, which Records) error {
	out := bufio.NewWriter(w)
	var models modelCounter
	written := 0
	err := eachLine(r, func(line string) error {
		text, _ := splitEnding(line)
		rec := strutils.RecordName(text)
		if rec == "MODEL" {
			models.open()
			if written > 0 {
				out.WriteString("ENDMDL\n")
			}
			written++
			_, err := fmt.Fprintf(out, "MODEL     %4s\n", strings.TrimSpace(strutils.Field(text, 6, len(text))))
			return err
		}
		if !strutils.IsCoordRecord(text) {
			return nil
		}
		m := models.current()
		if !which.accepts(rec) || !keep[RecordOf(m, text)] {
			return nil
		}
		_, err := out.WriteString(text + "\n")
		return err
	})
	if err != nil {
		return err
	}
	if written > 0 {
		out.WriteString("ENDMDL\n")
	}
	return out.Flush()
}

// WrapModel writes the records in r to w as model number num: a MODEL record, the records
// without END, ENDMDL or MODEL lines, and a single ENDMDL.
func WrapModel(w io.Writer, r io.Reader, num int) error {
	out := bufio.NewWriter(w)
	fmt.Fprintf(out, "MODEL     %4d\n", num)
	err := eachLine(r, func(line string) error {
		text, _ := splitEnding(line)
		switch strutils.RecordName(text) {
		case "END", "ENDMDL", "MODEL":
			return nil
		}
		_, err := out.WriteString(text + "\n")
		return err
	})
	if err != nil {
		return err
	}
	out.WriteString("ENDMDL\n")
	return out.Flush()
}
