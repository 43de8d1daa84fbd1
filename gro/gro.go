/*
 * gro.go, part of strutils.
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

// Package gro reads, edits and writes GROMACS GRO structure files.
//
// A GRO file is a title line, the number of atoms, one fixed-width line per atom and a box line.
// The box line is kept as it is. Coordinates and velocities are never modified, only
// the atoms are selected, removed, reordered and renumbered.
package gro

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rmera/scu"
	"github.com/rmera/strutils/structio"
)

// Indices are written modulo this, as GROMACS does.
const wrap = 100000

// Atom is one line of the atoms section.
type Atom struct {
	ResID   int
	ResName string
	Name    string
	ID      int
	Pos     [3]float64
	Vel     [3]float64
	HasVel  bool
}

// Structure is a whole GRO file. The number of atoms is always len(Atoms).
type Structure struct {
	Title string
	Atoms []*Atom
	Box   string
}

// Len returns the number of atoms.
func (S *Structure) Len() int { return len(S.Atoms) }

// FormatError is returned when a GRO file can't be parsed.
type FormatError struct {
	File string
	Line int //1-based, 0 if unknown
	Msg  string
}

func (E *FormatError) Error() string {
	name := E.File
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("gro file %s, line %d: %s", name, E.Line, E.Msg)
}

// lineReader reads lines without their line ending, and counts them.
type lineReader struct {
	s *bufio.Scanner
	n int
}

func (l *lineReader) next() (string, bool) {
	if !l.s.Scan() {
		return "", false
	}
	l.n++
	return strings.TrimRight(l.s.Text(), "\r"), true
}

func atoi(s string) int { return scu.MustAtoi(strings.TrimSpace(s)) }

func atof(s string) float64 { return scu.MustParseFloat(strings.TrimSpace(s)) }

// parseAtom panics on malformed fields, Read recovers.
func parseAtom(line string) *Atom {
	if len(line) < 44 {
		panic(fmt.Sprintf("atom line has %d columns, at least 44 needed", len(line)))
	}
	at := &Atom{
		ResID:   atoi(line[0:5]),
		ResName: strings.TrimSpace(line[5:10]),
		Name:    strings.TrimSpace(line[10:15]),
		ID:      atoi(line[15:20]),
	}
	for i := 0; i < 3; i++ {
		at.Pos[i] = atof(line[20+8*i : 28+8*i])
	}
	rest := strings.TrimRight(line[44:], " \t")
	if rest == "" {
		return at
	}
	if len(line) < 68 {
		panic("incomplete velocities")
	}
	for i := 0; i < 3; i++ {
		at.Vel[i] = atof(line[44+8*i : 52+8*i])
	}
	at.HasVel = true
	return at
}

// checkBox panics if the box line doesn't hold 3 or 9 numbers.
func checkBox(line string) {
	f := strings.Fields(line)
	if len(f) != 3 && len(f) != 9 {
		panic(fmt.Sprintf("box line should have 3 or 9 numbers, found %d fields (wrong atom count?)", len(f)))
	}
	for _, v := range f {
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			panic(fmt.Sprintf("box line: %s", err.Error()))
		}
	}
}

// Read reads a GRO structure from r.
func Read(r io.Reader) (S *Structure, err error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lr := &lineReader{s: sc}
	defer func() {
		if rec := recover(); rec != nil {
			S = nil
			err = &FormatError{Line: lr.n, Msg: fmt.Sprint(rec)}
		}
	}()
	S = new(Structure)
	var ok bool
	if S.Title, ok = lr.next(); !ok {
		scu.QErr(sc.Err())
		panic("empty file")
	}
	count, ok := lr.next()
	if !ok {
		panic("missing atom count")
	}
	natoms, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil || natoms < 0 {
		panic(fmt.Sprintf("invalid atom count %q", strings.TrimSpace(count)))
	}
	S.Atoms = make([]*Atom, 0, natoms)
	for i := 0; i < natoms; i++ {
		line, ok := lr.next()
		if !ok {
			scu.QErr(sc.Err())
			panic(fmt.Sprintf("file ends after %d of %d atoms", i, natoms))
		}
		at := parseAtom(line)
		if i > 0 && at.HasVel != S.Atoms[0].HasVel {
			panic(fmt.Sprintf("mixed velocities: atom %d has them %v, atom 1 %v", i+1, at.HasVel, S.Atoms[0].HasVel))
		}
		S.Atoms = append(S.Atoms, at)
	}
	if S.Box, ok = lr.next(); !ok {
		scu.QErr(sc.Err())
		panic("missing box line")
	}
	checkBox(S.Box)
	for line, ok := lr.next(); ok; line, ok = lr.next() {
		if strings.TrimSpace(line) != "" {
			panic("data after the box line (wrong atom count?)")
		}
	}
	scu.QErr(sc.Err())
	return S, nil
}

// ReadFile reads the GRO file name, which may be compressed.
func ReadFile(name string) (*Structure, error) {
	f, err := structio.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	S, err := Read(f)
	if fe, ok := err.(*FormatError); ok {
		fe.File = name
	}
	return S, err
}

func trunc(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

// Write writes the structure to w in GRO format. Velocities are written for the
// atoms that have them.
func (S *Structure) Write(w io.Writer) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "%s\n%5d\n", S.Title, len(S.Atoms))
	for _, a := range S.Atoms {
		fmt.Fprintf(b, "%5d%-5s%5s%5d%8.3f%8.3f%8.3f", a.ResID%wrap, trunc(a.ResName), trunc(a.Name), a.ID%wrap, a.Pos[0], a.Pos[1], a.Pos[2])
		if a.HasVel {
			fmt.Fprintf(b, "%8.4f%8.4f%8.4f", a.Vel[0], a.Vel[1], a.Vel[2])
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(b, "%s\n", S.Box)
	return b.Flush()
}

// WriteFile writes the structure to the file name, compressing it if the name asks for it.
func (S *Structure) WriteFile(name string) error {
	f, err := structio.Create(name)
	if err != nil {
		return err
	}
	if err = S.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
