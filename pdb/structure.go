/*
 * structure.go, part of strutils.
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
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rmera/strutils"
	"github.com/rmera/strutils/selection"
	"gonum.org/v1/gonum/floats"
)

// Atom is an ATOM or HETATM record.
type Atom struct {
	Serial string //as written, trimmed
	Name   string
	Pos    [3]float64
	Res    *Residue
}

// Residue is a group of consecutive records of the same chain sharing residue name,
// number and insertion code.
type Residue struct {
	Name  string
	ResID string
	ICode string
	Het   bool //true if any of its records is a HETATM
	Atoms []*Atom
	Chain *Chain
}

// Record returns the identity of the residue.
func (R *Residue) Record() selection.ResidueRecord {
	return selection.ResidueRecord{
		Model: strconv.Itoa(R.Chain.Model.Num),
		Chain: R.Chain.ID,
		Name:  R.Name,
		ResID: R.ResID,
		ICode: R.ICode,
	}
}

// Centroid returns the geometric center of the residue's atoms.
func (R *Residue) Centroid() [3]float64 {
	var c [3]float64
	if len(R.Atoms) == 0 {
		return c
	}
	for _, a := range R.Atoms {
		floats.Add(c[:], a.Pos[:])
	}
	floats.Scale(1/float64(len(R.Atoms)), c[:])
	return c
}

// Chain is the set of residues with the same chain identifier in a model.
type Chain struct {
	ID       string
	Residues []*Residue
	Model    *Model
}

// Model is one MODEL of the file. Files without MODEL records have one model.
type Model struct {
	Num    int //1-based ordinal
	Chains []*Chain
}

// Structure is a parsed PDB file.
type Structure struct {
	Models []*Model
}

// Residues returns all the residues in the structure, in file order.
func (S *Structure) Residues() []*Residue {
	var ret []*Residue
	for _, m := range S.Models {
		for _, c := range m.Chains {
			ret = append(ret, c.Residues...)
		}
	}
	return ret
}

// Atoms returns all the atoms in the structure.
func (S *Structure) Atoms() []*Atom {
	var ret []*Atom
	for _, r := range S.Residues() {
		ret = append(ret, r.Atoms...)
	}
	return ret
}

// chainOf returns the chain column of a record. Blank chains are a single space.
func chainOf(text string) string {
	c := strutils.Field(text, 21, 22)
	if strings.TrimSpace(c) == "" {
		return " "
	}
	return c
}

// RecordOf returns the identity of the residue an ATOM or HETATM line belongs to,
// model being the 1-based ordinal of the enclosing model. Both the parser and
// WriteResidues identify residues through this function.
func RecordOf(model int, text string) selection.ResidueRecord {
	return selection.ResidueRecord{
		Model: strconv.Itoa(model),
		Chain: chainOf(text),
		Name:  strings.TrimSpace(strutils.Field(text, 17, 20)),
		ResID: strings.TrimSpace(strutils.Field(text, 22, 26)),
		ICode: strings.TrimSpace(strutils.Field(text, 26, 27)),
	}
}

func coord(text string, from, to int) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(strutils.Field(text, from, to)), 64)
}

// modelCounter numbers the models of a PDB file while it is read. Coordinate records
// before the first MODEL record belong to model 1, and every MODEL record opens the
// next model.
type modelCounter struct {
	n int
}

// current returns the model a coordinate record belongs to.
func (m *modelCounter) current() int {
	if m.n == 0 {
		m.n = 1
	}
	return m.n
}

// open is called for every MODEL record, and returns the number of the new model.
func (m *modelCounter) open() int {
	m.n++
	return m.n
}

// Parse reads the ATOM and HETATM records of a PDB file into a Structure.
func Parse(r io.Reader) (*Structure, error) {
	S := new(Structure)
	var model *Model
	var models modelCounter
	chains := make(map[string]*Chain)
	var res *Residue
	var resRec selection.ResidueRecord
	lineno := 0
	newModel := func(num int) {
		model = &Model{Num: num}
		S.Models = append(S.Models, model)
		chains = make(map[string]*Chain)
		res = nil
	}
	err := eachLine(r, func(line string) error {
		lineno++
		text, _ := splitEnding(line)
		rec := strutils.RecordName(text)
		if rec == "MODEL" {
			newModel(models.open())
			return nil
		}
		if rec == "ENDMDL" {
			res = nil
			return nil
		}
		if !strutils.IsCoordRecord(text) {
			return nil
		}
		if len(text) < 54 {
			return fmt.Errorf("pdb: line %d: coordinate record too short", lineno)
		}
		if model == nil {
			newModel(models.current())
		}
		at := &Atom{Serial: strings.TrimSpace(text[6:11]), Name: strings.TrimSpace(text[12:16])}
		for i := 0; i < 3; i++ {
			v, err := coord(text, 30+8*i, 38+8*i)
			if err != nil {
				return fmt.Errorf("pdb: line %d: bad coordinate: %w", lineno, err)
			}
			at.Pos[i] = v
		}
		id := RecordOf(model.Num, text)
		if res == nil || id != resRec {
			c, ok := chains[id.Chain]
			if !ok {
				c = &Chain{ID: id.Chain, Model: model}
				chains[id.Chain] = c
				model.Chains = append(model.Chains, c)
			}
			res = &Residue{Name: id.Name, ResID: id.ResID, ICode: id.ICode, Chain: c}
			c.Residues = append(c.Residues, res)
			resRec = id
		}
		if rec == "HETATM" {
			res.Het = true
		}
		at.Res = res
		res.Atoms = append(res.Atoms, at)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return S, nil
}
