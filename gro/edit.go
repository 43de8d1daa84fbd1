/*
 * edit.go, part of strutils.
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

package gro

import (
	"regexp"
	"strconv"

	"github.com/rmera/strutils"
)

// Residue is a contiguous run of atoms sharing residue index and name.
// Its atoms are Atoms[First:Last] of the structure it was derived from.
type Residue struct {
	ID    int
	Name  string
	First int
	Last  int
}

// Residues returns the residues of the structure, in file order. They are computed
// on each call, so they are always consistent with the current atoms.
func (S *Structure) Residues() []Residue {
	var ret []Residue
	for i, a := range S.Atoms {
		if l := len(ret); l > 0 && ret[l-1].ID == a.ResID && ret[l-1].Name == a.ResName {
			ret[l-1].Last = i + 1
			continue
		}
		ret = append(ret, Residue{ID: a.ResID, Name: a.ResName, First: i, Last: i + 1})
	}
	return ret
}

// Chains splits the residues into chains. GRO files have no chain field, so
// a new chain is assumed to start whenever the residue index decreases.
func (S *Structure) Chains() [][]Residue {
	var ret [][]Residue
	for _, r := range S.Residues() {
		l := len(ret)
		if l == 0 {
			ret = append(ret, []Residue{r})
			continue
		}
		prev := ret[l-1][len(ret[l-1])-1]
		if r.ID < prev.ID {
			ret = append(ret, []Residue{r})
			continue
		}
		ret[l-1] = append(ret[l-1], r)
	}
	return ret
}

// SelectAtoms keeps only the atoms whose name matches re, and returns how many were kept.
func (S *Structure) SelectAtoms(re *regexp.Regexp) int {
	kept := S.Atoms[:0]
	for _, a := range S.Atoms {
		if re.MatchString(a.Name) {
			kept = append(kept, a)
		}
	}
	clearTail(S.Atoms, len(kept))
	S.Atoms = kept
	return len(kept)
}

// RemoveResidues removes every atom belonging to a residue with one of the given names,
// and returns the number of atoms removed.
func (S *Structure) RemoveResidues(names ...string) int {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	before := len(S.Atoms)
	kept := S.Atoms[:0]
	for _, a := range S.Atoms {
		if !set[a.ResName] {
			kept = append(kept, a)
		}
	}
	clearTail(S.Atoms, len(kept))
	S.Atoms = kept
	return before - len(kept)
}

func clearTail(ats []*Atom, from int) {
	for i := from; i < len(ats); i++ {
		ats[i] = nil
	}
}

// SortResidues reorders the residues: first those whose name is not in order, as they were,
// then, for each name in order, all the residues with that name, in their original order.
// The atoms inside each residue keep their order.
func (S *Structure) SortResidues(order []string) {
	group := make(map[string]int, len(order))
	for i, n := range order {
		if _, ok := group[n]; !ok {
			group[n] = i + 1
		}
	}
	buckets := make([][]*Atom, len(order)+1)
	for _, r := range S.Residues() {
		g := group[r.Name] //0 for names not in the list
		buckets[g] = append(buckets[g], S.Atoms[r.First:r.Last]...)
	}
	sorted := make([]*Atom, 0, len(S.Atoms))
	for _, b := range buckets {
		sorted = append(sorted, b...)
	}
	S.Atoms = sorted
}

// Renumber sets the atom indices to 1..N in file order and, if residues is true,
// the residue indices to consecutive numbers starting from 1. If perChain is also true
// the residue count restarts at each inferred chain (see Chains).
// It returns the old to new mapping, with residues keyed by chain number ("1", "2"...).
// When residues is false, every residue maps to itself. A residue whose index is already
// in its chain map, e.g. 1NA after 1SOL, is keyed by index and name ("1NA").
func (S *Structure) Renumber(residues, perChain bool) *strutils.RenumberMapping {
	m := strutils.NewRenumberMapping()
	for i, a := range S.Atoms {
		m.Atoms.Set(strconv.Itoa(a.ID), strconv.Itoa(i+1))
		a.ID = i + 1
	}
	m.Chain("1")
	count := 0
	for c, chain := range S.Chains() {
		res, _ := m.Chain(strconv.Itoa(c + 1))
		if perChain {
			count = 0
		}
		for _, r := range chain {
			count++
			newid := r.ID
			if residues {
				newid = count
			}
			res.Set(residueKey(res, r), strconv.Itoa(newid))
			for _, a := range S.Atoms[r.First:r.Last] {
				a.ResID = newid
			}
		}
	}
	return m
}

// residueKey returns the key of r in the residue map m: its index, or its index and name
// if the index is taken, plus an ordinal if that is taken too.
func residueKey(m *strutils.OrderedMap, r Residue) string {
	k := strconv.Itoa(r.ID)
	if _, taken := m.Get(k); !taken {
		return k
	}
	base := k + r.Name
	k = base
	for i := 2; ; i++ {
		if _, taken := m.Get(k); !taken {
			return k
		}
		k = base + "_" + strconv.Itoa(i)
	}
}
