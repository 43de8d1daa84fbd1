/*
 * neighbors.go, part of strutils.
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
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/kdtree"
)

// site is an atom position in the k-d tree.
type site struct {
	pos  [3]float64
	atom *Atom
}

func (s site) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	return s.pos[d] - c.(site).pos[d]
}

func (s site) Dims() int { return 3 }

// Distance returns the squared distance.
func (s site) Distance(c kdtree.Comparable) float64 {
	q := c.(site)
	var d float64
	for i := range s.pos {
		x := s.pos[i] - q.pos[i]
		d += x * x
	}
	return d
}

type sites []site

func (s sites) Index(i int) kdtree.Comparable { return s[i] }
func (s sites) Len() int                       { return len(s) }
func (s sites) Pivot(d kdtree.Dim) int         { return plane{sites: s, Dim: d}.Pivot() }
func (s sites) Slice(start, end int) kdtree.Interface {
	return s[start:end]
}

// plane sorts sites along one dimension.
type plane struct {
	kdtree.Dim
	sites
}

func (p plane) Less(i, j int) bool { return p.sites[i].pos[p.Dim] < p.sites[j].pos[p.Dim] }
func (p plane) Pivot() int        { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p plane) Slice(start, end int) kdtree.SortSlicer {
	p.sites = p.sites[start:end]
	return p
}
func (p plane) Swap(i, j int) { p.sites[i], p.sites[j] = p.sites[j], p.sites[i] }

// NeighborSearch finds the atoms close to a point.
type NeighborSearch struct {
	tree *kdtree.Tree
}

// NewNeighborSearch indexes the given atoms.
func NewNeighborSearch(atoms []*Atom) *NeighborSearch {
	s := make(sites, len(atoms))
	for i, a := range atoms {
		s[i] = site{pos: a.Pos, atom: a}
	}
	N := new(NeighborSearch)
	if len(s) > 0 {
		N.tree = kdtree.New(s, false)
	}
	return N
}

// Within returns the atoms at a distance of radius or less from pos.
func (N *NeighborSearch) Within(pos [3]float64, radius float64) []*Atom {
	if N.tree == nil || radius < 0 {
		return nil
	}
	k := kdtree.NewDistKeeper(radius * radius)
	N.tree.NearestSet(k, site{pos: pos})
	ret := make([]*Atom, 0, len(k.Heap))
	for _, c := range k.Heap {
		//the keeper starts with a nil sentinel.
		if c.Comparable == nil {
			continue
		}
		ret = append(ret, c.Comparable.(site).atom)
	}
	return ret
}

// Closest returns the residues of S with at least one atom within radius of an atom of
// any of the targets, in file order. The targets themselves are included.
// Each target is searched for once, around its centroid and with the radius grown by
// the distance from the centroid to its farthest atom. The candidates found are then
// checked against the target atoms.
func (S *Structure) Closest(targets []*Residue, radius float64) []*Residue {
	N := NewNeighborSearch(S.Atoms())
	found := make(map[*Residue]bool)
	r2 := radius * radius
	for _, t := range targets {
		if len(t.Atoms) == 0 {
			continue
		}
		c := t.Centroid()
		extent := 0.0
		for _, a := range t.Atoms {
			extent = math.Max(extent, floats.Distance(c[:], a.Pos[:], 2))
		}
		for _, n := range N.Within(c, radius+extent) {
			if found[n.Res] {
				continue
			}
			for _, a := range t.Atoms {
				if (site{pos: a.Pos}).Distance(site{pos: n.Pos}) <= r2 {
					found[n.Res] = true
					break
				}
			}
		}
	}
	var ret []*Residue
	for _, r := range S.Residues() {
		if found[r] {
			ret = append(ret, r)
		}
	}
	return ret
}
