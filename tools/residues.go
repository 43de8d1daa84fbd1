/*
 * residues.go, part of strutils.
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

package tools

import (
	"bytes"
	"fmt"
	"io"

	"github.com/rmera/strutils"
	"github.com/rmera/strutils/config"
	"github.com/rmera/strutils/pdb"
	"github.com/rmera/strutils/selection"
	"github.com/rmera/strutils/structio"
)

func init() {
	register(&Tool{
		Name:    "extract_residues",
		Summary: "Extracts the ATOM records of the selected residues.",
		Inputs:  []Port{{"input_structure_path", pdbOnly}},
		Outputs: []Port{{"output_residues_path", pdbOnly}},
		run:     bind(extractResiduesConfig, ExtractResidues),
	})
	register(&Tool{
		Name:    "extract_heteroatoms",
		Summary: "Extracts the HETATM records of the selected hetero residues, water excluded unless asked for.",
		Inputs:  []Port{{"input_structure_path", pdbOnly}},
		Outputs: []Port{{"output_heteroatom_path", pdbOnly}},
		run:     bind(heteroatomsConfig, ExtractHeteroatoms),
	})
	register(&Tool{
		Name:    "closest_residues",
		Summary: "Extracts the residues within a radius of the selected ones.",
		Inputs:  []Port{{"input_structure_path", pdbOnly}},
		Outputs: []Port{{"output_residues_path", pdbOnly}},
		run:     bind(closestConfig, ClosestResidues),
	})
	register(&Tool{
		Name:    "remove_molecules",
		Summary: "Removes the selected residues.",
		Inputs:  []Port{{"input_structure_path", pdbOnly}},
		Outputs: []Port{{"output_molecules_path", pdbOnly}},
		run:     bind(removeMoleculesConfig, RemoveMolecules),
	})
}

// twoPhase reads the input once. The structure parsed from it is given to pick, and
// the records of the residues pick returns are then copied from the same contents.
func twoPhase(E *Env, outKey string, which pdb.Records, pick func(*pdb.Structure) ([]*pdb.Residue, error)) error {
	c, err := structio.ReadAll(E.In["input_structure_path"])
	if err != nil {
		return err
	}
	defer c.Close()
	S, err := pdb.Parse(bytes.NewReader(c.Bytes()))
	if err != nil {
		return err
	}
	res, err := pick(S)
	if err != nil {
		return err
	}
	if len(res) == 0 {
		return strutils.ErrNotFound
	}
	E.Log.Logf(LevelInfo, "%d residues selected", len(res))
	for _, r := range res {
		E.Log.LogV(LevelDebug, "  ", r.Record())
	}
	return E.writeOutput(outKey, func(w io.Writer) error {
		return pdb.WriteResidues(w, bytes.NewReader(c.Bytes()), pdb.NewResidueSet(res), which)
	})
}

func selected(S *pdb.Structure, sel selection.List, keep func(*pdb.Residue) bool) []*pdb.Residue {
	var ret []*pdb.Residue
	for _, r := range S.Residues() {
		if keep != nil && !keep(r) {
			continue
		}
		if sel.Match(r.Record()) {
			ret = append(ret, r)
		}
	}
	return ret
}

type ExtractResiduesConfig struct {
	Residues selection.List
}

func extractResiduesConfig(P *config.Properties) (ExtractResiduesConfig, error) {
	l, err := P.Selection("residues")
	return ExtractResiduesConfig{Residues: l}, err
}

// ExtractResidues writes the ATOM records of the residues matching c.Residues.
func ExtractResidues(E *Env, c ExtractResiduesConfig) error {
	E.Log.Logf(LevelInfo, "Selected residues: %v", c.Residues)
	return twoPhase(E, "output_residues_path", pdb.AtomOnly, func(S *pdb.Structure) ([]*pdb.Residue, error) {
		return selected(S, c.Residues, nil), nil
	})
}

type HeteroatomsConfig struct {
	Heteroatoms selection.List
	Water       bool
}

func heteroatomsConfig(P *config.Properties) (HeteroatomsConfig, error) {
	var c HeteroatomsConfig
	var err error
	if c.Heteroatoms, err = P.Selection("heteroatoms"); err != nil {
		return c, err
	}
	c.Water, err = P.Bool("water", false)
	return c, err
}

// ExtractHeteroatoms writes the HETATM records of the hetero residues matching c.Heteroatoms.
func ExtractHeteroatoms(E *Env, c HeteroatomsConfig) error {
	E.Log.Logf(LevelInfo, "Selected heteroatoms: %v, water: %v", c.Heteroatoms, c.Water)
	return twoPhase(E, "output_heteroatom_path", pdb.HetatmOnly, func(S *pdb.Structure) ([]*pdb.Residue, error) {
		return selected(S, c.Heteroatoms, func(r *pdb.Residue) bool {
			return r.Het && (c.Water || !strutils.IsWater(r.Name))
		}), nil
	})
}

type ClosestConfig struct {
	Residues       selection.List
	Radius         float64
	PreserveTarget bool
}

func closestConfig(P *config.Properties) (ClosestConfig, error) {
	var c ClosestConfig
	var err error
	if c.Residues, err = P.Selection("residues"); err != nil {
		return c, err
	}
	if c.Radius, err = P.Float("radius", 5); err != nil {
		return c, err
	}
	if c.Radius < 0 {
		return c, fmt.Errorf("radius must not be negative, got %g", c.Radius)
	}
	c.PreserveTarget, err = P.Bool("preserve_target", true)
	return c, err
}

// ClosestResidues writes the residues with an atom within c.Radius of an atom of the
// residues matching c.Residues. Those are included only if c.PreserveTarget is set.
func ClosestResidues(E *Env, c ClosestConfig) error {
	E.Log.Logf(LevelInfo, "Selected residues: %v, radius %g", c.Residues, c.Radius)
	return twoPhase(E, "output_residues_path", pdb.AtomAndHetatm, func(S *pdb.Structure) ([]*pdb.Residue, error) {
		targets := selected(S, c.Residues, nil)
		if len(targets) == 0 {
			return nil, nil
		}
		for _, t := range targets {
			E.Log.Logf(LevelDebug, "Target %v centered at %.3f", t.Record(), t.Centroid())
		}
		near := S.Closest(targets, c.Radius)
		if c.PreserveTarget {
			return near, nil
		}
		tset := pdb.NewResidueSet(targets)
		var ret []*pdb.Residue
		for _, r := range near {
			if !tset[r.Record()] {
				ret = append(ret, r)
			}
		}
		return ret, nil
	})
}

type RemoveMoleculesConfig struct {
	Molecules selection.List
}

func removeMoleculesConfig(P *config.Properties) (RemoveMoleculesConfig, error) {
	l, err := P.Selection("molecules")
	return RemoveMoleculesConfig{Molecules: l}, err
}

// RemoveMolecules writes every residue except those matching c.Molecules.
func RemoveMolecules(E *Env, c RemoveMoleculesConfig) error {
	E.Log.Logf(LevelInfo, "Selected molecules: %v", c.Molecules)
	return twoPhase(E, "output_molecules_path", pdb.AtomAndHetatm, func(S *pdb.Structure) ([]*pdb.Residue, error) {
		rm := pdb.NewResidueSet(selected(S, c.Molecules, nil))
		if len(rm) == 0 {
			return nil, nil
		}
		var ret []*pdb.Residue
		for _, r := range S.Residues() {
			if !rm[r.Record()] {
				ret = append(ret, r)
			}
		}
		if len(ret) == 0 {
			return nil, fmt.Errorf("all residues would be removed")
		}
		return ret, nil
	})
}
