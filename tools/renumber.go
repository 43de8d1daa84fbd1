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

package tools

import (
	"io"

	"github.com/rmera/strutils"
	"github.com/rmera/strutils/config"
	"github.com/rmera/strutils/gro"
	"github.com/rmera/strutils/pdb"
	"github.com/rmera/strutils/structio"
)

func init() {
	register(&Tool{
		Name:    "renumber_structure",
		Summary: "Renumbers atoms and residues starting from 1, and writes the old to new mapping as JSON.",
		Inputs:  []Port{{"input_structure_path", pdbGro}},
		Outputs: []Port{{"output_structure_path", pdbGro}, {"output_mapping_json_path", jsonOnly}},
		run:     bind(renumberConfig, RenumberStructure),
	})
	register(&Tool{
		Name:    "sort_gro_residues",
		Summary: "Sorts the residues of a GRO file, moving the ones listed to the end, in the order given.",
		Inputs:  []Port{{"input_gro_path", groOnly}},
		Outputs: []Port{{"output_gro_path", groOnly}},
		run:     bind(sortConfig, SortGroResidues),
	})
}

type RenumberConfig struct {
	Residues bool
	PerChain bool
}

func renumberConfig(P *config.Properties) (RenumberConfig, error) {
	var c RenumberConfig
	var err error
	if c.Residues, err = P.Bool("renumber_residues", true); err != nil {
		return c, err
	}
	c.PerChain, err = P.Bool("renumber_residues_per_chain", true)
	return c, err
}

// RenumberStructure renumbers a PDB or GRO file.
func RenumberStructure(E *Env, c RenumberConfig) error {
	format, err := sameFormat(E, "input_structure_path", "output_structure_path")
	if err != nil {
		return err
	}
	var m *strutils.RenumberMapping
	if format == "gro" {
		E.Log.Logf(LevelInfo, "GRO format detected, renumbering atoms")
		S, err := gro.ReadFile(E.In["input_structure_path"])
		if err != nil {
			return err
		}
		m = S.Renumber(c.Residues, c.PerChain)
		if err = S.WriteFile(E.Out["output_structure_path"]); err != nil {
			return err
		}
	} else {
		E.Log.Logf(LevelInfo, "PDB format detected, renumbering atoms")
		in, err := structio.Open(E.In["input_structure_path"])
		if err != nil {
			return err
		}
		defer in.Close()
		err = E.writeOutput("output_structure_path", func(w io.Writer) error {
			m, err = pdb.Renumber(w, in, c.Residues, c.PerChain)
			return err
		})
		if err != nil {
			return err
		}
	}
	E.Log.Logf(LevelInfo, "%d atoms and %d chains renumbered", m.Atoms.Len(), len(m.Chains()))
	return E.writeOutput("output_mapping_json_path", m.Write)
}

type SortConfig struct {
	Order []string
}

func sortConfig(P *config.Properties) (SortConfig, error) {
	l, err := P.StringList("residue_name_list", []string{"NA", "CL", "SOL"})
	return SortConfig{Order: l}, err
}

// SortGroResidues moves the residues named in c.Order to the end of the file, in that order.
func SortGroResidues(E *Env, c SortConfig) error {
	S, err := gro.ReadFile(E.In["input_gro_path"])
	if err != nil {
		return err
	}
	E.Log.Logf(LevelInfo, "Sorting residues: %v", c.Order)
	S.SortResidues(c.Order)
	return S.WriteFile(E.Out["output_gro_path"])
}
