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

package tools

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/rmera/strutils/config"
	"github.com/rmera/strutils/gro"
	"github.com/rmera/strutils/pdb"
	"github.com/rmera/strutils/structio"
)

func init() {
	register(&Tool{
		Name:    "cat_pdb",
		Summary: "Concatenates two PDB files, without their END records.",
		Inputs:  []Port{{"input_structure1", pdbOnly}, {"input_structure2", pdbOnly}},
		Outputs: []Port{{"output_structure_path", pdbOnly}},
		run:     bind(noConfig, CatPDB),
	})
	register(&Tool{
		Name:    "extract_atoms",
		Summary: "Extracts the atoms whose name matches a regular expression.",
		Inputs:  []Port{{"input_structure_path", pdbGro}},
		Outputs: []Port{{"output_structure_path", pdbGro}},
		run:     bind(extractAtomsConfig, ExtractAtoms),
	})
	register(&Tool{
		Name:    "remove_ligand",
		Summary: "Removes all the atoms of the residues with a given name.",
		Inputs:  []Port{{"input_structure_path", pdbGro}},
		Outputs: []Port{{"output_structure_path", pdbGro}},
		run:     bind(removeLigandConfig, RemoveLigand),
	})
}

func noConfig(*config.Properties) (struct{}, error) { return struct{}{}, nil }

// CatPDB writes input_structure1 and input_structure2, one after the other, to output_structure_path.
func CatPDB(E *Env, _ struct{}) error {
	var ins []io.Reader
	for _, k := range []string{"input_structure1", "input_structure2"} {
		c, err := structio.ReadAll(E.In[k])
		if err != nil {
			return err
		}
		defer c.Close()
		ins = append(ins, bytes.NewReader(c.Bytes()))
	}
	E.Log.Logf(LevelInfo, "Concatenating %s and %s", E.In["input_structure1"], E.In["input_structure2"])
	return E.writeOutput("output_structure_path", func(w io.Writer) error {
		return pdb.Cat(w, ins...)
	})
}

// sameFormat returns an error if the output doesn't have the format of the input.
func sameFormat(E *Env, in, out string) (string, error) {
	fin, fout := structio.Ext(E.In[in]), structio.Ext(E.Out[out])
	if fin != fout {
		return "", fmt.Errorf("%s is a %s file but %s is a %s file", E.In[in], fin, E.Out[out], fout)
	}
	return fin, nil
}

type ExtractAtomsConfig struct {
	Pattern *regexp.Regexp
}

func extractAtomsConfig(P *config.Properties) (ExtractAtomsConfig, error) {
	var c ExtractAtomsConfig
	s, err := P.String("regular_expression_pattern", "^D")
	if err != nil {
		return c, err
	}
	if c.Pattern, err = regexp.Compile(s); err != nil {
		return c, fmt.Errorf("regular_expression_pattern: %w", err)
	}
	return c, nil
}

// ExtractAtoms keeps the atoms whose names match the pattern. If none does, the output
// file is created empty.
func ExtractAtoms(E *Env, c ExtractAtomsConfig) error {
	format, err := sameFormat(E, "input_structure_path", "output_structure_path")
	if err != nil {
		return err
	}
	var n int
	if format == "gro" {
		E.Log.Logf(LevelInfo, "GRO format detected, extracting all atoms matching %s", c.Pattern)
		S, err := gro.ReadFile(E.In["input_structure_path"])
		if err != nil {
			return err
		}
		if n = S.SelectAtoms(c.Pattern); n > 0 {
			err = S.WriteFile(E.Out["output_structure_path"])
		} else {
			err = E.writeOutput("output_structure_path", func(io.Writer) error { return nil })
		}
		if err != nil {
			return err
		}
	} else {
		E.Log.Logf(LevelInfo, "PDB format detected, extracting all atoms matching %s", c.Pattern)
		in, err := structio.Open(E.In["input_structure_path"])
		if err != nil {
			return err
		}
		defer in.Close()
		err = E.writeOutput("output_structure_path", func(w io.Writer) error {
			n, err = pdb.ExtractAtoms(w, in, c.Pattern)
			return err
		})
		if err != nil {
			return err
		}
	}
	if n == 0 {
		E.Log.Logf(LevelWarning, "No matching atoms found, writing an empty file")
		return nil
	}
	E.Log.Logf(LevelInfo, "%d atoms found", n)
	return nil
}

type RemoveLigandConfig struct {
	Ligand string
}

func removeLigandConfig(P *config.Properties) (RemoveLigandConfig, error) {
	s, err := P.String("ligand", "AQ4")
	return RemoveLigandConfig{Ligand: s}, err
}

// RemoveLigand removes the residues named c.Ligand.
func RemoveLigand(E *Env, c RemoveLigandConfig) error {
	format, err := sameFormat(E, "input_structure_path", "output_structure_path")
	if err != nil {
		return err
	}
	var n int
	if format == "gro" {
		S, err := gro.ReadFile(E.In["input_structure_path"])
		if err != nil {
			return err
		}
		n = S.RemoveResidues(c.Ligand)
		if err = S.WriteFile(E.Out["output_structure_path"]); err != nil {
			return err
		}
	} else {
		in, err := structio.Open(E.In["input_structure_path"])
		if err != nil {
			return err
		}
		defer in.Close()
		err = E.writeOutput("output_structure_path", func(w io.Writer) error {
			n, err = pdb.RemoveResidue(w, in, c.Ligand)
			return err
		})
		if err != nil {
			return err
		}
	}
	E.Log.Logf(LevelInfo, "Removed %d %s records named %s", n, format, c.Ligand)
	return nil
}
