/*
 * external.go, part of strutils.
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
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rmera/strutils/checker"
	"github.com/rmera/strutils/config"
	"github.com/rmera/strutils/pdb"
	"github.com/rmera/strutils/structio"
)

func init() {
	register(&Tool{
		Name:     "extract_chain",
		Summary:  "Extracts the given chains.",
		Inputs:   []Port{{"input_structure_path", pdbOnly}},
		Outputs:  []Port{{"output_structure_path", pdbOnly}},
		External: true,
		run:      bind(extractChainConfig, ExtractChain),
	})
	register(&Tool{
		Name:     "extract_model",
		Summary:  "Extracts the given models.",
		Inputs:   []Port{{"input_structure_path", pdbOnly}},
		Outputs:  []Port{{"output_structure_path", pdbOnly}},
		External: true,
		run:      bind(extractModelConfig, ExtractModel),
	})
	register(&Tool{
		Name:     "extract_molecule",
		Summary:  "Extracts a molecule, removing ligands and water.",
		Inputs:   []Port{{"input_structure_path", pdbOnly}},
		Outputs:  []Port{{"output_molecule_path", pdbOnly}},
		External: true,
		run:      bind(extractMoleculeConfig, ExtractMolecule),
	})
	register(&Tool{
		Name:     "remove_pdb_water",
		Summary:  "Removes the water molecules.",
		Inputs:   []Port{{"input_pdb_path", pdbOnly}},
		Outputs:  []Port{{"output_pdb_path", pdbOnly}},
		External: true,
		run:      bind(noConfig, RemovePDBWater),
	})
	register(&Tool{
		Name:     "structure_check",
		Summary:  "Checks the structure, writing a JSON summary of the problems found.",
		Inputs:   []Port{{"input_structure_path", pdbOnly}},
		Outputs:  []Port{{"output_summary_path", jsonOnly}},
		External: true,
		run:      bind(structureCheckConfig, StructureCheck),
	})
	register(&Tool{
		Name:     "str_check_add_hydrogens",
		Summary:  "Adds hydrogen atoms, and optionally charges, to the structure.",
		Inputs:   []Port{{"input_structure_path", pdbOnly}},
		Outputs:  []Port{{"output_structure_path", pdbPdbqt}},
		External: true,
		run:      bind(hydrogensConfig, AddHydrogens),
	})
}

// runChecker runs the invocation built from plain paths standing for the input at inKey
// and the output at outKey, so compressed files can be given to tools using check_structure.
func runChecker(E *Env, inKey, outKey string, build func(in, out string) (checker.Invocation, error)) error {
	dir, err := E.TmpDir()
	if err != nil {
		return err
	}
	in, err := structio.Stage(E.In[inKey], dir)
	if err != nil {
		return err
	}
	I, err := build(in, structio.Target(E.Out[outKey], dir))
	if err != nil {
		return err
	}
	E.Log.Logf(LevelInfo, "Running %s %s", E.Common.BinaryPath, I)
	if err = E.Runner.Run(I); err != nil {
		return err
	}
	return structio.Publish(E.Out[outKey], dir)
}

// listOrAll reads key as a list. Malformed values give a nil list, meaning All, and an
// error to be logged as a warning.
func listOrAll(P *config.Properties, key string) ([]string, error) {
	l, err := P.StringList(key, nil)
	if err != nil {
		return nil, fmt.Errorf("%w, using All", err)
	}
	return l, nil
}

type ExtractChainConfig struct {
	Chains     []string
	Permissive bool
	warning    error
}

func extractChainConfig(P *config.Properties) (ExtractChainConfig, error) {
	var c ExtractChainConfig
	c.Chains, c.warning = listOrAll(P, "chains")
	var err error
	c.Permissive, err = P.Bool("permissive", false)
	return c, err
}

// ExtractChain keeps the chains in c.Chains, or all of them if it is empty. In permissive mode
// the coordinate records are filtered directly, without running check_structure.
func ExtractChain(E *Env, c ExtractChainConfig) error {
	if c.warning != nil {
		E.Log.LogV(LevelWarning, c.warning)
	}
	if c.Permissive {
		E.Log.Logf(LevelInfo, "Permissive mode, filtering chains %v", c.Chains)
		in, err := structio.Open(E.In["input_structure_path"])
		if err != nil {
			return err
		}
		defer in.Close()
		var n int
		err = E.writeOutput("output_structure_path", func(w io.Writer) error {
			n, err = pdb.FilterChains(w, in, c.Chains)
			return err
		})
		if err != nil {
			return err
		}
		if n == 0 {
			E.Log.Logf(LevelWarning, "No records found for chains %v", c.Chains)
		}
		return nil
	}
	sel := "All"
	if len(c.Chains) > 0 {
		sel = strings.Join(c.Chains, ",")
	}
	return runChecker(E, "input_structure_path", "output_structure_path", func(in, out string) (checker.Invocation, error) {
		return checker.Chains(in, out, sel), nil
	})
}

type ExtractModelConfig struct {
	Models  []int
	warning error
}

func extractModelConfig(P *config.Properties) (ExtractModelConfig, error) {
	var c ExtractModelConfig
	l, warning := listOrAll(P, "models")
	for _, s := range l {
		m, err := strconv.Atoi(s)
		if err != nil || m < 1 {
			warning = fmt.Errorf("invalid model %q, using All", s)
			l = nil
			break
		}
		c.Models = append(c.Models, m)
	}
	if l == nil {
		c.Models = nil
	}
	c.warning = warning
	return c, nil
}

// ExtractModel writes the models in c.Models, each one between MODEL and ENDMDL records and
// numbered by its position in the list. An empty list copies the input.
func ExtractModel(E *Env, c ExtractModelConfig) error {
	if c.warning != nil {
		E.Log.LogV(LevelWarning, c.warning)
	}
	if len(c.Models) == 0 {
		E.Log.Logf(LevelInfo, "All models selected, copying %s", E.In["input_structure_path"])
		in, err := structio.Open(E.In["input_structure_path"])
		if err != nil {
			return err
		}
		defer in.Close()
		return E.writeOutput("output_structure_path", func(w io.Writer) error {
			_, err := io.Copy(w, in)
			return err
		})
	}
	dir, err := E.TmpDir()
	if err != nil {
		return err
	}
	in, err := structio.Stage(E.In["input_structure_path"], dir)
	if err != nil {
		return err
	}
	var parts []string
	for _, m := range c.Models {
		part := filepath.Join(dir, fmt.Sprintf("model%d.pdb", m))
		I := checker.Models(in, part, m)
		E.Log.Logf(LevelInfo, "Running %s %s", E.Common.BinaryPath, I)
		if err = E.Runner.Run(I); err != nil {
			return fmt.Errorf("model %d: %w", m, err)
		}
		parts = append(parts, part)
	}
	return E.writeOutput("output_structure_path", func(w io.Writer) error {
		for i, part := range parts {
			f, err := os.Open(part)
			if err != nil {
				return err
			}
			err = pdb.WrapModel(w, f, i+1)
			f.Close()
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, "END\n")
		return err
	})
}

// Molecule types understood by extract_molecule.
var moleculeTypes = []string{"all", "protein", "na", "dna", "rna", "chains"}

type ExtractMoleculeConfig struct {
	Type   string
	Chains []string
}

func extractMoleculeConfig(P *config.Properties) (ExtractMoleculeConfig, error) {
	var c ExtractMoleculeConfig
	var err error
	if c.Type, err = P.String("molecule_type", "all"); err != nil {
		return c, err
	}
	c.Type = strings.ToLower(c.Type)
	known := false
	for _, t := range moleculeTypes {
		known = known || t == c.Type
	}
	if !known {
		return c, fmt.Errorf("molecule_type must be one of %v, got %q", moleculeTypes, c.Type)
	}
	c.Chains, err = P.StringList("chains", nil)
	if err == nil && c.Type == "chains" && len(c.Chains) == 0 {
		err = fmt.Errorf("molecule_type chains needs a chains list")
	}
	return c, err
}

// Commands returns the check_structure commands that extract the molecule.
func (c ExtractMoleculeConfig) Commands() []string {
	cmds := []string{"ligands --remove All", "water --remove Yes"}
	switch c.Type {
	case "all":
	case "chains":
		cmds = append(cmds, "chains --select "+strings.Join(c.Chains, ","))
	default:
		cmds = append(cmds, "chains --select "+c.Type)
	}
	return cmds
}

// ExtractMolecule removes ligands and water, and keeps the chains of the requested type.
func ExtractMolecule(E *Env, c ExtractMoleculeConfig) error {
	return runChecker(E, "input_structure_path", "output_molecule_path", func(in, out string) (checker.Invocation, error) {
		list := filepath.Join(E.tmp, "extract_prot.lst")
		if err := checker.WriteCommandList(list, c.Commands()); err != nil {
			return checker.Invocation{}, err
		}
		return checker.CommandList(in, out, list, checker.ForceSave, checker.NonInteractive), nil
	})
}

// RemovePDBWater removes the water molecules.
func RemovePDBWater(E *Env, _ struct{}) error {
	return runChecker(E, "input_pdb_path", "output_pdb_path", func(in, out string) (checker.Invocation, error) {
		return checker.Water(in, out), nil
	})
}

type StructureCheckConfig struct {
	Features []string
}

func structureCheckConfig(P *config.Properties) (StructureCheckConfig, error) {
	l, err := P.StringList("features", nil)
	return StructureCheckConfig{Features: l}, err
}

// StructureCheck runs the checks in c.Features, or all of them if it is empty.
func StructureCheck(E *Env, c StructureCheckConfig) error {
	return runChecker(E, "input_structure_path", "output_summary_path", func(in, out string) (checker.Invocation, error) {
		if len(c.Features) == 0 {
			return checker.CheckAll(in, out), nil
		}
		list := filepath.Join(E.tmp, "features.lst")
		if err := checker.WriteCommandList(list, c.Features); err != nil {
			return checker.Invocation{}, err
		}
		return checker.Checks(in, out, list), nil
	})
}

// Hydrogen addition modes.
var hydrogenModes = []string{"auto", "list", "ph", "none"}

type HydrogensConfig struct {
	checker.Hydrogens
	KeepCanonical bool
}

func hydrogensConfig(P *config.Properties) (HydrogensConfig, error) {
	var c HydrogensConfig
	var err error
	if c.Charges, err = P.Bool("charges", false); err != nil {
		return c, err
	}
	if c.Mode, err = P.String("mode", "auto"); err != nil {
		return c, err
	}
	c.Mode = strings.ToLower(c.Mode)
	known := false
	for _, m := range hydrogenModes {
		known = known || m == c.Mode
	}
	if !known {
		return c, fmt.Errorf("mode must be one of %v, got %q", hydrogenModes, c.Mode)
	}
	if c.PH, err = P.Float("ph", 7.4); err != nil {
		return c, err
	}
	if c.List, err = P.String("list", ""); err != nil {
		return c, err
	}
	if c.Mode == "list" && c.List == "" {
		return c, fmt.Errorf("mode list needs a residue list")
	}
	c.KeepCanonical, err = P.Bool("keep_canonical_resnames", false)
	return c, err
}

// AddHydrogens adds hydrogens with check_structure and removes the END records it writes.
func AddHydrogens(E *Env, c HydrogensConfig) error {
	dir, err := E.TmpDir()
	if err != nil {
		return err
	}
	in, err := structio.Stage(E.In["input_structure_path"], dir)
	if err != nil {
		return err
	}
	list := filepath.Join(dir, "add_hydrogen.lst")
	if err = checker.WriteCommandList(list, []string{c.Command()}); err != nil {
		return err
	}
	// The extension tells check_structure whether to write charges in PDBQT format.
	plain := filepath.Join(dir, "hydrogens."+structio.Ext(E.Out["output_structure_path"]))
	opts := []string{checker.NonInteractive, checker.ForceSave}
	if c.KeepCanonical {
		opts = append(opts, checker.KeepCanonical)
	}
	I := checker.CommandList(in, plain, list, opts...)
	E.Log.Logf(LevelInfo, "Running %s %s", E.Common.BinaryPath, I)
	if err = E.Runner.Run(I); err != nil {
		return err
	}
	f, err := os.Open(plain)
	if err != nil {
		return err
	}
	defer f.Close()
	return E.writeOutput("output_structure_path", func(w io.Writer) error {
		n, err := pdb.StripEnd(w, f)
		E.Log.Logf(LevelDebug, "%d END records removed", n)
		return err
	})
}
