/*
 * tools_test.go, part of strutils.
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
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/google/go-cmp/cmp"

	"github.com/rmera/strutils"
	"github.com/rmera/strutils/checker"
	"github.com/rmera/strutils/config"
	"github.com/rmera/strutils/structio"
)

const neighbours = "../pdb/testdata/closest.pdb"

func init() {
	color.NoColor = true
}

// fakeChecker writes Content to the output of each invocation, and keeps the
// invocations and the command lists they were given.
type fakeChecker struct {
	Content string
	Fail    error
	Calls   []checker.Invocation
	Lists   []string
}

func (F *fakeChecker) Run(I checker.Invocation) error {
	F.Calls = append(F.Calls, I)
	if I.Command == "command_list" {
		b, err := os.ReadFile(I.Args[1])
		if err != nil {
			return err
		}
		F.Lists = append(F.Lists, string(b))
	}
	if F.Fail != nil {
		return F.Fail
	}
	for _, out := range []string{I.Output, I.JSON} {
		if out != "" {
			if err := os.WriteFile(out, []byte(F.Content), 0644); err != nil {
				return err
			}
		}
	}
	return nil
}

type run struct {
	tool  string
	in    map[string]string
	out   map[string]string
	props map[string]interface{}
	fake  *fakeChecker
	log   bytes.Buffer
	L     *Logger
}

func (R *run) launch() error {
	R.L = NewLogger(&R.log, LevelDebug)
	opt := Options{Log: R.L}
	if R.fake != nil {
		opt.Runner = R.fake
	}
	return Launch(R.tool, R.in, R.out, config.New(R.props), opt)
}

func readOut(Te *testing.T, name string) string {
	r, err := structio.Open(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		Te.Fatal(err)
	}
	return string(b)
}

// serials returns the serial field of the coordinate records in s.
func serials(s string) []string {
	var ret []string
	for _, l := range strings.Split(s, "\n") {
		if strutils.IsCoordRecord(l) {
			ret = append(ret, strings.TrimSpace(l[6:11]))
		}
	}
	return ret
}

func byName(name string) []interface{} {
	return []interface{}{map[string]interface{}{"name": name}}
}

func TestClosestResidues(Te *testing.T) {
	dir := Te.TempDir()
	for _, c := range []struct {
		preserve bool
		want     []string
	}{
		{true, []string{"1", "2", "3", "5"}},
		{false, []string{"3", "5"}},
	} {
		out := filepath.Join(dir, "closest.pdb")
		R := &run{
			tool:  "closest_residues",
			in:    map[string]string{"input_structure_path": neighbours},
			out:   map[string]string{"output_residues_path": out},
			props: map[string]interface{}{"residues": byName("LIG"), "radius": 4.5, "preserve_target": c.preserve},
		}
		if err := R.launch(); err != nil {
			Te.Fatal(err)
		}
		if diff := cmp.Diff(c.want, serials(readOut(Te, out))); diff != "" {
			Te.Errorf("preserve_target %v (-want +got):\n%s", c.preserve, diff)
		}
	}
}

func TestNotFound(Te *testing.T) {
	out := filepath.Join(Te.TempDir(), "res.pdb")
	R := &run{
		tool:  "extract_residues",
		in:    map[string]string{"input_structure_path": neighbours},
		out:   map[string]string{"output_residues_path": out},
		props: map[string]interface{}{"residues": byName("TRP")},
	}
	err := R.launch()
	if !errors.Is(err, strutils.ErrNotFound) {
		Te.Fatalf("expected ErrNotFound, got %v", err)
	}
	var e *strutils.Error
	if !errors.As(err, &e) || e.Tool() != "extract_residues" {
		Te.Errorf("error doesn't name the tool: %v", err)
	}
	if _, err := os.Stat(out); err == nil {
		Te.Errorf("output written for an empty selection")
	}
}

func TestResidueTools(Te *testing.T) {
	dir := Te.TempDir()
	for _, c := range []struct {
		tool  string
		key   string
		props map[string]interface{}
		want  []string
	}{
		{"extract_residues", "output_residues_path", map[string]interface{}{"residues": "2 3"}, []string{"3", "4"}},
		{"extract_heteroatoms", "output_heteroatom_path", nil, []string{"1", "2"}},
		{"extract_heteroatoms", "output_heteroatom_path", map[string]interface{}{"water": true}, []string{"1", "2", "5", "6"}},
		{"remove_molecules", "output_molecules_path", map[string]interface{}{"molecules": byName("HOH")}, []string{"1", "2", "3", "4"}},
	} {
		out := filepath.Join(dir, c.tool+".pdb.gz")
		R := &run{
			tool:  c.tool,
			in:    map[string]string{"input_structure_path": neighbours},
			out:   map[string]string{c.key: out},
			props: c.props,
		}
		if err := R.launch(); err != nil {
			Te.Fatal(err)
		}
		if diff := cmp.Diff(c.want, serials(readOut(Te, out))); diff != "" {
			Te.Errorf("%s %v (-want +got):\n%s", c.tool, c.props, diff)
		}
		os.Remove(out)
	}
}

func TestRenumberStructure(Te *testing.T) {
	dir := Te.TempDir()
	R := &run{
		tool: "renumber_structure",
		in:   map[string]string{"input_structure_path": neighbours},
		out: map[string]string{
			"output_structure_path":    filepath.Join(dir, "out.pdb"),
			"output_mapping_json_path": filepath.Join(dir, "map.json"),
		},
	}
	if err := R.launch(); err != nil {
		Te.Fatal(err)
	}
	m := readOut(Te, R.out["output_mapping_json_path"])
	if !strings.HasPrefix(m, `{"residues": {"A": {"1": "1", "2": "2", "3": "3"}, "W": {"1": "1", "2": "2"}}`) {
		Te.Errorf("unexpected mapping %s", m)
	}
	R.out["output_mapping_json_path"] = filepath.Join(dir, "map.pdb")
	if err := R.launch(); !errors.Is(err, structio.ErrFormat) {
		Te.Errorf("expected a format error, got %v", err)
	}
}

func TestRestart(Te *testing.T) {
	dir := Te.TempDir()
	out := filepath.Join(dir, "out.pdb")
	os.WriteFile(out, []byte("done\n"), 0644)
	R := &run{
		tool:  "remove_pdb_water",
		in:    map[string]string{"input_pdb_path": neighbours},
		out:   map[string]string{"output_pdb_path": out},
		props: map[string]interface{}{"restart": true},
		fake:  &fakeChecker{Fail: errors.New("should not run")},
	}
	if err := R.launch(); err != nil {
		Te.Fatal(err)
	}
	if len(R.fake.Calls) != 0 || readOut(Te, out) != "done\n" {
		Te.Errorf("output overwritten on restart")
	}
}

func TestExtractModel(Te *testing.T) {
	dir := Te.TempDir()
	out := filepath.Join(dir, "models.pdb")
	R := &run{
		tool:  "extract_model",
		in:    map[string]string{"input_structure_path": "../pdb/testdata/models.pdb"},
		out:   map[string]string{"output_structure_path": out},
		props: map[string]interface{}{"models": []interface{}{2, 1}},
		fake:  &fakeChecker{Content: "MODEL        7\nATOM      1  N   ALA A   1\nENDMDL\nEND\n"},
	}
	if err := R.launch(); err != nil {
		Te.Fatal(err)
	}
	want := "MODEL        1\nATOM      1  N   ALA A   1\nENDMDL\n" +
		"MODEL        2\nATOM      1  N   ALA A   1\nENDMDL\nEND\n"
	if diff := cmp.Diff(want, readOut(Te, out)); diff != "" {
		Te.Errorf("(-want +got):\n%s", diff)
	}
	if len(R.fake.Calls) != 2 || R.fake.Calls[0].Args[1] != "2" {
		Te.Errorf("unexpected invocations %v", R.fake.Calls)
	}

	R.props = map[string]interface{}{"models": map[string]interface{}{"model": 1}}
	R.fake = &fakeChecker{}
	if err := R.launch(); err != nil {
		Te.Fatal(err)
	}
	if len(R.fake.Calls) != 0 || readOut(Te, out) != readOut(Te, R.in["input_structure_path"]) {
		Te.Errorf("malformed models should copy the input")
	}
	if w := R.L.Warnings(); len(w) != 1 || !strings.Contains(w[0], "using All") {
		Te.Errorf("expected a warning, got %v", w)
	}
}

func TestExtractChain(Te *testing.T) {
	dir := Te.TempDir()
	out := filepath.Join(dir, "chains.pdb.zst")
	R := &run{
		tool:  "extract_chain",
		in:    map[string]string{"input_structure_path": neighbours},
		out:   map[string]string{"output_structure_path": out},
		props: map[string]interface{}{"chains": "A, W", "binary_path": "/opt/check_structure"},
		fake:  &fakeChecker{Content: "ATOM\n"},
	}
	if err := R.launch(); err != nil {
		Te.Fatal(err)
	}
	I := R.fake.Calls[0]
	if diff := cmp.Diff([]string{"--select", "A,W"}, I.Args); diff != "" || I.Command != "chains" {
		Te.Errorf("wrong invocation %v", I)
	}
	if I.Output == out || readOut(Te, out) != "ATOM\n" {
		Te.Errorf("compressed output not published from %s", I.Output)
	}

	R.props = map[string]interface{}{"chains": "w", "permissive": true}
	R.fake = &fakeChecker{Fail: errors.New("should not run")}
	if err := R.launch(); err != nil {
		Te.Fatal(err)
	}
	if diff := cmp.Diff([]string{"5", "6"}, serials(readOut(Te, out))); diff != "" {
		Te.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCommandLists(Te *testing.T) {
	dir := Te.TempDir()
	for _, c := range []struct {
		tool  string
		key   string
		props map[string]interface{}
		list  string
	}{
		{"extract_molecule", "output_molecule_path.pdb", map[string]interface{}{"molecule_type": "protein"},
			"ligands --remove All\nwater --remove Yes\nchains --select protein\n"},
		{"extract_molecule", "output_molecule_path.pdb", map[string]interface{}{"molecule_type": "chains", "chains": []interface{}{"A", "B"}},
			"ligands --remove All\nwater --remove Yes\nchains --select A,B\n"},
		{"structure_check", "output_summary_path.json", map[string]interface{}{"features": "models chains"},
			"models\nchains\n"},
		{"str_check_add_hydrogens", "output_structure_path.pdbqt", map[string]interface{}{"charges": true, "mode": "ph", "ph": 6.5},
			"add_hydrogen --add_charges ADT --add_mode ph --pH 6.5\n"},
	} {
		key := strings.Split(c.key, ".")[0]
		R := &run{
			tool:  c.tool,
			in:    map[string]string{"input_structure_path": neighbours},
			out:   map[string]string{key: filepath.Join(dir, c.key)},
			props: c.props,
			fake:  &fakeChecker{Content: "ATOM\nEND\n"},
		}
		if err := R.launch(); err != nil {
			Te.Fatalf("%s: %v", c.tool, err)
		}
		if diff := cmp.Diff([]string{c.list}, R.fake.Lists); diff != "" {
			Te.Errorf("%s (-want +got):\n%s", c.tool, diff)
		}
	}
	if got := readOut(Te, filepath.Join(dir, "output_structure_path.pdbqt")); got != "ATOM\n" {
		Te.Errorf("END records not removed: %q", got)
	}
}

func TestCheckAll(Te *testing.T) {
	out := filepath.Join(Te.TempDir(), "summary.json")
	R := &run{
		tool: "structure_check",
		in:   map[string]string{"input_structure_path": neighbours},
		out:  map[string]string{"output_summary_path": out},
		fake: &fakeChecker{Content: "{}"},
	}
	if err := R.launch(); err != nil {
		Te.Fatal(err)
	}
	want := []string{"-i", neighbours, "--json", out, "--check_only", "--non_interactive", "checkall"}
	if diff := cmp.Diff(want, R.fake.Calls[0].Argv()); diff != "" {
		Te.Errorf("(-want +got):\n%s", diff)
	}
}

func TestCheckerFailure(Te *testing.T) {
	R := &run{
		tool: "remove_pdb_water",
		in:   map[string]string{"input_pdb_path": neighbours},
		out:  map[string]string{"output_pdb_path": filepath.Join(Te.TempDir(), "out.pdb")},
		fake: &fakeChecker{Fail: &checker.ExitError{Path: "check_structure", Code: 2, Stderr: "bad"}},
	}
	err := R.launch()
	var ee *checker.ExitError
	if !errors.As(err, &ee) || ee.Code != 2 {
		Te.Errorf("expected the exit error, got %v", err)
	}
}

func TestLaunchErrors(Te *testing.T) {
	dir := Te.TempDir()
	R := &run{
		tool: "extract_atoms",
		in:   map[string]string{"input_structure_path": filepath.Join(dir, "missing.pdb")},
		out:  map[string]string{"output_structure_path": filepath.Join(dir, "out.pdb")},
	}
	err := R.launch()
	if !errors.Is(err, structio.ErrMissingInput) {
		Te.Fatalf("expected a missing input, got %v", err)
	}
	if err = strutils.ErrDecorate(err, "main"); !strings.HasSuffix(err.Error(), "(in CheckInput <- Launch <- main)") {
		Te.Errorf("error not decorated with its callers: %v", err)
	}
	R.in["input_structure_path"] = neighbours
	R.out["output_structure_path"] = filepath.Join(dir, "nodir", "out.pdb")
	if err := R.launch(); !errors.Is(err, structio.ErrMissingOutputDir) {
		Te.Errorf("expected a missing output directory, got %v", err)
	}
	R.out["output_structure_path"] = filepath.Join(dir, "out.gro")
	if err := R.launch(); err == nil {
		Te.Errorf("pdb to gro should fail")
	}
	R.out["output_structure_path"] = filepath.Join(dir, "out.pdb")
	R.props = map[string]interface{}{"regular_expression_pattern": "^C", "colour": "blue"}
	if err := R.launch(); err != nil {
		Te.Fatal(err)
	}
	if !strings.Contains(R.log.String(), "ignoring unknown properties [colour]") {
		Te.Errorf("unknown property not reported:\n%s", R.log.String())
	}
	if err := Launch("no_such_tool", nil, nil, nil, Options{}); err == nil {
		Te.Errorf("unknown tool should fail")
	}
}

func TestList(Te *testing.T) {
	var names []string
	for _, T := range List() {
		names = append(names, T.Name)
	}
	want := []string{"cat_pdb", "closest_residues", "extract_atoms", "extract_chain", "extract_heteroatoms",
		"extract_model", "extract_molecule", "extract_residues", "remove_ligand", "remove_molecules",
		"remove_pdb_water", "renumber_structure", "sort_gro_residues", "str_check_add_hydrogens", "structure_check"}
	if diff := cmp.Diff(want, names); diff != "" {
		Te.Errorf("(-want +got):\n%s", diff)
	}
}
