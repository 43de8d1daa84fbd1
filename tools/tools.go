/*
 * tools.go, part of strutils.
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

// Package tools implements the structure utilities as tools with named input and output
// files and a set of properties, and launches them: paths are checked, finished runs are
// skipped on restart, temporary files are removed, and every failure is reported as a
// *strutils.Error naming the tool.
package tools

import (
	"io"
	"os"
	"sort"

	"github.com/rmera/strutils"
	"github.com/rmera/strutils/checker"
	"github.com/rmera/strutils/config"
	"github.com/rmera/strutils/structio"
)

// Formats accepted by the tools.
var (
	pdbOnly  = []string{"pdb"}
	pdbGro   = []string{"pdb", "gro"}
	groOnly  = []string{"gro"}
	jsonOnly = []string{"json"}
	pdbPdbqt = []string{"pdb", "pdbqt"}
)

// Port is a named input or output file of a tool. The key is also the command line flag.
type Port struct {
	Key     string
	Formats []string
}

// Tool is one of the structure utilities.
type Tool struct {
	Name     string
	Summary  string
	Inputs   []Port
	Outputs  []Port
	External bool //runs check_structure
	run      func(*Env, *config.Properties) error
}

var registry = make(map[string]*Tool)

func register(T *Tool) *Tool {
	registry[T.Name] = T
	return T
}

// bind turns a properties parser and a typed run function into the run function of a tool,
// so each tool reads its properties only once, into its own configuration type.
func bind[C any](parse func(*config.Properties) (C, error), run func(*Env, C) error) func(*Env, *config.Properties) error {
	return func(E *Env, P *config.Properties) error {
		c, err := parse(P)
		if err != nil {
			return err
		}
		return run(E, c)
	}
}

// Get returns the tool called name.
func Get(name string) (*Tool, bool) {
	T, ok := registry[name]
	return T, ok
}

// List returns all the tools, sorted by name.
func List() []*Tool {
	ret := make([]*Tool, 0, len(registry))
	for _, T := range registry {
		ret = append(ret, T)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].Name < ret[j].Name })
	return ret
}

// Common are the properties all tools understand.
type Common struct {
	Restart    bool
	RemoveTmp  bool
	BinaryPath string
}

func commonConfig(P *config.Properties, external bool) (Common, error) {
	var c Common
	var err error
	if c.Restart, err = P.Bool("restart", false); err != nil {
		return c, err
	}
	if c.RemoveTmp, err = P.Bool("remove_tmp", true); err != nil {
		return c, err
	}
	if external {
		c.BinaryPath, err = P.String("binary_path", checker.DefaultBinary)
	}
	return c, err
}

// Env is what a tool sees while running.
type Env struct {
	Tool   *Tool
	In     map[string]string
	Out    map[string]string
	Log    *Logger
	Runner checker.Runner
	Common Common
	tmp    string
}

// TmpDir returns the temporary directory of the run, creating it the first time.
func (E *Env) TmpDir() (string, error) {
	if E.tmp != "" {
		return E.tmp, nil
	}
	d, err := os.MkdirTemp("", "strutils-"+E.Tool.Name+"-")
	if err != nil {
		return "", err
	}
	E.Log.Logf(LevelDebug, "Creating %s temporary folder", d)
	E.tmp = d
	return d, nil
}

func (E *Env) cleanup() {
	if E.tmp == "" {
		return
	}
	if !E.Common.RemoveTmp {
		E.Log.Logf(LevelInfo, "Keeping temporary folder %s", E.tmp)
		return
	}
	if err := os.RemoveAll(E.tmp); err != nil {
		E.Log.Logf(LevelWarning, "Could not remove %s: %v", E.tmp, err)
		return
	}
	E.Log.Logf(LevelDebug, "Removed temporary folder %s", E.tmp)
}

// writeOutput creates the output key and fills it with f.
func (E *Env) writeOutput(key string, f func(io.Writer) error) error {
	w, err := structio.Create(E.Out[key])
	if err != nil {
		return err
	}
	if err = f(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// Options are the collaborators of a run. Zero values give a logger on stderr and the
// check_structure binary named by the binary_path property.
type Options struct {
	Log    *Logger
	Runner checker.Runner
}

// Launch runs the tool called name with the given input and output paths, keyed by port.
// Failures are returned as a *strutils.Error decorated with the step that failed and "Launch".
// They are not logged.
func Launch(name string, in, out map[string]string, P *config.Properties, opt Options) error {
	T, ok := Get(name)
	if !ok {
		return strutils.ErrDecorate(strutils.NewError(name, "unknown tool", nil), "Launch")
	}
	if P == nil {
		P = config.New(nil)
	}
	E := &Env{Tool: T, In: in, Out: out, Log: opt.Log, Runner: opt.Runner}
	if E.Log == nil {
		E.Log = NewLogger(nil, LevelWarning)
	}
	fail := func(msg string, err error, stage string) error {
		e := strutils.ErrDecorate(strutils.NewError(name, msg, err), stage)
		return strutils.ErrDecorate(e, "Launch")
	}
	var err error
	if E.Common, err = commonConfig(P, T.External); err != nil {
		return fail("invalid properties", err, "commonConfig")
	}
	for _, p := range T.Inputs {
		if err := structio.CheckInput(in[p.Key], p.Formats...); err != nil {
			return fail(p.Key, err, "CheckInput")
		}
	}
	for _, p := range T.Outputs {
		if err := structio.CheckOutput(out[p.Key], p.Formats...); err != nil {
			return fail(p.Key, err, "CheckOutput")
		}
	}
	if E.Common.Restart && outputsDone(T, out) {
		E.Log.Logf(LevelInfo, "%s: restart is enabled and the outputs exist, skipping", name)
		return nil
	}
	if T.External && E.Runner == nil {
		E.Runner = checker.Binary{Path: E.Common.BinaryPath}
	}
	defer E.cleanup()
	err = T.run(E, P)
	if unused := P.Unused(); len(unused) > 0 {
		E.Log.Logf(LevelWarning, "%s: ignoring unknown properties %v", name, unused)
	}
	if err != nil {
		return fail("run failed", err, T.Name)
	}
	return nil
}

func outputsDone(T *Tool, out map[string]string) bool {
	for _, p := range T.Outputs {
		if !structio.Exists(out[p.Key]) {
			return false
		}
	}
	return true
}
