/*
 * main.go, part of strutils.
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

package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rmera/strutils"
	"github.com/rmera/strutils/config"
	"github.com/rmera/strutils/tools"
)

func usage(w io.Writer) {
	fmt.Fprintf(w, "Usage:\n  strutils <tool> --<input or output key> path... [-c config] [-v level]\n  strutils -list\n\n")
	fmt.Fprintf(w, "The binary can also be called with the name of a tool, e.g. through a symlink.\n")
}

func list(w io.Writer) {
	for _, T := range tools.List() {
		fmt.Fprintf(w, "%-24s %s\n", T.Name, T.Summary)
	}
}

func main() {
	name := filepath.Base(os.Args[0])
	args := os.Args[1:]
	if _, ok := tools.Get(name); !ok {
		if len(args) == 0 {
			usage(os.Stderr)
			os.Exit(1)
		}
		switch args[0] {
		case "-list", "--list":
			list(os.Stdout)
			return
		case "-h", "-help", "--help":
			usage(os.Stdout)
			return
		}
		name, args = args[0], args[1:]
	}
	os.Exit(launch(name, args))
}

// launch runs the tool called name with the command line args, and returns the exit code.
func launch(name string, args []string) int {
	T, ok := tools.Get(name)
	if !ok {
		fmt.Fprintf(os.Stderr, "strutils: unknown tool %q, use -list to see the available ones\n", name)
		return 1
	}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	var conf string
	fs.StringVar(&conf, "c", "", "Properties: a YAML, TOML or JSON file, or a JSON object")
	fs.StringVar(&conf, "config", "", "Same as -c")
	verbose := fs.Int("v", tools.LevelWarning, "Level of verbosity, 0 (errors only) to 3")
	in := make(map[string]*string)
	for _, p := range T.Inputs {
		in[p.Key] = fs.String(p.Key, "", fmt.Sprintf("Input file %v", p.Formats))
	}
	out := make(map[string]*string)
	for _, p := range T.Outputs {
		out[p.Key] = fs.String(p.Key, "", fmt.Sprintf("Output file %v", p.Formats))
	}
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "%s: %s\n\nFlags:\n", T.Name, T.Summary)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "%s: unexpected arguments %v\n", name, fs.Args())
		return 1
	}
	P := config.New(nil)
	if conf != "" {
		var err error
		if P, err = config.Load(conf); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", name, err)
			return 1
		}
	}
	L := tools.NewLogger(os.Stderr, *verbose)
	if err := tools.Launch(name, deref(in), deref(out), P, tools.Options{Log: L}); err != nil {
		L.LogV(tools.LevelError, strutils.ErrDecorate(err, "main"))
		return 1
	}
	if w := L.Warnings(); len(w) > 0 {
		L.Logf(tools.LevelInfo, "%s finished with %d warnings", name, len(w))
	}
	return 0
}

func deref(m map[string]*string) map[string]string {
	ret := make(map[string]string, len(m))
	for k, v := range m {
		ret[k] = *v
	}
	return ret
}
