/*
 * checker.go, part of strutils.
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

// Package checker runs the external check_structure program. The rest of the code only
// depends on the Runner interface, and on the exit status and output files of the program.
package checker

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strconv"
	"strings"
)

// DefaultBinary is the program run when no path is given.
const DefaultBinary = "check_structure"

// Common check_structure options.
const (
	ForceSave      = "--force_save"
	NonInteractive = "--non_interactive"
	CheckOnly      = "--check_only"
	KeepCanonical  = "--keep_canonical_resnames"
)

// ErrNoOutput is returned when the program ended well but did not write its output.
var ErrNoOutput = errors.New("output file not produced")

// Invocation is one run of check_structure:
//
//	<binary> -i Input [-o Output] [--json JSON] Options... Command Args...
type Invocation struct {
	Input   string
	Output  string
	JSON    string
	Options []string
	Command string
	Args    []string
}

// Argv returns the arguments of the invocation, without the program name.
func (I Invocation) Argv() []string {
	argv := []string{"-i", I.Input}
	if I.Output != "" {
		argv = append(argv, "-o", I.Output)
	}
	if I.JSON != "" {
		argv = append(argv, "--json", I.JSON)
	}
	argv = append(argv, I.Options...)
	if I.Command != "" {
		argv = append(argv, I.Command)
	}
	return append(argv, I.Args...)
}

func (I Invocation) String() string { return strings.Join(I.Argv(), " ") }

// Runner runs invocations.
type Runner interface {
	Run(Invocation) error
}

// ExitError is returned when the program fails.
type ExitError struct {
	Path   string
	Code   int
	Stderr string
}

func (E *ExitError) Error() string {
	msg := strings.TrimSpace(E.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s exited with code %d", E.Path, E.Code)
	}
	return fmt.Sprintf("%s exited with code %d: %s", E.Path, E.Code, msg)
}

// Binary runs the program at Path. Its standard output goes to Stdout, if not nil.
type Binary struct {
	Path   string
	Stdout io.Writer
}

// Run runs the invocation, and checks that the declared output files were written.
func (B Binary) Run(I Invocation) error {
	path := B.Path
	if path == "" {
		path = DefaultBinary
	}
	cmd := exec.Command(path, I.Argv()...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if B.Stdout != nil {
		cmd.Stdout = B.Stdout
	}
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return &ExitError{Path: path, Code: ee.ExitCode(), Stderr: stderr.String()}
		}
		return fmt.Errorf("checker: can't run %s: %w", path, err)
	}
	for _, out := range []string{I.Output, I.JSON} {
		if out == "" {
			continue
		}
		if _, err := os.Stat(out); err != nil {
			return fmt.Errorf("checker: %s: %w: %s", path, ErrNoOutput, out)
		}
	}
	return nil
}

// Chains selects chains, a comma-separated list or "All".
func Chains(in, out, sel string) Invocation {
	return Invocation{Input: in, Output: out, Options: []string{ForceSave}, Command: "chains", Args: []string{"--select", sel}}
}

// Models selects one model.
func Models(in, out string, model int) Invocation {
	return Invocation{Input: in, Output: out, Options: []string{ForceSave}, Command: "models", Args: []string{"--select", strconv.Itoa(model)}}
}

// Water removes the water molecules.
func Water(in, out string) Invocation {
	return Invocation{Input: in, Output: out, Options: []string{ForceSave}, Command: "water", Args: []string{"--remove", "yes"}}
}

// CommandList runs the commands in the file list, one per line.
func CommandList(in, out, list string, options ...string) Invocation {
	return Invocation{Input: in, Output: out, Options: options, Command: "command_list", Args: []string{"--list", list}}
}

// CheckAll runs every check, without modifying the structure, and writes a JSON summary.
func CheckAll(in, json string) Invocation {
	return Invocation{Input: in, JSON: json, Options: []string{CheckOnly, NonInteractive}, Command: "checkall"}
}

// Checks runs the checks listed in the file list, writing a JSON summary.
func Checks(in, json, list string) Invocation {
	return Invocation{Input: in, JSON: json, Options: []string{CheckOnly, NonInteractive}, Command: "command_list", Args: []string{"--list", list}}
}

// WriteCommandList writes a command list file, one command per line.
func WriteCommandList(name string, commands []string) error {
	var b strings.Builder
	for _, c := range commands {
		b.WriteString(strings.TrimSpace(c))
		b.WriteByte('\n')
	}
	return os.WriteFile(name, []byte(b.String()), 0644)
}

// Hydrogens are the options of the add_hydrogen command.
type Hydrogens struct {
	Charges bool
	Mode    string //auto, list, ph or none
	PH      float64
	List    string
}

// Command returns the add_hydrogen command line.
func (H Hydrogens) Command() string {
	c := []string{"add_hydrogen"}
	if H.Charges {
		c = append(c, "--add_charges", "ADT")
	}
	switch strings.ToLower(H.Mode) {
	case "", "none":
		c = append(c, "--add_mode", "None")
	case "ph":
		c = append(c, "--add_mode", "ph", "--pH", strconv.FormatFloat(H.PH, 'f', -1, 64))
	case "list":
		c = append(c, "--add_mode", "list", "--list", H.List)
	default:
		c = append(c, "--add_mode", H.Mode)
	}
	return strings.Join(c, " ")
}
