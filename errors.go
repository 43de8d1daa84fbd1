/*
 * errors.go, part of strutils.
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

package strutils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a selection matched no residue.
var ErrNotFound = errors.New("no matching residues found")

// Error is the error returned by the tools. It names the tool that failed,
// and carries the list of functions it went through on its way up.
type Error struct {
	tool    string
	message string
	err     error
	deco    []string
}

// NewError returns an error for tool with the given message, wrapping err, which can be nil.
func NewError(tool, message string, err error) *Error {
	return &Error{tool: tool, message: message, err: err}
}

func (E *Error) Error() string {
	s := fmt.Sprintf("%s: %s", E.tool, E.message)
	if E.err != nil {
		s = fmt.Sprintf("%s: %v", s, E.err)
	}
	if len(E.deco) > 0 {
		s = fmt.Sprintf("%s (in %s)", s, strings.Join(E.deco, " <- "))
	}
	return s
}

// Unwrap returns the wrapped error, if any.
func (E *Error) Unwrap() error { return E.err }

// Tool returns the name of the tool that failed.
func (E *Error) Tool() string { return E.tool }

// Decorate adds the name of a caller to the error, and returns the list of callers so far.
// An empty string adds nothing.
func (E *Error) Decorate(deco string) []string {
	if deco != "" {
		E.deco = append(E.deco, deco)
	}
	return E.deco
}

// ErrDecorate decorates err if it is an *Error, and returns it.
func ErrDecorate(err error, caller string) error {
	var e *Error
	if errors.As(err, &e) {
		e.Decorate(caller)
	}
	return err
}
