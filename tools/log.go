/*
 * log.go, part of strutils.
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
	"strings"

	"github.com/fatih/color"
)

// Verbosity levels. Messages at LevelError and LevelWarning are also kept
// so they can be summarized at the end of a run.
const (
	LevelError = iota
	LevelWarning
	LevelInfo
	LevelDebug
)

// Logger prints the messages of a tool run whose level is not above Verbosity.
type Logger struct {
	Verbosity int
	w         io.Writer
	warnings  []string
	warn      *color.Color
	err       *color.Color
}

// NewLogger returns a logger writing to w, or to stderr if w is nil.
func NewLogger(w io.Writer, verbosity int) *Logger {
	if w == nil {
		w = os.Stderr
	}
	return &Logger{
		Verbosity: verbosity,
		w:         w,
		warn:      color.New(color.FgYellow),
		err:       color.New(color.FgRed, color.Bold),
	}
}

// LogV prints d if level is not larger than the verbosity.
func (L *Logger) LogV(level int, d ...interface{}) {
	if L == nil {
		return
	}
	msg := strings.TrimRight(fmt.Sprintln(d...), "\n")
	if level <= LevelWarning {
		L.warnings = append(L.warnings, msg)
	}
	if level > L.Verbosity {
		return
	}
	switch level {
	case LevelError:
		L.err.Fprintln(L.w, msg)
	case LevelWarning:
		L.warn.Fprintln(L.w, msg)
	default:
		fmt.Fprintln(L.w, msg)
	}
}

// Logf formats and prints a message at the given level.
func (L *Logger) Logf(level int, format string, a ...interface{}) {
	L.LogV(level, fmt.Sprintf(format, a...))
}

// Warnings returns the warnings and errors logged so far.
func (L *Logger) Warnings() []string {
	if L == nil {
		return nil
	}
	return L.warnings
}
