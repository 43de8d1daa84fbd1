/*
 * paths.go, part of strutils.
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

package structio

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

func accepted(name string, formats []string) error {
	if len(formats) == 0 {
		return nil
	}
	ext := Ext(name)
	for _, f := range formats {
		if ext == f {
			return nil
		}
	}
	return fmt.Errorf("%w: %s has extension %q, expected one of %v", ErrFormat, name, ext, formats)
}

// CheckInput returns an error if name does not exist, or if its extension is not one
// of formats. An empty formats list accepts any extension.
func CheckInput(name string, formats ...string) error {
	if name == "" {
		return fmt.Errorf("%w: no path given", ErrMissingInput)
	}
	if _, err := os.Stat(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingInput, name)
		}
		return err
	}
	return accepted(name, formats)
}

// CheckOutput returns an error if the directory where name would be written does
// not exist, or if its extension is not one of formats.
func CheckOutput(name string, formats ...string) error {
	if name == "" {
		return fmt.Errorf("%w: no path given", ErrMissingOutputDir)
	}
	dir := filepath.Dir(name)
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return fmt.Errorf("%w: %s", ErrMissingOutputDir, dir)
	}
	return accepted(name, formats)
}

// Exists returns true if name exists and is not empty.
func Exists(name string) bool {
	st, err := os.Stat(name)
	return err == nil && st.Size() > 0
}

// Stage returns a plain (uncompressed) path to the contents of name, for
// programs that can't read compressed files. Plain files are returned as they are,
// compressed ones are decompressed into dir, under an "in_" prefix so they never
// take the place of a Target.
func Stage(name, dir string) (string, error) {
	c := Compression(name)
	if c == "" {
		return name, nil
	}
	plain := filepath.Join(dir, "in_"+filepath.Base(name[:len(name)-len(c)]))
	r, err := Open(name)
	if err != nil {
		return "", err
	}
	defer r.Close()
	w, err := os.Create(plain)
	if err != nil {
		return "", err
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return "", fmt.Errorf("structio: can't stage %s: %w", name, err)
	}
	return plain, w.Close()
}

// Target returns the path a program that can't write compressed files should
// write to, so that Publish can later put the result at name.
func Target(name, dir string) string {
	c := Compression(name)
	if c == "" {
		return name
	}
	return filepath.Join(dir, filepath.Base(name[:len(name)-len(c)]))
}

// Publish copies the plain file written at Target(name, dir) to name, compressing it.
// It does nothing for plain names.
func Publish(name, dir string) error {
	plain := Target(name, dir)
	if plain == name {
		return nil
	}
	r, err := os.Open(plain)
	if err != nil {
		return err
	}
	defer r.Close()
	w, err := Create(name)
	if err != nil {
		return err
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		return fmt.Errorf("structio: can't write %s: %w", name, err)
	}
	return w.Close()
}
