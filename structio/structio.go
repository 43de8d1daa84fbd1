/*
 * structio.go, part of strutils.
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

// Package structio opens and creates structure files. Files ending in .gz or .zst
// are transparently (de)compressed, plain files can be memory-mapped, and input and
// output paths are checked against the formats a tool accepts.
package structio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/edsrzf/mmap-go"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

var (
	ErrMissingInput     = errors.New("input file not found")
	ErrMissingOutputDir = errors.New("output directory not found")
	ErrFormat           = errors.New("format not accepted")
)

// Compression suffixes understood by Open and Create.
const (
	Gzip = ".gz"
	Zstd = ".zst"
)

// Compression returns the compression suffix of name (Gzip or Zstd), or "" for plain files.
func Compression(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case Gzip:
		return Gzip
	case Zstd:
		return Zstd
	}
	return ""
}

// Ext returns the lower-case extension of name without the leading dot, ignoring a
// compression suffix: Ext("a.PDB.gz") is "pdb".
func Ext(name string) string {
	if c := Compression(name); c != "" {
		name = name[:len(name)-len(c)]
	}
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

type readCloser struct {
	io.Reader
	closers []func() error
}

func (r *readCloser) Close() error {
	var err error
	for _, c := range r.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// Open opens name for reading, decompressing it if needed.
func Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	switch Compression(name) {
	case Gzip:
		g, err := gzip.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("structio: can't open gzip file %s: %w", name, err)
		}
		return &readCloser{Reader: g, closers: []func() error{g.Close, f.Close}}, nil
	case Zstd:
		z, err := zstd.NewReader(bufio.NewReader(f))
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("structio: can't open zstd file %s: %w", name, err)
		}
		zc := z.IOReadCloser()
		return &readCloser{Reader: zc, closers: []func() error{zc.Close, f.Close}}, nil
	}
	return f, nil
}

type writeCloser struct {
	io.Writer
	closers []func() error
}

func (w *writeCloser) Close() error {
	var err error
	for _, c := range w.closers {
		if e := c(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// Create creates (or truncates) name for writing, compressing the output if
// the name has a compression suffix. The file is only complete after Close.
func Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(name)
	if err != nil {
		return nil, err
	}
	var AnyNewWriter func(io.Writer) (io.WriteCloser, error)
	switch Compression(name) {
	case Gzip:
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return gzip.NewWriterLevel(a, gzip.DefaultCompression) }
	case Zstd:
		AnyNewWriter = func(a io.Writer) (io.WriteCloser, error) { return zstd.NewWriter(a) }
	default:
		b := bufio.NewWriter(f)
		return &writeCloser{Writer: b, closers: []func() error{b.Flush, f.Close}}, nil
	}
	c, err := AnyNewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("structio: can't create %s: %w", name, err)
	}
	return &writeCloser{Writer: c, closers: []func() error{c.Close, f.Close}}, nil
}

// Contents holds a whole input file in memory. Plain files are memory-mapped,
// compressed ones are decompressed into a buffer.
type Contents struct {
	data []byte
	mm   mmap.MMap
	f    *os.File
}

// Bytes returns the file contents. They are read-only and only valid until Close.
func (C *Contents) Bytes() []byte { return C.data }

// Close releases the mapping, if any.
func (C *Contents) Close() error {
	if C.mm == nil {
		return nil
	}
	err := C.mm.Unmap()
	C.mm = nil
	C.data = nil
	if e := C.f.Close(); err == nil {
		err = e
	}
	return err
}

// ReadAll returns the whole contents of name.
func ReadAll(name string) (*Contents, error) {
	if Compression(name) != "" {
		r, err := Open(name)
		if err != nil {
			return nil, err
		}
		defer r.Close()
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("structio: can't read %s: %w", name, err)
		}
		return &Contents{data: data}, nil
	}
	fp, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	st, err := fp.Stat()
	if err != nil {
		fp.Close()
		return nil, err
	}
	//zero-length files can't be mapped.
	if st.Size() == 0 {
		fp.Close()
		return &Contents{}, nil
	}
	var mm mmap.MMap
	if mm, err = mmap.Map(fp, mmap.RDONLY, 0); err != nil {
		fp.Close()
		return nil, fmt.Errorf("structio: can't map %s: %w", name, err)
	}
	return &Contents{data: mm, mm: mm, f: fp}, nil
}
