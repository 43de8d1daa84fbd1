/*
 * hybrid36.go, part of strutils.
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

package pdb

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	upperDigits = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerDigits = "0123456789abcdefghijklmnopqrstuvwxyz"
)

func ipow(b, e int) int {
	r := 1
	for i := 0; i < e; i++ {
		r *= b
	}
	return r
}

func encodePure(digits string, width, v int) string {
	b := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		b[i] = digits[v%36]
		v /= 36
	}
	return string(b)
}

// Hy36Encode returns value as a right-justified field of the given width.
// Values that don't fit in width decimal digits are written in hybrid-36,
// the scheme used by PDB writers for serials above 99999 (width 5) and
// residue numbers above 9999 (width 4).
func Hy36Encode(width, value int) (string, error) {
	i := value
	if i >= 1-ipow(10, width-1) {
		if i < ipow(10, width) {
			return fmt.Sprintf("%*d", width, i), nil
		}
		i -= ipow(10, width)
		block := 26 * ipow(36, width-1)
		if i < block {
			return encodePure(upperDigits, width, i+10*ipow(36, width-1)), nil
		}
		i -= block
		if i < block {
			return encodePure(lowerDigits, width, i+10*ipow(36, width-1)), nil
		}
	}
	return "", fmt.Errorf("pdb: value %d out of hybrid-36 range for width %d", value, width)
}

func decodePure(digits string, s string) (int, error) {
	v := 0
	for _, c := range []byte(s) {
		d := strings.IndexByte(digits, c)
		if d < 0 {
			return 0, fmt.Errorf("pdb: invalid hybrid-36 digit %q in %q", c, s)
		}
		v = v*36 + d
	}
	return v, nil
}

// Hy36Decode parses a field written by Hy36Encode with the same width.
func Hy36Decode(width int, s string) (int, error) {
	if len(s) != width {
		return 0, fmt.Errorf("pdb: hybrid-36 field %q should have width %d", s, width)
	}
	f := s[0]
	switch {
	case f == '-' || f == ' ' || (f >= '0' && f <= '9'):
		return strconv.Atoi(strings.TrimSpace(s))
	case f >= 'A' && f <= 'Z':
		v, err := decodePure(upperDigits, s)
		return v - 10*ipow(36, width-1) + ipow(10, width), err
	case f >= 'a' && f <= 'z':
		v, err := decodePure(lowerDigits, s)
		return v + 16*ipow(36, width-1) + ipow(10, width), err
	}
	return 0, fmt.Errorf("pdb: invalid hybrid-36 field %q", s)
}
