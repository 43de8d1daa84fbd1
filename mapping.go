/*
 * mapping.go, part of strutils.
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
	"bytes"
	"encoding/json"
	"io"
	"os"
)

// OrderedMap is a string to string map that remembers insertion order.
// It is what the renumbering mapping is made of, so the JSON file
// lists serials in the order they were found in the structure.
type OrderedMap struct {
	keys []string
	vals map[string]string
}

// NewOrderedMap returns an empty map.
func NewOrderedMap() *OrderedMap {
	return &OrderedMap{vals: make(map[string]string)}
}

// Set stores v under k. A new key goes at the end, an existing one keeps its place.
func (M *OrderedMap) Set(k, v string) {
	if _, ok := M.vals[k]; !ok {
		M.keys = append(M.keys, k)
	}
	M.vals[k] = v
}

// Get returns the value for k and whether it was present.
func (M *OrderedMap) Get(k string) (string, bool) {
	v, ok := M.vals[k]
	return v, ok
}

// Keys returns the keys in insertion order. The slice is shared, don't modify it.
func (M *OrderedMap) Keys() []string { return M.keys }

// Len returns the number of keys.
func (M *OrderedMap) Len() int { return len(M.keys) }

// MarshalJSON writes the map as an object, keys in insertion order.
func (M *OrderedMap) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, k := range M.keys {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := writePair(&b, k, M.vals[k]); err != nil {
			return nil, err
		}
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func writePair(b *bytes.Buffer, k string, v interface{}) error {
	kb, err := json.Marshal(k)
	if err != nil {
		return err
	}
	var vb []byte
	//json.Marshal would compact the nested objects.
	if m, ok := v.(json.Marshaler); ok {
		vb, err = m.MarshalJSON()
	} else {
		vb, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}
	b.Write(kb)
	b.WriteString(": ")
	b.Write(vb)
	return nil
}

// RenumberMapping records the old to new numbering produced by a renumbering pass.
// Atoms maps old atom serials to new ones. Residues holds one map per chain.
// For PDB files the chain is the chain identifier column, for GRO files it is the
// inferred chain number, starting from "1".
type RenumberMapping struct {
	Atoms    *OrderedMap
	chains   []string
	residues map[string]*OrderedMap
}

// NewRenumberMapping returns an empty mapping.
func NewRenumberMapping() *RenumberMapping {
	return &RenumberMapping{Atoms: NewOrderedMap(), residues: make(map[string]*OrderedMap)}
}

// Chain returns the residue map for chain, and false if it did not exist
// before the call, in which case it is created.
func (R *RenumberMapping) Chain(chain string) (*OrderedMap, bool) {
	m, ok := R.residues[chain]
	if !ok {
		m = NewOrderedMap()
		R.residues[chain] = m
		R.chains = append(R.chains, chain)
	}
	return m, ok
}

// Residues returns the residue map of chain, or nil if the chain was never seen.
func (R *RenumberMapping) Residues(chain string) *OrderedMap { return R.residues[chain] }

// Chains returns the chains in the order they were first seen.
func (R *RenumberMapping) Chains() []string { return R.chains }

// MarshalJSON writes {"residues": {chain: {old: new}}, "atoms": {old: new}}.
func (R *RenumberMapping) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(`{"residues": {`)
	for i, c := range R.chains {
		if i > 0 {
			b.WriteString(", ")
		}
		if err := writePair(&b, c, R.residues[c]); err != nil {
			return nil, err
		}
	}
	b.WriteString(`}, "atoms": `)
	atoms, err := R.Atoms.MarshalJSON()
	if err != nil {
		return nil, err
	}
	b.Write(atoms)
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Write writes the mapping as JSON to w.
func (R *RenumberMapping) Write(w io.Writer) error {
	j, err := R.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(j)
	return err
}

// WriteFile writes the mapping as JSON to the file name.
func (R *RenumberMapping) WriteFile(name string) error {
	j, err := R.MarshalJSON()
	if err != nil {
		return err
	}
	return os.WriteFile(name, j, 0644)
}
