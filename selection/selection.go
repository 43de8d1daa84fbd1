/*
 * selection.go, part of strutils.
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

// Package selection selects residues of a structure.
//
// A selector is either a bare residue number (ByID) or a set of fields that must all
// match (ByFields). Lists of selectors match a residue if any of their selectors does,
// and an empty list matches every residue. Selectors are built once, from the loosely
// typed values found in configuration files, by Parse.
package selection

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Field names, as they appear in configuration files.
type Field string

const (
	Name  Field = "name"
	ResID Field = "res_id"
	Chain Field = "chain"
	Model Field = "model"
)

// ResidueRecord identifies a residue in a PDB file. Model is the 1-based ordinal of
// the model the residue is in. ICode is the insertion code; it is part of the identity
// of the residue, but selectors never look at it.
type ResidueRecord struct {
	Model string
	Chain string
	Name  string
	ResID string
	ICode string
}

func (R ResidueRecord) String() string {
	return fmt.Sprintf("%s %s%s chain %q model %s", R.Name, R.ResID, strings.TrimSpace(R.ICode), R.Chain, R.Model)
}

// Selector matches residues.
type Selector interface {
	Match(ResidueRecord) bool
	String() string
}

// ByID matches residues by residue number.
type ByID string

func (B ByID) Match(r ResidueRecord) bool {
	return strings.TrimSpace(string(B)) == strings.TrimSpace(r.ResID)
}

func (B ByID) String() string { return "res_id " + string(B) }

// ByFields matches residues for which all the fields listed in Code are equal to
// the ones in the selector.
type ByFields struct {
	Name  string
	ResID string
	Chain string
	Model string
	Code  []Field
}

func (B ByFields) value(f Field) string {
	switch f {
	case Name:
		return B.Name
	case ResID:
		return B.ResID
	case Chain:
		return B.Chain
	case Model:
		return B.Model
	}
	return ""
}

func recordValue(r ResidueRecord, f Field) string {
	switch f {
	case Name:
		return r.Name
	case ResID:
		return r.ResID
	case Chain:
		return r.Chain
	case Model:
		return r.Model
	}
	return ""
}

func (B ByFields) Match(r ResidueRecord) bool {
	for _, f := range B.Code {
		if strings.TrimSpace(B.value(f)) != strings.TrimSpace(recordValue(r, f)) {
			return false
		}
	}
	return true
}

func (B ByFields) String() string {
	s := make([]string, 0, len(B.Code))
	for _, f := range B.Code {
		s = append(s, fmt.Sprintf("%s=%s", f, B.value(f)))
	}
	return strings.Join(s, ",")
}

// List is a disjunction of selectors.
type List []Selector

// Match returns true if the list is empty or any of its selectors matches r.
func (L List) Match(r ResidueRecord) bool {
	if len(L) == 0 {
		return true
	}
	for _, s := range L {
		if s.Match(r) {
			return true
		}
	}
	return false
}

// FromString turns a configuration value into a list of strings. nil gives an empty list,
// lists are returned element by element, and a string is split on commas if it has any,
// on white space otherwise. Elements are trimmed and empty ones dropped.
func FromString(raw interface{}) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []string:
		return v, nil
	case []interface{}:
		ret := make([]string, 0, len(v))
		for _, e := range v {
			s, err := scalar(e)
			if err != nil {
				return nil, err
			}
			ret = append(ret, s)
		}
		return ret, nil
	case string:
		var items []string
		if strings.Contains(v, ",") {
			items = strings.Split(v, ",")
		} else {
			items = strings.Fields(v)
		}
		ret := make([]string, 0, len(items))
		for _, i := range items {
			if i = strings.TrimSpace(i); i != "" {
				ret = append(ret, i)
			}
		}
		return ret, nil
	}
	s, err := scalar(raw)
	if err != nil {
		return nil, err
	}
	return []string{s}, nil
}

// scalar formats strings and numbers as strings.
func scalar(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), nil
		}
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(t), nil
	}
	return "", fmt.Errorf("selection: expected a string or a number, got %v (%T)", v, v)
}

// Parse builds a selector list from a configuration value: nil, a string (see FromString),
// or a list whose elements are strings or numbers (residue numbers) or maps with any of the
// keys name, res_id, chain and model.
func Parse(raw interface{}) (List, error) {
	var elems []interface{}
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		s, _ := FromString(v)
		for _, e := range s {
			elems = append(elems, e)
		}
	case []interface{}:
		elems = v
	case []string:
		for _, e := range v {
			elems = append(elems, e)
		}
	case []map[string]interface{}:
		for _, e := range v {
			elems = append(elems, e)
		}
	default:
		elems = []interface{}{v}
	}
	L := make(List, 0, len(elems))
	for _, e := range elems {
		if m, ok := e.(map[string]interface{}); ok {
			b, err := fields(m)
			if err != nil {
				return nil, err
			}
			L = append(L, b)
			continue
		}
		s, err := scalar(e)
		if err != nil {
			return nil, err
		}
		L = append(L, ByID(s))
	}
	return L, nil
}

func fields(m map[string]interface{}) (ByFields, error) {
	var b ByFields
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	present := make(map[Field]bool)
	for _, k := range keys {
		s, err := scalar(m[k])
		if err != nil {
			return b, fmt.Errorf("selection: field %s: %w", k, err)
		}
		switch Field(k) {
		case Name:
			b.Name = s
		case ResID:
			b.ResID = s
		case Chain:
			b.Chain = s
		case Model:
			b.Model = s
		default:
			return b, fmt.Errorf("selection: unknown residue field %q", k)
		}
		present[Field(k)] = true
	}
	//Code keeps a fixed order.
	for _, f := range []Field{Name, ResID, Chain, Model} {
		if present[f] {
			b.Code = append(b.Code, f)
		}
	}
	return b, nil
}
