/*
 * config.go, part of strutils.
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

// Package config reads the properties of a tool from a YAML, TOML or JSON file, or from
// a JSON string given on the command line. Properties can be at the top level of the
// document, or under a "properties" key.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml"
	"github.com/rmera/strutils/selection"
	"gopkg.in/yaml.v3"
)

// Properties holds the configuration values of a tool, and remembers which ones were used.
type Properties struct {
	values map[string]interface{}
	used   map[string]bool
}

// New returns properties with the given values. The map is not copied.
func New(values map[string]interface{}) *Properties {
	if values == nil {
		values = make(map[string]interface{})
	}
	if inner, ok := values["properties"].(map[string]interface{}); ok && len(values) == 1 {
		values = inner
	}
	return &Properties{values: values, used: make(map[string]bool)}
}

// Load reads properties from src, which is either the name of a .yml, .yaml, .toml or .json file,
// or a JSON object. An empty src gives empty properties.
func Load(src string) (*Properties, error) {
	if strings.TrimSpace(src) == "" {
		return New(nil), nil
	}
	if _, err := os.Stat(src); err != nil {
		if strings.HasPrefix(strings.TrimSpace(src), "{") {
			return Decode(strings.NewReader(src), "json")
		}
		return nil, fmt.Errorf("config: %s is neither a file nor a JSON string", src)
	}
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	P, err := Decode(f, strings.TrimPrefix(strings.ToLower(filepath.Ext(src)), "."))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", src, err)
	}
	return P, nil
}

// Decode reads properties in the given format (yaml, yml, toml or json) from r.
func Decode(r io.Reader, format string) (*Properties, error) {
	values := make(map[string]interface{})
	switch format {
	case "yaml", "yml":
		if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
			return nil, err
		}
	case "toml":
		tree, err := toml.LoadReader(r)
		if err != nil {
			return nil, err
		}
		values = tree.ToMap()
	case "json":
		if err := json.NewDecoder(r).Decode(&values); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("config: unknown format %q", format)
	}
	return New(values), nil
}

// Set sets a value, overriding what was read.
func (P *Properties) Set(key string, v interface{}) { P.values[key] = v }

// Raw returns the value of key as it was decoded, or nil, and marks it as used.
func (P *Properties) Raw(key string) interface{} {
	P.used[key] = true
	return P.values[key]
}

// Unused returns the keys never requested, sorted.
func (P *Properties) Unused() []string {
	var ret []string
	for k := range P.values {
		if !P.used[k] {
			ret = append(ret, k)
		}
	}
	sort.Strings(ret)
	return ret
}

// Bool returns the boolean value of key, or def if key was not given.
func (P *Properties) Bool(key string, def bool) (bool, error) {
	switch v := P.Raw(key).(type) {
	case nil:
		return def, nil
	case bool:
		return v, nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return def, fmt.Errorf("config: %s: %w", key, err)
		}
		return b, nil
	default:
		return def, fmt.Errorf("config: %s should be true or false, not %v", key, v)
	}
}

// String returns the value of key as a string, or def if key was not given.
func (P *Properties) String(key, def string) (string, error) {
	v := P.Raw(key)
	if v == nil {
		return def, nil
	}
	if s, ok := v.(string); ok {
		return s, nil
	}
	s, err := selection.FromString([]interface{}{v})
	if err != nil {
		return def, fmt.Errorf("config: %s: %w", key, err)
	}
	return s[0], nil
}

// Float returns the numeric value of key, or def if key was not given.
func (P *Properties) Float(key string, def float64) (float64, error) {
	switch v := P.Raw(key).(type) {
	case nil:
		return def, nil
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return def, fmt.Errorf("config: %s: %w", key, err)
		}
		return f, nil
	default:
		return def, fmt.Errorf("config: %s should be a number, not %v", key, v)
	}
}

// StringList returns the value of key as a list of strings (see selection.FromString),
// or def if key was not given.
func (P *Properties) StringList(key string, def []string) ([]string, error) {
	v := P.Raw(key)
	if v == nil {
		return def, nil
	}
	l, err := selection.FromString(v)
	if err != nil {
		return def, fmt.Errorf("config: %s: %w", key, err)
	}
	return l, nil
}

// Selection returns the selectors given in key. A missing key selects everything.
func (P *Properties) Selection(key string) (selection.List, error) {
	l, err := selection.Parse(P.Raw(key))
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", key, err)
	}
	return l, nil
}
