package selection

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFromString(Te *testing.T) {
	cases := []struct {
		in   interface{}
		want []string
	}{
		{nil, nil},
		{"A, B,,C", []string{"A", "B", "C"}},
		{"  A B   C ", []string{"A", "B", "C"}},
		{"", []string{}},
		{[]interface{}{"A", 2.0}, []string{"A", "2"}},
		{[]string{"x", "y"}, []string{"x", "y"}},
		{3, []string{"3"}},
	}
	for _, c := range cases {
		got, err := FromString(c.in)
		if err != nil {
			Te.Fatal(err)
		}
		if diff := cmp.Diff(c.want, got); diff != "" {
			Te.Errorf("FromString(%#v) (-want +got):\n%s", c.in, diff)
		}
	}
	if _, err := FromString([]interface{}{map[string]interface{}{"a": 1}}); err == nil {
		Te.Error("expected an error for a map in a string list")
	}
}

func parseJSON(Te *testing.T, s string) List {
	var raw interface{}
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		Te.Fatal(err)
	}
	L, err := Parse(raw)
	if err != nil {
		Te.Fatal(err)
	}
	return L
}

func TestParse(Te *testing.T) {
	L := parseJSON(Te, `[1, "52", {"name": "HIS", "chain": "A"}, {"res_id": 7, "model": 2}]`)
	want := List{ByID("1"), ByID("52"), ByFields{Name: "HIS", Chain: "A", Code: []Field{Name, Chain}}, ByFields{ResID: "7", Model: "2", Code: []Field{ResID, Model}}}
	if diff := cmp.Diff(want, L); diff != "" {
		Te.Errorf("(-want +got):\n%s", diff)
	}
	if _, err := Parse([]interface{}{map[string]interface{}{"color": "red"}}); err == nil {
		Te.Error("unknown fields should be an error")
	}
	if _, err := Parse([]interface{}{map[string]interface{}{"name": []interface{}{"a"}}}); err == nil {
		Te.Error("non-scalar values should be an error")
	}
	L, err := Parse("10 20")
	if err != nil || len(L) != 2 || L[1] != ByID("20") {
		Te.Errorf("unexpected %v %v", L, err)
	}
}

func TestMatch(Te *testing.T) {
	his := ResidueRecord{Model: "1", Chain: "A", Name: "HIS", ResID: "52", ICode: "A"}
	gly := ResidueRecord{Model: "2", Chain: "B", Name: "GLY", ResID: "7"}
	cases := []struct {
		sel       string
		his, glyM bool
	}{
		{`[]`, true, true},
		{`[52]`, true, false},
		{`[{"name": "HIS"}]`, true, false},
		{`[{"name": "his"}]`, false, false},
		{`[{"name": "HIS", "chain": "B"}]`, false, false},
		{`[{"res_id": "7", "model": "2"}, {"chain": "A"}]`, true, true},
		{`[{"model": 1}]`, true, false},
	}
	for _, c := range cases {
		L := parseJSON(Te, c.sel)
		if L.Match(his) != c.his || L.Match(gly) != c.glyM {
			Te.Errorf("%s: got %v/%v, want %v/%v", c.sel, L.Match(his), L.Match(gly), c.his, c.glyM)
		}
	}
	var empty List
	if !empty.Match(gly) {
		Te.Error("a nil list should match everything")
	}
}
