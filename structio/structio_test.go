package structio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
)

const sample = "ATOM      1  N   ALA A   1      11.104   6.134  -6.504  1.00  0.00           N\nEND\n"

func writeRead(Te *testing.T, name string) string {
	w, err := Create(name)
	if err != nil {
		Te.Fatal(err)
	}
	if _, err = io.WriteString(w, sample); err != nil {
		Te.Fatal(err)
	}
	if err = w.Close(); err != nil {
		Te.Fatal(err)
	}
	r, err := Open(name)
	if err != nil {
		Te.Fatal(err)
	}
	defer r.Close()
	b, err := io.ReadAll(r)
	if err != nil {
		Te.Fatal(err)
	}
	return string(b)
}

func TestCompressedRoundTrip(Te *testing.T) {
	dir := Te.TempDir()
	for _, name := range []string{"a.pdb", "a.pdb.gz", "a.pdb.zst"} {
		if got := writeRead(Te, filepath.Join(dir, name)); got != sample {
			Te.Errorf("%s: read back %q", name, got)
		}
		c, err := ReadAll(filepath.Join(dir, name))
		if err != nil {
			Te.Fatal(err)
		}
		if string(c.Bytes()) != sample {
			Te.Errorf("%s: ReadAll gave %q", name, c.Bytes())
		}
		c.Close()
	}
	plain, _ := os.ReadFile(filepath.Join(dir, "a.pdb.gz"))
	if string(plain) == sample {
		Te.Error("gzip output was not compressed")
	}
}

func TestReadAllEmpty(Te *testing.T) {
	name := filepath.Join(Te.TempDir(), "empty.pdb")
	os.WriteFile(name, nil, 0644)
	c, err := ReadAll(name)
	if err != nil {
		Te.Fatal(err)
	}
	if len(c.Bytes()) != 0 {
		Te.Error("expected no data")
	}
	if err = c.Close(); err != nil {
		Te.Error(err)
	}
}

func TestExt(Te *testing.T) {
	cases := map[string]string{"a.pdb": "pdb", "b/c.PDB.gz": "pdb", "x.gro.zst": "gro", "noext": "", "m.json": "json"}
	for in, want := range cases {
		if got := Ext(in); got != want {
			Te.Errorf("Ext(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestChecks(Te *testing.T) {
	dir := Te.TempDir()
	in := filepath.Join(dir, "in.pdb")
	os.WriteFile(in, []byte(sample), 0644)
	if err := CheckInput(in, "pdb", "gro"); err != nil {
		Te.Error(err)
	}
	if err := CheckInput(in, "gro"); !errors.Is(err, ErrFormat) {
		Te.Errorf("expected a format error, got %v", err)
	}
	if err := CheckInput(filepath.Join(dir, "nope.pdb")); !errors.Is(err, ErrMissingInput) {
		Te.Errorf("expected a missing input error, got %v", err)
	}
	if err := CheckOutput(filepath.Join(dir, "out.pdb"), "pdb"); err != nil {
		Te.Error(err)
	}
	if err := CheckOutput(filepath.Join(dir, "nodir", "out.pdb"), "pdb"); !errors.Is(err, ErrMissingOutputDir) {
		Te.Errorf("expected a missing directory error, got %v", err)
	}
}

func TestStagePublish(Te *testing.T) {
	dir := Te.TempDir()
	tmp := Te.TempDir()
	name := filepath.Join(dir, "in.pdb.gz")
	writeRead(Te, name)
	plain, err := Stage(name, tmp)
	if err != nil {
		Te.Fatal(err)
	}
	b, _ := os.ReadFile(plain)
	if string(b) != sample {
		Te.Errorf("staged file has %q", b)
	}
	out := filepath.Join(dir, "out.pdb.zst")
	if err = os.WriteFile(Target(out, tmp), []byte(sample), 0644); err != nil {
		Te.Fatal(err)
	}
	if err = Publish(out, tmp); err != nil {
		Te.Fatal(err)
	}
	c, err := ReadAll(out)
	if err != nil {
		Te.Fatal(err)
	}
	defer c.Close()
	if string(c.Bytes()) != sample {
		Te.Errorf("published file has %q", c.Bytes())
	}
	if p, _ := Stage(filepath.Join(dir, "x.pdb"), tmp); p != filepath.Join(dir, "x.pdb") {
		Te.Errorf("plain files should not be staged, got %s", p)
	}
	//same basename for the input and the output.
	out = filepath.Join(Te.TempDir(), "in.pdb.zst")
	if Target(out, tmp) == plain {
		Te.Errorf("staged input and output target share %s", plain)
	}
}
