package hpp

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"

	chem "github.com/rmera/dockprep"
)

const dir string = "../testdata"

var expected = []string{
	"ATOM      1  N   CYS A   1      11.104   6.134  -6.504  1.00  0.00      PROA N",
	"ATOM      2  CA  CYS A   1      11.639   6.071  -5.147  1.00  0.00      PROA C",
	"ATOM      3  SG  CYS A   1      12.500   4.500  -4.800  1.00  0.00      PROA S",
	"ATOM      4  N   ALA A   2       9.000   5.000  -3.000  1.00 12.50      PROA N",
	"ATOM      5  CB  ALA A   2       8.000   4.000  -2.000  0.50 10.00      PROA C",
	"TER       5      ALA",
	"END",
}

func TestConvert(Te *testing.T) {
	f, err := os.Open(dir + "/charmm.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	defer f.Close()
	var logged, out bytes.Buffer
	Log.SetOutput(&logged)
	defer Log.SetOutput(os.Stderr)
	if err := Convert(f, &out, nil); err != nil {
		Te.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	if len(lines) != len(expected) {
		Te.Fatalf("expected %d lines, got %d:\n%s", len(expected), len(lines), out.String())
	}
	for i, v := range expected {
		if lines[i] != v {
			Te.Errorf("line %d:\n got %q\nwant %q", i+1, lines[i], v)
		}
	}
	if logged.Len() != 0 {
		Te.Errorf("no warnings expected, got %q", logged.String())
	}
}

func TestPrepare(Te *testing.T) {
	mol, err := chem.PDBFileRead(dir + "/charmm.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	var logged bytes.Buffer
	Log.SetOutput(&logged)
	defer Log.SetOutput(os.Stderr)
	//Only water is removed, so the zinc stays and we get a warning.
	opts := DefaultOptions()
	opts.DropResidues = []string{"TIP3"}
	prep, err := Prepare(mol, opts)
	if err != nil {
		Te.Fatal(err)
	}
	if prep.Len() != 6 {
		Te.Fatalf("expected 6 atoms, got %d", prep.Len())
	}
	for i := 0; i < prep.Len(); i++ {
		if prep.Atom(i).ID != i+1 {
			Te.Errorf("atom %d has serial %d", i, prep.Atom(i).ID)
		}
	}
	zn := prep.Atom(5)
	if zn.Name != "ZN" || zn.MolName != "ZN2" || zn.Symbol != "Zn" {
		Te.Errorf("unexpected last atom %+v", zn)
	}
	if !strings.Contains(logged.String(), "ZN") {
		Te.Errorf("expected a warning for the zinc atom, got %q", logged.String())
	}
	//The original molecule is not modified.
	if mol.Atom(0).MolName != "CYM" || mol.Len() != 8 {
		Te.Error("Prepare modified its input")
	}
	//Renaming happens before dropping.
	opts = DefaultOptions()
	opts.Rename = map[string]string{"CYM": "TIP"}
	opts.Warn = false
	prep, err = Prepare(mol, opts)
	if err != nil {
		Te.Fatal(err)
	}
	if prep.Len() != 2 || prep.Atom(0).MolName != "ALA" {
		Te.Errorf("renamed residues should be dropped, got %d atoms", prep.Len())
	}
	opts.DropResidues = append(opts.DropResidues, "ALA")
	if _, err = Prepare(mol, opts); err == nil {
		Te.Error("an empty result should be an error")
	} else {
		var e Error
		if !errors.As(err, &e) {
			Te.Errorf("expected an hpp.Error, got %T", err)
		}
	}
}

func TestDefaultDropList(Te *testing.T) {
	opts := DefaultOptions()
	for _, r := range []string{"ZN2", "TIP", "TIP3"} {
		if !opts.drop(r) {
			Te.Errorf("%s should be dropped by default", r)
		}
	}
	if opts.drop("CYS") || opts.drop("ZN") {
		Te.Error("only ZN2, TIP and TIP3 should be dropped by default")
	}
	mol, err := chem.PDBFileRead(dir + "/charmm.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	prep, err := Prepare(mol, nil)
	if err != nil {
		Te.Fatal(err)
	}
	for i := 0; i < prep.Len(); i++ {
		if prep.Atom(i).MolName == "TIP3" {
			Te.Error("TIP3 water should be removed by default")
		}
	}
}
