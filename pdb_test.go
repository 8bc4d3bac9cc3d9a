/*
 * pdb_test.go, part of dockprep.
 *
 * Copyright 2012 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 */

package chem

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

const dir string = "testdata"

func TestPDBRead(Te *testing.T) {
	mol, err := PDBFileRead(dir + "/charmm.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Len() != 8 {
		Te.Fatalf("expected 8 atoms, got %d", mol.Len())
	}
	if mol.Title() != "charmm" {
		Te.Errorf("expected the file name as title, got %q", mol.Title())
	}
	at := mol.Atom(1)
	if at.Name != "HT1" || at.MolName != "CYM" || at.Chain != "A" || at.MolID != 1 || at.Segment != "PROA" || at.Symbol != "H" {
		Te.Errorf("wrong atom read: %+v", at)
	}
	zn := mol.Atom(6)
	if !zn.Het || zn.Name != "ZN" || zn.MolName != "ZN2" || zn.Symbol != "Zn" {
		Te.Errorf("wrong HETATM read: %+v", zn)
	}
	water := mol.Atom(7)
	if water.MolName != "TIP3" || water.Chain != "W" {
		Te.Errorf("four-letter residue name not read: %+v", water)
	}
	if mol.Bfactors[0][4] != 12.5 || mol.Atom(5).Occupancy != 0.5 {
		Te.Errorf("wrong b-factor or occupancy: %v %v", mol.Bfactors[0][4], mol.Atom(5).Occupancy)
	}
	if c := mol.Coord(2, 0); c.At(0, 0) != 11.639 || c.At(0, 2) != -5.147 {
		Te.Errorf("wrong coordinates: %v", c)
	}
}

func TestPDBReadHeaderAndModels(Te *testing.T) {
	pdb := `HEADER    HYDROLASE                               01-JAN-21   7O4E              
MODEL        1
ATOM      1  CA  ALA A   1       0.000   0.000   0.000  1.00  0.00           C
ATOM      2  CB  ALA A   1       1.000   0.000   0.000  1.00  0.00           C
ENDMDL
MODEL        2
ATOM      1  CA  ALA A   1       0.000   1.000   0.000  1.00  0.00           C
ATOM      2  CB  ALA A   1       1.000   1.000   0.000  1.00  0.00           C
ENDMDL
END
`
	mol, err := PDBRead(strings.NewReader(pdb))
	if err != nil {
		Te.Fatal(err)
	}
	if mol.Title() != "7O4E" {
		Te.Errorf("expected the HEADER ID code as title, got %q", mol.Title())
	}
	if mol.Frames() != 2 || mol.Len() != 2 {
		Te.Errorf("expected 2 atoms in 2 frames, got %d atoms in %d frames", mol.Len(), mol.Frames())
	}
	if mol.Coords[1].At(0, 1) != 1.0 {
		Te.Errorf("second model not read properly: %v", mol.Coords[1])
	}
	bad := strings.Replace(pdb, "ATOM      2  CB  ALA A   1       1.000   1.000", "ATOM      2  CB  ALA A   1       1.0x0   1.000", 1)
	if _, err := PDBRead(strings.NewReader(bad)); err == nil {
		Te.Error("a malformed coordinate was not reported")
	}
}

func TestPDBWrite(Te *testing.T) {
	mol, err := PDBFileRead(dir + "/charmm.pdb")
	if err != nil {
		Te.Fatal(err)
	}
	var buf bytes.Buffer
	if err := PDBWrite(&buf, mol.Coords[0], mol, mol.Bfactors[0]); err != nil {
		Te.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 10 {
		Te.Fatalf("expected 8 atoms, TER and END, got %d lines:\n%s", len(lines), buf.String())
	}
	want := "ATOM      1  N   CYM A   1      11.104   6.134  -6.504  1.00  0.00      PROA N"
	if lines[0] != want {
		Te.Errorf("wrong first line:\n%q\n%q", lines[0], want)
	}
	if lines[8] != "TER       8      TIP3" || lines[9] != "END" {
		Te.Errorf("wrong ending lines: %q %q", lines[8], lines[9])
	}
	//read back
	mol2, err := PDBRead(&buf)
	if err != nil {
		Te.Fatal(err)
	}
	if mol2.Len() != mol.Len() || mol2.Atom(6).MolName != "ZN2" || mol2.Bfactors[0][4] != 12.5 {
		Te.Errorf("written file not read back properly")
	}
	name := filepath.Join(Te.TempDir(), "out.pdb.gz")
	if err := PDBFileWrite(name, mol.Coords[0], mol, nil); err != nil {
		Te.Fatal(err)
	}
	mol3, err := PDBFileRead(name)
	if err != nil {
		Te.Fatal(err)
	}
	if mol3.Len() != mol.Len() || mol3.Title() != "out" {
		Te.Errorf("compressed file not read back properly: %s", mol3)
	}
}

func TestPDBCharge(Te *testing.T) {
	for _, v := range []struct {
		in   string
		want float64
	}{{"", 0}, {"2+", 2}, {"1-", -1}, {"-", -1}} {
		c, err := parsePDBCharge(v.in)
		if err != nil || c != v.want {
			Te.Errorf("parsePDBCharge(%q) = %v, %v; want %v", v.in, c, err, v.want)
		}
		if v.in != "-" && pdbCharge(v.want) != v.in {
			Te.Errorf("pdbCharge(%v) = %q; want %q", v.want, pdbCharge(v.want), v.in)
		}
	}
}
