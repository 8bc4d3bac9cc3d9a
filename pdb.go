/*
 * pdb.go, part of dockprep.
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
	"bufio"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	v3 "github.com/rmera/dockprep/v3"
)

// Columns of an ATOM/HETATM record, 0-based and half-open.
const (
	pdbRecordEnd  = 6
	pdbSerialEnd  = 11
	pdbNameStart  = 12
	pdbNameEnd    = 16
	pdbAltLoc     = 16
	pdbResStart   = 17
	pdbResEnd     = 21
	pdbChain      = 21
	pdbResNumEnd  = 26
	pdbICodeEnd   = 28
	pdbXStart     = 30
	pdbYStart     = 38
	pdbZStart     = 46
	pdbOccStart   = 54
	pdbBfacStart  = 60
	pdbBfacEnd    = 66
	pdbSegStart   = 72
	pdbSymStart   = 76
	pdbChargeSt   = 78
	pdbLineLength = 80
)

// pad returns line right-padded with spaces up to pdbLineLength characters.
func pad(line string) string {
	line = strings.TrimRight(line, "\r\n")
	if len(line) < pdbLineLength {
		line = line + strings.Repeat(" ", pdbLineLength-len(line))
	}
	return line
}

// parses the charge field of a PDB, e.g. "2+" or "1-". Blank means 0.
func parsePDBCharge(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	sign := 1.0
	if strings.HasSuffix(s, "-") || strings.HasPrefix(s, "-") {
		sign = -1.0
	}
	s = strings.Trim(s, "+-")
	if s == "" {
		return sign, nil
	}
	c, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return sign * c, nil
}

// formats a charge for the PDB charge field.
func pdbCharge(c float64) string {
	if c == 0 {
		return ""
	}
	sign := "+"
	if c < 0 {
		sign = "-"
	}
	return fmt.Sprintf("%d%s", int(math.Abs(math.Round(c))), sign)
}

// parseFloatField reads an optional floating point field. Blank fields are 0.
func parseFloatField(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// Parses a valid ATOM or HETATM line of a PDB file, returns an Atom
// object with the info except for the coordinates and b-factors, which  are returned
// separately.
func readPDBAtomLine(line string, lineno int) (*Atom, [3]float64, float64, error) {
	var coords [3]float64
	var err error
	line = pad(line)
	atom := new(Atom)
	perr := func(field, value string, err error) error {
		return newCError("readPDBAtomLine", err, "line %d: can't parse %s from %q", lineno, field, value)
	}
	atom.Het = strings.HasPrefix(line, "HETATM")
	serial := strings.TrimSpace(line[pdbRecordEnd:pdbSerialEnd])
	if atom.ID, err = strconv.Atoi(serial); err != nil {
		return nil, coords, 0, perr("serial", serial, err)
	}
	atom.Name = strings.TrimSpace(line[pdbNameStart:pdbNameEnd])
	atom.AltLoc = strings.TrimSpace(line[pdbAltLoc : pdbAltLoc+1])
	atom.MolName = strings.TrimSpace(line[pdbResStart:pdbResEnd])
	atom.MolName1 = three2OneLetter[atom.MolName]
	atom.Chain = strings.TrimSpace(line[pdbChain : pdbChain+1])
	resnum := strings.TrimSpace(line[pdbChain+1 : pdbResNumEnd])
	if atom.MolID, err = strconv.Atoi(resnum); err != nil {
		return nil, coords, 0, perr("residue number", resnum, err)
	}
	atom.ICode = strings.TrimSpace(line[pdbResNumEnd:pdbICodeEnd])
	for i, start := range []int{pdbXStart, pdbYStart, pdbZStart} {
		field := line[start : start+8]
		if coords[i], err = strconv.ParseFloat(strings.TrimSpace(field), 64); err != nil {
			return nil, coords, 0, perr("coordinate", field, err)
		}
	}
	if atom.Occupancy, err = parseFloatField(line[pdbOccStart:pdbBfacStart]); err != nil {
		return nil, coords, 0, perr("occupancy", line[pdbOccStart:pdbBfacStart], err)
	}
	bfactor, err := parseFloatField(line[pdbBfacStart:pdbBfacEnd])
	if err != nil {
		return nil, coords, 0, perr("temperature factor", line[pdbBfacStart:pdbBfacEnd], err)
	}
	atom.Segment = strings.TrimSpace(line[pdbSegStart:pdbSymStart])
	atom.Symbol = NormalizeSymbol(line[pdbSymStart:pdbChargeSt])
	//No error checking here, a malformed charge is just ignored.
	atom.Charge, _ = parsePDBCharge(line[pdbChargeSt:pdbLineLength])
	if atom.Symbol == "" {
		atom.Symbol, _ = symbolFromName(atom.Name)
	}
	if atom.Symbol != "" {
		atom.Mass = symbolMass[atom.Symbol]
	}
	return atom, coords, bfactor, nil
}

// PDBRead reads a PDB file from an io.Reader. Returns a Molecule. If there is one frame in the PDB
// the coordinates array will be of length 1. Only ATOM and HETATM records contribute atoms, other
// records are skipped. The ID code in the HEADER record, or the text of the TITLE records, is used
// as the title of the molecule.
func PDBRead(pdb io.Reader) (*Molecule, error) {
	scanner := bufio.NewScanner(pdb)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	top := NewTopology(0)
	coords := make([][]float64, 0, 1)
	bfactors := make([][]float64, 0, 1)
	var frame, fbfac []float64
	var idcode string
	titles := make([]string, 0, 1)
	lineno := 0
	endframe := func() error {
		if len(frame) == 0 {
			return nil
		}
		if len(coords) > 0 && len(frame)/3 != top.Len() {
			return newCError("PDBRead", nil, "line %d: model %d has %d atoms, the first one has %d", lineno, len(coords)+1, len(frame)/3, top.Len())
		}
		coords = append(coords, frame)
		bfactors = append(bfactors, fbfac)
		frame = nil
		fbfac = nil
		return nil
	}
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "ATOM") || strings.HasPrefix(line, "HETATM"):
			at, c, bfac, err := readPDBAtomLine(line, lineno)
			if err != nil {
				return nil, errDecorate(err, "PDBRead")
			}
			if len(coords) == 0 {
				top.AppendAtom(at)
			}
			frame = append(frame, c[:]...)
			fbfac = append(fbfac, bfac)
		case strings.HasPrefix(line, "ENDMDL"):
			if err := endframe(); err != nil {
				return nil, err
			}
		case strings.HasPrefix(line, "HEADER"):
			idcode = strings.TrimSpace(pad(line)[62:66])
		case strings.HasPrefix(line, "TITLE"):
			titles = append(titles, strings.TrimSpace(pad(line)[10:]))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, newCError("PDBRead", err, "reading line %d", lineno+1)
	}
	if err := endframe(); err != nil {
		return nil, err
	}
	if top.Len() == 0 {
		return nil, newCError("PDBRead", nil, "no ATOM or HETATM records found")
	}
	matrices := make([]*v3.Matrix, 0, len(coords))
	for _, c := range coords {
		m, err := v3.NewMatrix(c)
		if err != nil {
			return nil, errDecorate(err, "PDBRead")
		}
		matrices = append(matrices, m)
	}
	mol, err := NewMolecule(top, matrices, bfactors)
	if err != nil {
		return nil, errDecorate(err, "PDBRead")
	}
	if idcode != "" {
		mol.SetTitle(idcode)
	} else {
		mol.SetTitle(strings.Join(titles, " "))
	}
	return mol, nil
}

// PDBFileRead reads a PDB file. Compressed files are decompressed according to their extension.
// If the file has no HEADER ID code nor TITLE, the name of the file, without extensions, is used as title.
func PDBFileRead(pdbname string) (*Molecule, error) {
	f, err := OpenFile(pdbname)
	if err != nil {
		return nil, errDecorate(err, "PDBFileRead")
	}
	defer f.Close()
	mol, err := PDBRead(f)
	if err != nil {
		return nil, errDecorate(err, "PDBFileRead "+pdbname)
	}
	if mol.Title() == "" {
		mol.SetTitle(baseName(pdbname))
	}
	return mol, nil
}

// baseName returns the name of the file without directory and without
// format or compression extensions.
func baseName(name string) string {
	base := filepath.Base(name)
	for {
		ext := filepath.Ext(base)
		if ext == "" || ext == base {
			return base
		}
		base = strings.TrimSuffix(base, ext)
	}
}

// pdbAtomName puts names of up to 3 characters in columns 14-16,
// as usual in PDB files, and 4-characters names in columns 13-16.
func pdbAtomName(name string) string {
	if len(name) >= 4 {
		return name
	}
	return " " + name
}

// writes one ATOM/HETATM record.
func writePDBAtomLine(out io.Writer, at *Atom, coord []float64, bfac float64) error {
	record := "ATOM"
	if at.Het {
		record = "HETATM"
	}
	line := fmt.Sprintf("%-6s%5d %-4s%1s%-4s%1s%4d%-2s  %8.3f%8.3f%8.3f%6.2f%6.2f      %-4s%2s%2s",
		record, at.ID, pdbAtomName(at.Name), at.AltLoc, at.MolName, at.Chain, at.MolID, at.ICode,
		coord[0], coord[1], coord[2], at.Occupancy, bfac, at.Segment, strings.ToUpper(at.Symbol), pdbCharge(at.Charge))
	_, err := fmt.Fprintln(out, strings.TrimRight(line, " "))
	return err
}

// PDBWrite writes the atoms in mol with the coordinates in coords and the b-factors in bfact
// (which can be nil) as PDB ATOM/HETATM records in out. The records are followed by
// a TER record, with the serial and residue name of the last atom, and an END record.
func PDBWrite(out io.Writer, coords *v3.Matrix, mol Atomer, bfact []float64) error {
	if coords == nil || mol == nil {
		return newCError("PDBWrite", nil, "nil coordinates or atoms given")
	}
	if coords.NVecs() != mol.Len() {
		return newCError("PDBWrite", nil, "%d coordinates for %d atoms", coords.NVecs(), mol.Len())
	}
	if bfact != nil && len(bfact) != mol.Len() {
		return newCError("PDBWrite", nil, "%d b-factors for %d atoms", len(bfact), mol.Len())
	}
	w := bufio.NewWriter(out)
	for i := 0; i < mol.Len(); i++ {
		b := 0.0
		if bfact != nil {
			b = bfact[i]
		}
		if err := writePDBAtomLine(w, mol.Atom(i), coords.RawRowView(i), b); err != nil {
			return newCError("PDBWrite", err, "writing atom %d", i)
		}
	}
	if mol.Len() > 0 {
		last := mol.Atom(mol.Len() - 1)
		fmt.Fprintf(w, "%-6s%5d      %3s\n", "TER", last.ID, last.MolName)
	}
	fmt.Fprintln(w, "END")
	if err := w.Flush(); err != nil {
		return newCError("PDBWrite", err, "flushing output")
	}
	return nil
}

// PDBFileWrite writes a PDB file with the given name. The output is compressed
// according to the file extension.
func PDBFileWrite(name string, coords *v3.Matrix, mol Atomer, bfact []float64) error {
	f, err := CreateFile(name)
	if err != nil {
		return errDecorate(err, "PDBFileWrite")
	}
	if err = PDBWrite(f, coords, mol, bfact); err != nil {
		f.Close()
		return errDecorate(err, "PDBFileWrite")
	}
	if err = f.Close(); err != nil {
		return newCError("PDBFileWrite", err, "closing %s", name)
	}
	return nil
}
