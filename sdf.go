/*
 * sdf.go, part of dockprep.
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
	"strconv"
	"strings"

	v3 "github.com/rmera/dockprep/v3"
)

const (
	sdfEnd       = "$$$$"
	sdfMolEnd    = "M  END"
	sdfChargeTag = "M  CHG"
	sdfProgram   = "  dockprep"
)

// Atom-block charge codes of the V2000 format. 4 is a doublet radical, read as 0.
var sdfChargeCodes = map[int]float64{1: 3, 2: 2, 3: 1, 4: 0, 5: -1, 6: -2, 7: -3}

// sdfReader reads consecutive entries from an SD file. Each entry
// is first collected up to its $$$$ line, then parsed.
type sdfReader struct {
	s      *bufio.Scanner
	lineno int      //lines consumed from the scanner
	lines  []string //the current entry
	pos    int
	first  int //line number of the first line of the current entry
}

// fill collects the lines of the next entry. It returns false when only blank
// lines, or nothing, remain.
func (R *sdfReader) fill() bool {
	R.lines = R.lines[:0]
	R.pos = 0
	R.first = R.lineno + 1
	blank := true
	for R.s.Scan() {
		R.lineno++
		line := strings.TrimRight(R.s.Text(), "\r")
		if strings.TrimSpace(line) == sdfEnd {
			if blank {
				//an empty entry, keep looking.
				R.lines = R.lines[:0]
				R.first = R.lineno + 1
				continue
			}
			return true
		}
		if strings.TrimSpace(line) != "" {
			blank = false
		}
		R.lines = append(R.lines, line)
	}
	return !blank
}

func (R *sdfReader) next() (string, bool) {
	if R.pos >= len(R.lines) {
		return "", false
	}
	R.pos++
	return R.lines[R.pos-1], true
}

func (R *sdfReader) errorf(format string, a ...interface{}) error {
	return newCError("SDFRead", nil, "line %d: "+format, append([]interface{}{R.first + R.pos - 1}, a...)...)
}

// field returns line[i:j] trimmed, tolerating short lines.
func field(line string, i, j int) string {
	if i >= len(line) {
		return ""
	}
	if j > len(line) {
		j = len(line)
	}
	return strings.TrimSpace(line[i:j])
}

func atoiField(line string, i, j int) (int, error) {
	s := field(line, i, j)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

// readEntry reads one entry. It returns io.EOF if there are no more entries.
func (R *sdfReader) readEntry() (*Molecule, error) {
	if !R.fill() {
		return nil, io.EOF
	}
	var header [3]string
	var ok bool
	for i := range header {
		header[i], ok = R.next()
		if !ok {
			return nil, R.errorf("unexpected end of entry in the header")
		}
	}
	counts, ok := R.next()
	if !ok {
		return nil, R.errorf("unexpected end of entry, expected the counts line")
	}
	if strings.Contains(counts, "V3000") {
		return nil, R.errorf("V3000 entries are not supported")
	}
	natoms, err := atoiField(counts, 0, 3)
	if err != nil {
		return nil, R.errorf("can't read the number of atoms: %v", err)
	}
	nbonds, err := atoiField(counts, 3, 6)
	if err != nil {
		return nil, R.errorf("can't read the number of bonds: %v", err)
	}
	if natoms == 0 {
		return nil, R.errorf("entry %q has no atoms", header[0])
	}
	top := NewTopology(0)
	coords := make([]float64, 0, 3*natoms)
	for i := 0; i < natoms; i++ {
		line, ok := R.next()
		if !ok {
			return nil, R.errorf("unexpected end of entry in the atom block")
		}
		for _, c := range [][2]int{{0, 10}, {10, 20}, {20, 30}} {
			f, err := strconv.ParseFloat(field(line, c[0], c[1]), 64)
			if err != nil {
				return nil, R.errorf("can't read coordinates: %v", err)
			}
			coords = append(coords, f)
		}
		at := new(Atom)
		at.ID = i + 1
		at.Symbol = NormalizeSymbol(field(line, 31, 34))
		at.Name = at.Symbol
		at.Mass = symbolMass[at.Symbol]
		at.Het = true
		code, err := atoiField(line, 36, 39)
		if err != nil {
			return nil, R.errorf("can't read the charge code: %v", err)
		}
		at.Charge = sdfChargeCodes[code]
		top.AppendAtom(at)
	}
	for i := 0; i < nbonds; i++ {
		line, ok := R.next()
		if !ok {
			return nil, R.errorf("unexpected end of entry in the bond block")
		}
		var v [4]int
		for j := range v {
			if v[j], err = atoiField(line, 3*j, 3*j+3); err != nil {
				return nil, R.errorf("can't read bond: %v", err)
			}
		}
		if v[0] < 1 || v[0] > natoms || v[1] < 1 || v[1] > natoms || v[0] == v[1] {
			return nil, R.errorf("bond between atoms %d and %d is not valid for %d atoms", v[0], v[1], natoms)
		}
		at1, at2 := top.Atom(v[0]-1), top.Atom(v[1]-1)
		b := &Bond{Index: i, At1: at1, At2: at2, Order: sdfOrder(v[2]), Stereo: v[3]}
		at1.Bonds = append(at1.Bonds, b)
		at2.Bonds = append(at2.Bonds, b)
	}
	//properties block. An entry without M  END just ends here.
	charges := false
	for {
		line, ok := R.next()
		if !ok || strings.HasPrefix(line, sdfMolEnd) {
			break
		}
		if strings.HasPrefix(line, sdfChargeTag) {
			if !charges {
				//M  CHG lines supersede the charges of the atom block.
				for _, at := range top.Atoms {
					at.Charge = 0
				}
				charges = true
			}
			if err := sdfReadCharges(line, top); err != nil {
				return nil, R.errorf("%v", err)
			}
		}
	}
	props := NewProperties()
	for {
		line, ok := R.next()
		if !ok {
			break
		}
		if !strings.HasPrefix(line, ">") {
			continue
		}
		name := dataItemName(line)
		values := make([]string, 0, 1)
		for {
			v, ok := R.next()
			if !ok || strings.TrimSpace(v) == "" {
				break
			}
			values = append(values, v)
		}
		props.Set(name, strings.Join(values, "\n"))
	}
	c, err := v3.NewMatrix(coords)
	if err != nil {
		return nil, errDecorate(err, "SDFRead")
	}
	mol, err := NewMolecule(top, []*v3.Matrix{c}, nil)
	if err != nil {
		return nil, errDecorate(err, "SDFRead")
	}
	mol.SetTitle(header[0])
	mol.comments = []string{header[1], header[2]}
	mol.Properties = props
	return mol, nil
}

// dataItemName extracts the name between angle brackets of a data header line.
// A header without brackets gives the rest of the line.
func dataItemName(line string) string {
	start := strings.Index(line, "<")
	end := strings.LastIndex(line, ">")
	if start < 0 || end <= start {
		return strings.TrimSpace(strings.TrimPrefix(line, ">"))
	}
	return line[start+1 : end]
}

func sdfReadCharges(line string, top *Topology) error {
	fields := strings.Fields(line[len(sdfChargeTag):])
	if len(fields) == 0 {
		return fmt.Errorf("empty charge line")
	}
	n, err := strconv.Atoi(fields[0])
	if err != nil || len(fields) < 1+2*n {
		return fmt.Errorf("malformed charge line %q", line)
	}
	for i := 0; i < n; i++ {
		idx, err := strconv.Atoi(fields[1+2*i])
		if err != nil || idx < 1 || idx > top.Len() {
			return fmt.Errorf("bad atom index in charge line %q", line)
		}
		c, err := strconv.Atoi(fields[2+2*i])
		if err != nil {
			return fmt.Errorf("bad charge in charge line %q", line)
		}
		top.Atom(idx - 1).Charge = float64(c)
	}
	return nil
}

func sdfOrder(bondtype int) float64 {
	switch bondtype {
	case 1, 2, 3:
		return float64(bondtype)
	case 4:
		return AromaticOrder
	}
	return 0
}

func sdfBondType(order float64) int {
	switch order {
	case 1, 2, 3:
		return int(order)
	case AromaticOrder:
		return 4
	}
	return 8 //"any" bond
}

// SDFRead reads all the entries of an SD (V2000) file from sdf.
func SDFRead(sdf io.Reader) ([]*Molecule, error) {
	s := bufio.NewScanner(sdf)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	R := &sdfReader{s: s}
	mols := make([]*Molecule, 0, 1)
	for {
		mol, err := R.readEntry()
		if err == io.EOF {
			if err := s.Err(); err != nil {
				return nil, newCError("SDFRead", err, "reading line %d", R.lineno+1)
			}
			break
		}
		if err != nil {
			return nil, err
		}
		mols = append(mols, mol)
	}
	if len(mols) == 0 {
		return nil, newCError("SDFRead", nil, "no entries found")
	}
	return mols, nil
}

// SDFFileRead reads all the entries of the SD file name. Compressed files are decompressed
// according to their extension.
func SDFFileRead(name string) ([]*Molecule, error) {
	f, err := OpenFile(name)
	if err != nil {
		return nil, errDecorate(err, "SDFFileRead")
	}
	defer f.Close()
	mols, err := SDFRead(f)
	if err != nil {
		return nil, errDecorate(err, "SDFFileRead "+name)
	}
	return mols, nil
}

// sdfChargeCode is the inverse of the sdfChargeCodes map. Charges out of the
// [-3,3] range are written only in the M  CHG lines.
func sdfChargeCode(c float64) int {
	for k, v := range sdfChargeCodes {
		if v == c && c != 0 {
			return k
		}
	}
	return 0
}

// writes one entry, using the first frame of the molecule.
func sdfWriteEntry(w io.Writer, mol *Molecule) error {
	natoms := mol.Len()
	if natoms > 999 {
		return newCError("SDFWrite", nil, "%q has %d atoms, the V2000 format allows 999", mol.Title(), natoms)
	}
	mol.FillIndexes()
	bonds := mol.Bonds()
	if len(bonds) > 999 {
		return newCError("SDFWrite", nil, "%q has %d bonds, the V2000 format allows 999", mol.Title(), len(bonds))
	}
	comments := []string{sdfProgram, ""}
	if len(mol.comments) == 2 {
		comments = mol.comments
	}
	fmt.Fprintf(w, "%s\n%s\n%s\n", mol.Title(), comments[0], comments[1])
	fmt.Fprintf(w, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", natoms, len(bonds))
	coords := mol.Coords[0]
	charged := make([]int, 0, 2)
	for i := 0; i < natoms; i++ {
		at := mol.Atom(i)
		c := coords.RawRowView(i)
		if at.Charge != 0 {
			charged = append(charged, i)
		}
		fmt.Fprintf(w, "%10.4f%10.4f%10.4f %-3s 0%3d  0  0  0  0  0  0  0  0  0  0\n", c[0], c[1], c[2], at.Symbol, sdfChargeCode(at.Charge))
	}
	for _, b := range bonds {
		fmt.Fprintf(w, "%3d%3d%3d%3d\n", b.At1.Index()+1, b.At2.Index()+1, sdfBondType(b.Order), b.Stereo)
	}
	for i := 0; i < len(charged); i += 8 {
		end := i + 8
		if end > len(charged) {
			end = len(charged)
		}
		fmt.Fprintf(w, "%s%3d", sdfChargeTag, end-i)
		for _, j := range charged[i:end] {
			fmt.Fprintf(w, " %3d %3d", j+1, int(mol.Atom(j).Charge))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, sdfMolEnd)
	if mol.Properties != nil {
		for _, k := range mol.Properties.Keys() {
			v, _ := mol.Properties.Get(k)
			fmt.Fprintf(w, "> <%s>\n%s\n\n", k, v)
		}
	}
	_, err := fmt.Fprintln(w, sdfEnd)
	return err
}

// SDFWrite writes mols as entries of an SD (V2000) file to out, with their properties as data items.
func SDFWrite(out io.Writer, mols ...*Molecule) error {
	w := bufio.NewWriter(out)
	for i, mol := range mols {
		if err := sdfWriteEntry(w, mol); err != nil {
			return errDecorate(err, fmt.Sprintf("SDFWrite entry %d", i+1))
		}
	}
	if err := w.Flush(); err != nil {
		return newCError("SDFWrite", err, "flushing output")
	}
	return nil
}

// SDFFileWrite writes mols to the SD file name. The output is compressed according to the file extension.
func SDFFileWrite(name string, mols ...*Molecule) error {
	f, err := CreateFile(name)
	if err != nil {
		return errDecorate(err, "SDFFileWrite")
	}
	if err = SDFWrite(f, mols...); err != nil {
		f.Close()
		return errDecorate(err, "SDFFileWrite")
	}
	if err = f.Close(); err != nil {
		return newCError("SDFFileWrite", err, "closing %s", name)
	}
	return nil
}
