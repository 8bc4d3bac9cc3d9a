/*
 * chem.go, part of dockprep.
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
	"fmt"

	v3 "github.com/rmera/dockprep/v3"
)

/**Note: Many functions here panic instead of returning errors. This is because they are "fundamental"
 * functions. If something goes wrong here, the program is most likely wrong and should
 * crash. Most panics are related to using the function on a nil object or trying to access out-of bounds
 * fields**/

// Atom contains the atoms read except for the coordinates, which will be in a matrix
// and the b-factors, which are in a separate slice of float64.
type Atom struct {
	Name      string
	ID        int    //The serial number in the file.
	Tag       int    //Just added this for something that someone might want to keep that is not a float.
	MolName   string //Residue name, up to 4 characters.
	MolName1  byte   //the one letter name for residues and nucleotids
	MolID     int
	Chain     string
	AltLoc    string //alternate location indicator.
	ICode     string //residue code, i.e. insertion code and the following column.
	Segment   string
	Mass      float64
	Occupancy float64
	Charge    float64
	Symbol    string
	Het       bool // is hetatm in the pdb file?
	Bonds     []*Bond
	index     int
}

// Copy returns a copy of the Atom object. Bonds are not copied.
func (A *Atom) Copy() *Atom {
	if A == nil {
		panic(ErrNilData)
	}
	Newat := new(Atom)
	*Newat = *A
	Newat.Bonds = nil
	return Newat
}

// Index returns the position of the atom in the last topology
// where FillIndexes was called.
func (A *Atom) Index() int {
	return A.index
}

/*****Topology type***/

// Topology contains information about a molecule which is not expected to change in time (i.e. everything except for coordinates and b-factors)
type Topology struct {
	Atoms  []*Atom
	charge int
}

// NewTopology returns a topology with charge charge and
// the atoms in ats, if given.
func NewTopology(charge int, ats ...[]*Atom) *Topology {
	top := new(Topology)
	top.charge = charge
	if len(ats) > 0 && ats[0] != nil {
		top.Atoms = ats[0]
	} else {
		top.Atoms = make([]*Atom, 0, 10)
	}
	return top
}

/*Topology methods*/

// Charge gets the total charge of the topology
func (T *Topology) Charge() int {
	return T.charge
}

// SetCharge sets the total charge of the topology to i
func (T *Topology) SetCharge(i int) {
	T.charge = i
}

// FillIndexes sets the index of each atom to its position in the topology.
func (T *Topology) FillIndexes() {
	for i, v := range T.Atoms {
		v.index = i
	}
}

// ResetIDs sets the current order of atoms as ID, so the
// serials become 1..Len().
func (T *Topology) ResetIDs() {
	for key := range T.Atoms {
		T.Atoms[key].ID = key + 1
	}
}

// Atom returns the Atom corresponding to the index i
// of the Atom slice in the Topology. Panics if
// out of range.
func (T *Topology) Atom(i int) *Atom {
	if i < 0 || i >= T.Len() {
		panic(ErrAtomOutOfRange)
	}
	return T.Atoms[i]
}

// SetAtom sets the (i+1)th Atom of the topology to aT.
// Panics if out of range
func (T *Topology) SetAtom(i int, at *Atom) {
	if i < 0 || i >= T.Len() {
		panic(ErrAtomOutOfRange)
	}
	T.Atoms[i] = at
}

// AppendAtom appends an atom at the end of the reference
func (T *Topology) AppendAtom(at *Atom) {
	T.Atoms = append(T.Atoms, at)
}

// SomeAtoms fills the topology with copies of the atoms of ref
// whose indexes are in list, in the order of list. Bonds between
// the selected atoms are kept, the rest are discarded.
func (T *Topology) SomeAtoms(ref Atomer, list []int) {
	T.Atoms = make([]*Atom, 0, len(list))
	old2new := make(map[*Atom]*Atom, len(list))
	for _, i := range list {
		orig := ref.Atom(i)
		at := orig.Copy()
		old2new[orig] = at
		T.Atoms = append(T.Atoms, at)
	}
	seen := make(map[*Bond]bool)
	for _, i := range list {
		for _, b := range ref.Atom(i).Bonds {
			if seen[b] {
				continue
			}
			at1, ok1 := old2new[b.At1]
			at2, ok2 := old2new[b.At2]
			if !ok1 || !ok2 {
				continue
			}
			seen[b] = true
			nb := &Bond{Index: b.Index, At1: at1, At2: at2, Order: b.Order, Stereo: b.Stereo}
			at1.Bonds = append(at1.Bonds, nb)
			at2.Bonds = append(at2.Bonds, nb)
		}
	}
	T.FillIndexes()
}

// Bonds returns all the bonds in the topology, each bond once,
// sorted by their index.
func (T *Topology) Bonds() []*Bond {
	seen := make(map[*Bond]bool)
	ret := make([]*Bond, 0, len(T.Atoms))
	for _, at := range T.Atoms {
		for _, b := range at.Bonds {
			if !seen[b] {
				seen[b] = true
				ret = append(ret, b)
			}
		}
	}
	sortBonds(ret)
	return ret
}

// Len returns the number of atoms in the topology.
func (T *Topology) Len() int {
	return len(T.Atoms)
}

/**Type Molecule**/

// Molecule contains all the info for a molecule in many states. The info that is expected to change between states,
// Coordinates and b-factors are stored separately from other atomic info.
type Molecule struct {
	*Topology
	Coords     []*v3.Matrix
	Bfactors   [][]float64
	Properties *Properties
	title      string
	comments   []string //the second and third header lines of an SD entry.
}

// NewMolecule makes a molecule with ats atoms, coords coordinates, bfactors b-factors
// and returns it. It returns error if ats is nil or if the number of atoms
// does not match the number of coordinates or b-factors in any frame.
// A nil bfactors slice is filled with zeros.
func NewMolecule(ats *Topology, coords []*v3.Matrix, bfactors [][]float64) (*Molecule, error) {
	if ats == nil {
		return nil, newCError("NewMolecule", nil, "Supplied a nil Topology")
	}
	if len(coords) == 0 {
		return nil, newCError("NewMolecule", nil, "Supplied an empty coordinates slice")
	}
	if bfactors == nil {
		bfactors = make([][]float64, len(coords))
		for i := range bfactors {
			bfactors[i] = make([]float64, ats.Len())
		}
	}
	if len(bfactors) != len(coords) {
		return nil, newCError("NewMolecule", nil, "%d coordinate frames but %d b-factor frames", len(coords), len(bfactors))
	}
	for i, c := range coords {
		if c.NVecs() != ats.Len() {
			return nil, newCError("NewMolecule", nil, "Frame %d has %d coordinates for %d atoms", i, c.NVecs(), ats.Len())
		}
		if len(bfactors[i]) != ats.Len() {
			return nil, newCError("NewMolecule", nil, "Frame %d has %d b-factors for %d atoms", i, len(bfactors[i]), ats.Len())
		}
	}
	ats.FillIndexes()
	mol := &Molecule{Topology: ats, Coords: coords, Bfactors: bfactors, Properties: NewProperties()}
	return mol, nil
}

// Title returns the title of the molecule.
func (M *Molecule) Title() string {
	return M.title
}

// SetTitle sets the title of the molecule.
func (M *Molecule) SetTitle(t string) {
	M.title = t
}

// Coord returns a view of the coordinates of atom i in frame.
func (M *Molecule) Coord(i, frame int) *v3.Matrix {
	if frame < 0 || frame >= len(M.Coords) || i < 0 || i >= M.Coords[frame].NVecs() {
		panic(ErrCoordOutOfRange)
	}
	return M.Coords[frame].VecView(i)
}

// Frames returns the number of coordinate sets in the molecule.
func (M *Molecule) Frames() int {
	return len(M.Coords)
}

// Select returns a new molecule with copies of the atoms whose indexes
// are in list, and their coordinates and b-factors from every frame.
// The title and properties are copied.
func (M *Molecule) Select(list []int) (*Molecule, error) {
	top := NewTopology(M.Charge())
	top.SomeAtoms(M, list)
	coords := make([]*v3.Matrix, len(M.Coords))
	bfac := make([][]float64, len(M.Coords))
	for i, c := range M.Coords {
		coords[i] = v3.Zeros(len(list))
		if err := coords[i].SomeVecsSafe(c, list); err != nil {
			return nil, errDecorate(err, "Select")
		}
		bfac[i] = make([]float64, len(list))
		for j, v := range list {
			bfac[i][j] = M.Bfactors[i][v]
		}
	}
	ret, err := NewMolecule(top, coords, bfac)
	if err != nil {
		return nil, errDecorate(err, "Select")
	}
	ret.title = M.title
	ret.comments = append([]string(nil), M.comments...)
	ret.Properties = M.Properties.Copy()
	return ret, nil
}

// String returns a short description of the molecule.
func (M *Molecule) String() string {
	return fmt.Sprintf("%q: %d atoms, %d frames", M.title, M.Len(), len(M.Coords))
}

// Properties is an ordered property bag, the equivalent to the data items
// of an SD file entry.
type Properties struct {
	keys   []string
	values map[string]string
}

// NewProperties returns an empty property bag.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]string)}
}

// Get returns the value of the property key, and whether it was present.
func (P *Properties) Get(key string) (string, bool) {
	v, ok := P.values[key]
	return v, ok
}

// Set sets the property key to value. New keys are appended after the existing ones,
// existing keys keep their position.
func (P *Properties) Set(key, value string) {
	if _, ok := P.values[key]; !ok {
		P.keys = append(P.keys, key)
	}
	P.values[key] = value
}

// Keys returns the property names in insertion order.
func (P *Properties) Keys() []string {
	return append([]string(nil), P.keys...)
}

func (P *Properties) Len() int {
	return len(P.keys)
}

// Copy returns a copy of the property bag.
func (P *Properties) Copy() *Properties {
	ret := NewProperties()
	if P == nil {
		return ret
	}
	for _, k := range P.keys {
		ret.Set(k, P.values[k])
	}
	return ret
}
