/*
 * bonds.go, part of dockprep.
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
	"sort"
)

// Bond order used for aromatic bonds, as given in SD files (bond type 4).
const AromaticOrder = 1.5

// Bond joins two atoms of a topology.
type Bond struct {
	Index  int
	At1    *Atom
	At2    *Atom
	Order  float64 //Order 0 means undetermined
	Stereo int     //The stereo field of the SD file, kept for writing back.
}

// Cross returns the atom bonded to origin through B.
func (B *Bond) Cross(origin *Atom) *Atom {
	if origin == B.At1 {
		return B.At2
	}
	if origin == B.At2 {
		return B.At1
	}
	panic("Trying to cross a bond: The origin atom given is not present in the bond!") //This got to be a programming error, so a panic is warranted.
}

// Aromatic returns true if the bond was given as aromatic in its file.
func (B *Bond) Aromatic() bool {
	return B.Order == AromaticOrder
}

// AddBond creates a bond of the given order between the atoms i and j of
// T and adds it to both atoms. It returns the new bond.
func (T *Topology) AddBond(i, j int, order float64) *Bond {
	at1 := T.Atom(i)
	at2 := T.Atom(j)
	b := &Bond{Index: T.nextBondIndex(), At1: at1, At2: at2, Order: order}
	at1.Bonds = append(at1.Bonds, b)
	at2.Bonds = append(at2.Bonds, b)
	return b
}

func (T *Topology) nextBondIndex() int {
	next := 0
	for _, at := range T.Atoms {
		for _, b := range at.Bonds {
			if b.Index >= next {
				next = b.Index + 1
			}
		}
	}
	return next
}

func sortBonds(b []*Bond) {
	sort.SliceStable(b, func(i, j int) bool { return b[i].Index < b[j].Index })
}
