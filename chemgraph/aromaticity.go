package chemgraph

import (
	"math"

	chem "github.com/rmera/dockprep"
)

// perceiveAromaticity marks the atoms and bonds of aromatic rings. A ring is
// aromatic if all its bonds were given as aromatic, or if it has 4n+2 pi electrons.
// Pairs of fused rings (sharing one bond) are also tested as a single system.
func (T *Topology) perceiveAromaticity() {
	for k, b := range T.bonds {
		if b.Aromatic() {
			T.aroBonds[k] = true
			T.aroAtoms[k[0]] = true
			T.aroAtoms[k[1]] = true
		}
	}
	for _, r := range T.rings {
		edges := ringEdges(r)
		if T.allAromatic(edges) || T.huckel(r) {
			T.markAromatic(r, edges)
		}
	}
	for i := 0; i < len(T.rings); i++ {
		for j := i + 1; j < len(T.rings); j++ {
			atoms, edges, ok := T.fuse(T.rings[i], T.rings[j])
			if !ok || T.allAromatic(edges) {
				continue
			}
			if T.huckel(atoms) {
				T.markAromatic(atoms, edges)
			}
		}
	}
}

func (T *Topology) markAromatic(atoms []int, edges []edgeKey) {
	for _, a := range atoms {
		T.aroAtoms[a] = true
	}
	for _, e := range edges {
		T.aroBonds[e] = true
	}
}

func (T *Topology) allAromatic(edges []edgeKey) bool {
	for _, e := range edges {
		if !T.aroBonds[e] {
			return false
		}
	}
	return true
}

// fuse returns the atoms and bonds of two rings that share exactly one bond.
func (T *Topology) fuse(r1, r2 []int) ([]int, []edgeKey, bool) {
	in1 := make(map[int]bool, len(r1))
	for _, a := range r1 {
		in1[a] = true
	}
	shared := 0
	atoms := append([]int(nil), r1...)
	for _, a := range r2 {
		if in1[a] {
			shared++
			continue
		}
		atoms = append(atoms, a)
	}
	if shared != 2 {
		return nil, nil, false
	}
	edges := make([]edgeKey, 0, len(r1)+len(r2))
	seen := make(map[edgeKey]bool)
	for _, e := range append(ringEdges(r1), ringEdges(r2)...) {
		if !seen[e] {
			seen[e] = true
			edges = append(edges, e)
		}
	}
	return atoms, edges, true
}

// huckel returns true if the ring system formed by atoms has 4n+2 pi electrons.
func (T *Topology) huckel(atoms []int) bool {
	in := make(map[int]bool, len(atoms))
	for _, a := range atoms {
		in[a] = true
	}
	total := 0
	for _, a := range atoms {
		e := T.piElectrons(a, in)
		if e < 0 {
			return false
		}
		total += e
	}
	return total >= 2 && (total-2)%4 == 0
}

// piElectrons returns the number of electrons atom i contributes to the
// ring system, or -1 if the atom can't be part of an aromatic system.
func (T *Topology) piElectrons(i int, system map[int]bool) int {
	at := T.Atom(i)
	charge := int(math.Round(at.Charge))
	double := false
	exocyclic := false
	for _, j := range T.neighbors[i] {
		b := T.Bond(i, j)
		switch b.Order {
		case 3:
			return -1
		case chem.AromaticOrder:
			if system[j] {
				double = true
			}
		case 2:
			if system[j] {
				double = true
				continue
			}
			switch T.Atom(j).Symbol {
			case "O", "S", "N", "Se":
				exocyclic = true
			default:
				return -1
			}
		}
	}
	if double {
		return 1
	}
	if exocyclic {
		if at.Symbol == "C" {
			return 0
		}
		return -1
	}
	connections := T.Degree(i) + T.implicitH[i]
	switch at.Symbol {
	case "N", "P":
		if charge == 0 && connections == 3 {
			return 2
		}
	case "O", "S", "Se":
		if charge == 0 && connections == 2 {
			return 2
		}
	case "C":
		if charge == -1 {
			return 2
		}
		if charge == 1 {
			return 0
		}
	case "B":
		if connections == 3 {
			return 0
		}
	}
	return -1
}
