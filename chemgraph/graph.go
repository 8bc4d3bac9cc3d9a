package chemgraph

import (
	"fmt"
	"math"
	"sort"

	chem "github.com/rmera/dockprep"
	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/path"
	"gonum.org/v1/gonum/graph/simple"
)

// Bonded is a topology whose atoms can be re-indexed, so
// the bonds can be mapped to atom positions.
type Bonded interface {
	chem.Atomer
	FillIndexes()
}

type edgeKey [2]int

func key(i, j int) edgeKey {
	if i > j {
		i, j = j, i
	}
	return edgeKey{i, j}
}

// Topology is the bond graph of a molecule, with perceived rings and aromaticity.
// Nodes are the indexes of the atoms in the original topology.
type Topology struct {
	mol       chem.Atomer
	g         *simple.UndirectedGraph
	neighbors [][]int
	bonds     map[edgeKey]*chem.Bond
	rings     [][]int
	atomRings [][]int //indexes in rings of the rings containing each atom
	ringBonds map[edgeKey]bool
	aroAtoms  []bool
	aroBonds  map[edgeKey]bool
	implicitH []int
}

// TopologyFromChem builds the graph for mol, finds its smallest rings and perceives
// aromaticity. It panics if a bond joins atoms that are not in mol.
func TopologyFromChem(mol Bonded) *Topology {
	mol.FillIndexes()
	n := mol.Len()
	T := &Topology{
		mol:       mol,
		g:         simple.NewUndirectedGraph(),
		neighbors: make([][]int, n),
		bonds:     make(map[edgeKey]*chem.Bond),
		atomRings: make([][]int, n),
		ringBonds: make(map[edgeKey]bool),
		aroAtoms:  make([]bool, n),
		aroBonds:  make(map[edgeKey]bool),
		implicitH: make([]int, n),
	}
	for i := 0; i < n; i++ {
		T.g.AddNode(simple.Node(i))
	}
	for i := 0; i < n; i++ {
		at := mol.Atom(i)
		for _, b := range at.Bonds {
			j := b.Cross(at).Index()
			if j < 0 || j >= n || mol.Atom(j) != b.Cross(at) {
				panic(fmt.Sprintf("TopologyFromChem: Bond %d has at least one non-existent atom", b.Index))
			}
			k := key(i, j)
			if _, ok := T.bonds[k]; ok {
				continue
			}
			T.bonds[k] = b
			T.g.SetEdge(simple.Edge{F: simple.Node(i), T: simple.Node(j)})
		}
	}
	for i := 0; i < n; i++ {
		for _, nb := range graph.NodesOf(T.g.From(int64(i))) {
			T.neighbors[i] = append(T.neighbors[i], int(nb.ID()))
		}
		sort.Ints(T.neighbors[i])
	}
	for i := 0; i < n; i++ {
		T.implicitH[i] = T.computeImplicitH(i)
	}
	T.findRings()
	T.perceiveAromaticity()
	return T
}

// Len returns the number of atoms.
func (T *Topology) Len() int {
	return T.mol.Len()
}

// Atom returns the atom i of the original topology.
func (T *Topology) Atom(i int) *chem.Atom {
	return T.mol.Atom(i)
}

// Neighbors returns the indexes of the atoms bonded to i, in increasing order.
// The returned slice must not be modified.
func (T *Topology) Neighbors(i int) []int {
	return T.neighbors[i]
}

// Bond returns the bond between i and j, or nil if they are not bonded.
func (T *Topology) Bond(i, j int) *chem.Bond {
	return T.bonds[key(i, j)]
}

// Degree returns the number of explicit connections of atom i.
func (T *Topology) Degree(i int) int {
	return len(T.neighbors[i])
}

// ImplicitH returns the number of hydrogens of atom i that are not
// present as atoms, according to the default valences of its element.
func (T *Topology) ImplicitH(i int) int {
	return T.implicitH[i]
}

// TotalH returns the number of hydrogens attached to atom i, explicit or implicit.
func (T *Topology) TotalH(i int) int {
	h := T.implicitH[i]
	for _, j := range T.neighbors[i] {
		if T.Atom(j).Symbol == "H" {
			h++
		}
	}
	return h
}

func (T *Topology) computeImplicitH(i int) int {
	at := T.Atom(i)
	valences := chem.Valences(at.Symbol)
	if valences == nil {
		return 0
	}
	sum := 0.0
	for _, j := range T.neighbors[i] {
		o := T.Bond(i, j).Order
		if o == 0 {
			return 0 //undetermined orders, we can't say.
		}
		sum += o
	}
	used := int(math.Ceil(sum - 1e-6))
	charge := int(math.Round(at.Charge))
	for _, v := range valences {
		target := v + charge
		if at.Symbol == "C" || at.Symbol == "B" {
			target = v - absInt(charge)
		}
		if target >= used {
			return target - used
		}
	}
	return 0
}

func absInt(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// findRings collects, for every bond, the smallest ring that contains it.
// Rings with the same atoms are kept once.
func (T *Topology) findRings() {
	seen := make(map[string]bool)
	keys := make([]edgeKey, 0, len(T.bonds))
	for k := range T.bonds {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		if keys[a][0] != keys[b][0] {
			return keys[a][0] < keys[b][0]
		}
		return keys[a][1] < keys[b][1]
	})
	for _, k := range keys {
		u, v := int64(k[0]), int64(k[1])
		T.g.RemoveEdge(u, v)
		shortest := path.DijkstraFrom(simple.Node(u), T.g)
		p, _ := shortest.To(v)
		T.g.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
		if len(p) < 3 {
			continue
		}
		ring := make([]int, len(p))
		for i, nd := range p {
			ring[i] = int(nd.ID())
		}
		id := ringID(ring)
		if seen[id] {
			continue
		}
		seen[id] = true
		r := len(T.rings)
		T.rings = append(T.rings, ring)
		for _, a := range ring {
			T.atomRings[a] = append(T.atomRings[a], r)
		}
		for _, b := range ringEdges(ring) {
			T.ringBonds[b] = true
		}
	}
}

func ringID(ring []int) string {
	s := append([]int(nil), ring...)
	sort.Ints(s)
	return fmt.Sprint(s)
}

// ringEdges returns the bonds of a ring given as a closed path.
func ringEdges(ring []int) []edgeKey {
	ret := make([]edgeKey, 0, len(ring))
	for i := range ring {
		ret = append(ret, key(ring[i], ring[(i+1)%len(ring)]))
	}
	return ret
}

// Rings returns the rings found, each as a closed path of atom indexes.
func (T *Topology) Rings() [][]int {
	return T.rings
}

// InRings returns the number of rings containing atom i.
func (T *Topology) InRings(i int) int {
	return len(T.atomRings[i])
}

// SmallestRing returns the size of the smallest ring containing
// atom i, or 0 if the atom is not in a ring.
func (T *Topology) SmallestRing(i int) int {
	min := 0
	for _, r := range T.atomRings[i] {
		if l := len(T.rings[r]); min == 0 || l < min {
			min = l
		}
	}
	return min
}

// RingSizes returns the sizes of the rings containing atom i.
func (T *Topology) RingSizes(i int) []int {
	ret := make([]int, 0, len(T.atomRings[i]))
	for _, r := range T.atomRings[i] {
		ret = append(ret, len(T.rings[r]))
	}
	return ret
}

// InRingOfSize returns true if atom i is in a ring of exactly size atoms.
func (T *Topology) InRingOfSize(i, size int) bool {
	for _, r := range T.atomRings[i] {
		if len(T.rings[r]) == size {
			return true
		}
	}
	return false
}

// BondInRing returns true if the bond between i and j is part of a ring.
func (T *Topology) BondInRing(i, j int) bool {
	return T.ringBonds[key(i, j)]
}

// Aromatic returns true if atom i is in an aromatic ring.
func (T *Topology) Aromatic(i int) bool {
	return T.aroAtoms[i]
}

// BondAromatic returns true if the bond between i and j is in an aromatic ring, or was given as
// aromatic in the structure file.
func (T *Topology) BondAromatic(i, j int) bool {
	return T.aroBonds[key(i, j)]
}
