package smarts

import (
	"math"

	chem "github.com/rmera/dockprep"
	"github.com/rmera/dockprep/chemgraph"
)

// atomExpr is a test on one atom of the target.
type atomExpr interface {
	matchAtom(T *chemgraph.Topology, i int) bool
}

// atomPrim is a primitive atom test, like "aromatic" or "has 2 hydrogens".
type atomPrim func(T *chemgraph.Topology, i int) bool

func (f atomPrim) matchAtom(T *chemgraph.Topology, i int) bool { return f(T, i) }

type atomNot struct{ e atomExpr }

func (n atomNot) matchAtom(T *chemgraph.Topology, i int) bool { return !n.e.matchAtom(T, i) }

type atomAnd struct{ l, r atomExpr }

func (a atomAnd) matchAtom(T *chemgraph.Topology, i int) bool {
	return a.l.matchAtom(T, i) && a.r.matchAtom(T, i)
}

type atomOr struct{ l, r atomExpr }

func (o atomOr) matchAtom(T *chemgraph.Topology, i int) bool {
	return o.l.matchAtom(T, i) || o.r.matchAtom(T, i)
}

// bondExpr is a test on the bond between two atoms of the target.
// The atoms are known to be bonded when it is called.
type bondExpr interface {
	matchBond(T *chemgraph.Topology, i, j int) bool
}

type bondPrim func(T *chemgraph.Topology, i, j int) bool

func (f bondPrim) matchBond(T *chemgraph.Topology, i, j int) bool { return f(T, i, j) }

type bondNot struct{ e bondExpr }

func (n bondNot) matchBond(T *chemgraph.Topology, i, j int) bool { return !n.e.matchBond(T, i, j) }

type bondAnd struct{ l, r bondExpr }

func (a bondAnd) matchBond(T *chemgraph.Topology, i, j int) bool {
	return a.l.matchBond(T, i, j) && a.r.matchBond(T, i, j)
}

type bondOr struct{ l, r bondExpr }

func (o bondOr) matchBond(T *chemgraph.Topology, i, j int) bool {
	return o.l.matchBond(T, i, j) || o.r.matchBond(T, i, j)
}

/**Atom primitives**/

func anyAtom(T *chemgraph.Topology, i int) bool { return true }

func aromatic(T *chemgraph.Topology, i int) bool { return T.Aromatic(i) }

func aliphatic(T *chemgraph.Topology, i int) bool { return !T.Aromatic(i) }

func element(symbol string) atomPrim {
	return func(T *chemgraph.Topology, i int) bool { return T.Atom(i).Symbol == symbol }
}

func atomicNumber(n int) atomPrim {
	return func(T *chemgraph.Topology, i int) bool {
		return chem.AtomicNumber(T.Atom(i).Symbol) == n
	}
}

func totalH(n int) atomPrim {
	return func(T *chemgraph.Topology, i int) bool { return T.TotalH(i) == n }
}

func implicitH(n int) atomPrim {
	return func(T *chemgraph.Topology, i int) bool { return T.ImplicitH(i) == n }
}

// some implicit hydrogen, for a bare "h".
func anyImplicitH(T *chemgraph.Topology, i int) bool { return T.ImplicitH(i) > 0 }

func degree(n int) atomPrim {
	return func(T *chemgraph.Topology, i int) bool { return T.Degree(i) == n }
}

func connectivity(n int) atomPrim {
	return func(T *chemgraph.Topology, i int) bool { return T.Degree(i)+T.ImplicitH(i) == n }
}

func inRing(T *chemgraph.Topology, i int) bool { return T.InRings(i) > 0 }

func ringCount(n int) atomPrim {
	return func(T *chemgraph.Topology, i int) bool { return T.InRings(i) == n }
}

func ringSize(n int) atomPrim {
	return func(T *chemgraph.Topology, i int) bool { return T.InRingOfSize(i, n) }
}

func charge(n int) atomPrim {
	return func(T *chemgraph.Topology, i int) bool { return int(math.Round(T.Atom(i).Charge)) == n }
}

/**Bond primitives**/

func bondOrder(o float64) bondPrim {
	return func(T *chemgraph.Topology, i, j int) bool {
		return !T.BondAromatic(i, j) && T.Bond(i, j).Order == o
	}
}

func aromaticBond(T *chemgraph.Topology, i, j int) bool { return T.BondAromatic(i, j) }

func anyBond(T *chemgraph.Topology, i, j int) bool { return true }

func ringBond(T *chemgraph.Topology, i, j int) bool { return T.BondInRing(i, j) }

// the bond implied when no bond is written: single or aromatic.
var defaultBond bondExpr = bondOr{bondOrder(1), bondPrim(aromaticBond)}
