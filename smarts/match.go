package smarts

import (
	"fmt"
	"sort"

	"github.com/rmera/dockprep/chemgraph"
)

// matcher holds the state of one search of a pattern in a target.
type matcher struct {
	p      *Pattern
	t      *chemgraph.Topology
	mapped []int  //target atom for each pattern atom
	used   []bool //target atoms already in the embedding
	seen   map[string]bool
	unique bool
	max    int //stop after this many embeddings, 0 means no limit.
	ret    [][]int
}

// FindAll returns every embedding of the pattern in t. Each embedding has one
// target atom index (0-based) per pattern atom, in pattern order. If unique is true,
// only the first embedding found for each distinct set of target atoms is returned.
func (P *Pattern) FindAll(t *chemgraph.Topology, unique bool) [][]int {
	return P.find(t, unique, 0)
}

// Find returns the first embedding of the pattern in t, or nil if the
// pattern doesn't match.
func (P *Pattern) Find(t *chemgraph.Topology) []int {
	r := P.find(t, true, 1)
	if len(r) == 0 {
		return nil
	}
	return r[0]
}

// Matches returns true if the pattern occurs in t.
func (P *Pattern) Matches(t *chemgraph.Topology) bool {
	return P.Find(t) != nil
}

func (P *Pattern) find(t *chemgraph.Topology, unique bool, max int) [][]int {
	if len(P.atoms) == 0 || len(P.atoms) > t.Len() {
		return nil
	}
	m := &matcher{
		p:      P,
		t:      t,
		mapped: make([]int, len(P.atoms)),
		used:   make([]bool, t.Len()),
		seen:   make(map[string]bool),
		unique: unique,
		max:    max,
	}
	m.extend(0)
	return m.ret
}

func (m *matcher) done() bool {
	return m.max > 0 && len(m.ret) >= m.max
}

// extend tries every possible target atom for pattern atom k, and
// recurses to the next pattern atom for each one that fits.
func (m *matcher) extend(k int) {
	if m.done() {
		return
	}
	if k == len(m.p.atoms) {
		m.record()
		return
	}
	var candidates []int
	if parent := m.p.parent[k]; parent >= 0 {
		candidates = m.t.Neighbors(m.mapped[parent])
	} else {
		candidates = make([]int, m.t.Len())
		for i := range candidates {
			candidates[i] = i
		}
	}
	for _, c := range candidates {
		if m.used[c] || !m.fits(k, c) {
			continue
		}
		m.mapped[k] = c
		m.used[c] = true
		m.extend(k + 1)
		m.used[c] = false
		if m.done() {
			return
		}
	}
}

func (m *matcher) fits(k, c int) bool {
	if !m.p.atoms[k].matchAtom(m.t, c) {
		return false
	}
	for _, b := range m.p.back[k] {
		o := m.mapped[b.a1]
		if m.t.Bond(o, c) == nil || !b.expr.matchBond(m.t, o, c) {
			return false
		}
	}
	return true
}

func (m *matcher) record() {
	emb := append([]int(nil), m.mapped...)
	if m.unique {
		set := append([]int(nil), emb...)
		sort.Ints(set)
		id := fmt.Sprint(set)
		if m.seen[id] {
			return
		}
		m.seen[id] = true
	}
	m.ret = append(m.ret, emb)
}
