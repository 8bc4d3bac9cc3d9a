package smarts

import (
	"errors"
	"testing"

	chem "github.com/rmera/dockprep"
	"github.com/rmera/dockprep/chemgraph"
)

const dir string = "../testdata"

func ligands(Te *testing.T) []*chemgraph.Topology {
	mols, err := chem.SDFFileRead(dir + "/uracil.sdf")
	if err != nil {
		Te.Fatal(err)
	}
	ret := make([]*chemgraph.Topology, len(mols))
	for i, m := range mols {
		ret[i] = chemgraph.TopologyFromChem(m)
	}
	return ret
}

func TestUracil(Te *testing.T) {
	tops := ligands(Te)
	uracil, benzene := tops[0], tops[1]
	p := MustCompile("[H]c1c(=O)n([H])c(=O)nc1[H]")
	if p.Len() != 11 {
		Te.Errorf("expected 11 pattern atoms, got %d", p.Len())
	}
	all := p.FindAll(uracil, true)
	if len(all) != 1 {
		Te.Fatalf("expected one unique embedding, got %v", all)
	}
	expected := []int{10, 6, 4, 5, 3, 9, 1, 2, 0, 7, 11}
	for i, v := range expected {
		if all[0][i] != v {
			Te.Fatalf("wrong embedding %v, expected %v", all[0], expected)
		}
	}
	//The C4 carbon, the third atom in the pattern.
	if all[0][2] != 4 {
		Te.Errorf("pattern atom 2 should map to atom 4, got %d", all[0][2])
	}
	if p.Matches(benzene) {
		Te.Error("the uracil pattern should not match benzene")
	}
	if p.Find(benzene) != nil {
		Te.Error("Find should return nil when there is no match")
	}
}

func TestFindAll(Te *testing.T) {
	tops := ligands(Te)
	uracil, benzene := tops[0], tops[1]
	cases := []struct {
		pattern string
		target  *chemgraph.Topology
		unique  bool
		n       int
	}{
		{"c1ccccc1", benzene, true, 1},
		{"c1ccccc1", benzene, false, 12},
		{"C", benzene, true, 0},
		{"c", benzene, true, 6},
		{"[#6-]", benzene, true, 1},
		{"[c;+0]", benzene, true, 5},
		{"[nH]", uracil, true, 2},
		{"[n;H0]", uracil, true, 0},
		{"O=c", uracil, true, 2},
		{"[OX1]=[#6]", uracil, true, 2},
		{"c:c", uracil, true, 2},
		{"c:c", uracil, false, 4},
		{"c=c", uracil, true, 0},
		{"[c,n]", uracil, true, 6},
		{"[!#1]", uracil, true, 8},
		{"[R]", uracil, true, 6},
		{"[r6]", uracil, true, 6},
		{"[r5]", uracil, true, 0},
		{"[D3]", uracil, true, 6},
		{"*@*", uracil, true, 6},
		{"*!@*", uracil, true, 6},
		{"[H].[H]", uracil, true, 6},
		{"[#6:1]~[#8:2]", uracil, true, 2},
	}
	for _, c := range cases {
		p, err := Compile(c.pattern)
		if err != nil {
			Te.Errorf("%s: %v", c.pattern, err)
			continue
		}
		if n := len(p.FindAll(c.target, c.unique)); n != c.n {
			Te.Errorf("%s (unique %v): expected %d matches, got %d", c.pattern, c.unique, c.n, n)
		}
	}
}

func TestParseErrors(Te *testing.T) {
	bad := []string{"", "C(", "C)", "[C", "C1CC", "[$(C)]", "[13C]", "C=", "Q", "(C)", "C..C", "[Xq]"}
	for _, s := range bad {
		_, err := Compile(s)
		if err == nil {
			Te.Errorf("pattern %q should not compile", s)
			continue
		}
		var perr *ParseError
		if !errors.As(err, &perr) {
			Te.Errorf("pattern %q: expected a *ParseError, got %T", s, err)
		}
	}
	defer func() {
		if r := recover(); r == nil {
			Te.Error("MustCompile should panic on a bad pattern")
		}
	}()
	MustCompile("C(")
}
