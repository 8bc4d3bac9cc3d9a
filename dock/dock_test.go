package dock

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"testing"

	chem "github.com/rmera/dockprep"
	v3 "github.com/rmera/dockprep/v3"
)

const dir string = "../testdata"

// receptor returns a molecule with one zinc atom at each of the given positions.
func receptor(Te *testing.T, title string, coords []float64) *chem.Molecule {
	top := chem.NewTopology(0)
	for i := 0; i < len(coords)/3; i++ {
		top.AppendAtom(&chem.Atom{Name: "ZN", Symbol: "Zn", MolName: "ZN", ID: i + 1, MolID: i + 1})
	}
	c, err := v3.NewMatrix(coords)
	if err != nil {
		Te.Fatal(err)
	}
	mol, err := chem.NewMolecule(top, []*v3.Matrix{c}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	mol.SetTitle(title)
	return mol
}

func ligands(Te *testing.T) []*chem.Molecule {
	mols, err := chem.SDFFileRead(dir + "/uracil.sdf")
	if err != nil {
		Te.Fatal(err)
	}
	return mols
}

func quiet(Te *testing.T) *bytes.Buffer {
	var b bytes.Buffer
	Log.SetOutput(&b)
	Te.Cleanup(func() { Log.SetOutput(os.Stderr) })
	return &b
}

// The C4 atom of the uracil in the test file is at (0, -1.4, 0).
func TestUpdateDockingSites(Te *testing.T) {
	quiet(Te)
	rec := receptor(Te, "test", []float64{
		10, 10, 10,
		0, -1.4, 5,
		20, 20, 20,
		0, -1.4, 3,
		0, -1.4, -3,
	})
	ligs := ligands(Te)
	sites := Sites{2: "far", 4: "near", 5: "tie"}
	as, err := UpdateDockingSites(rec, ligs, sites, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(as) != 1 {
		Te.Fatalf("expected one assignment (benzene doesn't match), got %v", as)
	}
	a := as[0]
	if a.Ligand != 0 || a.Key != "U" || a.LigandAtom != 4 || a.ReceptorAtom != 4 || a.Label != "near" {
		Te.Errorf("wrong assignment %v", a)
	}
	if math.Abs(a.Distance-3) > 1e-9 {
		Te.Errorf("expected a distance of 3, got %f", a.Distance)
	}
	if v, ok := ligs[0].Properties.Get(PropertyName); !ok || v != "near" {
		Te.Errorf("property not set: %q", v)
	}
	if _, ok := ligs[1].Properties.Get(PropertyName); ok {
		Te.Error("the property should not be set on a ligand that doesn't match")
	}
	if v, _ := ligs[0].Properties.Get("r_i_docking_score"); v != "-7.25" {
		Te.Errorf("other properties should be kept, got %q", v)
	}
}

func TestThreshold(Te *testing.T) {
	quiet(Te)
	rec := receptor(Te, "test", []float64{0, -1.4, 6, 0, -1.4, -6})
	ligs := ligands(Te)
	as, err := UpdateDockingSites(rec, ligs, Sites{1: "A", 2: "B"}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	//Both sites are exactly at the threshold, the first is reported but the label is "0".
	if len(as) != 1 || as[0].Label != NoSite || as[0].ReceptorAtom != 1 {
		Te.Fatalf("wrong assignment %v", as)
	}
	if v, _ := ligs[0].Properties.Get(PropertyName); v != NoSite {
		Te.Errorf("expected %q, got %q", NoSite, v)
	}
	cfg := DefaultConfig()
	cfg.MaxDistance = 6.5
	if as, _ = UpdateDockingSites(rec, ligs, Sites{1: "A", 2: "B"}, cfg); as[0].Label != "A" {
		Te.Errorf("with a larger threshold the site should be A, got %v", as[0])
	}
	//no sites
	as, err = UpdateDockingSites(rec, ligs, Sites{}, nil)
	if err != nil {
		Te.Fatal(err)
	}
	if len(as) != 1 || as[0].Label != NoSite || as[0].ReceptorAtom != 0 {
		Te.Errorf("wrong assignment with no sites %v", as)
	}
	if _, err = UpdateDockingSites(rec, ligs, Sites{3: "C"}, nil); err == nil {
		Te.Error("a site atom outside the receptor should be an error")
	}
}

func TestSkippedPatterns(Te *testing.T) {
	logged := quiet(Te)
	rec := receptor(Te, "test", []float64{0, -1.4, 1})
	ligs := ligands(Te)
	cfg := DefaultConfig()
	cfg.Ligands = []LigandMatch{
		{Key: "bad", SMARTS: "c1cc(", Index: 1},
		{Key: "B", SMARTS: "c1ccccc1", Index: 2},
		{Key: "U", SMARTS: "[H]c1c(=O)n([H])c(=O)nc1[H]", Index: 3},
	}
	as, err := UpdateDockingSites(rec, ligs, Sites{1: "S"}, cfg)
	if err != nil {
		Te.Fatal(err)
	}
	if len(as) != 2 || as[0].Ligand != 0 || as[0].Key != "U" || as[1].Ligand != 1 || as[1].Key != "B" {
		Te.Fatalf("wrong assignments %v", as)
	}
	//benzene's second atom is at (0.6985, 1.2098, 0)
	expected := math.Sqrt(0.6985*0.6985 + 2.6098*2.6098 + 1)
	if as[1].LigandAtom != 1 || math.Abs(as[1].Distance-expected) > 1e-6 || as[1].Label != "S" {
		Te.Errorf("wrong benzene assignment %v", as[1])
	}
	if logged.Len() == 0 {
		Te.Error("the bad pattern should have been logged")
	}
}

func TestFromEntries(Te *testing.T) {
	quiet(Te)
	cfg := DefaultConfig()
	cfg.Receptors = append(cfg.Receptors, ReceptorSites{Match: "MyRec", Sites: Sites{1: "X"}})
	rec := receptor(Te, "prepared MYREC model", []float64{0, -1.4, 2})
	ligs := ligands(Te)
	as, err := FromEntries([]*chem.Molecule{rec}, ligs, cfg)
	if err != nil {
		Te.Fatal(err)
	}
	if len(as) != 1 || as[0].Label != "X" {
		Te.Errorf("wrong assignments %v", as)
	}
	two := []*chem.Molecule{rec, rec}
	ligs = ligands(Te)
	if as, err = FromEntries(two, ligs, cfg); as != nil || err != nil {
		Te.Errorf("nothing should be done with two receptors, got %v %v", as, err)
	}
	if _, ok := ligs[0].Properties.Get(PropertyName); ok {
		Te.Error("the ligands should not be modified with two receptors")
	}
	//7o4e sites are beyond this receptor's atoms.
	rec.SetTitle("7O4E")
	if _, err = FromEntries([]*chem.Molecule{rec}, ligs, nil); err == nil {
		Te.Error("expected an error for site atoms outside the receptor")
	}
}

func TestConfig(Te *testing.T) {
	c := DefaultConfig()
	if err := c.Validate(); err != nil {
		Te.Fatal(err)
	}
	if s := c.SiteAtoms("Structure of 7O4E, chain A"); len(s) != 4 || s[2101] != "A:Zn2" {
		Te.Errorf("wrong sites for 7o4e: %v", s)
	}
	if s := c.SiteAtoms("1abc"); len(s) != 0 {
		Te.Errorf("expected no sites, got %v", s)
	}
	if idx := c.SiteAtoms("7o4e").Indexes(); len(idx) != 4 || idx[0] != 2100 || idx[3] != 2103 {
		Te.Errorf("wrong site order %v", idx)
	}
	name := filepath.Join(Te.TempDir(), "sites.json")
	js := `{"max_distance": 4.5, "receptors": [{"match": "abc", "sites": {"12": "X", "3": "Y"}}]}`
	if err := os.WriteFile(name, []byte(js), 0644); err != nil {
		Te.Fatal(err)
	}
	c, err := LoadConfig(name)
	if err != nil {
		Te.Fatal(err)
	}
	if c.MaxDistance != 4.5 || c.Property != PropertyName || len(c.Ligands) != 1 {
		Te.Errorf("wrong configuration %+v", c)
	}
	if s := c.SiteAtoms("xABCx"); s[12] != "X" || s[3] != "Y" {
		Te.Errorf("wrong sites %v", s)
	}
	bad := []string{
		`{"max_distance": -1}`,
		`{"ligands": [{"key": "U", "smarts": "C", "index": 0}]}`,
		`{"receptors": [{"match": "", "sites": {}}]}`,
		`{"unknown": 1}`,
	}
	for _, v := range bad {
		if err := os.WriteFile(name, []byte(v), 0644); err != nil {
			Te.Fatal(err)
		}
		if _, err := LoadConfig(name); err == nil {
			Te.Errorf("configuration %s should be rejected", v)
		}
	}
}

func TestSummarize(Te *testing.T) {
	as := []Assignment{
		{Label: "A", ReceptorAtom: 1, Distance: 3},
		{Label: "A", ReceptorAtom: 1, Distance: 5},
		{Label: NoSite, ReceptorAtom: 2, Distance: 7},
		{Label: NoSite, Distance: -1},
	}
	S := Summarize(as)
	if S.Counts["A"] != 2 || S.Counts[NoSite] != 2 || S.N != 3 {
		Te.Errorf("wrong counts %v", S)
	}
	if S.Mean != 5 || S.Min != 3 || S.Max != 7 || math.Abs(S.StdDev-2) > 1e-9 {
		Te.Errorf("wrong statistics %v", S)
	}
	if l := S.Labels(); len(l) != 2 || l[0] != NoSite {
		Te.Errorf("wrong labels %v", l)
	}
	if S = Summarize(nil); S.N != 0 || len(S.Counts) != 0 {
		Te.Errorf("wrong empty summary %v", S)
	}
}
