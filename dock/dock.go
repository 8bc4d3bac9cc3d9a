// Package dock labels docked ligands with the receptor site they are bound to.
// A ligand is identified by a SMARTS pattern, and the distance from one atom of the
// match to each of the site atoms of the receptor decides the site.
package dock

import (
	"fmt"
	"log"
	"os"
	"strings"

	chem "github.com/rmera/dockprep"
	"github.com/rmera/dockprep/chemgraph"
	"github.com/rmera/dockprep/smarts"
)

// Log receives messages about patterns and receptors that could not be used.
var Log = log.New(os.Stderr, "dock: ", 0)

// Assignment is the result of matching a ligand to the receptor sites.
type Assignment struct {
	Ligand       int     //index of the ligand in the slice given.
	Key          string  //key of the ligand match used.
	Label        string  //the site label, or NoSite.
	ReceptorAtom int     //1-based position of the nearest site atom, 0 if there are no sites.
	LigandAtom   int     //0-based index of the matched ligand atom.
	Distance     float64 //distance to the nearest site atom, -1 if there are no sites.
}

func (A Assignment) String() string {
	return fmt.Sprintf("ligand %d (%s): site %s, atom %d at %.3f A", A.Ligand, A.Key, A.Label, A.ReceptorAtom, A.Distance)
}

// UpdateDockingSites finds, for each ligand and each ligand match of cfg, the site atom nearest to
// the matched ligand atom, and sets the cfg.Property property of the ligand to the label of that site,
// or to NoSite if the site is not closer than cfg.MaxDistance. Ligand matches whose pattern does
// not compile, or does not match the ligand, are skipped. When more than one match
// applies to a ligand, the last one sets the property. Only the first
// coordinate frame of each molecule is used.
// A nil cfg means DefaultConfig.
func UpdateDockingSites(receptor *chem.Molecule, ligands []*chem.Molecule, sites Sites, cfg *Config) ([]Assignment, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if receptor == nil || receptor.Frames() == 0 {
		return nil, fmt.Errorf("dock: UpdateDockingSites: no receptor coordinates")
	}
	indexes := sites.Indexes()
	for _, r := range indexes {
		if r < 1 || r > receptor.Len() {
			return nil, fmt.Errorf("dock: UpdateDockingSites: site atom %d (%s) not in receptor %q with %d atoms", r, sites[r], receptor.Title(), receptor.Len())
		}
	}
	patterns := make([]*smarts.Pattern, len(cfg.Ligands))
	for i, m := range cfg.Ligands {
		p, err := smarts.Compile(m.SMARTS)
		if err != nil {
			Log.Printf("ligand match %s skipped: %v", m.Key, err)
			continue
		}
		patterns[i] = p
	}
	rcoords := receptor.Coords[0]
	ret := make([]Assignment, 0, len(ligands))
	for li, l := range ligands {
		if l.Frames() == 0 {
			continue
		}
		var top *chemgraph.Topology
		for i, m := range cfg.Ligands {
			p := patterns[i]
			if p == nil {
				continue
			}
			if top == nil {
				top = chemgraph.TopologyFromChem(l)
			}
			emb := p.FindAll(top, true)
			if len(emb) == 0 || m.Index < 1 || m.Index > len(emb[0]) {
				continue
			}
			la := emb[0][m.Index-1]
			a := Assignment{Ligand: li, Key: m.Key, Label: NoSite, LigandAtom: la, Distance: -1}
			for _, r := range indexes {
				d := rcoords.Distance(r-1, l.Coords[0], la)
				if a.ReceptorAtom == 0 || d < a.Distance {
					a.ReceptorAtom = r
					a.Distance = d
				}
			}
			if a.ReceptorAtom != 0 && a.Distance < cfg.MaxDistance {
				a.Label = sites[a.ReceptorAtom]
			}
			l.Properties.Set(cfg.Property, a.Label)
			ret = append(ret, a)
		}
	}
	return ret, nil
}

// FromEntries assigns sites to the ligands using the sites for the receptor
// given in cfg. If there is not exactly one receptor, nothing is done, and nil, nil is returned.
func FromEntries(receptors []*chem.Molecule, ligands []*chem.Molecule, cfg *Config) ([]Assignment, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if len(receptors) != 1 {
		Log.Printf("%d receptors given, exactly one is needed. Nothing done.", len(receptors))
		return nil, nil
	}
	rec := receptors[0]
	sites := cfg.SiteAtoms(rec.Title())
	if len(sites) == 0 {
		Log.Printf("no docking sites known for receptor %q", strings.TrimSpace(rec.Title()))
	}
	return UpdateDockingSites(rec, ligands, sites, cfg)
}
