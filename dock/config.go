package dock

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	DefaultMaxDistance = 6.0                   //Å
	PropertyName       = "s_user_Docking_Site" //the property written on each ligand.
	NoSite             = "0"                   //label for ligands too far from every site.
)

// Sites maps receptor atoms, as 1-based positions in the receptor, to the label of the
// docking site they represent.
type Sites map[int]string

// Indexes returns the atom positions in Sites in increasing order.
func (S Sites) Indexes() []int {
	ret := make([]int, 0, len(S))
	for k := range S {
		ret = append(ret, k)
	}
	sort.Ints(ret)
	return ret
}

// ReceptorSites gives the sites for the receptors whose title contains Match.
type ReceptorSites struct {
	Match string `json:"match"`
	Sites Sites  `json:"sites"`
}

// LigandMatch identifies ligands by a SMARTS pattern. Index is the 1-based position, in
// the pattern, of the atom whose distance to the sites is measured.
type LigandMatch struct {
	Key    string `json:"key"`
	SMARTS string `json:"smarts"`
	Index  int    `json:"index"`
}

// Config contains the tables and parameters for the site assignment.
type Config struct {
	MaxDistance float64         `json:"max_distance"`
	Property    string          `json:"property"`
	Receptors   []ReceptorSites `json:"receptors"`
	Ligands     []LigandMatch   `json:"ligands"`
}

// DefaultConfig returns the built-in tables: the zinc sites of 7O4E and
// uracil ligands, matched through their C4 atom.
func DefaultConfig() *Config {
	return &Config{
		MaxDistance: DefaultMaxDistance,
		Property:    PropertyName,
		Receptors: []ReceptorSites{
			{Match: "7o4e", Sites: Sites{
				2100: "A:Zn1",
				2101: "A:Zn2",
				2102: "B:Zn1",
				2103: "B:Zn2",
			}},
		},
		Ligands: []LigandMatch{
			{Key: "U", SMARTS: "[H]c1c(=O)n([H])c(=O)nc1[H]", Index: 3},
		},
	}
}

// LoadConfig reads a JSON configuration file. Fields not present in the
// file keep their default values.
func LoadConfig(name string) (*Config, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("dock: opening configuration: %w", err)
	}
	defer f.Close()
	c := DefaultConfig()
	dec := json.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err = dec.Decode(c); err != nil {
		return nil, fmt.Errorf("dock: reading configuration %s: %w", name, err)
	}
	if err = c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate returns an error if the configuration can't be used.
func (C *Config) Validate() error {
	if C.MaxDistance <= 0 {
		return fmt.Errorf("dock: invalid maximum distance %g", C.MaxDistance)
	}
	if C.Property == "" {
		return fmt.Errorf("dock: empty property name")
	}
	for _, r := range C.Receptors {
		if r.Match == "" {
			return fmt.Errorf("dock: receptor entry with an empty match string")
		}
		for k := range r.Sites {
			if k < 1 {
				return fmt.Errorf("dock: receptor %q: invalid site atom %d", r.Match, k)
			}
		}
	}
	for _, l := range C.Ligands {
		if l.SMARTS == "" {
			return fmt.Errorf("dock: ligand match %q has no SMARTS", l.Key)
		}
		if l.Index < 1 {
			return fmt.Errorf("dock: ligand match %q: invalid atom index %d", l.Key, l.Index)
		}
	}
	return nil
}

// SiteAtoms returns the sites of the first receptor entry whose match string is in the
// title of receptor, ignoring case. It returns an empty table if no entry matches.
func (C *Config) SiteAtoms(receptor string) Sites {
	title := strings.ToLower(receptor)
	for _, r := range C.Receptors {
		if strings.Contains(title, strings.ToLower(r.Match)) {
			return r.Sites
		}
	}
	return Sites{}
}
