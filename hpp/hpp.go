// Package hpp prepares CHARMM-generated PDB files for the H++ server.
// Hydrogens, zinc ions and water are removed, residue names are changed to
// the ones H++ understands and the atoms are renumbered.
//
// By default the water residues TIP and TIP3 are both removed. The charmm-to-hpp.py
// script only removed TIP, so CHARMM's TIP3 water went through to H++.
package hpp

import (
	"io"
	"log"
	"os"
	"strings"

	chem "github.com/rmera/dockprep"
)

// Log receives the warnings issued while preparing a structure.
var Log = log.New(os.Stderr, "hpp: ", 0)

// Options controls the preparation of a structure.
type Options struct {
	Rename         map[string]string //residue names to replace, old:new
	DropResidues   []string          //residues to be removed altogether
	HydrogenPrefix string            //atoms whose names start with this are removed.
	Warn           bool              //warn about atoms not named after C, O, N or S
}

// DefaultOptions returns the options for CHARMM structures: CYM is renamed
// to CYS and zinc ions (ZN2) and water (TIP, TIP3) are removed. TIP3 is not in
// the drop list of the charmm-to-hpp.py script.
func DefaultOptions() *Options {
	return &Options{
		Rename:         map[string]string{"CYM": "CYS"},
		DropResidues:   []string{"ZN2", "TIP", "TIP3"},
		HydrogenPrefix: "H",
		Warn:           true,
	}
}

func (O *Options) drop(resname string) bool {
	for _, v := range O.DropResidues {
		if v == resname {
			return true
		}
	}
	return false
}

// Prepare returns a new molecule with the atoms of mol that H++ should get.
// Residues are renamed first, so a renamed residue is kept or dropped according
// to its new name. The remaining atoms get serial numbers from 1 on.
// A nil opts means DefaultOptions.
func Prepare(mol *chem.Molecule, opts *Options) (*chem.Molecule, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	keep := make([]int, 0, mol.Len())
	for i := 0; i < mol.Len(); i++ {
		at := mol.Atom(i)
		resname := at.MolName
		if n, ok := opts.Rename[resname]; ok {
			resname = n
		}
		if opts.HydrogenPrefix != "" && strings.HasPrefix(at.Name, opts.HydrogenPrefix) {
			continue
		}
		if opts.drop(resname) {
			continue
		}
		keep = append(keep, i)
	}
	if len(keep) == 0 {
		return nil, Error{"no atoms left after removing hydrogens and dropped residues", []string{"Prepare"}}
	}
	ret, err := mol.Select(keep)
	if err != nil {
		return nil, decorate(err, "Prepare")
	}
	for i := 0; i < ret.Len(); i++ {
		at := ret.Atom(i)
		if n, ok := opts.Rename[at.MolName]; ok {
			at.MolName = n
		}
		if opts.Warn && (at.Name == "" || !strings.ContainsAny(at.Name[:1], "CONS")) {
			Log.Printf("Atom %d (%s %s %d) is not C, O, N or S, check it before submitting", i+1, at.Name, at.MolName, at.MolID)
		}
	}
	ret.ResetIDs()
	return ret, nil
}

// Convert reads a PDB file from in, prepares it and writes the result to out,
// followed by TER and END records. Only the first model is written.
func Convert(in io.Reader, out io.Writer, opts *Options) error {
	mol, err := chem.PDBRead(in)
	if err != nil {
		return decorate(err, "Convert")
	}
	prep, err := Prepare(mol, opts)
	if err != nil {
		return decorate(err, "Convert")
	}
	if err := chem.PDBWrite(out, prep.Coords[0], prep, prep.Bfactors[0]); err != nil {
		return decorate(err, "Convert")
	}
	return nil
}

// Error is the error type of this package.
type Error struct {
	message string
	deco    []string
}

func (err Error) Error() string {
	return strings.Join(err.deco, ": ") + ": " + err.message
}

// Decorate adds dec to the decoration slice of the error and returns the slice.
func (err Error) Decorate(dec string) []string {
	if dec != "" {
		err.deco = append([]string{dec}, err.deco...)
	}
	return err.deco
}

// decorate adds caller to the decoration of err if it is a chem.Error, otherwise
// it wraps it in an Error.
func decorate(err error, caller string) error {
	switch e := err.(type) {
	case nil:
		return nil
	case Error:
		e.deco = e.Decorate(caller)
		return e
	case chem.Error:
		e.Decorate(caller)
		return e
	}
	return Error{err.Error(), []string{caller}}
}
