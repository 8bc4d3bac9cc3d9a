// Command charmm2hpp reformats a PDB file written by CHARMM so it can be submitted to the H++ server.
//
//	charmm2hpp [-o out.pdb] [-rename CYM:CYS,...] [-drop ZN2,TIP,...] [-nowarn] in.pdb
//
// Hydrogens and the dropped residues are removed, residues are renamed and the remaining
// atoms are renumbered. The result is written to standard output unless -o is given.
// Files ending in .gz or .zst are decompressed/compressed on the fly. An input of "-" is
// read from standard input.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	chem "github.com/rmera/dockprep"
	"github.com/rmera/dockprep/hpp"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("charmm2hpp: ")
	def := hpp.DefaultOptions()
	out := flag.String("o", "", "output PDB file, standard output if not given")
	rename := flag.String("rename", "CYM:CYS", "comma-separated old:new residue names to change")
	drop := flag.String("drop", strings.Join(def.DropResidues, ","), "comma-separated residue names to remove. The default includes TIP3, which charmm-to-hpp.py kept")
	nowarn := flag.Bool("nowarn", false, "don't warn about atoms other than C, O, N and S")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: charmm2hpp [flags] in.pdb\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	opts := &hpp.Options{HydrogenPrefix: def.HydrogenPrefix, Warn: !*nowarn}
	var err error
	if opts.Rename, err = parseRename(*rename); err != nil {
		log.Fatal(err)
	}
	opts.DropResidues = splitList(*drop)

	var in io.ReadCloser = os.Stdin
	if name := flag.Arg(0); name != "-" {
		if in, err = chem.OpenFile(name); err != nil {
			log.Fatal(err)
		}
	}
	defer in.Close()
	var w io.WriteCloser = os.Stdout
	if *out != "" {
		if w, err = chem.CreateFile(*out); err != nil {
			log.Fatal(err)
		}
	}
	if err = hpp.Convert(in, w, opts); err != nil {
		log.Fatal(err)
	}
	if *out != "" {
		if err = w.Close(); err != nil {
			log.Fatal(err)
		}
	}
}

func splitList(s string) []string {
	var ret []string
	for _, v := range strings.Split(s, ",") {
		if v = strings.TrimSpace(v); v != "" {
			ret = append(ret, v)
		}
	}
	return ret
}

// parseRename reads a list of old:new residue name pairs.
func parseRename(s string) (map[string]string, error) {
	ret := make(map[string]string)
	for _, v := range splitList(s) {
		f := strings.Split(v, ":")
		if len(f) != 2 || f[0] == "" || f[1] == "" {
			return nil, fmt.Errorf("invalid residue renaming %q, expected old:new", v)
		}
		ret[f[0]] = f[1]
	}
	return ret, nil
}
