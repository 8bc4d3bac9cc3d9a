// Command docksite labels docked ligands with the receptor site they are bound to.
//
//	docksite [-receptor rec.pdb] [-config sites.json] [-maxdist 6] [-o out.sdf]
//	         [-hist dist.png] [-bars sites.png] structures.sdf
//
// Without -receptor, the first structure in the input is the receptor and the rest
// are the ligands. The label of each ligand is written to its s_user_Docking_Site
// property (or the one set in the configuration), and all the structures are written back
// to the input file, unless -o is given.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	chem "github.com/rmera/dockprep"
	"github.com/rmera/dockprep/chemplot"
	"github.com/rmera/dockprep/dock"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("docksite: ")
	recname := flag.String("receptor", "", "receptor file, the first input structure is used if not given")
	cfgname := flag.String("config", "", "JSON file with the site and ligand tables")
	maxdist := flag.Float64("maxdist", 0, "maximum ligand-site distance, in A (default from the configuration, 6)")
	out := flag.String("o", "", "output file, the input is overwritten if not given")
	hist := flag.String("hist", "", "save a histogram of the ligand-site distances to this file")
	bars := flag.String("bars", "", "save a bar chart of the ligands per site to this file")
	verbose := flag.Bool("v", false, "print each assignment and a summary")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: docksite [flags] structures.sdf\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	cfg := dock.DefaultConfig()
	var err error
	if *cfgname != "" {
		if cfg, err = dock.LoadConfig(*cfgname); err != nil {
			log.Fatal(err)
		}
	}
	if *maxdist != 0 {
		cfg.MaxDistance = *maxdist
		if err = cfg.Validate(); err != nil {
			log.Fatal(err)
		}
	}
	inname := flag.Arg(0)
	structures, err := chem.ReadFile(inname)
	if err != nil {
		log.Fatal(err)
	}
	var receptors, ligands, output []*chem.Molecule
	if *recname != "" {
		if receptors, err = chem.ReadFile(*recname); err != nil {
			log.Fatal(err)
		}
		ligands = structures
		output = ligands
	} else {
		if len(structures) < 2 {
			log.Fatalf("%s has %d structures, a receptor and at least one ligand are needed", inname, len(structures))
		}
		receptors = structures[:1]
		ligands = structures[1:]
		output = structures
	}
	if len(receptors) == 1 && receptors[0].Frames() > 1 {
		log.Printf("the receptor has %d models, only one receptor can be used. Nothing done.", receptors[0].Frames())
		return
	}
	assignments, err := dock.FromEntries(receptors, ligands, cfg)
	if err != nil {
		log.Fatal(err)
	}
	if assignments == nil && len(receptors) != 1 {
		return
	}
	if *verbose {
		for _, a := range assignments {
			fmt.Println(a)
		}
		fmt.Print(dock.Summarize(assignments))
	}
	if *out == "" {
		*out = inname
	}
	if err = chem.ReplaceFile(*out, output...); err != nil {
		log.Fatal(err)
	}
	if *hist != "" {
		if err = chemplot.DistanceHistogram(assignments, 20, cfg.MaxDistance, "Ligand-site distances", *hist); err != nil {
			log.Print(err)
		}
	}
	if *bars != "" {
		if err = chemplot.SiteCounts(dock.Summarize(assignments), "Ligands per site", *bars); err != nil {
			log.Print(err)
		}
	}
}
