package main

import (
	"flag"
	"log"

	"github.com/carbocation/popgen/dataset"
	"github.com/carbocation/popgen/genemapper"

	_ "github.com/carbocation/popgen/compileinfoprint"
)

func main() {
	var input, output string

	flag.StringVar(&input, "input", "", "GeneMapper genotype export. May be gzip-, zip-, xz-, zlib-, or bzip2-compressed.")
	flag.StringVar(&output, "output", "", "Path for the SQLite genotype database that will be created.")
	flag.Parse()

	if input == "" {
		flag.Usage()
		log.Fatalln("Must specify an --input file")
	}
	if output == "" {
		flag.Usage()
		log.Fatalln("Must specify an --output file")
	}

	ds := dataset.New()
	if err := genemapper.ReadPath(input, ds); err != nil {
		log.Fatalln(err)
	}

	if err := ds.WriteSQLite(output); err != nil {
		log.Fatalln(err)
	}

	log.Printf("Finished. Wrote %d groups and %d loci to %s", ds.GroupCount(), ds.LocusCount(), output)
}
