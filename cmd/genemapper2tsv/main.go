// genemapper2tsv flattens a GeneMapper genotype export into one
// tab-delimited row per (individual, locus, allele).
package main

import (
	"encoding/csv"
	"flag"
	"io"
	"log"
	"os"

	"github.com/carbocation/popgen/dataset"
	"github.com/carbocation/popgen/genemapper"
	"github.com/gocarina/gocsv"

	_ "github.com/carbocation/popgen/compileinfoprint"
)

type GenotypeRow struct {
	Group      string
	Individual string
	Locus      string
	Allele     string
}

func main() {
	var input string
	var summary bool

	flag.StringVar(&input, "input", "", "GeneMapper genotype export. May be gzip-, zip-, xz-, zlib-, or bzip2-compressed.")
	flag.BoolVar(&summary, "summary", false, "Also log per-group and per-locus tallies.")
	flag.Parse()

	if input == "" {
		flag.Usage()
		log.Fatalln("Must specify an --input file")
	}

	ds := dataset.New()
	if err := genemapper.ReadPath(input, ds); err != nil {
		log.Fatalln(err)
	}

	rows, err := flatten(ds)
	if err != nil {
		log.Fatalln(err)
	}

	// Tell gocsv to use tab as the delimiter
	gocsv.SetCSVWriter(func(out io.Writer) *gocsv.SafeCSVWriter {
		w := csv.NewWriter(out)
		w.Comma = '\t'
		return gocsv.NewSafeCSVWriter(w)
	})

	if err := gocsv.Marshal(&rows, os.Stdout); err != nil {
		log.Fatalln(err)
	}

	if summary {
		logSummary(ds)
	}

	log.Printf("Finished. Wrote %d genotype rows.", len(rows))
}

func flatten(ds *dataset.DataSet) ([]*GenotypeRow, error) {
	rows := []*GenotypeRow{}

	for gi := 0; gi < ds.GroupCount(); gi++ {
		group := ds.Group(gi)
		for ii := 0; ii < group.IndividualCount(); ii++ {
			ind := group.Individual(ii)
			if !ind.HasGenotype() {
				continue
			}
			for pos := 0; pos < ds.LocusCount(); pos++ {
				mono, err := ind.MonolocusGenotype(pos)
				if err != nil {
					return nil, err
				}
				if mono == nil {
					continue
				}
				locus, err := ds.AnalyzedLoci().LocusInfo(pos)
				if err != nil {
					return nil, err
				}
				labels := locus.Alleles()
				for _, key := range mono.AlleleKeys() {
					rows = append(rows, &GenotypeRow{
						Group:      group.Name(),
						Individual: ind.ID(),
						Locus:      locus.Name(),
						Allele:     labels[key],
					})
				}
			}
		}
	}

	return rows, nil
}

func logSummary(ds *dataset.DataSet) {
	individuals := 0
	for gi := 0; gi < ds.GroupCount(); gi++ {
		group := ds.Group(gi)
		individuals += group.IndividualCount()
		log.Printf("Group %q: %d individuals", group.Name(), group.IndividualCount())
	}

	for pos := 0; pos < ds.LocusCount(); pos++ {
		locus, err := ds.AnalyzedLoci().LocusInfo(pos)
		if err != nil {
			log.Fatalln(err)
		}
		log.Printf("Locus %q: %d alleles", locus.Name(), locus.AlleleCount())
	}

	log.Printf("%d groups, %d individuals, %d loci", ds.GroupCount(), individuals, ds.LocusCount())
}
