// Package genemapper imports GeneMapper fragment-analysis genotype
// exports: column-delimited tables with a header row naming "Sample Name",
// "Marker", and any number of allele columns. Rows are folded into a
// dataset.DataSet of individuals, loci, and locus-scoped allele keys.
package genemapper

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/carbocation/pfx"

	"github.com/carbocation/popgen"
	"github.com/carbocation/popgen/dataset"
)

// Required header columns.
const (
	SampleNameColumn = "Sample Name"
	MarkerColumn     = "Marker"
)

// Header cells containing this substring are treated as allele columns.
const alleleColumnTag = "Allele "

// MissingColumnError reports a required column absent from the header row.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("genemapper: required column %q not found in header", e.Column)
}

// ReadPath imports the GeneMapper export at path into ds. The file may be
// gzip, zlib, bzip2, xz, or zip compressed.
func ReadPath(path string, ds *dataset.DataSet) error {
	f, err := os.Open(popgen.ExpandHome(path))
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	r, err := popgen.MaybeDecompressReadCloserFromFile(f)
	if err != nil {
		return pfx.Err(err)
	}
	defer r.Close()

	return Read(r, ds)
}

// Read imports a GeneMapper export into ds. The delimiter is sniffed from
// the stream. The header must name the "Sample Name" and "Marker" columns;
// that is checked before ds is touched. Duplicate (sample, marker) rows
// are kept by suffixing the sample name of the second and later
// occurrences with _1, _2, and so on. Empty allele cells are skipped; a
// row contributes a genotype only when it carries at least one allele
// call.
func Read(r io.Reader, ds *dataset.DataSet) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return pfx.Err(err)
	}

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = popgen.DetermineDelimiter(bytes.NewReader(data))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	records, err := cr.ReadAll()
	if err != nil {
		return pfx.Err(err)
	}
	if len(records) == 0 {
		return pfx.Err(fmt.Errorf("genemapper: empty input"))
	}

	header := records[0]
	rows := records[1:]

	sampleCol, markerCol := -1, -1
	var alleleCols []int
	for i, cell := range header {
		switch {
		case cell == SampleNameColumn:
			sampleCol = i
		case cell == MarkerColumn:
			markerCol = i
		case strings.Contains(cell, alleleColumnTag):
			alleleCols = append(alleleCols, i)
		}
	}
	if sampleCol < 0 {
		return &MissingColumnError{Column: SampleNameColumn}
	}
	if markerCol < 0 {
		return &MissingColumnError{Column: MarkerColumn}
	}

	// Fold over the rows disambiguating duplicate (sample, marker) pairs:
	// the k'th repeat of a pair gets the sample name suffixed with _k. The
	// counter is keyed on the original pair, so repeats of a repeat keep
	// counting under their source row's name.
	names := make([]string, len(rows))
	occurrences := make(map[string]int)
	skipped := 0
	for i, row := range rows {
		name := field(row, sampleCol)
		marker := field(row, markerCol)
		if name == "" || marker == "" {
			skipped++
			continue
		}
		pair := name + marker
		if prior := occurrences[pair]; prior > 0 {
			name = fmt.Sprintf("%s_%d", name, prior)
		}
		occurrences[pair]++
		names[i] = name
	}

	// Distinct final sample names and distinct markers, in order of first
	// appearance.
	var samples, markers []string
	sampleSeen := make(map[string]bool)
	markerSeen := make(map[string]bool)
	for i, row := range rows {
		if names[i] == "" {
			continue
		}
		if !sampleSeen[names[i]] {
			sampleSeen[names[i]] = true
			samples = append(samples, names[i])
		}
		if marker := field(row, markerCol); !markerSeen[marker] {
			markerSeen[marker] = true
			markers = append(markers, marker)
		}
	}

	ds.InitLoci(len(markers))
	for pos, marker := range markers {
		if err := ds.SetLocusInfo(pos, dataset.NewLocusInfo(marker, dataset.PloidyUnknown)); err != nil {
			return pfx.Err(err)
		}
	}

	group := ds.AddEmptyGroup("")
	for _, sample := range samples {
		if err := group.AddIndividual(dataset.NewIndividual(sample)); err != nil {
			return pfx.Err(err)
		}
	}

	// Allele discovery: every distinct non-empty label observed for a
	// marker, registered first-seen under that marker's locus.
	alleles := 0
	for _, marker := range markers {
		locus, err := ds.LocusInfoByName(marker)
		if err != nil {
			return pfx.Err(err)
		}
		for _, col := range alleleCols {
			for i, row := range rows {
				if names[i] == "" || field(row, markerCol) != marker {
					continue
				}
				if label := field(row, col); label != "" {
					locus.AddAllele(label)
				}
			}
		}
		alleles += locus.AlleleCount()
	}

	// Genotype assembly: one monolocus genotype per row with at least one
	// allele call.
	calls := 0
	for i, row := range rows {
		if names[i] == "" {
			continue
		}
		marker := field(row, markerCol)
		locus, err := ds.LocusInfoByName(marker)
		if err != nil {
			return pfx.Err(err)
		}
		pos, err := ds.LocusPosition(marker)
		if err != nil {
			return pfx.Err(err)
		}

		var keys []uint
		for _, col := range alleleCols {
			label := field(row, col)
			if label == "" {
				continue
			}
			key, err := locus.AlleleKey(label)
			if err != nil {
				return pfx.Err(err)
			}
			keys = append(keys, key)
		}
		if len(keys) == 0 {
			continue
		}

		ind, err := group.IndividualByID(names[i])
		if err != nil {
			return pfx.Err(err)
		}
		if !ind.HasGenotype() {
			if err := ind.InitGenotype(len(markers)); err != nil {
				return pfx.Err(err)
			}
		}
		if err := ind.SetMonolocusGenotype(pos, dataset.NewMonolocusGenotype(keys...)); err != nil {
			return pfx.Err(err)
		}
		calls++
	}

	log.Printf("genemapper: %d rows -> %d individuals, %d loci, %d alleles, %d genotype calls",
		len(rows), len(samples), len(markers), alleles, calls)
	if skipped > 0 {
		log.Printf("genemapper: skipped %d rows with no sample name or marker", skipped)
	}

	return nil
}

// field returns the i'th cell of a possibly ragged row, empty when the row
// is too short.
func field(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
