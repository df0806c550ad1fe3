package genemapper

import (
	"compress/gzip"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/popgen/dataset"
)

func importTable(t *testing.T, table string) *dataset.DataSet {
	t.Helper()

	ds := dataset.New()
	if err := Read(strings.NewReader(table), ds); err != nil {
		t.Fatal(err)
	}
	return ds
}

func TestSingleRowRoundTrip(t *testing.T) {
	ds := importTable(t, "Sample Name\tMarker\tAllele 1\n"+
		"s1\tm1\t18\n")

	if got := ds.GroupCount(); got != 1 {
		t.Fatalf("got %d groups, want 1", got)
	}
	group := ds.Group(0)
	if got := group.IndividualCount(); got != 1 {
		t.Fatalf("got %d individuals, want 1", got)
	}
	if got := ds.LocusCount(); got != 1 {
		t.Fatalf("got %d loci, want 1", got)
	}

	locus, err := ds.LocusInfoByName("m1")
	if err != nil {
		t.Fatal(err)
	}
	if got := locus.AlleleCount(); got != 1 {
		t.Fatalf("got %d alleles, want 1", got)
	}
	key, err := locus.AlleleKey("18")
	if err != nil {
		t.Fatal(err)
	}

	ind, err := group.IndividualByID("s1")
	if err != nil {
		t.Fatal(err)
	}
	mono, err := ind.MonolocusGenotype(0)
	if err != nil {
		t.Fatal(err)
	}
	if mono == nil || mono.AlleleCount() != 1 || !mono.HasAllele(key) {
		t.Fatalf("got genotype %+v, want exactly allele key %d", mono, key)
	}
}

func TestDuplicateSampleMarkerRows(t *testing.T) {
	ds := importTable(t, "Sample Name\tMarker\tAllele 1\n"+
		"s1\tm1\t18\n"+
		"s1\tm1\t19\n"+
		"s1\tm1\t20\n")

	group := ds.Group(0)
	if got := group.IndividualCount(); got != 3 {
		t.Fatalf("got %d individuals, want 3", got)
	}

	locus, err := ds.LocusInfoByName("m1")
	if err != nil {
		t.Fatal(err)
	}

	// The second and third occurrences are suffixed _1 and _2, and every
	// one carries its own genotype under the shared locus.
	for _, v := range []struct {
		ID     string
		Allele string
	}{
		{"s1", "18"},
		{"s1_1", "19"},
		{"s1_2", "20"},
	} {
		ind, err := group.IndividualByID(v.ID)
		if err != nil {
			t.Fatalf("individual %q: %v", v.ID, err)
		}
		key, err := locus.AlleleKey(v.Allele)
		if err != nil {
			t.Fatal(err)
		}
		mono, err := ind.MonolocusGenotype(0)
		if err != nil {
			t.Fatal(err)
		}
		if mono == nil || !mono.HasAllele(key) {
			t.Fatalf("individual %q: genotype %+v does not carry allele %q", v.ID, mono, v.Allele)
		}
	}
}

// A same-named sample at a different marker is the same individual, not a
// duplicate.
func TestSampleSpansMarkers(t *testing.T) {
	ds := importTable(t, "Sample Name\tMarker\tAllele 1\tAllele 2\n"+
		"s1\tm1\t18\t19\n"+
		"s1\tm2\t7\t\n")

	group := ds.Group(0)
	if got := group.IndividualCount(); got != 1 {
		t.Fatalf("got %d individuals, want 1", got)
	}

	ind, err := group.IndividualByID("s1")
	if err != nil {
		t.Fatal(err)
	}
	for pos, wantAlleles := range []int{2, 1} {
		mono, err := ind.MonolocusGenotype(pos)
		if err != nil {
			t.Fatal(err)
		}
		if mono == nil || mono.AlleleCount() != wantAlleles {
			t.Fatalf("locus %d: got genotype %+v, want %d alleles", pos, mono, wantAlleles)
		}
	}
}

func TestMissingColumn(t *testing.T) {
	ds := dataset.New()
	err := Read(strings.NewReader("Sample Name\tAllele 1\ns1\t18\n"), ds)

	var missing *MissingColumnError
	if !errors.As(err, &missing) {
		t.Fatalf("got %v, want a MissingColumnError", err)
	}
	if missing.Column != MarkerColumn {
		t.Fatalf("got column %q, want %q", missing.Column, MarkerColumn)
	}

	// The dataset was not touched.
	if ds.GroupCount() != 0 || ds.LocusCount() != 0 {
		t.Fatalf("dataset mutated before the header check: %d groups, %d loci",
			ds.GroupCount(), ds.LocusCount())
	}
}

func TestAlleleHandling(t *testing.T) {
	ds := importTable(t, "Sample Name\tMarker\tAllele 1\tAllele 2\n"+
		"s1\tm1\t18\t18\n"+
		"s2\tm1\t19\t\n"+
		"s3\tm1\t\t\n"+
		"s1\tm2\t19\t\n")

	// Same label twice in one row collapses to one key.
	group := ds.Group(0)
	ind, err := group.IndividualByID("s1")
	if err != nil {
		t.Fatal(err)
	}
	mono, err := ind.MonolocusGenotype(0)
	if err != nil {
		t.Fatal(err)
	}
	if mono == nil || mono.AlleleCount() != 1 {
		t.Fatalf("got genotype %+v, want one deduplicated allele", mono)
	}

	// A row with no allele calls registers the individual but no
	// genotype.
	blank, err := group.IndividualByID("s3")
	if err != nil {
		t.Fatal(err)
	}
	if blank.HasGenotype() {
		t.Fatal("individual with no allele calls should have no genotype storage")
	}

	// Allele keys are locus-scoped: label 19 is key 1 under m1 but key 0
	// under m2.
	m1, err := ds.LocusInfoByName("m1")
	if err != nil {
		t.Fatal(err)
	}
	m2, err := ds.LocusInfoByName("m2")
	if err != nil {
		t.Fatal(err)
	}
	key1, err := m1.AlleleKey("19")
	if err != nil {
		t.Fatal(err)
	}
	key2, err := m2.AlleleKey("19")
	if err != nil {
		t.Fatal(err)
	}
	if key1 != 1 || key2 != 0 {
		t.Fatalf("got keys %d and %d, want 1 and 0", key1, key2)
	}
}

func TestCommaDelimitedInput(t *testing.T) {
	ds := importTable(t, "Sample Name,Marker,Allele 1\n"+
		"s1,m1,18\n"+
		"s2,m1,19\n")

	if got := ds.Group(0).IndividualCount(); got != 2 {
		t.Fatalf("got %d individuals, want 2", got)
	}
	locus, err := ds.LocusInfoByName("m1")
	if err != nil {
		t.Fatal(err)
	}
	if got := locus.AlleleCount(); got != 2 {
		t.Fatalf("got %d alleles, want 2", got)
	}
}

func TestRowsWithoutSampleOrMarkerAreSkipped(t *testing.T) {
	ds := importTable(t, "Sample Name\tMarker\tAllele 1\n"+
		"s1\tm1\t18\n"+
		"\tm1\t19\n"+
		"s2\t\t20\n")

	if got := ds.Group(0).IndividualCount(); got != 1 {
		t.Fatalf("got %d individuals, want 1", got)
	}
	locus, err := ds.LocusInfoByName("m1")
	if err != nil {
		t.Fatal(err)
	}
	if got := locus.AlleleCount(); got != 1 {
		t.Fatalf("got %d alleles, want 1", got)
	}
}

func TestReadPathGzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.txt.gz")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	w := gzip.NewWriter(f)
	if _, err := w.Write([]byte("Sample Name\tMarker\tAllele 1\ns1\tm1\t18\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	ds := dataset.New()
	if err := ReadPath(path, ds); err != nil {
		t.Fatal(err)
	}
	if got := ds.Group(0).IndividualCount(); got != 1 {
		t.Fatalf("got %d individuals, want 1", got)
	}
}
