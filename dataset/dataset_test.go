package dataset

import (
	"errors"
	"testing"
)

func TestLocusInfoAlleleRegistry(t *testing.T) {
	locus := NewLocusInfo("D12S391", PloidyUnknown)

	for _, v := range []struct {
		Label string
		Want  uint
	}{
		{"18", 0},
		{"19", 1},
		{"18", 0},
		{"21.2", 2},
	} {
		if got := locus.AddAllele(v.Label); got != v.Want {
			t.Fatalf("AddAllele(%q): got key %d, want %d", v.Label, got, v.Want)
		}
	}

	if got := locus.AlleleCount(); got != 3 {
		t.Fatalf("got %d alleles, want 3", got)
	}

	alleles := locus.Alleles()
	for key, want := range []string{"18", "19", "21.2"} {
		if alleles[key] != want {
			t.Fatalf("Alleles()[%d] = %q, want %q", key, alleles[key], want)
		}
	}

	key, err := locus.AlleleKey("19")
	if err != nil {
		t.Fatal(err)
	}
	if key != 1 {
		t.Fatalf("AlleleKey(19): got %d, want 1", key)
	}

	_, err = locus.AlleleKey("24")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("got %v, want a NotFoundError", err)
	}
	if nf.Kind != "allele" || nf.Name != "24" {
		t.Fatalf("got %+v, want allele 24", nf)
	}
}

// The same label registered under two loci yields independent keys.
func TestAlleleKeysAreLocusScoped(t *testing.T) {
	a := NewLocusInfo("locusA", PloidyUnknown)
	b := NewLocusInfo("locusB", PloidyUnknown)

	a.AddAllele("x")
	a.AddAllele("y")
	b.AddAllele("y")

	keyA, err := a.AlleleKey("y")
	if err != nil {
		t.Fatal(err)
	}
	keyB, err := b.AlleleKey("y")
	if err != nil {
		t.Fatal(err)
	}
	if keyA != 1 || keyB != 0 {
		t.Fatalf("got keys %d and %d, want 1 and 0", keyA, keyB)
	}
}

func TestAnalyzedLoci(t *testing.T) {
	al := NewAnalyzedLoci(2)

	if got := al.LocusCount(); got != 2 {
		t.Fatalf("got %d locus slots, want 2", got)
	}

	if err := al.SetLocusInfo(0, NewLocusInfo("first", PloidyDiploid)); err != nil {
		t.Fatal(err)
	}
	if err := al.SetLocusInfo(1, NewLocusInfo("second", PloidyUnknown)); err != nil {
		t.Fatal(err)
	}
	if err := al.SetLocusInfo(2, NewLocusInfo("third", PloidyUnknown)); err == nil {
		t.Fatal("expected an out-of-range error")
	}

	pos, err := al.LocusPosition("second")
	if err != nil {
		t.Fatal(err)
	}
	if pos != 1 {
		t.Fatalf("got position %d, want 1", pos)
	}

	locus, err := al.LocusInfoByName("first")
	if err != nil {
		t.Fatal(err)
	}
	if locus.Ploidy() != PloidyDiploid {
		t.Fatalf("got ploidy %v, want diploid", locus.Ploidy())
	}

	var nf *NotFoundError
	if _, err := al.LocusPosition("absent"); !errors.As(err, &nf) {
		t.Fatalf("got %v, want a NotFoundError", err)
	}

	// Replacing a slot unregisters the old name.
	if err := al.SetLocusInfo(1, NewLocusInfo("replacement", PloidyUnknown)); err != nil {
		t.Fatal(err)
	}
	if _, err := al.LocusPosition("second"); !errors.As(err, &nf) {
		t.Fatalf("stale name lookup: got %v, want a NotFoundError", err)
	}
}

func TestMonolocusGenotype(t *testing.T) {
	g := NewMonolocusGenotype(2, 0, 2, 1, 0)

	if got := g.AlleleCount(); got != 3 {
		t.Fatalf("got %d alleles, want 3", got)
	}
	for i, want := range []uint{2, 0, 1} {
		if g.AlleleKeys()[i] != want {
			t.Fatalf("AlleleKeys()[%d] = %d, want %d", i, g.AlleleKeys()[i], want)
		}
	}
	if !g.HasAllele(1) || g.HasAllele(3) {
		t.Fatalf("HasAllele: got (%v, %v), want (true, false)", g.HasAllele(1), g.HasAllele(3))
	}
}

func TestIndividualGenotypeLifecycle(t *testing.T) {
	ind := NewIndividual("sample01")

	if ind.HasGenotype() {
		t.Fatal("new individual should have no genotype storage")
	}
	if err := ind.SetMonolocusGenotype(0, NewMonolocusGenotype(0)); err == nil {
		t.Fatal("expected an error before InitGenotype")
	}

	if err := ind.InitGenotype(3); err != nil {
		t.Fatal(err)
	}
	if err := ind.InitGenotype(3); err == nil {
		t.Fatal("expected an error on the second InitGenotype")
	}

	if err := ind.SetMonolocusGenotype(1, NewMonolocusGenotype(4, 2)); err != nil {
		t.Fatal(err)
	}

	mono, err := ind.MonolocusGenotype(1)
	if err != nil {
		t.Fatal(err)
	}
	if mono.AlleleCount() != 2 {
		t.Fatalf("got %d alleles, want 2", mono.AlleleCount())
	}

	// Slot 0 never received a call.
	mono, err = ind.MonolocusGenotype(0)
	if err != nil {
		t.Fatal(err)
	}
	if mono != nil {
		t.Fatalf("got %+v at an empty slot, want nil", mono)
	}

	if err := ind.SetMonolocusGenotype(3, NewMonolocusGenotype(0)); err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestGroupMembership(t *testing.T) {
	g := NewGroup("population1")

	if err := g.AddIndividual(NewIndividual("a")); err != nil {
		t.Fatal(err)
	}
	if err := g.AddIndividual(NewIndividual("b")); err != nil {
		t.Fatal(err)
	}
	if err := g.AddIndividual(NewIndividual("a")); err == nil {
		t.Fatal("expected a duplicate-identifier error")
	}

	if got := g.IndividualCount(); got != 2 {
		t.Fatalf("got %d individuals, want 2", got)
	}

	pos, err := g.IndividualPosition("b")
	if err != nil {
		t.Fatal(err)
	}
	if pos != 1 {
		t.Fatalf("got position %d, want 1", pos)
	}

	ind, err := g.IndividualByID("a")
	if err != nil {
		t.Fatal(err)
	}
	if ind.ID() != "a" {
		t.Fatalf("got individual %q, want a", ind.ID())
	}

	var nf *NotFoundError
	if _, err := g.IndividualByID("c"); !errors.As(err, &nf) {
		t.Fatalf("got %v, want a NotFoundError", err)
	}
}

func TestDataSetLocusLookups(t *testing.T) {
	ds := New()

	var nf *NotFoundError
	if _, err := ds.LocusInfoByName("anything"); !errors.As(err, &nf) {
		t.Fatalf("lookup before InitLoci: got %v, want a NotFoundError", err)
	}

	ds.InitLoci(2)
	if err := ds.SetLocusInfo(0, NewLocusInfo("m1", PloidyUnknown)); err != nil {
		t.Fatal(err)
	}
	if err := ds.SetLocusInfo(1, NewLocusInfo("m2", PloidyUnknown)); err != nil {
		t.Fatal(err)
	}

	if got := ds.LocusCount(); got != 2 {
		t.Fatalf("got %d loci, want 2", got)
	}
	pos, err := ds.LocusPosition("m2")
	if err != nil {
		t.Fatal(err)
	}
	if pos != 1 {
		t.Fatalf("got position %d, want 1", pos)
	}

	ds.AddEmptyGroup("only")
	if ds.GroupCount() != 1 || ds.Group(0).Name() != "only" {
		t.Fatalf("got %d groups (first %q), want 1 (only)", ds.GroupCount(), ds.Group(0).Name())
	}
}
