package seqstats

import (
	"errors"
	"math"
	"testing"
)

func TestThetaEstimators(t *testing.T) {
	const tolerance = 1e-9

	// Columns: AAAA, CCCT, GGTT, TTTT, AGAG. Three polymorphic sites with
	// per-site heterozygosities 1/2, 2/3, 2/3.
	a := mustAlignment(t,
		"ACGTA",
		"ACGTG",
		"ACTTA",
		"ATTTG",
	)

	theta, err := Watterson75(a, false)
	if err != nil {
		t.Fatal(err)
	}
	if want := 3.0 / (1 + 1.0/2 + 1.0/3); math.Abs(theta-want) > tolerance {
		t.Fatalf("got theta %v, want %v", theta, want)
	}

	pi, err := Tajima83(a, false)
	if err != nil {
		t.Fatal(err)
	}
	if want := 0.5 + 2.0/3 + 2.0/3; math.Abs(pi-want) > tolerance {
		t.Fatalf("got pi %v, want %v", pi, want)
	}
}

func TestTajima83GapHandling(t *testing.T) {
	const tolerance = 1e-9

	// One column, A/G/-/A: excluding the gap leaves three sequences, while
	// including it adds a third state.
	a := mustAlignment(t, "A", "G", "-", "A")

	pi, err := Tajima83(a, false)
	if err != nil {
		t.Fatal(err)
	}
	if want := 2.0 / 3; math.Abs(pi-want) > tolerance {
		t.Fatalf("gaps excluded: got pi %v, want %v", pi, want)
	}

	pi, err = Tajima83(a, true)
	if err != nil {
		t.Fatal(err)
	}
	if want := 5.0 / 6; math.Abs(pi-want) > tolerance {
		t.Fatalf("gaps included: got pi %v, want %v", pi, want)
	}
}

func TestHaplotypeStatistics(t *testing.T) {
	const tolerance = 1e-9

	// Over the complete sites (the first four columns) sequences 1 and 2
	// collapse into one haplotype; the gap column separates them.
	a := mustAlignment(t,
		"ACGT-",
		"ACGTC",
		"ACGAC",
		"AGGTC",
	)

	if got := DVK(a, false); got != 3 {
		t.Fatalf("gaps excluded: got K=%d, want 3", got)
	}
	if got := DVK(a, true); got != 4 {
		t.Fatalf("gaps included: got K=%d, want 4", got)
	}

	h, err := DVH(a, false)
	if err != nil {
		t.Fatal(err)
	}
	if want := (4.0 / 3) * (1 - 6.0/16); math.Abs(h-want) > tolerance {
		t.Fatalf("gaps excluded: got H=%v, want %v", h, want)
	}

	h, err = DVH(a, true)
	if err != nil {
		t.Fatal(err)
	}
	if want := 1.0; math.Abs(h-want) > tolerance {
		t.Fatalf("gaps included: got H=%v, want %v", h, want)
	}
}

func TestDiversityNeedsTwoSequences(t *testing.T) {
	a := mustAlignment(t, "ACGT")

	if _, err := Tajima83(a, false); !errors.Is(err, ErrUndefined) {
		t.Fatalf("Tajima83: got %v, want ErrUndefined", err)
	}
	if _, err := DVH(a, false); !errors.Is(err, ErrUndefined) {
		t.Fatalf("DVH: got %v, want ErrUndefined", err)
	}
	if _, err := Watterson75(a, false); !errors.Is(err, ErrUndefined) {
		t.Fatalf("Watterson75: got %v, want ErrUndefined", err)
	}
}

func TestTransitionsAndTransversions(t *testing.T) {
	// Columns: AAGG (ts), CCTT (ts), AACC (tv), ACGA (three states,
	// skipped), AA-G (incomplete, skipped), TTTT (constant, skipped).
	a := mustAlignment(t,
		"ACAAAT",
		"ACACAT",
		"GTCG-T",
		"GTCAGT",
	)

	if got := NumberOfTransitions(a); got != 2 {
		t.Fatalf("got %d transitions, want 2", got)
	}
	if got := NumberOfTransversions(a); got != 1 {
		t.Fatalf("got %d transversions, want 1", got)
	}

	ratio, err := TsTvRatio(a)
	if err != nil {
		t.Fatal(err)
	}
	if ratio != 2 {
		t.Fatalf("got ts/tv %v, want 2", ratio)
	}
}

func TestTsTvRatioNoTransversions(t *testing.T) {
	a := mustAlignment(t, "A", "A", "G", "G")

	if _, err := TsTvRatio(a); !errors.Is(err, ErrUndefined) {
		t.Fatalf("got %v, want ErrUndefined", err)
	}
}

func TestGCContent(t *testing.T) {
	const tolerance = 1e-9

	// Six non-missing symbols, four of them G or C.
	a := mustAlignment(t, "ACG-", "GCNT")

	gc, err := GCContent(a)
	if err != nil {
		t.Fatal(err)
	}
	if want := 4.0 / 6; math.Abs(gc-want) > tolerance {
		t.Fatalf("got GC content %v, want %v", gc, want)
	}

	if _, err := GCContent(mustAlignment(t, "--", "NN")); !errors.Is(err, ErrUndefined) {
		t.Fatalf("all-missing alignment: got %v, want ErrUndefined", err)
	}
}

func TestGCPolymorphism(t *testing.T) {
	// Columns: GGAA (qualifies, 2 GC of 4), GGCC (no AT side), AATT (no GC
	// side), CTTT (qualifies, 1 GC of 4).
	a := mustAlignment(t,
		"GGAC",
		"GGAT",
		"ACTT",
		"ACTT",
	)

	gc, total := GCPolymorphism(a)
	if gc != 3 || total != 8 {
		t.Fatalf("got gc=%d total=%d, want gc=3 total=8", gc, total)
	}
}
