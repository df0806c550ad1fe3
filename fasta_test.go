package popgen

import (
	"strings"
	"testing"
)

const fastaFixture = `>seq1 first sample
ACGTAC
GTACGT
; an old-style comment line

>seq2
acgtacgtacgt
>seq3
ACGTACGTACG-
`

func TestReadFASTA(t *testing.T) {
	a, err := ReadFASTA(strings.NewReader(fastaFixture))
	if err != nil {
		t.Fatal(err)
	}

	if got, want := a.NumberOfSequences(), 3; got != want {
		t.Fatalf("got %d sequences, want %d", got, want)
	}
	if got, want := a.Length(), 12; got != want {
		t.Fatalf("got length %d, want %d", got, want)
	}
	if got, want := a.Name(0), "seq1 first sample"; got != want {
		t.Fatalf("name 0: got %q, want %q", got, want)
	}
	if got, want := string(a.Sequence(1)), "ACGTACGTACGT"; got != want {
		t.Fatalf("sequence 1: got %q, want %q", got, want)
	}
	if got, want := string(a.Sequence(2)), "ACGTACGTACG-"; got != want {
		t.Fatalf("sequence 2: got %q, want %q", got, want)
	}
}

func TestReadFASTARejectsHeaderlessData(t *testing.T) {
	if _, err := ReadFASTA(strings.NewReader("ACGT\n")); err == nil {
		t.Fatal("expected an error for sequence data before the first header")
	}
}

func TestReadFASTARejectsEmptyInput(t *testing.T) {
	if _, err := ReadFASTA(strings.NewReader("")); err == nil {
		t.Fatal("expected an error for empty input")
	}
}
