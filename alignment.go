// Package popgen provides containers and input routines for aligned DNA
// sequence data. The seqstats subpackage computes diversity, neutrality, and
// linkage disequilibrium statistics over these containers, and the dataset
// and genemapper subpackages handle individual-level genotype tables.
package popgen

import (
	"errors"
	"fmt"
)

// ErrUnequalLengths indicates that the sequences offered to an alignment do
// not all have the same length.
var ErrUnequalLengths = errors.New("sequences have unequal lengths")

// Alignment is a rectangular block of aligned DNA sequences. Symbols are
// normalized on construction (see NormalizeSymbol). Site positions default
// to 0-based column indices but may be overridden with SetPositions when the
// alignment represents a slice of a larger reference.
type Alignment struct {
	names     []string
	seqs      [][]byte
	positions []int
}

// NewAlignment copies names and seqs into a new alignment. Every sequence
// must have the same length, and every symbol must normalize onto the
// nucleotide alphabet.
func NewAlignment(names []string, seqs [][]byte) (*Alignment, error) {
	if len(seqs) == 0 {
		return nil, errors.New("popgen: an alignment requires at least one sequence")
	}
	if len(names) != len(seqs) {
		return nil, fmt.Errorf("popgen: %d sequence names for %d sequences", len(names), len(seqs))
	}

	length := len(seqs[0])
	cp := make([][]byte, len(seqs))
	for i, seq := range seqs {
		if len(seq) != length {
			return nil, fmt.Errorf("popgen: sequence %q has length %d, want %d: %w", names[i], len(seq), length, ErrUnequalLengths)
		}
		cp[i] = make([]byte, length)
		for j := range seq {
			nb, err := NormalizeSymbol(seq[j])
			if err != nil {
				return nil, fmt.Errorf("popgen: sequence %q, site %d: %w", names[i], j, err)
			}
			cp[i][j] = nb
		}
	}

	positions := make([]int, length)
	for i := range positions {
		positions[i] = i
	}

	nm := make([]string, len(names))
	copy(nm, names)

	return &Alignment{names: nm, seqs: cp, positions: positions}, nil
}

// NumberOfSequences returns the number of rows in the alignment.
func (a *Alignment) NumberOfSequences() int {
	return len(a.seqs)
}

// Length returns the number of sites (columns) in the alignment.
func (a *Alignment) Length() int {
	if len(a.seqs) == 0 {
		return 0
	}
	return len(a.seqs[0])
}

// Name returns the name of the i'th sequence.
func (a *Alignment) Name(i int) string {
	return a.names[i]
}

// Sequence returns the i'th sequence. The slice is a view, not a copy.
func (a *Alignment) Sequence(i int) []byte {
	return a.seqs[i]
}

// Site returns the symbols found at column i, one per sequence, in sequence
// order.
func (a *Alignment) Site(i int) []byte {
	out := make([]byte, len(a.seqs))
	for j, s := range a.seqs {
		out[j] = s[i]
	}
	return out
}

// Position returns the reference position of column i.
func (a *Alignment) Position(i int) int {
	return a.positions[i]
}

// SetPositions overrides the per-column reference positions.
func (a *Alignment) SetPositions(positions []int) error {
	if len(positions) != a.Length() {
		return fmt.Errorf("popgen: %d positions for %d sites", len(positions), a.Length())
	}
	a.positions = make([]int, len(positions))
	copy(a.positions, positions)

	return nil
}

// SiteIsComplete reports whether column i contains no gap or unknown
// symbols.
func (a *Alignment) SiteIsComplete(i int) bool {
	for _, s := range a.seqs {
		if IsMissing(s[i]) {
			return false
		}
	}
	return true
}

// CompleteSites returns a new alignment restricted to the columns that
// contain no gap or unknown symbols. Reference positions carry over from the
// source columns.
func (a *Alignment) CompleteSites() *Alignment {
	var keep []int
	for i := 0; i < a.Length(); i++ {
		if a.SiteIsComplete(i) {
			keep = append(keep, i)
		}
	}
	return a.selectSites(keep)
}

func (a *Alignment) selectSites(keep []int) *Alignment {
	seqs := make([][]byte, len(a.seqs))
	for j, s := range a.seqs {
		seqs[j] = make([]byte, len(keep))
		for k, i := range keep {
			seqs[j][k] = s[i]
		}
	}

	positions := make([]int, len(keep))
	for k, i := range keep {
		positions[k] = a.positions[i]
	}

	names := make([]string, len(a.names))
	copy(names, a.names)

	return &Alignment{names: names, seqs: seqs, positions: positions}
}
