package seqstats

import (
	"errors"
	"fmt"

	"github.com/carbocation/popgen"
)

// ErrNoGeneticCode indicates that a codon statistic was called without a
// genetic code.
var ErrNoGeneticCode = errors.New("seqstats: no genetic code supplied")

// ErrNotCodonAligned indicates that the alignment length is not a multiple
// of three.
var ErrNotCodonAligned = errors.New("seqstats: alignment length is not a multiple of three")

var bases = [4]byte{'A', 'C', 'G', 'T'}

// codonCount tallies one codon at one codon site.
type codonCount struct {
	codon [3]byte
	n     int
}

func checkCodonInput(a *popgen.Alignment, code *popgen.GeneticCode, what string) error {
	if code == nil {
		return fmt.Errorf("%s: %w", what, ErrNoGeneticCode)
	}
	if a.Length()%3 != 0 {
		return fmt.Errorf("%s: length %d: %w", what, a.Length(), ErrNotCodonAligned)
	}
	return nil
}

// codonSiteComplete reports whether every sequence is gap- and
// ambiguity-free over columns 3t..3t+2.
func codonSiteComplete(a *popgen.Alignment, t int) bool {
	for p := 3 * t; p < 3*t+3; p++ {
		if !a.SiteIsComplete(p) {
			return false
		}
	}
	return true
}

// codonSiteCounts tallies the distinct codons at codon site t in
// first-encountered order. The site must be complete.
func codonSiteCounts(a *popgen.Alignment, t int) []codonCount {
	var counts []codonCount

Seqs:
	for i := 0; i < a.NumberOfSequences(); i++ {
		s := a.Sequence(i)
		codon := [3]byte{s[3*t], s[3*t+1], s[3*t+2]}
		for j := range counts {
			if counts[j].codon == codon {
				counts[j].n++
				continue Seqs
			}
		}
		counts = append(counts, codonCount{codon: codon, n: 1})
	}

	return counts
}

func containsStop(counts []codonCount, code *popgen.GeneticCode) bool {
	for _, c := range counts {
		if code.IsStop(c.codon[:]) {
			return true
		}
	}
	return false
}

// eachCodonSite visits every complete codon site, applying the stop filter,
// and hands the tallied codons to fn. Codon sites containing gaps or
// ambiguities in any sequence are skipped.
func eachCodonSite(a *popgen.Alignment, code *popgen.GeneticCode, includeStops bool, fn func(counts []codonCount)) {
	for t := 0; t < a.Length()/3; t++ {
		if !codonSiteComplete(a, t) {
			continue
		}
		counts := codonSiteCounts(a, t)
		if !includeStops && containsStop(counts, code) {
			continue
		}
		fn(counts)
	}
}

// StopCodonSiteNumber returns the number of complete codon sites at which
// at least one sequence carries a stop codon.
func StopCodonSiteNumber(a *popgen.Alignment, code *popgen.GeneticCode) (int, error) {
	if err := checkCodonInput(a, code, "stop codon site number"); err != nil {
		return 0, err
	}

	stops := 0
	eachCodonSite(a, code, true, func(counts []codonCount) {
		if containsStop(counts, code) {
			stops++
		}
	})

	return stops, nil
}

// MonoSitePolymorphicCodonNumber returns the number of polymorphic codon
// sites at which exactly one of the three nucleotide positions is
// polymorphic.
func MonoSitePolymorphicCodonNumber(a *popgen.Alignment, code *popgen.GeneticCode, includeStops bool) (int, error) {
	if err := checkCodonInput(a, code, "mono-site polymorphic codon number"); err != nil {
		return 0, err
	}

	mono := 0
	eachCodonSite(a, code, includeStops, func(counts []codonCount) {
		if len(counts) < 2 {
			return
		}
		if polymorphicPositions(counts) == 1 {
			mono++
		}
	})

	return mono, nil
}

func polymorphicPositions(counts []codonCount) int {
	poly := 0
	for p := 0; p < 3; p++ {
		for _, c := range counts[1:] {
			if c.codon[p] != counts[0].codon[p] {
				poly++
				break
			}
		}
	}
	return poly
}

// SynonymousPolymorphicCodonNumber returns the number of polymorphic codon
// sites at which every observed codon encodes the same amino acid.
func SynonymousPolymorphicCodonNumber(a *popgen.Alignment, code *popgen.GeneticCode, includeStops bool) (int, error) {
	if err := checkCodonInput(a, code, "synonymous polymorphic codon number"); err != nil {
		return 0, err
	}

	syn := 0
	eachCodonSite(a, code, includeStops, func(counts []codonCount) {
		if len(counts) < 2 {
			return
		}
		aa0 := mustTranslate(code, counts[0].codon)
		for _, c := range counts[1:] {
			if mustTranslate(code, c.codon) != aa0 {
				return
			}
		}
		syn++
	})

	return syn, nil
}

// NonSynonymousPolymorphicCodonNumber returns the number of polymorphic
// codon sites at which the observed codons encode two or more amino acids.
func NonSynonymousPolymorphicCodonNumber(a *popgen.Alignment, code *popgen.GeneticCode, includeStops bool) (int, error) {
	if err := checkCodonInput(a, code, "non-synonymous polymorphic codon number"); err != nil {
		return 0, err
	}

	nonsyn := 0
	eachCodonSite(a, code, includeStops, func(counts []codonCount) {
		if len(counts) < 2 {
			return
		}
		aa0 := mustTranslate(code, counts[0].codon)
		for _, c := range counts[1:] {
			if mustTranslate(code, c.codon) != aa0 {
				nonsyn++
				return
			}
		}
	})

	return nonsyn, nil
}

// mustTranslate translates a codon known to be free of gaps and
// ambiguities.
func mustTranslate(code *popgen.GeneticCode, codon [3]byte) byte {
	aa, err := code.Translate(codon[:])
	if err != nil {
		panic(err)
	}
	return aa
}

// synonymousDifferences returns the synonymous and non-synonymous
// substitution counts separating two codons, averaged over the mutational
// pathways between them. Pathways passing through an intermediate stop
// codon are excluded unless every pathway does. With minChange, the pathway
// with the fewest non-synonymous substitutions is used instead of the
// average.
func synonymousDifferences(c1, c2 [3]byte, code *popgen.GeneticCode, minChange bool) (syn, nonsyn float64) {
	var diffs []int
	for p := 0; p < 3; p++ {
		if c1[p] != c2[p] {
			diffs = append(diffs, p)
		}
	}
	if len(diffs) == 0 {
		return 0, 0
	}

	type path struct {
		syn     float64
		blocked bool
	}
	var paths []path

	var walk func(cur [3]byte, remaining []int, synSoFar float64, blocked bool)
	walk = func(cur [3]byte, remaining []int, synSoFar float64, blocked bool) {
		if len(remaining) == 0 {
			paths = append(paths, path{syn: synSoFar, blocked: blocked})
			return
		}
		for i, p := range remaining {
			next := cur
			next[p] = c2[p]

			step := synSoFar
			if mustTranslate(code, cur) == mustTranslate(code, next) {
				step++
			}

			// A stop codon blocks a pathway only as an intermediate,
			// never as an endpoint.
			nowBlocked := blocked
			if len(remaining) > 1 && code.IsStop(next[:]) {
				nowBlocked = true
			}

			rest := make([]int, 0, len(remaining)-1)
			rest = append(rest, remaining[:i]...)
			rest = append(rest, remaining[i+1:]...)
			walk(next, rest, step, nowBlocked)
		}
	}
	walk(c1, diffs, 0, false)

	usable := paths[:0:0]
	for _, p := range paths {
		if !p.blocked {
			usable = append(usable, p)
		}
	}
	if len(usable) == 0 {
		usable = paths
	}

	total := float64(len(diffs))
	if minChange {
		best := usable[0].syn
		for _, p := range usable[1:] {
			if p.syn > best {
				best = p.syn
			}
		}
		return best, total - best
	}

	sum := 0.0
	for _, p := range usable {
		sum += p.syn
	}
	avg := sum / float64(len(usable))
	return avg, total - avg
}

// piSynNonSyn accumulates the synonymous and non-synonymous components of
// nucleotide diversity over codon sites.
func piSynNonSyn(a *popgen.Alignment, code *popgen.GeneticCode, includeStops, minChange bool, what string) (piSyn, piNonSyn float64, err error) {
	if err := checkCodonInput(a, code, what); err != nil {
		return 0, 0, err
	}
	n := a.NumberOfSequences()
	if n < 2 {
		return 0, 0, fmt.Errorf("%s needs at least two sequences: %w", what, ErrUndefined)
	}
	norm := float64(n) * float64(n-1)

	eachCodonSite(a, code, includeStops, func(counts []codonCount) {
		for i := 0; i < len(counts); i++ {
			for j := i + 1; j < len(counts); j++ {
				s, ns := synonymousDifferences(counts[i].codon, counts[j].codon, code, minChange)
				w := 2 * float64(counts[i].n) * float64(counts[j].n) / norm
				piSyn += w * s
				piNonSyn += w * ns
			}
		}
	})

	return piSyn, piNonSyn, nil
}

// PiSynonymous returns the synonymous nucleotide diversity over all
// complete codon sites.
func PiSynonymous(a *popgen.Alignment, code *popgen.GeneticCode, includeStops, minChange bool) (float64, error) {
	piSyn, _, err := piSynNonSyn(a, code, includeStops, minChange, "pi synonymous")
	return piSyn, err
}

// PiNonSynonymous returns the non-synonymous nucleotide diversity over all
// complete codon sites.
func PiNonSynonymous(a *popgen.Alignment, code *popgen.GeneticCode, includeStops, minChange bool) (float64, error) {
	_, piNonSyn, err := piSynNonSyn(a, code, includeStops, minChange, "pi non-synonymous")
	return piNonSyn, err
}

// synonymousPositions returns the weighted count of synonymous positions of
// a codon: each position contributes the weight of its synonymous
// single-base changes, where a transition weighs ratio/(ratio+2) and a
// transversion 1/(ratio+2). Changes that create a stop codon are dropped.
func synonymousPositions(codon [3]byte, code *popgen.GeneticCode, ratio float64) float64 {
	syn := 0.0
	aa0 := mustTranslate(code, codon)
	for p := 0; p < 3; p++ {
		for _, alt := range bases {
			if alt == codon[p] {
				continue
			}
			mut := codon
			mut[p] = alt
			if code.IsStop(mut[:]) {
				continue
			}
			if mustTranslate(code, mut) == aa0 {
				if popgen.IsTransition(codon[p], alt) {
					syn += ratio / (ratio + 2)
				} else {
					syn += 1 / (ratio + 2)
				}
			}
		}
	}
	return syn
}

// MeanSynonymousSitesNumber returns the number of synonymous sites in the
// alignment: the sum over complete codon sites of the frequency-weighted
// mean synonymous-position count. A codon site is x% synonymous if x% of
// the possible single-base changes are synonymous; ratio weighs
// transitions against transversions.
func MeanSynonymousSitesNumber(a *popgen.Alignment, code *popgen.GeneticCode, ratio float64, includeStops bool) (float64, error) {
	if err := checkCodonInput(a, code, "mean synonymous sites number"); err != nil {
		return 0, err
	}

	total := 0.0
	eachCodonSite(a, code, includeStops, func(counts []codonCount) {
		n := 0
		for _, c := range counts {
			n += c.n
		}
		for _, c := range counts {
			total += float64(c.n) / float64(n) * synonymousPositions(c.codon, code, ratio)
		}
	})

	return total, nil
}

// MeanNonSynonymousSitesNumber returns the number of non-synonymous sites
// in the alignment, the per-codon-site complement (three minus the
// synonymous-position count) summed over complete codon sites. Changes to
// stop codons count as non-synonymous.
func MeanNonSynonymousSitesNumber(a *popgen.Alignment, code *popgen.GeneticCode, ratio float64, includeStops bool) (float64, error) {
	if err := checkCodonInput(a, code, "mean non-synonymous sites number"); err != nil {
		return 0, err
	}

	total := 0.0
	eachCodonSite(a, code, includeStops, func(counts []codonCount) {
		n := 0
		for _, c := range counts {
			n += c.n
		}
		site := 0.0
		for _, c := range counts {
			site += float64(c.n) / float64(n) * synonymousPositions(c.codon, code, ratio)
		}
		total += 3 - site
	})

	return total, nil
}
