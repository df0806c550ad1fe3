// Package seqstats computes population genetic summary statistics over
// aligned DNA sequences: polymorphism counts, diversity estimators,
// neutrality tests, codon-level polymorphism measures, and linkage
// disequilibrium.
//
// Statistics take an explicit includeGaps flag where the underlying
// computation depends on whether gap and unknown symbols count as states.
// The flag is applied uniformly: with includeGaps, missing symbols are
// ordinary states; without it, they are dropped from each site before
// counting. A statistic that is undefined for its input (too few sequences,
// no polymorphism, a zero variance term) returns an error wrapping
// ErrUndefined rather than a silent NaN.
package seqstats

import (
	"errors"

	"github.com/carbocation/popgen"
)

// ErrUndefined indicates that a statistic is not defined for the given
// input.
var ErrUndefined = errors.New("seqstats: statistic undefined for this input")

// stateCount tallies one symbol at one site.
type stateCount struct {
	state byte
	n     int
}

// countStates tallies the distinct symbols at a site in first-encountered
// order. With includeGaps, gap and unknown symbols count as ordinary states;
// otherwise they are skipped.
func countStates(site []byte, includeGaps bool) []stateCount {
	var counts []stateCount

Symbols:
	for _, b := range site {
		if !includeGaps && popgen.IsMissing(b) {
			continue
		}
		for i := range counts {
			if counts[i].state == b {
				counts[i].n++
				continue Symbols
			}
		}
		counts = append(counts, stateCount{state: b, n: 1})
	}

	return counts
}

func countedSampleSize(counts []stateCount) int {
	n := 0
	for _, c := range counts {
		n += c.n
	}
	return n
}

// DistinctStates returns the number of distinct states at a site.
func DistinctStates(site []byte, includeGaps bool) int {
	return len(countStates(site, includeGaps))
}

// SiteMutationCount returns the minimum number of mutations needed to
// explain a site under an infinite-sites view: one fewer than the number of
// distinct states, and zero for a constant or empty site.
func SiteMutationCount(site []byte, includeGaps bool) int {
	k := DistinctStates(site, includeGaps)
	if k < 1 {
		return 0
	}
	return k - 1
}

// SiteSingletonCount returns the number of states observed in exactly one
// sequence at a site.
func SiteSingletonCount(site []byte, includeGaps bool) int {
	singletons := 0
	for _, c := range countStates(site, includeGaps) {
		if c.n == 1 {
			singletons++
		}
	}
	return singletons
}

// SiteIsPolymorphic reports whether a site carries at least two distinct
// states.
func SiteIsPolymorphic(site []byte, includeGaps bool) bool {
	return DistinctStates(site, includeGaps) >= 2
}

// SiteIsParsimonyInformative reports whether a site carries at least two
// states that each appear in at least two sequences.
func SiteIsParsimonyInformative(site []byte, includeGaps bool) bool {
	informative := 0
	for _, c := range countStates(site, includeGaps) {
		if c.n >= 2 {
			informative++
		}
	}
	return informative >= 2
}

// PolymorphicSiteNumber returns the number of polymorphic sites in the
// alignment.
func PolymorphicSiteNumber(a *popgen.Alignment, includeGaps bool) int {
	s := 0
	for i := 0; i < a.Length(); i++ {
		if SiteIsPolymorphic(a.Site(i), includeGaps) {
			s++
		}
	}
	return s
}

// ParsimonyInformativeSiteNumber returns the number of parsimony
// informative sites in the alignment.
func ParsimonyInformativeSiteNumber(a *popgen.Alignment, includeGaps bool) int {
	s := 0
	for i := 0; i < a.Length(); i++ {
		if SiteIsParsimonyInformative(a.Site(i), includeGaps) {
			s++
		}
	}
	return s
}

// SingletonNumber returns the total number of singleton states across all
// sites of the alignment.
func SingletonNumber(a *popgen.Alignment, includeGaps bool) int {
	s := 0
	for i := 0; i < a.Length(); i++ {
		s += SiteSingletonCount(a.Site(i), includeGaps)
	}
	return s
}

// TotalNumberOfMutations returns the sum of per-site mutation counts across
// the alignment, an infinite-sites estimate usually written eta.
func TotalNumberOfMutations(a *popgen.Alignment, includeGaps bool) int {
	eta := 0
	for i := 0; i < a.Length(); i++ {
		eta += SiteMutationCount(a.Site(i), includeGaps)
	}
	return eta
}

// TripletNumber returns the number of sites carrying at least three
// distinct states.
func TripletNumber(a *popgen.Alignment, includeGaps bool) int {
	s := 0
	for i := 0; i < a.Length(); i++ {
		if DistinctStates(a.Site(i), includeGaps) >= 3 {
			s++
		}
	}
	return s
}
