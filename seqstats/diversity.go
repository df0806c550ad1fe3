package seqstats

import (
	"fmt"

	"github.com/carbocation/popgen"
)

// Watterson75 returns the Watterson (1975) estimator of theta, the number
// of polymorphic sites divided by the harmonic coefficient a1.
func Watterson75(a *popgen.Alignment, includeGaps bool) (float64, error) {
	cf, err := CoefficientsFor(a.NumberOfSequences())
	if err != nil {
		return 0, fmt.Errorf("watterson75: %w", err)
	}

	s := PolymorphicSiteNumber(a, includeGaps)

	return float64(s) / cf.A1, nil
}

// Tajima83 returns the Tajima (1983) estimator of theta, the sum over
// polymorphic sites of the per-site heterozygosity
//
//	1 - sum_j k_j(k_j-1) / (n_i(n_i-1))
//
// where k_j counts the j'th state and n_i is the counted sample size at the
// site.
func Tajima83(a *popgen.Alignment, includeGaps bool) (float64, error) {
	if a.NumberOfSequences() < 2 {
		return 0, fmt.Errorf("tajima83 needs at least two sequences: %w", ErrUndefined)
	}

	pi := 0.0
	for i := 0; i < a.Length(); i++ {
		counts := countStates(a.Site(i), includeGaps)
		if len(counts) < 2 {
			continue
		}
		ni := countedSampleSize(counts)
		if ni < 2 {
			continue
		}

		homo := 0.0
		for _, c := range counts {
			homo += float64(c.n) * float64(c.n-1)
		}
		pi += 1 - homo/(float64(ni)*float64(ni-1))
	}

	return pi, nil
}

// haplotypeCounts groups identical sequences and returns the size of each
// group. Without includeGaps, sequences are compared over complete sites
// only.
func haplotypeCounts(a *popgen.Alignment, includeGaps bool) []int {
	if !includeGaps {
		a = a.CompleteSites()
	}

	var (
		seen   []string
		counts []int
	)
Seqs:
	for i := 0; i < a.NumberOfSequences(); i++ {
		h := string(a.Sequence(i))
		for j, s := range seen {
			if s == h {
				counts[j]++
				continue Seqs
			}
		}
		seen = append(seen, h)
		counts = append(counts, 1)
	}

	return counts
}

// DVK returns the number of distinct haplotypes in the sample (Depaulis and
// Veuille 1998).
func DVK(a *popgen.Alignment, includeGaps bool) int {
	return len(haplotypeCounts(a, includeGaps))
}

// DVH returns the haplotype diversity of the sample (Depaulis and Veuille
// 1998), scaled by n/(n-1).
func DVH(a *popgen.Alignment, includeGaps bool) (float64, error) {
	n := a.NumberOfSequences()
	if n < 2 {
		return 0, fmt.Errorf("dvh needs at least two sequences: %w", ErrUndefined)
	}

	nn := float64(n)
	homo := 0.0
	for _, c := range haplotypeCounts(a, includeGaps) {
		f := float64(c) / nn
		homo += f * f
	}

	return (nn / (nn - 1)) * (1 - homo), nil
}

// biallelicPair returns the two states of a site that is strictly
// biallelic over complete data, or ok=false otherwise.
func biallelicPair(a *popgen.Alignment, i int) (s1, s2 byte, ok bool) {
	if !a.SiteIsComplete(i) {
		return 0, 0, false
	}
	counts := countStates(a.Site(i), false)
	if len(counts) != 2 {
		return 0, 0, false
	}
	return counts[0].state, counts[1].state, true
}

// NumberOfTransitions returns the number of complete biallelic sites whose
// two states are a purine pair or a pyrimidine pair.
func NumberOfTransitions(a *popgen.Alignment) int {
	ts := 0
	for i := 0; i < a.Length(); i++ {
		if s1, s2, ok := biallelicPair(a, i); ok && popgen.IsTransition(s1, s2) {
			ts++
		}
	}
	return ts
}

// NumberOfTransversions returns the number of complete biallelic sites
// whose two states pair a purine with a pyrimidine.
func NumberOfTransversions(a *popgen.Alignment) int {
	tv := 0
	for i := 0; i < a.Length(); i++ {
		if s1, s2, ok := biallelicPair(a, i); ok && !popgen.IsTransition(s1, s2) {
			tv++
		}
	}
	return tv
}

// TsTvRatio returns the ratio of transition to transversion sites.
func TsTvRatio(a *popgen.Alignment) (float64, error) {
	tv := NumberOfTransversions(a)
	if tv == 0 {
		return 0, fmt.Errorf("ts/tv ratio with no transversion sites: %w", ErrUndefined)
	}
	return float64(NumberOfTransitions(a)) / float64(tv), nil
}

// GCContent returns the fraction of G and C among all non-missing symbols
// in the alignment.
func GCContent(a *popgen.Alignment) (float64, error) {
	gc, total := 0, 0
	for i := 0; i < a.NumberOfSequences(); i++ {
		for _, b := range a.Sequence(i) {
			if popgen.IsMissing(b) {
				continue
			}
			total++
			if popgen.IsGC(b) {
				gc++
			}
		}
	}
	if total == 0 {
		return 0, fmt.Errorf("gc content of an all-gap alignment: %w", ErrUndefined)
	}

	return float64(gc) / float64(total), nil
}

// GCPolymorphism returns the number of G or C allele copies and the total
// number of allele copies, summed over the polymorphic sites that segregate
// a G or C against an A or T. Pure G-vs-C and A-vs-T polymorphisms do not
// qualify.
func GCPolymorphism(a *popgen.Alignment) (gc, total int) {
	for i := 0; i < a.Length(); i++ {
		counts := countStates(a.Site(i), false)
		if len(counts) < 2 {
			continue
		}

		siteGC, siteAT := 0, 0
		for _, c := range counts {
			switch {
			case popgen.IsGC(c.state):
				siteGC += c.n
			case popgen.IsAT(c.state):
				siteAT += c.n
			}
		}
		if siteGC > 0 && siteAT > 0 {
			gc += siteGC
			total += siteGC + siteAT
		}
	}

	return gc, total
}
