package seqstats

import (
	"errors"
	"fmt"
	"math"

	"github.com/carbocation/popgen"
)

// ErrInconsistentContainers indicates that a statistic was handed
// containers whose dimensions do not agree, such as an ingroup and an
// outgroup of different lengths.
var ErrInconsistentContainers = errors.New("seqstats: containers have inconsistent dimensions")

// TajimaDSS returns Tajima's D computed from the number of segregating
// sites S:
//
//	D = (pi - S/a1) / sqrt(e1*S + e2*S*(S-1))
//
// Note that e1 and e2 are both exactly zero for samples of two or three
// sequences, so the test is undefined there regardless of S.
func TajimaDSS(a *popgen.Alignment, includeGaps bool) (float64, error) {
	return tajimaD(a, PolymorphicSiteNumber(a, includeGaps), includeGaps, "tajima D (segregating sites)")
}

// TajimaDTNM returns Tajima's D computed with the total number of
// mutations eta in place of the segregating-site count.
func TajimaDTNM(a *popgen.Alignment, includeGaps bool) (float64, error) {
	return tajimaD(a, TotalNumberOfMutations(a, includeGaps), includeGaps, "tajima D (total mutations)")
}

func tajimaD(a *popgen.Alignment, s int, includeGaps bool, what string) (float64, error) {
	cf, err := CoefficientsFor(a.NumberOfSequences())
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}
	if s == 0 {
		return 0, fmt.Errorf("%s with no polymorphism: %w", what, ErrUndefined)
	}

	pi, err := Tajima83(a, includeGaps)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", what, err)
	}

	ss := float64(s)
	variance := cf.E1*ss + cf.E2*ss*(ss-1)
	if variance <= 0 {
		return 0, fmt.Errorf("%s has a non-positive variance term: %w", what, ErrUndefined)
	}

	return (pi - ss/cf.A1) / math.Sqrt(variance), nil
}

// FuLiD returns the Fu and Li (1993) D test. The outgroup polarizes
// mutations: eta is the total number of mutations in the ingroup and etaE
// the number of singletons in the outgroup.
func FuLiD(ingroup, outgroup *popgen.Alignment, includeGaps bool) (float64, error) {
	cf, nn, err := fuliSetup(ingroup, outgroup, "fu and li D")
	if err != nil {
		return 0, err
	}

	vD := 1 + (cf.A1*cf.A1/(cf.A2+cf.A1*cf.A1))*(cf.Cn-(nn+1)/(nn-1))
	uD := cf.A1 - 1 - vD

	eta := float64(TotalNumberOfMutations(ingroup, includeGaps))
	etaE := float64(SingletonNumber(outgroup, includeGaps))

	num := eta - cf.A1*etaE
	return fuliRatio(num, uD, vD, eta, "fu and li D")
}

// FuLiDStar returns the Fu and Li (1993) D* test, the outgroup-free
// variant of D built from the singletons of the sample itself.
func FuLiDStar(a *popgen.Alignment, includeGaps bool) (float64, error) {
	cf, nn, err := fuliSetup(a, nil, "fu and li D*")
	if err != nil {
		return 0, err
	}
	rn := nn / (nn - 1)

	vDs := (rn*rn*cf.A2 + cf.A1*cf.A1*cf.Dn - 2*nn*cf.A1*(cf.A1+1)/((nn-1)*(nn-1))) /
		(cf.A1*cf.A1 + cf.A2)
	uDs := rn*(cf.A1-rn) - vDs

	eta := float64(TotalNumberOfMutations(a, includeGaps))
	etaS := float64(SingletonNumber(a, includeGaps))

	num := rn*eta - cf.A1*etaS
	return fuliRatio(num, uDs, vDs, eta, "fu and li D*")
}

// FuLiF returns the Fu and Li (1993) F test, which contrasts pi with the
// outgroup-polarized singleton count.
func FuLiF(ingroup, outgroup *popgen.Alignment, includeGaps bool) (float64, error) {
	cf, nn, err := fuliSetup(ingroup, outgroup, "fu and li F")
	if err != nil {
		return 0, err
	}

	vF := (cf.Cn + 2*(nn*nn+nn+3)/(9*nn*(nn-1)) - 2/(nn-1)) / (cf.A1*cf.A1 + cf.A2)
	uF := (1+(nn+1)/(3*(nn-1))-4*(nn+1)/((nn-1)*(nn-1))*(cf.A1n-2*nn/(nn+1)))/cf.A1 - vF

	pi, err := Tajima83(ingroup, includeGaps)
	if err != nil {
		return 0, fmt.Errorf("fu and li F: %w", err)
	}
	eta := float64(TotalNumberOfMutations(ingroup, includeGaps))
	etaE := float64(SingletonNumber(outgroup, includeGaps))

	return fuliRatio(pi-etaE, uF, vF, eta, "fu and li F")
}

// FuLiFStar returns the Fu and Li (1993) F* test, the outgroup-free
// variant of F.
func FuLiFStar(a *popgen.Alignment, includeGaps bool) (float64, error) {
	cf, nn, err := fuliSetup(a, nil, "fu and li F*")
	if err != nil {
		return 0, err
	}

	vFs := (cf.Dn + 2*(nn*nn+nn+3)/(9*nn*(nn-1)) - (2/(nn-1))*(4*cf.A2-6+8/nn)) /
		(cf.A1*cf.A1 + cf.A2)
	uFs := (nn/(nn-1)+(nn+1)/(3*(nn-1))-4/(nn*(nn-1))+2*(nn+1)/((nn-1)*(nn-1))*(cf.A1n-2*nn/(nn+1)))/cf.A1 - vFs

	pi, err := Tajima83(a, includeGaps)
	if err != nil {
		return 0, fmt.Errorf("fu and li F*: %w", err)
	}
	eta := float64(TotalNumberOfMutations(a, includeGaps))
	etaS := float64(SingletonNumber(a, includeGaps))

	return fuliRatio(pi-((nn-1)/nn)*etaS, uFs, vFs, eta, "fu and li F*")
}

func fuliSetup(a, outgroup *popgen.Alignment, what string) (Coefficients, float64, error) {
	if outgroup != nil && a.Length() != outgroup.Length() {
		return Coefficients{}, 0, fmt.Errorf("%s: ingroup has %d sites, outgroup %d: %w",
			what, a.Length(), outgroup.Length(), ErrInconsistentContainers)
	}
	cf, err := CoefficientsFor(a.NumberOfSequences())
	if err != nil {
		return Coefficients{}, 0, fmt.Errorf("%s: %w", what, err)
	}
	return cf, float64(a.NumberOfSequences()), nil
}

func fuliRatio(num, u, v, eta float64, what string) (float64, error) {
	if eta == 0 {
		return 0, fmt.Errorf("%s with no mutations: %w", what, ErrUndefined)
	}
	variance := u*eta + v*eta*eta
	if variance <= 0 {
		return 0, fmt.Errorf("%s has a non-positive variance term: %w", what, ErrUndefined)
	}
	return num / math.Sqrt(variance), nil
}
