package seqstats

import (
	"fmt"
	"math"

	"github.com/carbocation/popgen"
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// LDContainer holds the sites retained for linkage disequilibrium
// analysis: complete, strictly biallelic sites, recoded per sequence as a
// boolean indicator that is true for the majority allele. All pairwise
// vectors enumerate site pairs (i, j) with i < j in retained order.
type LDContainer struct {
	indicators [][]bool // per retained site, per sequence
	positions  []int    // reference position of each retained site
	columns    []int    // source column of each retained site
	source     *popgen.Alignment
}

// GenerateLDContainer scans the alignment and retains the complete sites
// that carry exactly two states. Sites whose minor allele is a singleton
// are dropped unless keepSingletons, and sites whose minor allele frequency
// is below freqMin are dropped. When both alleles are equally frequent, the
// first-encountered state is taken as the majority allele.
func GenerateLDContainer(a *popgen.Alignment, keepSingletons bool, freqMin float64) (*LDContainer, error) {
	n := a.NumberOfSequences()
	if n < 2 {
		return nil, fmt.Errorf("ld container needs at least two sequences: %w", ErrUndefined)
	}

	ld := &LDContainer{source: a}
	for i := 0; i < a.Length(); i++ {
		if !a.SiteIsComplete(i) {
			continue
		}
		counts := countStates(a.Site(i), false)
		if len(counts) != 2 {
			continue
		}

		minor := counts[0].n
		if counts[1].n < minor {
			minor = counts[1].n
		}
		if !keepSingletons && minor == 1 {
			continue
		}
		if float64(minor)/float64(n) < freqMin {
			continue
		}

		major := counts[0].state
		if counts[1].n > counts[0].n {
			major = counts[1].state
		}

		ind := make([]bool, n)
		for j, b := range a.Site(i) {
			ind[j] = b == major
		}

		ld.indicators = append(ld.indicators, ind)
		ld.positions = append(ld.positions, a.Position(i))
		ld.columns = append(ld.columns, i)
	}

	return ld, nil
}

// NumberOfSites returns the number of retained biallelic sites.
func (ld *LDContainer) NumberOfSites() int {
	return len(ld.indicators)
}

// NumberOfSequences returns the number of sequences in the source
// alignment.
func (ld *LDContainer) NumberOfSequences() int {
	return ld.source.NumberOfSequences()
}

// Position returns the reference position of the i'th retained site.
func (ld *LDContainer) Position(i int) int {
	return ld.positions[i]
}

// majorityFrequency returns the frequency of the majority allele at
// retained site i.
func (ld *LDContainer) majorityFrequency(i int) float64 {
	k := 0
	for _, v := range ld.indicators[i] {
		if v {
			k++
		}
	}
	return float64(k) / float64(len(ld.indicators[i]))
}

// jointFrequency returns the frequency of sequences carrying the majority
// allele at both retained sites i and j.
func (ld *LDContainer) jointFrequency(i, j int) float64 {
	k := 0
	for s := range ld.indicators[i] {
		if ld.indicators[i][s] && ld.indicators[j][s] {
			k++
		}
	}
	return float64(k) / float64(len(ld.indicators[i]))
}

// eachPair visits every retained site pair (i, j), i < j, in order.
func (ld *LDContainer) eachPair(fn func(i, j int)) {
	for i := 0; i < len(ld.indicators); i++ {
		for j := i + 1; j < len(ld.indicators); j++ {
			fn(i, j)
		}
	}
}

// d returns the classical disequilibrium coefficient for one site pair,
// the joint majority-allele frequency minus its expectation under
// independence (Lewontin and Kojima 1964).
func (ld *LDContainer) d(i, j int) float64 {
	return ld.jointFrequency(i, j) - ld.majorityFrequency(i)*ld.majorityFrequency(j)
}

// PairwiseD returns D for every site pair.
func (ld *LDContainer) PairwiseD() []float64 {
	var out []float64
	ld.eachPair(func(i, j int) {
		out = append(out, ld.d(i, j))
	})
	return out
}

// PairwiseDPrime returns Lewontin's (1964) D' for every site pair: D
// normalized by its largest attainable magnitude given the marginal allele
// frequencies. The sign of D is preserved.
func (ld *LDContainer) PairwiseDPrime() []float64 {
	var out []float64
	ld.eachPair(func(i, j int) {
		out = append(out, ld.dprime(i, j))
	})
	return out
}

func (ld *LDContainer) dprime(i, j int) float64 {
	d := ld.d(i, j)
	if d == 0 {
		return 0
	}
	p1 := ld.majorityFrequency(i)
	p2 := ld.majorityFrequency(j)

	var dmax float64
	if d > 0 {
		dmax = math.Min(p1*(1-p2), (1-p1)*p2)
	} else {
		dmax = math.Min(p1*p2, (1-p1)*(1-p2))
	}

	return d / dmax
}

// PairwiseR2 returns the Hill and Robertson (1968) r-squared for every
// site pair.
func (ld *LDContainer) PairwiseR2() []float64 {
	var out []float64
	ld.eachPair(func(i, j int) {
		out = append(out, ld.r2(i, j))
	})
	return out
}

func (ld *LDContainer) r2(i, j int) float64 {
	d := ld.d(i, j)
	p1 := ld.majorityFrequency(i)
	p2 := ld.majorityFrequency(j)
	return d * d / (p1 * (1 - p1) * p2 * (1 - p2))
}

// PairwiseDistances1 returns, for every site pair, the raw distance
// between the two sites' reference positions, ignoring per-sequence gap
// structure.
func (ld *LDContainer) PairwiseDistances1() []float64 {
	var out []float64
	ld.eachPair(func(i, j int) {
		d := ld.positions[j] - ld.positions[i]
		if d < 0 {
			d = -d
		}
		out = append(out, float64(d))
	})
	return out
}

// PairwiseDistances2 returns, for every site pair, the gap-adjusted
// distance: the number of non-missing symbols each sequence carries between
// the two source columns, averaged over sequences. Without gaps this equals
// the raw column distance.
func (ld *LDContainer) PairwiseDistances2() []float64 {
	var out []float64
	ld.eachPair(func(i, j int) {
		sum := 0
		for s := 0; s < ld.source.NumberOfSequences(); s++ {
			seq := ld.source.Sequence(s)
			for p := ld.columns[i]; p < ld.columns[j]; p++ {
				if !popgen.IsMissing(seq[p]) {
					sum++
				}
			}
		}
		out = append(out, float64(sum)/float64(ld.source.NumberOfSequences()))
	})
	return out
}

func (ld *LDContainer) distances(distance1 bool) []float64 {
	if distance1 {
		return ld.PairwiseDistances1()
	}
	return ld.PairwiseDistances2()
}

func meanOf(ds []float64, what string) (float64, error) {
	m, err := stats.Mean(ds)
	if err != nil {
		return 0, fmt.Errorf("%s over no site pairs: %w", what, ErrUndefined)
	}
	return m, nil
}

// MeanD returns the mean of D over all site pairs.
func (ld *LDContainer) MeanD() (float64, error) {
	return meanOf(ld.PairwiseD(), "mean D")
}

// MeanDPrime returns the mean of D' over all site pairs.
func (ld *LDContainer) MeanDPrime() (float64, error) {
	return meanOf(ld.PairwiseDPrime(), "mean D'")
}

// MeanR2 returns the mean of r-squared over all site pairs.
func (ld *LDContainer) MeanR2() (float64, error) {
	return meanOf(ld.PairwiseR2(), "mean r2")
}

// MeanDistance1 returns the mean raw pairwise distance.
func (ld *LDContainer) MeanDistance1() (float64, error) {
	return meanOf(ld.PairwiseDistances1(), "mean distance1")
}

// MeanDistance2 returns the mean gap-adjusted pairwise distance.
func (ld *LDContainer) MeanDistance2() (float64, error) {
	return meanOf(ld.PairwiseDistances2(), "mean distance2")
}

// kb rescales base-pair distances so regression slopes come out per
// kilobase.
func kb(ds []float64) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = d / 1000
	}
	return out
}

func originSlope(x, y []float64, what string) (float64, error) {
	if len(x) == 0 {
		return 0, fmt.Errorf("%s over no site pairs: %w", what, ErrUndefined)
	}
	_, beta := stat.LinearRegression(x, y, nil, true)
	if math.IsNaN(beta) || math.IsInf(beta, 0) {
		return 0, fmt.Errorf("%s is degenerate: %w", what, ErrUndefined)
	}
	return beta, nil
}

func linearFit(x, y []float64, what string) (slope, intercept float64, err error) {
	if len(x) < 2 {
		return 0, 0, fmt.Errorf("%s needs at least two site pairs: %w", what, ErrUndefined)
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(alpha) || math.IsNaN(beta) || math.IsInf(alpha, 0) || math.IsInf(beta, 0) {
		return 0, 0, fmt.Errorf("%s is degenerate: %w", what, ErrUndefined)
	}
	return beta, alpha, nil
}

// OriginRegressionD fits |D| = 1 + a*distance and returns the slope a in
// units per kilobase. Distances follow distance1 or distance2 according to
// the flag.
func (ld *LDContainer) OriginRegressionD(distance1 bool) (float64, error) {
	return ld.originRegression(absAll(ld.PairwiseD()), distance1, "origin regression of |D|")
}

// OriginRegressionDPrime fits |D'| = 1 + a*distance and returns the slope
// a in units per kilobase.
func (ld *LDContainer) OriginRegressionDPrime(distance1 bool) (float64, error) {
	return ld.originRegression(absAll(ld.PairwiseDPrime()), distance1, "origin regression of |D'|")
}

// OriginRegressionR2 fits r2 = 1 + a*distance and returns the slope a in
// units per kilobase.
func (ld *LDContainer) OriginRegressionR2(distance1 bool) (float64, error) {
	return ld.originRegression(ld.PairwiseR2(), distance1, "origin regression of r2")
}

func (ld *LDContainer) originRegression(y []float64, distance1 bool, what string) (float64, error) {
	// The intercept is pinned at 1, so regress y-1 through the origin.
	shifted := make([]float64, len(y))
	for i, v := range y {
		shifted[i] = v - 1
	}
	return originSlope(kb(ld.distances(distance1)), shifted, what)
}

// LinearRegressionD fits |D| = a*distance + b and returns the slope in
// units per kilobase together with the intercept.
func (ld *LDContainer) LinearRegressionD(distance1 bool) (slope, intercept float64, err error) {
	return linearFit(kb(ld.distances(distance1)), absAll(ld.PairwiseD()), "linear regression of |D|")
}

// LinearRegressionDPrime fits |D'| = a*distance + b and returns the slope
// in units per kilobase together with the intercept.
func (ld *LDContainer) LinearRegressionDPrime(distance1 bool) (slope, intercept float64, err error) {
	return linearFit(kb(ld.distances(distance1)), absAll(ld.PairwiseDPrime()), "linear regression of |D'|")
}

// LinearRegressionR2 fits r2 = a*distance + b and returns the slope in
// units per kilobase together with the intercept.
func (ld *LDContainer) LinearRegressionR2(distance1 bool) (slope, intercept float64, err error) {
	return linearFit(kb(ld.distances(distance1)), ld.PairwiseR2(), "linear regression of r2")
}

// InverseRegressionR2 fits the theoretical decay r2 = 1/(1 + a*distance)
// by linearizing to 1/r2 - 1 = a*distance and regressing through the
// origin. Pairs in complete equilibrium (r2 = 0) cannot be linearized and
// are skipped. The slope a is returned in units per kilobase.
func (ld *LDContainer) InverseRegressionR2(distance1 bool) (float64, error) {
	r2s := ld.PairwiseR2()
	ds := kb(ld.distances(distance1))

	var x, y []float64
	for i, r2 := range r2s {
		if r2 == 0 {
			continue
		}
		x = append(x, ds[i])
		y = append(y, 1/r2-1)
	}

	return originSlope(x, y, "inverse regression of r2")
}

func absAll(ds []float64) []float64 {
	out := make([]float64, len(ds))
	for i, d := range ds {
		out[i] = math.Abs(d)
	}
	return out
}
