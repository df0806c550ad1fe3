package seqstats

import (
	"fmt"

	"github.com/BenLubar/memoize"
)

// Coefficients holds the sample-size-dependent helper values shared by the
// theta estimators and the neutrality tests. Following the usual notation,
// for a sample of n sequences:
//
//	a1  = sum_{i=1}^{n-1} 1/i
//	a2  = sum_{i=1}^{n-1} 1/i^2
//	a1n = sum_{i=1}^{n} 1/i
//	b1  = (n+1) / (3(n-1))
//	b2  = 2(n^2+n+3) / (9n(n-1))
//	c1  = b1 - 1/a1
//	c2  = b2 - (n+2)/(a1*n) + a2/a1^2
//	cn  = 2(n*a1 - 2(n-1)) / ((n-1)(n-2))
//	dn  = cn + (n-2)/(n-1)^2 + (2/(n-1)) * (3/2 - (2*a1n - 3)/(n-2) - 1/n)
//	e1  = c1/a1
//	e2  = c2 / (a1^2 + a2)
//
// cn and dn involve division by n-2 and are reported as zero for n < 3.
type Coefficients struct {
	A1  float64
	A2  float64
	A1n float64
	B1  float64
	B2  float64
	C1  float64
	C2  float64
	Cn  float64
	Dn  float64
	E1  float64
	E2  float64
}

func coefficients(n int) Coefficients {
	nn := float64(n)

	var c Coefficients
	for i := 1; i < n; i++ {
		c.A1 += 1 / float64(i)
		c.A2 += 1 / (float64(i) * float64(i))
	}
	c.A1n = c.A1 + 1/nn

	c.B1 = (nn + 1) / (3 * (nn - 1))
	c.B2 = 2 * (nn*nn + nn + 3) / (9 * nn * (nn - 1))
	c.C1 = c.B1 - 1/c.A1
	c.C2 = c.B2 - (nn+2)/(c.A1*nn) + c.A2/(c.A1*c.A1)

	if n > 2 {
		c.Cn = 2 * (nn*c.A1 - 2*(nn-1)) / ((nn - 1) * (nn - 2))
		c.Dn = c.Cn + (nn-2)/((nn-1)*(nn-1)) +
			(2/(nn-1))*(1.5-(2*c.A1n-3)/(nn-2)-1/nn)
	}

	c.E1 = c.C1 / c.A1
	c.E2 = c.C2 / (c.A1*c.A1 + c.A2)

	return c
}

var memoizedCoefficients = memoize.Memoize(coefficients)

// CoefficientsFor returns the helper coefficients for a sample of n
// sequences. Results are cached per n.
func CoefficientsFor(n int) (Coefficients, error) {
	if n < 2 {
		return Coefficients{}, fmt.Errorf("seqstats: coefficients need at least two sequences, got %d: %w", n, ErrUndefined)
	}
	return memoizedCoefficients.(func(int) Coefficients)(n), nil
}
