package popgen

import "fmt"

// Symbols are stored uppercase. Gap and unknown symbols are retained in
// sequences; each statistic decides per call whether they count as states.
const (
	Gap     byte = '-'
	Unknown byte = 'N'
)

// IsNucleotide reports whether b is one of the four unambiguous bases.
func IsNucleotide(b byte) bool {
	switch b {
	case 'A', 'C', 'G', 'T':
		return true
	}
	return false
}

// IsMissing reports whether b is the gap or the unknown symbol.
func IsMissing(b byte) bool {
	return b == Gap || b == Unknown
}

// IsGC reports whether b is guanine or cytosine.
func IsGC(b byte) bool {
	return b == 'G' || b == 'C'
}

// IsAT reports whether b is adenine or thymine.
func IsAT(b byte) bool {
	return b == 'A' || b == 'T'
}

// IsTransition reports whether a and b are a purine pair or a pyrimidine
// pair.
func IsTransition(a, b byte) bool {
	switch {
	case a == 'A' && b == 'G', a == 'G' && b == 'A':
		return true
	case a == 'C' && b == 'T', a == 'T' && b == 'C':
		return true
	}
	return false
}

// NormalizeSymbol maps a raw sequence byte onto the internal alphabet.
// Lowercase is folded to uppercase, U becomes T, '.' and '?' become the gap
// and unknown symbols, and IUPAC ambiguity codes collapse to the unknown
// symbol. Any other byte is an error.
func NormalizeSymbol(b byte) (byte, error) {
	if b >= 'a' && b <= 'z' {
		b -= 'a' - 'A'
	}
	switch b {
	case 'A', 'C', 'G', 'T', Gap, Unknown:
		return b, nil
	case 'U':
		return 'T', nil
	case '.':
		return Gap, nil
	case '?':
		return Unknown, nil
	case 'R', 'Y', 'S', 'W', 'K', 'M', 'B', 'D', 'H', 'V':
		return Unknown, nil
	}
	return 0, fmt.Errorf("symbol %q is not a nucleotide, gap, or ambiguity code", b)
}
