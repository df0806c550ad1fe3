package popgen

import "fmt"

// A GeneticCode maps DNA codons to single-letter amino acids. The stop
// symbol is '*'.
type GeneticCode struct {
	name  string
	table map[string]byte
}

// Name returns a human-readable name for the code.
func (g *GeneticCode) Name() string {
	return g.name
}

// Translate returns the amino acid encoded by the three-base codon. Codons
// containing gap or ambiguity symbols are not translatable.
func (g *GeneticCode) Translate(codon []byte) (byte, error) {
	if len(codon) != 3 {
		return 0, fmt.Errorf("popgen: codon %q is not three bases", codon)
	}
	aa, ok := g.table[string(codon)]
	if !ok {
		return 0, fmt.Errorf("popgen: codon %q is not translatable under the %s code", codon, g.name)
	}
	return aa, nil
}

// IsStop reports whether codon is a termination codon under g.
func (g *GeneticCode) IsStop(codon []byte) bool {
	return g.table[string(codon)] == '*'
}

// StandardCode is NCBI translation table 1.
var StandardCode = &GeneticCode{
	name: "standard",
	table: map[string]byte{
		"TTT": 'F', "TTC": 'F', "TTA": 'L', "TTG": 'L',
		"CTT": 'L', "CTC": 'L', "CTA": 'L', "CTG": 'L',
		"ATT": 'I', "ATC": 'I', "ATA": 'I', "ATG": 'M',
		"GTT": 'V', "GTC": 'V', "GTA": 'V', "GTG": 'V',
		"TCT": 'S', "TCC": 'S', "TCA": 'S', "TCG": 'S',
		"CCT": 'P', "CCC": 'P', "CCA": 'P', "CCG": 'P',
		"ACT": 'T', "ACC": 'T', "ACA": 'T', "ACG": 'T',
		"GCT": 'A', "GCC": 'A', "GCA": 'A', "GCG": 'A',
		"TAT": 'Y', "TAC": 'Y', "TAA": '*', "TAG": '*',
		"CAT": 'H', "CAC": 'H', "CAA": 'Q', "CAG": 'Q',
		"AAT": 'N', "AAC": 'N', "AAA": 'K', "AAG": 'K',
		"GAT": 'D', "GAC": 'D', "GAA": 'E', "GAG": 'E',
		"TGT": 'C', "TGC": 'C', "TGA": '*', "TGG": 'W',
		"CGT": 'R', "CGC": 'R', "CGA": 'R', "CGG": 'R',
		"AGT": 'S', "AGC": 'S', "AGA": 'R', "AGG": 'R',
		"GGT": 'G', "GGC": 'G', "GGA": 'G', "GGG": 'G',
	},
}

// VertebrateMitochondrialCode is NCBI translation table 2. It differs from
// the standard code at four codons.
var VertebrateMitochondrialCode = derive("vertebrate mitochondrial", map[string]byte{
	"AGA": '*',
	"AGG": '*',
	"ATA": 'M',
	"TGA": 'W',
})

func derive(name string, diffs map[string]byte) *GeneticCode {
	t := make(map[string]byte, len(StandardCode.table))
	for codon, aa := range StandardCode.table {
		t[codon] = aa
	}
	for codon, aa := range diffs {
		t[codon] = aa
	}
	return &GeneticCode{name: name, table: t}
}
