package dataset

import "fmt"

// A MonolocusGenotype is the set of distinct allele keys an individual
// carries at one locus.
type MonolocusGenotype struct {
	keys []uint
}

// NewMonolocusGenotype returns a genotype over the given allele keys,
// deduplicated in first-seen order.
func NewMonolocusGenotype(keys ...uint) *MonolocusGenotype {
	g := &MonolocusGenotype{}
Keys:
	for _, k := range keys {
		for _, have := range g.keys {
			if have == k {
				continue Keys
			}
		}
		g.keys = append(g.keys, k)
	}
	return g
}

// AlleleKeys returns the genotype's allele keys.
func (g *MonolocusGenotype) AlleleKeys() []uint {
	out := make([]uint, len(g.keys))
	copy(out, g.keys)
	return out
}

// AlleleCount returns the number of distinct allele keys.
func (g *MonolocusGenotype) AlleleCount() int {
	return len(g.keys)
}

// HasAllele reports whether the genotype carries the given allele key.
func (g *MonolocusGenotype) HasAllele(key uint) bool {
	for _, k := range g.keys {
		if k == key {
			return true
		}
	}
	return false
}

// A MultilocusGenotype stores one optional MonolocusGenotype per locus
// slot, positionally aligned with the dataset's locus registry.
type MultilocusGenotype struct {
	loci []*MonolocusGenotype
}

// NewMultilocusGenotype returns genotype storage over lociCount empty
// slots.
func NewMultilocusGenotype(lociCount int) *MultilocusGenotype {
	return &MultilocusGenotype{loci: make([]*MonolocusGenotype, lociCount)}
}

// LocusCount returns the number of locus slots.
func (g *MultilocusGenotype) LocusCount() int {
	return len(g.loci)
}

// SetMonolocusGenotype records a genotype at locus slot pos.
func (g *MultilocusGenotype) SetMonolocusGenotype(pos int, m *MonolocusGenotype) error {
	if pos < 0 || pos >= len(g.loci) {
		return fmt.Errorf("dataset: genotype position %d out of range [0, %d)", pos, len(g.loci))
	}
	g.loci[pos] = m
	return nil
}

// MonolocusGenotype returns the genotype at locus slot pos, or nil when no
// call was recorded there.
func (g *MultilocusGenotype) MonolocusGenotype(pos int) (*MonolocusGenotype, error) {
	if pos < 0 || pos >= len(g.loci) {
		return nil, fmt.Errorf("dataset: genotype position %d out of range [0, %d)", pos, len(g.loci))
	}
	return g.loci[pos], nil
}
