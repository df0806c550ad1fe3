package dataset

import "fmt"

// Ploidy describes the expected allele count per genotype call at a locus.
type Ploidy int

const (
	PloidyUnknown Ploidy = iota
	PloidyHaploid
	PloidyDiploid
	PloidyHaplodiploid
)

func (p Ploidy) String() string {
	switch p {
	case PloidyHaploid:
		return "haploid"
	case PloidyDiploid:
		return "diploid"
	case PloidyHaplodiploid:
		return "haplodiploid"
	}
	return "unknown"
}

// A LocusInfo names one locus and registers its alleles. Allele keys are
// locus-scoped: the same label registered under two loci yields two
// unrelated keys.
type LocusInfo struct {
	name   string
	ploidy Ploidy
	labels []string
	keys   map[string]uint
}

// NewLocusInfo returns a locus with no registered alleles.
func NewLocusInfo(name string, ploidy Ploidy) *LocusInfo {
	return &LocusInfo{name: name, ploidy: ploidy, keys: make(map[string]uint)}
}

// Name returns the locus name.
func (l *LocusInfo) Name() string {
	return l.name
}

// Ploidy returns the locus ploidy marker.
func (l *LocusInfo) Ploidy() Ploidy {
	return l.ploidy
}

// AddAllele registers an allele label and returns its key. Registration is
// first-seen-wins: a label already registered keeps its original key.
func (l *LocusInfo) AddAllele(label string) uint {
	if key, ok := l.keys[label]; ok {
		return key
	}
	key := uint(len(l.labels))
	l.keys[label] = key
	l.labels = append(l.labels, label)
	return key
}

// AlleleKey returns the key registered for an allele label.
func (l *LocusInfo) AlleleKey(label string) (uint, error) {
	key, ok := l.keys[label]
	if !ok {
		return 0, &NotFoundError{Kind: "allele", Name: label}
	}
	return key, nil
}

// AlleleCount returns the number of registered alleles.
func (l *LocusInfo) AlleleCount() int {
	return len(l.labels)
}

// Alleles returns the registered allele labels in key order, so
// Alleles()[k] is the label behind key k.
func (l *LocusInfo) Alleles() []string {
	out := make([]string, len(l.labels))
	copy(out, l.labels)
	return out
}

// AnalyzedLoci is a positional locus registry with name lookup. The slot
// count is fixed at construction; slots are nil until filled.
type AnalyzedLoci struct {
	loci     []*LocusInfo
	position map[string]int
}

// NewAnalyzedLoci returns a registry with n empty locus slots.
func NewAnalyzedLoci(n int) *AnalyzedLoci {
	return &AnalyzedLoci{loci: make([]*LocusInfo, n), position: make(map[string]int)}
}

// LocusCount returns the number of locus slots.
func (al *AnalyzedLoci) LocusCount() int {
	return len(al.loci)
}

// SetLocusInfo fills slot pos with l and registers its name.
func (al *AnalyzedLoci) SetLocusInfo(pos int, l *LocusInfo) error {
	if pos < 0 || pos >= len(al.loci) {
		return fmt.Errorf("dataset: locus position %d out of range [0, %d)", pos, len(al.loci))
	}
	if old := al.loci[pos]; old != nil {
		delete(al.position, old.Name())
	}
	al.loci[pos] = l
	al.position[l.Name()] = pos
	return nil
}

// LocusInfo returns the locus in slot pos, nil if the slot is unfilled.
func (al *AnalyzedLoci) LocusInfo(pos int) (*LocusInfo, error) {
	if pos < 0 || pos >= len(al.loci) {
		return nil, fmt.Errorf("dataset: locus position %d out of range [0, %d)", pos, len(al.loci))
	}
	return al.loci[pos], nil
}

// LocusInfoByName returns the locus registered under name.
func (al *AnalyzedLoci) LocusInfoByName(name string) (*LocusInfo, error) {
	pos, ok := al.position[name]
	if !ok {
		return nil, &NotFoundError{Kind: "locus", Name: name}
	}
	return al.loci[pos], nil
}

// LocusPosition returns the slot of the locus registered under name.
func (al *AnalyzedLoci) LocusPosition(name string) (int, error) {
	pos, ok := al.position[name]
	if !ok {
		return 0, &NotFoundError{Kind: "locus", Name: name}
	}
	return pos, nil
}
