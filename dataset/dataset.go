// Package dataset models a multi-group, multi-locus genotype store: groups
// hold individuals, a locus registry maps locus names to locus-scoped
// allele keys, and each individual carries a positional multilocus
// genotype over the registered loci.
//
// Name lookups that miss their registry return a *NotFoundError. Because
// importers register every group, individual, and locus before use, a miss
// indicates a programming error; it is propagated, never defaulted.
package dataset

import "fmt"

// NotFoundError reports a registry lookup by a name that was never
// registered.
type NotFoundError struct {
	Kind string
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("dataset: %s %q not found", e.Kind, e.Name)
}

// A DataSet holds groups of individuals together with the registry of
// analyzed loci their genotypes refer to.
type DataSet struct {
	groups []*Group
	loci   *AnalyzedLoci
}

// New returns an empty DataSet.
func New() *DataSet {
	return &DataSet{}
}

// AddEmptyGroup appends a new group with no individuals and returns it.
func (ds *DataSet) AddEmptyGroup(name string) *Group {
	g := NewGroup(name)
	ds.groups = append(ds.groups, g)
	return g
}

// GroupCount returns the number of groups.
func (ds *DataSet) GroupCount() int {
	return len(ds.groups)
}

// Group returns the i'th group.
func (ds *DataSet) Group(i int) *Group {
	return ds.groups[i]
}

// InitLoci replaces the locus registry with a fresh one holding n empty
// locus slots. The locus set is fixed once the slots are filled.
func (ds *DataSet) InitLoci(n int) {
	ds.loci = NewAnalyzedLoci(n)
}

// SetAnalyzedLoci replaces the locus registry.
func (ds *DataSet) SetAnalyzedLoci(al *AnalyzedLoci) {
	ds.loci = al
}

// AnalyzedLoci returns the locus registry, or nil before InitLoci.
func (ds *DataSet) AnalyzedLoci() *AnalyzedLoci {
	return ds.loci
}

// LocusCount returns the number of registered locus slots.
func (ds *DataSet) LocusCount() int {
	if ds.loci == nil {
		return 0
	}
	return ds.loci.LocusCount()
}

// SetLocusInfo fills locus slot pos.
func (ds *DataSet) SetLocusInfo(pos int, l *LocusInfo) error {
	if ds.loci == nil {
		return fmt.Errorf("dataset: SetLocusInfo(%d) before InitLoci", pos)
	}
	return ds.loci.SetLocusInfo(pos, l)
}

// LocusInfoByName returns the locus registered under name.
func (ds *DataSet) LocusInfoByName(name string) (*LocusInfo, error) {
	if ds.loci == nil {
		return nil, &NotFoundError{Kind: "locus", Name: name}
	}
	return ds.loci.LocusInfoByName(name)
}

// LocusPosition returns the slot of the locus registered under name.
func (ds *DataSet) LocusPosition(name string) (int, error) {
	if ds.loci == nil {
		return 0, &NotFoundError{Kind: "locus", Name: name}
	}
	return ds.loci.LocusPosition(name)
}

// A Group is an ordered collection of individuals with unique identifiers.
type Group struct {
	name        string
	individuals []*Individual
	position    map[string]int
}

// NewGroup returns an empty group.
func NewGroup(name string) *Group {
	return &Group{name: name, position: make(map[string]int)}
}

// Name returns the group name.
func (g *Group) Name() string {
	return g.name
}

// AddIndividual appends ind to the group. Identifiers are unique within a
// group.
func (g *Group) AddIndividual(ind *Individual) error {
	if _, ok := g.position[ind.ID()]; ok {
		return fmt.Errorf("dataset: individual %q already in group %q", ind.ID(), g.name)
	}
	g.position[ind.ID()] = len(g.individuals)
	g.individuals = append(g.individuals, ind)
	return nil
}

// IndividualCount returns the number of individuals in the group.
func (g *Group) IndividualCount() int {
	return len(g.individuals)
}

// Individual returns the i'th individual.
func (g *Group) Individual(i int) *Individual {
	return g.individuals[i]
}

// IndividualByID returns the individual with the given identifier.
func (g *Group) IndividualByID(id string) (*Individual, error) {
	i, ok := g.position[id]
	if !ok {
		return nil, &NotFoundError{Kind: "individual", Name: id}
	}
	return g.individuals[i], nil
}

// IndividualPosition returns the position of the individual with the given
// identifier.
func (g *Group) IndividualPosition(id string) (int, error) {
	i, ok := g.position[id]
	if !ok {
		return 0, &NotFoundError{Kind: "individual", Name: id}
	}
	return i, nil
}

// An Individual pairs an identifier with an optional multilocus genotype.
type Individual struct {
	id       string
	genotype *MultilocusGenotype
}

// NewIndividual returns an individual with no genotype storage.
func NewIndividual(id string) *Individual {
	return &Individual{id: id}
}

// ID returns the individual's identifier.
func (ind *Individual) ID() string {
	return ind.id
}

// HasGenotype reports whether genotype storage has been initialized.
func (ind *Individual) HasGenotype() bool {
	return ind.genotype != nil
}

// InitGenotype creates the individual's genotype storage over lociCount
// locus slots. Storage is initialized at most once.
func (ind *Individual) InitGenotype(lociCount int) error {
	if ind.genotype != nil {
		return fmt.Errorf("dataset: individual %q already has a genotype", ind.id)
	}
	ind.genotype = NewMultilocusGenotype(lociCount)
	return nil
}

// Genotype returns the individual's multilocus genotype, or nil before
// InitGenotype.
func (ind *Individual) Genotype() *MultilocusGenotype {
	return ind.genotype
}

// SetMonolocusGenotype records the individual's genotype at locus slot
// pos.
func (ind *Individual) SetMonolocusGenotype(pos int, g *MonolocusGenotype) error {
	if ind.genotype == nil {
		return fmt.Errorf("dataset: individual %q has no genotype storage", ind.id)
	}
	return ind.genotype.SetMonolocusGenotype(pos, g)
}

// MonolocusGenotype returns the individual's genotype at locus slot pos,
// or nil when no call was recorded there.
func (ind *Individual) MonolocusGenotype(pos int) (*MonolocusGenotype, error) {
	if ind.genotype == nil {
		return nil, fmt.Errorf("dataset: individual %q has no genotype storage", ind.id)
	}
	return ind.genotype.MonolocusGenotype(pos)
}
