package dataset

import (
	"github.com/carbocation/pfx"
)

const genotypeSchema = `
CREATE TABLE IF NOT EXISTS locus (
	locus_id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	ploidy TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS allele (
	locus_id INTEGER NOT NULL,
	allele_key INTEGER NOT NULL,
	label TEXT NOT NULL,
	PRIMARY KEY (locus_id, allele_key)
);
CREATE TABLE IF NOT EXISTS individual (
	group_id INTEGER NOT NULL,
	group_name TEXT NOT NULL,
	individual_id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS genotype (
	individual_id INTEGER NOT NULL,
	locus_id INTEGER NOT NULL,
	allele_key INTEGER NOT NULL
);
`

// WriteSQLite exports the dataset to a SQLite database at path: one row
// per locus, per registered allele, per individual, and per (individual,
// locus, allele key) genotype call. Existing tables are reused.
func (ds *DataSet) WriteSQLite(path string) error {
	db, err := openGenotypeDB(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer db.Close()

	if _, err := db.Exec(genotypeSchema); err != nil {
		return pfx.Err(err)
	}

	tx, err := db.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	for pos := 0; pos < ds.LocusCount(); pos++ {
		locus, err := ds.loci.LocusInfo(pos)
		if err != nil {
			return pfx.Err(err)
		}
		if locus == nil {
			continue
		}
		if _, err := tx.Exec("INSERT INTO locus (locus_id, name, ploidy) VALUES (?, ?, ?)",
			pos, locus.Name(), locus.Ploidy().String()); err != nil {
			return pfx.Err(err)
		}
		for key, label := range locus.Alleles() {
			if _, err := tx.Exec("INSERT INTO allele (locus_id, allele_key, label) VALUES (?, ?, ?)",
				pos, key, label); err != nil {
				return pfx.Err(err)
			}
		}
	}

	nextIndividual := 0
	for gi := 0; gi < ds.GroupCount(); gi++ {
		group := ds.Group(gi)
		for ii := 0; ii < group.IndividualCount(); ii++ {
			ind := group.Individual(ii)
			id := nextIndividual
			nextIndividual++

			if _, err := tx.Exec("INSERT INTO individual (group_id, group_name, individual_id, name) VALUES (?, ?, ?, ?)",
				gi, group.Name(), id, ind.ID()); err != nil {
				return pfx.Err(err)
			}
			if !ind.HasGenotype() {
				continue
			}

			for pos := 0; pos < ind.Genotype().LocusCount(); pos++ {
				mono, err := ind.MonolocusGenotype(pos)
				if err != nil {
					return pfx.Err(err)
				}
				if mono == nil {
					continue
				}
				for _, key := range mono.AlleleKeys() {
					if _, err := tx.Exec("INSERT INTO genotype (individual_id, locus_id, allele_key) VALUES (?, ?, ?)",
						id, pos, key); err != nil {
						return pfx.Err(err)
					}
				}
			}
		}
	}

	return pfx.Err(tx.Commit())
}
