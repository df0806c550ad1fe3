// popstats computes a battery of population-genetic statistics over an
// aligned FASTA file and prints one statistic per line as name\tvalue.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/aybabtme/uniplot/histogram"
	"github.com/carbocation/popgen"
	_ "github.com/carbocation/popgen/compileinfoprint"
	"github.com/carbocation/popgen/seqstats"
)

// battery selects which statistic groups run and carries their knobs. The
// command-line flags seed the defaults; a -config TOML file overrides any
// key it sets and leaves the rest alone.
type battery struct {
	Counts     bool `toml:"counts"`
	Diversity  bool `toml:"diversity"`
	Haplotypes bool `toml:"haplotypes"`
	Neutrality bool `toml:"neutrality"`
	Codon      bool `toml:"codon"`
	LD         bool `toml:"ld"`

	Gaps           bool    `toml:"gaps"`
	Ratio          float64 `toml:"ratio"`
	FreqMin        float64 `toml:"freq_min"`
	KeepSingletons bool    `toml:"keep_singletons"`
	Distance1      bool    `toml:"distance1"`
	Code           string  `toml:"code"`
	IncludeStops   bool    `toml:"include_stops"`
	MinChange      bool    `toml:"min_change"`
}

func main() {
	var fasta, outgroup, config string
	var ldhist bool

	bat := battery{
		Counts:     true,
		Diversity:  true,
		Haplotypes: true,
		Neutrality: true,
		Codon:      true,
		LD:         true,
	}

	flag.StringVar(&fasta, "fasta", "", "Aligned FASTA file. May be gzip-, zip-, xz-, zlib-, or bzip2-compressed.")
	flag.StringVar(&outgroup, "outgroup", "", "Optional aligned FASTA with outgroup sequences, enabling Fu & Li's D and F.")
	flag.StringVar(&config, "config", "", "Optional TOML file selecting statistic groups and overriding knobs.")
	flag.BoolVar(&bat.Gaps, "gaps", false, "Count gap and missing symbols as ordinary states.")
	flag.Float64Var(&bat.Ratio, "ratio", 2.0, "Transition/transversion ratio used when counting synonymous sites.")
	flag.Float64Var(&bat.FreqMin, "freqmin", 0, "Minimum minor allele frequency for sites entering the linkage container.")
	flag.BoolVar(&bat.KeepSingletons, "keep-singletons", false, "Keep singleton sites in the linkage container.")
	flag.BoolVar(&bat.Distance1, "distance1", false, "Regress linkage statistics on raw column distances instead of gap-adjusted distances.")
	flag.StringVar(&bat.Code, "code", "standard", "Genetic code for codon statistics: standard or mito.")
	flag.BoolVar(&bat.IncludeStops, "include-stops", false, "Include codon sites that contain stop codons.")
	flag.BoolVar(&bat.MinChange, "min-change", false, "Resolve multi-step codon paths by maximizing synonymous changes instead of averaging.")
	flag.BoolVar(&ldhist, "ldhist", false, "Also print a histogram of pairwise r2 values.")
	flag.Parse()

	if fasta == "" {
		flag.Usage()
		log.Fatalln("Must specify a --fasta file")
	}

	if config != "" {
		if _, err := toml.DecodeFile(popgen.ExpandHome(config), &bat); err != nil {
			log.Fatalln(err)
		}
	}

	code, err := geneticCode(bat.Code)
	if err != nil {
		log.Fatalln(err)
	}

	a, err := popgen.OpenFASTA(fasta)
	if err != nil {
		log.Fatalln(err)
	}
	log.Printf("Loaded %d sequences of %d aligned sites from %s", a.NumberOfSequences(), a.Length(), fasta)

	var og *popgen.Alignment
	if outgroup != "" {
		if og, err = popgen.OpenFASTA(outgroup); err != nil {
			log.Fatalln(err)
		}
		log.Printf("Loaded %d outgroup sequences from %s", og.NumberOfSequences(), outgroup)
	}

	if err := run(os.Stdout, a, og, code, bat, ldhist); err != nil {
		log.Fatalln(err)
	}

	log.Printf("Finished")
}

func geneticCode(name string) (*popgen.GeneticCode, error) {
	switch name {
	case "standard":
		return popgen.StandardCode, nil
	case "mito":
		return popgen.VertebrateMitochondrialCode, nil
	}

	return nil, fmt.Errorf("unknown genetic code %q: want standard or mito", name)
}

func run(w io.Writer, a, og *popgen.Alignment, code *popgen.GeneticCode, bat battery, ldhist bool) error {
	if bat.Counts {
		emitInt(w, "sequences", a.NumberOfSequences())
		emitInt(w, "sites", a.Length())
		emitInt(w, "polymorphic_sites", seqstats.PolymorphicSiteNumber(a, bat.Gaps))
		emitInt(w, "parsimony_informative_sites", seqstats.ParsimonyInformativeSiteNumber(a, bat.Gaps))
		emitInt(w, "singletons", seqstats.SingletonNumber(a, bat.Gaps))
		emitInt(w, "mutations", seqstats.TotalNumberOfMutations(a, bat.Gaps))
		emitInt(w, "triplet_sites", seqstats.TripletNumber(a, bat.Gaps))
	}

	if bat.Diversity {
		theta, err := seqstats.Watterson75(a, bat.Gaps)
		if err := emit(w, "theta_watterson", theta, err); err != nil {
			return err
		}
		pi, err := seqstats.Tajima83(a, bat.Gaps)
		if err := emit(w, "pi", pi, err); err != nil {
			return err
		}
		emitInt(w, "transitions", seqstats.NumberOfTransitions(a))
		emitInt(w, "transversions", seqstats.NumberOfTransversions(a))
		tstv, err := seqstats.TsTvRatio(a)
		if err := emit(w, "ts_tv_ratio", tstv, err); err != nil {
			return err
		}
		gc, err := seqstats.GCContent(a)
		if err := emit(w, "gc_content", gc, err); err != nil {
			return err
		}
		if err := emitGCPolymorphism(w, a); err != nil {
			return err
		}
	}

	if bat.Haplotypes {
		emitInt(w, "haplotypes", seqstats.DVK(a, bat.Gaps))
		dvh, err := seqstats.DVH(a, bat.Gaps)
		if err := emit(w, "haplotype_diversity", dvh, err); err != nil {
			return err
		}
	}

	if bat.Neutrality {
		if err := emitNeutrality(w, a, og, bat.Gaps); err != nil {
			return err
		}
	}

	if bat.Codon {
		if a.Length()%3 != 0 {
			log.Printf("Codon statistics skipped: alignment length %d is not a multiple of three", a.Length())
		} else if err := emitCodon(w, a, code, bat); err != nil {
			return err
		}
	}

	if bat.LD {
		if err := emitLD(w, a, bat, ldhist); err != nil {
			return err
		}
	}

	return nil
}

func emitNeutrality(w io.Writer, a, og *popgen.Alignment, gaps bool) error {
	dss, err := seqstats.TajimaDSS(a, gaps)
	if err := emit(w, "tajima_d", dss, err); err != nil {
		return err
	}
	dtnm, err := seqstats.TajimaDTNM(a, gaps)
	if err := emit(w, "tajima_d_tnm", dtnm, err); err != nil {
		return err
	}
	dstar, err := seqstats.FuLiDStar(a, gaps)
	if err := emit(w, "fu_li_d_star", dstar, err); err != nil {
		return err
	}
	fstar, err := seqstats.FuLiFStar(a, gaps)
	if err := emit(w, "fu_li_f_star", fstar, err); err != nil {
		return err
	}

	// The outgroup-conditioned tests need an outgroup.
	if og == nil {
		return nil
	}
	d, err := seqstats.FuLiD(a, og, gaps)
	if err := emit(w, "fu_li_d", d, err); err != nil {
		return err
	}
	f, err := seqstats.FuLiF(a, og, gaps)
	if err := emit(w, "fu_li_f", f, err); err != nil {
		return err
	}

	return nil
}

func emitCodon(w io.Writer, a *popgen.Alignment, code *popgen.GeneticCode, bat battery) error {
	stops, err := seqstats.StopCodonSiteNumber(a, code)
	if err != nil {
		return err
	}
	emitInt(w, "stop_codon_sites", stops)

	mono, err := seqstats.MonoSitePolymorphicCodonNumber(a, code, bat.IncludeStops)
	if err != nil {
		return err
	}
	emitInt(w, "monosite_polymorphic_codons", mono)

	syn, err := seqstats.SynonymousPolymorphicCodonNumber(a, code, bat.IncludeStops)
	if err != nil {
		return err
	}
	emitInt(w, "synonymous_polymorphic_codons", syn)

	nonsynPoly, err := seqstats.NonSynonymousPolymorphicCodonNumber(a, code, bat.IncludeStops)
	if err != nil {
		return err
	}
	emitInt(w, "nonsynonymous_polymorphic_codons", nonsynPoly)

	piSyn, err := seqstats.PiSynonymous(a, code, bat.IncludeStops, bat.MinChange)
	if err := emit(w, "pi_synonymous", piSyn, err); err != nil {
		return err
	}
	piNon, err := seqstats.PiNonSynonymous(a, code, bat.IncludeStops, bat.MinChange)
	if err := emit(w, "pi_nonsynonymous", piNon, err); err != nil {
		return err
	}
	synSites, err := seqstats.MeanSynonymousSitesNumber(a, code, bat.Ratio, bat.IncludeStops)
	if err := emit(w, "synonymous_sites", synSites, err); err != nil {
		return err
	}
	nonSites, err := seqstats.MeanNonSynonymousSitesNumber(a, code, bat.Ratio, bat.IncludeStops)
	if err := emit(w, "nonsynonymous_sites", nonSites, err); err != nil {
		return err
	}

	return nil
}

func emitLD(w io.Writer, a *popgen.Alignment, bat battery, ldhist bool) error {
	ld, err := seqstats.GenerateLDContainer(a, bat.KeepSingletons, bat.FreqMin)
	if err != nil {
		if errors.Is(err, seqstats.ErrUndefined) {
			log.Printf("Linkage statistics skipped: %v", err)
			return nil
		}
		return err
	}
	emitInt(w, "ld_sites", ld.NumberOfSites())
	emitInt(w, "ld_site_pairs", len(ld.PairwiseD()))

	meanD, err := ld.MeanD()
	if err := emit(w, "mean_d", meanD, err); err != nil {
		return err
	}
	meanDP, err := ld.MeanDPrime()
	if err := emit(w, "mean_dprime", meanDP, err); err != nil {
		return err
	}
	meanR2, err := ld.MeanR2()
	if err := emit(w, "mean_r2", meanR2, err); err != nil {
		return err
	}
	meanDist, err := ld.MeanDistance2()
	if bat.Distance1 {
		meanDist, err = ld.MeanDistance1()
	}
	if err := emit(w, "mean_distance", meanDist, err); err != nil {
		return err
	}

	oD, err := ld.OriginRegressionD(bat.Distance1)
	if err := emit(w, "origin_regression_d", oD, err); err != nil {
		return err
	}
	oDP, err := ld.OriginRegressionDPrime(bat.Distance1)
	if err := emit(w, "origin_regression_dprime", oDP, err); err != nil {
		return err
	}
	oR2, err := ld.OriginRegressionR2(bat.Distance1)
	if err := emit(w, "origin_regression_r2", oR2, err); err != nil {
		return err
	}

	slope, intercept, err := ld.LinearRegressionD(bat.Distance1)
	if err := emitFit(w, "linear_regression_d", slope, intercept, err); err != nil {
		return err
	}
	slope, intercept, err = ld.LinearRegressionDPrime(bat.Distance1)
	if err := emitFit(w, "linear_regression_dprime", slope, intercept, err); err != nil {
		return err
	}
	slope, intercept, err = ld.LinearRegressionR2(bat.Distance1)
	if err := emitFit(w, "linear_regression_r2", slope, intercept, err); err != nil {
		return err
	}

	inv, err := ld.InverseRegressionR2(bat.Distance1)
	if err := emit(w, "inverse_regression_r2", inv, err); err != nil {
		return err
	}

	if ldhist && ld.NumberOfSites() > 1 {
		hist := histogram.Hist(25, ld.PairwiseR2())
		if err := histogram.Fprint(w, hist, histogram.Linear(5)); err != nil {
			return err
		}
	}

	return nil
}

// emit prints one statistic row, writing NA when the statistic is not
// defined for this alignment and failing on any other error.
func emit(w io.Writer, name string, v float64, err error) error {
	switch {
	case err == nil:
		fmt.Fprintf(w, "%s\t%g\n", name, v)
	case errors.Is(err, seqstats.ErrUndefined):
		fmt.Fprintf(w, "%s\tNA\n", name)
	default:
		return err
	}

	return nil
}

func emitFit(w io.Writer, name string, slope, intercept float64, err error) error {
	if err := emit(w, name+"_slope", slope, err); err != nil {
		return err
	}

	return emit(w, name+"_intercept", intercept, err)
}

func emitInt(w io.Writer, name string, v int) {
	fmt.Fprintf(w, "%s\t%d\n", name, v)
}

func emitGCPolymorphism(w io.Writer, a *popgen.Alignment) error {
	gc, total := seqstats.GCPolymorphism(a)
	if total == 0 {
		fmt.Fprintf(w, "gc_polymorphic\tNA\n")
		return nil
	}
	fmt.Fprintf(w, "gc_polymorphic\t%g\n", float64(gc)/float64(total))

	return nil
}
