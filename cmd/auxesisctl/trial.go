package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"auxesis/internal/genotype"
	"auxesis/internal/model"
	"auxesis/internal/stats"
)

// runTrial drives a seeded mutation trial: a fixed population takes one
// random operator per genome per generation, with complexity and
// compatibility-distance summaries recorded along the way. Artifacts land
// under <artifacts>/trials/<trial-id>/ plus a line in the root index.
func runTrial(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("trial", flag.ContinueOnError)
	sf := addSessionFlags(fs)
	genomes := fs.Int("genomes", 12, "population size held through the trial")
	generations := fs.Int("gens", 10, "generations to run")
	opNames := fs.String("ops", "", "comma-separated operator chain (default: the builtin set)")
	maxPairs := fs.Int("max-pairs", 200, "distance pair sample cap per generation (0 keeps every pair)")
	archive := fs.Bool("archive", false, "archive the final genomes in the store")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *genomes < 2 {
		return errors.New("trial requires at least two genomes")
	}
	if *generations <= 0 {
		return errors.New("trial requires at least one generation")
	}
	if *maxPairs < 0 {
		return errors.New("max-pairs must be >= 0")
	}

	s, err := sf.open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = s.Close()
	}()

	ops, err := operatorChain(*opNames, s)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(ops))
	for _, op := range ops {
		names = append(names, op.Name())
	}

	population := make([]*genotype.Genome, 0, *genomes)
	for i := 0; i < *genomes; i++ {
		g, err := s.NewGenome(true)
		if err != nil {
			return err
		}
		population = append(population, g)
	}

	complexityHist := stats.TrialHistory{Metric: "complexity"}
	distanceHist := stats.TrialHistory{Metric: "distance"}
	var applied, skipped int64

	for gen := 1; gen <= *generations; gen++ {
		for _, g := range population {
			op := ops[s.Rand().Intn(len(ops))]
			if err := op.Apply(ctx, g); err != nil {
				if !skippableMutation(err) {
					return fmt.Errorf("generation %d: %w", gen, err)
				}
				skipped++
				continue
			}
			applied++
		}

		compSummary, err := stats.Summarize(stats.Complexities(population))
		if err != nil {
			return err
		}
		distSummary, err := stats.DistanceStats(population, *maxPairs, s.Rand())
		if err != nil {
			return err
		}
		complexityHist.Generations = append(complexityHist.Generations, compSummary)
		distanceHist.Generations = append(distanceHist.Generations, distSummary)

		fmt.Printf("generation=%d complexity_mean=%.2f complexity_max=%g distance_mean=%.4f distance_max=%.4f\n",
			gen, compSummary.Mean, compSummary.Max, distSummary.Mean, distSummary.Max)

		if _, err := s.AdvanceGeneration(ctx); err != nil {
			return err
		}
	}

	if *archive {
		for _, g := range population {
			if err := s.SaveGenome(ctx, g); err != nil {
				return err
			}
		}
	}

	finalDistances, err := stats.PairwiseDistances(population, *maxPairs, s.Rand())
	if err != nil {
		return err
	}
	shortID := s.ID()
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	rec := model.TrialRecord{
		VersionedRecord: model.NewVersionedRecord(),
		TrialID:         "trial-" + shortID,
		Seed:            s.Seed(),
		Genomes:         *genomes,
		Generations:     *generations,
		Operators:       names,
		Complexity:      stats.Complexities(population),
		Distances:       finalDistances,
	}

	dir, err := stats.WriteTrialArtifacts(s.ArtifactsDir(), rec, s.Config().Flatten(), complexityHist, distanceHist)
	if err != nil {
		return err
	}

	fmt.Printf("trial_id=%s session_id=%s genomes=%d generations=%d seed=%d mutations=%s skips=%s archived=%t\n",
		rec.TrialID, s.ID(), *genomes, *generations, s.Seed(),
		humanize.Comma(applied), humanize.Comma(skipped), *archive)
	fmt.Printf("artifacts_dir=%s\n", filepath.Clean(dir))
	return nil
}
