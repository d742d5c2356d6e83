package stats

import (
	"errors"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"auxesis/internal/genotype"
)

// VectorSummary describes a float64 sample: central moments plus the
// empirical quartiles.
type VectorSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
}

// Summarize computes the summary of a sample. The standard deviation is the
// population form, so single-value samples summarize to zero spread. The
// input slice is not modified.
func Summarize(values []float64) (VectorSummary, error) {
	if len(values) == 0 {
		return VectorSummary{}, errors.New("cannot summarize an empty sample")
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	return VectorSummary{
		Count:  len(sorted),
		Mean:   stat.Mean(sorted, nil),
		StdDev: stat.PopStdDev(sorted, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
	}, nil
}

// Complexity counts a genome's structural elements: nodes plus connection
// genes, enabled or not.
func Complexity(g *genotype.Genome) float64 {
	return float64(len(g.Nodes()) + len(g.Connections()))
}

// Complexities maps Complexity over a population, preserving order.
func Complexities(genomes []*genotype.Genome) []float64 {
	out := make([]float64, 0, len(genomes))
	for _, g := range genomes {
		out = append(out, Complexity(g))
	}
	return out
}

// PairwiseDistances measures compatibility distances between genome pairs.
// With maxPairs > 0 and fewer than the full pair count, pairs are sampled
// without replacement using rng; otherwise every pair is measured, ordered
// by index.
func PairwiseDistances(genomes []*genotype.Genome, maxPairs int, rng *rand.Rand) ([]float64, error) {
	if len(genomes) < 2 {
		return nil, errors.New("need at least two genomes")
	}
	pairs := make([][2]int, 0, len(genomes)*(len(genomes)-1)/2)
	for i := 0; i < len(genomes); i++ {
		for j := i + 1; j < len(genomes); j++ {
			pairs = append(pairs, [2]int{i, j})
		}
	}
	if maxPairs > 0 && maxPairs < len(pairs) {
		if rng == nil {
			return nil, errors.New("random source is required for pair sampling")
		}
		rng.Shuffle(len(pairs), func(i, j int) { pairs[i], pairs[j] = pairs[j], pairs[i] })
		pairs = pairs[:maxPairs]
	}

	distances := make([]float64, 0, len(pairs))
	for _, pair := range pairs {
		distances = append(distances, genomes[pair[0]].Distance(genomes[pair[1]]))
	}
	return distances, nil
}

// DistanceStats summarizes pairwise compatibility distances.
func DistanceStats(genomes []*genotype.Genome, maxPairs int, rng *rand.Rand) (VectorSummary, error) {
	distances, err := PairwiseDistances(genomes, maxPairs, rng)
	if err != nil {
		return VectorSummary{}, err
	}
	return Summarize(distances)
}
