package genotype

import (
	"errors"
	"math/rand"

	"auxesis/internal/config"
)

// RandomElement picks a uniformly random element. The random source is
// mandatory so runs stay reproducible from a single seed.
func RandomElement[T any](rng *rand.Rand, values []T) (T, error) {
	var zero T
	if rng == nil {
		return zero, errors.New("random source is required")
	}
	if len(values) == 0 {
		return zero, errors.New("values must not be empty")
	}
	return values[rng.Intn(len(values))], nil
}

// chance reports true with probability p.
func chance(rng *rand.Rand, p float64) bool {
	return rng.Float64() < p
}

// uniformIn draws uniformly from [low, high).
func uniformIn(rng *rand.Rand, low, high float64) float64 {
	return low + rng.Float64()*(high-low)
}

// randomWeight draws a connection weight from the configured interval.
func randomWeight(rng *rand.Rand, cfg *config.Config) float64 {
	return uniformIn(rng, cfg.Genome.NewWeightMin, cfg.Genome.NewWeightMax)
}
