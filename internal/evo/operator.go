package evo

import (
	"context"
	"errors"
	"fmt"

	"auxesis/internal/genotype"
)

// Operator is a single mutation step applied to a genome in place.
// Implementations surface the genome's recoverable sentinels
// (genotype.ErrNoSpace, genotype.ErrNoDisabled) unchanged so callers can
// treat them as valid outcomes rather than failures.
type Operator interface {
	Name() string
	Apply(ctx context.Context, g *genotype.Genome) error
}

// Pipeline applies the operators in order. Steps that report a valid-outcome
// sentinel are skipped; any other failure aborts with the step's position and
// name attached.
func Pipeline(ctx context.Context, g *genotype.Genome, ops ...Operator) error {
	for i, op := range ops {
		if err := op.Apply(ctx, g); err != nil {
			if errors.Is(err, genotype.ErrNoSpace) || errors.Is(err, genotype.ErrNoDisabled) {
				continue
			}
			return fmt.Errorf("operator %d (%s): %w", i, op.Name(), err)
		}
	}
	return nil
}

func stepGuard(ctx context.Context, g *genotype.Genome) error {
	if g == nil {
		return errors.New("genome is required")
	}
	if ctx == nil {
		return errors.New("context is required")
	}
	return ctx.Err()
}
