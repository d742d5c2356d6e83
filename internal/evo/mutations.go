package evo

import (
	"context"
	"fmt"
	"math/rand"

	"auxesis/internal/genotype"
)

// MutateWeights perturbs or resets every connection weight according to the
// genome's mutation configuration.
type MutateWeights struct {
	Rand *rand.Rand
}

func (MutateWeights) Name() string { return "weights" }

func (MutateWeights) Applicable(g *genotype.Genome) bool {
	return g != nil && len(g.Connections()) > 0
}

func (o MutateWeights) Apply(ctx context.Context, g *genotype.Genome) error {
	if err := stepGuard(ctx, g); err != nil {
		return err
	}
	return g.MutateWeights(o.Rand)
}

// AddRandomConnection wires two previously unconnected nodes. Saturated
// genomes report genotype.ErrNoSpace.
type AddRandomConnection struct {
	Rand *rand.Rand
}

func (AddRandomConnection) Name() string { return "add_connection" }

func (AddRandomConnection) Applicable(g *genotype.Genome) bool {
	return g != nil
}

func (o AddRandomConnection) Apply(ctx context.Context, g *genotype.Genome) error {
	if err := stepGuard(ctx, g); err != nil {
		return err
	}
	_, err := g.AddRandomConnection(o.Rand)
	return err
}

// AddRandomHiddenNode splits a random connection gene into two around a new
// hidden node.
type AddRandomHiddenNode struct {
	Rand *rand.Rand
}

func (AddRandomHiddenNode) Name() string { return "add_node" }

func (AddRandomHiddenNode) Applicable(g *genotype.Genome) bool {
	return g != nil && len(g.Connections()) > 0
}

func (o AddRandomHiddenNode) Apply(ctx context.Context, g *genotype.Genome) error {
	if err := stepGuard(ctx, g); err != nil {
		return err
	}
	_, err := g.AddRandomHiddenNode(o.Rand)
	return err
}

// EnableRandomConnection re-enables a random disabled connection gene.
// Genomes with every gene enabled report genotype.ErrNoDisabled.
type EnableRandomConnection struct {
	Rand *rand.Rand
}

func (EnableRandomConnection) Name() string { return "enable_connection" }

func (EnableRandomConnection) Applicable(g *genotype.Genome) bool {
	if g == nil {
		return false
	}
	for _, conn := range g.Connections() {
		if !conn.Enabled {
			return true
		}
	}
	return false
}

func (o EnableRandomConnection) Apply(ctx context.Context, g *genotype.Genome) error {
	if err := stepGuard(ctx, g); err != nil {
		return err
	}
	_, err := g.EnableRandomConnection(o.Rand)
	return err
}

// PerturbWeightAt adds a fixed delta to one connection weight. Deterministic;
// meant for fixtures and scripted CLI runs.
type PerturbWeightAt struct {
	Index int
	Delta float64
}

func (PerturbWeightAt) Name() string { return "perturb_weight" }

func (o PerturbWeightAt) Apply(ctx context.Context, g *genotype.Genome) error {
	if err := stepGuard(ctx, g); err != nil {
		return err
	}
	conns := g.Connections()
	if o.Index < 0 || o.Index >= len(conns) {
		return fmt.Errorf("connection index out of range: %d", o.Index)
	}
	conns[o.Index].Weight += o.Delta
	return nil
}

// DisableConnectionAt disables one connection gene. Deterministic; meant for
// fixtures and scripted CLI runs.
type DisableConnectionAt struct {
	Index int
}

func (DisableConnectionAt) Name() string { return "disable_connection" }

func (o DisableConnectionAt) Apply(ctx context.Context, g *genotype.Genome) error {
	if err := stepGuard(ctx, g); err != nil {
		return err
	}
	conns := g.Connections()
	if o.Index < 0 || o.Index >= len(conns) {
		return fmt.Errorf("connection index out of range: %d", o.Index)
	}
	conns[o.Index].Enabled = false
	return nil
}

// DefaultOperators returns the stochastic operator set in a stable order,
// all drawing from the same source.
func DefaultOperators(rng *rand.Rand) []Operator {
	return []Operator{
		MutateWeights{Rand: rng},
		AddRandomConnection{Rand: rng},
		AddRandomHiddenNode{Rand: rng},
		EnableRandomConnection{Rand: rng},
	}
}

func registerBuiltinOperators() {
	MustRegisterOperator("weights", func(rng *rand.Rand) Operator { return MutateWeights{Rand: rng} })
	MustRegisterOperator("add_connection", func(rng *rand.Rand) Operator { return AddRandomConnection{Rand: rng} })
	MustRegisterOperator("add_node", func(rng *rand.Rand) Operator { return AddRandomHiddenNode{Rand: rng} })
	MustRegisterOperator("enable_connection", func(rng *rand.Rand) Operator { return EnableRandomConnection{Rand: rng} })
}
