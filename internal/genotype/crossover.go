package genotype

import (
	"errors"
	"math/rand"
)

// Mate produces an offspring genome from two parents. The child's base
// scaffold (inputs, bias, outputs) comes from parent a; callers pass the
// preferred parent first, conventionally the fitter one.
//
// Aligned genes are handled per slot: a gene missing from the parent with
// strictly higher adjusted fitness is dropped outright; otherwise one of the
// two candidates is chosen uniformly at random, and a nil pick inherits
// nothing. Hidden nodes referenced by an inherited gene are shallow-copied
// into the child on first use. A gene disabled in either parent is disabled
// in the child with the configured chance, and is enabled otherwise.
// Convergent duplicates (the same src/dest pair arriving under two different
// innovation ids) are skipped silently; this is the one place where
// ErrConnectionExists is swallowed.
func Mate(a, b *Genome, rng *rand.Rand) (*Genome, error) {
	if a == nil || b == nil {
		return nil, errors.New("both parents are required")
	}
	if rng == nil {
		return nil, errors.New("random source is required")
	}

	alignedA, alignedB := AlignConnections(a.connections, b.connections)

	child := a.ShallowCopy()
	nodes := make(map[int]*NodeGene, len(child.inputs)+len(child.outputs)+1)
	for _, n := range child.Nodes() {
		nodes[n.id] = n
	}

	disableChance := a.cfg.Crossover.DisableInheritedConnectionChance
	for i := range alignedA {
		c1, c2 := alignedA[i], alignedB[i]

		if c1 == nil && a.AdjFitness > b.AdjFitness {
			continue
		}
		if c2 == nil && b.AdjFitness > a.AdjFitness {
			continue
		}

		chosen := c1
		if rng.Intn(2) == 1 {
			chosen = c2
		}
		if chosen == nil {
			continue
		}

		for _, endpoint := range []*NodeGene{chosen.from, chosen.to} {
			if endpoint.typ != NodeHidden {
				continue
			}
			if _, ok := nodes[endpoint.id]; ok {
				continue
			}
			hiddenCopy := endpoint.shallowCopy()
			child.hidden = append(child.hidden, hiddenCopy)
			nodes[endpoint.id] = hiddenCopy
		}

		disabledInParent := (c1 != nil && !c1.Enabled) || (c2 != nil && !c2.Enabled)
		enabled := !(disabledInParent && chance(rng, disableChance))

		if _, err := child.addConnectionWith(chosen.id, nodes[chosen.from.id], nodes[chosen.to.id], chosen.Weight, enabled); err != nil {
			if errors.Is(err, ErrConnectionExists) {
				continue
			}
			return nil, err
		}
	}
	return child, nil
}
