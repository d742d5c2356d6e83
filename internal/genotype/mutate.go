package genotype

import (
	"errors"
	"fmt"
	"math/rand"
)

// MutateWeights visits every connection gene independently: with the
// configured reset chance the weight is redrawn from the new-weight
// interval, otherwise it is perturbed by weight * uniform(-pc, pc).
func (g *Genome) MutateWeights(rng *rand.Rand) error {
	if rng == nil {
		return errors.New("random source is required")
	}
	resetChance := g.cfg.Mutation.WeightResetChance
	pc := g.cfg.Mutation.WeightPerturbationPc
	for _, conn := range g.connections {
		if chance(rng, resetChance) {
			conn.Weight = randomWeight(rng, g.cfg)
			continue
		}
		conn.Weight += conn.Weight * uniformIn(rng, -pc, pc)
	}
	return nil
}

// AddRandomConnection connects two previously unconnected nodes chosen
// uniformly at random. Any node can be a source; inputs and the bias cannot
// be destinations. Self-connections are attempted only when the
// configuration allows them. Returns ErrNoSpace when every allowed pair is
// already connected, which is a valid outcome on dense genomes.
func (g *Genome) AddRandomConnection(rng *rand.Rand) (*ConnectionGene, error) {
	if rng == nil {
		return nil, errors.New("random source is required")
	}

	sources := g.Nodes()
	rng.Shuffle(len(sources), func(i, j int) { sources[i], sources[j] = sources[j], sources[i] })

	destinations := make([]*NodeGene, 0, len(sources))
	for _, n := range sources {
		if n.typ != NodeBias && n.typ != NodeInput {
			destinations = append(destinations, n)
		}
	}
	rng.Shuffle(len(destinations), func(i, j int) { destinations[i], destinations[j] = destinations[j], destinations[i] })

	for _, src := range sources {
		for _, dest := range destinations {
			if src.id == dest.id && !g.cfg.Genome.AllowSelfConnections {
				continue
			}
			conn, err := g.AddConnection(src, dest, rng)
			if err != nil {
				if errors.Is(err, ErrConnectionExists) {
					continue
				}
				return nil, err
			}
			return conn, nil
		}
	}
	return nil, fmt.Errorf("%w: genome %d", ErrNoSpace, g.id)
}

// EnableRandomConnection re-enables a disabled connection gene chosen
// uniformly at random. Returns ErrNoDisabled when every gene is enabled.
func (g *Genome) EnableRandomConnection(rng *rand.Rand) (*ConnectionGene, error) {
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	disabled := make([]*ConnectionGene, 0, len(g.connections))
	for _, conn := range g.connections {
		if !conn.Enabled {
			disabled = append(disabled, conn)
		}
	}
	if len(disabled) == 0 {
		return nil, fmt.Errorf("%w: genome %d", ErrNoDisabled, g.id)
	}
	conn, err := RandomElement(rng, disabled)
	if err != nil {
		return nil, err
	}
	conn.Enabled = true
	return conn, nil
}

// AddRandomHiddenNode splits a connection gene chosen uniformly at random
// from the full list, enabled or not: the picked gene is disabled, a hidden
// node is placed where it used to be, and two new genes are added (source to
// new node with weight 1, new node to destination with the original weight),
// preserving the function computed so far. The hidden node's id
// comes from the handler's split allocator, so the same split within one
// generation reuses the same id; a repeated split is rejected before any
// state changes because its connections already exist.
func (g *Genome) AddRandomHiddenNode(rng *rand.Rand) (*NodeGene, error) {
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	if len(g.connections) == 0 {
		return nil, fmt.Errorf("%w: genome %d", ErrNoConnections, g.id)
	}
	original, err := RandomElement(rng, g.connections)
	if err != nil {
		return nil, err
	}
	src, dest := original.from, original.to

	nodeID, err := g.handler.HiddenNodeID(src.id, dest.id)
	if err != nil {
		return nil, err
	}
	if g.NodeByID(nodeID) != nil {
		return nil, fmt.Errorf("%w: connection %d->%d was already split this generation",
			ErrConnectionExists, src.id, dest.id)
	}

	node, err := NewNodeGene(nodeID, NodeHidden, g.cfg.Genome.HiddenNodesActivation, g.cfg.Genome.InitialNodeActivation)
	if err != nil {
		return nil, err
	}
	g.hidden = append(g.hidden, node)

	in, err := g.handler.ConnectionID(src.id, node.id)
	if err != nil {
		return nil, err
	}
	if _, err := g.addConnectionWith(in, src, node, 1, true); err != nil {
		return nil, err
	}
	out, err := g.handler.ConnectionID(node.id, dest.id)
	if err != nil {
		return nil, err
	}
	if _, err := g.addConnectionWith(out, node, dest, original.Weight, true); err != nil {
		return nil, err
	}

	original.Enabled = false
	return node, nil
}
