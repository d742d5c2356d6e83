package genotype

import "fmt"

// ShallowCopy returns a genome with the same input, bias and output
// scaffold under a fresh id: node identities are preserved, hidden nodes
// and connections are not carried over, and fitness starts at zero.
func (g *Genome) ShallowCopy() *Genome {
	clone := &Genome{
		id:      g.handler.NextGenomeID(),
		handler: g.handler,
		cfg:     g.cfg,
	}
	clone.inputs = make([]*NodeGene, 0, len(g.inputs))
	for _, n := range g.inputs {
		clone.inputs = append(clone.inputs, n.shallowCopy())
	}
	if g.bias != nil {
		clone.bias = g.bias.shallowCopy()
	}
	clone.outputs = make([]*NodeGene, 0, len(g.outputs))
	for _, n := range g.outputs {
		clone.outputs = append(clone.outputs, n.shallowCopy())
	}
	return clone
}

// DeepCopy returns a structural copy of the genome under a fresh id: the
// same node ids, connection ids, weights and enabled flags. Fitness and
// species assignment are not carried over. Hidden nodes are recreated
// lazily in connection order.
func (g *Genome) DeepCopy() (*Genome, error) {
	clone := g.ShallowCopy()
	nodes := make(map[int]*NodeGene, len(g.inputs)+len(g.outputs)+len(g.hidden)+1)
	for _, n := range clone.Nodes() {
		nodes[n.id] = n
	}
	for _, conn := range g.connections {
		for _, endpoint := range []*NodeGene{conn.from, conn.to} {
			if endpoint.typ != NodeHidden {
				continue
			}
			if _, ok := nodes[endpoint.id]; ok {
				continue
			}
			hiddenCopy := endpoint.shallowCopy()
			clone.hidden = append(clone.hidden, hiddenCopy)
			nodes[endpoint.id] = hiddenCopy
		}
		src, dest := nodes[conn.from.id], nodes[conn.to.id]
		if src == nil || dest == nil {
			return nil, fmt.Errorf("genome %d: connection %d references a node outside the genome", g.id, conn.id)
		}
		if _, err := clone.addConnectionWith(conn.id, src, dest, conn.Weight, conn.Enabled); err != nil {
			return nil, fmt.Errorf("copy genome %d: %w", g.id, err)
		}
	}
	return clone, nil
}
