package genotype

import "fmt"

// Process feeds the input vector through the encoded network and returns
// the output activations in output-node order. Evaluation is demand driven
// from the outputs: a node is marked visited before its incoming
// connections are followed, so cycles terminate and recurrent edges read
// the previous activation of a node still being computed. Disabled genes
// contribute nothing, and nodes unreachable from any output are never
// evaluated.
func (g *Genome) Process(inputs []float64) ([]float64, error) {
	if len(inputs) != len(g.inputs) {
		return nil, fmt.Errorf("%w: got %d inputs, want %d", ErrInvalidInputLength, len(inputs), len(g.inputs))
	}
	for i, n := range g.inputs {
		n.setValue(inputs[i])
	}

	visited := make(map[int]bool, len(g.outputs)+len(g.hidden))
	out := make([]float64, len(g.outputs))
	for i, n := range g.outputs {
		out[i] = g.processNode(n, visited)
	}
	return out, nil
}

func (g *Genome) processNode(n *NodeGene, visited map[int]bool) float64 {
	if n.typ == NodeInput || n.typ == NodeBias || visited[n.id] {
		return n.value
	}
	visited[n.id] = true

	sum := 0.0
	for _, conn := range n.in {
		if conn.Enabled {
			sum += conn.Weight * g.processNode(conn.from, visited)
		}
	}
	n.Activate(sum)
	return n.value
}
