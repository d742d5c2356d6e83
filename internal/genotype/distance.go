package genotype

import "math"

// Distance computes the compatibility distance to other:
//
//	(c1*excess + c2*disjoint) / N  +  c3 * (sum |w_a - w_b| / matches)
//
// where N is the larger connection count. A non-matching gene is excess
// when its id lies beyond the other genome's highest innovation, disjoint
// otherwise. With no matching genes the weight term is zero; two edgeless
// genomes have distance zero.
func (g *Genome) Distance(other *Genome) float64 {
	if len(g.connections) == 0 && len(other.connections) == 0 {
		return 0
	}
	alignedA, alignedB := AlignConnections(g.connections, other.connections)

	maxInnovA := maxInnovation(g.connections)
	maxInnovB := maxInnovation(other.connections)

	var excess, disjoint, matches int
	var weightDiff float64
	for i := range alignedA {
		c1, c2 := alignedA[i], alignedB[i]
		switch {
		case c1 == nil:
			if c2.id > maxInnovA {
				excess++
			} else {
				disjoint++
			}
		case c2 == nil:
			if c1.id > maxInnovB {
				excess++
			} else {
				disjoint++
			}
		default:
			matches++
			weightDiff += math.Abs(c1.Weight - c2.Weight)
		}
	}

	coefficients := g.cfg.Distance
	n := float64(max(len(g.connections), len(other.connections)))
	d := (coefficients.ExcessCoefficient*float64(excess) + coefficients.DisjointCoefficient*float64(disjoint)) / n
	if matches > 0 {
		d += coefficients.WeightDifferenceCoefficient * weightDiff / float64(matches)
	}
	return d
}

func maxInnovation(connections []*ConnectionGene) int {
	maxID := -1
	for _, c := range connections {
		if c.id > maxID {
			maxID = c.id
		}
	}
	return maxID
}
