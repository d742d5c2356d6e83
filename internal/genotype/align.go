package genotype

// AlignConnections lines up two connection sequences by innovation id.
// Both inputs are in ascending id order, which genomes maintain by
// construction. The two returned slices have equal length; each slot holds
// a gene or nil, and matching ids share a slot index. A linear two-pointer
// merge, O(n + m).
func AlignConnections(a, b []*ConnectionGene) ([]*ConnectionGene, []*ConnectionGene) {
	alignedA := make([]*ConnectionGene, 0, len(a)+len(b))
	alignedB := make([]*ConnectionGene, 0, len(a)+len(b))

	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].id == b[j].id:
			alignedA = append(alignedA, a[i])
			alignedB = append(alignedB, b[j])
			i++
			j++
		case a[i].id < b[j].id:
			alignedA = append(alignedA, a[i])
			alignedB = append(alignedB, nil)
			i++
		default:
			alignedA = append(alignedA, nil)
			alignedB = append(alignedB, b[j])
			j++
		}
	}
	for ; i < len(a); i++ {
		alignedA = append(alignedA, a[i])
		alignedB = append(alignedB, nil)
	}
	for ; j < len(b); j++ {
		alignedA = append(alignedA, nil)
		alignedB = append(alignedB, b[j])
	}
	return alignedA, alignedB
}
