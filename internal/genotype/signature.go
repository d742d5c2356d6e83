package genotype

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
)

// Summary aggregates a genome's structural counts.
type Summary struct {
	GenomeID      int            `json:"genome_id"`
	Inputs        int            `json:"inputs"`
	Outputs       int            `json:"outputs"`
	Hidden        int            `json:"hidden"`
	HasBias       bool           `json:"has_bias"`
	Connections   int            `json:"connections"`
	Enabled       int            `json:"enabled"`
	Disabled      int            `json:"disabled"`
	SelfLoops     int            `json:"self_loops"`
	MaxInnovation int            `json:"max_innovation"`
	Activations   map[string]int `json:"activations"`
}

// Summarize computes the structural summary of the genome.
func (g *Genome) Summarize() Summary {
	summary := Summary{
		GenomeID:      g.id,
		Inputs:        len(g.inputs),
		Outputs:       len(g.outputs),
		Hidden:        len(g.hidden),
		HasBias:       g.bias != nil,
		Connections:   len(g.connections),
		MaxInnovation: maxInnovation(g.connections),
		Activations:   make(map[string]int),
	}
	for _, n := range g.Nodes() {
		summary.Activations[n.activation]++
	}
	for _, c := range g.connections {
		if c.Enabled {
			summary.Enabled++
		} else {
			summary.Disabled++
		}
		if c.SelfConnecting() {
			summary.SelfLoops++
		}
	}
	return summary
}

// Fingerprint returns a short stable digest of the genome's topology: node
// identities plus connection tuples with enabled flags. Weights do not
// participate, so weight mutation preserves the fingerprint.
func (g *Genome) Fingerprint() string {
	return g.fingerprint(false)
}

// WeightedFingerprint additionally folds quantized weights into the digest,
// distinguishing parametric variants of the same topology.
func (g *Genome) WeightedFingerprint() string {
	return g.fingerprint(true)
}

func (g *Genome) fingerprint(withWeights bool) string {
	parts := make([]string, 0, len(g.inputs)+len(g.outputs)+len(g.hidden)+len(g.connections)+1)
	for _, n := range g.Nodes() {
		parts = append(parts, fmt.Sprintf("n:%d:%s:%s", n.id, n.typ, n.activation))
	}
	for _, c := range g.connections {
		if withWeights {
			parts = append(parts, fmt.Sprintf("c:%d:%d:%d:%t:%.6f", c.id, c.from.id, c.to.id, c.Enabled, c.Weight))
		} else {
			parts = append(parts, fmt.Sprintf("c:%d:%d:%d:%t", c.id, c.from.id, c.to.id, c.Enabled))
		}
	}
	sort.Strings(parts)

	digest := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(digest[:8])
}

// Info renders a human-readable listing of node activations and connection
// genes, in genome order.
func (g *Genome) Info() string {
	var b strings.Builder
	b.WriteString(">> NODES\n")
	for _, n := range g.Nodes() {
		fmt.Fprintf(&b, "[%d][%s][%s] %g\n", n.id, n.typ, n.activation, n.value)
	}
	b.WriteString("\n>> CONNECTIONS\n")
	for _, c := range g.connections {
		state := "ON"
		if !c.Enabled {
			state = "OFF"
		}
		fmt.Fprintf(&b, "[%s][%d][%d->%d] %g\n", state, c.id, c.from.id, c.to.id, c.Weight)
	}
	return b.String()
}
