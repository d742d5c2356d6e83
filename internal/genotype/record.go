package genotype

import (
	"errors"
	"fmt"

	"auxesis/internal/config"
	"auxesis/internal/innovation"
	"auxesis/internal/model"
)

// ToRecord renders the genome as a flat, storable record. Nodes and
// connections appear in the genome's canonical order, so the rendering is
// deterministic.
func (g *Genome) ToRecord() model.GenomeRecord {
	rec := model.GenomeRecord{
		VersionedRecord: model.NewVersionedRecord(),
		ID:              g.id,
		Fitness:         g.Fitness,
		AdjFitness:      g.AdjFitness,
		NumInputs:       len(g.inputs),
		NumOutputs:      len(g.outputs),
	}
	if g.speciesID != nil {
		species := *g.speciesID
		rec.SpeciesID = &species
	}
	if g.bias != nil {
		bias := g.bias.initial
		rec.BiasValue = &bias
	}

	nodes := g.Nodes()
	rec.Nodes = make([]model.NodeRecord, 0, len(nodes))
	for _, n := range nodes {
		rec.Nodes = append(rec.Nodes, model.NodeRecord{
			ID:         n.id,
			Type:       n.typ.String(),
			Activation: n.activation,
			Initial:    n.initial,
		})
	}

	rec.Connections = make([]model.ConnectionRecord, 0, len(g.connections))
	for _, c := range g.connections {
		rec.Connections = append(rec.Connections, model.ConnectionRecord{
			ID:      c.id,
			From:    c.from.id,
			To:      c.to.id,
			Weight:  c.Weight,
			Enabled: c.Enabled,
		})
	}
	return rec
}

// FromRecord rebuilds a genome graph from its record. Every identifier
// comes from the record; nothing is allocated. The handler and config are
// attached for subsequent mutation calls.
func FromRecord(rec model.GenomeRecord, handler *innovation.Handler, cfg *config.Config) (*Genome, error) {
	if handler == nil {
		return nil, errors.New("id handler is required")
	}
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	g := &Genome{
		id:         rec.ID,
		handler:    handler,
		cfg:        cfg,
		Fitness:    rec.Fitness,
		AdjFitness: rec.AdjFitness,
	}
	if rec.SpeciesID != nil {
		species := *rec.SpeciesID
		g.speciesID = &species
	}

	nodes := make(map[int]*NodeGene, len(rec.Nodes))
	for _, nodeRec := range rec.Nodes {
		typ, err := ParseNodeType(nodeRec.Type)
		if err != nil {
			return nil, fmt.Errorf("genome %d: %w", rec.ID, err)
		}
		if _, exists := nodes[nodeRec.ID]; exists {
			return nil, fmt.Errorf("genome %d: duplicate node id %d", rec.ID, nodeRec.ID)
		}
		node, err := NewNodeGene(nodeRec.ID, typ, nodeRec.Activation, nodeRec.Initial)
		if err != nil {
			return nil, fmt.Errorf("genome %d: %w", rec.ID, err)
		}
		nodes[nodeRec.ID] = node

		switch typ {
		case NodeInput:
			g.inputs = append(g.inputs, node)
		case NodeBias:
			if g.bias != nil {
				return nil, fmt.Errorf("genome %d: more than one bias node", rec.ID)
			}
			g.bias = node
		case NodeOutput:
			g.outputs = append(g.outputs, node)
		case NodeHidden:
			g.hidden = append(g.hidden, node)
		}
	}
	if len(g.inputs) == 0 || len(g.outputs) == 0 {
		return nil, fmt.Errorf("genome %d: needs at least one input and one output node", rec.ID)
	}

	for _, connRec := range rec.Connections {
		src, ok := nodes[connRec.From]
		if !ok {
			return nil, fmt.Errorf("genome %d: connection %d references missing node %d", rec.ID, connRec.ID, connRec.From)
		}
		dest, ok := nodes[connRec.To]
		if !ok {
			return nil, fmt.Errorf("genome %d: connection %d references missing node %d", rec.ID, connRec.ID, connRec.To)
		}
		if _, err := g.addConnectionWith(connRec.ID, src, dest, connRec.Weight, connRec.Enabled); err != nil {
			return nil, fmt.Errorf("genome %d: %w", rec.ID, err)
		}
	}
	return g, nil
}
