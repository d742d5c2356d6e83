package genotype

import (
	"errors"
	"fmt"
	"math/rand"

	"auxesis/internal/config"
	"auxesis/internal/innovation"
)

var (
	// ErrConnectionExists reports an attempt to re-insert an existing
	// (source, destination) pair. Recoverable; crossover skips it silently.
	ErrConnectionExists = errors.New("connection already exists")
	// ErrInvalidDestination reports a connection into an input or bias node.
	ErrInvalidDestination = errors.New("connection destination cannot receive input")
	// ErrInvalidInputLength reports a Process call with a wrong-sized input.
	ErrInvalidInputLength = errors.New("input length does not match input nodes")
	// ErrNoSpace reports that every allowed node pair is already connected.
	// It is a valid outcome of AddRandomConnection, not a failure.
	ErrNoSpace = errors.New("no space for a new connection")
	// ErrNoConnections reports a structural mutation on an edgeless genome.
	ErrNoConnections = errors.New("genome has no connections")
	// ErrNoDisabled reports that no disabled connection is available.
	ErrNoDisabled = errors.New("genome has no disabled connections")
)

// Genome is a directed graph of node genes and connection genes encoding a
// neural network. The genome keeps references to the shared id handler and
// the active configuration; all identifier allocation goes through the
// handler so historical markings stay consistent across a population.
type Genome struct {
	id        int
	speciesID *int

	inputs  []*NodeGene
	hidden  []*NodeGene
	outputs []*NodeGene
	bias    *NodeGene

	connections []*ConnectionGene

	Fitness    float64
	AdjFitness float64

	handler *innovation.Handler
	cfg     *config.Config
}

// ID returns the genome identifier.
func (g *Genome) ID() int { return g.id }

// SpeciesID returns the species assignment, if any.
func (g *Genome) SpeciesID() (int, bool) {
	if g.speciesID == nil {
		return 0, false
	}
	return *g.speciesID, true
}

// SetSpeciesID assigns the genome to a species.
func (g *Genome) SetSpeciesID(id int) { g.speciesID = &id }

// ClearSpecies removes the species assignment.
func (g *Genome) ClearSpecies() { g.speciesID = nil }

// Inputs returns the input nodes in id order.
func (g *Genome) Inputs() []*NodeGene { return g.inputs }

// Outputs returns the output nodes in id order.
func (g *Genome) Outputs() []*NodeGene { return g.outputs }

// Hidden returns the hidden nodes in creation order.
func (g *Genome) Hidden() []*NodeGene { return g.hidden }

// Bias returns the bias node, or nil when the genome carries none.
func (g *Genome) Bias() *NodeGene { return g.bias }

// Connections returns the connection genes in ascending innovation id order.
func (g *Genome) Connections() []*ConnectionGene { return g.connections }

// Config returns the configuration the genome was built with.
func (g *Genome) Config() *config.Config { return g.cfg }

// Handler returns the shared id handler.
func (g *Genome) Handler() *innovation.Handler { return g.handler }

// Nodes returns every node gene ordered inputs, bias, outputs, hidden.
func (g *Genome) Nodes() []*NodeGene {
	nodes := make([]*NodeGene, 0, len(g.inputs)+1+len(g.outputs)+len(g.hidden))
	nodes = append(nodes, g.inputs...)
	if g.bias != nil {
		nodes = append(nodes, g.bias)
	}
	nodes = append(nodes, g.outputs...)
	nodes = append(nodes, g.hidden...)
	return nodes
}

// NodeByID returns the node with the given id, or nil.
func (g *Genome) NodeByID(id int) *NodeGene {
	for _, n := range g.Nodes() {
		if n.id == id {
			return n
		}
	}
	return nil
}

// ResetValues restores every node to its initial activation, clearing
// recurrent state between episodes.
func (g *Genome) ResetValues() {
	for _, n := range g.Nodes() {
		n.ResetValue()
	}
}

// AddConnection connects src to dest with an innovation id from the handler
// and a uniformly random weight from the configured interval. The new gene
// starts enabled.
func (g *Genome) AddConnection(src, dest *NodeGene, rng *rand.Rand) (*ConnectionGene, error) {
	if rng == nil {
		return nil, errors.New("random source is required")
	}
	if err := g.validateConnection(src, dest); err != nil {
		return nil, err
	}
	id, err := g.handler.ConnectionID(src.id, dest.id)
	if err != nil {
		return nil, err
	}
	return g.insertConnection(id, src, dest, randomWeight(rng, g.cfg), true), nil
}

// addConnectionWith inserts a connection with an explicit id, weight and
// enabled flag. Crossover, copies and record loading use it to carry genes
// over unchanged.
func (g *Genome) addConnectionWith(id int, src, dest *NodeGene, weight float64, enabled bool) (*ConnectionGene, error) {
	if err := g.validateConnection(src, dest); err != nil {
		return nil, err
	}
	return g.insertConnection(id, src, dest, weight, enabled), nil
}

func (g *Genome) validateConnection(src, dest *NodeGene) error {
	if src == nil || dest == nil {
		return errors.New("both connection endpoints are required")
	}
	if ConnectionExists(src, dest) {
		return fmt.Errorf("%w: %d->%d", ErrConnectionExists, src.id, dest.id)
	}
	if dest.typ == NodeBias || dest.typ == NodeInput {
		return fmt.Errorf("%w: %d->%d targets a %s node", ErrInvalidDestination, src.id, dest.id, dest.typ)
	}
	return nil
}

// insertConnection places the gene so that g.connections stays in ascending
// innovation id order. Ids almost always arrive monotonically, so the scan
// from the back is cheap; a cached id handed out earlier in the generation is
// the one case that lands mid-slice.
func (g *Genome) insertConnection(id int, src, dest *NodeGene, weight float64, enabled bool) *ConnectionGene {
	conn := &ConnectionGene{
		id:      id,
		from:    src,
		to:      dest,
		Weight:  weight,
		Enabled: enabled,
	}
	i := len(g.connections)
	for i > 0 && g.connections[i-1].id > id {
		i--
	}
	g.connections = append(g.connections, nil)
	copy(g.connections[i+1:], g.connections[i:])
	g.connections[i] = conn
	src.out = append(src.out, conn)
	dest.in = append(dest.in, conn)
	return conn
}
