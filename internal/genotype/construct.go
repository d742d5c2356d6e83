package genotype

import (
	"errors"
	"fmt"
	"math/rand"

	"auxesis/internal/config"
	"auxesis/internal/innovation"
)

// Option adjusts genome construction.
type Option func(*constructOptions)

type constructOptions struct {
	withConnections bool
}

// WithoutConnections skips the initial input->output connectivity.
func WithoutConnections() Option {
	return func(o *constructOptions) { o.withConnections = false }
}

// New builds a genome with numInputs input nodes, a bias node when the
// configuration carries one, and numOutputs output nodes. Node ids are
// assigned in that order, matching the id space the handler reserves. By
// default every input node is connected to every output node with a random
// weight; the bias node starts unconnected.
func New(numInputs, numOutputs int, handler *innovation.Handler, cfg *config.Config, rng *rand.Rand, opts ...Option) (*Genome, error) {
	if numInputs <= 0 || numOutputs <= 0 {
		return nil, fmt.Errorf("genome needs at least one input and one output node, got %d and %d", numInputs, numOutputs)
	}
	if handler == nil {
		return nil, errors.New("id handler is required")
	}
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	options := constructOptions{withConnections: true}
	for _, opt := range opts {
		opt(&options)
	}
	if options.withConnections && rng == nil {
		return nil, errors.New("random source is required")
	}

	g := &Genome{
		id:      handler.NextGenomeID(),
		handler: handler,
		cfg:     cfg,
	}

	nodeCounter := 0
	for i := 0; i < numInputs; i++ {
		node, err := NewNodeGene(nodeCounter, NodeInput, "linear", cfg.Genome.InitialNodeActivation)
		if err != nil {
			return nil, err
		}
		g.inputs = append(g.inputs, node)
		nodeCounter++
	}

	if biasValue, ok := cfg.BiasValue(); ok {
		node, err := NewNodeGene(nodeCounter, NodeBias, "linear", biasValue)
		if err != nil {
			return nil, err
		}
		g.bias = node
		nodeCounter++
	}

	for i := 0; i < numOutputs; i++ {
		node, err := NewNodeGene(nodeCounter, NodeOutput, cfg.Genome.OutNodesActivation, cfg.Genome.InitialNodeActivation)
		if err != nil {
			return nil, err
		}
		g.outputs = append(g.outputs, node)
		nodeCounter++

		if options.withConnections {
			for _, input := range g.inputs {
				if _, err := g.AddConnection(input, node, rng); err != nil {
					return nil, fmt.Errorf("initial connectivity: %w", err)
				}
			}
		}
	}
	return g, nil
}
