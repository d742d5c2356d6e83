package genotype

import (
	"fmt"

	"auxesis/internal/nn"
)

// NodeType classifies node genes. Input and bias nodes never receive
// connections and are never recomputed from incoming sums.
type NodeType int

const (
	NodeInput NodeType = iota
	NodeBias
	NodeHidden
	NodeOutput
)

func (t NodeType) String() string {
	switch t {
	case NodeInput:
		return "input"
	case NodeBias:
		return "bias"
	case NodeHidden:
		return "hidden"
	case NodeOutput:
		return "output"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// ParseNodeType is the inverse of NodeType.String.
func ParseNodeType(value string) (NodeType, error) {
	switch value {
	case "input":
		return NodeInput, nil
	case "bias":
		return NodeBias, nil
	case "hidden":
		return NodeHidden, nil
	case "output":
		return NodeOutput, nil
	default:
		return 0, fmt.Errorf("unknown node type: %q", value)
	}
}

// NodeGene is a single node of the genome graph. Identity (id, type,
// activation function, initial value) is fixed at creation; the cached
// activation value and the adjacency lists change as the genome is
// evaluated and mutated.
type NodeGene struct {
	id         int
	typ        NodeType
	activation string
	fn         nn.ActivationFunc
	initial    float64
	value      float64

	in  []*ConnectionGene
	out []*ConnectionGene
}

// NewNodeGene builds a node with the named activation resolved through the
// activation registry.
func NewNodeGene(id int, typ NodeType, activation string, initial float64) (*NodeGene, error) {
	fn, canonical, err := nn.ResolveActivation(activation)
	if err != nil {
		return nil, fmt.Errorf("node %d: %w", id, err)
	}
	return &NodeGene{
		id:         id,
		typ:        typ,
		activation: canonical,
		fn:         fn,
		initial:    initial,
		value:      initial,
	}, nil
}

// ID returns the node identifier.
func (n *NodeGene) ID() int { return n.id }

// Type returns the node's role in the graph.
func (n *NodeGene) Type() NodeType { return n.typ }

// Activation returns the canonical activation function name.
func (n *NodeGene) Activation() string { return n.activation }

// InitialValue returns the value the node resets to.
func (n *NodeGene) InitialValue() float64 { return n.initial }

// Value returns the cached activation value.
func (n *NodeGene) Value() float64 { return n.value }

// Activate applies the activation function to sum and caches the result.
// Input and bias nodes are fed directly and never call this.
func (n *NodeGene) Activate(sum float64) {
	n.value = n.fn(sum)
}

// setValue stores value directly, bypassing the activation function.
func (n *NodeGene) setValue(value float64) { n.value = value }

// ResetValue restores the initial activation value.
func (n *NodeGene) ResetValue() { n.value = n.initial }

// In returns the incoming connection genes.
func (n *NodeGene) In() []*ConnectionGene { return n.in }

// Out returns the outgoing connection genes.
func (n *NodeGene) Out() []*ConnectionGene { return n.out }

// shallowCopy returns a node with the same identity but empty adjacency
// lists and a freshly reset value.
func (n *NodeGene) shallowCopy() *NodeGene {
	return &NodeGene{
		id:         n.id,
		typ:        n.typ,
		activation: n.activation,
		fn:         n.fn,
		initial:    n.initial,
		value:      n.initial,
	}
}

// ConnectionGene is a weighted directed edge between two node genes. The
// innovation id and the endpoints are fixed at creation; weight and enabled
// change under mutation.
type ConnectionGene struct {
	id   int
	from *NodeGene
	to   *NodeGene

	Weight  float64
	Enabled bool
}

// ID returns the innovation identifier.
func (c *ConnectionGene) ID() int { return c.id }

// From returns the source node.
func (c *ConnectionGene) From() *NodeGene { return c.from }

// To returns the destination node.
func (c *ConnectionGene) To() *NodeGene { return c.to }

// SelfConnecting reports whether the connection loops a node onto itself.
func (c *ConnectionGene) SelfConnecting() bool { return c.from.id == c.to.id }

// ConnectionExists reports whether src already has an outgoing connection
// to dest. Scans src's outgoing list, so it costs O(out-degree).
func ConnectionExists(src, dest *NodeGene) bool {
	for _, c := range src.out {
		if c.to.id == dest.id {
			return true
		}
	}
	return false
}
