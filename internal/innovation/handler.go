package innovation

import (
	"errors"
	"fmt"
)

// ErrMissingID reports an allocation request with an absent endpoint id.
// It indicates a caller bug and always propagates.
var ErrMissingID = errors.New("missing endpoint id")

// Kind labels what an allocation produced.
type Kind string

const (
	KindNode       Kind = "node"
	KindConnection Kind = "connection"
)

// Event describes a single fresh allocation. Cache hits do not emit events.
type Event struct {
	Kind       Kind
	SrcID      int
	DestID     int
	ID         int
	Generation int
}

type pairKey struct {
	src  int
	dest int
}

// Handler allocates every identifier used by genomes: node ids, connection
// innovation ids, genome ids and species ids. Requests for the same
// (src, dest) pair within one generation reuse the cached id, so identical
// structural mutations receive identical historical markings.
//
// Handler is not safe for concurrent use; callers serialize access.
type Handler struct {
	nodeCounter       int
	connectionCounter int
	genomeCounter     int
	speciesCounter    int
	generation        int

	newNodeIDs       map[pairKey]int
	newConnectionIDs map[pairKey]int

	// Observer, when non-nil, receives every fresh node and connection
	// allocation.
	Observer func(Event)
}

// NewHandler seeds the counters for a base topology: node ids below
// numInputs+numOutputs(+1 with a bias) are reserved for the fixed nodes, and
// connection ids below numInputs*numOutputs for the fully connected base
// genome.
func NewHandler(numInputs, numOutputs int, hasBias bool) *Handler {
	bias := 0
	if hasBias {
		bias = 1
	}
	return &Handler{
		nodeCounter:       numInputs + numOutputs + bias,
		connectionCounter: numInputs * numOutputs,
		newNodeIDs:        make(map[pairKey]int),
		newConnectionIDs:  make(map[pairKey]int),
	}
}

// Reset discards the per-generation caches and advances the generation
// index. Counters are never rewound, so ids stay unique across the run.
func (h *Handler) Reset() {
	h.newNodeIDs = make(map[pairKey]int)
	h.newConnectionIDs = make(map[pairKey]int)
	h.generation++
}

// Generation reports how many times Reset has been called.
func (h *Handler) Generation() int { return h.generation }

// EnsureCounters raises the node and connection counters to the given
// floors. Loading stored genomes onto a fresh handler uses it so future
// allocations cannot collide with ids already present in the records.
func (h *Handler) EnsureCounters(minNode, minConnection int) {
	if h.nodeCounter < minNode {
		h.nodeCounter = minNode
	}
	if h.connectionCounter < minConnection {
		h.connectionCounter = minConnection
	}
}

// EnsureGenomeCounter raises the genome id counter to the given floor, so
// genomes created after a session resumes cannot reuse archived ids.
func (h *Handler) EnsureGenomeCounter(min int) {
	if h.genomeCounter < min {
		h.genomeCounter = min
	}
}

// NextGenomeID returns a fresh genome id.
func (h *Handler) NextGenomeID() int {
	id := h.genomeCounter
	h.genomeCounter++
	return id
}

// NextSpeciesID returns a fresh species id.
func (h *Handler) NextSpeciesID() int {
	id := h.speciesCounter
	h.speciesCounter++
	return id
}

// HiddenNodeID returns the id of the hidden node created by splitting the
// connection srcID->destID. Splitting the same connection again within the
// same generation yields the same id.
func (h *Handler) HiddenNodeID(srcID, destID int) (int, error) {
	if srcID < 0 || destID < 0 {
		return 0, fmt.Errorf("%w: hidden node for connection (%d, %d)", ErrMissingID, srcID, destID)
	}
	key := pairKey{src: srcID, dest: destID}
	if id, ok := h.newNodeIDs[key]; ok {
		return id, nil
	}
	id := h.nodeCounter
	h.nodeCounter++
	h.newNodeIDs[key] = id
	h.notify(Event{Kind: KindNode, SrcID: srcID, DestID: destID, ID: id, Generation: h.generation})
	return id, nil
}

// ConnectionID returns the innovation id of the connection srcID->destID.
// Creating the same connection again within the same generation yields the
// same id.
func (h *Handler) ConnectionID(srcID, destID int) (int, error) {
	if srcID < 0 || destID < 0 {
		return 0, fmt.Errorf("%w: connection (%d, %d)", ErrMissingID, srcID, destID)
	}
	key := pairKey{src: srcID, dest: destID}
	if id, ok := h.newConnectionIDs[key]; ok {
		return id, nil
	}
	id := h.connectionCounter
	h.connectionCounter++
	h.newConnectionIDs[key] = id
	h.notify(Event{Kind: KindConnection, SrcID: srcID, DestID: destID, ID: id, Generation: h.generation})
	return id, nil
}

func (h *Handler) notify(ev Event) {
	if h.Observer == nil {
		return
	}
	h.Observer(ev)
}
