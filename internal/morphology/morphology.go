package morphology

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

var (
	ErrMorphologyExists   = errors.New("morphology already registered")
	ErrMorphologyNotFound = errors.New("morphology not found")
)

// Morphology sizes new genomes for a named problem family. The preset fixes
// the network's external interface; weight values and activations stay with
// the configuration.
type Morphology struct {
	Name        string
	Inputs      int
	Outputs     int
	UseBias     bool
	Description string
}

// Dimensions returns the genome constructor arguments for this shape.
func (m Morphology) Dimensions() (numInputs, numOutputs int, useBias bool) {
	return m.Inputs, m.Outputs, m.UseBias
}

var morphologyRegistry = struct {
	mu sync.RWMutex
	m  map[string]Morphology
}{
	m: make(map[string]Morphology),
}

func init() {
	registerBuiltinMorphologies()
}

func registerBuiltinMorphologies() {
	MustRegisterMorphology(Morphology{
		Name:        "xor-v1",
		Inputs:      2,
		Outputs:     1,
		UseBias:     true,
		Description: "two-input exclusive-or",
	})
	MustRegisterMorphology(Morphology{
		Name:        "cart-pole-lite-v1",
		Inputs:      3,
		Outputs:     1,
		UseBias:     true,
		Description: "reduced cart-pole balance control",
	})
	MustRegisterMorphology(Morphology{
		Name:        "sine-fit-v1",
		Inputs:      1,
		Outputs:     1,
		UseBias:     true,
		Description: "single-variable sine regression",
	})
	MustRegisterMorphology(Morphology{
		Name:        "parity3-v1",
		Inputs:      3,
		Outputs:     1,
		UseBias:     true,
		Description: "three-bit odd parity",
	})
}

// RegisterMorphology registers a named preset.
func RegisterMorphology(m Morphology) error {
	name := normalizeName(m.Name)
	if name == "" {
		return errors.New("morphology name is required")
	}
	if m.Inputs <= 0 || m.Outputs <= 0 {
		return fmt.Errorf("morphology %s needs at least one input and one output, got %d and %d",
			name, m.Inputs, m.Outputs)
	}

	morphologyRegistry.mu.Lock()
	defer morphologyRegistry.mu.Unlock()

	if _, exists := morphologyRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrMorphologyExists, name)
	}
	m.Name = name
	morphologyRegistry.m[name] = m
	return nil
}

// MustRegisterMorphology registers a preset and panics on conflict. Intended
// for package init blocks.
func MustRegisterMorphology(m Morphology) {
	if err := RegisterMorphology(m); err != nil {
		panic(err)
	}
}

// GetMorphology resolves a preset by name, going through Normalize so the
// versionless aliases ("xor", "cart-pole") reach their canonical presets.
func GetMorphology(name string) (Morphology, error) {
	morphologyRegistry.mu.RLock()
	m, ok := morphologyRegistry.m[Normalize(name)]
	morphologyRegistry.mu.RUnlock()

	if !ok {
		return Morphology{}, fmt.Errorf("%w: %s", ErrMorphologyNotFound, name)
	}
	return m, nil
}

// ListMorphologies returns the registered preset names, sorted.
func ListMorphologies() []string {
	morphologyRegistry.mu.RLock()
	defer morphologyRegistry.mu.RUnlock()

	names := make([]string, 0, len(morphologyRegistry.m))
	for name := range morphologyRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetMorphologyRegistryForTests() {
	morphologyRegistry.mu.Lock()
	morphologyRegistry.m = make(map[string]Morphology)
	morphologyRegistry.mu.Unlock()
	registerBuiltinMorphologies()
}

func normalizeName(raw string) string {
	name := strings.TrimSpace(strings.ToLower(raw))
	return strings.ReplaceAll(name, "_", "-")
}
