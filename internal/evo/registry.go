package evo

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"
)

var (
	ErrOperatorExists   = errors.New("operator already registered")
	ErrOperatorNotFound = errors.New("operator not found")
)

// OperatorFactory builds an operator bound to a random source. Deterministic
// operators carry their parameters directly and are constructed inline rather
// than through the registry.
type OperatorFactory func(rng *rand.Rand) Operator

var operatorRegistry = struct {
	mu sync.RWMutex
	m  map[string]OperatorFactory
}{
	m: make(map[string]OperatorFactory),
}

func init() {
	registerBuiltinOperators()
}

// RegisterOperator registers a named operator factory.
func RegisterOperator(name string, factory OperatorFactory) error {
	if name == "" {
		return errors.New("operator name is required")
	}
	if factory == nil {
		return errors.New("operator factory is required")
	}

	operatorRegistry.mu.Lock()
	defer operatorRegistry.mu.Unlock()

	if _, exists := operatorRegistry.m[name]; exists {
		return fmt.Errorf("%w: %s", ErrOperatorExists, name)
	}
	operatorRegistry.m[name] = factory
	return nil
}

// MustRegisterOperator registers a named operator factory and panics on
// conflict. Intended for package init blocks.
func MustRegisterOperator(name string, factory OperatorFactory) {
	if err := RegisterOperator(name, factory); err != nil {
		panic(err)
	}
}

// ResolveOperator constructs the named operator around the given source.
func ResolveOperator(name string, rng *rand.Rand) (Operator, error) {
	operatorRegistry.mu.RLock()
	factory, ok := operatorRegistry.m[name]
	operatorRegistry.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOperatorNotFound, name)
	}
	return factory(rng), nil
}

// ResolveOperators constructs a named operator chain, preserving order.
func ResolveOperators(names []string, rng *rand.Rand) ([]Operator, error) {
	ops := make([]Operator, 0, len(names))
	for _, name := range names {
		op, err := ResolveOperator(name, rng)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return ops, nil
}

// ListOperators returns the registered operator names, sorted.
func ListOperators() []string {
	operatorRegistry.mu.RLock()
	defer operatorRegistry.mu.RUnlock()

	names := make([]string, 0, len(operatorRegistry.m))
	for name := range operatorRegistry.m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resetOperatorRegistryForTests() {
	operatorRegistry.mu.Lock()
	operatorRegistry.m = make(map[string]OperatorFactory)
	operatorRegistry.mu.Unlock()
	registerBuiltinOperators()
}
