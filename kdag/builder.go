package kdag

import (
	"errors"
	"fmt"

	"github.com/birdayz/kdags/kunit"
)

// Build turns a unit registry into a dependency graph.
//
// Every unit becomes a NodeTypeUnit node, in registration order. Every
// parameter naming another unit adds an edge from that unit to the consumer;
// every other parameter becomes (or reuses) a NodeTypeInput node. A
// parameter naming its own unit is kept as a self-edge so that Validate
// reports it as a cycle.
//
// Build does not validate acyclicity, see Validate.
func Build(reg *kunit.Registry) (*Graph, error) {
	g := NewGraph()

	units := reg.Units()
	for i := range units {
		u := units[i]
		if err := g.AddNode(&Node{
			ID:       NodeID(u.Name),
			Type:     NodeTypeUnit,
			Parents:  []NodeID{},
			Children: []NodeID{},
			Unit:     &u,
		}); err != nil {
			return nil, err
		}
	}

	for _, u := range units {
		consumer := NodeID(u.Name)
		for _, p := range u.Params {
			provider := NodeID(p.Name)
			if _, exists := g.Nodes[provider]; !exists {
				if err := g.AddNode(&Node{
					ID:       provider,
					Type:     NodeTypeInput,
					Parents:  []NodeID{},
					Children: []NodeID{},
				}); err != nil {
					return nil, fmt.Errorf("unit %q: %w", u.Name, err)
				}
			}
			if err := g.AddEdge(provider, consumer); err != nil {
				return nil, fmt.Errorf("cannot connect %s -> %s: %w", provider, consumer, err)
			}
		}
	}

	return g, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(reg *kunit.Registry) *Graph {
	g, err := Build(reg)
	if err != nil {
		panic(err)
	}
	return g
}

// Sentinel errors for common failure cases.
var (
	ErrNodeAlreadyExists = errors.New("node already exists")
	ErrNodeNotFound      = errors.New("node not found")
	ErrCycleDetected     = errors.New("cycle detected in DAG")
	ErrMissingUnit       = errors.New("missing function")
	ErrNoTargets         = errors.New("no targets")
	ErrInvalidNodeID     = errors.New("invalid node ID")
	ErrInvalidTopology   = errors.New("invalid topology")
)

// CycleError reports a dependency cycle. Path starts and ends with the
// repeated node, e.g. [a b a].
type CycleError struct {
	Path []NodeID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCycleDetected, joinIDs(e.Path, " -> "))
}

// Unwrap makes errors.Is(err, ErrCycleDetected) hold.
func (e *CycleError) Unwrap() error {
	return ErrCycleDetected
}
