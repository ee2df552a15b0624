package kdag

import (
	"fmt"
	"strings"

	"github.com/birdayz/kdags/kunit"
)

// NodeID is a strongly-typed identifier for graph nodes.
// NodeIDs are unit names or free input names.
type NodeID string

// Validate checks if the NodeID is valid.
// Returns ErrInvalidNodeID if the ID is empty or contains whitespace.
func (id NodeID) Validate() error {
	if id == "" {
		return fmt.Errorf("%w: NodeID cannot be empty", ErrInvalidNodeID)
	}
	if strings.ContainsAny(string(id), " \t\n\r") {
		return fmt.Errorf("%w: NodeID %q cannot contain whitespace", ErrInvalidNodeID, id)
	}
	return nil
}

// NodeType represents the kind of node in the graph.
type NodeType int

const (
	// NodeTypeUnit nodes have an associated unit and an execution step.
	NodeTypeUnit NodeType = iota
	// NodeTypeInput nodes are free inputs: parameters that match no unit.
	NodeTypeInput
)

func (t NodeType) String() string {
	switch t {
	case NodeTypeUnit:
		return "Unit"
	case NodeTypeInput:
		return "Input"
	default:
		return "Unknown"
	}
}

// Node is a vertex of the dependency graph.
type Node struct {
	ID   NodeID
	Type NodeType

	// Parents are the providers this node consumes (incoming edges).
	Parents []NodeID

	// Children are the units consuming this node (outgoing edges).
	Children []NodeID

	// Unit is set for NodeTypeUnit nodes only.
	Unit *kunit.Unit
}

// IsUnit reports whether the node has an execution step.
func (n *Node) IsUnit() bool {
	return n.Type == NodeTypeUnit
}

// Graph is the dependency graph of a set of units.
// An edge provider -> consumer exists iff consumer declares a parameter named
// after provider.
type Graph struct {
	Nodes map[NodeID]*Node

	// Deterministic node ordering (insertion order)
	NodeOrder []NodeID
}

// NewGraph creates a new empty graph.
func NewGraph() *Graph {
	return &Graph{
		Nodes:     make(map[NodeID]*Node),
		NodeOrder: make([]NodeID, 0),
	}
}

// AddNode adds a node to the graph.
func (g *Graph) AddNode(node *Node) error {
	if err := node.ID.Validate(); err != nil {
		return err
	}
	if _, exists := g.Nodes[node.ID]; exists {
		return fmt.Errorf("%w: %s", ErrNodeAlreadyExists, node.ID)
	}
	g.Nodes[node.ID] = node
	g.NodeOrder = append(g.NodeOrder, node.ID)
	return nil
}

// AddEdge adds a directed edge from provider to consumer.
// Adding an existing edge is a no-op.
func (g *Graph) AddEdge(providerID, consumerID NodeID) error {
	provider, ok := g.Nodes[providerID]
	if !ok {
		return fmt.Errorf("%w: provider %s", ErrNodeNotFound, providerID)
	}
	consumer, ok := g.Nodes[consumerID]
	if !ok {
		return fmt.Errorf("%w: consumer %s", ErrNodeNotFound, consumerID)
	}
	if !consumer.IsUnit() {
		return fmt.Errorf("%w: input %s cannot consume %s", ErrInvalidTopology, consumerID, providerID)
	}
	for _, id := range provider.Children {
		if id == consumerID {
			return nil
		}
	}

	provider.Children = append(provider.Children, consumerID)
	consumer.Parents = append(consumer.Parents, providerID)
	return nil
}

// Node returns a node by ID if it exists.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	node, ok := g.Nodes[id]
	return node, ok
}

// Units returns unit node IDs in insertion order.
func (g *Graph) Units() []NodeID {
	return g.filter(NodeTypeUnit)
}

// FreeInputs returns free input node IDs in insertion order.
func (g *Graph) FreeInputs() []NodeID {
	return g.filter(NodeTypeInput)
}

// Edges returns all edges as provider/consumer pairs, ordered by provider
// insertion order.
func (g *Graph) Edges() [][2]NodeID {
	var edges [][2]NodeID
	for _, id := range g.NodeOrder {
		for _, child := range g.Nodes[id].Children {
			edges = append(edges, [2]NodeID{id, child})
		}
	}
	return edges
}

func (g *Graph) filter(t NodeType) []NodeID {
	ids := make([]NodeID, 0, len(g.NodeOrder))
	for _, id := range g.NodeOrder {
		if g.Nodes[id].Type == t {
			ids = append(ids, id)
		}
	}
	return ids
}

// index returns the insertion position of every node.
func (g *Graph) index() map[NodeID]int {
	idx := make(map[NodeID]int, len(g.NodeOrder))
	for i, id := range g.NodeOrder {
		idx[id] = i
	}
	return idx
}
