package kdag

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Validate checks acyclicity.
// A cycle is reported as a *CycleError carrying the full cycle.
func (g *Graph) Validate() error {
	if err := g.detectCycles(); err != nil {
		return fmt.Errorf("DAG validation failed: %w", err)
	}
	return nil
}

// detectCycles runs an iterative Depth-First Search (DFS), so the depth of
// the graph is bounded by memory only. Nodes and children are visited in
// insertion order, so the reported cycle is the same on every run.
// Time complexity: O(V + E) where V is vertices and E is edges.
func (g *Graph) detectCycles() error {
	type frame struct {
		id   NodeID
		next int
	}

	visited := make(map[NodeID]bool, len(g.Nodes))
	recStack := make(map[NodeID]bool, len(g.Nodes))

	// Check all nodes (handles disconnected components)
	for _, rootID := range g.NodeOrder {
		if visited[rootID] {
			continue
		}
		visited[rootID] = true
		recStack[rootID] = true
		stack := []frame{{id: rootID}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			children := g.Nodes[top.id].Children
			if top.next == len(children) {
				recStack[top.id] = false
				stack = stack[:len(stack)-1]
				continue
			}
			childID := children[top.next]
			top.next++

			if recStack[childID] {
				// Cycle detected! Trim the path to start at the repeated node.
				start := slices.IndexFunc(stack, func(f frame) bool { return f.id == childID })
				cycle := make([]NodeID, 0, len(stack)-start+1)
				for _, f := range stack[start:] {
					cycle = append(cycle, f.id)
				}
				cycle = append(cycle, childID)
				return &CycleError{Path: cycle}
			}
			if !visited[childID] {
				visited[childID] = true
				recStack[childID] = true
				stack = append(stack, frame{id: childID})
			}
		}
	}

	return nil
}

// Ordering selects the tie-break among units that are ready at the same
// time during topological sorting.
type Ordering int

const (
	// InsertionOrder places ready units in registration order.
	InsertionOrder Ordering = iota
	// LexicographicOrder places the alphabetically smallest ready unit first.
	LexicographicOrder
)

func (o Ordering) String() string {
	switch o {
	case InsertionOrder:
		return "insertion"
	case LexicographicOrder:
		return "lexicographic"
	default:
		return "unknown"
	}
}

// insertSorted inserts an item into a sorted slice maintaining sort order.
// This is more efficient than repeatedly sorting the entire slice.
// Time complexity: O(log n + n) for binary search + insert.
func insertSorted(slice []NodeID, item NodeID, less func(a, b NodeID) bool) []NodeID {
	idx := sort.Search(len(slice), func(i int) bool {
		return !less(slice[i], item)
	})
	return slices.Insert(slice, idx, item)
}

// TopologicalSort returns the unit nodes in dependency order using Kahn's
// algorithm: for every edge u -> v between units, u precedes v. Free inputs
// have no execution step and are not part of the result.
//
// Among units whose predecessors are all placed, the ordering decides which
// one comes next. Both orderings are deterministic.
func (g *Graph) TopologicalSort(ordering Ordering) ([]NodeID, error) {
	var less func(a, b NodeID) bool
	switch ordering {
	case InsertionOrder:
		idx := g.index()
		less = func(a, b NodeID) bool { return idx[a] < idx[b] }
	case LexicographicOrder:
		less = func(a, b NodeID) bool { return a < b }
	default:
		return nil, fmt.Errorf("%w: unknown ordering %d", ErrInvalidTopology, ordering)
	}

	units := g.Units()

	// Only unit parents gate readiness, inputs are bound before execution.
	inDegree := make(map[NodeID]int, len(units))
	for _, id := range units {
		for _, parent := range g.Nodes[id].Parents {
			if g.Nodes[parent].IsUnit() {
				inDegree[id]++
			}
		}
	}

	queue := make([]NodeID, 0, len(units))
	for _, id := range units {
		if inDegree[id] == 0 {
			queue = insertSorted(queue, id, less)
		}
	}

	result := make([]NodeID, 0, len(units))
	for len(queue) > 0 {
		nodeID := queue[0]
		queue = queue[1:]
		result = append(result, nodeID)

		for _, childID := range g.Nodes[nodeID].Children {
			inDegree[childID]--
			if inDegree[childID] == 0 {
				queue = insertSorted(queue, childID, less)
			}
		}
	}

	// If we didn't process all units, there must be a cycle
	if len(result) != len(units) {
		if err := g.detectCycles(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: topological sort failed", ErrCycleDetected)
	}

	return result, nil
}

// Ancestors returns every node reachable by following edges backward from
// the targets, free inputs included, in insertion order. With
// includeTargets the targets themselves are part of the result.
//
// A target that is not a unit of the graph yields ErrMissingUnit.
func (g *Graph) Ancestors(targets []NodeID, includeTargets bool) ([]NodeID, error) {
	if err := g.checkTargets(targets); err != nil {
		return nil, err
	}

	seen := make(map[NodeID]bool, len(g.Nodes))
	var walk func(NodeID)
	walk = func(id NodeID) {
		for _, parent := range g.Nodes[id].Parents {
			if !seen[parent] {
				seen[parent] = true
				walk(parent)
			}
		}
	}
	for _, target := range targets {
		walk(target)
	}

	isTarget := make(map[NodeID]bool, len(targets))
	for _, target := range targets {
		isTarget[target] = true
	}

	result := make([]NodeID, 0, len(seen)+len(targets))
	for _, id := range g.NodeOrder {
		switch {
		case isTarget[id] && includeTargets:
			result = append(result, id)
		case isTarget[id]:
			// A target reached from another target is still an ancestor.
			if seen[id] {
				result = append(result, id)
			}
		case seen[id]:
			result = append(result, id)
		}
	}
	return result, nil
}

// Prune returns the subgraph induced by the targets and their ancestors.
// Insertion order and edge order are preserved.
func (g *Graph) Prune(targets []NodeID) (*Graph, error) {
	keep, err := g.Ancestors(targets, true)
	if err != nil {
		return nil, err
	}
	kept := make(map[NodeID]bool, len(keep))
	for _, id := range keep {
		kept[id] = true
	}

	pruned := NewGraph()
	for _, id := range keep {
		node := g.Nodes[id]
		pruned.Nodes[id] = &Node{
			ID:       node.ID,
			Type:     node.Type,
			Parents:  keepOnly(node.Parents, kept),
			Children: keepOnly(node.Children, kept),
			Unit:     node.Unit,
		}
		pruned.NodeOrder = append(pruned.NodeOrder, id)
	}
	return pruned, nil
}

func (g *Graph) checkTargets(targets []NodeID) error {
	if len(targets) == 0 {
		return ErrNoTargets
	}
	var missing []string
	for _, target := range targets {
		node, ok := g.Nodes[target]
		if !ok || !node.IsUnit() {
			missing = append(missing, string(target))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: the following targets have no corresponding function: %s",
			ErrMissingUnit, strings.Join(missing, ", "))
	}
	return nil
}

func keepOnly(ids []NodeID, kept map[NodeID]bool) []NodeID {
	out := make([]NodeID, 0, len(ids))
	for _, id := range ids {
		if kept[id] {
			out = append(out, id)
		}
	}
	return out
}

func joinIDs(ids []NodeID, sep string) string {
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = string(id)
	}
	return strings.Join(strs, sep)
}
