package kdag

import (
	"cmp"
	"slices"
)

// Components groups the unit nodes into weakly connected components over
// unit-to-unit edges. Units sharing only a free input are independent.
//
// Each component is sorted, and components are ordered by their first
// element, so the result is deterministic. Units of different components
// have no mutual dependency and could be executed independently.
func (g *Graph) Components() [][]NodeID {
	// Union-find, merging groups that share an edge.
	parent := make(map[NodeID]NodeID, len(g.Nodes))
	var find func(NodeID) NodeID
	find = func(id NodeID) NodeID {
		for parent[id] != id {
			parent[id] = parent[parent[id]]
			id = parent[id]
		}
		return id
	}
	union := func(a, b NodeID) {
		ra, rb := find(a), find(b)
		if ra == rb {
			return
		}
		// Keep the smallest ID as root for stable group keys.
		if rb < ra {
			ra, rb = rb, ra
		}
		parent[rb] = ra
	}

	units := g.Units()
	for _, id := range units {
		parent[id] = id
	}
	for _, id := range units {
		for _, child := range g.Nodes[id].Children {
			if g.Nodes[child].IsUnit() {
				union(id, child)
			}
		}
	}

	groups := make(map[NodeID][]NodeID)
	for _, id := range units {
		root := find(id)
		groups[root] = append(groups[root], id)
	}

	result := make([][]NodeID, 0, len(groups))
	for _, members := range groups {
		slices.Sort(members)
		result = append(result, members)
	}
	slices.SortFunc(result, func(a, b []NodeID) int {
		return cmp.Compare(a[0], b[0])
	})
	return result
}
