package kdag

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kdags/kunit"
)

func noop(args []any) (any, error) { return nil, nil }

// unit declares a test unit with the given parameters.
func unit(name string, params ...string) kunit.Unit {
	return kunit.New(name, noop, params...)
}

// buildTestGraph builds a graph from units, failing the test on error.
func buildTestGraph(t testing.TB, units ...kunit.Unit) *Graph {
	t.Helper()
	reg, err := kunit.NewRegistry(units...)
	assert.NoError(t, err)
	g, err := Build(reg)
	assert.NoError(t, err)
	return g
}

// exampleUnits is f(x, y), g(y, z), h(f, g).
func exampleUnits() []kunit.Unit {
	return []kunit.Unit{
		unit("f", "x", "y"),
		unit("g", "y", "z"),
		unit("h", "f", "g"),
	}
}

func ids(names ...string) []NodeID {
	out := make([]NodeID, len(names))
	for i, n := range names {
		out[i] = NodeID(n)
	}
	return out
}

// assertOrderRespectsEdges checks that every unit edge u -> v has u before v.
func assertOrderRespectsEdges(t testing.TB, g *Graph, order []NodeID) {
	t.Helper()
	pos := make(map[NodeID]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	for _, e := range g.Edges() {
		if !g.Nodes[e[0]].IsUnit() {
			continue
		}
		assert.True(t, pos[e[0]] < pos[e[1]], "%s must precede %s in %v", e[0], e[1], order)
	}
}
