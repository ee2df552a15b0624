package kdag

import (
	"fmt"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/birdayz/kdags/kunit"
)

// chainUnits creates n units where each consumes its predecessor.
func chainUnits(n int) []kunit.Unit {
	units := make([]kunit.Unit, 0, n)
	units = append(units, unit("u0", "input"))
	for i := 1; i < n; i++ {
		units = append(units, unit(fmt.Sprintf("u%d", i), fmt.Sprintf("u%d", i-1)))
	}
	return units
}

// BenchmarkBuildSmallDAG benchmarks building a small DAG (10 units)
func BenchmarkBuildSmallDAG(b *testing.B) {
	reg := newTestRegistry(b, chainUnits(10)...)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Build(reg)
		assert.NoError(b, err)
	}
}

// BenchmarkBuildLargeDAG benchmarks building a large DAG (500 units)
func BenchmarkBuildLargeDAG(b *testing.B) {
	reg := newTestRegistry(b, chainUnits(500)...)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Build(reg)
		assert.NoError(b, err)
	}
}

// BenchmarkValidateLargeDAG benchmarks cycle detection on 500 units
func BenchmarkValidateLargeDAG(b *testing.B) {
	g := buildTestGraph(b, chainUnits(500)...)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		assert.NoError(b, g.Validate())
	}
}

func BenchmarkTopologicalSort(b *testing.B) {
	g := buildTestGraph(b, layeredUnits(10, 10)...)
	for _, ordering := range []Ordering{InsertionOrder, LexicographicOrder} {
		b.Run(ordering.String(), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_, err := g.TopologicalSort(ordering)
				assert.NoError(b, err)
			}
		})
	}
}

func BenchmarkNewPlan(b *testing.B) {
	reg := newTestRegistry(b, layeredUnits(10, 10)...)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := NewPlan(reg, []string{"l9_u0"}, InsertionOrder)
		assert.NoError(b, err)
	}
}

func BenchmarkNodeIDValidation(b *testing.B) {
	id := NodeID("some_unit_name")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = id.Validate()
	}
}
