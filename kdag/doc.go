// Package kdag builds, validates, sorts and prunes the dependency graph of a
// set of units.
//
// # Overview
//
// kdag separates graph construction from execution through a two-phase
// architecture:
//
// 1. **Build Phase**: Turn a kunit.Registry into a Graph by matching parameter names to unit names
// 2. **Plan Phase**: Prune, validate and sort the Graph into an immutable Plan
//
// The kdags package executes Plans; kdag never calls a unit.
//
// # Graph
//
// The node set is every unit name plus every parameter name that matches no
// unit ("free inputs"). An edge provider -> consumer exists iff consumer
// declares a parameter named provider:
//
//	reg, _ := kunit.NewRegistry(
//	    kunit.Func2("f", func(x, y float64) float64 { return x*x + y*y }, "x", "y"),
//	    kunit.Func2("g", func(y, z float64) float64 { return 0.5 * y * z }, "y", "z"),
//	    kunit.Func2("h", func(f, g float64) float64 { return g / f }, "f", "g"),
//	)
//	g, _ := kdag.Build(reg)      // units f, g, h; inputs x, y, z; edges f->h, g->h
//
// # Validation
//
// Validate detects cycles with a DFS over the active recursion path and
// reports the full cycle as a *CycleError ("a -> b -> a"). All validation
// errors use sentinel errors (ErrCycleDetected, ErrMissingUnit, etc.) that
// can be checked with errors.Is().
//
// # Ordering
//
// TopologicalSort uses Kahn's algorithm. Among units that are ready at the
// same time, InsertionOrder picks registration order and LexicographicOrder
// picks the alphabetically smallest name. Both are deterministic; the
// lexicographic mode makes the order independent of registration order.
//
// # Pruning
//
// Ancestors and Prune restrict a graph to what is needed for a set of
// targets:
//
//	plan, _ := kdag.NewPlan(reg, []string{"h"}, kdag.InsertionOrder)
//	plan.Order()  // [f g h]
//	plan.Inputs() // [x y z]
//
// # Thread Safety
//
// IMPORTANT: Graph is NOT safe for concurrent mutation. A Plan is immutable
// and safe to use concurrently.
package kdag
