// Package kdags composes named units into a single callable.
//
// Units declare their inputs by name. A parameter named after another unit
// consumes that unit's result; any other parameter is a free input of the
// composed callable. Compose derives the execution order once and returns a
// reusable *Composed:
//
//	c, err := kdags.Compose([]kunit.Unit{
//	    kunit.Func2("f", func(x, y float64) float64 { return x*x + y*y }, "x", "y"),
//	    kunit.Func2("g", func(y, z float64) float64 { return 0.5 * y * z }, "y", "z"),
//	    kunit.Func2("h", func(f, g float64) float64 { return g / f }, "f", "g"),
//	}, []string{"h"})
//
//	v, err := c.Call(ctx, map[string]any{"x": 1.0, "y": 2.0, "z": 3.0}) // 0.6
//
// Several targets are returned as a map, Tuple or list (WithReturnShape) or
// folded into one value (WithAggregator). With signature enforcement, the
// default, a call must supply exactly the free inputs.
//
// Nested groups of units are composed by package ktree.
package kdags
