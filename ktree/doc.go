// Package ktree composes units organized in nested groups.
//
// A unit's qualified name is the path from the root of the tree joined by
// Delimiter ("__"). Parameters may refer to units and inputs by a short
// name relative to the unit's group or by an absolute qualified name:
//
//	units := ktree.New[kunit.Unit]()
//	units.Group("linear").Add("f", kunit.Func1("f", func(x float64) float64 { return 0.5 * x }, "x"))
//	parabolic := units.Group("parabolic")
//	parabolic.Add("f", kunit.Func1("f", func(x float64) float64 { return x * x }, "x"))
//	parabolic.Add("h", kunit.Func2("h", func(f, lf float64) float64 { return (f + lf) * (f + lf) }, "f", "linear__f"))
//
//	c, _ := ktree.Compose(units, ktree.TargetPaths(map[string]any{"parabolic": map[string]any{"h": nil}}))
//	out, _ := c.Call(ctx, map[string]any{
//	    "linear":    map[string]any{"x": 1.0},
//	    "parabolic": map[string]any{"x": 2.0},
//	}) // {"parabolic": {"h": 20.25}}
//
// # Resolution modes
//
// In loose mode, the default, a parameter containing the delimiter is
// absolute and any other parameter is relative. Units and inputs cannot live
// at the root. WithTopLevel or WithDerivedTopLevel enable fixed mode: a
// parameter is absolute iff its first segment is a top-level segment, and
// top-level segments may not reappear deeper in any path.
//
// All path and clash problems are reported together when composing, before
// any unit runs.
package ktree
