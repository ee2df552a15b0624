// Package kunit defines the named, pure computation units that kdags composes.
//
// # Overview
//
// A Unit is a plain metadata record: a name, an ordered list of parameter
// names with optional type tags, an optional return type tag and a Func
// implementing the computation. The engine never inspects a Func beyond this
// record, so wrapping, partial application or renaming is done by building a
// new record rather than by introspecting closures.
//
// Units are matched to each other purely by name: a parameter whose name is
// the name of another unit consumes that unit's result, every other parameter
// is a free input of the composition.
//
// # Typed Constructors
//
// Func0 to Func4 capture Go type information at registration time:
//
//	sq := kunit.Func2("f", func(x, y float64) float64 {
//	    return x*x + y*y
//	}, "x", "y")
//
// Arguments are checked against the captured types on every call and a
// mismatch is reported as ErrArgumentType.
//
// # Registry
//
// A Registry holds units in registration order and rejects duplicates,
// naming the origins of both claims. Registration order is the tie-break of
// the default execution ordering.
package kunit
