package kdags

import (
	"fmt"
	"reflect"

	"golang.org/x/exp/constraints"
)

// ReturnShape selects how the values of multiple targets are returned.
type ReturnShape int

const (
	// ReturnMapping returns a map[string]any keyed by target name.
	ReturnMapping ReturnShape = iota
	// ReturnTuple returns a Tuple in target order.
	ReturnTuple
	// ReturnList returns a []any in target order.
	ReturnList
)

func (s ReturnShape) String() string {
	switch s {
	case ReturnMapping:
		return "mapping"
	case ReturnTuple:
		return "tuple"
	case ReturnList:
		return "list"
	default:
		return "unknown"
	}
}

// Tuple is an ordered, fixed-size group of target values.
type Tuple []any

// Aggregator folds two target values into one.
type Aggregator func(acc, next any) (any, error)

// AggregateWith lifts a typed binary function into an Aggregator. A value of
// another type fails with ErrAggregation.
func AggregateWith[T any](fn func(a, b T) T) Aggregator {
	return func(acc, next any) (any, error) {
		a, ok := acc.(T)
		if !ok {
			return nil, fmt.Errorf("%w: want %s, got %T", ErrAggregation, typeName[T](), acc)
		}
		b, ok := next.(T)
		if !ok {
			return nil, fmt.Errorf("%w: want %s, got %T", ErrAggregation, typeName[T](), next)
		}
		return fn(a, b), nil
	}
}

// All is the logical AND of boolean targets.
func All() Aggregator {
	return AggregateWith(func(a, b bool) bool { return a && b })
}

// Any is the logical OR of boolean targets.
func Any() Aggregator {
	return AggregateWith(func(a, b bool) bool { return a || b })
}

// Sum adds numeric targets of type T.
func Sum[T constraints.Integer | constraints.Float]() Aggregator {
	return AggregateWith(func(a, b T) T { return a + b })
}

// fold reduces values left to right. A single value is returned unchanged.
func fold(agg Aggregator, values []any) (any, error) {
	acc := values[0]
	for _, v := range values[1:] {
		var err error
		if acc, err = agg(acc, v); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// coerce converts v to t when possible.
func coerce(v any, t reflect.Type) (any, error) {
	if v == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return reflect.Zero(t).Interface(), nil
		}
		return nil, fmt.Errorf("%w: cannot convert nil to %s", ErrAggregation, t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type() == t {
		return v, nil
	}
	if !rv.Type().ConvertibleTo(t) {
		return nil, fmt.Errorf("%w: cannot convert %T to %s", ErrAggregation, v, t)
	}
	return rv.Convert(t).Interface(), nil
}

// assemble shapes the target values in target order.
func assemble(shape ReturnShape, targets []string, values []any) any {
	switch shape {
	case ReturnTuple:
		return Tuple(values)
	case ReturnList:
		return values
	default:
		out := make(map[string]any, len(targets))
		for i, t := range targets {
			out[t] = values[i]
		}
		return out
	}
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
