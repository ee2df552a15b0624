package kunit

import (
	"fmt"
	"reflect"

	"go.uber.org/multierr"
)

// Func0 creates a unit without parameters.
func Func0[R any](name string, fn func() R) Unit {
	return Unit{
		Name:    name,
		Returns: typeOf[R](),
		Fn: func(args []any) (any, error) {
			return fn(), nil
		},
	}
}

// Func1 creates a unit with one typed parameter.
func Func1[A, R any](name string, fn func(A) R, a string) Unit {
	return Unit{
		Name:    name,
		Params:  []Param{param[A](a)},
		Returns: typeOf[R](),
		Fn: func(args []any) (any, error) {
			va, err := arg[A](name, a, args[0])
			if err != nil {
				return nil, err
			}
			return fn(va), nil
		},
	}
}

// Func2 creates a unit with two typed parameters.
func Func2[A, B, R any](name string, fn func(A, B) R, a, b string) Unit {
	return Unit{
		Name:    name,
		Params:  []Param{param[A](a), param[B](b)},
		Returns: typeOf[R](),
		Fn: func(args []any) (any, error) {
			va, errA := arg[A](name, a, args[0])
			vb, errB := arg[B](name, b, args[1])
			if err := multierr.Combine(errA, errB); err != nil {
				return nil, err
			}
			return fn(va, vb), nil
		},
	}
}

// Func3 creates a unit with three typed parameters.
func Func3[A, B, C, R any](name string, fn func(A, B, C) R, a, b, c string) Unit {
	return Unit{
		Name:    name,
		Params:  []Param{param[A](a), param[B](b), param[C](c)},
		Returns: typeOf[R](),
		Fn: func(args []any) (any, error) {
			va, errA := arg[A](name, a, args[0])
			vb, errB := arg[B](name, b, args[1])
			vc, errC := arg[C](name, c, args[2])
			if err := multierr.Combine(errA, errB, errC); err != nil {
				return nil, err
			}
			return fn(va, vb, vc), nil
		},
	}
}

// Func4 creates a unit with four typed parameters.
func Func4[A, B, C, D, R any](name string, fn func(A, B, C, D) R, a, b, c, d string) Unit {
	return Unit{
		Name:    name,
		Params:  []Param{param[A](a), param[B](b), param[C](c), param[D](d)},
		Returns: typeOf[R](),
		Fn: func(args []any) (any, error) {
			va, errA := arg[A](name, a, args[0])
			vb, errB := arg[B](name, b, args[1])
			vc, errC := arg[C](name, c, args[2])
			vd, errD := arg[D](name, d, args[3])
			if err := multierr.Combine(errA, errB, errC, errD); err != nil {
				return nil, err
			}
			return fn(va, vb, vc, vd), nil
		},
	}
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

func param[T any](name string) Param {
	return Param{Name: name, Type: typeOf[T]()}
}

// arg converts a bound value to the declared parameter type. A nil value is
// accepted for types that have nil as their zero value.
func arg[T any](unit, name string, v any) (T, error) {
	var zero T
	if typed, ok := v.(T); ok {
		return typed, nil
	}
	if v == nil {
		switch typeOf[T]().Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return zero, nil
		}
	}
	return zero, fmt.Errorf("%w: unit %q parameter %q wants %s, got %T",
		ErrArgumentType, unit, name, typeOf[T](), v)
}
