package kunit

import (
	"errors"
	"fmt"
	"reflect"
	"unicode"
)

// Func is the uniform calling convention of a unit. args holds one value per
// declared parameter, in declaration order.
type Func func(args []any) (any, error)

// Param is a declared parameter of a unit.
type Param struct {
	Name string
	// Type is an optional type tag. nil means untagged.
	Type reflect.Type
}

// Unit is a named computation with declared parameters.
// A Unit must not be modified after it has been registered.
type Unit struct {
	Name   string
	Params []Param
	// Returns is an optional return type tag.
	Returns reflect.Type
	Fn      Func
	// Origin describes where the unit was declared. It only appears in
	// diagnostics.
	Origin string
}

// New creates an untagged unit from a raw Func.
func New(name string, fn Func, params ...string) Unit {
	ps := make([]Param, len(params))
	for i, p := range params {
		ps[i] = Param{Name: p}
	}
	return Unit{Name: name, Params: ps, Fn: fn}
}

// ParamNames returns the declared parameter names in order.
func (u Unit) ParamNames() []string {
	names := make([]string, len(u.Params))
	for i, p := range u.Params {
		names[i] = p.Name
	}
	return names
}

// WithOrigin returns a copy of u with the given origin.
func (u Unit) WithOrigin(origin string) Unit {
	u.Origin = origin
	return u
}

// Rename returns a copy of u under a new name whose parameters are renamed
// through mapper. Parameters absent from mapper keep their name. The
// returned unit still passes arguments to the original Func positionally,
// so no translation happens at call time.
func (u Unit) Rename(name string, mapper map[string]string) Unit {
	params := make([]Param, len(u.Params))
	for i, p := range u.Params {
		if renamed, ok := mapper[p.Name]; ok {
			p.Name = renamed
		}
		params[i] = p
	}
	u.Name = name
	u.Params = params
	return u
}

// Validate checks that the unit can be registered.
func (u Unit) Validate() error {
	if err := ValidateName(u.Name); err != nil {
		return err
	}
	if u.Fn == nil {
		return fmt.Errorf("%w: unit %q has no function", ErrInvalidUnit, u.Name)
	}
	seen := make(map[string]struct{}, len(u.Params))
	for _, p := range u.Params {
		if err := ValidateName(p.Name); err != nil {
			return fmt.Errorf("unit %q: %w", u.Name, err)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: unit %q declares parameter %q twice", ErrInvalidUnit, u.Name, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	return nil
}

// Call invokes the unit's Func after checking the argument count.
func (u Unit) Call(args []any) (any, error) {
	if len(args) != len(u.Params) {
		return nil, fmt.Errorf("%w: unit %q takes %d arguments but %d were given",
			ErrArgumentCount, u.Name, len(u.Params), len(args))
	}
	return u.Fn(args)
}

func (u Unit) origin() string {
	if u.Origin != "" {
		return u.Origin
	}
	return fmt.Sprintf("unit %q", u.Name)
}

// ValidateName reports whether name is an identifier-like token: a letter or
// underscore followed by letters, digits or underscores. The "__" delimiter
// and trailing underscore rules of qualified names are enforced only by
// ktree.Path.Validate, since the tree layer registers qualified names here.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidName)
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return fmt.Errorf("%w: %q is not an identifier", ErrInvalidName, name)
		}
	}
	return nil
}

// Sentinel errors for unit declaration and invocation.
var (
	ErrInvalidName   = errors.New("invalid name")
	ErrInvalidUnit   = errors.New("invalid unit")
	ErrDuplicateUnit = errors.New("duplicate unit")
	ErrArgumentCount = errors.New("wrong argument count")
	ErrArgumentType  = errors.New("wrong argument type")
)
