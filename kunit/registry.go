package kunit

import "fmt"

// Registry maps unit names to units and remembers registration order.
//
// Registry is NOT safe for concurrent use.
type Registry struct {
	units map[string]Unit
	order []string
}

// NewRegistry creates a registry holding the given units in order.
func NewRegistry(units ...Unit) (*Registry, error) {
	r := &Registry{
		units: make(map[string]Unit, len(units)),
		order: make([]string, 0, len(units)),
	}
	for _, u := range units {
		if err := r.Add(u); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Add validates and registers a unit.
// Returns ErrDuplicateUnit if another unit already claims the name.
func (r *Registry) Add(u Unit) error {
	if err := u.Validate(); err != nil {
		return err
	}
	if u.Origin == "" {
		u.Origin = fmt.Sprintf("unit #%d", len(r.order))
	}
	if existing, exists := r.units[u.Name]; exists {
		return fmt.Errorf("%w: %q is declared by %s and %s",
			ErrDuplicateUnit, u.Name, existing.origin(), u.origin())
	}
	r.units[u.Name] = u
	r.order = append(r.order, u.Name)
	return nil
}

// MustAdd is like Add but panics on error.
func (r *Registry) MustAdd(u Unit) {
	if err := r.Add(u); err != nil {
		panic(err)
	}
}

// Get returns the unit registered under name.
func (r *Registry) Get(name string) (Unit, bool) {
	u, ok := r.units[name]
	return u, ok
}

// Has reports whether a unit is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.units[name]
	return ok
}

// Names returns unit names in registration order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}

// Units returns the units in registration order.
func (r *Registry) Units() []Unit {
	units := make([]Unit, len(r.order))
	for i, name := range r.order {
		units[i] = r.units[name]
	}
	return units
}

// Len returns the number of registered units.
func (r *Registry) Len() int {
	return len(r.order)
}
