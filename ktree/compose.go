package ktree

import (
	"context"

	"github.com/birdayz/kdags"
	"github.com/birdayz/kdags/kdag"
	"github.com/birdayz/kdags/kunit"
)

// Composed is the callable built from a units tree. It accepts and returns
// nested maps mirroring the tree.
type Composed struct {
	flat *kdags.Composed
}

// Compose resolves the units tree and composes the flat units. targets are
// paths of units, see TargetPaths for nested target maps; no targets
// selects every unit.
func Compose(units *Tree[kunit.Unit], targets []Path, opts ...Option) (*Composed, error) {
	cfg := newConfig(opts)
	flat, err := compose(units, targets, &cfg)
	if err != nil {
		return nil, err
	}
	return &Composed{flat: flat}, nil
}

// MustCompose is like Compose but panics on error.
func MustCompose(units *Tree[kunit.Unit], targets []Path, opts ...Option) *Composed {
	c, err := Compose(units, targets, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

func compose(units *Tree[kunit.Unit], targets []Path, cfg *config, extra ...kdags.Option) (*kdags.Composed, error) {
	flatUnits, err := flatten(units, cfg)
	if err != nil {
		return nil, err
	}
	flatOpts := append([]kdags.Option{kdags.WithLog(cfg.log)}, cfg.flat...)
	flatOpts = append(flatOpts, extra...)
	return kdags.Compose(flatUnits, qualifiedNames(targets), flatOpts...)
}

// Call flattens inputs, runs the flat callable and returns the target values
// as a nested map.
func (c *Composed) Call(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	flatInputs, err := Flatten(inputs)
	if err != nil {
		return nil, err
	}
	out, err := c.flat.Results(ctx, flatInputs)
	if err != nil {
		return nil, err
	}
	return Unflatten(out)
}

// Inputs returns the paths of the free inputs.
func (c *Composed) Inputs() []Path {
	names := c.flat.Inputs()
	paths := make([]Path, len(names))
	for i, name := range names {
		paths[i] = SplitQualifiedName(name)
	}
	return paths
}

// Order returns the qualified names of the units in execution order.
func (c *Composed) Order() []string {
	return c.flat.Order()
}

// Flat returns the underlying flat callable.
func (c *Composed) Flat() *kdags.Composed {
	return c.flat
}

// BuildGraph returns the dependency graph of the resolved units tree over
// qualified names, pruned to targets when given.
func BuildGraph(units *Tree[kunit.Unit], targets []Path, opts ...Option) (*kdag.Graph, error) {
	cfg := newConfig(opts)
	flatUnits, err := flatten(units, &cfg)
	if err != nil {
		return nil, err
	}
	return kdags.BuildGraph(flatUnits, qualifiedNames(targets))
}

// InputStructure returns a nested template of the inputs the targets need.
// Each leaf holds the declared reflect.Type of the input, or nil when the
// consuming units do not agree on one.
func InputStructure(units *Tree[kunit.Unit], targets []Path, opts ...Option) (map[string]any, error) {
	cfg := newConfig(opts)
	flat, err := compose(units, targets, &cfg, kdags.WithSetSignature(true))
	if err != nil {
		return nil, err
	}
	sig, _ := flat.Signature()
	template := make(map[string]any, len(sig.Params))
	for _, p := range sig.Params {
		template[p.Name] = p.Type
	}
	return Unflatten(template)
}

func qualifiedNames(paths []Path) []string {
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = p.QualifiedName()
	}
	return names
}

