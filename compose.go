package kdags

import (
	"context"
	"log/slog"
	"reflect"
	"slices"

	"github.com/birdayz/kdags/kdag"
	"github.com/birdayz/kdags/kunit"
)

// Composed is the single callable built from a set of units. It captures an
// immutable execution plan and is safe for concurrent use; every invocation
// works on its own value store.
type Composed struct {
	plan     *kdag.Plan
	targets  []string
	inputs   []string
	declared map[string]struct{}
	single   bool

	shape          ReturnShape
	aggregator     Aggregator
	aggregatorType reflect.Type
	enforce        bool

	signature    Signature
	hasSignature bool

	log *slog.Logger
}

// Compose builds the callable that computes targets from units.
//
// The graph of units is pruned to the targets and their ancestors, checked
// for cycles and sorted once. An empty target list selects every unit. All
// structural errors (duplicate units, missing targets, cycles) are returned
// here, never at call time.
func Compose(units []kunit.Unit, targets []string, opts ...Option) (*Composed, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	reg, err := kunit.NewRegistry(units...)
	if err != nil {
		return nil, err
	}
	plan, err := kdag.NewPlan(reg, targets, cfg.ordering)
	if err != nil {
		return nil, err
	}

	inputs := plan.Inputs()
	declared := make(map[string]struct{}, len(inputs))
	for _, name := range inputs {
		declared[name] = struct{}{}
	}

	c := &Composed{
		plan:           plan,
		targets:        plan.Targets(),
		inputs:         inputs,
		declared:       declared,
		single:         cfg.aggregator == nil && len(plan.Targets()) == 1,
		shape:          cfg.shape,
		aggregator:     cfg.aggregator,
		aggregatorType: cfg.aggregatorType,
		enforce:        cfg.enforce,
		log:            cfg.log,
	}
	if cfg.setSignature {
		c.signature = inferSignature(plan, &cfg, c.single)
		c.hasSignature = true
	}

	c.log.Debug("Composed units",
		"targets", c.targets,
		"order", plan.Order(),
		"inputs", inputs,
		"ordering", cfg.ordering.String(),
	)
	return c, nil
}

// MustCompose is like Compose but panics on error.
func MustCompose(units []kunit.Unit, targets []string, opts ...Option) *Composed {
	c, err := Compose(units, targets, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// BuildGraph returns the dependency graph of units, pruned to the targets and
// their ancestors when targets is not empty. A cyclic graph is an error.
func BuildGraph(units []kunit.Unit, targets []string) (*kdag.Graph, error) {
	reg, err := kunit.NewRegistry(units...)
	if err != nil {
		return nil, err
	}
	g, err := kdag.Build(reg)
	if err != nil {
		return nil, err
	}
	if len(targets) > 0 {
		if g, err = g.Prune(toIDs(targets)); err != nil {
			return nil, err
		}
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// Ancestors returns the names of all nodes the targets depend on, free
// inputs included, in registration order.
func Ancestors(units []kunit.Unit, targets []string, includeTargets bool) ([]string, error) {
	reg, err := kunit.NewRegistry(units...)
	if err != nil {
		return nil, err
	}
	g, err := kdag.Build(reg)
	if err != nil {
		return nil, err
	}
	ids, err := g.Ancestors(toIDs(targets), includeTargets)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out, nil
}

// Call executes the plan with the given free inputs.
//
// A single target without aggregator yields its raw value. Several targets
// yield a map[string]any, Tuple or []any according to the return shape, or
// the folded value when an aggregator is set.
func (c *Composed) Call(ctx context.Context, inputs map[string]any) (any, error) {
	values, err := c.execute(ctx, inputs)
	if err != nil {
		return nil, err
	}

	switch {
	case c.aggregator != nil:
		out, err := fold(c.aggregator, values)
		if err != nil {
			return nil, err
		}
		if c.aggregatorType != nil {
			return coerce(out, c.aggregatorType)
		}
		return out, nil
	case c.single:
		return values[0], nil
	default:
		return assemble(c.shape, c.targets, values), nil
	}
}

// CallPositional binds args to the free inputs in call order and executes
// the plan.
func (c *Composed) CallPositional(ctx context.Context, args ...any) (any, error) {
	inputs, err := c.Bind(args, nil)
	if err != nil {
		return nil, err
	}
	return c.Call(ctx, inputs)
}

// Results executes the plan and returns every target value by name,
// regardless of return shape and aggregator.
func (c *Composed) Results(ctx context.Context, inputs map[string]any) (map[string]any, error) {
	values, err := c.execute(ctx, inputs)
	if err != nil {
		return nil, err
	}
	return assemble(ReturnMapping, c.targets, values).(map[string]any), nil
}

// Bind merges positional and named arguments into one input mapping. args
// are matched to the free inputs in call order.
func (c *Composed) Bind(args []any, kwargs map[string]any) (map[string]any, error) {
	argErr := &ArgumentError{Declared: len(c.inputs)}
	if len(args) > len(c.inputs) {
		argErr.Positional = len(args)
		return nil, argErr
	}

	inputs := make(map[string]any, len(args)+len(kwargs))
	for i, v := range args {
		inputs[c.inputs[i]] = v
	}
	for _, name := range sortedKeys(kwargs) {
		if _, dup := inputs[name]; dup {
			argErr.Duplicated = append(argErr.Duplicated, name)
			continue
		}
		inputs[name] = kwargs[name]
	}
	if !argErr.empty() {
		return nil, argErr
	}
	return inputs, nil
}

// Signature returns the introspection signature. ok is false unless the
// callable was composed WithSetSignature(true).
func (c *Composed) Signature() (sig Signature, ok bool) {
	return c.signature, c.hasSignature
}

// Order returns the unit execution order.
func (c *Composed) Order() []string {
	return c.plan.Order()
}

// Inputs returns the free inputs in call order (alphabetical).
func (c *Composed) Inputs() []string {
	return slices.Clone(c.inputs)
}

// Targets returns the target names in output order.
func (c *Composed) Targets() []string {
	return slices.Clone(c.targets)
}

// Plan returns the execution plan.
func (c *Composed) Plan() *kdag.Plan {
	return c.plan
}

// checkArguments requires the supplied names to match the declared inputs
// exactly.
func (c *Composed) checkArguments(inputs map[string]any) error {
	argErr := &ArgumentError{Declared: len(c.inputs)}
	for _, name := range c.inputs {
		if _, ok := inputs[name]; !ok {
			argErr.Missing = append(argErr.Missing, name)
		}
	}
	for _, name := range sortedKeys(inputs) {
		if _, ok := c.declared[name]; !ok {
			argErr.Unexpected = append(argErr.Unexpected, name)
		}
	}
	if !argErr.empty() {
		return argErr
	}
	return nil
}

// execute runs every step in order and returns the target values in target
// order.
func (c *Composed) execute(ctx context.Context, inputs map[string]any) ([]any, error) {
	if c.enforce {
		if err := c.checkArguments(inputs); err != nil {
			return nil, err
		}
	}

	steps := c.plan.Steps()
	store := make(map[string]any, len(c.inputs)+len(steps))
	for _, name := range c.inputs {
		if v, ok := inputs[name]; ok {
			store[name] = v
		}
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		args := make([]any, len(step.Params))
		for i, p := range step.Params {
			v, ok := store[p]
			if !ok {
				return nil, &ArgumentError{Missing: []string{p}, Declared: len(c.inputs)}
			}
			args[i] = v
		}
		out, err := step.Unit.Call(args)
		if err != nil {
			return nil, &UnitError{Unit: step.Unit.Name, Err: err}
		}
		store[step.Unit.Name] = out
	}

	values := make([]any, len(c.targets))
	for i, t := range c.targets {
		values[i] = store[t]
	}
	return values, nil
}

func toIDs(names []string) []kdag.NodeID {
	ids := make([]kdag.NodeID, len(names))
	for i, n := range names {
		ids[i] = kdag.NodeID(n)
	}
	return ids
}
