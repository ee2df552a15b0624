package kdag

import (
	"fmt"
	"slices"

	"github.com/birdayz/kdags/kunit"
	"golang.org/x/exp/maps"
)

// Step is one unit execution of a Plan.
type Step struct {
	Unit kunit.Unit
	// Params are the parameter names bound for the call, in declaration order.
	Params []string
}

// Plan is a validated, pruned and sorted execution plan.
// A Plan is immutable and safe to use concurrently.
type Plan struct {
	graph   *Graph
	targets []NodeID
	order   []NodeID
	steps   []Step
	inputs  []NodeID
}

// NewPlan builds the graph of reg, prunes it to the targets and their
// ancestors, validates it and sorts it. An empty target list selects every
// unit of the registry.
func NewPlan(reg *kunit.Registry, targets []string, ordering Ordering) (*Plan, error) {
	g, err := Build(reg)
	if err != nil {
		return nil, err
	}

	ids := make([]NodeID, len(targets))
	for i, t := range targets {
		ids[i] = NodeID(t)
	}
	if len(ids) == 0 {
		ids = g.Units()
	}

	pruned, err := g.Prune(ids)
	if err != nil {
		return nil, err
	}
	if err := pruned.Validate(); err != nil {
		return nil, err
	}
	order, err := pruned.TopologicalSort(ordering)
	if err != nil {
		return nil, err
	}

	steps := make([]Step, len(order))
	for i, id := range order {
		u := *pruned.Nodes[id].Unit
		steps[i] = Step{Unit: u, Params: u.ParamNames()}
	}

	return &Plan{
		graph:   pruned,
		targets: ids,
		order:   order,
		steps:   steps,
		inputs:  sortedIDs(pruned.FreeInputs()),
	}, nil
}

// MustNewPlan is like NewPlan but panics on error.
func MustNewPlan(reg *kunit.Registry, targets []string, ordering Ordering) *Plan {
	p, err := NewPlan(reg, targets, ordering)
	if err != nil {
		panic(err)
	}
	return p
}

// GetGraph returns the pruned graph for read-only access.
func (p *Plan) GetGraph() *Graph {
	return p.graph
}

// Targets returns the target unit names in request order.
func (p *Plan) Targets() []string {
	return toStrings(p.targets)
}

// Order returns the unit execution order.
func (p *Plan) Order() []string {
	return toStrings(p.order)
}

// Inputs returns the free inputs of the pruned graph, sorted alphabetically.
func (p *Plan) Inputs() []string {
	return toStrings(p.inputs)
}

// Steps returns the execution steps in order. The slice must not be modified.
func (p *Plan) Steps() []Step {
	return p.steps
}

// String describes the plan for debugging.
func (p *Plan) String() string {
	return fmt.Sprintf("plan(targets=%v, order=%v, inputs=%v)", p.targets, p.order, p.inputs)
}

func sortedIDs(ids []NodeID) []NodeID {
	set := make(map[NodeID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	out := maps.Keys(set)
	slices.Sort(out)
	return out
}

func toStrings(ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}
