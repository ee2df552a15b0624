package kdags

import (
	"reflect"
	"strings"

	"github.com/birdayz/kdags/kdag"
	"github.com/birdayz/kdags/kunit"
)

// Signature describes the composed callable for introspection. It has no
// effect on execution.
type Signature struct {
	// Params are the free inputs in call order. A Param carries a Type only
	// when every consuming unit declares the same type for it.
	Params []kunit.Param
	// Returns is the type of the value Call returns. For a single target or
	// an aggregator it is nil when the target types are unknown or
	// inconsistent. Element types of the mapping, tuple and list shapes are
	// in ReturnsEach.
	Returns reflect.Type
	// ReturnsEach holds the declared return type of every target in target
	// order. Entries are nil for untagged targets.
	ReturnsEach []reflect.Type
}

// ParamNames returns the free input names in call order.
func (s Signature) ParamNames() []string {
	names := make([]string, len(s.Params))
	for i, p := range s.Params {
		names[i] = p.Name
	}
	return names
}

// String renders the signature as "(x float64, y) float64".
func (s Signature) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range s.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		if p.Type != nil {
			b.WriteByte(' ')
			b.WriteString(p.Type.String())
		}
	}
	b.WriteByte(')')
	if s.Returns != nil {
		b.WriteByte(' ')
		b.WriteString(s.Returns.String())
	}
	return b.String()
}

var (
	tupleType   = reflect.TypeOf(Tuple(nil))
	listType    = reflect.TypeOf([]any(nil))
	mappingType = reflect.TypeOf(map[string]any(nil))
)

func inferSignature(plan *kdag.Plan, cfg *config, single bool) Signature {
	g := plan.GetGraph()

	inputs := plan.Inputs()
	params := make([]kunit.Param, len(inputs))
	for i, name := range inputs {
		params[i] = kunit.Param{Name: name, Type: inputType(g, kdag.NodeID(name))}
	}

	targets := plan.Targets()
	each := make([]reflect.Type, len(targets))
	for i, t := range targets {
		node, _ := g.Node(kdag.NodeID(t))
		each[i] = node.Unit.Returns
	}

	return Signature{
		Params:      params,
		Returns:     returnType(cfg, single, each),
		ReturnsEach: each,
	}
}

// inputType is the type all consumers agree on, or nil.
func inputType(g *kdag.Graph, id kdag.NodeID) reflect.Type {
	node, _ := g.Node(id)
	var types []reflect.Type
	for _, consumer := range node.Children {
		for _, p := range g.Nodes[consumer].Unit.Params {
			if p.Name == string(id) {
				types = append(types, p.Type)
			}
		}
	}
	return common(types)
}

func returnType(cfg *config, single bool, each []reflect.Type) reflect.Type {
	if cfg.aggregator != nil {
		if cfg.aggregatorType != nil {
			return cfg.aggregatorType
		}
		return common(each)
	}
	if single {
		return each[0]
	}
	switch cfg.shape {
	case ReturnTuple:
		return tupleType
	case ReturnList:
		return listType
	default:
		return mappingType
	}
}

// common returns the single non-nil type shared by all entries, or nil.
func common(types []reflect.Type) reflect.Type {
	if len(types) == 0 || types[0] == nil {
		return nil
	}
	for _, t := range types[1:] {
		if t != types[0] {
			return nil
		}
	}
	return types[0]
}
