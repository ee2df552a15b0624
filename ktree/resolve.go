package ktree

import (
	"fmt"
	"slices"
	"strings"

	"github.com/birdayz/kdags"
	"github.com/birdayz/kdags/kunit"
	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
)

// Resolve returns the path a parameter of a unit in namespace refers to, and
// whether the reference is absolute.
//
// Without top-level segments (loose mode) a parameter containing the
// delimiter is absolute and any other parameter names an entry of the same
// group. With top-level segments (fixed mode) a parameter is absolute iff
// its first segment is one of them; otherwise it is relative to namespace.
func Resolve(param string, namespace Path, topLevel []string) (Path, bool) {
	r := &resolver{fixed: len(topLevel) > 0, top: toSet(topLevel)}
	return r.resolve(param, namespace)
}

// Flat turns a units tree into flat units named by qualified name whose
// parameters are rewritten to absolute qualified names. The result can be
// passed to kdags.Compose.
//
// All path problems are reported together before any graph work.
func Flat(units *Tree[kunit.Unit], opts ...Option) ([]kunit.Unit, error) {
	cfg := newConfig(opts)
	return flatten(units, &cfg)
}

type resolver struct {
	fixed bool
	top   map[string]struct{}
}

func newResolver(cfg *config, unitPaths, inputPaths []Path) *resolver {
	top := slices.Clone(cfg.topLevel)
	if cfg.derive {
		for _, p := range unitPaths {
			top = append(top, p[0])
		}
		for _, p := range inputPaths {
			top = append(top, p[0])
		}
	}
	return &resolver{fixed: len(top) > 0, top: toSet(top)}
}

func (r *resolver) mode() string {
	if r.fixed {
		return "fixed"
	}
	return "loose"
}

func (r *resolver) resolve(param string, namespace Path) (Path, bool) {
	ref := SplitQualifiedName(param)
	absolute := len(ref) > 1
	if r.fixed {
		_, absolute = r.top[ref[0]]
	}
	if absolute {
		return ref, true
	}
	return append(namespace.clone(), ref...), false
}

// validate checks a declared path against the resolution mode.
func (r *resolver) validate(kind string, p Path) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%s %s: %w", kind, p, err)
	}
	if !r.fixed && len(p) == 1 {
		return fmt.Errorf("%w: %s %q is declared at the root, which requires a top-level namespace",
			ErrInvalidPath, kind, p[0])
	}
	return r.checkRepeated(kind, p)
}

// checkRepeated rejects top-level segments below the root in fixed mode.
func (r *resolver) checkRepeated(kind string, p Path) error {
	if !r.fixed {
		return nil
	}
	for _, segment := range p[1:] {
		if _, ok := r.top[segment]; ok {
			return fmt.Errorf("%w: %s %s repeats %q, top-level namespace is %s",
				ErrRepeatedTopLevel, kind, p, segment, strings.Join(sortedKeys(r.top), ", "))
		}
	}
	return nil
}

func flatten(units *Tree[kunit.Unit], cfg *config) ([]kunit.Unit, error) {
	leaves := units.Flatten()
	unitPaths := units.Paths()
	inputPaths := FlattenPaths(cfg.inputs)
	r := newResolver(cfg, unitPaths, inputPaths)

	var err error
	for _, p := range unitPaths {
		err = multierr.Append(err, r.validate("unit", p))
	}
	for _, p := range inputPaths {
		err = multierr.Append(err, r.validate("input", p))
	}
	err = multierr.Append(err, checkLeafGroups(append(slices.Clone(unitPaths), inputPaths...)))
	if err != nil {
		return nil, err
	}

	if leaves, err = resolveClashes(cfg, leaves, inputPaths); err != nil {
		return nil, err
	}

	unitSet := make(map[string]struct{}, len(leaves))
	for _, leaf := range leaves {
		unitSet[leaf.Path.QualifiedName()] = struct{}{}
	}
	inputSet := make(map[string]struct{}, len(inputPaths))
	for _, p := range inputPaths {
		inputSet[p.QualifiedName()] = struct{}{}
	}

	out := make([]kunit.Unit, 0, len(leaves))
	for _, leaf := range leaves {
		namespace := leaf.Path.Namespace()
		mapper := make(map[string]string, len(leaf.Value.Params))
		for _, param := range leaf.Value.Params {
			target, absolute := r.resolve(param.Name, namespace)
			if perr := target.Validate(); perr != nil {
				err = multierr.Append(err, fmt.Errorf("unit %s parameter %q: %w", leaf.Path, param.Name, perr))
				continue
			}
			if perr := r.checkRepeated("reference", target); perr != nil {
				err = multierr.Append(err, fmt.Errorf("unit %s parameter %q: %w", leaf.Path, param.Name, perr))
				continue
			}
			qname := target.QualifiedName()
			if absolute && cfg.inputs != nil {
				_, isUnit := unitSet[qname]
				_, isInput := inputSet[qname]
				if !isUnit && !isInput {
					err = multierr.Append(err, fmt.Errorf("%w: unit %s parameter %q refers to %s, which is neither a unit nor a required input",
						kdags.ErrMissingUnit, leaf.Path, param.Name, qname))
					continue
				}
			}
			mapper[param.Name] = qname
		}
		qname := leaf.Path.QualifiedName()
		out = append(out, leaf.Value.Rename(qname, mapper).WithOrigin(qname))
	}
	if err != nil {
		return nil, err
	}

	cfg.log.Debug("Resolved units tree",
		"units", len(out),
		"mode", r.mode(),
		"top_level", sortedKeys(r.top),
	)
	return out, nil
}

// checkLeafGroups rejects a path that is both a leaf and a group.
func checkLeafGroups(paths []Path) error {
	leaves := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		leaves[p.QualifiedName()] = struct{}{}
	}
	var err error
	reported := make(map[string]struct{})
	for _, p := range paths {
		for i := 1; i < len(p); i++ {
			prefix := p[:i].QualifiedName()
			if _, isLeaf := leaves[prefix]; !isLeaf {
				continue
			}
			if _, done := reported[prefix]; done {
				continue
			}
			reported[prefix] = struct{}{}
			err = multierr.Append(err, fmt.Errorf("%w: %s is both a leaf and a group", ErrInvalidPath, p[:i]))
		}
	}
	return err
}

// resolveClashes applies the clash policy. Units declared more than once
// keep their last declaration. A name that shadows the same name in an
// enclosing group, such as "n1__a" and "a", is reported but both are kept.
func resolveClashes(cfg *config, leaves []Leaf[kunit.Unit], inputPaths []Path) ([]Leaf[kunit.Unit], error) {
	var err error
	report := func(clash error) {
		switch cfg.clash {
		case ClashRaise:
			err = multierr.Append(err, clash)
		case ClashWarn:
			cfg.log.Warn("Name clash", "error", clash)
		}
	}

	last := make(map[string]int, len(leaves))
	count := make(map[string]int, len(leaves))
	for i, leaf := range leaves {
		qname := leaf.Path.QualifiedName()
		last[qname] = i
		count[qname]++
	}
	for _, qname := range sortedKeys(count) {
		if count[qname] > 1 {
			report(fmt.Errorf("%w: %s is declared %d times", ErrNameClash, qname, count[qname]))
		}
	}

	kept := make([]Leaf[kunit.Unit], 0, len(last))
	byLeaf := make(map[string][]Path)
	for i, leaf := range leaves {
		if last[leaf.Path.QualifiedName()] != i {
			continue
		}
		kept = append(kept, leaf)
		byLeaf[leaf.Path.Leaf()] = append(byLeaf[leaf.Path.Leaf()], leaf.Path)
	}
	for _, p := range inputPaths {
		byLeaf[p.Leaf()] = append(byLeaf[p.Leaf()], p)
	}

	for _, name := range sortedKeys(byLeaf) {
		paths := byLeaf[name]
		for _, outer := range paths {
			for _, inner := range paths {
				if len(inner) > len(outer) && inner.Namespace().hasPrefix(outer.Namespace()) {
					report(fmt.Errorf("%w: %s shadows %s", ErrNameClash, inner.QualifiedName(), outer.QualifiedName()))
				}
			}
		}
	}

	if err != nil {
		return nil, err
	}
	return kept, nil
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		set[item] = struct{}{}
	}
	return set
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
