package ktree

import (
	"cmp"
	"fmt"
	"slices"

	"go.uber.org/multierr"
	"golang.org/x/exp/maps"
)

// Flatten turns a nested map into a map keyed by qualified name. Every value
// that is not a map[string]any is a leaf; empty groups are dropped. Keys that
// do not form valid paths are reported together.
func Flatten(nested map[string]any) (map[string]any, error) {
	flat := make(map[string]any)
	var err error
	walkNested(nil, nested, func(p Path, v any) {
		if verr := p.Validate(); verr != nil {
			err = multierr.Append(err, verr)
			return
		}
		flat[p.QualifiedName()] = v
	})
	if err != nil {
		return nil, err
	}
	return flat, nil
}

// FlattenPaths returns the leaf paths of a nested map ordered by qualified
// name.
func FlattenPaths(nested map[string]any) []Path {
	var paths []Path
	walkNested(nil, nested, func(p Path, _ any) {
		paths = append(paths, p)
	})
	slices.SortFunc(paths, func(a, b Path) int {
		return cmp.Compare(a.QualifiedName(), b.QualifiedName())
	})
	return paths
}

// TargetPaths returns the leaf paths of a nested target map such
// as {"parabolic": {"h": nil}}. Leaf values are ignored.
func TargetPaths(nested map[string]any) []Path {
	return FlattenPaths(nested)
}

// Unflatten turns a map keyed by qualified name back into a nested map.
// A name that is both a leaf and a group, such as "a" and "a__b", is an
// error.
func Unflatten(flat map[string]any) (map[string]any, error) {
	nested := make(map[string]any)
	keys := maps.Keys(flat)
	slices.Sort(keys)

	var err error
	for _, qname := range keys {
		if perr := setNested(nested, SplitQualifiedName(qname), flat[qname]); perr != nil {
			err = multierr.Append(err, perr)
		}
	}
	if err != nil {
		return nil, err
	}
	return nested, nil
}

func setNested(nested map[string]any, p Path, v any) error {
	node := nested
	for i, segment := range p.Namespace() {
		next, exists := node[segment]
		if !exists {
			sub := make(map[string]any)
			node[segment] = sub
			node = sub
			continue
		}
		sub, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("%w: %s is both a leaf and a group", ErrInvalidPath, p[:i+1])
		}
		node = sub
	}
	if existing, exists := node[p.Leaf()]; exists {
		if _, isGroup := existing.(map[string]any); isGroup {
			return fmt.Errorf("%w: %s is both a leaf and a group", ErrInvalidPath, p)
		}
	}
	node[p.Leaf()] = v
	return nil
}

func walkNested(prefix Path, nested map[string]any, fn func(Path, any)) {
	keys := maps.Keys(nested)
	slices.Sort(keys)
	for _, key := range keys {
		p := append(prefix.clone(), key)
		if sub, ok := nested[key].(map[string]any); ok {
			walkNested(p, sub, fn)
			continue
		}
		fn(p, nested[key])
	}
}
