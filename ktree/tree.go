package ktree

// Tree is an ordered tree whose leaves hold values of type V. Entries keep
// insertion order and repeated segments, so clashes stay detectable until
// the tree is flattened.
//
// Tree is NOT safe for concurrent mutation.
type Tree[V any] struct {
	entries []entry[V]
}

type entry[V any] struct {
	segment string
	leaf    bool
	value   V
	sub     *Tree[V]
}

// Leaf is a flattened tree entry.
type Leaf[V any] struct {
	Path  Path
	Value V
}

// New creates an empty tree.
func New[V any]() *Tree[V] {
	return &Tree[V]{}
}

// Add appends a leaf and returns t.
func (t *Tree[V]) Add(segment string, v V) *Tree[V] {
	t.entries = append(t.entries, entry[V]{segment: segment, leaf: true, value: v})
	return t
}

// Group returns the subtree under segment, creating it on first use.
func (t *Tree[V]) Group(segment string) *Tree[V] {
	for _, e := range t.entries {
		if !e.leaf && e.segment == segment {
			return e.sub
		}
	}
	sub := New[V]()
	t.entries = append(t.entries, entry[V]{segment: segment, sub: sub})
	return sub
}

// Set adds a leaf at path, creating the groups along it, and returns t.
func (t *Tree[V]) Set(path Path, v V) *Tree[V] {
	if len(path) == 0 {
		return t
	}
	node := t
	for _, segment := range path.Namespace() {
		node = node.Group(segment)
	}
	node.Add(path.Leaf(), v)
	return t
}

// Flatten returns every leaf depth first in insertion order.
func (t *Tree[V]) Flatten() []Leaf[V] {
	var out []Leaf[V]
	t.walk(nil, func(p Path, v V) {
		out = append(out, Leaf[V]{Path: p, Value: v})
	})
	return out
}

// Paths returns the path of every leaf depth first in insertion order.
func (t *Tree[V]) Paths() []Path {
	var out []Path
	t.walk(nil, func(p Path, _ V) {
		out = append(out, p)
	})
	return out
}

// Len returns the number of leaves.
func (t *Tree[V]) Len() int {
	n := 0
	for _, e := range t.entries {
		if e.leaf {
			n++
		} else {
			n += e.sub.Len()
		}
	}
	return n
}

func (t *Tree[V]) walk(prefix Path, fn func(Path, V)) {
	for _, e := range t.entries {
		p := append(prefix.clone(), e.segment)
		if e.leaf {
			fn(p, e.value)
			continue
		}
		e.sub.walk(p, fn)
	}
}
