package node

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Kind identifies a node type.
type Kind int

const (
	// KindLeaf is a terminal value.
	KindLeaf Kind = iota
	// KindMap is a keyed container.
	KindMap
	// KindArray is an indexed container.
	KindArray
)

// String returns the lower-case kind name.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindMap:
		return "map"
	case KindArray:
		return "array"
	default:
		return "unknown"
	}
}

// Node is one of Leaf, Map or Array.
type Node interface {
	Kind() Kind
	String() string
	node()
}

// KindOf returns the kind name of n, or "nothing" for nil.
func KindOf(n Node) string {
	if n == nil {
		return "nothing"
	}

	return n.Kind().String()
}

// Leaf is a terminal node. A leaf without a value is an explicit null,
// distinct from the empty string.
type Leaf struct {
	value   string
	present bool
}

// NewLeaf returns a leaf holding value.
func NewLeaf(value string) Leaf {
	return Leaf{value: value, present: true}
}

// NullLeaf returns a leaf without a value.
func NullLeaf() Leaf {
	return Leaf{}
}

// Value returns the leaf value and whether it is present.
func (l Leaf) Value() (string, bool) {
	return l.value, l.present
}

// Kind returns KindLeaf.
func (Leaf) Kind() Kind { return KindLeaf }

func (Leaf) node() {}

func (l Leaf) String() string {
	if !l.present {
		return "Leaf{null}"
	}

	return "Leaf{" + l.value + "}"
}

// Map is a container keyed by normalized names.
type Map struct {
	children map[string]Node
}

// NewMap returns a map over a copy of children. Nil children are dropped.
func NewMap(children map[string]Node) Map {
	copied := make(map[string]Node, len(children))

	for key, child := range children {
		if child != nil {
			copied[key] = child
		}
	}

	return Map{children: copied}
}

// Get returns the child at key.
func (m Map) Get(key string) (Node, bool) {
	child, ok := m.children[key]

	return child, ok
}

// Keys returns the keys in sorted order.
func (m Map) Keys() []string {
	return slices.Sorted(maps.Keys(m.children))
}

// Len returns the number of children.
func (m Map) Len() int {
	return len(m.children)
}

// Children returns a copy of the children.
func (m Map) Children() map[string]Node {
	return maps.Clone(m.children)
}

// Kind returns KindMap.
func (Map) Kind() Kind { return KindMap }

func (Map) node() {}

func (m Map) String() string {
	parts := make([]string, 0, len(m.children))

	for _, key := range m.Keys() {
		parts = append(parts, key+"="+m.children[key].String())
	}

	return "Map{" + strings.Join(parts, ", ") + "}"
}

// Array is an indexed container. Positions no source populated are absent.
type Array struct {
	children []Node
}

// NewArray returns an array over a copy of children. Nil entries are absent positions.
func NewArray(children []Node) Array {
	return Array{children: slices.Clone(children)}
}

// At returns the child at index and whether the position is populated.
func (a Array) At(index int) (Node, bool) {
	if index < 0 || index >= len(a.children) || a.children[index] == nil {
		return nil, false
	}

	return a.children[index], true
}

// Len returns the number of positions, populated or not.
func (a Array) Len() int {
	return len(a.children)
}

// Children returns a copy of the positions. Absent positions are nil.
func (a Array) Children() []Node {
	return slices.Clone(a.children)
}

// Missing returns the absent positions in ascending order.
func (a Array) Missing() []int {
	var missing []int

	for i, child := range a.children {
		if child == nil {
			missing = append(missing, i)
		}
	}

	return missing
}

// Kind returns KindArray.
func (Array) Kind() Kind { return KindArray }

func (Array) node() {}

func (a Array) String() string {
	parts := make([]string, len(a.children))

	for i, child := range a.children {
		if child == nil {
			parts[i] = "<absent>"

			continue
		}

		parts[i] = child.String()
	}

	return "Array[" + strings.Join(parts, ", ") + "]"
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	switch left := a.(type) {
	case Leaf:
		right, ok := b.(Leaf)

		return ok && left == right
	case Map:
		right, ok := b.(Map)

		return ok && maps.EqualFunc(left.children, right.children, Equal)
	case Array:
		right, ok := b.(Array)

		return ok && slices.EqualFunc(left.children, right.children, Equal)
	default:
		panic(fmt.Sprintf("node: unexpected node type %T", a))
	}
}

// ToValue converts n into plain Go values: a string or nil for leaves,
// map[string]any for maps and []any for arrays.
func ToValue(n Node) any {
	switch typed := n.(type) {
	case nil:
		return nil
	case Leaf:
		value, ok := typed.Value()
		if !ok {
			return nil
		}

		return value
	case Map:
		out := make(map[string]any, typed.Len())
		for key, child := range typed.children {
			out[key] = ToValue(child)
		}

		return out
	case Array:
		out := make([]any, len(typed.children))
		for i, child := range typed.children {
			out[i] = ToValue(child)
		}

		return out
	default:
		panic(fmt.Sprintf("node: unexpected node type %T", n))
	}
}
