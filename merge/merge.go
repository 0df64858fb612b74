// Package merge combines configuration trees with override semantics.
//
// Merge(base, overlay) returns a new tree in which the overlay wins at every
// path both trees define and every path only one of them defines is kept:
//
//	leaf  + leaf  -> overlay leaf
//	map   + map   -> key-wise union, shared keys merged recursively
//	array + array -> position-wise union, shared positions merged recursively
//	other pairs   -> overlay node, reported as UnableToMergeDifferentNodes
//
// Inputs are never modified; untouched subtrees are shared with the result.
package merge

import (
	"fmt"

	"github.com/0xalexb/hjarta-config/node"
	"github.com/0xalexb/hjarta-config/token"
	"github.com/0xalexb/hjarta-config/validation"
)

// Merge folds overlay onto base.
func Merge(base, overlay node.Node) validation.Result[node.Node] {
	var errs []validation.Error

	merged := mergeAt(nil, base, overlay, &errs)
	if merged == nil {
		return validation.Fail[node.Node](errs...)
	}

	return validation.Ok(merged, errs...)
}

// All folds trees left to right, starting from an empty map.
func All(trees ...node.Node) validation.Result[node.Node] {
	var (
		current node.Node = node.NewMap(nil)
		errs    []validation.Error
	)

	for _, tree := range trees {
		merged := Merge(current, tree)
		errs = append(errs, merged.Errors()...)

		if next, ok := merged.Value(); ok {
			current = next
		}
	}

	return validation.Ok(current, errs...)
}

func mergeAt(path []token.Token, base, overlay node.Node, errs *[]validation.Error) node.Node {
	if base == nil {
		return overlay
	}

	if overlay == nil {
		return base
	}

	switch baseNode := base.(type) {
	case node.Leaf:
		if _, ok := overlay.(node.Leaf); ok {
			return overlay
		}
	case node.Map:
		if overlayMap, ok := overlay.(node.Map); ok {
			return mergeMaps(path, baseNode, overlayMap, errs)
		}
	case node.Array:
		if overlayArray, ok := overlay.(node.Array); ok {
			return mergeArrays(path, baseNode, overlayArray, errs)
		}
	default:
		panic(fmt.Sprintf("merge: unexpected node type %T", base))
	}

	*errs = append(*errs, validation.New(validation.UnableToMergeDifferentNodes, token.Path(path)).
		WithKinds(node.KindOf(base), node.KindOf(overlay)))

	return overlay
}

func mergeMaps(path []token.Token, base, overlay node.Map, errs *[]validation.Error) node.Node {
	children := base.Children()

	for _, key := range overlay.Keys() {
		overlayChild, _ := overlay.Get(key)

		baseChild, exists := children[key]
		if !exists {
			children[key] = overlayChild

			continue
		}

		children[key] = mergeAt(token.Append(path, token.Object{Name: key}), baseChild, overlayChild, errs)
	}

	return node.NewMap(children)
}

func mergeArrays(path []token.Token, base, overlay node.Array, errs *[]validation.Error) node.Node {
	children := make([]node.Node, max(base.Len(), overlay.Len()))

	for index := range children {
		baseChild, _ := base.At(index)
		overlayChild, _ := overlay.At(index)

		if baseChild != nil && overlayChild != nil {
			children[index] = mergeAt(token.Append(path, token.Array{Index: index}), baseChild, overlayChild, errs)

			continue
		}

		if overlayChild != nil {
			children[index] = overlayChild
		} else {
			children[index] = baseChild
		}
	}

	return node.NewArray(children)
}
