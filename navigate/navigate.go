// Package navigate resolves token paths against configuration trees.
//
// Navigate walks one tree. Tagged selects among several trees labelled with
// tags: only trees whose tags are a subset of the requested tags take part,
// ranked by Rank, and the first tree that resolves the full path answers.
package navigate

import (
	"cmp"
	"slices"
	"strings"

	"github.com/0xalexb/hjarta-config/node"
	"github.com/0xalexb/hjarta-config/tag"
	"github.com/0xalexb/hjarta-config/token"
	"github.com/0xalexb/hjarta-config/validation"
)

// Root is a merged tree and the tags it was loaded with.
type Root struct {
	Tags tag.Tags
	Node node.Node
}

// Navigate returns the node at tokens below root. path is used in findings;
// when empty it is rendered from tokens. An empty token list returns root.
func Navigate(root node.Node, path string, tokens []token.Token) validation.Result[node.Node] {
	if path == "" {
		path = token.Path(tokens)
	}

	if root == nil {
		return validation.Fail[node.Node](validation.New(validation.NoResultsFoundForPath, path))
	}

	current := root

	for _, tok := range tokens {
		next, finding := step(current, path, tok)
		if finding != nil {
			return validation.Fail[node.Node](*finding)
		}

		current = next
	}

	return validation.Ok(current)
}

func step(current node.Node, path string, tok token.Token) (node.Node, *validation.Error) {
	switch typed := tok.(type) {
	case token.Object:
		return lookupName(current, path, typed.Name)
	case token.MapKey:
		return lookup(current, path, typed.Key)
	case token.Array:
		return index(current, path, typed.Index)
	default:
		finding := validation.New(validation.UnsupportedToken, path).WithElement(tok.String())

		return nil, &finding
	}
}

// lookupName matches object names case-insensitively. An exact key wins,
// then the lower-cased name, then the first key in sorted order equal under
// case folding.
func lookupName(current node.Node, path, name string) (node.Node, *validation.Error) {
	child, finding := lookup(current, path, name)
	if finding == nil || finding.Kind != validation.UnableToFindObjectNodeForPath {
		return child, finding
	}

	mapNode, _ := current.(node.Map)

	if lower := strings.ToLower(name); lower != name {
		if folded, ok := mapNode.Get(lower); ok {
			return folded, nil
		}
	}

	for _, key := range mapNode.Keys() {
		if strings.EqualFold(key, name) {
			folded, _ := mapNode.Get(key)

			return folded, nil
		}
	}

	return nil, finding
}

func lookup(current node.Node, path, key string) (node.Node, *validation.Error) {
	mapNode, ok := current.(node.Map)
	if !ok {
		finding := validation.New(validation.MismatchedObjectNodeForPath, path).
			WithElement(key).
			WithKinds(node.KindMap.String(), node.KindOf(current))

		return nil, &finding
	}

	child, ok := mapNode.Get(key)
	if !ok {
		finding := validation.New(validation.UnableToFindObjectNodeForPath, path).WithElement(key)

		return nil, &finding
	}

	return child, nil
}

func index(current node.Node, path string, position int) (node.Node, *validation.Error) {
	arrayNode, ok := current.(node.Array)
	if !ok {
		finding := validation.New(validation.MismatchedArrayNodeForPath, path).
			WithIndex(position).
			WithKinds(node.KindArray.String(), node.KindOf(current))

		return nil, &finding
	}

	if position >= arrayNode.Len() {
		finding := validation.New(validation.UnableToFindArrayNodeForPath, path).WithIndex(position)

		return nil, &finding
	}

	child, ok := arrayNode.At(position)
	if !ok {
		finding := validation.New(validation.ArrayMissingIndex, path).
			WithIndex(position).
			WithLevel(validation.LevelMissingValue)

		return nil, &finding
	}

	return child, nil
}

// Rank returns the roots eligible for a lookup with tags, most specific first.
// A root is eligible when its tags are a subset of tags. Ranking: more tags
// first (so an exact match leads), ties by canonical tag key, untagged last.
func Rank(roots []Root, tags tag.Tags) []Root {
	candidates := make([]Root, 0, len(roots))

	for _, root := range roots {
		if root.Node != nil && root.Tags.SubsetOf(tags) {
			candidates = append(candidates, root)
		}
	}

	slices.SortStableFunc(candidates, func(a, b Root) int {
		if bySize := cmp.Compare(b.Tags.Len(), a.Tags.Len()); bySize != 0 {
			return bySize
		}

		return strings.Compare(a.Tags.Key(), b.Tags.Key())
	})

	return candidates
}

// Tagged navigates the ranked candidates in order. A candidate that is
// missing the path passes the lookup to the next one; a structural error in a
// candidate ends the lookup. When nothing resolves, the findings of the
// highest ranked candidate are returned.
func Tagged(roots []Root, tags tag.Tags, path string, tokens []token.Token) validation.Result[node.Node] {
	candidates := Rank(roots, tags)
	if len(candidates) == 0 {
		if path == "" {
			path = token.Path(tokens)
		}

		return validation.Fail[node.Node](validation.New(validation.NoResultsFoundForTags, path).WithElement(tags.String()))
	}

	var first []validation.Error

	for i, candidate := range candidates {
		result := Navigate(candidate.Node, path, tokens)
		if result.HasResults() {
			return result
		}

		if i == 0 {
			first = result.Errors()
		}

		if validation.HasLevel(result.Errors(), validation.LevelError) {
			return validation.Fail[node.Node](result.Errors()...)
		}
	}

	return validation.Fail[node.Node](first...)
}
