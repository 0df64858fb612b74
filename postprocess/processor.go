package postprocess

import (
	"github.com/0xalexb/hjarta-config/node"
	"github.com/0xalexb/hjarta-config/tag"
	"github.com/0xalexb/hjarta-config/token"
	"github.com/0xalexb/hjarta-config/validation"
)

// Scope is the tree being processed and its tags.
type Scope struct {
	Root node.Node
	Tags tag.Tags
}

// Processor rewrites one node at path.
type Processor interface {
	Name() string
	Process(scope Scope, path string, current node.Node) validation.Result[node.Node]
}

type funcProcessor struct {
	name string
	fn   func(path string, current node.Node) (node.Node, error)
}

// Func adapts fn into a Processor. An error from fn is reported as
// PostProcessorFailed and the node is left unchanged.
//
//nolint:ireturn // processors are consumed through the interface
func Func(name string, fn func(path string, current node.Node) (node.Node, error)) Processor {
	return &funcProcessor{name: name, fn: fn}
}

func (p *funcProcessor) Name() string {
	return p.name
}

func (p *funcProcessor) Process(_ Scope, path string, current node.Node) validation.Result[node.Node] {
	next, err := p.fn(path, current)
	if err != nil {
		return validation.Fail[node.Node](validation.New(validation.PostProcessorFailed, path).
			WithElement(p.name).
			WithValue(err.Error()))
	}

	return validation.Ok(next)
}

// Apply runs processors over every leaf of root and returns the new tree.
// With failFast the pass stops at the first error-level finding.
func Apply(root node.Node, tags tag.Tags, processors []Processor, failFast bool) validation.Result[node.Node] {
	if root == nil {
		return validation.Fail[node.Node]()
	}

	walk := &applyRun{
		scope:      Scope{Root: root, Tags: tags},
		processors: processors,
		failFast:   failFast,
	}

	processed := walk.visit(nil, root)
	if walk.aborted {
		return validation.Fail[node.Node](walk.errs...)
	}

	return validation.Ok(processed, walk.errs...)
}

type applyRun struct {
	scope      Scope
	processors []Processor
	failFast   bool
	errs       []validation.Error
	aborted    bool
}

func (r *applyRun) visit(path []token.Token, current node.Node) node.Node {
	if r.aborted {
		return current
	}

	switch typed := current.(type) {
	case node.Leaf:
		return r.leaf(token.Path(path), typed)
	case node.Map:
		children := typed.Children()
		for _, key := range typed.Keys() {
			children[key] = r.visit(token.Append(path, token.Object{Name: key}), children[key])
		}

		return node.NewMap(children)
	case node.Array:
		children := typed.Children()
		for index, child := range children {
			if child != nil {
				children[index] = r.visit(token.Append(path, token.Array{Index: index}), child)
			}
		}

		return node.NewArray(children)
	default:
		return current
	}
}

func (r *applyRun) leaf(path string, leaf node.Leaf) node.Node {
	var current node.Node = leaf

	for _, processor := range r.processors {
		result := processor.Process(r.scope, path, current)
		r.errs = append(r.errs, result.Errors()...)

		if r.failFast && validation.HasLevel(result.Errors(), validation.LevelError) {
			r.aborted = true

			return current
		}

		if next, ok := result.Value(); ok && next != nil {
			current = next
		}
	}

	return current
}
