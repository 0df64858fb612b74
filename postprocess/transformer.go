package postprocess

import (
	"os"

	"github.com/0xalexb/hjarta-config/lexer"
	"github.com/0xalexb/hjarta-config/navigate"
	"github.com/0xalexb/hjarta-config/node"
)

// Transformer resolves a key for substitution expressions.
type Transformer interface {
	Name() string
	Transform(scope Scope, key string) (string, bool)
}

// EnvTransformer reads environment variables.
type EnvTransformer struct {
	lookup func(string) (string, bool)
}

// NewEnvTransformer reads from the process environment.
func NewEnvTransformer() *EnvTransformer {
	return &EnvTransformer{lookup: os.LookupEnv}
}

// NewEnvTransformerFrom reads through lookup.
func NewEnvTransformerFrom(lookup func(string) (string, bool)) *EnvTransformer {
	return &EnvTransformer{lookup: lookup}
}

// Name returns "env".
func (*EnvTransformer) Name() string { return "env" }

// Transform returns the variable named key.
func (t *EnvTransformer) Transform(_ Scope, key string) (string, bool) {
	return t.lookup(key)
}

// MapTransformer resolves keys from a fixed map.
type MapTransformer struct {
	name   string
	values map[string]string
}

// NewMapTransformer returns a transformer called name over a copy of values.
func NewMapTransformer(name string, values map[string]string) *MapTransformer {
	copied := make(map[string]string, len(values))
	for key, value := range values {
		copied[key] = value
	}

	return &MapTransformer{name: name, values: copied}
}

// Name returns the transformer name.
func (t *MapTransformer) Name() string { return t.name }

// Transform returns the value stored for key.
func (t *MapTransformer) Transform(_ Scope, key string) (string, bool) {
	value, ok := t.values[key]

	return value, ok
}

// NodeTransformer resolves keys as paths in the tree being processed.
type NodeTransformer struct {
	lexer *lexer.Lexer
}

// NewNodeTransformer scans keys with lex, or the default lexer when nil.
func NewNodeTransformer(lex *lexer.Lexer) *NodeTransformer {
	if lex == nil {
		lex = lexer.Default()
	}

	return &NodeTransformer{lexer: lex}
}

// Name returns "node".
func (*NodeTransformer) Name() string { return "node" }

// Transform returns the leaf value at path key.
func (t *NodeTransformer) Transform(scope Scope, key string) (string, bool) {
	scanned := t.lexer.Scan(key)
	if !scanned.HasResults() || scanned.HasErrors() {
		return "", false
	}

	found := navigate.Navigate(scope.Root, key, scanned.Results())
	if !found.HasResults() {
		return "", false
	}

	leaf, ok := found.Results().(node.Leaf)
	if !ok {
		return "", false
	}

	return leaf.Value()
}
